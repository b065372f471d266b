//go:build windows

package policy

import (
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sys/windows/registry"
)

type registryWriter struct {
	root registry.Key
}

// NewSystemWriter returns a writer for HKEY_LOCAL_MACHINE
func NewSystemWriter() Writer {
	return &registryWriter{root: registry.LOCAL_MACHINE}
}

func (w *registryWriter) create(path string) (registry.Key, error) {
	k, _, err := registry.CreateKey(w.root, path, registry.SET_VALUE)
	if err != nil {
		return 0, fmt.Errorf("failed to open policy key %s: %w", path, err)
	}
	return k, nil
}

func (w *registryWriter) SetDWORD(path, name string, value uint32) error {
	k, err := w.create(path)
	if err != nil {
		return err
	}
	defer k.Close()

	if err := k.SetDWordValue(name, value); err != nil {
		return fmt.Errorf("failed to set %s\\%s: %w", path, name, err)
	}
	return nil
}

func (w *registryWriter) SetString(path, name, value string) error {
	k, err := w.create(path)
	if err != nil {
		return err
	}
	defer k.Close()

	if err := k.SetStringValue(name, value); err != nil {
		return fmt.Errorf("failed to set %s\\%s: %w", path, name, err)
	}
	return nil
}

func (w *registryWriter) SetStringList(path, subkey string, values []string) error {
	full := path + `\` + subkey
	if err := registry.DeleteKey(w.root, full); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("failed to clear policy key %s: %w", full, err)
	}

	k, err := w.create(full)
	if err != nil {
		return err
	}
	defer k.Close()

	for i, v := range values {
		if err := k.SetStringValue(strconv.Itoa(i+1), v); err != nil {
			return fmt.Errorf("failed to set %s\\%d: %w", full, i+1, err)
		}
	}
	return nil
}

func (w *registryWriter) DeleteValue(path, name string) error {
	k, err := registry.OpenKey(w.root, path, registry.SET_VALUE)
	if errors.Is(err, registry.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open policy key %s: %w", path, err)
	}
	defer k.Close()

	if err := k.DeleteValue(name); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("failed to delete %s\\%s: %w", path, name, err)
	}
	return nil
}
