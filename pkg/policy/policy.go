package policy

import "errors"

// ErrUnsupported is returned on platforms without a policy registry
var ErrUnsupported = errors.New("policy registry not supported on this platform")

// Writer sets and clears policy values. Paths are backslash-separated key
// paths relative to the machine root.
type Writer interface {
	SetDWORD(path, name string, value uint32) error
	SetString(path, name, value string) error

	// SetStringList replaces subkey under path with values named "1".."n"
	SetStringList(path, subkey string, values []string) error

	// DeleteValue removes a value. Missing keys and values are not errors.
	DeleteValue(path, name string) error
}
