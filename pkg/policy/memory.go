package policy

import (
	"strconv"
	"strings"
	"sync"
)

// MemoryWriter is an in-memory Writer. Key paths compare case-insensitively
// like the Windows registry.
type MemoryWriter struct {
	mu   sync.Mutex
	keys map[string]map[string]any
}

// NewMemoryWriter creates an empty writer
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{keys: make(map[string]map[string]any)}
}

func normalize(path string) string {
	return strings.ToLower(strings.Trim(path, `\`))
}

func (w *MemoryWriter) set(path, name string, value any) {
	k := normalize(path)
	if w.keys[k] == nil {
		w.keys[k] = make(map[string]any)
	}
	w.keys[k][name] = value
}

func (w *MemoryWriter) SetDWORD(path, name string, value uint32) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.set(path, name, value)
	return nil
}

func (w *MemoryWriter) SetString(path, name, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.set(path, name, value)
	return nil
}

func (w *MemoryWriter) SetStringList(path, subkey string, values []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	full := path + `\` + subkey
	w.keys[normalize(full)] = make(map[string]any)
	for i, v := range values {
		w.set(full, strconv.Itoa(i+1), v)
	}
	return nil
}

func (w *MemoryWriter) DeleteValue(path, name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if vals, ok := w.keys[normalize(path)]; ok {
		delete(vals, name)
	}
	return nil
}

// Value returns a stored value
func (w *MemoryWriter) Value(path, name string) (any, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	v, ok := w.keys[normalize(path)][name]
	return v, ok
}

// Values returns a copy of every value under path
func (w *MemoryWriter) Values(path string) map[string]any {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]any, len(w.keys[normalize(path)]))
	for k, v := range w.keys[normalize(path)] {
		out[k] = v
	}
	return out
}
