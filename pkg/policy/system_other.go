//go:build !windows

package policy

type unsupportedWriter struct{}

// NewSystemWriter returns a writer that fails every call with ErrUnsupported
func NewSystemWriter() Writer {
	return unsupportedWriter{}
}

func (unsupportedWriter) SetDWORD(string, string, uint32) error { return ErrUnsupported }
func (unsupportedWriter) SetString(string, string, string) error { return ErrUnsupported }
func (unsupportedWriter) SetStringList(string, string, []string) error { return ErrUnsupported }
func (unsupportedWriter) DeleteValue(string, string) error { return ErrUnsupported }
