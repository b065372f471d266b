//go:build !windows

package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemWriter_Unsupported(t *testing.T) {
	w := NewSystemWriter()

	assert.ErrorIs(t, w.SetDWORD(explorer, "NoControlPanel", 1), ErrUnsupported)
	assert.ErrorIs(t, w.SetString(explorer, "x", "y"), ErrUnsupported)
	assert.ErrorIs(t, w.SetStringList(explorer, "x", nil), ErrUnsupported)
	assert.ErrorIs(t, w.DeleteValue(explorer, "x"), ErrUnsupported)
}
