// Package policy writes machine-wide OS policy values.
//
// On Windows values live under HKEY_LOCAL_MACHINE. Other platforms have no
// policy registry and every write returns ErrUnsupported, which modules treat
// as "nothing to do". MemoryWriter keeps values in memory for tests.
package policy
