/*
Package log provides structured logging for ezix using zerolog.

A single package-level Logger is configured once by Init from the CLI flags.
Until then it discards everything, so library code and tests can log freely
without setup.

# Output

The default is a human console format on stderr with a millisecond clock:

	14:03:12.415 DBG enabling module module=firewall
	14:03:12.437 INF module enabled module=firewall

JSONOutput switches to one JSON object per line, suitable for shipping to a
log collector.

# Child loggers

Components take a child logger rather than writing to Logger directly:

	logger := log.WithComponent("reconciler")
	logger.Debug().Str("module", id).Msg("enabling module")

WithModule tags lines with the module identity, and WithRunID with the
journal run identifier, so one apply pass can be traced end to end.
*/
package log
