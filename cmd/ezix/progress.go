package main

import (
	"fmt"
	"io"

	"github.com/ezix/ezix/pkg/events"
)

// formatEvent renders one progress line. Events without a line return "".
func formatEvent(e *events.Event) string {
	switch e.Type {
	case events.EventModuleEnabled:
		return fmt.Sprintf("✓ %s enabled", e.Module)
	case events.EventModuleDisabled:
		if e.Metadata["source"] == "default" {
			return fmt.Sprintf("✓ %s disabled (not declared)", e.Module)
		}
		return fmt.Sprintf("✓ %s disabled", e.Module)
	case events.EventNodeEnabled:
		return fmt.Sprintf("✓ %s enabled", e.Module)
	case events.EventNodeSatisfied:
		return fmt.Sprintf("= %s already satisfied", e.Module)
	case events.EventNodeBlocked:
		return fmt.Sprintf("! %s not satisfied after enable, children skipped", e.Module)
	case events.EventModuleFailed, events.EventNodeFailed:
		return fmt.Sprintf("✗ %s", e.Message)
	case events.EventModuleSkipped:
		return fmt.Sprintf("- %s skipped", e.Module)
	default:
		return ""
	}
}

// printProgress writes a line per event until sub is closed, then closes
// done
func printProgress(out io.Writer, sub events.Subscriber, done chan<- struct{}) {
	defer close(done)
	for e := range sub {
		if line := formatEvent(e); line != "" {
			fmt.Fprintln(out, line)
		}
	}
}
