/*
Package events provides an in-memory event broker for reconciliation progress.

The reconciler publishes one event per decision it makes: a module enabled,
disabled, failed or skipped, a tree node enabled, already satisfied or left
blocked, and the start and end of every apply pass. Subscribers receive the
events asynchronously on buffered channels; the CLI uses a subscription to
print progress lines while an apply pass runs.

Events are an observability side channel only. Nothing published here is ever
read back by the reconciler, so a slow or missing subscriber cannot change the
outcome of an apply pass.

# Delivery

	Publisher → event channel (buffer: 100) → broadcast loop → subscribers (buffer: 50 each)

Publish blocks only while the main channel is full. A subscriber whose buffer
is full misses the event rather than stalling the loop. Stop delivers events
still queued, then closes every subscriber channel so consumers ranging over a
subscription terminate.

# Usage

	broker := events.NewBroker()
	broker.Start()

	sub := broker.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range sub {
			fmt.Printf("%s %s\n", event.Type, event.Module)
		}
	}()

	rec := reconciler.New(registry, reconciler.WithPublisher(broker))
	_, err := rec.Apply(ctx, set)

	broker.Stop()
	<-done

Recorder is a synchronous Publisher used by tests that need to assert on the
exact event sequence.
*/
package events
