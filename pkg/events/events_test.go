package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker_SubscribeAndPublish(t *testing.T) {
	broker := NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	assert.Equal(t, 1, broker.SubscriberCount())

	broker.Publish(&Event{Type: EventModuleEnabled, Module: "firewall"})

	select {
	case ev := <-sub:
		assert.Equal(t, EventModuleEnabled, ev.Type)
		assert.Equal(t, "firewall", ev.Module)
		assert.False(t, ev.Timestamp.IsZero(), "timestamp should be filled in")
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestBroker_StopDrainsAndClosesSubscribers(t *testing.T) {
	broker := NewBroker()
	sub := broker.Subscribe()

	// Queue events before the loop runs so Stop has something to drain.
	broker.Publish(&Event{Type: EventApplyStarted})
	broker.Publish(&Event{Type: EventApplyFinished})

	broker.Start()
	broker.Stop()

	var got []EventType
	for ev := range sub {
		got = append(got, ev.Type)
	}
	assert.Equal(t, []EventType{EventApplyStarted, EventApplyFinished}, got)
	assert.Equal(t, 0, broker.SubscriberCount())

	// Second stop and late publish are no-ops.
	broker.Stop()
	broker.Publish(&Event{Type: EventModuleFailed})
}

func TestBroker_Unsubscribe(t *testing.T) {
	broker := NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	broker.Unsubscribe(sub)
	broker.Unsubscribe(sub)

	_, ok := <-sub
	assert.False(t, ok, "channel should be closed")
	assert.Equal(t, 0, broker.SubscriberCount())
}

func TestRecorder(t *testing.T) {
	var rec Recorder
	rec.Publish(&Event{Type: EventNodeEnabled, Module: "xserver"})
	rec.Publish(&Event{Type: EventNodeBlocked, Module: "xserver/desktop"})

	require.Len(t, rec.Events(), 2)
	assert.Equal(t, []EventType{EventNodeEnabled, EventNodeBlocked}, rec.Types())
	assert.False(t, rec.Events()[0].Timestamp.IsZero())
}
