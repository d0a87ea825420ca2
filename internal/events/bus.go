// Package events is the in-process publish/subscribe bus for sensor
// state changes. Delivery is asynchronous; subscribers must not assume
// ordering across event types.
package events

import (
	"time"

	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates an event bus.
func New() *Bus {
	return &Bus{dispatcher: event.NewDispatcher()}
}

// Publish delivers ev to the subscribers of its concrete type.
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case SensorAttachedEvent:
		event.Publish(b.dispatcher, e)
	case SensorDetachedEvent:
		event.Publish(b.dispatcher, e)
	case FormatAppliedEvent:
		event.Publish(b.dispatcher, e)
	case StreamStateChangedEvent:
		event.Publish(b.dispatcher, e)
	case ParamChangedEvent:
		event.Publish(b.dispatcher, e)
	case GroupAppliedEvent:
		event.Publish(b.dispatcher, e)
	case OperationFailedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers fn for events of type T and returns the
// unsubscribe function.
func Subscribe[T Event](b *Bus, fn func(T)) func() {
	return event.Subscribe(b.dispatcher, fn)
}

// Now formats the current time the way event timestamps are written.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
