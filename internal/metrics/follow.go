package metrics

import "github.com/smazurov/sensorctl/internal/events"

// Follow keeps the sensor gauges in step with the event bus. It returns
// a function that stops following.
func Follow(bus *events.Bus) func() {
	unsubs := []func(){
		events.Subscribe(bus, func(events.SensorAttachedEvent) {
			SetAttached(true)
		}),
		events.Subscribe(bus, func(events.SensorDetachedEvent) {
			SetAttached(false)
		}),
		events.Subscribe(bus, func(e events.FormatAppliedEvent) {
			SetFormat(e.Name)
		}),
		events.Subscribe(bus, func(e events.StreamStateChangedEvent) {
			SetStreaming(e.Streaming)
		}),
		events.Subscribe(bus, func(e events.ParamChangedEvent) {
			SetParam(e.Param, e.Value)
		}),
		events.Subscribe(bus, func(e events.GroupAppliedEvent) {
			for _, c := range e.Changes {
				SetParam(c.Param, c.Value)
			}
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
