package events

import (
	"encoding/json"
	"testing"
	"time"
)

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
		var zero T
		return zero
	}
}

func TestBusPublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan FormatAppliedEvent, 1)

	unsub := Subscribe(bus, func(e FormatAppliedEvent) { received <- e })
	defer unsub()

	bus.Publish(FormatAppliedEvent{Name: "MIPI_2lane_RAW8_1024_600_6fps", Width: 1024, Height: 600})

	got := receive(t, received)
	if got.Name != "MIPI_2lane_RAW8_1024_600_6fps" || got.Width != 1024 {
		t.Errorf("received %+v", got)
	}
}

func TestBusMultipleSubscribers(t *testing.T) {
	bus := New()
	first := make(chan StreamStateChangedEvent, 1)
	second := make(chan StreamStateChangedEvent, 1)

	defer Subscribe(bus, func(e StreamStateChangedEvent) { first <- e })()
	defer Subscribe(bus, func(e StreamStateChangedEvent) { second <- e })()

	bus.Publish(StreamStateChangedEvent{Streaming: true, State: "streaming"})

	if e := receive(t, first); !e.Streaming {
		t.Error("first subscriber got Streaming = false")
	}
	if e := receive(t, second); e.State != "streaming" {
		t.Errorf("second subscriber got State = %q", e.State)
	}
}

func TestBusTypeIsolation(t *testing.T) {
	bus := New()
	params := make(chan ParamChangedEvent, 1)
	groups := make(chan GroupAppliedEvent, 1)

	defer Subscribe(bus, func(e ParamChangedEvent) { params <- e })()
	defer Subscribe(bus, func(e GroupAppliedEvent) { groups <- e })()

	bus.Publish(GroupAppliedEvent{Changes: []ParamValue{{Param: "gain", Value: 3}}, HoldDelayFrames: 1})

	if e := receive(t, groups); len(e.Changes) != 1 {
		t.Errorf("group changes = %v", e.Changes)
	}
	select {
	case e := <-params:
		t.Errorf("param subscriber received %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := New()
	received := make(chan ParamChangedEvent, 2)

	unsub := Subscribe(bus, func(e ParamChangedEvent) { received <- e })
	bus.Publish(ParamChangedEvent{Param: "vflip", Value: 1})
	receive(t, received)

	unsub()
	bus.Publish(ParamChangedEvent{Param: "vflip", Value: 0})

	select {
	case e := <-received:
		t.Errorf("received %+v after unsubscribe", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeAll(t *testing.T) {
	bus := New()
	ch := make(chan any, 8)
	unsub := SubscribeAll(bus, ch)
	defer unsub()

	bus.Publish(SensorAttachedEvent{Sensor: "mira220", PartID: 0x0130})
	bus.Publish(OperationFailedEvent{Operation: "set_format", Error: "nack"})

	seen := map[uint32]bool{}
	for i := 0; i < 2; i++ {
		ev, ok := receive(t, ch).(Event)
		if !ok {
			t.Fatal("received value is not an Event")
		}
		seen[ev.Type()] = true
	}
	if !seen[TypeSensorAttached] || !seen[TypeOperationFailed] {
		t.Errorf("seen = %v, want attached and failed", seen)
	}
}

func TestSubscribeToChannelDropsWhenFull(t *testing.T) {
	bus := New()
	ch := make(chan any) // unbuffered, nobody reading
	defer SubscribeToChannel[ParamChangedEvent](bus, ch)()

	done := make(chan struct{})
	go func() {
		bus.Publish(ParamChangedEvent{Param: "gain", Value: 1})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber channel")
	}
}

func TestEventJSON(t *testing.T) {
	data, err := json.Marshal(SensorAttachedEvent{Sensor: "mira220", PartID: 0x0130, Transport: "sim"})
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got["part_id"] != float64(0x0130) || got["transport"] != "sim" {
		t.Errorf("json = %s", data)
	}
}

func TestNowIsRFC3339(t *testing.T) {
	if _, err := time.Parse(time.RFC3339Nano, Now()); err != nil {
		t.Errorf("Now() = %q: %v", Now(), err)
	}
}
