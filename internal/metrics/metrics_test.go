package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smazurov/sensorctl/internal/events"
	"github.com/smazurov/sensorctl/pkg/sccb"
)

func TestBusObserver(t *testing.T) {
	obs := BusObserver{}
	okBefore := testutil.ToFloat64(busTransactions.WithLabelValues("read", "ok"))
	errBefore := testutil.ToFloat64(busTransactions.WithLabelValues("write", "error"))
	injBefore := testutil.ToFloat64(busTransactions.WithLabelValues("write", "injected"))

	obs.ObserveTransaction("read", 0x0025, 100*time.Microsecond, nil)
	obs.ObserveTransaction("write", 0x1000, time.Millisecond, errors.New("nack"))
	obs.ObserveTransaction("write", 0x1000, time.Millisecond, fmt.Errorf("wrapped: %w", sccb.ErrInjected))

	if got := testutil.ToFloat64(busTransactions.WithLabelValues("read", "ok")) - okBefore; got != 1 {
		t.Errorf("read ok delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(busTransactions.WithLabelValues("write", "error")) - errBefore; got != 1 {
		t.Errorf("write error delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(busTransactions.WithLabelValues("write", "injected")) - injBefore; got != 1 {
		t.Errorf("write injected delta = %v, want 1", got)
	}
}

func TestInstrumentedTransport(t *testing.T) {
	before := testutil.ToFloat64(busTransactions.WithLabelValues("write", "ok"))

	tr := sccb.Instrument(sccb.NewMemory(nil), BusObserver{})
	for i := 0; i < 3; i++ {
		if err := tr.WriteReg(0x209C, 1); err != nil {
			t.Fatal(err)
		}
	}

	if got := testutil.ToFloat64(busTransactions.WithLabelValues("write", "ok")) - before; got != 3 {
		t.Errorf("write ok delta = %v, want 3", got)
	}
}

func TestSensorGauges(t *testing.T) {
	SetAttached(true)
	SetFormat("a")
	SetFormat("b")
	SetStreaming(true)

	if got := testutil.ToFloat64(sensorAttached); got != 1 {
		t.Errorf("attached = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(sensorFormat); got != 1 {
		t.Errorf("format series = %d, want 1", got)
	}
	if got := testutil.ToFloat64(sensorFormat.WithLabelValues("b")); got != 1 {
		t.Errorf("format b = %v, want 1", got)
	}

	SetAttached(false)
	if got := testutil.ToFloat64(sensorStreaming); got != 0 {
		t.Errorf("streaming after detach = %v, want 0", got)
	}
	if got := testutil.CollectAndCount(sensorFormat); got != 0 {
		t.Errorf("format series after detach = %d, want 0", got)
	}
}

func TestObserveOperation(t *testing.T) {
	before := testutil.ToFloat64(sensorOperations.WithLabelValues("set_format", "error"))
	ObserveOperation("set_format", errors.New("nack"))
	ObserveOperation("set_format", nil)

	if got := testutil.ToFloat64(sensorOperations.WithLabelValues("set_format", "error")) - before; got != 1 {
		t.Errorf("set_format error delta = %v, want 1", got)
	}
}

func TestFollow(t *testing.T) {
	bus := events.New()
	stop := Follow(bus)
	defer stop()

	bus.Publish(events.GroupAppliedEvent{Changes: []events.ParamValue{{Param: "gain", Value: 12}}})

	deadline := time.Now().Add(time.Second)
	for testutil.ToFloat64(sensorParam.WithLabelValues("gain")) != 12 {
		if time.Now().After(deadline) {
			t.Fatal("gain gauge not updated from group event")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
