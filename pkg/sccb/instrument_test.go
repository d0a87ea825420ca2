package sccb

import (
	"testing"
	"time"
)

type recordingObserver struct {
	ops  []string
	errs int
}

func (r *recordingObserver) ObserveTransaction(op string, _ uint16, _ time.Duration, err error) {
	r.ops = append(r.ops, op)
	if err != nil {
		r.errs++
	}
}

func TestInstrument(t *testing.T) {
	mem := NewMemory(nil)
	obs := &recordingObserver{}
	tr := Instrument(mem, obs)

	_ = tr.WriteReg(1, 1)
	_, _ = tr.ReadReg(1)
	mem.FailReadsOf(2, true)
	_, _ = tr.ReadReg(2)

	if len(obs.ops) != 3 {
		t.Fatalf("observed %d transactions, want 3", len(obs.ops))
	}
	if obs.ops[0] != "write" || obs.ops[1] != "read" {
		t.Errorf("ops = %v, want [write read read]", obs.ops)
	}
	if obs.errs != 1 {
		t.Errorf("errors observed = %d, want 1", obs.errs)
	}
}

func TestInstrumentNilObserver(t *testing.T) {
	mem := NewMemory(nil)
	if tr := Instrument(mem, nil); tr != Transport(mem) {
		t.Error("Instrument(t, nil) should return t unchanged")
	}
}
