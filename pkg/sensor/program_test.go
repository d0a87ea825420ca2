package sensor

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/smazurov/sensorctl/pkg/sccb"
)

func TestWriteProgram(t *testing.T) {
	m := sccb.NewMemory(nil)
	p := RegisterProgram{
		{Addr: 0x3000, Val: 0x01},
		{Addr: 0x3001, Val: 0x02},
		{Addr: 0x3000, Val: 0x03},
		EndOfProgram,
		{Addr: 0x4000, Val: 0x04},
	}

	n, err := WriteProgram(m, p)
	if err != nil {
		t.Fatalf("WriteProgram() error = %v", err)
	}
	if n != 3 {
		t.Errorf("WriteProgram() written = %d, want 3", n)
	}

	want := []sccb.Access{
		{Write: true, Addr: 0x3000, Val: 0x01},
		{Write: true, Addr: 0x3001, Val: 0x02},
		{Write: true, Addr: 0x3000, Val: 0x03},
	}
	if diff := cmp.Diff(want, m.Journal()); diff != "" {
		t.Errorf("journal mismatch (-want +got):\n%s", diff)
	}
	if got := m.Peek(0x3000); got != 0x03 {
		t.Errorf("last write to 0x3000 = 0x%02X, want 0x03", got)
	}
}

func TestWriteProgramStopsAtFailure(t *testing.T) {
	m := sccb.NewMemory(nil)
	m.FailNthWrite(2)
	p := RegisterProgram{
		{Addr: 0x0001, Val: 0x01},
		{Addr: 0x0002, Val: 0x02},
		{Addr: 0x0003, Val: 0x03},
		EndOfProgram,
	}

	n, err := WriteProgram(m, p)
	if !errors.Is(err, sccb.ErrInjected) {
		t.Fatalf("WriteProgram() error = %v, want injected fault", err)
	}
	if n != 1 {
		t.Errorf("WriteProgram() written = %d, want 1", n)
	}
	if _, writes := m.Counts(); writes != 2 {
		t.Errorf("attempted writes = %d, want 2", writes)
	}
}

func TestWriteProgramEmpty(t *testing.T) {
	m := sccb.NewMemory(nil)

	n, err := WriteProgram(m, RegisterProgram{EndOfProgram})
	if err != nil || n != 0 {
		t.Errorf("WriteProgram(terminator only) = %d, %v, want 0, nil", n, err)
	}
	if _, writes := m.Counts(); writes != 0 {
		t.Errorf("terminator was written")
	}
}

func TestRegisterProgramString(t *testing.T) {
	p := RegisterProgram{{Addr: 0x1000, Val: 0x01}, {Addr: 0x209C, Val: 0x00}, EndOfProgram}

	if got, want := p.Len(), 2; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
	if got, want := p.String(), "1000=01 209C=00"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
