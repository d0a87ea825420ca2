package sensor

import (
	"fmt"
	"strings"

	"github.com/smazurov/sensorctl/pkg/sccb"
)

// Register is one (address, value) pair of a register program.
type Register struct {
	Addr uint16
	Val  uint8
}

// EndOfProgram terminates a RegisterProgram and is never written.
var EndOfProgram = Register{Addr: 0xFFFF, Val: 0xFF}

// RegisterProgram is an ordered list of register writes.
type RegisterProgram []Register

// Len returns the number of pairs before the terminator.
func (p RegisterProgram) Len() int {
	for i, r := range p {
		if r == EndOfProgram {
			return i
		}
	}
	return len(p)
}

func (p RegisterProgram) String() string {
	var sb strings.Builder
	for i := 0; i < p.Len(); i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%04X=%02X", p[i].Addr, p[i].Val)
	}
	return sb.String()
}

// WriteProgram writes the pairs of p in order and stops at the terminator.
// The first failing write aborts the walk; written is the number of pairs
// that succeeded before it.
func WriteProgram(tr sccb.Transport, p RegisterProgram) (written int, err error) {
	for _, r := range p {
		if r == EndOfProgram {
			break
		}
		if err := tr.WriteReg(r.Addr, r.Val); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
