package sccb

import (
	"errors"
	"sync"
)

// ErrInjected is returned by Memory for faults armed by the caller.
var ErrInjected = errors.New("injected bus fault")

// Access is one journaled register transaction.
type Access struct {
	Write bool
	Addr  uint16
	Val   uint8
}

// Memory is an in-memory register file. It records every successful
// write in a journal and can be armed to fail specific transactions.
type Memory struct {
	mu         sync.Mutex
	regs       map[uint16]uint8
	journal    []Access
	failAfter  int // writes left before the armed one fails; 0 means disarmed
	failWrites map[uint16]bool
	failReads  map[uint16]bool
	writeCount int
	readCount  int
}

// NewMemory returns a register file preloaded with initial.
func NewMemory(initial map[uint16]uint8) *Memory {
	m := &Memory{
		regs:       make(map[uint16]uint8, len(initial)),
		failWrites: make(map[uint16]bool),
		failReads:  make(map[uint16]bool),
	}
	for addr, val := range initial {
		m.regs[addr] = val
	}
	return m
}

// ReadReg returns the stored value, zero for never-written registers.
func (m *Memory) ReadReg(addr uint16) (uint8, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.readCount++
	if m.failReads[addr] {
		return 0, readErr(addr, ErrInjected)
	}
	return m.regs[addr], nil
}

// WriteReg stores val unless a fault is armed for this write.
func (m *Memory) WriteReg(addr uint16, val uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writeCount++
	if m.failAfter > 0 {
		m.failAfter--
		if m.failAfter == 0 {
			return writeErr(addr, ErrInjected)
		}
	}
	if m.failWrites[addr] {
		return writeErr(addr, ErrInjected)
	}
	m.regs[addr] = val
	m.journal = append(m.journal, Access{Write: true, Addr: addr, Val: val})
	return nil
}

// FailNthWrite arms a fault on the nth write from now (1-based).
func (m *Memory) FailNthWrite(n int) {
	m.mu.Lock()
	m.failAfter = n
	m.mu.Unlock()
}

// FailWritesTo makes every write to addr fail until cleared.
func (m *Memory) FailWritesTo(addr uint16, fail bool) {
	m.mu.Lock()
	m.failWrites[addr] = fail
	m.mu.Unlock()
}

// FailReadsOf makes every read of addr fail until cleared.
func (m *Memory) FailReadsOf(addr uint16, fail bool) {
	m.mu.Lock()
	m.failReads[addr] = fail
	m.mu.Unlock()
}

// Peek returns a register value without counting a transaction.
func (m *Memory) Peek(addr uint16) uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regs[addr]
}

// Journal returns a copy of the successful writes in issue order.
func (m *Memory) Journal() []Access {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Access, len(m.journal))
	copy(out, m.journal)
	return out
}

// ResetJournal clears the journal and transaction counters.
func (m *Memory) ResetJournal() {
	m.mu.Lock()
	m.journal = nil
	m.writeCount = 0
	m.readCount = 0
	m.mu.Unlock()
}

// Counts returns attempted reads and writes since the last reset.
func (m *Memory) Counts() (reads, writes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readCount, m.writeCount
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
