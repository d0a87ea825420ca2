package sccb

import "time"

// Observer receives one callback per bus transaction.
type Observer interface {
	ObserveTransaction(op string, addr uint16, took time.Duration, err error)
}

type instrumented struct {
	next Transport
	obs  Observer
}

// Instrument wraps t so every transaction is reported to obs.
func Instrument(t Transport, obs Observer) Transport {
	if obs == nil {
		return t
	}
	return &instrumented{next: t, obs: obs}
}

func (i *instrumented) ReadReg(addr uint16) (uint8, error) {
	start := time.Now()
	v, err := i.next.ReadReg(addr)
	i.obs.ObserveTransaction("read", addr, time.Since(start), err)
	return v, err
}

func (i *instrumented) WriteReg(addr uint16, val uint8) error {
	start := time.Now()
	err := i.next.WriteReg(addr, val)
	i.obs.ObserveTransaction("write", addr, time.Since(start), err)
	return err
}
