// Package sccb provides register-level access to camera sensors over
// SCCB/I2C style control buses.
//
// Every adapter implements Transport: a synchronous read or write of one
// 8-bit value at a 16-bit register address. Bus failures are reported as
// *TransportError so callers can tell them apart from protocol errors:
//
//	bus, err := sccb.Open(sccb.Config{Kind: sccb.KindI2C, Device: "/dev/i2c-1", Address: 0x54})
//	if err != nil {
//	    return err
//	}
//	defer bus.Close()
//	v, err := bus.ReadReg(0x0025)
//
// Available adapters:
//
//	i2c     Linux i2c-dev character device
//	serial  USB-CDC register bridge (ASCII WREG/RREG framing)
//	modbus  Modbus/TCP register gateway
//	sim     in-memory register file
package sccb

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Transport performs single-register transactions on the control bus.
type Transport interface {
	ReadReg(addr uint16) (uint8, error)
	WriteReg(addr uint16, val uint8) error
}

// Bus is a Transport that owns an underlying device handle.
type Bus interface {
	Transport
	io.Closer
}

// Adapter kinds accepted by Open.
const (
	KindI2C    = "i2c"
	KindSerial = "serial"
	KindModbus = "modbus"
	KindSim    = "sim"
)

// TransportError reports a failed bus transaction.
type TransportError struct {
	Op   string // "read" or "write"
	Addr uint16
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("sccb: %s 0x%04X: %v", e.Op, e.Addr, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransportError reports whether err carries a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func readErr(addr uint16, err error) error {
	return &TransportError{Op: "read", Addr: addr, Err: err}
}

func writeErr(addr uint16, err error) error {
	return &TransportError{Op: "write", Addr: addr, Err: err}
}

// Config selects and parameterizes a bus adapter.
type Config struct {
	Kind     string
	Device   string        // i2c-dev node, serial port, or host:port
	Address  uint16        // 7-bit bus address or modbus unit id
	BaudRate int           // serial only
	Timeout  time.Duration // serial and modbus
	Sim      map[uint16]uint8
}

// Open creates the adapter named by cfg.Kind.
func Open(cfg Config) (Bus, error) {
	switch cfg.Kind {
	case KindI2C:
		dev, err := OpenI2C(cfg.Device, cfg.Address)
		if err != nil {
			return nil, err
		}
		return dev, nil
	case KindSerial:
		bridge, err := OpenSerialBridge(cfg.Device, cfg.BaudRate, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return bridge, nil
	case KindModbus:
		gw, err := OpenModbusBridge(cfg.Device, uint8(cfg.Address), cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return gw, nil
	case KindSim, "":
		return NewMemory(cfg.Sim), nil
	default:
		return nil, fmt.Errorf("unknown transport kind %q", cfg.Kind)
	}
}
