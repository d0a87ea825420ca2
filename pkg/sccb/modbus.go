package sccb

import (
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// registerClient is the subset of modbus.Client used by the gateway adapter.
type registerClient interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	WriteSingleRegister(address, value uint16) ([]byte, error)
}

// ModbusBridge reaches the sensor through a Modbus/TCP gateway that maps
// each sensor register onto the holding register of the same address.
// Only the low byte of a holding register is significant.
type ModbusBridge struct {
	mu      sync.Mutex
	client  registerClient
	handler *modbus.TCPClientHandler
}

// OpenModbusBridge connects to the gateway at endpoint (host:port).
func OpenModbusBridge(endpoint string, unitID uint8, timeout time.Duration) (*ModbusBridge, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("modbus endpoint required")
	}
	h := modbus.NewTCPClientHandler(endpoint)
	h.SlaveId = unitID
	if timeout > 0 {
		h.Timeout = timeout
	}
	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect modbus gateway %s: %w", endpoint, err)
	}
	return &ModbusBridge{client: modbus.NewClient(h), handler: h}, nil
}

// ReadReg reads the holding register mirroring addr.
func (b *ModbusBridge) ReadReg(addr uint16) (uint8, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	res, err := b.client.ReadHoldingRegisters(addr, 1)
	if err != nil {
		return 0, readErr(addr, err)
	}
	if len(res) != 2 {
		return 0, readErr(addr, fmt.Errorf("invalid response length (%d)", len(res)))
	}
	return res[1], nil
}

// WriteReg writes val into the holding register mirroring addr.
func (b *ModbusBridge) WriteReg(addr uint16, val uint8) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.client.WriteSingleRegister(addr, uint16(val)); err != nil {
		return writeErr(addr, err)
	}
	return nil
}

// Close drops the gateway connection.
func (b *ModbusBridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handler == nil {
		return nil
	}
	return b.handler.Close()
}
