//go:build !linux

package hotplug

import (
	"context"
	"errors"
)

// Monitor is unavailable off Linux.
type Monitor struct{}

// NewMonitor always fails off Linux.
func NewMonitor() (*Monitor, error) {
	return nil, errors.New("hotplug: uevents require linux")
}

// AddSubsystemFilter does nothing.
func (m *Monitor) AddSubsystemFilter(string) {}

// Run returns immediately.
func (m *Monitor) Run(_ context.Context, out chan<- Event) error {
	close(out)
	return errors.New("hotplug: uevents require linux")
}

// Close does nothing.
func (m *Monitor) Close() error { return nil }
