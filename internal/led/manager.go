package led

import (
	"log/slog"
	"sync"

	"github.com/smazurov/sensorctl/internal/events"
)

// Manager follows sensor events and updates the status LED.
type Manager struct {
	controller Controller
	bus        *events.Bus
	logger     *slog.Logger

	mu        sync.Mutex
	attached  bool
	streaming bool
	unsubs    []func()
}

// NewManager creates a manager for controller.
func NewManager(controller Controller, bus *events.Bus, logger *slog.Logger) *Manager {
	return &Manager{controller: controller, bus: bus, logger: logger}
}

// Start subscribes to sensor events.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.unsubs = append(m.unsubs,
		events.Subscribe(m.bus, func(events.SensorAttachedEvent) {
			m.update(func() { m.attached, m.streaming = true, false })
		}),
		events.Subscribe(m.bus, func(events.SensorDetachedEvent) {
			m.update(func() { m.attached, m.streaming = false, false })
		}),
		events.Subscribe(m.bus, func(e events.StreamStateChangedEvent) {
			m.update(func() { m.streaming = e.Streaming })
		}),
	)
	m.logger.Info("LED manager started")
}

// Stop unsubscribes and switches the LED off.
func (m *Manager) Stop() {
	m.mu.Lock()
	for _, u := range m.unsubs {
		u()
	}
	m.unsubs = nil
	m.mu.Unlock()

	if err := m.controller.Set(StatusLED, false, ""); err != nil {
		m.logger.Debug("Failed to switch status LED off", "error", err)
	}
	m.logger.Info("LED manager stopped")
}

// Controller returns the underlying controller.
func (m *Manager) Controller() Controller {
	return m.controller
}

func (m *Manager) update(apply func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	apply()

	var err error
	switch {
	case m.streaming:
		err = m.controller.Set(StatusLED, true, "solid")
	case m.attached:
		err = m.controller.Set(StatusLED, true, "blink")
	default:
		err = m.controller.Set(StatusLED, false, "none")
	}
	if err != nil {
		m.logger.Warn("Failed to update status LED", "error", err)
	}
}
