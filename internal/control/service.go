// Package control owns the attached sensor. It serializes every
// operation, publishes the resulting state changes on the event bus and
// keeps the metrics in step.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/smazurov/sensorctl/internal/config"
	"github.com/smazurov/sensorctl/internal/events"
	"github.com/smazurov/sensorctl/internal/metrics"
	"github.com/smazurov/sensorctl/pkg/sccb"
	"github.com/smazurov/sensorctl/pkg/sensor"
	"github.com/smazurov/sensorctl/pkg/sensor/mira220"
)

// ErrNotAttached is returned by every sensor operation while no sensor is
// attached.
var ErrNotAttached = errors.New("no sensor attached")

// Options configures a Service.
type Options struct {
	Transport     sccb.Config
	Power         sensor.PowerControl
	DefaultFormat string // catalog name, empty for the built-in default
	HoldDelay     uint8
	EventBus      *events.Bus
	Logger        *slog.Logger

	// Open replaces sccb.Open.
	Open func(sccb.Config) (sccb.Bus, error)
	// SensorOptions are appended to the options the service passes to
	// mira220.Detect.
	SensorOptions []mira220.Option
}

// Service is the single owner of the sensor controller.
type Service struct {
	mu     sync.Mutex
	opts   Options
	logger *slog.Logger
	bus    *events.Bus

	transport sccb.Bus
	sensor    *mira220.Controller
	holdDelay uint8
}

// NewService creates a detached service.
func NewService(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Open == nil {
		opts.Open = sccb.Open
	}
	if opts.EventBus == nil {
		opts.EventBus = events.New()
	}
	holdDelay := opts.HoldDelay
	if holdDelay == 0 {
		holdDelay = mira220.DefaultHoldDelayFrames
	}
	return &Service{
		opts:      opts,
		logger:    opts.Logger,
		bus:       opts.EventBus,
		holdDelay: holdDelay,
	}
}

// Attach opens the transport, detects the sensor and applies the default
// format. Attaching an attached service is a no-op.
func (s *Service) Attach(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sensor != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tr, err := s.opts.Open(s.opts.Transport)
	if err != nil {
		metrics.ObserveOperation("attach", err)
		return fmt.Errorf("open %s transport: %w", transportKind(s.opts.Transport), err)
	}

	sensorOpts := []mira220.Option{
		mira220.WithLogger(s.logger.With("sensor", mira220.Name)),
		mira220.WithHoldDelay(s.holdDelay),
	}
	if s.opts.Power != nil {
		sensorOpts = append(sensorOpts, mira220.WithPower(s.opts.Power))
	}
	if s.opts.DefaultFormat != "" {
		sensorOpts = append(sensorOpts, mira220.WithDefaultFormat(s.opts.DefaultFormat))
	}
	sensorOpts = append(sensorOpts, s.opts.SensorOptions...)

	ctrl, err := mira220.Detect(sccb.Instrument(tr, metrics.BusObserver{}), sensorOpts...)
	if err != nil {
		tr.Close()
		s.failed("attach", err)
		return err
	}

	if err := ctrl.SetFormat(sensor.FormatDefault); err != nil {
		if closeErr := ctrl.Close(); closeErr != nil {
			s.logger.Warn("Close after failed default format", "error", closeErr)
		}
		tr.Close()
		s.failed("attach", err)
		return err
	}

	s.transport = tr
	s.sensor = ctrl
	metrics.ObserveOperation("attach", nil)

	id := ctrl.Identity()
	s.logger.Info("Sensor attached", "sensor", id.Name, "transport", transportKind(s.opts.Transport))
	s.bus.Publish(events.SensorAttachedEvent{
		Sensor:    id.Name,
		PartID:    id.PartID,
		Transport: transportKind(s.opts.Transport),
		Timestamp: events.Now(),
	})
	s.publishFormat(ctrl)
	return nil
}

// Detach stops the stream if needed, powers the sensor off and closes the
// transport. Detaching a detached service is a no-op.
func (s *Service) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sensor == nil {
		return nil
	}

	var errs []error
	if s.sensor.Streaming() {
		if err := s.sensor.EnableStreaming(false); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.sensor.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.transport.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close transport: %w", err))
	}

	name := s.sensor.Name()
	s.sensor = nil
	s.transport = nil

	err := errors.Join(errs...)
	metrics.ObserveOperation("detach", err)
	s.logger.Info("Sensor detached", "sensor", name)
	s.bus.Publish(events.SensorDetachedEvent{Sensor: name, Timestamp: events.Now()})
	return err
}

// HoldDelay returns the hold delay used for single parameter changes and
// for groups that do not name one.
func (s *Service) HoldDelay() uint8 {
	return s.holdDelay
}

// EventBus returns the bus the service publishes on.
func (s *Service) EventBus() *events.Bus {
	return s.bus
}

func (s *Service) attached() (*mira220.Controller, error) {
	if s.sensor == nil {
		return nil, ErrNotAttached
	}
	return s.sensor, nil
}

func (s *Service) failed(operation string, err error) {
	metrics.ObserveOperation(operation, err)
	s.logger.Warn("Sensor operation failed", "operation", operation, "error", err)
	s.bus.Publish(events.OperationFailedEvent{
		Operation: operation,
		Error:     err.Error(),
		Timestamp: events.Now(),
	})
}

func (s *Service) publishFormat(ctrl *mira220.Controller) {
	f, err := ctrl.Format()
	if err != nil {
		return
	}
	s.bus.Publish(events.FormatAppliedEvent{
		FormatID:  formatIndex(ctrl.Formats(), f.Name),
		Name:      f.Name,
		Width:     f.Width,
		Height:    f.Height,
		FPS:       f.FPS,
		Registers: f.Program.Len(),
		Timestamp: events.Now(),
	})
}

func formatIndex(formats []sensor.FormatDescriptor, name string) int {
	id, _ := sensor.Catalog{Formats: formats}.ByName(name)
	return int(id)
}

func transportKind(cfg sccb.Config) string {
	if cfg.Kind == "" {
		return sccb.KindSim
	}
	return cfg.Kind
}

// ApplyPreset applies every value of p in one group-hold transaction.
func (s *Service) ApplyPreset(p config.Preset) error {
	changes := p.Changes()
	if len(changes) == 0 {
		return nil
	}
	return s.ApplyGroup(changes, p.HoldDelay(s.holdDelay), "preset")
}

// WatchPreset applies the preset at path now and again whenever the file
// changes. The returned watcher must be stopped by the caller.
func (s *Service) WatchPreset(ctx context.Context, path string) (*config.Watcher[config.Preset], error) {
	p, err := config.LoadPreset(path)
	if err != nil {
		return nil, err
	}
	if err := s.ApplyPreset(p); err != nil {
		s.logger.Warn("Initial preset not applied", "path", path, "error", err)
	}

	w := config.NewConfigWatcher(path, config.LoadPreset, s.logger.With("watcher", "preset"))
	w.OnReload(func(p config.Preset) {
		if err := s.ApplyPreset(p); err != nil {
			s.logger.Warn("Reloaded preset not applied", "path", path, "error", err)
		}
	})
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return w, nil
}
