// Package mira220 controls the ams MIRA220 global shutter image sensor
// over its 16-bit address SCCB register bus.
//
// Detect verifies the part id and returns a Controller in the stopped
// state with no format applied. Exposure and gain changes are always
// issued inside a group-hold transaction so the sensor latches them on
// one frame boundary.
package mira220

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/smazurov/sensorctl/pkg/sccb"
	"github.com/smazurov/sensorctl/pkg/sensor"
)

// Controller is an attached MIRA220. It is not safe for concurrent use.
type Controller struct {
	tr          sccb.Transport
	power       sensor.PowerControl
	catalog     sensor.Catalog
	defaultName string
	logger      *slog.Logger
	sleep       func(time.Duration)
	holdDelay   uint8
	identity    sensor.Identity

	format      atomic.Pointer[sensor.FormatDescriptor]
	stream      sensor.StreamState
	exposure    uint32
	gainIndex   int
	hmirror     bool
	vflip       bool
	testPattern bool
	closed      bool
}

var _ sensor.Ops = (*Controller)(nil)

// Option configures a Controller at attach time.
type Option func(*Controller)

// WithPower hands the controller its power sequencing collaborator. It is
// powered on before detection and off on Close.
func WithPower(p sensor.PowerControl) Option {
	return func(c *Controller) { c.power = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithCatalog replaces the built-in format catalog.
func WithCatalog(cat sensor.Catalog) Option {
	return func(c *Controller) { c.catalog = cat.Clone() }
}

// WithDefaultFormat makes the named catalog entry the one selected by
// sensor.FormatDefault. The name is resolved after every option has run,
// so it applies to a catalog set by WithCatalog too. An unknown name
// keeps the catalog default and logs a warning.
func WithDefaultFormat(name string) Option {
	return func(c *Controller) { c.defaultName = name }
}

// WithHoldDelay sets the frames a single exposure or gain change waits
// before taking effect.
func WithHoldDelay(frames uint8) Option {
	return func(c *Controller) { c.holdDelay = frames }
}

// WithSleep replaces time.Sleep for the settle delays.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Controller) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

func newController(tr sccb.Transport, opts ...Option) *Controller {
	c := &Controller{
		tr:        tr,
		catalog:   Catalog(),
		logger:    slog.With("component", Name),
		sleep:     time.Sleep,
		holdDelay: DefaultHoldDelayFrames,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.defaultName != "" {
		if id, ok := c.catalog.ByName(c.defaultName); ok {
			c.catalog.Default = int(id)
		} else {
			c.logger.Warn("Unknown default format, keeping catalog default", "format", c.defaultName)
		}
	}
	return c
}

// Name returns the sensor name.
func (c *Controller) Name() string { return Name }

// Identity returns the identity confirmed by Detect.
func (c *Controller) Identity() sensor.Identity { return c.identity }

// Capability reports raw bayer output only.
func (c *Controller) Capability() sensor.Capability {
	return sensor.Capability{RAW: true}
}

// Formats returns the supported formats.
func (c *Controller) Formats() []sensor.FormatDescriptor {
	return c.catalog.Clone().Formats
}

// SetFormat programs the register program of the selected format. The
// current format only changes once every pair has been written; on a
// failed write the returned *sensor.FormatError reports how many pairs
// succeeded. Re-applying the active format rewrites every register.
func (c *Controller) SetFormat(id sensor.FormatID) error {
	if c.closed {
		return sensor.ErrClosed
	}
	f, err := c.catalog.Lookup(id)
	if err != nil {
		return err
	}

	c.sleep(formatSettle)
	n, err := sensor.WriteProgram(c.tr, f.Program)
	if err != nil {
		c.logger.Error("Format apply failed", "format", f.Name, "offset", n, "error", err)
		return &sensor.FormatError{Format: f.Name, Offset: n, Err: err}
	}

	lo, hi := ExposureLimits(f)
	c.exposure = clampExposure(f.ISP.ExpDef, lo, hi)
	c.gainIndex = 0
	c.hmirror, c.vflip, c.testPattern = false, false, false
	c.format.Store(f)

	c.logger.Info("Format applied", "format", f.Name, "registers", n)
	return nil
}

// Format returns the last successfully applied format.
func (c *Controller) Format() (sensor.FormatDescriptor, error) {
	f := c.format.Load()
	if f == nil {
		return sensor.FormatDescriptor{}, sensor.ErrNoFormatSet
	}
	return f.Clone(), nil
}

// EnableStreaming starts or stops the sensor output: a mode select write,
// a settle delay, the start/stop trigger write and another settle delay.
// The streaming flag only changes after both writes succeed. Repeating the
// current state re-issues both writes.
func (c *Controller) EnableStreaming(enable bool) error {
	if c.closed {
		return sensor.ErrClosed
	}

	prev := c.stream
	modeVal, trigger, transit, final := modeStandby, stopTrigger, sensor.StreamStopping, sensor.StreamStopped
	if enable {
		modeVal, trigger, transit, final = modeStreaming, startTrigger, sensor.StreamStarting, sensor.StreamStreaming
	}

	c.stream = transit
	if err := c.tr.WriteReg(RegMode, modeVal); err != nil {
		c.stream = prev
		return &sensor.StreamError{Enable: enable, Stage: sensor.StreamStageMode, Err: err}
	}
	c.sleep(streamSettle)

	if err := c.tr.WriteReg(RegStart, trigger); err != nil {
		c.stream = prev
		return &sensor.StreamError{Enable: enable, Stage: sensor.StreamStageTrigger, Err: err}
	}
	c.sleep(streamSettle)

	c.stream = final
	c.logger.Debug("Stream state changed", "streaming", enable)
	return nil
}

// Streaming reports whether the last transition started the stream.
func (c *Controller) Streaming() bool { return c.stream == sensor.StreamStreaming }

// StreamState returns the lifecycle state.
func (c *Controller) StreamState() sensor.StreamState { return c.stream }

// ReadRegister reads a raw register.
func (c *Controller) ReadRegister(addr uint16) (uint8, error) {
	if c.closed {
		return 0, sensor.ErrClosed
	}
	return c.tr.ReadReg(addr)
}

// WriteRegister writes a raw register. The parameter cache is not updated.
func (c *Controller) WriteRegister(addr uint16, val uint8) error {
	if c.closed {
		return sensor.ErrClosed
	}
	return c.tr.WriteReg(addr, val)
}

// Close powers the sensor off and releases the controller. After a failed
// power-off no further hardware access is attempted.
func (c *Controller) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.format.Store(nil)
	if c.power == nil {
		return nil
	}
	if err := c.power.PowerOff(); err != nil {
		return fmt.Errorf("power off: %w", err)
	}
	return nil
}
