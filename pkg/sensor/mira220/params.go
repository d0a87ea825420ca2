package mira220

import (
	"math"

	"github.com/smazurov/sensorctl/pkg/sensor"
)

// QueryParam describes a parameter. Exposure ranges depend on the current
// format and are unavailable until one is applied.
func (c *Controller) QueryParam(id sensor.ParamID) (sensor.ParamDescriptor, error) {
	if c.closed {
		return sensor.ParamDescriptor{}, sensor.ErrClosed
	}
	f := c.format.Load()

	switch id {
	case sensor.ParamExposure, sensor.ParamExposureUS:
		if f == nil {
			return sensor.ParamDescriptor{}, &sensor.ParamError{ID: id, Err: sensor.ErrNoFormatSet}
		}
		if id == sensor.ParamExposure {
			return exposureDescriptor(f), nil
		}
		return exposureUSDescriptor(f), nil
	case sensor.ParamGain:
		var def uint32
		if f != nil {
			def = f.ISP.GainDef
		}
		return gainDescriptor(def), nil
	case sensor.ParamVFlip, sensor.ParamHMirror, sensor.ParamTestPattern:
		return boolDescriptor(id), nil
	default:
		c.logger.Debug("Parameter is not supported", "id", id)
		return sensor.ParamDescriptor{}, &sensor.ParamError{ID: id, Err: sensor.ErrUnsupportedParameter}
	}
}

// Param returns the cached value of a parameter.
func (c *Controller) Param(id sensor.ParamID) (sensor.Value, error) {
	if c.closed {
		return 0, sensor.ErrClosed
	}

	switch id {
	case sensor.ParamExposure:
		return sensor.Value(c.exposure), nil
	case sensor.ParamExposureUS:
		f := c.format.Load()
		if f == nil {
			return 0, &sensor.ParamError{ID: id, Err: sensor.ErrNoFormatSet}
		}
		return sensor.Value(MicrosecondsFromLines(c.exposure, f)), nil
	case sensor.ParamGain:
		return sensor.Value(c.gainIndex), nil
	case sensor.ParamVFlip:
		return sensor.BoolValue(c.vflip), nil
	case sensor.ParamHMirror:
		return sensor.BoolValue(c.hmirror), nil
	case sensor.ParamTestPattern:
		return sensor.BoolValue(c.testPattern), nil
	default:
		return 0, &sensor.ParamError{ID: id, Err: sensor.ErrUnsupportedParameter}
	}
}

// SetParam validates and writes one parameter. Exposure and gain go
// through a group hold with the configured hold delay; the toggles are
// single register writes. Values are range checked before any bus access
// and the cache is only updated after every write succeeded.
func (c *Controller) SetParam(id sensor.ParamID, v sensor.Value) error {
	if c.closed {
		return sensor.ErrClosed
	}

	var plan groupPlan
	if err := c.planChange(sensor.ParamChange{ID: id, Value: v}, &plan); err != nil {
		return err
	}

	switch id {
	case sensor.ParamExposure, sensor.ParamExposureUS, sensor.ParamGain:
		if err := c.runGroup(plan.writes, c.holdDelay); err != nil {
			return &sensor.ParamError{ID: id, Value: v, Err: err}
		}
	default:
		for _, r := range plan.writes {
			if err := c.tr.WriteReg(r.Addr, r.Val); err != nil {
				return &sensor.ParamError{ID: id, Value: v, Err: err}
			}
		}
	}

	plan.commit()
	c.logger.Debug("Parameter set", "id", id, "value", int64(v))
	return nil
}

// groupPlan is a validated set of register writes and the cache updates
// to perform once they all succeed.
type groupPlan struct {
	writes  []sensor.Register
	commits []func()
}

func (p *groupPlan) add(commit func(), regs ...sensor.Register) {
	p.writes = append(p.writes, regs...)
	p.commits = append(p.commits, commit)
}

func (p *groupPlan) commit() {
	for _, fn := range p.commits {
		fn()
	}
}

func (c *Controller) planChange(ch sensor.ParamChange, p *groupPlan) error {
	fail := func(err error) error {
		return &sensor.ParamError{ID: ch.ID, Value: ch.Value, Err: err}
	}

	switch ch.ID {
	case sensor.ParamExposure, sensor.ParamExposureUS:
		f := c.format.Load()
		if f == nil {
			return fail(sensor.ErrNoFormatSet)
		}
		if ch.Value < 0 || ch.Value > math.MaxUint32 {
			return fail(sensor.ErrOutOfRange)
		}
		lines := uint32(ch.Value)
		if ch.ID == sensor.ParamExposureUS {
			lines = LinesFromMicroseconds(uint32(ch.Value), f)
		}
		lo, hi := ExposureLimits(f)
		if lines < lo || lines > hi {
			return fail(sensor.ErrOutOfRange)
		}
		expLo, expHi := splitExposure(lines)
		p.add(func() { c.exposure = lines },
			sensor.Register{Addr: RegExposureL, Val: expLo},
			sensor.Register{Addr: RegExposureH, Val: expHi},
		)

	case sensor.ParamGain:
		if ch.Value < 0 || ch.Value > math.MaxInt32 {
			return fail(sensor.ErrOutOfRange)
		}
		idx := int(ch.Value)
		entry, ok := GainAt(idx)
		if !ok {
			return fail(sensor.ErrOutOfRange)
		}
		// Analog response drifts with temperature: digital first, analog second.
		p.add(func() { c.gainIndex = idx },
			sensor.Register{Addr: RegDigitalGain, Val: entry.Digital},
			sensor.Register{Addr: RegAnalogGain, Val: entry.Analog},
		)

	case sensor.ParamVFlip, sensor.ParamHMirror, sensor.ParamTestPattern:
		if ch.Value != 0 && ch.Value != 1 {
			return fail(sensor.ErrOutOfRange)
		}
		on := ch.Value == 1
		var reg uint16
		var commit func()
		switch ch.ID {
		case sensor.ParamVFlip:
			reg, commit = RegVFlip, func() { c.vflip = on }
		case sensor.ParamHMirror:
			reg, commit = RegHMirror, func() { c.hmirror = on }
		default:
			reg, commit = RegTestPattern, func() { c.testPattern = on }
		}
		p.add(commit, sensor.Register{Addr: reg, Val: uint8(ch.Value)})

	default:
		c.logger.Error("Set parameter is not supported", "id", ch.ID)
		return fail(sensor.ErrUnsupportedParameter)
	}
	return nil
}
