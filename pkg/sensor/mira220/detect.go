package mira220

import (
	"fmt"

	"github.com/smazurov/sensorctl/pkg/sccb"
	"github.com/smazurov/sensorctl/pkg/sensor"
)

// ReadPartID reads the identity registers, high byte first.
func ReadPartID(tr sccb.Transport) (uint16, error) {
	hi, err := tr.ReadReg(RegSensorIDH)
	if err != nil {
		return 0, err
	}
	lo, err := tr.ReadReg(RegSensorIDL)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// Detect powers the sensor, confirms its part id and returns an attached
// controller with no format applied. A bus failure is returned as is; a
// foreign part id yields an error matching sensor.ErrIdentityMismatch.
// On any failure the sensor is powered back off and no controller is
// returned.
func Detect(tr sccb.Transport, opts ...Option) (*Controller, error) {
	c := newController(tr, opts...)

	if c.power != nil {
		if err := c.power.PowerOn(); err != nil {
			return nil, fmt.Errorf("power on: %w", err)
		}
	}

	pid, err := ReadPartID(tr)
	if err != nil {
		c.powerOffAfterFailure()
		return nil, err
	}
	c.logger.Info("Read sensor id", "pid", fmt.Sprintf("0x%04X", pid))

	if pid != PartID {
		c.powerOffAfterFailure()
		c.logger.Error("Camera sensor is not "+Name, "pid", fmt.Sprintf("0x%04X", pid))
		return nil, &sensor.IdentityError{Got: pid, Want: PartID}
	}

	c.identity = sensor.Identity{PartID: pid, Name: Name}
	return c, nil
}

func (c *Controller) powerOffAfterFailure() {
	if c.power == nil {
		return
	}
	if err := c.power.PowerOff(); err != nil {
		c.logger.Warn("Power off after failed detect", "error", err)
	}
}

// SimRegisters returns the register contents a simulated MIRA220 needs to
// pass detection.
func SimRegisters() map[uint16]uint8 {
	return map[uint16]uint8{
		RegSensorIDH: uint8(PartID >> 8),
		RegSensorIDL: uint8(PartID & 0xFF),
	}
}
