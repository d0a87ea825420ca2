package mira220

import "github.com/smazurov/sensorctl/pkg/sensor"

// ApplyGroup writes every change inside one group-hold transaction: the
// hold start marker, the parameter registers in order, the hold delay in
// frames and the hold end marker. All changes are validated before the
// first write. A failure returns a *sensor.GroupError naming the stage;
// nothing is rolled back and the cache is left untouched, so callers
// should retry the whole group or resynchronize.
func (c *Controller) ApplyGroup(changes []sensor.ParamChange, holdDelayFrames uint8) error {
	if c.closed {
		return sensor.ErrClosed
	}

	var plan groupPlan
	for _, ch := range changes {
		if err := c.planChange(ch, &plan); err != nil {
			return err
		}
	}
	if len(plan.writes) == 0 {
		return nil
	}

	if err := c.runGroup(plan.writes, holdDelayFrames); err != nil {
		return err
	}
	plan.commit()
	c.logger.Debug("Group hold applied", "changes", len(changes), "hold_delay", holdDelayFrames)
	return nil
}

func (c *Controller) runGroup(writes []sensor.Register, holdDelayFrames uint8) error {
	if err := c.tr.WriteReg(RegGroupHold, GroupHoldStart); err != nil {
		return &sensor.GroupError{Stage: sensor.GroupStageStart, Err: err}
	}
	for _, r := range writes {
		if err := c.tr.WriteReg(r.Addr, r.Val); err != nil {
			return &sensor.GroupError{Stage: sensor.GroupStageUpdate, Err: err}
		}
	}
	if err := c.tr.WriteReg(RegGroupHoldDelay, holdDelayFrames); err != nil {
		return &sensor.GroupError{Stage: sensor.GroupStageDelay, Err: err}
	}
	if err := c.tr.WriteReg(RegGroupHold, GroupHoldEnd); err != nil {
		return &sensor.GroupError{Stage: sensor.GroupStageEnd, Err: err}
	}
	return nil
}
