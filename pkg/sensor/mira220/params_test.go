package mira220

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/smazurov/sensorctl/pkg/sccb"
	"github.com/smazurov/sensorctl/pkg/sensor"
)

func newFormattedController(t *testing.T, opts ...Option) (*Controller, *sccb.Memory) {
	t.Helper()
	c, m, _ := newTestController(t, opts...)
	if err := c.SetFormat(sensor.FormatDefault); err != nil {
		t.Fatalf("SetFormat() error = %v", err)
	}
	m.ResetJournal()
	return c, m
}

func groupWrites(delay uint8, regs ...sensor.Register) []sccb.Access {
	all := []sensor.Register{{Addr: RegGroupHold, Val: GroupHoldStart}}
	all = append(all, regs...)
	all = append(all,
		sensor.Register{Addr: RegGroupHoldDelay, Val: delay},
		sensor.Register{Addr: RegGroupHold, Val: GroupHoldEnd},
	)
	return writes(all...)
}

func TestSetParamExposure(t *testing.T) {
	c, m := newFormattedController(t)

	if err := c.SetParam(sensor.ParamExposure, 0x0123); err != nil {
		t.Fatalf("SetParam() error = %v", err)
	}
	want := groupWrites(1,
		sensor.Register{Addr: RegExposureL, Val: 0x23},
		sensor.Register{Addr: RegExposureH, Val: 0x01},
	)
	if diff := cmp.Diff(want, m.Journal()); diff != "" {
		t.Errorf("writes mismatch (-want +got):\n%s", diff)
	}
	if v, err := c.Param(sensor.ParamExposure); err != nil || v != 0x0123 {
		t.Errorf("Param(exposure) = %d, %v, want %d", v, err, 0x0123)
	}
}

func TestSetParamExposureRange(t *testing.T) {
	tests := []struct {
		name    string
		v       sensor.Value
		wantErr error
	}{
		{name: "minimum", v: 0x0F},
		{name: "maximum", v: 4100 - 6},
		{name: "below minimum", v: 0x0E, wantErr: sensor.ErrOutOfRange},
		{name: "above maximum", v: 4100 - 5, wantErr: sensor.ErrOutOfRange},
		{name: "negative", v: -1, wantErr: sensor.ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, m := newFormattedController(t)
			before, _ := c.Param(sensor.ParamExposure)

			err := c.SetParam(sensor.ParamExposure, tt.v)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SetParam(%d) error = %v, want %v", tt.v, err, tt.wantErr)
			}
			if tt.wantErr == nil {
				return
			}
			if _, writes := m.Counts(); writes != 0 {
				t.Errorf("rejected value issued %d writes", writes)
			}
			if after, _ := c.Param(sensor.ParamExposure); after != before {
				t.Errorf("cache changed to %d on rejected value", after)
			}
		})
	}
}

func TestSetParamExposureUS(t *testing.T) {
	c, m := newFormattedController(t)
	f, _ := c.Format()

	// 1000 lines at 6 fps with 4100 lines per frame.
	us := sensor.Value(MicrosecondsFromLines(1000, &f))
	if err := c.SetParam(sensor.ParamExposureUS, us); err != nil {
		t.Fatalf("SetParam() error = %v", err)
	}
	if v, _ := c.Param(sensor.ParamExposure); v != 1000 {
		t.Errorf("exposure lines = %d, want 1000", v)
	}
	lo, hi := splitExposure(1000)
	if m.Peek(RegExposureL) != lo || m.Peek(RegExposureH) != hi {
		t.Errorf("exposure registers = %02X %02X, want %02X %02X",
			m.Peek(RegExposureL), m.Peek(RegExposureH), lo, hi)
	}
	if v, _ := c.Param(sensor.ParamExposureUS); v != us {
		t.Errorf("Param(exposure_us) = %d, want %d", v, us)
	}
}

func TestSetParamNoFormat(t *testing.T) {
	c, m, _ := newTestController(t)

	for _, id := range []sensor.ParamID{sensor.ParamExposure, sensor.ParamExposureUS} {
		if err := c.SetParam(id, 100); !errors.Is(err, sensor.ErrNoFormatSet) {
			t.Errorf("SetParam(%s) error = %v, want ErrNoFormatSet", id, err)
		}
		if _, err := c.QueryParam(id); !errors.Is(err, sensor.ErrNoFormatSet) {
			t.Errorf("QueryParam(%s) error = %v, want ErrNoFormatSet", id, err)
		}
	}
	if _, writes := m.Counts(); writes != 0 {
		t.Errorf("writes = %d, want 0", writes)
	}
}

func TestSetParamGain(t *testing.T) {
	c, m := newFormattedController(t)
	entry, _ := GainAt(40)

	if err := c.SetParam(sensor.ParamGain, 40); err != nil {
		t.Fatalf("SetParam() error = %v", err)
	}
	want := groupWrites(1,
		sensor.Register{Addr: RegDigitalGain, Val: entry.Digital},
		sensor.Register{Addr: RegAnalogGain, Val: entry.Analog},
	)
	if diff := cmp.Diff(want, m.Journal()); diff != "" {
		t.Errorf("writes mismatch (-want +got):\n%s", diff)
	}
	if v, _ := c.Param(sensor.ParamGain); v != 40 {
		t.Errorf("Param(gain) = %d, want 40", v)
	}

	if err := c.SetParam(sensor.ParamGain, sensor.Value(len(GainTable()))); !errors.Is(err, sensor.ErrOutOfRange) {
		t.Errorf("SetParam(gain past table) error = %v, want ErrOutOfRange", err)
	}
}

func TestSetParamHoldDelay(t *testing.T) {
	c, m := newFormattedController(t, WithHoldDelay(3))

	if err := c.SetParam(sensor.ParamGain, 0); err != nil {
		t.Fatalf("SetParam() error = %v", err)
	}
	if got := m.Peek(RegGroupHoldDelay); got != 3 {
		t.Errorf("hold delay register = %d, want 3", got)
	}
}

func TestSetParamToggles(t *testing.T) {
	tests := []struct {
		id  sensor.ParamID
		reg uint16
	}{
		{sensor.ParamHMirror, RegHMirror},
		{sensor.ParamVFlip, RegVFlip},
		{sensor.ParamTestPattern, RegTestPattern},
	}

	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			c, m := newFormattedController(t)

			if err := c.SetParam(tt.id, 1); err != nil {
				t.Fatalf("SetParam() error = %v", err)
			}
			want := writes(sensor.Register{Addr: tt.reg, Val: 0x01})
			if diff := cmp.Diff(want, m.Journal()); diff != "" {
				t.Errorf("writes mismatch (-want +got):\n%s", diff)
			}
			if v, _ := c.Param(tt.id); v != 1 {
				t.Errorf("Param() = %d, want 1", v)
			}

			if err := c.SetParam(tt.id, 2); !errors.Is(err, sensor.ErrOutOfRange) {
				t.Errorf("SetParam(2) error = %v, want ErrOutOfRange", err)
			}
		})
	}
}

func TestSetParamToggleFailureKeepsCache(t *testing.T) {
	c, m := newFormattedController(t)
	m.FailWritesTo(RegVFlip, true)

	err := c.SetParam(sensor.ParamVFlip, 1)
	var pe *sensor.ParamError
	if !errors.As(err, &pe) || pe.ID != sensor.ParamVFlip {
		t.Fatalf("SetParam() error = %v, want *ParamError for vflip", err)
	}
	if v, _ := c.Param(sensor.ParamVFlip); v != 0 {
		t.Errorf("Param(vflip) = %d after failed write, want 0", v)
	}
}

func TestUnsupportedParameter(t *testing.T) {
	c, m := newFormattedController(t)

	for _, id := range []sensor.ParamID{sensor.ParamBrightness, sensor.ParamSharpness, sensor.ParamID(0)} {
		if err := c.SetParam(id, 1); !errors.Is(err, sensor.ErrUnsupportedParameter) {
			t.Errorf("SetParam(%s) error = %v, want ErrUnsupportedParameter", id, err)
		}
		if _, err := c.QueryParam(id); !errors.Is(err, sensor.ErrUnsupportedParameter) {
			t.Errorf("QueryParam(%s) error = %v, want ErrUnsupportedParameter", id, err)
		}
		if _, err := c.Param(id); !errors.Is(err, sensor.ErrUnsupportedParameter) {
			t.Errorf("Param(%s) error = %v, want ErrUnsupportedParameter", id, err)
		}
	}
	if _, writes := m.Counts(); writes != 0 {
		t.Errorf("writes = %d, want 0", writes)
	}
}

func TestQueryParam(t *testing.T) {
	c, _ := newFormattedController(t)

	exp, err := c.QueryParam(sensor.ParamExposure)
	if err != nil {
		t.Fatalf("QueryParam(exposure) error = %v", err)
	}
	want := sensor.ParamDescriptor{
		ID:      sensor.ParamExposure,
		Name:    "exposure",
		Type:    sensor.ParamTypeNumber,
		Min:     0x0F,
		Max:     4094,
		Step:    1,
		Default: 0x400,
	}
	if diff := cmp.Diff(want, exp); diff != "" {
		t.Errorf("exposure descriptor mismatch (-want +got):\n%s", diff)
	}

	gain, err := c.QueryParam(sensor.ParamGain)
	if err != nil {
		t.Fatalf("QueryParam(gain) error = %v", err)
	}
	if gain.Type != sensor.ParamTypeEnumeration || len(gain.Elements) != len(GainTable()) {
		t.Errorf("gain descriptor = %+v", gain)
	}
	if gain.Max != int64(len(GainTable())-1) {
		t.Errorf("gain max = %d, want %d", gain.Max, len(GainTable())-1)
	}

	flip, err := c.QueryParam(sensor.ParamVFlip)
	if err != nil || flip.Type != sensor.ParamTypeBool || flip.Max != 1 {
		t.Errorf("QueryParam(vflip) = %+v, %v", flip, err)
	}
}

func TestApplyGroup(t *testing.T) {
	c, m := newFormattedController(t)
	entry, _ := GainAt(5)

	changes := []sensor.ParamChange{
		{ID: sensor.ParamExposure, Value: 0x0200},
		{ID: sensor.ParamGain, Value: 5},
		{ID: sensor.ParamHMirror, Value: 1},
	}
	if err := c.ApplyGroup(changes, 2); err != nil {
		t.Fatalf("ApplyGroup() error = %v", err)
	}

	want := groupWrites(2,
		sensor.Register{Addr: RegExposureL, Val: 0x00},
		sensor.Register{Addr: RegExposureH, Val: 0x02},
		sensor.Register{Addr: RegDigitalGain, Val: entry.Digital},
		sensor.Register{Addr: RegAnalogGain, Val: entry.Analog},
		sensor.Register{Addr: RegHMirror, Val: 0x01},
	)
	if diff := cmp.Diff(want, m.Journal()); diff != "" {
		t.Errorf("writes mismatch (-want +got):\n%s", diff)
	}
	if v, _ := c.Param(sensor.ParamHMirror); v != 1 {
		t.Errorf("Param(hmirror) = %d, want 1", v)
	}
}

func TestApplyGroupEmpty(t *testing.T) {
	c, m := newFormattedController(t)

	if err := c.ApplyGroup(nil, 1); err != nil {
		t.Fatalf("ApplyGroup(nil) error = %v", err)
	}
	if _, writes := m.Counts(); writes != 0 {
		t.Errorf("empty group issued %d writes", writes)
	}
}

func TestApplyGroupRejectsBeforeWriting(t *testing.T) {
	c, m := newFormattedController(t)

	changes := []sensor.ParamChange{
		{ID: sensor.ParamGain, Value: 3},
		{ID: sensor.ParamExposure, Value: 1 << 20},
	}
	err := c.ApplyGroup(changes, 1)
	var pe *sensor.ParamError
	if !errors.As(err, &pe) || pe.ID != sensor.ParamExposure {
		t.Fatalf("ApplyGroup() error = %v, want *ParamError for exposure", err)
	}
	if _, writes := m.Counts(); writes != 0 {
		t.Errorf("invalid group issued %d writes", writes)
	}
	if v, _ := c.Param(sensor.ParamGain); v != 0 {
		t.Errorf("Param(gain) = %d, want 0", v)
	}
}

func TestApplyGroupFailure(t *testing.T) {
	tests := []struct {
		name      string
		failAddr  uint16
		wantStage sensor.GroupStage
	}{
		{name: "update", failAddr: RegExposureH, wantStage: sensor.GroupStageUpdate},
		{name: "delay", failAddr: RegGroupHoldDelay, wantStage: sensor.GroupStageDelay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, m := newFormattedController(t)
			before, _ := c.Param(sensor.ParamExposure)
			m.FailWritesTo(tt.failAddr, true)

			err := c.ApplyGroup([]sensor.ParamChange{{ID: sensor.ParamExposure, Value: 0x0300}}, 1)
			var ge *sensor.GroupError
			if !errors.As(err, &ge) {
				t.Fatalf("ApplyGroup() error = %v, want *GroupError", err)
			}
			if ge.Stage != tt.wantStage {
				t.Errorf("GroupError.Stage = %s, want %s", ge.Stage, tt.wantStage)
			}
			for _, a := range m.Journal() {
				if a.Addr == RegGroupHold && a.Val == GroupHoldEnd {
					t.Error("group end was written after a failed stage")
				}
			}
			if after, _ := c.Param(sensor.ParamExposure); after != before {
				t.Errorf("cache changed to %d after failed group", after)
			}
		})
	}
}

func TestApplyGroupStartFailure(t *testing.T) {
	c, m := newFormattedController(t)
	m.FailNthWrite(1)

	err := c.ApplyGroup([]sensor.ParamChange{{ID: sensor.ParamGain, Value: 1}}, 1)
	var ge *sensor.GroupError
	if !errors.As(err, &ge) || ge.Stage != sensor.GroupStageStart {
		t.Fatalf("ApplyGroup() error = %v, want start stage failure", err)
	}
	if _, writes := m.Counts(); writes != 1 {
		t.Errorf("writes = %d, want 1", writes)
	}
}

func TestSetParamGroupFailureWrapsStage(t *testing.T) {
	c, m := newFormattedController(t)
	m.FailWritesTo(RegAnalogGain, true)

	err := c.SetParam(sensor.ParamGain, 10)
	var pe *sensor.ParamError
	if !errors.As(err, &pe) || pe.ID != sensor.ParamGain {
		t.Fatalf("SetParam() error = %v, want *ParamError for gain", err)
	}
	var ge *sensor.GroupError
	if !errors.As(err, &ge) || ge.Stage != sensor.GroupStageUpdate {
		t.Errorf("SetParam() error = %v, want update stage", err)
	}
}
