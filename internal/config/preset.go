package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/sensorctl/pkg/sensor"
)

// Preset is a set of live parameter values applied together. Absent keys
// leave the parameter alone.
//
//	exposure_us = 20000
//	gain = 12
//	hmirror = true
//	hold_delay_frames = 2
type Preset struct {
	Exposure        *int64 `toml:"exposure"`
	ExposureUS      *int64 `toml:"exposure_us"`
	Gain            *int64 `toml:"gain"`
	HMirror         *bool  `toml:"hmirror"`
	VFlip           *bool  `toml:"vflip"`
	TestPattern     *bool  `toml:"test_pattern"`
	HoldDelayFrames *uint8 `toml:"hold_delay_frames"`
}

// LoadPreset reads a preset file. Unknown keys are rejected.
func LoadPreset(path string) (Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Preset{}, fmt.Errorf("open preset: %w", err)
	}
	defer f.Close()

	var p Preset
	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Preset{}, fmt.Errorf("parse preset %s: %w", path, err)
	}
	if p.Exposure != nil && p.ExposureUS != nil {
		return Preset{}, fmt.Errorf("preset %s: exposure and exposure_us are exclusive", path)
	}
	return p, nil
}

// Changes returns the preset as group-hold changes in register order:
// exposure, gain, then the toggles.
func (p Preset) Changes() []sensor.ParamChange {
	var out []sensor.ParamChange
	addInt := func(id sensor.ParamID, v *int64) {
		if v != nil {
			out = append(out, sensor.ParamChange{ID: id, Value: sensor.Value(*v)})
		}
	}
	addBool := func(id sensor.ParamID, v *bool) {
		if v != nil {
			out = append(out, sensor.ParamChange{ID: id, Value: sensor.BoolValue(*v)})
		}
	}

	addInt(sensor.ParamExposure, p.Exposure)
	addInt(sensor.ParamExposureUS, p.ExposureUS)
	addInt(sensor.ParamGain, p.Gain)
	addBool(sensor.ParamHMirror, p.HMirror)
	addBool(sensor.ParamVFlip, p.VFlip)
	addBool(sensor.ParamTestPattern, p.TestPattern)
	return out
}

// HoldDelay returns the preset hold delay or fallback.
func (p Preset) HoldDelay(fallback uint8) uint8 {
	if p.HoldDelayFrames != nil {
		return *p.HoldDelayFrames
	}
	return fallback
}
