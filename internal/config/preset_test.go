package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/smazurov/sensorctl/pkg/sensor"
)

func TestLoadPreset(t *testing.T) {
	path := writeFile(t, "params.toml", `
exposure_us = 20000
gain = 12
hmirror = true
vflip = false
hold_delay_frames = 2
`)

	p, err := LoadPreset(path)
	if err != nil {
		t.Fatalf("LoadPreset() error = %v", err)
	}

	want := []sensor.ParamChange{
		{ID: sensor.ParamExposureUS, Value: 20000},
		{ID: sensor.ParamGain, Value: 12},
		{ID: sensor.ParamHMirror, Value: 1},
		{ID: sensor.ParamVFlip, Value: 0},
	}
	if diff := cmp.Diff(want, p.Changes()); diff != "" {
		t.Errorf("Changes() mismatch (-want +got):\n%s", diff)
	}
	if got := p.HoldDelay(1); got != 2 {
		t.Errorf("HoldDelay() = %d, want 2", got)
	}
}

func TestLoadPresetEmpty(t *testing.T) {
	p, err := LoadPreset(writeFile(t, "params.toml", ""))
	if err != nil {
		t.Fatalf("LoadPreset() error = %v", err)
	}
	if got := p.Changes(); len(got) != 0 {
		t.Errorf("Changes() = %v, want none", got)
	}
	if got := p.HoldDelay(1); got != 1 {
		t.Errorf("HoldDelay() = %d, want fallback 1", got)
	}
}

func TestLoadPresetErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown key", content: "brightness = 3\n"},
		{name: "both exposures", content: "exposure = 100\nexposure_us = 100\n"},
		{name: "wrong type", content: "hmirror = 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadPreset(writeFile(t, "params.toml", tt.content)); err == nil {
				t.Error("LoadPreset() error = nil")
			}
		})
	}

	if _, err := LoadPreset("/nonexistent/params.toml"); err == nil {
		t.Error("LoadPreset(missing) error = nil")
	}
}
