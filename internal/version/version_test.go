package version

import (
	"runtime/debug"
	"testing"
)

func TestFillFromVCS(t *testing.T) {
	info := Info{}
	fillFromVCS(&info, []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.time", Value: "2026-01-27T10:30:00Z"},
		{Key: "vcs.modified", Value: "true"},
	})

	if info.GitCommit != "0123456789abcdef" {
		t.Errorf("GitCommit = %q, want 0123456789abcdef", info.GitCommit)
	}
	if info.BuildDate != "2026-01-27T10:30:00Z" {
		t.Errorf("BuildDate = %q", info.BuildDate)
	}
	if !info.Modified {
		t.Error("Modified = false, want true")
	}
}

func TestLdflagsWinOverVCS(t *testing.T) {
	info := Info{GitCommit: "feedbee"}
	fillFromVCS(&info, []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456"}})

	if info.GitCommit != "feedbee" {
		t.Errorf("GitCommit = %q, want ldflags value feedbee", info.GitCommit)
	}
}

func TestGetDefaults(t *testing.T) {
	info := Get()
	if info.Version != Version {
		t.Errorf("Version = %q, want %q", info.Version, Version)
	}
	if info.GitCommit == "" || info.BuildDate == "" {
		t.Errorf("Get() left empty fields: %+v", info)
	}
	if String() == "" {
		t.Error("String() is empty")
	}
}
