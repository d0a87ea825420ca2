package power

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeGPIORoot creates exported pins with direction and value files.
func fakeGPIORoot(t *testing.T, pins ...int) string {
	t.Helper()
	root := t.TempDir()
	for _, pin := range pins {
		dir := filepath.Join(root, "gpio"+strconv.Itoa(pin))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		for _, f := range []string{"direction", "value"} {
			if err := os.WriteFile(filepath.Join(dir, f), []byte("in"), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
	return root
}

func readPin(t *testing.T, root string, pin int, file string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, "gpio"+strconv.Itoa(pin), file))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestNewSelectsController(t *testing.T) {
	if _, ok := New(Config{ResetPin: -1, PwdnPin: -1}, testLogger()).(*noop); !ok {
		t.Error("New() without pins did not return the no-op controller")
	}
	if _, ok := New(Config{ResetPin: 5, PwdnPin: -1}, testLogger()).(*sysfsGPIO); !ok {
		t.Error("New() with a reset pin did not return the sysfs controller")
	}
}

func TestNoopController(t *testing.T) {
	c := newNoop(testLogger())
	if err := c.PowerOn(); err != nil {
		t.Errorf("PowerOn() error = %v", err)
	}
	if err := c.PowerOff(); err != nil {
		t.Errorf("PowerOff() error = %v", err)
	}
	if lines := c.Lines(); len(lines) != 0 {
		t.Errorf("Lines() = %v, want empty", lines)
	}
}

func TestSysfsPowerSequence(t *testing.T) {
	root := fakeGPIORoot(t, 17, 27)
	s := newSysfs(Config{Root: root, ResetPin: 17, PwdnPin: 27, Settle: time.Millisecond}, testLogger())
	var sleeps []time.Duration
	s.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	if err := s.PowerOn(); err != nil {
		t.Fatalf("PowerOn() error = %v", err)
	}
	if got := readPin(t, root, 27, "value"); got != "0" {
		t.Errorf("pwdn after PowerOn = %q, want 0", got)
	}
	if got := readPin(t, root, 17, "value"); got != "1" {
		t.Errorf("reset after PowerOn = %q, want 1", got)
	}
	for _, pin := range []int{17, 27} {
		if got := readPin(t, root, pin, "direction"); got != "out" {
			t.Errorf("gpio%d direction = %q, want out", pin, got)
		}
	}
	if len(sleeps) != 3 {
		t.Errorf("settle delays = %d, want 3", len(sleeps))
	}

	if err := s.PowerOff(); err != nil {
		t.Fatalf("PowerOff() error = %v", err)
	}
	if got := readPin(t, root, 17, "value"); got != "0" {
		t.Errorf("reset after PowerOff = %q, want 0", got)
	}
	if got := readPin(t, root, 27, "value"); got != "1" {
		t.Errorf("pwdn after PowerOff = %q, want 1", got)
	}

	want := []string{"pwdn:gpio27", "reset:gpio17"}
	if diff := cmp.Diff(want, s.Lines()); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
}

func TestSysfsResetOnly(t *testing.T) {
	root := fakeGPIORoot(t, 4)
	s := newSysfs(Config{Root: root, ResetPin: 4, PwdnPin: -1}, testLogger())
	s.sleep = func(time.Duration) {}

	if err := s.PowerOn(); err != nil {
		t.Fatalf("PowerOn() error = %v", err)
	}
	if got := readPin(t, root, 4, "value"); got != "1" {
		t.Errorf("reset = %q, want 1", got)
	}
}

func TestSysfsExportsMissingPin(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "export"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	s := newSysfs(Config{Root: root, ResetPin: 9, PwdnPin: -1}, testLogger())
	s.sleep = func(time.Duration) {}

	// The fake root has no kernel behind it, so the pin never appears.
	if err := s.PowerOn(); err == nil {
		t.Fatal("PowerOn() error = nil for a pin that never appeared")
	}
	data, err := os.ReadFile(filepath.Join(root, "export"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "9" {
		t.Errorf("export file = %q, want 9", data)
	}
}
