package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func startWatcher(t *testing.T, path string, opts ...WatcherOption[Preset]) *Watcher[Preset] {
	t.Helper()
	opts = append([]WatcherOption[Preset]{WithDebounce[Preset](50 * time.Millisecond)}, opts...)
	w := NewConfigWatcher(path, LoadPreset, newTestLogger(), opts...)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		if err := w.Stop(); err != nil {
			t.Errorf("Stop() error = %v", err)
		}
	})
	return w
}

func TestWatcherReload(t *testing.T) {
	path := writeFile(t, "params.toml", "gain = 1\n")
	w := startWatcher(t, path)

	received := make(chan Preset, 4)
	w.OnReload(func(p Preset) { received <- p })

	if err := os.WriteFile(path, []byte("gain = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-received:
		if p.Gain == nil || *p.Gain != 7 {
			t.Errorf("reloaded gain = %v, want 7", p.Gain)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload")
	}
}

func TestWatcherReplacedFile(t *testing.T) {
	path := writeFile(t, "params.toml", "gain = 1\n")
	w := startWatcher(t, path)

	received := make(chan Preset, 4)
	w.OnReload(func(p Preset) { received <- p })

	tmp := filepath.Join(filepath.Dir(path), "params.toml.tmp")
	if err := os.WriteFile(tmp, []byte("vflip = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-received:
		if p.VFlip == nil || !*p.VFlip {
			t.Errorf("reloaded vflip = %v, want true", p.VFlip)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload after rename")
	}
}

func TestWatcherDebounce(t *testing.T) {
	path := writeFile(t, "params.toml", "gain = 0\n")
	w := startWatcher(t, path, WithDebounce[Preset](200*time.Millisecond))

	received := make(chan Preset, 10)
	w.OnReload(func(p Preset) { received <- p })

	for i := 1; i <= 5; i++ {
		content := []byte("gain = " + string(rune('0'+i)) + "\n")
		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case p := <-received:
		if p.Gain == nil || *p.Gain != 5 {
			t.Errorf("debounced gain = %v, want 5", p.Gain)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload")
	}

	select {
	case p := <-received:
		t.Errorf("unexpected second reload: %+v", p)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcherLoadError(t *testing.T) {
	path := writeFile(t, "params.toml", "gain = 1\n")
	errs := make(chan error, 1)
	w := startWatcher(t, path, WithErrorHandler[Preset](func(err error) { errs <- err }))

	called := make(chan struct{}, 1)
	w.OnReload(func(Preset) { called <- struct{}{} })

	if err := os.WriteFile(path, []byte("gain = \"high\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-errs:
		if err == nil {
			t.Error("error handler got nil")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for load error")
	}
	select {
	case <-called:
		t.Error("handler called with an invalid preset")
	default:
	}
}

func TestWatcherUnsubscribe(t *testing.T) {
	path := writeFile(t, "params.toml", "gain = 1\n")
	w := startWatcher(t, path)

	first := make(chan Preset, 4)
	second := make(chan Preset, 4)
	unsubscribe := w.OnReload(func(p Preset) { first <- p })
	w.OnReload(func(p Preset) { second <- p })
	unsubscribe()

	if err := os.WriteFile(path, []byte("gain = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-second:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload")
	}
	select {
	case <-first:
		t.Error("unsubscribed handler was called")
	default:
	}
}

func TestWatcherStartMissingDir(t *testing.T) {
	w := NewConfigWatcher("/nonexistent/dir/params.toml", LoadPreset, newTestLogger())
	err := w.Start(context.Background())
	if err == nil {
		_ = w.Stop()
		t.Fatal("Start() error = nil")
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("Start() error %v does not wrap the cause", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() after failed Start error = %v", err)
	}
}
