package systemd

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type recordingNotify struct {
	mu     sync.Mutex
	states []string
}

func (r *recordingNotify) notify(_ bool, state string) (bool, error) {
	r.mu.Lock()
	r.states = append(r.states, state)
	r.mu.Unlock()
	return true, nil
}

func (r *recordingNotify) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.states...)
}

func newTestNotifier() (*Notifier, *recordingNotify) {
	rec := &recordingNotify{}
	n := NewNotifier(slog.New(slog.NewTextHandler(io.Discard, nil)))
	n.notify = rec.notify
	return n, rec
}

func TestLifecycleMessages(t *testing.T) {
	n, rec := newTestNotifier()

	n.Ready()
	n.Status("streaming %s", "MIPI_2lane_RAW8_1024_600_6fps")
	n.Stopping()

	want := []string{"READY=1", "STATUS=streaming MIPI_2lane_RAW8_1024_600_6fps", "STOPPING=1"}
	got := rec.snapshot()
	if len(got) != len(want) {
		t.Fatalf("states = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("states[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWatchdogSkipsWhenUnhealthy(t *testing.T) {
	n, rec := newTestNotifier()
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	healthy := false
	done := make(chan struct{})
	go func() {
		n.watchdogLoop(ctx, 5*time.Millisecond, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return healthy
		})
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("pings while unhealthy = %v, want none", got)
	}

	mu.Lock()
	healthy = true
	mu.Unlock()

	deadline := time.Now().Add(time.Second)
	for len(rec.snapshot()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no watchdog ping after becoming healthy")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := rec.snapshot()[0]; got != "WATCHDOG=1" {
		t.Errorf("ping = %q, want WATCHDOG=1", got)
	}

	cancel()
	<-done
}
