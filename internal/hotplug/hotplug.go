// Package hotplug reports kernel uevents for the register bus device, so
// the daemon can attach when a USB bridge or i2c adapter appears and
// detach when it goes away.
package hotplug

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Actions reported for bus device nodes.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// Subsystems that carry register bus device nodes.
const (
	SubsystemI2CDev = "i2c-dev"
	SubsystemTTY    = "tty"
)

// Event is one kernel uevent.
type Event struct {
	Action    string
	KObj      string
	Subsystem string
	DevName   string // relative to /dev, e.g. "i2c-1" or "ttyACM0"
	Env       map[string]string
}

// Node returns the /dev path of the event's device node, or "" when the
// event carries none.
func (e Event) Node() string {
	if e.DevName == "" {
		return ""
	}
	return filepath.Join("/dev", e.DevName)
}

// Matches reports whether e concerns the device node at path.
func (e Event) Matches(path string) bool {
	node := e.Node()
	if node == "" {
		return false
	}
	if node == filepath.Clean(path) {
		return true
	}
	// udev symlinks such as /dev/serial/by-id/... resolve to the node
	resolved, err := filepath.EvalSymlinks(path)
	return err == nil && resolved == node
}

// ParseUEvent parses "ACTION@KOBJ\0KEY=VALUE\0...". A libudev header,
// when present, is skipped. It returns nil for malformed input.
func ParseUEvent(data []byte) *Event {
	if bytes.HasPrefix(data, []byte("libudev")) {
		for i := 0; i < len(data)-1; i++ {
			if data[i] != 0 {
				continue
			}
			rest := data[i+1:]
			head := rest
			if end := bytes.IndexByte(rest, 0); end >= 0 {
				head = rest[:end]
			}
			if at := bytes.IndexByte(head, '@'); at > 0 && at < 20 {
				data = rest
				break
			}
		}
	}

	parts := bytes.Split(data, []byte{0})
	action, kobj, ok := strings.Cut(string(parts[0]), "@")
	if !ok || action == "" {
		return nil
	}

	ev := &Event{Action: action, KObj: kobj, Env: make(map[string]string)}
	for _, part := range parts[1:] {
		key, value, ok := strings.Cut(string(part), "=")
		if !ok || key == "" {
			continue
		}
		ev.Env[key] = value
		switch key {
		case "SUBSYSTEM":
			ev.Subsystem = value
		case "DEVNAME":
			ev.DevName = value
		}
	}
	return ev
}
