// Package led shows the sensor state on a board LED: off without a sensor,
// blinking while attached and idle, solid while streaming.
package led

// StatusLED is the logical name of the indicator driven by Manager.
const StatusLED = "status"

// Controller abstracts board LED control.
type Controller interface {
	// Set switches a LED and optionally its pattern ("solid", "blink",
	// "heartbeat" or a raw trigger name). An empty pattern leaves the
	// trigger alone.
	Set(name string, enabled bool, pattern string) error

	// Available returns the logical LED names this controller drives.
	Available() []string

	// Patterns returns the supported patterns.
	Patterns() []string
}
