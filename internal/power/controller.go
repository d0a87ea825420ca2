// Package power sequences the sensor supply lines. It satisfies
// sensor.PowerControl.
package power

// Controller drives the powerdown and reset lines of one sensor.
type Controller interface {
	// PowerOn releases powerdown, then pulses reset.
	PowerOn() error
	// PowerOff asserts reset, then powerdown.
	PowerOff() error
	// Lines names the wired control lines, for diagnostics.
	Lines() []string
}
