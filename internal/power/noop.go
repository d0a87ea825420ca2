package power

import "log/slog"

// noop is used when the sensor supply is not software controlled.
type noop struct {
	logger *slog.Logger
}

func newNoop(logger *slog.Logger) *noop {
	return &noop{logger: logger}
}

func (n *noop) PowerOn() error {
	n.logger.Debug("Power control not wired (no-op)", "op", "on")
	return nil
}

func (n *noop) PowerOff() error {
	n.logger.Debug("Power control not wired (no-op)", "op", "off")
	return nil
}

func (n *noop) Lines() []string {
	return []string{}
}
