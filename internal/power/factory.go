package power

import (
	"log/slog"
	"time"
)

// Config selects the GPIO lines. A negative pin means not wired.
type Config struct {
	Root     string
	ResetPin int
	PwdnPin  int
	Settle   time.Duration
}

// New returns a sysfs controller when any line is wired and a no-op
// controller otherwise.
func New(cfg Config, logger *slog.Logger) Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ResetPin < 0 && cfg.PwdnPin < 0 {
		logger.Info("No power control lines configured, using no-op controller")
		return newNoop(logger)
	}
	logger.Info("Using sysfs GPIO power control", "reset", cfg.ResetPin, "pwdn", cfg.PwdnPin)
	return newSysfs(cfg, logger)
}
