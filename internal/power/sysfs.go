package power

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const sysfsGPIOPath = "/sys/class/gpio"

// sysfsGPIO drives lines through the legacy /sys/class/gpio interface.
// Powerdown is active high, reset is active low.
type sysfsGPIO struct {
	root     string
	reset    int
	pwdn     int
	settle   time.Duration
	sleep    func(time.Duration)
	logger   *slog.Logger
	prepared bool
}

func newSysfs(cfg Config, logger *slog.Logger) *sysfsGPIO {
	root := cfg.Root
	if root == "" {
		root = sysfsGPIOPath
	}
	settle := cfg.Settle
	if settle <= 0 {
		settle = 10 * time.Millisecond
	}
	return &sysfsGPIO{
		root:   root,
		reset:  cfg.ResetPin,
		pwdn:   cfg.PwdnPin,
		settle: settle,
		sleep:  time.Sleep,
		logger: logger,
	}
}

func (s *sysfsGPIO) PowerOn() error {
	if err := s.prepare(); err != nil {
		return err
	}
	if s.pwdn >= 0 {
		if err := s.set(s.pwdn, false); err != nil {
			return err
		}
		s.sleep(s.settle)
	}
	if s.reset >= 0 {
		if err := s.set(s.reset, false); err != nil {
			return err
		}
		s.sleep(s.settle)
		if err := s.set(s.reset, true); err != nil {
			return err
		}
		s.sleep(s.settle)
	}
	s.logger.Debug("Sensor powered on", "lines", s.Lines())
	return nil
}

func (s *sysfsGPIO) PowerOff() error {
	if err := s.prepare(); err != nil {
		return err
	}
	if s.reset >= 0 {
		if err := s.set(s.reset, false); err != nil {
			return err
		}
	}
	if s.pwdn >= 0 {
		if err := s.set(s.pwdn, true); err != nil {
			return err
		}
	}
	s.logger.Debug("Sensor powered off")
	return nil
}

func (s *sysfsGPIO) Lines() []string {
	var lines []string
	if s.pwdn >= 0 {
		lines = append(lines, "pwdn:gpio"+strconv.Itoa(s.pwdn))
	}
	if s.reset >= 0 {
		lines = append(lines, "reset:gpio"+strconv.Itoa(s.reset))
	}
	return lines
}

// prepare exports the wired pins and configures them as outputs once.
func (s *sysfsGPIO) prepare() error {
	if s.prepared {
		return nil
	}
	for _, pin := range []int{s.pwdn, s.reset} {
		if pin < 0 {
			continue
		}
		if err := s.export(pin); err != nil {
			return err
		}
		direction := filepath.Join(s.pinPath(pin), "direction")
		if err := os.WriteFile(direction, []byte("out"), 0o644); err != nil {
			return fmt.Errorf("gpio%d direction: %w", pin, err)
		}
	}
	s.prepared = true
	return nil
}

func (s *sysfsGPIO) export(pin int) error {
	if _, err := os.Stat(s.pinPath(pin)); err == nil {
		return nil
	}
	exportPath := filepath.Join(s.root, "export")
	if err := os.WriteFile(exportPath, []byte(strconv.Itoa(pin)), 0o644); err != nil {
		return fmt.Errorf("export gpio%d: %w", pin, err)
	}
	return nil
}

func (s *sysfsGPIO) set(pin int, high bool) error {
	value := []byte("0")
	if high {
		value = []byte("1")
	}
	if err := os.WriteFile(filepath.Join(s.pinPath(pin), "value"), value, 0o644); err != nil {
		return fmt.Errorf("gpio%d value: %w", pin, err)
	}
	return nil
}

func (s *sysfsGPIO) pinPath(pin int) string {
	return filepath.Join(s.root, "gpio"+strconv.Itoa(pin))
}
