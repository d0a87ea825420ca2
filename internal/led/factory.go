package led

import (
	"log/slog"
	"os"
	"strings"
)

const deviceTreeModelPath = "/proc/device-tree/model"

// Config selects the status LED. Name is the directory under
// /sys/class/leds; when empty it is guessed from the board model.
type Config struct {
	Name string
	Root string
}

// boardLEDs maps device-tree model substrings to the LED used for status.
var boardLEDs = []struct {
	model string
	led   string
}{
	{"Raspberry Pi", "ACT"},
	{"NanoPC-T6", "usr_led"},
	{"Orange Pi", "green_led"},
}

// New returns a sysfs controller for the status LED, or a no-op
// controller when none can be found.
func New(cfg Config, logger *slog.Logger) Controller {
	if logger == nil {
		logger = slog.Default()
	}

	name := cfg.Name
	if name == "" {
		model := detectBoard()
		name = ledForBoard(model)
		logger.Info("Detected board for status LED", "board_model", model, "led", name)
	}
	if name == "" {
		logger.Info("No status LED for this board, using no-op controller")
		return newNoop(logger)
	}
	return newSysfs(cfg.Root, map[string]string{StatusLED: name})
}

func ledForBoard(model string) string {
	for _, b := range boardLEDs {
		if strings.Contains(model, b.model) {
			return b.led
		}
	}
	return ""
}

func detectBoard() string {
	data, err := os.ReadFile(deviceTreeModelPath)
	if err != nil {
		return "unknown"
	}
	return strings.TrimRight(string(data), "\x00")
}
