package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/sensorctl/cmd"
	"github.com/smazurov/sensorctl/internal/api"
	"github.com/smazurov/sensorctl/internal/config"
	"github.com/smazurov/sensorctl/internal/control"
	"github.com/smazurov/sensorctl/internal/events"
	"github.com/smazurov/sensorctl/internal/hotplug"
	"github.com/smazurov/sensorctl/internal/led"
	"github.com/smazurov/sensorctl/internal/logging"
	"github.com/smazurov/sensorctl/internal/metrics"
	"github.com/smazurov/sensorctl/internal/metrics/exporters"
	"github.com/smazurov/sensorctl/internal/power"
	"github.com/smazurov/sensorctl/internal/systemd"
	"github.com/smazurov/sensorctl/internal/version"
	"github.com/smazurov/sensorctl/pkg/sccb"
	"github.com/smazurov/sensorctl/pkg/sensor/mira220"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"sensorctl.toml"`

	// Server settings
	Port string `help:"Address to listen on" short:"p" default:":8091" toml:"server.port" env:"SERVER_PORT"`

	// Bus settings
	BusKind    string `help:"Register transport (i2c, serial, modbus, sim)" default:"i2c" toml:"bus.kind" env:"BUS_KIND"`
	BusDevice  string `help:"i2c-dev node, serial port or modbus host:port" default:"/dev/i2c-1" toml:"bus.device" env:"BUS_DEVICE"`
	BusAddress int    `help:"7-bit bus address or modbus unit id" default:"84" toml:"bus.address" env:"BUS_ADDRESS"`
	BusBaud    int    `help:"Serial bridge baud rate" default:"115200" toml:"bus.baud" env:"BUS_BAUD"`
	BusTimeout string `help:"Serial and modbus transaction timeout" default:"1s" toml:"bus.timeout" env:"BUS_TIMEOUT"`

	// Sensor settings
	SensorFormat    string `help:"Format applied on attach (catalog name)" default:"" toml:"sensor.format" env:"SENSOR_FORMAT"`
	SensorHoldDelay int    `help:"Group hold delay in frames for single changes" default:"1" toml:"sensor.hold_delay_frames" env:"SENSOR_HOLD_DELAY"`
	SensorPreset    string `help:"Preset file applied on attach and on change" default:"" toml:"sensor.preset" env:"SENSOR_PRESET"`
	SensorStream    bool   `help:"Start streaming after attach" default:"false" toml:"sensor.stream_on_start" env:"SENSOR_STREAM"`

	// Power settings
	PowerResetPin int    `help:"Reset GPIO, -1 when not wired" default:"-1" toml:"power.reset_pin" env:"POWER_RESET_PIN"`
	PowerPwdnPin  int    `help:"Powerdown GPIO, -1 when not wired" default:"-1" toml:"power.pwdn_pin" env:"POWER_PWDN_PIN"`
	PowerSettle   string `help:"Settle time between power line changes" default:"10ms" toml:"power.settle" env:"POWER_SETTLE"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Features settings
	FeaturesLEDControl bool   `help:"Drive the board status LED" default:"false" toml:"features.led_control_enabled" env:"FEATURES_LED_CONTROL"`
	FeaturesLEDName    string `help:"LED name override, empty to detect from the board" default:"" toml:"features.led_name" env:"FEATURES_LED_NAME"`
	FeaturesPrometheus bool   `help:"Serve Prometheus metrics at /metrics" default:"true" toml:"features.prometheus_enabled" env:"FEATURES_PROMETHEUS"`
	FeaturesHotplug    bool   `help:"Attach and detach when the bus device node comes and goes" default:"false" toml:"features.hotplug_enabled" env:"FEATURES_HOTPLUG"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingSensor  string `help:"Sensor controller logging level" default:"info" toml:"logging.sensor" env:"LOGGING_SENSOR"`
	LoggingControl string `help:"Control service logging level" default:"info" toml:"logging.control" env:"LOGGING_CONTROL"`
	LoggingAPI     string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP    string `help:"HTTP access logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
}

func parseDuration(logger *slog.Logger, name, s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		logger.Warn("Invalid duration, using default", "option", name, "value", s, "default", fallback)
		return fallback
	}
	return d
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"sensor":  opts.LoggingSensor,
				"control": opts.LoggingControl,
				"api":     opts.LoggingAPI,
				"http":    opts.LoggingHTTP,
			},
		})
		logger := logging.GetLogger("main")

		eventBus := events.New()
		stopMetrics := metrics.Follow(eventBus)

		holdDelay := uint8(mira220.DefaultHoldDelayFrames)
		if opts.SensorHoldDelay >= 0 && opts.SensorHoldDelay <= 0xFF {
			holdDelay = uint8(opts.SensorHoldDelay)
		} else {
			logger.Warn("Hold delay out of range, using default", "value", opts.SensorHoldDelay)
		}

		service := control.NewService(control.Options{
			Transport: sccb.Config{
				Kind:     opts.BusKind,
				Device:   opts.BusDevice,
				Address:  uint16(opts.BusAddress),
				BaudRate: opts.BusBaud,
				Timeout:  parseDuration(logger, "bus.timeout", opts.BusTimeout, time.Second),
				Sim:      mira220.SimRegisters(),
			},
			Power: power.New(power.Config{
				ResetPin: opts.PowerResetPin,
				PwdnPin:  opts.PowerPwdnPin,
				Settle:   parseDuration(logger, "power.settle", opts.PowerSettle, 10*time.Millisecond),
			}, logging.GetLogger("power")),
			DefaultFormat: opts.SensorFormat,
			HoldDelay:     holdDelay,
			EventBus:      eventBus,
			Logger:        logging.GetLogger("control"),
			SensorOptions: []mira220.Option{mira220.WithLogger(logging.GetLogger("sensor"))},
		})

		var ledManager *led.Manager
		var ledController led.Controller
		if opts.FeaturesLEDControl {
			logger.Info("LED control enabled, initializing")
			ledController = led.New(led.Config{Name: opts.FeaturesLEDName}, logging.GetLogger("led"))
			ledManager = led.NewManager(ledController, eventBus, logging.GetLogger("led"))
		}

		apiOpts := &api.Options{
			AuthUsername:  opts.AuthUsername,
			AuthPassword:  opts.AuthPassword,
			Service:       service,
			LEDController: ledController,
		}
		if opts.FeaturesPrometheus {
			apiOpts.PrometheusHandler = exporters.HTTPHandler()
		}
		server := api.NewServer(apiOpts)

		notifier := systemd.NewNotifier(logging.GetLogger("systemd"))
		ctx, cancel := context.WithCancel(context.Background())
		var presetWatcher *config.Watcher[config.Preset]
		var monitor *hotplug.Monitor

		hooks.OnStart(func() {
			if ledManager != nil {
				ledManager.Start()
			}

			if err := service.Attach(ctx); err != nil {
				logger.Error("Sensor not attached, retry with PUT /api/sensor", "error", err)
			} else {
				if opts.SensorPreset != "" {
					w, err := service.WatchPreset(ctx, opts.SensorPreset)
					if err != nil {
						logger.Warn("Preset not watched", "path", opts.SensorPreset, "error", err)
					} else {
						presetWatcher = w
					}
				}
				if opts.SensorStream {
					if err := service.SetStreaming(true); err != nil {
						logger.Error("Failed to start streaming", "error", err)
					}
				}
			}

			if opts.FeaturesHotplug && (opts.BusKind == sccb.KindI2C || opts.BusKind == sccb.KindSerial) {
				m, err := hotplug.NewMonitor()
				if err != nil {
					logger.Warn("Hotplug monitor unavailable", "error", err)
				} else {
					monitor = m
					monitor.AddSubsystemFilter(hotplug.SubsystemI2CDev)
					monitor.AddSubsystemFilter(hotplug.SubsystemTTY)
					uevents := make(chan hotplug.Event, 8)
					go func() {
						if err := monitor.Run(ctx, uevents); err != nil && !errors.Is(err, context.Canceled) {
							logger.Warn("Hotplug monitor stopped", "error", err)
						}
					}()
					go service.FollowHotplug(ctx, uevents)
				}
			}

			notifier.Ready()
			go notifier.Watchdog(ctx, func() bool { return service.Status().Attached })

			logger.Info("Starting HTTP server", "port", opts.Port)
			if err := server.Start(opts.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", err)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down")
			notifier.Stopping()
			cancel()

			if err := server.Stop(); err != nil {
				logger.Error("Error stopping HTTP server", "error", err)
			}
			if monitor != nil {
				if err := monitor.Close(); err != nil {
					logger.Warn("Error closing hotplug monitor", "error", err)
				}
			}
			if presetWatcher != nil {
				if err := presetWatcher.Stop(); err != nil {
					logger.Warn("Error stopping preset watcher", "error", err)
				}
			}
			if err := service.Detach(); err != nil {
				logger.Error("Error detaching sensor", "error", err)
			}
			if ledManager != nil {
				ledManager.Stop()
			}
			stopMetrics()
		})
	})

	cli.Root().Use = "sensorctl"
	cli.Root().Short = "MIRA220 image sensor control daemon"
	cli.Root().Version = version.String()
	cli.Root().AddCommand(cmd.CreateDetectCmd())
	cli.Root().AddCommand(cmd.CreateFormatsCmd())
	cli.Root().AddCommand(cmd.CreateRegCmd())
	cli.Root().AddCommand(cmd.CreatePresetCmd())

	cli.Run()
}
