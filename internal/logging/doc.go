// Package logging provides structured logging with per-module log levels.
//
// Every record is routed to stdout when it is a terminal, pipe or file, to
// the systemd journal when journald is reachable, and to an in-memory
// history that the HTTP API serves under /api/logs.
//
// Initialize once at startup, then ask for a module logger:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"sccb":    "debug",
//			"control": "info",
//		},
//	})
//
//	logger := logging.GetLogger("control")
//	logger.Info("Sensor attached", "pid", "0x0130")
//
// Loggers obtained before Initialize are rebuilt in place, so package level
// loggers keep working.
//
// # Viewing Logs
//
//	journalctl -t sensorctl -f
//	journalctl -t sensorctl MODULE=sccb -p err
//
// # Configuration
//
//	[logging]
//	level = "info"
//	format = "text"
//
//	[logging.modules]
//	sccb = "debug"
package logging
