// Package logging provides structured logging for the emulator.
//
// It wraps the standard log/slog package so every component logs with
// a consistent shape: JSON in production, text during development,
// with service and version attributes on every entry.
//
// Components take a narrow logger interface where practical so tests
// can pass no-op implementations; this package supplies the concrete
// logger wired in at startup.
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("server started", "port", 56700)
//	logger.Error("write failed", "error", err)
//
// Never log packet payloads at info level or above: discovery traffic
// is chatty enough to drown everything else.
package logging
