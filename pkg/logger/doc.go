// Package logger provides a small factory for log/slog loggers used across
// the clientkit packages. It supports text and JSON handlers, configurable
// level and output, and static attributes such as a service name.
//
// Components in this module accept an optional *slog.Logger and fall back to
// logger.Discard() when none is provided, so library consumers never pay for
// logging they did not ask for.
//
// Usage:
//
//	log := logger.New(
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithFormat(logger.FormatJSON),
//	    logger.WithService("theraflow-client"),
//	)
package logger
