// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// LevelCritical sits above slog.LevelError and is used for failures the tool
// cannot continue past, such as missing environment preconditions.
const LevelCritical = slog.LevelError + 4

// EnvLogLevel is the environment variable that sets the initial log level.
const EnvLogLevel = "RESET_LOG_LEVEL"

// ErrUnknownLevel is returned by ParseLevel for an unrecognized level name.
var ErrUnknownLevel = errors.New("unknown log level")

type loggerKey struct{}

// LevelVar holds the process-wide log level used by DefaultLogger.
var LevelVar = &slog.LevelVar{}

// DefaultLogger is the pretty console logger used when no logger is provided.
var DefaultLogger = slog.New(NewPrettyHandler(&slog.HandlerOptions{
	Level: LevelVar,
},
	WithDestinationWriter(os.Stderr),
))

func init() {
	if lvl, err := ParseLevel(os.Getenv(EnvLogLevel)); err == nil {
		LevelVar.Set(lvl)
	} else {
		LevelVar.Set(slog.LevelInfo)
	}
}

// New creates a new context carrying the given logger.
// If logger is nil, DefaultLogger is used.
func New(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		logger = DefaultLogger
	}

	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the logger from the context, or DefaultLogger if not found.
func Logger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok || logger == nil {
		return DefaultLogger
	}

	return logger
}

// Debug logs a debug message with the given context.
func Debug(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Debug(msg, args...)
}

// Info logs an info message with the given context.
func Info(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Info(msg, args...)
}

// Warn logs a warning message with the given context.
func Warn(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Warn(msg, args...)
}

// Error logs an error message with the given context.
func Error(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Error(msg, args...)
}

// Critical logs a message at LevelCritical with the given context.
func Critical(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Log(ctx, LevelCritical, msg, args...)
}

// SetLevel sets the process-wide log level used by DefaultLogger.
func SetLevel(l slog.Level) {
	LevelVar.Set(l)
}

// ParseLevel converts a level name ("critical", "error", "warning", "info"
// or "debug") to an slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "critical":
		return LevelCritical, nil
	case "error":
		return slog.LevelError, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// LevelName returns the display name for a level, accounting for
// LevelCritical which slog would otherwise render as "ERROR+4".
func LevelName(l slog.Level) string {
	if l >= LevelCritical {
		return "CRITICAL"
	}

	return l.String()
}
