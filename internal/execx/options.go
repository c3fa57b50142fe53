// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package execx

import "log/slog"

type options struct {
	stdin        []byte
	stdoutLevel  slog.Level
	stderrLevel  slog.Level
	allowNonZero bool
}

func defaultOptions() options {
	return options{
		stdoutLevel: slog.LevelInfo,
		stderrLevel: slog.LevelError,
	}
}

// Option implements a functional options pattern for Run.
type Option func(*options)

// WithStdin feeds the given payload to the child's standard input.
func WithStdin(payload []byte) Option {
	return func(o *options) {
		o.stdin = payload
	}
}

// WithStdoutLevel sets the log level for standard output lines.
// The default is info.
func WithStdoutLevel(l slog.Level) Option {
	return func(o *options) {
		o.stdoutLevel = l
	}
}

// WithStderrLevel sets the log level for standard error lines.
// The default is error.
func WithStderrLevel(l slog.Level) Option {
	return func(o *options) {
		o.stderrLevel = l
	}
}

// WithoutExitError disables the non-zero-exit-is-an-error policy. The exit
// code is returned as data in the Result instead.
func WithoutExitError() Option {
	return func(o *options) {
		o.allowNonZero = true
	}
}
