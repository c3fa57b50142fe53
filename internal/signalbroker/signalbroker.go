// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker listens for OS termination signals and cancels the
// run context when a second signal of the same type arrives. The first
// signal is logged and otherwise ignored so a long-running reset can finish
// the step in flight; repeating it aborts the run.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/marcelfarres/pachyderm/internal/ctxlog"
)

var termSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
	os.Interrupt,
}

// New creates a signal channel subscribed to the signals that should
// terminate the process. With no arguments the default termination set is
// used.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 1)

	if len(sigs) == 0 {
		sigs = termSignals
	}

	ctxlog.Debug(ctx, "creating signal broker", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch
}
