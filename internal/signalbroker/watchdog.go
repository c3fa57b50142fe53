// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"
	"os/signal"

	"github.com/marcelfarres/pachyderm/internal/ctxlog"
)

// Watch monitors the signal channel and cancels the context on the second
// signal of a given type.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for sig := range sigCh {
		if _, ok := seen[sig]; ok {
			ctxlog.Warn(ctx, "received second signal, aborting run", "signal", sig.String())
			// Deregister before closing so a late third signal is not
			// delivered to a closed channel.
			signal.Stop(sigCh)
			close(sigCh)
			cancel()

			return
		}

		ctxlog.Warn(ctx, "received signal, send again to abort", "signal", sig.String())

		seen[sig] = struct{}{}
	}
}
