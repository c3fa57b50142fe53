// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the reset command-line interface: it recompiles the
// pachyderm tooling and restarts the local cluster with a clean slate.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/marcelfarres/pachyderm"
	"github.com/marcelfarres/pachyderm/internal/ctxlog"
	"github.com/marcelfarres/pachyderm/internal/resetcfg"
	"github.com/marcelfarres/pachyderm/internal/signalbroker"
	"github.com/spf13/afero"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)

	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	cfg := loadDefaults(ctx)

	rootCmd := newRootCmd(cfg)
	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", pachyderm.Version, pachyderm.Commit)

	err := rootCmd.Run(ctx, os.Args)

	// Check if the context was cancelled (e.g., due to signals)
	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("reset terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("reset failed", "error", err)
		os.Exit(1)
	}
}

// loadDefaults reads ~/.pachyderm/reset.yaml. A broken defaults file must
// not take the tool down; it is reported and the built-ins are used.
func loadDefaults(ctx context.Context) resetcfg.Config {
	path, err := resetcfg.DefaultPath()
	if err != nil {
		ctxlog.Warn(ctx, "cannot resolve defaults file path", "error", err)
		return resetcfg.Default()
	}

	cfg, err := resetcfg.Load(afero.NewOsFs(), path)
	if err != nil {
		ctxlog.Warn(ctx, "ignoring defaults file", "path", path, "error", err)
		return resetcfg.Default()
	}

	return cfg
}
