// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcelfarres/pachyderm/internal/ctxlog"
	"github.com/marcelfarres/pachyderm/internal/driver"
	"github.com/marcelfarres/pachyderm/internal/execx"
	"github.com/marcelfarres/pachyderm/internal/manifest"
	"github.com/marcelfarres/pachyderm/internal/pachconfig"
	"github.com/marcelfarres/pachyderm/internal/release"
	"github.com/marcelfarres/pachyderm/internal/resetcfg"
	"github.com/marcelfarres/pachyderm/internal/taskgroup"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	noDeployFlag        = "no-deploy"
	noConfigRewriteFlag = "no-config-rewrite"
	deployArgsFlag      = "deploy-args"
	deployToFlag        = "deploy-to"
	deployVersionFlag   = "deploy-version"
	logLevelFlag        = "log-level"

	localTarget = "local"
	headVersion = "head"
)

// ErrPreconditions is returned when the environment is not set up for a
// reset.
var ErrPreconditions = errors.New("environment preconditions not met")

func newRootCmd(cfg resetcfg.Config) *cli.Command {
	return &cli.Command{
		Name: "reset",
		Description: `Recompiles pachyderm tooling and restarts the cluster with a clean slate.

Defaults for every flag can be placed in ~/.pachyderm/reset.yaml.`,
		Usage:     "reset [--deploy-version head]",
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:     noDeployFlag,
				Usage:    "Disables deployment",
				Value:    cfg.NoDeploy,
				OnlyOnce: true,
			},
			&cli.BoolFlag{
				Name:     noConfigRewriteFlag,
				Usage:    "Disables config rewriting",
				Value:    cfg.NoConfigRewrite,
				OnlyOnce: true,
			},
			&cli.StringFlag{
				Name:     deployArgsFlag,
				Usage:    "Arguments to be passed into pachctl deploy",
				Value:    cfg.DeployArgs,
				OnlyOnce: true,
			},
			&cli.StringFlag{
				Name:     deployToFlag,
				Usage:    "Set where to deploy",
				Value:    cfg.DeployTo,
				OnlyOnce: true,
			},
			&cli.StringFlag{
				Name:     deployVersionFlag,
				Usage:    "Sets the deployment version",
				Value:    cfg.DeployVersion,
				OnlyOnce: true,
			},
			&cli.StringFlag{
				Name: logLevelFlag,
				Usage: "Sets the log level; defaults to 'info', other options include " +
					"'critical', 'error', 'warning', and 'debug'",
				Value:    cfg.LogLevel,
				OnlyOnce: true,
			},
		},
		Action: resetAction,
	}
}

func resetAction(ctx context.Context, cmd *cli.Command) error {
	lvl, err := ctxlog.ParseLevel(cmd.String(logLevelFlag))
	if err != nil {
		return err
	}

	ctxlog.SetLevel(lvl)

	gopath, err := checkPreconditions(ctx, cmd.Bool(noDeployFlag))
	if err != nil {
		return err
	}

	deployTo := cmd.String(deployToFlag)
	deployVersion := cmd.String(deployVersionFlag)

	drv := selectDriver(ctx, deployTo)

	if err := drv.Clear(ctx); err != nil {
		return err
	}

	if deployVersion == headVersion {
		if err := buildHead(ctx, drv, gopath, cmd.Bool(noConfigRewriteFlag)); err != nil {
			return err
		}
	} else {
		if err := installRelease(ctx, deployVersion); err != nil {
			return err
		}
	}

	version, err := execx.Capture(ctx, "pachctl", "version", "--client-only")
	if err != nil {
		return err
	}

	ctxlog.Info(ctx, fmt.Sprintf("deploying pachyderm version v%s", version))

	if _, err := execx.Run(ctx, "which", []string{"pachctl"}); err != nil {
		return err
	}

	set, dashImage, err := scrapeManifests(ctx, cmd.String(deployArgsFlag))
	if err != nil {
		return err
	}

	if err := drv.PushImages(ctx, deployVersion, dashImage); err != nil {
		return err
	}

	if !cmd.Bool(noDeployFlag) {
		if err := deploy(ctx, drv, set, deployTo); err != nil {
			return err
		}
	}

	return drv.SetConfig(ctx)
}

// checkPreconditions verifies the environment and returns GOPATH.
func checkPreconditions(ctx context.Context, noDeploy bool) (string, error) {
	gopath := os.Getenv("GOPATH")
	if gopath == "" {
		ctxlog.Critical(ctx, "must set GOPATH")
		return "", ErrPreconditions
	}

	if !noDeploy && os.Getenv("PACH_CA_CERTS") != "" {
		ctxlog.Critical(ctx, "must unset PACH_CA_CERTS\nRun:\nunset PACH_CA_CERTS")
		return "", ErrPreconditions
	}

	return gopath, nil
}

func selectDriver(ctx context.Context, deployTo string) driver.Driver {
	if deployTo == localTarget {
		return driver.Detect(ctx)
	}

	return &driver.Generic{}
}

// buildHead rebuilds the tooling and images from the working tree while the
// cluster driver starts, all in parallel. The build, the driver start and
// the config rewrite are independent, so a failure in one still lets the
// others run to completion before the aggregate error surfaces.
func buildHead(ctx context.Context, drv driver.Driver, gopath string, noConfigRewrite bool) error {
	// A stale binary must not satisfy the version check below.
	if err := os.Remove(filepath.Join(gopath, "bin", "pachctl")); err != nil && !os.IsNotExist(err) {
		ctxlog.Debug(ctx, "could not remove stale pachctl", "error", err)
	}

	tasks := []taskgroup.Task{
		{Label: "start " + drv.Name(), Fn: drv.Start},
		{Label: "make install", Fn: func(ctx context.Context) error {
			_, err := execx.Run(ctx, "make", []string{"install"})
			return err
		}},
		{Label: "make docker-build", Fn: func(ctx context.Context) error {
			_, err := execx.Run(ctx, "make", []string{"docker-build"})
			return err
		}},
	}

	if !noConfigRewrite {
		tasks = append(tasks, taskgroup.Task{Label: "rewrite config", Fn: func(ctx context.Context) error {
			path, err := pachconfig.DefaultPath()
			if err != nil {
				return err
			}

			return pachconfig.Rewrite(ctx, afero.NewOsFs(), path)
		}})
	}

	return taskgroup.Run(ctx, tasks...)
}

// installRelease makes sure the released pachctl version is installed and
// its images are pulled.
func installRelease(ctx context.Context, version string) error {
	need, err := release.NeedsDownload(ctx, version)
	if err != nil {
		return err
	}

	if need {
		binDir, err := release.BinDir()
		if err != nil {
			return err
		}

		if err := release.Fetch(ctx, release.URL(version), binDir); err != nil {
			return err
		}
	}

	for _, image := range []string{
		fmt.Sprintf("pachyderm/pachd:%s", version),
		fmt.Sprintf("pachyderm/worker:%s", version),
	} {
		if _, err := execx.Run(ctx, "docker", []string{"pull", image}); err != nil {
			return err
		}
	}

	return nil
}

// scrapeManifests renders the deployment manifests with a dry run, pulls the
// images referenced in them, and returns the manifests plus the dash image
// for the driver to push.
func scrapeManifests(ctx context.Context, deployArgs string) (*manifest.Set, string, error) {
	args := append([]string{"deploy", "local", "-d", "--dry-run"}, strings.Fields(deployArgs)...)

	out, err := execx.Capture(ctx, "pachctl", args...)
	if err != nil {
		return nil, "", err
	}

	set, err := manifest.Parse(out)
	if err != nil {
		return nil, "", err
	}

	dashImage, err := set.Image("dash")
	if err != nil {
		return nil, "", err
	}

	grpcProxyImage, err := set.Image("grpc-proxy")
	if err != nil {
		return nil, "", err
	}

	for _, image := range []string{dashImage, grpcProxyImage, driver.EtcdImage} {
		if _, err := execx.Run(ctx, "docker", []string{"pull", image}); err != nil {
			return nil, "", err
		}
	}

	return set, dashImage, nil
}

// deploy feeds the manifests to kubectl and waits for pachyderm to come up.
func deploy(ctx context.Context, drv driver.Driver, set *manifest.Set, deployTo string) error {
	if deployTo != localTarget {
		set = set.Retarget(deployTo)
	}

	_, err := execx.Run(ctx, "kubectl", []string{"create", "-f", "-"},
		execx.WithStdin(set.JSON()))
	if err != nil {
		return err
	}

	return drv.Wait(ctx)
}
