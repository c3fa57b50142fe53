// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package driver abstracts the local Kubernetes environments a cluster reset
// can target. A driver knows how to tear down the previous deployment, start
// the environment, make locally-built images visible to it, wait for
// pachyderm to come up, and point the pachctl context at it.
package driver

import (
	"context"
	"time"

	"github.com/marcelfarres/pachyderm/internal/ctxlog"
	"github.com/marcelfarres/pachyderm/internal/execx"
)

// EtcdImage is the etcd image deployed alongside pachd.
const EtcdImage = "quay.io/coreos/etcd:v3.3.5"

var pollInterval = time.Second

// Driver is one local cluster environment.
type Driver interface {
	// Name identifies the driver in logs.
	Name() string
	// Available reports whether this driver can be used on this machine.
	Available(ctx context.Context) bool
	// Clear tears down the previous deployment.
	Clear(ctx context.Context) error
	// Start brings the environment up and blocks until it is ready.
	Start(ctx context.Context) error
	// PushImages makes locally-built images visible to the environment.
	PushImages(ctx context.Context, deployVersion, dashImage string) error
	// Wait blocks until pachyderm responds.
	Wait(ctx context.Context) error
	// SetConfig points the local pachctl context at the environment.
	SetConfig(ctx context.Context) error
}

// Detect picks the driver for the "local" deploy target: minikube when it is
// installed, otherwise kubernetes-for-docker.
func Detect(ctx context.Context) Driver {
	m := &Minikube{}
	if m.Available(ctx) {
		ctxlog.Info(ctx, "using the minikube driver")
		return m
	}

	ctxlog.Info(ctx, "using the k8s for docker driver")
	ctxlog.Warn(ctx, "with this driver, it's not possible to fully reset the cluster")

	return &Docker{}
}

// Generic targets an already-running cluster reachable through the current
// kubectl context. It is used for non-local deploy targets.
type Generic struct{}

// Name implements Driver.
func (*Generic) Name() string { return "generic" }

// Available implements Driver. The generic driver assumes the cluster is
// reachable and is always available.
func (*Generic) Available(context.Context) bool { return true }

// Clear implements Driver.
func (*Generic) Clear(ctx context.Context) error {
	_, err := execx.Run(ctx, "kubectl",
		[]string{"delete", "daemonsets,replicasets,services,deployments,pods,rc,pvc", "--all"})

	return err
}

// Start implements Driver. The generic driver does not manage the cluster
// lifecycle.
func (*Generic) Start(context.Context) error { return nil }

// PushImages implements Driver. The generic driver relies on a registry the
// cluster can already pull from.
func (*Generic) PushImages(context.Context, string, string) error { return nil }

// Wait implements Driver.
func (*Generic) Wait(ctx context.Context) error {
	return awaitReady(ctx, "waiting for pachyderm to come up...", func(ctx context.Context) (int, error) {
		return execx.Probe(ctx, "pachctl", "version")
	})
}

// SetConfig implements Driver.
func (*Generic) SetConfig(context.Context) error { return nil }

// awaitReady polls the probe once a second until it reports exit code zero.
// Probe spawn failures abort the wait; the context bounds it.
func awaitReady(ctx context.Context, msg string, probe func(ctx context.Context) (int, error)) error {
	for {
		rc, err := probe(ctx)
		if err != nil {
			return err
		}

		if rc == 0 {
			return nil
		}

		ctxlog.Info(ctx, msg)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}
