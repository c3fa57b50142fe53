// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package driver

import (
	"context"
	"fmt"

	"github.com/marcelfarres/pachyderm/internal/execx"
)

const pushScript = "./etc/kube/push-to-minikube.sh"

// Minikube drives a minikube VM. It is the preferred local environment
// because `minikube delete` gives a genuinely clean slate.
type Minikube struct {
	Generic
}

// Name implements Driver.
func (*Minikube) Name() string { return "minikube" }

// Available implements Driver.
func (*Minikube) Available(ctx context.Context) bool {
	rc, err := execx.Probe(ctx, "which", "minikube")

	return err == nil && rc == 0
}

// Clear implements Driver. Deleting the VM removes the deployment and all of
// its state.
func (*Minikube) Clear(ctx context.Context) error {
	_, err := execx.Run(ctx, "minikube", []string{"delete"})

	return err
}

// Start implements Driver.
func (*Minikube) Start(ctx context.Context) error {
	if _, err := execx.Run(ctx, "minikube", []string{"start"}); err != nil {
		return err
	}

	return awaitReady(ctx, "waiting for minikube to come up...", func(ctx context.Context) (int, error) {
		return execx.Probe(ctx, "minikube", "status")
	})
}

// PushImages implements Driver. Locally-built images are loaded into the VM
// one by one; minikube cannot pull them from the host daemon.
func (*Minikube) PushImages(ctx context.Context, deployVersion, dashImage string) error {
	images := []string{
		fmt.Sprintf("pachyderm/pachd:%s", deployVersion),
		fmt.Sprintf("pachyderm/worker:%s", deployVersion),
		EtcdImage,
		dashImage,
	}

	for _, image := range images {
		if _, err := execx.Run(ctx, pushScript, []string{image}); err != nil {
			return err
		}
	}

	return nil
}

// SetConfig implements Driver. The VM has its own IP, so the pachctl context
// is pointed at it rather than localhost.
func (*Minikube) SetConfig(ctx context.Context) error {
	ip, err := execx.Capture(ctx, "minikube", "ip")
	if err != nil {
		return err
	}

	_, err = execx.Run(ctx, "pachctl",
		[]string{"config", "update", "context", fmt.Sprintf("--pachd-address=%s", ip)})

	return err
}
