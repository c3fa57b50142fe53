// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package driver

import (
	"context"

	"github.com/marcelfarres/pachyderm/internal/execx"
)

// Docker drives the Kubernetes cluster bundled with Docker Desktop. It
// shares the host image store, so nothing needs pushing, but clearing is
// limited to deleting the deployed objects.
type Docker struct {
	Generic
}

// Name implements Driver.
func (*Docker) Name() string { return "docker" }

// SetConfig implements Driver. The cluster shares the host network, so pachd
// is reachable on the node port at localhost.
func (*Docker) SetConfig(ctx context.Context) error {
	_, err := execx.Run(ctx, "pachctl",
		[]string{"config", "update", "context", "--pachd-address=localhost:30650"})

	return err
}
