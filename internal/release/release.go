// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package release installs released pachctl builds. A release is a tar.gz
// published on GitHub; fetching and unpacking it into $GOPATH/bin is
// delegated to go-getter, which understands both the transport and the
// archive format.
package release

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/hashicorp/go-getter/v2"
	"github.com/marcelfarres/pachyderm/internal/ctxlog"
	"github.com/marcelfarres/pachyderm/internal/execx"
)

// ErrFetch is returned when a release cannot be downloaded or unpacked.
var ErrFetch = errors.New("failed to fetch pachctl release")

// ErrNoGopath is returned when GOPATH is not set, so there is nowhere to
// install to.
var ErrNoGopath = errors.New("GOPATH is not set")

// URL returns the download location for a released pachctl version on the
// given platform.
func URL(version string) string {
	return fmt.Sprintf(
		"https://github.com/pachyderm/pachyderm/releases/download/v%s/pachctl_%s_%s_amd64.tar.gz",
		version, version, runtime.GOOS)
}

// BinDir returns the install destination, $GOPATH/bin.
func BinDir() (string, error) {
	gopath := os.Getenv("GOPATH")
	if gopath == "" {
		return "", ErrNoGopath
	}

	return filepath.Join(gopath, "bin"), nil
}

// NeedsDownload reports whether the installed pachctl is missing or does not
// match the requested version.
func NeedsDownload(ctx context.Context, version string) (bool, error) {
	rc, err := execx.Probe(ctx, "which", "pachctl")
	if err != nil {
		return false, err
	}

	if rc != 0 {
		return true, nil
	}

	installed, err := execx.Capture(ctx, "pachctl", "version", "--client-only")
	if err != nil {
		return false, err
	}

	return installed != version, nil
}

// Fetch downloads src and unpacks it into dstDir.
func Fetch(ctx context.Context, src, dstDir string) error {
	ctxlog.Info(ctx, "downloading pachctl release", "url", src)

	wd, err := os.Getwd()
	if err != nil {
		return errors.Join(ErrFetch, err)
	}

	client := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     src,
		Dst:     dstDir,
		Pwd:     wd,
		GetMode: getter.ModeDir,
	}

	if _, err := client.Get(ctx, req); err != nil {
		return errors.Join(ErrFetch, err)
	}

	return nil
}
