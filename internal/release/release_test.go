// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package release

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	got := URL("1.9.7")
	assert.Equal(t,
		"https://github.com/pachyderm/pachyderm/releases/download/v1.9.7/pachctl_1.9.7_"+runtime.GOOS+"_amd64.tar.gz",
		got)
}

func TestBinDir(t *testing.T) {
	stubs := gostub.New()
	defer stubs.Reset()

	stubs.SetEnv("GOPATH", "/go")

	dir, err := BinDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/go", "bin"), dir)

	stubs.UnsetEnv("GOPATH")

	_, err = BinDir()
	require.ErrorIs(t, err, ErrNoGopath)
}

func TestFetchLocalSource(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "pachctl"), []byte("#!/bin/sh\n"), 0o755))

	dst := filepath.Join(t.TempDir(), "bin")

	require.NoError(t, Fetch(context.Background(), src, dst))

	_, err := os.Stat(filepath.Join(dst, "pachctl"))
	assert.NoError(t, err, "fetched payload should land in the destination directory")
}

func TestFetchBadSource(t *testing.T) {
	err := Fetch(context.Background(), filepath.Join(t.TempDir(), "missing"), t.TempDir())
	require.ErrorIs(t, err, ErrFetch)
}
