// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package resetcfg

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cfgPath = "/home/dev/.pachyderm/reset.yaml"

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), cfgPath)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "local", cfg.DeployTo)
	assert.Equal(t, "head", cfg.DeployVersion)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverridesDefaults(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, cfgPath, []byte(`
deployTo: staging
logLevel: debug
noConfigRewrite: true
`), 0o644))

	cfg, err := Load(fsys, cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.DeployTo)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.NoConfigRewrite)
	assert.Equal(t, "head", cfg.DeployVersion, "unset keys keep the built-in default")
}

func TestLoadMalformed(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, cfgPath, []byte("deployTo: [unclosed"), 0o644))

	_, err := Load(fsys, cfgPath)
	require.ErrorIs(t, err, ErrParseConfig)
}
