// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package pachconfig

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const configPath = "/home/dev/.pachyderm/config.json"

const sampleConfig = `{
  "user_id": "abc",
  "v2": {
    "active_context": "local",
    "contexts": {
      "local": {"pachd_address": "localhost:30650"},
      "local-1": {"pachd_address": "192.168.99.100:30650"},
      "local-empty": {"pachd_address": "x"},
      "production": {"pachd_address": "pachd.example.com:650"},
      "localish": {"pachd_address": "y"}
    }
  }
}`

func writeConfig(t *testing.T, content string) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, configPath, []byte(content), 0o644))

	return fsys
}

func TestRewriteRemovesLocalContexts(t *testing.T) {
	fsys := writeConfig(t, sampleConfig)

	require.NoError(t, Rewrite(context.Background(), fsys, configPath))

	data, err := afero.ReadFile(fsys, configPath)
	require.NoError(t, err)

	doc := gjson.ParseBytes(data)
	contexts := doc.Get("v2.contexts").Map()

	assert.NotContains(t, contexts, "local")
	assert.NotContains(t, contexts, "local-1")
	assert.Contains(t, contexts, "production", "non-local contexts are preserved")
	assert.Contains(t, contexts, "localish", "only exact local(-N) names are removed")
	assert.Contains(t, contexts, "local-empty", "local-empty does not match the pattern")

	assert.Equal(t, "abc", doc.Get("user_id").String(), "unrelated fields are preserved")
}

func TestRewriteMissingConfigIsNoOp(t *testing.T) {
	fsys := afero.NewMemMapFs()

	require.NoError(t, Rewrite(context.Background(), fsys, configPath))

	exists, err := afero.Exists(fsys, configPath)
	require.NoError(t, err)
	assert.False(t, exists, "rewrite must not create a config file")
}

func TestRewriteInvalidJSONIsNoOp(t *testing.T) {
	fsys := writeConfig(t, "not json at all")

	require.NoError(t, Rewrite(context.Background(), fsys, configPath))

	data, err := afero.ReadFile(fsys, configPath)
	require.NoError(t, err)
	assert.Equal(t, "not json at all", string(data))
}

func TestRewriteNoV2IsNoOp(t *testing.T) {
	fsys := writeConfig(t, `{"v1": {"pachd_address": "localhost"}}`)

	require.NoError(t, Rewrite(context.Background(), fsys, configPath))

	data, err := afero.ReadFile(fsys, configPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v1": {"pachd_address": "localhost"}}`, string(data))
}

func TestRewriteEmptyLocalContextIsKept(t *testing.T) {
	fsys := writeConfig(t, `{"v2": {"contexts": {"local": {}}}}`)

	require.NoError(t, Rewrite(context.Background(), fsys, configPath))

	data, err := afero.ReadFile(fsys, configPath)
	require.NoError(t, err)
	assert.True(t, gjson.GetBytes(data, "v2.contexts.local").Exists(),
		"an empty local context has nothing stale in it and is left in place")
}
