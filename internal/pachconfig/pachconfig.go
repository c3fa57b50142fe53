// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pachconfig rewrites the local pachyderm config file, dropping the
// stale "local" contexts a previous deployment left behind so the next
// deploy starts from a clean context list. The rest of the file is not ours
// and is preserved untouched.
package pachconfig

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/marcelfarres/pachyderm/internal/ctxlog"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var localContextPattern = regexp.MustCompile(`^local(-\d+)?$`)

// DefaultPath returns the location of the pachyderm config file.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate home directory: %w", err)
	}

	return filepath.Join(home, ".pachyderm", "config.json"), nil
}

// Rewrite removes every non-empty v2 context whose name matches
// local(-N) from the config file at path. A missing or unreadable config,
// or one without v2 contexts, is a silent no-op: there is nothing to clean.
func Rewrite(ctx context.Context, fsys afero.Fs, path string) error {
	ctxlog.Info(ctx, "rewriting config")

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		ctxlog.Debug(ctx, "no config to rewrite", "path", path, "error", err)
		return nil
	}

	doc := string(data)
	if !gjson.Valid(doc) {
		ctxlog.Debug(ctx, "config is not valid JSON, leaving it alone", "path", path)
		return nil
	}

	contexts := gjson.Get(doc, "v2.contexts")
	if !contexts.Exists() {
		return nil
	}

	var stale []string

	contexts.ForEach(func(k, v gjson.Result) bool {
		if localContextPattern.MatchString(k.String()) && len(v.Map()) > 0 {
			stale = append(stale, k.String())
		}

		return true
	})

	if len(stale) == 0 {
		return nil
	}

	for _, name := range stale {
		ctxlog.Debug(ctx, "removing stale context", "context", name)

		doc, err = sjson.Delete(doc, "v2.contexts."+name)
		if err != nil {
			return fmt.Errorf("cannot remove context %q: %w", name, err)
		}
	}

	buf := &bytes.Buffer{}
	if err := json.Indent(buf, []byte(doc), "", "  "); err != nil {
		return fmt.Errorf("cannot format config: %w", err)
	}

	return afero.WriteFile(fsys, path, buf.Bytes(), 0o644)
}
