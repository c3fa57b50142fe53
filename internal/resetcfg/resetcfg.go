// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package resetcfg loads the optional reset defaults file at
// ~/.pachyderm/reset.yaml. Anything set there becomes the default for the
// matching CLI flag; flags given on the command line still win.
package resetcfg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

// ErrParseConfig is returned when the defaults file exists but cannot be
// parsed.
var ErrParseConfig = errors.New("failed to parse reset defaults file")

// Config holds flag defaults.
type Config struct {
	DeployTo        string `yaml:"deployTo"`
	DeployVersion   string `yaml:"deployVersion"`
	DeployArgs      string `yaml:"deployArgs"`
	LogLevel        string `yaml:"logLevel"`
	NoDeploy        bool   `yaml:"noDeploy"`
	NoConfigRewrite bool   `yaml:"noConfigRewrite"`
}

// Default returns the built-in defaults used when no defaults file exists.
func Default() Config {
	return Config{
		DeployTo:      "local",
		DeployVersion: "head",
		LogLevel:      "info",
	}
}

// DefaultPath returns the location of the defaults file.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate home directory: %w", err)
	}

	return filepath.Join(home, ".pachyderm", "reset.yaml"), nil
}

// Load reads the defaults file at path, layered over the built-in defaults.
// A missing file yields the built-in defaults; a malformed one is an error
// rather than a silent fallback, since the user wrote it on purpose.
func Load(fsys afero.Fs, path string) (Config, error) {
	cfg := Default()

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), errors.Join(ErrParseConfig, err)
	}

	return cfg, nil
}
