// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the optional atlas.config.yaml settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the settings file looked for in a scanned root.
const ConfigFileName = "atlas.config.yaml"

// Config holds the optional per-project settings.
//
// Description:
//
//	Everything is optional; a missing file or empty document yields
//	the zero Config and callers fall back to built-in defaults.
type Config struct {
	// Extensions restricts directory scans to these file extensions
	// (with leading dots, e.g. ".py"). Empty means the default set.
	Extensions []string `yaml:"extensions"`

	// Exclude lists directory names skipped during scans, in addition
	// to the built-in set (.git, node_modules, ...).
	Exclude []string `yaml:"exclude"`

	// MaxFileSizeBytes caps the size of a single parsed file.
	// Zero means the built-in default.
	MaxFileSizeBytes int64 `yaml:"max_file_size_bytes"`
}

// Load reads atlas.config.yaml from the given root directory.
//
// Description:
//
//	A missing file is not an error: the zero Config is returned so
//	the caller's defaults apply. Only read failures and malformed
//	YAML are reported.
//
// Inputs:
//
//	root - Directory expected to contain the config file. Empty
//	returns the zero Config.
//
// Outputs:
//
//	Config - The loaded settings, or the zero value.
//	error - Non-nil on read or parse failure.
func Load(root string) (Config, error) {
	var cfg Config
	if root == "" {
		return cfg, nil
	}

	path := filepath.Join(root, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}
