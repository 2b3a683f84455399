// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads path over DefaultOptions, applies environment overrides and
// validates the result.
//
// Outputs:
//
//	Options - The configuration
//	error - Wraps os.ErrNotExist if path is missing, or ErrInvalidConfig
func Load(path string) (Options, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read the config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}

	opts.applyEnv(lookup)
	opts.normalize()

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// LoadOrCreate loads path, writing DefaultOptions there first if it does
// not exist.
func LoadOrCreate(path string) (Options, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Info("First run detected, creating config", slog.String("path", path))
		if err := createDefault(path); err != nil {
			return Options{}, err
		}
	}
	return Load(path)
}

func createDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(DefaultOptions())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
