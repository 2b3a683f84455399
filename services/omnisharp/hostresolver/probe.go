// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package hostresolver

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"time"
)

// VersionProbe inspects the runtime visible through env.
//
// ProbeVersion returns the self-reported version and true, or false when
// no runtime answered. It must not mutate env.
type VersionProbe interface {
	ProbeVersion(ctx context.Context, env Environment) (string, bool)
}

// ProbeFunc adapts a function to VersionProbe.
type ProbeFunc func(ctx context.Context, env Environment) (string, bool)

// ProbeVersion calls f.
func (f ProbeFunc) ProbeVersion(ctx context.Context, env Environment) (string, bool) {
	return f(ctx, env)
}

// monoVersionPattern matches the first line of `mono --version`:
//
//	Mono JIT compiler version 6.12.0.122 (tarball Mon Feb 22 17:33:28 UTC 2021)
var monoVersionPattern = regexp.MustCompile(`Mono JIT compiler version (\d+\.\d+\.\d+(?:\.\d+)?)`)

// MonoProbe detects Mono by running `mono --version` out of process.
type MonoProbe struct {
	// Binary is the executable name looked up on the composed PATH.
	Binary string

	// Timeout bounds a single probe. Zero means 10s.
	Timeout time.Duration

	Logger *slog.Logger
}

// NewMonoProbe returns a probe for the "mono" executable.
func NewMonoProbe() *MonoProbe {
	return &MonoProbe{Binary: "mono", Timeout: 10 * time.Second, Logger: slog.Default()}
}

// ProbeVersion implements VersionProbe.
//
// Description:
//
//	Resolves the binary against env's PATH rather than the parent
//	process's, so that a configured install path takes effect. Any
//	lookup, execution or parse failure is reported as absence.
func (p *MonoProbe) ProbeVersion(ctx context.Context, env Environment) (string, bool) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	bin, ok := lookPath(p.Binary, env[PathVariable])
	if !ok {
		logger.Debug("Mono not on search path", slog.String("binary", p.Binary))
		return "", false
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, "--version")
	cmd.Env = env.List()
	out, err := cmd.Output()
	if err != nil {
		logger.Debug("Mono version probe failed",
			slog.String("binary", bin),
			slog.String("error", err.Error()),
		)
		return "", false
	}

	return ParseMonoVersion(string(out))
}

// ParseMonoVersion extracts the version from `mono --version` output.
func ParseMonoVersion(output string) (string, bool) {
	m := monoVersionPattern.FindStringSubmatch(output)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// lookPath finds name on the given PATH value.
func lookPath(name, pathValue string) (string, bool) {
	if filepath.IsAbs(name) {
		return name, isExecutable(name)
	}
	candidates := []string{name}
	if runtime.GOOS == "windows" {
		candidates = append(candidates, name+".exe", name+".bat")
	}
	for _, dir := range filepath.SplitList(pathValue) {
		if dir == "" {
			continue
		}
		for _, c := range candidates {
			full := filepath.Join(dir, c)
			if isExecutable(full) {
				return full, true
			}
		}
	}
	return "", false
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
