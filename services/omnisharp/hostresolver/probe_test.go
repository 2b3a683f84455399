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
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestParseMonoVersion(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
		found  bool
	}{
		{
			name:   "release banner",
			output: "Mono JIT compiler version 6.12.0.122 (tarball Mon Feb 22 17:33:28 UTC 2021)\nCopyright (C) 2002-2014 Novell, Inc",
			want:   "6.12.0.122",
			found:  true,
		},
		{
			name:   "three components",
			output: "Mono JIT compiler version 6.4.0 (explicit/abcdef)",
			want:   "6.4.0",
			found:  true,
		},
		{name: "unrelated output", output: "command not found", found: false},
		{name: "empty", output: "", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ParseMonoVersion(tt.output)
			if got != tt.want || found != tt.found {
				t.Errorf("ParseMonoVersion() = (%q, %v), want (%q, %v)", got, found, tt.want, tt.found)
			}
		})
	}
}

func TestMonoProbe_UsesComposedPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a POSIX shell")
	}

	install := t.TempDir()
	bin := filepath.Join(install, "bin")
	if err := os.MkdirAll(bin, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	script := "#!/bin/sh\necho \"Mono JIT compiler version 6.12.0.122 (tarball)\"\n"
	if err := os.WriteFile(filepath.Join(bin, "mono"), []byte(script), 0o755); err != nil {
		t.Fatalf("write fake mono: %v", err)
	}

	probe := NewMonoProbe()
	env := Compose(Environment{"PATH": "/nonexistent"}, install)

	version, found := probe.ProbeVersion(context.Background(), env)
	if !found || version != "6.12.0.122" {
		t.Fatalf("ProbeVersion() = (%q, %v), want (6.12.0.122, true)", version, found)
	}

	if _, found := probe.ProbeVersion(context.Background(), Environment{"PATH": "/nonexistent"}); found {
		t.Error("probe without install path should not find mono")
	}
}

func TestLookPath_SkipsNonExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mono"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := lookPath("mono", dir); ok {
		t.Error("lookPath should ignore files without an execute bit")
	}
}
