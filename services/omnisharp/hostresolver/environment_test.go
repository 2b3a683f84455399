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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompose_NoPathReturnsAmbient(t *testing.T) {
	ambient := Environment{"PATH": "/usr/bin", "HOME": "/home/dev", LibraryPrefixVariable: "/old"}

	got := Compose(ambient, "")

	assert.Equal(t, ambient, got)
	got["HOME"] = "/elsewhere"
	assert.Equal(t, "/home/dev", ambient["HOME"], "Compose must return a copy")
}

func TestCompose_WithPath(t *testing.T) {
	ambient := Environment{"PATH": "/usr/bin", "HOME": "/home/dev", "LANG": "C", LibraryPrefixVariable: "/old"}
	before := ambient.Clone()

	got := Compose(ambient, "/opt/mono")

	wantPath := filepath.Join("/opt/mono", "bin") + string(filepath.ListSeparator) + "/usr/bin"
	assert.Equal(t, wantPath, got[PathVariable])
	assert.Equal(t, "/opt/mono", got[LibraryPrefixVariable])
	assert.Equal(t, "/home/dev", got["HOME"])
	assert.Equal(t, "C", got["LANG"])
	assert.Len(t, got, len(ambient))
	assert.Equal(t, before, ambient, "ambient must not be mutated")
}

func TestCompose_EmptyAmbientPath(t *testing.T) {
	got := Compose(Environment{}, "/opt/mono")

	assert.Equal(t, filepath.Join("/opt/mono", "bin"), got[PathVariable])
	assert.Equal(t, "/opt/mono", got[LibraryPrefixVariable])
}

func TestCompose_UnrelatedKeysUntouched(t *testing.T) {
	ambient := Environment{"A": "1", "B": "2", "DOTNET_ROOT": "/usr/share/dotnet", "PATH": "/bin"}
	for _, p := range []string{"", "/opt/mono", "/usr/local/mono-6.12"} {
		got := Compose(ambient, p)
		for k, v := range ambient {
			if k == PathVariable || k == LibraryPrefixVariable {
				continue
			}
			assert.Equal(t, v, got[k], "path %q key %q", p, k)
		}
	}
}

func TestEnvironmentFromList(t *testing.T) {
	env := EnvironmentFromList([]string{"A=1", "B=x=y", "NOEQ", "=bad", "A=2"})

	assert.Equal(t, Environment{"A": "2", "B": "x=y"}, env)
	assert.Equal(t, []string{"A=2", "B=x=y"}, env.List())
}
