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
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// PathVariable is the process search-path variable.
	PathVariable = "PATH"

	// LibraryPrefixVariable points Mono at the installation's GAC.
	LibraryPrefixVariable = "MONO_GAC_PREFIX"
)

// Environment is a process environment keyed by variable name.
type Environment map[string]string

// AmbientEnvironment snapshots the current process environment.
func AmbientEnvironment() Environment {
	return EnvironmentFromList(os.Environ())
}

// EnvironmentFromList parses KEY=VALUE pairs as returned by os.Environ.
//
// Entries without '=' are ignored. Later duplicates win, matching exec
// semantics.
func EnvironmentFromList(list []string) Environment {
	env := make(Environment, len(list))
	for _, kv := range list {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

// Clone returns an independent copy.
func (e Environment) Clone() Environment {
	out := make(Environment, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// List renders the environment as sorted KEY=VALUE pairs for exec.Cmd.Env.
func (e Environment) List() []string {
	out := make([]string, 0, len(e))
	for k, v := range e {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// Get returns the value of key and whether it is set.
func (e Environment) Get(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

// LookPath finds an executable on this environment's PATH rather than
// the current process's.
func (e Environment) LookPath(name string) (string, bool) {
	return lookPath(name, e[PathVariable])
}

// Compose builds the environment overlay for a runtime installation.
//
// Description:
//
//	Returns a new environment derived from ambient. When installPath is
//	non-empty, "<installPath>/bin" is prepended to PATH using the platform
//	list separator and MONO_GAC_PREFIX is set to installPath verbatim,
//	overwriting any prior value. All other variables are copied untouched.
//	When installPath is empty the result equals ambient.
//
// Inputs:
//
//	ambient - The base environment. Never modified.
//	installPath - Runtime installation directory, or "" for none.
//
// Outputs:
//
//	Environment - A fresh map owned by the caller.
func Compose(ambient Environment, installPath string) Environment {
	env := ambient.Clone()
	if installPath == "" {
		return env
	}

	bin := filepath.Join(installPath, "bin")
	if current := env[PathVariable]; current != "" {
		env[PathVariable] = bin + string(filepath.ListSeparator) + current
	} else {
		env[PathVariable] = bin
	}
	env[LibraryPrefixVariable] = installPath
	return env
}
