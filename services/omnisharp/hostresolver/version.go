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
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// versionPattern captures major.minor.patch and whatever trails it.
//
// Mono reports four components (6.12.0.122); the fourth is a revision
// and is treated like build metadata.
var versionPattern = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)(.*)$`)

// Canonical converts a runtime-reported version into the "vMAJOR.MINOR.PATCH"
// form understood by golang.org/x/mod/semver.
//
// Description:
//
//	Pre-release ("-beta.1"), build ("+abc") and Mono revision (".122")
//	suffixes are dropped so that precedence only considers the numeric
//	triple. Leading zeros are normalised away.
//
// Outputs:
//
//	string - Canonical version, e.g. "v6.12.0"
//	bool - False if the input is empty or not version-shaped
func Canonical(version string) (string, bool) {
	m := versionPattern.FindStringSubmatch(strings.TrimSpace(version))
	if m == nil {
		return "", false
	}

	rest := m[4]
	if rest != "" && !strings.ContainsRune("-+.", rune(rest[0])) {
		return "", false
	}

	parts := make([]string, 3)
	for i := 0; i < 3; i++ {
		n, err := strconv.ParseUint(m[i+1], 10, 32)
		if err != nil {
			return "", false
		}
		parts[i] = strconv.FormatUint(n, 10)
	}

	canonical := "v" + strings.Join(parts, ".")
	if !semver.IsValid(canonical) {
		return "", false
	}
	return canonical, true
}

// Satisfies reports whether detected is greater than or equal to minimum.
//
// Description:
//
//	Compares major, then minor, then patch numerically. An absent or
//	malformed detected version never satisfies any constraint, and a
//	malformed minimum is never satisfied. Never panics.
//
// Example:
//
//	Satisfies("6.4.0", "6.4.0")      // true
//	Satisfies("6.12.0.122", "6.4.0") // true
//	Satisfies("5.0.0", "6.4.0")      // false
//	Satisfies("", "6.4.0")           // false
func Satisfies(detected, minimum string) bool {
	have, ok := Canonical(detected)
	if !ok {
		return false
	}
	want, ok := Canonical(minimum)
	if !ok {
		return false
	}
	return semver.Compare(have, want) >= 0
}
