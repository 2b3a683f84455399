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
	"fmt"
	"strings"
)

// =============================================================================
// HOST POLICY
// =============================================================================

// HostPolicy says whether a globally installed runtime is mandatory,
// preferred, or disallowed.
type HostPolicy int

const (
	// PolicyAuto prefers a valid global runtime and silently falls back
	// to the bundled one.
	PolicyAuto HostPolicy = iota

	// PolicyAlways requires a valid global runtime.
	PolicyAlways

	// PolicyNever never considers a global runtime.
	PolicyNever
)

// String returns the configuration spelling of the policy.
func (p HostPolicy) String() string {
	switch p {
	case PolicyAuto:
		return "auto"
	case PolicyAlways:
		return "always"
	case PolicyNever:
		return "never"
	default:
		return fmt.Sprintf("HostPolicy(%d)", int(p))
	}
}

// Valid reports whether p is one of the three declared policies.
func (p HostPolicy) Valid() bool {
	return p == PolicyAuto || p == PolicyAlways || p == PolicyNever
}

// ParsePolicy parses "always", "auto" or "never" (case-insensitive).
func ParsePolicy(s string) (HostPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		return PolicyAuto, nil
	case "always":
		return PolicyAlways, nil
	case "never":
		return PolicyNever, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p HostPolicy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPolicy, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *HostPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
