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
	"errors"
	"fmt"
)

// Sentinel errors for host resolution.
var (
	// ErrInvalidPolicy indicates a policy string outside always/auto/never.
	ErrInvalidPolicy = errors.New("invalid host policy")

	// ErrRuntimeNotFound indicates no runtime version could be detected.
	ErrRuntimeNotFound = errors.New("runtime not found")

	// ErrRuntimeTooOld indicates the detected runtime is below the minimum.
	ErrRuntimeTooOld = errors.New("runtime version too old")
)

// MonoPathSetting is the configuration key users are told to update.
const MonoPathSetting = "omnisharp.monoPath"

// ResolutionError is a configuration error raised under PolicyAlways.
//
// Its Error text is shown to the user verbatim and differs for the three
// failure cases: not found with a configured path, not found on PATH, and
// found but too old.
type ResolutionError struct {
	// Kind is ErrRuntimeNotFound or ErrRuntimeTooOld.
	Kind error

	// ConfiguredPath is the install path that was tried, if any.
	ConfiguredPath string

	// Detected is the detected version (ErrRuntimeTooOld only).
	Detected string

	// Minimum is the required minimum version.
	Minimum string
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	if errors.Is(e.Kind, ErrRuntimeTooOld) {
		return fmt.Sprintf("Found Mono version %s. Cannot start OmniSharp because Mono version >=%s is required.",
			e.Detected, e.Minimum)
	}
	if e.ConfiguredPath != "" {
		return fmt.Sprintf("Unable to find Mono. Update the %q setting to point to the folder containing Mono's '/bin' folder.",
			MonoPathSetting)
	}
	return "Unable to find Mono. Ensure that Mono's '/bin' folder is added to your environment's PATH variable."
}

// Unwrap lets errors.Is match the Kind sentinel.
func (e *ResolutionError) Unwrap() error {
	return e.Kind
}
