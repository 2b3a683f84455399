// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package hostresolver decides which Mono runtime hosts the OmniSharp server.
//
// A resolution composes a process environment for the configured install
// path, probes the runtime's version, checks it against a minimum, and
// applies the host policy:
//
//	always - a valid global Mono is mandatory; failure is a user-facing error
//	auto   - prefer a valid global Mono, else fall back to the bundled one
//	never  - always use the bundled runtime
//
// # Components
//
//   - Satisfies: semantic-version comparison (major.minor.patch)
//   - Compose: PATH and MONO_GAC_PREFIX overlay for an install path
//   - Resolver: the policy state machine
//   - MonoProbe: runs `mono --version` with the composed environment
//
// # Example
//
//	resolver := hostresolver.NewResolver(hostresolver.NewMonoProbe())
//	out, err := resolver.Resolve(ctx, hostresolver.Request{
//	    Policy:         hostresolver.PolicyAuto,
//	    ConfiguredPath: cfg.MonoPath,
//	})
package hostresolver
