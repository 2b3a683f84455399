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
	"fmt"
	"log/slog"
)

// DefaultMinimumVersion is the oldest global Mono the server can run on.
const DefaultMinimumVersion = "6.4.0"

// DefaultAutoUsesGlobalRuntime controls what PolicyAuto does with a valid
// global runtime. It stays false until Mono ships an MSBuild of 16.8 or
// newer; until then "auto" behaves like "use the bundled runtime".
const DefaultAutoUsesGlobalRuntime = false

// =============================================================================
// TYPES
// =============================================================================

// RuntimeCandidate is one possible host runtime.
//
// Path is empty when the system search path was used. Version is empty
// when no runtime was found. Env is the composed process environment and
// is owned by the candidate.
type RuntimeCandidate struct {
	Path    string
	Version string
	Env     Environment
}

// Found reports whether a version was detected.
func (c RuntimeCandidate) Found() bool {
	return c.Version != ""
}

// OutcomeKind discriminates Outcome.
type OutcomeKind int

const (
	// OutcomeUseBundled means launch with the bundled runtime.
	OutcomeUseBundled OutcomeKind = iota

	// OutcomeResolved means launch with Outcome.Candidate.
	OutcomeResolved

	// OutcomeFailed means the policy could not be satisfied.
	OutcomeFailed
)

// String returns a log-friendly name.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeUseBundled:
		return "use_bundled"
	case OutcomeResolved:
		return "resolved"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the single decision produced by Resolve.
type Outcome struct {
	Kind OutcomeKind

	// Candidate is set when Kind is OutcomeResolved.
	Candidate RuntimeCandidate

	// Reason is set when Kind is OutcomeFailed.
	Reason error
}

// Request carries the configuration consumed by one resolution.
type Request struct {
	Policy         HostPolicy
	ConfiguredPath string

	// MinimumVersion defaults to DefaultMinimumVersion when empty.
	MinimumVersion string
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver decides which runtime hosts the analysis server.
//
// Description:
//
//	Each call composes a fresh environment, probes once, and applies the
//	host policy. Nothing is cached between calls because the install path
//	and policy can change whenever the user edits configuration.
//
// Thread Safety:
//
//	Safe for concurrent use. The resolver holds no mutable state.
type Resolver struct {
	probe                 VersionProbe
	ambient               func() Environment
	autoUsesGlobalRuntime bool
	logger                *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithAmbientEnvironment overrides the environment snapshot source.
func WithAmbientEnvironment(fn func() Environment) Option {
	return func(r *Resolver) { r.ambient = fn }
}

// WithAutoUsesGlobalRuntime makes PolicyAuto return a valid global runtime
// instead of falling back to the bundled one.
func WithAutoUsesGlobalRuntime(enabled bool) Option {
	return func(r *Resolver) { r.autoUsesGlobalRuntime = enabled }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// NewResolver creates a Resolver that detects versions with probe.
func NewResolver(probe VersionProbe, opts ...Option) *Resolver {
	r := &Resolver{
		probe:                 probe,
		ambient:               AmbientEnvironment,
		autoUsesGlobalRuntime: DefaultAutoUsesGlobalRuntime,
		logger:                slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve applies the host policy and returns the launch decision.
//
// Description:
//
//	PolicyNever skips detection and returns OutcomeUseBundled. Otherwise
//	the environment is composed from the ambient environment and the
//	configured path, and the probe is invoked once. Under PolicyAlways a
//	missing or too-old runtime is a hard failure; under PolicyAuto it
//	falls back to the bundled runtime.
//
// Inputs:
//
//	ctx - Context passed to the probe
//	req - Policy, configured path and minimum version
//
// Outputs:
//
//	Outcome - Exactly one of Resolved, UseBundled or Failed
//	error - The *ResolutionError when Outcome.Kind is OutcomeFailed;
//	        ErrInvalidPolicy or a context error otherwise
//
// Example:
//
//	out, err := resolver.Resolve(ctx, hostresolver.Request{
//	    Policy:         hostresolver.PolicyAlways,
//	    ConfiguredPath: "/opt/mono",
//	})
//	if err != nil {
//	    return err // shown to the user verbatim
//	}
func (r *Resolver) Resolve(ctx context.Context, req Request) (Outcome, error) {
	if ctx == nil {
		return Outcome{}, fmt.Errorf("ctx must not be nil")
	}
	if !req.Policy.Valid() {
		return Outcome{}, fmt.Errorf("%w: %d", ErrInvalidPolicy, int(req.Policy))
	}

	minimum := req.MinimumVersion
	if minimum == "" {
		minimum = DefaultMinimumVersion
	}

	if req.Policy == PolicyNever {
		r.record(ctx, req.Policy, OutcomeUseBundled)
		return Outcome{Kind: OutcomeUseBundled}, nil
	}

	candidate, err := r.detect(ctx, req.ConfiguredPath)
	if err != nil {
		return Outcome{}, err
	}

	out := decide(req.Policy, candidate, minimum, r.autoUsesGlobalRuntime, req.ConfiguredPath)
	r.record(ctx, req.Policy, out.Kind)

	r.logger.Debug("Resolved runtime host",
		slog.String("policy", req.Policy.String()),
		slog.String("outcome", out.Kind.String()),
		slog.String("configured_path", req.ConfiguredPath),
		slog.String("detected_version", candidate.Version),
		slog.String("minimum_version", minimum),
	)

	if out.Kind == OutcomeFailed {
		return out, out.Reason
	}
	return out, nil
}

// detect composes the environment and runs the probe. It is the only
// suspension point in Resolve.
func (r *Resolver) detect(ctx context.Context, configuredPath string) (RuntimeCandidate, error) {
	env := Compose(r.ambient(), configuredPath)

	version, found := r.probe.ProbeVersion(ctx, env.Clone())
	if err := ctx.Err(); err != nil {
		return RuntimeCandidate{}, err
	}
	if !found {
		version = ""
	}

	return RuntimeCandidate{
		Path:    configuredPath,
		Version: version,
		Env:     env,
	}, nil
}

// decide is the synchronous policy branch applied after probing.
func decide(policy HostPolicy, c RuntimeCandidate, minimum string, autoUsesGlobal bool, configuredPath string) Outcome {
	valid := c.Found() && Satisfies(c.Version, minimum)

	switch policy {
	case PolicyAlways:
		if !c.Found() {
			return Outcome{Kind: OutcomeFailed, Reason: &ResolutionError{
				Kind:           ErrRuntimeNotFound,
				ConfiguredPath: configuredPath,
				Minimum:        minimum,
			}}
		}
		if !valid {
			return Outcome{Kind: OutcomeFailed, Reason: &ResolutionError{
				Kind:           ErrRuntimeTooOld,
				ConfiguredPath: configuredPath,
				Detected:       c.Version,
				Minimum:        minimum,
			}}
		}
		return Outcome{Kind: OutcomeResolved, Candidate: c}

	case PolicyAuto:
		if valid && autoUsesGlobal {
			return Outcome{Kind: OutcomeResolved, Candidate: c}
		}
	}

	return Outcome{Kind: OutcomeUseBundled}
}
