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
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProbe returns a fixed answer and records what it saw.
type fakeProbe struct {
	version string
	found   bool
	calls   atomic.Int32
	lastEnv atomic.Value
}

func (f *fakeProbe) ProbeVersion(_ context.Context, env Environment) (string, bool) {
	f.calls.Add(1)
	f.lastEnv.Store(env)
	return f.version, f.found
}

func newTestResolver(p VersionProbe, opts ...Option) *Resolver {
	opts = append([]Option{WithAmbientEnvironment(func() Environment {
		return Environment{"PATH": "/usr/bin", "HOME": "/home/dev"}
	})}, opts...)
	return NewResolver(p, opts...)
}

func TestResolve_NeverSkipsDetection(t *testing.T) {
	probes := []*fakeProbe{
		{version: "6.12.0", found: true},
		{version: "5.0.0", found: true},
		{found: false},
	}
	for _, probe := range probes {
		for _, path := range []string{"", "/opt/mono"} {
			for _, auto := range []bool{false, true} {
				r := newTestResolver(probe, WithAutoUsesGlobalRuntime(auto))
				out, err := r.Resolve(context.Background(), Request{Policy: PolicyNever, ConfiguredPath: path})

				require.NoError(t, err)
				assert.Equal(t, OutcomeUseBundled, out.Kind)
				assert.NotEqual(t, OutcomeResolved, out.Kind)
			}
		}
		assert.Zero(t, probe.calls.Load(), "never must not probe")
	}
}

func TestResolve_AlwaysMissingWithoutPath(t *testing.T) {
	r := newTestResolver(&fakeProbe{found: false})

	out, err := r.Resolve(context.Background(), Request{Policy: PolicyAlways})

	require.Error(t, err)
	assert.Equal(t, OutcomeFailed, out.Kind)
	assert.True(t, errors.Is(err, ErrRuntimeNotFound))
	assert.Contains(t, err.Error(), "PATH variable")
	assert.NotContains(t, err.Error(), MonoPathSetting)
}

func TestResolve_AlwaysMissingWithPath(t *testing.T) {
	r := newTestResolver(&fakeProbe{found: false})

	_, err := r.Resolve(context.Background(), Request{Policy: PolicyAlways, ConfiguredPath: "/opt/mono"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRuntimeNotFound))
	assert.Equal(t,
		`Unable to find Mono. Update the "omnisharp.monoPath" setting to point to the folder containing Mono's '/bin' folder.`,
		err.Error())
}

func TestResolve_AlwaysTooOld(t *testing.T) {
	r := newTestResolver(&fakeProbe{version: "5.0.0", found: true})

	out, err := r.Resolve(context.Background(), Request{
		Policy:         PolicyAlways,
		ConfiguredPath: "/opt/mono",
		MinimumVersion: "6.4.0",
	})

	require.Error(t, err)
	assert.Equal(t, OutcomeFailed, out.Kind)
	assert.True(t, errors.Is(err, ErrRuntimeTooOld))
	assert.Contains(t, err.Error(), "5.0.0")
	assert.Contains(t, err.Error(), "6.4.0")

	var resErr *ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, "5.0.0", resErr.Detected)
	assert.Same(t, resErr, out.Reason)
}

func TestResolve_AlwaysBoundary(t *testing.T) {
	probe := &fakeProbe{version: "6.4.0", found: true}
	r := newTestResolver(probe)

	out, err := r.Resolve(context.Background(), Request{
		Policy:         PolicyAlways,
		ConfiguredPath: "/opt/mono",
		MinimumVersion: "6.4.0",
	})

	require.NoError(t, err)
	require.Equal(t, OutcomeResolved, out.Kind)
	assert.Equal(t, "6.4.0", out.Candidate.Version)
	assert.Equal(t, "/opt/mono", out.Candidate.Path)
	assert.True(t, strings.HasPrefix(out.Candidate.Env[PathVariable], filepath.Join("/opt/mono", "bin")))
	assert.Equal(t, "/opt/mono", out.Candidate.Env[LibraryPrefixVariable])

	seen := probe.lastEnv.Load().(Environment)
	assert.Equal(t, out.Candidate.Env[PathVariable], seen[PathVariable], "probe must see the composed env")
}

func TestResolve_AlwaysDefaultMinimum(t *testing.T) {
	r := newTestResolver(&fakeProbe{version: "6.3.0", found: true})

	_, err := r.Resolve(context.Background(), Request{Policy: PolicyAlways})

	require.Error(t, err)
	assert.Contains(t, err.Error(), ">="+DefaultMinimumVersion)
}

func TestResolve_AutoTransitionalOverride(t *testing.T) {
	probe := &fakeProbe{version: "6.12.0", found: true}

	out, err := newTestResolver(probe).Resolve(context.Background(), Request{Policy: PolicyAuto})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUseBundled, out.Kind, "auto defaults to the bundled runtime")

	out, err = newTestResolver(probe, WithAutoUsesGlobalRuntime(true)).Resolve(context.Background(), Request{Policy: PolicyAuto})
	require.NoError(t, err)
	assert.Equal(t, OutcomeResolved, out.Kind)
	assert.Equal(t, "6.12.0", out.Candidate.Version)
}

func TestResolve_AutoFallsBackSilently(t *testing.T) {
	for name, probe := range map[string]*fakeProbe{
		"absent":  {found: false},
		"too old": {version: "5.0.0", found: true},
		"garbage": {version: "banana", found: true},
	} {
		t.Run(name, func(t *testing.T) {
			r := newTestResolver(probe, WithAutoUsesGlobalRuntime(true))
			out, err := r.Resolve(context.Background(), Request{Policy: PolicyAuto, ConfiguredPath: "/opt/mono"})

			require.NoError(t, err)
			assert.Equal(t, OutcomeUseBundled, out.Kind)
		})
	}
}

func TestResolve_Idempotent(t *testing.T) {
	cases := []struct {
		policy HostPolicy
		probe  *fakeProbe
	}{
		{PolicyAlways, &fakeProbe{version: "6.12.0", found: true}},
		{PolicyAlways, &fakeProbe{found: false}},
		{PolicyAuto, &fakeProbe{version: "6.12.0", found: true}},
		{PolicyNever, &fakeProbe{version: "6.12.0", found: true}},
	}
	for _, c := range cases {
		r := newTestResolver(c.probe)
		req := Request{Policy: c.policy, ConfiguredPath: "/opt/mono"}

		first, err1 := r.Resolve(context.Background(), req)
		second, err2 := r.Resolve(context.Background(), req)

		assert.Equal(t, first.Kind, second.Kind, "policy %s", c.policy)
		assert.Equal(t, err1 == nil, err2 == nil)
	}
}

func TestResolve_ProbesEveryCall(t *testing.T) {
	probe := &fakeProbe{version: "6.12.0", found: true}
	r := newTestResolver(probe)

	for i := 0; i < 3; i++ {
		_, _ = r.Resolve(context.Background(), Request{Policy: PolicyAlways})
	}
	assert.Equal(t, int32(3), probe.calls.Load())
}

func TestResolve_InvalidPolicy(t *testing.T) {
	r := newTestResolver(&fakeProbe{})

	_, err := r.Resolve(context.Background(), Request{Policy: HostPolicy(42)})
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestResolve_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	probe := ProbeFunc(func(context.Context, Environment) (string, bool) {
		cancel()
		return "", false
	})

	_, err := newTestResolver(probe).Resolve(ctx, Request{Policy: PolicyAlways})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]HostPolicy{"always": PolicyAlways, "AUTO": PolicyAuto, " never ": PolicyNever} {
		got, err := ParsePolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParsePolicy("sometimes")
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	var p HostPolicy
	require.NoError(t, p.UnmarshalText([]byte("always")))
	assert.Equal(t, PolicyAlways, p)
	text, err := p.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "always", string(text))
}
