// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/omnihost/services/omnisharp/client"
	"github.com/AleutianAI/omnihost/services/omnisharp/hostresolver"
	"github.com/AleutianAI/omnihost/services/omnisharp/protocol"
	"github.com/AleutianAI/omnihost/services/omnisharp/telemetry"
)

// =============================================================================
// Helpers
// =============================================================================

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, a *app, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a.stdout = &stdout
	a.stderr = &stderr

	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	t.Setenv("OMNIHOST_USE_GLOBAL_MONO", "")
	path := filepath.Join(t.TempDir(), "omnihost.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const quietTelemetry = `
telemetry:
  trace_exporter: none
  metric_exporter: none
`

func fixedProbe(version string, calls *atomic.Int32) hostresolver.VersionProbe {
	return hostresolver.ProbeFunc(func(context.Context, hostresolver.Environment) (string, bool) {
		calls.Add(1)
		return version, version != ""
	})
}

func lines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// =============================================================================
// catalog
// =============================================================================

func TestCatalog_ListsEveryCommand(t *testing.T) {
	res := runCLI(t, newApp(nil, nil), "catalog", "-o", "machine")
	require.NoError(t, res.err)

	got := lines(res.stdout)
	require.Len(t, got, len(protocol.Commands()))
	assert.True(t, strings.HasPrefix(res.stdout, protocol.Commands()[0]+"\t"))
	assert.Contains(t, res.stdout, protocol.CodeCheck+"\t1\ttrue\t")
}

func TestCatalog_Filters(t *testing.T) {
	res := runCLI(t, newApp(nil, nil), "catalog", "-o", "machine", "--version", "2", "--file-scoped")
	require.NoError(t, res.err)

	want := 0
	for _, e := range protocol.Entries() {
		if e.Version == 2 && e.FileScoped {
			want++
		}
	}
	got := lines(res.stdout)
	assert.Len(t, got, want)
	for _, line := range got {
		cols := strings.Split(line, "\t")
		require.Len(t, cols, 5)
		assert.Equal(t, "2", cols[1], line)
		assert.Equal(t, "true", cols[2], line)
	}
}

func TestCatalog_RejectsUnknownVersion(t *testing.T) {
	res := runCLI(t, newApp(nil, nil), "catalog", "--version", "3")
	assert.Error(t, res.err)
}

func TestCatalog_Events(t *testing.T) {
	res := runCLI(t, newApp(nil, nil), "catalog", "-o", "machine", "--events")
	require.NoError(t, res.err)

	assert.Len(t, lines(res.stdout), len(protocol.EventNames()))
	assert.Contains(t, res.stdout, protocol.EventStarted+"\t")
}

func TestCatalog_PlainHasHeader(t *testing.T) {
	res := runCLI(t, newApp(nil, nil), "catalog", "-o", "plain")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "COMMAND")
	assert.Contains(t, res.stdout, "commands")
}

func TestRoot_RejectsUnknownOutputMode(t *testing.T) {
	res := runCLI(t, newApp(nil, nil), "catalog", "-o", "fancy")
	assert.Error(t, res.err)
}

// =============================================================================
// resolve
// =============================================================================

func TestResolve_NeverUsesBundledWithoutProbing(t *testing.T) {
	path := writeConfig(t, "use_global_mono: never\n"+quietTelemetry)
	var calls atomic.Int32
	a := newApp(nil, nil)
	a.probe = fixedProbe("6.12.0", &calls)

	res := runCLI(t, a, "resolve", "--config", path, "-o", "machine")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "policy\tnever\n")
	assert.Contains(t, res.stdout, "outcome\tuse_bundled\n")
	assert.Zero(t, calls.Load())
}

func TestResolve_AlwaysResolvesGlobalMono(t *testing.T) {
	path := writeConfig(t, "use_global_mono: always\n"+quietTelemetry)
	var calls atomic.Int32
	a := newApp(nil, nil)
	a.probe = fixedProbe("6.12.0.122", &calls)

	res := runCLI(t, a, "resolve", "--config", path, "-o", "machine")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "outcome\tresolved\n")
	assert.Contains(t, res.stdout, "mono_version\t6.12.0.122\n")
	assert.Contains(t, res.stdout, "install\t(PATH)\n")
	assert.Equal(t, int32(1), calls.Load())
}

func TestResolve_AlwaysTooOldFails(t *testing.T) {
	path := writeConfig(t, "use_global_mono: always\nminimum_mono_version: 6.4.0\n"+quietTelemetry)
	var calls atomic.Int32
	a := newApp(nil, nil)
	a.probe = fixedProbe("6.0.0", &calls)

	res := runCLI(t, a, "resolve", "--config", path, "-o", "machine")
	require.Error(t, res.err)

	assert.ErrorIs(t, res.err, hostresolver.ErrRuntimeTooOld)
	assert.Contains(t, res.stdout, "outcome\tfailed\n")
	assert.Contains(t, res.stdout, "Found Mono version 6.0.0")
}

func TestResolve_AutoFallsBackToBundled(t *testing.T) {
	path := writeConfig(t, "use_global_mono: auto\n"+quietTelemetry)
	var calls atomic.Int32
	a := newApp(nil, nil)
	a.probe = fixedProbe("", &calls)

	res := runCLI(t, a, "resolve", "--config", path, "-o", "machine")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "outcome\tuse_bundled\n")
}

func TestResolve_MissingConfigFile(t *testing.T) {
	a := newApp(nil, nil)
	res := runCLI(t, a, "resolve", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, res.err, os.ErrNotExist)
}

func TestResolve_LogLevelOverride(t *testing.T) {
	path := writeConfig(t, "use_global_mono: always\n"+quietTelemetry)
	var calls atomic.Int32
	a := newApp(nil, nil)
	a.probe = fixedProbe("6.12.0", &calls)

	res := runCLI(t, a, "resolve", "--config", path, "--log-level", "debug", "-o", "machine")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "Resolved runtime host")
}

// =============================================================================
// launch
// =============================================================================

func TestLaunch_RequiresServerPath(t *testing.T) {
	path := writeConfig(t, "use_global_mono: never\n"+quietTelemetry)
	a := newApp(nil, nil)

	res := runCLI(t, a, "launch", "--config", path, "--listen", "")
	assert.ErrorIs(t, res.err, client.ErrNoServerPath)
}

func TestLaunch_PropagatesResolutionFailure(t *testing.T) {
	path := writeConfig(t, "use_global_mono: always\n"+quietTelemetry)
	var calls atomic.Int32
	a := newApp(nil, nil)
	a.probe = fixedProbe("", &calls)

	res := runCLI(t, a, "launch", "--config", path, "--listen", "", "--server-path", "/opt/omnisharp/OmniSharp.exe")
	assert.ErrorIs(t, res.err, hostresolver.ErrRuntimeNotFound)
}

func TestServerLogLevel(t *testing.T) {
	tests := map[string]string{
		"debug": "debug",
		"info":  "information",
		"warn":  "warning",
		"error": "error",
		"":      "information",
	}
	for in, want := range tests {
		assert.Equal(t, want, serverLogLevel(in), "level %q", in)
	}
}

func TestServerHealth_NotStartedIsDegraded(t *testing.T) {
	server := client.NewServer(client.ServerConfig{})

	h := serverHealth(server)()

	assert.Equal(t, telemetry.StatusDegraded, h.Status)
	assert.Equal(t, client.ServerStateUninitialized.String(), h.Details["server"])
}

func TestMetrics_RequiresListenAddress(t *testing.T) {
	path := writeConfig(t, "use_global_mono: never\n"+quietTelemetry)
	res := runCLI(t, newApp(nil, nil), "metrics", "--config", path, "--listen", "")
	assert.Error(t, res.err)
}

func TestMetricsRouter_ServesRecentLogs(t *testing.T) {
	path := writeConfig(t, "use_global_mono: always\nlogging:\n  recent: 5\n"+quietTelemetry)
	var calls atomic.Int32
	a := newApp(nil, nil)
	a.probe = fixedProbe("6.12.0", &calls)

	res := runCLI(t, a, "resolve", "--config", path, "--log-level", "debug", "-o", "machine")
	require.NoError(t, res.err)
	require.NotNil(t, a.recent)

	rec := httptest.NewRecorder()
	a.metricsRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/logs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var views []telemetry.LogView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	var messages []string
	for _, v := range views {
		messages = append(messages, v.Message)
	}
	assert.Contains(t, messages, "Resolved runtime host")
}

func TestMetricsRouter_RecentLogsDisabled(t *testing.T) {
	path := writeConfig(t, "use_global_mono: never\nlogging:\n  recent: 0\n"+quietTelemetry)
	a := newApp(nil, nil)

	res := runCLI(t, a, "resolve", "--config", path, "-o", "machine")
	require.NoError(t, res.err)
	assert.Nil(t, a.recent)

	rec := httptest.NewRecorder()
	a.metricsRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/logs", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
