// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), "line: %s", line)
		out = append(out, m)
	}
	return out
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Service: "omnihost", Format: FormatJSON, Output: &buf})

	logger.Info("server ready", "pid", 42)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "server ready", lines[0]["msg"])
	assert.Equal(t, "omnihost", lines[0]["service"])
	assert.Equal(t, float64(42), lines[0]["pid"])
}

func TestNew_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Format: FormatText, Output: &buf})

	logger.Warn("slow response", "command", "/codecheck")

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="slow response"`)
	assert.Contains(t, out, "command=/codecheck")
}

func TestNew_AutoFormatIsJSONForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf})

	logger.Info("hello")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "hello", lines[0]["msg"])
}

func TestNew_LevelFiltering(t *testing.T) {
	tests := []struct {
		level Level
		want  []string
	}{
		{LevelDebug, []string{"d", "i", "w", "e"}},
		{LevelInfo, []string{"i", "w", "e"}},
		{LevelWarn, []string{"w", "e"}},
		{LevelError, []string{"e"}},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: tt.level, Format: FormatJSON, Output: &buf})

			logger.Debug("d")
			logger.Info("i")
			logger.Warn("w")
			logger.Error("e")

			var got []string
			for _, line := range decodeLines(t, &buf) {
				got = append(got, line["msg"].(string))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_Quiet(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Quiet: true, Output: &buf})

	logger.Error("nobody hears this")

	assert.Empty(t, buf.String())
}

func TestNew_FileLogging(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger := New(Config{Quiet: true, LogDir: dir, Service: "omnihost"})

	logger.Info("to file", "attempt", 1)
	path := logger.LogPath()
	require.NoError(t, logger.Close())

	require.NotEmpty(t, path)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "omnihost_"))
	assert.Equal(t, ".log", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := decodeLines(t, bytes.NewBuffer(data))
	require.Len(t, lines, 1)
	assert.Equal(t, "to file", lines[0]["msg"])
}

func TestNew_ExporterReceivesEntries(t *testing.T) {
	exporter := &BufferedExporter{}
	logger := New(Config{Level: LevelInfo, Quiet: true, Service: "omnihost", Exporter: exporter})

	logger.Debug("filtered")
	logger.Info("exported", "command", "/v2/gotodefinition")

	entries := exporter.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "exported", entries[0].Message)
	assert.Equal(t, LevelInfo, entries[0].Level)
	assert.Equal(t, "omnihost", entries[0].Service)
	assert.Equal(t, "/v2/gotodefinition", entries[0].Attrs["command"])
}

func TestNew_ExporterSeesSlogCallers(t *testing.T) {
	exporter := &BufferedExporter{}
	logger := New(Config{Quiet: true, Exporter: exporter})

	lib := logger.Slog().With(slog.String("component", "engine")).WithGroup("packet")
	lib.Warn("dropped", slog.Int64("seq", 7))

	entry, ok := exporter.Find("dropped")
	require.True(t, ok)
	assert.Equal(t, LevelWarn, entry.Level)
	assert.Equal(t, "engine", entry.Attrs["component"])
	assert.Equal(t, int64(7), entry.Attrs["packet.seq"])
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	exporter := &BufferedExporter{}
	logger := New(Config{Format: FormatJSON, Output: &buf, Exporter: exporter})

	child := logger.With("conn", "abc")
	child.Info("child message")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "abc", lines[0]["conn"])

	entry, ok := exporter.Find("child message")
	require.True(t, ok)
	assert.Equal(t, "abc", entry.Attrs["conn"])
}

func TestLogger_CloseClosesExporter(t *testing.T) {
	exporter := &BufferedExporter{}
	logger := New(Config{Quiet: true, Exporter: exporter})

	logger.Info("before")
	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())

	assert.Error(t, exporter.Export(t.Context(), LogEntry{Message: "after"}))
	assert.Len(t, exporter.Entries(), 1)
}

func TestLogger_ConcurrentUse(t *testing.T) {
	exporter := &BufferedExporter{}
	logger := New(Config{Quiet: true, Exporter: exporter})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				logger.Info("tick", "worker", n)
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, exporter.Entries(), 16*50)
}

func TestBufferedExporter_CapacityDropsOldest(t *testing.T) {
	exporter := &BufferedExporter{Capacity: 3}
	for _, msg := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, exporter.Export(t.Context(), LogEntry{Message: msg}))
	}

	var got []string
	for _, entry := range exporter.Entries() {
		got = append(got, entry.Message)
	}
	assert.Equal(t, []string{"c", "d", "e"}, got)

	_, ok := exporter.Find("a")
	assert.False(t, ok)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".omnihost/logs"), expandPath("~/.omnihost/logs"))
	assert.Equal(t, "/var/log/omnihost", expandPath("/var/log/omnihost"))
}
