// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/omnihost/pkg/logging"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "")
	t.Setenv("OTEL_METRICS_EXPORTER", "")

	cfg := DefaultConfig()
	assert.Equal(t, "omnihost", cfg.ServiceName)
	assert.Equal(t, "none", cfg.TraceExporter)
	assert.Equal(t, "prometheus", cfg.MetricExporter)
	assert.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
}

func TestDefaultConfig_EnvOverride(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "stdout")
	assert.Equal(t, "stdout", DefaultConfig().TraceExporter)
}

func TestInit_NilContext(t *testing.T) {
	//nolint:staticcheck // nil context is the case under test
	_, err := Init(nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrNilContext)
}

func TestInit_Noop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TraceExporter = "none"
	cfg.MetricExporter = "none"

	shutdown, err := Init(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_UnknownExporter(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"trace", Config{TraceExporter: "zipkin", MetricExporter: "none"}},
		{"metric", Config{TraceExporter: "none", MetricExporter: "statsd"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Init(context.Background(), tt.cfg)
			assert.ErrorIs(t, err, ErrUnknownExporter)
		})
	}
}

func TestInit_PrometheusServesInstruments(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TraceExporter = "none"
	cfg.MetricExporter = "prometheus"

	shutdown, err := Init(context.Background(), cfg)
	require.NoError(t, err)
	defer shutdown(context.Background())

	counter, err := otel.Meter("telemetry.test").Int64Counter("omnihost_test_events_total")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	handler := MetricsHandler()
	require.NotNil(t, handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "omnihost_test_events_total")

	// A second Init must not collide with the first registry.
	shutdown2, err := Init(context.Background(), cfg)
	require.NoError(t, err)
	assert.NoError(t, shutdown2(context.Background()))
}

func TestLoggerWithTrace(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	t.Run("no span leaves logger unchanged", func(t *testing.T) {
		assert.Same(t, base, LoggerWithTrace(context.Background(), base))
	})

	t.Run("valid span adds ids", func(t *testing.T) {
		buf.Reset()
		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: trace.TraceID{1, 2, 3},
			SpanID:  trace.SpanID{4, 5, 6},
		})
		ctx := trace.ContextWithSpanContext(context.Background(), sc)

		LoggerWithTrace(ctx, base).Info("hello")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, sc.TraceID().String(), entry["trace_id"])
		assert.Equal(t, sc.SpanID().String(), entry["span_id"])
	})

	t.Run("nil logger uses default", func(t *testing.T) {
		assert.NotNil(t, LoggerWithTrace(context.Background(), nil))
	})
}

func TestNewRouter_Health(t *testing.T) {
	tests := []struct {
		name   string
		health HealthFunc
		code   int
		status string
	}{
		{"nil health is ok", nil, http.StatusOK, StatusOK},
		{"ok", func() Health { return Health{Status: StatusOK} }, http.StatusOK, StatusOK},
		{"degraded", func() Health {
			return Health{Status: StatusDegraded, Details: map[string]string{"server": "stopped"}}
		}, http.StatusServiceUnavailable, StatusDegraded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewRouter(tt.health)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.code, rec.Code)
			var body Health
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
		})
	}
}

func TestNewRouter_Metrics(t *testing.T) {
	cfg := Config{TraceExporter: "none", MetricExporter: "prometheus"}
	shutdown, err := Init(context.Background(), cfg)
	require.NoError(t, err)
	defer shutdown(context.Background())

	router := NewRouter(nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "go_goroutines"))
}

func TestNewRouter_RecentLogs(t *testing.T) {
	exp := &logging.BufferedExporter{Capacity: 10}
	logger := logging.New(logging.Config{Quiet: true, Exporter: exp})
	defer logger.Close()
	logger.Debug("resolving host")
	logger.Warn("omnisharp request timed out", "command", "/codecheck")

	router := NewRouter(nil, WithRecentLogs(exp.Entries))

	get := func(target string) (int, []LogView) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		var views []LogView
		if rec.Code == http.StatusOK {
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
		}
		return rec.Code, views
	}

	code, views := get("/debug/logs")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, views, 2)
	assert.Equal(t, "resolving host", views[0].Message)
	assert.Equal(t, "DEBUG", views[0].Level)

	code, views = get("/debug/logs?level=warn")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, views, 1)
	assert.Equal(t, "WARN", views[0].Level)
	assert.Equal(t, "/codecheck", views[0].Attrs["command"])

	code, _ = get("/debug/logs?level=loud")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestNewRouter_RecentLogsDisabled(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/logs", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServe_StopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, addr, NewRouter(nil)) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return")
	}
}

func TestServe_NilContext(t *testing.T) {
	//nolint:staticcheck // nil context is the case under test
	assert.ErrorIs(t, Serve(nil, "127.0.0.1:0", http.NotFoundHandler()), ErrNilContext)
}
