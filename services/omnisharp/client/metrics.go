// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package client

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for client operations.
var (
	tracer = otel.Tracer("omnihost.client")
	meter  = otel.Meter("omnihost.client")
)

// Metrics for the correlation engine and server process.
var (
	requestLatency metric.Float64Histogram
	requestTotal   metric.Int64Counter
	pendingCalls   metric.Int64UpDownCounter
	anomalyTotal   metric.Int64Counter
	eventTotal     metric.Int64Counter
	serverStarts   metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		requestLatency, err = meter.Float64Histogram(
			"omnihost_request_duration_seconds",
			metric.WithDescription("Time from request write to completion"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		requestTotal, err = meter.Int64Counter(
			"omnihost_requests_total",
			metric.WithDescription("Completed requests by command and outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		pendingCalls, err = meter.Int64UpDownCounter(
			"omnihost_pending_requests",
			metric.WithDescription("Requests awaiting a response"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		anomalyTotal, err = meter.Int64Counter(
			"omnihost_protocol_anomalies_total",
			metric.WithDescription("Dropped packets by anomaly kind"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		eventTotal, err = meter.Int64Counter(
			"omnihost_events_total",
			metric.WithDescription("Server events received by name"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		serverStarts, err = meter.Int64Counter(
			"omnihost_server_starts_total",
			metric.WithDescription("Server process starts by runtime and success"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func startRequestSpan(ctx context.Context, command string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Engine.Request",
		trace.WithAttributes(attribute.String("omnisharp.command", command)),
	)
}

func seqAttr(seq int64) attribute.KeyValue {
	return attribute.Int64("omnisharp.seq", seq)
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func recordPending(delta int64) {
	if err := initMetrics(); err != nil {
		return
	}
	pendingCalls.Add(context.Background(), delta)
}

func recordCompletion(call *Call, outcome string) {
	if err := initMetrics(); err != nil {
		return
	}
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("command", call.Command),
		attribute.String("outcome", outcome),
	)
	requestLatency.Record(ctx, time.Since(call.started).Seconds(), attrs)
	requestTotal.Add(ctx, 1, attrs)
}

func recordAnomaly(kind string) {
	if err := initMetrics(); err != nil {
		return
	}
	anomalyTotal.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", kind)))
}

func recordEvent(name string) {
	if err := initMetrics(); err != nil {
		return
	}
	eventTotal.Add(context.Background(), 1, metric.WithAttributes(attribute.String("event", name)))
}

func recordServerStart(ctx context.Context, runtime string, success bool) {
	if err := initMetrics(); err != nil {
		return
	}
	serverStarts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("runtime", runtime),
		attribute.Bool("success", success),
	))
}
