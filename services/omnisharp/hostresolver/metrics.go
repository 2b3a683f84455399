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
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("omnihost.hostresolver")

	resolutionsTotal metric.Int64Counter
	metricsOnce      sync.Once
	metricsErr       error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		resolutionsTotal, metricsErr = meter.Int64Counter(
			"omnihost_host_resolutions_total",
			metric.WithDescription("Runtime host resolutions by policy and outcome"),
		)
	})
	return metricsErr
}

func (r *Resolver) record(ctx context.Context, policy HostPolicy, kind OutcomeKind) {
	if err := initMetrics(); err != nil {
		return
	}
	resolutionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("policy", policy.String()),
		attribute.String("outcome", kind.String()),
	))
}
