// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry wires OpenTelemetry tracing and metrics for omnihost.
//
// Packages record through otel.Tracer and otel.Meter directly. Init points
// those globals at real exporters; until it runs they are no-ops, so
// libraries and tests need no setup.
//
// # Exporters
//
//   - Traces: otlp (gRPC), stdout, or none
//   - Metrics: prometheus (served by NewRouter at /metrics), stdout, or none
//
// # Usage
//
//	shutdown, err := telemetry.Init(ctx, telemetry.DefaultConfig())
//	if err != nil {
//	    return fmt.Errorf("init telemetry: %w", err)
//	}
//	defer shutdown(context.Background())
//
//	router := telemetry.NewRouter(func() telemetry.Health {
//	    return telemetry.Health{Status: telemetry.StatusOK}
//	})
//	err = telemetry.Serve(ctx, "127.0.0.1:9464", router)
package telemetry
