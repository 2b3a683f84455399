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
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/omnihost/services/omnisharp/telemetry"
)

func newMetricsCmd(a *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Serve /health and /metrics",
		Long:  `Starts the telemetry exporters and serves /health and /metrics without launching a server. Useful for checking a scrape configuration.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("listen") {
				listen = a.opts.Telemetry.MetricsAddr
			}
			if listen == "" {
				return errors.New("no listen address: set --listen or telemetry.metrics_addr")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdown, err := a.initTelemetry(ctx)
			if err != nil {
				return err
			}
			defer shutdown()

			a.out.Success("Serving http://" + listen + "/metrics")
			return telemetry.Serve(ctx, listen, a.metricsRouter())
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default telemetry.metrics_addr)")
	return cmd
}

func (a *app) metricsRouter() http.Handler {
	return telemetry.NewRouter(func() telemetry.Health {
		return telemetry.Health{
			Status:  telemetry.StatusOK,
			Details: map[string]string{"version": Version},
		}
	}, a.routerOptions()...)
}
