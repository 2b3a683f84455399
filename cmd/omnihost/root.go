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
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/omnihost/pkg/logging"
	"github.com/AleutianAI/omnihost/pkg/ux"
	"github.com/AleutianAI/omnihost/services/omnisharp/config"
	"github.com/AleutianAI/omnihost/services/omnisharp/hostresolver"
	"github.com/AleutianAI/omnihost/services/omnisharp/telemetry"
)

// app carries state shared by subcommands. Tests replace probe to avoid
// running a real Mono.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	outputMode string
	logLevel   string

	opts   config.Options
	logger *logging.Logger
	recent *logging.BufferedExporter
	out    *ux.Printer
	probe  hostresolver.VersionProbe
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

// printError reports a command failure on stderr.
func (a *app) printError(err error) {
	mode := ux.ModePlain
	if a.out != nil {
		mode = a.out.Mode()
	}
	ux.NewPrinter(a.stderr, mode).Error(err.Error())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "omnihost",
		Short:         "Host and talk to an OmniSharp language server",
		Long:          `omnihost decides whether the OmniSharp server runs on a global Mono or its bundled runtime, starts it over stdio, and correlates its requests, responses and events.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			mode, err := ux.ParseMode(a.outputMode, a.stdout)
			if err != nil {
				return err
			}
			a.out = ux.NewPrinter(a.stdout, mode)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				return a.logger.Close()
			}
			return nil
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ~/.omnihost/omnihost.yaml)")
	flags.StringVarP(&a.outputMode, "output", "o", "auto", "output mode: auto, rich, plain or machine")
	flags.StringVar(&a.logLevel, "log-level", "", "override logging.level from the config file")

	root.AddCommand(
		newResolveCmd(a),
		newCatalogCmd(a),
		newLaunchCmd(a),
		newMetricsCmd(a),
	)
	return root
}

// setup loads configuration and builds the logger. Commands that need
// neither skip it.
func (a *app) setup() error {
	var (
		opts config.Options
		err  error
	)
	if a.configPath == "" {
		path, perr := config.DefaultPath()
		if perr != nil {
			return perr
		}
		a.configPath = path
		opts, err = config.LoadOrCreate(path)
	} else {
		opts, err = config.Load(a.configPath)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.logLevel != "" {
		opts.Logging.Level = a.logLevel
	}
	a.opts = opts

	level, err := logging.ParseLevel(opts.Logging.Level)
	if err != nil {
		return err
	}
	format := logging.FormatAuto
	if opts.Logging.JSON {
		format = logging.FormatJSON
	}
	var exporter logging.LogExporter
	if opts.Logging.Recent > 0 {
		a.recent = &logging.BufferedExporter{Capacity: opts.Logging.Recent}
		exporter = a.recent
	}
	a.logger = logging.New(logging.Config{
		Level:    level,
		LogDir:   opts.Logging.Dir,
		Service:  "omnihost",
		Format:   format,
		Output:   a.stderr,
		Exporter: exporter,
	})
	a.logger.SetDefault()

	if a.probe == nil {
		probe := hostresolver.NewMonoProbe()
		probe.Logger = a.logger.Slog()
		a.probe = probe
	}
	return nil
}

// routerOptions exposes the recent log buffer when one is configured.
func (a *app) routerOptions() []telemetry.RouterOption {
	if a.recent == nil {
		return nil
	}
	return []telemetry.RouterOption{telemetry.WithRecentLogs(a.recent.Entries)}
}

func (a *app) resolver() *hostresolver.Resolver {
	return hostresolver.NewResolver(a.probe,
		hostresolver.WithAutoUsesGlobalRuntime(a.opts.AutoUsesGlobalRuntime),
		hostresolver.WithLogger(a.logger.Slog()),
	)
}

// resolve runs host resolution for the loaded options.
func (a *app) resolve(ctx context.Context) (hostresolver.Outcome, hostresolver.Request, error) {
	req, err := a.opts.ResolverRequest()
	if err != nil {
		return hostresolver.Outcome{}, req, err
	}
	outcome, err := a.resolver().Resolve(ctx, req)
	return outcome, req, err
}

// initTelemetry starts the exporters named by the telemetry options.
func (a *app) initTelemetry(ctx context.Context) (func(), error) {
	cfg := telemetry.DefaultConfig()
	cfg.ServiceVersion = Version
	cfg.TraceExporter = a.opts.Telemetry.TraceExporter
	cfg.MetricExporter = a.opts.Telemetry.MetricExporter
	if a.opts.Telemetry.OTLPEndpoint != "" {
		cfg.OTLPEndpoint = a.opts.Telemetry.OTLPEndpoint
	}

	shutdown, err := telemetry.Init(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}
	return func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			a.logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}, nil
}
