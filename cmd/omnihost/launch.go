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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/omnihost/services/omnisharp/client"
	"github.com/AleutianAI/omnihost/services/omnisharp/config"
	"github.com/AleutianAI/omnihost/services/omnisharp/telemetry"
)

const shutdownTimeout = 10 * time.Second

type launchFlags struct {
	serverPath string
	listen     string
	watch      bool
}

func newLaunchCmd(a *app) *cobra.Command {
	var f launchFlags

	cmd := &cobra.Command{
		Use:   "launch [solution]",
		Short: "Start the server and keep it running",
		Long: `Resolves the host runtime, starts the OmniSharp server over stdio and waits
for its started event. The server runs until interrupted or until it exits.
While it runs, /health and /metrics are served on --listen.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("listen") {
				f.listen = a.opts.Telemetry.MetricsAddr
			}
			solution := ""
			if len(args) == 1 {
				solution = args[0]
			}
			return a.runLaunch(cmd.Context(), solution, f)
		},
	}

	cmd.Flags().StringVar(&f.serverPath, "server-path", "", "override server.path from the config file")
	cmd.Flags().StringVar(&f.listen, "listen", "", "address for /health and /metrics; empty disables (default telemetry.metrics_addr)")
	cmd.Flags().BoolVar(&f.watch, "watch", false, "watch the config file and report changes")
	return cmd
}

func (a *app) runLaunch(ctx context.Context, solution string, f launchFlags) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := a.initTelemetry(ctx)
	if err != nil {
		return err
	}
	defer shutdownTelemetry()

	outcome, _, err := a.resolve(ctx)
	if err != nil {
		return err
	}

	serverPath := a.opts.Server.Path
	if f.serverPath != "" {
		serverPath = f.serverPath
	}

	opts := client.LaunchOptions{
		ServerPath:      serverPath,
		BundledLauncher: a.opts.Server.BundledRuntime,
	}
	if solution != "" {
		abs, err := filepath.Abs(solution)
		if err != nil {
			return fmt.Errorf("resolve solution path: %w", err)
		}
		opts.Args = client.DefaultServerArgs(abs, os.Getpid(), serverLogLevel(a.opts.Logging.Level))
		opts.WorkingDir = filepath.Dir(abs)
	}
	opts.Args = append(opts.Args, a.opts.Server.Args...)

	spec, err := client.PlanLaunch(outcome, opts)
	if err != nil {
		return err
	}

	server := client.NewServer(client.ServerConfig{
		Launch:         spec,
		StartupTimeout: a.opts.Server.StartupTimeout,
		RequestTimeout: a.opts.Server.RequestTimeout,
		Logger:         a.logger.Slog(),
	})

	a.logger.Info("Starting OmniSharp server",
		slog.String("runtime", spec.Runtime),
		slog.String("command", spec.Command),
		slog.String("solution", solution),
	)
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(sctx); err != nil {
			a.logger.Warn("Server shutdown failed", slog.String("error", err.Error()))
		}
	}()

	a.out.Success(fmt.Sprintf("Server ready (pid %d, %s)", server.PID(), spec.Runtime))
	a.reportWorkspace(ctx, server)

	if f.listen != "" {
		go func() {
			if err := telemetry.Serve(ctx, f.listen, telemetry.NewRouter(serverHealth(server), a.routerOptions()...)); err != nil {
				a.logger.Error("HTTP server failed", slog.String("addr", f.listen), slog.String("error", err.Error()))
			}
		}()
		a.out.Field("health", "http://"+f.listen+"/health")
	}

	if f.watch {
		watcher, err := a.watchConfig(ctx)
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down OmniSharp server")
		return nil
	case <-server.Exited():
		if err := server.ExitErr(); err != nil {
			return fmt.Errorf("server exited: %w", err)
		}
		return errors.New("server exited")
	}
}

// reportWorkspace logs the loaded projects. Failure is not fatal; some
// servers answer /projects only after the workspace finishes loading.
func (a *app) reportWorkspace(ctx context.Context, server *client.Server) {
	ops, err := server.Operations()
	if err != nil {
		return
	}
	info, err := ops.WorkspaceInformation(ctx)
	if err != nil {
		a.logger.Warn("Workspace information unavailable", slog.String("error", err.Error()))
		return
	}
	if info.MsBuild == nil {
		return
	}
	a.out.Field("solution", info.MsBuild.SolutionPath)
	a.out.Field("projects", strconv.Itoa(len(info.MsBuild.Projects)))
}

// watchConfig reports config edits. Host policy changes only apply to
// the next launch, so they are logged rather than applied.
func (a *app) watchConfig(ctx context.Context) (*config.Watcher, error) {
	current := a.opts
	watcher, err := config.NewWatcher(a.configPath, func(next config.Options) {
		if next.UseGlobalMono != current.UseGlobalMono || next.MonoPath != current.MonoPath {
			a.logger.Warn("Host runtime settings changed; restart to apply",
				slog.String("use_global_mono", next.UseGlobalMono),
				slog.String("mono_path", next.MonoPath),
			)
			return
		}
		a.logger.Info("Configuration reloaded", slog.String("path", a.configPath))
	}, config.WithWatchLogger(a.logger.Slog()))
	if err != nil {
		return nil, err
	}
	if err := watcher.Start(ctx); err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	return watcher, nil
}

func serverHealth(server *client.Server) telemetry.HealthFunc {
	return func() telemetry.Health {
		state := server.State()
		h := telemetry.Health{
			Status:  telemetry.StatusOK,
			Details: map[string]string{"server": state.String()},
		}
		if engine := server.Engine(); engine != nil {
			h.Details["pending_requests"] = strconv.Itoa(engine.Pending())
			h.Details["connection"] = engine.ID()
		}
		if state != client.ServerStateReady {
			h.Status = telemetry.StatusDegraded
		}
		return h
	}
}

// serverLogLevel maps a logging level to the server's --loglevel names.
func serverLogLevel(level string) string {
	switch level {
	case "debug":
		return "debug"
	case "warn":
		return "warning"
	case "error":
		return "error"
	default:
		return "information"
	}
}
