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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/omnihost/pkg/logging"
)

// Health statuses reported by /health.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// Health is the /health response body.
type Health struct {
	Status  string            `json:"status"`
	Details map[string]string `json:"details,omitempty"`
}

// HealthFunc reports current health. It is called per request.
type HealthFunc func() Health

// LogView is one /debug/logs entry.
type LogView struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

type routerConfig struct {
	recent func() []logging.LogEntry
}

// RouterOption configures NewRouter.
type RouterOption func(*routerConfig)

// WithRecentLogs serves the entries returned by recent on /debug/logs,
// oldest first. A level query parameter drops entries below that level.
func WithRecentLogs(recent func() []logging.LogEntry) RouterOption {
	return func(c *routerConfig) { c.recent = recent }
}

// NewRouter returns a gin engine serving /health and, when the prometheus
// exporter is active, /metrics.
//
// Description:
//
//	/health answers 200 when health reports StatusOK and 503 otherwise.
//	A nil health always reports StatusOK. Requests are traced with
//	otelgin.
func NewRouter(health HealthFunc, opts ...RouterOption) *gin.Engine {
	var cfg routerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("omnihost"))

	router.GET("/health", func(c *gin.Context) {
		h := Health{Status: StatusOK}
		if health != nil {
			h = health()
		}
		code := http.StatusOK
		if h.Status != StatusOK {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, h)
	})

	if handler := MetricsHandler(); handler != nil {
		router.GET("/metrics", gin.WrapH(handler))
	}

	if cfg.recent != nil {
		router.GET("/debug/logs", func(c *gin.Context) {
			minLevel := logging.LevelDebug
			if q := c.Query("level"); q != "" {
				level, err := logging.ParseLevel(q)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				minLevel = level
			}

			views := make([]LogView, 0)
			for _, entry := range cfg.recent() {
				if entry.Level < minLevel {
					continue
				}
				views = append(views, LogView{
					Time:    entry.Timestamp,
					Level:   entry.Level.String(),
					Message: entry.Message,
					Attrs:   entry.Attrs,
				})
			}
			c.JSON(http.StatusOK, views)
		})
	}

	return router
}

// Serve runs handler on addr until ctx is done, then shuts down within
// five seconds.
//
// Outputs:
//
//	error - nil after a clean shutdown, otherwise the listen or serve error
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	if ctx == nil {
		return ErrNilContext
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	slog.Info("Telemetry endpoint listening", slog.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown telemetry endpoint: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
