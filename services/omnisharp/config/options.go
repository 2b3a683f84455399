// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AleutianAI/omnihost/services/omnisharp/hostresolver"
)

// Environment variables that override file values.
const (
	EnvUseGlobalMono = "OMNIHOST_USE_GLOBAL_MONO"
	EnvMonoPath      = "OMNIHOST_MONO_PATH"
)

// Options is the full configuration.
type Options struct {
	// UseGlobalMono is the host policy: always, auto or never.
	UseGlobalMono string `yaml:"use_global_mono" validate:"oneof=always auto never"`

	// MonoPath is the Mono installation directory, empty for PATH lookup.
	MonoPath string `yaml:"mono_path"`

	MinimumMonoVersion    string `yaml:"minimum_mono_version" validate:"required,semver"`
	AutoUsesGlobalRuntime bool   `yaml:"auto_uses_global_runtime"`

	Server    ServerOptions    `yaml:"server"`
	Logging   LoggingOptions   `yaml:"logging"`
	Telemetry TelemetryOptions `yaml:"telemetry"`
}

// ServerOptions locates and tunes the analysis server.
type ServerOptions struct {
	// Path is the server executable or assembly.
	Path string `yaml:"path"`

	// BundledRuntime starts the server on its bundled runtime.
	BundledRuntime string `yaml:"bundled_runtime"`

	Args           []string      `yaml:"args,omitempty"`
	StartupTimeout time.Duration `yaml:"startup_timeout" validate:"gte=0"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gte=0"`
}

// LoggingOptions configures pkg/logging.
type LoggingOptions struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	Dir   string `yaml:"dir"`
	JSON  bool   `yaml:"json"`

	// Recent is how many log entries /debug/logs keeps. Zero disables it.
	Recent int `yaml:"recent" validate:"gte=0"`
}

// TelemetryOptions configures the OpenTelemetry exporters.
type TelemetryOptions struct {
	TraceExporter  string `yaml:"trace_exporter" validate:"oneof=otlp stdout none"`
	MetricExporter string `yaml:"metric_exporter" validate:"oneof=prometheus stdout none"`
	OTLPEndpoint   string `yaml:"otlp_endpoint,omitempty"`
	MetricsAddr    string `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
}

// DefaultOptions returns the configuration used when no file overrides it.
func DefaultOptions() Options {
	return Options{
		UseGlobalMono:         hostresolver.PolicyAuto.String(),
		MinimumMonoVersion:    hostresolver.DefaultMinimumVersion,
		AutoUsesGlobalRuntime: hostresolver.DefaultAutoUsesGlobalRuntime,
		Server: ServerOptions{
			StartupTimeout: 60 * time.Second,
			RequestTimeout: 60 * time.Second,
		},
		Logging: LoggingOptions{
			Level:  "info",
			Recent: 200,
		},
		Telemetry: TelemetryOptions{
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			MetricsAddr:    "127.0.0.1:9464",
		},
	}
}

// DefaultPath returns ~/.omnihost/omnihost.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".omnihost", "omnihost.yaml"), nil
}

// Policy parses UseGlobalMono.
func (o Options) Policy() (hostresolver.HostPolicy, error) {
	return hostresolver.ParsePolicy(o.UseGlobalMono)
}

// ResolverRequest builds the host resolution request for these options.
func (o Options) ResolverRequest() (hostresolver.Request, error) {
	policy, err := o.Policy()
	if err != nil {
		return hostresolver.Request{}, err
	}
	return hostresolver.Request{
		Policy:         policy,
		ConfiguredPath: o.MonoPath,
		MinimumVersion: o.MinimumMonoVersion,
	}, nil
}

// applyEnv overrides fields from lookup.
func (o *Options) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvUseGlobalMono); ok && v != "" {
		o.UseGlobalMono = v
	}
	if v, ok := lookup(EnvMonoPath); ok {
		o.MonoPath = v
	}
}

// normalize folds the case of enumerated values, which are parsed
// case-insensitively, so validation accepts what parsing accepts.
func (o *Options) normalize() {
	o.UseGlobalMono = strings.ToLower(strings.TrimSpace(o.UseGlobalMono))
	o.Logging.Level = strings.ToLower(strings.TrimSpace(o.Logging.Level))
}
