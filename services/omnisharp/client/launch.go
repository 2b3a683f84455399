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
	"fmt"
	"strconv"

	"github.com/AleutianAI/omnihost/services/omnisharp/hostresolver"
)

// Runtime names recorded on LaunchSpec and in metrics.
const (
	RuntimeGlobalMono = "global-mono"
	RuntimeBundled    = "bundled"
)

// LaunchOptions locates the server and its bundled launcher.
type LaunchOptions struct {
	// ServerPath is the server executable or assembly. Required.
	ServerPath string

	// BundledLauncher starts the server on its bundled runtime, for
	// example the distribution's run script. Defaults to ServerPath.
	BundledLauncher string

	// Args are passed to the server after the executable.
	Args []string

	// WorkingDir is the process working directory.
	WorkingDir string

	// AmbientEnv is the environment for bundled launches. Defaults to the
	// current process environment.
	AmbientEnv hostresolver.Environment
}

// LaunchSpec is a fully resolved process invocation.
type LaunchSpec struct {
	// Runtime is RuntimeGlobalMono or RuntimeBundled.
	Runtime string

	Command string
	Args    []string
	Env     hostresolver.Environment
	Dir     string
}

// PlanLaunch turns a resolution outcome into a process invocation.
//
// Description:
//
//	A resolved global runtime runs "mono <server> args..." with the
//	candidate's composed environment, and mono is looked up on that
//	environment's PATH. Otherwise the bundled launcher runs with the
//	ambient environment. A failed outcome returns its reason unchanged
//	so the user sees the resolver's message.
//
// Inputs:
//
//	outcome - Result of hostresolver.Resolver.Resolve
//	opts - Server locations
//
// Outputs:
//
//	LaunchSpec - The invocation
//	error - ErrNoServerPath, the outcome's reason, or a lookup failure
func PlanLaunch(outcome hostresolver.Outcome, opts LaunchOptions) (LaunchSpec, error) {
	if opts.ServerPath == "" {
		return LaunchSpec{}, ErrNoServerPath
	}

	switch outcome.Kind {
	case hostresolver.OutcomeResolved:
		env := outcome.Candidate.Env
		mono, ok := env.LookPath("mono")
		if !ok {
			return LaunchSpec{}, fmt.Errorf("mono not found on resolved search path %q", env[hostresolver.PathVariable])
		}
		args := append([]string{opts.ServerPath}, opts.Args...)
		return LaunchSpec{
			Runtime: RuntimeGlobalMono,
			Command: mono,
			Args:    args,
			Env:     env.Clone(),
			Dir:     opts.WorkingDir,
		}, nil

	case hostresolver.OutcomeUseBundled:
		launcher := opts.BundledLauncher
		if launcher == "" {
			launcher = opts.ServerPath
		}
		env := opts.AmbientEnv
		if env == nil {
			env = hostresolver.AmbientEnvironment()
		}
		return LaunchSpec{
			Runtime: RuntimeBundled,
			Command: launcher,
			Args:    append([]string(nil), opts.Args...),
			Env:     env.Clone(),
			Dir:     opts.WorkingDir,
		}, nil

	case hostresolver.OutcomeFailed:
		if outcome.Reason != nil {
			return LaunchSpec{}, outcome.Reason
		}
		return LaunchSpec{}, fmt.Errorf("runtime resolution failed")

	default:
		return LaunchSpec{}, fmt.Errorf("unknown resolution outcome %d", int(outcome.Kind))
	}
}

// DefaultServerArgs returns the arguments an editor host passes to the
// server for a solution or folder.
func DefaultServerArgs(solutionPath string, hostPID int, logLevel string) []string {
	if logLevel == "" {
		logLevel = "information"
	}
	return []string{
		"-s", solutionPath,
		"--hostPID", strconv.Itoa(hostPID),
		"DotNet:enablePackageRestore=false",
		"--encoding", "utf-8",
		"--loglevel", logLevel,
	}
}
