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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/omnihost/services/omnisharp/hostresolver"
)

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Show which runtime would host the server",
		Long: `Runs host resolution with the configured policy (use_global_mono), install
path and minimum version, and prints the decision. Exits non-zero when the
policy is "always" and no suitable Mono is available.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			outcome, req, err := a.resolve(cmd.Context())

			var resErr *hostresolver.ResolutionError
			if err != nil && !errors.As(err, &resErr) {
				return err
			}
			a.printOutcome(outcome, req)
			return err
		},
	}
}

func (a *app) printOutcome(outcome hostresolver.Outcome, req hostresolver.Request) {
	a.out.Title("Host runtime")
	a.out.Field("policy", req.Policy.String())
	if req.ConfiguredPath != "" {
		a.out.Field("mono_path", req.ConfiguredPath)
	}
	a.out.Field("minimum_version", req.MinimumVersion)
	a.out.Field("outcome", outcome.Kind.String())

	switch outcome.Kind {
	case hostresolver.OutcomeResolved:
		path := outcome.Candidate.Path
		if path == "" {
			path = "(PATH)"
		}
		a.out.Field("mono_version", outcome.Candidate.Version)
		a.out.Field("install", path)
		a.out.Success("Global Mono will host the server")
	case hostresolver.OutcomeUseBundled:
		a.out.Success("The bundled runtime will host the server")
	case hostresolver.OutcomeFailed:
		a.out.Box("Cannot start the server", outcome.Reason.Error())
	}
}
