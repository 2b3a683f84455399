// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


// Package client talks to an OmniSharp server over its stdio protocol.
//
// The Engine is the core: it numbers outgoing requests, matches each
// response to its caller by Request_seq regardless of arrival order, and
// fans server events out to subscribers. Every call completes exactly once,
// with its response, a timeout, or connection closure.
//
// Server wraps the process: PlanLaunch turns a hostresolver.Outcome into a
// LaunchSpec, and Server.Start runs it and waits for the started event.
// Operations offers typed wrappers for common commands.
//
// # Example
//
//	spec, err := client.PlanLaunch(outcome, client.LaunchOptions{
//	    ServerPath: "/opt/omnisharp/OmniSharp.exe",
//	    Args:       client.DefaultServerArgs(solution, os.Getpid(), ""),
//	})
//	if err != nil {
//	    return err
//	}
//	srv := client.NewServer(client.ServerConfig{Launch: spec})
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//	defer srv.Shutdown(context.Background())
//
//	ops, _ := srv.Operations()
//	fixes, err := ops.CodeCheck(ctx, "Program.cs")
package client
