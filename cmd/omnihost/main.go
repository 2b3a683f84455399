// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command omnihost resolves the runtime that hosts the OmniSharp server,
// launches it over stdio, and exposes its health and metrics.
//
// Usage:
//
//	omnihost resolve                 # show which runtime would host the server
//	omnihost catalog [--events]      # list protocol commands or events
//	omnihost launch [solution.sln]   # start the server and keep it running
//	omnihost metrics                 # serve /health and /metrics only
package main

import (
	"os"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "0.1.0"

func main() {
	a := newApp(os.Stdout, os.Stderr)
	if err := newRootCmd(a).Execute(); err != nil {
		a.printError(err)
		os.Exit(1)
	}
}
