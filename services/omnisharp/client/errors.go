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
	"errors"
	"fmt"

	"github.com/AleutianAI/omnihost/services/omnisharp/protocol"
)

// Sentinel errors for client operations.
var (
	// ErrConnectionClosed indicates the engine was closed or its transport
	// failed. Every call pending at that moment fails with it.
	ErrConnectionClosed = errors.New("omnisharp connection closed")

	// ErrRequestTimeout indicates no response arrived before the call's
	// deadline.
	ErrRequestTimeout = errors.New("omnisharp request timeout")

	// ErrUnknownCommand indicates a command absent from the catalog.
	ErrUnknownCommand = protocol.ErrUnknownCommand

	// ErrArgumentsMismatch indicates Arguments of the wrong payload type
	// for the command.
	ErrArgumentsMismatch = errors.New("arguments do not match command schema")

	// ErrServerNotRunning indicates the server process is not ready.
	ErrServerNotRunning = errors.New("omnisharp server not running")

	// ErrServerAlreadyStarted indicates Start was called twice.
	ErrServerAlreadyStarted = errors.New("omnisharp server already started")

	// ErrShutdownDuringStartup indicates Shutdown ended a pending Start.
	ErrShutdownDuringStartup = errors.New("omnisharp server shut down during startup")

	// ErrStartupTimeout indicates the server did not emit its started
	// event in time.
	ErrStartupTimeout = errors.New("omnisharp server startup timeout")

	// ErrNoServerPath indicates a launch without a server location.
	ErrNoServerPath = errors.New("omnisharp server path not configured")
)

// ServerError is a response with Success=false.
type ServerError struct {
	// Command is the failed command.
	Command string

	// Seq is the request's sequence number.
	Seq int64

	// Message is the server's diagnostic, possibly empty.
	Message string
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("omnisharp %s (seq %d) failed", e.Command, e.Seq)
	}
	return fmt.Sprintf("omnisharp %s (seq %d) failed: %s", e.Command, e.Seq, e.Message)
}
