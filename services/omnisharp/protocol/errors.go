// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package protocol

import "errors"

// Sentinel errors for wire decoding.
var (
	// ErrMalformedPacket indicates a line that is not a valid envelope.
	ErrMalformedPacket = errors.New("malformed omnisharp packet")

	// ErrMalformedBody indicates a Body that does not match its schema.
	ErrMalformedBody = errors.New("malformed omnisharp packet body")

	// ErrUnexpectedPacketType indicates a Type other than response or event
	// arriving from the server.
	ErrUnexpectedPacketType = errors.New("unexpected omnisharp packet type")

	// ErrUnknownEnumValue indicates a closed enumeration received a value
	// outside its set.
	ErrUnknownEnumValue = errors.New("unknown enumeration value")

	// ErrUnknownCommand indicates a command name absent from the catalog.
	ErrUnknownCommand = errors.New("unknown omnisharp command")
)
