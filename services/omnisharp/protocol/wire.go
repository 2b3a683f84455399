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

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// ENVELOPE
// =============================================================================

// Packet type discriminators.
const (
	TypeRequest  = "request"
	TypeResponse = "response"
	TypeEvent    = "event"
)

// Packet is the header shared by every wire message.
type Packet struct {
	// Type is "request", "response" or "event".
	Type string `json:"Type"`

	// Seq is unique and strictly increasing per connection.
	Seq int64 `json:"Seq"`
}

// RequestPacket is sent by the client.
type RequestPacket struct {
	Packet

	// Command is a name from the catalog.
	Command string `json:"Command"`

	// Arguments is the command-specific request payload.
	Arguments any `json:"Arguments"`
}

// ResponsePacket answers exactly one RequestPacket.
type ResponsePacket struct {
	Packet

	Command string `json:"Command"`

	// RequestSeq echoes the originating request's Seq.
	RequestSeq int64 `json:"Request_seq"`

	// Running reports that the server is still running; more responses
	// may follow for the same request.
	Running bool `json:"Running"`

	Success bool `json:"Success"`

	// Message is a diagnostic on failure. The server may send null.
	Message string `json:"Message"`

	// Body is the command-specific response payload.
	Body json.RawMessage `json:"Body"`
}

// EventPacket is unsolicited and never matched to a request.
type EventPacket struct {
	Packet

	Event string          `json:"Event"`
	Body  json.RawMessage `json:"Body"`
}

// NewRequestPacket builds a request envelope.
func NewRequestPacket(seq int64, command string, arguments any) RequestPacket {
	return RequestPacket{
		Packet:    Packet{Type: TypeRequest, Seq: seq},
		Command:   command,
		Arguments: arguments,
	}
}

// DecodeBody unmarshals the response body into out. A null or missing
// body leaves out untouched.
func (r *ResponsePacket) DecodeBody(out any) error {
	return decodeBody(r.Body, out)
}

// DecodeBody unmarshals the event body into out.
func (e *EventPacket) DecodeBody(out any) error {
	return decodeBody(e.Body, out)
}

func decodeBody(body json.RawMessage, out any) error {
	if out == nil || len(body) == 0 || string(body) == "null" {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return nil
}

// Incoming is a decoded server packet. Exactly one of Response and Event
// is non-nil.
type Incoming struct {
	Response *ResponsePacket
	Event    *EventPacket
}

// DecodeIncoming parses one line received from the server.
//
// Description:
//
//	Reads the Type discriminator first and then decodes the full packet.
//	Requests from the server and unknown types are protocol violations.
//
// Outputs:
//
//	Incoming - The decoded response or event
//	error - ErrMalformedPacket or ErrUnexpectedPacketType
func DecodeIncoming(data []byte) (Incoming, error) {
	var head Packet
	if err := json.Unmarshal(data, &head); err != nil {
		return Incoming{}, fmt.Errorf("%w: %v", ErrMalformedPacket, err)
	}

	switch head.Type {
	case TypeResponse:
		var resp ResponsePacket
		if err := json.Unmarshal(data, &resp); err != nil {
			return Incoming{}, fmt.Errorf("%w: %v", ErrMalformedPacket, err)
		}
		return Incoming{Response: &resp}, nil

	case TypeEvent:
		var ev EventPacket
		if err := json.Unmarshal(data, &ev); err != nil {
			return Incoming{}, fmt.Errorf("%w: %v", ErrMalformedPacket, err)
		}
		if ev.Event == "" {
			return Incoming{}, fmt.Errorf("%w: event packet without Event name", ErrMalformedPacket)
		}
		return Incoming{Event: &ev}, nil

	default:
		return Incoming{}, fmt.Errorf("%w: %q", ErrUnexpectedPacketType, head.Type)
	}
}
