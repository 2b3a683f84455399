// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package protocol defines the OmniSharp stdio wire protocol.
//
// The server exchanges newline-delimited JSON packets. Every packet carries
// a Type ("request", "response" or "event") and a Seq. Requests name a
// Command and carry Arguments; responses echo the request's Seq in
// Request_seq and carry Success, Message and Body; events carry an Event
// name and a Body.
//
// # Catalog
//
// The command catalog is a static table from command name to request and
// response payload types:
//
//	entry, ok := protocol.Lookup(protocol.FindUsages)
//	req := entry.NewRequest().(*protocol.FindUsagesRequest)
//
// Tests walk the table to check that every command constant is present and
// that file-scoped requests carry a FileName.
//
// # Payloads
//
// Field names match the wire exactly. Optional fields are pointers or
// slices tagged omitempty, so they are absent rather than null when unset.
// Line and column numbers use the server's convention; callers that speak
// 0-based editor coordinates translate at their own edge.
//
// Closed enumerations such as FileModificationType and TestOutcome reject
// unknown values when decoded, returning an error that wraps
// ErrUnknownEnumValue.
package protocol
