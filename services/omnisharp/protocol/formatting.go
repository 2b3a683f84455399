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

// FormatRequest is sent with /codeformat.
type FormatRequest struct {
	Request
	ExpandTab bool `json:"ExpandTab"`
}

// FormatResponse answers /codeformat with the whole formatted buffer.
type FormatResponse struct {
	Buffer string `json:"Buffer"`
}

// FormatAfterKeystrokeRequest is sent with /formatAfterKeystroke.
type FormatAfterKeystrokeRequest struct {
	Request
	Character string `json:"Character"`
}

// FormatRangeRequest is sent with /formatRange. Line and Column of the
// embedded Request mark the start.
type FormatRangeRequest struct {
	Request
	EndLine   int `json:"EndLine"`
	EndColumn int `json:"EndColumn"`
}

// FormatRangeResponse answers /formatRange and /formatAfterKeystroke.
type FormatRangeResponse struct {
	Changes []TextChange `json:"Changes"`
}
