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

import "encoding/json"

// =============================================================================
// SOURCE GENERATED FILES
// =============================================================================

// SourceGeneratedFileRequest is sent with /sourcegeneratedfile.
type SourceGeneratedFileRequest struct{ SourceGeneratedFileInfo }

// SourceGeneratedFileResponse answers /sourcegeneratedfile.
type SourceGeneratedFileResponse struct {
	Source     string `json:"Source"`
	SourceName string `json:"SourceName"`
}

// UpdateSourceGeneratedFileRequest is sent with /updatesourcegeneratedfile.
type UpdateSourceGeneratedFileRequest struct{ SourceGeneratedFileInfo }

// UpdateSourceGeneratedFileResponse answers /updatesourcegeneratedfile.
// Source is present only when UpdateType is Modified.
type UpdateSourceGeneratedFileResponse struct {
	UpdateType UpdateType `json:"UpdateType"`
	Source     *string    `json:"Source,omitempty"`
}

// SourceGeneratedFileClosedRequest is sent with /sourcegeneratedfileclosed.
type SourceGeneratedFileClosedRequest struct{ SourceGeneratedFileInfo }

// =============================================================================
// INLAY HINTS
// =============================================================================

// InlayHintRequest is sent with /inlayHint.
type InlayHintRequest struct {
	Location Location `json:"Location"`
}

// InlayHintItem is one hint. Data is opaque and echoed back on resolve.
type InlayHintItem struct {
	Position Point           `json:"Position"`
	Label    string          `json:"Label"`
	Tooltip  *string         `json:"Tooltip,omitempty"`
	Data     json.RawMessage `json:"Data,omitempty"`
}

// InlayHintResponse answers /inlayHint.
type InlayHintResponse struct {
	InlayHints []InlayHintItem `json:"InlayHints"`
}

// InlayHintResolveRequest is sent with /inlayHint/resolve. The response
// is the resolved InlayHintItem.
type InlayHintResolveRequest struct {
	Hint InlayHintItem `json:"Hint"`
}
