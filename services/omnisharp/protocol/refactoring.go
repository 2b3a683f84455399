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

// =============================================================================
// FILE OPERATIONS
// =============================================================================

// FileOperationResponse is one file touched by a code action or fix-all.
//
// The server sends three shapes discriminated by ModificationType:
// Modified carries Buffer and Changes, Renamed carries NewFileName, and
// Opened carries only FileName. All three decode into this struct.
type FileOperationResponse struct {
	FileName         string               `json:"FileName"`
	ModificationType FileModificationType `json:"ModificationType"`
	Buffer           *string              `json:"Buffer,omitempty"`
	Changes          []TextChange         `json:"Changes,omitempty"`
	NewFileName      *string              `json:"NewFileName,omitempty"`
}

// ModifiedFileResponse is a file edited in place.
type ModifiedFileResponse struct {
	FileName         string               `json:"FileName"`
	ModificationType FileModificationType `json:"ModificationType"`
	Buffer           string               `json:"Buffer"`
	Changes          []TextChange         `json:"Changes"`
}

// =============================================================================
// RENAME
// =============================================================================

// RenameRequest is sent with /rename.
type RenameRequest struct {
	Request
	RenameTo         string `json:"RenameTo"`
	WantsTextChanges *bool  `json:"WantsTextChanges,omitempty"`
	ApplyTextChanges bool   `json:"ApplyTextChanges"`
}

// RenameResponse answers /rename.
type RenameResponse struct {
	Changes []ModifiedFileResponse `json:"Changes"`
}

// =============================================================================
// CODE ACTIONS, VERSION 1
// =============================================================================

// CodeActionRequest is sent with /getcodeactions and /runcodeaction.
// CodeAction is the index into the names returned by /getcodeactions.
type CodeActionRequest struct {
	Request
	CodeAction           int   `json:"CodeAction"`
	WantsTextChanges     *bool `json:"WantsTextChanges,omitempty"`
	SelectionStartColumn *int  `json:"SelectionStartColumn,omitempty"`
	SelectionStartLine   *int  `json:"SelectionStartLine,omitempty"`
	SelectionEndColumn   *int  `json:"SelectionEndColumn,omitempty"`
	SelectionEndLine     *int  `json:"SelectionEndLine,omitempty"`
}

// CodeActionNamesResponse answers /getcodeactions.
type CodeActionNamesResponse struct {
	CodeActions []string `json:"CodeActions"`
}

// CodeActionTextResponse answers /runcodeaction.
type CodeActionTextResponse struct {
	Text    string       `json:"Text"`
	Changes []TextChange `json:"Changes"`
}

// =============================================================================
// CODE ACTIONS, VERSION 2
// =============================================================================

// GetCodeActionsRequest is sent with /v2/getcodeactions.
type GetCodeActionsRequest struct {
	Request
	Selection *Range `json:"Selection,omitempty"`
}

// CodeAction is an available refactoring or fix.
type CodeAction struct {
	Identifier string `json:"Identifier"`
	Name       string `json:"Name"`
}

// GetCodeActionsResponse answers /v2/getcodeactions.
type GetCodeActionsResponse struct {
	CodeActions []CodeAction `json:"CodeActions"`
}

// RunCodeActionRequest is sent with /v2/runcodeaction.
type RunCodeActionRequest struct {
	Request
	Identifier                   string `json:"Identifier"`
	Selection                    *Range `json:"Selection,omitempty"`
	WantsTextChanges             bool   `json:"WantsTextChanges"`
	WantsAllCodeActionOperations bool   `json:"WantsAllCodeActionOperations"`
	ApplyTextChanges             bool   `json:"ApplyTextChanges"`
}

// RunCodeActionResponse answers /v2/runcodeaction.
type RunCodeActionResponse struct {
	Changes []FileOperationResponse `json:"Changes"`
}

// =============================================================================
// FIX ALL
// =============================================================================

// FixAllItem names one diagnostic that can be fixed in bulk.
type FixAllItem struct {
	ID      string `json:"Id"`
	Message string `json:"Message"`
}

// GetFixAllRequest is sent with /getfixall.
type GetFixAllRequest struct {
	FileBasedRequest
	Scope        FixAllScope  `json:"Scope"`
	FixAllFilter []FixAllItem `json:"FixAllFilter,omitempty"`
}

// GetFixAllResponse answers /getfixall.
type GetFixAllResponse struct {
	Items []FixAllItem `json:"Items"`
}

// RunFixAllRequest is sent with /runfixall.
type RunFixAllRequest struct {
	FileBasedRequest
	Scope                        FixAllScope  `json:"Scope"`
	FixAllFilter                 []FixAllItem `json:"FixAllFilter,omitempty"`
	WantsTextChanges             bool         `json:"WantsTextChanges"`
	WantsAllCodeActionOperations bool         `json:"WantsAllCodeActionOperations"`
	ApplyChanges                 bool         `json:"ApplyChanges"`
}

// RunFixAllResponse answers /runfixall.
type RunFixAllResponse struct {
	Text    string                  `json:"Text"`
	Changes []FileOperationResponse `json:"Changes"`
}
