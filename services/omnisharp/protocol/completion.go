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

// Completion kinds reuse the Language Server Protocol numbering.

// CompletionTriggerKind reports why completion was requested.
type CompletionTriggerKind int

const (
	CompletionInvoked                         CompletionTriggerKind = 1
	CompletionTriggerCharacter                CompletionTriggerKind = 2
	CompletionTriggerForIncompleteCompletions CompletionTriggerKind = 3
)

// CompletionItemKind is the LSP item kind.
type CompletionItemKind int

// CompletionItemTag is an LSP item tag.
type CompletionItemTag int

// CompletionItemDeprecated marks an obsolete item.
const CompletionItemDeprecated CompletionItemTag = 1

// InsertTextFormat tells whether InsertText is plain or a snippet.
type InsertTextFormat int

const (
	InsertPlainText InsertTextFormat = 1
	InsertSnippet   InsertTextFormat = 2
)

// CompletionRequest is sent with /completion.
type CompletionRequest struct {
	Request
	CompletionTrigger CompletionTriggerKind `json:"CompletionTrigger"`
	TriggerCharacter  *string               `json:"TriggerCharacter,omitempty"`
}

// CompletionItem is one completion candidate.
//
// Data is opaque to the client and must be echoed back unchanged in
// /completion/resolve and /completion/afterInsert.
type CompletionItem struct {
	Label               string                       `json:"Label"`
	Kind                CompletionItemKind           `json:"Kind"`
	Tags                []CompletionItemTag          `json:"Tags,omitempty"`
	Detail              *string                      `json:"Detail,omitempty"`
	Documentation       *string                      `json:"Documentation,omitempty"`
	Preselect           bool                         `json:"Preselect"`
	SortText            *string                      `json:"SortText,omitempty"`
	FilterText          *string                      `json:"FilterText,omitempty"`
	InsertText          *string                      `json:"InsertText,omitempty"`
	InsertTextFormat    *InsertTextFormat            `json:"InsertTextFormat,omitempty"`
	TextEdit            *LinePositionSpanTextChange  `json:"TextEdit,omitempty"`
	CommitCharacters    []string                     `json:"CommitCharacters,omitempty"`
	AdditionalTextEdits []LinePositionSpanTextChange `json:"AdditionalTextEdits,omitempty"`
	Data                json.RawMessage              `json:"Data,omitempty"`
	HasAfterInsertStep  bool                         `json:"HasAfterInsertStep"`
}

// CompletionResponse answers /completion.
type CompletionResponse struct {
	IsIncomplete bool             `json:"IsIncomplete"`
	Items        []CompletionItem `json:"Items"`
}

// CompletionResolveRequest is sent with /completion/resolve.
type CompletionResolveRequest struct {
	Item CompletionItem `json:"Item"`
}

// CompletionResolveResponse answers /completion/resolve.
type CompletionResolveResponse struct {
	Item CompletionItem `json:"Item"`
}

// CompletionAfterInsertRequest is sent with /completion/afterInsert.
type CompletionAfterInsertRequest struct {
	Item CompletionItem `json:"Item"`
}

// CompletionAfterInsertResponse answers /completion/afterInsert.
type CompletionAfterInsertResponse struct {
	Changes []LinePositionSpanTextChange `json:"Changes,omitempty"`
	Line    *int                         `json:"Line,omitempty"`
	Column  *int                         `json:"Column,omitempty"`
}
