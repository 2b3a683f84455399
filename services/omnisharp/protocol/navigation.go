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
// USAGES, SYMBOLS, IMPLEMENTATIONS
// =============================================================================

// FindUsagesRequest is sent with /findusages.
type FindUsagesRequest struct {
	Request
	OnlyThisFile      bool `json:"OnlyThisFile"`
	ExcludeDefinition bool `json:"ExcludeDefinition"`
}

// FindSymbolsRequest is sent with /findsymbols.
type FindSymbolsRequest struct {
	Request
	Filter           string `json:"Filter"`
	MaxItemsToReturn *int   `json:"MaxItemsToReturn,omitempty"`
}

// SymbolLocation is a QuickFix with a symbol kind.
type SymbolLocation struct {
	QuickFix
	Kind string `json:"Kind"`
}

// FindSymbolsResponse answers /findsymbols.
type FindSymbolsResponse struct {
	QuickFixes []SymbolLocation `json:"QuickFixes"`
}

// FindImplementationsRequest is sent with /findimplementations.
type FindImplementationsRequest struct {
	Request
}

// =============================================================================
// DEFINITIONS AND METADATA
// =============================================================================

// GoToTypeDefinitionRequest is sent with /gototypedefinition.
type GoToTypeDefinitionRequest struct {
	Request
	WantMetadata *bool `json:"WantMetadata,omitempty"`
}

// GoToTypeDefinitionResponse answers /gototypedefinition.
type GoToTypeDefinitionResponse struct {
	Definitions []Definition `json:"Definitions,omitempty"`
}

// GoToDefinitionRequest is sent with /v2/gotodefinition.
type GoToDefinitionRequest struct {
	Request
	WantMetadata *bool `json:"WantMetadata,omitempty"`
}

// GoToDefinitionResponse answers /v2/gotodefinition.
type GoToDefinitionResponse struct {
	Definitions []Definition `json:"Definitions,omitempty"`
}

// MetadataRequest asks for decompiled source of a metadata type.
type MetadataRequest struct {
	MetadataSource
	Timeout *int `json:"Timeout,omitempty"`
}

// MetadataResponse answers /metadata.
type MetadataResponse struct {
	SourceName string `json:"SourceName"`
	Source     string `json:"Source"`
}

// =============================================================================
// HOVER AND SIGNATURES
// =============================================================================

// TypeLookupRequest is sent with /typelookup.
type TypeLookupRequest struct {
	Request
	IncludeDocumentation bool `json:"IncludeDocumentation"`
}

// TypeLookupResponse answers /typelookup.
type TypeLookupResponse struct {
	Type                    string                `json:"Type"`
	Documentation           string                `json:"Documentation"`
	StructuredDocumentation *DocumentationComment `json:"StructuredDocumentation"`
}

// QuickInfoRequest is sent with /quickinfo.
type QuickInfoRequest struct {
	Request
}

// QuickInfoResponse answers /quickinfo.
type QuickInfoResponse struct {
	Markdown *string `json:"Markdown,omitempty"`
}

// SignatureHelpResponse answers /signatureHelp.
type SignatureHelpResponse struct {
	Signatures      []SignatureHelpItem `json:"Signatures"`
	ActiveSignature int                 `json:"ActiveSignature"`
	ActiveParameter int                 `json:"ActiveParameter"`
}

// SignatureHelpItem is one candidate overload.
type SignatureHelpItem struct {
	Name                    string                   `json:"Name"`
	Label                   string                   `json:"Label"`
	Documentation           string                   `json:"Documentation"`
	Parameters              []SignatureHelpParameter `json:"Parameters"`
	StructuredDocumentation *DocumentationComment    `json:"StructuredDocumentation"`
}

// SignatureHelpParameter is one parameter of an overload.
type SignatureHelpParameter struct {
	Name          string `json:"Name"`
	Label         string `json:"Label"`
	Documentation string `json:"Documentation"`
}

// =============================================================================
// HIGHLIGHTING
// =============================================================================

// SemanticHighlightRequest is sent with /v2/highlight.
type SemanticHighlightRequest struct {
	Request
	Range         *Range  `json:"Range,omitempty"`
	VersionedText *string `json:"VersionedText,omitempty"`
}

// SemanticHighlightSpan is a classified span.
type SemanticHighlightSpan struct {
	StartLine   int   `json:"StartLine"`
	StartColumn int   `json:"StartColumn"`
	EndLine     int   `json:"EndLine"`
	EndColumn   int   `json:"EndColumn"`
	Type        int   `json:"Type"`
	Modifiers   []int `json:"Modifiers"`
}

// SemanticHighlightResponse answers /v2/highlight.
type SemanticHighlightResponse struct {
	Spans []SemanticHighlightSpan `json:"Spans"`
}
