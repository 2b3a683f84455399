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

// Shapes shared by many commands. Line and column values are the server's
// native convention and are never translated here.

// =============================================================================
// REQUEST BASES
// =============================================================================

// FileBasedRequest targets one source file.
type FileBasedRequest struct {
	FileName string `json:"FileName"`
}

// Request is the common base for position-scoped commands.
type Request struct {
	FileBasedRequest

	Line   *int    `json:"Line,omitempty"`
	Column *int    `json:"Column,omitempty"`
	Buffer *string `json:"Buffer,omitempty"`

	// Changes are applied to the server buffer before the command runs.
	Changes              []LinePositionSpanTextChange `json:"Changes,omitempty"`
	ApplyChangesTogether *bool                        `json:"ApplyChangesTogether,omitempty"`
}

// At builds a Request positioned at line and column of fileName.
func At(fileName string, line, column int) Request {
	return Request{
		FileBasedRequest: FileBasedRequest{FileName: fileName},
		Line:             Int(line),
		Column:           Int(column),
	}
}

// ForFile builds a Request that names only a file.
func ForFile(fileName string) Request {
	return Request{FileBasedRequest: FileBasedRequest{FileName: fileName}}
}

// Empty is the payload of commands with no arguments or no response body.
type Empty struct{}

// Int returns a pointer to v, for optional fields.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for optional fields.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v, for optional fields.
func String(v string) *string { return &v }

// =============================================================================
// POSITIONS AND EDITS
// =============================================================================

// LinePositionSpanTextChange replaces a span with NewText.
type LinePositionSpanTextChange struct {
	NewText     string `json:"NewText"`
	StartLine   int    `json:"StartLine"`
	StartColumn int    `json:"StartColumn"`
	EndLine     int    `json:"EndLine"`
	EndColumn   int    `json:"EndColumn"`
}

// TextChange is an edit returned by formatting and code actions.
type TextChange struct {
	NewText     string `json:"NewText"`
	StartLine   int    `json:"StartLine"`
	StartColumn int    `json:"StartColumn"`
	EndLine     int    `json:"EndLine"`
	EndColumn   int    `json:"EndColumn"`
}

// Point is a position in the version 2 endpoints.
type Point struct {
	Line   int `json:"Line"`
	Column int `json:"Column"`
}

// Range spans Start to End.
type Range struct {
	Start Point `json:"Start"`
	End   Point `json:"End"`
}

// Location is a range within a file.
type Location struct {
	FileName string `json:"FileName"`
	Range    Range  `json:"Range"`
}

// ResourceLocation is a single position within a file.
type ResourceLocation struct {
	FileName string `json:"FileName"`
	Line     int    `json:"Line"`
	Column   int    `json:"Column"`
}

// =============================================================================
// RESULTS
// =============================================================================

// QuickFix is a located result: a usage, a diagnostic, an implementation.
type QuickFix struct {
	LogLevel  string   `json:"LogLevel"`
	FileName  string   `json:"FileName"`
	Line      int      `json:"Line"`
	Column    int      `json:"Column"`
	EndLine   int      `json:"EndLine"`
	EndColumn int      `json:"EndColumn"`
	Text      string   `json:"Text"`
	Projects  []string `json:"Projects"`
	Tags      []string `json:"Tags"`
	ID        string   `json:"Id"`
}

// QuickFixResponse lists located results.
type QuickFixResponse struct {
	QuickFixes []QuickFix `json:"QuickFixes"`
}

// ErrorItem is a compiler error located in a file.
type ErrorItem struct {
	Message   string `json:"Message"`
	Line      int    `json:"Line"`
	Column    int    `json:"Column"`
	EndLine   int    `json:"EndLine"`
	EndColumn int    `json:"EndColumn"`
	FileName  string `json:"FileName"`
}

// ErrorResponse lists compiler errors.
type ErrorResponse struct {
	Errors []ErrorItem `json:"Errors"`
}

// DocumentationItem is a named documentation fragment.
type DocumentationItem struct {
	Name          string `json:"Name"`
	Documentation string `json:"Documentation"`
}

// DocumentationComment is the structured form of an XML doc comment.
type DocumentationComment struct {
	SummaryText       string              `json:"SummaryText"`
	TypeParamElements []DocumentationItem `json:"TypeParamElements"`
	ParamElements     []DocumentationItem `json:"ParamElements"`
	ReturnsText       string              `json:"ReturnsText"`
	RemarksText       string              `json:"RemarksText"`
	ExampleText       string              `json:"ExampleText"`
	ValueText         string              `json:"ValueText"`
	Exception         []DocumentationItem `json:"Exception"`
}

// SyntaxFeature is a named piece of syntax data.
type SyntaxFeature struct {
	Name string `json:"Name"`
	Data string `json:"Data"`
}

// MetadataSource identifies decompiled metadata for a type.
type MetadataSource struct {
	AssemblyName  string `json:"AssemblyName"`
	ProjectName   string `json:"ProjectName"`
	VersionNumber string `json:"VersionNumber"`
	Language      string `json:"Language"`
	TypeName      string `json:"TypeName"`
}

// SourceGeneratedFileInfo identifies a generator-produced document.
type SourceGeneratedFileInfo struct {
	ProjectGuid  string `json:"ProjectGuid"`
	DocumentGuid string `json:"DocumentGuid"`
}

// Definition is a go-to-definition target.
type Definition struct {
	Location                Location                 `json:"Location"`
	MetadataSource          *MetadataSource          `json:"MetadataSource,omitempty"`
	SourceGeneratedFileInfo *SourceGeneratedFileInfo `json:"SourceGeneratedFileInfo,omitempty"`
}
