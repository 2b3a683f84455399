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
	"context"
	"fmt"

	"github.com/AleutianAI/omnihost/services/omnisharp/protocol"
)

// =============================================================================
// OPERATIONS
// =============================================================================

// Operations provides typed wrappers for common server commands.
//
// Description:
//
//	Each method fills the command's request payload, sends it through
//	the engine with the engine's request timeout, and decodes the typed
//	response. Commands without a wrapper are reachable through Do.
//
// Thread Safety:
//
//	Safe for concurrent use.
type Operations struct {
	engine *Engine
}

// NewOperations creates an Operations instance over engine.
func NewOperations(engine *Engine) *Operations {
	return &Operations{engine: engine}
}

// Engine returns the underlying engine.
func (o *Operations) Engine() *Engine {
	return o.engine
}

// =============================================================================
// BUFFERS AND FILES
// =============================================================================

// UpdateBuffer replaces the server's copy of file with buffer.
func (o *Operations) UpdateBuffer(ctx context.Context, file, buffer string) error {
	req := protocol.UpdateBufferRequest{Request: protocol.ForFile(file)}
	req.Buffer = protocol.String(buffer)
	return o.engine.Request(ctx, protocol.UpdateBuffer, req, nil)
}

// FilesChanged notifies the server of files changed on disk.
func (o *Operations) FilesChanged(ctx context.Context, changeType protocol.FileChangeType, files ...string) error {
	if !changeType.Valid() {
		return fmt.Errorf("%w: file change type %q", protocol.ErrUnknownEnumValue, string(changeType))
	}
	reqs := make([]protocol.FilesChangedRequest, 0, len(files))
	for _, f := range files {
		reqs = append(reqs, protocol.FilesChangedRequest{
			Request:    protocol.ForFile(f),
			ChangeType: changeType,
		})
	}
	return o.engine.Request(ctx, protocol.FilesChanged, reqs, nil)
}

// CodeCheck returns diagnostics for file, or for the whole workspace when
// file is empty.
func (o *Operations) CodeCheck(ctx context.Context, file string) ([]protocol.QuickFix, error) {
	resp, err := Do[protocol.QuickFixResponse](ctx, o.engine, protocol.CodeCheck, protocol.ForFile(file))
	if err != nil {
		return nil, err
	}
	return resp.QuickFixes, nil
}

// =============================================================================
// NAVIGATION
// =============================================================================

// FindUsages returns references to the symbol at line and column.
func (o *Operations) FindUsages(ctx context.Context, file string, line, column int, excludeDefinition bool) ([]protocol.QuickFix, error) {
	req := protocol.FindUsagesRequest{
		Request:           protocol.At(file, line, column),
		ExcludeDefinition: excludeDefinition,
	}
	resp, err := Do[protocol.QuickFixResponse](ctx, o.engine, protocol.FindUsages, req)
	if err != nil {
		return nil, err
	}
	return resp.QuickFixes, nil
}

// GoToDefinition returns the definitions of the symbol at line and column.
func (o *Operations) GoToDefinition(ctx context.Context, file string, line, column int) ([]protocol.Definition, error) {
	req := protocol.GoToDefinitionRequest{Request: protocol.At(file, line, column)}
	resp, err := Do[protocol.GoToDefinitionResponse](ctx, o.engine, protocol.V2GoToDefinition, req)
	if err != nil {
		return nil, err
	}
	return resp.Definitions, nil
}

// TypeLookup returns the type signature, optionally with documentation.
func (o *Operations) TypeLookup(ctx context.Context, file string, line, column int, withDocs bool) (protocol.TypeLookupResponse, error) {
	req := protocol.TypeLookupRequest{
		Request:              protocol.At(file, line, column),
		IncludeDocumentation: withDocs,
	}
	return Do[protocol.TypeLookupResponse](ctx, o.engine, protocol.TypeLookup, req)
}

// =============================================================================
// EDITING
// =============================================================================

// Rename returns the edits renaming the symbol at line and column to
// newName. The server does not apply them.
func (o *Operations) Rename(ctx context.Context, file string, line, column int, newName string) ([]protocol.ModifiedFileResponse, error) {
	if newName == "" {
		return nil, fmt.Errorf("rename target must not be empty")
	}
	req := protocol.RenameRequest{
		Request:          protocol.At(file, line, column),
		RenameTo:         newName,
		WantsTextChanges: protocol.Bool(true),
	}
	resp, err := Do[protocol.RenameResponse](ctx, o.engine, protocol.Rename, req)
	if err != nil {
		return nil, err
	}
	return resp.Changes, nil
}

// Completion returns completion items at line and column.
func (o *Operations) Completion(ctx context.Context, file string, line, column int) (protocol.CompletionResponse, error) {
	req := protocol.CompletionRequest{
		Request:           protocol.At(file, line, column),
		CompletionTrigger: protocol.CompletionInvoked,
	}
	return Do[protocol.CompletionResponse](ctx, o.engine, protocol.Completion, req)
}

// =============================================================================
// WORKSPACE
// =============================================================================

// WorkspaceInformation returns the project systems the server loaded.
func (o *Operations) WorkspaceInformation(ctx context.Context) (protocol.WorkspaceInformationResponse, error) {
	return Do[protocol.WorkspaceInformationResponse](ctx, o.engine, protocol.Projects, nil)
}

// CodeStructure returns the element tree of file.
func (o *Operations) CodeStructure(ctx context.Context, file string) ([]protocol.CodeElement, error) {
	req := protocol.CodeStructureRequest{FileBasedRequest: protocol.FileBasedRequest{FileName: file}}
	resp, err := Do[protocol.CodeStructureResponse](ctx, o.engine, protocol.V2CodeStructure, req)
	if err != nil {
		return nil, err
	}
	return resp.Elements, nil
}

// ExecutableProjects returns the loaded MSBuild projects that can be run
// on a modern runtime.
func (o *Operations) ExecutableProjects(ctx context.Context) ([]protocol.MSBuildProject, error) {
	info, err := o.WorkspaceInformation(ctx)
	if err != nil {
		return nil, err
	}
	if info.MsBuild == nil {
		return nil, nil
	}
	return protocol.FindExecutableMSBuildProjects(info.MsBuild.Projects), nil
}
