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
	"reflect"
	"sort"
)

// Entry describes one command of the catalog.
type Entry struct {
	// Name is the wire command string.
	Name string

	// Version is 1 for the original endpoints and 2 for /v2.
	Version int

	// FileScoped is true when the request names its target file.
	FileScoped bool

	// Request is the type sent as Arguments.
	Request reflect.Type

	// Response is the type decoded from Body.
	Response reflect.Type
}

// NewRequest returns a pointer to a zero request payload.
func (e Entry) NewRequest() any {
	return reflect.New(e.Request).Interface()
}

// NewResponse returns a pointer to a zero response payload.
func (e Entry) NewResponse() any {
	return reflect.New(e.Response).Interface()
}

// AcceptsArguments reports whether args has the request type, or a
// pointer to it. Pre-encoded json.RawMessage arguments are always
// accepted.
func (e Entry) AcceptsArguments(args any) bool {
	if args == nil {
		return e.Request == reflect.TypeFor[Empty]()
	}
	if _, raw := args.(json.RawMessage); raw {
		return true
	}
	t := reflect.TypeOf(args)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t == e.Request
}

func entry[Req, Resp any](name string, version int, fileScoped bool) Entry {
	return Entry{
		Name:       name,
		Version:    version,
		FileScoped: fileScoped,
		Request:    reflect.TypeFor[Req](),
		Response:   reflect.TypeFor[Resp](),
	}
}

// =============================================================================
// COMMAND TABLE
// =============================================================================

var catalog = buildCatalog(
	entry[AddToProjectRequest, Empty](AddToProject, 1, true),
	entry[Request, QuickFixResponse](CodeCheck, 1, true),
	entry[FormatRequest, FormatResponse](CodeFormat, 1, true),
	entry[ChangeBufferRequest, Empty](ChangeBuffer, 1, true),
	entry[[]FilesChangedRequest, Empty](FilesChanged, 1, false),
	entry[FindSymbolsRequest, FindSymbolsResponse](FindSymbols, 1, true),
	entry[FindUsagesRequest, QuickFixResponse](FindUsages, 1, true),
	entry[FormatAfterKeystrokeRequest, FormatRangeResponse](FormatAfterKeystroke, 1, true),
	entry[FormatRangeRequest, FormatRangeResponse](FormatRange, 1, true),
	entry[CodeActionRequest, CodeActionNamesResponse](GetCodeActions, 1, true),
	entry[GoToTypeDefinitionRequest, GoToTypeDefinitionResponse](GoToTypeDefinition, 1, true),
	entry[FindImplementationsRequest, QuickFixResponse](FindImplementations, 1, true),
	entry[Request, ProjectInformationResponse](Project, 1, true),
	entry[Empty, WorkspaceInformationResponse](Projects, 1, false),
	entry[RemoveFromProjectRequest, Empty](RemoveFromProject, 1, true),
	entry[RenameRequest, RenameResponse](Rename, 1, true),
	entry[CodeActionRequest, CodeActionTextResponse](RunCodeAction, 1, true),
	entry[Request, SignatureHelpResponse](SignatureHelp, 1, true),
	entry[TypeLookupRequest, TypeLookupResponse](TypeLookup, 1, true),
	entry[UpdateBufferRequest, Empty](UpdateBuffer, 1, true),
	entry[MetadataRequest, MetadataResponse](Metadata, 1, false),
	entry[RunFixAllRequest, RunFixAllResponse](RunFixAll, 1, true),
	entry[GetFixAllRequest, GetFixAllResponse](GetFixAll, 1, true),
	entry[ReAnalyzeRequest, Empty](ReAnalyze, 1, false),
	entry[QuickInfoRequest, QuickInfoResponse](QuickInfo, 1, true),
	entry[CompletionRequest, CompletionResponse](Completion, 1, true),
	entry[CompletionResolveRequest, CompletionResolveResponse](CompletionResolve, 1, false),
	entry[CompletionAfterInsertRequest, CompletionAfterInsertResponse](CompletionAfterInsert, 1, false),
	entry[SourceGeneratedFileRequest, SourceGeneratedFileResponse](SourceGeneratedFile, 1, false),
	entry[UpdateSourceGeneratedFileRequest, UpdateSourceGeneratedFileResponse](UpdateSourceGeneratedFile, 1, false),
	entry[SourceGeneratedFileClosedRequest, Empty](SourceGeneratedFileClosed, 1, false),
	entry[InlayHintRequest, InlayHintResponse](InlayHint, 1, false),
	entry[InlayHintResolveRequest, InlayHintItem](InlayHintResolve, 1, false),
	entry[FileOpenRequest, Empty](FileOpen, 1, true),
	entry[FileCloseRequest, Empty](FileClose, 1, true),

	entry[GetCodeActionsRequest, GetCodeActionsResponse](V2GetCodeActions, 2, true),
	entry[RunCodeActionRequest, RunCodeActionResponse](V2RunCodeAction, 2, true),
	entry[GetTestStartInfoRequest, GetTestStartInfoResponse](V2GetTestStartInfo, 2, true),
	entry[RunTestRequest, RunTestResponse](V2RunTest, 2, true),
	entry[RunTestsInClassRequest, RunTestResponse](V2RunAllTestsInClass, 2, true),
	entry[RunTestsInContextRequest, RunTestResponse](V2RunTestsInContext, 2, true),
	entry[DebugTestGetStartInfoRequest, DebugTestGetStartInfoResponse](V2DebugTestGetStartInfo, 2, true),
	entry[DebugTestClassGetStartInfoRequest, DebugTestGetStartInfoResponse](V2DebugTestsInClassGetStartInfo, 2, true),
	entry[DebugTestsInContextGetStartInfoRequest, DebugTestGetStartInfoResponse](V2DebugTestsInContextGetStartInfo, 2, true),
	entry[DebugTestLaunchRequest, DebugTestLaunchResponse](V2DebugTestLaunch, 2, true),
	entry[DebugTestStopRequest, DebugTestStopResponse](V2DebugTestStop, 2, true),
	entry[DiscoverTestsRequest, DiscoverTestsResponse](V2DiscoverTests, 2, true),
	entry[BlockStructureRequest, BlockStructureResponse](V2BlockStructure, 2, true),
	entry[CodeStructureRequest, CodeStructureResponse](V2CodeStructure, 2, true),
	entry[SemanticHighlightRequest, SemanticHighlightResponse](V2Highlight, 2, true),
	entry[GoToDefinitionRequest, GoToDefinitionResponse](V2GoToDefinition, 2, true),
)

func buildCatalog(entries ...Entry) map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		if _, dup := m[e.Name]; dup {
			panic(fmt.Sprintf("protocol: duplicate catalog entry %q", e.Name))
		}
		m[e.Name] = e
	}
	return m
}

// Lookup returns the catalog entry for command.
func Lookup(command string) (Entry, bool) {
	e, ok := catalog[command]
	return e, ok
}

// MustLookup is Lookup for commands known at compile time.
func MustLookup(command string) Entry {
	e, ok := catalog[command]
	if !ok {
		panic(fmt.Sprintf("protocol: %v: %s", ErrUnknownCommand, command))
	}
	return e
}

// Commands returns every command name, sorted.
func Commands() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns every catalog entry sorted by name.
func Entries() []Entry {
	names := Commands()
	out := make([]Entry, len(names))
	for i, name := range names {
		out[i] = catalog[name]
	}
	return out
}

// =============================================================================
// EVENT TABLE
// =============================================================================

// EventEntry describes one server event.
type EventEntry struct {
	Name string
	Body reflect.Type
}

// NewBody returns a pointer to a zero event body.
func (e EventEntry) NewBody() any {
	return reflect.New(e.Body).Interface()
}

var events = map[string]EventEntry{
	EventStarted:                    {EventStarted, reflect.TypeFor[Empty]()},
	EventLog:                        {EventLog, reflect.TypeFor[LogMessage]()},
	EventProjectAdded:               {EventProjectAdded, reflect.TypeFor[ProjectInformationResponse]()},
	EventProjectChanged:             {EventProjectChanged, reflect.TypeFor[ProjectInformationResponse]()},
	EventProjectRemoved:             {EventProjectRemoved, reflect.TypeFor[ProjectInformationResponse]()},
	EventProjectConfiguration:       {EventProjectConfiguration, reflect.TypeFor[ProjectConfigurationMessage]()},
	EventProjectDiagnosticStatus:    {EventProjectDiagnosticStatus, reflect.TypeFor[ProjectDiagnosticStatus]()},
	EventBackgroundDiagnosticStatus: {EventBackgroundDiagnosticStatus, reflect.TypeFor[BackgroundDiagnosticStatusMessage]()},
	EventDiagnostic:                 {EventDiagnostic, reflect.TypeFor[DiagnosticMessage]()},
	EventMsBuildProjectDiagnostics:  {EventMsBuildProjectDiagnostics, reflect.TypeFor[MSBuildProjectDiagnostics]()},
	EventPackageRestoreStarted:      {EventPackageRestoreStarted, reflect.TypeFor[PackageRestoreMessage]()},
	EventPackageRestoreFinished:     {EventPackageRestoreFinished, reflect.TypeFor[PackageRestoreMessage]()},
	EventUnresolvedDependencies:     {EventUnresolvedDependencies, reflect.TypeFor[UnresolvedDependenciesMessage]()},
	EventError:                      {EventError, reflect.TypeFor[ErrorMessage]()},
	EventTestMessage:                {EventTestMessage, reflect.TypeFor[TestMessageEvent]()},
}

// LookupEvent returns the entry for a known event name. Unknown names are
// not errors; newer servers may emit events this client does not know.
func LookupEvent(name string) (EventEntry, bool) {
	e, ok := events[name]
	return e, ok
}

// EventNames returns every known event name, sorted.
func EventNames() []string {
	names := make([]string, 0, len(events))
	for name := range events {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
