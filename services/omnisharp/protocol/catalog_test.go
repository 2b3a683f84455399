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
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allCommands mirrors the command constants. Adding a constant without a
// catalog entry fails TestCatalog_Exhaustive.
var allCommands = []string{
	AddToProject, CodeCheck, CodeFormat, ChangeBuffer, FilesChanged,
	FindSymbols, FindUsages, FormatAfterKeystroke, FormatRange,
	GetCodeActions, GoToTypeDefinition, FindImplementations, Project,
	Projects, RemoveFromProject, Rename, RunCodeAction, SignatureHelp,
	TypeLookup, UpdateBuffer, Metadata, RunFixAll, GetFixAll, ReAnalyze,
	QuickInfo, Completion, CompletionResolve, CompletionAfterInsert,
	SourceGeneratedFile, UpdateSourceGeneratedFile, SourceGeneratedFileClosed,
	InlayHint, InlayHintResolve, FileOpen, FileClose,

	V2GetCodeActions, V2RunCodeAction, V2GetTestStartInfo, V2RunTest,
	V2RunAllTestsInClass, V2RunTestsInContext, V2DebugTestGetStartInfo,
	V2DebugTestsInClassGetStartInfo, V2DebugTestsInContextGetStartInfo,
	V2DebugTestLaunch, V2DebugTestStop, V2DiscoverTests, V2BlockStructure,
	V2CodeStructure, V2Highlight, V2GoToDefinition,
}

func TestCatalog_Exhaustive(t *testing.T) {
	assert.Len(t, allCommands, 51)
	assert.Len(t, Commands(), len(allCommands))

	for _, name := range allCommands {
		e, ok := Lookup(name)
		require.True(t, ok, "missing catalog entry for %s", name)
		assert.Equal(t, name, e.Name)
		assert.NotNil(t, e.Request, name)
		assert.NotNil(t, e.Response, name)

		wantVersion := 1
		if strings.HasPrefix(name, "/v2/") {
			wantVersion = 2
		}
		assert.Equal(t, wantVersion, e.Version, name)
	}
}

func TestCatalog_FileScopedMatchesRequestShape(t *testing.T) {
	for _, e := range Entries() {
		hasFileName := false
		if e.Request.Kind() == reflect.Struct {
			f, ok := e.Request.FieldByName("FileName")
			hasFileName = ok && f.Type.Kind() == reflect.String
		}
		assert.Equal(t, hasFileName, e.FileScoped, "%s: FileScoped flag disagrees with %s", e.Name, e.Request)
	}
}

func TestCatalog_FileScopedRequestsSerializeFileName(t *testing.T) {
	for _, e := range Entries() {
		if !e.FileScoped {
			continue
		}
		v := reflect.New(e.Request).Elem()
		v.FieldByName("FileName").SetString("/src/Program.cs")

		data, err := json.Marshal(v.Interface())
		require.NoError(t, err, e.Name)

		var fields map[string]any
		require.NoError(t, json.Unmarshal(data, &fields), e.Name)
		assert.Equal(t, "/src/Program.cs", fields["FileName"], e.Name)
	}
}

func TestCatalog_NewPayloads(t *testing.T) {
	e := MustLookup(FindUsages)

	req, ok := e.NewRequest().(*FindUsagesRequest)
	require.True(t, ok)
	assert.Empty(t, req.FileName)

	_, ok = e.NewResponse().(*QuickFixResponse)
	assert.True(t, ok)
}

func TestCatalog_AcceptsArguments(t *testing.T) {
	usages := MustLookup(FindUsages)
	assert.True(t, usages.AcceptsArguments(FindUsagesRequest{}))
	assert.True(t, usages.AcceptsArguments(&FindUsagesRequest{}))
	assert.True(t, usages.AcceptsArguments(json.RawMessage(`{"FileName":"a.cs"}`)))
	assert.False(t, usages.AcceptsArguments(RenameRequest{}))
	assert.False(t, usages.AcceptsArguments(nil))

	projects := MustLookup(Projects)
	assert.True(t, projects.AcceptsArguments(nil))
	assert.True(t, projects.AcceptsArguments(Empty{}))

	changed := MustLookup(FilesChanged)
	assert.True(t, changed.AcceptsArguments([]FilesChangedRequest{}))
}

func TestCatalog_UnknownCommand(t *testing.T) {
	_, ok := Lookup("/nosuchcommand")
	assert.False(t, ok)
	assert.Panics(t, func() { MustLookup("/nosuchcommand") })
}

func TestEvents_Known(t *testing.T) {
	for _, name := range EventNames() {
		e, ok := LookupEvent(name)
		require.True(t, ok)
		assert.NotNil(t, e.NewBody())
	}
	_, ok := LookupEvent("SomeFutureEvent")
	assert.False(t, ok)
}
