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

// Command names understood by the server. These strings are the wire
// contract and are never renamed.
const (
	AddToProject              = "/addtoproject"
	CodeCheck                 = "/codecheck"
	CodeFormat                = "/codeformat"
	ChangeBuffer              = "/changebuffer"
	FilesChanged              = "/filesChanged"
	FindSymbols               = "/findsymbols"
	FindUsages                = "/findusages"
	FormatAfterKeystroke      = "/formatAfterKeystroke"
	FormatRange               = "/formatRange"
	GetCodeActions            = "/getcodeactions"
	GoToTypeDefinition        = "/gototypedefinition"
	FindImplementations       = "/findimplementations"
	Project                   = "/project"
	Projects                  = "/projects"
	RemoveFromProject         = "/removefromproject"
	Rename                    = "/rename"
	RunCodeAction             = "/runcodeaction"
	SignatureHelp             = "/signatureHelp"
	TypeLookup                = "/typelookup"
	UpdateBuffer              = "/updatebuffer"
	Metadata                  = "/metadata"
	RunFixAll                 = "/runfixall"
	GetFixAll                 = "/getfixall"
	ReAnalyze                 = "/reanalyze"
	QuickInfo                 = "/quickinfo"
	Completion                = "/completion"
	CompletionResolve         = "/completion/resolve"
	CompletionAfterInsert     = "/completion/afterInsert"
	SourceGeneratedFile       = "/sourcegeneratedfile"
	UpdateSourceGeneratedFile = "/updatesourcegeneratedfile"
	SourceGeneratedFileClosed = "/sourcegeneratedfileclosed"
	InlayHint                 = "/inlayHint"
	InlayHintResolve          = "/inlayHint/resolve"
	FileOpen                  = "/open"
	FileClose                 = "/close"
)

// Version 2 command names.
const (
	V2GetCodeActions                  = "/v2/getcodeactions"
	V2RunCodeAction                   = "/v2/runcodeaction"
	V2GetTestStartInfo                = "/v2/getteststartinfo"
	V2RunTest                         = "/v2/runtest"
	V2RunAllTestsInClass              = "/v2/runtestsinclass"
	V2RunTestsInContext               = "/v2/runtestsincontext"
	V2DebugTestGetStartInfo           = "/v2/debugtest/getstartinfo"
	V2DebugTestsInClassGetStartInfo   = "/v2/debugtestsinclass/getstartinfo"
	V2DebugTestsInContextGetStartInfo = "/v2/debugtestsincontext/getstartinfo"
	V2DebugTestLaunch                 = "/v2/debugtest/launch"
	V2DebugTestStop                   = "/v2/debugtest/stop"
	V2DiscoverTests                   = "/v2/discovertests"
	V2BlockStructure                  = "/v2/blockstructure"
	V2CodeStructure                   = "/v2/codestructure"
	V2Highlight                       = "/v2/highlight"
	V2GoToDefinition                  = "/v2/gotodefinition"
)
