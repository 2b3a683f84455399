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

// Event names sent by the server.
const (
	EventStarted                    = "started"
	EventLog                        = "log"
	EventProjectAdded               = "ProjectAdded"
	EventProjectChanged             = "ProjectChanged"
	EventProjectRemoved             = "ProjectRemoved"
	EventProjectConfiguration       = "ProjectConfiguration"
	EventProjectDiagnosticStatus    = "ProjectDiagnosticStatus"
	EventBackgroundDiagnosticStatus = "BackgroundDiagnosticStatus"
	EventDiagnostic                 = "Diagnostic"
	EventMsBuildProjectDiagnostics  = "MsBuildProjectDiagnostics"
	EventPackageRestoreStarted      = "PackageRestoreStarted"
	EventPackageRestoreFinished     = "PackageRestoreFinished"
	EventUnresolvedDependencies     = "UnresolvedDependencies"
	EventError                      = "Error"
	EventTestMessage                = "TestMessage"
)

// LogMessage is the body of a log event.
type LogMessage struct {
	LogLevel string `json:"LogLevel"`
	Name     string `json:"Name"`
	Message  string `json:"Message"`
}

// DiagnosticResult groups diagnostics for one file.
type DiagnosticResult struct {
	FileName   string     `json:"FileName"`
	QuickFixes []QuickFix `json:"QuickFixes"`
}

// DiagnosticMessage is the body of a Diagnostic event.
type DiagnosticMessage struct {
	Results []DiagnosticResult `json:"Results"`
}

// ProjectDiagnosticStatus is the body of a ProjectDiagnosticStatus event.
// Type is always "background".
type ProjectDiagnosticStatus struct {
	Status          DiagnosticStatus `json:"Status"`
	ProjectFilePath string           `json:"ProjectFilePath"`
	Type            string           `json:"Type"`
}

// BackgroundDiagnosticStatusMessage reports solution-wide analysis
// progress.
type BackgroundDiagnosticStatusMessage struct {
	Status               int `json:"Status"`
	NumberProjects       int `json:"NumberProjects"`
	NumberFilesTotal     int `json:"NumberFilesTotal"`
	NumberFilesRemaining int `json:"NumberFilesRemaining"`
}

// MSBuildProjectDiagnostics is the body of a MsBuildProjectDiagnostics
// event.
type MSBuildProjectDiagnostics struct {
	FileName string                      `json:"FileName"`
	Warnings []MSBuildDiagnosticsMessage `json:"Warnings"`
	Errors   []MSBuildDiagnosticsMessage `json:"Errors"`
}

// MSBuildDiagnosticsMessage is one MSBuild warning or error.
type MSBuildDiagnosticsMessage struct {
	LogLevel    string `json:"LogLevel"`
	FileName    string `json:"FileName"`
	Text        string `json:"Text"`
	StartLine   int    `json:"StartLine"`
	StartColumn int    `json:"StartColumn"`
	EndLine     int    `json:"EndLine"`
	EndColumn   int    `json:"EndColumn"`
}

// ErrorMessage is the body of an Error event.
type ErrorMessage struct {
	Text     string `json:"Text"`
	FileName string `json:"FileName"`
	Line     int    `json:"Line"`
	Column   int    `json:"Column"`
}

// PackageRestoreMessage is the body of the package restore events.
type PackageRestoreMessage struct {
	FileName  string `json:"FileName"`
	Succeeded bool   `json:"Succeeded"`
}

// UnresolvedDependenciesMessage is the body of an UnresolvedDependencies
// event.
type UnresolvedDependenciesMessage struct {
	FileName               string              `json:"FileName"`
	UnresolvedDependencies []PackageDependency `json:"UnresolvedDependencies"`
}

// PackageDependency names a NuGet package.
type PackageDependency struct {
	Name    string `json:"Name"`
	Version string `json:"Version"`
}

// ProjectConfigurationMessage is the body of a ProjectConfiguration event.
type ProjectConfigurationMessage struct {
	ProjectID           string   `json:"ProjectId"`
	SessionID           string   `json:"SessionId"`
	OutputKind          int      `json:"OutputKind"`
	ProjectCapabilities []string `json:"ProjectCapabilities"`
	TargetFrameworks    []string `json:"TargetFrameworks"`
	References          []string `json:"References"`
	FileExtensions      []string `json:"FileExtensions"`
	FileCounts          []int    `json:"FileCounts"`
}

// TestMessageEvent is the body of a TestMessage event.
type TestMessageEvent struct {
	MessageLevel string `json:"MessageLevel"`
	Message      string `json:"Message"`
}
