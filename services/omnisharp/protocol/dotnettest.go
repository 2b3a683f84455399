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

// Unit test discovery, execution and debugging (the /v2 test endpoints).

// BaseTestRequest carries the settings common to test commands.
type BaseTestRequest struct {
	Request
	RunSettings            string `json:"RunSettings"`
	TestFrameworkName      string `json:"TestFrameworkName"`
	TargetFrameworkVersion string `json:"TargetFrameworkVersion"`
	NoBuild                *bool  `json:"NoBuild,omitempty"`
}

// SingleTestRequest targets one test method.
type SingleTestRequest struct {
	BaseTestRequest
	MethodName string `json:"MethodName"`
}

// MultiTestRequest targets several test methods.
type MultiTestRequest struct {
	BaseTestRequest
	MethodNames []string `json:"MethodNames"`
}

// TestsInContextRequest targets the tests around a position.
type TestsInContextRequest struct {
	Request
	RunSettings            *string `json:"RunSettings,omitempty"`
	TargetFrameworkVersion *string `json:"TargetFrameworkVersion,omitempty"`
}

// GetTestStartInfoRequest is sent with /v2/getteststartinfo.
type GetTestStartInfoRequest struct{ SingleTestRequest }

// GetTestStartInfoResponse answers /v2/getteststartinfo.
type GetTestStartInfoResponse struct {
	Executable       string `json:"Executable"`
	Argument         string `json:"Argument"`
	WorkingDirectory string `json:"WorkingDirectory"`
}

// RunTestRequest is sent with /v2/runtest.
type RunTestRequest struct{ SingleTestRequest }

// RunTestsInClassRequest is sent with /v2/runtestsinclass.
type RunTestsInClassRequest struct{ MultiTestRequest }

// RunTestsInContextRequest is sent with /v2/runtestsincontext.
type RunTestsInContextRequest struct{ TestsInContextRequest }

// DotNetTestResult is the result of one test method.
type DotNetTestResult struct {
	MethodName      string      `json:"MethodName"`
	Outcome         TestOutcome `json:"Outcome"`
	ErrorMessage    string      `json:"ErrorMessage"`
	ErrorStackTrace string      `json:"ErrorStackTrace"`
	StandardOutput  []string    `json:"StandardOutput"`
	StandardError   []string    `json:"StandardError"`
}

// RunTestResponse answers the run-test commands.
type RunTestResponse struct {
	Failure           string             `json:"Failure"`
	Pass              bool               `json:"Pass"`
	Results           []DotNetTestResult `json:"Results"`
	ContextHadNoTests bool               `json:"ContextHadNoTests"`
}

// DebugTestGetStartInfoRequest is sent with /v2/debugtest/getstartinfo.
type DebugTestGetStartInfoRequest struct{ SingleTestRequest }

// DebugTestClassGetStartInfoRequest is sent with
// /v2/debugtestsinclass/getstartinfo.
type DebugTestClassGetStartInfoRequest struct{ MultiTestRequest }

// DebugTestsInContextGetStartInfoRequest is sent with
// /v2/debugtestsincontext/getstartinfo.
type DebugTestsInContextGetStartInfoRequest struct{ TestsInContextRequest }

// DebugTestGetStartInfoResponse describes the process to attach to.
type DebugTestGetStartInfoResponse struct {
	FileName             string            `json:"FileName"`
	Arguments            string            `json:"Arguments"`
	WorkingDirectory     string            `json:"WorkingDirectory"`
	EnvironmentVariables map[string]string `json:"EnvironmentVariables"`
	Succeeded            bool              `json:"Succeeded"`
	ContextHadNoTests    bool              `json:"ContextHadNoTests"`
	FailureReason        *string           `json:"FailureReason,omitempty"`
}

// DebugTestLaunchRequest is sent with /v2/debugtest/launch.
type DebugTestLaunchRequest struct {
	Request
	TargetProcessID int `json:"TargetProcessId"`
}

// DebugTestLaunchResponse answers /v2/debugtest/launch.
type DebugTestLaunchResponse struct{}

// DebugTestStopRequest is sent with /v2/debugtest/stop.
type DebugTestStopRequest struct{ Request }

// DebugTestStopResponse answers /v2/debugtest/stop.
type DebugTestStopResponse struct{}

// DiscoverTestsRequest is sent with /v2/discovertests.
type DiscoverTestsRequest struct{ BaseTestRequest }

// TestInfo describes a discovered test.
type TestInfo struct {
	FullyQualifiedName string `json:"FullyQualifiedName"`
	DisplayName        string `json:"DisplayName"`
	Source             string `json:"Source"`
	CodeFilePath       string `json:"CodeFilePath"`
	LineNumber         int    `json:"LineNumber"`
}

// DiscoverTestsResponse answers /v2/discovertests.
type DiscoverTestsResponse struct {
	Tests []TestInfo `json:"Tests"`
}
