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

// Buffer synchronisation and project membership commands.

// UpdateBufferRequest replaces the server's copy of a file.
type UpdateBufferRequest struct {
	Request
	FromDisk *bool `json:"FromDisk,omitempty"`
}

// ChangeBufferRequest applies a single edit to the server's copy.
type ChangeBufferRequest struct {
	FileName    string `json:"FileName"`
	StartLine   int    `json:"StartLine"`
	StartColumn int    `json:"StartColumn"`
	EndLine     int    `json:"EndLine"`
	EndColumn   int    `json:"EndColumn"`
	NewText     string `json:"NewText"`
}

// FilesChangedRequest reports one file system change. /filesChanged
// takes a list of these.
type FilesChangedRequest struct {
	Request
	ChangeType FileChangeType `json:"ChangeType"`
}

// AddToProjectRequest is sent with /addtoproject.
type AddToProjectRequest struct {
	Request
}

// RemoveFromProjectRequest is sent with /removefromproject.
type RemoveFromProjectRequest struct {
	Request
}

// FileOpenRequest is sent with /open.
type FileOpenRequest struct {
	Request
}

// FileCloseRequest is sent with /close.
type FileCloseRequest struct {
	Request
}

// ReAnalyzeRequest is sent with /reanalyze. Without a context file the
// whole solution is analysed.
type ReAnalyzeRequest struct {
	CurrentOpenFilePathAsContext *string `json:"CurrentOpenFilePathAsContext,omitempty"`
}
