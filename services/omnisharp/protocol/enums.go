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
)

// Closed enumerations. Each rejects values outside its set when decoded,
// so a server speaking a newer dialect surfaces as an error instead of a
// silently misread field. A JSON null leaves the value unchanged.

// =============================================================================
// FILE MODIFICATION TYPE
// =============================================================================

// FileModificationType describes how a code action touched a file.
type FileModificationType int

const (
	FileModified FileModificationType = iota
	FileOpened
	FileRenamed
)

// Valid reports whether t is a known value.
func (t FileModificationType) Valid() bool {
	return t >= FileModified && t <= FileRenamed
}

func (t FileModificationType) String() string {
	switch t {
	case FileModified:
		return "Modified"
	case FileOpened:
		return "Opened"
	case FileRenamed:
		return "Renamed"
	default:
		return fmt.Sprintf("FileModificationType(%d)", int(t))
	}
}

// UnmarshalJSON decodes the numeric wire form.
func (t *FileModificationType) UnmarshalJSON(data []byte) error {
	v, ok, err := decodeIntEnum(data, "FileModificationType")
	if err != nil || !ok {
		return err
	}
	next := FileModificationType(v)
	if !next.Valid() {
		return unknownValue("FileModificationType", data)
	}
	*t = next
	return nil
}

// =============================================================================
// DIAGNOSTIC STATUS
// =============================================================================

// DiagnosticStatus is the analysis state reported for a project.
type DiagnosticStatus int

const (
	DiagnosticProcessing DiagnosticStatus = iota
	DiagnosticReady
)

// Valid reports whether s is a known value.
func (s DiagnosticStatus) Valid() bool {
	return s == DiagnosticProcessing || s == DiagnosticReady
}

func (s DiagnosticStatus) String() string {
	switch s {
	case DiagnosticProcessing:
		return "Processing"
	case DiagnosticReady:
		return "Ready"
	default:
		return fmt.Sprintf("DiagnosticStatus(%d)", int(s))
	}
}

// UnmarshalJSON decodes the numeric wire form.
func (s *DiagnosticStatus) UnmarshalJSON(data []byte) error {
	v, ok, err := decodeIntEnum(data, "DiagnosticStatus")
	if err != nil || !ok {
		return err
	}
	next := DiagnosticStatus(v)
	if !next.Valid() {
		return unknownValue("DiagnosticStatus", data)
	}
	*s = next
	return nil
}

// =============================================================================
// UPDATE TYPE
// =============================================================================

// UpdateType reports what happened to a source-generated file.
type UpdateType int

const (
	UpdateUnchanged UpdateType = iota
	UpdateDeleted
	UpdateModified
)

// Valid reports whether u is a known value.
func (u UpdateType) Valid() bool {
	return u >= UpdateUnchanged && u <= UpdateModified
}

func (u UpdateType) String() string {
	switch u {
	case UpdateUnchanged:
		return "Unchanged"
	case UpdateDeleted:
		return "Deleted"
	case UpdateModified:
		return "Modified"
	default:
		return fmt.Sprintf("UpdateType(%d)", int(u))
	}
}

// UnmarshalJSON decodes the numeric wire form.
func (u *UpdateType) UnmarshalJSON(data []byte) error {
	v, ok, err := decodeIntEnum(data, "UpdateType")
	if err != nil || !ok {
		return err
	}
	next := UpdateType(v)
	if !next.Valid() {
		return unknownValue("UpdateType", data)
	}
	*u = next
	return nil
}

// =============================================================================
// FIX-ALL SCOPE
// =============================================================================

// FixAllScope bounds a fix-all operation.
type FixAllScope string

const (
	FixAllDocument FixAllScope = "Document"
	FixAllProject  FixAllScope = "Project"
	FixAllSolution FixAllScope = "Solution"
)

// Valid reports whether s is a known value.
func (s FixAllScope) Valid() bool {
	switch s {
	case FixAllDocument, FixAllProject, FixAllSolution:
		return true
	}
	return false
}

// UnmarshalJSON decodes the string wire form.
func (s *FixAllScope) UnmarshalJSON(data []byte) error {
	v, ok, err := decodeStringEnum(data, "FixAllScope")
	if err != nil || !ok {
		return err
	}
	next := FixAllScope(v)
	if !next.Valid() {
		return unknownValue("FixAllScope", data)
	}
	*s = next
	return nil
}

// =============================================================================
// FILE CHANGE TYPE
// =============================================================================

// FileChangeType describes a file system change sent with /filesChanged.
type FileChangeType string

const (
	FileChange          FileChangeType = "Change"
	FileCreate          FileChangeType = "Create"
	FileDelete          FileChangeType = "Delete"
	FileDirectoryDelete FileChangeType = "DirectoryDelete"
)

// Valid reports whether c is a known value.
func (c FileChangeType) Valid() bool {
	switch c {
	case FileChange, FileCreate, FileDelete, FileDirectoryDelete:
		return true
	}
	return false
}

// UnmarshalJSON decodes the string wire form.
func (c *FileChangeType) UnmarshalJSON(data []byte) error {
	v, ok, err := decodeStringEnum(data, "FileChangeType")
	if err != nil || !ok {
		return err
	}
	next := FileChangeType(v)
	if !next.Valid() {
		return unknownValue("FileChangeType", data)
	}
	*c = next
	return nil
}

// =============================================================================
// TEST OUTCOME
// =============================================================================

// TestOutcome is the result of one executed test.
type TestOutcome string

const (
	TestNone     TestOutcome = "none"
	TestPassed   TestOutcome = "passed"
	TestFailed   TestOutcome = "failed"
	TestSkipped  TestOutcome = "skipped"
	TestNotFound TestOutcome = "notfound"
)

// Valid reports whether o is a known value.
func (o TestOutcome) Valid() bool {
	switch o {
	case TestNone, TestPassed, TestFailed, TestSkipped, TestNotFound:
		return true
	}
	return false
}

// UnmarshalJSON decodes the string wire form.
func (o *TestOutcome) UnmarshalJSON(data []byte) error {
	v, ok, err := decodeStringEnum(data, "TestOutcome")
	if err != nil || !ok {
		return err
	}
	next := TestOutcome(v)
	if !next.Valid() {
		return unknownValue("TestOutcome", data)
	}
	*o = next
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// decodeIntEnum returns ok=false for null.
func decodeIntEnum(data []byte, name string) (int, bool, error) {
	if string(data) == "null" {
		return 0, false, nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, false, unknownValue(name, data)
	}
	return v, true, nil
}

// decodeStringEnum returns ok=false for null.
func decodeStringEnum(data []byte, name string) (string, bool, error) {
	if string(data) == "null" {
		return "", false, nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return "", false, unknownValue(name, data)
	}
	return v, true, nil
}

func unknownValue(name string, data []byte) error {
	return fmt.Errorf("%w: %s %s", ErrUnknownEnumValue, name, data)
}
