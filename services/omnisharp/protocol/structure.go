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

import "encoding/json"

// =============================================================================
// BLOCK STRUCTURE
// =============================================================================

// BlockStructureRequest is sent with /v2/blockstructure.
type BlockStructureRequest struct {
	FileName string `json:"FileName"`
}

// CodeFoldingBlock is a foldable region.
type CodeFoldingBlock struct {
	Range Range  `json:"Range"`
	Kind  string `json:"Kind"`
}

// BlockStructureResponse answers /v2/blockstructure.
type BlockStructureResponse struct {
	Spans []CodeFoldingBlock `json:"Spans"`
}

// =============================================================================
// CODE STRUCTURE
// =============================================================================

// Symbol kinds reported in CodeElement.Kind.
const (
	SymbolKindClass     = "class"
	SymbolKindDelegate  = "delegate"
	SymbolKindEnum      = "enum"
	SymbolKindInterface = "interface"
	SymbolKindStruct    = "struct"

	SymbolKindConstant    = "constant"
	SymbolKindConstructor = "constructor"
	SymbolKindDestructor  = "destructor"
	SymbolKindEnumMember  = "enummember"
	SymbolKindEvent       = "event"
	SymbolKindField       = "field"
	SymbolKindIndexer     = "indexer"
	SymbolKindMethod      = "method"
	SymbolKindOperator    = "operator"
	SymbolKindProperty    = "property"

	SymbolKindNamespace = "namespace"
	SymbolKindUnknown   = "unknown"
)

// Accessibility values stored under SymbolPropertyAccessibility.
const (
	AccessibilityInternal          = "internal"
	AccessibilityPrivate           = "private"
	AccessibilityPrivateProtected  = "private protected"
	AccessibilityProtected         = "protected"
	AccessibilityProtectedInternal = "protected internal"
	AccessibilityPublic            = "public"
)

// Keys of CodeElement.Properties.
const (
	SymbolPropertyAccessibility  = "accessibility"
	SymbolPropertyStatic         = "static"
	SymbolPropertyTestFramework  = "testFramework"
	SymbolPropertyTestMethodName = "testMethodName"
)

// Keys of CodeElement.Ranges.
const (
	SymbolRangeAttributes = "attributes"
	SymbolRangeFull       = "full"
	SymbolRangeName       = "name"
)

// CodeElement is a node of the code structure tree.
type CodeElement struct {
	Kind        string                     `json:"Kind"`
	Name        string                     `json:"Name"`
	DisplayName string                     `json:"DisplayName"`
	Children    []CodeElement              `json:"Children,omitempty"`
	Ranges      map[string]Range           `json:"Ranges"`
	Properties  map[string]json.RawMessage `json:"Properties,omitempty"`
}

// Property decodes the named property into out. It reports false when
// the property is absent or does not decode.
func (e *CodeElement) Property(name string, out any) bool {
	raw, ok := e.Properties[name]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

// CodeStructureRequest is sent with /v2/codestructure.
type CodeStructureRequest struct {
	FileBasedRequest
}

// CodeStructureResponse answers /v2/codestructure.
type CodeStructureResponse struct {
	Elements []CodeElement `json:"Elements,omitempty"`
}

// WalkCodeElements visits elements depth first, parents before children.
// parent is nil for top-level elements.
func WalkCodeElements(elements []CodeElement, visit func(element, parent *CodeElement)) {
	walkCodeElements(elements, nil, visit)
}

func walkCodeElements(elements []CodeElement, parent *CodeElement, visit func(element, parent *CodeElement)) {
	for i := range elements {
		element := &elements[i]
		visit(element, parent)
		if len(element.Children) > 0 {
			walkCodeElements(element.Children, element, visit)
		}
	}
}
