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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func project(shortNames ...string) MSBuildProject {
	p := MSBuildProject{Path: filepath.Join("src", "App", "App.csproj")}
	for _, n := range shortNames {
		p.TargetFrameworks = append(p.TargetFrameworks, TargetFramework{ShortName: n})
	}
	return p
}

func TestClassification_MixedTargets(t *testing.T) {
	p := project("net48", "netcoreapp3.1")

	tf, ok := FindNetCoreTargetFramework(p)
	require.True(t, ok)
	assert.Equal(t, "netcoreapp3.1", tf.ShortName)
	assert.False(t, IsLegacyFrameworkOnly(p))
	assert.True(t, IsDotNetCoreProject(p))
}

func TestClassification_LegacyOnly(t *testing.T) {
	p := project("net472")

	_, core := FindNetCoreTargetFramework(p)
	assert.False(t, core)
	tf, ok := FindNetFrameworkTargetFramework(p)
	require.True(t, ok)
	assert.Equal(t, "net472", tf.ShortName)
	assert.True(t, IsLegacyFrameworkOnly(p))
}

func TestFindModernNetFrameworkTargetFramework(t *testing.T) {
	tests := []struct {
		short string
		want  string
		found bool
	}{
		{"net50", "net5.0", true},
		{"net5.0", "net5.0", true},
		{"net60", "net6.0", true},
		{"net8.0-windows", "net8.0-windows", true},
		{"net5", "net5", true},
		{"net48", "", false},
		{"netcoreapp3.1", "", false},
		{"netstandard2.0", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.short, func(t *testing.T) {
			p := project(tt.short)
			tf, ok := FindModernNetFrameworkTargetFramework(p)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, tf.ShortName)
			assert.Equal(t, tt.short, p.TargetFrameworks[0].ShortName, "input must not be mutated")
		})
	}
}

func TestFindNetCoreTargetFramework_PrefersCoreApp(t *testing.T) {
	tf, ok := FindNetCoreTargetFramework(project("net50", "netcoreapp3.1"))
	require.True(t, ok)
	assert.Equal(t, "netcoreapp3.1", tf.ShortName)

	tf, ok = FindNetCoreTargetFramework(project("net48", "net60"))
	require.True(t, ok)
	assert.Equal(t, "net6.0", tf.ShortName)
}

func TestIsDotNetCoreProject(t *testing.T) {
	assert.True(t, IsDotNetCoreProject(project("netstandard2.0")))
	assert.True(t, IsDotNetCoreProject(project("net472")))
	assert.False(t, IsDotNetCoreProject(project("uap10.0")))
	assert.False(t, IsDotNetCoreProject(project()))
	assert.False(t, IsLegacyFrameworkOnly(project("net472", "netstandard2.0")))
}

func TestFindExecutableMSBuildProjects(t *testing.T) {
	exeCore := project("netcoreapp3.1")
	exeCore.IsExe = true
	exeModern := project("net6.0")
	exeModern.IsExe = true
	exeLegacy := project("net48")
	exeLegacy.IsExe = true
	libCore := project("net6.0")
	wasm := project("netstandard2.1")
	wasm.IsExe = true
	wasm.IsBlazorWebAssemblyStandalone = true
	wasmLib := project("netstandard2.1")
	wasmLib.IsBlazorWebAssemblyStandalone = true

	got := FindExecutableMSBuildProjects([]MSBuildProject{exeCore, exeModern, exeLegacy, libCore, wasm, wasmLib})

	require.Len(t, got, 3)
	assert.Equal(t, "netcoreapp3.1", got[0].TargetFrameworks[0].ShortName)
	assert.Equal(t, "net6.0", got[1].TargetFrameworks[0].ShortName)
	assert.True(t, got[2].IsBlazorWebAssemblyStandalone)
}

func TestGetDotNetCoreProjectDescriptors(t *testing.T) {
	csproj := filepath.Join("work", "App", "App.csproj")
	info := WorkspaceInformationResponse{
		DotNet: &DotNetWorkspaceInformation{
			Projects: []DotNetProject{{Name: "Legacy", Path: filepath.Join("work", "Legacy")}},
		},
		MsBuild: &MsBuildWorkspaceInformation{
			Projects: []MSBuildProject{
				{Path: csproj, TargetFrameworks: []TargetFramework{{ShortName: "net6.0"}}},
				{Path: filepath.Join("work", "Uwp", "Uwp.csproj"), TargetFrameworks: []TargetFramework{{ShortName: "uap10.0"}}},
			},
		},
	}

	got := GetDotNetCoreProjectDescriptors(info)

	require.Len(t, got, 2)
	assert.Equal(t, ProjectDescriptor{
		Name:      "Legacy",
		Directory: filepath.Join("work", "Legacy"),
		FilePath:  filepath.Join("work", "Legacy", "project.json"),
	}, got[0])
	assert.Equal(t, ProjectDescriptor{
		Name:      "App.csproj",
		Directory: filepath.Join("work", "App"),
		FilePath:  csproj,
	}, got[1])

	assert.Empty(t, GetDotNetCoreProjectDescriptors(WorkspaceInformationResponse{}))
}

func TestWalkCodeElements(t *testing.T) {
	elements := []CodeElement{
		{Name: "N", Kind: SymbolKindNamespace, Children: []CodeElement{
			{Name: "C", Kind: SymbolKindClass, Children: []CodeElement{
				{Name: "M", Kind: SymbolKindMethod},
			}},
		}},
		{Name: "E", Kind: SymbolKindEnum},
	}

	var order []string
	parents := map[string]string{}
	WalkCodeElements(elements, func(element, parent *CodeElement) {
		order = append(order, element.Name)
		if parent != nil {
			parents[element.Name] = parent.Name
		}
	})

	assert.Equal(t, []string{"N", "C", "M", "E"}, order)
	assert.Equal(t, map[string]string{"C": "N", "M": "C"}, parents)
}

func TestCodeElement_Property(t *testing.T) {
	var e CodeElement
	require.NoError(t, json.Unmarshal([]byte(`{"Kind":"method","Name":"M","DisplayName":"M()","Ranges":{},"Properties":{"accessibility":"public","static":true}}`), &e))

	var access string
	assert.True(t, e.Property(SymbolPropertyAccessibility, &access))
	assert.Equal(t, AccessibilityPublic, access)

	var static bool
	assert.True(t, e.Property(SymbolPropertyStatic, &static))
	assert.True(t, static)

	assert.False(t, e.Property(SymbolPropertyTestFramework, &access))
}
