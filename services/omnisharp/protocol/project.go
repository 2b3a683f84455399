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
	"path/filepath"
	"regexp"
	"strings"
)

// =============================================================================
// WORKSPACE INFORMATION
// =============================================================================

// WorkspaceInformationResponse answers /projects. Each section is present
// only when the corresponding project system is active.
type WorkspaceInformationResponse struct {
	MsBuild  *MsBuildWorkspaceInformation `json:"MsBuild,omitempty"`
	DotNet   *DotNetWorkspaceInformation  `json:"DotNet,omitempty"`
	ScriptCs *ScriptCsContext             `json:"ScriptCs,omitempty"`
	Cake     *CakeContext                 `json:"Cake,omitempty"`
}

// ProjectInformationResponse answers /project and is the body of the
// project lifecycle events.
type ProjectInformationResponse struct {
	MsBuildProject *MSBuildProject `json:"MsBuildProject"`
}

// MsBuildWorkspaceInformation describes an MSBuild solution.
type MsBuildWorkspaceInformation struct {
	SolutionPath string           `json:"SolutionPath"`
	Projects     []MSBuildProject `json:"Projects"`
}

// MSBuildProject describes one loaded project.
type MSBuildProject struct {
	ProjectGuid                   string            `json:"ProjectGuid"`
	Path                          string            `json:"Path"`
	AssemblyName                  string            `json:"AssemblyName"`
	TargetPath                    string            `json:"TargetPath"`
	TargetFramework               string            `json:"TargetFramework"`
	SourceFiles                   []string          `json:"SourceFiles"`
	TargetFrameworks              []TargetFramework `json:"TargetFrameworks"`
	OutputPath                    string            `json:"OutputPath"`
	IsExe                         bool              `json:"IsExe"`
	IsUnityProject                bool              `json:"IsUnityProject"`
	IsWebProject                  bool              `json:"IsWebProject"`
	IsBlazorWebAssemblyStandalone bool              `json:"IsBlazorWebAssemblyStandalone"`
	IsBlazorWebAssemblyHosted     bool              `json:"IsBlazorWebAssemblyHosted"`
}

// TargetFramework is one framework a project builds for.
type TargetFramework struct {
	Name         string `json:"Name"`
	FriendlyName string `json:"FriendlyName"`
	ShortName    string `json:"ShortName"`
}

// DotNetWorkspaceInformation describes a project.json workspace.
type DotNetWorkspaceInformation struct {
	Projects    []DotNetProject `json:"Projects"`
	RuntimePath string          `json:"RuntimePath"`
}

// DotNetProject is a project.json project.
type DotNetProject struct {
	Path               string                `json:"Path"`
	Name               string                `json:"Name"`
	ProjectSearchPaths []string              `json:"ProjectSearchPaths"`
	Configurations     []DotNetConfiguration `json:"Configurations"`
	Frameworks         []DotNetFramework     `json:"Frameworks"`
	SourceFiles        []string              `json:"SourceFiles"`
}

// DotNetConfiguration is a build configuration of a DotNetProject.
type DotNetConfiguration struct {
	Name                          string `json:"Name"`
	CompilationOutputPath         string `json:"CompilationOutputPath"`
	CompilationOutputAssemblyFile string `json:"CompilationOutputAssemblyFile"`
	CompilationOutputPdbFile      string `json:"CompilationOutputPdbFile"`
	EmitEntryPoint                *bool  `json:"EmitEntryPoint,omitempty"`
}

// DotNetFramework is a framework of a DotNetProject.
type DotNetFramework struct {
	Name         string `json:"Name"`
	FriendlyName string `json:"FriendlyName"`
	ShortName    string `json:"ShortName"`
}

// ScriptCsContext describes a scriptcs workspace.
type ScriptCsContext struct {
	CsxFiles    map[string]string `json:"CsxFiles"`
	References  map[string]string `json:"References"`
	Usings      map[string]string `json:"Usings"`
	ScriptPacks map[string]string `json:"ScriptPacks"`
	Path        string            `json:"Path"`
}

// CakeContext describes a Cake build script workspace.
type CakeContext struct {
	Path string `json:"Path"`
}

// =============================================================================
// TARGET FRAMEWORK CLASSIFICATION
// =============================================================================

var (
	// .NET Framework 1.x through 4.x: net20, net472, net48.
	legacyFrameworkPattern = regexp.MustCompile(`^net[1-4]`)

	// .NET 5 and later: net5.0, net6.0, and the undotted net50.
	modernFrameworkPattern = regexp.MustCompile(`^net[5-9]`)
)

const (
	netCoreAppPrefix  = "netcoreapp"
	netStandardPrefix = "netstandard"
)

// FindNetFrameworkTargetFramework returns the first legacy .NET Framework
// target of project.
func FindNetFrameworkTargetFramework(project MSBuildProject) (TargetFramework, bool) {
	for _, tf := range project.TargetFrameworks {
		if legacyFrameworkPattern.MatchString(tf.ShortName) {
			return tf, true
		}
	}
	return TargetFramework{}, false
}

// FindModernNetFrameworkTargetFramework returns the first .NET 5+ target
// of project.
//
// The server sometimes reports net50 for net5.0. The returned copy has the
// dot restored; project is not modified.
func FindModernNetFrameworkTargetFramework(project MSBuildProject) (TargetFramework, bool) {
	for _, tf := range project.TargetFrameworks {
		if !modernFrameworkPattern.MatchString(tf.ShortName) {
			continue
		}
		if len(tf.ShortName) > 4 && tf.ShortName[4] != '.' {
			tf.ShortName = tf.ShortName[:4] + "." + tf.ShortName[4:]
		}
		return tf, true
	}
	return TargetFramework{}, false
}

// FindNetCoreAppTargetFramework returns the first netcoreapp target.
func FindNetCoreAppTargetFramework(project MSBuildProject) (TargetFramework, bool) {
	return findByPrefix(project, netCoreAppPrefix)
}

// FindNetStandardTargetFramework returns the first netstandard target.
func FindNetStandardTargetFramework(project MSBuildProject) (TargetFramework, bool) {
	return findByPrefix(project, netStandardPrefix)
}

// FindNetCoreTargetFramework returns a cross-platform target: netcoreapp
// first, then .NET 5+.
func FindNetCoreTargetFramework(project MSBuildProject) (TargetFramework, bool) {
	if tf, ok := FindNetCoreAppTargetFramework(project); ok {
		return tf, true
	}
	return FindModernNetFrameworkTargetFramework(project)
}

// IsDotNetCoreProject reports whether project targets any recognised
// framework family.
func IsDotNetCoreProject(project MSBuildProject) bool {
	if _, ok := FindNetCoreTargetFramework(project); ok {
		return true
	}
	if _, ok := FindNetStandardTargetFramework(project); ok {
		return true
	}
	_, ok := FindNetFrameworkTargetFramework(project)
	return ok
}

// IsLegacyFrameworkOnly reports whether every recognised target of project
// is .NET Framework 1-4.
func IsLegacyFrameworkOnly(project MSBuildProject) bool {
	if _, ok := FindNetFrameworkTargetFramework(project); !ok {
		return false
	}
	if _, ok := FindNetCoreTargetFramework(project); ok {
		return false
	}
	_, std := FindNetStandardTargetFramework(project)
	return !std
}

// FindExecutableMSBuildProjects returns the projects that can be run on
// the cross-platform runtime: executables with a netcoreapp or .NET 5+
// target, or standalone Blazor WebAssembly apps.
func FindExecutableMSBuildProjects(projects []MSBuildProject) []MSBuildProject {
	var result []MSBuildProject
	for _, project := range projects {
		_, core := FindNetCoreTargetFramework(project)
		if project.IsExe && (core || project.IsBlazorWebAssemblyStandalone) {
			result = append(result, project)
		}
	}
	return result
}

func findByPrefix(project MSBuildProject, prefix string) (TargetFramework, bool) {
	for _, tf := range project.TargetFrameworks {
		if strings.HasPrefix(tf.ShortName, prefix) {
			return tf, true
		}
	}
	return TargetFramework{}, false
}

// =============================================================================
// PROJECT DESCRIPTORS
// =============================================================================

// ProjectDescriptor locates a project on disk.
type ProjectDescriptor struct {
	Name      string
	Directory string
	FilePath  string
}

// GetDotNetCoreProjectDescriptors lists the project.json projects and the
// MSBuild projects with a recognised target framework.
func GetDotNetCoreProjectDescriptors(info WorkspaceInformationResponse) []ProjectDescriptor {
	var result []ProjectDescriptor

	if info.DotNet != nil {
		for _, project := range info.DotNet.Projects {
			result = append(result, ProjectDescriptor{
				Name:      project.Name,
				Directory: project.Path,
				FilePath:  filepath.Join(project.Path, "project.json"),
			})
		}
	}

	if info.MsBuild != nil {
		for _, project := range info.MsBuild.Projects {
			if !IsDotNetCoreProject(project) {
				continue
			}
			result = append(result, ProjectDescriptor{
				Name:      filepath.Base(project.Path),
				Directory: filepath.Dir(project.Path),
				FilePath:  project.Path,
			})
		}
	}

	return result
}
