// ============================================================================
// schedclients - Fleet Scheduler Client Library
// ============================================================================
//
// Package:     version
// Description: Central version management for the library and its tools
// Created:     2026-03-02
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants
const (
	// Library version
	Library = "1.0.0"

	// Tool versions
	Schedctl = "1.0.0"
	Schedsim = "1.0.0"
)

// Build metadata, set with -ldflags "-X github.com/msto63/schedclients/pkg/core/version.Commit=..."
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// ToolVersion returns the version for a given tool name
func ToolVersion(name string) string {
	switch name {
	case "schedctl":
		return Schedctl
	case "schedsim":
		return Schedsim
	default:
		return Library
	}
}

// BuildInfo describes the running binary
type BuildInfo struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Library   string `json:"library"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
}

// Info returns build information for a tool
func Info(tool string) BuildInfo {
	return BuildInfo{
		Tool:      tool,
		Version:   ToolVersion(tool),
		Library:   Library,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

// String formats the build information on one line
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s %s (library %s, commit %s, built %s, %s)",
		b.Tool, b.Version, b.Library, b.Commit, b.BuildDate, b.GoVersion)
}
