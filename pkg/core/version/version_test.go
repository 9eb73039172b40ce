package version

import (
	"regexp"
	"runtime"
	"strings"
	"testing"
)

// semverRegex validates semantic versioning format
var semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func TestVersionConstants(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{"Library", Library},
		{"Schedctl", Schedctl},
		{"Schedsim", Schedsim},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !semverRegex.MatchString(tt.version) {
				t.Errorf("%s version %q does not match semver format (x.y.z)", tt.name, tt.version)
			}
		})
	}
}

func TestToolVersion(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		expected string
	}{
		{"schedctl", "schedctl", Schedctl},
		{"schedsim", "schedsim", Schedsim},
		{"unknown tool", "unknown", Library},
		{"empty tool", "", Library},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToolVersion(tt.tool)
			if result != tt.expected {
				t.Errorf("ToolVersion(%q) = %q, want %q", tt.tool, result, tt.expected)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	info := Info("schedctl")

	if info.Version != Schedctl {
		t.Errorf("Version = %q, want %q", info.Version, Schedctl)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if !strings.HasPrefix(info.String(), "schedctl "+Schedctl) {
		t.Errorf("String() = %q, want prefix %q", info.String(), "schedctl "+Schedctl)
	}
}
