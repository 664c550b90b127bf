package version

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the released version.
// Override at build time:
//
//	go build -ldflags "-X github.com/hrygo/travelmate/internal/version.Version=0.3.0"
var Version = "0.0.0-dev"

// GitCommit is the git commit hash at build time.
var GitCommit = "unknown"

// BuildTime is the build timestamp in RFC3339 format.
var BuildTime = "unknown"

// IsRelease reports whether Version is a valid semantic version without a prerelease suffix.
func IsRelease() bool {
	v := "v" + Version
	return semver.IsValid(v) && semver.Prerelease(v) == ""
}

// GetCurrentVersion returns the version to report for mode.
// Non-release builds always report as dev in dev mode.
func GetCurrentVersion(mode string) string {
	if mode == "dev" && !IsRelease() {
		return Version + "+dev"
	}
	return Version
}

// String returns the version string with optional short commit hash.
func String() string {
	if commit := shortCommit(); commit != "" {
		return fmt.Sprintf("%s-%s", Version, commit)
	}
	return Version
}

// StringFull returns the complete version information including build metadata.
func StringFull() string {
	parts := []string{fmt.Sprintf("Version=%s", Version)}
	if commit := shortCommit(); commit != "" {
		parts = append(parts, fmt.Sprintf("Commit=%s", commit))
	}
	if BuildTime != "" && BuildTime != "unknown" {
		parts = append(parts, fmt.Sprintf("BuildTime=%s", BuildTime))
	}
	if !IsRelease() {
		parts = append(parts, "Release=false")
	}
	return strings.Join(parts, " ")
}

func shortCommit() string {
	if GitCommit == "" || GitCommit == "unknown" {
		return ""
	}
	if len(GitCommit) > 8 {
		return GitCommit[:8]
	}
	return GitCommit
}
