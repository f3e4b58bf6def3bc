// Package version provides build and version information for rtxswitch.
package version

import (
	"fmt"
	"runtime"

	"github.com/Aman-CERP/rtxswitch/internal/nvapi"
)

// Version is the current version of rtxswitch.
// Set via ldflags at build time, or defaults to dev:
// -X github.com/Aman-CERP/rtxswitch/pkg/version.Version=$(VERSION)
var Version = "dev"

// Build information set via ldflags at build time.
var (
	// Commit is the git commit hash.
	Commit = "unknown"

	// Date is the build date in RFC3339 format.
	Date = "unknown"

	// GoVersion is the Go version used to build the binary (set at runtime).
	GoVersion = runtime.Version()
)

// BuildInfo is structured version information for JSON output.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Library   string `json:"library"`
}

// String returns a formatted version string with all build info.
func String() string {
	return fmt.Sprintf("rtxswitch %s (commit: %s, built: %s, go: %s)",
		Version, Commit, Date, GoVersion)
}

// Short returns just the version string.
func Short() string {
	return Version
}

// GetInfo returns structured version information. Library is the NVAPI
// library name loaded on this platform, empty where NVAPI is unsupported.
func GetInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		Library:   nvapi.DefaultLibrary,
	}
}
