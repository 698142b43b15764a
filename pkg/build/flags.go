// SPDX-License-Identifier: MIT
//
// Package build carries build metadata (name, timestamp, commit hash and
// semantic version) embedded into the binary via -ldflags. The values are
// useful for logging and for the --version output of the CLI.
package build

type ldFlags struct {
	Name        string
	Description string
	Time        string
	Commit      string
	Version     string
}

// Package-level variables for build information. These are populated by
// -ldflags during compilation, for example:
//
//	go build -ldflags "-X sigviz/pkg/build.buildVersion=0.2.0"
//
// Development builds fall back to the defaults below.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = &ldFlags{
		Name:        "sigviz",
		Description: "Signal analysis engine and instrument tuner",
		Time:        "unknown",
		Commit:      "unknown",
		Version:     "dev",
	}
)

// Initialize copies build information from the ldflags variables into the
// buildFlags struct. Unset flags keep their development defaults, so a
// plain `go build` still produces a runnable binary.
func Initialize() {
	if buildName != "" {
		buildFlags.Name = buildName
	}
	if buildTime != "" {
		buildFlags.Time = buildTime
	}
	if buildCommit != "" {
		buildFlags.Commit = buildCommit
	}
	if buildVersion != "" {
		buildFlags.Version = buildVersion
	}
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *ldFlags {
	return buildFlags
}
