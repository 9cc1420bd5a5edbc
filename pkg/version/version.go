// Package version exposes build metadata injected at link time.
package version

// Build information, overridden with -ldflags "-X".
//
//nolint:gochecknoglobals // Set by the linker.
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// GetVersion returns the release version, or "dev" for local builds.
func GetVersion() string {
	return version
}

// GetGitCommit returns the commit the binary was built from.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp.
func GetBuildDate() string {
	return buildDate
}

// String renders version, commit and build date on one line.
func String() string {
	return version + " (commit " + gitCommit + ", built " + buildDate + ")"
}
