package config

import (
	"os"
	"path/filepath"
	"sync"
)

// projectDirName is the per-project configuration directory.
const projectDirName = ".finquery"

// resolvedProjectDir holds the resolved project directory path for use
// by other config functions during the lifetime of a CLI invocation.
var (
	resolvedProjectDir   string       //nolint:gochecknoglobals // Set once at startup, read by config loaders
	resolvedProjectDirMu sync.RWMutex //nolint:gochecknoglobals // Protects resolvedProjectDir
)

// SetResolvedProjectDir stores the resolved project directory for use by other config functions.
func SetResolvedProjectDir(dir string) {
	resolvedProjectDirMu.Lock()
	defer resolvedProjectDirMu.Unlock()
	resolvedProjectDir = dir
}

// GetResolvedProjectDir returns the stored resolved project directory.
func GetResolvedProjectDir() string {
	resolvedProjectDirMu.RLock()
	defer resolvedProjectDirMu.RUnlock()
	return resolvedProjectDir
}

// ResolveProjectDir determines the project-local .finquery directory path.
// It checks (in order):
//  1. flagValue (--project-dir CLI flag)
//  2. FINQUERY_PROJECT_DIR env var
//  3. a .finquery directory in startDir
//
// Returns an absolute path, or "" if no project directory applies.
// Does NOT create the directory.
func ResolveProjectDir(flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsProjectDir(flagValue)
	}

	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbsProjectDir(envDir)
	}

	if startDir == "" {
		return ""
	}
	candidate := toAbsProjectDir(startDir)
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		return candidate
	}
	return ""
}

// NewWithProjectDir creates a Config by loading global config then
// shallow-merging project-local config on top. If projectDir is empty,
// behaves identically to New().
func NewWithProjectDir(projectDir string) *Config {
	cfg := New()

	if projectDir == "" {
		return cfg
	}

	overlayPath := filepath.Join(projectDir, configFileName)
	if _, err := os.Stat(overlayPath); err != nil {
		// Missing project config is not an error; use global defaults.
		return cfg
	}

	merged := New()
	if err := ShallowMergeYAML(merged, overlayPath); err != nil {
		return cfg
	}
	// Environment still wins over the project file.
	merged.ApplyEnvOverrides()
	return merged
}

// toAbsProjectDir converts dir to an absolute path and appends ".finquery"
// unless it already ends with it.
func toAbsProjectDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}

	if filepath.Base(abs) == projectDirName {
		return abs
	}
	return filepath.Join(abs, projectDirName)
}
