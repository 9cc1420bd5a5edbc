package config

import (
	"github.com/rshade/finquery/internal/logging"
)

// ToLoggingConfig converts config.LoggingConfig to logging.Config for use with
// the internal/logging package.
//
// The conversion applies these rules:
//   - Level, Format are copied directly
//   - If File is set, Output becomes "file" and File is passed through
//   - If File is empty, Output defaults to "stderr"
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = outputTypeFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// GetLoggingConfig returns a copy of the Logging section of the global configuration.
// Flag overrides such as --debug are applied by the caller.
func GetLoggingConfig() LoggingConfig {
	return GetGlobalConfig().Logging
}
