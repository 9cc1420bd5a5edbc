package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/finquery/internal/config"
	"github.com/rshade/finquery/internal/logging"
)

// setupLogging configures logging based on config file, environment, and CLI flags.
func setupLogging(cmd *cobra.Command) logging.LogPathResult {
	loggingCfg := config.GetLoggingConfig()

	debug, _ := cmd.Flags().GetBool(flagDebug)
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}

	// Ensure log directory exists after all overrides have been applied.
	if loggingCfg.File != "" {
		if err := config.EnsureLogDir(); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
		}
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	// The context carries the untagged logger so each package adds its own
	// component exactly once.
	base := result.Logger.With().Str(logging.TraceIDField, traceID).Logger()
	ctx = base.WithContext(ctx)
	cmd.SetContext(ctx)

	logger = cliLogger(ctx)
	logger.Debug().Str("command", cmd.Name()).Msg("command started")

	return result
}

// cliLogger returns the context logger tagged with the cli component.
func cliLogger(ctx context.Context) zerolog.Logger {
	return logging.ComponentLogger(*logging.FromContext(ctx), "cli")
}

// cleanupLogging closes the log file handle.
func cleanupLogging(_ *cobra.Command, logResult *logging.LogPathResult) error {
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}
