package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/finquery/internal/config"
	"github.com/rshade/finquery/internal/logging"
)

// Persistent flag names shared by every subcommand.
const (
	flagDebug      = "debug"
	flagDataset    = "dataset"
	flagCacheSize  = "cache-size"
	flagOutput     = "output"
	flagProjectDir = "project-dir"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the finquery CLI.
// It wires up logging, tracing, project config resolution and the query,
// interactive and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:   "finquery",
		Short: "Ask questions about client financial records",
		Long: `finquery answers natural-language questions about client account balances
and transactions. Answers are memoized in a bounded LRU cache; repeated
questions are served from the cache and marked as cache hits.`,
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Must run before anything reads the global config.
			projectFlag, _ := cmd.Flags().GetString(flagProjectDir)
			cwd, _ := os.Getwd()
			config.SetResolvedProjectDir(config.ResolveProjectDir(projectFlag, cwd))

			cacheSize, _ := cmd.Flags().GetInt(flagCacheSize)
			if cmd.Flags().Changed(flagCacheSize) && cacheSize <= 0 {
				return fmt.Errorf("cache-size must be > 0, got %d", cacheSize)
			}

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool(flagDebug, false, "enable debug logging")
	cmd.PersistentFlags().String(flagDataset, "", "dataset file (overrides config dataset.path)")
	cmd.PersistentFlags().Int(flagCacheSize, 0, "query cache capacity (overrides config cache.capacity)")
	cmd.PersistentFlags().StringP(flagOutput, "o", "", "output format: text or json (overrides config)")
	cmd.PersistentFlags().String(flagProjectDir, "", "project directory holding .finquery/config.yaml")

	cmd.AddCommand(
		NewAskCmd(), NewReplCmd(), NewReplayCmd(),
		NewBalanceCmd(), NewTransactionsCmd(), NewCategoryCmd(), NewAverageCmd(),
		newConfigCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Ask a single question
  finquery ask "What is the balance for client C001 in year 2023?"

  # Start the interactive prompt
  finquery repl

  # Run a file of questions through one shared cache
  finquery replay questions.txt

  # Query directly without prompt parsing
  finquery balance --client C001 --year 2023
  finquery category "office supplies" --output json

  # Initialize configuration
  finquery config init`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}
