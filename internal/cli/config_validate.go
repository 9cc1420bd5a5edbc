package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/finquery/internal/config"
	"github.com/rshade/finquery/internal/dataset"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Long: `Validates the effective configuration (global file, project overlay and
environment) and checks that the configured dataset can be loaded.`,
		Example: `  # Validate current configuration
  finquery config validate

  # Validate and show detailed information
  finquery config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	ds, err := dataset.LoadWithContext(cmd.Context(), cfg.Dataset.Path)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg, ds)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config, ds *dataset.Dataset) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.ConfigPath())
	if dir := config.GetResolvedProjectDir(); dir != "" {
		cmd.Printf("  Project directory: %s\n", dir)
	}
	cmd.Printf("  Cache capacity: %d\n", cfg.Cache.Capacity)
	cmd.Printf("  Dataset: %s (%d clients, %d transactions)\n",
		cfg.Dataset.Path, ds.Len(), ds.TransactionCount())
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Output precision: %d\n", cfg.Output.Precision)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	if cfg.Logging.File != "" {
		cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	}
}
