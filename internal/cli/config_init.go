package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/finquery/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
// When a project directory has been resolved (and --global is not set), it
// writes the project-local .finquery/config.yaml. Otherwise it writes the
// global ~/.finquery/config.yaml.
func NewConfigInitCmd() *cobra.Command {
	var (
		force  bool
		global bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

When a project directory is in effect (--project-dir, FINQUERY_PROJECT_DIR or
a .finquery directory in the working directory), the file is written to
$PROJECT/.finquery/config.yaml. Use --global to write ~/.finquery/config.yaml
instead.`,
		Example: `  # Create configuration
  finquery config init

  # Create global configuration even inside a project
  finquery config init --global

  # Create configuration, overwriting existing
  finquery config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projectDir := config.GetResolvedProjectDir()

			if projectDir != "" && !global {
				return initProjectConfig(cmd, projectDir, force)
			}

			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&global, "global", false, "force global configuration init even inside a project")

	return cmd
}

// checkWritable refuses to overwrite an existing file unless force is set.
func checkWritable(path string, force bool) error {
	if force {
		return nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return errors.New("configuration file already exists, use --force to overwrite")
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access config path %s: %w", path, err)
	}
	return nil
}

// initProjectConfig creates project-local config at projectDir/config.yaml.
func initProjectConfig(cmd *cobra.Command, projectDir string, force bool) error {
	configPath := filepath.Join(projectDir, "config.yaml")
	if err := checkWritable(configPath, force); err != nil {
		return err
	}

	cfg := config.Default()
	cfg.SetConfigPath(configPath)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", configPath)
	return nil
}

// initGlobalConfig creates global config at ~/.finquery/config.yaml.
func initGlobalConfig(cmd *cobra.Command, force bool) error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path, err := config.GetGlobalConfigPath()
	if err != nil {
		return err
	}
	if err = checkWritable(path, force); err != nil {
		return err
	}

	cfg := config.Default()
	cfg.SetConfigPath(path)
	if err = cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", path)

	return nil
}
