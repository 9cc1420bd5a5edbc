package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/finquery/internal/config"
)

// NewConfigGetCmd creates the config get command.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the effective value of a configuration key",
		Example: `  finquery config get cache.capacity
  finquery config get dataset.path`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := config.GetGlobalConfig().Get(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
			return err
		},
	}
}

// NewConfigSetCmd creates the config set command. It edits the global config
// file only; project overlays and environment variables are not written back.
func NewConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set <key> <value>",
		Short:   "Set a value in the global configuration file",
		Example: `  finquery config set cache.capacity 10`,
		Args:    cobra.ExactArgs(2), //nolint:mnd // key and value
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadGlobalConfigFile()
			if err != nil {
				return err
			}
			if err = cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err = cfg.Validate(); err != nil {
				return fmt.Errorf("refusing to save: %w", err)
			}
			if err = cfg.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			cmd.Printf("Set %s = %s\n", args[0], args[1])
			return nil
		},
	}
}

// NewConfigListCmd creates the config list command.
func NewConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every configuration key with its effective value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			values := make(map[string]string, len(config.Keys()))
			for _, key := range config.Keys() {
				v, err := cfg.Get(key)
				if err != nil {
					return err
				}
				values[key] = v
			}

			if format, _ := cmd.Flags().GetString(flagOutput); format == config.OutputFormatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(values)
			}

			out := cmd.OutOrStdout()
			for _, key := range config.Keys() {
				if _, err := fmt.Fprintf(out, "%s = %s\n", key, values[key]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// loadGlobalConfigFile reads the global config file without environment or
// project overrides, falling back to defaults when it does not exist yet.
func loadGlobalConfigFile() (*config.Config, error) {
	path, err := config.GetGlobalConfigPath()
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		cfg := config.Default()
		cfg.SetConfigPath(path)
		return cfg, nil
	}
	return config.Load(path)
}
