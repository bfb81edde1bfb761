package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pipfolio/pipview/internal/config"
	"github.com/pipfolio/pipview/internal/output"
)

// configOptions holds dependencies for the config commands.
type configOptions struct {
	configPath string
	jsonMode   bool
}

func newConfigCmd(opts *configOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration",
		Long: `Show or change the configuration file.

Keys: ` + strings.Join(config.Keys(), ", ") + `

Environment variables ` + config.EnvAPIURL + ` and ` + config.EnvAccount + ` (also read from
a .env file in the working directory) override the file; flags override both.`,
	}
	cmd.AddCommand(newConfigShowCmd(opts), newConfigSetCmd(opts), newConfigPathCmd(opts))
	return cmd
}

func newConfigShowCmd(opts *configOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the configuration file contents with defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}

			formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
			if opts.jsonMode {
				return formatter.Print(cfg)
			}
			return formatter.Table([]string{"Key", "Value"}, [][]string{
				{"api_base_url", cfg.APIBaseURL},
				{"default_account", cfg.DefaultAccount},
				{"status_filter", cfg.StatusFilter},
				{"log_level", cfg.LogLevel},
				{"timeout_seconds", strconv.Itoa(cfg.TimeoutSeconds)},
			})
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func newConfigSetCmd(opts *configOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value and save the file.

Examples:
  pipview config set api_base_url http://nas.local:8000
  pipview config set default_account PEA
  pipview config set default_account ""      # all accounts
  pipview config set status_filter open`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.Save(opts.configPath, cfg); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %q\n", args[0], args[1])
			return nil
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func newConfigPathCmd(opts *configOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), opts.configPath)
			return err
		},
	}
}

func init() {
	opts := &configOptions{}
	configCmd := newConfigCmd(opts)
	configCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		opts.configPath = config.ConfigPath()
		opts.jsonMode = GetJSONMode()
	}
	rootCmd.AddCommand(configCmd)
}
