package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pipfolio/pipview/internal/config"
	"github.com/pipfolio/pipview/pkg/pipapi"
)

var Version = "dev"

// jsonOutput controls whether output is formatted as JSON
var jsonOutput bool

var (
	baseURLFlag  string
	accountFlag  string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "pipview",
	Short: "Portfolio Insight Platform viewer",
	Long: `A terminal viewer for a Portfolio Insight Platform backend.

Lists accounts, instruments, positions, trades and transactions, filtered
by a shared account selection and a free-text search, and offers the same
pages in an interactive terminal UI.`,
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "Backend base URL (default from config, "+config.EnvAPIURL+" or "+config.DefaultAPIBaseURL+")")
	rootCmd.PersistentFlags().StringVar(&accountFlag, "account", "", "Account name to filter by; empty for all accounts")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn or error")
}

// GetJSONMode returns whether JSON output mode is enabled.
func GetJSONMode() bool {
	return jsonOutput
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// pageOptions holds what every command talking to the backend needs.
type pageOptions struct {
	baseURL  string
	account  string
	status   string
	timeout  time.Duration
	jsonMode bool
	logger   *slog.Logger
}

// client builds an API client from opts.
func (o pageOptions) client() *pipapi.Client {
	return pipapi.NewClient(o.baseURL,
		pipapi.WithTimeout(o.requestTimeout()),
		pipapi.WithLogger(o.log()))
}

func (o pageOptions) requestTimeout() time.Duration {
	if o.timeout <= 0 {
		return config.DefaultTimeoutSeconds * time.Second
	}
	return o.timeout
}

func (o pageOptions) log() *slog.Logger {
	if o.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.logger
}

// loadPageOptions resolves settings from, in increasing precedence, the
// config file, .env and the environment, then command-line flags. Logs go
// to logOut.
func loadPageOptions(cmd *cobra.Command, logOut io.Writer) (pageOptions, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return pageOptions{}, err
	}
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return pageOptions{}, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return pageOptions{}, fmt.Errorf("invalid config %s: %w", config.ConfigPath(), err)
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.APIBaseURL = baseURLFlag
	}
	if flags.Changed("account") {
		cfg.DefaultAccount = accountFlag
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevelFlag
	}

	logger, err := newLogger(logOut, cfg.LogLevel)
	if err != nil {
		return pageOptions{}, err
	}

	return pageOptions{
		baseURL:  cfg.APIBaseURL,
		account:  cfg.DefaultAccount,
		status:   cfg.StatusFilter,
		timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		jsonMode: GetJSONMode(),
		logger:   logger,
	}, nil
}

// newLogger returns a text logger writing to w at the named level. An
// empty level is the default level.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	if level == "" {
		level = config.DefaultLogLevel
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// withPageOptions fills opts in PreRunE, after the command's own PreRunE,
// before the command runs. Tests build commands with preset options
// instead.
func withPageOptions(newCmd func(opts *pageOptions) *cobra.Command) *cobra.Command {
	opts := &pageOptions{}
	c := newCmd(opts)
	check := c.PreRunE
	c.PreRunE = func(cmd *cobra.Command, args []string) error {
		if check != nil {
			if err := check(cmd, args); err != nil {
				return err
			}
		}
		loaded, err := loadPageOptions(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		*opts = loaded
		return nil
	}
	return c
}
