package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pipfolio/pipview/internal/pages"
	"github.com/pipfolio/pipview/internal/selection"
	"github.com/pipfolio/pipview/internal/tui"
)

func init() {
	var logFile string
	var logCloser io.Closer
	opts := &pageOptions{}

	uiCmd := &cobra.Command{
		Use:   "ui",
		Short: "Interactive terminal UI",
		Long: `Launch an interactive terminal UI over the five pages.

All pages share one account selection: changing it on any page refetches
every account-filtered page.

Keyboard shortcuts:
  1-5       Switch page (Accounts, Instruments, Positions, Trades, Transactions)
  tab       Next page
  /         Search the current page (enter keeps, esc clears)
  a/A       Next/previous account
  s         Cycle positions status (all, open, closed)
  r         Refresh the current page
  q         Quit`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// the terminal belongs to the UI; logs go to a file or nowhere
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				w = f
				logCloser = f
			}
			loaded, err := loadPageOptions(cmd, w)
			if err != nil {
				return err
			}
			*opts = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			uiCfg, err := tui.LoadConfig(tui.ConfigPath())
			if err != nil {
				return fmt.Errorf("failed to load ui config: %w", err)
			}
			return runUI(cmd.Context(), *opts, uiCfg, tui.ConfigPath())
		},
		PostRunE: func(cmd *cobra.Command, args []string) error {
			if logCloser != nil {
				return logCloser.Close()
			}
			return nil
		},
	}

	uiCmd.Flags().StringVar(&logFile, "log-file", "", "Append logs to this file")
	uiCmd.SilenceUsage = true
	rootCmd.AddCommand(uiCmd)
}

func runUI(ctx context.Context, opts pageOptions, uiCfg *tui.UIConfig, uiPath string) error {
	client := opts.client()
	logger := opts.log()
	set := pages.NewSet(client, selection.NewAccount(opts.account), opts.status, logger)

	names := func(ctx context.Context) []string {
		ctx, cancel := context.WithTimeout(ctx, opts.requestTimeout())
		defer cancel()
		return client.AccountNames(ctx, logger)
	}
	return tui.Run(ctx, set, names, uiCfg, uiPath)
}
