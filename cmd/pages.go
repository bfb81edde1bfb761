package cmd

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pipfolio/pipview/internal/output"
	"github.com/pipfolio/pipview/internal/pages"
	"github.com/pipfolio/pipview/internal/selection"
	"github.com/pipfolio/pipview/internal/viewmodel"
	"github.com/pipfolio/pipview/pkg/pipapi"
)

// runPage drives one page through a full cycle, the same way the UI does,
// and prints its filtered rows. A failed page still prints what it has and
// then returns its error message for cobra to report.
func runPage(cmd *cobra.Command, opts pageOptions, page pages.Page, search string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.requestTimeout())
	defer cancel()

	page.Initialize(ctx)
	defer page.Close()
	page.Wait()
	page.SetSearchQuery(search)

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
	if err := formatter.Page(page); err != nil {
		return err
	}
	if page.State() == viewmodel.Failed {
		return errors.New(page.Err())
	}
	return nil
}

// newPageCmd builds a list command around a page constructor.
func newPageCmd(opts *pageOptions, use, short, long string, build func(o *pageOptions) pages.Page) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPage(cmd, *opts, build(opts), search)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "q", "", "Case-insensitive text filter")
	cmd.SilenceUsage = true

	return cmd
}

func newAccountsCmd(opts *pageOptions) *cobra.Command {
	return newPageCmd(opts, "accounts", "List accounts",
		`List brokerage accounts.

Examples:
  pipview accounts
  pipview accounts --search pea
  pipview accounts --json`,
		func(o *pageOptions) pages.Page {
			return pages.NewAccounts(o.client(), o.log())
		})
}

func newInstrumentsCmd(opts *pageOptions) *cobra.Command {
	return newPageCmd(opts, "instruments", "List instruments",
		`List tradable instruments, searchable by name, ticker and ISIN.

Examples:
  pipview instruments
  pipview instruments --search FR0000`,
		func(o *pageOptions) pages.Page {
			return pages.NewInstruments(o.client(), o.log())
		})
}

func newTradesCmd(opts *pageOptions) *cobra.Command {
	return newPageCmd(opts, "trades", "List trades of the selected account",
		`List buy and sell trades, searchable by type and description.

Examples:
  pipview trades
  pipview trades --account PEA --search buy`,
		func(o *pageOptions) pages.Page {
			return pages.NewTrades(o.client(), selection.NewAccount(o.account), o.log())
		})
}

func newTransactionsCmd(opts *pageOptions) *cobra.Command {
	return newPageCmd(opts, "transactions", "List dividends, taxes and fees",
		`List cash transactions, searchable by type and description.

Examples:
  pipview transactions
  pipview transactions --account CTO --search dividend`,
		func(o *pageOptions) pages.Page {
			return pages.NewTransactions(o.client(), selection.NewAccount(o.account), o.log())
		})
}

func newPositionsCmd(opts *pageOptions) *cobra.Command {
	var status string

	cmd := newPageCmd(opts, "positions", "List positions with totals",
		`List position summaries with invested capital and profit and loss.

The totals under the table cover the rows shown, so a search narrows them
too. Server-side totals per currency follow.

Examples:
  pipview positions
  pipview positions --status open
  pipview positions --account PEA --search acme`,
		func(o *pageOptions) pages.Page {
			s := o.status
			if status != "" {
				s = status
			}
			return pages.NewPositions(o.client(), selection.NewAccount(o.account), s, o.log())
		})

	cmd.Flags().StringVar(&status, "status", "", "Status filter: "+strings.Join(pipapi.Statuses, ", "))
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		return validateStatus(status)
	}
	return cmd
}

func validateStatus(status string) error {
	if status == "" || slices.Contains(pipapi.Statuses, status) {
		return nil
	}
	return fmt.Errorf("invalid status %q: must be one of %s", status, strings.Join(pipapi.Statuses, ", "))
}

func newAccountNamesCmd(opts *pageOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account-names",
		Short: "List account names for the account selector",
		Long: `List the account names offered by the account selector.

Prints nothing when the backend cannot be reached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.requestTimeout())
			defer cancel()

			names := opts.client().AccountNames(ctx, opts.log())
			return output.New(cmd.OutOrStdout(), opts.jsonMode).Lines(names)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func init() {
	for _, newCmd := range []func(*pageOptions) *cobra.Command{
		newAccountsCmd,
		newInstrumentsCmd,
		newPositionsCmd,
		newTradesCmd,
		newTransactionsCmd,
		newAccountNamesCmd,
	} {
		rootCmd.AddCommand(withPageOptions(newCmd))
	}
}
