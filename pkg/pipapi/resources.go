package pipapi

import (
	"context"
	"log/slog"
)

// Endpoint paths.
const (
	PathAccounts       = "/api/accounts"
	PathInstruments    = "/api/instruments"
	PathPositions      = "/api/positions"
	PathPositionTotals = "/api/positions/totals"
	PathTrades         = "/api/trades"
	PathTransactions   = "/api/transactions"
)

// Accounts lists all accounts.
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	return Get[[]Account](ctx, c, PathAccounts, nil)
}

// Instruments lists all instruments.
func (c *Client) Instruments(ctx context.Context) ([]Instrument, error) {
	return Get[[]Instrument](ctx, c, PathInstruments, nil)
}

// Positions lists position summaries for status and account. Both
// parameters are always sent; an empty account means all accounts.
func (c *Client) Positions(ctx context.Context, status, account string) ([]Position, error) {
	return Get[[]Position](ctx, c, PathPositions, map[string]string{
		ParamStatus:  status,
		ParamAccount: account,
	})
}

// PositionTotals returns the per-currency totals matching Positions.
func (c *Client) PositionTotals(ctx context.Context, status, account string) ([]PositionTotal, error) {
	return Get[[]PositionTotal](ctx, c, PathPositionTotals, map[string]string{
		ParamStatus:  status,
		ParamAccount: account,
	})
}

// Trades lists the trades of account.
func (c *Client) Trades(ctx context.Context, account string) ([]Trade, error) {
	return Get[[]Trade](ctx, c, PathTrades, map[string]string{ParamAccount: account})
}

// Transactions lists the cash transactions of account.
func (c *Client) Transactions(ctx context.Context, account string) ([]Transaction, error) {
	return Get[[]Transaction](ctx, c, PathTransactions, map[string]string{ParamAccount: account})
}

// AccountNames returns the account names used to populate an account
// selector. It never fails: on error it logs a warning and returns an empty
// list, so the selector simply offers no accounts.
func (c *Client) AccountNames(ctx context.Context, logger *slog.Logger) []string {
	accounts, err := c.Accounts(ctx)
	if err != nil {
		if logger == nil {
			logger = c.Logger
		}
		logger.Warn("failed to fetch accounts for selector", "error", err)
		return []string{}
	}

	names := make([]string, 0, len(accounts))
	for _, a := range accounts {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return names
}
