package pages

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/pipfolio/pipview/internal/format"
	"github.com/pipfolio/pipview/internal/selection"
	"github.com/pipfolio/pipview/internal/viewmodel"
	"github.com/pipfolio/pipview/pkg/pipapi"
)

// list adapts a typed API call to a loader.
func list[T any](c *pipapi.Client, path string) viewmodel.Loader[[]T] {
	return func(ctx context.Context, params map[string]string) ([]T, error) {
		return pipapi.Get[[]T](ctx, c, path, params)
	}
}

// Accounts lists accounts, searchable by name and description.
type Accounts struct {
	*viewmodel.ViewModel[pipapi.Account, struct{}]
}

// NewAccounts creates the accounts page.
func NewAccounts(c *pipapi.Client, logger *slog.Logger) *Accounts {
	return &Accounts{viewmodel.New(viewmodel.Config[pipapi.Account, struct{}]{
		Name:  "accounts",
		Items: list[pipapi.Account](c, pipapi.PathAccounts),
		SearchFields: func(a pipapi.Account) []string {
			return []string{a.Name, a.Description}
		},
		Logger:       logger,
		ErrorMessage: "Failed to load accounts data. Make sure the backend server is running.",
	})}
}

func (p *Accounts) Title() string     { return "Accounts" }
func (p *Accounts) Summary() []Figure { return noSummary() }

// Table renders the filtered accounts.
func (p *Accounts) Table() Table {
	s := p.Snapshot()
	rows := make([][]string, 0, len(s.Filtered))
	for _, a := range s.Filtered {
		rows = append(rows, []string{a.Name, a.Description})
	}
	return Table{
		Headers: []string{"Name", "Description"},
		Rows:    rows,
		Total:   len(s.Items),
	}
}

// Instruments lists instruments, searchable by name, ticker and ISIN.
type Instruments struct {
	*viewmodel.ViewModel[pipapi.Instrument, struct{}]
}

// NewInstruments creates the instruments page.
func NewInstruments(c *pipapi.Client, logger *slog.Logger) *Instruments {
	return &Instruments{viewmodel.New(viewmodel.Config[pipapi.Instrument, struct{}]{
		Name:  "instruments",
		Items: list[pipapi.Instrument](c, pipapi.PathInstruments),
		SearchFields: func(i pipapi.Instrument) []string {
			return []string{i.Name, i.Ticker, i.ISIN}
		},
		Logger:       logger,
		ErrorMessage: "Failed to load instruments. Make sure the backend server is running.",
	})}
}

func (p *Instruments) Title() string     { return "Instruments" }
func (p *Instruments) Summary() []Figure { return noSummary() }

// Table renders the filtered instruments.
func (p *Instruments) Table() Table {
	s := p.Snapshot()
	rows := make([][]string, 0, len(s.Filtered))
	for _, i := range s.Filtered {
		rows = append(rows, []string{i.Ticker, i.ISIN, i.Name, i.Category, i.Currency})
	}
	return Table{
		Headers: []string{"Ticker", "ISIN", "Name", "Category", "Currency"},
		Rows:    rows,
		Total:   len(s.Items),
	}
}

// Trades lists the trades of the selected account, searchable by type and
// description.
type Trades struct {
	*viewmodel.ViewModel[pipapi.Trade, struct{}]
}

// NewTrades creates the trades page following store.
func NewTrades(c *pipapi.Client, store *selection.Account, logger *slog.Logger) *Trades {
	return &Trades{viewmodel.New(viewmodel.Config[pipapi.Trade, struct{}]{
		Name:  "trades",
		Items: list[pipapi.Trade](c, pipapi.PathTrades),
		SearchFields: func(t pipapi.Trade) []string {
			return []string{t.Type, t.Description}
		},
		AccountParam: pipapi.ParamAccount,
		Store:        store,
		Logger:       logger,
		ErrorMessage: "Failed to load trades. Make sure the backend server is running.",
	})}
}

func (p *Trades) Title() string     { return "Trades" }
func (p *Trades) Summary() []Figure { return noSummary() }

// Table renders the filtered trades.
func (p *Trades) Table() Table {
	s := p.Snapshot()
	rows := make([][]string, 0, len(s.Filtered))
	for _, t := range s.Filtered {
		rows = append(rows, []string{
			format.Date(t.Date),
			t.Type,
			quantity(t.Quantity),
			format.Money(t.Price, ""),
			t.Description,
		})
	}
	return Table{
		Headers: []string{"Date", "Type", "Qty", "Price", "Description"},
		Rows:    rows,
		Total:   len(s.Items),
	}
}

// Transactions lists dividends, taxes and fees of the selected account,
// searchable by type and description.
type Transactions struct {
	*viewmodel.ViewModel[pipapi.Transaction, struct{}]
}

// NewTransactions creates the transactions page following store.
func NewTransactions(c *pipapi.Client, store *selection.Account, logger *slog.Logger) *Transactions {
	return &Transactions{viewmodel.New(viewmodel.Config[pipapi.Transaction, struct{}]{
		Name:  "transactions",
		Items: list[pipapi.Transaction](c, pipapi.PathTransactions),
		SearchFields: func(t pipapi.Transaction) []string {
			return []string{t.Type, t.Description}
		},
		AccountParam: pipapi.ParamAccount,
		Store:        store,
		Logger:       logger,
		ErrorMessage: "Failed to load transactions. Make sure the backend server is running.",
	})}
}

func (p *Transactions) Title() string     { return "Transactions" }
func (p *Transactions) Summary() []Figure { return noSummary() }

// Table renders the filtered transactions.
func (p *Transactions) Table() Table {
	s := p.Snapshot()
	rows := make([][]string, 0, len(s.Filtered))
	for _, t := range s.Filtered {
		rows = append(rows, []string{
			format.Date(t.Date),
			t.Type,
			format.Money(t.Amount, ""),
			t.Description,
		})
	}
	return Table{
		Headers: []string{"Date", "Type", "Amount", "Description"},
		Rows:    rows,
		Total:   len(s.Items),
	}
}

func quantity(v *float64) string {
	if v == nil {
		return format.Placeholder
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
