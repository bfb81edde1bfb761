package pages

import (
	"context"
	"log/slog"

	"github.com/pipfolio/pipview/internal/format"
	"github.com/pipfolio/pipview/internal/selection"
	"github.com/pipfolio/pipview/internal/viewmodel"
	"github.com/pipfolio/pipview/pkg/pipapi"
)

// Positions lists position summaries of the selected account together with
// the server-side per-currency totals, fetched in the same cycle.
type Positions struct {
	*viewmodel.ViewModel[pipapi.Position, []pipapi.PositionTotal]
}

// NewPositions creates the positions page following store. An empty status
// means pipapi.StatusAll.
func NewPositions(c *pipapi.Client, store *selection.Account, status string, logger *slog.Logger) *Positions {
	if status == "" {
		status = pipapi.StatusAll
	}
	return &Positions{viewmodel.New(viewmodel.Config[pipapi.Position, []pipapi.PositionTotal]{
		Name:  "positions",
		Items: list[pipapi.Position](c, pipapi.PathPositions),
		Companion: func(ctx context.Context, params map[string]string) ([]pipapi.PositionTotal, error) {
			return pipapi.Get[[]pipapi.PositionTotal](ctx, c, pipapi.PathPositionTotals, params)
		},
		SearchFields: func(p pipapi.Position) []string {
			return []string{p.InstrumentName, p.InstrumentTicker, p.InstrumentISIN}
		},
		AccountParam: pipapi.ParamAccount,
		Params:       map[string]string{pipapi.ParamStatus: status},
		Store:        store,
		Logger:       logger,
		ErrorMessage: "Failed to load portfolio data. Make sure the backend server is running.",
	})}
}

func (p *Positions) Title() string { return "Positions" }

func invested(p pipapi.Position) *float64 { return p.TotalInvested }
func pnl(p pipapi.Position) *float64      { return p.Pnl }

// TotalInvested sums invested capital over the visible positions.
func (p *Positions) TotalInvested() float64 {
	return p.Sum(invested)
}

// TotalPnl sums profit and loss over the visible positions.
func (p *Positions) TotalPnl() float64 {
	return p.Sum(pnl)
}

// Status returns the status filter.
func (p *Positions) Status() string {
	return p.Param(pipapi.ParamStatus)
}

// SetStatus changes the status filter and refetches.
func (p *Positions) SetStatus(status string) {
	p.SetParam(pipapi.ParamStatus, status)
}

// NextStatus cycles all, open, closed.
func (p *Positions) NextStatus() {
	current := p.Status()
	for i, s := range pipapi.Statuses {
		if s == current {
			p.SetStatus(pipapi.Statuses[(i+1)%len(pipapi.Statuses)])
			return
		}
	}
	p.SetStatus(pipapi.StatusAll)
}

// Totals returns the server-side totals of the last successful cycle.
func (p *Positions) Totals() []pipapi.PositionTotal {
	return p.Companion()
}

// Table renders the filtered positions.
func (p *Positions) Table() Table {
	s := p.Snapshot()
	rows := make([][]string, 0, len(s.Filtered))
	for _, pos := range s.Filtered {
		rows = append(rows, []string{
			pos.InstrumentName,
			pos.InstrumentTicker,
			format.Date(pos.OpeningDate),
			format.Money(pos.TotalInvested, pos.InstrumentSymbol),
			format.Money(pos.LatestPrice, pos.InstrumentSymbol),
			pos.PositionClosed,
			format.Money(pos.Pnl, pos.InstrumentSymbol),
			format.Percent(pos.PnlPercent),
		})
	}
	return Table{
		Headers: []string{"Instrument", "Ticker", "Opened", "Invested", "Last Price", "Status", "P/L", "P/L %"},
		Rows:    rows,
		Total:   len(s.Items),
	}
}

// Summary shows the totals of the visible rows, then the server totals per
// currency.
func (p *Positions) Summary() []Figure {
	s := p.Snapshot()
	inv := viewmodel.Sum(s.Filtered, invested)
	gain := viewmodel.Sum(s.Filtered, pnl)

	figures := []Figure{
		{Label: "Invested", Value: format.Money(&inv, ""), Class: format.Neutral},
		{Label: "P/L", Value: format.Money(&gain, ""), Class: format.ColorClass(&gain)},
	}
	for _, t := range s.Companion {
		figures = append(figures,
			Figure{Label: t.Currency + " invested", Value: format.Money(t.TotalInvested, t.Symbol), Class: format.Neutral},
			Figure{Label: t.Currency + " P/L", Value: format.Money(t.TotalPnl, t.Symbol), Class: format.ColorClass(t.TotalPnl)},
		)
	}
	return figures
}
