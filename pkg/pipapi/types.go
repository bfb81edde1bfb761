package pipapi

// Account is one brokerage account.
type Account struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Instrument is a tradable security.
type Instrument struct {
	ID          int    `json:"id"`
	ISIN        string `json:"isin"`
	Ticker      string `json:"ticker"`
	Name        string `json:"name"`
	NameLong    string `json:"name_long"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Currency    string `json:"currency"`
}

// Position is a per-instrument holding summary as computed by the backend.
// Numbers the backend may omit or send as null are pointers.
type Position struct {
	PositionID         int      `json:"position_id"`
	InstrumentID       int      `json:"instrument_id"`
	InstrumentName     string   `json:"instrument_name"`
	InstrumentISIN     string   `json:"instrument_isin"`
	InstrumentTicker   string   `json:"instrument_ticker"`
	InstrumentCurrency string   `json:"instrument_currency"`
	InstrumentSymbol   string   `json:"instrument_symbol"`
	OpeningDate        string   `json:"opening_date"`
	TotalInvested      *float64 `json:"total_invested"`
	LatestPrice        *float64 `json:"latest_price"`
	LatestPriceDate    string   `json:"latest_price_date"`
	TransactionsAmount *float64 `json:"transactions_amount"`
	ClosingDate        string   `json:"closing_date"`
	RemainingQuantity  int      `json:"remaining_quantity"`
	RemainingCostBasis *float64 `json:"remaining_cost_basis"`
	RealizedPnl        *float64 `json:"realized_pnl"`
	UnrealizedPnl      *float64 `json:"unrealized_pnl"`
	RealizedPnlPct     *float64 `json:"realized_pnl_percent"`
	UnrealizedPnlPct   *float64 `json:"unrealized_pnl_percent"`
	PositionClosed     string   `json:"position_closed"`
	Pnl                *float64 `json:"pnl"`
	PnlPercent         *float64 `json:"pnl_percent"`
}

// PositionTotal is the server-side aggregate of positions in one currency.
type PositionTotal struct {
	Currency      string   `json:"currency"`
	Symbol        string   `json:"symbol"`
	TotalInvested *float64 `json:"total_invested"`
	TotalPnl      *float64 `json:"total_pnl"`
}

// Trade is a buy or sell on a position.
type Trade struct {
	ID          int      `json:"id"`
	PositionID  int      `json:"position_id"`
	Date        string   `json:"date"`
	Type        string   `json:"type"`
	Quantity    *float64 `json:"quantity"`
	Price       *float64 `json:"price"`
	Description string   `json:"description"`
}

// Transaction is a cash movement: dividend, tax or fee.
type Transaction struct {
	ID          int      `json:"id"`
	AccountID   int      `json:"account_id"`
	PositionID  *int     `json:"position_id"`
	Date        string   `json:"date"`
	Type        string   `json:"type"`
	Amount      *float64 `json:"amount"`
	Description string   `json:"description"`
}

// Position status filters understood by the backend.
const (
	StatusAll    = "all"
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Statuses lists the status filters in display order.
var Statuses = []string{StatusAll, StatusOpen, StatusClosed}

// Query parameter names.
const (
	ParamAccount = "account_name"
	ParamStatus  = "status_filter"
)
