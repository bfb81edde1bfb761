// Package pages configures one view-model per page of the portfolio viewer
// and turns their filtered records into display rows.
package pages

import (
	"context"
	"log/slog"
	"time"

	"github.com/pipfolio/pipview/internal/format"
	"github.com/pipfolio/pipview/internal/selection"
	"github.com/pipfolio/pipview/internal/viewmodel"
	"github.com/pipfolio/pipview/pkg/pipapi"
)

// Table is a page rendered to strings.
type Table struct {
	Headers []string
	Rows    [][]string
	// Total is the number of stored records before filtering.
	Total int
}

// Figure is one labelled summary value.
type Figure struct {
	Label string
	Value string
	Class format.Class
}

// Page is what renderers need from any page.
type Page interface {
	Name() string
	Title() string
	Initialize(ctx context.Context)
	Close()
	Wait()
	Refresh(ctx context.Context) error
	Changes() <-chan struct{}
	State() viewmodel.State
	Err() string
	Query() string
	SetSearchQuery(q string)
	AccountFiltered() bool
	Account() string
	Updated() time.Time
	Table() Table
	Summary() []Figure
}

// Set holds every page of a session, all sharing one account store.
type Set struct {
	Store        *selection.Account
	Accounts     *Accounts
	Instruments  *Instruments
	Positions    *Positions
	Trades       *Trades
	Transactions *Transactions
}

// NewSet builds all pages against client. status is the initial positions
// status filter.
func NewSet(client *pipapi.Client, store *selection.Account, status string, logger *slog.Logger) *Set {
	return &Set{
		Store:        store,
		Accounts:     NewAccounts(client, logger),
		Instruments:  NewInstruments(client, logger),
		Positions:    NewPositions(client, store, status, logger),
		Trades:       NewTrades(client, store, logger),
		Transactions: NewTransactions(client, store, logger),
	}
}

// All returns the pages in tab order.
func (s *Set) All() []Page {
	return []Page{s.Accounts, s.Instruments, s.Positions, s.Trades, s.Transactions}
}

// Initialize starts every page.
func (s *Set) Initialize(ctx context.Context) {
	for _, p := range s.All() {
		p.Initialize(ctx)
	}
}

// Wait blocks until every page has settled.
func (s *Set) Wait() {
	for _, p := range s.All() {
		p.Wait()
	}
}

// Close unsubscribes every page from the account store.
func (s *Set) Close() {
	for _, p := range s.All() {
		p.Close()
	}
}

func noSummary() []Figure { return nil }
