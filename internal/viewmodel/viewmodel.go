// Package viewmodel implements the state machine shared by every page: one
// fetched collection, a loading/error flag, a search query, and views
// derived from them on each read.
package viewmodel

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pipfolio/pipview/internal/selection"
)

// State is the fetch state of a view-model.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// DefaultErrorMessage is shown when a fetch cycle fails.
const DefaultErrorMessage = "Failed to load data. Make sure the backend server is running and reachable."

// Loader fetches one resource with the query parameters of the cycle.
type Loader[R any] func(ctx context.Context, params map[string]string) (R, error)

// Config describes one page.
type Config[T, X any] struct {
	// Name identifies the page in logs.
	Name string

	// Items loads the page's collection.
	Items Loader[[]T]

	// Companion optionally loads a second resource in the same cycle.
	Companion Loader[X]

	// SearchFields returns the text fields the search query matches.
	SearchFields func(T) []string

	// AccountParam is the query parameter carrying the shared account.
	// Pages that are not filtered by account leave it empty.
	AccountParam string

	// Params are the initial page filters, always sent.
	Params map[string]string

	// Store is the shared account selection. Required when AccountParam
	// is set.
	Store *selection.Account

	Logger *slog.Logger

	// ErrorMessage replaces DefaultErrorMessage.
	ErrorMessage string
}

// ViewModel binds one page to its resources.
//
// Every fetch cycle gets a sequence number; a cycle that completes after a
// newer one has started is discarded, so results never go backwards.
type ViewModel[T, X any] struct {
	cfg    Config[T, X]
	logger *slog.Logger

	mu        sync.Mutex
	state     State
	errMsg    string
	items     []T
	companion X
	account   string
	query     string
	params    map[string]string
	seq       uint64
	updated   time.Time
	ctx       context.Context

	unsubscribe func()
	inflight    sync.WaitGroup
	changes     chan struct{}
}

// New creates a view-model in the Idle state.
func New[T, X any](cfg Config[T, X]) *ViewModel[T, X] {
	if cfg.ErrorMessage == "" {
		cfg.ErrorMessage = DefaultErrorMessage
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	params := make(map[string]string, len(cfg.Params)+1)
	maps.Copy(params, cfg.Params)

	return &ViewModel[T, X]{
		cfg:     cfg,
		logger:  logger.With("page", cfg.Name),
		params:  params,
		ctx:     context.Background(),
		changes: make(chan struct{}, 1),
	}
}

// Name returns the page name.
func (vm *ViewModel[T, X]) Name() string {
	return vm.cfg.Name
}

// AccountFiltered reports whether the page follows the shared account.
func (vm *ViewModel[T, X]) AccountFiltered() bool {
	return vm.cfg.AccountParam != "" && vm.cfg.Store != nil
}

// Initialize mirrors the shared account, subscribes to its changes and
// starts the first fetch cycle in the background. ctx bounds every cycle
// the view-model starts on its own.
func (vm *ViewModel[T, X]) Initialize(ctx context.Context) {
	vm.mu.Lock()
	vm.ctx = ctx
	vm.mu.Unlock()

	if vm.AccountFiltered() {
		// subscribe before reading so a concurrent Set is never lost
		unsub := vm.cfg.Store.Subscribe(vm.OnSelectionChanged)
		vm.mu.Lock()
		vm.unsubscribe = unsub
		vm.account = vm.cfg.Store.Get()
		vm.mu.Unlock()
	}

	vm.goRefresh()
}

// Close stops following the shared account.
func (vm *ViewModel[T, X]) Close() {
	vm.mu.Lock()
	unsub := vm.unsubscribe
	vm.unsubscribe = nil
	vm.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// OnSelectionChanged updates the account mirror and refetches.
func (vm *ViewModel[T, X]) OnSelectionChanged(account string) {
	vm.mu.Lock()
	vm.account = account
	vm.mu.Unlock()

	vm.goRefresh()
}

// SelectAccount writes account to the shared store, which refetches every
// subscribed page including this one.
func (vm *ViewModel[T, X]) SelectAccount(account string) {
	if vm.cfg.Store == nil {
		return
	}
	vm.cfg.Store.Set(account)
}

// SetParam changes a page filter and refetches.
func (vm *ViewModel[T, X]) SetParam(key, value string) {
	vm.mu.Lock()
	vm.params[key] = value
	vm.mu.Unlock()

	vm.goRefresh()
}

// Param returns the current value of a page filter.
func (vm *ViewModel[T, X]) Param(key string) string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.params[key]
}

// SetSearchQuery changes the search query. It never fetches.
func (vm *ViewModel[T, X]) SetSearchQuery(q string) {
	vm.mu.Lock()
	vm.query = q
	vm.mu.Unlock()
	vm.notify()
}

// goRefresh runs a cycle in the background. Wait joins it.
func (vm *ViewModel[T, X]) goRefresh() {
	vm.mu.Lock()
	ctx := vm.ctx
	vm.mu.Unlock()

	vm.inflight.Add(1)
	go func() {
		defer vm.inflight.Done()
		_ = vm.Refresh(ctx)
	}()
}

// Wait blocks until every background cycle has settled.
func (vm *ViewModel[T, X]) Wait() {
	vm.inflight.Wait()
}

// Refresh runs one fetch cycle and returns its error. All loaders run
// concurrently and the state changes only once all of them settle: either
// every result is stored, or none is and the view-model is Failed.
func (vm *ViewModel[T, X]) Refresh(ctx context.Context) error {
	seq, params := vm.begin()
	logger := vm.logger.With("cycle", uuid.NewString(), "seq", seq)
	logger.Debug("fetch cycle started", "params", params)

	items, companion, err := vm.load(ctx, params)
	vm.commit(seq, items, companion, err, logger)
	return err
}

func (vm *ViewModel[T, X]) begin() (uint64, map[string]string) {
	vm.mu.Lock()
	vm.seq++
	seq := vm.seq
	vm.state = Loading
	vm.errMsg = ""

	params := maps.Clone(vm.params)
	if vm.AccountFiltered() {
		params[vm.cfg.AccountParam] = vm.account
	}
	vm.mu.Unlock()

	vm.notify()
	return seq, params
}

func (vm *ViewModel[T, X]) load(ctx context.Context, params map[string]string) ([]T, X, error) {
	var (
		items     []T
		companion X
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = vm.cfg.Items(gctx, params)
		return err
	})
	if vm.cfg.Companion != nil {
		g.Go(func() error {
			var err error
			companion, err = vm.cfg.Companion(gctx, params)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		var zero X
		return nil, zero, err
	}
	return items, companion, nil
}

func (vm *ViewModel[T, X]) commit(seq uint64, items []T, companion X, err error, logger *slog.Logger) {
	vm.mu.Lock()
	if latest := vm.seq; seq != latest {
		vm.mu.Unlock()
		logger.Debug("discarding superseded fetch cycle", "latest", latest)
		return
	}

	if err != nil {
		vm.state = Failed
		vm.errMsg = vm.cfg.ErrorMessage
		vm.mu.Unlock()
		logger.Warn("fetch cycle failed", "error", err)
		vm.notify()
		return
	}

	vm.items = items
	vm.companion = companion
	vm.state = Ready
	vm.updated = time.Now()
	vm.mu.Unlock()

	logger.Debug("fetch cycle done", "items", len(items))
	vm.notify()
}

func (vm *ViewModel[T, X]) notify() {
	select {
	case vm.changes <- struct{}{}:
	default:
	}
}

// Changes signals after every state change. Signals coalesce: a receiver
// re-reads the whole state rather than counting signals.
func (vm *ViewModel[T, X]) Changes() <-chan struct{} {
	return vm.changes
}

// State returns the current fetch state.
func (vm *ViewModel[T, X]) State() State {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state
}

// Err returns the user-facing error message, empty unless Failed.
func (vm *ViewModel[T, X]) Err() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.errMsg
}

// Items returns the stored collection as received.
func (vm *ViewModel[T, X]) Items() []T {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.items
}

// Companion returns the companion result of the last successful cycle.
func (vm *ViewModel[T, X]) Companion() X {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.companion
}

// Account returns the account mirror.
func (vm *ViewModel[T, X]) Account() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.account
}

// Query returns the search query.
func (vm *ViewModel[T, X]) Query() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.query
}

// Updated returns when results were last stored.
func (vm *ViewModel[T, X]) Updated() time.Time {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.updated
}

// Filtered returns the stored items matching the search query.
func (vm *ViewModel[T, X]) Filtered() []T {
	vm.mu.Lock()
	items, q := vm.items, vm.query
	vm.mu.Unlock()
	return Filter(items, q, vm.cfg.SearchFields)
}

// Sum adds field over the filtered items.
func (vm *ViewModel[T, X]) Sum(field func(T) *float64) float64 {
	return Sum(vm.Filtered(), field)
}

// Snapshot is a consistent copy of a view-model's state.
type Snapshot[T, X any] struct {
	State     State
	Err       string
	Items     []T
	Filtered  []T
	Companion X
	Account   string
	Query     string
	Params    map[string]string
	Seq       uint64
	Updated   time.Time
}

// Snapshot reads all state under one lock.
func (vm *ViewModel[T, X]) Snapshot() Snapshot[T, X] {
	vm.mu.Lock()
	s := Snapshot[T, X]{
		State:     vm.state,
		Err:       vm.errMsg,
		Items:     vm.items,
		Companion: vm.companion,
		Account:   vm.account,
		Query:     vm.query,
		Params:    maps.Clone(vm.params),
		Seq:       vm.seq,
		Updated:   vm.updated,
	}
	vm.mu.Unlock()

	s.Filtered = Filter(s.Items, s.Query, vm.cfg.SearchFields)
	return s
}
