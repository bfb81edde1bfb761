package tui

import "time"

// PageChangedMsg is sent when the page at Index signals a state change.
type PageChangedMsg struct {
	Index int
}

// AccountNamesMsg carries the account names offered by the account
// selector. The list is empty when the backend could not be reached.
type AccountNamesMsg struct {
	Names []string
}

// TickMsg is sent periodically for auto-refresh.
type TickMsg time.Time
