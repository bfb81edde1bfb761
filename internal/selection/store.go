// Package selection holds state shared by every page of a session, such as
// the active account filter.
package selection

import "sync"

// Store holds one value and notifies subscribers when it changes.
//
// A Store is built explicitly and passed to each view-model that shares it.
// Notifications are delivered synchronously, in registration order, to the
// subscribers registered at the time of Set. Late subscribers get no replay
// and must call Get during their own initialization.
type Store[T comparable] struct {
	mu     sync.Mutex
	value  T
	nextID int
	subs   []subscriber[T]
}

type subscriber[T comparable] struct {
	id int
	fn func(T)
}

// NewStore creates a store holding initial.
func NewStore[T comparable](initial T) *Store[T] {
	return &Store[T]{value: initial}
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set stores v and then broadcasts it to all current subscribers.
// Subscribers run outside the lock and may call Get, Set or Subscribe.
func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	subs := make([]subscriber[T], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(v)
	}
}

// Subscribe registers fn for future Set calls. The returned function
// removes the subscription; calling it more than once is a no-op.
func (s *Store[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Store[T]) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of live subscribers.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Account is the active account filter. The empty string selects all
// accounts.
type Account = Store[string]

// AllAccounts is the selector value that disables account filtering.
const AllAccounts = ""

// NewAccount creates an account store starting at initial.
func NewAccount(initial string) *Account {
	return NewStore(initial)
}

// Cycle returns the option step positions away from current in the list
// formed by AllAccounts followed by options, wrapping around. An unknown
// current value is treated as AllAccounts.
func Cycle(options []string, current string, step int) string {
	all := make([]string, 0, len(options)+1)
	all = append(all, AllAccounts)
	for _, o := range options {
		if o != AllAccounts {
			all = append(all, o)
		}
	}

	idx := 0
	for i, o := range all {
		if o == current {
			idx = i
			break
		}
	}
	n := len(all)
	return all[((idx+step)%n+n)%n]
}
