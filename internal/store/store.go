package store

import (
	"io"
	"log/slog"
	"sync"

	"github.com/hupe1980/facetfilter/internal/filter"
)

// Observer is notified after the filter state changed.
type Observer interface {
	FiltersChanged(prev, curr filter.ActiveSet)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(prev, curr filter.ActiveSet)

// FiltersChanged calls f(prev, curr).
func (f ObserverFunc) FiltersChanged(prev, curr filter.ActiveSet) { f(prev, curr) }

// Store owns the current filter state. Writers are serialised; readers
// receive immutable snapshots.
type Store struct {
	mu        sync.Mutex
	notify    sync.Mutex
	state     filter.ActiveSet
	observers []subscription
	nextID    int
	logger    *slog.Logger
}

type subscription struct {
	id       int
	observer Observer
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for dispatch tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithState seeds the store with an initial state.
func WithState(state filter.ActiveSet) Option {
	return func(s *Store) {
		s.state = state
	}
}

// New creates a store. Without WithState it starts empty.
func New(opts ...Option) *Store {
	s := &Store{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// State returns the current snapshot.
func (s *Store) State() filter.ActiveSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Dispatch applies a to the state. It reports whether the state changed;
// observers are only notified on change. Observers run synchronously on
// the dispatching goroutine, in subscription order, without the state lock
// held. They may call State but must not dispatch.
func (s *Store) Dispatch(a Action) (bool, error) {
	s.notify.Lock()
	defer s.notify.Unlock()

	s.mu.Lock()

	next, err := a.apply(s.state)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}

	changed := s.commitLocked(next)
	if !changed {
		s.logger.Debug("filter action left state unchanged", slog.String("action", a.String()))
		return false, nil
	}

	s.logger.Debug("filter state changed",
		slog.String("action", a.String()),
		slog.String("state", next.String()),
	)

	return true, nil
}

// Replace swaps in a whole new state, notifying observers when it differs.
func (s *Store) Replace(next filter.ActiveSet) bool {
	s.notify.Lock()
	defer s.notify.Unlock()

	s.mu.Lock()

	return s.commitLocked(next)
}

// commitLocked stores next and notifies observers. It is entered with mu
// held and returns with mu released.
func (s *Store) commitLocked(next filter.ActiveSet) bool {
	prev := s.state
	if next.Equal(prev) {
		s.mu.Unlock()
		return false
	}

	s.state = next
	observers := append([]subscription(nil), s.observers...)
	s.mu.Unlock()

	for _, sub := range observers {
		sub.observer.FiltersChanged(prev, next)
	}

	return true
}

// Subscribe registers o and returns a function that removes it again.
// Calling the returned function more than once is harmless.
func (s *Store) Subscribe(o Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, subscription{id: id, observer: o})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		for i, sub := range s.observers {
			if sub.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}
