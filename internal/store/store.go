package store

import (
	"context"
	"errors"
	"sync"

	"github.com/listkeeper/listkeeper/internal/domain"
	"github.com/listkeeper/listkeeper/internal/persist"
	"github.com/rs/zerolog"
)

// Store owns the whole AppState and is the only place it mutates. Every
// operation runs under the mutex and writes the state through the gateway
// before returning, so a subsequent reload sees everything but the operation
// that was in flight when the process died.
type Store struct {
	mu       sync.Mutex
	state    *domain.AppState
	gw       persist.Gateway
	log      zerolog.Logger
	degraded bool

	// Recovered is true when startup found a corrupt snapshot and fell back
	// to the empty default state.
	recovered bool
}

// New loads the prior snapshot through the gateway. A corrupt snapshot is
// not fatal: the store starts empty and remembers that it recovered. A
// storage failure on load drops the store straight into in-memory-only mode.
func New(ctx context.Context, gw persist.Gateway, log zerolog.Logger) *Store {
	s := &Store{gw: gw, log: log}

	state, err := gw.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrCorruptSnapshot):
		log.Warn().Err(err).Msg("stored snapshot unreadable, starting with empty state")
		s.recovered = true
	default:
		log.Warn().Err(err).Msg("storage unavailable, operating in memory only")
		s.degraded = true
	}
	if state == nil {
		state = domain.NewAppState()
	}
	state.Normalize()
	s.state = state
	return s
}

// persistLocked writes through the gateway. Called with s.mu held, after the
// in-memory mutation. The first failure flips the store into in-memory-only
// mode for the rest of the process lifetime; the operation itself still
// counts as done.
func (s *Store) persistLocked(ctx context.Context) {
	if s.degraded {
		return
	}
	if err := s.gw.Save(ctx, s.state); err != nil {
		s.degraded = true
		s.log.Warn().Err(err).Msg("persistence failed, continuing in memory only")
	}
}

// Degraded reports whether a storage failure has left the store in-memory-only.
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// Recovered reports whether startup discarded a corrupt snapshot.
func (s *Store) Recovered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recovered
}

// Snapshot returns a deep copy of the current state for rendering.
func (s *Store) Snapshot() *domain.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// ActiveList returns a copy of the active list, or false when none is set.
func (s *Store) ActiveList() (*domain.ShoppingList, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.ActiveListID == nil {
		return nil, false
	}
	l, ok := s.state.Lists[*s.state.ActiveListID]
	if !ok {
		return nil, false
	}
	return l.Clone(), true
}

// ActiveSession returns a copy of the active session, or false when none is set.
func (s *Store) ActiveSession() (*domain.ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.ActiveSessionID == nil {
		return nil, false
	}
	sess, ok := s.state.Sessions[*s.state.ActiveSessionID]
	if !ok {
		return nil, false
	}
	return sess.Clone(), true
}
