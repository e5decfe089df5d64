package memory

import (
	"context"
	"sync"

	"github.com/listkeeper/listkeeper/internal/domain"
	"github.com/listkeeper/listkeeper/internal/persist"
)

// Store is an in-memory persistence gateway. It backs tests and the
// storage driver "memory", and goes through the same snapshot codec as the
// durable backends.
type Store struct {
	mu      sync.Mutex
	data    []byte
	saveErr error
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{}
}

// Load decodes the last saved snapshot, or returns the empty default state.
func (s *Store) Load(ctx context.Context) (*domain.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return domain.NewAppState(), nil
	}
	state, err := persist.DecodeSnapshot(s.data)
	if err != nil {
		return domain.NewAppState(), err
	}
	return state, nil
}

// Save encodes and retains the snapshot.
func (s *Store) Save(ctx context.Context, state *domain.AppState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return &domain.PersistenceError{Op: "save", Err: s.saveErr}
	}
	data, err := persist.EncodeSnapshot(state)
	if err != nil {
		return &domain.PersistenceError{Op: "save", Err: err}
	}
	s.data = data
	return nil
}

// SetRaw overwrites the stored bytes, bypassing the codec.
func (s *Store) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
}

// FailSaves makes every subsequent Save return err. Pass nil to recover.
func (s *Store) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}
