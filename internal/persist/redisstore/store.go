package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/listkeeper/listkeeper/internal/config"
	"github.com/listkeeper/listkeeper/internal/domain"
	"github.com/listkeeper/listkeeper/internal/persist"
	"github.com/redis/go-redis/v9"
)

// Store is a remote key-value persistence gateway. It satisfies the same
// contract as the embedded store, so deployments that already run Redis can
// share state across hosts.
type Store struct {
	rdb *redis.Client
}

// New connects to Redis and verifies the connection.
func New(cfg config.RedisConfig) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{rdb: rdb}, nil
}

// Load reads the snapshot. A missing key yields the empty default state; a
// corrupt value yields the empty default state plus a recoverable error.
func (s *Store) Load(ctx context.Context) (*domain.AppState, error) {
	data, err := s.rdb.Get(ctx, persist.SnapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.NewAppState(), nil
	}
	if err != nil {
		return domain.NewAppState(), &domain.PersistenceError{Op: "load", Err: err}
	}

	state, err := persist.DecodeSnapshot(data)
	if err != nil {
		return domain.NewAppState(), err
	}
	return state, nil
}

// Save writes the snapshot under the fixed key, without expiry.
func (s *Store) Save(ctx context.Context, state *domain.AppState) error {
	data, err := persist.EncodeSnapshot(state)
	if err != nil {
		return &domain.PersistenceError{Op: "save", Err: err}
	}
	if err := s.rdb.Set(ctx, persist.SnapshotKey, data, 0).Err(); err != nil {
		return &domain.PersistenceError{Op: "save", Err: err}
	}
	return nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.rdb.Close()
}
