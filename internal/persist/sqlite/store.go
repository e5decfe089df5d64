package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/listkeeper/listkeeper/internal/domain"
	"github.com/listkeeper/listkeeper/internal/persist"
	_ "modernc.org/sqlite"
)

// Store is the default persistence gateway: a single-file embedded key-value
// table holding the snapshot under the fixed key.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database file and ensures the snapshot table.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database file path is required")
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS snapshots (
		key        TEXT PRIMARY KEY,
		data       BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create snapshot table: %w", err)
	}

	return &Store{db: db}, nil
}

// Load reads the snapshot. A missing row yields the empty default state; a
// corrupt row yields the empty default state plus a recoverable error.
func (s *Store) Load(ctx context.Context) (*domain.AppState, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM snapshots WHERE key = ?`, persist.SnapshotKey,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
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

// Save writes the snapshot under the fixed key.
func (s *Store) Save(ctx context.Context, state *domain.AppState) error {
	data, err := persist.EncodeSnapshot(state)
	if err != nil {
		return &domain.PersistenceError{Op: "save", Err: err}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		persist.SnapshotKey, data, time.Now().UTC(),
	)
	if err != nil {
		return &domain.PersistenceError{Op: "save", Err: err}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
