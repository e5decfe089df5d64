package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/listkeeper/listkeeper/internal/domain"
)

// SnapshotKey is the fixed key the whole app state lives under, so a reload
// always finds the prior session.
const SnapshotKey = "listkeeper:appstate"

// SchemaVersion is bumped when the snapshot layout changes.
const SchemaVersion = 1

// Gateway reads and writes the full AppState snapshot. Load never fails hard
// on malformed stored data: it returns the empty default state together with
// domain.ErrCorruptSnapshot so the caller can warn instead of crash. Save is
// idempotent; saving the same state twice produces the same bytes.
type Gateway interface {
	Load(ctx context.Context) (*domain.AppState, error)
	Save(ctx context.Context, state *domain.AppState) error
}

type envelope struct {
	SchemaVersion int              `json:"schema_version"`
	State         *domain.AppState `json:"state"`
}

// EncodeSnapshot serializes state into the versioned snapshot envelope.
func EncodeSnapshot(state *domain.AppState) ([]byte, error) {
	data, err := json.Marshal(envelope{SchemaVersion: SchemaVersion, State: state})
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot envelope. Malformed bytes, a missing state
// object, or an unknown schema version all yield domain.ErrCorruptSnapshot.
func DecodeSnapshot(data []byte) (*domain.AppState, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptSnapshot, err)
	}
	if env.State == nil {
		return nil, fmt.Errorf("%w: missing state object", domain.ErrCorruptSnapshot)
	}
	if env.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: unsupported schema version %d", domain.ErrCorruptSnapshot, env.SchemaVersion)
	}
	env.State.Normalize()
	return env.State, nil
}
