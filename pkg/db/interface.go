package db

import (
	"encoding/json"
	"fmt"

	v1 "github.com/patternware/satchel/pkg/types/v1"
)

// SnapshotVersion is the current on-disk schema version. Bump it when the
// envelope changes shape and add a migration in the backend.
const SnapshotVersion = 1

var (
	ErrSnapshotCorrupt = fmt.Errorf("unable to decode snapshot")
	ErrSnapshotTooNew  = fmt.Errorf("snapshot written by a newer version")
)

// Snapshot is the durable storage record for one carrier bag:
// {"state":{"items":[...],...},"version":n}. Only items is semantically
// required; prefs carries UI preference fields that round-trip untouched.
type Snapshot struct {
	State   State `json:"state"`
	Version int   `json:"version"`
}

type State struct {
	Items []v1.CollectedItem         `json:"items"`
	Prefs map[string]json.RawMessage `json:"prefs,omitempty"`
}

// Backend is the interface any storage provider satisfies to persist the
// carrier bag between sessions.
type Backend interface {
	// Load reads the persisted snapshot. A backend with nothing persisted
	// yet returns an empty snapshot, not an error.
	Load() (*Snapshot, error)
	Save(*Snapshot) error
	StoragePath() string
}
