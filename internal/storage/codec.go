package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// snapshotVersion is bumped whenever the snapshot envelope or a persisted
// domain type changes shape incompatibly.
const snapshotVersion = 1

type snapshot struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"saved_at"`
	Data    json.RawMessage `json:"data"`
}

// Encode wraps v in a versioned snapshot envelope.
func Encode(namespace string, v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, &PersistenceError{Namespace: namespace, Op: "encode", Err: err}
	}
	snap := snapshot{
		Version: snapshotVersion,
		SavedAt: time.Now().UTC(),
		Data:    raw,
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return nil, &PersistenceError{Namespace: namespace, Op: "encode", Err: err}
	}
	return b, nil
}

// Decode unwraps a snapshot and revives v from it. Unknown versions and
// malformed payloads (including unparseable date fields) fail loudly with a
// *PersistenceError rather than producing zero-valued state.
func Decode(namespace string, data []byte, v any) error {
	var snap snapshot
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&snap); err != nil {
		return &PersistenceError{Namespace: namespace, Op: "decode", Err: err}
	}
	if snap.Version != snapshotVersion {
		return &PersistenceError{
			Namespace: namespace,
			Op:        "decode",
			Err:       fmt.Errorf("unsupported snapshot version %d (want %d)", snap.Version, snapshotVersion),
		}
	}
	if err := json.Unmarshal(snap.Data, v); err != nil {
		return &PersistenceError{Namespace: namespace, Op: "decode", Err: err}
	}
	return nil
}
