package session

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CurrentSchemaVersion is written into every new snapshot. Decode accepts
// any version up to the current one so that records written by an older
// build keep working until their TTL retires them.
const CurrentSchemaVersion = 1

// Snapshot is the server-held session record. Token is the Redis key
// component and is never stored inside the value.
//
// Permissions is the entitlement set frozen at session creation. It
// exists so the UI can render available categories without a second
// round trip; it is deliberately NOT the field decisions are made from —
// a grant can expire or be revoked between login and a later request.
type Snapshot struct {
	SchemaVersion int `json:"v"`

	Token     string `json:"-"`
	AccountID string `json:"user_id"`
	Email     string `json:"email"`
	Username  string `json:"username"`

	Permissions []string `json:"permissions"`

	CreatedAt int64 `json:"created_at"`
	ExpiresAt int64 `json:"expires_at"`
}

// ErrSnapshotCorrupt is returned when a stored session blob is invalid.
var ErrSnapshotCorrupt = errors.New("session snapshot corrupt")

// Encode serializes a snapshot for storage, stamping the current schema
// version.
func Encode(snap *Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, ErrSnapshotCorrupt
	}
	snap.SchemaVersion = CurrentSchemaVersion
	return json.Marshal(snap)
}

// Decode parses a stored snapshot and validates its schema version.
func Decode(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	if snap.SchemaVersion < 1 || snap.SchemaVersion > CurrentSchemaVersion {
		return nil, fmt.Errorf("%w: unknown schema version %d", ErrSnapshotCorrupt, snap.SchemaVersion)
	}
	return &snap, nil
}
