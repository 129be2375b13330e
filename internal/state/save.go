package state

import (
	"time"

	"github.com/GFrenk016/secondavita-core/internal/engineerr"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// SaveVersion is the snapshot format version (§6.4). Bump on breaking
// GameState layout changes; Load rejects any file newer than this.
const SaveVersion = 1

// Snapshot is the single structured record persisted to one save file: a
// version integer, a timestamp, an id, and the full GameState — grounded on
// original_source/engine/core/persistence.py's serialize_game_state
// "_save_metadata" envelope, flattened into one bson document instead of a
// dict sidecar key.
type Snapshot struct {
	ID        string    `bson:"id"`
	Version   int       `bson:"version"`
	SavedAt   time.Time `bson:"savedAt"`
	SlotName  string    `bson:"slotName"`
	GameState *GameState `bson:"gameState"`
}

// Save wraps state in a versioned Snapshot and marshals it to bson bytes
// ready to be written to a single save file.
func Save(s *GameState, slotName string, now time.Time) ([]byte, error) {
	snap := Snapshot{
		ID:        uuid.NewString(),
		Version:   SaveVersion,
		SavedAt:   now,
		SlotName:  slotName,
		GameState: s,
	}
	data, err := bson.Marshal(snap)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.Transient, "failed to marshal save snapshot", err)
	}
	return data, nil
}

// Load decodes a Snapshot from bson bytes, rejecting any snapshot whose
// Version is newer than SaveVersion (§6.4 "version mismatch ... rejected
// with a typed error") and leaving the caller's existing state untouched.
func Load(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := bson.Unmarshal(data, &snap); err != nil {
		return nil, engineerr.Wrap(engineerr.ConflictState, "failed to decode save snapshot", err)
	}
	if snap.Version > SaveVersion {
		return nil, engineerr.Newf(engineerr.ConflictState,
			"save version %d is newer than supported version %d", snap.Version, SaveVersion)
	}
	return &snap, nil
}
