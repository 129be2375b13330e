package state

import (
	"testing"
	"time"

	"github.com/GFrenk016/secondavita-core/internal/clock"
	"github.com/GFrenk016/secondavita-core/internal/engineerr"
	"github.com/GFrenk016/secondavita-core/internal/npc"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New("outpost", "gate", time.Unix(0, 0), 0.25, clock.Temperate, 1, 2, 500)
	s.Flags["met_clementine"] = true
	s.NPCMemory.Write("clementine", []npc.Record{{Type: "episodic", Key: "met", Value: "at the gate"}}, 1000)

	data, err := Save(s, "quicksave", time.Unix(1000, 0))
	require.NoError(t, err)

	snap, err := Load(data)
	require.NoError(t, err)
	require.Equal(t, SaveVersion, snap.Version)
	require.Equal(t, "quicksave", snap.SlotName)
	require.Equal(t, "outpost", snap.GameState.Location.MacroID)
	require.Equal(t, true, snap.GameState.Flags["met_clementine"])
	require.Len(t, snap.GameState.NPCMemory.All("clementine"), 1)
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	s := New("outpost", "gate", time.Unix(0, 0), 0.25, clock.Temperate, 1, 2, 500)
	future := Snapshot{
		ID:        "future-save",
		Version:   SaveVersion + 1,
		SavedAt:   time.Unix(1000, 0),
		SlotName:  "quicksave",
		GameState: s,
	}
	data, err := bson.Marshal(future)
	require.NoError(t, err)

	_, err = Load(data)
	require.Error(t, err)
	require.Equal(t, engineerr.ConflictState, engineerr.CodeOf(err))
}
