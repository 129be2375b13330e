package npc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterIndexesByLocation(t *testing.T) {
	r := NewRegistry()
	r.Register(NPC{ID: "clementine", Macro: "outpost", Micro: "gate"})
	r.Register(NPC{ID: "marcus", Macro: "outpost", Micro: "gate"})
	r.Register(NPC{ID: "frank", Macro: "outpost", Micro: "yard"})

	at := r.At("outpost", "gate")
	require.Len(t, at, 2)
}

func TestMoveUpdatesLocationIndex(t *testing.T) {
	r := NewRegistry()
	r.Register(NPC{ID: "clementine", Macro: "outpost", Micro: "gate"})
	r.Move("clementine", "outpost", "yard")

	require.Empty(t, r.At("outpost", "gate"))
	require.Len(t, r.At("outpost", "yard"), 1)
}

func TestApplyRelationshipDeltaClampsToRange(t *testing.T) {
	r := NewRegistry()
	r.Register(NPC{ID: "clementine", Relationship: 9})
	r.ApplyRelationshipDelta("clementine", 5, 1000)

	n, _ := r.Get("clementine")
	require.Equal(t, 10, n.Relationship)
	require.Equal(t, int64(1000), n.LastInteractedAt)

	r.ApplyRelationshipDelta("clementine", -30, 2000)
	require.Equal(t, -10, n.Relationship)
}

func TestDecayIfDueDriftsTowardZeroAfterGracePeriod(t *testing.T) {
	r := NewRegistry()
	r.Register(NPC{ID: "clementine", Relationship: 8, LastInteractedAt: 0})

	r.DecayIfDue(3 * minutesPerDay)
	n, _ := r.Get("clementine")
	require.Equal(t, 8, n.Relationship, "within grace period, no decay yet")

	r.DecayIfDue(6 * minutesPerDay)
	require.Equal(t, 5, n.Relationship, "3 days past grace period drifts 3 points toward 0")
}

func TestDecayIfDueNeverCrossesZero(t *testing.T) {
	r := NewRegistry()
	r.Register(NPC{ID: "clementine", Relationship: -2, LastInteractedAt: 0})

	r.DecayIfDue(20 * minutesPerDay)
	n, _ := r.Get("clementine")
	require.Equal(t, 0, n.Relationship)
}
