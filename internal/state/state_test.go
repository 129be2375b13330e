package state

import (
	"testing"
	"time"

	"github.com/GFrenk016/secondavita-core/internal/clock"
	"github.com/stretchr/testify/require"
)

func TestNewBuildsEmptySubStores(t *testing.T) {
	s := New("outpost", "gate", time.Unix(0, 0), 0.25, clock.Temperate, 1, 2, 500)

	require.Equal(t, "outpost", s.Location.MacroID)
	require.Empty(t, s.Flags)
	require.Empty(t, s.FiredOnce)
	require.NotNil(t, s.Quests)
	require.NotNil(t, s.NPCs)
	require.NotNil(t, s.NPCMemory)
	require.Nil(t, s.Combat)
	require.Equal(t, 100, s.Stats.MaxHealth)
}

func TestRNGIsDeterministicForSameSeed(t *testing.T) {
	s := New("outpost", "gate", time.Unix(0, 0), 0.25, clock.Temperate, 7, 9, 500)
	a := s.RNG().Uint64()
	b := s.RNG().Uint64()
	require.Equal(t, a, b, "same stored seed must rebuild an identical generator")
}
