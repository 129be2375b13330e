package combat

import (
	"testing"
	"time"

	"github.com/GFrenk016/secondavita-core/internal/eventlog"
	"github.com/GFrenk016/secondavita-core/internal/playerstate"
	"github.com/GFrenk016/secondavita-core/internal/registry"
	"github.com/stretchr/testify/require"
)

func TestRollLootAddsItemsOnSuccessAndSkipsDeadEnemiesAlreadyRolled(t *testing.T) {
	s, log := newTestSession(t)
	s.Enemies[0].HP = 0
	s.Enemies[0].LootTable = []registry.LootEntry{{ItemID: "scrap", Chance: 1.0, Quantity: 2}}
	items := map[string]registry.Item{"scrap": {ID: "scrap", Weight: 1, StackMax: 10}}
	inv := &playerstate.Inventory{}

	RollLoot(s, items, inv, 100, rngAlwaysHits(), time.Now(), 0, &log)
	require.Equal(t, 2, inv.Quantity("scrap"))
	require.True(t, s.Enemies[0].LootRolled)

	// second pass must not re-roll.
	s.Enemies[0].LootTable[0].Quantity = 99
	RollLoot(s, items, inv, 100, rngAlwaysHits(), time.Now(), 0, &log)
	require.Equal(t, 2, inv.Quantity("scrap"))
}

func TestRollLootLeavesOverweightItemsBehind(t *testing.T) {
	s, log := newTestSession(t)
	s.Enemies[0].HP = 0
	s.Enemies[0].LootTable = []registry.LootEntry{{ItemID: "anvil", Chance: 1.0, Quantity: 1}}
	items := map[string]registry.Item{"anvil": {ID: "anvil", Weight: 50, StackMax: 1}}
	inv := &playerstate.Inventory{}

	RollLoot(s, items, inv, 10, rngAlwaysHits(), time.Now(), 0, &log)
	require.Equal(t, 0, inv.Quantity("anvil"))
	require.Len(t, s.DrainMessages(), 1)
}
