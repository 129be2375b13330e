package combat

import (
	"math/rand/v2"
	"time"

	"github.com/GFrenk016/secondavita-core/internal/eventlog"
	"github.com/GFrenk016/secondavita-core/internal/playerstate"
	"github.com/GFrenk016/secondavita-core/internal/registry"
)

// RollLoot implements §4.3.7: for every enemy that has just transitioned to
// hp<=0 and has not yet had its loot rolled, sample its loot_table and push
// successes into inv. Buffers a user-facing message on the session for the
// next render and emits a loot_dropped event per successful drop.
func RollLoot(s *CombatSession, items map[string]registry.Item, inv *playerstate.Inventory, capacity float64, rng *rand.Rand, now time.Time, totalMinutes float64, log *eventlog.Log) {
	for _, e := range s.Enemies {
		if e.HP > 0 || e.LootRolled {
			continue
		}
		e.LootRolled = true
		rollEnemyLoot(s, e, items, inv, capacity, rng, now, totalMinutes, log)
	}
}

func rollEnemyLoot(s *CombatSession, e *EnemyInstance, items map[string]registry.Item, inv *playerstate.Inventory, capacity float64, rng *rand.Rand, now time.Time, totalMinutes float64, log *eventlog.Log) {
	factor := e.EnhancedLootFactor
	if factor <= 0 {
		factor = 1.0
	}
	var dropped []string
	var leftBehind []string
	for _, entry := range e.LootTable {
		chance := entry.Chance * factor
		if chance > 1 {
			chance = 1
		}
		if rng.Float64() >= chance {
			continue
		}
		qty := entry.Quantity
		if qty <= 0 {
			qty = 1
		}
		item, ok := items[entry.ItemID]
		weight := 0.0
		if ok {
			weight = item.Weight * float64(qty)
		}
		if !inv.CanCarry(items, weight, capacity) {
			leftBehind = append(leftBehind, entry.ItemID)
			continue
		}
		if inv.Add(items, entry.ItemID, qty) {
			dropped = append(dropped, entry.ItemID)
			if log != nil {
				log.Append(eventlog.New("combat", "loot_dropped", now, totalMinutes, map[string]any{
					"enemy_id": e.ID, "item_id": entry.ItemID, "quantity": qty,
				}))
			}
		}
	}
	if len(dropped) > 0 {
		s.PushMessage(joinLootMessage(e.ID, dropped))
	}
	if len(leftBehind) > 0 {
		s.PushMessage(joinLeftBehindMessage(e.ID, leftBehind))
	}
}

func joinLootMessage(enemyID string, items []string) string {
	msg := enemyID + " dropped: "
	for i, it := range items {
		if i > 0 {
			msg += ", "
		}
		msg += it
	}
	return msg
}

// joinLeftBehindMessage is the supplemented weight-aware "left behind"
// message (SPEC_FULL.md's enrichment of §4.3.7: the original drops loot
// unconditionally, losing anything over capacity silently).
func joinLeftBehindMessage(enemyID string, items []string) string {
	msg := "too heavy to carry, left behind at " + enemyID + ": "
	for i, it := range items {
		if i > 0 {
			msg += ", "
		}
		msg += it
	}
	return msg
}
