package combat

import (
	"time"

	"github.com/GFrenk016/secondavita-core/internal/eventlog"
)

// Tick advances regen and status effects for the player and every live
// enemy by one resolver pass (§4.3.3). Called once per "process" pass —
// either a player command or a realtime scheduler tick.
func (s *CombatSession) Tick(now time.Time, totalMinutes float64, log *eventlog.Log) {
	tickCombatant(&s.Player, "player", now, totalMinutes, log)
	for _, e := range s.Enemies {
		if !e.Alive() {
			continue
		}
		tickCombatant(&e.Combatant, e.ID, now, totalMinutes, log)
	}
}

func tickCombatant(c *Combatant, id string, now time.Time, totalMinutes float64, log *eventlog.Log) {
	c.RegenTick()
	damage, dtype, had := c.TickEffects()
	if !had {
		return
	}
	if log != nil {
		log.Append(eventlog.New("combat", "status_tick", now, totalMinutes, map[string]any{
			"combatant_id": id, "damage": damage, "damage_type": string(dtype), "hp": c.HP,
		}))
	}
}
