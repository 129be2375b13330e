// Package state aggregates every subsystem's mutable data into the single
// GameState document SPEC_FULL.md §6.4 saves and loads as one snapshot,
// generalized from original_source/engine/core/state.py's dataclass (the
// thing persistence.py serializes) and the teacher's players/game_state.go
// (one normalized per-player state document).
package state

import (
	"math/rand/v2"
	"time"

	"github.com/GFrenk016/secondavita-core/internal/clock"
	"github.com/GFrenk016/secondavita-core/internal/combat"
	"github.com/GFrenk016/secondavita-core/internal/events"
	"github.com/GFrenk016/secondavita-core/internal/eventlog"
	"github.com/GFrenk016/secondavita-core/internal/exploration"
	"github.com/GFrenk016/secondavita-core/internal/npc"
	"github.com/GFrenk016/secondavita-core/internal/playerstate"
	"github.com/GFrenk016/secondavita-core/internal/quest"
)

// GameState is every piece of mutable state needed to resume a session.
type GameState struct {
	Location exploration.Location `bson:"location" json:"location"`

	Flags     map[string]any `bson:"flags" json:"flags"`
	FiredOnce map[string]bool `bson:"firedOnce" json:"firedOnce"`

	Stats     playerstate.Stats     `bson:"stats" json:"stats"`
	Inventory playerstate.Inventory `bson:"inventory" json:"inventory"`

	Clock clock.State `bson:"clock" json:"clock"`

	VisitMemory  exploration.Memory       `bson:"visitMemory" json:"visitMemory"`
	AmbientState exploration.AmbientState `bson:"ambientState" json:"ambientState"`
	Inspection   exploration.Progress     `bson:"inspection" json:"inspection"`

	EventState events.State `bson:"eventState" json:"eventState"`

	Quests         map[string]*quest.Quest `bson:"quests" json:"quests"`
	JournalHistory []quest.JournalEntry    `bson:"journalHistory" json:"journalHistory"`

	NPCs      *npc.Registry    `bson:"npcs" json:"npcs"`
	NPCMemory *npc.MemoryStore `bson:"npcMemory" json:"npcMemory"`

	Combat *combat.CombatSession `bson:"combat,omitempty" json:"combat,omitempty"`

	Timeline eventlog.Log `bson:"timeline" json:"timeline"`

	RNGSeed1 uint64 `bson:"rngSeed1" json:"rngSeed1"`
	RNGSeed2 uint64 `bson:"rngSeed2" json:"rngSeed2"`
}

// New returns a fresh-game GameState seeded at the given location and wall
// clock, with every sub-store initialized empty (§6.4 "new game" baseline).
func New(macroID, microID string, now time.Time, timeScale float64, climate clock.Climate, seed1, seed2 uint64, timelineCap int) *GameState {
	return &GameState{
		Location:     exploration.Location{MacroID: macroID, MicroID: microID},
		Flags:        map[string]any{},
		FiredOnce:    map[string]bool{},
		Stats:        playerstate.NewStats(),
		Inventory:    playerstate.Inventory{},
		Clock:        clock.NewState(now, timeScale, climate),
		VisitMemory:  exploration.NewMemory(),
		AmbientState: exploration.AmbientState{},
		Inspection:   exploration.NewProgress(),
		EventState:   events.NewState(),
		Quests:       map[string]*quest.Quest{},
		NPCs:         npc.NewRegistry(),
		NPCMemory:    npc.NewMemoryStore(),
		Timeline:     eventlog.NewLog(timelineCap),
		RNGSeed1:     seed1,
		RNGSeed2:     seed2,
	}
}

// RNG rebuilds the deterministic generator from the stored seed (§8
// "for all RNG seeds" — the seed, not the generator, is what persists).
func (g *GameState) RNG() *rand.Rand {
	return rand.New(rand.NewPCG(g.RNGSeed1, g.RNGSeed2))
}
