// Command enginedemo runs a short scripted sequence against the engine
// without interactive input, to prove the wiring end to end. It is not the
// REPL/front end, which is out of scope (§1).
//
// Grounded on original_source/manual_demo.py's non-interactive action
// sequence and the teacher/pack's cmd/app-style bootstrap (godotenv + a
// single structured logger) for the surrounding process shape.
package main

import (
	"math/rand/v2"
	"os"
	"time"

	"github.com/GFrenk016/secondavita-core/internal/clock"
	"github.com/GFrenk016/secondavita-core/internal/config"
	"github.com/GFrenk016/secondavita-core/internal/events"
	"github.com/GFrenk016/secondavita-core/internal/exploration"
	"github.com/GFrenk016/secondavita-core/internal/logging"
	"github.com/GFrenk016/secondavita-core/internal/npc"
	"github.com/GFrenk016/secondavita-core/internal/quest"
	"github.com/GFrenk016/secondavita-core/internal/registry"
	"github.com/GFrenk016/secondavita-core/internal/state"
)

func demoWorld() registry.World {
	return registry.World{
		ID:   "outpost-world",
		Name: "The Outpost",
		Macros: map[string]registry.MacroRoom{
			"outpost": {
				ID:   "outpost",
				Name: "Outpost",
				Micros: map[string]registry.MicroRoom{
					"gate": {
						ID:          "gate",
						Name:        "Outpost Gate",
						Description: "A rusted gate marks the edge of the outpost.",
						Exits: []registry.Exit{
							{Direction: "north", TargetMicro: "yard"},
						},
						Interactables: []registry.InteractableRef{
							{ID: "marker_stone"},
						},
					},
					"yard": {
						ID:          "yard",
						Name:        "Outpost Yard",
						Description: "Crates and tarps fill the yard.",
						Exits: []registry.Exit{
							{Direction: "south", TargetMicro: "gate"},
						},
					},
				},
			},
		},
	}
}

func demoStrings() registry.Strings {
	return registry.Strings{
		Aree: map[string]registry.StringVariant{
			"outpost:gate": {Nome: "Outpost Gate", Descrizione: "A rusted gate marks the edge of the outpost."},
			"outpost:yard": {Nome: "Outpost Yard", Descrizione: "Crates and tarps fill the yard."},
		},
		Oggetti: map[string]registry.ObjectString{
			"marker_stone": {
				Nome:              "weathered marker stone",
				Descrizione:       "A stone marker, worn smooth by years of rain.",
				InspectFirstTime:  "You crouch to inspect the marker stone for the first time.",
				InspectSubsequent: "The marker stone again.",
				ExamineText:       "Faint scratches form a half-legible name.",
				SearchText:        "Wedged beneath it: a folded scrap of cloth.",
			},
		},
	}
}

func main() {
	log := logging.New(logging.Options{Level: os.Getenv("SV_LOG_LEVEL"), Pretty: true})

	cfg, err := config.Load(os.Getenv("SV_CONTENT_CONFIG"), ".env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	log.Info().Float64("time_scale", cfg.TimeScale).Msg("configuration loaded")

	now := time.Now()
	gs := state.New("outpost", "gate", now, cfg.TimeScale, clock.Temperate, 42, 7, 500)
	world := demoWorld()
	strs := demoStrings()
	rng := rand.New(rand.NewPCG(gs.RNGSeed1, gs.RNGSeed2))

	run := func(label string, fn func() (string, error)) {
		log.Info().Str("action", label).Msg("====")
		out, err := fn()
		if err != nil {
			log.Warn().Str("action", label).Err(err).Msg("action failed")
			return
		}
		for _, line := range splitLines(out) {
			log.Info().Msg(line)
		}
	}

	lookup := func(string) bool { return false }

	run("look", func() (string, error) {
		return exploration.Look(&world, strs, &gs.Clock, gs.Location, &gs.VisitMemory, &gs.AmbientState, nil, lookup, cfg.AmbientMinGapMinutes, rng)
	})

	run("inspect marker_stone", func() (string, error) {
		return exploration.Inspect(gs.Inspection, "marker_stone", strs)
	})
	run("examine marker_stone", func() (string, error) {
		return exploration.Examine(gs.Inspection, "marker_stone", strs)
	})
	run("search marker_stone", func() (string, error) {
		return exploration.Search(gs.Inspection, "marker_stone", strs)
	})

	run("wait 5", func() (string, error) {
		if err := exploration.Wait(&gs.Clock, 5, now, rng); err != nil {
			return "", err
		}
		return gs.Clock.Header(), nil
	})

	run("wait until night", func() (string, error) {
		if _, err := exploration.WaitUntil(&gs.Clock, clock.Night, now, rng); err != nil {
			return "", err
		}
		return gs.Clock.Header(), nil
	})

	q := quest.NewQuest("find_the_marker", "Find the Marker", quest.PrioritySide)
	gs.Quests[q.ID] = q
	env := quest.Env{Flags: gs.Flags, Macro: gs.Location.MacroID, Micro: gs.Location.MicroID, Weather: string(gs.Clock.Weather)}
	run("quest start", func() (string, error) {
		quest.Start(q, env, quest.Sink{Flags: gs.Flags})
		return "quest state: " + string(q.CurrentState), nil
	})

	clementine := npc.NPC{ID: "clementine", Name: "Clementine", Macro: "outpost", Micro: "gate", Mood: npc.MoodWary}
	gs.NPCs.Register(clementine)
	oracle := npc.NewOracle(func(system, user string) (string, error) {
		return "", os.ErrDeadlineExceeded // simulate an unreachable backend -> fallback
	}, npc.NewWhitelists([]string{"small_talk"}, nil, nil), nil, gs.NPCMemory)
	run("npc turn (offline fallback)", func() (string, error) {
		resp := oracle.Turn("clementine", "you are clementine", "hello", int64(gs.Clock.TimeMinutes))
		return "npc intent: " + resp.Intent + " (error=" + resp.Error + ")", nil
	})

	choices := events.NewSystem()
	choices.Register(events.Choice{
		ID:    "approach_clementine",
		Title: "Approach Clementine at the gate?",
		Options: []events.Option{
			{ID: "approach", Text: "Approach", Consequences: events.Consequences{Flags: map[string]any{"met_clementine": true}}},
			{ID: "ignore", Text: "Ignore"},
		},
	})
	run("present choice", func() (string, error) {
		ch, err := choices.Present("approach_clementine", gs.Flags)
		if err != nil {
			return "", err
		}
		return ch.Title, nil
	})
	run("make choice", func() (string, error) {
		messages, err := choices.Make("approach", events.ChoiceSink{
			Flags: gs.Flags, Timeline: &gs.Timeline, WallTime: now,
			TotalMinutes: gs.Clock.TotalMinutes(), Location: gs.Location.MacroID + ":" + gs.Location.MicroID,
		})
		if err != nil {
			return "", err
		}
		return messages[0], nil
	})

	log.Info().Int("timeline_entries", len(gs.Timeline.Entries)).Msg("demo complete")
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
