// Package events implements SPEC_FULL.md §4.5: declarative room/ambient
// events keyed off the content registry, and registered narrative choices.
//
// Grounded on original_source/engine/core/{events,ambient_events,choices}.py;
// conditions reuse the expr-compile-then-vm.Run idiom from internal/quest/dsl.go
// (itself grounded on nstehr-vimy/vimy-core/rules/engine.go), evaluated
// against registry.EventCondition/EventEffect instead of a separate DSL.
package events

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/GFrenk016/secondavita-core/internal/eventlog"
	"github.com/GFrenk016/secondavita-core/internal/playerstate"
	"github.com/GFrenk016/secondavita-core/internal/registry"
)

// Env is the expr evaluation environment a room/ambient EventCondition runs
// against — a narrower, content-facing counterpart to quest.Env.
type Env struct {
	Flags         map[string]any
	Inventory     map[string]bool
	VisitedMicros map[string]bool
	Macro         string
	Micro         string
	Daytime       string
	Weather       string
	DayCount      int
	TimeMinutes   int
}

// Location renders the "macro:micro" key original_source/engine/core/state.py
// calls location_key().
func (e Env) Location() string {
	return e.Macro + ":" + e.Micro
}

// CheckCondition evaluates one content-authored condition. Unlike
// quest.Condition, definitions are content data (not pre-parsed structs), so
// the program is compiled fresh per check — condition lists attached to a
// room/ambient event are short and evaluated at most once per transition or
// poll, same cost profile as the original's per-call dict walk.
func CheckCondition(c registry.EventCondition, env Env) bool {
	prog, err := expr.Compile(conditionSource(c), expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return false
	}
	out, err := vm.Run(prog, env)
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}

// CheckAll reports whether every condition holds (vacuously true for nil).
func CheckAll(conds []registry.EventCondition, env Env) bool {
	for _, c := range conds {
		if !CheckCondition(c, env) {
			return false
		}
	}
	return true
}

func conditionSource(c registry.EventCondition) string {
	inner := conditionInner(c)
	if c.Negate {
		return "!(" + inner + ")"
	}
	return inner
}

func conditionInner(c registry.EventCondition) string {
	switch c.Type {
	case "flag":
		if c.Value == nil {
			return fmt.Sprintf("Flags[%q] == true", c.Key)
		}
		return fmt.Sprintf("Flags[%q] == %s", c.Key, literal(c.Value))
	case "location":
		return fmt.Sprintf("Location() == %q", c.Key)
	case "location_contains":
		return fmt.Sprintf("contains(Location(), %q)", c.Key)
	case "daytime":
		return fmt.Sprintf("Daytime == %q", c.Key)
	case "weather":
		return fmt.Sprintf("Weather == %q", c.Key)
	case "day_count":
		if c.Value != nil {
			return fmt.Sprintf("DayCount >= %s", literal(c.Value))
		}
		return "DayCount > 0"
	case "time_minutes":
		if c.Value != nil {
			return fmt.Sprintf("TimeMinutes >= %s", literal(c.Value))
		}
		return "false"
	case "visited":
		return fmt.Sprintf("VisitedMicros[%q]", c.Key)
	case "has_item":
		return fmt.Sprintf("Inventory[%q]", c.Key)
	default:
		return "false"
	}
}

func literal(v any) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "true"
		}
		return "false"
	case string:
		return fmt.Sprintf("%q", val)
	case int:
		return fmt.Sprintf("%d", val)
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Sink bundles the mutable state effects write through, mirroring
// quest.Sink's role of decoupling this package from a concrete GameState.
type Sink struct {
	Flags                map[string]any
	Inventory            *playerstate.Inventory
	Items                map[string]registry.Item
	Timeline             *eventlog.Log
	Weather              *string
	ManualOffsetMinutes  *float64
	TotalMinutesForStamp float64
	WallTime             time.Time
	Location             string
}

// ApplyEffects runs every effect of a triggered event in order and returns
// the messages to surface to the player (§4.5).
func ApplyEffects(effects []registry.EventEffect, sink Sink) []string {
	var messages []string
	for _, eff := range effects {
		switch eff.Type {
		case "show_message":
			if text, ok := eff.Args["text"].(string); ok {
				messages = append(messages, text)
			}
		case "set_flag":
			key, _ := eff.Args["key"].(string)
			if key != "" && sink.Flags != nil {
				sink.Flags[key] = eff.Args["value"]
			}
		case "add_item":
			item, _ := eff.Args["item"].(string)
			qty := intArg(eff.Args, "qty", 1)
			if item != "" && sink.Inventory != nil {
				if sink.Inventory.Add(sink.Items, item, qty) {
					messages = append(messages, fmt.Sprintf("You got: %s", item))
				} else {
					messages = append(messages, fmt.Sprintf("You found %s but can't carry it.", item))
				}
			}
		case "remove_item":
			item, _ := eff.Args["item"].(string)
			qty := intArg(eff.Args, "qty", 1)
			if item != "" && sink.Inventory != nil && sink.Inventory.Remove(item, qty) {
				messages = append(messages, fmt.Sprintf("You lost: %s", item))
			}
		case "timeline_event":
			text, _ := eff.Args["text"].(string)
			if sink.Timeline != nil {
				sink.Timeline.Append(eventlog.New("event", text, sink.WallTime, sink.TotalMinutesForStamp, map[string]any{
					"location": sink.Location,
				}))
			}
		case "change_weather":
			weather, _ := eff.Args["weather"].(string)
			if weather != "" && sink.Weather != nil {
				*sink.Weather = weather
				messages = append(messages, fmt.Sprintf("The weather turns to %s.", weather))
			}
		case "advance_time":
			minutes := intArg(eff.Args, "minutes", 0)
			if minutes != 0 && sink.ManualOffsetMinutes != nil {
				*sink.ManualOffsetMinutes += float64(minutes)
				messages = append(messages, fmt.Sprintf("Time advances by %d minutes.", minutes))
			}
		}
	}
	return messages
}

func intArg(args map[string]any, key string, def int) int {
	v, ok := args[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

// State is the runtime bookkeeping the original kept on EventSystem/
// AmbientEventSystem: fired-once set, per-event cooldown stamps, and the
// ambient poll cursor.
type State struct {
	Fired            map[string]bool
	Cooldowns        map[string]float64 // event id -> total minutes last fired
	LastAmbientCheck float64
}

// NewState builds an empty State.
func NewState() State {
	return State{Fired: map[string]bool{}, Cooldowns: map[string]float64{}}
}

// CanTrigger checks the one_time/cooldown/chance gate (§4.5), independent of
// the event's own conditions.
func (s *State) CanTrigger(def registry.EventDef, totalMinutes float64, rng *rand.Rand) bool {
	if def.OneTime && s.Fired[def.ID] {
		return false
	}
	if def.CooldownMinutes > 0 {
		last, ok := s.Cooldowns[def.ID]
		if ok && totalMinutes-last < def.CooldownMinutes {
			return false
		}
	}
	chance := def.Chance
	if chance == 0 {
		chance = 1.0
	}
	if chance < 1.0 && rng.Float64() > chance {
		return false
	}
	return true
}

// Trigger fires def unconditionally (gates and conditions already checked by
// the caller), applies its effects, and records fired/cooldown bookkeeping.
func (s *State) Trigger(def registry.EventDef, sink Sink, totalMinutes float64) []string {
	messages := ApplyEffects(def.Effects, sink)
	s.Fired[def.ID] = true
	if def.CooldownMinutes > 0 {
		s.Cooldowns[def.ID] = totalMinutes
	}
	return messages
}

// ProcessRoomEvents runs every event id mapped to locationKey/triggerType
// ("on_enter" or "on_exit"), applying gates, conditions, and effects in
// registration order.
func ProcessRoomEvents(defs map[string]registry.EventDef, roomEvents map[string]registry.RoomEvents, locationKey, triggerType string, env Env, sink Sink, state *State, totalMinutes float64, rng *rand.Rand) []string {
	room, ok := roomEvents[locationKey]
	if !ok {
		return nil
	}
	var ids []string
	switch triggerType {
	case "on_enter":
		ids = room.OnEnter
	case "on_exit":
		ids = room.OnExit
	}
	var messages []string
	for _, id := range ids {
		def, ok := defs[id]
		if !ok {
			continue
		}
		if !state.CanTrigger(def, totalMinutes, rng) {
			continue
		}
		if !CheckAll(def.Conditions, env) {
			continue
		}
		messages = append(messages, state.Trigger(def, sink, totalMinutes)...)
	}
	return messages
}

// ProcessAmbientEvents polls every event of type "ambient", rate-limited to
// once per 5 simulated minutes, firing at most one per pass (§4.5).
func ProcessAmbientEvents(defs map[string]registry.EventDef, env Env, sink Sink, state *State, totalMinutes float64, rng *rand.Rand) []string {
	if totalMinutes-state.LastAmbientCheck < 5 {
		return nil
	}
	state.LastAmbientCheck = totalMinutes

	ids := make([]string, 0, len(defs))
	for id, def := range defs {
		if def.Type == "ambient" {
			ids = append(ids, id)
		}
	}
	sortStrings(ids)

	for _, id := range ids {
		def := defs[id]
		if !state.CanTrigger(def, totalMinutes, rng) {
			continue
		}
		if !CheckAll(def.Conditions, env) {
			continue
		}
		return state.Trigger(def, sink, totalMinutes)
	}
	return nil
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
