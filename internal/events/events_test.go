package events

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GFrenk016/secondavita-core/internal/eventlog"
	"github.com/GFrenk016/secondavita-core/internal/playerstate"
	"github.com/GFrenk016/secondavita-core/internal/registry"
)

func testEnv() Env {
	return Env{
		Flags:         map[string]any{},
		Inventory:     map[string]bool{},
		VisitedMicros: map[string]bool{},
		Macro:         "outpost",
		Micro:         "gate",
		Daytime:       "morning",
		Weather:       "clear",
		DayCount:      2,
		TimeMinutes:   420,
	}
}

func TestCheckConditionFlagDefaultsToTrue(t *testing.T) {
	env := testEnv()
	c := registry.EventCondition{Type: "flag", Key: "gate_open"}
	require.False(t, CheckCondition(c, env))
	env.Flags["gate_open"] = true
	require.True(t, CheckCondition(c, env))
}

func TestCheckConditionFlagExplicitValue(t *testing.T) {
	env := testEnv()
	env.Flags["mood"] = "angry"
	c := registry.EventCondition{Type: "flag", Key: "mood", Value: "angry"}
	require.True(t, CheckCondition(c, env))
	c.Value = "calm"
	require.False(t, CheckCondition(c, env))
}

func TestCheckConditionLocationAndContains(t *testing.T) {
	env := testEnv()
	require.True(t, CheckCondition(registry.EventCondition{Type: "location", Key: "outpost:gate"}, env))
	require.False(t, CheckCondition(registry.EventCondition{Type: "location", Key: "outpost:yard"}, env))
	require.True(t, CheckCondition(registry.EventCondition{Type: "location_contains", Key: "gate"}, env))
}

func TestCheckConditionDaytimeWeatherDayCount(t *testing.T) {
	env := testEnv()
	require.True(t, CheckCondition(registry.EventCondition{Type: "daytime", Key: "morning"}, env))
	require.True(t, CheckCondition(registry.EventCondition{Type: "weather", Key: "clear"}, env))
	require.True(t, CheckCondition(registry.EventCondition{Type: "day_count", Value: 2}, env))
	require.False(t, CheckCondition(registry.EventCondition{Type: "day_count", Value: 3}, env))
	require.True(t, CheckCondition(registry.EventCondition{Type: "day_count"}, env))
}

func TestCheckConditionVisitedAndHasItem(t *testing.T) {
	env := testEnv()
	env.VisitedMicros["gate"] = true
	env.Inventory["bandage"] = true
	require.True(t, CheckCondition(registry.EventCondition{Type: "visited", Key: "gate"}, env))
	require.False(t, CheckCondition(registry.EventCondition{Type: "visited", Key: "yard"}, env))
	require.True(t, CheckCondition(registry.EventCondition{Type: "has_item", Key: "bandage"}, env))
}

func TestCheckConditionNegate(t *testing.T) {
	env := testEnv()
	c := registry.EventCondition{Type: "weather", Key: "rain", Negate: true}
	require.True(t, CheckCondition(c, env))
}

func TestCheckAllRequiresEvery(t *testing.T) {
	env := testEnv()
	conds := []registry.EventCondition{
		{Type: "daytime", Key: "morning"},
		{Type: "weather", Key: "rain"},
	}
	require.False(t, CheckAll(conds, env))
}

func TestApplyEffectsShowMessageSetFlagAddRemoveItem(t *testing.T) {
	items := map[string]registry.Item{"bandage": {ID: "bandage", StackMax: 5}}
	inv := playerstate.Inventory{}
	flags := map[string]any{}
	messages := ApplyEffects([]registry.EventEffect{
		{Type: "show_message", Args: map[string]any{"text": "A crow calls."}},
		{Type: "set_flag", Args: map[string]any{"key": "heard_crow", "value": true}},
		{Type: "add_item", Args: map[string]any{"item": "bandage", "qty": 2}},
	}, Sink{Flags: flags, Inventory: &inv, Items: items})

	require.Equal(t, []string{"A crow calls.", "You got: bandage"}, messages)
	require.Equal(t, true, flags["heard_crow"])
	require.Equal(t, 2, inv.Quantity("bandage"))

	messages = ApplyEffects([]registry.EventEffect{
		{Type: "remove_item", Args: map[string]any{"item": "bandage", "qty": 1}},
	}, Sink{Inventory: &inv})
	require.Equal(t, []string{"You lost: bandage"}, messages)
	require.Equal(t, 1, inv.Quantity("bandage"))
}

func TestApplyEffectsTimelineChangeWeatherAdvanceTime(t *testing.T) {
	log := eventlog.NewLog(10)
	weather := "clear"
	offset := 0.0
	messages := ApplyEffects([]registry.EventEffect{
		{Type: "timeline_event", Args: map[string]any{"text": "The ground trembles."}},
		{Type: "change_weather", Args: map[string]any{"weather": "storm"}},
		{Type: "advance_time", Args: map[string]any{"minutes": 30}},
	}, Sink{Timeline: &log, Weather: &weather, ManualOffsetMinutes: &offset})

	require.Len(t, messages, 2)
	require.Equal(t, "storm", weather)
	require.Equal(t, 30.0, offset)
	require.Equal(t, int64(1), log.Total)
}

func TestStateCanTriggerOneTimeAndCooldown(t *testing.T) {
	s := NewState()
	rng := rand.New(rand.NewPCG(1, 2))
	def := registry.EventDef{ID: "e1", OneTime: true}
	require.True(t, s.CanTrigger(def, 0, rng))
	s.Trigger(def, Sink{}, 0)
	require.False(t, s.CanTrigger(def, 100, rng))

	def2 := registry.EventDef{ID: "e2", CooldownMinutes: 60}
	require.True(t, s.CanTrigger(def2, 0, rng))
	s.Trigger(def2, Sink{}, 0)
	require.False(t, s.CanTrigger(def2, 30, rng))
	require.True(t, s.CanTrigger(def2, 61, rng))
}

func TestProcessRoomEventsFiltersByTriggerTypeAndConditions(t *testing.T) {
	defs := map[string]registry.EventDef{
		"crow": {ID: "crow", Effects: []registry.EventEffect{{Type: "show_message", Args: map[string]any{"text": "A crow calls."}}}},
		"gated": {ID: "gated", Conditions: []registry.EventCondition{{Type: "flag", Key: "never"}},
			Effects: []registry.EventEffect{{Type: "show_message", Args: map[string]any{"text": "unreachable"}}}},
	}
	roomEvents := map[string]registry.RoomEvents{
		"outpost:gate": {OnEnter: []string{"crow", "gated"}},
	}
	env := testEnv()
	state := NewState()
	rng := rand.New(rand.NewPCG(1, 2))

	messages := ProcessRoomEvents(defs, roomEvents, "outpost:gate", "on_enter", env, Sink{}, &state, 0, rng)
	require.Equal(t, []string{"A crow calls."}, messages)

	messages = ProcessRoomEvents(defs, roomEvents, "outpost:gate", "on_exit", env, Sink{}, &state, 0, rng)
	require.Empty(t, messages)
}

func TestProcessAmbientEventsRateLimitedAndFiresAtMostOne(t *testing.T) {
	defs := map[string]registry.EventDef{
		"wind": {ID: "wind", Type: "ambient", Effects: []registry.EventEffect{{Type: "show_message", Args: map[string]any{"text": "Wind stirs the dust."}}}},
		"bird": {ID: "bird", Type: "ambient", Effects: []registry.EventEffect{{Type: "show_message", Args: map[string]any{"text": "A bird sings."}}}},
	}
	env := testEnv()
	state := NewState()
	rng := rand.New(rand.NewPCG(1, 2))

	messages := ProcessAmbientEvents(defs, env, Sink{}, &state, 10, rng)
	require.Len(t, messages, 1)

	messages = ProcessAmbientEvents(defs, env, Sink{}, &state, 12, rng)
	require.Empty(t, messages)

	messages = ProcessAmbientEvents(defs, env, Sink{}, &state, 16, rng)
	require.Len(t, messages, 1)
}
