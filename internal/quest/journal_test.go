package quest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testJournalQuest() *Quest {
	q := NewQuest("q1", "Find the Bandage", PriorityMain)
	q.JournalNodes = map[string]string{
		"q.q1.start.default": "You set out at {time} to find a bandage.",
		"q.q1.start.rain":     "Rain soaks everything as you leave to find a bandage.",
		"q.q1.start.night":    "Night has fallen; still, the bandage waits.",
		"q.q1.start.desperate": "You are desperate for a bandage.",
		"q.q1.greet.default":  "{npc:clementine} waves at you.",
	}
	return q
}

func TestEmitBaseVariant(t *testing.T) {
	q := testJournalQuest()
	var history []JournalEntry
	text := Emit(q, "q.q1.start.default", nil, JournalEnv{TimeMinutes: 7 * 60, Weather: "clear", Daytime: "morning", Morale: 50}, &history)
	require.Equal(t, "You set out at 07:00 to find a bandage.", text)
	require.Len(t, history, 1)
	require.Equal(t, "q1", history[0].QuestID)
}

func TestEmitWeatherVariantTakesPrecedence(t *testing.T) {
	q := testJournalQuest()
	var history []JournalEntry
	text := Emit(q, "q.q1.start.default", nil, JournalEnv{Weather: "rain", Daytime: "morning"}, &history)
	require.Contains(t, text, "Rain soaks everything")
}

func TestEmitPhaseVariantWhenNoWeatherMatch(t *testing.T) {
	q := testJournalQuest()
	var history []JournalEntry
	text := Emit(q, "q.q1.start.default", nil, JournalEnv{Weather: "clear", Daytime: "night"}, &history)
	require.Contains(t, text, "Night has fallen")
}

func TestEmitMoodVariantWhenLowMorale(t *testing.T) {
	q := testJournalQuest()
	var history []JournalEntry
	text := Emit(q, "q.q1.start.default", nil, JournalEnv{Weather: "clear", Daytime: "morning", Morale: 10}, &history)
	require.Contains(t, text, "desperate")
}

func TestEmitMissingNodeReportsPlaceholder(t *testing.T) {
	q := testJournalQuest()
	var history []JournalEntry
	text := Emit(q, "q.q1.unknown.default", nil, JournalEnv{}, &history)
	require.Equal(t, "[Missing journal entry: q.q1.unknown.default]", text)
	require.Empty(t, history)
}

func TestEmitSubstitutesNPCPlaceholderFromRegistry(t *testing.T) {
	q := testJournalQuest()
	var history []JournalEntry
	text := Emit(q, "q.q1.greet.default", nil, JournalEnv{NPCNames: map[string]string{"clementine": "Clementine"}}, &history)
	require.Equal(t, "Clementine waves at you.", text)
}

func TestEmitSubstitutesCtxPlaceholders(t *testing.T) {
	q := testJournalQuest()
	q.JournalNodes["q.q1.custom.default"] = "You found {count} supplies."
	var history []JournalEntry
	text := Emit(q, "q.q1.custom.default", map[string]string{"count": "3"}, JournalEnv{}, &history)
	require.Equal(t, "You found 3 supplies.", text)
}
