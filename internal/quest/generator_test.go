package quest

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateSideQuestsFiltersByWhenCondition(t *testing.T) {
	templates := []Template{
		{ID: "scavenge", Title: "Scavenge Run", BaseWeight: 1.0,
			When:  []Condition{{Op: "flag_is", Args: map[string]any{"key": "camp_established"}}},
			Goals: []Goal{{Type: GoalCollect, ItemID: "bandage", Quantity: 3}},
		},
	}
	quests := GenerateSideQuests(templates, Env{}, GenerationContext{}, 3, rand.New(rand.NewPCG(1, 2)))
	require.Empty(t, quests)

	quests = GenerateSideQuests(templates, Env{Flags: map[string]any{"camp_established": true}}, GenerationContext{}, 3, rand.New(rand.NewPCG(1, 2)))
	require.Len(t, quests, 1)
	require.Contains(t, quests[0].ID, "side_scavenge_")
	require.Len(t, quests[0].Steps, 1)
	require.Equal(t, PrioritySide, quests[0].Priority)
}

func TestGenerateSideQuestsAppliesMoraleWeightBand(t *testing.T) {
	templates := []Template{
		{ID: "t1", Title: "Desperate Measures", BaseWeight: 1.0, Weights: map[string]float64{"low_morale": 5.0},
			Goals: []Goal{{Type: GoalReach, Location: map[string]string{"micro": "vault"}}}},
	}
	ctx := GenerationContext{Morale: 10}
	quests := GenerateSideQuests(templates, Env{}, ctx, 1, rand.New(rand.NewPCG(1, 2)))
	require.Len(t, quests, 1)
}

func TestGenerateSideQuestsZeroWeightExcludesTemplate(t *testing.T) {
	templates := []Template{
		{ID: "t1", Title: "Never", BaseWeight: 1.0, Weights: map[string]float64{"rain": 0},
			Goals: []Goal{{Type: GoalCollect, ItemID: "x", Quantity: 1}}},
	}
	ctx := GenerationContext{Weather: "rain"}
	quests := GenerateSideQuests(templates, Env{}, ctx, 1, rand.New(rand.NewPCG(1, 2)))
	require.Empty(t, quests)
}

func TestGenerateSideQuestsRespectsMaxQuestsAndNoDuplicates(t *testing.T) {
	templates := []Template{
		{ID: "a", Title: "A", BaseWeight: 1.0, Goals: []Goal{{Type: GoalSurvive, DurationMinutes: 30}}},
		{ID: "b", Title: "B", BaseWeight: 1.0, Goals: []Goal{{Type: GoalSurvive, DurationMinutes: 60}}},
		{ID: "c", Title: "C", BaseWeight: 1.0, Goals: []Goal{{Type: GoalSurvive, DurationMinutes: 90}}},
	}
	quests := GenerateSideQuests(templates, Env{}, GenerationContext{}, 2, rand.New(rand.NewPCG(7, 11)))
	require.Len(t, quests, 2)
	require.NotEqual(t, quests[0].ID, quests[1].ID)
}

func TestBuildStepEscortUsesNPCCompleteFlag(t *testing.T) {
	step, ok := buildStep(Goal{Type: GoalEscort, NPC: "marcus"}, 0)
	require.True(t, ok)
	require.Equal(t, "escort_0", step.ID)
	require.Equal(t, "escort_marcus_complete", step.CompleteConditions[0].Args["key"])
}

func TestBuildJournalNodesIncludesWeatherAndNightVariants(t *testing.T) {
	nodes := buildJournalNodes(Template{ID: "t1", Title: "Night Watch"}, "side_t1_1234", GenerationContext{Weather: "rain", Daytime: "night"})
	require.Contains(t, nodes, "q.side_t1_1234.start.default")
	require.Contains(t, nodes, "q.side_t1_1234.start.rain")
	require.Contains(t, nodes, "q.side_t1_1234.start.night")
}
