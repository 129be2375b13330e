package quest

import (
	"fmt"
	"math/rand/v2"
)

// GoalType selects which step-generation strategy a Goal uses (§4.4.4).
type GoalType string

const (
	GoalCollect GoalType = "collect"
	GoalEscort  GoalType = "escort"
	GoalReach   GoalType = "reach"
	GoalSurvive GoalType = "survive"
)

// Goal is one template-authored objective a generated quest's steps are
// built from.
type Goal struct {
	Type            GoalType          `bson:"type" json:"type"`
	ItemID          string            `bson:"itemId,omitempty" json:"itemId,omitempty"`
	Quantity        int               `bson:"quantity,omitempty" json:"quantity,omitempty"`
	AreaMacro       string            `bson:"areaMacro,omitempty" json:"areaMacro,omitempty"`
	NPC             string            `bson:"npc,omitempty" json:"npc,omitempty"`
	DestinationName string            `bson:"destinationName,omitempty" json:"destinationName,omitempty"`
	Location        map[string]string `bson:"location,omitempty" json:"location,omitempty"`
	DurationMinutes int               `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
}

// Template is a content-authored blueprint for a procedurally generated
// side quest.
type Template struct {
	ID         string             `bson:"id" json:"id"`
	Title      string             `bson:"title" json:"title"`
	When       []Condition        `bson:"when,omitempty" json:"when,omitempty"`
	BaseWeight float64            `bson:"baseWeight" json:"baseWeight"`
	Weights    map[string]float64 `bson:"weights,omitempty" json:"weights,omitempty"`
	Goals      []Goal             `bson:"goals" json:"goals"`
	Rewards    Reward             `bson:"rewards,omitempty" json:"rewards,omitempty"`
}

// GenerationContext is the weight-band input the generator reads beyond
// the Condition DSL Env (§4.4.4's weather/daytime/location/morale bands).
type GenerationContext struct {
	Weather string
	Daytime string
	Macro   string
	Morale  float64
}

func templateWeight(t Template, ctx GenerationContext) float64 {
	w := t.BaseWeight
	if m, ok := t.Weights[ctx.Daytime]; ok {
		w *= m
	}
	if m, ok := t.Weights[ctx.Weather]; ok {
		w *= m
	}
	if m, ok := t.Weights["location_"+ctx.Macro]; ok {
		w *= m
	}
	if ctx.Morale < 30 {
		if m, ok := t.Weights["low_morale"]; ok {
			w *= m
		}
	} else if ctx.Morale > 70 {
		if m, ok := t.Weights["high_morale"]; ok {
			w *= m
		}
	}
	if w < 0 {
		return 0
	}
	return w
}

type weightedTemplate struct {
	template Template
	weight   float64
}

// GenerateSideQuests draws up to maxQuests templates without replacement
// via weighted sampling, instantiating a Quest per draw (§4.4.4).
func GenerateSideQuests(templates []Template, env Env, ctx GenerationContext, maxQuests int, rng *rand.Rand) []Quest {
	var eligible []weightedTemplate
	for _, t := range templates {
		if !CheckAll(t.When, env) {
			continue
		}
		w := templateWeight(t, ctx)
		if w > 0 {
			eligible = append(eligible, weightedTemplate{t, w})
		}
	}

	draws := min(maxQuests, len(eligible))
	quests := make([]Quest, 0, draws)
	for i := 0; i < draws && len(eligible) > 0; i++ {
		total := 0.0
		for _, e := range eligible {
			total += e.weight
		}
		if total <= 0 {
			break
		}
		selection := rng.Float64() * total
		cumulative := 0.0
		selectedIdx := len(eligible) - 1
		for idx, e := range eligible {
			cumulative += e.weight
			if cumulative >= selection {
				selectedIdx = idx
				break
			}
		}

		quests = append(quests, instantiate(eligible[selectedIdx].template, ctx, rng))
		eligible = append(eligible[:selectedIdx], eligible[selectedIdx+1:]...)
	}
	return quests
}

func instantiate(t Template, ctx GenerationContext, rng *rand.Rand) Quest {
	id := fmt.Sprintf("side_%s_%04d", t.ID, rng.IntN(9000)+1000)

	steps := make([]Step, 0, len(t.Goals))
	for i, g := range t.Goals {
		if step, ok := buildStep(g, i); ok {
			steps = append(steps, step)
		}
	}

	return Quest{
		ID:                id,
		Title:             t.Title,
		Priority:          PrioritySide,
		CurrentState:      NotStarted,
		Steps:             steps,
		Prerequisites:     nil,
		RewardsOnComplete: t.Rewards,
		JournalNodes:      buildJournalNodes(t, id, ctx),
	}
}

func buildStep(g Goal, index int) (Step, bool) {
	switch g.Type {
	case GoalCollect:
		desc := fmt.Sprintf("Find %dx %s", g.Quantity, g.ItemID)
		if g.AreaMacro != "" {
			desc += " in the " + g.AreaMacro + " area"
		}
		return Step{
			ID:          fmt.Sprintf("collect_%d", index),
			Title:       "Collect " + g.ItemID,
			Description: desc,
			CompleteConditions: []Condition{
				{Op: "has_item", Args: map[string]any{"id": g.ItemID, "qty": g.Quantity}},
			},
		}, true
	case GoalEscort:
		desc := "Escort " + g.NPC + " to safety"
		if g.DestinationName != "" {
			desc += " at " + g.DestinationName
		}
		flagKey := "escort_" + g.NPC + "_complete"
		return Step{
			ID:          fmt.Sprintf("escort_%d", index),
			Title:       "Escort " + g.NPC,
			Description: desc,
			CompleteConditions: []Condition{
				{Op: "flag_is", Args: map[string]any{"key": flagKey, "value": true}},
			},
		}, true
	case GoalReach:
		return Step{
			ID:          fmt.Sprintf("reach_%d", index),
			Title:       "Reach the location",
			Description: "Reach the marked destination",
			CompleteConditions: []Condition{
				{Op: "in_location", Args: locationArgs(g.Location)},
			},
		}, true
	case GoalSurvive:
		flagKey := fmt.Sprintf("survived_%dmin", g.DurationMinutes)
		return Step{
			ID:          fmt.Sprintf("survive_%d", index),
			Title:       "Survive",
			Description: fmt.Sprintf("Survive for %d minutes", g.DurationMinutes),
			CompleteConditions: []Condition{
				{Op: "flag_is", Args: map[string]any{"key": flagKey, "value": true}},
			},
		}, true
	default:
		return Step{}, false
	}
}

func locationArgs(loc map[string]string) map[string]any {
	args := make(map[string]any, len(loc))
	for k, v := range loc {
		args[k] = v
	}
	return args
}

func buildJournalNodes(t Template, questID string, ctx GenerationContext) map[string]string {
	nodes := map[string]string{
		fmt.Sprintf("q.%s.start.default", questID):    "A new opportunity presents itself: " + t.Title,
		fmt.Sprintf("q.%s.complete.default", questID): "The objective has been reached. Time to move on.",
	}
	if ctx.Weather == "rain" {
		nodes[fmt.Sprintf("q.%s.start.rain", questID)] = "Rain hammers down while you weigh this new challenge: " + t.Title
	}
	if ctx.Daytime == "night" {
		nodes[fmt.Sprintf("q.%s.start.night", questID)] = "Darkness presses in, but the need is clear: " + t.Title
	}
	return nodes
}
