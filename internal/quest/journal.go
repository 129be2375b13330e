package quest

import (
	"fmt"
	"regexp"
	"strings"
)

// JournalEntry is one emitted, rendered journal line (§4.4.5).
type JournalEntry struct {
	QuestID          string  `bson:"questId" json:"questId"`
	NodeKey          string  `bson:"nodeKey" json:"nodeKey"`
	Text             string  `bson:"text" json:"text"`
	TimestampMinutes float64 `bson:"timestampMinutes" json:"timestampMinutes"`
	Weather          string  `bson:"weather" json:"weather"`
	Location         string  `bson:"location" json:"location"`
}

// JournalEnv is the contextual state Emit reads to resolve variants and
// fill placeholders.
type JournalEnv struct {
	TimeMinutes int
	DayCount    int
	Weather     string
	Daytime     string
	Micro       string
	Morale      float64
	NPCNames    map[string]string
}

var npcPlaceholder = regexp.MustCompile(`\{npc:(\w+)\}`)

// Emit resolves the best variant for nodeKey, substitutes placeholders,
// and appends the rendered entry to history (§4.4.5).
func Emit(q *Quest, nodeKey string, ctx map[string]string, env JournalEnv, history *[]JournalEntry) string {
	text := bestVariant(q, nodeKey, env)
	if text == "" {
		return fmt.Sprintf("[Missing journal entry: %s]", nodeKey)
	}
	text = substitutePlaceholders(text, ctx, env)

	*history = append(*history, JournalEntry{
		QuestID:          q.ID,
		NodeKey:          nodeKey,
		Text:             text,
		TimestampMinutes: float64(env.TimeMinutes),
		Weather:          env.Weather,
		Location:         env.Micro,
	})
	return text
}

// bestVariant implements the precedence order from §4.4.5: weather-exact,
// phase-exact, location, mood, then base key.
func bestVariant(q *Quest, baseKey string, env JournalEnv) string {
	keyBase := strings.TrimSuffix(baseKey, ".default")

	if v, ok := q.JournalNodes[keyBase+"."+env.Weather]; ok {
		return v
	}
	if v, ok := q.JournalNodes[keyBase+"."+env.Daytime]; ok {
		return v
	}
	if v, ok := q.JournalNodes[keyBase+"."+env.Micro]; ok {
		return v
	}
	if env.Morale < 30 {
		if v, ok := q.JournalNodes[keyBase+".desperate"]; ok {
			return v
		}
	} else if env.Morale > 70 {
		if v, ok := q.JournalNodes[keyBase+".hopeful"]; ok {
			return v
		}
	}
	return q.JournalNodes[baseKey]
}

func substitutePlaceholders(text string, ctx map[string]string, env JournalEnv) string {
	for key, value := range ctx {
		text = strings.ReplaceAll(text, "{"+key+"}", value)
	}

	hh := env.TimeMinutes / 60
	mm := env.TimeMinutes % 60
	replacements := map[string]string{
		"{time}":     fmt.Sprintf("%02d:%02d", hh, mm),
		"{weather}":  env.Weather,
		"{location}": env.Micro,
		"{day}":      fmt.Sprintf("%d", env.DayCount),
		"{morale}":   fmt.Sprintf("%v", env.Morale),
	}
	for placeholder, value := range replacements {
		text = strings.ReplaceAll(text, placeholder, value)
	}

	return npcPlaceholder.ReplaceAllStringFunc(text, func(match string) string {
		id := npcPlaceholder.FindStringSubmatch(match)[1]
		if name, ok := env.NPCNames[id]; ok {
			return name
		}
		return strings.ToUpper(id[:1]) + id[1:]
	})
}
