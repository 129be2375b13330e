package exploration

import (
	"math/rand/v2"

	"github.com/GFrenk016/secondavita-core/internal/clock"
)

// AmbientState is the rate-limit/repeat-avoidance cursor for ambient
// snippets, persisted alongside Memory.
type AmbientState struct {
	LastSnippetText      string  `bson:"lastSnippetText" json:"lastSnippetText"`
	LastEmitTotalMinutes float64 `bson:"lastEmitTotalMinutes" json:"lastEmitTotalMinutes"`

	// ForceText is a test/debug override: when set, the next Look emits it
	// verbatim (bypassing rate limit and RNG) and the field self-clears.
	ForceText string `bson:"-" json:"-"`
}

// AmbientCatalog maps a "phase|weather" signature to its candidate snippet
// pool, content-authored per SPEC_FULL.md §4.2 "ambient snippet policy".
type AmbientCatalog map[string][]string

func nextAmbientSnippet(ambient *AmbientState, catalog AmbientCatalog, clk *clock.State, minGapMinutes float64, rng *rand.Rand) (string, bool) {
	if ambient.ForceText != "" {
		text := ambient.ForceText
		ambient.ForceText = ""
		ambient.LastSnippetText = text
		ambient.LastEmitTotalMinutes = clk.TotalMinutes()
		return text, true
	}

	total := clk.TotalMinutes()
	// An empty LastSnippetText means nothing has been emitted yet.
	if ambient.LastSnippetText != "" && total-ambient.LastEmitTotalMinutes < minGapMinutes {
		return "", false
	}

	pool := catalog[signature(clk.Daytime, clk.Weather)]
	if len(pool) == 0 {
		return "", false
	}

	candidates := pool
	if len(pool) > 1 {
		candidates = make([]string, 0, len(pool))
		for _, s := range pool {
			if s != ambient.LastSnippetText {
				candidates = append(candidates, s)
			}
		}
		if len(candidates) == 0 {
			candidates = pool
		}
	}

	text := candidates[rng.IntN(len(candidates))]
	ambient.LastSnippetText = text
	ambient.LastEmitTotalMinutes = total
	return text, true
}
