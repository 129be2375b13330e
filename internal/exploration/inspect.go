package exploration

import (
	"github.com/GFrenk016/secondavita-core/internal/engineerr"
	"github.com/GFrenk016/secondavita-core/internal/registry"
)

// Tier is the progress a player has recorded against one interactable.
type Tier int

const (
	TierNone Tier = iota
	TierInspected
	TierExamined
	TierSearched
)

// Progress is the per-object advancement through inspect->examine->search,
// keyed by interactable id. Embedded in GameState so "has_examined_marker"
// visible_flag checks and quest conditions can read it back.
type Progress map[string]Tier

// NewProgress returns an empty progress map.
func NewProgress() Progress { return Progress{} }

// HasExaminedMarker reports whether id has cleared the examine tier —
// backs the `has_examined_marker` visible_flag predicate.
func (p Progress) HasExaminedMarker(id string) bool {
	return p[id] >= TierExamined
}

func hintLine(next Tier) string {
	switch next {
	case TierExamined:
		return "(you could examine this further)"
	case TierSearched:
		return "(a closer search might turn up more)"
	default:
		return ""
	}
}

// Inspect records the first tier against an object. Repeat calls return the
// `subsequent` text instead of `first_time`.
func Inspect(p Progress, id string, strs registry.Strings) (string, error) {
	entry := strs.Oggetti[id]
	text := entry.InspectFirstTime
	if p[id] >= TierInspected {
		if entry.InspectSubsequent != "" {
			text = entry.InspectSubsequent
		} else {
			text = entry.InspectFirstTime
		}
	}
	if p[id] < TierInspected {
		p[id] = TierInspected
	}
	return appendHint(text, hintLine(TierExamined)), nil
}

// Examine requires inspect to have been recorded first.
func Examine(p Progress, id string, strs registry.Strings) (string, error) {
	if p[id] < TierInspected {
		return "", engineerr.New(engineerr.PreconditionFailed, "examine requires inspect first")
	}
	entry := strs.Oggetti[id]
	if p[id] < TierExamined {
		p[id] = TierExamined
	}
	return appendHint(entry.ExamineText, hintLine(TierSearched)), nil
}

// Search requires examine to have been recorded first.
func Search(p Progress, id string, strs registry.Strings) (string, error) {
	if p[id] < TierExamined {
		return "", engineerr.New(engineerr.PreconditionFailed, "search requires examine first")
	}
	entry := strs.Oggetti[id]
	if p[id] < TierSearched {
		p[id] = TierSearched
	}
	return appendHint(entry.SearchText, ""), nil
}

func appendHint(text, hint string) string {
	if hint == "" {
		return text
	}
	return text + "\n" + hint
}
