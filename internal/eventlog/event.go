// Package eventlog defines the structured event record appended to
// GameState.Timeline by every subsystem (combat, quest, events), per
// SPEC_FULL.md §4.3.9 / §5 "Timeline event order equals mutation order".
package eventlog

import "time"

// Event is one structured, observability-oriented timeline entry.
type Event struct {
	Category     string         `bson:"category" json:"category"` // "combat", "quest", "event", "exploration"
	Name         string         `bson:"name" json:"name"`
	WallTime     time.Time      `bson:"wallTime" json:"wallTime"`
	TotalMinutes float64        `bson:"totalMinutes" json:"totalMinutes"`
	Payload      map[string]any `bson:"payload,omitempty" json:"payload,omitempty"`
}

// New builds an Event with the given payload.
func New(category, name string, wallTime time.Time, totalMinutes float64, payload map[string]any) Event {
	return Event{
		Category:     category,
		Name:         name,
		WallTime:     wallTime,
		TotalMinutes: totalMinutes,
		Payload:      payload,
	}
}

// Log is an append-only, cap-bounded event sequence (§9 Open Question:
// "journal history unbounded growth" — the same cap policy is reused here
// for the combat/quest/event timeline).
type Log struct {
	Entries []Event `bson:"entries" json:"entries"`
	Cap     int     `bson:"cap" json:"cap"`
	Total   int64   `bson:"total" json:"total"` // monotonic count of ever-appended entries
}

// NewLog builds a Log with the given retention cap (<=0 means unbounded).
func NewLog(cap int) Log {
	return Log{Cap: cap}
}

// Append adds an event, evicting the oldest entry once Cap is exceeded.
func (l *Log) Append(e Event) {
	l.Entries = append(l.Entries, e)
	l.Total++
	if l.Cap > 0 && len(l.Entries) > l.Cap {
		l.Entries = l.Entries[len(l.Entries)-l.Cap:]
	}
}

// Last returns the most recent event matching name, if any.
func (l *Log) Last(name string) (Event, bool) {
	for i := len(l.Entries) - 1; i >= 0; i-- {
		if l.Entries[i].Name == name {
			return l.Entries[i], true
		}
	}
	return Event{}, false
}

// Count returns how many entries currently in the log match name (subject
// to eviction — use Total for the all-time count of a monotone name if that
// matters more to the caller).
func (l *Log) Count(name string) int {
	n := 0
	for _, e := range l.Entries {
		if e.Name == name {
			n++
		}
	}
	return n
}
