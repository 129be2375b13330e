package events

import (
	"time"

	"github.com/GFrenk016/secondavita-core/internal/engineerr"
	"github.com/GFrenk016/secondavita-core/internal/eventlog"
)

// ChoiceType categorizes a registered narrative choice (§4.5).
type ChoiceType string

const (
	ChoiceDialogue  ChoiceType = "dialogue"
	ChoiceAction    ChoiceType = "action"
	ChoiceMoral     ChoiceType = "moral"
	ChoiceStrategic ChoiceType = "strategic"
)

// Consequences is what selecting an Option does to game state.
type Consequences struct {
	Flags                map[string]any
	SkillDeltas          map[string]float64
	RelationshipDeltas   map[string]float64
	RelationshipModifier float64
	Memory               string
}

// Option is one selectable branch of a Choice, gated by required/forbidden
// flags (§4.5).
type Option struct {
	ID           string
	Text         string
	Description  string
	Requirements []string
	Forbidden    []string
	Consequences Consequences
}

// Choice is a complete registered scenario: a prompt plus its options.
type Choice struct {
	ID            string
	Title         string
	Description   string
	Type          ChoiceType
	Options       []Option
	Repeatable    bool
	DefaultOption string
}

// HistoryEntry records one resolved choice.
type HistoryEntry struct {
	ChoiceID string
	OptionID string
	Day      int
	Minute   int
	Location string
}

// ChoiceSink is the mutable state Make writes through.
type ChoiceSink struct {
	Flags         map[string]any
	Relationships map[string]float64
	Timeline      *eventlog.Log
	WallTime      time.Time
	TotalMinutes  float64
	Day           int
	Minute        int
	Location      string
}

// Presented is the filtered, player-facing view of a Choice (§6.1 record
// shape, specialized to choice presentation).
type Presented struct {
	ChoiceID    string
	Title       string
	Description string
	Type        ChoiceType
	Options     []Option
}

// System holds registered choices and resolution history.
type System struct {
	registered map[string]*Choice
	history    []HistoryEntry
	active     *Choice
}

// NewSystem builds an empty choice registry.
func NewSystem() *System {
	return &System{registered: map[string]*Choice{}}
}

// Register adds a choice scenario to the registry.
func (s *System) Register(c Choice) {
	cp := c
	s.registered[c.ID] = &cp
}

// CanChoose reports whether option is available given the current flags.
func CanChoose(opt Option, flags map[string]any) bool {
	for _, req := range opt.Requirements {
		if v, ok := flags[req]; !ok || v == false || v == nil {
			return false
		}
	}
	for _, forbidden := range opt.Forbidden {
		if v, ok := flags[forbidden]; ok && v != false && v != nil {
			return false
		}
	}
	return true
}

// wasMade reports whether choiceID already has a non-repeatable history entry.
func (s *System) wasMade(choiceID string) bool {
	for _, h := range s.history {
		if h.ChoiceID == choiceID {
			return true
		}
	}
	return false
}

// Present resolves choiceID to its currently-available options, refusing
// unknown ids, already-made one-shot choices, and choices with zero
// available options (§4.5).
func (s *System) Present(choiceID string, flags map[string]any) (Presented, error) {
	choice, ok := s.registered[choiceID]
	if !ok {
		return Presented{}, engineerr.Newf(engineerr.NotFound, "choice %q not registered", choiceID)
	}
	if !choice.Repeatable && s.wasMade(choiceID) {
		return Presented{}, engineerr.Newf(engineerr.ConflictState, "choice %q already made", choiceID)
	}

	var available []Option
	for _, opt := range choice.Options {
		if CanChoose(opt, flags) {
			available = append(available, opt)
		}
	}
	if len(available) == 0 {
		return Presented{}, engineerr.Newf(engineerr.PreconditionFailed, "no options available for choice %q", choiceID)
	}

	s.active = choice
	return Presented{
		ChoiceID:    choice.ID,
		Title:       choice.Title,
		Description: choice.Description,
		Type:        choice.Type,
		Options:     available,
	}, nil
}

// Make resolves the currently-presented choice's optionID, applies its
// consequences through sink, records history, and clears the active choice.
// Consequences.SkillDeltas are not applied: ChoiceSink has no skill store.
func (s *System) Make(optionID string, sink ChoiceSink) ([]string, error) {
	if s.active == nil {
		return nil, engineerr.New(engineerr.PreconditionFailed, "no active choice to resolve")
	}
	choice := s.active

	var selected *Option
	for i := range choice.Options {
		if choice.Options[i].ID == optionID {
			selected = &choice.Options[i]
			break
		}
	}
	if selected == nil {
		return nil, engineerr.Newf(engineerr.NotFound, "option %q not found", optionID)
	}
	if !CanChoose(*selected, sink.Flags) {
		return nil, engineerr.Newf(engineerr.PreconditionFailed, "option %q is not available", optionID)
	}

	cons := selected.Consequences
	for flag, val := range cons.Flags {
		sink.Flags[flag] = val
	}
	for npc, delta := range cons.RelationshipDeltas {
		sink.Relationships[npc] += delta
	}
	if cons.RelationshipModifier != 0 {
		current, _ := sink.Flags["relationship_modifier"].(float64)
		sink.Flags["relationship_modifier"] = current + cons.RelationshipModifier
	}
	if cons.Memory != "" && sink.Timeline != nil {
		sink.Timeline.Append(eventlog.New("choice", choice.ID, sink.WallTime, sink.TotalMinutes, map[string]any{
			"option_id": optionID,
			"text":      cons.Memory,
			"location":  sink.Location,
		}))
	}

	s.history = append(s.history, HistoryEntry{
		ChoiceID: choice.ID,
		OptionID: optionID,
		Day:      sink.Day,
		Minute:   sink.Minute,
		Location: sink.Location,
	})

	message := "You chose: " + selected.Text
	if selected.Description != "" {
		message += " — " + selected.Description
	}

	s.active = nil
	return []string{message}, nil
}

// History returns a copy of every resolved choice so far.
func (s *System) History() []HistoryEntry {
	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}
