// Package npc implements SPEC_FULL.md §4.6: the pluggable NPC dialogue
// oracle adapter, its §6.3 JSON contract validation, and the keyword-scored
// memory store.
//
// Grounded on original_source/engine/npc/{schema,validator,llm_adapter,
// memory}.py.
package npc

// Mood is the closed enum §6.3 allows for a valid oracle response.
type Mood string

const (
	MoodCalm    Mood = "calm"
	MoodWary    Mood = "wary"
	MoodAngry   Mood = "angry"
	MoodSad     Mood = "sad"
	MoodNeutral Mood = "neutral"
	MoodHopeful Mood = "hopeful"
)

var validMoods = map[Mood]bool{
	MoodCalm: true, MoodWary: true, MoodAngry: true,
	MoodSad: true, MoodNeutral: true, MoodHopeful: true,
}

// MemoryWrite is one record the oracle asks to persist (§4.6 memory store).
type MemoryWrite struct {
	Type  string `json:"type"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Response is the strict §6.3 oracle payload shape. Unknown top-level
// fields are rejected by the decoder (DisallowUnknownFields), matching the
// schema's additionalProperties: false.
type Response struct {
	NPCID              string        `json:"npc_id"`
	Mood               Mood          `json:"mood"`
	Intent             string        `json:"intent"`
	Action             *string       `json:"action,omitempty"`
	Say                string        `json:"say"`
	MemoryWrite        []MemoryWrite `json:"memory_write,omitempty"`
	RelationshipDelta  int           `json:"relationship_delta,omitempty"`
	Directives         []string      `json:"directives,omitempty"`
	Confidence         float64       `json:"confidence,omitempty"`
	StopSpeakingAfter  int           `json:"stop_speaking_after,omitempty"`
	Error              string        `json:"error,omitempty"`
}

// Fallback builds the §4.6 never-raises fallback response for npcID,
// carrying reason in Error.
func Fallback(npcID, reason string) Response {
	return Response{
		NPCID:  npcID,
		Mood:   MoodNeutral,
		Intent: "evade",
		Say:    "...",
		Error:  reason,
	}
}

// ValidateSchema checks every §6.3 structural constraint the decoder
// can't express (enums, length bounds, value ranges). additionalProperties
// is enforced by the caller's json.Decoder(DisallowUnknownFields) before
// this runs — no dedicated JSON-schema library is used (see DESIGN.md: no
// pack example imports one, and this handful of field checks doesn't
// justify adding a new dependency for it).
func ValidateSchema(r Response) (bool, string) {
	if r.NPCID == "" {
		return false, "npc_id_required"
	}
	if !validMoods[r.Mood] {
		return false, "mood_invalid"
	}
	if r.Intent == "" {
		return false, "intent_required"
	}
	if r.Say == "" || len(r.Say) > 160 {
		return false, "say_length_invalid"
	}
	for _, m := range r.MemoryWrite {
		if m.Type != "episodic" && m.Type != "semantic" {
			return false, "memory_write_type_invalid"
		}
		if len(m.Value) > 240 {
			return false, "memory_write_value_too_long"
		}
	}
	if r.RelationshipDelta < -2 || r.RelationshipDelta > 2 {
		return false, "relationship_delta_out_of_range"
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return false, "confidence_out_of_range"
	}
	if r.StopSpeakingAfter < 0 || r.StopSpeakingAfter > 2 {
		return false, "stop_speaking_after_out_of_range"
	}
	return true, ""
}

// Whitelists holds the static allowed intent/action/directive sets (§4.6,
// §6.3, and the supplemented directive-whitelist strictness from
// llm_adapter.py — see SPEC_FULL.md SUPPLEMENTED FEATURES).
type Whitelists struct {
	Intents    map[string]bool
	Actions    map[string]bool
	Directives map[string]bool
}

// NewWhitelists builds a Whitelists from plain string slices.
func NewWhitelists(intents, actions, directives []string) Whitelists {
	w := Whitelists{Intents: map[string]bool{}, Actions: map[string]bool{}, Directives: map[string]bool{}}
	for _, v := range intents {
		w.Intents[v] = true
	}
	for _, v := range actions {
		w.Actions[v] = true
	}
	for _, v := range directives {
		w.Directives[v] = true
	}
	return w
}

// GameStateCheck performs the action's semantic precondition (item
// possession, co-location, whatever the action needs) — supplied by the
// caller since only it knows the concrete NPC/player/world state.
type GameStateCheck func(npcID, action string) (ok bool, reason string)

// ValidateSemantics checks intent/action/directive whitelisting plus any
// action-specific game-state precondition (§6.3: "actions requiring items
// or co-location must meet corresponding game-state checks").
func ValidateSemantics(r Response, wl Whitelists, check GameStateCheck) (bool, string) {
	if !wl.Intents[r.Intent] {
		return false, "intent_not_allowed"
	}
	if r.Action != nil {
		if !wl.Actions[*r.Action] {
			return false, "action_not_allowed"
		}
		if check != nil {
			if ok, reason := check(r.NPCID, *r.Action); !ok {
				return false, reason
			}
		}
	}
	if wl.Directives != nil {
		for _, d := range r.Directives {
			if !wl.Directives[d] {
				return false, "directive_not_allowed"
			}
		}
	}
	return true, ""
}
