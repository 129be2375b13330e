package registry

// EventCondition is one declarative condition gating a content-authored
// event (§6.2 Events). Distinct from the quest DSL's Condition type;
// internal/events compiles it with the same expr-lang library but its own
// evaluation environment.
type EventCondition struct {
	Type   string `json:"type" yaml:"type" bson:"type"`
	Key    string `json:"key,omitempty" yaml:"key,omitempty" bson:"key,omitempty"`
	Value  any    `json:"value,omitempty" yaml:"value,omitempty" bson:"value,omitempty"`
	Negate bool   `json:"negate,omitempty" yaml:"negate,omitempty" bson:"negate,omitempty"`
}

// EventEffect is one declarative effect of a content-authored event.
type EventEffect struct {
	Type  string         `json:"type" yaml:"type" bson:"type"`
	Args  map[string]any `json:"args,omitempty" yaml:"args,omitempty" bson:"args,omitempty"`
}

// EventDef is a room-entry/exit or ambient event definition (§4.5, §6.2).
type EventDef struct {
	ID              string           `json:"id" yaml:"id" bson:"id"`
	Type            string           `json:"type" yaml:"type" bson:"type"`
	Conditions      []EventCondition `json:"conditions,omitempty" yaml:"conditions,omitempty" bson:"conditions,omitempty"`
	Effects         []EventEffect    `json:"effects,omitempty" yaml:"effects,omitempty" bson:"effects,omitempty"`
	Chance          float64          `json:"chance,omitempty" yaml:"chance,omitempty" bson:"chance,omitempty"`
	CooldownMinutes float64          `json:"cooldown_minutes,omitempty" yaml:"cooldown_minutes,omitempty" bson:"cooldownMinutes,omitempty"`
	OneTime         bool             `json:"one_time,omitempty" yaml:"one_time,omitempty" bson:"oneTime,omitempty"`
}

// RoomEvents maps a location key to its on_enter/on_exit event id lists.
type RoomEvents struct {
	OnEnter []string `json:"on_enter,omitempty" yaml:"on_enter,omitempty" bson:"onEnter,omitempty"`
	OnExit  []string `json:"on_exit,omitempty" yaml:"on_exit,omitempty" bson:"onExit,omitempty"`
}

// StringVariant is one localized entry with phase/weather variant text.
type StringVariant struct {
	Nome        string            `json:"nome" yaml:"nome" bson:"nome"`
	Descrizione string            `json:"descrizione" yaml:"descrizione" bson:"descrizione"`
	Varianti    map[string]string `json:"varianti,omitempty" yaml:"varianti,omitempty" bson:"varianti,omitempty"`
}

// ObjectString is a localized name/description pair for an interactable
// or item, plus the tiered text for the inspect->examine->search chain.
type ObjectString struct {
	Nome        string `json:"nome" yaml:"nome" bson:"nome"`
	Descrizione string `json:"descrizione" yaml:"descrizione" bson:"descrizione"`

	InspectFirstTime  string `json:"inspect_first_time,omitempty" yaml:"inspect_first_time,omitempty" bson:"inspectFirstTime,omitempty"`
	InspectSubsequent string `json:"inspect_subsequent,omitempty" yaml:"inspect_subsequent,omitempty" bson:"inspectSubsequent,omitempty"`
	ExamineText       string `json:"examine_text,omitempty" yaml:"examine_text,omitempty" bson:"examineText,omitempty"`
	SearchText        string `json:"search_text,omitempty" yaml:"search_text,omitempty" bson:"searchText,omitempty"`
}
