package quest

import (
	"github.com/GFrenk016/secondavita-core/internal/playerstate"
	"github.com/GFrenk016/secondavita-core/internal/registry"
)

// State is one of the 7 FSM states (§4.4.2).
type State string

const (
	NotStarted State = "not_started"
	Available  State = "available"
	InProgress State = "in_progress"
	Blocked    State = "blocked"
	Completed  State = "completed"
	Failed     State = "failed"
	Abandoned  State = "abandoned"
)

// Priority gates whether a quest may be abandoned.
type Priority string

const (
	PriorityMain Priority = "main"
	PrioritySide Priority = "side"
)

// Step is a single stage within a quest.
type Step struct {
	ID                  string         `bson:"id" json:"id"`
	Title               string         `bson:"title" json:"title"`
	Description         string         `bson:"description" json:"description"`
	EnterConditions     []Condition    `bson:"enterConditions,omitempty" json:"enterConditions,omitempty"`
	CompleteConditions  []Condition    `bson:"completeConditions,omitempty" json:"completeConditions,omitempty"`
	OnEnterFlags        map[string]any `bson:"onEnterFlags,omitempty" json:"onEnterFlags,omitempty"`
	OnCompleteFlags     map[string]any `bson:"onCompleteFlags,omitempty" json:"onCompleteFlags,omitempty"`
}

// ItemAward is one item-with-quantity reward line.
type ItemAward struct {
	ItemID   string `bson:"itemId" json:"itemId"`
	Quantity int    `bson:"quantity" json:"quantity"`
}

// Reward bundles every reward category applied on quest completion/failure
// (§4.4.3).
type Reward struct {
	Items    []ItemAward        `bson:"items,omitempty" json:"items,omitempty"`
	Stats    map[string]float64 `bson:"stats,omitempty" json:"stats,omitempty"`
	Relation map[string]float64 `bson:"relation,omitempty" json:"relation,omitempty"`
	Flags    map[string]any     `bson:"flags,omitempty" json:"flags,omitempty"`
}

// Sink bundles the mutable destinations a Reward or flag-application
// writes into.
type Sink struct {
	Inventory     *playerstate.Inventory
	Items         map[string]registry.Item
	Stats         *playerstate.Stats
	Relationships map[string]float64
	Flags         map[string]any
}

// Apply writes every reward category into sink.
func (r Reward) Apply(sink Sink) {
	for _, award := range r.Items {
		if sink.Inventory != nil {
			sink.Inventory.Add(sink.Items, award.ItemID, award.Quantity)
		}
	}
	for name, delta := range r.Stats {
		if sink.Stats != nil {
			sink.Stats.ApplyDelta(name, delta)
		}
	}
	for key, delta := range r.Relation {
		if sink.Relationships != nil {
			sink.Relationships[key] += delta
		}
	}
	applyFlags(sink.Flags, r.Flags)
}

func applyFlags(dst, src map[string]any) {
	if dst == nil {
		return
	}
	for k, v := range src {
		dst[k] = v
	}
}

// Quest is a quest with multiple steps and FSM-managed state (§4.4.2).
type Quest struct {
	ID                string         `bson:"id" json:"id"`
	Title             string         `bson:"title" json:"title"`
	Act               string         `bson:"act,omitempty" json:"act,omitempty"`
	Priority          Priority       `bson:"priority" json:"priority"`
	CurrentState      State          `bson:"state" json:"state"`
	Steps             []Step         `bson:"steps" json:"steps"`
	CurrentStepIndex  int            `bson:"currentStepIndex" json:"currentStepIndex"`
	Prerequisites     []Condition    `bson:"prerequisites,omitempty" json:"prerequisites,omitempty"`
	FailConditions    []Condition    `bson:"failConditions,omitempty" json:"failConditions,omitempty"`
	RewardsOnComplete Reward         `bson:"rewardsOnComplete,omitempty" json:"rewardsOnComplete,omitempty"`
	RewardsOnFail     Reward         `bson:"rewardsOnFail,omitempty" json:"rewardsOnFail,omitempty"`
	JournalNodes      map[string]string `bson:"journalNodes,omitempty" json:"journalNodes,omitempty"`
}

// NewQuest returns a quest in its initial not_started state.
func NewQuest(id, title string, priority Priority) *Quest {
	return &Quest{ID: id, Title: title, Priority: priority, CurrentState: NotStarted}
}

// CurrentStep returns the active step, or false if the index is out of
// range (quest finished or malformed).
func (q *Quest) CurrentStep() (*Step, bool) {
	if q.CurrentStepIndex < 0 || q.CurrentStepIndex >= len(q.Steps) {
		return nil, false
	}
	return &q.Steps[q.CurrentStepIndex], true
}
