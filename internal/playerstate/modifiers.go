// Package playerstate implements SPEC_FULL.md's Player State & Inventory
// component: stats with temporary modifiers, equipment slots, a
// weight-limited stacked inventory, and the effects-manager surface used
// by the combat core.
//
// The stat-modifier layering below generalizes the teacher's
// ships/modifier_stack.go (ModifierStack/ModifierLayer) from fleet buffs to
// player stats: same layer/priority/expiry shape, applied to a handful of
// named stats instead of ship StatMods.
package playerstate

import "time"

// ModifierSource identifies where a temporary stat modifier came from.
type ModifierSource string

const (
	SourceEquipment ModifierSource = "equipment"
	SourceEffect    ModifierSource = "effect"
	SourceQuest     ModifierSource = "quest_reward"
	SourceConsumable ModifierSource = "consumable"
)

// StatMods is an additive delta applied to named stats.
type StatMods map[string]float64

// ModifierLayer is one temporary or permanent adjustment to the player's
// stats, grounded on the teacher's ModifierLayer.
type ModifierLayer struct {
	Source      ModifierSource `bson:"source" json:"source"`
	SourceID    string         `bson:"sourceId" json:"sourceId"`
	Description string         `bson:"description" json:"description"`
	Mods        StatMods       `bson:"mods" json:"mods"`
	AppliedAt   time.Time      `bson:"appliedAt" json:"appliedAt"`
	ExpiresAt   *time.Time     `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
}

// ModifierStack is an ordered collection of ModifierLayer, resolved into
// final stat deltas on demand.
type ModifierStack struct {
	Layers []ModifierLayer `bson:"layers" json:"layers"`
}

// AddTemporary appends a time-boxed modifier layer.
func (ms *ModifierStack) AddTemporary(source ModifierSource, sourceID, description string, mods StatMods, now time.Time, duration time.Duration) {
	expiresAt := now.Add(duration)
	ms.Layers = append(ms.Layers, ModifierLayer{
		Source: source, SourceID: sourceID, Description: description,
		Mods: mods, AppliedAt: now, ExpiresAt: &expiresAt,
	})
}

// AddPermanent appends a layer with no expiry (equipment, quest rewards).
func (ms *ModifierStack) AddPermanent(source ModifierSource, sourceID, description string, mods StatMods, now time.Time) {
	ms.Layers = append(ms.Layers, ModifierLayer{
		Source: source, SourceID: sourceID, Description: description,
		Mods: mods, AppliedAt: now,
	})
}

// RemoveExpired drops layers whose ExpiresAt has passed.
func (ms *ModifierStack) RemoveExpired(now time.Time) {
	active := make([]ModifierLayer, 0, len(ms.Layers))
	for _, l := range ms.Layers {
		if l.ExpiresAt == nil || now.Before(*l.ExpiresAt) {
			active = append(active, l)
		}
	}
	ms.Layers = active
}

// RemoveBySource drops every layer from the given source (e.g. unequip).
func (ms *ModifierStack) RemoveBySource(source ModifierSource, sourceID string) {
	filtered := make([]ModifierLayer, 0, len(ms.Layers))
	for _, l := range ms.Layers {
		if l.Source == source && l.SourceID == sourceID {
			continue
		}
		filtered = append(filtered, l)
	}
	ms.Layers = filtered
}

// Resolve sums every layer's contribution into a flat stat-delta map.
func (ms *ModifierStack) Resolve() StatMods {
	out := StatMods{}
	for _, l := range ms.Layers {
		for k, v := range l.Mods {
			out[k] += v
		}
	}
	return out
}
