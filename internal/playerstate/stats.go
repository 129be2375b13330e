package playerstate

import "time"

// Stats is the player statistics container (base stats, attributes,
// resistances), grounded on original_source/engine/stats.py.
type Stats struct {
	Health    int `bson:"health" json:"health"`
	MaxHealth int `bson:"maxHealth" json:"maxHealth"`
	Energy    int `bson:"energy" json:"energy"`
	MaxEnergy int `bson:"maxEnergy" json:"maxEnergy"`
	Morale    int `bson:"morale" json:"morale"`
	MaxMorale int `bson:"maxMorale" json:"maxMorale"`

	Strength   int `bson:"strength" json:"strength"`
	Agility    int `bson:"agility" json:"agility"`
	Intellect  int `bson:"intellect" json:"intellect"`
	Perception int `bson:"perception" json:"perception"`
	Charisma   int `bson:"charisma" json:"charisma"`
	Luck       int `bson:"luck" json:"luck"`

	BleedResistance int `bson:"bleedResistance" json:"bleedResistance"`
	PoisonResistance int `bson:"poisonResistance" json:"poisonResistance"`
	FireResistance  int `bson:"fireResistance" json:"fireResistance"`
	ColdResistance  int `bson:"coldResistance" json:"coldResistance"`

	Modifiers ModifierStack `bson:"modifiers" json:"modifiers"`
}

// NewStats returns the default new-game stat block.
func NewStats() Stats {
	return Stats{
		Health: 100, MaxHealth: 100,
		Energy: 100, MaxEnergy: 100,
		Morale: 75, MaxMorale: 100,
		Strength: 10, Agility: 10, Intellect: 10,
		Perception: 10, Charisma: 10, Luck: 10,
	}
}

// Clamp bounds every stat into its valid range.
func (s *Stats) Clamp() {
	s.Health = clampInt(s.Health, 0, s.MaxHealth)
	s.Energy = clampInt(s.Energy, 0, s.MaxEnergy)
	s.Morale = clampInt(s.Morale, 0, s.MaxMorale)
	s.BleedResistance = clampInt(s.BleedResistance, 0, 100)
	s.PoisonResistance = clampInt(s.PoisonResistance, 0, 100)
	s.FireResistance = clampInt(s.FireResistance, 0, 100)
	s.ColdResistance = clampInt(s.ColdResistance, 0, 100)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// baseValue returns a named base stat for modifier resolution.
func (s *Stats) baseValue(name string) float64 {
	switch name {
	case "strength":
		return float64(s.Strength)
	case "agility":
		return float64(s.Agility)
	case "intellect":
		return float64(s.Intellect)
	case "perception":
		return float64(s.Perception)
	case "charisma":
		return float64(s.Charisma)
	case "luck":
		return float64(s.Luck)
	default:
		return 0
	}
}

// Modified returns a stat's value including all active (non-expired)
// modifier layers.
func (s *Stats) Modified(name string) float64 {
	return s.baseValue(name) + s.Modifiers.Resolve()[name]
}

// CarryCapacity is the weight-limit in kg the inventory may hold.
func (s *Stats) CarryCapacity() float64 {
	return 10.0 + s.Modified("strength")*2.0
}

// CritChance returns the player's critical-hit chance including a
// weapon-specific bonus, capped at 50%.
func (s *Stats) CritChance(weaponBonus float64) float64 {
	v := s.Modified("luck")*0.02 + weaponBonus
	if v > 0.5 {
		return 0.5
	}
	return v
}

// Evasion returns the player's evasion chance, capped at 30%.
func (s *Stats) Evasion() float64 {
	v := s.Modified("agility") * 0.015
	if v > 0.3 {
		return 0.3
	}
	return v
}

// EffectiveResistance converts a named resistance stat to a 0..1 fraction.
func (s *Stats) EffectiveResistance(damageType string) float64 {
	switch damageType {
	case "bleed":
		return float64(s.BleedResistance) / 100.0
	case "poison":
		return float64(s.PoisonResistance) / 100.0
	case "burn", "fire":
		return float64(s.FireResistance) / 100.0
	case "cold":
		return float64(s.ColdResistance) / 100.0
	default:
		return 0
	}
}

// ApplyDelta adds delta to a named stat, covering both the resource pools
// (health/energy/morale) and the core attributes. Unknown names are a
// no-op. Callers should follow with Clamp().
func (s *Stats) ApplyDelta(name string, delta float64) {
	switch name {
	case "health":
		s.Health += int(delta)
	case "energy":
		s.Energy += int(delta)
	case "morale":
		s.Morale += int(delta)
	case "strength":
		s.Strength += int(delta)
	case "agility":
		s.Agility += int(delta)
	case "intellect":
		s.Intellect += int(delta)
	case "perception":
		s.Perception += int(delta)
	case "charisma":
		s.Charisma += int(delta)
	case "luck":
		s.Luck += int(delta)
	}
}

// AddModifier adds a temporary or permanent stat modifier.
func (s *Stats) AddModifier(stat string, amount float64, duration time.Duration, now time.Time, source ModifierSource, sourceID string) {
	if duration <= 0 {
		s.Modifiers.AddPermanent(source, sourceID, stat, StatMods{stat: amount}, now)
		return
	}
	s.Modifiers.AddTemporary(source, sourceID, stat, StatMods{stat: amount}, now, duration)
}

// TickModifiers removes every expired modifier layer.
func (s *Stats) TickModifiers(now time.Time) {
	s.Modifiers.RemoveExpired(now)
}
