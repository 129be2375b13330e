package combat

import "github.com/GFrenk016/secondavita-core/internal/registry"

// Combatant is the shared resource pool (§4.3.3) for both the player and
// every enemy in a session: HP, stamina, posture, and active status
// effects. Generalizes the teacher's per-ship resource fields (ships/stack.go)
// into a domain-neutral record shared by player and mob.
type Combatant struct {
	ID               string                  `bson:"id" json:"id"`
	Name             string                  `bson:"name" json:"name"`
	HP               int                     `bson:"hp" json:"hp"`
	MaxHP            int                     `bson:"maxHp" json:"maxHp"`
	Stamina          float64                 `bson:"stamina" json:"stamina"`
	MaxStamina       float64                 `bson:"maxStamina" json:"maxStamina"`
	Posture          float64                 `bson:"posture" json:"posture"`
	MaxPosture       float64                 `bson:"maxPosture" json:"maxPosture"`
	StaggerThreshold float64                 `bson:"staggerThreshold" json:"staggerThreshold"`
	WeaponHandling   float64                 `bson:"weaponHandling" json:"weaponHandling"`
	Resistances      map[registry.DamageType]float64 `bson:"resistances,omitempty" json:"resistances,omitempty"`
	StatusEffects    []StatusEffectInstance  `bson:"statusEffects,omitempty" json:"statusEffects,omitempty"`
	Distance         int                     `bson:"distance" json:"distance"` // pushed-away distance (player-side, §4.3.6 "push")
}

// PostureRatio is posture/max_posture, used throughout hit-quality and AI
// scoring formulas.
func (c *Combatant) PostureRatio() float64 {
	if c.MaxPosture <= 0 {
		return 0
	}
	return c.Posture / c.MaxPosture
}

// StaminaRatio is stamina/max_stamina.
func (c *Combatant) StaminaRatio() float64 {
	if c.MaxStamina <= 0 {
		return 0
	}
	return c.Stamina / c.MaxStamina
}

// Resistance returns the multiplier for a damage type, 1.0 (neutral) when
// unspecified.
func (c *Combatant) Resistance(dt registry.DamageType) float64 {
	if v, ok := c.Resistances[dt]; ok {
		return v
	}
	return 1.0
}

// HasStaminaFor reports whether the combatant can pay a move's stamina
// cost (§4.3.2 step 1).
func (c *Combatant) HasStaminaFor(cost float64) bool {
	return c.Stamina >= cost
}

// ConsumeStamina subtracts cost, floored at 0.
func (c *Combatant) ConsumeStamina(cost float64) {
	c.Stamina -= cost
	if c.Stamina < 0 {
		c.Stamina = 0
	}
}

// HasStatus reports whether an effect of the given kind is currently active.
func (c *Combatant) HasStatus(effect StatusEffect) bool {
	for _, s := range c.StatusEffects {
		if s.Effect == effect {
			return true
		}
	}
	return false
}

// EffectCount is the number of distinct active status effects, used by the
// AI target-priority score (§4.3.4).
func (c *Combatant) EffectCount() int {
	return len(c.StatusEffects)
}

// ApplyStatus stacks intensity (capped at 3.0) and takes the max of
// existing/new duration (§4.3.2 step 7).
func (c *Combatant) ApplyStatus(effect StatusEffect, duration int, intensity float64, source string) {
	for i := range c.StatusEffects {
		s := &c.StatusEffects[i]
		if s.Effect != effect {
			continue
		}
		s.Intensity += intensity
		if s.Intensity > maxEffectIntensity {
			s.Intensity = maxEffectIntensity
		}
		if duration > s.Remaining {
			s.Remaining = duration
		}
		s.Source = source
		return
	}
	intensity = minFloat(intensity, maxEffectIntensity)
	c.StatusEffects = append(c.StatusEffects, StatusEffectInstance{
		Effect: effect, Remaining: duration, Intensity: intensity, Source: source,
	})
}

// RegenTick applies the per-tick stamina/posture regeneration (§4.3.3):
// +5 stamina, +10 posture, both capped at max.
func (c *Combatant) RegenTick() {
	c.Stamina = minFloat(c.Stamina+5, c.MaxStamina)
	c.Posture = minFloat(c.Posture+10, c.MaxPosture)
}

// TickEffects advances every active status effect by one tick, applying
// bleed/burn damage and decrementing duration; expired effects are removed
// (§4.3.3 "Effects tick").
func (c *Combatant) TickEffects() (damageDealt int, damageType registry.DamageType, hadEffect bool) {
	kept := c.StatusEffects[:0]
	for _, s := range c.StatusEffects {
		switch s.Effect {
		case EffectBleed:
			damageDealt += int(1.0 * s.Intensity)
			damageType = registry.Bleed
			hadEffect = true
		case EffectBurn:
			damageDealt += int(1.5 * s.Intensity)
			damageType = registry.Burn
			hadEffect = true
		}
		s.Remaining--
		if s.Remaining > 0 {
			kept = append(kept, s)
		}
	}
	c.StatusEffects = kept
	if damageDealt > 0 {
		c.HP -= damageDealt
		if c.HP < 0 {
			c.HP = 0
		}
	}
	return damageDealt, damageType, hadEffect
}

// AccuracyPenalty returns the multiplicative accuracy penalty from active
// status effects (§4.3.2 step 3): concussed up to -0.60 by intensity,
// staggered x0.8.
func (c *Combatant) AccuracyPenalty() float64 {
	penalty := 1.0
	for _, s := range c.StatusEffects {
		switch s.Effect {
		case EffectConcussed:
			reduction := minFloat(0.60, 0.20*s.Intensity)
			penalty *= 1.0 - reduction
		case EffectStaggered:
			penalty *= 0.8
		}
	}
	return penalty
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
