// Package combat implements SPEC_FULL.md §4.3: the hybrid realtime/turn-based
// combat resolver — stamina/posture/status, tactical AI, multi-target
// sessions, reactive QTE windows, damage typing, hit-quality grading, and a
// structured event stream.
//
// Grounded on the teacher's ships/formation_combat.go (CombatContext shape),
// ships/battle_report_builder.go (structured event emission),
// ships/modifier_stack.go (status-effect stacking idiom), and
// original_source/engine/core/combat_system/*.py for exact formulas.
package combat

import "github.com/GFrenk016/secondavita-core/internal/registry"

// HitQuality grades an attack outcome (§9 "Polymorphism": closed enum, not
// class hierarchy).
type HitQuality string

const (
	Graze    HitQuality = "graze"
	Normal   HitQuality = "normal"
	Critical HitQuality = "critical"
)

// Phase is the combat session's current phase.
type Phase string

const (
	PhasePlayer Phase = "player"
	PhaseQTE    Phase = "qte"
	PhaseEnded  Phase = "ended"
)

// Result is the terminal outcome of a combat session.
type Result string

const (
	Victory Result = "victory"
	Defeat  Result = "defeat"
	Escaped Result = "escaped"
)

// StatusEffect is a closed enum of applicable status conditions (§3).
type StatusEffect string

const (
	EffectBleed      StatusEffect = "bleed"
	EffectBurn       StatusEffect = "burn"
	EffectConcussed  StatusEffect = "concussed"
	EffectStaggered  StatusEffect = "staggered"
	EffectCrippled   StatusEffect = "crippled"
)

// QTEType distinguishes offensive (follows a player hit) from defensive
// (precedes an enemy attack) windows.
type QTEType string

const (
	QTEOffense QTEType = "offense"
	QTEDefense QTEType = "defense"
)

// OffensiveEffect is the optional reward sampled for a successful offensive
// QTE.
type OffensiveEffect string

const (
	EffectBonusDamage    OffensiveEffect = "bonus_damage"
	EffectReduceNextDmg  OffensiveEffect = "reduce_next_damage"
	EffectGeneric        OffensiveEffect = "generic"
)

// AttackDirection documents the situational modifier a MoveSpec resolves
// under (flanking/cover/etc.), named analogously to the teacher's
// ships/formation_combat.go AttackDirection.
type AttackDirection string

const (
	DirectionFrontal AttackDirection = "frontal"
	DirectionFlanking AttackDirection = "flanking"
	DirectionCover    AttackDirection = "cover"
)

// StatusEffectInstance is one active status condition on a combatant (§3).
type StatusEffectInstance struct {
	Effect    StatusEffect `bson:"effect" json:"effect"`
	Remaining int          `bson:"remaining" json:"remaining"` // ticks
	Intensity float64      `bson:"intensity" json:"intensity"`
	Source    string       `bson:"source" json:"source"`
}

const maxEffectIntensity = 3.0

// MoveSpec is a transient derived move (weapon + move_type), built by a
// factory, never dispatched polymorphically (§9).
type MoveSpec struct {
	MoveType         registry.MoveType
	Name             string
	StaminaCost      float64
	Windup           float64
	Recovery         float64
	DamageMultiplier float64
	BaseDamage       int
	Reach            float64
	Noise            float64
	DamageType       registry.DamageType
	StatusEffects    []registry.StatusApplication
}

// BuildMoveSpec derives a MoveSpec from a weapon + move_type (§9
// "Dynamic dispatch on weapons/mobs": data + a single resolver function).
func BuildMoveSpec(weapon registry.Weapon, moveType registry.MoveType) (MoveSpec, bool) {
	mv, ok := weapon.Movesets[moveType]
	if !ok {
		return MoveSpec{}, false
	}
	return MoveSpec{
		MoveType:         moveType,
		Name:             string(moveType),
		StaminaCost:      mv.StaminaCost,
		Windup:           mv.Windup,
		Recovery:         mv.Recovery,
		DamageMultiplier: mv.DamageMultiplier,
		BaseDamage:       weapon.Damage,
		Reach:            weapon.Reach,
		Noise:            weapon.NoiseLevel,
		DamageType:       weapon.DamageType,
		StatusEffects:    mv.StatusEffects,
	}, true
}
