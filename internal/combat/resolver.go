package combat

import (
	"math/rand/v2"
	"time"

	"github.com/GFrenk016/secondavita-core/internal/eventlog"
	"github.com/GFrenk016/secondavita-core/internal/engineerr"
	"github.com/GFrenk016/secondavita-core/internal/registry"
)

// SituationalModifiers carries the additive hit-quality modifiers from
// attack geometry and environment (§4.3.2 step 3).
type SituationalModifiers struct {
	Direction AttackDirection
	Darkness  bool
	Rain      bool
}

func (m SituationalModifiers) score() float64 {
	v := 0.0
	switch m.Direction {
	case DirectionFlanking:
		v += 0.15
	case DirectionCover:
		v -= 0.10
	}
	if m.Darkness {
		v -= 0.05
	}
	if m.Rain {
		v -= 0.05
	}
	return v
}

// AttackOutcome is the full result of one resolved move, enough to drive
// both event emission and UI rendering.
type AttackOutcome struct {
	Quality       HitQuality
	Hit           bool
	Damage        int
	PostureDamage int
	Staggered     bool
	DamageType    registry.DamageType
}

// ErrStaminaInsufficient is returned (wrapped in an engineerr) when the
// attacker cannot pay a move's stamina cost (§4.3.2 step 1).
const ErrStaminaInsufficient = "stamina_insufficient"

// ResolveAttack executes the full move-resolution pipeline of §4.3.2
// against one defender. Stamina is only consumed once the gate passes.
func ResolveAttack(attacker, defender *Combatant, move MoveSpec, mods SituationalModifiers, rng *rand.Rand, now time.Time, totalMinutes float64, log *eventlog.Log, eventName string, extraPayload map[string]any) (AttackOutcome, error) {
	if !attacker.HasStaminaFor(move.StaminaCost) {
		return AttackOutcome{}, engineerr.New(engineerr.PreconditionFailed, ErrStaminaInsufficient)
	}
	attacker.ConsumeStamina(move.StaminaCost)

	quality := hitQuality(attacker, defender, mods, rng)
	hitChance := hitProbability(quality)
	hit := rng.Float64() < hitChance

	out := AttackOutcome{Quality: quality, Hit: hit, DamageType: move.DamageType}
	if !hit {
		emitAttackEvent(log, eventName, now, totalMinutes, attacker, defender, out, extraPayload)
		return out, nil
	}

	damageMult := qualityDamageMultiplier(quality)
	resistance := defender.Resistance(move.DamageType)
	damage := int(float64(move.BaseDamage) * move.DamageMultiplier * damageMult * resistance)
	if damage < 0 {
		damage = 0
	}
	defender.HP -= damage
	if defender.HP < 0 {
		defender.HP = 0
	}
	out.Damage = damage

	postureDamage := int(float64(move.BaseDamage) * 0.8 * qualityPostureMultiplier(quality))
	wasAboveThreshold := defender.PostureRatio() >= defender.StaggerThreshold
	defender.Posture -= float64(postureDamage)
	if defender.Posture < 0 {
		defender.Posture = 0
	}
	out.PostureDamage = postureDamage
	if wasAboveThreshold && defender.PostureRatio() < defender.StaggerThreshold {
		defender.ApplyStatus(EffectStaggered, 2, 1.0, eventName)
		out.Staggered = true
	}

	for _, sa := range move.StatusEffects {
		defender.ApplyStatus(StatusEffect(sa.Effect), sa.Duration, sa.Intensity, eventName)
	}

	emitAttackEvent(log, eventName, now, totalMinutes, attacker, defender, out, extraPayload)
	return out, nil
}

func emitAttackEvent(log *eventlog.Log, name string, now time.Time, totalMinutes float64, attacker, defender *Combatant, out AttackOutcome, extra map[string]any) {
	if log == nil {
		return
	}
	payload := map[string]any{
		"attacker_id": attacker.ID, "defender_id": defender.ID,
		"quality": string(out.Quality), "hit": out.Hit,
		"damage": out.Damage, "posture_damage": out.PostureDamage,
		"staggered": out.Staggered,
	}
	for k, v := range extra {
		payload[k] = v
	}
	log.Append(eventlog.New("combat", name, now, totalMinutes, payload))
}

// hitQuality implements §4.3.2 step 3.
func hitQuality(attacker, defender *Combatant, mods SituationalModifiers, rng *rand.Rand) HitQuality {
	score := 0.5
	score += (attacker.WeaponHandling - 0.5) * 0.3
	score += (attacker.PostureRatio() - defender.PostureRatio()) * 0.2
	score += mods.score()

	switch {
	case attacker.StaminaRatio() < 0.10:
		score *= 0.5
	case attacker.StaminaRatio() < 0.30:
		score *= 0.8
	}
	score *= attacker.AccuracyPenalty()

	switch {
	case score >= 0.85:
		return Critical
	case score <= 0.25:
		return Graze
	default:
		return Normal
	}
}

// hitProbability implements §4.3.2 step 4.
func hitProbability(q HitQuality) float64 {
	switch q {
	case Critical:
		return 0.90
	case Graze:
		return 0.40
	default:
		return 0.70
	}
}

func qualityDamageMultiplier(q HitQuality) float64 {
	switch q {
	case Critical:
		return 1.8
	case Graze:
		return 0.5
	default:
		return 1.0
	}
}

func qualityPostureMultiplier(q HitQuality) float64 {
	switch q {
	case Critical:
		return 1.5
	case Graze:
		return 0.3
	default:
		return 1.0
	}
}
