package combat

import "github.com/GFrenk016/secondavita-core/internal/registry"

// SelectMove picks a move_type for an enemy given its AI state and the
// weapon it wields, among moves it can afford (§4.3.4). Returns false if no
// move is affordable.
func SelectMove(e *EnemyInstance, weapon registry.Weapon, allyCount int, target *Combatant, rng func() float64) (registry.MoveType, bool) {
	viable := viableMoves(e, weapon)
	if len(viable) == 0 {
		return "", false
	}

	switch e.AIState {
	case registry.Aggressive:
		if e.StaminaRatio() > 0.5 {
			if mv, ok := preferAny(viable, "heavy", "thrust"); ok {
				return mv, true
			}
		}
		return highestDamage(viable, weapon), true

	case registry.Cautious:
		if e.PostureRatio() < 0.40 || e.StaminaRatio() < 0.30 {
			if mv, ok := preferAny(viable, "defensive", "light"); ok {
				return mv, true
			}
		}
		if target != nil && target.PostureRatio() < 0.30 {
			if mv, ok := preferAny(viable, "heavy"); ok {
				return mv, true
			}
		}
		return balanced(viable), true

	case registry.Pack:
		mv := highestDamage(viable, weapon)
		if allyCount >= 2 {
			if hv, ok := preferAny(viable, "heavy"); ok {
				mv = hv
			}
			if e.Traits.PackHunter && rng() < 0.40 {
				if sv, ok := moveWithStatus(viable, weapon); ok {
					mv = sv
				}
			}
		}
		return mv, true

	case registry.Passive:
		if mv, ok := preferAny(viable, "defensive"); ok {
			return mv, true
		}
		return viable[0], true

	case registry.Surrendered:
		if e.Cornered {
			if mv, ok := preferAny(viable, "light"); ok {
				return mv, true
			}
		}
		if mv, ok := preferAny(viable, "defensive"); ok {
			return mv, true
		}
		return viable[0], true

	case registry.Fleeing:
		return lowestRecovery(viable, weapon), true

	default:
		return viable[0], true
	}
}

func viableMoves(e *EnemyInstance, weapon registry.Weapon) []registry.MoveType {
	var out []registry.MoveType
	for mt, mv := range weapon.Movesets {
		if e.HasStaminaFor(mv.StaminaCost) {
			out = append(out, mt)
		}
	}
	return out
}

func preferAny(viable []registry.MoveType, names ...string) (registry.MoveType, bool) {
	for _, n := range names {
		for _, v := range viable {
			if string(v) == n {
				return v, true
			}
		}
	}
	return "", false
}

func highestDamage(viable []registry.MoveType, weapon registry.Weapon) registry.MoveType {
	best := viable[0]
	bestDamage := -1.0
	for _, v := range viable {
		if mv, ok := weapon.Movesets[v]; ok {
			d := float64(weapon.Damage) * mv.DamageMultiplier
			if d > bestDamage {
				bestDamage = d
				best = v
			}
		}
	}
	return best
}

func lowestRecovery(viable []registry.MoveType, weapon registry.Weapon) registry.MoveType {
	best := viable[0]
	bestRecovery := -1.0
	for _, v := range viable {
		if mv, ok := weapon.Movesets[v]; ok {
			if bestRecovery < 0 || mv.Recovery < bestRecovery {
				bestRecovery = mv.Recovery
				best = v
			}
		}
	}
	return best
}

func moveWithStatus(viable []registry.MoveType, weapon registry.Weapon) (registry.MoveType, bool) {
	for _, v := range viable {
		if mv, ok := weapon.Movesets[v]; ok && len(mv.StatusEffects) > 0 {
			return v, true
		}
	}
	return "", false
}

func balanced(viable []registry.MoveType) registry.MoveType {
	if mv, ok := preferAny(viable, "light"); ok {
		return mv
	}
	return viable[0]
}

// TargetPriorityScore implements §4.3.4's "Target priority" formula:
// descending score = (1 - posture_ratio)*10 + effect_count*2 + staggered?*5.
func TargetPriorityScore(c *Combatant) float64 {
	score := (1 - c.PostureRatio()) * 10
	score += float64(c.EffectCount()) * 2
	if c.HasStatus(EffectStaggered) {
		score += 5
	}
	return score
}

// MostVulnerable picks the live combatant with the highest target-priority
// score, used by the `pack` state (§4.3.4).
func MostVulnerable(candidates []*Combatant) *Combatant {
	var best *Combatant
	bestScore := -1.0
	for _, c := range candidates {
		if c.HP <= 0 {
			continue
		}
		s := TargetPriorityScore(c)
		if best == nil || s > bestScore {
			best = c
			bestScore = s
		}
	}
	return best
}

// ShouldRetreat implements §4.3.4's retreat heuristic per AI state.
func ShouldRetreat(e *EnemyInstance, liveAllyCount, enemyCount int) bool {
	switch e.AIState {
	case registry.Aggressive:
		return e.PostureRatio() < 0.15
	case registry.Cautious:
		return e.PostureRatio() < 0.30 || e.StaminaRatio() < 0.20 || enemyCount > 2
	case registry.Pack:
		return liveAllyCount <= 1
	default:
		return false
	}
}

// NextAIState applies the passive->fleeing and fleeing->passive transitions
// of §4.3.4 (other states are driven by command flow, not auto-transition).
func NextAIState(e *EnemyInstance, safeNow bool) registry.AIState {
	switch e.AIState {
	case registry.Passive:
		if e.Traits.FliesWhenHurt && e.PostureRatio() < 0.70 {
			return registry.Fleeing
		}
	case registry.Fleeing:
		if safeNow {
			return registry.Passive
		}
	}
	return e.AIState
}
