package combat

import (
	"testing"
	"time"

	"github.com/GFrenk016/secondavita-core/internal/registry"
	"github.com/stretchr/testify/require"
)

func TestResolveAttackFailsOnInsufficientStamina(t *testing.T) {
	attacker := &Combatant{Stamina: 2, MaxStamina: 100, WeaponHandling: 0.5}
	defender := &Combatant{HP: 50, MaxHP: 50, Posture: 50, MaxPosture: 50, StaggerThreshold: 0.3}
	move := MoveSpec{StaminaCost: 10, BaseDamage: 10, DamageMultiplier: 1.0}

	_, err := ResolveAttack(attacker, defender, move, SituationalModifiers{}, testRNG(), time.Now(), 0, nil, "player_attack", nil)
	require.Error(t, err)
	require.Equal(t, float64(2), attacker.Stamina, "stamina must not be consumed on gate failure")
}

func TestResolveAttackConsumesStaminaAndAppliesDamageOnHit(t *testing.T) {
	attacker := &Combatant{Stamina: 100, MaxStamina: 100, WeaponHandling: 0.9, Posture: 100, MaxPosture: 100}
	defender := &Combatant{HP: 50, MaxHP: 50, Posture: 50, MaxPosture: 50, StaggerThreshold: 0.3}
	move := MoveSpec{StaminaCost: 10, BaseDamage: 20, DamageMultiplier: 1.0, DamageType: registry.Slash}

	rng := rngAlwaysHits()
	out, err := ResolveAttack(attacker, defender, move, SituationalModifiers{}, rng, time.Now(), 0, nil, "player_attack", nil)
	require.NoError(t, err)
	require.True(t, out.Hit)
	require.Equal(t, float64(90), attacker.Stamina)
	require.Less(t, defender.HP, 50)
}

func TestHitQualityGrading(t *testing.T) {
	attacker := &Combatant{Stamina: 100, MaxStamina: 100, WeaponHandling: 0.9}
	defender := &Combatant{Posture: 100, MaxPosture: 100}
	q := hitQuality(attacker, defender, SituationalModifiers{Direction: DirectionFlanking}, testRNG())
	// 0.5 + (0.9-0.5)*0.3 + (0-1)*0.2 + 0.15 = 0.57
	require.Equal(t, Normal, q)
}

func TestStaggerAppliesWhenPostureCrossesThreshold(t *testing.T) {
	attacker := &Combatant{Stamina: 100, MaxStamina: 100, WeaponHandling: 0.9}
	defender := &Combatant{HP: 100, MaxHP: 100, Posture: 35, MaxPosture: 100, StaggerThreshold: 0.30}
	move := MoveSpec{StaminaCost: 0, BaseDamage: 20, DamageMultiplier: 1.0}

	rng := rngAlwaysHits()
	out, err := ResolveAttack(attacker, defender, move, SituationalModifiers{}, rng, time.Now(), 0, nil, "player_attack", nil)
	require.NoError(t, err)
	require.True(t, out.Staggered)
	require.True(t, defender.HasStatus(EffectStaggered))
}
