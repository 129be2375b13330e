package combat

import (
	"testing"
	"time"

	"github.com/GFrenk016/secondavita-core/internal/engineerr"
	"github.com/GFrenk016/secondavita-core/internal/eventlog"
	"github.com/GFrenk016/secondavita-core/internal/registry"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*CombatSession, eventlog.Log) {
	t.Helper()
	now := time.Now()
	log := eventlog.NewLog(500)
	s, err := StartCombat(nil, testPlayer(), testWeaponWithMoves(), testMob(), 1.0, 1.0, now, 0, testRNG(), &log)
	require.NoError(t, err)
	return s, log
}

func TestAttackFailsOutOfPlayerPhase(t *testing.T) {
	s, log := newTestSession(t)
	s.Phase = PhaseQTE
	_, err := Attack(s, testWeaponWithMoves(), "", SituationalModifiers{}, testRealtimeConfig(), testRNG(), time.Now(), 0, &log)
	require.Error(t, err)
	require.Equal(t, engineerr.ConflictState, engineerr.CodeOf(err))
}

func TestAttackRangedFailsWhenClipEmpty(t *testing.T) {
	s, log := newTestSession(t)
	weapon := testWeaponWithMoves()
	weapon.WeaponClass = registry.Ranged
	weapon.Movesets = map[registry.MoveType]registry.Moveset{"aimed": {StaminaCost: 5, DamageMultiplier: 1.0}}
	s.ClipAmmo = 0

	_, err := Attack(s, weapon, "", SituationalModifiers{}, testRealtimeConfig(), testRNG(), time.Now(), 0, &log)
	require.Error(t, err)
	require.Equal(t, engineerr.PreconditionFailed, engineerr.CodeOf(err))
	require.Contains(t, err.Error(), FailEmptyClip)
}

func TestAttackConsumesClipAmmo(t *testing.T) {
	s, log := newTestSession(t)
	weapon := testWeaponWithMoves()
	weapon.WeaponClass = registry.Ranged
	weapon.Movesets = map[registry.MoveType]registry.Moveset{"aimed": {StaminaCost: 5, DamageMultiplier: 1.0}}
	s.ClipAmmo = 3

	_, err := Attack(s, weapon, "", SituationalModifiers{}, testRealtimeConfig(), rngAlwaysHits(), time.Now(), 0, &log)
	require.NoError(t, err)
	require.Equal(t, 2, s.ClipAmmo)
}

func TestFocusSelectsLivingEnemy(t *testing.T) {
	s, log := newTestSession(t)
	s.Spawn(testMob(), 1, 1.0, 1.0, 0, testRNG(), &log, time.Now())
	err := Focus(s, 1, time.Now(), 0, &log)
	require.NoError(t, err)
	require.Equal(t, 1, s.FocusIndex)
}

func TestPushIncrementsDistanceAndDecaysOnTick(t *testing.T) {
	s, _ := newTestSession(t)
	err := Push(s, time.Now(), 0)
	require.NoError(t, err)
	require.Equal(t, 1, s.Player.Distance)

	s.ApplyPushDecay()
	require.Equal(t, 0, s.Player.Distance)
}

func TestReloadRefillsFromReserve(t *testing.T) {
	s, _ := newTestSession(t)
	weapon := testWeaponWithMoves()
	weapon.ClipSize = 6
	weapon.ReloadTime = 2
	s.ClipAmmo = 1
	s.ReserveAmmo = 10

	err := Reload(s, weapon, time.Now(), 0)
	require.NoError(t, err)
	require.Equal(t, 6, s.ClipAmmo)
	require.Equal(t, 5, s.ReserveAmmo)
}

func TestFleeSuccessEndsSessionEscaped(t *testing.T) {
	s, log := newTestSession(t)
	success, err := Flee(s, rngAlwaysHits(), time.Now(), 0, &log)
	require.NoError(t, err)
	require.True(t, success)
	require.Equal(t, Escaped, s.Result)
}
