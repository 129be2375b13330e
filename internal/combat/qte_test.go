package combat

import (
	"testing"
	"time"

	"github.com/GFrenk016/secondavita-core/internal/eventlog"
	"github.com/GFrenk016/secondavita-core/internal/registry"
	"github.com/stretchr/testify/require"
)

func testRealtimeConfig() RealtimeConfig {
	return RealtimeConfig{
		InactivitySeconds:  9999,
		DefensiveQTEWindow: 2,
		OffensiveQTEWindow: 2,
		OffensiveQTEChance: 1.0,
	}
}

func TestProcessRealtimeEventsOpensDefenseWindow(t *testing.T) {
	now := time.Now()
	log := eventlog.NewLog(500)
	s, err := StartCombat(nil, testPlayer(), registry.Weapon{}, testMob(), 1.0, 1.0, now, 0, testRNG(), &log)
	require.NoError(t, err)
	s.Enemies[0].NextAttackTotal = 0 // due immediately

	ProcessRealtimeEvents(s, testRealtimeConfig(), now, 0, testRNG(), &log)
	require.NotNil(t, s.QTE)
	require.Equal(t, QTEDefense, s.QTE.Type)
	require.Equal(t, PhaseQTE, s.Phase)
	require.True(t, s.Enemies[0].HasIncomingAttack)
}

func TestProcessRealtimeEventsTimesOutDefenseWindow(t *testing.T) {
	now := time.Now()
	log := eventlog.NewLog(500)
	s, err := StartCombat(nil, testPlayer(), registry.Weapon{}, testMob(), 1.0, 1.0, now, 0, testRNG(), &log)
	require.NoError(t, err)
	s.Enemies[0].NextAttackTotal = 0
	s.Enemies[0].AttackDamage = 15

	ProcessRealtimeEvents(s, testRealtimeConfig(), now, 0, testRNG(), &log)
	require.NotNil(t, s.QTE)

	startHP := s.Player.HP
	ProcessRealtimeEvents(s, testRealtimeConfig(), now, 100, testRNG(), &log) // well past deadline
	require.Nil(t, s.QTE)
	require.Equal(t, PhasePlayer, s.Phase)
	// Landing now runs through the AI move-selection pipeline (a heavy hit
	// of 21, or a miss) rather than a flat AttackDamage subtraction.
	require.LessOrEqual(t, s.Player.HP, startHP)
	require.GreaterOrEqual(t, s.Player.HP, startHP-21)
}

func TestProcessRealtimeEventsTimesOutOffenseWindow(t *testing.T) {
	now := time.Now()
	log := eventlog.NewLog(500)
	s, err := StartCombat(nil, testPlayer(), registry.Weapon{}, testMob(), 1.0, 1.0, now, 0, testRNG(), &log)
	require.NoError(t, err)
	s.QTE = &QTEState{Type: QTEOffense, ExpectedToken: "X", DeadlineTotal: 1}
	s.Phase = PhaseQTE

	ProcessRealtimeEvents(s, testRealtimeConfig(), now, 5, testRNG(), &log)
	require.Nil(t, s.QTE)
	require.Equal(t, PhasePlayer, s.Phase)
	require.Equal(t, float64(6), s.Enemies[0].NextAttackTotal)
}

func TestSubmitQTEDefenseSuccessCancelsIncoming(t *testing.T) {
	now := time.Now()
	log := eventlog.NewLog(500)
	s, err := StartCombat(nil, testPlayer(), registry.Weapon{}, testMob(), 1.0, 1.0, now, 0, testRNG(), &log)
	require.NoError(t, err)
	s.Enemies[0].NextAttackTotal = 0
	ProcessRealtimeEvents(s, testRealtimeConfig(), now, 0, testRNG(), &log)
	token := s.QTE.ExpectedToken

	startHP := s.Player.HP
	err = SubmitQTE(s, token, now, 1, testRNG(), &log)
	require.NoError(t, err)
	require.Nil(t, s.QTE)
	require.Equal(t, startHP, s.Player.HP)
	require.False(t, s.Enemies[0].HasIncomingAttack)
}

func TestSubmitQTEOffenseFailureTightensNextAttack(t *testing.T) {
	now := time.Now()
	log := eventlog.NewLog(500)
	s, err := StartCombat(nil, testPlayer(), registry.Weapon{}, testMob(), 1.0, 1.0, now, 0, testRNG(), &log)
	require.NoError(t, err)
	s.QTE = &QTEState{Type: QTEOffense, ExpectedToken: "X", DeadlineTotal: 5}
	s.Phase = PhaseQTE

	err = SubmitQTE(s, "wrong-token", now, 1, testRNG(), &log)
	require.NoError(t, err)
	require.Equal(t, float64(2), s.Enemies[0].NextAttackTotal)
}
