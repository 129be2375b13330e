package combat

import (
	"math/rand/v2"
	"time"

	"github.com/GFrenk016/secondavita-core/internal/eventlog"
	"github.com/GFrenk016/secondavita-core/internal/engineerr"
	"github.com/GFrenk016/secondavita-core/internal/registry"
)

// RealtimeConfig carries the tunables the realtime scheduler needs, sourced
// from config.Config (§6.5).
type RealtimeConfig struct {
	InactivitySeconds   float64
	DefensiveQTEWindow  float64 // minutes
	OffensiveQTEWindow  float64 // minutes
	OffensiveQTEChance  float64
	ComplexQTEEnabled   bool
}

const qteAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateToken(rng *rand.Rand, complexQTE bool) string {
	if !complexQTE {
		return string(qteAlphabet[rng.IntN(len(qteAlphabet))])
	}
	n := 3 + rng.IntN(3) // 3..5
	b := make([]byte, n)
	for i := range b {
		b[i] = qteAlphabet[rng.IntN(len(qteAlphabet))]
	}
	return string(b)
}

// ProcessRealtimeEvents is the scheduler entry point called on every
// realtime tick, including on every player command (§4.3.5).
func ProcessRealtimeEvents(s *CombatSession, cfg RealtimeConfig, wallNow time.Time, totalMinutes float64, rng *rand.Rand, log *eventlog.Log) {
	if !s.IsActive() {
		return
	}

	// 0. Tactical AI state transitions (§4.3.4), ahead of this tick's move
	// selection so a freshly-retreating or recovered enemy acts on it.
	updateAIStates(s)

	// 1. Inactivity gate.
	if wallNow.Sub(s.LastPlayerActionReal).Seconds() >= cfg.InactivitySeconds {
		for _, e := range s.Enemies {
			if e.Alive() {
				e.NextAttackTotal = totalMinutes
			}
		}
	}

	// 2. Active QTE timeout: defense window landing the attack, or an
	// offensive window closing unresolved (§4.3.5).
	if s.QTE != nil && totalMinutes >= s.QTE.DeadlineTotal {
		switch s.QTE.Type {
		case QTEDefense:
			resolveDefenseTimeout(s, totalMinutes, log, wallNow, rng)
		case QTEOffense:
			resolveOffenseTimeout(s, totalMinutes, log, wallNow)
		}
	}

	// 3. New defense window.
	if s.QTE == nil {
		var earliest *EnemyInstance
		for _, e := range s.Enemies {
			if !e.Alive() || e.HasIncomingAttack {
				continue
			}
			if e.NextAttackTotal > totalMinutes {
				continue
			}
			if earliest == nil || e.NextAttackTotal < earliest.NextAttackTotal {
				earliest = e
			}
		}
		if earliest != nil {
			earliest.HasIncomingAttack = true
			deadline := totalMinutes + cfg.DefensiveQTEWindow
			earliest.IncomingAttackDeadline = deadline
			earliest.NextAttackTotal = deadline + earliest.AttackInterval
			s.Phase = PhaseQTE
			s.QTE = &QTEState{
				Type: QTEDefense, DeadlineTotal: deadline,
				ExpectedToken: generateToken(rng, cfg.ComplexQTEEnabled),
				EnemyID:       earliest.ID,
			}
		}
	}
}

// resolveDefenseTimeout lands the attacker's hit when the defensive QTE
// window elapses unresolved (§4.3.5 step 2), routed through the tactical AI
// move-selection and resolution pipeline rather than a flat amount.
func resolveDefenseTimeout(s *CombatSession, totalMinutes float64, log *eventlog.Log, wallNow time.Time, rng *rand.Rand) {
	var attacker *EnemyInstance
	for _, e := range s.Enemies {
		if e.ID == s.QTE.EnemyID {
			attacker = e
			break
		}
	}
	if attacker != nil {
		resolveEnemyLanding(s, attacker, wallNow, totalMinutes, rng, log)
		attacker.HasIncomingAttack = false
		attacker.NextAttackTotal = totalMinutes + attacker.AttackInterval
		if log != nil {
			log.Append(eventlog.New("combat", "qte_defense_fail", wallNow, totalMinutes, map[string]any{
				"enemy_id": attacker.ID,
			}))
		}
	}
	s.QTE = nil
	s.Phase = PhasePlayer
}

// resolveOffenseTimeout closes an offensive QTE that was never submitted
// before its window elapsed, applying the same tighten-next-attack penalty
// as an explicit failure (§4.3.5 "Offensive failure / timeout").
func resolveOffenseTimeout(s *CombatSession, totalMinutes float64, log *eventlog.Log, wallNow time.Time) {
	qte := *s.QTE
	tightenNextAttack(s, totalMinutes)
	logQTE(log, "qte_offense_timeout", wallNow, totalMinutes, qte)
	s.QTE = nil
	if s.Player.HP > 0 {
		s.Phase = PhasePlayer
	}
}

// updateAIStates applies the §4.3.4 auto-transitions and retreat heuristic
// to every live enemy ahead of move selection.
func updateAIStates(s *CombatSession) {
	live := s.LiveEnemies()
	for _, e := range live {
		allyCount := 0
		for _, other := range live {
			if other != e && other.AIState == registry.Pack {
				allyCount++
			}
		}
		if e.AIState != registry.Fleeing && ShouldRetreat(e, allyCount, len(live)) {
			e.AIState = registry.Fleeing
			continue
		}
		e.AIState = NextAIState(e, e.PostureRatio() > 0.8)
	}
}

// resolveEnemyLanding resolves attacker's landed hit against the player
// through the tactical AI move-selection and §4.3.2 resolution pipeline,
// applying the pack-hunter flanking supplement to the 2nd and later
// pack-state attacker landing in the same totalMinutes tick. Falls back to
// a flat AttackDamage hit if the AI has no affordable/buildable move, so a
// stamina-starved enemy never simply fails to land its scheduled attack.
func resolveEnemyLanding(s *CombatSession, attacker *EnemyInstance, now time.Time, totalMinutes float64, rng *rand.Rand, log *eventlog.Log) {
	weapon := registry.Weapon{ID: "natural_" + attacker.MobID, Damage: attacker.AttackDamage}
	weapon.ApplyDefaults(nil)

	live := s.LiveEnemies()
	allyCount := 0
	for _, other := range live {
		if other != attacker && other.AIState == registry.Pack {
			allyCount++
		}
	}
	target := MostVulnerable([]*Combatant{&s.Player})
	if target == nil {
		target = &s.Player
	}

	moveType, ok := SelectMove(attacker, weapon, allyCount, target, rng.Float64)
	if !ok {
		s.applyIncomingDamage(attacker.AttackDamage)
		return
	}
	move, ok := BuildMoveSpec(weapon, moveType)
	if !ok {
		s.applyIncomingDamage(attacker.AttackDamage)
		return
	}

	mods := SituationalModifiers{}
	if attacker.AIState == registry.Pack {
		if s.LastPackAttackTotal == totalMinutes {
			s.PackAttacksAtLastTotal++
		} else {
			s.LastPackAttackTotal = totalMinutes
			s.PackAttacksAtLastTotal = 1
		}
		if s.PackAttacksAtLastTotal >= 2 {
			mods.Direction = DirectionFlanking
		}
	}

	if s.PlayerDamageReductionNext > 0 {
		move.DamageMultiplier *= 1 - s.PlayerDamageReductionNext
		s.PlayerDamageReductionNext = 0
	}

	if _, err := ResolveAttack(&attacker.Combatant, &s.Player, move, mods, rng, now, totalMinutes, log, "enemy_attack", map[string]any{"enemy_id": attacker.ID}); err != nil {
		s.applyIncomingDamage(attacker.AttackDamage)
	}
}

// applyIncomingDamage applies enemy damage to the player, consuming any
// pending QTE-reward damage reduction (§4.3.5 "reduce_next_damage").
func (s *CombatSession) applyIncomingDamage(amount int) {
	if s.PlayerDamageReductionNext > 0 {
		reduced := int(float64(amount) * (1 - s.PlayerDamageReductionNext))
		if reduced < 0 {
			reduced = 0
		}
		amount = reduced
		s.PlayerDamageReductionNext = 0
	}
	s.Player.HP -= amount
	if s.Player.HP < 0 {
		s.Player.HP = 0
	}
}

// TriggerOffensiveQTE is called after a successful player attack (§4.3.5
// "Offensive QTE trigger"). Generates the window with probability
// cfg.OffensiveQTEChance and no defensive QTE currently active (§9 Open
// Question: offensive QTE never stacks on an active defensive QTE).
func TriggerOffensiveQTE(s *CombatSession, cfg RealtimeConfig, totalMinutes float64, rng *rand.Rand) bool {
	if s.QTE != nil {
		return false
	}
	if rng.Float64() >= cfg.OffensiveQTEChance {
		return false
	}
	effect := sampleOffensiveEffect(rng)
	s.Phase = PhaseQTE
	s.QTE = &QTEState{
		Type: QTEOffense, DeadlineTotal: totalMinutes + cfg.OffensiveQTEWindow,
		ExpectedToken: generateToken(rng, cfg.ComplexQTEEnabled),
		Effect:        effect,
	}
	return true
}

func sampleOffensiveEffect(rng *rand.Rand) OffensiveEffect {
	switch rng.IntN(3) {
	case 0:
		return EffectBonusDamage
	case 1:
		return EffectReduceNextDmg
	default:
		return EffectGeneric
	}
}

// SubmitQTE resolves a pending QTE against player input (§4.3.5 "QTE
// resolution"). Fails with PreconditionFailed if no QTE is pending.
func SubmitQTE(s *CombatSession, token string, now time.Time, totalMinutes float64, rng *rand.Rand, log *eventlog.Log) error {
	if s.QTE == nil {
		return engineerr.New(engineerr.PreconditionFailed, "no pending qte")
	}
	success := token == s.QTE.ExpectedToken
	qte := *s.QTE

	switch qte.Type {
	case QTEOffense:
		if success {
			applyOffensiveEffect(s, qte.Effect)
			logQTE(log, "qte_offense_success", now, totalMinutes, qte)
		} else {
			tightenNextAttack(s, totalMinutes)
			logQTE(log, "qte_offense_fail", now, totalMinutes, qte)
		}
	case QTEDefense:
		attacker := s.findEnemy(qte.EnemyID)
		if success {
			if attacker != nil {
				attacker.HasIncomingAttack = false
				attacker.NextAttackTotal = totalMinutes + attacker.AttackInterval
			}
			logQTE(log, "qte_defense_success", now, totalMinutes, qte)
		} else {
			if attacker != nil {
				resolveEnemyLanding(s, attacker, now, totalMinutes, rng, log)
				attacker.HasIncomingAttack = false
				attacker.NextAttackTotal = totalMinutes + attacker.AttackInterval
			}
			logQTE(log, "qte_defense_fail", now, totalMinutes, qte)
		}
	}

	s.QTE = nil
	if s.Player.HP > 0 {
		s.Phase = PhasePlayer
	}
	return nil
}

func (s *CombatSession) findEnemy(id string) *EnemyInstance {
	for _, e := range s.Enemies {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func logQTE(log *eventlog.Log, name string, now time.Time, totalMinutes float64, qte QTEState) {
	if log == nil {
		return
	}
	log.Append(eventlog.New("combat", name, now, totalMinutes, map[string]any{
		"enemy_id": qte.EnemyID, "effect": string(qte.Effect),
	}))
}

func applyOffensiveEffect(s *CombatSession, effect OffensiveEffect) {
	switch effect {
	case EffectBonusDamage:
		if e := s.FocusOrFirst(); e != nil {
			e.HP -= 5
			if e.HP < 0 {
				e.HP = 0
			}
		}
	case EffectReduceNextDmg:
		s.PlayerDamageReductionNext = 0.5
	}
}

// tightenNextAttack schedules the focused enemy's next attack one simulated
// minute from now,
// the §4.3.5 penalty for a failed/timed-out offensive QTE.
func tightenNextAttack(s *CombatSession, totalMinutes float64) {
	if e := s.FocusOrFirst(); e != nil {
		e.NextAttackTotal = totalMinutes + 1
	}
}
