package combat

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/GFrenk016/secondavita-core/internal/engineerr"
	"github.com/GFrenk016/secondavita-core/internal/eventlog"
	"github.com/GFrenk016/secondavita-core/internal/registry"
)

// Failure categories (§4.3.10) — distinguished by message, never by text
// matching on Code (every one carries a specific engineerr.Code already).
const (
	FailOutOfPhase   = "out_of_phase"
	FailNoTarget     = "no_valid_target"
	FailUnknown      = "unknown_command"
	FailEmptyClip    = "empty"
	FailNoUses       = "no_uses"
	FailEngagedAlready = "engaged_when_active"
)

func requirePlayerPhase(s *CombatSession) error {
	if s.Phase != PhasePlayer {
		return engineerr.New(engineerr.ConflictState, FailOutOfPhase)
	}
	return nil
}

func (s *CombatSession) resolveTarget(arg string) (*EnemyInstance, error) {
	if arg == "" {
		if e := s.FocusOrFirst(); e != nil {
			return e, nil
		}
		return nil, engineerr.New(engineerr.NotFound, FailNoTarget)
	}
	if idx, err := strconv.Atoi(arg); err == nil {
		if idx < 0 || idx >= len(s.Enemies) || !s.Enemies[idx].Alive() {
			return nil, engineerr.New(engineerr.NotFound, FailNoTarget)
		}
		return s.Enemies[idx], nil
	}
	for _, e := range s.Enemies {
		if e.Alive() && strings.EqualFold(e.ID, arg) {
			return e, nil
		}
	}
	return nil, engineerr.New(engineerr.NotFound, FailNoTarget)
}

func markPlayerActed(s *CombatSession, now time.Time, totalMinutes float64) {
	s.LastPlayerActionReal = now
	s.LastPlayerActionTotal = totalMinutes
}

// Attack resolves `attack [index|target|aimed|snap]` (§4.3.6). arg is
// either an enemy selector (index or id) or a move_type keyword; an empty
// arg attacks the focus/first enemy with the weapon's default move (light,
// else aimed, else throw, else any moveset the weapon has).
func Attack(s *CombatSession, weapon registry.Weapon, arg string, mods SituationalModifiers, cfg RealtimeConfig, rng *rand.Rand, now time.Time, totalMinutes float64, log *eventlog.Log) (AttackOutcome, error) {
	if err := requirePlayerPhase(s); err != nil {
		return AttackOutcome{}, err
	}

	moveType, targetArg := splitMoveAndTarget(weapon, arg)
	target, err := s.resolveTarget(targetArg)
	if err != nil {
		return AttackOutcome{}, err
	}
	move, ok := BuildMoveSpec(weapon, moveType)
	if !ok {
		return AttackOutcome{}, engineerr.New(engineerr.InvalidArgument, FailUnknown)
	}

	if weapon.WeaponClass == registry.Ranged {
		if s.ClipAmmo <= 0 {
			return AttackOutcome{}, engineerr.New(engineerr.PreconditionFailed, FailEmptyClip)
		}
	}

	out, err := ResolveAttack(&s.Player, &target.Combatant, move, mods, rng, now, totalMinutes, log, "player_attack", map[string]any{"target_id": target.ID})
	if err != nil {
		return AttackOutcome{}, err
	}
	if weapon.WeaponClass == registry.Ranged {
		s.ClipAmmo--
	}

	if weapon.WeaponClass == registry.Heavy && weapon.CleaveTargets > 0 && out.Hit {
		resolveCleave(s, weapon, target, move, out.Quality, now, totalMinutes, log)
	}

	markPlayerActed(s, now, totalMinutes)
	if out.Hit {
		TriggerOffensiveQTE(s, cfg, totalMinutes, rng)
	}
	s.CheckEnd(now, totalMinutes, log)
	return out, nil
}

func splitMoveAndTarget(weapon registry.Weapon, arg string) (registry.MoveType, string) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return defaultMoveType(weapon), ""
	}
	if _, ok := weapon.Movesets[registry.MoveType(arg)]; ok {
		return registry.MoveType(arg), ""
	}
	return defaultMoveType(weapon), arg
}

func defaultMoveType(weapon registry.Weapon) registry.MoveType {
	for _, preferred := range []string{"light", "aimed", "throw"} {
		if _, ok := weapon.Movesets[registry.MoveType(preferred)]; ok {
			return registry.MoveType(preferred)
		}
	}
	for mt := range weapon.Movesets {
		return mt
	}
	return ""
}

// resolveCleave resolves additional hits on up to weapon.CleaveTargets
// other live enemies at weapon.CleaveFactor of base damage (§4.3.6).
func resolveCleave(s *CombatSession, weapon registry.Weapon, primary *EnemyInstance, move MoveSpec, quality HitQuality, now time.Time, totalMinutes float64, log *eventlog.Log) {
	cleaveMove := move
	cleaveMove.DamageMultiplier *= weapon.CleaveFactor
	hits := 0
	for _, e := range s.Enemies {
		if hits >= weapon.CleaveTargets {
			break
		}
		if e == primary || !e.Alive() {
			continue
		}
		dmg := int(float64(move.BaseDamage) * cleaveMove.DamageMultiplier * qualityDamageMultiplier(quality) * e.Resistance(move.DamageType))
		e.HP -= dmg
		if e.HP < 0 {
			e.HP = 0
		}
		hits++
		if log != nil {
			log.Append(eventlog.New("combat", "heavy_cleave", now, totalMinutes, map[string]any{
				"target_id": e.ID, "damage": dmg,
			}))
		}
	}
}

// AttackAll resolves `attack all` (§4.3.6): cooldown-gated multi-target
// swing at reduced per-target damage.
func AttackAll(s *CombatSession, weapon registry.Weapon, mods SituationalModifiers, cfg RealtimeConfig, rng *rand.Rand, now time.Time, totalMinutes float64, log *eventlog.Log) ([]AttackOutcome, error) {
	if err := requirePlayerPhase(s); err != nil {
		return nil, err
	}
	live := s.LiveEnemies()
	if len(live) == 0 {
		return nil, engineerr.New(engineerr.NotFound, FailNoTarget)
	}
	if totalMinutes < s.AttackAllCooldownUntil {
		return nil, engineerr.New(engineerr.PreconditionFailed, "attack_all_cooldown")
	}

	n := len(live)
	avgInterval := 0.0
	for _, e := range live {
		avgInterval += e.AttackInterval
	}
	avgInterval /= float64(n)
	const minCooldown = 2.0
	cooldown := avgInterval
	if cooldown < minCooldown {
		cooldown = minCooldown
	}

	move, ok := BuildMoveSpec(weapon, defaultMoveType(weapon))
	if !ok {
		return nil, engineerr.New(engineerr.InvalidArgument, FailUnknown)
	}
	extraStamina := 5.0 * float64(n-1)
	if !s.Player.HasStaminaFor(move.StaminaCost + extraStamina) {
		return nil, engineerr.New(engineerr.PreconditionFailed, ErrStaminaInsufficient)
	}
	s.Player.ConsumeStamina(move.StaminaCost + extraStamina)

	scale := 0.5 * (0.8 + 0.2*float64(n)/float64(n+2))
	scaledMove := move
	scaledMove.DamageMultiplier *= scale
	scaledMove.StaminaCost = 0 // already paid once above

	outs := make([]AttackOutcome, 0, n)
	for _, e := range live {
		out, err := ResolveAttack(&s.Player, &e.Combatant, scaledMove, mods, rng, now, totalMinutes, log, "area_attack", map[string]any{"target_id": e.ID})
		if err != nil {
			continue
		}
		outs = append(outs, out)
	}
	s.AttackAllCooldownUntil = totalMinutes + cooldown
	markPlayerActed(s, now, totalMinutes)
	s.CheckEnd(now, totalMinutes, log)
	return outs, nil
}

// Throw resolves `throw [index]` (§4.3.6).
func Throw(s *CombatSession, weapon registry.Weapon, targetArg string, now time.Time, totalMinutes float64, rng *rand.Rand, log *eventlog.Log) (AttackOutcome, error) {
	if err := requirePlayerPhase(s); err != nil {
		return AttackOutcome{}, err
	}
	if s.ThrowUses <= 0 {
		return AttackOutcome{}, engineerr.New(engineerr.PreconditionFailed, FailNoUses)
	}
	target, err := s.resolveTarget(targetArg)
	if err != nil {
		return AttackOutcome{}, err
	}
	move, ok := BuildMoveSpec(weapon, "throw")
	if !ok {
		return AttackOutcome{}, engineerr.New(engineerr.InvalidArgument, FailUnknown)
	}

	out, err := ResolveAttack(&s.Player, &target.Combatant, move, SituationalModifiers{}, rng, now, totalMinutes, log, "throw", map[string]any{"target_id": target.ID})
	if err != nil {
		return AttackOutcome{}, err
	}
	s.ThrowUses--

	splashDamage := int(float64(move.BaseDamage) * weapon.AoEFactor)
	for _, e := range s.Enemies {
		if e == target || !e.Alive() {
			continue
		}
		dmg := int(float64(splashDamage) * e.Resistance(move.DamageType))
		e.HP -= dmg
		if e.HP < 0 {
			e.HP = 0
		}
		if log != nil {
			log.Append(eventlog.New("combat", "throw_splash", now, totalMinutes, map[string]any{"target_id": e.ID, "damage": dmg}))
		}
	}

	markPlayerActed(s, now, totalMinutes)
	s.CheckEnd(now, totalMinutes, log)
	return out, nil
}

// Reload resolves `reload` (§4.3.6): refills the clip from reserve, up to
// clip_size, delaying every live enemy's next attack by reload_time.
func Reload(s *CombatSession, weapon registry.Weapon, now time.Time, totalMinutes float64) error {
	if err := requirePlayerPhase(s); err != nil {
		return err
	}
	need := weapon.ClipSize - s.ClipAmmo
	if need <= 0 {
		return nil
	}
	take := need
	if take > s.ReserveAmmo {
		take = s.ReserveAmmo
	}
	s.ClipAmmo += take
	s.ReserveAmmo -= take
	for _, e := range s.Enemies {
		if e.Alive() {
			e.NextAttackTotal += weapon.ReloadTime
		}
	}
	markPlayerActed(s, now, totalMinutes)
	return nil
}

// Push resolves `push` (§4.3.6): increases distance and delays the focused
// enemy's next attack.
func Push(s *CombatSession, now time.Time, totalMinutes float64) error {
	if err := requirePlayerPhase(s); err != nil {
		return err
	}
	target := s.FocusOrFirst()
	if target == nil {
		return engineerr.New(engineerr.NotFound, FailNoTarget)
	}
	s.Player.Distance++
	s.PushDecay = 1
	if target.NextAttackTotal < totalMinutes+1 {
		target.NextAttackTotal = totalMinutes + 1
	} else {
		target.NextAttackTotal++
	}
	markPlayerActed(s, now, totalMinutes)
	return nil
}

// ApplyPushDecay closes the distance by one each tick once a push has been
// thrown (§4.3.6 "attacker closes next tick").
func (s *CombatSession) ApplyPushDecay() {
	if s.PushDecay > 0 && s.Player.Distance > 0 {
		s.Player.Distance--
		s.PushDecay = 0
	}
}

// Flee resolves `flee` (§4.3.6).
func Flee(s *CombatSession, rng *rand.Rand, now time.Time, totalMinutes float64, log *eventlog.Log) (bool, error) {
	if err := requirePlayerPhase(s); err != nil {
		return false, err
	}
	chance := 0.30
	if s.Player.Distance > 0 {
		chance += 0.30
	}
	for _, e := range s.LiveEnemies() {
		if e.MaxHP > 0 && float64(e.HP)/float64(e.MaxHP) < 0.40 {
			chance += 0.20
			break
		}
	}

	success := rng.Float64() < chance
	if success {
		s.end(Escaped, now, totalMinutes, log)
		if log != nil {
			log.Append(eventlog.New("combat", "player_escape", now, totalMinutes, nil))
		}
		return true, nil
	}
	for _, e := range s.LiveEnemies() {
		e.NextAttackTotal = totalMinutes
	}
	if log != nil {
		log.Append(eventlog.New("combat", "player_escape_fail", now, totalMinutes, nil))
	}
	markPlayerActed(s, now, totalMinutes)
	return false, nil
}

// Focus resolves `focus <index>` (§4.3.6).
func Focus(s *CombatSession, index int, now time.Time, totalMinutes float64, log *eventlog.Log) error {
	if err := s.SetFocus(index); err != nil {
		return err
	}
	if log != nil {
		log.Append(eventlog.New("combat", "focus_set", now, totalMinutes, map[string]any{"enemy_id": s.Enemies[index].ID}))
	}
	return nil
}

// Status renders `status` (§4.3.6): a multi-line summary of the session.
func Status(s *CombatSession, weapon registry.Weapon, totalMinutes float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "phase=%s hp=%d/%d stamina=%.0f/%.0f posture=%.0f/%.0f\n",
		s.Phase, s.Player.HP, s.Player.MaxHP, s.Player.Stamina, s.Player.MaxStamina, s.Player.Posture, s.Player.MaxPosture)
	if s.QTE != nil {
		fmt.Fprintf(&b, "qte type=%s deadline_in=%.1fm\n", s.QTE.Type, s.QTE.DeadlineTotal-totalMinutes)
	}
	switch weapon.WeaponClass {
	case registry.Ranged:
		fmt.Fprintf(&b, "ammo=%d/%d (reserve %d)\n", s.ClipAmmo, weapon.ClipSize, s.ReserveAmmo)
	case registry.Throwable:
		fmt.Fprintf(&b, "throws=%d\n", s.ThrowUses)
	}
	for i, e := range s.Enemies {
		flags := ""
		if !e.Alive() {
			flags += "[X dead]"
		}
		if i == s.FocusIndex {
			flags += "[F focused]"
		}
		if e.HasIncomingAttack {
			flags += fmt.Sprintf("[I:%.0fm incoming]", e.IncomingAttackDeadline-totalMinutes)
		}
		fmt.Fprintf(&b, "%d: %s hp=%d/%d %s\n", i, e.ID, e.HP, e.MaxHP, flags)
	}
	return b.String()
}
