package combat

import (
	"math/rand/v2"
	"time"

	"github.com/GFrenk016/secondavita-core/internal/engineerr"
	"github.com/GFrenk016/secondavita-core/internal/eventlog"
	"github.com/GFrenk016/secondavita-core/internal/registry"
)

// InteractionResult describes the outcome of a passive-mob interaction
// (§4.3.8), enough for the caller to render a message and update state.
type InteractionResult struct {
	Success     bool
	GiftItem    string
	MoralImpact bool
}

func requirePassiveTarget(e *EnemyInstance) error {
	switch e.AIState {
	case registry.Passive, registry.Surrendered, registry.Fleeing:
		return nil
	default:
		return engineerr.New(engineerr.PreconditionFailed, "target is not approachable")
	}
}

// Hunt resolves `hunt <index>` against an animal-type passive enemy
// (§4.3.8).
func Hunt(s *CombatSession, index int, rng *rand.Rand, now time.Time, totalMinutes float64, log *eventlog.Log) (InteractionResult, error) {
	e, err := targetByIndex(s, index)
	if err != nil {
		return InteractionResult{}, err
	}
	if err := requirePassiveTarget(e); err != nil {
		return InteractionResult{}, err
	}

	wounded := e.MaxHP > 0 && float64(e.HP)/float64(e.MaxHP) < 0.50
	chance := 0.40
	if wounded {
		chance = 0.70
	}

	roll := rng.Float64()
	res := InteractionResult{MoralImpact: e.Traits.MoralImpact}
	switch {
	case roll < chance:
		e.HP = 0
		e.EnhancedLootFactor = 1.5
		res.Success = true
		emitPassive(log, "hunt_success", now, totalMinutes, e.ID)
	case roll < chance+0.30:
		e.RemovedAlive = true
		emitPassive(log, "hunt_flee", now, totalMinutes, e.ID)
	default:
		e.AIState = registry.Cautious
		emitPassive(log, "hunt_fail", now, totalMinutes, e.ID)
	}
	s.CheckEnd(now, totalMinutes, log)
	return res, nil
}

// Capture resolves `capture <index>` against a surrendered human (§4.3.8).
func Capture(s *CombatSession, index int, rng *rand.Rand, now time.Time, totalMinutes float64, log *eventlog.Log) (InteractionResult, error) {
	e, err := targetByIndex(s, index)
	if err != nil {
		return InteractionResult{}, err
	}
	if e.AIState != registry.Surrendered {
		return InteractionResult{}, engineerr.New(engineerr.PreconditionFailed, "target has not surrendered")
	}

	chance := 0.50
	if e.Traits.SurrenderComplete {
		chance = 0.80
	}
	if rng.Float64() < chance {
		e.RemovedAlive = true
		emitPassive(log, "capture_success", now, totalMinutes, e.ID)
		s.CheckEnd(now, totalMinutes, log)
		return InteractionResult{Success: true}, nil
	}

	if e.Traits.HasHiddenWeapon {
		e.AIState = registry.Aggressive
		s.Player.HP -= e.Traits.HiddenWeaponDamage
		if s.Player.HP < 0 {
			s.Player.HP = 0
		}
		emitPassive(log, "capture_fail_ambush", now, totalMinutes, e.ID)
	} else {
		e.AIState = registry.Cautious
		emitPassive(log, "capture_fail", now, totalMinutes, e.ID)
	}
	s.CheckEnd(now, totalMinutes, log)
	return InteractionResult{}, nil
}

// Negotiate resolves `negotiate <index>` (§4.3.8): draws from the mob's
// negotiation_outcomes table weighted by each outcome's Weight, or uniformly
// when the weights sum to zero or less.
func Negotiate(s *CombatSession, index int, rng *rand.Rand, now time.Time, totalMinutes float64, log *eventlog.Log) (InteractionResult, error) {
	e, err := targetByIndex(s, index)
	if err != nil {
		return InteractionResult{}, err
	}
	if !e.Traits.CanNegotiate {
		return InteractionResult{}, engineerr.New(engineerr.PreconditionFailed, "target cannot be negotiated with")
	}
	if len(e.NegotiationOutcomes) == 0 {
		return InteractionResult{}, engineerr.New(engineerr.SemanticInvalid, "no negotiation outcomes defined")
	}

	outcome := sampleNegotiationOutcome(e.NegotiationOutcomes, rng)
	if outcome.Result == "success" {
		e.RemovedAlive = true
		emitPassive(log, "negotiate_success", now, totalMinutes, e.ID)
		s.CheckEnd(now, totalMinutes, log)
		return InteractionResult{Success: true, GiftItem: outcome.GiftItem}, nil
	}

	if outcome.FlipHostile {
		e.AIState = registry.Aggressive
	}
	emitPassive(log, "negotiate_fail", now, totalMinutes, e.ID)
	return InteractionResult{}, nil
}

func sampleNegotiationOutcome(outcomes []registry.NegotiationOutcome, rng *rand.Rand) registry.NegotiationOutcome {
	total := 0.0
	for _, o := range outcomes {
		total += o.Weight
	}
	if total <= 0 {
		return outcomes[rng.IntN(len(outcomes))]
	}
	roll := rng.Float64() * total
	acc := 0.0
	for _, o := range outcomes {
		acc += o.Weight
		if roll < acc {
			return o
		}
	}
	return outcomes[len(outcomes)-1]
}

func targetByIndex(s *CombatSession, index int) (*EnemyInstance, error) {
	if index < 0 || index >= len(s.Enemies) || !s.Enemies[index].Alive() {
		return nil, engineerr.New(engineerr.NotFound, FailNoTarget)
	}
	return s.Enemies[index], nil
}

func emitPassive(log *eventlog.Log, name string, now time.Time, totalMinutes float64, enemyID string) {
	if log == nil {
		return
	}
	log.Append(eventlog.New("combat", name, now, totalMinutes, map[string]any{"enemy_id": enemyID}))
}
