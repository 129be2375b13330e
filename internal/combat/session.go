package combat

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/GFrenk016/secondavita-core/internal/eventlog"
	"github.com/GFrenk016/secondavita-core/internal/engineerr"
	"github.com/GFrenk016/secondavita-core/internal/registry"
)

// QTEState describes a currently pending quick-time-event window (§4.3.5).
type QTEState struct {
	Type          QTEType         `bson:"type" json:"type"`
	DeadlineTotal float64         `bson:"deadlineTotal" json:"deadlineTotal"`
	ExpectedToken string          `bson:"expectedToken" json:"expectedToken"`
	EnemyID       string          `bson:"enemyId,omitempty" json:"enemyId,omitempty"` // defense QTE target
	Effect        OffensiveEffect `bson:"effect,omitempty" json:"effect,omitempty"`   // offense QTE reward
}

// EnemyInstance is one live enemy in a session: its immutable Mob
// definition plus mutable combat state (§3, §4.3.1).
type EnemyInstance struct {
	Combatant
	MobID               string                        `bson:"mobId" json:"mobId"`
	AIState             registry.AIState              `bson:"aiState" json:"aiState"`
	Traits              registry.BehavioralTraits     `bson:"traits" json:"traits"`
	AITraits            []string                      `bson:"aiTraits,omitempty" json:"aiTraits,omitempty"`
	LootTable           []registry.LootEntry          `bson:"lootTable,omitempty" json:"lootTable,omitempty"`
	NegotiationOutcomes []registry.NegotiationOutcome `bson:"negotiationOutcomes,omitempty" json:"negotiationOutcomes,omitempty"`

	AttackInterval        float64 `bson:"attackInterval" json:"attackInterval"`
	AttackDamage          int     `bson:"attackDamage" json:"attackDamage"`
	NextAttackTotal       float64 `bson:"nextAttackTotal" json:"nextAttackTotal"`
	HasIncomingAttack     bool    `bson:"hasIncomingAttack" json:"hasIncomingAttack"`
	IncomingAttackDeadline float64 `bson:"incomingAttackDeadline,omitempty" json:"incomingAttackDeadline,omitempty"`

	Cornered     bool    `bson:"cornered,omitempty" json:"cornered,omitempty"`
	LootRolled   bool    `bson:"lootRolled,omitempty" json:"lootRolled,omitempty"`
	RemovedAlive bool    `bson:"removedAlive,omitempty" json:"removedAlive,omitempty"` // fled/captured/negotiated away, not killed
	EnhancedLootFactor float64 `bson:"enhancedLootFactor,omitempty" json:"enhancedLootFactor,omitempty"`
	MoralImpact  bool    `bson:"moralImpact,omitempty" json:"moralImpact,omitempty"`
}

// Alive reports whether the enemy is still a valid target.
func (e *EnemyInstance) Alive() bool {
	return e.HP > 0 && !e.RemovedAlive
}

// CombatSession is the full mutable state of one active fight (§4.3.1).
type CombatSession struct {
	Player Combatant `bson:"player" json:"player"`

	WeaponID   string `bson:"weaponId" json:"weaponId"`
	ClipAmmo   int    `bson:"clipAmmo,omitempty" json:"clipAmmo,omitempty"`
	ReserveAmmo int   `bson:"reserveAmmo,omitempty" json:"reserveAmmo,omitempty"`
	ThrowUses  int    `bson:"throwUses,omitempty" json:"throwUses,omitempty"`

	Enemies    []*EnemyInstance `bson:"enemies" json:"enemies"`
	FocusIndex int              `bson:"focusIndex" json:"focusIndex"`

	Phase  Phase   `bson:"phase" json:"phase"`
	Result Result  `bson:"result,omitempty" json:"result,omitempty"`
	QTE    *QTEState `bson:"qte,omitempty" json:"qte,omitempty"`

	StartedAtWall         time.Time `bson:"startedAtWall" json:"startedAtWall"`
	StartedAtTotal        float64   `bson:"startedAtTotal" json:"startedAtTotal"`
	LastPlayerActionReal  time.Time `bson:"lastPlayerActionReal" json:"lastPlayerActionReal"`
	LastPlayerActionTotal float64   `bson:"lastPlayerActionTotal" json:"lastPlayerActionTotal"`

	AttackAllCooldownUntil float64 `bson:"attackAllCooldownUntil,omitempty" json:"attackAllCooldownUntil,omitempty"`
	PushDecay              int     `bson:"pushDecay,omitempty" json:"pushDecay,omitempty"`
	PlayerDamageReductionNext float64 `bson:"playerDamageReductionNext,omitempty" json:"playerDamageReductionNext,omitempty"`

	PendingMessages []string `bson:"pendingMessages,omitempty" json:"pendingMessages,omitempty"`

	IDSeq map[string]int `bson:"idSeq,omitempty" json:"idSeq,omitempty"`

	// LastPackAttackTotal/PackAttacksAtLastTotal track the pack-hunter
	// flanking supplement (SPEC_FULL.md): the 2nd and later pack-state
	// enemy attacks landing at the same totalMinutes tick get flanking.
	LastPackAttackTotal     float64 `bson:"lastPackAttackTotal,omitempty" json:"lastPackAttackTotal,omitempty"`
	PackAttacksAtLastTotal  int     `bson:"packAttacksAtLastTotal,omitempty" json:"packAttacksAtLastTotal,omitempty"`
}

// IsActive reports whether a session is still in progress (not ended).
func (s *CombatSession) IsActive() bool {
	return s != nil && s.Phase != PhaseEnded
}

// StartCombat initializes a new session against a single primary enemy
// (§4.3.1). Fails with ConflictState if a session is already active.
func StartCombat(active *CombatSession, player Combatant, weapon registry.Weapon, primary registry.Mob, intervalMultiplier, damageMultiplier float64, now time.Time, totalMinutes float64, rng *rand.Rand, log *eventlog.Log) (*CombatSession, error) {
	if active.IsActive() {
		return nil, engineerr.New(engineerr.ConflictState, "combat already in progress")
	}
	primary.ApplyDefaults()

	s := &CombatSession{
		Player:                player,
		WeaponID:              weapon.ID,
		ClipAmmo:              weapon.AmmoInClip,
		ReserveAmmo:           weapon.AmmoReserve,
		ThrowUses:             weapon.Uses,
		Phase:                 PhasePlayer,
		StartedAtWall:         now,
		StartedAtTotal:        totalMinutes,
		LastPlayerActionReal:  now,
		LastPlayerActionTotal: totalMinutes,
		IDSeq:                 map[string]int{},
	}

	enemy := newEnemyInstance(primary, intervalMultiplier, damageMultiplier, totalMinutes, rng, s.IDSeq)
	s.Enemies = append(s.Enemies, enemy)

	if log != nil {
		log.Append(eventlog.New("combat", "combat_started", now, totalMinutes, map[string]any{
			"enemy_id": enemy.ID, "mob_id": enemy.MobID,
		}))
	}
	return s, nil
}

// Spawn adds count additional enemies of mobDef to an active session,
// assigning suffixed ids on collision (§4.3.1).
func (s *CombatSession) Spawn(mobDef registry.Mob, count int, intervalMultiplier, damageMultiplier float64, totalMinutes float64, rng *rand.Rand, log *eventlog.Log, now time.Time) ([]*EnemyInstance, error) {
	if !s.IsActive() {
		return nil, engineerr.New(engineerr.PreconditionFailed, "no active combat session")
	}
	if count <= 0 {
		count = 1
	}
	if s.IDSeq == nil {
		s.IDSeq = map[string]int{}
	}
	mobDef.ApplyDefaults()
	spawned := make([]*EnemyInstance, 0, count)
	for i := 0; i < count; i++ {
		e := newEnemyInstance(mobDef, intervalMultiplier, damageMultiplier, totalMinutes, rng, s.IDSeq)
		s.Enemies = append(s.Enemies, e)
		spawned = append(spawned, e)
		if log != nil {
			log.Append(eventlog.New("combat", "enemy_spawned", now, totalMinutes, map[string]any{"enemy_id": e.ID}))
		}
	}
	return spawned, nil
}

func newEnemyInstance(def registry.Mob, intervalMultiplier, damageMultiplier float64, totalMinutes float64, rng *rand.Rand, idSeq map[string]int) *EnemyInstance {
	id := nextInstanceID(def.ID, idSeq)
	interval := def.BaseAttackInterval * intervalMultiplier
	if interval < 1 {
		interval = 1
	}
	damage := int(float64(def.Attack) * damageMultiplier)
	jitter := rng.Float64() * interval

	return &EnemyInstance{
		Combatant: Combatant{
			ID: id, Name: def.Name, HP: def.HP, MaxHP: def.HP,
			Stamina: def.MaxStamina, MaxStamina: def.MaxStamina,
			Posture: def.MaxPosture, MaxPosture: def.MaxPosture,
			StaggerThreshold: def.StaggerThreshold,
			WeaponHandling:   def.WeaponHandling,
			Resistances:      def.Resistances,
		},
		MobID:               def.ID,
		AIState:             def.AIState,
		Traits:              def.BehavioralTraits,
		AITraits:            def.AITraits,
		LootTable:           def.LootTable,
		NegotiationOutcomes: def.NegotiationOutcomes,
		AttackInterval:      interval,
		AttackDamage:        damage,
		NextAttackTotal:     totalMinutes + interval + jitter,
	}
}

// nextInstanceID assigns `id`, `id_2`, `id_3`, … on collision (§4.3.1).
func nextInstanceID(base string, idSeq map[string]int) string {
	n := idSeq[base]
	idSeq[base] = n + 1
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s_%d", base, n+1)
}

// LiveEnemies returns every enemy still a valid combat target, in order.
func (s *CombatSession) LiveEnemies() []*EnemyInstance {
	var out []*EnemyInstance
	for _, e := range s.Enemies {
		if e.Alive() {
			out = append(out, e)
		}
	}
	return out
}

// FocusOrFirst returns the currently focused enemy if alive, else the
// first live enemy (§4.3.6 "focus").
func (s *CombatSession) FocusOrFirst() *EnemyInstance {
	if s.FocusIndex >= 0 && s.FocusIndex < len(s.Enemies) && s.Enemies[s.FocusIndex].Alive() {
		return s.Enemies[s.FocusIndex]
	}
	live := s.LiveEnemies()
	if len(live) == 0 {
		return nil
	}
	return live[0]
}

// SetFocus focuses the enemy at index, auto-switching to the next living
// enemy when the focused target dies is handled separately in CheckEnd.
func (s *CombatSession) SetFocus(index int) error {
	if index < 0 || index >= len(s.Enemies) || !s.Enemies[index].Alive() {
		return engineerr.New(engineerr.InvalidArgument, "no such living enemy")
	}
	s.FocusIndex = index
	return nil
}

// CheckEnd evaluates the session-ending conditions (§4.3.1): all enemies
// dead/removed -> victory; player dead -> defeat. Escaped is set directly
// by the flee command. Returns true if the session just ended.
func (s *CombatSession) CheckEnd(now time.Time, totalMinutes float64, log *eventlog.Log) bool {
	if s.Phase == PhaseEnded {
		return false
	}
	if s.Player.HP <= 0 {
		s.end(Defeat, now, totalMinutes, log)
		return true
	}
	if len(s.LiveEnemies()) == 0 {
		s.end(Victory, now, totalMinutes, log)
		return true
	}
	if s.FocusIndex >= 0 && s.FocusIndex < len(s.Enemies) && !s.Enemies[s.FocusIndex].Alive() {
		if live := s.LiveEnemies(); len(live) > 0 {
			for i, e := range s.Enemies {
				if e == live[0] {
					s.FocusIndex = i
					break
				}
			}
			if log != nil {
				log.Append(eventlog.New("combat", "focus_auto_switch", now, totalMinutes, map[string]any{"enemy_id": live[0].ID}))
			}
		}
	}
	return false
}

func (s *CombatSession) end(result Result, now time.Time, totalMinutes float64, log *eventlog.Log) {
	s.Phase = PhaseEnded
	s.Result = result
	s.QTE = nil
	if log != nil {
		log.Append(eventlog.New("combat", "combat_ended", now, totalMinutes, map[string]any{"result": string(result)}))
	}
}

// PushMessage buffers a user-facing message for the next render (§4.3.7).
func (s *CombatSession) PushMessage(msg string) {
	s.PendingMessages = append(s.PendingMessages, msg)
}

// DrainMessages returns and clears the buffered render messages.
func (s *CombatSession) DrainMessages() []string {
	out := s.PendingMessages
	s.PendingMessages = nil
	return out
}
