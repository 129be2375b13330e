package registry

// AIState is a closed enum driving tactical move selection (§4.3.4).
type AIState string

const (
	Aggressive  AIState = "aggressive"
	Cautious    AIState = "cautious"
	Pack        AIState = "pack"
	Passive     AIState = "passive"
	Surrendered AIState = "surrendered"
	Fleeing     AIState = "fleeing"
)

// LootEntry is one roll-able reward in a LootTable.
type LootEntry struct {
	ItemID   string  `json:"item_id" yaml:"item_id" bson:"itemId"`
	Chance   float64 `json:"chance" yaml:"chance" bson:"chance"`
	Quantity int     `json:"quantity,omitempty" yaml:"quantity,omitempty" bson:"quantity,omitempty"`
}

// NegotiationOutcome is one possible draw from a mob's negotiation table
// (§4.3.8).
type NegotiationOutcome struct {
	Result     string  `json:"result" yaml:"result" bson:"result"` // "success" | "failure"
	Weight     float64 `json:"weight" yaml:"weight" bson:"weight"`
	GiftItem   string  `json:"gift_item,omitempty" yaml:"gift_item,omitempty" bson:"giftItem,omitempty"`
	FlipHostile bool   `json:"flip_hostile,omitempty" yaml:"flip_hostile,omitempty" bson:"flipHostile,omitempty"`
}

// BehavioralTraits carries the free-form AI traits referenced by §4.3.4/§4.3.8
// (e.g. flees_when_hurt, pack_hunter, has_hidden_weapon, can_negotiate,
// surrender_complete, hidden_weapon_damage).
type BehavioralTraits struct {
	FliesWhenHurt       bool    `json:"flees_when_hurt,omitempty" yaml:"flees_when_hurt,omitempty" bson:"fliesWhenHurt,omitempty"`
	PackHunter          bool    `json:"pack_hunter,omitempty" yaml:"pack_hunter,omitempty" bson:"packHunter,omitempty"`
	HasHiddenWeapon     bool    `json:"has_hidden_weapon,omitempty" yaml:"has_hidden_weapon,omitempty" bson:"hasHiddenWeapon,omitempty"`
	HiddenWeaponDamage  int     `json:"hidden_weapon_damage,omitempty" yaml:"hidden_weapon_damage,omitempty" bson:"hiddenWeaponDamage,omitempty"`
	CanNegotiate        bool    `json:"can_negotiate,omitempty" yaml:"can_negotiate,omitempty" bson:"canNegotiate,omitempty"`
	SurrenderComplete   bool    `json:"surrender_complete,omitempty" yaml:"surrender_complete,omitempty" bson:"surrenderComplete,omitempty"`
	MoralImpact         bool    `json:"moral_impact,omitempty" yaml:"moral_impact,omitempty" bson:"moralImpact,omitempty"`
}

// Mob is an immutable-per-session enemy definition (§3).
type Mob struct {
	ID                string                    `json:"id" yaml:"id" bson:"id"`
	Name              string                    `json:"name" yaml:"name" bson:"name"`
	HP                int                       `json:"hp" yaml:"hp" bson:"hp"`
	Attack            int                       `json:"attack" yaml:"attack" bson:"attack"`
	MaxStamina        float64                   `json:"max_stamina" yaml:"max_stamina" bson:"maxStamina"`
	MaxPosture        float64                   `json:"max_posture" yaml:"max_posture" bson:"maxPosture"`
	StaggerThreshold  float64                   `json:"stagger_threshold" yaml:"stagger_threshold" bson:"staggerThreshold"`
	WeaponHandling    float64                   `json:"weapon_handling" yaml:"weapon_handling" bson:"weaponHandling"`
	Resistances       map[DamageType]float64    `json:"resistances,omitempty" yaml:"resistances,omitempty" bson:"resistances,omitempty"`
	AIState           AIState                   `json:"ai_state" yaml:"ai_state" bson:"aiState"`
	AITraits          []string                  `json:"ai_traits,omitempty" yaml:"ai_traits,omitempty" bson:"aiTraits,omitempty"`
	BehavioralTraits  BehavioralTraits          `json:"behavioral_traits,omitempty" yaml:"behavioral_traits,omitempty" bson:"behavioralTraits,omitempty"`
	LootTable         []LootEntry               `json:"loot_table,omitempty" yaml:"loot_table,omitempty" bson:"lootTable,omitempty"`
	NegotiationOutcomes []NegotiationOutcome    `json:"negotiation_outcomes,omitempty" yaml:"negotiation_outcomes,omitempty" bson:"negotiationOutcomes,omitempty"`

	BaseAttackInterval  float64 `json:"attack_interval,omitempty" yaml:"attack_interval,omitempty" bson:"attackInterval,omitempty"`
	WeaponID            string  `json:"weapon_id,omitempty" yaml:"weapon_id,omitempty" bson:"weaponId,omitempty"`
}

// ApplyDefaults fills §4.7's mob defaults when omitted.
func (m *Mob) ApplyDefaults() {
	if m.MaxStamina == 0 {
		m.MaxStamina = 80
	}
	if m.MaxPosture == 0 {
		m.MaxPosture = 60
	}
	if m.StaggerThreshold == 0 {
		m.StaggerThreshold = 0.3
	}
	if m.WeaponHandling == 0 {
		m.WeaponHandling = 0.4
	}
	if m.AIState == "" {
		m.AIState = Aggressive
	}
	if m.BaseAttackInterval == 0 {
		m.BaseAttackInterval = 3
	}
	if m.Resistances == nil {
		m.Resistances = map[DamageType]float64{}
	}
}

// Resistance returns the multiplier for a damage type, defaulting to 1.0
// (neutral) when unspecified.
func (m *Mob) Resistance(dt DamageType) float64 {
	if v, ok := m.Resistances[dt]; ok {
		return v
	}
	return 1.0
}

// HasTrait reports whether a free-form AI trait flag is present.
func (m *Mob) HasTrait(trait string) bool {
	for _, t := range m.AITraits {
		if t == trait {
			return true
		}
	}
	return false
}
