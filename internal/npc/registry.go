package npc

// NPC is one runtime NPC instance (not to be confused with
// registry.Mob — NPCs talk, mobs fight). Grounded on
// original_source/engine/core/npc/models.py's NPC dataclass, thinned to
// the fields this engine's dialogue/relationship flow actually needs.
type NPC struct {
	ID      string `bson:"id" json:"id"`
	Name    string `bson:"name" json:"name"`
	Macro   string `bson:"macro" json:"macro"`
	Micro   string `bson:"micro" json:"micro"`
	Mood    Mood   `bson:"mood" json:"mood"`
	Persona string `bson:"persona" json:"persona"`
	Goals   string `bson:"goals" json:"goals"`
	Taboo   string `bson:"taboo" json:"taboo"`

	Relationship     int   `bson:"relationship" json:"relationship"`
	LastInteractedAt int64 `bson:"lastInteractedAt" json:"lastInteractedAt"` // total simulated minutes
}

// Registry manages runtime NPCs and their location index. Grounded on
// original_source/engine/core/npc/registry.py's NPCRegistry.
type Registry struct {
	NPCs           map[string]*NPC           `bson:"npcs" json:"npcs"`
	LocationIndex  map[string][]string       `bson:"locationIndex" json:"locationIndex"`
}

// NewRegistry builds an empty NPC registry.
func NewRegistry() *Registry {
	return &Registry{NPCs: map[string]*NPC{}, LocationIndex: map[string][]string{}}
}

func locationKey(macro, micro string) string { return macro + ":" + micro }

// Register adds or replaces an NPC and indexes it by location.
func (r *Registry) Register(n NPC) {
	cp := n
	r.NPCs[n.ID] = &cp
	r.indexLocation(&cp)
}

func (r *Registry) indexLocation(n *NPC) {
	key := locationKey(n.Macro, n.Micro)
	for _, id := range r.LocationIndex[key] {
		if id == n.ID {
			return
		}
	}
	r.LocationIndex[key] = append(r.LocationIndex[key], n.ID)
}

func (r *Registry) deindexLocation(n *NPC) {
	key := locationKey(n.Macro, n.Micro)
	ids := r.LocationIndex[key]
	out := ids[:0]
	for _, id := range ids {
		if id != n.ID {
			out = append(out, id)
		}
	}
	r.LocationIndex[key] = out
}

// Get returns the NPC by id.
func (r *Registry) Get(npcID string) (*NPC, bool) {
	n, ok := r.NPCs[npcID]
	return n, ok
}

// Move relocates an NPC, updating the location index.
func (r *Registry) Move(npcID, newMacro, newMicro string) {
	n, ok := r.NPCs[npcID]
	if !ok {
		return
	}
	r.deindexLocation(n)
	n.Macro, n.Micro = newMacro, newMicro
	r.indexLocation(n)
}

// At returns every NPC currently at macro/micro.
func (r *Registry) At(macro, micro string) []*NPC {
	ids := r.LocationIndex[locationKey(macro, micro)]
	out := make([]*NPC, 0, len(ids))
	for _, id := range ids {
		if n, ok := r.NPCs[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// ApplyRelationshipDelta clamps the accumulated relationship to [-10,10]
// (§4.6) and stamps the interaction time.
func (r *Registry) ApplyRelationshipDelta(npcID string, delta int, totalMinutes int64) {
	n, ok := r.NPCs[npcID]
	if !ok {
		return
	}
	n.Relationship = clamp(n.Relationship+delta, -10, 10)
	n.LastInteractedAt = totalMinutes
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

const (
	relationshipDecayAfterDays = 3
	relationshipDecayPerDay    = 1
	minutesPerDay              = 1440
)

// DecayIfDue drifts every NPC's relationship 1 point toward 0 per in-game
// day once untouched for more than relationshipDecayAfterDays days — a
// generalization of the original registry's per-tick NPC update hook
// (SUPPLEMENTED FEATURES), applied once per call at totalMinutes.
func (r *Registry) DecayIfDue(totalMinutes int64) {
	for _, n := range r.NPCs {
		if n.Relationship == 0 {
			continue
		}
		idleDays := (totalMinutes - n.LastInteractedAt) / minutesPerDay
		if idleDays <= relationshipDecayAfterDays {
			continue
		}
		decayDays := idleDays - relationshipDecayAfterDays
		drift := int(decayDays) * relationshipDecayPerDay
		if n.Relationship > 0 {
			n.Relationship = max(0, n.Relationship-drift)
		} else {
			n.Relationship = min(0, n.Relationship+drift)
		}
		// Move the cursor past the days just applied so a later call only
		// decays the days that have elapsed since.
		n.LastInteractedAt += decayDays * minutesPerDay
	}
}
