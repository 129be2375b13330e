package npc

import (
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Record is one append-only memory entry (§4.6 memory store).
type Record struct {
	Type      string `bson:"type" json:"type"`
	Key       string `bson:"key" json:"key"`
	Value     string `bson:"value" json:"value"`
	Timestamp int64  `bson:"timestamp" json:"timestamp"`
}

// MemoryStore is a per-NPC append-only keyword-indexed record set.
// Grounded on original_source/engine/npc/memory.py's write_mem/retrieve,
// generalized from one-file-per-NPC on disk to an in-memory map persisted
// as part of the single bson save snapshot (§6.4) rather than a second
// shared on-disk resource.
type MemoryStore struct {
	records map[string][]Record
}

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string][]Record{}}
}

// Write appends items to npcID's memory, stamping any missing Timestamp
// with the caller-supplied now.
func (m *MemoryStore) Write(npcID string, items []Record, now int64) {
	if len(items) == 0 {
		return
	}
	for i := range items {
		if items[i].Timestamp == 0 {
			items[i].Timestamp = now
		}
	}
	m.records[npcID] = append(m.records[npcID], items...)
}

// All returns npcID's full record slice (for snapshot serialization).
func (m *MemoryStore) All(npcID string) []Record {
	return m.records[npcID]
}

// MarshalBSON implements bson.Marshaler so the unexported records map
// survives the §6.4 single-file snapshot round-trip.
func (m *MemoryStore) MarshalBSON() ([]byte, error) {
	records := m.records
	if records == nil {
		records = map[string][]Record{}
	}
	return bson.Marshal(struct {
		Records map[string][]Record `bson:"records"`
	}{Records: records})
}

// UnmarshalBSON implements bson.Unmarshaler, the counterpart to MarshalBSON.
func (m *MemoryStore) UnmarshalBSON(data []byte) error {
	var wire struct {
		Records map[string][]Record `bson:"records"`
	}
	if err := bson.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Records == nil {
		wire.Records = map[string][]Record{}
	}
	m.records = wire.Records
	return nil
}

type scored struct {
	score int
	rec   Record
}

// Retrieve scores npcID's records by the sum of case-insensitive keyword
// occurrences of queryTerms in key+value, returning the top limit records
// with score > 0, highest first (original's memory.py retrieve()).
func Retrieve(m *MemoryStore, npcID string, queryTerms []string, limit int) []Record {
	if limit <= 0 {
		limit = 5
	}
	recs := m.records[npcID]
	if len(recs) == 0 {
		return nil
	}

	var candidates []scored
	for _, rec := range recs {
		text := strings.ToLower(rec.Key + " " + rec.Value)
		score := 0
		for _, term := range queryTerms {
			if term == "" {
				continue
			}
			score += strings.Count(text, strings.ToLower(term))
		}
		if score > 0 {
			candidates = append(candidates, scored{score: score, rec: rec})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]Record, len(candidates))
	for i, c := range candidates {
		out[i] = c.rec
	}
	return out
}
