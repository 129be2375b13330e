package npc

import (
	"bytes"
	"encoding/json"
	"strings"

	"golang.org/x/sync/singleflight"
)

// Call is the pluggable oracle transport: `(system, user) -> raw text`.
// Matches original_source/engine/npc/llm_adapter.py's llm_call contract.
type Call func(system, user string) (string, error)

// Oracle runs orchestrated NPC conversational turns: Turn calls the oracle
// with caller-built prompts (see Prompt), validates its payload, and applies
// memory writes. The relationship delta is returned in the Response and is
// not applied to any registry here. Never returns an error —
// §4.6 mandates a typed fallback instead (see Fallback).
//
// Concurrent Turn calls for the same npcID are collapsed into one in-flight
// oracle call via singleflight (golang.org/x/sync/singleflight), grounded
// on the teacher's use of the same x/sync module; the original adapter has
// no such guard because the reference implementation is single-threaded.
type Oracle struct {
	call   Call
	group  singleflight.Group
	wl     Whitelists
	check  GameStateCheck
	memory *MemoryStore
}

// NewOracle builds an Oracle around call, validating against wl and the
// optional game-state precondition check.
func NewOracle(call Call, wl Whitelists, check GameStateCheck, memory *MemoryStore) *Oracle {
	return &Oracle{call: call, wl: wl, check: check, memory: memory}
}

// SceneContext is the user-prompt payload built per turn (llm_adapter.py's
// build_user_prompt).
type SceneContext struct {
	Place   string
	Weather string
	Extra   map[string]any
}

// Prompt builds the (system, user) strings for one NPC turn.
func Prompt(npcID, name, persona, goals, taboo string, intents, actions []string, scene SceneContext, memories []Record) (system, user string) {
	var sb strings.Builder
	sb.WriteString("You are " + name + ", an NPC in a text-adventure engine.\n")
	sb.WriteString("Personality: " + persona + ". Goals: " + goals + ". Taboo: " + taboo + ".\n")
	sb.WriteString("World rules: Only output STRICT JSON matching the provided schema.\n")
	sb.WriteString("Allowed intents: " + strings.Join(intents, ", ") + "\n")
	sb.WriteString("Allowed actions: " + strings.Join(actions, ", ") + "\n")
	system = sb.String()

	payload := map[string]any{
		"context": map[string]any{
			"place":   scene.Place,
			"weather": scene.Weather,
			"extra":   scene.Extra,
		},
		"memories": memories,
	}
	buf, _ := json.Marshal(payload)
	user = string(buf)
	return system, user
}

// Decode extracts and parses the strict JSON object from raw, tolerating
// leading/trailing prose around the JSON blob (llm_adapter.py's
// find("{")/rfind("}") extraction), and rejects unknown top-level keys
// (the schema's additionalProperties: false).
func Decode(raw string) (Response, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return Response{}, errNoJSON
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(raw[start : end+1])))
	dec.DisallowUnknownFields()
	var r Response
	if err := dec.Decode(&r); err != nil {
		return Response{}, err
	}
	return r, nil
}

var errNoJSON = &decodeError{"no JSON object found in oracle response"}

type decodeError struct{ msg string }

func (e *decodeError) Error() string { return e.msg }

// Turn runs one full NPC conversational turn for npcID, never raising: any
// transport, decode, schema, or semantic failure degrades to Fallback.
func (o *Oracle) Turn(npcID string, system, user string, now int64) Response {
	v, err, _ := o.group.Do(npcID, func() (any, error) {
		return o.call(system, user)
	})
	if err != nil {
		return Fallback(npcID, err.Error())
	}
	raw, _ := v.(string)

	resp, err := Decode(raw)
	if err != nil {
		return Fallback(npcID, err.Error())
	}

	if ok, reason := ValidateSchema(resp); !ok {
		return Fallback(resp.NPCID, reason)
	}
	if ok, reason := ValidateSemantics(resp, o.wl, o.check); !ok {
		return Fallback(resp.NPCID, reason)
	}

	if o.memory != nil && len(resp.MemoryWrite) > 0 {
		items := make([]Record, len(resp.MemoryWrite))
		for i, mw := range resp.MemoryWrite {
			items[i] = Record{Type: mw.Type, Key: mw.Key, Value: mw.Value}
		}
		o.memory.Write(resp.NPCID, items, now)
	}

	return resp
}
