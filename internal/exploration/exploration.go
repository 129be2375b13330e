// Package exploration implements SPEC_FULL.md §4.2: look/go/wait/wait_until
// and the inspect->examine->search gated chain, with ambient-snippet rate
// limiting and partial-name target resolution.
//
// Grounded on original_source/engine/core/actions.py for exact operation
// semantics and the teacher's maps/queue.go for the partial-match/id
// resolution idiom.
package exploration

import (
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/GFrenk016/secondavita-core/internal/clock"
	"github.com/GFrenk016/secondavita-core/internal/engineerr"
	"github.com/GFrenk016/secondavita-core/internal/registry"
)

// Location is the player's current position in the world graph.
type Location struct {
	MacroID string `bson:"macroId" json:"macroId"`
	MicroID string `bson:"microId" json:"microId"`
}

// Memory tracks per-micro visit history (§4.2 "look").
type Memory struct {
	VisitCount    map[string]int    `bson:"visitCount" json:"visitCount"`
	LastSignature map[string]string `bson:"lastSignature" json:"lastSignature"`
}

// NewMemory returns an empty visit memory.
func NewMemory() Memory {
	return Memory{VisitCount: map[string]int{}, LastSignature: map[string]string{}}
}

func signature(phase clock.Daytime, weather clock.Weather) string {
	return string(phase) + "|" + string(weather)
}

// FlagLookup resolves whether a named game-state flag is currently truthy —
// used for both visible_flag gating and exit lock_flag gating.
type FlagLookup func(name string) bool

func visibleFlagTrue(flag registry.VisibleFlag, lookup FlagLookup, clk *clock.State) bool {
	switch flag {
	case "":
		return true
	case registry.FlagIsDaytime:
		return clk.Daytime == clock.Morning || clk.Daytime == clock.Day
	case registry.FlagIsMorning:
		return clk.Daytime == clock.Morning
	case registry.FlagIsRainy:
		return clk.Weather == clock.Rain
	default:
		return lookup(string(flag))
	}
}

// Look renders the full `look` output (§4.2) and updates visit memory.
func Look(w *registry.World, strs registry.Strings, clk *clock.State, loc Location, mem *Memory, ambient *AmbientState, catalog AmbientCatalog, lookup FlagLookup, minGapMinutes float64, rng *rand.Rand) (string, error) {
	clk.Recompute(time.Now())
	micro, ok := w.Micro(loc.MacroID, loc.MicroID)
	if !ok {
		return "", engineerr.Newf(engineerr.NotFound, "unknown location %s/%s", loc.MacroID, loc.MicroID)
	}

	var b strings.Builder
	b.WriteString(clk.Header())
	b.WriteString("\n")

	sig := signature(clk.Daytime, clk.Weather)
	count := mem.VisitCount[loc.MicroID]
	last := mem.LastSignature[loc.MicroID]

	variant, hasVariant := strs.Aree[loc.MicroID]
	switch {
	case count == 0:
		b.WriteString(describeFull(micro, variant, hasVariant))
	case sig != last:
		b.WriteString(describeDeltaVariant(micro, variant, hasVariant, clk))
	default:
		if hasVariant && variant.Nome != "" {
			b.WriteString(variant.Nome)
		} else {
			b.WriteString(micro.Name)
		}
	}
	b.WriteString("\n")

	if snippet, ok := nextAmbientSnippet(ambient, catalog, clk, minGapMinutes, rng); ok {
		b.WriteString(snippet)
		b.WriteString("\n")
	}

	for _, ref := range micro.Interactables {
		if !visibleFlagTrue(ref.VisibleFlag, lookup, clk) {
			continue
		}
		b.WriteString("- ")
		b.WriteString(objectLabel(ref, strs))
		b.WriteString("\n")
	}

	for _, e := range micro.Exits {
		b.WriteString(e.Direction)
		b.WriteString(": ")
		b.WriteString(exitTargetName(w, strs, e))
		if e.Locked && !lookup(e.LockFlag) {
			b.WriteString(" (locked)")
		}
		b.WriteString("\n")
	}

	mem.VisitCount[loc.MicroID] = count + 1
	mem.LastSignature[loc.MicroID] = sig
	return b.String(), nil
}

func objectLabel(ref registry.InteractableRef, strs registry.Strings) string {
	if s, ok := strs.Oggetti[ref.ID]; ok && s.Nome != "" {
		return s.Nome
	}
	if ref.Alias != "" {
		return ref.Alias
	}
	return ref.ID
}

func exitTargetName(w *registry.World, strs registry.Strings, e registry.Exit) string {
	if v, ok := strs.Aree[e.TargetMicro]; ok && v.Nome != "" {
		return v.Nome
	}
	macroID := e.TargetMacro
	if macroID == "" {
		if found, ok := w.FindMicroMacro(e.TargetMicro); ok {
			macroID = found
		}
	}
	if micro, ok := w.Micro(macroID, e.TargetMicro); ok {
		return micro.Name
	}
	return e.TargetMicro
}

func describeFull(m registry.MicroRoom, variant registry.StringVariant, hasVariant bool) string {
	if hasVariant && variant.Descrizione != "" {
		return variant.Descrizione
	}
	return m.Description
}

// describeDeltaVariant returns the phase/weather-specific variant line,
// separated from the base name with "—" (§4.2 "look").
func describeDeltaVariant(m registry.MicroRoom, variant registry.StringVariant, hasVariant bool, clk *clock.State) string {
	name := m.Name
	if hasVariant && variant.Nome != "" {
		name = variant.Nome
	}
	if !hasVariant {
		return name
	}
	key := signature(clk.Daytime, clk.Weather)
	if v, ok := variant.Varianti[key]; ok {
		return name + " — " + v
	}
	if v, ok := variant.Varianti[string(clk.Daytime)]; ok {
		return name + " — " + v
	}
	return name
}

// Go resolves `go(direction)` (§4.2). onExit/onEnter are called with the
// old/new micro ids respectively on success, letting the caller dispatch
// room events without this package depending on internal/events.
func Go(w *registry.World, loc *Location, direction string, lookup FlagLookup, onExit, onEnter func(microID string)) error {
	micro, ok := w.Micro(loc.MacroID, loc.MicroID)
	if !ok {
		return engineerr.New(engineerr.NotFound, "unknown location")
	}
	exit, ok := micro.FindExit(direction)
	if !ok {
		return engineerr.New(engineerr.NotFound, "no such exit")
	}
	if exit.Locked && !lookup(exit.LockFlag) {
		return engineerr.New(engineerr.PreconditionFailed, "exit is locked")
	}

	if onExit != nil {
		onExit(loc.MicroID)
	}

	targetMacro := exit.TargetMacro
	if targetMacro == "" {
		targetMacro = loc.MacroID
		if _, ok := w.Micro(targetMacro, exit.TargetMicro); !ok {
			if found, ok := w.FindMicroMacro(exit.TargetMicro); ok {
				targetMacro = found
			}
		}
	}
	loc.MacroID = targetMacro
	loc.MicroID = exit.TargetMicro

	if onEnter != nil {
		onEnter(loc.MicroID)
	}
	return nil
}

// Wait resolves `wait(minutes)` (§4.2): rejects <=0, advances the offset,
// and re-evaluates weather.
func Wait(clk *clock.State, minutes float64, now time.Time, rng *rand.Rand) error {
	if minutes <= 0 {
		return engineerr.New(engineerr.InvalidArgument, "minutes must be positive")
	}
	clk.Wait(now, minutes)
	clk.AdvanceWeatherIfDue(rng)
	return nil
}

// WaitUntil resolves `wait_until(phase)` (§4.2). Returns (-1, nil) when
// already in the requested phase.
func WaitUntil(clk *clock.State, phase clock.Daytime, now time.Time, rng *rand.Rand) (int, error) {
	delta := clk.MinutesUntilPhase(phase)
	if delta < 0 {
		return -1, nil
	}
	clk.Wait(now, float64(delta))
	clk.AdvanceWeatherIfDue(rng)
	return delta, nil
}

// ResolveTarget implements the §4.2 "Partial-name resolution": substring/
// prefix match over localized names, failing with an ambiguity error
// listing every candidate when more than one matches.
func ResolveTarget(refs []registry.InteractableRef, strs registry.Strings, query string) (registry.InteractableRef, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return registry.InteractableRef{}, engineerr.New(engineerr.InvalidArgument, "empty target")
	}

	var matches []registry.InteractableRef
	for _, ref := range refs {
		label := strings.ToLower(objectLabel(ref, strs))
		if strings.HasPrefix(label, query) || strings.Contains(label, query) || strings.EqualFold(ref.ID, query) {
			matches = append(matches, ref)
		}
	}

	switch len(matches) {
	case 0:
		return registry.InteractableRef{}, engineerr.Newf(engineerr.NotFound, "no target matches %q", query)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, objectLabel(m, strs))
		}
		sort.Strings(names)
		return registry.InteractableRef{}, engineerr.Newf(engineerr.InvalidArgument, "ambiguous target %q: %s", query, strings.Join(names, ", "))
	}
}
