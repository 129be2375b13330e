package registry

import "encoding/json"

// decodeInto remarshals a generic map (from JSON or normalized YAML) into a
// concrete type T via its json tags — the shared decoding path for both
// source formats.
func decodeInto[T any](obj map[string]any) (T, error) {
	var out T
	raw, err := json.Marshal(obj)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

func objID(obj map[string]any) string {
	if v, ok := obj["id"]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// loadRootsFlat walks every root (respecting LoadOptions.Priority ordering),
// classifies each file, and flattens every discovered object with an "id"
// field, last-wins across the full walk order unless a priority override
// reorders the roots.
func loadRootsFlat(roots []string, opts LoadOptions) ([]map[string]any, error) {
	ordered := orderRoots(roots, opts)
	var all []map[string]any
	for _, root := range ordered {
		files, err := scanContentFiles(root)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			doc, err := decodeFile(f)
			if err != nil {
				continue // malformed content is skipped, matching original_source's best-effort loader
			}
			all = append(all, doc.allObjects()...)
		}
	}
	return all, nil
}

func orderRoots(roots []string, opts LoadOptions) []string {
	if opts.Priority == nil {
		return roots
	}
	out := make([]string, len(roots))
	copy(out, roots)
	// Stable sort by priority ascending; roots without an explicit priority
	// keep their relative walk-order position (treated as priority 0).
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && opts.Priority[out[j]] < opts.Priority[out[j-1]]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// LoadWeapons loads weapon definitions from one or more content roots,
// applying §4.7 defaults.
func LoadWeapons(roots []string, opts LoadOptions) (map[string]Weapon, error) {
	objs, err := loadRootsFlat(roots, opts)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Weapon)
	for _, obj := range objs {
		id := objID(obj)
		if id == "" {
			continue
		}
		w, err := decodeInto[Weapon](obj)
		if err != nil {
			continue
		}
		var tags []string
		if rawTags, ok := obj["tags"].([]any); ok {
			for _, t := range rawTags {
				if s, ok := t.(string); ok {
					tags = append(tags, s)
				}
			}
		}
		w.ApplyDefaults(tags)
		out[id] = w
	}
	return out, nil
}

// LoadMobs loads mob definitions, applying §4.7 defaults.
func LoadMobs(roots []string, opts LoadOptions) (map[string]Mob, error) {
	objs, err := loadRootsFlat(roots, opts)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Mob)
	for _, obj := range objs {
		id := objID(obj)
		if id == "" {
			continue
		}
		m, err := decodeInto[Mob](obj)
		if err != nil {
			continue
		}
		m.ApplyDefaults()
		out[id] = m
	}
	return out, nil
}

// LoadItems loads the {items: [...]} document format.
func LoadItems(roots []string, opts LoadOptions) (map[string]Item, error) {
	objs, err := loadRootsFlat(roots, opts)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Item)
	for _, obj := range objs {
		id := objID(obj)
		if id == "" {
			continue
		}
		it, err := decodeInto[Item](obj)
		if err != nil {
			continue
		}
		it.ApplyDefaults()
		out[id] = it
	}
	return out, nil
}

// LoadLootTables loads the {tables: {id: {...}}} document format, or the
// list shorthand (§6.2).
func LoadLootTables(roots []string, opts LoadOptions) (map[string]LootTable, error) {
	ordered := orderRoots(roots, opts)
	out := make(map[string]LootTable)
	for _, root := range ordered {
		files, err := scanContentFiles(root)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			doc, err := decodeFile(f)
			if err != nil {
				continue
			}
			if doc.Categories != nil {
				if tables, ok := doc.Categories["tables"]; ok {
					for _, t := range tables {
						applyLootTable(out, t)
					}
					continue
				}
			}
			for _, obj := range doc.allObjects() {
				applyLootTable(out, obj)
			}
		}
	}
	return out, nil
}

func applyLootTable(out map[string]LootTable, obj map[string]any) {
	id := objID(obj)
	if id == "" {
		return
	}
	lt, err := decodeInto[LootTable](obj)
	if err != nil {
		return
	}
	lt.ID = id
	out[id] = lt
}

// LoadRecipes loads the {recipes: [...]} document format, accepting either
// [id, qty] pair inputs/outputs or {item, quantity} objects.
func LoadRecipes(roots []string, opts LoadOptions) (map[string]Recipe, error) {
	objs, err := loadRootsFlat(roots, opts)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Recipe)
	for _, obj := range objs {
		id := objID(obj)
		if id == "" {
			continue
		}
		r := Recipe{ID: id}
		if v, ok := obj["name"].(string); ok {
			r.Name = v
		}
		if v, ok := obj["station"].(string); ok {
			r.Station = v
		}
		if v, ok := obj["time"].(float64); ok {
			r.Time = v
		}
		if v, ok := obj["skill"].(string); ok {
			r.Skill = v
		}
		if v, ok := obj["description"].(string); ok {
			r.Description = v
		}
		if rawTags, ok := obj["tags"].([]any); ok {
			for _, t := range rawTags {
				if s, ok := t.(string); ok {
					r.Tags = append(r.Tags, s)
				}
			}
		}
		if rawInputs, ok := obj["inputs"].([]any); ok {
			for _, ri := range rawInputs {
				r.Inputs = append(r.Inputs, parseRecipePair(ri))
			}
		}
		if rawOut, ok := obj["output"]; ok {
			item, qty := parseIDQtyAny(rawOut)
			r.OutputItem = item
			r.OutputQty = qty
		}
		out[id] = r
	}
	return out, nil
}

func parseRecipePair(v any) RecipeInput {
	item, qty := parseIDQtyAny(v)
	return RecipeInput{Item: item, Quantity: qty}
}

func parseIDQtyAny(v any) (string, int) {
	switch t := v.(type) {
	case []any:
		if len(t) >= 2 {
			id, _ := t[0].(string)
			qty := 1
			if f, ok := t[1].(float64); ok {
				qty = int(f)
			}
			return id, qty
		}
	case map[string]any:
		id, _ := t["item"].(string)
		qty := 1
		if f, ok := t["quantity"].(float64); ok {
			qty = int(f)
		}
		return id, qty
	}
	return "", 0
}

// LoadEvents loads the {events: {id: {...}}, room_events: {...}} document.
func LoadEvents(roots []string, opts LoadOptions) (map[string]EventDef, map[string]RoomEvents, error) {
	ordered := orderRoots(roots, opts)
	events := make(map[string]EventDef)
	roomEvents := make(map[string]RoomEvents)

	for _, root := range ordered {
		files, err := scanContentFiles(root)
		if err != nil {
			return nil, nil, err
		}
		for _, f := range files {
			top, err := decodeFileRaw(f)
			if err != nil || top == nil {
				continue
			}
			if rawEvents, ok := top["events"].(map[string]any); ok {
				for id, rawDef := range rawEvents {
					obj, ok := rawDef.(map[string]any)
					if !ok {
						continue
					}
					def, err := decodeInto[EventDef](obj)
					if err != nil {
						continue
					}
					def.ID = id
					events[id] = def
				}
			}
			if rawRoomEvents, ok := top["room_events"].(map[string]any); ok {
				for locKey, rawRE := range rawRoomEvents {
					obj, ok := rawRE.(map[string]any)
					if !ok {
						continue
					}
					re, err := decodeInto[RoomEvents](obj)
					if err != nil {
						continue
					}
					roomEvents[locKey] = re
				}
			}
		}
	}
	return events, roomEvents, nil
}
