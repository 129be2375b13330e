package registry

import "encoding/json"

type rawExit struct {
	Direction   string `json:"direction"`
	TargetMicro string `json:"target_micro"`
	TargetMacro string `json:"target_macro"`
	Locked      bool   `json:"locked"`
	LockFlag    string `json:"lock_flag"`
	Description string `json:"description"`
}

type rawInteractable struct {
	ID          string      `json:"id"`
	Alias       string      `json:"alias"`
	VisibleFlag VisibleFlag `json:"visible_flag"`
}

type rawMicro struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Short         string            `json:"short"`
	Description   string            `json:"description"`
	Tags          []string          `json:"tags"`
	SpawnTable    string            `json:"spawn_table"`
	Exits         []rawExit         `json:"exits"`
	Interactables []rawInteractable `json:"interactables"`
}

type rawMacro struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Micros      []rawMicro `json:"micro_rooms"`
}

type rawWorld struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Macros      []rawMacro `json:"macro_rooms"`
}

// LoadWorld parses a single world content file (§6.2 World) into the
// immutable graph type.
func LoadWorld(path string) (World, error) {
	top, err := decodeFileRaw(path)
	if err != nil {
		return World{}, err
	}
	raw, err := json.Marshal(top)
	if err != nil {
		return World{}, err
	}
	var rw rawWorld
	if err := json.Unmarshal(raw, &rw); err != nil {
		return World{}, err
	}

	w := World{
		ID:          rw.ID,
		Name:        rw.Name,
		Description: rw.Description,
		Macros:      make(map[string]MacroRoom, len(rw.Macros)),
	}
	for _, rm := range rw.Macros {
		macro := MacroRoom{
			ID:          rm.ID,
			Name:        rm.Name,
			Description: rm.Description,
			Micros:      make(map[string]MicroRoom, len(rm.Micros)),
		}
		for _, rmi := range rm.Micros {
			micro := MicroRoom{
				ID:          rmi.ID,
				Name:        rmi.Name,
				Short:       rmi.Short,
				Description: rmi.Description,
				Tags:        rmi.Tags,
				SpawnTable:  rmi.SpawnTable,
			}
			for _, re := range rmi.Exits {
				micro.Exits = append(micro.Exits, Exit{
					Direction:   re.Direction,
					TargetMicro: re.TargetMicro,
					TargetMacro: re.TargetMacro,
					Locked:      re.Locked,
					LockFlag:    re.LockFlag,
					Description: re.Description,
				})
			}
			for _, ri := range rmi.Interactables {
				micro.Interactables = append(micro.Interactables, InteractableRef{
					ID:          ri.ID,
					Alias:       ri.Alias,
					VisibleFlag: ri.VisibleFlag,
				})
			}
			macro.Micros[micro.ID] = micro
		}
		w.Macros[macro.ID] = macro
	}
	return w, nil
}

// Strings is the localized-content bundle (§6.2 Strings).
type Strings struct {
	Aree    map[string]StringVariant `json:"aree"`
	Oggetti map[string]ObjectString  `json:"oggetti"`
}

// LoadStrings parses a single strings content file.
func LoadStrings(path string) (Strings, error) {
	top, err := decodeFileRaw(path)
	if err != nil {
		return Strings{}, err
	}
	raw, err := json.Marshal(top)
	if err != nil {
		return Strings{}, err
	}
	var s Strings
	if err := json.Unmarshal(raw, &s); err != nil {
		return Strings{}, err
	}
	return s, nil
}
