package registry

// Registry is the immutable, process-lifetime content registry built once
// at boot (§9 "Ownership and cycles"). All fields are read-only after Load
// returns; callers share it freely by reference.
type Registry struct {
	World      World
	Strings    Strings
	Weapons    map[string]Weapon
	Mobs       map[string]Mob
	Items      map[string]Item
	LootTables map[string]LootTable
	Recipes    map[string]Recipe
	Events     map[string]EventDef
	RoomEvents map[string]RoomEvents
}

// Paths names every content root the Registry loads from.
type Paths struct {
	WorldFile   string
	StringsFile string
	WeaponRoots []string
	MobRoots    []string
	ItemRoots   []string
	LootRoots   []string
	RecipeRoots []string
	EventRoots  []string
	Options     LoadOptions
}

// Load builds a Registry from the given content paths.
func Load(p Paths) (*Registry, error) {
	reg := &Registry{}

	if p.WorldFile != "" {
		w, err := LoadWorld(p.WorldFile)
		if err != nil {
			return nil, err
		}
		reg.World = w
	}
	if p.StringsFile != "" {
		s, err := LoadStrings(p.StringsFile)
		if err != nil {
			return nil, err
		}
		reg.Strings = s
	}

	var err error
	if reg.Weapons, err = LoadWeapons(p.WeaponRoots, p.Options); err != nil {
		return nil, err
	}
	if reg.Mobs, err = LoadMobs(p.MobRoots, p.Options); err != nil {
		return nil, err
	}
	if reg.Items, err = LoadItems(p.ItemRoots, p.Options); err != nil {
		return nil, err
	}
	if reg.LootTables, err = LoadLootTables(p.LootRoots, p.Options); err != nil {
		return nil, err
	}
	if reg.Recipes, err = LoadRecipes(p.RecipeRoots, p.Options); err != nil {
		return nil, err
	}
	if reg.Events, reg.RoomEvents, err = LoadEvents(p.EventRoots, p.Options); err != nil {
		return nil, err
	}
	return reg, nil
}

// Weapon looks up a weapon by id.
func (r *Registry) Weapon(id string) (Weapon, bool) {
	w, ok := r.Weapons[id]
	return w, ok
}

// Mob looks up a mob definition by id.
func (r *Registry) Mob(id string) (Mob, bool) {
	m, ok := r.Mobs[id]
	return m, ok
}

// Item looks up an item definition by id.
func (r *Registry) Item(id string) (Item, bool) {
	it, ok := r.Items[id]
	return it, ok
}

// ObjectLabel resolves a localized name for an interactable/item id, falling
// back to the raw id when no localized string is authored.
func (r *Registry) ObjectLabel(id string) string {
	if s, ok := r.Strings.Oggetti[id]; ok && s.Nome != "" {
		return s.Nome
	}
	return id
}

// AreaVariant resolves the localized micro-room name/description bundle.
func (r *Registry) AreaVariant(microID string) (StringVariant, bool) {
	v, ok := r.Strings.Aree[microID]
	return v, ok
}
