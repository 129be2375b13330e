package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWeaponsDefaultsAndFormats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "knife.json", `{"id":"knife","name":"Rusty Knife","damage":3,"tags":["blade"]}`)
	writeFile(t, dir, "bundle.json", `[{"id":"pipe","name":"Pipe","damage":4,"tags":["heavy"]}]`)
	writeFile(t, dir, "categories.json", `{"ranged":[{"id":"pistol","name":"Pistol","damage":6,"tags":["ranged"],"clip_size":12,"ammo_reserve":24}]}`)

	weapons, err := LoadWeapons([]string{dir}, LoadOptions{})
	require.NoError(t, err)

	knife := weapons["knife"]
	assert.Equal(t, Slash, knife.DamageType)
	assert.Equal(t, Melee, knife.WeaponClass)
	assert.NotEmpty(t, knife.Movesets)

	pipe := weapons["pipe"]
	assert.Equal(t, Heavy, pipe.WeaponClass)
	assert.Equal(t, Blunt, pipe.DamageType)

	pistol := weapons["pistol"]
	assert.Equal(t, Ranged, pistol.WeaponClass)
	assert.Equal(t, 12, pistol.ClipSize)
}

func TestLoadWeaponsLastWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a_knife.json", `{"id":"knife","name":"Old Knife","damage":1}`)
	writeFile(t, dir, "b_knife.json", `{"id":"knife","name":"New Knife","damage":5}`)

	weapons, err := LoadWeapons([]string{dir}, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "New Knife", weapons["knife"].Name)
}

func TestLoadMobsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "walker.json", `{"id":"walker","name":"Walker","hp":9,"attack":2}`)

	mobs, err := LoadMobs([]string{dir}, LoadOptions{})
	require.NoError(t, err)
	walker := mobs["walker"]
	assert.Equal(t, 80.0, walker.MaxStamina)
	assert.Equal(t, 60.0, walker.MaxPosture)
	assert.Equal(t, 0.3, walker.StaggerThreshold)
	assert.Equal(t, Aggressive, walker.AIState)
}

func TestLoadItemsDocument(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "items.json", `{"items":[{"id":"bandage","name":"Bandage","type":"consumable","weight":0.2}]}`)

	items, err := LoadItems([]string{dir}, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, items["bandage"].StackMax)
}

func TestLoadRecipesPairAndObjectForms(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "recipes.json", `{"recipes":[
		{"id":"bandage_recipe","name":"Make Bandage","inputs":[["cloth",2]],"output":["bandage",1]},
		{"id":"splint_recipe","name":"Make Splint","inputs":[{"item":"wood","quantity":1}],"output":{"item":"splint","quantity":1}}
	]}`)

	recipes, err := LoadRecipes([]string{dir}, LoadOptions{})
	require.NoError(t, err)

	r1 := recipes["bandage_recipe"]
	assert.Equal(t, "bandage", r1.OutputItem)
	assert.Equal(t, 1, r1.OutputQty)
	assert.Equal(t, "cloth", r1.Inputs[0].Item)
	assert.Equal(t, 2, r1.Inputs[0].Quantity)

	r2 := recipes["splint_recipe"]
	assert.Equal(t, "splint", r2.OutputItem)
	assert.Equal(t, "wood", r2.Inputs[0].Item)
}

func TestLoadEventsAndRoomEvents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "events.json", `{
		"events": {"find_radio": {"type":"ambient","chance":0.5,"one_time":true}},
		"room_events": {"forest.clearing": {"on_enter":["find_radio"]}}
	}`)

	events, roomEvents, err := LoadEvents([]string{dir}, LoadOptions{})
	require.NoError(t, err)
	assert.True(t, events["find_radio"].OneTime)
	assert.Equal(t, []string{"find_radio"}, roomEvents["forest.clearing"].OnEnter)
}

func TestLoadWorldGraph(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "world.json", `{
		"id":"w1","name":"World",
		"macro_rooms":[{"id":"forest","name":"Forest","micro_rooms":[
			{"id":"clearing","name":"Clearing","description":"A clearing.","exits":[{"direction":"north","target_micro":"path"}]}
		]}]
	}`)

	w, err := LoadWorld(path)
	require.NoError(t, err)
	micro, ok := w.Micro("forest", "clearing")
	require.True(t, ok)
	exit, ok := micro.FindExit("NORTH")
	require.True(t, ok)
	assert.Equal(t, "path", exit.TargetMicro)
}

func TestLoadOptionsPriorityOverridesLastWins(t *testing.T) {
	low := t.TempDir()
	high := t.TempDir()
	writeFile(t, low, "w.json", `{"id":"knife","name":"Low Priority Knife","damage":1}`)
	writeFile(t, high, "w.json", `{"id":"knife","name":"High Priority Knife","damage":9}`)

	// Walk order would visit `high` after `low` alphabetically only by
	// accident of tempdir naming; force `low` to load last via priority so
	// we can assert the override actually reorders roots rather than
	// relying on directory name ordering.
	opts := LoadOptions{Priority: map[string]int{high: 0, low: 1}}
	weapons, err := LoadWeapons([]string{low, high}, opts)
	require.NoError(t, err)
	assert.Equal(t, "Low Priority Knife", weapons["knife"].Name)
}
