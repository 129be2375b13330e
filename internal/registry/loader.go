package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadOptions controls duplicate-id resolution across content roots.
// By default, duplicate ids are resolved last-wins in directory-walk order
// (§9 Open Question #4). Setting an explicit Priority for a root overrides
// walk order: roots sort ascending by priority, ties broken by last-wins.
type LoadOptions struct {
	Priority map[string]int // root path -> priority (lower loads first)
}

// decodedDoc captures one decoded content file before type-specific
// unmarshalling: either a single object, a list, or a dict of categories.
type decodedDoc struct {
	Single     map[string]any
	List       []map[string]any
	Categories map[string][]map[string]any
}

func decodeFile(path string) (decodedDoc, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return decodedDoc{}, err
	}

	var generic any
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(raw, &generic); err != nil {
			return decodedDoc{}, err
		}
		generic = normalizeYAML(generic)
	} else {
		if err := json.Unmarshal(raw, &generic); err != nil {
			return decodedDoc{}, err
		}
	}
	return classify(generic), nil
}

// decodeFileRaw returns the top-level generic value of a content file
// without the single/list/category classification — used by loaders whose
// root document mixes list-of-objects sections (e.g. "events") with
// location-keyed map sections (e.g. "room_events").
func decodeFileRaw(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var generic any
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(raw, &generic); err != nil {
			return nil, err
		}
		generic = normalizeYAML(generic)
	} else {
		if err := json.Unmarshal(raw, &generic); err != nil {
			return nil, err
		}
	}
	m, _ := generic.(map[string]any)
	return m, nil
}

// normalizeYAML converts yaml.v3's map[string]any (actually map[any]any in
// older versions, map[string]any in v3) recursively so downstream type
// assertions behave identically to the JSON path.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}

func classify(generic any) decodedDoc {
	switch t := generic.(type) {
	case map[string]any:
		if _, hasID := t["id"]; hasID {
			return decodedDoc{Single: t}
		}
		cats := make(map[string][]map[string]any)
		for k, v := range t {
			if list, ok := v.([]any); ok {
				cats[k] = toMapList(list)
			}
		}
		return decodedDoc{Categories: cats}
	case []any:
		return decodedDoc{List: toMapList(t)}
	default:
		return decodedDoc{}
	}
}

func toMapList(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// allObjects flattens a decodedDoc into a slice of candidate objects.
func (d decodedDoc) allObjects() []map[string]any {
	if d.Single != nil {
		return []map[string]any{d.Single}
	}
	if d.List != nil {
		return d.List
	}
	var out []map[string]any
	for _, v := range d.Categories {
		out = append(out, v...)
	}
	return out
}

// scanContentFiles recursively walks root for .json/.yaml/.yml files,
// returning them in a stable (sorted) order so last-wins is deterministic.
func scanContentFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
