package filter

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"sigs.k8s.io/yaml"
)

// ErrUnknownPreset is returned when a preset name cannot be resolved.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset is a reusable, named set of filter values applied via
// "preset apply".
type Preset struct {
	// Description is shown by "preset list".
	Description string `json:"description,omitempty"`
	// Filters maps a category to the values to activate.
	Filters map[string][]string `json:"filters,omitempty"`
	// Extends names another preset whose filters are applied first.
	Extends string `json:"extends,omitempty"`
}

// ResolvePreset looks up name and folds its extends chain into a single
// preset. Values of the extending preset are appended to those of its base.
func ResolvePreset(name string, presets map[string]Preset) (Preset, error) {
	return resolvePreset(name, presets, map[string]bool{})
}

func resolvePreset(name string, presets map[string]Preset, visiting map[string]bool) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w %q", ErrUnknownPreset, name)
	}

	if p.Extends == "" {
		return p, nil
	}

	if visiting[name] {
		return Preset{}, fmt.Errorf("preset %q extends itself through %q", name, p.Extends)
	}

	visiting[name] = true

	base, err := resolvePreset(p.Extends, presets, visiting)
	if err != nil {
		return Preset{}, fmt.Errorf("preset %q: %w", name, err)
	}

	return mergePresets(base, p), nil
}

func mergePresets(base, ext Preset) Preset {
	merged := Preset{
		Description: ext.Description,
		Filters:     make(map[string][]string, len(base.Filters)+len(ext.Filters)),
	}

	for c, values := range base.Filters {
		merged.Filters[c] = append([]string(nil), values...)
	}

	for c, values := range ext.Filters {
		merged.Filters[c] = append(merged.Filters[c], values...)
	}

	return merged
}

// Categories returns the preset's categories in lexicographic order.
func (p Preset) Categories() []string {
	names := make([]string, 0, len(p.Filters))
	for c := range p.Filters {
		names = append(names, c)
	}

	sort.Strings(names)

	return names
}

// Apply replaces every category named by the preset with its values.
// Categories the preset does not mention are left untouched.
func (p Preset) Apply(set ActiveSet) ActiveSet {
	for _, c := range p.Categories() {
		set = set.Set(c, p.Filters[c]...)
	}

	return set
}

// PresetNames returns the preset names in lexicographic order.
func PresetNames(presets map[string]Preset) []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// LoadPresets loads preset definitions from a YAML file with a top-level
// "presets" key.
func LoadPresets(path string) (map[string]Preset, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided config file
	if err != nil {
		return nil, fmt.Errorf("reading presets file: %w", err)
	}

	return ParsePresets(data)
}

// ParsePresets parses preset definitions from YAML bytes.
func ParsePresets(data []byte) (map[string]Preset, error) {
	var raw struct {
		Presets map[string]Preset `json:"presets"`
	}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing presets: %w", err)
	}

	if raw.Presets == nil {
		return make(map[string]Preset), nil
	}

	return raw.Presets, nil
}
