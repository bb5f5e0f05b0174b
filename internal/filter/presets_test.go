package filter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePreset_Unknown(t *testing.T) {
	_, err := ResolvePreset("nonexistent", nil)
	require.ErrorIs(t, err, ErrUnknownPreset)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestResolvePreset_Plain(t *testing.T) {
	presets := map[string]Preset{
		"andes": {Filters: map[string][]string{"country": {"Peru", "Chile"}}},
	}

	p, err := ResolvePreset("andes", presets)
	require.NoError(t, err)
	assert.Equal(t, []string{"Peru", "Chile"}, p.Filters["country"])
}

func TestResolvePreset_Extends(t *testing.T) {
	presets := map[string]Preset{
		"andes":       {Filters: map[string][]string{"country": {"Peru"}}},
		"andes-human": {Extends: "andes", Filters: map[string][]string{"country": {"Chile"}, "host": {"human"}}},
		"deep":        {Extends: "andes-human", Description: "deep"},
	}

	p, err := ResolvePreset("deep", presets)
	require.NoError(t, err)
	assert.Equal(t, []string{"Peru", "Chile"}, p.Filters["country"])
	assert.Equal(t, []string{"human"}, p.Filters["host"])
	assert.Equal(t, "deep", p.Description)
	assert.Equal(t, []string{"country", "host"}, p.Categories())

	// Base preset must not be modified by the merge.
	assert.Equal(t, []string{"Peru"}, presets["andes"].Filters["country"])
}

func TestResolvePreset_Cycle(t *testing.T) {
	presets := map[string]Preset{
		"a": {Extends: "b"},
		"b": {Extends: "a"},
	}

	_, err := ResolvePreset("a", presets)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extends itself")
}

func TestResolvePreset_ExtendsUnknown(t *testing.T) {
	_, err := ResolvePreset("a", map[string]Preset{"a": {Extends: "missing"}})
	require.ErrorIs(t, err, ErrUnknownPreset)
}

func TestPreset_Apply(t *testing.T) {
	set := NewActiveSet().Add("country", "Brazil").Add("region", "south")
	p := Preset{Filters: map[string][]string{"country": {"Peru"}, "host": {"human"}}}

	got := p.Apply(set)

	assert.Equal(t, []string{"Peru"}, got.ActiveValues("country"))
	assert.Equal(t, []string{"south"}, got.ActiveValues("region"))
	assert.Equal(t, []string{"human"}, got.ActiveValues("host"))
	assert.Equal(t, []string{"Brazil"}, set.ActiveValues("country"))
}

func TestParsePresets(t *testing.T) {
	data := []byte(`presets:
  andes:
    description: Andean countries
    filters:
      country: [Peru, Chile]
  andes-human:
    extends: andes
    filters:
      host: [human]
`)

	presets, err := ParsePresets(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"andes", "andes-human"}, PresetNames(presets))
	assert.Equal(t, "Andean countries", presets["andes"].Description)
}

func TestParsePresets_NoKey(t *testing.T) {
	presets, err := ParsePresets([]byte("log-level: debug\n"))
	require.NoError(t, err)
	assert.Empty(t, presets)
}

func TestParsePresets_Invalid(t *testing.T) {
	_, err := ParsePresets([]byte("presets: [not, a, map]\n"))
	assert.Error(t, err)
}

func TestLoadPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".facetfilter.yaml")
	require.NoError(t, os.WriteFile(path, []byte("presets:\n  p:\n    filters: {country: [A]}\n"), 0o600))

	presets, err := LoadPresets(path)
	require.NoError(t, err)
	assert.Contains(t, presets, "p")

	_, err = LoadPresets(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
