package filter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"
)

func TestActiveSet_ZeroValue(t *testing.T) {
	var s ActiveSet

	assert.True(t, s.IsEmpty())
	assert.Empty(t, s.Categories())
	assert.False(t, s.Has("country"))
	assert.Nil(t, s.ActiveValues("country"))
	assert.True(t, s.Equal(NewActiveSet()))
}

func TestActiveSet_AddAppendsActiveEntries(t *testing.T) {
	s := NewActiveSet().Add("country", "A").Add("country", "B")

	assert.Equal(t, []Entry{{Value: "A", Active: true}, {Value: "B", Active: true}}, s.Entries("country"))
	assert.Equal(t, []string{"country"}, s.Categories())
	assert.True(t, s.IsActive("country", "A"))
	assert.False(t, s.IsEmpty())
}

func TestActiveSet_AddIsIdempotent(t *testing.T) {
	once := NewActiveSet().Add("country", "A")
	twice := once.Add("country", "A")

	assert.True(t, once.Equal(twice))
	assert.Len(t, twice.Entries("country"), 1)
}

func TestActiveSet_AddReactivates(t *testing.T) {
	s := NewActiveSet().WithEntries("country", []Entry{{Value: "A", Active: false}})
	require.False(t, s.IsActive("country", "A"))

	s = s.Add("country", "A")
	assert.Equal(t, []Entry{{Value: "A", Active: true}}, s.Entries("country"))
}

func TestActiveSet_ImmutableReceiver(t *testing.T) {
	base := NewActiveSet().Add("country", "A")
	_ = base.Add("country", "B")
	_ = base.Add("region", "X")
	_ = base.Clear("country")

	assert.Equal(t, []string{"A"}, base.ActiveValues("country"))
	assert.Equal(t, []string{"country"}, base.Categories())
}

func TestActiveSet_SetReplacesAndDedupes(t *testing.T) {
	s := NewActiveSet().Add("country", "A").Set("country", "B", "C", "B")

	assert.Equal(t, []string{"B", "C"}, s.ActiveValues("country"))
}

func TestActiveSet_ClearKeepsKey(t *testing.T) {
	s := NewActiveSet().Add("country", "A").Add("region", "X").Clear("country")

	assert.True(t, s.Has("country"))
	assert.Empty(t, s.Entries("country"))
	assert.Equal(t, []string{"country", "region"}, s.Categories())
}

func TestActiveSet_CategoryOrderIsInsertionOrder(t *testing.T) {
	s := NewActiveSet().Add("zeta", "1").Add("alpha", "2").Add("zeta", "3")

	assert.Equal(t, []string{"zeta", "alpha"}, s.Categories())
}

func TestActiveSet_Equal(t *testing.T) {
	a := NewActiveSet().Add("x", "1").Add("y", "2")
	b := NewActiveSet().Add("x", "1").Add("y", "2")
	c := NewActiveSet().Add("y", "2").Add("x", "1")
	d := NewActiveSet().Add("x", "1").Set("y", "3")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}

func TestActiveSet_JSONRoundTripKeepsOrder(t *testing.T) {
	s := NewActiveSet().
		Add("zeta", "1").
		WithEntries("alpha", []Entry{{Value: "a", Active: false}, {Value: "b", Active: true}})

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded ActiveSet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, s.Equal(decoded))
	assert.Equal(t, []string{"zeta", "alpha"}, decoded.Categories())
}

func TestActiveSet_UnmarshalYAML(t *testing.T) {
	data := `- category: country
  entries:
    - {value: A, active: true}
    - {value: A, active: false}
- category: region
  entries: []
- category: country
  entries:
    - {value: B, active: true}
`
	var s ActiveSet
	require.NoError(t, yaml.Unmarshal([]byte(data), &s))

	assert.Equal(t, []string{"country", "region"}, s.Categories())
	assert.Equal(t, []string{"A", "B"}, s.ActiveValues("country"))
	assert.True(t, s.Has("region"))
}

func TestActiveSet_UnmarshalRejectsEmptyCategory(t *testing.T) {
	var s ActiveSet
	err := json.Unmarshal([]byte(`[{"category":"","entries":[]}]`), &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category name is empty")
}

func TestActiveSet_String(t *testing.T) {
	s := NewActiveSet().Add("country", "A", "B").Clear("region")
	assert.Equal(t, "{country:[A B] region:[]}", s.String())
}
