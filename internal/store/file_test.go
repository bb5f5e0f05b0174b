package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/facetfilter/internal/filter"
)

func TestFileBackend_MissingFileIsEmpty(t *testing.T) {
	b := NewFileBackend(filepath.Join(t.TempDir(), "state.yaml"), nil)

	state, err := b.Load()
	require.NoError(t, err)
	assert.True(t, state.IsEmpty())
}

func TestFileBackend_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")
	b := NewFileBackend(path, nil)

	state := filter.NewActiveSet().
		Add("country", "Brazil").
		WithEntries("host", []filter.Entry{{Value: "bat", Active: false}}).
		Clear("region")

	require.NoError(t, b.Save(state))

	loaded, err := b.Load()
	require.NoError(t, err)
	assert.True(t, state.Equal(loaded))
	assert.Equal(t, path, b.Path())
}

func TestMarshalState_Layout(t *testing.T) {
	data, err := MarshalState(filter.NewActiveSet().Add("country", "A"))
	require.NoError(t, err)

	assert.Equal(t, `filters:
- category: country
  entries:
  - active: true
    value: A
`, string(data))
}

func TestParseState(t *testing.T) {
	state, err := ParseState([]byte(""))
	require.NoError(t, err)
	assert.True(t, state.IsEmpty())

	_, err = ParseState([]byte("filters: {country: A}\n"))
	assert.Error(t, err)
}

func TestFileBackend_LoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("filters: [[["), 0o600))

	_, err := NewFileBackend(path, nil).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing state file")
}

// failingBackend fails the first failures saves, or every save when
// failures is zero.
type failingBackend struct {
	saves    int
	failures int
}

func (f *failingBackend) Load() (filter.ActiveSet, error) { return filter.NewActiveSet(), nil }

func (f *failingBackend) Save(filter.ActiveSet) error {
	f.saves++
	if f.failures == 0 || f.saves <= f.failures {
		return errors.New("disk full")
	}

	return nil
}

func TestPersister_SavesOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	backend := NewFileBackend(path, nil)

	s := New()
	p := NewPersister(backend, nil)
	s.Subscribe(p)

	_, err := s.Dispatch(AddFilter("country", "A"))
	require.NoError(t, err)
	require.NoError(t, p.Err())

	loaded, err := backend.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, loaded.ActiveValues("country"))
}

func TestPersister_RecordsError(t *testing.T) {
	fb := &failingBackend{}
	s := New()
	p := NewPersister(fb, nil)
	s.Subscribe(p)

	_, err := s.Dispatch(AddFilter("country", "A"))
	require.NoError(t, err)
	assert.EqualError(t, p.Err(), "disk full")
	assert.Equal(t, 1, fb.saves)
}

func TestPersister_KeepsFirstError(t *testing.T) {
	fb := &failingBackend{failures: 1}
	s := New()
	p := NewPersister(fb, nil)
	s.Subscribe(p)

	_, err := s.Dispatch(AddFilter("country", "A"))
	require.NoError(t, err)
	_, err = s.Dispatch(AddFilter("country", "B"))
	require.NoError(t, err)

	assert.Equal(t, 2, fb.saves)
	assert.EqualError(t, p.Err(), "disk full")
}
