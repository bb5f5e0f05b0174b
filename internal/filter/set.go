package filter

import (
	"encoding/json"
	"fmt"
)

// DefaultIdentityCategory is the key of the distinguished category whose
// values are entity names rather than attribute values.
const DefaultIdentityCategory = "strain"

// Entry is a candidate value within a category and whether it currently
// constrains results.
type Entry struct {
	Value  string `json:"value"`
	Active bool   `json:"active"`
}

// ActiveSet maps category names to ordered entry sequences. Categories
// keep the order in which they were first added. The zero value is an
// empty set ready to use.
type ActiveSet struct {
	order   []string
	entries map[string][]Entry
}

// NewActiveSet returns an empty set.
func NewActiveSet() ActiveSet {
	return ActiveSet{}
}

// Categories returns the category names in insertion order, including
// categories whose entry sequence is empty.
func (s ActiveSet) Categories() []string {
	return append([]string(nil), s.order...)
}

// Has reports whether category is a key of the set.
func (s ActiveSet) Has(category string) bool {
	_, ok := s.entries[category]
	return ok
}

// Entries returns a copy of the entry sequence for category.
func (s ActiveSet) Entries(category string) []Entry {
	return append([]Entry(nil), s.entries[category]...)
}

// ActiveValues returns the values of the active entries for category,
// in entry order.
func (s ActiveSet) ActiveValues(category string) []string {
	var values []string

	for _, e := range s.entries[category] {
		if e.Active {
			values = append(values, e.Value)
		}
	}

	return values
}

// ActiveCount returns the number of active entries for category.
func (s ActiveSet) ActiveCount(category string) int {
	n := 0

	for _, e := range s.entries[category] {
		if e.Active {
			n++
		}
	}

	return n
}

// IsActive reports whether value is an active entry of category.
func (s ActiveSet) IsActive(category, value string) bool {
	for _, e := range s.entries[category] {
		if e.Value == value {
			return e.Active
		}
	}

	return false
}

// IsEmpty reports whether no category has an active entry.
func (s ActiveSet) IsEmpty() bool {
	for _, c := range s.order {
		if s.ActiveCount(c) > 0 {
			return false
		}
	}

	return true
}

// Equal reports whether s and o hold the same categories in the same order
// with identical entry sequences.
func (s ActiveSet) Equal(o ActiveSet) bool {
	if len(s.order) != len(o.order) {
		return false
	}

	for i, c := range s.order {
		if o.order[i] != c {
			return false
		}

		a, b := s.entries[c], o.entries[c]
		if len(a) != len(b) {
			return false
		}

		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}

	return true
}

// Add appends an active entry for each value not yet present in category.
// A value already present but inactive is re-activated. Adding a value that
// is already active is a no-op.
func (s ActiveSet) Add(category string, values ...string) ActiveSet {
	next := s.clone()
	entries := next.touch(category)

	for _, v := range values {
		idx := indexOf(entries, v)
		if idx < 0 {
			entries = append(entries, Entry{Value: v, Active: true})
			continue
		}

		entries[idx].Active = true
	}

	next.entries[category] = entries

	return next
}

// Set replaces the entries of category with one active entry per distinct
// value. Calling Set without values empties the category but keeps its key.
func (s ActiveSet) Set(category string, values ...string) ActiveSet {
	entries := make([]Entry, 0, len(values))

	for _, v := range values {
		if indexOf(entries, v) < 0 {
			entries = append(entries, Entry{Value: v, Active: true})
		}
	}

	return s.WithEntries(category, entries)
}

// Clear empties category.
func (s ActiveSet) Clear(category string) ActiveSet {
	return s.Set(category)
}

// WithEntries replaces the entries of category verbatim, dropping repeated
// values after their first occurrence.
func (s ActiveSet) WithEntries(category string, entries []Entry) ActiveSet {
	next := s.clone()
	next.touch(category)

	deduped := make([]Entry, 0, len(entries))

	for _, e := range entries {
		if indexOf(deduped, e.Value) < 0 {
			deduped = append(deduped, e)
		}
	}

	next.entries[category] = deduped

	return next
}

// String renders the set compactly for log output.
func (s ActiveSet) String() string {
	out := "{"

	for i, c := range s.order {
		if i > 0 {
			out += " "
		}

		out += fmt.Sprintf("%s:%v", c, s.ActiveValues(c))
	}

	return out + "}"
}

func (s ActiveSet) clone() ActiveSet {
	next := ActiveSet{
		order:   append([]string(nil), s.order...),
		entries: make(map[string][]Entry, len(s.entries)),
	}

	for c, e := range s.entries {
		next.entries[c] = append([]Entry(nil), e...)
	}

	return next
}

// touch registers category on a freshly cloned set and returns its entries.
func (s *ActiveSet) touch(category string) []Entry {
	entries, ok := s.entries[category]
	if !ok {
		s.order = append(s.order, category)
		entries = []Entry{}
		s.entries[category] = entries
	}

	return entries
}

func indexOf(entries []Entry, value string) int {
	for i, e := range entries {
		if e.Value == value {
			return i
		}
	}

	return -1
}

// categoryEntries is the serialized form of one category.
type categoryEntries struct {
	Category string  `json:"category"`
	Entries  []Entry `json:"entries"`
}

// MarshalJSON encodes the set as an ordered list of categories.
func (s ActiveSet) MarshalJSON() ([]byte, error) {
	out := make([]categoryEntries, 0, len(s.order))

	for _, c := range s.order {
		out = append(out, categoryEntries{Category: c, Entries: s.Entries(c)})
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes the list form written by MarshalJSON. A category
// listed twice is merged into its first position.
func (s *ActiveSet) UnmarshalJSON(data []byte) error {
	var raw []categoryEntries
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding filter set: %w", err)
	}

	next := NewActiveSet()

	for _, ce := range raw {
		if ce.Category == "" {
			return fmt.Errorf("decoding filter set: category name is empty")
		}

		merged := append(next.Entries(ce.Category), ce.Entries...)
		next = next.WithEntries(ce.Category, merged)
	}

	*s = next

	return nil
}
