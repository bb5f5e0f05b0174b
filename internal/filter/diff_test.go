package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff_NoChanges(t *testing.T) {
	s := NewActiveSet().Add("country", "A")
	assert.Empty(t, Diff(s, s))
	assert.Equal(t, "no filter changes", DiffSummary(nil))
}

func TestDiff_Kinds(t *testing.T) {
	prev := NewActiveSet().
		Add("country", "A", "B").
		WithEntries("host", []Entry{{Value: "bat", Active: false}}).
		Add("region", "north")
	curr := NewActiveSet().
		WithEntries("country", []Entry{{Value: "A", Active: false}, {Value: "C", Active: true}}).
		Add("host", "bat")

	changes := Diff(prev, curr)
	assert.Equal(t, []Change{
		{Kind: ChangeDeactivated, Category: "country", Value: "A"},
		{Kind: ChangeRemoved, Category: "country", Value: "B"},
		{Kind: ChangeAdded, Category: "country", Value: "C"},
		{Kind: ChangeActivated, Category: "host", Value: "bat"},
		{Kind: ChangeRemoved, Category: "region", Value: "north"},
	}, changes)
}

func TestDiffSummary(t *testing.T) {
	tests := []struct {
		name    string
		changes []Change
		want    string
	}{
		{
			name:    "added only",
			changes: []Change{{Kind: ChangeAdded}, {Kind: ChangeAdded}},
			want:    "+2 value(s) added",
		},
		{
			name: "mixed",
			changes: []Change{
				{Kind: ChangeAdded},
				{Kind: ChangeRemoved},
				{Kind: ChangeActivated},
				{Kind: ChangeDeactivated},
			},
			want: "+1 value(s) added, -1 value(s) removed, ~2 value(s) toggled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiffSummary(tt.changes))
		})
	}
}
