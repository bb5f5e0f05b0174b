package filter

import (
	"fmt"
	"strings"
)

// Change kinds reported by Diff.
const (
	ChangeAdded       = "added"
	ChangeRemoved     = "removed"
	ChangeActivated   = "activated"
	ChangeDeactivated = "deactivated"
)

// Change describes a single value-level difference between two sets.
type Change struct {
	// Kind is one of the Change* constants.
	Kind     string `json:"kind"`
	Category string `json:"category"`
	Value    string `json:"value"`
}

// Diff compares two sets. Changes are grouped by category, following the
// category order of curr and then the categories only present in prev.
func Diff(prev, curr ActiveSet) []Change {
	var changes []Change

	categories := append([]string(nil), curr.order...)
	for _, c := range prev.order {
		if !curr.Has(c) {
			categories = append(categories, c)
		}
	}

	for _, c := range categories {
		before, after := prev.entries[c], curr.entries[c]

		for _, e := range before {
			idx := indexOf(after, e.Value)

			switch {
			case idx < 0:
				changes = append(changes, Change{Kind: ChangeRemoved, Category: c, Value: e.Value})
			case e.Active && !after[idx].Active:
				changes = append(changes, Change{Kind: ChangeDeactivated, Category: c, Value: e.Value})
			case !e.Active && after[idx].Active:
				changes = append(changes, Change{Kind: ChangeActivated, Category: c, Value: e.Value})
			}
		}

		for _, e := range after {
			if indexOf(before, e.Value) < 0 {
				changes = append(changes, Change{Kind: ChangeAdded, Category: c, Value: e.Value})
			}
		}
	}

	return changes
}

// DiffSummary returns a human-readable one-line summary.
func DiffSummary(changes []Change) string {
	var added, removed, toggled int

	for _, c := range changes {
		switch c.Kind {
		case ChangeAdded:
			added++
		case ChangeRemoved:
			removed++
		case ChangeActivated, ChangeDeactivated:
			toggled++
		}
	}

	if added == 0 && removed == 0 && toggled == 0 {
		return "no filter changes"
	}

	parts := make([]string, 0, 3)

	if added > 0 {
		parts = append(parts, fmt.Sprintf("+%d value(s) added", added))
	}

	if removed > 0 {
		parts = append(parts, fmt.Sprintf("-%d value(s) removed", removed))
	}

	if toggled > 0 {
		parts = append(parts, fmt.Sprintf("~%d value(s) toggled", toggled))
	}

	return strings.Join(parts, ", ")
}
