package store

import (
	"errors"
	"fmt"

	"github.com/hupe1980/facetfilter/internal/filter"
)

// Mode selects how an Action changes a category.
type Mode string

const (
	// ModeAdd activates values in a category, appending missing ones.
	ModeAdd Mode = "add"
	// ModeSet replaces a category's entries. An empty value list clears it.
	ModeSet Mode = "set"
)

// Dispatch errors.
var (
	ErrUnknownMode   = errors.New("unknown filter action mode")
	ErrEmptyCategory = errors.New("category is empty")
)

// Action is a request to change one category of the filter state.
type Action struct {
	Mode     Mode
	Category string
	Values   []string
}

// AddFilter returns an action that activates value in category.
func AddFilter(category, value string) Action {
	return Action{Mode: ModeAdd, Category: category, Values: []string{value}}
}

// SetCategory returns an action replacing category's entries with values.
func SetCategory(category string, values ...string) Action {
	return Action{Mode: ModeSet, Category: category, Values: values}
}

// ClearCategory returns an action that empties category.
func ClearCategory(category string) Action {
	return Action{Mode: ModeSet, Category: category}
}

func (a Action) apply(set filter.ActiveSet) (filter.ActiveSet, error) {
	if a.Category == "" {
		return set, fmt.Errorf("filter action %q: %w", a.Mode, ErrEmptyCategory)
	}

	switch a.Mode {
	case ModeAdd:
		return set.Add(a.Category, a.Values...), nil
	case ModeSet:
		return set.Set(a.Category, a.Values...), nil
	default:
		return set, fmt.Errorf("%w %q", ErrUnknownMode, a.Mode)
	}
}

func (a Action) String() string {
	return fmt.Sprintf("%s %s %v", a.Mode, a.Category, a.Values)
}
