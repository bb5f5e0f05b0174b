package filter

import (
	"context"
	"fmt"

	"github.com/hupe1980/facetfilter/internal/dataset"
)

// IsVisible reports whether e passes every constrained category of set,
// using [DefaultIdentityCategory] for name matching.
func IsVisible(e *dataset.Entity, set ActiveSet) bool {
	return NewEvaluator(set).Visible(e)
}

// Evaluator decides entity visibility for one snapshot of an ActiveSet.
// An entity is visible when, for every category with at least one active
// entry, it takes at least one of that category's active values.
type Evaluator struct {
	identity   string
	categories []string
	active     map[string]map[string]struct{}
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithIdentityCategory sets the category matched against entity names.
func WithIdentityCategory(category string) EvaluatorOption {
	return func(ev *Evaluator) {
		if category != "" {
			ev.identity = category
		}
	}
}

// NewEvaluator snapshots the active values of set.
func NewEvaluator(set ActiveSet, opts ...EvaluatorOption) *Evaluator {
	ev := &Evaluator{
		identity: DefaultIdentityCategory,
		active:   make(map[string]map[string]struct{}),
	}

	for _, opt := range opts {
		opt(ev)
	}

	for _, c := range set.order {
		values := set.ActiveValues(c)
		if len(values) == 0 {
			continue
		}

		lookup := make(map[string]struct{}, len(values))
		for _, v := range values {
			lookup[v] = struct{}{}
		}

		ev.categories = append(ev.categories, c)
		ev.active[c] = lookup
	}

	return ev
}

// Visible reports whether e passes the filter.
func (ev *Evaluator) Visible(e *dataset.Entity) bool {
	_, hidden := ev.unmatched(e)
	return !hidden
}

// Constrained reports whether any category has active entries.
func (ev *Evaluator) Constrained() bool {
	return len(ev.categories) > 0
}

// Apply partitions entities into visible and hidden ones.
func (ev *Evaluator) Apply(ctx context.Context, entities []*dataset.Entity) (*Result, error) {
	r := NewResult()

	for i, e := range entities {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		category, hidden := ev.unmatched(e)
		if !hidden {
			r.Included = append(r.Included, e)
			continue
		}

		r.Excluded = append(r.Excluded, ExcludedEntity{
			Entity:   e,
			Category: category,
			Reason:   fmt.Sprintf("matches none of the active %s values", category),
		})
	}

	return r, nil
}

// unmatched returns the first constrained category e fails to match.
func (ev *Evaluator) unmatched(e *dataset.Entity) (string, bool) {
	for _, c := range ev.categories {
		if !ev.matches(e, c) {
			return c, true
		}
	}

	return "", false
}

func (ev *Evaluator) matches(e *dataset.Entity, category string) bool {
	lookup := ev.active[category]

	for _, v := range e.ValuesFor(category, ev.identity) {
		if _, ok := lookup[v]; ok {
			return true
		}
	}

	return false
}
