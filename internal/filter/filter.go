package filter

import (
	"context"

	"github.com/hupe1980/facetfilter/internal/dataset"
)

// Filter is the interface for all entity filters.
// Filters are stateless: they receive a set of entities and return
// a result without modifying shared state.
type Filter interface {
	// Apply runs the filter on the given entities and returns a result.
	// The context allows cancellation of long-running filter operations.
	Apply(ctx context.Context, entities []*dataset.Entity) (*Result, error)
}

// ExcludedEntity records an entity that was hidden by a filter.
type ExcludedEntity struct {
	// Entity is the hidden entity.
	Entity *dataset.Entity
	// Category is the category whose active values the entity failed to match.
	Category string
	// Reason is a human-readable explanation for the exclusion.
	Reason string
}

// Result holds the outcome of a filter application.
type Result struct {
	// Included are the entities that passed the filter, in input order.
	Included []*dataset.Entity
	// Excluded are the entities hidden by the filter, in input order.
	Excluded []ExcludedEntity
}

// NewResult creates an empty Result.
func NewResult() *Result {
	return &Result{}
}

// Names returns the names of the included entities.
func (r *Result) Names() []string {
	names := make([]string, len(r.Included))
	for i, e := range r.Included {
		names[i] = e.Name
	}

	return names
}

// Chain applies multiple filters sequentially, passing the included
// entities from each filter as input to the next.
type Chain struct {
	filters []Filter
}

// NewChain creates a filter chain from the given filters.
func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: filters}
}

// Apply runs all filters in order, accumulating excluded entities.
func (c *Chain) Apply(ctx context.Context, entities []*dataset.Entity) (*Result, error) {
	combined := NewResult()
	current := entities

	for _, f := range c.filters {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		r, err := f.Apply(ctx, current)
		if err != nil {
			return nil, err
		}

		current = r.Included
		combined.Excluded = append(combined.Excluded, r.Excluded...)
	}

	combined.Included = current

	return combined, nil
}
