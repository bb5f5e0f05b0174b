package filter

import "github.com/hupe1980/facetfilter/internal/dataset"

func entity(name string, attrs map[string][]string) *dataset.Entity {
	e := &dataset.Entity{Name: name, Attributes: map[string]dataset.Values{}}
	for k, v := range attrs {
		e.Attributes[k] = v
	}

	return e
}

func names(es []*dataset.Entity) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Name
	}

	return out
}
