package dataset

import "sort"

// Counts maps a category to the number of leaf entities carrying each value.
type Counts map[string]map[string]int

// ComputeCounts tallies attribute values across the leaf entities. A value
// listed twice on the same entity is counted once for that entity.
func ComputeCounts(entities []*Entity) Counts {
	counts := make(Counts)

	for _, e := range entities {
		if !e.Leaf() {
			continue
		}

		for category, values := range e.Attributes {
			seen := make(map[string]struct{}, len(values))

			for _, v := range values {
				if _, dup := seen[v]; dup {
					continue
				}

				seen[v] = struct{}{}

				if counts[category] == nil {
					counts[category] = make(map[string]int)
				}

				counts[category][v]++
			}
		}
	}

	return counts
}

// Categories returns the category names in lexicographic order.
func (c Counts) Categories() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Values returns the values recorded for category in lexicographic order.
// An unknown category yields nil.
func (c Counts) Values(category string) []string {
	table := c[category]
	if len(table) == 0 {
		return nil
	}

	values := make([]string, 0, len(table))
	for v := range table {
		values = append(values, v)
	}

	sort.Strings(values)

	return values
}

func (c Counts) merge(other Counts) {
	for category, table := range other {
		if c[category] == nil {
			c[category] = make(map[string]int, len(table))
		}

		for v, n := range table {
			c[category][v] += n
		}
	}
}
