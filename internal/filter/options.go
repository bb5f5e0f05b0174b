package filter

import (
	"sort"
	"strings"

	"github.com/hupe1980/facetfilter/internal/dataset"
)

// IdentityLabel prefixes option labels of the identity category.
const IdentityLabel = "sample"

// Candidate is a selectable (category, value) pair for the search box.
type Candidate struct {
	Category string `json:"category"`
	Value    string `json:"value"`
	// Label is the searchable text, e.g. "country → Brazil".
	Label string `json:"label"`
}

// OptionsInput gathers what CandidateOptions needs.
type OptionsInput struct {
	// Active is the current filter state.
	Active ActiveSet
	// Counts is the per-category domain value table.
	Counts dataset.Counts
	// Valid filters out placeholder values. Defaults to DefaultValidity.
	Valid Validity
	// Identity is the identity category key. Defaults to DefaultIdentityCategory.
	Identity string
	// Leaves are the leaf entity names offered for the identity category.
	Leaves []string
	// IncludeIdentity offers leaf names even when the identity category is
	// not yet a key of Active.
	IncludeIdentity bool
}

// CandidateOptions lists the (category, value) pairs that are not active
// yet. Categories are visited in lexicographic order and values within a
// category are sorted. Identity candidates come last. A category without a
// count table contributes nothing.
func CandidateOptions(in OptionsInput) []Candidate {
	valid := in.Valid
	if valid == nil {
		valid = DefaultValidity
	}

	identity := in.Identity
	if identity == "" {
		identity = DefaultIdentityCategory
	}

	var out []Candidate

	for _, category := range categoryUnion(in.Counts, in.Active, identity) {
		for _, value := range in.Counts.Values(category) {
			if !valid(value) || in.Active.IsActive(category, value) {
				continue
			}

			out = append(out, Candidate{
				Category: category,
				Value:    value,
				Label:    category + " → " + value,
			})
		}
	}

	if in.IncludeIdentity || in.Active.Has(identity) {
		names := append([]string(nil), in.Leaves...)
		sort.Strings(names)

		for i, name := range names {
			if name == "" || (i > 0 && names[i-1] == name) || in.Active.IsActive(identity, name) {
				continue
			}

			out = append(out, Candidate{
				Category: identity,
				Value:    name,
				Label:    IdentityLabel + " → " + name,
			})
		}
	}

	return out
}

// Search returns the candidates whose label contains query, ignoring case.
// A blank query matches everything.
func Search(candidates []Candidate, query string) []Candidate {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return candidates
	}

	var out []Candidate

	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.Label), q) {
			out = append(out, c)
		}
	}

	return out
}

func categoryUnion(counts dataset.Counts, active ActiveSet, identity string) []string {
	seen := make(map[string]struct{})

	var names []string

	add := func(c string) {
		if c == identity {
			return
		}

		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			names = append(names, c)
		}
	}

	for c := range counts {
		add(c)
	}

	for _, c := range active.order {
		add(c)
	}

	sort.Strings(names)

	return names
}
