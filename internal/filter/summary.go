package filter

import "fmt"

// IdentityDisplayName is the badge name used for the identity category.
const IdentityDisplayName = "samples"

// Badge summarises one category that has entries.
type Badge struct {
	Category    string `json:"category"`
	DisplayName string `json:"displayName"`
	Active      int    `json:"active"`
}

// Summary describes the currently used filters.
type Summary struct {
	Header string  `json:"header,omitempty"`
	Badges []Badge `json:"badges"`
}

// Summarise builds one badge per category holding at least one entry, in
// category insertion order. Header is empty when there are no badges.
func Summarise(set ActiveSet, identity string) Summary {
	if identity == "" {
		identity = DefaultIdentityCategory
	}

	badges := []Badge{}

	for _, c := range set.order {
		if len(set.entries[c]) == 0 {
			continue
		}

		name := c
		if c == identity {
			name = IdentityDisplayName
		}

		n := set.ActiveCount(c)
		badges = append(badges, Badge{
			Category:    c,
			DisplayName: fmt.Sprintf("%s (n=%d)", name, n),
			Active:      n,
		})
	}

	s := Summary{Badges: badges}
	if len(badges) > 0 {
		s.Header = header(len(badges))
	}

	return s
}

func header(n int) string {
	if n == 1 {
		return "1 type of filter currently active:"
	}

	return fmt.Sprintf("%d types of filters currently active:", n)
}
