package filter

import "strings"

// Validity reports whether a domain value may be offered as a filter option.
type Validity func(value string) bool

// placeholderValues are the values treated as missing data across a dataset.
var placeholderValues = []string{
	"unknown", "?", "nan", "na", "n/a", "undefined", "unassigned", "none",
}

// DefaultValidity rejects blank values and common missing-data placeholders,
// compared case-insensitively.
func DefaultValidity(value string) bool {
	return defaultValidity(value)
}

var defaultValidity = NewValidity()

// NewValidity returns a Validity that additionally rejects the given values.
func NewValidity(extraInvalid ...string) Validity {
	invalid := make(map[string]struct{}, len(placeholderValues)+len(extraInvalid))

	for _, v := range placeholderValues {
		invalid[v] = struct{}{}
	}

	for _, v := range extraInvalid {
		invalid[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}

	return func(value string) bool {
		v := strings.ToLower(strings.TrimSpace(value))
		if v == "" {
			return false
		}

		_, bad := invalid[v]

		return !bad
	}
}
