// Package compare reports how the set of visible entities differs between
// two filter states, as a unified diff of the visible-entity listings.
package compare

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/hupe1980/facetfilter/internal/dataset"
	"github.com/hupe1980/facetfilter/internal/filter"
)

// Result is the outcome of a comparison.
type Result struct {
	OldLabel string
	NewLabel string
	// Unified is the diff text; empty when both listings are equal.
	Unified string
	// Shown lists entities visible only under the new state, Hidden those
	// visible only under the old one. Kept counts entities visible under
	// both. They are filled by States only.
	Shown  []string
	Hidden []string
	Kept   int
}

// Differs reports whether the two listings differ.
func (r *Result) Differs() bool {
	return r.Unified != ""
}

// Summary returns a one-line description of the visibility change.
func (r *Result) Summary() string {
	if !r.Differs() {
		return "visible entities unchanged"
	}

	return fmt.Sprintf("%d entity(ies) shown, %d entity(ies) hidden, %d kept", len(r.Shown), len(r.Hidden), r.Kept)
}

// Options configures a comparison.
type Options struct {
	OldLabel string
	NewLabel string
	// Context is the number of unchanged lines around each change.
	Context int
	// Identity is the identity category used for name filters.
	Identity string
}

// DefaultOptions returns the options used by the diff command.
func DefaultOptions() Options {
	return Options{
		OldLabel: "current",
		NewLabel: "proposed",
		Context:  3,
		Identity: filter.DefaultIdentityCategory,
	}
}

// States evaluates both states against entities and diffs the names of
// the visible ones. Listings keep entity order.
func States(entities []*dataset.Entity, oldState, newState filter.ActiveSet, opts Options) (*Result, error) {
	before := filter.NewEvaluator(oldState, filter.WithIdentityCategory(opts.Identity))
	after := filter.NewEvaluator(newState, filter.WithIdentityCategory(opts.Identity))

	var (
		oldNames, newNames []string
		shown, hidden      []string
		kept               int
	)

	for _, e := range entities {
		was, is := before.Visible(e), after.Visible(e)

		switch {
		case was && is:
			kept++
		case is:
			shown = append(shown, e.Name)
		case was:
			hidden = append(hidden, e.Name)
		}

		if was {
			oldNames = append(oldNames, e.Name)
		}

		if is {
			newNames = append(newNames, e.Name)
		}
	}

	r, err := Lines(oldNames, newNames, opts)
	if err != nil {
		return nil, err
	}

	r.Shown, r.Hidden, r.Kept = shown, hidden, kept

	return r, nil
}

// Lines diffs two listings, one entry per line.
func Lines(oldLines, newLines []string, opts Options) (*Result, error) {
	unified, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        terminate(oldLines),
		B:        terminate(newLines),
		FromFile: opts.OldLabel,
		ToFile:   opts.NewLabel,
		Context:  opts.Context,
	})
	if err != nil {
		return nil, fmt.Errorf("computing diff: %w", err)
	}

	return &Result{OldLabel: opts.OldLabel, NewLabel: opts.NewLabel, Unified: unified}, nil
}

func terminate(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}

	return out
}

const ansiReset = "\033[0m"

// lineStyles maps a unified diff line prefix to its ANSI style. Longer
// prefixes come first.
var lineStyles = []struct {
	prefix string
	style  string
}{
	{"---", "\033[1m"},
	{"+++", "\033[1m"},
	{"@@", "\033[36m"},
	{"-", "\033[31m"},
	{"+", "\033[32m"},
}

// WriteDiff prints the diff of r, with ANSI colors when color is set.
func WriteDiff(w io.Writer, r *Result, color bool) {
	if !r.Differs() {
		_, _ = fmt.Fprintln(w, "No differences found.")
		return
	}

	for _, line := range strings.Split(strings.TrimSuffix(r.Unified, "\n"), "\n") {
		if style := styleFor(line); color && style != "" {
			line = style + line + ansiReset
		}

		_, _ = fmt.Fprintln(w, line)
	}
}

func styleFor(line string) string {
	for _, s := range lineStyles {
		if strings.HasPrefix(line, s.prefix) {
			return s.style
		}
	}

	return ""
}
