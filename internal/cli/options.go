package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/facetfilter/internal/filter"
	"github.com/hupe1980/facetfilter/internal/output"
)

type optionsOptions struct {
	search   string
	identity bool
	limit    int
	format   string
}

func newOptionsCommand() *cobra.Command {
	opts := &optionsOptions{}

	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the filter options that can still be added",
		Long: `Options lists every (category, value) pair of the dataset that is not
active yet, labelled "category → value". Placeholder values such as
"unknown" or "n/a" are never offered.

Entity names of the identity category are listed last, when that
category is already in use or --identity is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOptions(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.search, "search", "s", "", "only list options whose label contains this text")
	f.BoolVar(&opts.identity, "identity", false, "also offer entity names")
	f.IntVar(&opts.limit, "limit", 0, "list at most this many options (0 = all)")
	registerFormatFlag(cmd, &opts.format)

	return cmd
}

func runOptions(cmd *cobra.Command, opts *optionsOptions) error {
	format, err := parseFormatFlag(opts.format)
	if err != nil {
		return err
	}

	if opts.limit < 0 {
		return invalidArgs(fmt.Errorf("--limit must not be negative"))
	}

	s, err := newSession(cmd, true)
	if err != nil {
		return err
	}

	state, err := s.loadState()
	if err != nil {
		return err
	}

	candidates := filter.Search(filter.CandidateOptions(filter.OptionsInput{
		Active:          state,
		Counts:          s.data.Counts,
		Valid:           s.valid,
		Identity:        s.identity,
		Leaves:          s.data.LeafNames(),
		IncludeIdentity: opts.identity,
	}), opts.search)

	if opts.limit > 0 && len(candidates) > opts.limit {
		candidates = candidates[:opts.limit]
	}

	s.logger.Debug("options enumerated", "count", len(candidates), "search", opts.search)

	if format != output.FormatText {
		if candidates == nil {
			candidates = []filter.Candidate{}
		}

		return writeStructured(cmd, candidates, format)
	}

	w := cmd.OutOrStdout()
	for _, c := range candidates {
		_, _ = fmt.Fprintln(w, c.Label)
	}

	return nil
}

// writeStructured renders v as YAML or JSON on stdout.
func writeStructured(cmd *cobra.Command, v any, format output.Format) error {
	data, err := output.Marshal(v, format)
	if err != nil {
		return err
	}

	return output.NewStreamWriter(cmd.OutOrStdout()).Write(data)
}
