package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/facetfilter/internal/filter"
	"github.com/hupe1980/facetfilter/internal/output"
)

type visibleOptions struct {
	format  string
	explain bool
	preset  string
	output  string
}

// visibleView is the structured rendering of the visible command.
type visibleView struct {
	Visible  []string         `json:"visible"`
	Total    int              `json:"total"`
	Filters  filter.ActiveSet `json:"filters"`
	Excluded []excludedView   `json:"excluded,omitempty"`
}

type excludedView struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Reason   string `json:"reason"`
}

func newVisibleCommand() *cobra.Command {
	opts := &visibleOptions{}

	cmd := &cobra.Command{
		Use:   "visible",
		Short: "List the entities that pass the active filters",
		Long: `Visible evaluates the filter state against the leaf entities of the
dataset and lists those that remain visible, in dataset order.

With --explain every hidden entity is listed together with the first
category it fails to match. --preset additionally restricts the listing
by a preset without touching the saved state.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVisible(cmd, opts)
		},
	}

	f := cmd.Flags()
	registerFormatFlag(cmd, &opts.format)
	f.BoolVar(&opts.explain, "explain", false, "also list hidden entities and why")
	f.StringVar(&opts.preset, "preset", "", "additionally apply a preset from the config file")
	f.StringVarP(&opts.output, "output", "o", "", "write to a file instead of stdout")

	return cmd
}

func runVisible(cmd *cobra.Command, opts *visibleOptions) error {
	format, err := parseFormatFlag(opts.format)
	if err != nil {
		return err
	}

	s, err := newSession(cmd, true)
	if err != nil {
		return err
	}

	state, err := s.loadState()
	if err != nil {
		return err
	}

	filters := []filter.Filter{s.evaluator(state)}

	if opts.preset != "" {
		p, err := s.resolvePreset(cmd, opts.preset)
		if err != nil {
			return err
		}

		filters = append(filters, s.evaluator(p.Apply(filter.NewActiveSet())))
	}

	leaves := s.data.Leaves()

	result, err := filter.NewChain(filters...).Apply(cmd.Context(), leaves)
	if err != nil {
		return err
	}

	view := visibleView{
		Visible: result.Names(),
		Total:   len(leaves),
		Filters: state,
	}

	if opts.explain {
		for _, ex := range result.Excluded {
			view.Excluded = append(view.Excluded, excludedView{
				Name:     ex.Entity.Name,
				Category: ex.Category,
				Reason:   ex.Reason,
			})
		}
	}

	var data []byte

	if format == output.FormatText {
		data = renderVisibleText(view)
	} else {
		data, err = output.Marshal(view, format)
		if err != nil {
			return err
		}
	}

	w := output.Destination(opts.output, cmd.OutOrStdout(), output.WithLogger(s.logger))
	if err := w.Write(data); err != nil {
		return err
	}

	if opts.output != "" {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d entities visible, written to %s\n",
			len(view.Visible), view.Total, opts.output)
	}

	return nil
}

func renderVisibleText(view visibleView) []byte {
	var buf bytes.Buffer

	for _, name := range view.Visible {
		buf.WriteString(name)
		buf.WriteByte('\n')
	}

	if len(view.Excluded) > 0 {
		fmt.Fprintf(&buf, "\nhidden (%d):\n", len(view.Excluded))

		for _, ex := range view.Excluded {
			fmt.Fprintf(&buf, "  %s: %s\n", ex.Name, ex.Reason)
		}
	}

	return buf.Bytes()
}
