package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/facetfilter/internal/filter"
	"github.com/hupe1980/facetfilter/internal/output"
)

func newSummaryCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the filters currently in use",
		Long: `Summary prints one badge per category that has entries, in the order
the categories were first used, as "name (n=active values)". The
identity category is shown as "samples".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := parseFormatFlag(format)
			if err != nil {
				return err
			}

			s, err := newSession(cmd, false)
			if err != nil {
				return err
			}

			// The dataset may name its own identity category.
			if s.cfg.Dataset != "" {
				if err := s.loadDataset(); err != nil {
					return err
				}
			}

			state, err := s.loadState()
			if err != nil {
				return err
			}

			summary := filter.Summarise(state, s.identity)

			if f != output.FormatText {
				return writeStructured(cmd, summary, f)
			}

			writeSummary(cmd, summary)

			return nil
		},
	}

	registerFormatFlag(cmd, &format)

	return cmd
}

func writeSummary(cmd *cobra.Command, summary filter.Summary) {
	w := cmd.OutOrStdout()

	if len(summary.Badges) == 0 {
		_, _ = fmt.Fprintln(w, "no filters active")
		return
	}

	_, _ = fmt.Fprintln(w, summary.Header)

	for _, b := range summary.Badges {
		_, _ = fmt.Fprintf(w, "  %s\n", b.DisplayName)
	}
}
