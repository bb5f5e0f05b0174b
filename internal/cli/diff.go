package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/facetfilter/internal/compare"
	"github.com/hupe1980/facetfilter/internal/filter"
	"github.com/hupe1980/facetfilter/internal/store"
)

type diffOptions struct {
	against  string
	preset   string
	context  int
	exitCode bool
}

func newDiffCommand() *cobra.Command {
	opts := &diffOptions{}

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare the visible entities of two filter states",
		Long: `Diff evaluates the current filter state and a proposed one and prints
a unified diff of the visible entity names, followed by the filter
changes between the two states.

The proposed state is read from --against, or built by applying
--preset to the current state.

Exit codes:
  0  Compared (or no differences with --exit-code)
  1  Error, or differences found with --exit-code
  2  Invalid arguments`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDiff(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.against, "against", "", "state file to compare with")
	f.StringVar(&opts.preset, "preset", "", "compare with the current state after applying this preset")
	f.IntVar(&opts.context, "context", 3, "lines of context in the unified diff")
	f.BoolVar(&opts.exitCode, "exit-code", false, "exit with 1 when the visible entities differ")

	cmd.MarkFlagsMutuallyExclusive("against", "preset")

	return cmd
}

func runDiff(cmd *cobra.Command, opts *diffOptions) error {
	if opts.against == "" && opts.preset == "" {
		return invalidArgs(fmt.Errorf("--against or --preset is required"))
	}

	if opts.context < 0 {
		return invalidArgs(fmt.Errorf("--context must not be negative"))
	}

	s, err := newSession(cmd, true)
	if err != nil {
		return err
	}

	current, err := s.loadState()
	if err != nil {
		return err
	}

	proposed, label, err := s.proposedState(cmd, current, opts)
	if err != nil {
		return err
	}

	diffOpts := compare.DefaultOptions()
	diffOpts.OldLabel = s.backend.Path()
	diffOpts.NewLabel = label
	diffOpts.Context = opts.context
	diffOpts.Identity = s.identity

	result, err := compare.States(s.data.Leaves(), current, proposed, diffOpts)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	compare.WriteDiff(w, result, !s.cfg.NoColor)

	_, _ = fmt.Fprintln(w, result.Summary())
	writeChanges(w, filter.Diff(current, proposed))

	if opts.exitCode && result.Differs() {
		return &ExitError{Code: exitError, Err: fmt.Errorf("visible entities differ: %s", result.Summary())}
	}

	return nil
}

func (s *session) proposedState(cmd *cobra.Command, current filter.ActiveSet, opts *diffOptions) (filter.ActiveSet, string, error) {
	if opts.preset != "" {
		p, err := s.resolvePreset(cmd, opts.preset)
		if err != nil {
			return filter.ActiveSet{}, "", err
		}

		return p.Apply(current), "preset " + opts.preset, nil
	}

	state, err := store.OpenBackend(opts.against, s.logger).Load()
	if err != nil {
		return filter.ActiveSet{}, "", err
	}

	return state, opts.against, nil
}
