package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/facetfilter/internal/filter"
	"github.com/hupe1980/facetfilter/internal/watch"
)

type watchOptions struct {
	debounce time.Duration
	summary  bool
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-evaluate the filters whenever the dataset or state changes",
		Long: `Watch monitors the dataset, the state file and the config file and
re-evaluates the filters when one of them changes. Bursts of changes are
debounced. Each run prints how many entities are visible and which
filter values changed since the previous run.

Every run re-reads the config file, so edits to the dataset, state,
identity category or invalid values take effect on the next run. The
set of watched files is fixed when watch starts.

Run "facetfilter add" or "facetfilter clear" from another terminal to
see the effect live. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.DurationVar(&opts.debounce, "debounce", 300*time.Millisecond, "debounce interval for file changes")
	f.BoolVar(&opts.summary, "summary", false, "print the filter badges after each run")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *watchOptions) error {
	if opts.debounce <= 0 {
		return invalidArgs(fmt.Errorf("--debounce must be positive"))
	}

	s, err := newSession(cmd, false)
	if err != nil {
		return err
	}

	if s.cfg.Dataset == "" {
		return invalidArgs(errNoDataset)
	}

	var (
		mu      sync.Mutex
		prev    filter.ActiveSet
		hasPrev bool
	)

	// Debounced runs fire on timer goroutines.
	runFn := func(ctx context.Context) (*watch.RunResult, error) {
		mu.Lock()
		defer mu.Unlock()

		if err := s.reloadConfig(cmd); err != nil {
			return nil, err
		}

		if err := s.loadDataset(); err != nil {
			return nil, err
		}

		state, err := s.loadState()
		if err != nil {
			return nil, err
		}

		leaves := s.data.Leaves()

		result, err := s.evaluator(state).Apply(ctx, leaves)
		if err != nil {
			return nil, err
		}

		var changes []filter.Change
		if hasPrev {
			changes = filter.Diff(prev, state)
		}

		prev, hasPrev = state, true

		if opts.summary {
			writeSummary(cmd, filter.Summarise(state, s.identity))
		}

		return &watch.RunResult{
			Visible: len(result.Included),
			Total:   len(leaves),
			Changes: changes,
		}, nil
	}

	watchOpts := watch.DefaultOptions()
	watchOpts.Files = []string{s.cfg.Dataset, s.cfg.State, s.cfg.ConfigFile}
	watchOpts.Debounce = opts.debounce
	watchOpts.Logger = s.logger
	watchOpts.Out = cmd.ErrOrStderr()

	return watch.Run(cmd.Context(), watchOpts, runFn)
}
