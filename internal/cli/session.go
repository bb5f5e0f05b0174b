package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/facetfilter/internal/config"
	"github.com/hupe1980/facetfilter/internal/dataset"
	"github.com/hupe1980/facetfilter/internal/filter"
	"github.com/hupe1980/facetfilter/internal/logging"
	"github.com/hupe1980/facetfilter/internal/store"
)

// errNoDataset is returned by commands that evaluate entities when no
// dataset is configured.
var errNoDataset = errors.New("no dataset given: use --dataset or set dataset in the config file")

// session bundles what a subcommand needs: the resolved config, the
// dataset (when loaded) and the state backend.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	data     *dataset.Dataset
	identity string
	valid    filter.Validity
	backend  store.PathBackend
}

// newSession prepares a session for cmd. The dataset is loaded only when
// needDataset is set; mutations work on the state file alone.
func newSession(cmd *cobra.Command, needDataset bool) (*session, error) {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := logging.WithComponent(logging.FromContext(ctx), cmd.Name())

	s := &session{
		cfg:      cfg,
		logger:   logger,
		identity: cfg.IdentityCategory,
		valid:    filter.NewValidity(cfg.InvalidValues...),
		backend:  store.OpenBackend(cfg.State, logger),
	}

	if needDataset {
		if err := s.loadDataset(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// loadDataset (re)reads the configured dataset. A dataset that names its
// own identity category overrides the configured one.
func (s *session) loadDataset() error {
	if s.cfg.Dataset == "" {
		return invalidArgs(errNoDataset)
	}

	data, err := dataset.Load(s.cfg.Dataset)
	if err != nil {
		return err
	}

	s.data = data
	s.identity = s.cfg.IdentityCategory

	if data.IdentityCategory != "" {
		s.identity = data.IdentityCategory
	}

	s.logger.Debug("dataset loaded",
		slog.String("path", data.Source),
		slog.Int("entities", len(data.Entities)),
		slog.String("identity", s.identity),
	)

	return nil
}

// loadState reads the persisted filter state.
func (s *session) loadState() (filter.ActiveSet, error) {
	return s.backend.Load()
}

// evaluator returns an evaluator for state using the session's identity.
func (s *session) evaluator(state filter.ActiveSet) *filter.Evaluator {
	return filter.NewEvaluator(state, filter.WithIdentityCategory(s.identity))
}

// mutate loads the state into a store, lets fn change it and persists
// every committed change. It returns the changes between the loaded and
// the final state.
func (s *session) mutate(fn func(st *store.Store) error) ([]filter.Change, error) {
	initial, err := s.loadState()
	if err != nil {
		return nil, err
	}

	st := store.New(store.WithState(initial), store.WithLogger(s.logger))

	persister := store.NewPersister(s.backend, s.logger)
	unsubscribe := st.Subscribe(persister)

	defer unsubscribe()

	if err := fn(st); err != nil {
		return nil, err
	}

	if err := persister.Err(); err != nil {
		return nil, fmt.Errorf("saving state: %w", err)
	}

	return filter.Diff(initial, st.State()), nil
}

// dispatchAll applies actions in order. Malformed actions are usage errors.
func dispatchAll(st *store.Store, actions ...store.Action) error {
	for _, a := range actions {
		if _, err := st.Dispatch(a); err != nil {
			return invalidArgs(err)
		}
	}

	return nil
}

// reportChanges prints changes to stdout and, when there are any, where
// the state was saved to stderr.
func (s *session) reportChanges(cmd *cobra.Command, changes []filter.Change) {
	writeChanges(cmd.OutOrStdout(), changes)

	if len(changes) > 0 {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "state saved to %s\n", s.backend.Path())
	}
}

// reloadConfig re-reads the config file in use and rebuilds the settings
// derived from it. Flags keep their precedence. Without a config file it
// is a no-op.
func (s *session) reloadConfig(cmd *cobra.Command) error {
	if s.cfg.ConfigFile == "" {
		return nil
	}

	cfg, err := config.Load(cmd, s.cfg.ConfigFile)
	if err != nil {
		return err
	}

	s.cfg = cfg
	s.identity = cfg.IdentityCategory
	s.valid = filter.NewValidity(cfg.InvalidValues...)
	s.backend = store.OpenBackend(cfg.State, s.logger)

	return nil
}

// writeChanges prints a change summary followed by one line per change.
func writeChanges(w io.Writer, changes []filter.Change) {
	_, _ = fmt.Fprintln(w, filter.DiffSummary(changes))

	for _, c := range changes {
		_, _ = fmt.Fprintf(w, "  %s %s → %s\n", c.Kind, c.Category, c.Value)
	}
}
