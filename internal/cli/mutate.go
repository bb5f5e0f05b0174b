package cli

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/facetfilter/internal/filter"
	"github.com/hupe1980/facetfilter/internal/store"
)

func newAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <category> <value>...",
		Short: "Activate filter values in a category",
		Long: `Add activates one or more values in a category of the filter state.
Values that are not yet present are appended; values already present but
inactive are re-activated. Adding an active value again changes nothing.`,
		Example: `  facetfilter add country Brazil
  facetfilter add strain ZKV/2015/BR-01 ZKV/2016/CO-07`,
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: completeFilterArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actions := make([]store.Action, 0, len(args)-1)
			for _, v := range args[1:] {
				actions = append(actions, store.AddFilter(args[0], v))
			}

			return runMutation(cmd, actions...)
		},
	}
}

func newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <category> [value...]",
		Short: "Replace the filter values of a category",
		Long: `Set replaces every entry of a category with the given values, all
active. Without values the category is cleared.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeFilterArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(cmd, store.SetCategory(args[0], args[1:]...))
		},
	}
}

func newClearCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear [category]",
		Short: "Remove every filter value of a category",
		Long: `Clear empties a category. The category stays in the filter state with
no entries, so it no longer constrains visibility. Use --all to clear
every category.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}

			return cobra.ExactArgs(1)(cmd, args)
		},
		ValidArgsFunction: completeFilterArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all {
				return runMutation(cmd, store.ClearCategory(args[0]))
			}

			s, err := newSession(cmd, false)
			if err != nil {
				return err
			}

			changes, err := s.mutate(func(st *store.Store) error {
				return dispatchAll(st, clearActions(st.State())...)
			})
			if err != nil {
				return err
			}

			s.reportChanges(cmd, changes)

			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "clear every category")

	return cmd
}

func clearActions(state filter.ActiveSet) []store.Action {
	categories := state.Categories()
	actions := make([]store.Action, 0, len(categories))

	for _, c := range categories {
		actions = append(actions, store.ClearCategory(c))
	}

	return actions
}

// runMutation applies actions to the state file and prints what changed.
func runMutation(cmd *cobra.Command, actions ...store.Action) error {
	s, err := newSession(cmd, false)
	if err != nil {
		return err
	}

	changes, err := s.mutate(func(st *store.Store) error {
		return dispatchAll(st, actions...)
	})
	if err != nil {
		return err
	}

	for _, a := range actions {
		s.logger.Debug("filter action applied", "action", a.String())
	}

	s.reportChanges(cmd, changes)

	return nil
}
