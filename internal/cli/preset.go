package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/facetfilter/internal/config"
	"github.com/hupe1980/facetfilter/internal/filter"
	"github.com/hupe1980/facetfilter/internal/store"
)

func newPresetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "List and apply named filter presets",
		Long: `Presets are named filter sets defined under "presets:" in the config
file:

  presets:
    americas:
      description: Samples from the Americas
      filters:
        region: [South America, North America]
    brazil:
      extends: americas
      filters:
        country: [Brazil]

A preset that extends another one gets the base filters first.`,
	}

	cmd.AddCommand(newPresetListCommand(), newPresetApplyCommand())

	return cmd
}

func newPresetListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the presets of the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			presets, err := loadPresets(cmd)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			names := filter.PresetNames(presets)
			if len(names) == 0 {
				_, _ = fmt.Fprintln(w, "no presets defined")
				return nil
			}

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "NAME\tCATEGORIES\tEXTENDS\tDESCRIPTION")

			for _, name := range names {
				p := presets[name]
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					name, strings.Join(p.Categories(), ","), p.Extends, p.Description)
			}

			return tw.Flush()
		},
	}
}

func newPresetApplyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <name>",
		Short: "Apply a preset to the filter state",
		Long: `Apply replaces the entries of every category the preset names with the
preset's values. Categories the preset does not mention are kept.`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}

			cfgFile, _ := cmd.Flags().GetString("config")

			cfg, err := config.Load(cmd, cfgFile)
			if err != nil || cfg.ConfigFile == "" {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}

			presets, err := filter.LoadPresets(cfg.ConfigFile)
			if err != nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}

			return filter.PresetNames(presets), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, false)
			if err != nil {
				return err
			}

			p, err := s.resolvePreset(cmd, args[0])
			if err != nil {
				return err
			}

			changes, err := s.mutate(func(st *store.Store) error {
				st.Replace(p.Apply(st.State()))
				return nil
			})
			if err != nil {
				return err
			}

			s.reportChanges(cmd, changes)

			return nil
		},
	}
}

// loadPresets reads the presets of the config file in use. Without a
// config file there are no presets.
func loadPresets(cmd *cobra.Command) (map[string]filter.Preset, error) {
	path := config.ConfigFileFromContext(cmd.Context())
	if path == "" {
		return map[string]filter.Preset{}, nil
	}

	return filter.LoadPresets(path)
}

// resolvePreset loads the presets and folds name's extends chain.
func (s *session) resolvePreset(cmd *cobra.Command, name string) (filter.Preset, error) {
	presets, err := loadPresets(cmd)
	if err != nil {
		return filter.Preset{}, err
	}

	p, err := filter.ResolvePreset(name, presets)
	if errors.Is(err, filter.ErrUnknownPreset) {
		return filter.Preset{}, invalidArgs(err)
	}

	if err != nil {
		return filter.Preset{}, err
	}

	s.logger.Debug("preset resolved", "name", name, "categories", p.Categories())

	return p, nil
}
