package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/hupe1980/facetfilter/internal/config"
	"github.com/hupe1980/facetfilter/internal/dataset"
	"github.com/hupe1980/facetfilter/internal/output"
)

// registerSessionFlags adds the dataset and state flags shared by every
// subcommand. They are bound to the config keys of the same name.
func registerSessionFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringP("dataset", "d", "", "dataset file: YAML, JSON, or a CSV, TSV or XLSX metadata table")
	pf.String("state", config.DefaultStateFile, "filter state file (.db, .sqlite or .sqlite3 for SQLite, YAML otherwise)")
	pf.String("identity-category", config.DefaultIdentityCategory, "category whose values are entity names")
	pf.StringSlice("invalid-values", nil, "extra placeholder values never offered as options")
}

// registerFormatFlag adds the --format flag for commands with structured output.
func registerFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVar(format, "format", string(output.FormatText), "output format: text, yaml, json")

	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{string(output.FormatText), string(output.FormatYAML), string(output.FormatJSON)},
		cobra.ShellCompDirectiveNoFileComp,
	))
}

// parseFormatFlag validates a --format value.
func parseFormatFlag(s string) (output.Format, error) {
	f, err := output.ParseFormat(s)
	if err != nil {
		return "", invalidArgs(err)
	}

	return f, nil
}

// completeFilterArgs completes "<category> <value>..." arguments from the
// configured dataset. Completion runs without the root pre-run hook, so the
// config is loaded here.
func completeFilterArgs(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	cfgFile, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(cmd, cfgFile)
	if err != nil || cfg.Dataset == "" {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	data, err := dataset.Load(cfg.Dataset)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	identity := cfg.IdentityCategory
	if data.IdentityCategory != "" {
		identity = data.IdentityCategory
	}

	if len(args) == 0 {
		categories := data.Counts.Categories()
		if _, ok := data.Counts[identity]; !ok {
			categories = append(categories, identity)
			sort.Strings(categories)
		}

		return categories, cobra.ShellCompDirectiveNoFileComp
	}

	if args[0] == identity {
		return data.LeafNames(), cobra.ShellCompDirectiveNoFileComp
	}

	return data.Counts.Values(args[0]), cobra.ShellCompDirectiveNoFileComp
}
