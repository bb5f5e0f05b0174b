// Package cli implements the cobra command tree for facetfilter.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/facetfilter/internal/config"
	"github.com/hupe1980/facetfilter/internal/logging"
)

const rootLong = `facetfilter maintains a set of active filters over a dataset of
categorised entities and answers the questions a "filter data" search
box asks: which options can still be added, which entities are visible,
and which filters are currently in use.

Within one category an entity matches if it has any of the active values.
Across categories it must match every category that has an active value.`

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	cmd := NewRootCommand()

	err := cmd.Execute()
	if err != nil {
		cmd.PrintErrln("Error:", err)
	}

	return exitCode(err)
}

// NewRootCommand returns the facetfilter command with every subcommand
// attached.
func NewRootCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           "facetfilter",
		Short:         "Evaluate faceted filters over a categorised dataset",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return prepareContext(cmd, configFile)
		},
	}

	registerGlobalFlags(cmd, &configFile)
	registerSessionFlags(cmd)

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return invalidArgs(err)
	})

	cmd.AddCommand(
		newOptionsCommand(),
		newAddCommand(),
		newSetCommand(),
		newClearCommand(),
		newSummaryCommand(),
		newVisibleCommand(),
		newPresetCommand(),
		newDiffCommand(),
		newWatchCommand(),
		newVersionCommand(),
		newCompletionCommand(),
	)

	return cmd
}

func registerGlobalFlags(cmd *cobra.Command, configFile *string) {
	pf := cmd.PersistentFlags()
	pf.StringVar(configFile, "config", "", "config file (default: .facetfilter.yaml)")
	pf.String("log-level", config.LogLevelInfo, "log level: debug, info, warn, error")
	pf.String("log-format", config.LogFormatText, "log format: text, json")
	pf.Bool("no-color", false, "disable colored output")
	pf.BoolP("quiet", "q", false, "only log errors")
}

// prepareContext resolves the configuration for cmd and stores it, the
// config file path and the logger in the command context.
func prepareContext(cmd *cobra.Command, configFile string) error {
	cfg, err := config.Load(cmd, configFile)
	if err != nil {
		return invalidArgs(err)
	}

	logger := logging.Setup(cfg)

	ctx := config.NewContext(cmd.Context(), cfg)
	ctx = config.NewContextWithConfigFile(ctx, cfg.ConfigFile)
	cmd.SetContext(logging.NewContext(ctx, logger))

	logger.Debug("configuration loaded",
		slog.String("command", cmd.CommandPath()),
		slog.String("configFile", cfg.ConfigFile),
		slog.String("dataset", cfg.Dataset),
		slog.String("state", cfg.State),
		slog.String("identityCategory", cfg.IdentityCategory),
	)

	return nil
}
