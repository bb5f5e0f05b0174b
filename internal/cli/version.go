package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/facetfilter/internal/output"
	"github.com/hupe1980/facetfilter/internal/version"
)

func newVersionCommand() *cobra.Command {
	var (
		jsonOutput bool
		format     string
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Display the version, git commit, build date, Go version, platform, and
the dataset formatVersion range this build reads.`,
		Args: cobra.NoArgs,
		// Version needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := parseFormatFlag(format)
			if err != nil {
				return err
			}

			if jsonOutput {
				f = output.FormatJSON
			}

			info := version.GetInfo()

			if f != output.FormatText {
				return writeStructured(cmd, info, f)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), info.String())

			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output version info as JSON (same as --format json)")
	registerFormatFlag(cmd, &format)

	return cmd
}
