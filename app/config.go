package app

import (
	"github.com/spf13/cobra"

	"github.com/castboard/castboard/internal/config"
)

var dumpJSON bool

func init() { //nolint: gochecknoinits
	dumpCmd.Flags().BoolVar(&dumpJSON, "json", false, "print JSON instead of TOML")

	configCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(configCmd)
}

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	dumpCmd = &cobra.Command{
		Use:     "dump",
		Short:   "Print the merged configuration with secrets masked",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			redacted := cfg.Redacted()

			dump := config.DumpConfig
			if dumpJSON {
				dump = config.DumpConfigJSON
			}

			out, err := dump(&redacted)
			if err != nil {
				return err
			}

			cmd.Print(out)

			return nil
		},
	}
)
