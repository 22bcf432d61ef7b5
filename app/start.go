package app

import (
	"github.com/spf13/cobra"

	"github.com/castboard/castboard/internal/daemon"
	"github.com/castboard/castboard/internal/logger"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	rootCmd.AddCommand(startCmd)
}

var (
	devMode bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the castboard web service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, args); err != nil {
				return err
			}

			if devMode {
				cfg.DevMode = true
			}

			return logger.Init(cfg.Log)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := daemon.New(cmd.Context(), &cfg)
			if err != nil {
				return err
			}

			return d.Start()
		},
	}
)
