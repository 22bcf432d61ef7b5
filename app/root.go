// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/castboard/castboard/internal/config"
)

var (
	configPath string // directory holding main.toml
	cfg        config.Config

	rootCmd = &cobra.Command{
		Use:   "castboard",
		Short: "castboard serves the content API for podcasts, posts and site settings",
		Long: `castboard is a JSON API for a small media site. It manages user accounts,
podcasts with their questions, posts with media attachments and the
font, platform and contact settings.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "directory holding main.toml (default ./etc)")
}

// loadConfig reads the configuration for every subcommand.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	cfg, err = config.ReadConfig(configPath)

	return err
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
