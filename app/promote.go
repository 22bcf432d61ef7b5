package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castboard/castboard/internal/daemon"
	"github.com/castboard/castboard/internal/db/controller/user"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(promoteCmd)
}

var promoteCmd = &cobra.Command{
	Use:     "promote <email>",
	Short:   "Grant the admin role to an existing account",
	Args:    cobra.ExactArgs(1),
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := daemon.OpenDB(&cfg)
		if err != nil {
			return err
		}

		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		u, err := user.PromoteByEmail(db, args[0])
		if err != nil {
			return fmt.Errorf("promote %s: %w", args[0], err)
		}

		cmd.Printf("%s is now %s\n", u.Email, u.Role)

		return nil
	},
}
