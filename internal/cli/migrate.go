package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, closeDB, err := a.openDB()
			if err != nil {
				return err
			}
			defer closeDB()
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", a.cfg.DB.Driver)
			return nil
		},
	}
}
