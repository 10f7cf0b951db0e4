package cli

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/database"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update all tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(func(db *gorm.DB) error {
				if err := database.Migrate(db.WithContext(cmd.Context())); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d tables\n", len(database.Models()))
				return nil
			})
		},
	}
}
