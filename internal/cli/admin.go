package cli

import (
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/models"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newPromoteAdminCmd(a *app) *cobra.Command {
	var revoke bool
	cmd := &cobra.Command{
		Use:   "promote-admin <email>",
		Short: "Grant (or with --revoke, remove) the admin role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := strings.ToLower(strings.TrimSpace(args[0]))
			role := models.RoleAdmin
			if revoke {
				role = models.RoleUser
			}
			return a.withDB(func(db *gorm.DB) error {
				res := db.WithContext(cmd.Context()).
					Model(&models.User{}).
					Where("email = ?", email).
					Update("role", role)
				if res.Error != nil {
					return fmt.Errorf("update role: %w", res.Error)
				}
				if res.RowsAffected == 0 {
					return fmt.Errorf("no user with email %q", email)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", email, role)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&revoke, "revoke", false, "Demote the user back to a regular account")
	return cmd
}
