package cli

import (
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/logging"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newLogsCmd(a *app) *cobra.Command {
	logs := &cobra.Command{
		Use:   "logs",
		Short: "Maintain the system_logs table",
	}

	var days int
	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete system logs older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(func(db *gorm.DB) error {
				if days <= 0 {
					days = a.cfg.LogRetentionDays
				}
				deleted, err := logging.Purge(cmd.Context(), db, days, time.Now())
				if err != nil {
					return fmt.Errorf("purge logs: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d log entries older than %d days\n", deleted, days)
				return nil
			})
		},
	}
	purge.Flags().IntVar(&days, "days", 0, "Retention in days (defaults to LOG_RETENTION_DAYS)")

	logs.AddCommand(purge)
	return logs
}
