package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/models"
	"gorm.io/gorm"
)

// Purge deletes system logs older than retentionDays.
func Purge(ctx context.Context, db *gorm.DB, retentionDays int, now time.Time) (int64, error) {
	cutoff := now.UTC().AddDate(0, 0, -retentionDays)
	res := db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return res.RowsAffected, res.Error
}

// StartCleanup purges old system logs once a day until ctx is cancelled.
func StartCleanup(ctx context.Context, db *gorm.DB, retentionDays int) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				deleted, err := Purge(ctx, db, retentionDays, time.Now())
				if err != nil {
					slog.Error("log cleanup failed", "component", "logging", "error", err)
				} else if deleted > 0 {
					slog.Info("log cleanup completed", "deleted", deleted)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
