package worker

import (
	"context"
	"time"

	"gorm.io/gorm"

	"planner-app/internal/cache"
	"planner-app/internal/models"
	"planner-app/internal/stats"
)

const (
	statsSnapshotKey = "stats:dashboard"
	statsSnapshotTTL = 5 * time.Minute

	completedRetention = 30 * 24 * time.Hour
)

// StatsSnapshotHandler recomputes the dashboard summary and writes it to the
// cache so the stats endpoint stays warm.
func StatsSnapshotHandler(db *gorm.DB, cacheInstance *cache.MultiLevelCache) JobHandler {
	return func(ctx context.Context, job *Job) error {
		var tasks []models.Task
		if err := db.WithContext(ctx).Find(&tasks).Error; err != nil {
			return err
		}

		dashboard := stats.Compute(tasks, time.Now())
		return cacheInstance.Set(statsSnapshotKey, dashboard, statsSnapshotTTL)
	}
}

// CompletedCleanupHandler removes completed tasks whose last update is older
// than the retention window.
func CompletedCleanupHandler(db *gorm.DB) JobHandler {
	return func(ctx context.Context, job *Job) error {
		cutoff := time.Now().Add(-completedRetention)
		return db.WithContext(ctx).
			Where("status = ? AND updated_at < ?", models.StatusCompleted, cutoff).
			Delete(&models.Task{}).Error
	}
}
