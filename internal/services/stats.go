package services

import (
	"time"

	"gorm.io/gorm"

	"planner-app/internal/cache"
	"planner-app/internal/models"
	"planner-app/internal/stats"
)

const (
	statsDashboardKey = "stats:dashboard"
	statsDashboardTTL = time.Minute
)

// StatsService derives the dashboard summary from the stored collection.
type StatsService interface {
	GetDashboardStats(db *gorm.DB) (models.DashboardStats, error)
}

type StatsServiceImpl struct {
	cache *cache.MultiLevelCache
	now   func() time.Time
}

// NewStatsService builds a stats service. A nil cache disables caching.
func NewStatsService(cacheInstance *cache.MultiLevelCache) *StatsServiceImpl {
	return &StatsServiceImpl{
		cache: cacheInstance,
		now:   time.Now,
	}
}

func (s *StatsServiceImpl) GetDashboardStats(db *gorm.DB) (models.DashboardStats, error) {
	if s.cache != nil {
		var cached models.DashboardStats
		if err := s.cache.Get(statsDashboardKey, &cached); err == nil {
			return cached, nil
		}
	}

	var tasks []models.Task
	if err := db.Find(&tasks).Error; err != nil {
		return models.DashboardStats{}, err
	}

	dashboard := stats.Compute(tasks, s.now())

	if s.cache != nil {
		s.cache.Set(statsDashboardKey, dashboard, statsDashboardTTL)
	}
	return dashboard, nil
}
