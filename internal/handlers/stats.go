package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"planner-app/internal/services"
)

type StatsHandler struct {
	db           *gorm.DB
	statsService services.StatsService
}

func NewStatsHandler(db *gorm.DB, statsService services.StatsService) *StatsHandler {
	return &StatsHandler{db: db, statsService: statsService}
}

// GetDashboardStats serves the dashboard summary: totals, completion rate,
// streaks, weekly completion and per-category counts.
func (h *StatsHandler) GetDashboardStats(c *gin.Context) {
	dashboard, err := h.statsService.GetDashboardStats(h.db)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to compute dashboard stats")
		return
	}
	respondData(c, http.StatusOK, dashboard)
}
