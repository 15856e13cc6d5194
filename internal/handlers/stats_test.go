package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"planner-app/internal/handlers"
	"planner-app/internal/models"
)

type MockStatsService struct {
	stats models.DashboardStats
	err   error
}

func (m *MockStatsService) GetDashboardStats(db *gorm.DB) (models.DashboardStats, error) {
	return m.stats, m.err
}

func TestGetDashboardStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockService := &MockStatsService{
		stats: models.DashboardStats{
			TotalTasks:     10,
			CompletedTasks: 4,
			CompletionRate: 40,
			CurrentStreak:  3,
		},
	}
	handler := handlers.NewStatsHandler(nil, mockService)
	router := gin.New()
	router.GET("/stats/dashboard", handler.GetDashboardStats)

	req, _ := http.NewRequest("GET", "/stats/dashboard", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	env := decodeEnvelope(t, w.Body.Bytes())
	var stats models.DashboardStats
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("Failed to unmarshal stats: %v", err)
	}
	if stats.TotalTasks != 10 || stats.CompletionRate != 40 {
		t.Errorf("Expected totals 10/40%%, got %d/%d%%", stats.TotalTasks, stats.CompletionRate)
	}
}

func TestGetDashboardStatsFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewStatsHandler(nil, &MockStatsService{err: errors.New("db down")})
	router := gin.New()
	router.GET("/stats/dashboard", handler.GetDashboardStats)

	req, _ := http.NewRequest("GET", "/stats/dashboard", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}
