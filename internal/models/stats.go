package models

// DashboardStats is the derived dashboard summary. The client never computes
// the streak fields itself; they come from the stats endpoint.
type DashboardStats struct {
	TotalTasks       int            `json:"total_tasks"`
	CompletedTasks   int            `json:"completed_tasks"`
	CompletionRate   int            `json:"completion_rate"`
	CurrentStreak    int            `json:"current_streak"`
	BestStreak       int            `json:"best_streak"`
	TodayTasks       int            `json:"today_tasks"`
	WeeklyCompletion []int          `json:"weekly_completion,omitempty"`
	CategoryStats    []CategoryStat `json:"category_stats,omitempty"`
}

type CategoryStat struct {
	Category  Category `json:"category"`
	Total     int      `json:"total"`
	Completed int      `json:"completed"`
}
