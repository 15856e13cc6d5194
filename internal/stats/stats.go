// Package stats derives dashboard summaries from a task collection.
package stats

import (
	"math"
	"sort"
	"time"

	"planner-app/internal/models"
	"planner-app/internal/query"
)

// CompletionRate is the rounded percentage of completed tasks, 0 for an
// empty collection.
func CompletionRate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// Compute derives the full dashboard summary. Streaks and the weekly series
// are derived from completion days (the UpdatedAt date of completed tasks),
// which is what the stats endpoint reports; the client core never invents
// its own streak.
func Compute(tasks []models.Task, now time.Time) models.DashboardStats {
	s := models.DashboardStats{
		TotalTasks:       len(tasks),
		WeeklyCompletion: make([]int, 7),
	}

	completionDays := make(map[time.Time]bool)
	byCategory := make(map[models.Category]*models.CategoryStat)

	for _, task := range tasks {
		cs, ok := byCategory[task.Category]
		if !ok {
			cs = &models.CategoryStat{Category: task.Category}
			byCategory[task.Category] = cs
		}
		cs.Total++

		if query.IsToday(task.DueDate, now) {
			s.TodayTasks++
		}

		if task.Status == models.StatusCompleted {
			s.CompletedTasks++
			cs.Completed++

			day := dayKey(task.UpdatedAt, now.Location())
			completionDays[day] = true

			// Index 0 is six days ago, index 6 is today.
			delta := query.DaysUntil(task.UpdatedAt, now)
			if delta <= 0 && delta > -7 {
				s.WeeklyCompletion[6+delta]++
			}
		}
	}

	s.CompletionRate = CompletionRate(s.CompletedTasks, s.TotalTasks)
	s.CurrentStreak, s.BestStreak = streaks(completionDays, now)

	for _, category := range []models.Category{
		models.CategoryWork, models.CategoryStudy, models.CategoryExercise,
		models.CategoryHobby, models.CategoryOther,
	} {
		if cs, ok := byCategory[category]; ok {
			s.CategoryStats = append(s.CategoryStats, *cs)
		}
	}

	return s
}

// streaks returns the current run of consecutive completion days (ending
// today or yesterday) and the longest run on record.
func streaks(days map[time.Time]bool, now time.Time) (current, best int) {
	if len(days) == 0 {
		return 0, 0
	}

	sorted := make([]time.Time, 0, len(days))
	for day := range days {
		sorted = append(sorted, day)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	run := 1
	best = 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Sub(sorted[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}

	today := dayKey(now, now.Location())
	last := sorted[len(sorted)-1]
	switch today.Sub(last) {
	case 0, 24 * time.Hour:
		current = run
	default:
		current = 0
	}
	return current, best
}

func dayKey(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
