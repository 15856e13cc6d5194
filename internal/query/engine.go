// Package query implements the task list view pipeline: free-text search,
// category and bucket filtering, stable sorting, and the overdue/today/
// upcoming grouping shown when no bucket narrows the view.
package query

import (
	"sort"
	"strings"
	"time"

	"planner-app/internal/models"
)

// Result is the computed view over a task collection.
type Result struct {
	// Tasks is the filtered, sorted visible list.
	Tasks []models.Task
	// Groups partitions Tasks by due date; populated only for BucketAll.
	Groups Groups
	// Counts holds per-bucket totals over the full, unfiltered collection,
	// independent of the active search, category and sort settings.
	Counts map[models.FilterBucket]int
}

// Groups are the three display partitions. Completed tasks are excluded from
// every group and surface only through the completed bucket, which keeps the
// board an actionable to-do view.
type Groups struct {
	Overdue  []models.Task
	Today    []models.Task
	Upcoming []models.Task
}

// Apply runs the full pipeline against a snapshot of the collection. The
// input slice is not modified. Bucket membership is evaluated against now.
func Apply(tasks []models.Task, params models.QueryParams, now time.Time) Result {
	filtered := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if !matchesSearch(task, params.SearchText) {
			continue
		}
		if params.Category != models.CategoryAll && task.Category != params.Category {
			continue
		}
		if !InBucket(task, params.Bucket, now) {
			continue
		}
		filtered = append(filtered, task)
	}

	sortTasks(filtered, params.SortKey)

	result := Result{
		Tasks:  filtered,
		Counts: CountBuckets(tasks, now),
	}
	if params.Bucket == models.BucketAll {
		result.Groups = groupTasks(filtered, now)
	}
	return result
}

// InBucket reports whether a task belongs to the given filter bucket at now.
func InBucket(task models.Task, bucket models.FilterBucket, now time.Time) bool {
	switch bucket {
	case models.BucketToday:
		return IsToday(task.DueDate, now)
	case models.BucketTomorrow:
		return IsTomorrow(task.DueDate, now)
	case models.BucketOverdue:
		return IsPastDay(task.DueDate, now) && task.Status != models.StatusCompleted
	case models.BucketCompleted:
		return task.Status == models.StatusCompleted
	case models.BucketPending:
		return task.Status == models.StatusPending
	default:
		return true
	}
}

// CountBuckets computes the badge counts over the whole collection.
func CountBuckets(tasks []models.Task, now time.Time) map[models.FilterBucket]int {
	counts := make(map[models.FilterBucket]int, 6)
	for _, bucket := range models.Buckets() {
		counts[bucket] = 0
	}
	for _, task := range tasks {
		for _, bucket := range models.Buckets() {
			if InBucket(task, bucket, now) {
				counts[bucket]++
			}
		}
	}
	return counts
}

func matchesSearch(task models.Task, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(task.Title), needle) {
		return true
	}
	return task.Description != "" && strings.Contains(strings.ToLower(task.Description), needle)
}

// sortTasks sorts in place. The sort is stable so ties keep collection order.
func sortTasks(tasks []models.Task, key models.SortKey) {
	switch key {
	case models.SortByCreatedAt:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		})
	case models.SortByCategory:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Category < tasks[j].Category
		})
	default:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].DueDate.Before(tasks[j].DueDate)
		})
	}
}

func groupTasks(tasks []models.Task, now time.Time) Groups {
	var groups Groups
	for _, task := range tasks {
		if task.Status == models.StatusCompleted {
			continue
		}
		switch delta := DaysUntil(task.DueDate, now); {
		case delta < 0:
			groups.Overdue = append(groups.Overdue, task)
		case delta == 0:
			groups.Today = append(groups.Today, task)
		default:
			groups.Upcoming = append(groups.Upcoming, task)
		}
	}
	return groups
}
