package models

// FilterBucket is a named predicate over a task's due date or status, used
// both to narrow the visible list and to label filter counts.
type FilterBucket string

const (
	BucketAll       FilterBucket = "all"
	BucketToday     FilterBucket = "today"
	BucketTomorrow  FilterBucket = "tomorrow"
	BucketOverdue   FilterBucket = "overdue"
	BucketCompleted FilterBucket = "completed"
	BucketPending   FilterBucket = "pending"
)

func (b FilterBucket) Valid() bool {
	switch b {
	case BucketAll, BucketToday, BucketTomorrow, BucketOverdue, BucketCompleted, BucketPending:
		return true
	}
	return false
}

// Buckets lists every filter bucket in display order.
func Buckets() []FilterBucket {
	return []FilterBucket{
		BucketAll, BucketToday, BucketTomorrow,
		BucketOverdue, BucketCompleted, BucketPending,
	}
}

type SortKey string

const (
	SortByDueDate   SortKey = "dueDate"
	SortByCreatedAt SortKey = "createdAt"
	SortByCategory  SortKey = "category"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortByDueDate, SortByCreatedAt, SortByCategory:
		return true
	}
	return false
}

// QueryParams carries the current view settings of the task list.
type QueryParams struct {
	SearchText string       `json:"search_text"`
	Category   Category     `json:"category"`
	Bucket     FilterBucket `json:"bucket"`
	SortKey    SortKey      `json:"sort_key"`
}

// DefaultQueryParams matches the initial state of the task list view.
func DefaultQueryParams() QueryParams {
	return QueryParams{
		SearchText: "",
		Category:   CategoryAll,
		Bucket:     BucketAll,
		SortKey:    SortByDueDate,
	}
}
