package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type Category string

const (
	CategoryWork     Category = "work"
	CategoryStudy    Category = "study"
	CategoryExercise Category = "exercise"
	CategoryHobby    Category = "hobby"
	CategoryOther    Category = "other"
)

// CategoryAll is a query-only pseudo category, never stored on a task.
const CategoryAll Category = "all"

func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryStudy, CategoryExercise, CategoryHobby, CategoryOther:
		return true
	}
	return false
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on_hold"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusOnHold:
		return true
	}
	return false
}

type Task struct {
	ID               uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	UserID           uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Title            string    `json:"title" gorm:"not null"`
	Description      string    `json:"description"`
	Category         Category  `json:"category" gorm:"not null;default:'other';index"`
	Status           Status    `json:"status" gorm:"not null;default:'pending';index"`
	DueDate          time.Time `json:"due_date" gorm:"not null;index"`
	EstimatedMinutes int       `json:"estimated_minutes,omitempty"`
	Difficulty       int       `json:"difficulty,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
