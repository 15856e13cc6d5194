package models

import "time"

// CreateTaskRequest is the create payload: task fields minus id, timestamps
// and owner, which the server assigns.
type CreateTaskRequest struct {
	Title            string    `json:"title" binding:"required"`
	Description      string    `json:"description"`
	Category         Category  `json:"category" binding:"omitempty,oneof=work study exercise hobby other"`
	Status           Status    `json:"status" binding:"omitempty,oneof=pending in_progress completed on_hold"`
	DueDate          time.Time `json:"due_date" binding:"required"`
	EstimatedMinutes int       `json:"estimated_minutes" binding:"omitempty,gt=0"`
	Difficulty       int       `json:"difficulty" binding:"omitempty,min=1,max=5"`
}

// UpdateTaskRequest is a partial patch; zero values mean "leave unchanged"
// except DueDate, which uses the pointer to distinguish absent from zero.
type UpdateTaskRequest struct {
	Title            string     `json:"title"`
	Description      *string    `json:"description"`
	Category         Category   `json:"category" binding:"omitempty,oneof=work study exercise hobby other"`
	Status           Status     `json:"status" binding:"omitempty,oneof=pending in_progress completed on_hold"`
	DueDate          *time.Time `json:"due_date"`
	EstimatedMinutes int        `json:"estimated_minutes" binding:"omitempty,gt=0"`
	Difficulty       int        `json:"difficulty" binding:"omitempty,min=1,max=5"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=pending in_progress completed on_hold"`
}

type ListTasksParams struct {
	Page      int
	Limit     int
	Status    Status
	Category  Category
	Search    string
	SortBy    string
	SortOrder string
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}
