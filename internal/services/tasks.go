package services

import (
	"strings"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"planner-app/internal/models"
)

// TaskService is the persistence layer behind the task endpoints.
type TaskService interface {
	CreateTask(db *gorm.DB, task *models.Task) error
	GetTaskByID(db *gorm.DB, id uuid.UUID) (models.Task, error)
	ListTasks(db *gorm.DB, params models.ListTasksParams) ([]models.Task, int64, error)
	UpdateTask(db *gorm.DB, id uuid.UUID, req models.UpdateTaskRequest) (models.Task, error)
	UpdateTaskStatus(db *gorm.DB, id uuid.UUID, status models.Status) (models.Task, error)
	DeleteTask(db *gorm.DB, id uuid.UUID) error
}

type TaskServiceImpl struct{}

func NewTaskService() TaskService {
	return &TaskServiceImpl{}
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, task *models.Task) error {
	if task.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		task.ID = id
	}
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Category == "" {
		task.Category = models.CategoryOther
	}
	return db.Create(task).Error
}

func (s *TaskServiceImpl) GetTaskByID(db *gorm.DB, id uuid.UUID) (models.Task, error) {
	var task models.Task
	err := db.First(&task, "id = ?", id).Error
	return task, err
}

// sortColumns whitelists client-supplied sort keys against the schema.
var sortColumns = map[string]string{
	"due_date":   "due_date",
	"dueDate":    "due_date",
	"created_at": "created_at",
	"createdAt":  "created_at",
	"updated_at": "updated_at",
	"category":   "category",
}

func (s *TaskServiceImpl) ListTasks(db *gorm.DB, params models.ListTasksParams) ([]models.Task, int64, error) {
	query := db.Model(&models.Task{})

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Category != "" && params.Category != models.CategoryAll {
		query = query.Where("category = ?", params.Category)
	}
	if params.Search != "" {
		needle := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR (description <> '' AND LOWER(description) LIKE ?)", needle, needle)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[params.SortBy]
	if !ok {
		column = "due_date"
	}
	order := "asc"
	if strings.EqualFold(params.SortOrder, "desc") {
		order = "desc"
	}
	query = query.Order(column + " " + order)

	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = 10
	}
	query = query.Offset((page - 1) * limit).Limit(limit)

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, id uuid.UUID, req models.UpdateTaskRequest) (models.Task, error) {
	var task models.Task
	if err := db.First(&task, "id = ?", id).Error; err != nil {
		return models.Task{}, err
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if req.EstimatedMinutes != 0 {
		updates["estimated_minutes"] = req.EstimatedMinutes
	}
	if req.Difficulty != 0 {
		updates["difficulty"] = req.Difficulty
	}

	if len(updates) > 0 {
		if err := db.Model(&task).Updates(updates).Error; err != nil {
			return models.Task{}, err
		}
	}

	err := db.First(&task, "id = ?", id).Error
	return task, err
}

func (s *TaskServiceImpl) UpdateTaskStatus(db *gorm.DB, id uuid.UUID, status models.Status) (models.Task, error) {
	return s.UpdateTask(db, id, models.UpdateTaskRequest{Status: status})
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, id uuid.UUID) error {
	result := db.Delete(&models.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
