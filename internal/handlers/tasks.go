package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"planner-app/internal/models"
	"planner-app/internal/services"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
	userID      uuid.UUID
}

// NewTaskHandler builds the task endpoints. userID is the owner stamped on
// created tasks; the API serves a single planner.
func NewTaskHandler(db *gorm.DB, taskService services.TaskService, userID uuid.UUID) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService, userID: userID}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	task := models.Task{
		UserID:           h.userID,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Status:           req.Status,
		DueDate:          req.DueDate,
		EstimatedMinutes: req.EstimatedMinutes,
		Difficulty:       req.Difficulty,
	}
	if err := h.taskService.CreateTask(h.db, &task); err != nil {
		handleTaskError(c, err)
		return
	}
	respondData(c, http.StatusCreated, task)
}

func (h *TaskHandler) GetTasks(c *gin.Context) {
	params := models.ListTasksParams{
		Status:    models.Status(c.Query("status")),
		Category:  models.Category(c.Query("category")),
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sortBy", "due_date"),
		SortOrder: c.DefaultQuery("sortOrder", "asc"),
	}
	params.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	params.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	if params.Status != "" && !params.Status.Valid() {
		respondError(c, http.StatusBadRequest, "unknown status")
		return
	}
	if params.Category != "" && params.Category != models.CategoryAll && !params.Category.Valid() {
		respondError(c, http.StatusBadRequest, "unknown category")
		return
	}

	tasks, total, err := h.taskService.ListTasks(h.db, params)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	totalPages := 0
	if params.Limit > 0 {
		totalPages = int((total + int64(params.Limit) - 1) / int64(params.Limit))
	}
	respondData(c, http.StatusOK, gin.H{
		"tasks": tasks,
		"pagination": models.Pagination{
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	task, err := h.taskService.GetTaskByID(h.db, id)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	respondData(c, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	task, err := h.taskService.UpdateTask(h.db, id, req)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	respondData(c, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	task, err := h.taskService.UpdateTaskStatus(h.db, id, req.Status)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	respondData(c, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	if err := h.taskService.DeleteTask(h.db, id); err != nil {
		handleTaskError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func taskID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid task id")
		return uuid.Nil, false
	}
	return id, true
}

func handleTaskError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusNotFound, "task not found")
		return
	}
	respondError(c, http.StatusInternalServerError, "failed to process task request")
}
