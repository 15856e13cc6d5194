package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"planner-app/internal/handlers"
	"planner-app/internal/models"
)

type MockTaskService struct {
	shouldReturnError bool
	returnNotFound    bool
	tasks             []models.Task
	lastListParams    models.ListTasksParams
}

func (m *MockTaskService) CreateTask(db *gorm.DB, task *models.Task) error {
	if m.shouldReturnError {
		return gorm.ErrInvalidData
	}
	id, _ := uuid.NewV4()
	task.ID = id
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	m.tasks = append(m.tasks, *task)
	return nil
}

func (m *MockTaskService) GetTaskByID(db *gorm.DB, id uuid.UUID) (models.Task, error) {
	if m.shouldReturnError {
		return models.Task{}, gorm.ErrInvalidData
	}
	if m.returnNotFound {
		return models.Task{}, gorm.ErrRecordNotFound
	}
	for _, task := range m.tasks {
		if task.ID == id {
			return task, nil
		}
	}
	return models.Task{ID: id, Title: "Test Task", Status: models.StatusPending}, nil
}

func (m *MockTaskService) ListTasks(db *gorm.DB, params models.ListTasksParams) ([]models.Task, int64, error) {
	m.lastListParams = params
	if m.shouldReturnError {
		return nil, 0, gorm.ErrInvalidData
	}
	return m.tasks, int64(len(m.tasks)), nil
}

func (m *MockTaskService) UpdateTask(db *gorm.DB, id uuid.UUID, req models.UpdateTaskRequest) (models.Task, error) {
	if m.shouldReturnError {
		return models.Task{}, gorm.ErrInvalidData
	}
	if m.returnNotFound {
		return models.Task{}, gorm.ErrRecordNotFound
	}
	task := models.Task{ID: id, Title: req.Title, Status: req.Status}
	return task, nil
}

func (m *MockTaskService) UpdateTaskStatus(db *gorm.DB, id uuid.UUID, status models.Status) (models.Task, error) {
	return m.UpdateTask(db, id, models.UpdateTaskRequest{Status: status})
}

func (m *MockTaskService) DeleteTask(db *gorm.DB, id uuid.UUID) error {
	if m.shouldReturnError {
		return gorm.ErrInvalidData
	}
	if m.returnNotFound {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func setupTaskHandler() (*MockTaskService, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	mockService := &MockTaskService{}
	handler := handlers.NewTaskHandler(nil, mockService, uuid.Must(uuid.NewV4()))
	router := gin.New()

	router.POST("/tasks", handler.CreateTask)
	router.GET("/tasks", handler.GetTasks)
	router.GET("/tasks/:id", handler.GetTaskByID)
	router.PUT("/tasks/:id", handler.UpdateTask)
	router.PUT("/tasks/:id/status", handler.UpdateTaskStatus)
	router.DELETE("/tasks/:id", handler.DeleteTask)

	return mockService, router
}

func decodeEnvelope(t *testing.T, body []byte) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	return env
}

func TestCreateTask(t *testing.T) {
	_, router := setupTaskHandler()

	payload := models.CreateTaskRequest{
		Title:   "Test Task",
		DueDate: time.Now().Add(24 * time.Hour),
	}
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status %d, got %d", http.StatusCreated, w.Code)
	}

	env := decodeEnvelope(t, w.Body.Bytes())
	if !env.Success {
		t.Error("Expected success envelope")
	}

	var task models.Task
	if err := json.Unmarshal(env.Data, &task); err != nil {
		t.Fatalf("Failed to unmarshal task: %v", err)
	}
	if task.Title != "Test Task" {
		t.Errorf("Expected title 'Test Task', got '%s'", task.Title)
	}
	if task.Status != models.StatusPending {
		t.Errorf("Expected pending default status, got %s", task.Status)
	}
}

func TestCreateTaskMissingTitle(t *testing.T) {
	_, router := setupTaskHandler()

	body := []byte(`{"due_date": "2025-03-14T00:00:00Z"}`)
	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if env := decodeEnvelope(t, w.Body.Bytes()); env.Success {
		t.Error("Expected failure envelope")
	}
}

func TestGetTasksPassesFilters(t *testing.T) {
	mockService, router := setupTaskHandler()
	mockService.tasks = []models.Task{
		{Title: "Task 1", Status: models.StatusPending},
		{Title: "Task 2", Status: models.StatusCompleted},
	}

	req, _ := http.NewRequest("GET", "/tasks?status=pending&category=work&search=report&sortBy=dueDate&sortOrder=desc&page=2&limit=5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	params := mockService.lastListParams
	if params.Status != models.StatusPending {
		t.Errorf("Expected pending status filter, got %s", params.Status)
	}
	if params.Category != models.CategoryWork {
		t.Errorf("Expected work category filter, got %s", params.Category)
	}
	if params.Search != "report" {
		t.Errorf("Expected search 'report', got %s", params.Search)
	}
	if params.Page != 2 || params.Limit != 5 {
		t.Errorf("Expected page 2 limit 5, got %d/%d", params.Page, params.Limit)
	}
}

func TestGetTasksRejectsUnknownStatus(t *testing.T) {
	_, router := setupTaskHandler()

	req, _ := http.NewRequest("GET", "/tasks?status=archived", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestGetTaskByIDNotFound(t *testing.T) {
	mockService, router := setupTaskHandler()
	mockService.returnNotFound = true

	taskID := uuid.Must(uuid.NewV4())
	req, _ := http.NewRequest("GET", "/tasks/"+taskID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
	if env := decodeEnvelope(t, w.Body.Bytes()); env.Message != "task not found" {
		t.Errorf("Expected not found message, got '%s'", env.Message)
	}
}

func TestGetTaskByIDInvalidID(t *testing.T) {
	_, router := setupTaskHandler()

	req, _ := http.NewRequest("GET", "/tasks/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestUpdateTaskStatus(t *testing.T) {
	_, router := setupTaskHandler()

	taskID := uuid.Must(uuid.NewV4())
	body := []byte(`{"status": "completed"}`)
	req, _ := http.NewRequest("PUT", "/tasks/"+taskID.String()+"/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	env := decodeEnvelope(t, w.Body.Bytes())
	var task models.Task
	if err := json.Unmarshal(env.Data, &task); err != nil {
		t.Fatalf("Failed to unmarshal task: %v", err)
	}
	if task.Status != models.StatusCompleted {
		t.Errorf("Expected completed, got %s", task.Status)
	}
}

func TestUpdateTaskStatusRejectsUnknown(t *testing.T) {
	_, router := setupTaskHandler()

	taskID := uuid.Must(uuid.NewV4())
	body := []byte(`{"status": "archived"}`)
	req, _ := http.NewRequest("PUT", "/tasks/"+taskID.String()+"/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestDeleteTask(t *testing.T) {
	_, router := setupTaskHandler()

	taskID := uuid.Must(uuid.NewV4())
	req, _ := http.NewRequest("DELETE", "/tasks/"+taskID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status %d, got %d", http.StatusNoContent, w.Code)
	}
}

func TestDeleteTaskNotFound(t *testing.T) {
	mockService, router := setupTaskHandler()
	mockService.returnNotFound = true

	taskID := uuid.Must(uuid.NewV4())
	req, _ := http.NewRequest("DELETE", "/tasks/"+taskID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}
