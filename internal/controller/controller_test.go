package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"

	"planner-app/internal/api"
	"planner-app/internal/models"
)

// fakeBackend scripts API responses per call. The zero value succeeds by
// echoing the request back with server-assigned fields.
type fakeBackend struct {
	failWith    error
	listTasks   []models.Task
	lastRequest interface{}
	stats       models.DashboardStats
	statsErr    error
}

func (f *fakeBackend) ListTasks(ctx context.Context, params models.ListTasksParams) ([]models.Task, models.Pagination, error) {
	if f.failWith != nil {
		return nil, models.Pagination{}, f.failWith
	}
	return f.listTasks, models.Pagination{Total: int64(len(f.listTasks))}, nil
}

func (f *fakeBackend) CreateTask(ctx context.Context, req models.CreateTaskRequest) (models.Task, error) {
	f.lastRequest = req
	if f.failWith != nil {
		return models.Task{}, f.failWith
	}
	id, _ := uuid.NewV4()
	now := time.Now()
	task := models.Task{
		ID:        id,
		Title:     req.Title,
		Category:  req.Category,
		Status:    models.StatusPending,
		DueDate:   req.DueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Status != "" {
		task.Status = req.Status
	}
	return task, nil
}

func (f *fakeBackend) UpdateTask(ctx context.Context, id uuid.UUID, req models.UpdateTaskRequest) (models.Task, error) {
	f.lastRequest = req
	if f.failWith != nil {
		return models.Task{}, f.failWith
	}
	task := models.Task{ID: id, Title: req.Title, Status: models.StatusPending, UpdatedAt: time.Now()}
	if req.Status != "" {
		task.Status = req.Status
	}
	return task, nil
}

func (f *fakeBackend) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status models.Status) (models.Task, error) {
	if f.failWith != nil {
		return models.Task{}, f.failWith
	}
	return models.Task{ID: id, Title: "from server", Status: status, UpdatedAt: time.Now()}, nil
}

func (f *fakeBackend) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return f.failWith
}

func (f *fakeBackend) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	if f.statsErr != nil {
		return models.DashboardStats{}, f.statsErr
	}
	return f.stats, nil
}

func newTestController(backend Backend) *Controller {
	userID, _ := uuid.NewV4()
	return New(backend, userID, zerolog.Nop())
}

func validCreate(title string) models.CreateTaskRequest {
	return models.CreateTaskRequest{
		Title:   title,
		DueDate: time.Now().Add(24 * time.Hour),
	}
}

func TestCreateTaskRejectsBlankTitle(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestController(backend)

	_, err := c.CreateTask(context.Background(), validCreate("   "))

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if verr.Field != "title" {
		t.Errorf("Expected title field, got %s", verr.Field)
	}
	if backend.lastRequest != nil {
		t.Error("Expected no API call for invalid input")
	}
	if c.store.Len() != 0 {
		t.Errorf("Expected empty collection, got %d tasks", c.store.Len())
	}
}

func TestCreateTaskReconcilesServerCopy(t *testing.T) {
	c := newTestController(&fakeBackend{})

	created, err := c.CreateTask(context.Background(), validCreate("Write report"))
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}

	tasks := c.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(tasks))
	}
	if tasks[0].ID != created.ID {
		t.Error("Expected collection to hold the server-assigned id, not the optimistic one")
	}
}

func TestCreateTaskRollsBackOnTransportError(t *testing.T) {
	backend := &fakeBackend{failWith: &api.TransportError{Op: "POST /api/v1/tasks", StatusCode: 502}}
	c := newTestController(backend)

	_, err := c.CreateTask(context.Background(), validCreate("Write report"))

	var terr *api.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("Expected TransportError, got %v", err)
	}
	if c.store.Len() != 0 {
		t.Errorf("Expected optimistic insert rolled back, got %d tasks", c.store.Len())
	}
}

func TestUpdateUnknownTaskFailsLocally(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestController(backend)

	id, _ := uuid.NewV4()
	title := "New title"
	_, err := c.UpdateTask(context.Background(), id, models.UpdateTaskRequest{Title: title})
	if err == nil {
		t.Fatal("Expected error for unknown id")
	}
	if backend.lastRequest != nil {
		t.Error("Expected no API call for a locally unknown task")
	}
}

func TestSetStatusRollsBackOnFailure(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestController(backend)

	task, err := c.CreateTask(context.Background(), validCreate("Morning run"))
	if err != nil {
		t.Fatalf("Setup create failed: %v", err)
	}

	backend.failWith = &api.TransportError{Op: "PUT status", StatusCode: 500}
	if _, err := c.CompleteTask(context.Background(), task.ID); err == nil {
		t.Fatal("Expected transport error")
	}

	got, err := c.store.Get(task.ID)
	if err != nil {
		t.Fatalf("Task missing after rollback: %v", err)
	}
	if got.Status != models.StatusPending {
		t.Errorf("Expected status rolled back to pending, got %s", got.Status)
	}
}

func TestCompleteTaskUsesServerRepresentation(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestController(backend)

	task, err := c.CreateTask(context.Background(), validCreate("Morning run"))
	if err != nil {
		t.Fatalf("Setup create failed: %v", err)
	}

	updated, err := c.CompleteTask(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if updated.Status != models.StatusCompleted {
		t.Errorf("Expected completed, got %s", updated.Status)
	}

	got, _ := c.store.Get(task.ID)
	if got.Title != "from server" {
		t.Error("Expected local copy replaced wholesale by the server representation")
	}
}

func TestDeleteRollsBackOnFailure(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestController(backend)

	task, err := c.CreateTask(context.Background(), validCreate("Errand"))
	if err != nil {
		t.Fatalf("Setup create failed: %v", err)
	}

	backend.failWith = &api.TransportError{Op: "DELETE", StatusCode: 503}
	if err := c.DeleteTask(context.Background(), task.ID); err == nil {
		t.Fatal("Expected transport error")
	}

	if _, err := c.store.Get(task.ID); err != nil {
		t.Error("Expected task restored after failed delete")
	}
}

func TestDeleteTreatsServerNotFoundAsSuccess(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestController(backend)

	task, err := c.CreateTask(context.Background(), validCreate("Errand"))
	if err != nil {
		t.Fatalf("Setup create failed: %v", err)
	}

	backend.failWith = &api.TransportError{Op: "DELETE", StatusCode: 404}
	if err := c.DeleteTask(context.Background(), task.ID); err != nil {
		t.Fatalf("Expected server 404 swallowed, got %v", err)
	}
	if c.store.Len() != 0 {
		t.Error("Expected task to stay deleted locally")
	}
}

func TestLoadReplacesCollection(t *testing.T) {
	userID, _ := uuid.NewV4()
	seeded := models.SeedTasks(userID, time.Now())
	c := newTestController(&fakeBackend{listTasks: seeded})

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if got := c.store.Len(); got != len(seeded) {
		t.Errorf("Expected %d tasks, got %d", len(seeded), got)
	}
}

func TestSetBucketRejectsUnknown(t *testing.T) {
	c := newTestController(&fakeBackend{})

	if err := c.SetBucket("someday"); err == nil {
		t.Error("Expected validation error for unknown bucket")
	}
	if err := c.SetBucket(models.BucketOverdue); err != nil {
		t.Errorf("Expected overdue accepted, got %v", err)
	}
	if got := c.Params().Bucket; got != models.BucketOverdue {
		t.Errorf("Expected overdue bucket, got %s", got)
	}
}

func TestStatsFallsBackToLocalCompute(t *testing.T) {
	backend := &fakeBackend{stats: models.DashboardStats{CurrentStreak: 4, BestStreak: 9}}
	c := newTestController(backend)

	if _, err := c.Stats(context.Background()); err != nil {
		t.Fatalf("Expected success, got %v", err)
	}

	if _, err := c.CreateTask(context.Background(), validCreate("Stretch")); err != nil {
		t.Fatalf("Setup create failed: %v", err)
	}
	if _, err := c.CompleteTask(context.Background(), c.Tasks()[0].ID); err != nil {
		t.Fatalf("Setup complete failed: %v", err)
	}

	backend.statsErr = &api.TransportError{Op: "GET stats", StatusCode: 503}
	local, err := c.Stats(context.Background())
	if err == nil {
		t.Fatal("Expected the transport error surfaced alongside the fallback")
	}
	if local.TotalTasks != 1 || local.CompletedTasks != 1 {
		t.Errorf("Expected local totals 1/1, got %d/%d", local.TotalTasks, local.CompletedTasks)
	}
	if local.CurrentStreak != 4 || local.BestStreak != 9 {
		t.Errorf("Expected last known streaks 4/9, got %d/%d", local.CurrentStreak, local.BestStreak)
	}
}

func TestToggleThemeAlternates(t *testing.T) {
	c := newTestController(&fakeBackend{})

	if c.Theme() != ThemeLight {
		t.Errorf("Expected light theme initially, got %s", c.Theme())
	}
	if got := c.ToggleTheme(); got != ThemeDark {
		t.Errorf("Expected dark after toggle, got %s", got)
	}
	if got := c.ToggleTheme(); got != ThemeLight {
		t.Errorf("Expected light after second toggle, got %s", got)
	}
}
