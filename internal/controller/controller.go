// Package controller owns the page-level application state: the task
// collection, the active query, and UI chrome state. Mutations are applied
// optimistically to the local store, submitted to the backing API, then
// either reconciled with the server's representation or rolled back.
package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"

	"planner-app/internal/api"
	"planner-app/internal/models"
	"planner-app/internal/query"
	"planner-app/internal/stats"
	"planner-app/internal/store"
)

// Backend is the slice of the API client the controller needs. *api.Client
// satisfies it.
type Backend interface {
	ListTasks(ctx context.Context, params models.ListTasksParams) ([]models.Task, models.Pagination, error)
	CreateTask(ctx context.Context, req models.CreateTaskRequest) (models.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, req models.UpdateTaskRequest) (models.Task, error)
	UpdateTaskStatus(ctx context.Context, id uuid.UUID, status models.Status) (models.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	DashboardStats(ctx context.Context) (models.DashboardStats, error)
}

// ValidationError rejects bad input before it reaches the store or the wire.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type Controller struct {
	backend Backend
	store   *store.TaskStore
	log     zerolog.Logger
	now     func() time.Time

	mu        sync.Mutex
	params    models.QueryParams
	theme     Theme
	formOpen  bool
	editingID *uuid.UUID
	lastStats models.DashboardStats
}

func New(backend Backend, userID uuid.UUID, logger zerolog.Logger) *Controller {
	return &Controller{
		backend: backend,
		store:   store.NewTaskStore(userID),
		log:     logger.With().Str("component", "controller").Logger(),
		now:     time.Now,
		params:  models.DefaultQueryParams(),
		theme:   ThemeLight,
	}
}

// Load replaces the collection from the backing API.
func (c *Controller) Load(ctx context.Context) error {
	tasks, _, err := c.backend.ListTasks(ctx, models.ListTasksParams{Limit: 500})
	if err != nil {
		return err
	}
	c.store.ReplaceAll(tasks)
	c.log.Info().Int("count", len(tasks)).Msg("collection loaded")
	return nil
}

// View recomputes the visible list, groups and filter counts from the
// current collection and query settings.
func (c *Controller) View() query.Result {
	c.mu.Lock()
	params := c.params
	c.mu.Unlock()
	return query.Apply(c.store.Tasks(), params, c.now())
}

func (c *Controller) Params() models.QueryParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

func (c *Controller) SetSearchText(text string) {
	c.mu.Lock()
	c.params.SearchText = text
	c.mu.Unlock()
}

func (c *Controller) SetCategory(category models.Category) error {
	if category != models.CategoryAll && !category.Valid() {
		return &ValidationError{Field: "category", Reason: "unknown category"}
	}
	c.mu.Lock()
	c.params.Category = category
	c.mu.Unlock()
	return nil
}

func (c *Controller) SetBucket(bucket models.FilterBucket) error {
	if !bucket.Valid() {
		return &ValidationError{Field: "filter", Reason: "unknown filter bucket"}
	}
	c.mu.Lock()
	c.params.Bucket = bucket
	c.mu.Unlock()
	return nil
}

func (c *Controller) SetSortKey(key models.SortKey) error {
	if !key.Valid() {
		return &ValidationError{Field: "sort", Reason: "unknown sort key"}
	}
	c.mu.Lock()
	c.params.SortKey = key
	c.mu.Unlock()
	return nil
}

// CreateTask validates the form payload, inserts an optimistic task, submits
// it, and swaps the optimistic copy for the server's representation. On
// transport failure the optimistic insert is rolled back.
func (c *Controller) CreateTask(ctx context.Context, req models.CreateTaskRequest) (models.Task, error) {
	if err := validateCreate(req); err != nil {
		return models.Task{}, err
	}

	snapshot := c.store.Snapshot()
	local, err := c.store.Create(req)
	if err != nil {
		return models.Task{}, err
	}

	created, err := c.backend.CreateTask(ctx, req)
	if err != nil {
		c.store.Restore(snapshot)
		c.log.Warn().Err(err).Msg("create rolled back")
		return models.Task{}, err
	}

	// The server assigned the real id; drop the optimistic placeholder.
	c.store.Delete(local.ID)
	c.store.Reconcile(created)
	return created, nil
}

// UpdateTask patches a task optimistically and reconciles with the server
// copy. A locally unknown id fails with store.ErrTaskNotFound before any
// call is made.
func (c *Controller) UpdateTask(ctx context.Context, id uuid.UUID, req models.UpdateTaskRequest) (models.Task, error) {
	if err := validateUpdate(req); err != nil {
		return models.Task{}, err
	}

	snapshot := c.store.Snapshot()
	if _, err := c.store.Update(id, patchFromRequest(req)); err != nil {
		return models.Task{}, err
	}

	updated, err := c.backend.UpdateTask(ctx, id, req)
	if err != nil {
		c.store.Restore(snapshot)
		c.log.Warn().Err(err).Str("task_id", id.String()).Msg("update rolled back")
		return models.Task{}, err
	}

	c.store.Reconcile(updated)
	return updated, nil
}

// SetStatus moves a task to the given status through the dedicated status
// endpoint. CompleteTask is the common case.
func (c *Controller) SetStatus(ctx context.Context, id uuid.UUID, status models.Status) (models.Task, error) {
	if !status.Valid() {
		return models.Task{}, &ValidationError{Field: "status", Reason: "unknown status"}
	}

	snapshot := c.store.Snapshot()
	if _, err := c.store.SetStatus(id, status); err != nil {
		return models.Task{}, err
	}

	updated, err := c.backend.UpdateTaskStatus(ctx, id, status)
	if err != nil {
		c.store.Restore(snapshot)
		c.log.Warn().Err(err).Str("task_id", id.String()).Msg("status change rolled back")
		return models.Task{}, err
	}

	c.store.Reconcile(updated)
	return updated, nil
}

func (c *Controller) CompleteTask(ctx context.Context, id uuid.UUID) (models.Task, error) {
	return c.SetStatus(ctx, id, models.StatusCompleted)
}

// DeleteTask removes a task locally and remotely. A server-side 404 is
// treated as success: the task is gone either way.
func (c *Controller) DeleteTask(ctx context.Context, id uuid.UUID) error {
	snapshot := c.store.Snapshot()
	c.store.Delete(id)

	if err := c.backend.DeleteTask(ctx, id); err != nil {
		if api.IsNotFound(err) {
			return nil
		}
		c.store.Restore(snapshot)
		c.log.Warn().Err(err).Str("task_id", id.String()).Msg("delete rolled back")
		return err
	}
	return nil
}

// Stats fetches the dashboard summary. When the stats endpoint is down the
// totals are recomputed locally and the last known streak values are kept,
// since the streak cannot be derived from the collection alone.
func (c *Controller) Stats(ctx context.Context) (models.DashboardStats, error) {
	remote, err := c.backend.DashboardStats(ctx)
	if err == nil {
		c.mu.Lock()
		c.lastStats = remote
		c.mu.Unlock()
		return remote, nil
	}

	c.log.Warn().Err(err).Msg("stats endpoint unavailable, computing locally")

	local := stats.Compute(c.store.Tasks(), c.now())
	c.mu.Lock()
	local.CurrentStreak = c.lastStats.CurrentStreak
	local.BestStreak = c.lastStats.BestStreak
	c.mu.Unlock()
	return local, err
}

func (c *Controller) Tasks() []models.Task {
	return c.store.Tasks()
}

func (c *Controller) OpenForm(editing *uuid.UUID) {
	c.mu.Lock()
	c.formOpen = true
	c.editingID = editing
	c.mu.Unlock()
}

func (c *Controller) CloseForm() {
	c.mu.Lock()
	c.formOpen = false
	c.editingID = nil
	c.mu.Unlock()
}

func (c *Controller) FormState() (open bool, editing *uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.formOpen, c.editingID
}

func (c *Controller) ToggleTheme() Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.theme == ThemeDark {
		c.theme = ThemeLight
	} else {
		c.theme = ThemeDark
	}
	return c.theme
}

func (c *Controller) Theme() Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme
}

func validateCreate(req models.CreateTaskRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be blank"}
	}
	if req.DueDate.IsZero() {
		return &ValidationError{Field: "due_date", Reason: "must be set"}
	}
	if req.Category != "" && !req.Category.Valid() {
		return &ValidationError{Field: "category", Reason: "unknown category"}
	}
	if req.Status != "" && !req.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown status"}
	}
	if req.EstimatedMinutes < 0 {
		return &ValidationError{Field: "estimated_minutes", Reason: "must be positive"}
	}
	return nil
}

func validateUpdate(req models.UpdateTaskRequest) error {
	if req.Title != "" && strings.TrimSpace(req.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be blank"}
	}
	if req.Category != "" && !req.Category.Valid() {
		return &ValidationError{Field: "category", Reason: "unknown category"}
	}
	if req.Status != "" && !req.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown status"}
	}
	return nil
}

func patchFromRequest(req models.UpdateTaskRequest) store.TaskPatch {
	patch := store.TaskPatch{
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Title != "" {
		title := req.Title
		patch.Title = &title
	}
	if req.Category != "" {
		category := req.Category
		patch.Category = &category
	}
	if req.Status != "" {
		status := req.Status
		patch.Status = &status
	}
	if req.EstimatedMinutes != 0 {
		minutes := req.EstimatedMinutes
		patch.EstimatedMinutes = &minutes
	}
	if req.Difficulty != 0 {
		difficulty := req.Difficulty
		patch.Difficulty = &difficulty
	}
	return patch
}
