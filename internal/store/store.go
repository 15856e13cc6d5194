// Package store holds the client's in-memory view of server state: an
// ordered task collection mutated optimistically and reconciled against
// authoritative server responses.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/gofrs/uuid"

	"planner-app/internal/models"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskStore owns the collection. All mutations go through its methods; the
// mutex keeps the one-mutation-at-a-time guarantee when callers live on
// different goroutines.
type TaskStore struct {
	mu     sync.Mutex
	tasks  []models.Task
	userID uuid.UUID
	now    func() time.Time
}

func NewTaskStore(userID uuid.UUID) *TaskStore {
	return &TaskStore{
		userID: userID,
		now:    time.Now,
	}
}

// TaskPatch is a partial update; nil fields are left unchanged.
type TaskPatch struct {
	Title            *string
	Description      *string
	Category         *models.Category
	Status           *models.Status
	DueDate          *time.Time
	EstimatedMinutes *int
	Difficulty       *int
}

// Tasks returns a copy of the collection in display order.
func (s *TaskStore) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *TaskStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Get returns the task with the given id.
func (s *TaskStore) Get(id uuid.UUID) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return models.Task{}, ErrTaskNotFound
	}
	return s.tasks[idx], nil
}

// Create builds a task from the request, assigns a fresh id and timestamps,
// and prepends it so new tasks surface first.
func (s *TaskStore) Create(req models.CreateTaskRequest) (models.Task, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	task := models.Task{
		ID:               id,
		UserID:           s.userID,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Status:           req.Status,
		DueDate:          req.DueDate,
		EstimatedMinutes: req.EstimatedMinutes,
		Difficulty:       req.Difficulty,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Category == "" {
		task.Category = models.CategoryOther
	}

	s.tasks = append([]models.Task{task}, s.tasks...)
	return task, nil
}

// Update applies a patch to the task with the given id, bumping UpdatedAt
// and leaving CreatedAt untouched.
func (s *TaskStore) Update(id uuid.UUID, patch TaskPatch) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Task{}, ErrTaskNotFound
	}

	task := &s.tasks[idx]
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Category != nil {
		task.Category = *patch.Category
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.DueDate != nil {
		task.DueDate = *patch.DueDate
	}
	if patch.EstimatedMinutes != nil {
		task.EstimatedMinutes = *patch.EstimatedMinutes
	}
	if patch.Difficulty != nil {
		task.Difficulty = *patch.Difficulty
	}
	task.UpdatedAt = s.now()

	return *task, nil
}

// SetStatus moves the task to the given status. Any status is reachable from
// any other; there is no transition machine.
func (s *TaskStore) SetStatus(id uuid.UUID, status models.Status) (models.Task, error) {
	return s.Update(id, TaskPatch{Status: &status})
}

// Delete removes the task with the given id. Deleting an absent id is a
// no-op so deletes are idempotent.
func (s *TaskStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
}

// ReplaceAll swaps the whole collection, e.g. after a bulk load.
func (s *TaskStore) ReplaceAll(tasks []models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make([]models.Task, len(tasks))
	copy(s.tasks, tasks)
}

// Reconcile replaces the local copy of a task wholesale with the server's
// authoritative representation. An unknown id is inserted at the front,
// covering creates confirmed after a concurrent refresh dropped them.
func (s *TaskStore) Reconcile(task models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(task.ID)
	if idx < 0 {
		s.tasks = append([]models.Task{task}, s.tasks...)
		return
	}
	s.tasks[idx] = task
}

// Snapshot captures the collection for rollback of an optimistic mutation.
func (s *TaskStore) Snapshot() []models.Task {
	return s.Tasks()
}

// Restore rolls the collection back to a snapshot.
func (s *TaskStore) Restore(snapshot []models.Task) {
	s.ReplaceAll(snapshot)
}

func (s *TaskStore) indexOf(id uuid.UUID) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
