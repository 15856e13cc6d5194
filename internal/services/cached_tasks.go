package services

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"planner-app/internal/cache"
	"planner-app/internal/models"
)

const (
	taskItemTTL = 30 * time.Minute
	taskListTTL = 5 * time.Minute
)

// CachedTaskService decorates a TaskService with a multi-level cache. Reads
// go through the cache; every mutation invalidates the item, the list keys
// and the dashboard snapshot.
type CachedTaskService struct {
	taskService TaskService
	cache       *cache.MultiLevelCache
}

func NewCachedTaskService(taskService TaskService, cacheInstance *cache.MultiLevelCache) *CachedTaskService {
	return &CachedTaskService{
		taskService: taskService,
		cache:       cacheInstance,
	}
}

func taskItemKey(id uuid.UUID) string {
	return fmt.Sprintf("tasks:item:%s", id.String())
}

func taskListKey(params models.ListTasksParams) string {
	return fmt.Sprintf("tasks:list:%d:%d:%s:%s:%s:%s:%s",
		params.Page, params.Limit, params.Status, params.Category,
		params.Search, params.SortBy, params.SortOrder)
}

func (s *CachedTaskService) CreateTask(db *gorm.DB, task *models.Task) error {
	if err := s.taskService.CreateTask(db, task); err != nil {
		return err
	}

	s.cache.Set(taskItemKey(task.ID), *task, taskItemTTL)
	s.invalidateDerived()
	return nil
}

func (s *CachedTaskService) GetTaskByID(db *gorm.DB, id uuid.UUID) (models.Task, error) {
	var cached models.Task
	if err := s.cache.Get(taskItemKey(id), &cached); err == nil {
		return cached, nil
	}

	task, err := s.taskService.GetTaskByID(db, id)
	if err != nil {
		return task, err
	}

	s.cache.Set(taskItemKey(id), task, taskItemTTL)
	return task, nil
}

type cachedList struct {
	Tasks []models.Task `json:"tasks"`
	Total int64         `json:"total"`
}

func (s *CachedTaskService) ListTasks(db *gorm.DB, params models.ListTasksParams) ([]models.Task, int64, error) {
	key := taskListKey(params)

	var cached cachedList
	if err := s.cache.Get(key, &cached); err == nil {
		return cached.Tasks, cached.Total, nil
	}

	tasks, total, err := s.taskService.ListTasks(db, params)
	if err != nil {
		return tasks, total, err
	}

	s.cache.Set(key, cachedList{Tasks: tasks, Total: total}, taskListTTL)
	return tasks, total, nil
}

func (s *CachedTaskService) UpdateTask(db *gorm.DB, id uuid.UUID, req models.UpdateTaskRequest) (models.Task, error) {
	task, err := s.taskService.UpdateTask(db, id, req)
	if err != nil {
		return task, err
	}

	s.cache.Set(taskItemKey(id), task, taskItemTTL)
	s.invalidateDerived()
	return task, nil
}

func (s *CachedTaskService) UpdateTaskStatus(db *gorm.DB, id uuid.UUID, status models.Status) (models.Task, error) {
	task, err := s.taskService.UpdateTaskStatus(db, id, status)
	if err != nil {
		return task, err
	}

	s.cache.Set(taskItemKey(id), task, taskItemTTL)
	s.invalidateDerived()
	return task, nil
}

func (s *CachedTaskService) DeleteTask(db *gorm.DB, id uuid.UUID) error {
	if err := s.taskService.DeleteTask(db, id); err != nil {
		return err
	}

	s.cache.Delete(taskItemKey(id))
	s.invalidateDerived()
	return nil
}

func (s *CachedTaskService) GetCacheStats() map[string]interface{} {
	return s.cache.Stats()
}

func (s *CachedTaskService) invalidateDerived() {
	s.cache.DeletePattern("tasks:list:*")
	s.cache.Delete(statsDashboardKey)
}
