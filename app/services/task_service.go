package services

import (
	"context"

	"task-api/app/models"
	"task-api/app/repositories"
)

// TaskService is the pass-through layer between the HTTP handlers and a
// repositories.TaskRepository. It adds no behavior of its own.
type TaskService struct {
	repo repositories.TaskRepository
}

// NewTaskService wraps repo.
func NewTaskService(repo repositories.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// CreateTask adds a new task.
func (s *TaskService) CreateTask(ctx context.Context, description string) (models.Task, error) {
	return s.repo.Add(ctx, description)
}

// GetTask retrieves a single task by its ID.
func (s *TaskService) GetTask(ctx context.Context, id int64) (models.Task, error) {
	return s.repo.Get(ctx, id)
}

// ListTasks retrieves all tasks.
func (s *TaskService) ListTasks(ctx context.Context) ([]models.Task, error) {
	return s.repo.List(ctx)
}

// DeleteTask deletes a task.
func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
