package repositories

import (
	"context"
	"errors"

	"task-api/app/models"
)

// ErrTaskNotFound is returned by Get and Delete when the id does not exist.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository describes task persistence.
type TaskRepository interface {
	Add(ctx context.Context, description string) (models.Task, error)
	Get(ctx context.Context, id int64) (models.Task, error)
	List(ctx context.Context) ([]models.Task, error)
	Delete(ctx context.Context, id int64) error
}
