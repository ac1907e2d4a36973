package repositories

import (
	"context"
	"errors"
	"fmt"

	"task-api/app/models"
	"task-api/app/storage"
)

// StoreRepository adapts a storage.Store to TaskRepository.
type StoreRepository struct {
	store storage.Store
}

var _ TaskRepository = (*StoreRepository)(nil)

// NewStoreRepository creates a repository backed by store.
func NewStoreRepository(store storage.Store) *StoreRepository {
	return &StoreRepository{store: store}
}

// Add persists a new task.
func (r *StoreRepository) Add(ctx context.Context, description string) (models.Task, error) {
	row, err := r.store.Insert(ctx, description)
	if err != nil {
		return models.Task{}, err
	}
	return toTask(row), nil
}

// Get retrieves a task by id.
func (r *StoreRepository) Get(ctx context.Context, id int64) (models.Task, error) {
	row, err := r.store.GetByID(ctx, id)
	if err != nil {
		return models.Task{}, notFound(id, err)
	}
	return toTask(row), nil
}

// List returns all tasks.
func (r *StoreRepository) List(ctx context.Context) ([]models.Task, error) {
	rows, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	tasks := make([]models.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, toTask(row))
	}
	return tasks, nil
}

// Delete removes a task by id.
func (r *StoreRepository) Delete(ctx context.Context, id int64) error {
	return notFound(id, r.store.DeleteByID(ctx, id))
}

func toTask(row storage.Row) models.Task {
	return models.Task{ID: row.ID, Description: row.Description}
}

// notFound re-signals storage.ErrNotFound as ErrTaskNotFound and leaves any
// other error untouched.
func notFound(id int64, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("task with id %d: %w", id, ErrTaskNotFound)
	}
	return err
}
