package repositories

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"task-api/app/models"
	"task-api/app/storage"
)

func newSQLiteRepo(t *testing.T) *StoreRepository {
	t.Helper()
	s, err := storage.OpenSQLite(context.Background(), storage.SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "tasks.db"),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewStoreRepository(s)
}

func TestStoreRepositoryCRUD(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	task, err := repo.Add(ctx, "Write unit tests")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if task != (models.Task{ID: 1, Description: "Write unit tests"}) {
		t.Fatalf("add = %+v", task)
	}

	got, err := repo.Get(ctx, task.ID)
	if err != nil || got != task {
		t.Fatalf("get = %+v, %v; want %+v", got, err, task)
	}

	// Mutating the returned value must not leak into storage.
	got.Description = "changed"
	again, _ := repo.Get(ctx, task.ID)
	if again.Description != "Write unit tests" {
		t.Fatalf("stored description changed to %q", again.Description)
	}

	list, err := repo.List(ctx)
	if err != nil || len(list) != 1 || list[0] != task {
		t.Fatalf("list = %v, %v", list, err)
	}

	if err := repo.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("get after delete: err = %v, want ErrTaskNotFound", err)
	}
	if err := repo.Delete(ctx, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("delete twice: err = %v, want ErrTaskNotFound", err)
	}

	list, err = repo.List(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("list after delete = %v, %v", list, err)
	}
}

type failingStore struct {
	storage.Store
	err error
}

func (f failingStore) Insert(context.Context, string) (storage.Row, error) { return storage.Row{}, f.err }
func (f failingStore) GetByID(context.Context, int64) (storage.Row, error) { return storage.Row{}, f.err }
func (f failingStore) ListAll(context.Context) ([]storage.Row, error)      { return nil, f.err }
func (f failingStore) DeleteByID(context.Context, int64) error             { return f.err }

func TestStoreRepositoryPropagatesStorageErrors(t *testing.T) {
	ioErr := errors.New("disk I/O error")
	repo := NewStoreRepository(failingStore{err: ioErr})
	ctx := context.Background()

	if _, err := repo.Add(ctx, "x"); err != ioErr {
		t.Errorf("add err = %v, want %v", err, ioErr)
	}
	if _, err := repo.Get(ctx, 1); err != ioErr {
		t.Errorf("get err = %v, want %v", err, ioErr)
	}
	if _, err := repo.List(ctx); err != ioErr {
		t.Errorf("list err = %v, want %v", err, ioErr)
	}
	if err := repo.Delete(ctx, 1); err != ioErr {
		t.Errorf("delete err = %v, want %v", err, ioErr)
	}
}

func TestStoreRepositoryTranslatesNotFound(t *testing.T) {
	repo := NewStoreRepository(failingStore{err: storage.ErrNotFound})
	ctx := context.Background()

	if _, err := repo.Get(ctx, 7); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("get err = %v, want ErrTaskNotFound", err)
	}
	if err := repo.Delete(ctx, 7); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("delete err = %v, want ErrTaskNotFound", err)
	}
}
