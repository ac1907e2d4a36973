// Package storage owns the single-table task store: its schema, per-call
// session lifecycle and the shutdown purge that keeps runs ephemeral.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no row exists for the requested id.
var ErrNotFound = errors.New("storage: row not found")

// Row is the stored representation of a task.
type Row struct {
	ID          int64
	Description string
}

// Store is implemented by every storage engine. Each call runs in its own
// session that is released before the call returns.
type Store interface {
	Insert(ctx context.Context, description string) (Row, error)
	GetByID(ctx context.Context, id int64) (Row, error)
	ListAll(ctx context.Context) ([]Row, error)
	DeleteByID(ctx context.Context, id int64) error
	// Purge removes every row in a single committed operation.
	Purge(ctx context.Context) error
	Close() error
}
