package storage

import (
	"context"
	"log/slog"
	"sync"
)

// Ephemeral wraps a Store whose contents must not outlive the process.
// The host calls Shutdown once during its own shutdown sequence.
type Ephemeral struct {
	Store

	logger *slog.Logger
	once   sync.Once
}

// NewEphemeral returns a shutdown handle for store. A nil logger uses
// slog.Default().
func NewEphemeral(store Store, logger *slog.Logger) *Ephemeral {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ephemeral{Store: store, logger: logger}
}

// Shutdown purges all rows and closes the store. Failures are logged and
// never returned. Calls after the first are no-ops.
func (e *Ephemeral) Shutdown(ctx context.Context) {
	e.once.Do(func() {
		if err := e.Store.Purge(ctx); err != nil {
			e.logger.Warn("failed to clear tasks at shutdown", "error", err)
		} else {
			e.logger.Info("cleared all tasks at shutdown")
		}
		if err := e.Store.Close(); err != nil {
			e.logger.Warn("failed to close task store", "error", err)
		}
	})
}
