package storage

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

type countingStore struct {
	Store
	purges   int
	closes   int
	purgeErr error
}

func (c *countingStore) Purge(ctx context.Context) error {
	c.purges++
	return c.purgeErr
}

func (c *countingStore) Close() error {
	c.closes++
	return nil
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestEphemeralShutdownRunsOnce(t *testing.T) {
	store := &countingStore{}
	logger, buf := bufferLogger()
	e := NewEphemeral(store, logger)

	e.Shutdown(context.Background())
	e.Shutdown(context.Background())

	if store.purges != 1 || store.closes != 1 {
		t.Fatalf("purges=%d closes=%d, want 1 and 1", store.purges, store.closes)
	}
	if !strings.Contains(buf.String(), "cleared all tasks at shutdown") {
		t.Fatalf("missing success log, got %q", buf.String())
	}
}

func TestEphemeralShutdownLogsPurgeFailure(t *testing.T) {
	store := &countingStore{purgeErr: errors.New("disk gone")}
	logger, buf := bufferLogger()

	NewEphemeral(store, logger).Shutdown(context.Background())

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "disk gone") {
		t.Fatalf("purge failure not logged as warning: %q", out)
	}
	if store.closes != 1 {
		t.Fatalf("store not closed after failed purge")
	}
}

func TestEphemeralShutdownClearsSQLite(t *testing.T) {
	s, path := openTestStore(t)
	ctx := context.Background()

	e := NewEphemeral(s, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	if _, err := e.Insert(ctx, "temp"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	e.Shutdown(ctx)

	reopened, err := OpenSQLite(ctx, SQLiteConfig{Path: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	rows, err := reopened.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows after shutdown = %v, want none", rows)
	}
}

func TestEphemeralShutdownOnClosedStoreDoesNotPanic(t *testing.T) {
	s, _ := openTestStore(t)
	s.Close()
	logger, buf := bufferLogger()

	NewEphemeral(s, logger).Shutdown(context.Background())

	if !strings.Contains(buf.String(), "failed to clear tasks at shutdown") {
		t.Fatalf("expected purge failure log, got %q", buf.String())
	}
}
