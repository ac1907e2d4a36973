package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultSQLitePath is where the task file lives unless configured otherwise.
const DefaultSQLitePath = "./tasks.db"

const schema = `CREATE TABLE IF NOT EXISTS tasks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	description TEXT    NOT NULL
)`

// SQLiteConfig configures the file-backed engine.
type SQLiteConfig struct {
	Path         string
	MaxOpenConns int
	BusyTimeout  time.Duration
}

func (c SQLiteConfig) withDefaults() SQLiteConfig {
	if c.Path == "" {
		c.Path = DefaultSQLitePath
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 4
	}
	if c.BusyTimeout <= 0 {
		c.BusyTimeout = 5 * time.Second
	}
	return c
}

func (c SQLiteConfig) dsn() string {
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		c.Path, c.BusyTimeout.Milliseconds())
}

// SQLiteStore keeps tasks in a single SQLite file shared by all callers.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens or creates the database file and ensures the tasks table
// exists. It is safe to call against a file that already has the table.
func OpenSQLite(ctx context.Context, cfg SQLiteConfig) (*SQLiteStore, error) {
	cfg = cfg.withDefaults()

	db, err := sql.Open("sqlite", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", cfg.Path, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", cfg.Path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tasks table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// withSession runs fn inside its own transaction. The transaction is rolled
// back on every path that does not reach Commit.
func (s *SQLiteStore) withSession(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

// Insert stores a new row and returns it with its assigned id.
func (s *SQLiteStore) Insert(ctx context.Context, description string) (Row, error) {
	var row Row
	err := s.withSession(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO tasks (description) VALUES (?)`, description)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		row = Row{ID: id, Description: description}
		return nil
	})
	if err != nil {
		return Row{}, err
	}
	return row, nil
}

// GetByID returns the row with the given id or ErrNotFound.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (Row, error) {
	var row Row
	err := s.withSession(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT id, description FROM tasks WHERE id = ?`, id).
			Scan(&row.ID, &row.Description)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get task %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return Row{}, err
	}
	return row, nil
}

// ListAll returns every stored row in insertion order.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]Row, error) {
	rows := []Row{}
	err := s.withSession(ctx, func(tx *sql.Tx) error {
		res, err := tx.QueryContext(ctx, `SELECT id, description FROM tasks ORDER BY id`)
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		defer res.Close()

		for res.Next() {
			var row Row
			if err := res.Scan(&row.ID, &row.Description); err != nil {
				return fmt.Errorf("scan task: %w", err)
			}
			rows = append(rows, row)
		}
		if err := res.Err(); err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteByID removes the row with the given id or returns ErrNotFound.
func (s *SQLiteStore) DeleteByID(ctx context.Context, id int64) error {
	return s.withSession(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete task %d: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete task %d: %w", id, err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Purge deletes all rows and resets the id sequence so the next run starts
// from 1 again.
func (s *SQLiteStore) Purge(ctx context.Context) error {
	return s.withSession(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
			return fmt.Errorf("purge tasks: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = 'tasks'`); err != nil {
			return fmt.Errorf("reset task sequence: %w", err)
		}
		return nil
	})
}

// Close releases the connection pool.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
