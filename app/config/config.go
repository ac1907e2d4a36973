package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"task-api/app/storage"

	"github.com/urfave/cli"
)

// Supported storage backends.
const (
	BackendSQLite = "sqlite"
	BackendNeo4j  = "neo4j"
)

// Config holds everything the host process needs to start.
type Config struct {
	Addr            string
	Backend         string
	SQLite          storage.SQLiteConfig
	Neo4j           Neo4jConfig
	ShutdownTimeout time.Duration
	LogLevel        slog.Level
}

// Flags returns the command-line flags understood by FromContext.
func Flags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{Name: "addr", Value: ":8000", Usage: "HTTP listen address", EnvVar: "TASKS_ADDR"},
		cli.StringFlag{Name: "backend", Value: BackendSQLite, Usage: "storage backend (sqlite or neo4j)", EnvVar: "TASKS_BACKEND"},
		cli.StringFlag{Name: "db-path", Value: storage.DefaultSQLitePath, Usage: "SQLite database file", EnvVar: "TASKS_DB_PATH"},
		cli.IntFlag{Name: "db-max-conns", Value: 4, Usage: "maximum open SQLite connections", EnvVar: "TASKS_DB_MAX_CONNS"},
		cli.DurationFlag{Name: "db-busy-timeout", Value: 5 * time.Second, Usage: "SQLite busy timeout", EnvVar: "TASKS_DB_BUSY_TIMEOUT"},
		cli.StringFlag{Name: "neo4j-uri", Value: "neo4j://localhost:7687", Usage: "Neo4j connection URI", EnvVar: "TASKS_NEO4J_URI"},
		cli.StringFlag{Name: "neo4j-user", Value: "neo4j", Usage: "Neo4j user", EnvVar: "TASKS_NEO4J_USER"},
		cli.StringFlag{Name: "neo4j-password", Value: "password", Usage: "Neo4j password", EnvVar: "TASKS_NEO4J_PASSWORD"},
		cli.StringFlag{Name: "neo4j-database", Usage: "Neo4j database name", EnvVar: "TASKS_NEO4J_DATABASE"},
		cli.DurationFlag{Name: "shutdown-timeout", Value: 10 * time.Second, Usage: "graceful shutdown timeout", EnvVar: "TASKS_SHUTDOWN_TIMEOUT"},
		cli.StringFlag{Name: "log-level", Value: "info", Usage: "log level (debug, info, warn, error)", EnvVar: "TASKS_LOG_LEVEL"},
	}
}

// FromContext builds and validates a Config from parsed flags.
func FromContext(c *cli.Context) (Config, error) {
	cfg := Config{
		Addr:    c.String("addr"),
		Backend: c.String("backend"),
		SQLite: storage.SQLiteConfig{
			Path:         c.String("db-path"),
			MaxOpenConns: c.Int("db-max-conns"),
			BusyTimeout:  c.Duration("db-busy-timeout"),
		},
		Neo4j: Neo4jConfig{
			URI:      c.String("neo4j-uri"),
			User:     c.String("neo4j-user"),
			Password: c.String("neo4j-password"),
			Database: c.String("neo4j-database"),
		},
		ShutdownTimeout: c.Duration("shutdown-timeout"),
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(c.String("log-level"))); err != nil {
		return Config{}, fmt.Errorf("log-level: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	switch c.Backend {
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return errors.New("db-path must not be empty")
		}
		if c.SQLite.MaxOpenConns <= 0 {
			return fmt.Errorf("db-max-conns must be positive, got %d", c.SQLite.MaxOpenConns)
		}
		if c.SQLite.BusyTimeout <= 0 {
			return fmt.Errorf("db-busy-timeout must be positive, got %s", c.SQLite.BusyTimeout)
		}
	case BackendNeo4j:
		if c.Neo4j.URI == "" {
			return errors.New("neo4j-uri must not be empty")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown-timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}
