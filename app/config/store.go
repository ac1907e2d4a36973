package config

import (
	"context"
	"fmt"

	"task-api/app/storage"
)

// OpenStore opens the storage engine selected by cfg.Backend.
func OpenStore(ctx context.Context, cfg Config) (storage.Store, error) {
	switch cfg.Backend {
	case BackendSQLite:
		store, err := storage.OpenSQLite(ctx, cfg.SQLite)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendNeo4j:
		driver, err := InitNeo4j(cfg.Neo4j)
		if err != nil {
			return nil, fmt.Errorf("create neo4j driver: %w", err)
		}
		store, err := storage.NewNeo4jStore(ctx, driver, storage.Neo4jStoreConfig{Database: cfg.Neo4j.Database})
		if err != nil {
			driver.Close(ctx)
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
