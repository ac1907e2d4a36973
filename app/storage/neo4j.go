package storage

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jStoreConfig configures the graph-backed engine.
type Neo4jStoreConfig struct {
	// Database selects the target database; empty means the server default.
	Database string
}

// Neo4jStore keeps tasks as (:Task) nodes. Integer ids come from a
// (:TaskSequence) counter node bumped in the same transaction as the CREATE.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
}

var _ Store = (*Neo4jStore)(nil)

// constraints must exist before the first Insert. The counter MERGE only
// stays single-node under concurrent first inserts when TaskSequence.name
// is unique.
var constraints = []string{
	"CREATE CONSTRAINT task_id_unique IF NOT EXISTS FOR (t:Task) REQUIRE t.id IS UNIQUE",
	"CREATE CONSTRAINT task_sequence_name_unique IF NOT EXISTS FOR (s:TaskSequence) REQUIRE s.name IS UNIQUE",
}

// NewNeo4jStore verifies the driver can reach the server and ensures the
// uniqueness constraints on task ids and the id counter exist.
func NewNeo4jStore(ctx context.Context, driver neo4j.DriverWithContext, cfg Neo4jStoreConfig) (*Neo4jStore, error) {
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}
	s := &Neo4jStore{driver: driver, database: cfg.Database}

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	for _, stmt := range constraints {
		res, err := session.Run(ctx, stmt, nil)
		if err != nil {
			return nil, fmt.Errorf("create constraint: %w", err)
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, fmt.Errorf("create constraint: %w", err)
		}
	}
	return s, nil
}

func (s *Neo4jStore) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: s.database})
}

// Insert creates a task node with the next sequence id.
func (s *Neo4jStore) Insert(ctx context.Context, description string) (Row, error) {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MERGE (seq:TaskSequence {name: 'tasks'}) "+
				"ON CREATE SET seq.next = 0 "+
				"SET seq.next = seq.next + 1 "+
				"WITH seq.next AS id "+
				"CREATE (t:Task {id: id, description: $description}) "+
				"RETURN t.id AS id, t.description AS description",
			map[string]any{"description": description},
		)
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		return rowFromRecord(record)
	})
	if err != nil {
		return Row{}, fmt.Errorf("insert task: %w", err)
	}
	return result.(Row), nil
}

// GetByID returns the task node with the given id or ErrNotFound.
func (s *Neo4jStore) GetByID(ctx context.Context, id int64) (Row, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Task {id: $id}) RETURN t.id AS id, t.description AS description",
			map[string]any{"id": id},
		)
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return nil, nil
		}
		return rowFromRecord(res.Record())
	})
	if err != nil {
		return Row{}, fmt.Errorf("get task %d: %w", id, err)
	}
	if result == nil {
		return Row{}, ErrNotFound
	}
	return result.(Row), nil
}

// ListAll returns every task node ordered by id.
func (s *Neo4jStore) ListAll(ctx context.Context) ([]Row, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Task) RETURN t.id AS id, t.description AS description ORDER BY t.id",
			nil,
		)
		if err != nil {
			return nil, err
		}

		rows := []Row{}
		for res.Next(ctx) {
			row, err := rowFromRecord(res.Record())
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return rows, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return result.([]Row), nil
}

// DeleteByID removes the task node or returns ErrNotFound.
func (s *Neo4jStore) DeleteByID(ctx context.Context, id int64) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	deleted, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Task {id: $id}) DETACH DELETE t",
			map[string]any{"id": id},
		)
		if err != nil {
			return nil, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return nil, err
		}
		return summary.Counters().NodesDeleted(), nil
	})
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if deleted.(int) == 0 {
		return ErrNotFound
	}
	return nil
}

// Purge removes every task node and the id counter in one transaction.
func (s *Neo4jStore) Purge(ctx context.Context) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, "MATCH (t:Task) DETACH DELETE t", nil); err != nil {
			return nil, err
		}
		_, err := tx.Run(ctx, "MATCH (seq:TaskSequence {name: 'tasks'}) DELETE seq", nil)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("purge tasks: %w", err)
	}
	return nil
}

// Close closes the underlying driver.
func (s *Neo4jStore) Close() error {
	return s.driver.Close(context.Background())
}

func rowFromRecord(record *neo4j.Record) (Row, error) {
	id, _, err := neo4j.GetRecordValue[int64](record, "id")
	if err != nil {
		return Row{}, err
	}
	description, _, err := neo4j.GetRecordValue[string](record, "description")
	if err != nil {
		return Row{}, err
	}
	return Row{ID: id, Description: description}, nil
}
