package config

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jConfig holds connection settings for the neo4j backend.
type Neo4jConfig struct {
	URI      string
	User     string
	Password string
	Database string
}

// InitNeo4j initializes the Neo4j driver and returns it.
func InitNeo4j(cfg Neo4jConfig) (neo4j.DriverWithContext, error) {
	return neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
}
