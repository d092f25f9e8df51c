package database

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type Neo4jDatabase struct {
	Driver neo4j.DriverWithContext
}

func NewNeo4jDatabase(ctx context.Context, uri, username, password string) (*Neo4jDatabase, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("could not create neo4j driver: %w", err)
	}

	// Verificar conexión
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify connection: %w", err)
	}

	return &Neo4jDatabase{Driver: driver}, nil
}

func (db *Neo4jDatabase) Close(ctx context.Context) error {
	return db.Driver.Close(ctx)
}

// ExecuteCypherFile runs every statement of a .cypher file, each in its own
// write transaction since schema and data changes cannot share one.
func (db *Neo4jDatabase) ExecuteCypherFile(ctx context.Context, filePath string) error {
	cypher, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("error reading cypher file: %w", err)
	}

	session := db.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for i, stmt := range SplitStatements(string(cypher)) {
		_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, stmt, nil)
			return nil, err
		})
		if err != nil {
			return fmt.Errorf("statement %d of %s: %w", i+1, filePath, err)
		}
	}
	return nil
}

// SplitStatements breaks a cypher script on ';' and drops "//" comment lines.
func SplitStatements(script string) []string {
	var lines []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		lines = append(lines, line)
	}

	var statements []string
	for _, stmt := range strings.Split(strings.Join(lines, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
