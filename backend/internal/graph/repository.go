package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	apperrors "sweepgraph/backend/pkg/errors"
	"sweepgraph/backend/pkg/logger"
	"go.uber.org/zap"
)

// Repository handles all Neo4j database operations
type Repository struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *zap.Logger
}

// Connect creates the pooled Neo4j driver and verifies the store is reachable.
// The caller owns the driver and must close it (directly or via Repository.Close).
func Connect(ctx context.Context, uri, user, password string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, apperrors.NewGraphConnectionFailed(uri, err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, apperrors.NewGraphConnectionFailed(uri, err)
	}

	return driver, nil
}

// NewRepository creates a new graph repository. An empty database name
// selects the server default.
func NewRepository(driver neo4j.DriverWithContext, database string) *Repository {
	return &Repository{
		driver:   driver,
		database: database,
		logger:   logger.Get(),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

// run executes a single query in its own session and buffers every record.
// The session is released on all exit paths.
func (r *Repository) run(ctx context.Context, mode neo4j.AccessMode, query string, params map[string]interface{}) ([]*neo4j.Record, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: r.database,
	})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}

	records, err := result.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect records: %w", err)
	}
	return records, nil
}

// runSerialized is run followed by SerializeRecord on every row.
func (r *Repository) runSerialized(ctx context.Context, mode neo4j.AccessMode, query string, params map[string]interface{}) ([]*Record, error) {
	records, err := r.run(ctx, mode, query, params)
	if err != nil {
		return nil, err
	}

	rows := make([]*Record, 0, len(records))
	for _, rec := range records {
		rows = append(rows, SerializeRecord(rec))
	}
	return rows, nil
}
