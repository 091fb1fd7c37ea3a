package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// IDIndexStatement builds the CREATE INDEX statement backing id lookups for one
// label. The index name keeps the label's exact spelling: labels are case
// sensitive, so Person and person each get their own index, and repeated runs
// are no-ops.
func IDIndexStatement(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		label = DefaultLabel
	}
	name := "id_" + label
	return fmt.Sprintf("CREATE INDEX %s IF NOT EXISTS FOR (n:%s) ON (n.id)", QuoteIdentifier(name), QuoteIdentifier(label))
}

// EnsureIDIndexes creates an id index for every label. Failures are logged and
// skipped; an index only speeds up MERGE lookups and is never required.
func (r *Repository) EnsureIDIndexes(ctx context.Context, labels []string) int {
	created := 0
	for _, label := range labels {
		stmt := IDIndexStatement(label)
		if _, err := r.run(ctx, neo4j.AccessModeWrite, stmt, nil); err != nil {
			r.logger.Warn("Failed to create index (may already exist)", zap.String("index", stmt), zap.Error(err))
			continue
		}
		created++
	}
	return created
}
