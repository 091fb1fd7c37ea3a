package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	apperrors "sweepgraph/backend/pkg/errors"
)

// ============================================================================
// Import Operations
// ============================================================================

// UpsertNode merges a node keyed on its label set and its id property, then
// merges props onto it. Properties absent from props are left untouched.
// Returns the number of nodes the statement touched.
func (r *Repository) UpsertNode(ctx context.Context, labels []string, props map[string]interface{}) (int64, error) {
	id, ok := props["id"]
	if !ok || id == nil {
		return 0, apperrors.NewInputInvalid("node", -1, "properties.id", "is required")
	}

	query := fmt.Sprintf(`
		MERGE (n%s {id: $id})
		SET n += $props
		RETURN count(n) AS applied
	`, LabelExpression(labels))

	records, err := r.run(ctx, neo4j.AccessModeWrite, query, map[string]interface{}{
		"id":    id,
		"props": props,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upsert node: %w", err)
	}

	return firstInt64(records, "applied"), nil
}

// UpsertRelationship merges a directed edge of relType between the nodes whose
// id properties equal sourceID and targetID, then merges props onto it.
// Returns 0 when either endpoint does not exist.
func (r *Repository) UpsertRelationship(ctx context.Context, sourceID, targetID interface{}, relType string, props map[string]interface{}) (int64, error) {
	if relType == "" {
		return 0, apperrors.NewInputInvalid("relationship", -1, "type", "is required")
	}

	query := fmt.Sprintf(`
		MATCH (source {id: $source_id})
		MATCH (target {id: $target_id})
		MERGE (source)-[r:%s]->(target)
		SET r += $props
		RETURN count(r) AS applied
	`, QuoteIdentifier(relType))

	records, err := r.run(ctx, neo4j.AccessModeWrite, query, map[string]interface{}{
		"source_id": sourceID,
		"target_id": targetID,
		"props":     propsOrEmpty(props),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upsert relationship: %w", err)
	}

	return firstInt64(records, "applied"), nil
}
