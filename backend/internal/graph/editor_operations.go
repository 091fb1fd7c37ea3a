package graph

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
	apperrors "sweepgraph/backend/pkg/errors"
	"go.uber.org/zap"
)

// ============================================================================
// Editor Operations
// ============================================================================

// GetNode returns the serialized node whose id property equals id. An id
// that reads as an integer also matches nodes imported with a numeric id.
func (r *Repository) GetNode(ctx context.Context, id string) (*Record, error) {
	node, _, err := r.findNode(ctx, id)
	return node, err
}

// findNode looks id up in each stored form from idCandidates and returns the
// node with the id value it is stored under.
func (r *Repository) findNode(ctx context.Context, id string) (*Record, interface{}, error) {
	for _, candidate := range idCandidates(id) {
		query, params, err := gocypher.NewQueryBuilder().
			Match(gocypher.N("n", "").WithProperties(map[string]interface{}{"id": candidate})).
			Return("n").
			Build()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build node lookup: %w", err)
		}

		rows, err := r.runSerialized(ctx, neo4j.AccessModeRead, query, params)
		if err != nil {
			return nil, nil, apperrors.NewGraphQueryFailed("get node", err)
		}

		for _, row := range rows {
			if n, ok := row.Get("n"); ok {
				if rec, ok := n.(*Record); ok {
					return rec, candidate, nil
				}
			}
		}
	}
	return nil, nil, apperrors.NewNodeNotFound(id)
}

// resolveID returns the stored id value for id, or id unchanged when no node
// carries it.
func (r *Repository) resolveID(ctx context.Context, id string) (interface{}, error) {
	_, stored, err := r.findNode(ctx, id)
	if err != nil {
		var notFound *apperrors.ErrNodeNotFound
		if errors.As(err, &notFound) {
			return id, nil
		}
		return nil, err
	}
	return stored, nil
}

// idCandidates lists the values an id given as text may be stored as: the
// text itself and, for canonical integers, the int64 the importer writes.
func idCandidates(id string) []interface{} {
	out := []interface{}{id}
	if n, err := strconv.ParseInt(id, 10, 64); err == nil && strconv.FormatInt(n, 10) == id {
		out = append(out, n)
	}
	return out
}

// DeleteNode removes the node whose id property equals id, along with its edges.
func (r *Repository) DeleteNode(ctx context.Context, id string) error {
	_, stored, err := r.findNode(ctx, id)
	if err != nil {
		return err
	}

	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", "").WithProperties(map[string]interface{}{"id": stored})).
		DetachDelete("n").
		Build()
	if err != nil {
		return fmt.Errorf("failed to build node delete: %w", err)
	}

	if _, err := r.run(ctx, neo4j.AccessModeWrite, query, params); err != nil {
		return fmt.Errorf("failed to delete node: %w", err)
	}

	r.logger.Info("Node deleted", zap.String("node_id", id))
	return nil
}

// SetNodeProperties merges props onto the node whose id property equals id
// and returns the updated node. The id property itself cannot be changed.
func (r *Repository) SetNodeProperties(ctx context.Context, id string, props map[string]interface{}) (*Record, error) {
	if newID, ok := props["id"]; ok && fmt.Sprint(newID) != id {
		return nil, apperrors.NewInputInvalid("request", -1, "properties.id", "cannot be changed")
	}

	_, stored, err := r.findNode(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, ok := props["id"]; ok {
		// keep the stored type of id
		updated := make(map[string]interface{}, len(props))
		for k, v := range props {
			updated[k] = v
		}
		updated["id"] = stored
		props = updated
	}

	query := `
		MATCH (n {id: $id})
		SET n += $props
		RETURN n
	`

	rows, err := r.runSerialized(ctx, neo4j.AccessModeWrite, query, map[string]interface{}{
		"id":    stored,
		"props": propsOrEmpty(props),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set node properties: %w", err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewNodeNotFound(id)
	}

	r.logger.Info("Node properties updated",
		zap.String("node_id", id),
		zap.Int("properties", len(props)),
	)

	n, _ := rows[0].Get("n")
	rec, _ := n.(*Record)
	return rec, nil
}

// CreateRelationship merges a directed edge between two nodes found by their
// id property. It reports false when either endpoint is missing.
func (r *Repository) CreateRelationship(ctx context.Context, sourceID, targetID, relType string, props map[string]interface{}) (bool, error) {
	source, err := r.resolveID(ctx, sourceID)
	if err != nil {
		return false, err
	}
	target, err := r.resolveID(ctx, targetID)
	if err != nil {
		return false, err
	}

	applied, err := r.UpsertRelationship(ctx, source, target, relType, props)
	if err != nil {
		return false, err
	}

	if applied == 0 {
		r.logger.Warn("Relationship not created, endpoint missing",
			zap.String("source_id", sourceID),
			zap.String("target_id", targetID),
			zap.String("type", relType),
		)
		return false, nil
	}

	r.logger.Info("Relationship created",
		zap.String("source_id", sourceID),
		zap.String("target_id", targetID),
		zap.String("type", relType),
	)
	return true, nil
}

// DeleteRelationship removes every relType edge from sourceID to targetID and
// returns how many were removed. relType must be a known relationship type.
func (r *Repository) DeleteRelationship(ctx context.Context, sourceID, targetID, relType string) (int64, error) {
	vocab, err := r.Vocabulary(ctx)
	if err != nil {
		return 0, err
	}
	if err := vocab.Check("", relType); err != nil {
		return 0, err
	}

	source, err := r.resolveID(ctx, sourceID)
	if err != nil {
		return 0, err
	}
	target, err := r.resolveID(ctx, targetID)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`
		MATCH (a {id: $source})-[r:%s]->(b {id: $target})
		DELETE r
		RETURN count(*) AS deleted
	`, QuoteIdentifier(relType))

	records, err := r.run(ctx, neo4j.AccessModeWrite, query, map[string]interface{}{
		"source": source,
		"target": target,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete relationship: %w", err)
	}

	deleted := firstInt64(records, "deleted")
	r.logger.Info("Relationship delete",
		zap.String("source_id", sourceID),
		zap.String("target_id", targetID),
		zap.String("type", relType),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}
