package graph

import (
	"context"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	apperrors "sweepgraph/backend/pkg/errors"
	"go.uber.org/zap"
)

// ============================================================================
// Search Operations
// ============================================================================

// DefaultSearchLimit is used when a search carries no positive row cap.
const DefaultSearchLimit = 100

// SearchParams filters a node search. Empty strings mean "no filter".
type SearchParams struct {
	Label            string // exact node label
	RelationshipType string // node must touch at least one edge of this type, either direction
	Term             string // case-insensitive substring
	PropertyKey      string // restricts Term to one property; otherwise any property may match
	Limit            int    // row cap
}

// BuildSearchQuery renders the Cypher text and parameters for a search.
// Label and relationship type are embedded through QuoteIdentifier; term and
// property key are always bound parameters.
func BuildSearchQuery(p SearchParams) (string, map[string]interface{}) {
	limit := p.Limit
	if limit < 1 {
		limit = DefaultSearchLimit
	}
	params := map[string]interface{}{"limit": int64(limit)}

	nodePattern := "n"
	if p.Label != "" {
		nodePattern = "n:" + QuoteIdentifier(p.Label)
	}

	matchClause := "MATCH (" + nodePattern + ")"
	if p.RelationshipType != "" {
		matchClause += "-[:" + QuoteIdentifier(p.RelationshipType) + "]-()"
	}

	var whereClauses []string
	if p.Term != "" {
		params["term"] = p.Term
		if p.PropertyKey != "" {
			params["prop_key"] = p.PropertyKey
			whereClauses = append(whereClauses,
				"n[$prop_key] IS NOT NULL AND "+termMatch("n[$prop_key]"))
		} else {
			whereClauses = append(whereClauses,
				"any(k IN keys(n) WHERE "+termMatch("n[k]")+")")
		}
	}

	parts := []string{matchClause}
	if len(whereClauses) > 0 {
		parts = append(parts, "WHERE "+strings.Join(whereClauses, " AND "))
	}
	// A node touching several edges of the type matches once per edge.
	parts = append(parts, "RETURN DISTINCT n LIMIT $limit")

	return strings.Join(parts, "\n"), params
}

// termMatch renders the case-insensitive $term test for one property value.
// toStringOrNull yields null for lists, so list values match when any element
// does.
func termMatch(value string) string {
	return "CASE WHEN valueType(" + value + ") STARTS WITH 'LIST' " +
		"THEN any(x IN " + value + " WHERE toLower(toStringOrNull(x)) CONTAINS toLower($term)) " +
		"ELSE toLower(toStringOrNull(" + value + ")) CONTAINS toLower($term) END"
}

// Search returns serialized nodes matching the filters. Label and relationship
// type must belong to the store's current vocabulary. Zero matches is an
// empty slice, not an error.
func (r *Repository) Search(ctx context.Context, p SearchParams) ([]*Record, error) {
	if p.Label != "" || p.RelationshipType != "" {
		vocab, err := r.Vocabulary(ctx)
		if err != nil {
			return nil, err
		}
		if err := vocab.Check(p.Label, p.RelationshipType); err != nil {
			return nil, err
		}
	}

	query, params := BuildSearchQuery(p)
	rows, err := r.runSerialized(ctx, neo4j.AccessModeRead, query, params)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("search nodes", err)
	}

	nodes := make([]*Record, 0, len(rows))
	for _, row := range rows {
		if n, ok := row.Get("n"); ok {
			if rec, ok := n.(*Record); ok {
				nodes = append(nodes, rec)
			}
		}
	}

	r.logger.Debug("Search completed",
		zap.String("label", p.Label),
		zap.String("relationship_type", p.RelationshipType),
		zap.Bool("has_term", p.Term != ""),
		zap.Int("results", len(nodes)),
	)
	return nodes, nil
}
