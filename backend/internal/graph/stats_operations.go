package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	apperrors "sweepgraph/backend/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ============================================================================
// Dashboard Operations
// ============================================================================

const topN = 10

// TypeCount is a label or relationship type with its occurrence count
type TypeCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Stats summarizes the store for the dashboard
type Stats struct {
	NodeCount            int64       `json:"node_count"`
	RelationshipCount    int64       `json:"relationship_count"`
	TopRelationshipTypes []TypeCount `json:"top_relationship_types"`
	TopLabels            []TypeCount `json:"top_labels"`
}

// GraphSample is a bounded slice of the graph for overview rendering
type GraphSample struct {
	Nodes         []*Record `json:"nodes"`
	Relationships []*Record `json:"relationships"`
}

// Stats runs the dashboard queries. Each query uses its own session.
func (r *Repository) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		records, err := r.run(gctx, neo4j.AccessModeRead, "MATCH (n) RETURN count(n) AS c", nil)
		if err != nil {
			return apperrors.NewGraphQueryFailed("count nodes", err)
		}
		stats.NodeCount = firstInt64(records, "c")
		return nil
	})

	g.Go(func() error {
		records, err := r.run(gctx, neo4j.AccessModeRead, "MATCH ()-[r]->() RETURN count(r) AS c", nil)
		if err != nil {
			return apperrors.NewGraphQueryFailed("count relationships", err)
		}
		stats.RelationshipCount = firstInt64(records, "c")
		return nil
	})

	g.Go(func() error {
		records, err := r.run(gctx, neo4j.AccessModeRead, `
			MATCH ()-[r]->()
			RETURN type(r) AS name, count(*) AS c
			ORDER BY c DESC, name
			LIMIT $limit
		`, map[string]interface{}{"limit": int64(topN)})
		if err != nil {
			return apperrors.NewGraphQueryFailed("top relationship types", err)
		}
		stats.TopRelationshipTypes = collectTypeCounts(records)
		return nil
	})

	g.Go(func() error {
		records, err := r.run(gctx, neo4j.AccessModeRead, `
			MATCH (n)
			UNWIND labels(n) AS name
			RETURN name, count(*) AS c
			ORDER BY c DESC, name
			LIMIT $limit
		`, map[string]interface{}{"limit": int64(topN)})
		if err != nil {
			return apperrors.NewGraphQueryFailed("top labels", err)
		}
		stats.TopLabels = collectTypeCounts(records)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// Sample returns up to limit nodes and up to limit relationships.
func (r *Repository) Sample(ctx context.Context, limit int) (*GraphSample, error) {
	if limit < 1 {
		limit = DefaultSearchLimit
	}
	params := map[string]interface{}{"limit": int64(limit)}

	nodes, err := r.runSerialized(ctx, neo4j.AccessModeRead,
		"MATCH (n) RETURN elementId(n) AS id, labels(n) AS labels, n AS props LIMIT $limit", params)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("sample nodes", err)
	}

	rels, err := r.runSerialized(ctx, neo4j.AccessModeRead, `
		MATCH (a)-[r]->(b)
		RETURN elementId(a) AS source, type(r) AS type, elementId(b) AS target
		LIMIT $limit
	`, params)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("sample relationships", err)
	}

	return &GraphSample{Nodes: nodes, Relationships: rels}, nil
}

func collectTypeCounts(records []*neo4j.Record) []TypeCount {
	out := make([]TypeCount, 0, len(records))
	for _, rec := range records {
		out = append(out, TypeCount{
			Name:  getStringFromRecord(rec, "name"),
			Count: getInt64FromRecord(rec, "c"),
		})
	}
	return out
}
