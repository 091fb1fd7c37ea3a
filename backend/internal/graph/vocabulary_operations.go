package graph

import (
	"context"
	"sort"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	apperrors "sweepgraph/backend/pkg/errors"
)

// ============================================================================
// Vocabulary Operations
// ============================================================================

// Vocabulary is the set of labels and relationship types the store reports.
// It is the only legitimate source of identifiers embedded in query text.
type Vocabulary struct {
	Labels            []string `json:"labels"`
	RelationshipTypes []string `json:"relationship_types"`
}

// HasLabel reports whether label is known to the store.
func (v *Vocabulary) HasLabel(label string) bool {
	return contains(v.Labels, label)
}

// HasRelationshipType reports whether relType is known to the store.
func (v *Vocabulary) HasRelationshipType(relType string) bool {
	return contains(v.RelationshipTypes, relType)
}

// Check validates optional label and relationship type values. Empty values pass.
func (v *Vocabulary) Check(label, relType string) error {
	if label != "" && !v.HasLabel(label) {
		return apperrors.NewUnknownIdentifier("label", label)
	}
	if relType != "" && !v.HasRelationshipType(relType) {
		return apperrors.NewUnknownIdentifier("relationship type", relType)
	}
	return nil
}

// Labels returns every node label in the store, sorted.
func (r *Repository) Labels(ctx context.Context) ([]string, error) {
	records, err := r.run(ctx, neo4j.AccessModeRead, "CALL db.labels() YIELD label RETURN label", nil)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("list labels", err)
	}
	return collectStrings(records, "label"), nil
}

// RelationshipTypes returns every relationship type in the store, sorted.
func (r *Repository) RelationshipTypes(ctx context.Context) ([]string, error) {
	records, err := r.run(ctx, neo4j.AccessModeRead, "CALL db.relationshipTypes() YIELD relationshipType RETURN relationshipType", nil)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("list relationship types", err)
	}
	return collectStrings(records, "relationshipType"), nil
}

// Vocabulary fetches labels and relationship types fresh from the store.
func (r *Repository) Vocabulary(ctx context.Context) (*Vocabulary, error) {
	labels, err := r.Labels(ctx)
	if err != nil {
		return nil, err
	}
	relTypes, err := r.RelationshipTypes(ctx)
	if err != nil {
		return nil, err
	}
	return &Vocabulary{Labels: labels, RelationshipTypes: relTypes}, nil
}

func collectStrings(records []*neo4j.Record, key string) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		if s := getStringFromRecord(rec, key); s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
