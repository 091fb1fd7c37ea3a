package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchQuery_NoFilters(t *testing.T) {
	query, params := BuildSearchQuery(SearchParams{Limit: 50})

	assert.Equal(t, "MATCH (n)\nRETURN DISTINCT n LIMIT $limit", query)
	assert.Equal(t, map[string]interface{}{"limit": int64(50)}, params)
}

func TestBuildSearchQuery_DefaultLimit(t *testing.T) {
	_, params := BuildSearchQuery(SearchParams{})
	assert.Equal(t, int64(DefaultSearchLimit), params["limit"])

	_, params = BuildSearchQuery(SearchParams{Limit: -3})
	assert.Equal(t, int64(DefaultSearchLimit), params["limit"])
}

func TestBuildSearchQuery_LabelAndRelationship(t *testing.T) {
	query, params := BuildSearchQuery(SearchParams{
		Label:            "Person",
		RelationshipType: "KNOWS",
		Limit:            10,
	})

	assert.True(t, strings.HasPrefix(query, "MATCH (n:`Person`)-[:`KNOWS`]-()\n"), query)
	assert.Contains(t, query, "RETURN DISTINCT n LIMIT $limit")
	assert.NotContains(t, query, "WHERE")
	assert.Len(t, params, 1)
}

func TestBuildSearchQuery_TermAnyProperty(t *testing.T) {
	query, params := BuildSearchQuery(SearchParams{Term: "ada", Limit: 10})

	assert.Contains(t, query, "WHERE any(k IN keys(n) WHERE CASE WHEN valueType(n[k]) STARTS WITH 'LIST'")
	assert.Contains(t, query, "THEN any(x IN n[k] WHERE toLower(toStringOrNull(x)) CONTAINS toLower($term))")
	assert.Contains(t, query, "ELSE toLower(toStringOrNull(n[k])) CONTAINS toLower($term) END)")
	assert.Equal(t, "ada", params["term"])
	_, hasKey := params["prop_key"]
	assert.False(t, hasKey)
}

func TestBuildSearchQuery_TermSingleProperty(t *testing.T) {
	query, params := BuildSearchQuery(SearchParams{Term: "ada", PropertyKey: "name", Limit: 10})

	assert.Contains(t, query, "n[$prop_key] IS NOT NULL")
	assert.Contains(t, query, "toLower(toStringOrNull(n[$prop_key])) CONTAINS toLower($term)")
	assert.Contains(t, query, "any(x IN n[$prop_key] WHERE toLower(toStringOrNull(x)) CONTAINS toLower($term))")
	assert.NotContains(t, query, "keys(n)")
	assert.Equal(t, "name", params["prop_key"])
	assert.Equal(t, "ada", params["term"])
}

func TestBuildSearchQuery_PropertyKeyWithoutTermIgnored(t *testing.T) {
	query, params := BuildSearchQuery(SearchParams{PropertyKey: "name", Limit: 10})

	assert.NotContains(t, query, "WHERE")
	_, hasKey := params["prop_key"]
	assert.False(t, hasKey)
}

func TestBuildSearchQuery_UserTextNeverInQuery(t *testing.T) {
	term := "x') DETACH DELETE n //"
	key := "name` }) DETACH DELETE n //"
	query, params := BuildSearchQuery(SearchParams{Term: term, PropertyKey: key, Limit: 10})

	assert.NotContains(t, query, term)
	assert.NotContains(t, query, key)
	assert.Equal(t, term, params["term"])
	assert.Equal(t, key, params["prop_key"])
}

func TestBuildSearchQuery_IdentifierEscaped(t *testing.T) {
	query, _ := BuildSearchQuery(SearchParams{Label: "Bad`) DETACH DELETE n //", Limit: 10})

	require.True(t, strings.HasPrefix(query, "MATCH (n:`Bad``) DETACH DELETE n //`)"), query)
}

func TestBuildSearchQuery_Deterministic(t *testing.T) {
	p := SearchParams{Label: "Person", Term: "a", PropertyKey: "name", Limit: 25}
	q1, p1 := BuildSearchQuery(p)
	q2, p2 := BuildSearchQuery(p)

	assert.Equal(t, q1, q2)
	assert.Equal(t, p1, p2)
}

func TestTermMatch_ListsMatchPerElement(t *testing.T) {
	expr := termMatch("n.tags")

	assert.Equal(t, "CASE WHEN valueType(n.tags) STARTS WITH 'LIST' "+
		"THEN any(x IN n.tags WHERE toLower(toStringOrNull(x)) CONTAINS toLower($term)) "+
		"ELSE toLower(toStringOrNull(n.tags)) CONTAINS toLower($term) END", expr)
}
