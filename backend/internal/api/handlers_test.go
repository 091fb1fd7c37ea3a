package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sweepgraph/backend/internal/graph"
	"sweepgraph/backend/internal/importer"
	"sweepgraph/backend/pkg/config"
	apperrors "sweepgraph/backend/pkg/errors"
	"go.uber.org/zap"
)

// Mock implementations for testing

type mockService struct {
	vocab      *graph.Vocabulary
	nodes      []*graph.Record
	lastSearch graph.SearchParams
	lastProps  map[string]interface{}
	created    bool
	deleted    int64
	stats      *graph.Stats
	err        error
}

func (m *mockService) Vocabulary(ctx context.Context) (*graph.Vocabulary, error) {
	return m.vocab, m.err
}

func (m *mockService) Search(ctx context.Context, p graph.SearchParams) ([]*graph.Record, error) {
	m.lastSearch = p
	if m.err != nil {
		return nil, m.err
	}
	return m.nodes, nil
}

func (m *mockService) GetNode(ctx context.Context, id string) (*graph.Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.nodes) == 0 {
		return nil, apperrors.NewNodeNotFound(id)
	}
	return m.nodes[0], nil
}

func (m *mockService) SetNodeProperties(ctx context.Context, id string, props map[string]interface{}) (*graph.Record, error) {
	m.lastProps = props
	if m.err != nil {
		return nil, m.err
	}
	return graph.RecordFromMap(props), nil
}

func (m *mockService) DeleteNode(ctx context.Context, id string) error {
	return m.err
}

func (m *mockService) CreateRelationship(ctx context.Context, sourceID, targetID, relType string, props map[string]interface{}) (bool, error) {
	return m.created, m.err
}

func (m *mockService) DeleteRelationship(ctx context.Context, sourceID, targetID, relType string) (int64, error) {
	return m.deleted, m.err
}

func (m *mockService) Stats(ctx context.Context) (*graph.Stats, error) {
	return m.stats, m.err
}

func (m *mockService) Sample(ctx context.Context, limit int) (*graph.GraphSample, error) {
	return &graph.GraphSample{Nodes: m.nodes, Relationships: []*graph.Record{}}, m.err
}

type mockImporter struct {
	result *importer.Result
	err    error
	docs   []*importer.Document
}

func (m *mockImporter) Import(ctx context.Context, doc *importer.Document) (*importer.Result, error) {
	m.docs = append(m.docs, doc)
	return m.result, m.err
}

func testConfig() *config.Config {
	return &config.Config{
		Env:                "test",
		SearchDefaultLimit: 100,
		SearchMinLimit:     10,
		SearchMaxLimit:     500,
	}
}

func newTestRouter(svc Service, imp DocumentImporter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(svc, imp, testConfig(), zap.NewNop())
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&mockService{}, &mockImporter{})

	w := doRequest(router, "GET", "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestSearchEndpoint_FlattensAndClamps(t *testing.T) {
	node := graph.NewRecord()
	node.Set("element_id", "4:x:1")
	node.Set("labels", "Person")
	node.Set("id", "p1")
	node.Set("name", "Ada")
	node.Set("tags", []interface{}{"math", "poetry"})
	svc := &mockService{nodes: []*graph.Record{node}}
	router := newTestRouter(svc, &mockImporter{})

	w := doRequest(router, "GET", "/api/nodes/search?label=Person&relationship=KNOWS&term=ada&property=name&limit=5000", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, graph.SearchParams{
		Label:            "Person",
		RelationshipType: "KNOWS",
		Term:             "ada",
		PropertyKey:      "name",
		Limit:            500,
	}, svc.lastSearch)
	assert.Contains(t, w.Body.String(),
		`{"labels":"Person","name":"Ada","id":"p1","element_id":"4:x:1","tags":"math, poetry"}`)
	assert.Equal(t, float64(1), decode(t, w)["count"])
}

func TestSearchEndpoint_EmptyIsInfo(t *testing.T) {
	svc := &mockService{}
	router := newTestRouter(svc, &mockImporter{})

	w := doRequest(router, "GET", "/api/nodes/search", "")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "info", resp["status"])
	assert.Equal(t, 100, svc.lastSearch.Limit)
}

func TestSearchEndpoint_BadLimit(t *testing.T) {
	router := newTestRouter(&mockService{}, &mockImporter{})

	w := doRequest(router, "GET", "/api/nodes/search?limit=lots", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchEndpoint_UnknownLabel(t *testing.T) {
	svc := &mockService{err: apperrors.NewUnknownIdentifier("label", "Robot")}
	router := newTestRouter(svc, &mockImporter{})

	w := doRequest(router, "GET", "/api/nodes/search?label=Robot", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchEndpoint_StoreFailure(t *testing.T) {
	svc := &mockService{err: apperrors.NewGraphQueryFailed("search nodes", errors.New("boom"))}
	router := newTestRouter(svc, &mockImporter{})

	w := doRequest(router, "GET", "/api/nodes/search", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to search nodes", decode(t, w)["error"])
}

func TestGetNodeEndpoint_NotFound(t *testing.T) {
	router := newTestRouter(&mockService{}, &mockImporter{})

	w := doRequest(router, "GET", "/api/nodes/missing", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateNodeEndpoint_KeepsIntegers(t *testing.T) {
	svc := &mockService{}
	router := newTestRouter(svc, &mockImporter{})

	w := doRequest(router, "PATCH", "/api/nodes/p1", `{"properties":{"born":1815,"meta":{"a":1}}}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1815), svc.lastProps["born"])
	assert.Equal(t, `{"a":1}`, svc.lastProps["meta"])
}

func TestUpdateNodeEndpoint_InvalidRequest(t *testing.T) {
	router := newTestRouter(&mockService{}, &mockImporter{})

	w := doRequest(router, "PATCH", "/api/nodes/p1", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRelationshipEndpoint(t *testing.T) {
	router := newTestRouter(&mockService{created: true}, &mockImporter{})
	w := doRequest(router, "POST", "/api/relationships", `{"source_id":"p1","target_id":"p2","type":"KNOWS"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", decode(t, w)["status"])

	router = newTestRouter(&mockService{created: false}, &mockImporter{})
	w = doRequest(router, "POST", "/api/relationships", `{"source_id":"p1","target_id":"p2","type":"KNOWS"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "warning", decode(t, w)["status"])

	w = doRequest(router, "POST", "/api/relationships", `{"source_id":"p1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteRelationshipEndpoint(t *testing.T) {
	router := newTestRouter(&mockService{deleted: 0}, &mockImporter{})
	w := doRequest(router, "DELETE", "/api/relationships", `{"source_id":"p1","target_id":"p2","type":"KNOWS"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "info", decode(t, w)["status"])

	router = newTestRouter(&mockService{deleted: 1}, &mockImporter{})
	w = doRequest(router, "DELETE", "/api/relationships", `{"source_id":"p1","target_id":"p2","type":"KNOWS"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", decode(t, w)["status"])
}

func TestStatsEndpoint(t *testing.T) {
	svc := &mockService{stats: &graph.Stats{
		NodeCount:            3,
		RelationshipCount:    2,
		TopRelationshipTypes: []graph.TypeCount{{Name: "KNOWS", Count: 2}},
		TopLabels:            []graph.TypeCount{{Name: "Person", Count: 3}},
	}}
	router := newTestRouter(svc, &mockImporter{})

	w := doRequest(router, "GET", "/api/stats", "")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, float64(3), resp["node_count"])
	assert.Equal(t, float64(2), resp["relationship_count"])
}

func TestImportEndpoint(t *testing.T) {
	imp := &mockImporter{result: &importer.Result{RunID: "r1", NodesApplied: 1}}
	router := newTestRouter(&mockService{}, imp)

	w := doRequest(router, "POST", "/api/import", `{"nodes":[{"labels":["Person"],"properties":{"id":"p1","name":"Ada"}}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", decode(t, w)["status"])
	require.Len(t, imp.docs, 1)
	assert.Equal(t, "Ada", imp.docs[0].Nodes[0].Properties["name"])
}

func TestImportEndpoint_InvalidDocument(t *testing.T) {
	imp := &mockImporter{}
	router := newTestRouter(&mockService{}, imp)

	w := doRequest(router, "POST", "/api/import", `{"nodes":[{"labels":["Person"],"properties":{"name":"Ada"}}]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, imp.docs)
}

func TestImportEndpoint_SkippedIsWarning(t *testing.T) {
	imp := &mockImporter{result: &importer.Result{RunID: "r1", RelationshipsSkipped: 1}}
	router := newTestRouter(&mockService{}, imp)

	w := doRequest(router, "POST", "/api/import", `{"relationships":[{"source_id":"p1","target_id":"p2","type":"KNOWS"}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "warning", decode(t, w)["status"])
}

func TestImportEndpoint_Aborted(t *testing.T) {
	imp := &mockImporter{
		result: &importer.Result{RunID: "r1", NodesApplied: 2},
		err:    apperrors.NewImportAborted("node", 2, 2, 0, errors.New("connection reset")),
	}
	router := newTestRouter(&mockService{}, imp)

	w := doRequest(router, "POST", "/api/import", `{"nodes":[{"properties":{"id":"a"}}]}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotNil(t, decode(t, w)["result"])
}
