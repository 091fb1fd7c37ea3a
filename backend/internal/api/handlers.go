package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"sweepgraph/backend/internal/graph"
	"sweepgraph/backend/internal/importer"
	apperrors "sweepgraph/backend/pkg/errors"
	"go.uber.org/zap"
)

// Inline status values shown to interactive callers
const (
	statusSuccess = "success"
	statusInfo    = "info"
	statusWarning = "warning"
)

func (h *Handler) getVocabulary(c *gin.Context) {
	vocab, err := h.svc.Vocabulary(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch vocabulary")
		return
	}
	c.JSON(http.StatusOK, vocab)
}

func (h *Handler) searchNodes(c *gin.Context) {
	limit, ok := h.limitParam(c)
	if !ok {
		return
	}

	params := graph.SearchParams{
		Label:            c.Query("label"),
		RelationshipType: c.Query("relationship"),
		Term:             c.Query("term"),
		PropertyKey:      c.Query("property"),
		Limit:            limit,
	}

	nodes, err := h.svc.Search(c.Request.Context(), params)
	if err != nil {
		h.fail(c, err, "Failed to search nodes")
		return
	}

	rows := make([]*graph.Record, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, graph.Flatten(n))
	}

	resp := gin.H{"count": len(rows), "nodes": rows}
	if len(rows) == 0 {
		resp["status"] = statusInfo
		resp["message"] = "No nodes matched your filters."
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getNode(c *gin.Context) {
	node, err := h.svc.GetNode(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to fetch node")
		return
	}
	c.JSON(http.StatusOK, graph.Flatten(node))
}

func (h *Handler) updateNode(c *gin.Context) {
	var req struct {
		Properties map[string]interface{} `json:"properties" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	node, err := h.svc.SetNodeProperties(c.Request.Context(), id, importer.NormalizeProperties(req.Properties))
	if err != nil {
		h.fail(c, err, "Failed to update node")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  statusSuccess,
		"message": fmt.Sprintf("Updated node %s", id),
		"node":    graph.Flatten(node),
	})
}

func (h *Handler) deleteNode(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.DeleteNode(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Failed to delete node")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  statusSuccess,
		"message": fmt.Sprintf("Deleted node %s", id),
	})
}

type relationshipRequest struct {
	SourceID   string                 `json:"source_id" binding:"required"`
	TargetID   string                 `json:"target_id" binding:"required"`
	Type       string                 `json:"type" binding:"required"`
	Properties map[string]interface{} `json:"properties"`
}

func (h *Handler) createRelationship(c *gin.Context) {
	var req relationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.svc.CreateRelationship(c.Request.Context(), req.SourceID, req.TargetID, req.Type, importer.NormalizeProperties(req.Properties))
	if err != nil {
		h.fail(c, err, "Failed to create relationship")
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{
			"status":  statusWarning,
			"created": false,
			"message": "The database did not report a created relationship. Check that both node ids exist.",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  statusSuccess,
		"created": true,
		"message": fmt.Sprintf("Created relationship of type %s", req.Type),
	})
}

func (h *Handler) deleteRelationship(c *gin.Context) {
	var req relationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deleted, err := h.svc.DeleteRelationship(c.Request.Context(), req.SourceID, req.TargetID, req.Type)
	if err != nil {
		h.fail(c, err, "Failed to delete relationship")
		return
	}

	if deleted == 0 {
		c.JSON(http.StatusOK, gin.H{
			"status":  statusInfo,
			"deleted": 0,
			"message": "No matching relationship found to delete.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  statusSuccess,
		"deleted": deleted,
		"message": "Relationship deleted",
	})
}

func (h *Handler) getStats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) getSample(c *gin.Context) {
	limit, ok := h.limitParam(c)
	if !ok {
		return
	}

	sample, err := h.svc.Sample(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err, "Failed to sample graph")
		return
	}
	c.JSON(http.StatusOK, sample)
}

func (h *Handler) importDocument(c *gin.Context) {
	doc, err := importer.ParseDocument(c.Request.Body)
	if err != nil {
		h.fail(c, err, "Failed to parse import document")
		return
	}

	res, err := h.importer.Import(c.Request.Context(), doc)
	if err != nil {
		h.log.Error("Import aborted", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": statusWarning,
			"error":  "Import aborted; records applied before the failure remain applied",
			"result": res,
		})
		return
	}

	status := statusSuccess
	if res.RelationshipsSkipped > 0 {
		status = statusWarning
	}
	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"message": fmt.Sprintf("Imported %d nodes and %d relationships (%d relationships skipped)",
			res.NodesApplied, res.RelationshipsApplied, res.RelationshipsSkipped),
		"result": res,
	})
}

// limitParam reads the optional limit query value and clamps it.
func (h *Handler) limitParam(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return h.cfg.ClampLimit(0), true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return 0, false
	}
	return h.cfg.ClampLimit(n), true
}

// fail maps an error to a response: input errors are 400, missing nodes 404,
// everything else 500.
func (h *Handler) fail(c *gin.Context, err error, message string) {
	var notFound *apperrors.ErrNodeNotFound
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.IsErrorType(err, apperrors.ErrorTypeInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error(message, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
