// Package api exposes the explorer, editor, dashboard and import operations
// over HTTP.
package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"sweepgraph/backend/internal/graph"
	"sweepgraph/backend/internal/importer"
	"sweepgraph/backend/pkg/config"
	"go.uber.org/zap"
)

func init() {
	// Keep integer property values integral when request bodies are bound.
	binding.EnableDecoderUseNumber = true
}

// Service is the graph surface the handlers use. *graph.Repository implements it.
type Service interface {
	Vocabulary(ctx context.Context) (*graph.Vocabulary, error)
	Search(ctx context.Context, p graph.SearchParams) ([]*graph.Record, error)
	GetNode(ctx context.Context, id string) (*graph.Record, error)
	SetNodeProperties(ctx context.Context, id string, props map[string]interface{}) (*graph.Record, error)
	DeleteNode(ctx context.Context, id string) error
	CreateRelationship(ctx context.Context, sourceID, targetID, relType string, props map[string]interface{}) (bool, error)
	DeleteRelationship(ctx context.Context, sourceID, targetID, relType string) (int64, error)
	Stats(ctx context.Context) (*graph.Stats, error)
	Sample(ctx context.Context, limit int) (*graph.GraphSample, error)
}

// DocumentImporter applies an import document. *importer.Importer implements it.
type DocumentImporter interface {
	Import(ctx context.Context, doc *importer.Document) (*importer.Result, error)
}

// Handler holds the dependencies shared by all routes
type Handler struct {
	svc      Service
	importer DocumentImporter
	cfg      *config.Config
	log      *zap.Logger
}

// NewRouter builds the gin engine with middleware and all routes registered.
func NewRouter(svc Service, imp DocumentImporter, cfg *config.Config, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	h := &Handler{svc: svc, importer: imp, cfg: cfg, log: log}

	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	router.Use(cors())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/vocabulary", h.getVocabulary)

		api.GET("/nodes/search", h.searchNodes)
		api.GET("/nodes/:id", h.getNode)
		api.PATCH("/nodes/:id", h.updateNode)
		api.DELETE("/nodes/:id", h.deleteNode)

		api.POST("/relationships", h.createRelationship)
		api.DELETE("/relationships", h.deleteRelationship)

		api.GET("/stats", h.getStats)
		api.GET("/graph/sample", h.getSample)

		api.POST("/import", h.importDocument)
	}

	return router
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
