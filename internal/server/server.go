// Package server exposes the pipeline over HTTP: upload, review/edit,
// confirm, export, and the template catalog surface.
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/common"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/document"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/template"
)

// Server holds the handler dependencies.
type Server struct {
	store     *document.Store
	processor *document.Processor
	catalog   *template.Store
	logger    *slog.Logger
}

func New(store *document.Store, processor *document.Processor, catalog *template.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: store, processor: processor, catalog: catalog, logger: logger}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/documents", s.uploadDocuments)
		api.GET("/documents", s.listDocuments)
		api.GET("/documents/:id", s.getDocument)
		api.GET("/documents/:id/preview", s.documentPreview)
		api.POST("/documents/:id/data", s.editDocument)
		api.POST("/documents/:id/confirm", s.confirmDocument)
		api.GET("/documents/:id/export/csv", s.exportDocumentCSV)

		api.POST("/export/unified", s.exportUnified)

		api.GET("/templates", s.listTemplates)
		api.GET("/templates/:id", s.getTemplate)
		api.POST("/templates", s.saveTemplate)
		api.PUT("/templates/:id", s.saveTemplate)
		api.DELETE("/templates/:id", s.deleteTemplate)
	}
	return r
}

// fail maps the error taxonomy onto HTTP statuses with a JSON body.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound),
		errors.Is(err, common.ErrUnknownTemplate):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrInvalidInput),
		errors.Is(err, common.ErrValidation),
		errors.Is(err, common.ErrInvalidState),
		errors.Is(err, common.ErrNoSelection):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
