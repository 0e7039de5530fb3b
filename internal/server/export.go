package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/common"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/document"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/export"
)

func attachment(c *gin.Context, name, contentType string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, body)
}

// exportDocumentCSV flattens one document against its own template layout.
func (s *Server) exportDocumentCSV(c *gin.Context) {
	doc, err := s.store.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !doc.HasData() {
		fail(c, common.NewAppError("EXPORT", "document has no extracted data", common.ErrInvalidState))
		return
	}
	if doc.TemplateID == "" {
		fail(c, common.NewAppError("EXPORT", "document has no matched template", common.ErrInvalidState))
		return
	}
	tpl, err := s.catalog.Get(c.Request.Context(), doc.TemplateID)
	if err != nil {
		fail(c, common.NewAppError("EXPORT",
			fmt.Sprintf("template %s is no longer in the catalog", doc.TemplateID), common.ErrUnknownTemplate))
		return
	}

	body := export.DocumentCSV(tpl, doc.Data)
	base := strings.TrimSuffix(doc.File.Name, "."+lastExt(doc.File.Name))
	name := fmt.Sprintf("export_%s_%d.csv", base, time.Now().UnixMilli())
	s.logger.Info("export.csv.ok", "doc_id", doc.ID, "bytes", len(body))
	attachment(c, name, "text/csv; charset=utf-8", body)
}

func lastExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return ""
}

type unifiedRequest struct {
	DocumentIDs []string `json:"document_ids" binding:"required"`
	Format      string   `json:"format"` // csv (default) | xlsx
}

// exportUnified merges the selected documents onto the fixed unified
// schema. Selecting nothing exportable is a 400 with a notice, never an
// empty file.
func (s *Server) exportUnified(c *gin.Context) {
	var req unifiedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, common.NewAppError("EXPORT", "invalid export request", common.ErrInvalidInput))
		return
	}

	var selected []*document.Document
	for _, id := range req.DocumentIDs {
		doc, err := s.store.Get(id)
		if err != nil {
			fail(c, common.NewAppError("EXPORT", fmt.Sprintf("document %s not found", id), common.ErrNotFound))
			return
		}
		selected = append(selected, doc)
	}

	stamp := time.Now().UnixMilli()
	switch req.Format {
	case "", "csv":
		body, err := export.UnifiedCSV(selected, s.logger)
		if err != nil {
			fail(c, err)
			return
		}
		s.logger.Info("export.unified.ok", "documents", len(selected), "bytes", len(body))
		attachment(c, fmt.Sprintf("unified_export_%d.csv", stamp), "text/csv; charset=utf-8", body)
	case "xlsx":
		body, err := export.UnifiedXLSX(selected, s.logger)
		if err != nil {
			fail(c, err)
			return
		}
		attachment(c, fmt.Sprintf("unified_export_%d.xlsx", stamp),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", body)
	default:
		fail(c, common.NewAppError("EXPORT",
			fmt.Sprintf("unknown format %q", req.Format), common.ErrInvalidInput))
	}
}
