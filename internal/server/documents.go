package server

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/constants"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/common"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/document"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/extraction"
)

// documentView is the API shape of one document.
type documentView struct {
	ID           string               `json:"id"`
	FileName     string               `json:"file_name"`
	FileSize     int64                `json:"file_size"`
	MIME         string               `json:"mime"`
	Status       constants.DocStatus  `json:"status"`
	TemplateID   string               `json:"template_id,omitempty"`
	TemplateName string               `json:"template_name,omitempty"`
	// UnknownTemplate marks a stored template reference that no longer
	// resolves against the catalog; the data stays editable as raw keys.
	UnknownTemplate bool             `json:"unknown_template,omitempty"`
	Error           string           `json:"error,omitempty"`
	Data            *extraction.Data `json:"data,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (s *Server) view(c *gin.Context, doc *document.Document, withData bool) documentView {
	v := documentView{
		ID:        doc.ID,
		FileName:  doc.File.Name,
		FileSize:  doc.File.Size,
		MIME:      doc.File.MIME,
		Status:    doc.Status,
		Error:     doc.Error,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	if doc.TemplateID != "" {
		v.TemplateID = doc.TemplateID
		if tpl, err := s.catalog.Get(c.Request.Context(), doc.TemplateID); err == nil {
			v.TemplateName = tpl.Name
		} else {
			v.UnknownTemplate = true
		}
	}
	if withData {
		v.Data = doc.Data
	}
	return v
}

// uploadDocuments accepts one or more files under the "files" multipart
// field and submits them in form order.
func (s *Server) uploadDocuments(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		fail(c, common.NewAppError("UPLOAD", "invalid multipart form", common.ErrInvalidInput))
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		fail(c, common.NewAppError("UPLOAD", "no files provided", common.ErrInvalidInput))
		return
	}

	uploads := make([]document.Upload, 0, len(files))
	for _, fh := range files {
		ext := filepath.Ext(fh.Filename)
		if _, ok := constants.AllowedExtensions[constants.NormalizeExt(ext)]; !ok {
			fail(c, common.NewAppError("UPLOAD",
				fmt.Sprintf("unsupported file type %q", ext), common.ErrInvalidInput))
			return
		}
		f, err := fh.Open()
		if err != nil {
			fail(c, common.WrapError(err, "open upload"))
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			fail(c, common.WrapError(err, "read upload"))
			return
		}
		contentType := fh.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = mime.TypeByExtension(ext)
		}
		uploads = append(uploads, document.Upload{
			Name:  fh.Filename,
			MIME:  contentType,
			Bytes: data,
		})
	}

	ids, err := s.processor.Submit(c.Request.Context(), uploads)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"document_ids": ids})
}

func (s *Server) listDocuments(c *gin.Context) {
	docs := s.store.List()
	out := make([]documentView, 0, len(docs))
	for _, d := range docs {
		out = append(out, s.view(c, d, false))
	}
	c.JSON(http.StatusOK, gin.H{"documents": out})
}

func (s *Server) getDocument(c *gin.Context) {
	doc, err := s.store.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.view(c, doc, true))
}

func (s *Server) documentPreview(c *gin.Context) {
	doc, err := s.store.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if len(doc.PreviewPNG) == 0 {
		fail(c, common.ErrNotFound)
		return
	}
	c.Data(http.StatusOK, "image/png", doc.PreviewPNG)
}

// editRequest is one verification-editor mutation.
type editRequest struct {
	Op       string `json:"op" binding:"required"` // set_scalar | set_cell | add_row | remove_row
	Key      string `json:"key"`
	TableKey string `json:"table_key"`
	RowIndex int    `json:"row_index"`
	ColKey   string `json:"col_key"`
	Value    any    `json:"value"`
}

func (s *Server) editDocument(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, common.NewAppError("EDIT", "invalid edit request", common.ErrInvalidInput))
		return
	}

	doc, err := s.processor.Edit(c.Param("id"), func(d *document.Document) error {
		switch req.Op {
		case "set_scalar":
			if req.Key == "" {
				return common.NewAppError("EDIT", "key is required", common.ErrInvalidInput)
			}
			d.Data.SetScalar(req.Key, req.Value)
		case "set_cell":
			if req.TableKey == "" || req.ColKey == "" {
				return common.NewAppError("EDIT", "table_key and col_key are required", common.ErrInvalidInput)
			}
			d.Data.SetCell(req.TableKey, req.RowIndex, req.ColKey, req.Value)
		case "add_row":
			if req.TableKey == "" {
				return common.NewAppError("EDIT", "table_key is required", common.ErrInvalidInput)
			}
			d.Data.AddRow(req.TableKey)
		case "remove_row":
			if req.TableKey == "" {
				return common.NewAppError("EDIT", "table_key is required", common.ErrInvalidInput)
			}
			d.Data.RemoveRow(req.TableKey, req.RowIndex)
		default:
			return common.NewAppError("EDIT",
				fmt.Sprintf("unknown op %q", req.Op), common.ErrInvalidInput)
		}
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.view(c, doc, true))
}

func (s *Server) confirmDocument(c *gin.Context) {
	doc, err := s.processor.Confirm(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.view(c, doc, false))
}
