// Package genai calls the generative model that classifies a document
// against the template catalog and extracts its field values.
package genai

import (
	"context"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/extraction"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/template"
)

// AnalyzeRequest carries one document image and the catalog to match it
// against. Bytes must already be a raster image (PDFs are converted by the
// preview collaborator before this call).
type AnalyzeRequest struct {
	Bytes        []byte
	MIMEType     string
	FilenameHint string
	Catalog      template.Catalog
}

// Result is the model's verdict for one document. TemplateID may be the
// "unknown" sentinel; callers decide how to store that.
type Result struct {
	TemplateID string
	Data       *extraction.Data
}

// DocumentAnalyzer is the interface the lifecycle controller depends on.
type DocumentAnalyzer interface {
	AnalyzeDocument(ctx context.Context, req AnalyzeRequest) (Result, []byte /*rawJSON*/, error)
}
