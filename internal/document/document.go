// Package document owns the per-document lifecycle: the in-memory store,
// the state machine from upload to confirmation, and the verification ops.
package document

import (
	"time"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/constants"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/extraction"
)

// FileInfo keeps the original upload.
type FileInfo struct {
	Name  string
	Size  int64
	MIME  string
	Bytes []byte
}

// Document is one uploaded document moving through the pipeline. TemplateID
// is empty while the classification is pending and when the classifier
// reported no match; Data is set once extraction succeeds. RawOutput keeps
// the model's verbatim payload for audit, also when parsing it failed.
type Document struct {
	ID         string
	File       FileInfo
	PreviewPNG []byte
	Status     constants.DocStatus
	TemplateID string
	Data       *extraction.Data
	RawOutput  []byte
	Error      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasData reports whether extraction produced a payload for this document.
func (d *Document) HasData() bool {
	return d.Data != nil && !d.Data.Empty()
}

// Clone returns an independent copy. File, preview and raw-output bytes are
// shared (they are never mutated); Data is deep-copied.
func (d *Document) Clone() *Document {
	cp := *d
	cp.Data = d.Data.Clone()
	return &cp
}
