package document

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/constants"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/async"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/common"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/genai"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/preview"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/template"
)

// now is indirected for tests.
var now = func() time.Time { return time.Now().UTC() }

// CatalogSource yields the current template catalog snapshot.
type CatalogSource interface {
	List(ctx context.Context) (template.Catalog, error)
}

// Preparer converts an upload into its preview raster and model payload.
// Satisfied by preview.Converter.
type Preparer interface {
	Prepare(name string, data []byte, mime string) (preview.Result, error)
}

// Upload is one file handed to Submit.
type Upload struct {
	Name  string
	MIME  string
	Bytes []byte
}

// Processor drives each document through
// pending → processing → {review | error}, and review → completed on
// confirmation. One state machine per document; failures never cross
// document boundaries.
type Processor struct {
	store     *Store
	analyzer  genai.DocumentAnalyzer
	converter Preparer
	catalog   CatalogSource
	queue     async.Queue
	logger    *slog.Logger
}

func NewProcessor(store *Store, analyzer genai.DocumentAnalyzer, converter Preparer, catalog CatalogSource, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		store:     store,
		analyzer:  analyzer,
		converter: converter,
		catalog:   catalog,
		logger:    logger,
	}
}

// AttachQueue routes Submit through q. Without a queue, Submit processes
// each document inline, in order.
func (p *Processor) AttachQueue(q async.Queue) { p.queue = q }

// Submit registers the files as pending documents, in the order given, and
// drives each through processing. The returned ids follow input order.
// A file whose preview conversion fails still gets a document; it lands in
// the error state directly and later files are unaffected.
func (p *Processor) Submit(ctx context.Context, uploads []Upload) ([]string, error) {
	if len(uploads) == 0 {
		return nil, common.ErrInvalidInput
	}

	ids := make([]string, 0, len(uploads))
	pending := make([]string, 0, len(uploads))
	for _, u := range uploads {
		doc := &Document{
			ID: "doc_" + uuid.New().String(),
			File: FileInfo{
				Name:  u.Name,
				Size:  int64(len(u.Bytes)),
				MIME:  u.MIME,
				Bytes: u.Bytes,
			},
			Status:    constants.DocStatusPending,
			CreatedAt: now(),
			UpdatedAt: now(),
		}

		prepared, err := p.converter.Prepare(u.Name, u.Bytes, u.MIME)
		if err != nil {
			doc.Status = constants.DocStatusError
			doc.Error = err.Error()
			p.logger.Error("document.preview.failed", "doc_id", doc.ID, "file", u.Name, "error", err)
		} else {
			doc.PreviewPNG = prepared.PreviewPNG
		}

		p.store.Add(doc)
		ids = append(ids, doc.ID)
		if doc.Status == constants.DocStatusPending {
			pending = append(pending, doc.ID)
		}
		p.logger.Info("document.submitted",
			"doc_id", doc.ID, "file", u.Name, "size", doc.File.Size, "status", doc.Status)
	}

	for _, id := range pending {
		if p.queue != nil {
			if err := p.queue.Enqueue(ctx, async.Job{DocumentID: id, SubmittedAt: now()}); err != nil {
				p.logger.Error("document.enqueue.failed", "doc_id", id, "error", err)
			}
			continue
		}
		// no queue attached: process inline, preserving submission order
		_ = p.Process(ctx, id)
	}
	return ids, nil
}

// Process runs classify/extract for one pending document. It always leaves
// the document in review or error, never in processing. The returned error
// mirrors what was recorded on the document; callers that fan out over a
// batch ignore it and keep going.
func (p *Processor) Process(ctx context.Context, docID string) error {
	start := now()

	doc, err := p.store.Get(docID)
	if err != nil {
		return err
	}
	if doc.Status != constants.DocStatusPending {
		return common.NewAppError("LIFECYCLE",
			fmt.Sprintf("document %s is %s, expected pending", docID, doc.Status), common.ErrInvalidState)
	}

	if _, err := p.store.Update(docID, func(d *Document) error {
		d.Status = constants.DocStatusProcessing
		return nil
	}); err != nil {
		return err
	}

	result, raw, failErr := p.analyze(ctx, doc)
	if failErr != nil {
		_, _ = p.store.Update(docID, func(d *Document) error {
			d.Status = constants.DocStatusError
			d.RawOutput = raw
			d.Error = failErr.Error()
			return nil
		})
		p.logger.Error("document.process.failed",
			"doc_id", docID,
			"error", failErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return failErr
	}

	templateID := result.TemplateID
	if templateID == constants.TemplateUnknown {
		// normal outcome: the classifier found no match
		templateID = ""
	}
	_, err = p.store.Update(docID, func(d *Document) error {
		d.Status = constants.DocStatusReview
		d.TemplateID = templateID
		d.Data = result.Data
		d.RawOutput = raw
		return nil
	})
	if err != nil {
		return err
	}

	p.logger.Info("document.process.ok",
		"doc_id", docID,
		"template_id", templateID,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// analyze runs the model call. The raw model text is returned alongside the
// parsed verdict so the caller can record it on the document, also when the
// payload failed to parse.
func (p *Processor) analyze(ctx context.Context, doc *Document) (genai.Result, []byte, error) {
	catalog, err := p.catalog.List(ctx)
	if err != nil {
		return genai.Result{}, nil, common.WrapError(err, "load template catalog")
	}

	mime := doc.File.MIME
	payload := doc.File.Bytes
	if constants.MapMIMEToFormat(mime) == constants.PDF {
		// the model consumes the converted first-page raster, not the PDF
		payload = doc.PreviewPNG
		mime = "image/png"
	}

	result, raw, err := p.analyzer.AnalyzeDocument(ctx, genai.AnalyzeRequest{
		Bytes:        payload,
		MIMEType:     mime,
		FilenameHint: doc.File.Name,
		Catalog:      catalog,
	})
	if err != nil {
		return genai.Result{}, raw, common.WrapError(err, "解析に失敗しました")
	}
	return result, raw, nil
}

// Confirm transitions a reviewed document to completed. Completeness of the
// extracted fields is not checked; confirmation is the reviewer's call.
func (p *Processor) Confirm(docID string) (*Document, error) {
	return p.store.Update(docID, func(d *Document) error {
		if d.Status != constants.DocStatusReview && !d.HasData() {
			return common.NewAppError("LIFECYCLE",
				fmt.Sprintf("document %s has no extracted data to confirm", docID), common.ErrInvalidState)
		}
		d.Status = constants.DocStatusCompleted
		return nil
	})
}

// Edit applies a verification-editor mutation to the document's data.
// Status is untouched; the updated data is immediately visible to exports.
func (p *Processor) Edit(docID string, mutate func(*Document) error) (*Document, error) {
	return p.store.Update(docID, func(d *Document) error {
		if d.Data == nil {
			return common.NewAppError("LIFECYCLE",
				fmt.Sprintf("document %s has no extracted data", docID), common.ErrInvalidState)
		}
		return mutate(d)
	})
}
