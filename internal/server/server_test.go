package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/constants"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/document"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/extraction"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/genai"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/preview"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/template"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixedAnalyzer struct {
	result genai.Result
	err    error
}

func (f fixedAnalyzer) AnalyzeDocument(ctx context.Context, req genai.AnalyzeRequest) (genai.Result, []byte, error) {
	return f.result, nil, f.err
}

type passPreparer struct{}

func (passPreparer) Prepare(name string, data []byte, mime string) (preview.Result, error) {
	return preview.Result{PreviewPNG: []byte("png")}, nil
}

func testAnalyzerResult(t *testing.T) genai.Result {
	t.Helper()
	var d extraction.Data
	raw := `{
		"order_no": {"value": "PO-001", "box_2d": [10, 500, 40, 700]},
		"order_date": "2023/10/01",
		"buyer_name": "山田商事",
		"delivery_date": "2023/10/15",
		"delivery_place": "東京倉庫",
		"items": [{"product_name": "りんご", "case_quantity": "15"}]
	}`
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatal(err)
	}
	return genai.Result{TemplateID: "tpl_order_form", Data: &d}
}

func newTestServer(t *testing.T, analyzer genai.DocumentAnalyzer) (*gin.Engine, *document.Store) {
	t.Helper()
	catalog, err := template.OpenStore(context.Background(), filepath.Join(t.TempDir(), "catalog.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { catalog.Close() })

	store := document.NewStore()
	proc := document.NewProcessor(store, analyzer, passPreparer{}, catalog, slog.Default())
	return New(store, proc, catalog, slog.Default()).Router(), store
}

func multipartUpload(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newTestServer(t, fixedAnalyzer{})
	w := doJSON(r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

func TestUploadReviewConfirmExportFlow(t *testing.T) {
	r, store := newTestServer(t, fixedAnalyzer{result: testAnalyzerResult(t)})

	body, contentType := multipartUpload(t, "files", "注文書.jpg", []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusAccepted {
		t.Fatalf("upload status = %d: %s", w.Code, w.Body.String())
	}
	var uploaded struct {
		DocumentIDs []string `json:"document_ids"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &uploaded); err != nil {
		t.Fatal(err)
	}
	if len(uploaded.DocumentIDs) != 1 {
		t.Fatalf("ids = %v", uploaded.DocumentIDs)
	}
	id := uploaded.DocumentIDs[0]

	// no queue attached, so the document is already reviewed
	w = doJSON(r, http.MethodGet, "/api/documents/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var view struct {
		Status       string `json:"status"`
		TemplateID   string `json:"template_id"`
		TemplateName string `json:"template_name"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.Status != "review" || view.TemplateID != "tpl_order_form" || view.TemplateName != "注文書" {
		t.Errorf("view = %+v", view)
	}

	// reviewer edit: fix a scalar, keep its box
	w = doJSON(r, http.MethodPost, "/api/documents/"+id+"/data", map[string]any{
		"op": "set_scalar", "key": "order_no", "value": "PO-002",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("edit status = %d: %s", w.Code, w.Body.String())
	}
	doc, _ := store.Get(id)
	if doc.Data.Scalar("order_no").String() != "PO-002" {
		t.Errorf("order_no = %q", doc.Data.Scalar("order_no").String())
	}
	if _, ok := doc.Data.Scalar("order_no").Box(); !ok {
		t.Error("box lost across the edit endpoint")
	}

	w = doJSON(r, http.MethodPost, "/api/documents/"+id+"/confirm", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("confirm status = %d", w.Code)
	}
	doc, _ = store.Get(id)
	if doc.Status != constants.DocStatusCompleted {
		t.Errorf("status = %s", doc.Status)
	}

	w = doJSON(r, http.MethodGet, "/api/documents/"+id+"/export/csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, "export_") {
		t.Errorf("disposition = %q", got)
	}
	if !strings.Contains(w.Body.String(), `"PO-002"`) {
		t.Error("csv missing the edited value")
	}

	w = doJSON(r, http.MethodPost, "/api/export/unified", map[string]any{
		"document_ids": []string{id},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("unified status = %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"20231001"`) {
		t.Error("unified csv missing the normalized date")
	}
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	r, _ := newTestServer(t, fixedAnalyzer{})
	body, contentType := multipartUpload(t, "files", "macro.xlsm", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUploadFailureSetsErrorStatus(t *testing.T) {
	r, store := newTestServer(t, fixedAnalyzer{err: errors.New("model down")})

	body, contentType := multipartUpload(t, "files", "doc.png", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d", w.Code)
	}

	docs := store.List()
	if len(docs) != 1 || docs[0].Status != constants.DocStatusError {
		t.Errorf("docs = %+v", docs)
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	r, _ := newTestServer(t, fixedAnalyzer{})
	w := doJSON(r, http.MethodGet, "/api/documents/doc_missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestEditRejectsUnknownOp(t *testing.T) {
	r, store := newTestServer(t, fixedAnalyzer{})
	store.Add(&document.Document{
		ID:     "doc_r",
		Status: constants.DocStatusReview,
		Data:   extraction.NewData(),
	})

	w := doJSON(r, http.MethodPost, "/api/documents/doc_r/data", map[string]any{
		"op": "truncate", "table_key": "items",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDeletedTemplateReference(t *testing.T) {
	r, store := newTestServer(t, fixedAnalyzer{result: testAnalyzerResult(t)})

	body, contentType := multipartUpload(t, "files", "order.png", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusAccepted {
		t.Fatalf("upload status = %d", w.Code)
	}
	id := store.List()[0].ID

	w = doJSON(r, http.MethodDelete, "/api/templates/tpl_order_form", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}

	// the document keeps the dangling reference and flags it
	w = doJSON(r, http.MethodGet, "/api/documents/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var view struct {
		TemplateID      string `json:"template_id"`
		TemplateName    string `json:"template_name"`
		UnknownTemplate bool   `json:"unknown_template"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.TemplateID != "tpl_order_form" {
		t.Errorf("template_id = %q, dangling reference must survive", view.TemplateID)
	}
	if view.TemplateName != "" || !view.UnknownTemplate {
		t.Errorf("view = %+v, want unknown_template flagged with no name", view)
	}

	// per-document export needs the template layout, so it is a client error
	w = doJSON(r, http.MethodGet, "/api/documents/"+id+"/export/csv", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("export status = %d, want 404", w.Code)
	}

	// raw key/value editing stays available
	w = doJSON(r, http.MethodPost, "/api/documents/"+id+"/data", map[string]any{
		"op": "set_scalar", "key": "order_no", "value": "PO-009",
	})
	if w.Code != http.StatusOK {
		t.Errorf("edit status = %d: %s", w.Code, w.Body.String())
	}

	// the unified exporter maps by id without consulting the catalog
	w = doJSON(r, http.MethodPost, "/api/export/unified", map[string]any{
		"document_ids": []string{id},
	})
	if w.Code != http.StatusOK {
		t.Errorf("unified status = %d: %s", w.Code, w.Body.String())
	}
}

func TestUnifiedExportEmptySelection(t *testing.T) {
	r, store := newTestServer(t, fixedAnalyzer{})
	store.Add(&document.Document{ID: "doc_e", Status: constants.DocStatusError})

	w := doJSON(r, http.MethodPost, "/api/export/unified", map[string]any{
		"document_ids": []string{"doc_e"},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for nothing exportable", w.Code)
	}
}

func TestTemplateCRUD(t *testing.T) {
	r, _ := newTestServer(t, fixedAnalyzer{})

	w := doJSON(r, http.MethodGet, "/api/templates", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var listed struct {
		Templates template.Catalog `json:"templates"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed.Templates) != 4 {
		t.Fatalf("templates = %d, want the 4 defaults", len(listed.Templates))
	}

	custom := template.Template{
		ID:   "tpl_custom",
		Name: "納品書",
		Fields: []template.Field{
			{Key: "note_no", Label: "番号", Type: template.FieldString},
		},
	}
	w = doJSON(r, http.MethodPost, "/api/templates", custom)
	if w.Code != http.StatusOK {
		t.Fatalf("save status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api/templates/tpl_custom", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	w = doJSON(r, http.MethodDelete, "/api/templates/tpl_custom", nil)
	if w.Code != http.StatusOK && w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/templates/tpl_custom", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}
}

func TestSaveTemplateRejectsInvalid(t *testing.T) {
	r, _ := newTestServer(t, fixedAnalyzer{})
	bad := template.Template{ID: "tpl_bad", Name: ""}
	w := doJSON(r, http.MethodPost, "/api/templates", bad)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
