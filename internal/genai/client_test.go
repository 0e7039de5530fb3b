package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/template"
)

func modelReply(t *testing.T, text string) []byte {
	t.Helper()
	reply := map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	}
	b, err := json.Marshal(reply)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestAnalyzeDocument(t *testing.T) {
	var captured generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-3-pro-preview:generateContent") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(modelReply(t, `{"templateId":"tpl_order_form","data":{"order_no":"PO-001"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	result, raw, err := c.AnalyzeDocument(context.Background(), AnalyzeRequest{
		Bytes:        []byte("fake-png"),
		MIMEType:     "image/png",
		FilenameHint: "order.pdf",
		Catalog:      template.DefaultCatalog(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.TemplateID != "tpl_order_form" {
		t.Errorf("template = %q", result.TemplateID)
	}
	if got := result.Data.Scalar("order_no").String(); got != "PO-001" {
		t.Errorf("order_no = %q", got)
	}
	if len(raw) == 0 {
		t.Error("raw model text not returned")
	}

	// request carries the image inline plus the catalog instruction
	if len(captured.Contents) != 1 || len(captured.Contents[0].Parts) != 2 {
		t.Fatalf("contents shape = %+v", captured.Contents)
	}
	img := captured.Contents[0].Parts[0].InlineData
	if img == nil || img.MIMEType != "image/png" {
		t.Fatalf("inline data = %+v", img)
	}
	if data, _ := base64.StdEncoding.DecodeString(img.Data); string(data) != "fake-png" {
		t.Errorf("inline payload = %q", data)
	}
	if captured.SystemInstruction == nil ||
		!strings.Contains(captured.SystemInstruction.Parts[0].Text, "tpl_order_form") {
		t.Error("system instruction is missing the catalog")
	}
	if captured.GenerationConfig.ResponseMIMEType != "application/json" {
		t.Errorf("responseMimeType = %q", captured.GenerationConfig.ResponseMIMEType)
	}
}

func TestAnalyzeDocumentHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	_, _, err := c.AnalyzeDocument(context.Background(), AnalyzeRequest{MIMEType: "image/png"})
	if err == nil {
		t.Fatal("expected error for HTTP 429")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("err = %v", err)
	}
}

func TestAnalyzeDocumentNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	_, _, err := c.AnalyzeDocument(context.Background(), AnalyzeRequest{MIMEType: "image/png"})
	if err == nil || !strings.Contains(err.Error(), "no candidates") {
		t.Errorf("err = %v", err)
	}
}

func TestAnalyzeDocumentBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(modelReply(t, `{"data":{}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	_, raw, err := c.AnalyzeDocument(context.Background(), AnalyzeRequest{MIMEType: "image/png"})
	if err == nil {
		t.Fatal("expected schema error")
	}
	if string(raw) != `{"data":{}}` {
		t.Errorf("raw = %q, want the failing model text for diagnostics", raw)
	}
}
