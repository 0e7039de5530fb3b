package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config for the generative-model client.
type Config struct {
	APIKey      string
	BaseURL     string // default https://generativelanguage.googleapis.com/v1beta
	Model       string // e.g. "gemini-3-pro-preview"
	Temperature float32
	Timeout     time.Duration
}

// Client implements DocumentAnalyzer against the generateContent REST API.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-3-pro-preview"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// generateContent request/response wire shapes (the subset used here).
type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	GenerationConfig  struct {
		Temperature      float32 `json:"temperature"`
		ResponseMIMEType string  `json:"responseMimeType,omitempty"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// AnalyzeDocument sends the document image and the rendered catalog to the
// model and decodes the {templateId, data} verdict. Any transport, decode or
// schema failure is returned as an error for this document alone.
func (c *Client) AnalyzeDocument(ctx context.Context, req AnalyzeRequest) (Result, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("genai.analyze.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"mime", req.MIMEType,
		"bytes", len(req.Bytes),
		"templates", len(req.Catalog),
	)

	body := generateRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{
					MIMEType: req.MIMEType,
					Data:     base64.StdEncoding.EncodeToString(req.Bytes),
				}},
				{Text: buildUserPrompt(req.FilenameHint)},
			},
		}},
		SystemInstruction: &content{Parts: []part{{Text: buildSystemInstruction(req.Catalog)}}},
	}
	body.GenerationConfig.Temperature = c.cfg.Temperature
	body.GenerationConfig.ResponseMIMEType = "application/json"

	endpoint := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model)
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.logger.Error("genai.analyze.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{}, nil, err
	}

	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		c.logger.Error("genai.analyze.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{}, raw, fmt.Errorf("decode generateContent response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		c.logger.Error("genai.analyze.no_candidates",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{}, raw, fmt.Errorf("no candidates in model response")
	}
	text := strings.TrimSpace(gr.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return Result{}, raw, fmt.Errorf("empty model response")
	}

	result, err := ParseResult([]byte(text))
	if err != nil {
		c.logger.Error("genai.analyze.parse_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{}, []byte(text), err
	}

	c.logger.Info("genai.analyze.ok",
		"req_id", rid,
		"template_id", result.TemplateID,
		"scalars", len(result.Data.Scalars),
		"tables", len(result.Data.Tables),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, []byte(text), nil
}

func (c *Client) post(ctx context.Context, url string, body any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("genai http error: %w", err)
	}
	defer func(rc io.ReadCloser) {
		if err := rc.Close(); err != nil {
			c.logger.Warn("genai response body close error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("genai status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
