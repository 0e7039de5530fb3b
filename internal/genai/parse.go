package genai

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/extraction"
)

// envelopeSchema constrains the model's outer payload before any decoding:
// a templateId string and a data object. Field-level shapes are left to the
// Cell/Data decoders, which tolerate both bare and annotated values.
func envelopeSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"templateId", "data"},
		"properties": map[string]any{
			"templateId": map[string]any{"type": "string", "minLength": 1},
			"data":       map[string]any{"type": "object"},
		},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// StripCodeFence removes a surrounding markdown code fence (``` or
// ```json) when the model wraps its JSON in one.
func StripCodeFence(raw []byte) []byte {
	s := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(s, []byte("```")) {
		return s
	}
	s = bytes.TrimPrefix(s, []byte("```"))
	if idx := bytes.IndexByte(s, '\n'); idx >= 0 {
		// drop the language tag line (e.g. "json")
		s = s[idx+1:]
	}
	s = bytes.TrimSuffix(bytes.TrimSpace(s), []byte("```"))
	return bytes.TrimSpace(s)
}

// ParseResult validates and decodes the model's payload into a Result.
func ParseResult(raw []byte) (Result, error) {
	content := StripCodeFence(raw)
	if err := ValidateJSONAgainstSchema(envelopeSchema(), content); err != nil {
		return Result{}, err
	}
	var wire struct {
		TemplateID string           `json:"templateId"`
		Data       *extraction.Data `json:"data"`
	}
	if err := json.Unmarshal(content, &wire); err != nil {
		return Result{}, fmt.Errorf("decode analyze payload: %w", err)
	}
	if wire.Data == nil {
		wire.Data = extraction.NewData()
	}
	return Result{TemplateID: wire.TemplateID, Data: wire.Data}, nil
}
