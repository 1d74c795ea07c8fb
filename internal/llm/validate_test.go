package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-spell-result",
		Description: "A spell check result",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"correctedText": map[string]any{"type": "string"},
				"errorsFound":   map[string]any{"type": "boolean"},
				"speaker":       map[string]any{"type": "string", "enum": []any{"hero", "mentor"}},
			},
			"required": []any{"correctedText", "errorsFound"},
		},
	}
}

func TestValidateResponse_ValidJSON(t *testing.T) {
	raw := json.RawMessage(`{"correctedText":"The cat sat.","errorsFound":true,"speaker":"mentor"}`)
	if err := validateResponse(testSchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateResponse_ValidWithoutOptional(t *testing.T) {
	raw := json.RawMessage(`{"correctedText":"Hi.","errorsFound":false}`)
	if err := validateResponse(testSchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateResponse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing required", `{"correctedText":"Hi."}`},
		{"wrong type", `{"correctedText":"Hi.","errorsFound":"yes"}`},
		{"invalid enum", `{"correctedText":"Hi.","errorsFound":false,"speaker":"villain"}`},
		{"malformed JSON", `{not json}`},
		{"empty response", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(testSchema(), json.RawMessage(tt.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			var invErr *ErrInvalidResponse
			if !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidResponse, got: %T", err)
			}
			if Kind(err) != "invalid_response" {
				t.Fatalf("Kind = %q, want invalid_response", Kind(err))
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	raw := json.RawMessage(`{"anything":"goes"}`)
	if err := validateResponse(nil, raw); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_ArrayBounds(t *testing.T) {
	schema := &Schema{
		Name:        "test-tips",
		Description: "Exactly two tips",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tips": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 2,
					"maxItems": 2,
				},
			},
			"required": []any{"tips"},
		},
	}

	valid := json.RawMessage(`{"tips":["Capitalize names.","End with a period."]}`)
	if err := validateResponse(schema, valid); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	for _, raw := range []string{`{"tips":["one"]}`, `{"tips":["a","b","c"]}`, `{"tips":[1,2]}`} {
		if err := validateResponse(schema, json.RawMessage(raw)); err == nil {
			t.Fatalf("expected error for %s", raw)
		}
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&ErrRateLimit{}, "rate_limited"},
		{&ErrProviderUnavailable{}, "unavailable"},
		{&ErrMaxTokensExceeded{}, "max_tokens"},
		{ErrNoImage, "no_image"},
		{ErrImageUnsupported, "unsupported"},
		{errors.New("boom"), "other"},
	}
	for _, tt := range tests {
		if got := Kind(tt.err); got != tt.want {
			t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestValidateResponse_Check(t *testing.T) {
	schema := testSchema()
	schema.Name = "test-spell-result-checked"
	schema.Check = func(raw json.RawMessage) error {
		var v struct {
			CorrectedText string `json:"correctedText"`
		}
		_ = json.Unmarshal(raw, &v)
		if v.CorrectedText == "" {
			return errors.New("empty corrected text")
		}
		return nil
	}

	if err := validateResponse(schema, json.RawMessage(`{"correctedText":"ok","errorsFound":false}`)); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	err := validateResponse(schema, json.RawMessage(`{"correctedText":"","errorsFound":false}`))
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse from check, got: %v", err)
	}
}
