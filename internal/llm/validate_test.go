package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func querySchema() *Schema {
	return &Schema{
		Name:        "mark-query",
		Description: "A selection over the marks table",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"operation": map[string]any{
					"type": "string",
					"enum": []string{"ALL", "BY_GRADE", "BY_TOTAL_RANGE", "BY_TOLERANCE", "BY_ASSIGNMENT1"},
				},
				"params": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required":             []string{"operation", "params"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"valid", `{"operation":"BY_TOTAL_RANGE","params":["40","60"]}`, true},
		{"empty params", `{"operation":"ALL","params":[]}`, true},
		{"missing params", `{"operation":"ALL"}`, false},
		{"unknown operation", `{"operation":"DELETE","params":[]}`, false},
		{"number param", `{"operation":"BY_TOLERANCE","params":[3]}`, false},
		{"extra field", `{"operation":"ALL","params":[],"sql":"x"}`, false},
		{"malformed", `{"operation":`, false},
		{"empty", ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(querySchema(), json.RawMessage(tt.raw))
			if tt.valid {
				if err != nil {
					t.Fatalf("expected no error, got: %v", err)
				}
				return
			}
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
			}
			if string(inv.Content) != tt.raw {
				t.Fatalf("expected offending content to be kept, got %q", inv.Content)
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not json`)); err != nil {
		t.Fatalf("nil schema should accept anything, got: %v", err)
	}
}

func TestValidateResponse_BadDefinition(t *testing.T) {
	s := &Schema{Name: "broken-definition", Definition: map[string]any{"type": 12}}
	err := validateResponse(s, json.RawMessage(`{}`))
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
	}
}

func TestDecode(t *testing.T) {
	var out struct {
		Operation string   `json:"operation"`
		Params    []string `json:"params"`
	}
	resp := &Response{Content: json.RawMessage(`{"operation":"BY_GRADE","params":["P"]}`)}
	if err := Decode(resp, querySchema(), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Operation != "BY_GRADE" || len(out.Params) != 1 || out.Params[0] != "P" {
		t.Fatalf("unexpected decode: %+v", out)
	}
}
