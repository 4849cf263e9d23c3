package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-player",
		Description: "A test player",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":  map[string]any{"type": "string"},
				"age":   map[string]any{"type": "integer", "minimum": 8},
				"level": map[string]any{"type": "string", "enum": []any{"beginner", "intermediate", "advanced"}},
			},
			"required": []any{"name", "age"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"name":"Ada","age":10,"level":"beginner"}`, false},
		{"valid without optional", `{"name":"Bob","age":12}`, false},
		{"missing required", `{"name":"Cy"}`, true},
		{"wrong type", `{"name":"Dee","age":"ten"}`, true},
		{"below minimum", `{"name":"Eve","age":3}`, true},
		{"invalid enum", `{"name":"Fay","age":9,"level":"expert"}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(testSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("expected ErrInvalidResponse, got: %T", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`plain text`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateJSON_ArrayBounds(t *testing.T) {
	schema := &Schema{
		Name: "test-bounded-list",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"modules": map[string]any{
					"type":     "array",
					"minItems": 3,
					"maxItems": 8,
					"items": map[string]any{
						"type":     "object",
						"required": []any{"name"},
					},
				},
			},
			"required": []any{"modules"},
		},
	}

	ok := json.RawMessage(`{"modules":[{"name":"a"},{"name":"b"},{"name":"c"}]}`)
	if err := ValidateJSON(schema, ok); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	tooFew := json.RawMessage(`{"modules":[{"name":"a"}]}`)
	if err := ValidateJSON(schema, tooFew); err == nil {
		t.Fatal("expected error for too few modules")
	}

	missingName := json.RawMessage(`{"modules":[{"name":"a"},{"name":"b"},{}]}`)
	if err := ValidateJSON(schema, missingName); err == nil {
		t.Fatal("expected error for module without name")
	}
}
