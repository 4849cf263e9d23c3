package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
			"level": map[string]any{"type": "string", "enum": []any{"beginner", "advanced"}},
			"modules": map[string]any{
				"type":     "array",
				"minItems": 3,
				"maxItems": 8,
				"items":    map[string]any{"type": "object"},
			},
		},
		"required": []string{"title", "modules"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(schema.Properties))
	}
	if len(schema.Properties["level"].Enum) != 2 {
		t.Fatalf("expected 2 enum values, got %d", len(schema.Properties["level"].Enum))
	}
	modules := schema.Properties["modules"]
	if modules.Type != genai.TypeArray || modules.Items.Type != genai.TypeObject {
		t.Fatalf("unexpected modules schema: %+v", modules)
	}
	if modules.MinItems == nil || *modules.MinItems != 3 || modules.MaxItems == nil || *modules.MaxItems != 8 {
		t.Fatalf("expected item bounds 3..8, got %v..%v", modules.MinItems, modules.MaxItems)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(t.Context(), GeminiConfig{Model: "gemini-flash"}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
