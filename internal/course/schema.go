package course

import "github.com/cyberquestjr/cyberquest/internal/llm"

// CourseSchema constrains the LLM response to the course shape.
var CourseSchema = &llm.Schema{
	Name:        "learning-course",
	Description: "A personalized cybersecurity course for a child",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Engaging course title for kids, may start with one emoji",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "Fun description that motivates learning",
			},
			"skill_level": map[string]any{
				"type": "string",
				"enum": []any{"beginner", "intermediate", "advanced"},
			},
			"modules": map[string]any{
				"type":     "array",
				"minItems": MinModules,
				"maxItems": MaxModules,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":        map[string]any{"type": "string", "minLength": 1, "description": "Exciting module name"},
						"description": map[string]any{"type": "string", "minLength": 1, "description": "What the learner will do"},
						"icon":        map[string]any{"type": "string", "minLength": 1, "description": "A single emoji"},
						"duration":    map[string]any{"type": "string", "minLength": 1, "description": "Time estimate like '15 mins'"},
						"difficulty":  map[string]any{"type": "string"},
					},
					"required": []any{"name", "description", "icon", "duration"},
				},
			},
			"estimated_duration": map[string]any{
				"type":        "string",
				"description": "Total course duration",
			},
		},
		"required": []any{"title", "description", "modules"},
	},
}
