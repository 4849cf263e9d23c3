package course

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cyberquestjr/cyberquest/internal/assessment"
)

//go:embed templates/courses.yaml
var templateFS embed.FS

var templates = mustLoadTemplates()

func mustLoadTemplates() map[assessment.Tier]Course {
	data, err := templateFS.ReadFile("templates/courses.yaml")
	if err != nil {
		panic(fmt.Sprintf("course: read templates: %v", err))
	}
	out, err := parseTemplates(data)
	if err != nil {
		panic(fmt.Sprintf("course: %v", err))
	}
	return out
}

func parseTemplates(data []byte) (map[assessment.Tier]Course, error) {
	var raw map[assessment.Tier]Course
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	for _, tier := range assessment.AllTiers {
		c, ok := raw[tier]
		if !ok {
			return nil, fmt.Errorf("missing template for tier %q", tier)
		}
		if err := Validate(c); err != nil {
			return nil, fmt.Errorf("template %q: %w", tier, err)
		}
	}
	return raw, nil
}

// Static returns a copy of the hand-authored course for tier. Unknown
// tiers get the beginner course.
func Static(tier assessment.Tier) Course {
	c, ok := templates[tier]
	if !ok {
		c = templates[assessment.Beginner]
	}
	return c.Clone()
}
