// Package course synthesizes a personalized learning course from assessment
// results. A configured LLM provider generates the course; any failure falls
// back to a hand-authored template for the learner's tier.
package course

import (
	"github.com/cyberquestjr/cyberquest/internal/assessment"
)

// Course is an ordered list of learning modules for one tier.
type Course struct {
	Title             string          `json:"title" yaml:"title"`
	Description       string          `json:"description" yaml:"description"`
	SkillLevel        assessment.Tier `json:"skill_level" yaml:"skill_level"`
	Modules           []Module        `json:"modules" yaml:"modules"`
	EstimatedDuration string          `json:"estimated_duration" yaml:"estimated_duration"`
}

// Module is one entry of a course.
type Module struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
	Duration    string `json:"duration" yaml:"duration"`
	Difficulty  string `json:"difficulty" yaml:"difficulty"`
}

// Clone returns a deep copy of c.
func (c Course) Clone() Course {
	out := c
	out.Modules = append([]Module(nil), c.Modules...)
	return out
}

// Strategy names how a course was produced.
type Strategy string

const (
	StrategyGenerated Strategy = "generated"
	StrategyStatic    Strategy = "static"
	StrategyCached    Strategy = "cached"
)

// Request is the input to course synthesis.
type Request struct {
	Tier   assessment.Tier
	Weak   []assessment.Topic
	Strong []assessment.Topic
	Score  float64
}
