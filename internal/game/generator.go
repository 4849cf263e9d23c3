package game

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/cyberquestjr/cyberquest/internal/catalog"
	"github.com/cyberquestjr/cyberquest/internal/llm"
)

// DefaultGenerateTimeout bounds one generated challenge, retries included.
const DefaultGenerateTimeout = 10 * time.Second

// ChallengeSchema constrains a generated challenge.
var ChallengeSchema = &llm.Schema{
	Name:        "game-challenge",
	Description: "One multiple-choice cybersecurity challenge for a child",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":    map[string]any{"type": "string", "minLength": 1},
			"question": map[string]any{"type": "string", "minLength": 1},
			"url": map[string]any{
				"type":        "string",
				"description": "A link to judge, only for link safety challenges",
			},
			"options": map[string]any{
				"type":     "array",
				"minItems": 2,
				"maxItems": 4,
				"items":    map[string]any{"type": "string", "minLength": 1},
			},
			"correct_answer": map[string]any{"type": "string", "minLength": 1},
			"explanation":    map[string]any{"type": "string", "minLength": 1},
			"hints": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"title", "question", "options", "correct_answer", "explanation"},
	},
}

const challengeSystemPrompt = `You write cybersecurity challenges for kids aged 8-18.
Challenges are friendly, concrete and have exactly one correct option.
Never include real personal data.`

// Generator writes challenges with an LLM provider.
type Generator struct {
	provider llm.Provider
	timeout  time.Duration
}

// NewGenerator creates a Generator. A zero timeout uses
// DefaultGenerateTimeout.
func NewGenerator(provider llm.Provider, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = DefaultGenerateTimeout
	}
	return &Generator{provider: provider, timeout: timeout}
}

type generated struct {
	Title         string   `json:"title"`
	Question      string   `json:"question"`
	URL           string   `json:"url"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Hints         []string `json:"hints"`
}

// Generate asks for one challenge in the style of mod at difficulty d.
func (g *Generator) Generate(ctx context.Context, mod catalog.GameModule, d catalog.Difficulty) (catalog.Challenge, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeChallenge)
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      challengeSystemPrompt,
		Messages:    llm.UserMessage(challengePrompt(mod, d)),
		Schema:      ChallengeSchema,
		MaxTokens:   600,
		Temperature: 0.8,
	})
	if err != nil {
		return catalog.Challenge{}, err
	}

	var out generated
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return catalog.Challenge{}, &llm.ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	if !slices.Contains(out.Options, out.CorrectAnswer) {
		return catalog.Challenge{}, &llm.ErrInvalidResponse{
			Content: resp.Content,
			Err:     fmt.Errorf("correct answer %q is not an option", out.CorrectAnswer),
		}
	}
	return catalog.Challenge{
		ID:            fmt.Sprintf("%s-gen", mod.Name),
		Title:         out.Title,
		Question:      out.Question,
		URL:           strings.TrimSpace(out.URL),
		Options:       out.Options,
		CorrectAnswer: out.CorrectAnswer,
		Explanation:   out.Explanation,
		Difficulty:    d,
		Points:        catalog.DefaultPoints,
		Hints:         out.Hints,
	}, nil
}

func challengePrompt(mod catalog.GameModule, d catalog.Difficulty) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create one %s level challenge for the game %q.\n", d, mod.Title)
	fmt.Fprintf(&b, "Game goal: %s\n", mod.Description)
	if len(mod.Challenges) > 0 {
		ex := mod.Challenges[0]
		fmt.Fprintf(&b, "Example question: %s\n", ex.Question)
		if ex.URL != "" {
			b.WriteString("Include a url field with a realistic safe or suspicious link to judge.\n")
		}
		fmt.Fprintf(&b, "Example options: %s\n", strings.Join(ex.Options, " | "))
	}
	b.WriteString("The correct_answer must be copied exactly from options.")
	return b.String()
}
