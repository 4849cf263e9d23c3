// Package llm is the provider-neutral client for hosted text generation.
// Course synthesis, challenge generation and companion speech go through
// the Provider interface; every caller treats a failure as a cue to fall
// back to static content.
package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider generates text or schema-constrained JSON.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set the Content is JSON already validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes a single generation call.
type Request struct {
	// System sets the model's role, e.g. the companion persona.
	System string

	// Messages is the conversation. Single-turn calls carry one user message.
	Messages []Message

	// Schema, when set, asks the provider for structured JSON output.
	// When nil the response Content is the raw text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0,1]. Zero leaves the provider default.
	Temperature float64
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserMessage is shorthand for a one-message conversation.
func UserMessage(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}

// Schema is a named JSON Schema the response must satisfy.
type Schema struct {
	// Name identifies the schema to the provider, kebab-case, e.g.
	// "learning-course".
	Name        string
	Description string
	Definition  map[string]any
}

// Response holds the model output.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Text returns the content as plain text. Content that is a JSON string
// literal is unquoted.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	raw := strings.TrimSpace(string(r.Content))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(r.Content, &s); err == nil {
			return strings.TrimSpace(s)
		}
	}
	return raw
}

// Usage is the token consumption of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
