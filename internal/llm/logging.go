package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cyberquestjr/cyberquest/internal/store"
)

// EventLog receives one record per LLM request.
type EventLog interface {
	AppendLLMRequest(ctx context.Context, e store.LLMEvent) error
}

// LoggingProvider records every request it forwards.
type LoggingProvider struct {
	inner    Provider
	provider string
	log      EventLog
}

// WithLogging wraps p so each request is appended to log under the given
// provider name.
func WithLogging(p Provider, provider string, log EventLog) Provider {
	return &LoggingProvider{inner: p, provider: provider, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	e := store.LLMEvent{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		e.InputTokens = resp.Usage.InputTokens
		e.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			e.Model = resp.Model
		}
		e.ResponseBody = string(resp.Content)
	}
	if err != nil {
		e.ErrorMessage = err.Error()
	}

	// The request context may already be done; the record still goes in.
	if logErr := l.log.AppendLLMRequest(context.WithoutCancel(ctx), e); logErr != nil {
		log.Printf("warning: failed to log LLM request: %v", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest renders a request the way it is stored for inspection.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
