package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/cyberquestjr/cyberquest/internal/apperr"
)

type llmEventRepo struct {
	s *Store
}

var llmEventColumns = []string{
	"id", "provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms",
	"success", "error_message", "request_body", "response_body", "created_at",
}

func (r *llmEventRepo) AppendLLMRequest(ctx context.Context, e LLMEvent) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	q, args := r.s.builder().Insert(tableLLMEvents).
		Columns(llmEventColumns[1:]...).
		Values(e.Provider, e.Model, e.Purpose, e.InputTokens, e.OutputTokens, e.LatencyMs,
			e.Success, e.ErrorMessage, e.RequestBody, e.ResponseBody, e.CreatedAt).
		Query()
	if _, err := r.s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *llmEventRepo) List(ctx context.Context, limit int) ([]LLMEvent, error) {
	b := r.s.builder()
	sel := b.Select(llmEventColumns...).
		From(b.Table(tableLLMEvents)).
		OrderBy(entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}
	q, args := sel.Query()
	rows, err := r.s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *llmEventRepo) Get(ctx context.Context, id int) (*LLMEvent, error) {
	b := r.s.builder()
	q, args := b.Select(llmEventColumns...).
		From(b.Table(tableLLMEvents)).
		Where(entsql.EQ("id", id)).
		Query()
	e, err := scanLLMEvent(r.s.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("event %d not found", id)
	}
	return e, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLLMEvent(row rowScanner) (*LLMEvent, error) {
	var e LLMEvent
	err := row.Scan(&e.ID, &e.Provider, &e.Model, &e.Purpose, &e.InputTokens, &e.OutputTokens,
		&e.LatencyMs, &e.Success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan LLM event: %w", err)
	}
	return &e, nil
}

func (r *llmEventRepo) UsageByPurpose(ctx context.Context) ([]LLMUsageStats, error) {
	b := r.s.builder()
	q, args := b.Select(
		"purpose",
		entsql.Count("*"),
		"COALESCE("+entsql.Sum("input_tokens")+", 0)",
		"COALESCE("+entsql.Sum("output_tokens")+", 0)",
		"COALESCE("+entsql.Avg("latency_ms")+", 0)",
	).
		From(b.Table(tableLLMEvents)).
		GroupBy("purpose").
		OrderBy("purpose").
		Query()
	rows, err := r.s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM usage: %w", err)
	}
	defer rows.Close()

	var out []LLMUsageStats
	for rows.Next() {
		var (
			st  LLMUsageStats
			avg float64
		)
		if err := rows.Scan(&st.Purpose, &st.Calls, &st.InputTokens, &st.OutputTokens, &avg); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		st.AvgLatencyMs = int64(avg)
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *llmEventRepo) UsageByModel(ctx context.Context) ([]LLMModelUsage, error) {
	b := r.s.builder()
	q, args := b.Select(
		"model",
		entsql.Count("*"),
		"COALESCE("+entsql.Sum("input_tokens")+", 0)",
		"COALESCE("+entsql.Sum("output_tokens")+", 0)",
	).
		From(b.Table(tableLLMEvents)).
		GroupBy("model").
		OrderBy("model").
		Query()
	rows, err := r.s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM model usage: %w", err)
	}
	defer rows.Close()

	var out []LLMModelUsage
	for rows.Next() {
		var mu LLMModelUsage
		if err := rows.Scan(&mu.Model, &mu.Calls, &mu.InputTokens, &mu.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan LLM model usage: %w", err)
		}
		out = append(out, mu)
	}
	return out, rows.Err()
}
