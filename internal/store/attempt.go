package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

type attemptRepo struct {
	s *Store
}

var attemptColumns = []string{
	"id", "display_name", "quiz_type", "score", "tier", "correct", "total",
	"weak_areas", "strong_areas", "created_at",
}

func (r *attemptRepo) Record(ctx context.Context, a *QuizAttempt) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	q, args := r.s.builder().Insert(tableAttempts).
		Columns(attemptColumns...).
		Values(a.ID, a.DisplayName, a.QuizType, a.Score, a.Tier, a.Correct, a.Total,
			encodeStrings(a.WeakAreas), encodeStrings(a.StrongAreas), a.CreatedAt).
		Query()
	if _, err := r.s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("save quiz attempt: %w", err)
	}
	return nil
}

func (r *attemptRepo) Recent(ctx context.Context, limit int) ([]QuizAttempt, error) {
	return r.list(ctx, nil, limit)
}

func (r *attemptRepo) ByPlayer(ctx context.Context, displayName string, limit int) ([]QuizAttempt, error) {
	return r.list(ctx, entsql.EQ("display_name", displayName), limit)
}

func (r *attemptRepo) list(ctx context.Context, where *entsql.Predicate, limit int) ([]QuizAttempt, error) {
	sel := r.s.builder().Select(attemptColumns...).
		From(r.s.builder().Table(tableAttempts)).
		OrderBy(entsql.Desc("created_at"))
	if where != nil {
		sel.Where(where)
	}
	if limit > 0 {
		sel.Limit(limit)
	}
	q, args := sel.Query()
	rows, err := r.s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz attempts: %w", err)
	}
	defer rows.Close()

	var out []QuizAttempt
	for rows.Next() {
		var (
			a            QuizAttempt
			weak, strong sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.DisplayName, &a.QuizType, &a.Score, &a.Tier,
			&a.Correct, &a.Total, &weak, &strong, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quiz attempt: %w", err)
		}
		a.WeakAreas = decodeStrings(weak)
		a.StrongAreas = decodeStrings(strong)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *attemptRepo) Stats(ctx context.Context) (AttemptStats, error) {
	stats := AttemptStats{ByTier: map[string]int{}}
	b := r.s.builder()

	q, args := b.Select(
		entsql.Count("*"),
		entsql.Count("DISTINCT display_name"),
		"COALESCE("+entsql.Avg("score")+", 0)",
	).From(b.Table(tableAttempts)).Query()
	if err := r.s.db.QueryRowContext(ctx, q, args...).Scan(&stats.Attempts, &stats.Players, &stats.AverageScore); err != nil {
		return stats, fmt.Errorf("aggregate quiz attempts: %w", err)
	}

	q, args = b.Select("tier", entsql.Count("*")).
		From(b.Table(tableAttempts)).
		GroupBy("tier").
		Query()
	rows, err := r.s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return stats, fmt.Errorf("count attempts by tier: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			tier string
			n    int
		)
		if err := rows.Scan(&tier, &n); err != nil {
			return stats, fmt.Errorf("scan tier count: %w", err)
		}
		stats.ByTier[tier] = n
	}
	return stats, rows.Err()
}

// encodeStrings renders a string list for a JSON column. Nil stays NULL.
func encodeStrings(v []string) any {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return string(data)
}

func decodeStrings(v sql.NullString) []string {
	out := []string{}
	if !v.Valid || v.String == "" {
		return out
	}
	if err := json.Unmarshal([]byte(v.String), &out); err != nil {
		return []string{}
	}
	return out
}
