package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type leaderboardRepo struct {
	s *Store
}

func (r *leaderboardRepo) Record(ctx context.Context, displayName string, score float64) error {
	now := time.Now().UTC()
	best := fmt.Sprintf(
		"CASE WHEN excluded.best_score > %[1]s.best_score THEN excluded.best_score ELSE %[1]s.best_score END",
		tableLeaderboard,
	)
	q, args := r.s.builder().Insert(tableLeaderboard).
		Columns("display_name", "total_score", "quizzes_completed", "best_score", "updated_at").
		Values(displayName, score, 1, score, now).
		OnConflict(
			entsql.ConflictColumns("display_name"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.Add("total_score", score)
				u.Add("quizzes_completed", 1)
				u.Set("best_score", entsql.Expr(best))
				u.SetExcluded("updated_at")
			}),
		).
		Query()
	if _, err := r.s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("update leaderboard: %w", err)
	}
	return nil
}

func (r *leaderboardRepo) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	b := r.s.builder()
	sel := b.Select("display_name", "total_score", "quizzes_completed", "best_score", "updated_at").
		From(b.Table(tableLeaderboard)).
		OrderBy(entsql.Desc("total_score"), "display_name")
	if limit > 0 {
		sel.Limit(limit)
	}
	q, args := sel.Query()
	rows, err := r.s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		e := LeaderboardEntry{Rank: len(out) + 1}
		if err := rows.Scan(&e.DisplayName, &e.TotalScore, &e.QuizzesCompleted, &e.BestScore, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
