package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/cyberquestjr/cyberquest/internal/apperr"
)

type sessionRepo struct {
	s *Store
}

var sessionColumns = []string{
	"id", "player_name", "module_name", "status", "lives", "score", "challenge_index",
	"length", "correct_count", "speed_count", "pending", "started_at", "updated_at", "completed_at",
}

func (r *sessionRepo) Create(ctx context.Context, gs *GameSession) error {
	if gs.ID == "" {
		gs.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if gs.StartedAt.IsZero() {
		gs.StartedAt = now
	}
	if gs.UpdatedAt.IsZero() {
		gs.UpdatedAt = now
	}
	if gs.Status == "" {
		gs.Status = SessionActive
	}
	q, args := r.s.builder().Insert(tableSessions).
		Columns(sessionColumns...).
		Values(gs.ID, gs.PlayerName, gs.ModuleName, gs.Status, gs.Lives, gs.Score, gs.ChallengeIndex,
			gs.Length, gs.CorrectCount, gs.SpeedCount, gs.Pending, gs.StartedAt, gs.UpdatedAt, nullTime(gs.CompletedAt)).
		Query()
	if _, err := r.s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("create game session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*GameSession, error) {
	return r.get(ctx, r.s.db, id, false)
}

func (r *sessionRepo) get(ctx context.Context, db querier, id string, lock bool) (*GameSession, error) {
	b := r.s.builder()
	sel := b.Select(sessionColumns...).
		From(b.Table(tableSessions)).
		Where(entsql.EQ("id", id))
	if lock && r.s.dialect == dialect.Postgres {
		sel.ForUpdate()
	}
	q, args := sel.Query()

	var (
		gs        GameSession
		completed sql.NullTime
	)
	err := db.QueryRowContext(ctx, q, args...).Scan(
		&gs.ID, &gs.PlayerName, &gs.ModuleName, &gs.Status, &gs.Lives, &gs.Score, &gs.ChallengeIndex,
		&gs.Length, &gs.CorrectCount, &gs.SpeedCount, &gs.Pending, &gs.StartedAt, &gs.UpdatedAt, &completed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("session %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get game session: %w", err)
	}
	if completed.Valid {
		t := completed.Time
		gs.CompletedAt = &t
	}
	return &gs, nil
}

func (r *sessionRepo) Update(ctx context.Context, id string, fn func(*GameSession) error) (*GameSession, error) {
	var out *GameSession
	err := r.s.inTx(ctx, func(tx *sql.Tx) error {
		gs, err := r.get(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := fn(gs); err != nil {
			return err
		}
		gs.UpdatedAt = time.Now().UTC()

		q, args := r.s.builder().Update(tableSessions).
			Set("status", gs.Status).
			Set("lives", gs.Lives).
			Set("score", gs.Score).
			Set("challenge_index", gs.ChallengeIndex).
			Set("correct_count", gs.CorrectCount).
			Set("speed_count", gs.SpeedCount).
			Set("pending", gs.Pending).
			Set("updated_at", gs.UpdatedAt).
			Set("completed_at", nullTime(gs.CompletedAt)).
			Where(entsql.EQ("id", id)).
			Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("update game session: %w", err)
		}
		out = gs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sessionRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	b := r.s.builder()
	q, args := b.Select("status", entsql.Count("*")).
		From(b.Table(tableSessions)).
		GroupBy("status").
		Query()
	rows, err := r.s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan session count: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
