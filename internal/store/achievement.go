package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type achievementRepo struct {
	s *Store
}

func (r *achievementRepo) Award(ctx context.Context, a *Achievement, apply func(*Player) error) (bool, error) {
	if a.AwardedAt.IsZero() {
		a.AwardedAt = time.Now().UTC()
	}
	var created bool
	err := r.s.inTx(ctx, func(tx *sql.Tx) error {
		q, args := r.s.builder().Insert(tableAchievements).
			Columns("player_name", "type", "title", "description", "icon", "xp", "session_id", "awarded_at").
			Values(a.PlayerName, a.Type, a.Title, a.Description, a.Icon, a.XP, a.SessionID, a.AwardedAt).
			OnConflict(entsql.ConflictColumns("player_name", "type"), entsql.DoNothing()).
			Query()
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return fmt.Errorf("award achievement: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("award achievement: %w", err)
		}
		if n == 0 || apply == nil {
			created = n > 0
			return nil
		}
		players := &playerRepo{r.s}
		if _, err := players.update(ctx, tx, a.PlayerName, apply); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *achievementRepo) List(ctx context.Context, playerName string) ([]Achievement, error) {
	b := r.s.builder()
	q, args := b.Select("id", "player_name", "type", "title", "description", "icon", "xp", "session_id", "awarded_at").
		From(b.Table(tableAchievements)).
		Where(entsql.EQ("player_name", playerName)).
		OrderBy("awarded_at", "id").
		Query()
	rows, err := r.s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query achievements: %w", err)
	}
	defer rows.Close()

	out := []Achievement{}
	for rows.Next() {
		var a Achievement
		if err := rows.Scan(&a.ID, &a.PlayerName, &a.Type, &a.Title, &a.Description,
			&a.Icon, &a.XP, &a.SessionID, &a.AwardedAt); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
