package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/cyberquestjr/cyberquest/internal/apperr"
)

// Starting values for a new player.
const (
	StartingLevel = 1
	StartingCoins = 100
)

type playerRepo struct {
	s *Store
}

var playerColumns = []string{"id", "name", "xp", "level", "coins", "created_at", "updated_at"}

func (r *playerRepo) Ensure(ctx context.Context, name string) (*Player, error) {
	now := time.Now().UTC()
	q, args := r.s.builder().Insert(tablePlayers).
		Columns("name", "xp", "level", "coins", "created_at", "updated_at").
		Values(name, 0, StartingLevel, StartingCoins, now, now).
		OnConflict(entsql.ConflictColumns("name"), entsql.DoNothing()).
		Query()
	if _, err := r.s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("ensure player: %w", err)
	}
	return r.Get(ctx, name)
}

func (r *playerRepo) Get(ctx context.Context, name string) (*Player, error) {
	return r.get(ctx, r.s.db, name, false)
}

func (r *playerRepo) get(ctx context.Context, db querier, name string, lock bool) (*Player, error) {
	b := r.s.builder()
	sel := b.Select(playerColumns...).
		From(b.Table(tablePlayers)).
		Where(entsql.EQ("name", name))
	if lock && r.s.dialect == dialect.Postgres {
		sel.ForUpdate()
	}
	q, args := sel.Query()

	var p Player
	err := db.QueryRowContext(ctx, q, args...).
		Scan(&p.ID, &p.Name, &p.XP, &p.Level, &p.Coins, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("player %q not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}
	return &p, nil
}

func (r *playerRepo) Update(ctx context.Context, name string, fn func(*Player) error) (*Player, error) {
	var out *Player
	err := r.s.inTx(ctx, func(tx *sql.Tx) error {
		p, err := r.update(ctx, tx, name, fn)
		out = p
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// update locks the player row, applies fn and writes it back within tx.
func (r *playerRepo) update(ctx context.Context, tx *sql.Tx, name string, fn func(*Player) error) (*Player, error) {
	p, err := r.get(ctx, tx, name, true)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now().UTC()

	q, args := r.s.builder().Update(tablePlayers).
		Set("xp", p.XP).
		Set("level", p.Level).
		Set("coins", p.Coins).
		Set("updated_at", p.UpdatedAt).
		Where(entsql.EQ("name", name)).
		Query()
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("update player: %w", err)
	}
	return p, nil
}
