package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/cyberquestjr/cyberquest/internal/apperr"
)

type courseRepo struct {
	s *Store
}

var courseColumns = []string{"id", "tier", "strategy", "title", "score", "weak_areas", "course", "created_at"}

func (r *courseRepo) Save(ctx context.Context, c *CourseRecord) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	q, args := r.s.builder().Insert(tableCourses).
		Columns(courseColumns...).
		Values(c.ID, c.Tier, c.Strategy, c.Title, c.Score, encodeStrings(c.WeakAreas), c.Course, c.CreatedAt).
		Query()
	if _, err := r.s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("save course record: %w", err)
	}
	return nil
}

func (r *courseRepo) Get(ctx context.Context, id string) (*CourseRecord, error) {
	b := r.s.builder()
	q, args := b.Select(courseColumns...).
		From(b.Table(tableCourses)).
		Where(entsql.EQ("id", id)).
		Query()

	var (
		c    CourseRecord
		weak sql.NullString
	)
	err := r.s.db.QueryRowContext(ctx, q, args...).
		Scan(&c.ID, &c.Tier, &c.Strategy, &c.Title, &c.Score, &weak, &c.Course, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("course %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get course record: %w", err)
	}
	c.WeakAreas = decodeStrings(weak)
	return &c, nil
}
