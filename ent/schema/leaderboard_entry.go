package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LeaderboardEntry aggregates quiz results per display name.
type LeaderboardEntry struct {
	ent.Schema
}

func (LeaderboardEntry) Fields() []ent.Field {
	return []ent.Field{
		field.String("display_name").
			Unique(),
		field.Float("total_score").
			Default(0).
			Comment("Sum of all quiz percentages"),
		field.Int("quizzes_completed").
			Default(0),
		field.Float("best_score").
			Default(0),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (LeaderboardEntry) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("total_score"),
	}
}
