package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// GameSession is one play-through of a game module.
type GameSession struct {
	ent.Schema
}

func (GameSession) Mixin() []ent.Mixin {
	return []ent.Mixin{UUIDMixin{}}
}

func (GameSession) Fields() []ent.Field {
	return []ent.Field{
		field.String("player_name"),
		field.String("module_name"),
		field.Enum("status").
			Values("active", "completed", "failed").
			Default("active"),
		field.Int("lives"),
		field.Int("score").
			Default(0),
		field.Int("challenge_index").
			Default(0).
			Comment("Challenges answered so far"),
		field.Int("length").
			Comment("Challenges needed to complete the module"),
		field.Int("correct_count").
			Default(0),
		field.Int("speed_count").
			Default(0).
			Comment("Correct answers under the speed threshold"),
		field.Text("pending").
			Default("").
			Comment("JSON of the issued, unanswered challenge"),
		field.Time("started_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
		field.Time("completed_at").
			Optional().
			Nillable(),
	}
}

func (GameSession) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("player_name"),
		index.Fields("status"),
	}
}
