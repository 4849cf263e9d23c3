package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuizAttempt is the log row of one scored quiz submission.
type QuizAttempt struct {
	ent.Schema
}

func (QuizAttempt) Mixin() []ent.Mixin {
	return []ent.Mixin{UUIDMixin{}, CreatedMixin{}}
}

func (QuizAttempt) Fields() []ent.Field {
	return []ent.Field{
		field.String("display_name"),
		field.String("quiz_type"),
		field.Float("score").
			Comment("Percentage correct, 0-100"),
		field.String("tier"),
		field.Int("correct"),
		field.Int("total"),
		field.Strings("weak_areas").
			Optional(),
		field.Strings("strong_areas").
			Optional(),
	}
}

func (QuizAttempt) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("display_name"),
		index.Fields("quiz_type"),
	}
}
