package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// CourseRecord keeps every synthesized course for audit.
type CourseRecord struct {
	ent.Schema
}

func (CourseRecord) Mixin() []ent.Mixin {
	return []ent.Mixin{UUIDMixin{}, CreatedMixin{}}
}

func (CourseRecord) Fields() []ent.Field {
	return []ent.Field{
		field.String("tier"),
		field.Enum("strategy").
			Values("generated", "static", "cached"),
		field.String("title"),
		field.Float("score"),
		field.Strings("weak_areas").
			Optional(),
		field.Text("course").
			Comment("Course JSON as returned to the client"),
	}
}

func (CourseRecord) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("strategy"),
	}
}
