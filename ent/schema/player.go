package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Player is a game profile, created on the first session start.
type Player struct {
	ent.Schema
}

func (Player) Mixin() []ent.Mixin {
	return []ent.Mixin{CreatedMixin{}}
}

func (Player) Fields() []ent.Field {
	return []ent.Field{
		field.String("name").
			Unique(),
		field.Int("xp").
			Default(0),
		field.Int("level").
			Default(1),
		field.Int("coins").
			Default(100),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}
