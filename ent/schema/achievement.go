package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Achievement is an award granted at most once per player and type.
type Achievement struct {
	ent.Schema
}

func (Achievement) Fields() []ent.Field {
	return []ent.Field{
		field.String("player_name"),
		field.String("type"),
		field.String("title"),
		field.String("description").
			Default(""),
		field.String("icon").
			Default(""),
		field.Int("xp"),
		field.String("session_id").
			Default("").
			Comment("Session that triggered the award"),
		field.Time("awarded_at").
			Default(time.Now).
			Immutable(),
	}
}

func (Achievement) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("player_name", "type").
			Unique(),
	}
}
