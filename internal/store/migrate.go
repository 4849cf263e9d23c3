package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	entsql "entgo.io/ent/dialect/sql"
	sqlschema "entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	"github.com/cyberquestjr/cyberquest/ent/schema"
)

// Table names.
const (
	tableAttempts     = "quiz_attempts"
	tableLeaderboard  = "leaderboard_entries"
	tableCourses      = "course_records"
	tableSessions     = "game_sessions"
	tablePlayers      = "players"
	tableAchievements = "achievements"
	tableLLMEvents    = "llm_request_events"
)

// entities binds each table to its ent schema definition.
var entities = []struct {
	table  string
	schema ent.Interface
}{
	{tableAttempts, schema.QuizAttempt{}},
	{tableLeaderboard, schema.LeaderboardEntry{}},
	{tableCourses, schema.CourseRecord{}},
	{tableSessions, schema.GameSession{}},
	{tablePlayers, schema.Player{}},
	{tableAchievements, schema.Achievement{}},
	{tableLLMEvents, schema.LLMRequestEvent{}},
}

// Tables converts the ent schema definitions into migration tables.
func Tables() ([]*sqlschema.Table, error) {
	tables := make([]*sqlschema.Table, 0, len(entities))
	for _, e := range entities {
		t, err := buildTable(e.table, e.schema)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func (s *Store) migrate(ctx context.Context) error {
	tables, err := Tables()
	if err != nil {
		return err
	}
	m, err := sqlschema.NewMigrate(entsql.OpenDB(s.dialect, s.db))
	if err != nil {
		return err
	}
	return m.Create(ctx, tables...)
}

func buildTable(name string, s ent.Interface) (*sqlschema.Table, error) {
	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	t := sqlschema.NewTable(name)
	hasID := false
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, d.Name, d.Err)
		}
		c := column(d)
		if c.Name == "id" {
			t.AddPrimary(c)
			hasID = true
			continue
		}
		t.AddColumn(c)
	}
	if !hasID {
		t.AddPrimary(&sqlschema.Column{Name: "id", Type: field.TypeInt, Increment: true})
	}

	for _, ix := range indexes {
		d := ix.Descriptor()
		ixName := d.StorageKey
		if ixName == "" {
			ixName = name + "_" + strings.Join(d.Fields, "_")
		}
		for _, col := range d.Fields {
			if !t.HasColumn(col) {
				return nil, fmt.Errorf("%s: index %s references unknown column %q", name, ixName, col)
			}
		}
		t.AddIndex(ixName, d.Unique, d.Fields)
	}
	return t, nil
}

// column maps a field descriptor onto a column the way ent's code
// generator does for the subset of field kinds the schema uses.
func column(d *field.Descriptor) *sqlschema.Column {
	c := &sqlschema.Column{
		Name:       d.Name,
		Type:       d.Info.Type,
		Unique:     d.Unique,
		Nullable:   d.Optional,
		SchemaType: d.SchemaType,
		Comment:    d.Comment,
	}
	if d.StorageKey != "" {
		c.Name = d.StorageKey
	}
	switch d.Info.Type {
	case field.TypeString:
		c.Size = 255
		if d.Size > 0 {
			c.Size = int64(d.Size)
		}
	case field.TypeEnum:
		for _, e := range d.Enums {
			c.Enums = append(c.Enums, e.V)
		}
	}
	// Function defaults such as time.Now are applied by the repositories.
	if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
		c.Default = d.Default
	}
	return c
}
