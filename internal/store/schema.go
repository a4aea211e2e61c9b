package store

import (
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/quizdeck/ent/schema"
)

// Tables are derived from the ent schemas and migrated with ent's schema
// migrator on Open.
var (
	coursesTable       = mustTable("courses", entschema.Course{})
	modulesTable       = mustTable("modules", entschema.Module{})
	lessonsTable       = mustTable("lessons", entschema.Lesson{})
	quizzesTable       = mustTable("quizzes", entschema.Quiz{})
	quizRevisionsTable = mustTable("quiz_revisions", entschema.QuizRevision{})
	attemptsTable      = mustTable("attempts", entschema.Attempt{})
	attemptEventsTable = mustTable("attempt_events", entschema.AttemptEvent{})

	tables = []*schema.Table{
		coursesTable,
		modulesTable,
		lessonsTable,
		quizzesTable,
		quizRevisionsTable,
		attemptsTable,
		attemptEventsTable,
	}
)

func mustTable(name string, s ent.Interface) *schema.Table {
	t, err := tableFor(name, s)
	if err != nil {
		panic(fmt.Sprintf("store: schema %s: %v", name, err))
	}
	return t
}

// tableFor builds the migration table for an ent schema: mixin fields first,
// then the schema's own. A schema without an "id" field gets an
// auto-increment integer key. Index names follow ent's <type>_<fields> form.
func tableFor(name string, s ent.Interface) (*schema.Table, error) {
	var fields []ent.Field
	var indexes []ent.Index
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	t := &schema.Table{Name: name}
	byName := make(map[string]*schema.Column, len(fields)+1)
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("field %s: %w", d.Name, d.Err)
		}
		col := &schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional || d.Nillable,
			Size:     int64(d.Size),
		}
		switch v := d.Default.(type) {
		case string, bool, int, int64, float64:
			col.Default = v
		}
		if d.Name == "id" {
			col.Unique = false
			t.PrimaryKey = []*schema.Column{col}
		}
		t.Columns = append(t.Columns, col)
		byName[d.Name] = col
	}
	if t.PrimaryKey == nil {
		id := &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
		t.Columns = append([]*schema.Column{id}, t.Columns...)
		t.PrimaryKey = []*schema.Column{id}
	}

	prefix := strings.ToLower(reflect.TypeOf(s).Name())
	for _, ix := range indexes {
		d := ix.Descriptor()
		idx := &schema.Index{
			Name:   prefix + "_" + strings.Join(d.Fields, "_"),
			Unique: d.Unique,
		}
		for _, fname := range d.Fields {
			col, ok := byName[fname]
			if !ok {
				return nil, fmt.Errorf("index on unknown field %q", fname)
			}
			idx.Columns = append(idx.Columns, col)
		}
		t.Indexes = append(t.Indexes, idx)
	}
	return t, nil
}
