package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Quiz points at the current revision of a quiz definition.
type Quiz struct {
	ent.Schema
}

func (Quiz) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable(),
		field.String("course_id"),
		field.String("module_id"),
		field.String("title"),
		field.String("revision").
			Comment("Revision served to new attempts"),
		field.Time("updated_at").
			Default(time.Now),
	}
}

func (Quiz) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("course_id"),
	}
}

// QuizRevision keeps every definition a quiz has had, so an attempt started
// against an older revision is graded against that revision.
type QuizRevision struct {
	ent.Schema
}

func (QuizRevision) Fields() []ent.Field {
	return []ent.Field{
		field.String("quiz_id").
			Immutable(),
		field.String("revision").
			Immutable().
			Comment("Content hash of the definition"),
		field.Text("definition").
			Immutable().
			Comment("JSON quiz definition including correct answers"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (QuizRevision) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("quiz_id", "revision").
			Unique(),
	}
}
