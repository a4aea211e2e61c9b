package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Course is a top-level catalog entry.
type Course struct {
	ent.Schema
}

func (Course) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable(),
		field.String("title"),
	}
}

// Module is an ordered unit of a course.
type Module struct {
	ent.Schema
}

func (Module) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable(),
		field.String("course_id"),
		field.String("title"),
		field.Int("position").
			Default(0).
			Comment("Order of the module within its course"),
	}
}

func (Module) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("course_id"),
	}
}

// Lesson is an ordered lesson of a module.
type Lesson struct {
	ent.Schema
}

func (Lesson) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable(),
		field.String("module_id"),
		field.String("title"),
		field.Int("position").
			Default(0).
			Comment("Order of the lesson within its module"),
	}
}

func (Lesson) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("module_id"),
	}
}
