package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AttemptEvent records a preview, submission, replay or rejection.
type AttemptEvent struct {
	ent.Schema
}

func (AttemptEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AttemptEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("kind").
			Immutable(),
		field.String("quiz_id").
			Immutable(),
		field.String("user_id").
			Immutable(),
		field.String("token").
			Default("").
			Immutable(),
		field.String("detail").
			Default("").
			Immutable(),
	}
}

func (AttemptEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("quiz_id"),
	}
}
