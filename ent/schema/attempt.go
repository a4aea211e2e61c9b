package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Attempt is a graded submission. Rows are never updated.
type Attempt struct {
	ent.Schema
}

func (Attempt) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable(),
		field.String("token").
			Unique().
			Immutable().
			Comment("Client submission token; replays return the stored attempt"),
		field.String("quiz_id").
			Immutable(),
		field.String("user_id").
			Immutable(),
		field.String("revision").
			Immutable(),
		field.Text("answers").
			Immutable().
			Comment("JSON-encoded submitted answers"),
		field.Int("score").
			Immutable(),
		field.Int("max_score").
			Immutable(),
		field.Int("percentage").
			Immutable(),
		field.Bool("passed").
			Immutable(),
		field.Time("submitted_at").
			Immutable(),
	}
}

func (Attempt) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("quiz_id", "user_id"),
	}
}
