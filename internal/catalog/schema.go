package catalog

// Schema is the JSON schema of a catalog file.
var Schema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"courses": map[string]any{
			"type":  "array",
			"items": courseSchema,
		},
	},
	"required":             []any{"courses"},
	"additionalProperties": false,
}

var courseSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":    idSchema,
		"title": map[string]any{"type": "string", "minLength": 1},
		"modules": map[string]any{
			"type":  "array",
			"items": moduleSchema,
		},
	},
	"required":             []any{"id", "title", "modules"},
	"additionalProperties": false,
}

var moduleSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":    idSchema,
		"title": map[string]any{"type": "string", "minLength": 1},
		"order": map[string]any{"type": "integer"},
		"lessons": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":    idSchema,
					"title": map[string]any{"type": "string", "minLength": 1},
					"order": map[string]any{"type": "integer"},
				},
				"required":             []any{"id", "title", "order"},
				"additionalProperties": false,
			},
		},
		"quizzes": map[string]any{
			"type":  "array",
			"items": quizSchema,
		},
	},
	"required":             []any{"id", "title", "order"},
	"additionalProperties": false,
}

var quizSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":                    idSchema,
		"title":                 map[string]any{"type": "string", "minLength": 1},
		"description":           map[string]any{"type": "string"},
		"time_limit_minutes":    map[string]any{"type": "integer", "minimum": 1},
		"passing_score_percent": map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
		"questions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":        idSchema,
					"text":      map[string]any{"type": "string", "minLength": 1},
					"type":      map[string]any{"type": "string", "enum": []any{"SINGLE", "MULTIPLE", "TRUEFALSE"}},
					"weight":    map[string]any{"type": "integer", "minimum": 1},
					"image_url": map[string]any{"type": "string"},
					"options": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"id":         idSchema,
								"text":       map[string]any{"type": "string", "minLength": 1},
								"is_correct": map[string]any{"type": "boolean"},
							},
							"required":             []any{"id", "text"},
							"additionalProperties": false,
						},
					},
				},
				"required":             []any{"id", "text", "type", "weight", "options"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []any{"id", "title", "passing_score_percent", "questions"},
	"additionalProperties": false,
}

var idSchema = map[string]any{
	"type":    "string",
	"pattern": "^[A-Za-z0-9][A-Za-z0-9._-]*$",
}
