// Package catalog loads course catalogs (courses, modules, lessons and quiz
// definitions) from JSON into the store.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/quizdeck/internal/course"
	"github.com/abhisek/quizdeck/internal/quiz"
	"github.com/abhisek/quizdeck/internal/store"
)

// ErrInvalid marks a catalog that does not match the schema or whose
// content is inconsistent.
var ErrInvalid = errors.New("invalid catalog")

// File is a parsed catalog.
type File struct {
	Courses []Course `json:"courses" validate:"dive"`
}

// Course is a course with its modules.
type Course struct {
	ID      string   `json:"id" validate:"required"`
	Title   string   `json:"title" validate:"required"`
	Modules []Module `json:"modules" validate:"dive"`
}

// Module is a module with its lessons and quizzes. Quizzes inherit their
// course and module IDs from their position in the file.
type Module struct {
	ID      string          `json:"id" validate:"required"`
	Title   string          `json:"title" validate:"required"`
	Order   int             `json:"order"`
	Lessons []course.Lesson `json:"lessons"`
	Quizzes []quiz.Quiz     `json:"quizzes" validate:"dive"`
}

// Report summarizes an import.
type Report struct {
	Courses  int
	Modules  int
	Lessons  int
	Quizzes  int
	Warnings []string
	// Revisions maps each imported quiz ID to its stored revision.
	Revisions map[string]string
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value (any).
		defBytes, err := json.Marshal(Schema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://catalog.json"
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Parse validates raw against the catalog schema and decodes it.
func Parse(raw []byte) (*File, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %w", ErrInvalid, err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := validator.New().Struct(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return &f, nil
}

// Check verifies cross-references the schema cannot express and returns
// warnings for quizzes that import but cannot be passed meaningfully.
func Check(f *File) ([]string, error) {
	var warnings []string
	seen := map[string]map[string]bool{
		"course": {}, "module": {}, "lesson": {}, "quiz": {},
	}
	dup := func(kind, id string) error {
		if seen[kind][id] {
			return fmt.Errorf("%w: duplicate %s id %q", ErrInvalid, kind, id)
		}
		seen[kind][id] = true
		return nil
	}

	for _, c := range f.Courses {
		if err := dup("course", c.ID); err != nil {
			return nil, err
		}
		for _, m := range c.Modules {
			if err := dup("module", m.ID); err != nil {
				return nil, err
			}
			if len(m.Lessons) == 0 {
				warnings = append(warnings, fmt.Sprintf("module %s has no lessons; learners finishing the previous module will reach the end of the course", m.ID))
			}
			for _, l := range m.Lessons {
				if err := dup("lesson", l.ID); err != nil {
					return nil, err
				}
			}
			for i := range m.Quizzes {
				q := &m.Quizzes[i]
				if err := dup("quiz", q.ID); err != nil {
					return nil, err
				}
				if err := quiz.Validate(q); err != nil {
					if errors.Is(err, quiz.ErrDegenerate) {
						warnings = append(warnings, err.Error())
						continue
					}
					return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
				}
			}
		}
	}
	return warnings, nil
}

// Import checks f and writes it to repo. Existing rows with the same IDs are
// replaced; a changed quiz gets a new revision while old revisions stay
// available for grading attempts already in progress.
func Import(ctx context.Context, repo store.CatalogRepo, f *File) (*Report, error) {
	warnings, err := Check(f)
	if err != nil {
		return nil, err
	}

	report := &Report{Warnings: warnings, Revisions: make(map[string]string)}
	for _, c := range f.Courses {
		if err := repo.SaveCourse(ctx, course.Course{ID: c.ID, Title: c.Title}); err != nil {
			return nil, err
		}
		report.Courses++

		for _, m := range c.Modules {
			err := repo.SaveModule(ctx, course.Module{ID: m.ID, CourseID: c.ID, Title: m.Title, Order: m.Order})
			if err != nil {
				return nil, err
			}
			report.Modules++

			for _, l := range m.Lessons {
				l.ModuleID = m.ID
				if err := repo.SaveLesson(ctx, l); err != nil {
					return nil, err
				}
				report.Lessons++
			}

			for _, q := range m.Quizzes {
				q.CourseID, q.ModuleID = c.ID, m.ID
				rev, err := repo.SaveQuiz(ctx, &q)
				if err != nil {
					return nil, err
				}
				report.Revisions[q.ID] = rev
				report.Quizzes++
			}
		}
	}
	return report, nil
}
