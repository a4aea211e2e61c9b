package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizdeck/internal/store"
)

const validCatalog = `{
  "courses": [{
    "id": "go101",
    "title": "Go Basics",
    "modules": [
      {
        "id": "m1", "title": "Syntax", "order": 1,
        "lessons": [{"id": "l1", "title": "Variables", "order": 1}],
        "quizzes": [{
          "id": "quiz-1", "title": "Syntax check", "passing_score_percent": 50,
          "time_limit_minutes": 5,
          "questions": [
            {"id": "q1", "text": "Is Go compiled?", "type": "TRUEFALSE", "weight": 1,
             "options": [{"id": "t", "text": "True", "is_correct": true}, {"id": "f", "text": "False"}]}
          ]
        }]
      },
      {
        "id": "m2", "title": "Types", "order": 2,
        "lessons": [{"id": "l2", "title": "Structs", "order": 1}]
      }
    ]
  }]
}`

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestParseValid(t *testing.T) {
	f, err := Parse([]byte(validCatalog))
	require.NoError(t, err)
	require.Len(t, f.Courses, 1)
	require.Len(t, f.Courses[0].Modules, 2)
	assert.Len(t, f.Courses[0].Modules[0].Quizzes, 1)
	assert.Equal(t, 5, *f.Courses[0].Modules[0].Quizzes[0].TimeLimitMinutes)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"courses": [`},
		{"missing courses", `{}`},
		{"unknown field", `{"courses": [], "extra": 1}`},
		{"bad question type", `{"courses": [{"id": "c", "title": "C", "modules": [{"id": "m", "title": "M", "order": 1,
			"quizzes": [{"id": "q", "title": "Q", "passing_score_percent": 50, "questions": [
				{"id": "q1", "text": "x", "type": "ESSAY", "weight": 1, "options": [{"id": "a", "text": "a"}]}]}]}]}]}`},
		{"passing over 100", `{"courses": [{"id": "c", "title": "C", "modules": [{"id": "m", "title": "M", "order": 1,
			"quizzes": [{"id": "q", "title": "Q", "passing_score_percent": 101, "questions": []}]}]}]}`},
		{"zero time limit", `{"courses": [{"id": "c", "title": "C", "modules": [{"id": "m", "title": "M", "order": 1,
			"quizzes": [{"id": "q", "title": "Q", "passing_score_percent": 50, "time_limit_minutes": 0, "questions": []}]}]}]}`},
		{"correctness on lesson", `{"courses": [{"id": "c", "title": "C", "modules": [{"id": "m", "title": "M", "order": 1,
			"lessons": [{"id": "l", "title": "L", "order": 1, "is_correct": true}]}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestCheckDuplicateIDs(t *testing.T) {
	f, err := Parse([]byte(validCatalog))
	require.NoError(t, err)
	f.Courses[0].Modules[1].ID = "m1"

	_, err = Check(f)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), `duplicate module id "m1"`)
}

func TestCheckInvalidQuiz(t *testing.T) {
	f, err := Parse([]byte(validCatalog))
	require.NoError(t, err)
	f.Courses[0].Modules[0].Quizzes[0].Questions[0].Options[1].IsCorrect = true

	_, err = Check(f)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestCheckDegenerateQuizWarns(t *testing.T) {
	f, err := Parse([]byte(validCatalog))
	require.NoError(t, err)
	f.Courses[0].Modules[0].Quizzes[0].Questions = nil

	warnings, err := Check(f)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "no questions")
}

func TestCheckEmptyModuleWarns(t *testing.T) {
	f, err := Parse([]byte(validCatalog))
	require.NoError(t, err)
	f.Courses[0].Modules[1].Lessons = nil

	warnings, err := Check(f)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "module m2 has no lessons")
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	repo := st.CatalogRepo()

	f, err := Parse([]byte(validCatalog))
	require.NoError(t, err)

	report, err := Import(ctx, repo, f)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Courses)
	assert.Equal(t, 2, report.Modules)
	assert.Equal(t, 2, report.Lessons)
	assert.Equal(t, 1, report.Quizzes)
	assert.Empty(t, report.Warnings)

	q, rev, err := repo.Quiz(ctx, "quiz-1")
	require.NoError(t, err)
	assert.Equal(t, "go101", q.CourseID)
	assert.Equal(t, "m1", q.ModuleID)
	assert.Equal(t, report.Revisions["quiz-1"], rev)

	lessons, err := repo.Lessons(ctx, "m2")
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, "m2", lessons[0].ModuleID)
}

func TestImportTwiceKeepsRevision(t *testing.T) {
	ctx := context.Background()
	repo := openStore(t).CatalogRepo()

	f, err := Parse([]byte(validCatalog))
	require.NoError(t, err)
	first, err := Import(ctx, repo, f)
	require.NoError(t, err)
	second, err := Import(ctx, repo, f)
	require.NoError(t, err)
	assert.Equal(t, first.Revisions, second.Revisions)

	f.Courses[0].Modules[0].Quizzes[0].PassingScorePercent = 80
	third, err := Import(ctx, repo, f)
	require.NoError(t, err)
	assert.NotEqual(t, first.Revisions["quiz-1"], third.Revisions["quiz-1"])

	old, err := repo.QuizRevision(ctx, "quiz-1", first.Revisions["quiz-1"])
	require.NoError(t, err)
	assert.Equal(t, 50, old.PassingScorePercent)
}

func TestImportRejectsBeforeWriting(t *testing.T) {
	ctx := context.Background()
	repo := openStore(t).CatalogRepo()

	f, err := Parse([]byte(validCatalog))
	require.NoError(t, err)
	f.Courses[0].Modules[0].Lessons[0].ID = "l2"

	_, err = Import(ctx, repo, f)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))

	courses, err := repo.Courses(ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestSampleParses(t *testing.T) {
	f, err := Parse(Sample)
	require.NoError(t, err)
	warnings, err := Check(f)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}
