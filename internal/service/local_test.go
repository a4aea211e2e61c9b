package service

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizdeck/internal/course"
	"github.com/abhisek/quizdeck/internal/quiz"
	"github.com/abhisek/quizdeck/internal/store"
)

func scenarioQuiz() *quiz.Quiz {
	return &quiz.Quiz{
		ID:                  "quiz-1",
		CourseID:            "c1",
		ModuleID:            "m1",
		Title:               "Scenario",
		PassingScorePercent: 70,
		Questions: []quiz.Question{
			{
				ID: "Q1", Text: "One", Type: quiz.TypeSingle, Weight: 50,
				Options: []quiz.AnswerOption{
					{ID: "A", Text: "a", IsCorrect: true},
					{ID: "B", Text: "b"},
				},
			},
			{
				ID: "Q2", Text: "Two", Type: quiz.TypeMultiple, Weight: 50,
				Options: []quiz.AnswerOption{
					{ID: "A", Text: "a"},
					{ID: "B", Text: "b", IsCorrect: true},
					{ID: "C", Text: "c", IsCorrect: true},
				},
			},
		},
	}
}

func newTestLocal(t *testing.T) (*Local, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "svc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	repo := st.CatalogRepo()
	require.NoError(t, repo.SaveCourse(ctx, course.Course{ID: "c1", Title: "Course"}))
	require.NoError(t, repo.SaveModule(ctx, course.Module{ID: "m2", CourseID: "c1", Title: "Second", Order: 2}))
	require.NoError(t, repo.SaveModule(ctx, course.Module{ID: "m1", CourseID: "c1", Title: "First", Order: 1}))
	require.NoError(t, repo.SaveLesson(ctx, course.Lesson{ID: "l1", ModuleID: "m2", Title: "Intro", Order: 1}))
	_, err = repo.SaveQuiz(ctx, scenarioQuiz())
	require.NoError(t, err)

	return NewLocal(st, "u1"), st
}

func submission(t *testing.T, svc *Local, answers ...quiz.Answer) quiz.Submission {
	t.Helper()
	p, err := svc.Preview(context.Background(), "quiz-1")
	require.NoError(t, err)
	return quiz.Submission{QuizID: "quiz-1", Revision: p.Revision, Token: uuid.NewString(), Answers: answers}
}

func ans(qid string, ids ...string) quiz.Answer {
	return quiz.Answer{QuestionID: qid, SelectedOptionIDs: ids}
}

func TestLocal_PreviewHasNoCorrectness(t *testing.T) {
	svc, _ := newTestLocal(t)
	p, err := svc.Preview(context.Background(), "quiz-1")
	require.NoError(t, err)

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "is_correct")
	assert.Equal(t, 100, p.TotalPoints)
	assert.NotEmpty(t, p.Revision)
}

func TestLocal_PreviewUnknownQuiz(t *testing.T) {
	svc, _ := newTestLocal(t)
	_, err := svc.Preview(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocal_SubmitScenario(t *testing.T) {
	svc, _ := newTestLocal(t)
	ctx := context.Background()

	full, err := svc.Submit(ctx, submission(t, svc, ans("Q1", "A"), ans("Q2", "B", "C")))
	require.NoError(t, err)
	assert.Equal(t, 100, full.Percentage)
	assert.True(t, full.Passed)
	assert.Equal(t, "u1", full.UserID)

	partial, err := svc.Submit(ctx, submission(t, svc, ans("Q1", "A"), ans("Q2", "B")))
	require.NoError(t, err)
	assert.Equal(t, 50, partial.Score)
	assert.Equal(t, 50, partial.Percentage)
	assert.False(t, partial.Passed)

	res, err := svc.Results(ctx, "quiz-1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.History.TotalAttempts)
	assert.Equal(t, 100, res.History.BestPercentage)
	assert.True(t, res.History.Passed)
	assert.Equal(t, "quiz-1", res.Quiz.ID)
}

func TestLocal_SubmitIsIdempotentByToken(t *testing.T) {
	svc, st := newTestLocal(t)
	ctx := context.Background()
	sub := submission(t, svc, ans("Q1", "A"))

	first, replayed, err := svc.SubmitAttempt(ctx, sub)
	require.NoError(t, err)
	assert.False(t, replayed)

	second, replayed, err := svc.SubmitAttempt(ctx, sub)
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first.ID, second.ID)

	res, err := svc.Results(ctx, "quiz-1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.History.TotalAttempts)

	replays, err := st.EventRepo().List(ctx, store.QueryOpts{Kind: store.EventReplay})
	require.NoError(t, err)
	assert.Len(t, replays, 1)
}

func TestLocal_TokenReuseByAnotherUserConflicts(t *testing.T) {
	svc, _ := newTestLocal(t)
	ctx := context.Background()
	sub := submission(t, svc, ans("Q1", "A"))

	_, err := svc.Submit(ctx, sub)
	require.NoError(t, err)

	_, err = svc.ForUser("u2").Submit(ctx, sub)
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestLocal_GradesAgainstSubmittedRevision(t *testing.T) {
	svc, st := newTestLocal(t)
	ctx := context.Background()
	sub := submission(t, svc, ans("Q1", "A"), ans("Q2", "B", "C"))

	// The definition changes while the learner is answering.
	changed := scenarioQuiz()
	changed.Questions[0].Options[0].IsCorrect = false
	changed.Questions[0].Options[1].IsCorrect = true
	_, err := st.CatalogRepo().SaveQuiz(ctx, changed)
	require.NoError(t, err)

	a, err := svc.Submit(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, 100, a.Percentage)
	assert.Equal(t, sub.Revision, a.Revision)

	// A fresh attempt against the new revision uses the new key.
	fresh := submission(t, svc, ans("Q1", "A"), ans("Q2", "B", "C"))
	assert.NotEqual(t, sub.Revision, fresh.Revision)
	b, err := svc.Submit(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, 50, b.Percentage)
}

func TestLocal_SubmitRejections(t *testing.T) {
	svc, _ := newTestLocal(t)
	ctx := context.Background()
	valid := submission(t, svc)

	tests := []struct {
		name        string
		mutate      func(s *quiz.Submission)
		wantNF      bool
		wantInvalid bool
		wantShape   bool
	}{
		{"unknown revision", func(s *quiz.Submission) { s.Revision = "0000" }, true, false, false},
		{"unknown quiz", func(s *quiz.Submission) { s.QuizID = "other" }, true, false, false},
		{"bad token", func(s *quiz.Submission) { s.Token = "not-a-uuid" }, false, true, false},
		{"missing revision", func(s *quiz.Submission) { s.Revision = "" }, false, true, false},
		{"unknown option", func(s *quiz.Submission) { s.Answers = []quiz.Answer{ans("Q1", "Z")} }, false, true, true},
		{"two on single", func(s *quiz.Submission) { s.Answers = []quiz.Answer{ans("Q1", "A", "B")} }, false, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := valid
			sub.Token = uuid.NewString()
			tt.mutate(&sub)

			_, err := svc.Submit(ctx, sub)
			require.Error(t, err)
			assert.Equal(t, tt.wantNF, errors.Is(err, ErrNotFound), "not found: %v", err)
			var verr *ValidationError
			assert.Equal(t, tt.wantInvalid, errors.As(err, &verr), "validation: %v", err)
			assert.Equal(t, tt.wantShape, errors.Is(err, quiz.ErrInvalidAnswer), "shape: %v", err)
		})
	}
}

func TestLocal_UnansweredQuestionsAreAbsent(t *testing.T) {
	svc, _ := newTestLocal(t)
	a, err := svc.Submit(context.Background(), submission(t, svc, ans("Q1", "A"), ans("Q2")))
	require.NoError(t, err)
	require.Len(t, a.Answers, 1)
	assert.Equal(t, "Q1", a.Answers[0].QuestionID)
}

func TestLocal_CatalogAndNavigation(t *testing.T) {
	svc, _ := newTestLocal(t)
	ctx := context.Background()

	outlines, err := svc.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, outlines, 1)
	assert.Equal(t, "m1", outlines[0].Modules[0].ID)
	require.Len(t, outlines[0].Quizzes, 1)
	assert.Equal(t, "First", outlines[0].ModuleTitle(outlines[0].Quizzes[0].ModuleID))

	modules, err := svc.Modules(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, modules, 2)

	lessons, err := svc.Lessons(ctx, "m2")
	require.NoError(t, err)
	assert.Equal(t, []course.Lesson{{ID: "l1", ModuleID: "m2", Title: "Intro", Order: 1}}, lessons)
}

func TestLocal_ResultsHistoryIsPerUser(t *testing.T) {
	svc, _ := newTestLocal(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, submission(t, svc, ans("Q1", "A")))
	require.NoError(t, err)

	res, err := svc.ForUser("u2").Results(ctx, "quiz-1")
	require.NoError(t, err)
	assert.Equal(t, 0, res.History.TotalAttempts)
	assert.Equal(t, "u2", res.History.UserID)
}
