package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/abhisek/quizdeck/internal/course"
	"github.com/abhisek/quizdeck/internal/grading"
	"github.com/abhisek/quizdeck/internal/history"
	"github.com/abhisek/quizdeck/internal/quiz"
	"github.com/abhisek/quizdeck/internal/store"
)

// Local is the authoritative Service. It reads quiz definitions, including
// correct answers, from the store and grades submissions itself.
type Local struct {
	catalog  store.CatalogRepo
	attempts store.AttemptRepo
	events   store.EventRepo
	userID   string
	validate *validator.Validate
	now      func() time.Time
}

var _ Service = (*Local)(nil)

// NewLocal creates a Local service for userID backed by st.
func NewLocal(st *store.Store, userID string) *Local {
	return &Local{
		catalog:  st.CatalogRepo(),
		attempts: st.AttemptRepo(),
		events:   st.EventRepo(),
		userID:   userID,
		validate: validator.New(),
		now:      time.Now,
	}
}

// ForUser returns a copy of l scoped to another user.
func (l *Local) ForUser(userID string) *Local {
	c := *l
	c.userID = userID
	return &c
}

// UserID returns the user this service acts for.
func (l *Local) UserID() string {
	return l.userID
}

func (l *Local) Catalog(ctx context.Context) ([]course.Outline, error) {
	courses, err := l.catalog.Courses(ctx)
	if err != nil {
		return nil, &UnavailableError{Err: err}
	}

	outlines := make([]course.Outline, 0, len(courses))
	for _, c := range courses {
		modules, err := l.catalog.Modules(ctx, c.ID)
		if err != nil {
			return nil, &UnavailableError{Err: err}
		}
		quizzes, err := l.catalog.QuizRefs(ctx, c.ID)
		if err != nil {
			return nil, &UnavailableError{Err: err}
		}
		outlines = append(outlines, course.Outline{
			Course:  c,
			Modules: course.SortModules(modules),
			Quizzes: quizzes,
		})
	}
	return outlines, nil
}

func (l *Local) Preview(ctx context.Context, quizID string) (*quiz.Preview, error) {
	q, revision, err := l.catalog.Quiz(ctx, quizID)
	if err != nil {
		return nil, translate(err)
	}

	l.record(ctx, store.AttemptEventData{
		Kind:   store.EventPreview,
		QuizID: quizID,
		UserID: l.userID,
		Detail: "revision=" + revision,
	})
	return quiz.NewPreview(q, revision), nil
}

func (l *Local) Submit(ctx context.Context, sub quiz.Submission) (*quiz.Attempt, error) {
	a, _, err := l.SubmitAttempt(ctx, sub)
	return a, err
}

// SubmitAttempt is Submit that also reports whether the attempt was already
// recorded under the submission's token.
func (l *Local) SubmitAttempt(ctx context.Context, sub quiz.Submission) (*quiz.Attempt, bool, error) {
	if err := l.validate.StructCtx(ctx, sub); err != nil {
		l.reject(ctx, sub, err)
		return nil, false, &ValidationError{Err: err}
	}

	existing, err := l.attempts.ByToken(ctx, sub.Token)
	switch {
	case err == nil:
		return l.replay(ctx, existing, sub)
	case !errors.Is(err, store.ErrNotFound):
		return nil, false, &UnavailableError{Err: err}
	}

	// Grade against the revision the learner saw, not the current one.
	def, err := l.catalog.QuizRevision(ctx, sub.QuizID, sub.Revision)
	if err != nil {
		l.reject(ctx, sub, err)
		return nil, false, translate(err)
	}
	if err := quiz.CheckAnswers(def, sub.Answers); err != nil {
		l.reject(ctx, sub, err)
		return nil, false, &ValidationError{Err: err}
	}

	answers := answered(sub.Answers)
	res := grading.Grade(def, answers)
	a := &quiz.Attempt{
		ID:          uuid.NewString(),
		Token:       sub.Token,
		QuizID:      sub.QuizID,
		UserID:      l.userID,
		Revision:    sub.Revision,
		Answers:     answers,
		Score:       res.Score,
		MaxScore:    res.MaxScore,
		Percentage:  res.Percentage,
		Passed:      res.Passed,
		SubmittedAt: l.now().UTC(),
	}

	if err := l.attempts.Create(ctx, a); err != nil {
		if errors.Is(err, store.ErrDuplicateToken) {
			// Lost a race with a concurrent submit of the same token.
			existing, err := l.attempts.ByToken(ctx, sub.Token)
			if err != nil {
				return nil, false, &UnavailableError{Err: err}
			}
			return l.replay(ctx, existing, sub)
		}
		return nil, false, &UnavailableError{Err: err}
	}

	l.record(ctx, store.AttemptEventData{
		Kind:   store.EventSubmit,
		QuizID: a.QuizID,
		UserID: a.UserID,
		Token:  a.Token,
		Detail: fmt.Sprintf("score=%d/%d percentage=%d passed=%t", a.Score, a.MaxScore, a.Percentage, a.Passed),
	})
	return a, false, nil
}

func (l *Local) Results(ctx context.Context, quizID string) (*Results, error) {
	q, revision, err := l.catalog.Quiz(ctx, quizID)
	if err != nil {
		return nil, translate(err)
	}
	attempts, err := l.attempts.List(ctx, quizID, l.userID)
	if err != nil {
		return nil, &UnavailableError{Err: err}
	}

	return &Results{
		Quiz:    *quiz.NewPreview(q, revision),
		History: history.Fold(quizID, l.userID, attempts),
	}, nil
}

func (l *Local) Modules(ctx context.Context, courseID string) ([]course.Module, error) {
	modules, err := l.catalog.Modules(ctx, courseID)
	if err != nil {
		return nil, &UnavailableError{Err: err}
	}
	return course.SortModules(modules), nil
}

func (l *Local) Lessons(ctx context.Context, moduleID string) ([]course.Lesson, error) {
	lessons, err := l.catalog.Lessons(ctx, moduleID)
	if err != nil {
		return nil, &UnavailableError{Err: err}
	}
	return course.SortLessons(lessons), nil
}

// replay returns a previously recorded attempt for a resubmitted token.
func (l *Local) replay(ctx context.Context, existing *quiz.Attempt, sub quiz.Submission) (*quiz.Attempt, bool, error) {
	if existing.QuizID != sub.QuizID || existing.UserID != l.userID {
		l.reject(ctx, sub, errors.New("token conflict"))
		return nil, false, &ConflictError{Token: sub.Token}
	}
	l.record(ctx, store.AttemptEventData{
		Kind:   store.EventReplay,
		QuizID: existing.QuizID,
		UserID: existing.UserID,
		Token:  existing.Token,
	})
	return existing, true, nil
}

func (l *Local) reject(ctx context.Context, sub quiz.Submission, cause error) {
	l.record(ctx, store.AttemptEventData{
		Kind:   store.EventReject,
		QuizID: sub.QuizID,
		UserID: l.userID,
		Token:  sub.Token,
		Detail: cause.Error(),
	})
}

// record appends an event. Event loss never fails the operation that
// produced it.
func (l *Local) record(ctx context.Context, data store.AttemptEventData) {
	_ = l.events.Append(ctx, data)
}

// translate maps store errors to service errors.
func translate(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return &UnavailableError{Err: err}
}

// answered drops answers with no selected options. An unanswered question
// has no entry in a recorded attempt.
func answered(answers []quiz.Answer) []quiz.Answer {
	out := make([]quiz.Answer, 0, len(answers))
	for _, a := range answers {
		if len(a.SelectedOptionIDs) == 0 {
			continue
		}
		out = append(out, a)
	}
	return out
}
