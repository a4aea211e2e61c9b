package store

import (
	"context"
	"time"

	"github.com/abhisek/quizdeck/internal/course"
	"github.com/abhisek/quizdeck/internal/quiz"
)

// CatalogRepo stores courses, modules, lessons and quiz definitions.
type CatalogRepo interface {
	// SaveCourse inserts or replaces a course.
	SaveCourse(ctx context.Context, c course.Course) error
	// SaveModule inserts or replaces a module.
	SaveModule(ctx context.Context, m course.Module) error
	// SaveLesson inserts or replaces a lesson.
	SaveLesson(ctx context.Context, l course.Lesson) error
	// SaveQuiz stores a quiz definition, recording a new revision when the
	// definition changed. It returns the current revision.
	SaveQuiz(ctx context.Context, q *quiz.Quiz) (string, error)

	Courses(ctx context.Context) ([]course.Course, error)
	Modules(ctx context.Context, courseID string) ([]course.Module, error)
	Lessons(ctx context.Context, moduleID string) ([]course.Lesson, error)
	QuizRefs(ctx context.Context, courseID string) ([]course.QuizRef, error)

	// Quiz returns the current definition and its revision, or ErrNotFound.
	Quiz(ctx context.Context, id string) (*quiz.Quiz, string, error)
	// QuizRevision returns a specific past or current definition, or
	// ErrNotFound.
	QuizRevision(ctx context.Context, id, revision string) (*quiz.Quiz, error)
}

// AttemptRepo stores graded attempts. Attempts are append-only.
type AttemptRepo interface {
	// Create stores a new attempt. It returns ErrDuplicateToken if an
	// attempt with the same token exists.
	Create(ctx context.Context, a *quiz.Attempt) error
	// ByToken returns the attempt with the given token, or ErrNotFound.
	ByToken(ctx context.Context, token string) (*quiz.Attempt, error)
	// List returns a user's attempts on a quiz, most recent first.
	List(ctx context.Context, quizID, userID string) ([]quiz.Attempt, error)
}

// EventKind names an attempt event.
type EventKind string

const (
	EventPreview EventKind = "preview"
	EventSubmit  EventKind = "submit"
	EventReplay  EventKind = "replay"
	EventReject  EventKind = "reject"
)

// AttemptEventData captures the data for a single attempt event.
type AttemptEventData struct {
	Kind   EventKind
	QuizID string
	UserID string
	Token  string
	Detail string
}

// AttemptEvent is a stored AttemptEventData with its ordering.
type AttemptEvent struct {
	AttemptEventData
	Sequence  int64
	Timestamp time.Time
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	QuizID string
	Kind   EventKind
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// EventRepo provides append access to attempt events.
type EventRepo interface {
	Append(ctx context.Context, data AttemptEventData) error
	List(ctx context.Context, opts QueryOpts) ([]AttemptEvent, error)
}
