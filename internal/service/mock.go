package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/quizdeck/internal/course"
	"github.com/abhisek/quizdeck/internal/history"
	"github.com/abhisek/quizdeck/internal/quiz"
)

// Mock is a deterministic in-memory Service for testing.
// Queued errors are returned in FIFO order before normal behavior resumes.
type Mock struct {
	mu sync.Mutex

	Outlines   []course.Outline
	Previews   map[string]*quiz.Preview
	ModuleList map[string][]course.Module
	LessonList map[string][]course.Lesson

	// Grade scores a submission. When nil every attempt scores zero.
	Grade func(sub quiz.Submission) (score, maxScore, percentage int, passed bool)

	PreviewErrs []error
	SubmitErrs  []error
	ResultsErrs []error
	LessonsErrs []error

	Submissions []quiz.Submission
	calls       map[string]int
	byToken     map[string]*quiz.Attempt
	histories   map[string]history.History
}

var _ Service = (*Mock)(nil)

// NewMock creates a Mock serving the given previews.
func NewMock(previews ...*quiz.Preview) *Mock {
	m := &Mock{
		Previews:   make(map[string]*quiz.Preview),
		ModuleList: make(map[string][]course.Module),
		LessonList: make(map[string][]course.Lesson),
	}
	for _, p := range previews {
		m.Previews[p.ID] = p
	}
	return m
}

func (m *Mock) Catalog(_ context.Context) ([]course.Outline, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("Catalog")
	return m.Outlines, nil
}

func (m *Mock) Preview(_ context.Context, quizID string) (*quiz.Preview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("Preview")

	if err := pop(&m.PreviewErrs); err != nil {
		return nil, err
	}
	p, ok := m.Previews[quizID]
	if !ok {
		return nil, fmt.Errorf("quiz %s: %w", quizID, ErrNotFound)
	}
	return p, nil
}

func (m *Mock) Submit(_ context.Context, sub quiz.Submission) (*quiz.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("Submit")
	m.Submissions = append(m.Submissions, sub)

	if err := pop(&m.SubmitErrs); err != nil {
		return nil, err
	}
	if a, ok := m.byToken[sub.Token]; ok {
		return a, nil
	}

	a := &quiz.Attempt{
		ID:          fmt.Sprintf("attempt-%d", len(m.byToken)+1),
		Token:       sub.Token,
		QuizID:      sub.QuizID,
		UserID:      "mock",
		Revision:    sub.Revision,
		Answers:     sub.Answers,
		SubmittedAt: time.Now().UTC(),
	}
	if m.Grade != nil {
		a.Score, a.MaxScore, a.Percentage, a.Passed = m.Grade(sub)
	}

	if m.byToken == nil {
		m.byToken = make(map[string]*quiz.Attempt)
		m.histories = make(map[string]history.History)
	}
	m.byToken[sub.Token] = a
	h := m.histories[sub.QuizID]
	h.QuizID, h.UserID = sub.QuizID, "mock"
	m.histories[sub.QuizID] = history.Append(h, *a)
	return a, nil
}

func (m *Mock) Results(_ context.Context, quizID string) (*Results, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("Results")

	if err := pop(&m.ResultsErrs); err != nil {
		return nil, err
	}
	p, ok := m.Previews[quizID]
	if !ok {
		return nil, fmt.Errorf("quiz %s: %w", quizID, ErrNotFound)
	}
	h, ok := m.histories[quizID]
	if !ok {
		h = history.History{QuizID: quizID, UserID: "mock"}
	}
	return &Results{Quiz: *p, History: h}, nil
}

func (m *Mock) Modules(_ context.Context, courseID string) ([]course.Module, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("Modules")
	return m.ModuleList[courseID], nil
}

func (m *Mock) Lessons(_ context.Context, moduleID string) ([]course.Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("Lessons")

	if err := pop(&m.LessonsErrs); err != nil {
		return nil, err
	}
	return m.LessonList[moduleID], nil
}

// CallCount returns the number of calls made to the named method.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *Mock) count(method string) {
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

func pop(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}
