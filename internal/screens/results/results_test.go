package results

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizdeck/internal/course"
	"github.com/abhisek/quizdeck/internal/history"
	"github.com/abhisek/quizdeck/internal/progression"
	"github.com/abhisek/quizdeck/internal/quiz"
	"github.com/abhisek/quizdeck/internal/router"
	"github.com/abhisek/quizdeck/internal/screen"
	"github.com/abhisek/quizdeck/internal/screens/lesson"
	"github.com/abhisek/quizdeck/internal/service"
)

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "retake" }
func (s *stubScreen) Title() string                          { return "Retake" }

func testPreview() quiz.Preview {
	return quiz.Preview{ID: "quiz-1", CourseID: "c1", ModuleID: "m1", Title: "Basics", PassingScorePercent: 70}
}

func testAttempt(token string, pct int, passed bool, at time.Time) quiz.Attempt {
	return quiz.Attempt{Token: token, QuizID: "quiz-1", Score: pct / 10, MaxScore: 10, Percentage: pct, Passed: passed, SubmittedAt: at}
}

func testMock() *service.Mock {
	p := testPreview()
	m := service.NewMock(&p)
	m.ModuleList["c1"] = []course.Module{
		{ID: "m1", CourseID: "c1", Title: "Syntax", Order: 1},
		{ID: "m2", CourseID: "c1", Title: "Types", Order: 2},
	}
	m.LessonList["m2"] = []course.Lesson{{ID: "l1", ModuleID: "m2", Title: "Structs", Order: 1}}
	return m
}

func newScreen(t *testing.T) (*ResultsScreen, *quiz.Attempt) {
	t.Helper()
	mock := testMock()
	now := time.Now()
	a := testAttempt("t2", 80, true, now)
	h := history.Fold("quiz-1", "u", []quiz.Attempt{testAttempt("t1", 40, false, now.Add(-time.Hour)), a})
	s := New(Deps{Service: mock, Resolver: progression.NewResolver(mock)}, testPreview(), &a, h,
		func() screen.Screen { return &stubScreen{} })
	return s, &a
}

func TestResults_View(t *testing.T) {
	s, _ := newScreen(t)
	view := s.View(100, 30)
	for _, want := range []string{"Passed", "8 / 10 points", "80%", "Attempts 2", "Best 80%", "Pass mark 70%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if s.Title() != "Results · Basics" {
		t.Errorf("Title = %q", s.Title())
	}
}

func TestResults_ContinueResolvesNextModule(t *testing.T) {
	s, _ := newScreen(t)

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if !s.resolving {
		t.Fatal("expected resolving state")
	}
	msg, ok := cmd().(targetResolvedMsg)
	if !ok {
		t.Fatal("expected targetResolvedMsg")
	}
	if msg.Target.Kind != progression.KindLesson || msg.Target.LessonID != "l1" {
		t.Fatalf("target = %+v, want lesson l1", msg.Target)
	}

	_, cmd = s.Update(msg)
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*lesson.LessonScreen); !ok {
		t.Errorf("expected lesson screen, got %T", push.Screen)
	}
}

func TestResults_ContinueWithoutResolver(t *testing.T) {
	a := testAttempt("t1", 100, true, time.Now())
	s := New(Deps{Service: testMock()}, testPreview(), &a, history.Fold("quiz-1", "u", []quiz.Attempt{a}), nil)

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	msg := cmd().(targetResolvedMsg)
	if msg.Target != progression.EndOfCourse {
		t.Errorf("target = %+v, want end of course", msg.Target)
	}
}

func TestResults_Retake(t *testing.T) {
	s, _ := newScreen(t)
	s.Update(specialKey(tea.KeyDown))
	_, cmd := s.Update(specialKey(tea.KeyEnter))

	replace, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if _, ok := replace.Screen.(*stubScreen); !ok {
		t.Errorf("expected retake screen, got %T", replace.Screen)
	}
}

func TestResults_BackToQuizzes(t *testing.T) {
	s, _ := newScreen(t)
	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyDown))
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("expected PopToRootMsg")
	}
}

func TestResults_NewForQuizLoadsHistory(t *testing.T) {
	mock := testMock()
	p := testPreview()
	_, err := mock.Submit(context.Background(), quiz.Submission{QuizID: p.ID, Revision: "r", Token: "tok"})
	if err != nil {
		t.Fatal(err)
	}

	s := NewForQuiz(Deps{Service: mock}, "quiz-1", nil)
	if !strings.Contains(s.View(100, 30), "Loading") {
		t.Error("expected loading view")
	}
	s.Update(s.Init()())

	if s.history.TotalAttempts != 1 {
		t.Errorf("TotalAttempts = %d, want 1", s.history.TotalAttempts)
	}
	view := s.View(100, 30)
	if strings.Contains(view, "points") {
		t.Error("history-only view should not show a score card")
	}
	if !strings.Contains(view, "Attempts 1") {
		t.Errorf("view missing history:\n%s", view)
	}
}

func TestResults_NewForQuizNotFound(t *testing.T) {
	s := NewForQuiz(Deps{Service: service.NewMock()}, "missing", nil)
	s.Update(s.Init()())
	if !strings.Contains(s.View(100, 30), "no longer available") {
		t.Errorf("unexpected view:\n%s", s.View(100, 30))
	}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestResults_NewForQuizRetriesFailedLoad(t *testing.T) {
	mock := testMock()
	mock.ResultsErrs = []error{&service.UnavailableError{Err: errors.New("connection refused")}}

	s := NewForQuiz(Deps{Service: mock}, "quiz-1", nil)
	s.Update(s.Init()())
	view := s.View(100, 30)
	if !strings.Contains(view, "Press R to try again") {
		t.Fatalf("expected a retry hint:\n%s", view)
	}
	if hints := s.KeyHints(); hints[0].Key != "R" {
		t.Errorf("key hints = %+v, want R first", hints)
	}

	_, cmd := s.Update(keyPress('r'))
	if cmd == nil {
		t.Fatal("expected R to reload")
	}
	s.Update(cmd())
	if !s.loaded || s.loadErr != nil {
		t.Fatalf("loaded=%t err=%v, want loaded", s.loaded, s.loadErr)
	}
	if !strings.Contains(s.View(100, 30), "No attempts yet") {
		t.Errorf("unexpected view:\n%s", s.View(100, 30))
	}
	if mock.CallCount("Results") != 2 {
		t.Errorf("Results calls = %d, want 2", mock.CallCount("Results"))
	}
}

func TestResults_PendingKeepsAttemptInHistory(t *testing.T) {
	mock := testMock()
	a := testAttempt("fresh", 90, true, time.Now())

	s := NewPending(Deps{Service: mock}, testPreview(), &a, nil)
	if !strings.Contains(s.View(100, 30), "Loading your attempt history") {
		t.Errorf("expected history loading hint:\n%s", s.View(100, 30))
	}

	// The server has not caught up with the new attempt yet.
	s.Update(s.Init()())
	if s.history.TotalAttempts != 1 || !s.history.Contains("fresh") {
		t.Errorf("history = %+v, want the new attempt included", s.history)
	}
}
