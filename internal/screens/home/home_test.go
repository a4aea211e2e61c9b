package home

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizdeck/internal/course"
	"github.com/abhisek/quizdeck/internal/router"
	attemptscreen "github.com/abhisek/quizdeck/internal/screens/attempt"
	"github.com/abhisek/quizdeck/internal/screens/results"
	"github.com/abhisek/quizdeck/internal/service"
)

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func testOutlines() []course.Outline {
	return []course.Outline{{
		Course: course.Course{ID: "c1", Title: "Go Basics"},
		Modules: []course.Module{
			{ID: "m2", CourseID: "c1", Title: "Types", Order: 2},
			{ID: "m1", CourseID: "c1", Title: "Syntax", Order: 1},
		},
		Quizzes: []course.QuizRef{
			{ID: "quiz-types", ModuleID: "m2", Title: "Types quiz"},
			{ID: "quiz-syntax", ModuleID: "m1", Title: "Syntax quiz"},
		},
	}}
}

func loadedHome(t *testing.T, outlines []course.Outline) *HomeScreen {
	t.Helper()
	mock := service.NewMock()
	mock.Outlines = outlines
	h := New(attemptscreen.Deps{Service: mock})
	h.Update(h.Init()())
	return h
}

func TestHome_ListsQuizzesInModuleOrder(t *testing.T) {
	h := loadedHome(t, testOutlines())

	want := []string{"", "quiz-syntax", "quiz-types"}
	if len(h.quizIDs) != len(want) {
		t.Fatalf("quizIDs = %v, want %v", h.quizIDs, want)
	}
	for i := range want {
		if h.quizIDs[i] != want[i] {
			t.Errorf("quizIDs[%d] = %q, want %q", i, h.quizIDs[i], want[i])
		}
	}
	if h.menu.Selected != 1 {
		t.Errorf("selected = %d, want first quiz", h.menu.Selected)
	}

	view := h.View(100, 30)
	if !strings.Contains(view, "Go Basics") || !strings.Contains(view, "2 available") {
		t.Errorf("unexpected view:\n%s", view)
	}
}

func TestHome_EnterStartsAttempt(t *testing.T) {
	h := loadedHome(t, testOutlines())

	_, cmd := h.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*attemptscreen.AttemptScreen); !ok {
		t.Errorf("expected attempt screen, got %T", push.Screen)
	}
}

func TestHome_HistoryKey(t *testing.T) {
	h := loadedHome(t, testOutlines())

	_, cmd := h.Update(keyPress('h'))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*results.ResultsScreen); !ok {
		t.Errorf("expected results screen, got %T", push.Screen)
	}
}

func TestHome_Empty(t *testing.T) {
	h := loadedHome(t, nil)
	if !strings.Contains(h.View(100, 30), "No quizzes yet") {
		t.Error("expected empty-state message")
	}
	if _, cmd := h.Update(keyPress('h')); cmd != nil {
		t.Error("expected no history without a selected quiz")
	}
}

func TestHome_LoadError(t *testing.T) {
	h := New(attemptscreen.Deps{Service: service.NewMock()})
	h.Update(catalogLoadedMsg{Err: &service.UnavailableError{Err: errors.New("down")}})
	if !strings.Contains(h.View(100, 30), "couldn't reach") {
		t.Errorf("unexpected view:\n%s", h.View(100, 30))
	}
}

func TestHome_RefreshKeepsSelection(t *testing.T) {
	h := loadedHome(t, testOutlines())
	h.Update(specialKey(tea.KeyDown))
	if h.selectedQuiz() != "quiz-types" {
		t.Fatalf("selected %q, want quiz-types", h.selectedQuiz())
	}

	h.Update(h.Refresh()())
	if h.selectedQuiz() != "quiz-types" {
		t.Errorf("selected %q after refresh, want quiz-types", h.selectedQuiz())
	}
}
