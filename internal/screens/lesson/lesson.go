package lesson

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdeck/internal/progression"
	"github.com/abhisek/quizdeck/internal/router"
	"github.com/abhisek/quizdeck/internal/screen"
	"github.com/abhisek/quizdeck/internal/ui/layout"
	"github.com/abhisek/quizdeck/internal/ui/theme"
)

// LessonScreen is where the learner lands after continuing from a quiz: the
// first lesson of the next module, or the end of the course. Lesson content
// lives outside quizdeck, so it only names the destination.
type LessonScreen struct {
	target   progression.Target
	fromQuiz string
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)

// New creates a LessonScreen for target, reached from the quiz titled fromQuiz.
func New(target progression.Target, fromQuiz string) *LessonScreen {
	return &LessonScreen{target: target, fromQuiz: fromQuiz}
}

func (l *LessonScreen) Init() tea.Cmd {
	return nil
}

func (l *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		return l, func() tea.Msg { return router.PopToRootMsg{} }
	}
	return l, nil
}

func (l *LessonScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Back to quizzes"},
		{Key: "Esc", Description: "Back"},
	}
}

func (l *LessonScreen) View(width, height int) string {
	var body string
	if l.target.Kind == progression.KindLesson {
		body = theme.Title.Render(l.target.ModuleTitle) + "\n\n" +
			lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("Up next: %s", l.target.LessonTitle)) + "\n\n" +
			theme.Hint.Render(fmt.Sprintf("module %s · lesson %s", l.target.ModuleID, l.target.LessonID))
	} else {
		body = theme.Title.Render("Course complete") + "\n\n" +
			lipgloss.NewStyle().Foreground(theme.Text).Render("There are no more modules after this one.")
	}
	if l.fromQuiz != "" {
		body += "\n\n" + theme.Hint.Render("Continued from "+l.fromQuiz)
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(body)
}

func (l *LessonScreen) Title() string {
	if l.target.Kind == progression.KindLesson {
		return "Next lesson"
	}
	return "End of course"
}
