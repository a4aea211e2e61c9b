package results

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdeck/internal/attempt"
	"github.com/abhisek/quizdeck/internal/history"
	"github.com/abhisek/quizdeck/internal/progression"
	"github.com/abhisek/quizdeck/internal/quiz"
	"github.com/abhisek/quizdeck/internal/router"
	"github.com/abhisek/quizdeck/internal/screen"
	"github.com/abhisek/quizdeck/internal/screens/lesson"
	"github.com/abhisek/quizdeck/internal/service"
	"github.com/abhisek/quizdeck/internal/ui/components"
	"github.com/abhisek/quizdeck/internal/ui/layout"
	"github.com/abhisek/quizdeck/internal/ui/theme"
)

// maxListed caps the attempts shown in the history table.
const maxListed = 8

// Deps are the collaborators the results screen needs.
type Deps struct {
	Service  service.Service
	Resolver *progression.Resolver
}

type resultsLoadedMsg struct {
	Results *service.Results
	Err     error
}

type targetResolvedMsg struct {
	Target progression.Target
}

// ResultsScreen shows a graded attempt and the learner's history on the quiz.
type ResultsScreen struct {
	deps    Deps
	quizID  string
	preview quiz.Preview
	attempt *quiz.Attempt
	history history.History
	retake  func() screen.Screen

	menu      components.Menu
	loaded    bool
	resolving bool
	loadErr   error
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a results screen for a just-graded attempt. retake builds a
// fresh attempt screen for the same quiz.
func New(deps Deps, p quiz.Preview, a *quiz.Attempt, h history.History, retake func() screen.Screen) *ResultsScreen {
	s := &ResultsScreen{
		deps:    deps,
		quizID:  p.ID,
		preview: p,
		attempt: a,
		history: h,
		retake:  retake,
		loaded:  true,
	}
	s.menu = s.buildMenu()
	return s
}

// NewPending creates a results screen for a just-graded attempt whose
// history still has to be fetched. Until it arrives only the score is shown.
func NewPending(deps Deps, p quiz.Preview, a *quiz.Attempt, retake func() screen.Screen) *ResultsScreen {
	s := &ResultsScreen{
		deps:    deps,
		quizID:  p.ID,
		preview: p,
		attempt: a,
		retake:  retake,
	}
	s.menu = s.buildMenu()
	return s
}

// NewForQuiz creates a results screen that loads the learner's history on
// quizID without a new attempt.
func NewForQuiz(deps Deps, quizID string, retake func() screen.Screen) *ResultsScreen {
	s := &ResultsScreen{deps: deps, quizID: quizID, retake: retake}
	s.menu = s.buildMenu()
	return s
}

func (s *ResultsScreen) Init() tea.Cmd {
	if s.loaded {
		return nil
	}
	return s.fetch()
}

func (s *ResultsScreen) fetch() tea.Cmd {
	svc, quizID := s.deps.Service, s.quizID
	return func() tea.Msg {
		res, err := svc.Results(context.Background(), quizID)
		return resultsLoadedMsg{Results: res, Err: err}
	}
}

func (s *ResultsScreen) Title() string {
	if s.preview.Title != "" {
		return "Results · " + s.preview.Title
	}
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	if s.loadErr != nil {
		hints := []layout.KeyHint{{Key: "R", Description: "Retry"}}
		if s.attempt != nil {
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Select"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultsLoadedMsg:
		if msg.Err != nil {
			s.loadErr = msg.Err
			return s, nil
		}
		s.loaded = true
		s.loadErr = nil
		s.preview = msg.Results.Quiz
		s.history = msg.Results.History
		if s.attempt != nil && !s.history.Contains(s.attempt.Token) {
			s.history = history.Append(s.history, *s.attempt)
		}
		s.menu = s.buildMenu()
		return s, nil

	case targetResolvedMsg:
		s.resolving = false
		next := lesson.New(msg.Target, s.preview.Title)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }

	case tea.KeyMsg:
		if s.resolving {
			return s, nil
		}
		if s.loadErr != nil && (msg.String() == "r" || msg.String() == "R") {
			s.loadErr = nil
			return s, s.fetch()
		}
		if s.attempt == nil && !s.loaded {
			return s, nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ResultsScreen) buildMenu() components.Menu {
	items := []components.MenuItem{
		{Label: "Continue", Detail: "next module", Action: s.continueCmd},
		{Label: "Retake quiz", Action: func() tea.Cmd {
			if s.retake == nil {
				return nil
			}
			next := s.retake()
			return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}, Disabled: s.retake == nil},
		{Label: "Back to quizzes", Action: func() tea.Cmd {
			return func() tea.Msg { return router.PopToRootMsg{} }
		}},
	}
	if s.preview.ID == "" {
		items[0].Disabled = true
	}
	return components.NewMenu(items)
}

// continueCmd resolves the next module. Resolution never fails; any
// problem ends at the end-of-course target.
func (s *ResultsScreen) continueCmd() tea.Cmd {
	s.resolving = true
	resolver := s.deps.Resolver
	courseID, moduleID := s.preview.CourseID, s.preview.ModuleID
	return func() tea.Msg {
		if resolver == nil {
			return targetResolvedMsg{Target: progression.EndOfCourse}
		}
		return targetResolvedMsg{Target: resolver.Resolve(context.Background(), courseID, moduleID)}
	}
}

func (s *ResultsScreen) View(width, height int) string {
	if s.attempt == nil && !s.loaded {
		if s.loadErr != nil {
			return lipgloss.NewStyle().
				Width(width).Align(lipgloss.Center).
				Render("\n\n" + theme.ErrorText.Render(s.errorText()) + "\n\n" +
					theme.Hint.Render("Press R to try again or Esc to go back."))
		}
		return layout.Message("Loading results...", width)
	}

	var sections []string
	if s.attempt != nil {
		sections = append(sections, s.renderScore())
	}
	switch {
	case s.loaded:
		sections = append(sections, s.renderHistory())
	case s.loadErr != nil:
		sections = append(sections, theme.ErrorText.Render("Your attempt history is unavailable. Press R to try again."))
	default:
		sections = append(sections, theme.Hint.Render("Loading your attempt history..."))
	}
	if s.resolving {
		sections = append(sections, theme.Hint.Render("Finding your next module..."))
	} else {
		sections = append(sections, s.menu.View())
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}

func (s *ResultsScreen) errorText() string {
	return attempt.UserMessage(&attempt.LoadError{QuizID: s.quizID, Err: s.loadErr})
}

func (s *ResultsScreen) renderScore() string {
	a := s.attempt
	verdict := theme.Failed.Render("Not passed")
	if a.Passed {
		verdict = theme.Passed.Render("Passed")
	}

	var b strings.Builder
	b.WriteString(verdict)
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("%d / %d points  ·  %d%%", a.Score, a.MaxScore, a.Percentage)))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Pass mark %d%%", s.preview.PassingScorePercent)))

	bar := components.NewProgressBar(float64(a.Percentage)/100, 40)
	bar.ShowPercent = true
	bar.Low = !a.Passed
	b.WriteString("\n")
	b.WriteString(bar.View())

	return theme.Card.Render(b.String())
}

func (s *ResultsScreen) renderHistory() string {
	h := s.history
	if h.TotalAttempts == 0 {
		return theme.Hint.Render("No attempts yet.")
	}

	var b strings.Builder
	status := "not yet passed"
	if h.Passed {
		status = "passed"
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("Attempts %d  ·  Best %d%%  ·  %s", h.TotalAttempts, h.BestPercentage, status)))
	b.WriteString("\n\n")

	for i, a := range h.Attempts {
		if i == maxListed {
			b.WriteString(theme.Hint.Render(fmt.Sprintf("  and %d earlier", len(h.Attempts)-maxListed)))
			b.WriteString("\n")
			break
		}
		mark := "✗"
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if a.Passed {
			mark = "✓"
			style = style.Foreground(theme.Success)
		}
		if s.attempt != nil && a.Token == s.attempt.Token {
			style = style.Bold(true)
		}
		b.WriteString(style.Render(fmt.Sprintf("  %s  %s  %3d%%  %d/%d",
			mark, a.SubmittedAt.Local().Format("Jan 02 15:04"), a.Percentage, a.Score, a.MaxScore)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
