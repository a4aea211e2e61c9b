package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdeck/internal/attempt"
	"github.com/abhisek/quizdeck/internal/course"
	"github.com/abhisek/quizdeck/internal/router"
	"github.com/abhisek/quizdeck/internal/screen"
	attemptscreen "github.com/abhisek/quizdeck/internal/screens/attempt"
	"github.com/abhisek/quizdeck/internal/screens/results"
	"github.com/abhisek/quizdeck/internal/ui/components"
	"github.com/abhisek/quizdeck/internal/ui/layout"
	"github.com/abhisek/quizdeck/internal/ui/theme"
)

type catalogLoadedMsg struct {
	Outlines []course.Outline
	Err      error
}

// HomeScreen lists every quiz in the catalog, grouped by course.
type HomeScreen struct {
	deps    attemptscreen.Deps
	menu    components.Menu
	quizIDs []string // parallel to menu.Items; empty for headings
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps attemptscreen.Deps) *HomeScreen {
	return &HomeScreen{deps: deps}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

// Refresh reloads the catalog when the learner comes back from a quiz.
func (h *HomeScreen) Refresh() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) load() tea.Cmd {
	svc := h.deps.Service
	return func() tea.Msg {
		outlines, err := svc.Catalog(context.Background())
		return catalogLoadedMsg{Outlines: outlines, Err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Quizzes"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start"},
		{Key: "H", Description: "History"},
		{Key: "Q", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogLoadedMsg:
		h.loaded = true
		if msg.Err != nil {
			h.errMsg = attempt.UserMessage(&attempt.LoadError{Err: msg.Err})
			return h, nil
		}
		h.errMsg = ""
		h.build(msg.Outlines)
		return h, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return h, tea.Quit
		case "h", "H":
			return h, h.openHistory()
		case "r":
			return h, h.load()
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// build lays out one heading per course followed by its quizzes in module
// order. The previous cursor position is kept when the quiz still exists.
func (h *HomeScreen) build(outlines []course.Outline) {
	var prev string
	if h.menu.Selected < len(h.quizIDs) {
		prev = h.quizIDs[h.menu.Selected]
	}

	var items []components.MenuItem
	var ids []string
	for _, o := range outlines {
		if len(o.Quizzes) == 0 {
			continue
		}
		items = append(items, components.MenuItem{Label: o.Course.Title, Disabled: true})
		ids = append(ids, "")

		for _, m := range course.SortModules(o.Modules) {
			for _, q := range o.Quizzes {
				if q.ModuleID != m.ID {
					continue
				}
				quizID := q.ID
				items = append(items, components.MenuItem{
					Label:  q.Title,
					Detail: m.Title,
					Action: func() tea.Cmd { return h.start(quizID) },
				})
				ids = append(ids, quizID)
			}
		}
	}

	h.menu = components.NewMenu(items)
	h.quizIDs = ids
	for i, id := range ids {
		if id != "" && id == prev {
			h.menu.Selected = i
		}
	}
}

func (h *HomeScreen) selectedQuiz() string {
	if h.menu.Selected < 0 || h.menu.Selected >= len(h.quizIDs) {
		return ""
	}
	return h.quizIDs[h.menu.Selected]
}

func (h *HomeScreen) start(quizID string) tea.Cmd {
	next := attemptscreen.New(h.deps, quizID)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (h *HomeScreen) openHistory() tea.Cmd {
	quizID := h.selectedQuiz()
	if quizID == "" {
		return nil
	}
	deps := h.deps
	next := results.NewForQuiz(results.Deps{Service: deps.Service, Resolver: deps.Resolver}, quizID, func() screen.Screen {
		return attemptscreen.New(deps, quizID)
	})
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (h *HomeScreen) View(width, height int) string {
	if !h.loaded {
		return layout.Message("Loading quizzes...", width)
	}
	if h.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).
			Render("\n\n" + theme.ErrorText.Render(h.errMsg) + "\n\n" + theme.Hint.Render("Press R to retry."))
	}
	if len(h.quizIDs) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\nNo quizzes yet.\n\nLoad a catalog with `quizdeck import <catalog.json>`\nor try `quizdeck import --sample`.")
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Choose a quiz"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%d available", h.quizCount())))
	b.WriteString("\n\n")
	b.WriteString(h.menu.View())

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Card.Render(b.String()))
}

func (h *HomeScreen) quizCount() int {
	n := 0
	for _, id := range h.quizIDs {
		if id != "" {
			n++
		}
	}
	return n
}
