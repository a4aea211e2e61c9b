package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdeck/internal/quiz"
	"github.com/abhisek/quizdeck/internal/ui/theme"
)

// OptionToggledMsg is emitted when the learner picks an option.
type OptionToggledMsg struct {
	QuestionID string
	OptionID   string
}

// MultiChoice renders one quiz question and lets the learner move a cursor
// over its options. It does not hold selections; the caller supplies them
// through IsSelected so the answer state has a single owner.
type MultiChoice struct {
	Question *quiz.QuestionPreview
	Number   int
	Cursor   int
	Locked   bool
}

// NewMultiChoice creates a multiple-choice component for q, shown as
// question number n.
func NewMultiChoice(q *quiz.QuestionPreview, n int) MultiChoice {
	return MultiChoice{Question: q, Number: n}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection. Number keys pick an
// option directly.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Question == nil {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Question.Options)-1 {
			m.Cursor++
		}
	case "space", " ", "enter":
		return m, m.toggle(m.Cursor)
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			i := int(key[0] - '1')
			if i < len(m.Question.Options) {
				m.Cursor = i
				return m, m.toggle(i)
			}
		}
	}

	return m, nil
}

func (m MultiChoice) toggle(i int) tea.Cmd {
	if m.Locked || i < 0 || i >= len(m.Question.Options) {
		return nil
	}
	msg := OptionToggledMsg{QuestionID: m.Question.ID, OptionID: m.Question.Options[i].ID}
	return func() tea.Msg { return msg }
}

// View renders the question and its options. isSelected reports the
// learner's current selections.
func (m MultiChoice) View(width int, isSelected func(questionID, optionID string) bool) string {
	if m.Question == nil {
		return ""
	}
	q := m.Question

	var b strings.Builder

	head := fmt.Sprintf("%d. %s", m.Number, q.Text)
	b.WriteString(lipgloss.NewStyle().Width(width).Foreground(theme.Text).Bold(true).Render(head))
	b.WriteString("\n")

	meta := fmt.Sprintf("%s · %s", typeHint(q.Type), points(q.Weight))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(meta))
	b.WriteString("\n")
	if q.ImageURL != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render("Image: " + q.ImageURL))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, o := range q.Options {
		mark := marker(q.Type, isSelected(q.ID, o.ID))
		prefix := "  "
		if i == m.Cursor && !m.Locked {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %d) %s", prefix, mark, i+1, o.Text)

		style := theme.Unselected
		switch {
		case m.Locked:
			style = theme.Disabled
		case i == m.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

func marker(t quiz.QuestionType, selected bool) string {
	if t == quiz.TypeMultiple {
		if selected {
			return "[x]"
		}
		return "[ ]"
	}
	if selected {
		return "(•)"
	}
	return "( )"
}

func typeHint(t quiz.QuestionType) string {
	switch t {
	case quiz.TypeMultiple:
		return "Select all that apply"
	case quiz.TypeTrueFalse:
		return "True or false"
	default:
		return "Select one"
	}
}

func points(w int) string {
	if w == 1 {
		return "1 point"
	}
	return fmt.Sprintf("%d points", w)
}
