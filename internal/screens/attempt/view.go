package attempt

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	att "github.com/abhisek/quizdeck/internal/attempt"
	"github.com/abhisek/quizdeck/internal/ui/components"
	"github.com/abhisek/quizdeck/internal/ui/layout"
	"github.com/abhisek/quizdeck/internal/ui/theme"
)

func (s *AttemptScreen) View(width, height int) string {
	switch s.coord.Phase() {
	case att.PhaseLoading:
		return layout.Message(s.spinner.View()+" Loading quiz...", width)
	case att.PhaseError:
		return renderError(width, att.UserMessage(s.coord.Err()))
	case att.PhaseSubmitting:
		return layout.Message(s.spinner.View()+" Submitting your answers...", width)
	case att.PhaseCompleted:
		return layout.Message("Loading results...", width)
	}

	if s.abandoning {
		return s.renderDialog(width, height,
			"Leave this quiz?\n\nYour answers will be discarded and nothing is recorded.",
			s.abandon)
	}
	if s.coord.Confirming() {
		return s.renderDialog(width, height, s.confirmText(), s.confirm)
	}
	return s.renderQuestionView(width, height)
}

func (s *AttemptScreen) confirmText() string {
	p := s.coord.Preview()
	unanswered := len(p.Questions) - s.coord.AnsweredCount()
	noun := "questions"
	if unanswered == 1 {
		noun = "question"
	}
	return fmt.Sprintf("You have %d unanswered %s.\n\nUnanswered questions score zero. Submit anyway?", unanswered, noun)
}

// renderQuestionView renders the status line, any banners and the current
// question.
func (s *AttemptScreen) renderQuestionView(width, height int) string {
	p := s.coord.Preview()
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	var b strings.Builder

	// Status line.
	total := len(p.Questions)
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d/%d", min(s.current+1, total), total))
	left += lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("   Answered %d/%d   Pass mark %d%%", s.coord.AnsweredCount(), total, p.PassingScorePercent))

	line := left
	if timer := s.renderTimer(); timer != "" {
		pad := width - lipgloss.Width(left) - lipgloss.Width(timer) - 2
		if pad > 0 {
			line += strings.Repeat(" ", pad) + timer
		}
	}
	b.WriteString(line)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n")

	if s.warning != "" {
		b.WriteString("  " + theme.Banner.Render("⚠ "+s.warning))
		b.WriteString("\n")
	}
	if err := s.coord.Err(); err != nil {
		b.WriteString("  " + theme.ErrorText.Render(att.UserMessage(err)+" Press S to try again."))
		b.WriteString("\n")
	}
	if s.notice != "" {
		b.WriteString("  " + theme.Hint.Render(s.notice))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if total > 0 {
		body := s.mc.View(inner, s.coord.IsSelected)
		b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(body))
		b.WriteString("\n")
		if !layout.IsCompactHeight(height) {
			b.WriteString("\n")
		}
		b.WriteString("  " + s.renderNavigator())
	}

	return b.String()
}

// renderTimer renders the countdown, or nothing for untimed quizzes.
func (s *AttemptScreen) renderTimer() string {
	timer := s.coord.Timer()
	if !timer.Timed() {
		return ""
	}
	frac := timer.Fraction()
	bar := components.NewProgressBar(frac, 14)
	bar.Low = frac < 0.2
	style := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	if bar.Low {
		style = style.Foreground(theme.Error)
	}
	return bar.View() + " " + style.Render(timer.Format())
}

// renderNavigator renders one dot per question: filled when answered and
// highlighted for the current question.
func (s *AttemptScreen) renderNavigator() string {
	p := s.coord.Preview()
	parts := make([]string, len(p.Questions))
	for i, q := range p.Questions {
		dot := "○"
		if s.coord.Answered(q.ID) {
			dot = "●"
		}
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if i == s.current {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		parts[i] = style.Render(dot)
	}
	return strings.Join(parts, " ")
}

func (s *AttemptScreen) renderDialog(width, height int, text string, buttons components.ButtonRow) string {
	body := lipgloss.NewStyle().Foreground(theme.Text).Render(text) + "\n\n" + buttons.View()
	return layout.Center(theme.Dialog.Render(body), width, height)
}

func renderError(width int, msg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("\n\n" + theme.ErrorText.Render(msg) + "\n\n" + theme.Hint.Render("Press R to try again or any other key to go back."))
}
