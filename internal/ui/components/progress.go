package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdeck/internal/ui/theme"
)

// ProgressBar draws a fraction in [0, 1] as a filled bar.
type ProgressBar struct {
	Fraction    float64
	Width       int
	ShowPercent bool
	// Low switches the filled part to the alert color.
	Low bool
}

func NewProgressBar(fraction float64, width int) ProgressBar {
	return ProgressBar{Fraction: fraction, Width: width}
}

func (p ProgressBar) View() string {
	cells := p.Width
	if p.ShowPercent {
		cells -= 6 // "  100%"
	}
	cells = max(cells, 4)
	filled := min(max(int(float64(cells)*p.Fraction), 0), cells)

	fill := theme.ProgressFilled
	if p.Low {
		fill = theme.ProgressLow
	}
	out := fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", cells-filled))

	if p.ShowPercent {
		out += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(p.Fraction*100)))
	}
	return out
}
