package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/markassist/markassist/internal/ui/theme"
)

// ProgressBar is a labelled horizontal bar, used for grade distributions.
type ProgressBar struct {
	Label   string
	Style   lipgloss.Style
	Percent float64
	Count   int
	Width   int
}

func NewProgressBar(label string, style lipgloss.Style, count, total, width int) ProgressBar {
	p := ProgressBar{Label: label, Style: style, Count: count, Width: width}
	if total > 0 {
		p.Percent = float64(count) / float64(total)
	}
	return p
}

// View renders "LABEL ████░░░░  n (pp%)".
func (p ProgressBar) View() string {
	label := p.Style.Width(4).Render(p.Label)
	tail := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %3d (%3d%%)", p.Count, int(p.Percent*100+0.5)))

	barWidth := max(p.Width-lipgloss.Width(label)-lipgloss.Width(tail), 4)
	filled := min(max(int(float64(barWidth)*p.Percent+0.5), 0), barWidth)

	bar := lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))

	return label + bar + tail
}
