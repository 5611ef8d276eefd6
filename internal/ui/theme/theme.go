package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/markassist/markassist/internal/grading"
)

// Palette: muted slate with a blue accent, readable on dark terminals.
var (
	Primary   = lipgloss.Color("#3B82F6") // Blue
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Label = lipgloss.NewStyle().
		Foreground(TextDim).
		Width(14)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 3)

	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Disabled = lipgloss.NewStyle().
			Foreground(Border)

	Notice = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	Failure = lipgloss.NewStyle().
		Foreground(Error)

	Done = lipgloss.NewStyle().
		Foreground(Success)
)

// Grade returns the style used to print g: passing grades in green shades,
// supplementary grades in amber, fails in rose.
func Grade(g grading.Grade) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch g {
	case grading.GradeHighDistinction, grading.GradeDistinction:
		return s.Foreground(Success)
	case grading.GradeCredit, grading.GradePass:
		return s.Foreground(Secondary)
	case grading.GradeSuppAssessment, grading.GradeSuppExam:
		return s.Foreground(Accent)
	case grading.GradeAbsentFail, grading.GradeFail:
		return s.Foreground(Error)
	default:
		return s.Foreground(TextDim)
	}
}
