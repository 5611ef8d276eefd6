package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/markassist/markassist/internal/marks"
	"github.com/markassist/markassist/internal/ui/theme"
)

// RecordCard renders one mark record as a bordered card. When the stored
// grade differs from what the classifier assigns now, the card says so.
func RecordCard(rec marks.Record, width int) string {
	row := func(label, value string) string {
		return theme.Label.Render(label) + value
	}

	lines := []string{
		theme.Title.Render(rec.StudentID),
		"",
		row("Assignment 1", theme.Body.Render(fmt.Sprint(rec.Assignment1))),
		row("Assignment 2", theme.Body.Render(fmt.Sprint(rec.Assignment2))),
		row("Exam", theme.Body.Render(fmt.Sprint(rec.Exam))),
		row("Total", theme.Body.Render(fmt.Sprint(rec.Total))),
		row("Grade", theme.Grade(rec.Grade).Render(string(rec.Grade))+" "+theme.Hint.Render(rec.Grade.DisplayName())),
	}

	if sum := rec.Sum(); sum != rec.Total {
		lines = append(lines, "", theme.Notice.Render(fmt.Sprintf("Components add up to %d, not %d.", sum, rec.Total)))
	}
	if want := rec.Classify(); want != rec.Grade {
		lines = append(lines, "", theme.Notice.Render(fmt.Sprintf("Classifier says %s (%s).", want, want.DisplayName())))
	}

	card := theme.Card.Width(min(width-4, 56)).Render(strings.Join(lines, "\n"))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}
