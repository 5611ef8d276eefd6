// Package summary shows the grade distribution of the store, optionally
// with the grade changes a recompute made.
package summary

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/markassist/markassist/internal/grading"
	"github.com/markassist/markassist/internal/marks"
	"github.com/markassist/markassist/internal/router"
	"github.com/markassist/markassist/internal/screen"
	"github.com/markassist/markassist/internal/ui/components"
	"github.com/markassist/markassist/internal/ui/layout"
	"github.com/markassist/markassist/internal/ui/theme"
)

// Change is one grade rewritten by a recompute.
type Change struct {
	StudentID string
	From, To  grading.Grade
}

// Diff lists the students whose grade differs between before and after,
// ordered by student ID.
func Diff(before, after []marks.Record) []Change {
	was := make(map[string]grading.Grade, len(before))
	for _, r := range before {
		was[r.StudentID] = r.Grade
	}
	var out []Change
	for _, r := range after {
		if g, ok := was[r.StudentID]; ok && g != r.Grade {
			out = append(out, Change{StudentID: r.StudentID, From: g, To: r.Grade})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out
}

// SummaryScreen displays a marks.Summary.
type SummaryScreen struct {
	title     string
	summary   marks.Summary
	recompute bool
	changes   []Change
	err       error
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

func New(title string, sum marks.Summary) *SummaryScreen {
	return &SummaryScreen{title: title, summary: sum}
}

// NewRecompute shows the store after a recompute along with the grades it
// changed. err is the batch failure, if any.
func NewRecompute(sum marks.Summary, changes []Change, err error) *SummaryScreen {
	return &SummaryScreen{title: "Recompute", summary: sum, recompute: true, changes: changes, err: err}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return s.title
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	cw := min(width-8, 64)

	var b strings.Builder
	b.WriteString(theme.Title.Render(s.title))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("Records: %d        Mean total: %.1f", sum.Count, sum.MeanTotal)))
	b.WriteString("\n\n")

	for _, g := range grading.AllGrades() {
		bar := components.NewProgressBar(string(g), theme.Grade(g), sum.ByGrade[g], sum.Count, cw)
		b.WriteString(bar.View())
		b.WriteString("\n")
	}

	if sum.Stale > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Notice.Render(fmt.Sprintf("%d stored grades differ from the classifier.", sum.Stale)))
		b.WriteString("\n")
	}

	if s.err != nil {
		b.WriteString("\n")
		var batch *marks.ErrBatch
		if errors.As(s.err, &batch) {
			b.WriteString(theme.Failure.Render(fmt.Sprintf("Stopped after %d of %d records: %v", batch.Done, batch.Total, batch.Err)))
		} else {
			b.WriteString(theme.Failure.Render(s.err.Error()))
		}
		b.WriteString("\n")
	}

	if s.recompute {
		b.WriteString("\n")
		b.WriteString(s.renderChanges(height - 16))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

// renderChanges lists at most room changes.
func (s *SummaryScreen) renderChanges(room int) string {
	if len(s.changes) == 0 {
		return theme.Done.Render("No grades changed.")
	}

	room = max(room, 1)
	var b strings.Builder
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d grades changed:", len(s.changes))))
	for i, c := range s.changes {
		if i == room {
			b.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("  … and %d more", len(s.changes)-room)))
			break
		}
		b.WriteString(fmt.Sprintf("\n  %-12s %s → %s", c.StudentID,
			theme.Grade(c.From).Render(string(c.From)),
			theme.Grade(c.To).Render(string(c.To))))
	}
	return b.String()
}
