// Package records is the browse screen: one mark record at a time, stepping
// through a selection's result set with wraparound.
package records

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/markassist/markassist/internal/browse"
	"github.com/markassist/markassist/internal/marks"
	"github.com/markassist/markassist/internal/router"
	"github.com/markassist/markassist/internal/screen"
	"github.com/markassist/markassist/internal/screens/edit"
	"github.com/markassist/markassist/internal/ui/components"
	"github.com/markassist/markassist/internal/ui/layout"
	"github.com/markassist/markassist/internal/ui/theme"
)

// NoRecords is shown when a selection matched nothing.
const NoRecords = "No records found"

// LoadedMsg carries the result of running a selection.
type LoadedMsg struct {
	Title     string
	Selection marks.Selection
	Records   []marks.Record
	Err       error
}

// Load runs sel in the background and reports a LoadedMsg.
func Load(wf *marks.Workflow, title string, sel marks.Selection) tea.Cmd {
	return func() tea.Msg {
		recs, err := wf.Repository().Run(context.Background(), sel)
		return LoadedMsg{Title: title, Selection: sel, Records: recs, Err: err}
	}
}

// Open turns a LoadedMsg into a command that pushes the browse screen. When
// there is nothing to browse it returns no command and the status to show
// instead.
func Open(wf *marks.Workflow, msg LoadedMsg) (tea.Cmd, string) {
	if msg.Err != nil {
		return nil, msg.Err.Error()
	}
	if len(msg.Records) == 0 {
		return nil, NoRecords
	}
	s := New(wf, msg.Title, msg.Selection, msg.Records)
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }, ""
}

type recomputedMsg struct {
	rec      marks.Record
	affected int64
	err      error
}

// refetchedMsg carries the selection's result set after a write. keep is
// the student whose record was written.
type refetchedMsg struct {
	keep string
	recs []marks.Record
	err  error
}

// RecordsScreen browses a result set. After a write the set is re-fetched
// from sel so the browse never shows records that no longer match it.
type RecordsScreen struct {
	wf     *marks.Workflow
	title  string
	sel    marks.Selection
	cursor *browse.Cursor[marks.Record]
	status string
	busy   bool
}

var _ screen.Screen = (*RecordsScreen)(nil)
var _ screen.KeyHintProvider = (*RecordsScreen)(nil)
var _ screen.StatusProvider = (*RecordsScreen)(nil)

// New returns a screen browsing recs, the result of running sel. A nil sel
// patches written records in place instead of re-fetching.
func New(wf *marks.Workflow, title string, sel marks.Selection, recs []marks.Record) *RecordsScreen {
	return &RecordsScreen{wf: wf, title: title, sel: sel, cursor: browse.New(recs)}
}

func (s *RecordsScreen) Init() tea.Cmd {
	return nil
}

func (s *RecordsScreen) Title() string {
	return s.title
}

// Status shows the browse position, e.g. "3 / 12".
func (s *RecordsScreen) Status() string {
	cur, err := s.cursor.Current()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d / %d", cur.Index, cur.Size)
}

func (s *RecordsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Browse"},
		{Key: "r", Description: "Recompute grade"},
		{Key: "e", Description: "Edit"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *RecordsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case recomputedMsg:
		s.busy = false
		switch {
		case msg.err != nil:
			s.status = msg.err.Error()
		case msg.affected == 0:
			s.status = fmt.Sprintf("No record for %s in the store.", msg.rec.StudentID)
		default:
			s.status = fmt.Sprintf("Grade recomputed: %s", msg.rec.Grade)
			return s, s.written(msg.rec)
		}
		return s, nil

	case edit.SavedMsg:
		s.status = "Saved."
		return s, s.written(msg.Record)

	case refetchedMsg:
		s.busy = false
		if msg.err != nil {
			s.status = msg.err.Error()
			return s, nil
		}
		pos := s.cursor.Position()
		if !s.cursor.Open(msg.recs) {
			return s, nil
		}
		if i := slices.IndexFunc(msg.recs, func(r marks.Record) bool { return r.StudentID == msg.keep }); i >= 0 {
			pos = i
		}
		s.cursor.Seek(pos)
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *RecordsScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if !s.cursor.Active() || s.busy {
		return s, nil
	}

	switch msg.String() {
	case "right", "l", "n", "space":
		s.cursor.Next()
		s.status = ""
	case "left", "h", "p":
		s.cursor.Previous()
		s.status = ""
	case "r":
		cur, _ := s.cursor.Current()
		s.busy = true
		s.status = "Recomputing..."
		return s, s.recompute(cur.Item)
	case "e":
		cur, _ := s.cursor.Current()
		ed := edit.New(s.wf, cur.Item)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: ed} }
	}
	return s, nil
}

// written brings the browse up to date after rec was stored.
func (s *RecordsScreen) written(rec marks.Record) tea.Cmd {
	if s.sel == nil {
		s.cursor.SetCurrent(rec)
		return nil
	}
	s.busy = true
	wf, sel := s.wf, s.sel
	return func() tea.Msg {
		recs, err := wf.Repository().Run(context.Background(), sel)
		return refetchedMsg{keep: rec.StudentID, recs: recs, err: err}
	}
}

func (s *RecordsScreen) recompute(rec marks.Record) tea.Cmd {
	wf := s.wf
	return func() tea.Msg {
		n, g, err := wf.RecomputeOne(context.Background(), rec)
		return recomputedMsg{rec: rec.WithGrade(g), affected: n, err: err}
	}
}

func (s *RecordsScreen) View(width, height int) string {
	cur, err := s.cursor.Current()
	if err != nil {
		body := theme.Hint.Render(NoRecords)
		if s.status != "" {
			body += "\n\n" + theme.Notice.Render(s.status)
		}
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
	}

	var b strings.Builder
	b.WriteString(components.RecordCard(cur.Item, width))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Hint.Render(fmt.Sprintf("Record %d of %d", cur.Index, cur.Size))))
	if s.status != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Notice.Render(s.status)))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
