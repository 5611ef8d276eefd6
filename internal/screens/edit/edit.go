// Package edit is the screen for overwriting one record's marks.
package edit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
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

// SavedMsg is delivered to the screen below after a successful update.
type SavedMsg struct {
	Record marks.Record
}

type savedMsg struct {
	rec      marks.Record
	affected int64
	err      error
}

const (
	fieldA1 = iota
	fieldA2
	fieldExam
	fieldTotal
	fieldGrade
)

// EditScreen edits the marks of one student. A blank total is the sum of
// the components and a blank grade is assigned by the classifier.
type EditScreen struct {
	wf       *marks.Workflow
	original marks.Record
	form     components.Form
	status   string
	saving   bool
}

var _ screen.Screen = (*EditScreen)(nil)
var _ screen.KeyHintProvider = (*EditScreen)(nil)

func New(wf *marks.Workflow, rec marks.Record) *EditScreen {
	inputs := []components.TextInput{
		components.NewTextInput("Assignment 1", "", true, 4),
		components.NewTextInput("Assignment 2", "", true, 4),
		components.NewTextInput("Exam", "", true, 4),
		components.NewTextInput("Total", "sum of the above", true, 4),
		components.NewTextInput("Grade", "classify", false, 2),
	}
	inputs[fieldA1].SetValue(strconv.Itoa(rec.Assignment1))
	inputs[fieldA2].SetValue(strconv.Itoa(rec.Assignment2))
	inputs[fieldExam].SetValue(strconv.Itoa(rec.Exam))
	inputs[fieldTotal].SetValue(strconv.Itoa(rec.Total))
	inputs[fieldGrade].SetValue(string(rec.Grade))

	return &EditScreen{wf: wf, original: rec, form: components.NewForm(inputs...)}
}

func (e *EditScreen) Init() tea.Cmd {
	return nil
}

func (e *EditScreen) Title() string {
	return "Edit " + e.original.StudentID
}

func (e *EditScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Save"},
		{Key: "Esc", Description: "Cancel"},
	}
}

func (e *EditScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		e.saving = false
		switch {
		case msg.err != nil:
			e.status = msg.err.Error()
			return e, nil
		case msg.affected == 0:
			e.status = fmt.Sprintf("No record for %s; nothing was changed.", msg.rec.StudentID)
			return e, nil
		}
		rec := msg.rec
		return e, tea.Sequence(
			func() tea.Msg { return router.PopScreenMsg{} },
			func() tea.Msg { return SavedMsg{Record: rec} },
		)

	case tea.KeyPressMsg:
		if msg.String() == "enter" {
			if e.saving {
				return e, nil
			}
			rec, err := e.record()
			if err != nil {
				e.status = err.Error()
				return e, nil
			}
			e.saving = true
			e.status = "Saving..."
			return e, e.save(rec)
		}
	}

	var cmd tea.Cmd
	e.form, cmd = e.form.Update(msg)
	return e, cmd
}

// record builds the updated record from the form.
func (e *EditScreen) record() (marks.Record, error) {
	rec := marks.Record{StudentID: e.original.StudentID}

	ints := []struct {
		field int
		dst   *int
	}{
		{fieldA1, &rec.Assignment1},
		{fieldA2, &rec.Assignment2},
		{fieldExam, &rec.Exam},
	}
	for _, f := range ints {
		in := e.form.Inputs[f.field]
		n, err := in.NumericValue()
		if err != nil {
			return marks.Record{}, fmt.Errorf("%s must be a whole number", in.Label)
		}
		*f.dst = n
	}

	if in := e.form.Inputs[fieldTotal]; in.Value() != "" {
		n, err := in.NumericValue()
		if err != nil {
			return marks.Record{}, errors.New("Total must be a whole number")
		}
		rec.Total = n
	} else {
		rec.Total = rec.Sum()
	}

	if g := grading.Grade(strings.ToUpper(e.form.Inputs[fieldGrade].Value())); g != "" {
		if !g.Valid() {
			return marks.Record{}, fmt.Errorf("unknown grade %q", g)
		}
		rec.Grade = g
	} else {
		rec.Grade = rec.Classify()
	}
	return rec, nil
}

func (e *EditScreen) save(rec marks.Record) tea.Cmd {
	wf := e.wf
	return func() tea.Msg {
		n, err := wf.Repository().Command(context.Background(), marks.OpUpdateRecord, rec)
		return savedMsg{rec: rec, affected: n, err: err}
	}
}

func (e *EditScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Student " + e.original.StudentID))
	b.WriteString("\n\n")
	b.WriteString(e.form.View())
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Leave Total or Grade blank to compute them."))
	if e.status != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Notice.Render(e.status))
	}

	card := theme.Card.Width(min(width-4, 60)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
