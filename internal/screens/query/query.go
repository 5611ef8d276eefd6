// Package query is the screen for choosing a selection and its parameters.
package query

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/markassist/markassist/internal/marks"
	"github.com/markassist/markassist/internal/screen"
	"github.com/markassist/markassist/internal/screens/records"
	"github.com/markassist/markassist/internal/ui/components"
	"github.com/markassist/markassist/internal/ui/layout"
	"github.com/markassist/markassist/internal/ui/theme"
)

type param struct {
	label       string
	placeholder string
	numeric     bool
}

type choice struct {
	op          marks.Operation
	label       string
	description string
	params      []param
}

var choices = []choice{
	{marks.OpAll, "All records", "Every record, by student ID.", nil},
	{marks.OpByGrade, "By grade", "Records carrying one grade, lowest total first.",
		[]param{{"Grade", "HD D C P SA SE AF F", false}}},
	{marks.OpByTotalRange, "By total range", "Records whose total lies in a range, both ends included.",
		[]param{{"From", "0", true}, {"To", "100", true}}},
	{marks.OpByTolerance, "Near a boundary", "Records exactly this many marks below 85, 75, 65 or 50.",
		[]param{{"Marks short", "1", true}}},
	{marks.OpByAssignment1, "By assignment 1", "Records with this assignment 1 mark.",
		[]param{{"Assignment 1", "0", true}}},
}

type chosenMsg struct {
	index int
}

// QueryScreen first lists the selections, then asks for the chosen one's
// parameters.
type QueryScreen struct {
	wf      *marks.Workflow
	menu    components.Menu
	chosen  *choice
	form    components.Form
	status  string
	loading bool
}

var _ screen.Screen = (*QueryScreen)(nil)
var _ screen.KeyHintProvider = (*QueryScreen)(nil)

func New(wf *marks.Workflow) *QueryScreen {
	items := make([]components.MenuItem, len(choices))
	for i, c := range choices {
		items[i] = components.MenuItem{
			Label:       c.label,
			Description: c.description,
			Action:      func() tea.Cmd { return func() tea.Msg { return chosenMsg{index: i} } },
		}
	}
	return &QueryScreen{wf: wf, menu: components.NewMenu(items)}
}

func (q *QueryScreen) Init() tea.Cmd {
	return nil
}

func (q *QueryScreen) Title() string {
	if q.chosen != nil {
		return q.chosen.label
	}
	return "Query"
}

func (q *QueryScreen) KeyHints() []layout.KeyHint {
	if q.chosen == nil {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Select"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Run"},
		{Key: "Esc", Description: "Back"},
	}
}

func (q *QueryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case chosenMsg:
		return q, q.choose(msg.index)

	case records.LoadedMsg:
		q.loading = false
		cmd, status := records.Open(q.wf, msg)
		q.status = status
		return q, cmd

	case tea.KeyPressMsg:
		if q.loading {
			return q, nil
		}
		if q.chosen != nil && msg.String() == "enter" {
			return q, q.run(q.form.Values())
		}
	}

	var cmd tea.Cmd
	if q.chosen == nil {
		q.menu, cmd = q.menu.Update(msg)
	} else {
		q.form, cmd = q.form.Update(msg)
	}
	return q, cmd
}

func (q *QueryScreen) choose(i int) tea.Cmd {
	c := choices[i]
	q.status = ""
	if len(c.params) == 0 {
		return q.run(nil)
	}

	inputs := make([]components.TextInput, len(c.params))
	for j, p := range c.params {
		inputs[j] = components.NewTextInput(p.label, p.placeholder, p.numeric, 8)
	}
	q.chosen = &c
	q.form = components.NewForm(inputs...)
	return nil
}

// run validates params before anything touches the store.
func (q *QueryScreen) run(params []string) tea.Cmd {
	op := marks.OpAll
	if q.chosen != nil {
		op = q.chosen.op
	}
	sel, err := marks.ParseSelection(op, params...)
	if err != nil {
		q.status = err.Error()
		return nil
	}

	title := op.String()
	if len(params) > 0 {
		title += " " + strings.Join(params, " ")
	}
	q.loading = true
	q.status = "Searching..."
	return records.Load(q.wf, title, sel)
}

func (q *QueryScreen) View(width, height int) string {
	var b strings.Builder
	if q.chosen == nil {
		b.WriteString(theme.Title.Render("Find records"))
		b.WriteString("\n\n")
		b.WriteString(q.menu.View())
	} else {
		b.WriteString(theme.Title.Render(q.chosen.label))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(q.chosen.description))
		b.WriteString("\n\n")
		b.WriteString(q.form.View())
	}
	if q.status != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Notice.Render(q.status))
	}

	card := theme.Card.Width(min(width-4, 64)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
