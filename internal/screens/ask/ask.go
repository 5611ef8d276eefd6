// Package ask is the screen for asking about marks in plain English.
package ask

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/markassist/markassist/internal/marks"
	"github.com/markassist/markassist/internal/screen"
	"github.com/markassist/markassist/internal/screens/records"
	"github.com/markassist/markassist/internal/ui/components"
	"github.com/markassist/markassist/internal/ui/layout"
	"github.com/markassist/markassist/internal/ui/theme"
)

// Translator turns a question into a selection.
type Translator interface {
	Translate(ctx context.Context, question string) (marks.Selection, error)
}

type translatedMsg struct {
	sel marks.Selection
	err error
}

// AskScreen sends a question to the translator and browses the selection it
// picks.
type AskScreen struct {
	wf         *marks.Workflow
	translator Translator
	form       components.Form
	status     string
	busy       bool
}

var _ screen.Screen = (*AskScreen)(nil)
var _ screen.KeyHintProvider = (*AskScreen)(nil)

func New(wf *marks.Workflow, translator Translator) *AskScreen {
	return &AskScreen{
		wf:         wf,
		translator: translator,
		form:       components.NewForm(components.NewTextInput("Question", "who got a credit?", false, 200)),
	}
}

func (a *AskScreen) Init() tea.Cmd {
	return nil
}

func (a *AskScreen) Title() string {
	return "Ask"
}

func (a *AskScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Ask"},
		{Key: "Esc", Description: "Back"},
	}
}

func (a *AskScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case translatedMsg:
		if msg.err != nil {
			a.busy = false
			var verr *marks.ErrValidation
			if errors.As(msg.err, &verr) {
				a.status = "Could not turn that into a query: " + verr.Reason
			} else {
				a.status = msg.err.Error()
			}
			return a, nil
		}
		a.status = "Searching..."
		return a, records.Load(a.wf, marks.Describe(msg.sel), msg.sel)

	case records.LoadedMsg:
		a.busy = false
		cmd, status := records.Open(a.wf, msg)
		a.status = status
		return a, cmd

	case tea.KeyPressMsg:
		if a.busy {
			return a, nil
		}
		if msg.String() == "enter" {
			q := a.form.Values()[0]
			if q == "" {
				return a, nil
			}
			a.busy = true
			a.status = "Thinking..."
			return a, a.translate(q)
		}
	}

	var cmd tea.Cmd
	a.form, cmd = a.form.Update(msg)
	return a, cmd
}

func (a *AskScreen) translate(q string) tea.Cmd {
	t := a.translator
	return func() tea.Msg {
		sel, err := t.Translate(context.Background(), q)
		return translatedMsg{sel: sel, err: err}
	}
}

func (a *AskScreen) View(width, height int) string {
	body := theme.Title.Render("Ask about marks") + "\n\n" + a.form.View()
	if a.status != "" {
		body += "\n\n" + theme.Notice.Render(a.status)
	}
	card := theme.Card.Width(min(width-4, 72)).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
