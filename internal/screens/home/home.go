// Package home is the main menu of the terminal browser.
package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/markassist/markassist/internal/marks"
	"github.com/markassist/markassist/internal/router"
	"github.com/markassist/markassist/internal/screen"
	"github.com/markassist/markassist/internal/screens/ask"
	"github.com/markassist/markassist/internal/screens/query"
	"github.com/markassist/markassist/internal/screens/records"
	"github.com/markassist/markassist/internal/screens/summary"
	"github.com/markassist/markassist/internal/ui/components"
	"github.com/markassist/markassist/internal/ui/theme"
)

type statsMsg struct {
	recs []marks.Record
	err  error
}

type recomputedMsg struct {
	before, after []marks.Record
	err           error
}

// HomeScreen lists the things staff can do.
type HomeScreen struct {
	wf     *marks.Workflow
	menu   components.Menu
	status string
	busy   bool
}

var _ screen.Screen = (*HomeScreen)(nil)

// New builds the menu. translator may be nil, which disables asking
// questions in plain English.
func New(wf *marks.Workflow, translator ask.Translator) *HomeScreen {
	h := &HomeScreen{wf: wf}

	askItem := components.MenuItem{
		Label:       "Ask a question",
		Description: "Describe the records you want in plain English.",
		Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: ask.New(wf, translator)} }
		},
	}
	if translator == nil {
		askItem.Disabled = true
		askItem.Description = ""
		askItem.Label += " (no LLM configured)"
	}

	h.menu = components.NewMenu([]components.MenuItem{
		{
			Label:       "Browse all records",
			Description: "Step through every record by student ID.",
			Action:      func() tea.Cmd { return h.start("Loading...", records.Load(wf, marks.OpAll.String(), marks.All{})) },
		},
		{
			Label:       "Find records",
			Description: "Select by grade, total range, boundary distance or assignment 1 mark.",
			Action: func() tea.Cmd {
				return func() tea.Msg { return router.PushScreenMsg{Screen: query.New(wf)} }
			},
		},
		askItem,
		{
			Label:       "Recompute all grades",
			Description: "Run the classifier over every record and store the results.",
			Action:      func() tea.Cmd { return h.start("Recomputing...", recomputeAll(wf)) },
		},
		{
			Label:       "Statistics",
			Description: "Grade distribution and mean total.",
			Action:      func() tea.Cmd { return h.start("Loading...", loadStats(wf)) },
		},
		{
			Label:  "Quit",
			Action: func() tea.Cmd { return tea.Quit },
		},
	})
	return h
}

func (h *HomeScreen) start(status string, cmd tea.Cmd) tea.Cmd {
	h.busy = true
	h.status = status
	return cmd
}

func recomputeAll(wf *marks.Workflow) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		before, err := wf.Repository().Run(ctx, marks.All{})
		if err != nil {
			return recomputedMsg{err: err}
		}
		after, err := wf.RecomputeAll(ctx)
		if err != nil {
			// Prior writes stay committed; show what the store holds now.
			after, _ = wf.Repository().Run(ctx, marks.All{})
		}
		return recomputedMsg{before: before, after: after, err: err}
	}
}

func loadStats(wf *marks.Workflow) tea.Cmd {
	return func() tea.Msg {
		recs, err := wf.Repository().Run(context.Background(), marks.All{})
		return statsMsg{recs: recs, err: err}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case records.LoadedMsg:
		h.busy = false
		cmd, status := records.Open(h.wf, msg)
		h.status = status
		return h, cmd

	case statsMsg:
		h.busy = false
		if msg.err != nil {
			h.status = msg.err.Error()
			return h, nil
		}
		h.status = ""
		s := summary.New("Statistics", marks.Summarize(msg.recs))
		return h, func() tea.Msg { return router.PushScreenMsg{Screen: s} }

	case recomputedMsg:
		h.busy = false
		if msg.before == nil && msg.err != nil {
			h.status = msg.err.Error()
			return h, nil
		}
		h.status = ""
		s := summary.NewRecompute(marks.Summarize(msg.after), summary.Diff(msg.before, msg.after), msg.err)
		return h, func() tea.Msg { return router.PushScreenMsg{Screen: s} }

	case tea.KeyPressMsg:
		if h.busy {
			return h, nil
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("What would you like to do?"))
	b.WriteString("\n\n")
	b.WriteString(h.menu.View())
	if h.status != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Notice.Render(h.status))
	}

	card := theme.Card.Width(min(width-4, 64)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
