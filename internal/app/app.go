// Package app hosts the terminal browser.
package app

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/markassist/markassist/internal/marks"
	"github.com/markassist/markassist/internal/router"
	"github.com/markassist/markassist/internal/screen"
	"github.com/markassist/markassist/internal/screens/ask"
	"github.com/markassist/markassist/internal/screens/home"
	"github.com/markassist/markassist/internal/screens/welcome"
	"github.com/markassist/markassist/internal/ui/layout"
)

// Options wires the browser to the core.
type Options struct {
	Workflow *marks.Workflow
	// Translator enables plain-English questions. Leave nil to disable.
	Translator ask.Translator
	// Source describes the open store on the welcome screen.
	Source string
	// Records is the number of records in the store at start-up.
	Records int
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	homeFactory := func() screen.Screen {
		return home.New(opts.Workflow, opts.Translator)
	}
	return AppModel{
		router: router.New(welcome.New(opts.Source, opts.Records, homeFactory)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}
	header := layout.RenderHeader(title, status, m.width)

	var hints []layout.KeyHint
	switch {
	case active != nil && implementsHints(active):
		hints = active.(screen.KeyHintProvider).KeyHints()
	case m.router.Depth() > 1:
		hints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	default:
		hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func implementsHints(s screen.Screen) bool {
	_, ok := s.(screen.KeyHintProvider)
	return ok
}

// Run starts the browser and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
