package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/markassist/markassist/internal/ui/layout"
)

// Screen is one page of the terminal browser. The router owns a stack of
// them and only the top one receives input.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	// View renders the content area between the header and footer.
	View(width, height int) string
	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens that want their own footer
// hints instead of the defaults.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is implemented by screens that show a status on the right
// of the header, such as a browse position.
type StatusProvider interface {
	Status() string
}
