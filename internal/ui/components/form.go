package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// Form is a column of text inputs with one focused at a time. Tab and the
// arrow keys move focus; every other key goes to the focused input. The
// owning screen decides what Enter does.
type Form struct {
	Inputs  []TextInput
	focused int
}

// NewForm focuses the first input.
func NewForm(inputs ...TextInput) Form {
	f := Form{Inputs: inputs}
	if len(f.Inputs) > 0 {
		f.Inputs[0].Focus()
	}
	return f
}

// Focused returns the index of the focused input.
func (f Form) Focused() int {
	return f.focused
}

func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if len(f.Inputs) == 0 {
		return f, nil
	}
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			return f, f.focus((f.focused + 1) % len(f.Inputs))
		case "shift+tab", "up":
			return f, f.focus((f.focused - 1 + len(f.Inputs)) % len(f.Inputs))
		}
	}

	var cmd tea.Cmd
	f.Inputs[f.focused], cmd = f.Inputs[f.focused].Update(msg)
	return f, cmd
}

func (f *Form) focus(i int) tea.Cmd {
	f.Inputs[f.focused].Blur()
	f.focused = i
	return f.Inputs[i].Focus()
}

// Values returns every input's trimmed value in order.
func (f Form) Values() []string {
	out := make([]string, len(f.Inputs))
	for i, in := range f.Inputs {
		out[i] = in.Value()
	}
	return out
}

func (f Form) View() string {
	lines := make([]string, len(f.Inputs))
	for i, in := range f.Inputs {
		lines[i] = in.View()
	}
	return strings.Join(lines, "\n")
}
