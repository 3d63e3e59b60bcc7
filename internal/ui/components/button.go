package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqlpad/internal/ui/theme"
)

// Button is a labelled action with a keyboard shortcut.
type Button struct {
	Label    string
	Shortcut string
	Enabled  bool
}

// NewButton creates a new button.
func NewButton(label, shortcut string, enabled bool) Button {
	return Button{
		Label:    label,
		Shortcut: shortcut,
		Enabled:  enabled,
	}
}

// View renders the button.
func (b Button) View() string {
	label := b.Label
	if b.Shortcut != "" {
		label = "[" + b.Shortcut + "] " + label
	}
	if b.Enabled {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}

// ButtonRow joins buttons horizontally with a gap.
func ButtonRow(buttons ...Button) string {
	parts := make([]string, 0, len(buttons)*2)
	for i, b := range buttons {
		if i > 0 {
			parts = append(parts, "  ")
		}
		parts = append(parts, b.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}
