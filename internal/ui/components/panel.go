package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqlpad/internal/ui/theme"
)

// ContentWidth returns the uniform inner width for centered panels, so
// stacked boxes line up.
func ContentWidth(frameWidth, maxWidth int) int {
	// border (2) + inner padding (4)
	w := frameWidth - 6
	if w > maxWidth {
		w = maxWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Frame wraps content in a double border, centered in the given area.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Panel wraps content in a rounded card at content width cw.
func Panel(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(0, 1).
		Render(content)
}

// MenuButtonWidth is the fixed width of stacked menu buttons.
const MenuButtonWidth = 26

// MenuButtons renders labels as stacked fixed-width buttons. Disabled
// entries are dimmed and never highlighted.
func MenuButtons(labels []string, selected int, disabled map[int]bool, cw int) string {
	base := lipgloss.NewStyle().
		Width(MenuButtonWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	var buttons []string
	for i, label := range labels {
		switch {
		case disabled[i]:
			buttons = append(buttons, base.
				Foreground(theme.TextDim).
				BorderForeground(theme.Border).
				Render(label))
		case i == selected:
			buttons = append(buttons, base.
				Bold(true).
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				BorderForeground(theme.ArcadeYellow).
				Render("▸ "+label))
		default:
			buttons = append(buttons, base.
				Foreground(theme.Text).
				BorderForeground(theme.Border).
				Render(label))
		}
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}
