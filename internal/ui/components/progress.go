package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqlpad/internal/ui/theme"
)

// QuotaMeter shows used/max as a row of segments, one per unit.
type QuotaMeter struct {
	Label string
	Used  int
	Max   int
}

// NewQuotaMeter creates a new meter.
func NewQuotaMeter(label string, used, max int) QuotaMeter {
	return QuotaMeter{Label: label, Used: used, Max: max}
}

// View renders the meter.
func (q QuotaMeter) View() string {
	used := q.Used
	if used > q.Max {
		used = q.Max
	}
	if used < 0 {
		used = 0
	}

	fill := theme.Secondary
	if used >= q.Max {
		fill = theme.Warning
	}

	var result string
	if q.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(q.Label) + "  "
	}
	result += lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat("■", used))
	result += lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("□", q.Max-used))
	result += lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %d/%d", q.Used, q.Max))
	return result
}
