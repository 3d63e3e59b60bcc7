package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqlpad/internal/i18n"
	"github.com/abhisek/sqlpad/internal/ui/theme"
)

const titleFull = ` ___  ___  _      ___          _
/ __|/ _ \| |    | _ \__ _  __| |
\__ \ (_) | |__  |  _/ _' |/ _' |
|___/\__\_\____| |_| \__,_|\__,_|`

const titleCompact = "S · Q · L · P · A · D"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}

// stats is what the dashboard bar shows.
type stats struct {
	user     string
	points   int
	attempts int
	max      int
}

// renderStatsBar renders the dashboard in a bordered box at content width.
func renderStatsBar(s stats, l i18n.Locale, cw int, compact bool) string {
	userStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	pointsStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	quotaStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	if s.attempts >= s.max {
		quotaStyle = quotaStyle.Foreground(theme.Warning)
	}

	user := s.user
	if user == "" {
		user = i18n.T(l, "home.guest")
	}

	var text string
	if compact {
		text = fmt.Sprintf("%s %s %s",
			userStyle.Render(user),
			pointsStyle.Render(fmt.Sprintf("◆%d", s.points)),
			quotaStyle.Render(fmt.Sprintf("▤%d/%d", s.attempts, s.max)),
		)
	} else {
		text = fmt.Sprintf("%s  %s  %s",
			userStyle.Render(user),
			pointsStyle.Render(fmt.Sprintf("◆ %d %s", s.points, i18n.T(l, "points.label"))),
			quotaStyle.Render(fmt.Sprintf("▤ %d/%d", s.attempts, s.max)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(text)
}

// renderAIBanner renders a warning when no LLM API key is configured.
func renderAIBanner(l i18n.Locale, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Warning).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ " + i18n.T(l, "config.error.message"))
}

// renderMascotBox renders the mascot centered at content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
