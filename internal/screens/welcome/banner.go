package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqlpad/internal/ui/theme"
)

const bannerArt = `
 ███████╗ ██████╗ ██╗     ██████╗  █████╗ ██████╗
 ██╔════╝██╔═══██╗██║     ██╔══██╗██╔══██╗██╔══██╗
 ███████╗██║   ██║██║     ██████╔╝███████║██║  ██║
 ╚════██║██║▄▄ ██║██║     ██╔═══╝ ██╔══██║██║  ██║
 ███████║╚██████╔╝███████╗██║     ██║  ██║██████╔╝
 ╚══════╝ ╚══▀▀═╝ ╚══════╝╚═╝     ╚═╝  ╚═╝╚═════╝`

const bannerCompact = "S Q L P A D"

// RenderBanner returns the SQLPad banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 54 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 54 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
