package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqlpad/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // default blue
	MascotCelebrating                      // gold, just solved a problem
	MascotAlert                            // orange, quota spent or AI missing
)

const mascotIdle = ` .-~~~~~-.
(  ◉   ◉  )
|~-.___.-~|
|  SELECT |
 ~-.___.-~`

const mascotCelebrating = ` .-~~~~~-.
(  ★   ★  )
|~-.___.-~|
|  COMMIT |
 ~-.___.-~`

const mascotAlert = ` .-~~~~~-.
(  ◉   ◉  ) !
|~-.___.-~|
|  WAIT.. |
 ~-.___.-~`

// RenderMascot returns the mascot ASCII art for the given variant.
func RenderMascot(v MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.ArcadeYellow
	case MascotAlert:
		art = mascotAlert
		fg = theme.Warning
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
