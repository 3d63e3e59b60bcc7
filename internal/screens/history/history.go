package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqlpad/internal/i18n"
	"github.com/abhisek/sqlpad/internal/router"
	"github.com/abhisek/sqlpad/internal/screen"
	"github.com/abhisek/sqlpad/internal/store"
	"github.com/abhisek/sqlpad/internal/ui/layout"
	"github.com/abhisek/sqlpad/internal/ui/theme"
)

// PageSize is how many events the screen loads.
const PageSize = 100

type historyLoadedMsg struct {
	Events []store.PracticeEvent
	Err    error
}

// HistoryReader is the query side of the event log.
type HistoryReader interface {
	QueryPracticeEvents(ctx context.Context, userID string, opts store.QueryOpts) ([]store.PracticeEvent, error)
}

// HistoryScreen lists a user's recent practice activity.
type HistoryScreen struct {
	events   HistoryReader
	userID   string
	locale   func() i18n.Locale
	rows     []store.PracticeEvent
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen for userID.
func New(events HistoryReader, userID string, locale func() i18n.Locale) *HistoryScreen {
	return &HistoryScreen{
		events:   events,
		userID:   userID,
		locale:   locale,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		rows, err := s.events.QueryPracticeEvents(context.Background(), s.userID, store.QueryOpts{Limit: PageSize})
		return historyLoadedMsg{Events: rows, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return i18n.T(s.locale(), "history.title")
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	l := s.locale()
	return []layout.KeyHint{
		{Key: "Enter", Description: i18n.T(l, "key.details")},
		{Key: "↑↓", Description: i18n.T(l, "key.navigate")},
		{Key: "Esc", Description: i18n.T(l, "key.back")},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.rows = msg.Events
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.rows)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	l := s.locale()
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n%s %s", i18n.T(l, "error.prefix"), s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  " + i18n.T(l, "history.loading"))
	}
	if len(s.rows) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  " + i18n.T(l, "history.empty"))
	}

	var b strings.Builder
	b.WriteString("\n")

	// Keep the selection on screen.
	visible := height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if s.selected >= visible {
		start = s.selected - visible + 1
	}

	for i := start; i < len(s.rows) && i < start+visible; i++ {
		e := s.rows[i]

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-22s  %-9s  %-10s  %s",
			prefix,
			e.Timestamp.Format("Jan 02 15:04"),
			i18n.T(l, "history.kind."+e.Kind),
			difficultyLabel(l, e.Difficulty),
			e.Outcome,
			pointsLabel(e.PointsDelta),
		)

		style := lipgloss.NewStyle().Foreground(outcomeColor(e))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := e.Detail
			if detail == "" {
				detail = "-"
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
					Render(fmt.Sprintf("    %s  %s", e.ProblemID, detail))))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func difficultyLabel(l i18n.Locale, d string) string {
	if d == "" {
		return "-"
	}
	return i18n.T(l, "difficulty."+d)
}

func pointsLabel(delta int) string {
	switch {
	case delta > 0:
		return fmt.Sprintf("+%d", delta)
	case delta < 0:
		return fmt.Sprintf("%d", delta)
	default:
		return ""
	}
}

func outcomeColor(e store.PracticeEvent) color.Color {
	switch {
	case e.Outcome == "error" || e.Outcome == "incorrect":
		return theme.Error
	case e.PointsDelta > 0:
		return theme.Success
	case e.PointsDelta < 0:
		return theme.Accent
	default:
		return theme.Text
	}
}
