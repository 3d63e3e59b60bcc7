package practice

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqlpad/internal/i18n"
	pr "github.com/abhisek/sqlpad/internal/practice"
	"github.com/abhisek/sqlpad/internal/problemgen"
	"github.com/abhisek/sqlpad/internal/ui/components"
	"github.com/abhisek/sqlpad/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	snap := s.machine.Snapshot()
	l := snap.Locale
	today := s.machine.Today()
	cw := width - 4
	if cw < 20 {
		cw = 20
	}

	var b strings.Builder

	b.WriteString(s.renderToolbar(snap, today, cw))
	b.WriteString("\n\n")

	if !snap.AIReady {
		b.WriteString(renderConfigError(l, cw))
		b.WriteString("\n\n")
	}

	if snap.Feedback != nil {
		b.WriteString(renderFeedback(snap.Feedback, l, cw))
		b.WriteString("\n\n")
	}

	switch {
	case snap.Loading:
		b.WriteString(s.busyLine(i18n.T(l, "progress.loading")))
	case snap.Pending == pr.OpProblem:
		b.WriteString(s.busyLine(i18n.T(l, "problem.generating")))
	case snap.Problem == nil:
		if snap.QuotaReached(today) {
			b.WriteString(theme.Hint.Render(i18n.T(l, "quota.come_back")))
		} else {
			b.WriteString(theme.Hint.Render(i18n.T(l, "problem.empty")))
		}
	default:
		b.WriteString(renderProblem(snap.Problem, l, cw))
		b.WriteString("\n\n")
		b.WriteString(s.renderHint(snap, l, cw))
		b.WriteString(s.renderEditor(snap, l))
	}

	return window(b.String(), s.scroll, height)
}

func (s *PracticeScreen) busyLine(text string) string {
	return lipgloss.NewStyle().Foreground(theme.Accent).Render(spinnerFrames[s.spinnerFrame]) +
		" " + theme.Hint.Render(text)
}

// renderToolbar shows the difficulty selector and today's quota.
func (s *PracticeScreen) renderToolbar(snap pr.State, today string, cw int) string {
	l := snap.Locale
	parts := []string{lipgloss.NewStyle().Foreground(theme.TextDim).Render(i18n.T(l, "difficulty.label"))}
	for i, d := range problemgen.Difficulties() {
		label := string(rune('1'+i)) + " " + i18n.T(l, "difficulty."+string(d))
		if d == snap.Difficulty {
			parts = append(parts, theme.ButtonActive.Render(label))
		} else {
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 2).Render(label))
		}
	}
	left := strings.Join(parts, " ")

	right := components.NewQuotaMeter("", snap.AttemptsToday(today), pr.MaxDailyProblems).View()
	gap := cw - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		return left + "\n" + right
	}
	return left + strings.Repeat(" ", gap) + right
}

func renderConfigError(l i18n.Locale, cw int) string {
	body := theme.Incorrect.Render(i18n.T(l, "config.error.title")) + "\n" +
		lipgloss.NewStyle().Foreground(theme.Text).Width(cw-4).Render(i18n.T(l, "config.error.message")) + "\n" +
		theme.Hint.Width(cw-4).Render(i18n.T(l, "config.error.guidance"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Error).
		Padding(0, 1).
		Width(cw).
		Render(body)
}

func feedbackColor(kind pr.FeedbackKind) color.Color {
	switch kind {
	case pr.FeedbackSuccess:
		return theme.Success
	case pr.FeedbackError:
		return theme.Error
	case pr.FeedbackWarning:
		return theme.Warning
	default:
		return theme.Primary
	}
}

func renderFeedback(fb *pr.Feedback, l i18n.Locale, cw int) string {
	c := feedbackColor(fb.Kind)
	var body string
	if title := fb.Title(l); title != "" {
		body = lipgloss.NewStyle().Foreground(c).Bold(true).Render(title) + " "
	}
	body += lipgloss.NewStyle().Foreground(theme.Text).Render(fb.Message(l))
	body += "  " + theme.Hint.Render("[x]")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c).
		Padding(0, 1).
		Width(cw).
		Render(body)
}

func renderProblem(p *problemgen.Problem, l i18n.Locale, cw int) string {
	heading := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	label := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	b.WriteString(heading.Render(i18n.T(l, "problem.title")) + " " +
		theme.Hint.Render("("+i18n.T(l, "difficulty."+string(p.Difficulty))+")"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(cw).Render(p.Statement))
	b.WriteString("\n\n")

	b.WriteString(label.Render(i18n.T(l, "problem.table")) + " " + theme.Code.Bold(true).Render(p.TableName))
	b.WriteString("\n\n")

	b.WriteString(label.Render(i18n.T(l, "problem.schema")))
	b.WriteString("\n")
	schemaRows := make([]map[string]any, 0, len(p.Schema))
	for _, c := range p.Schema {
		schemaRows = append(schemaRows, map[string]any{
			"column":      c.ColumnName,
			"type":        c.DataType,
			"description": c.Description,
		})
	}
	b.WriteString(components.DataTable([]string{"column", "type", "description"}, schemaRows))

	if len(p.SampleRows) > 0 {
		b.WriteString("\n\n")
		b.WriteString(label.Render(i18n.T(l, "problem.sample")))
		b.WriteString("\n")
		b.WriteString(components.DataTable(p.ColumnNames(), p.SampleRows))
	}
	return b.String()
}

func (s *PracticeScreen) renderHint(snap pr.State, l i18n.Locale, cw int) string {
	var b strings.Builder
	switch {
	case snap.Pending == pr.OpHint:
		b.WriteString(s.busyLine(i18n.T(l, "hint.getting")))
		b.WriteString("\n\n")
	case snap.Hint != "" && snap.HintRevealed:
		b.WriteString(lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent).
			Padding(0, 1).
			Width(cw).
			Render(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(i18n.T(l, "hint.title")) +
				" " + snap.Hint))
		b.WriteString("\n\n")
	}
	if snap.HintError != "" {
		b.WriteString(theme.Incorrect.Render(i18n.T(l, snap.HintError)))
		b.WriteString("\n\n")
	}
	return b.String()
}

func (s *PracticeScreen) renderEditor(snap pr.State, l i18n.Locale) string {
	var b strings.Builder
	if !snap.Solved {
		b.WriteString(s.input.View())
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(i18n.T(l, "solution.tip")))
		b.WriteString("\n\n")
	}

	hintButton := components.NewButton(i18n.T(l, "hint.get", pr.HintCost), "h",
		snap.AIReady && snap.Hint == "" && snap.CanAffordHint() && snap.Pending == pr.OpNone)
	if snap.Hint != "" && !snap.HintRevealed {
		hintButton = components.NewButton(i18n.T(l, "hint.show"), "s", true)
	}
	b.WriteString(components.ButtonRow(
		components.NewButton(i18n.T(l, "solution.submit"), "Enter", !snap.Solved),
		hintButton,
		components.NewButton(i18n.T(l, "problem.generate"), "g", snap.Pending == pr.OpNone),
	))
	return b.String()
}

// window returns the height lines of content starting at offset.
func window(content string, offset, height int) string {
	lines := strings.Split(content, "\n")
	if offset > len(lines)-height {
		offset = len(lines) - height
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + height
	if end > len(lines) || height <= 0 {
		end = len(lines)
	}
	return strings.Join(lines[offset:end], "\n")
}
