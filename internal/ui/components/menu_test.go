package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

type pickedMsg string

func testMenu() Menu {
	pick := func(s string) func() tea.Cmd {
		return func() tea.Cmd { return func() tea.Msg { return pickedMsg(s) } }
	}
	return NewMenu([]MenuItem{
		{Label: "Practice", Action: pick("practice"), Disabled: true},
		{Label: "History", Action: pick("history")},
		{Label: "Language", Action: pick("language"), Disabled: true},
		{Label: "Quit", Action: pick("quit")},
	})
}

func TestMenuStartsOnFirstEnabled(t *testing.T) {
	m := testMenu()
	if m.Selected != 1 {
		t.Errorf("Selected = %d, want 1", m.Selected)
	}
}

func TestMenuSkipsDisabled(t *testing.T) {
	m := testMenu()
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("after down: Selected = %d, want 3", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("after up: Selected = %d, want 1", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("up at top enabled item: Selected = %d, want 1", m.Selected)
	}
}

func TestMenuEnterRunsAction(t *testing.T) {
	m := testMenu()
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command from enter")
	}
	if got := cmd(); got != pickedMsg("history") {
		t.Errorf("got %v, want history", got)
	}
}

func TestMenuViewMarksSelection(t *testing.T) {
	view := testMenu().View(40)
	if !strings.Contains(view, "▸ History") {
		t.Errorf("selected item not marked:\n%s", view)
	}
	if strings.Contains(view, "▸ Practice") {
		t.Error("disabled item must not be marked")
	}
}

func TestQuotaMeter(t *testing.T) {
	view := NewQuotaMeter("", 3, 10).View()
	if strings.Count(view, "■") != 3 || strings.Count(view, "□") != 7 {
		t.Errorf("unexpected segments: %q", view)
	}
	if !strings.Contains(view, "3/10") {
		t.Errorf("missing count: %q", view)
	}
	over := NewQuotaMeter("", 12, 10).View()
	if strings.Count(over, "■") != 10 {
		t.Errorf("overflow should clamp: %q", over)
	}
}

func TestDataTable(t *testing.T) {
	out := DataTable([]string{"id", "name"}, []map[string]any{
		{"id": float64(1), "name": "Ana"},
		{"id": float64(2.5)},
	})
	for _, want := range []string{"id", "name", "Ana", "1", "2.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
