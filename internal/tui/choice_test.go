package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testChoice() choiceModel {
	return newChoiceModel("Pick one", []choiceOption{
		{label: "claude"},
		{label: "codex", detail: "modified today"},
		{label: "gemini"},
	})
}

func updateChoice(t *testing.T, m choiceModel, msgs ...tea.Msg) choiceModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		cm, ok := next.(choiceModel)
		if !ok {
			t.Fatalf("Update returned %T, want choiceModel", next)
		}
		m = cm
	}
	return m
}

func TestChoice_NumberPicks(t *testing.T) {
	m := updateChoice(t, testChoice(), runes("2"))
	if m.result != choicePicked || m.index != 1 {
		t.Errorf("result=%v index=%d, want pick of 1", m.result, m.index)
	}
}

func TestChoice_OutOfRangeNumberIgnored(t *testing.T) {
	m := updateChoice(t, testChoice(), runes("7"))
	if m.result != choicePending {
		t.Errorf("result = %v, want pending", m.result)
	}
}

func TestChoice_CursorAndEnter(t *testing.T) {
	down := tea.KeyMsg{Type: tea.KeyDown}
	up := tea.KeyMsg{Type: tea.KeyUp}
	enter := tea.KeyMsg{Type: tea.KeyEnter}

	m := updateChoice(t, testChoice(), down, down, down, up)
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1 (clamped at the last option)", m.cursor)
	}
	m = updateChoice(t, m, enter)
	if m.result != choicePicked || m.index != 1 {
		t.Errorf("result=%v index=%d", m.result, m.index)
	}

	m = updateChoice(t, testChoice(), up, runes("k"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestChoice_DiffAndSkipNeedEnabling(t *testing.T) {
	m := updateChoice(t, testChoice(), runes("d"), runes("s"))
	if m.result != choicePending {
		t.Errorf("plain choice should ignore d and s, got %v", m.result)
	}

	m = updateChoice(t, testChoice().withDiff().withSkip(), runes("d"))
	if m.result != choiceDiff {
		t.Errorf("result = %v, want diff", m.result)
	}
	m = updateChoice(t, testChoice().withDiff().withSkip(), runes("s"))
	if m.result != choiceSkipped {
		t.Errorf("result = %v, want skipped", m.result)
	}
}

func TestChoice_Esc(t *testing.T) {
	esc := tea.KeyMsg{Type: tea.KeyEscape}
	if m := updateChoice(t, testChoice(), esc); m.result != choiceAborted {
		t.Errorf("esc without skip = %v, want aborted", m.result)
	}
	if m := updateChoice(t, testChoice().withSkip(), esc); m.result != choiceSkipped {
		t.Errorf("esc with skip = %v, want skipped", m.result)
	}
}

func TestChoice_CtrlCAborts(t *testing.T) {
	m := updateChoice(t, testChoice().withSkip(), tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.result != choiceAborted {
		t.Errorf("result = %v, want aborted", m.result)
	}
}

func TestChoice_View(t *testing.T) {
	m := testChoice().withDiff().withSkip()
	v := m.View()
	for _, want := range []string{"Pick one", "1) claude", "2) codex", "modified today", "3) gemini", "show diff", "skip"} {
		if !strings.Contains(v, want) {
			t.Errorf("View() missing %q:\n%s", want, v)
		}
	}

	m = updateChoice(t, m, runes("3"))
	v = m.View()
	if !strings.Contains(v, "-> gemini") || strings.Contains(v, "1) claude") {
		t.Errorf("answered View() = %q", v)
	}
}
