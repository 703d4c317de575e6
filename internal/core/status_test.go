package core

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/barysiuk/skillsync/internal/core/render"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a\r\nb\r\n", "a\nb"},
		{"a\rb", "a\nb"},
		{"a\n\n", "a\n"},
		{"a", "a"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestComputeStatus_Scenarios(t *testing.T) {
	env := newTestEnv(t, "dotfiles")
	xlsx := skillDoc("xlsx", "Spreadsheets", "Use openpyxl.\n")
	env.source(0, "pdf", skillDoc("pdf", "PDF tools", "Read PDFs.\n"))
	env.source(0, "xlsx", xlsx)
	env.install("claude", "xlsx", xlsx)
	env.install("codex", "xlsx", skillDoc("xlsx", "Spreadsheets", "Use pandas.\n"))
	env.install("claude", "legacy-tool", skillDoc("legacy-tool", "Old", "legacy\n"))

	cat, _ := env.catalog()
	m := cat.Matrix

	// pdf exists only in a source: Missing for every tool.
	for _, tool := range []string{"claude", "codex", "gemini"} {
		cell, ok := m.Lookup("pdf", tool)
		if !ok || cell.Status != StatusMissing {
			t.Errorf("pdf/%s = %v (present %v), want missing", tool, cell.Status, ok)
		}
	}

	// xlsx identical in claude, different in codex.
	if cell, _ := m.Lookup("xlsx", "claude"); cell.Status != StatusSynced {
		t.Errorf("xlsx/claude = %v, want synced", cell.Status)
	}
	if cell, _ := m.Lookup("xlsx", "codex"); cell.Status != StatusModified {
		t.Errorf("xlsx/codex = %v, want modified", cell.Status)
	}

	// legacy-tool installed only under claude.
	cell, ok := m.Lookup("legacy-tool", "claude")
	if !ok || cell.Status != StatusOrphan {
		t.Errorf("legacy-tool/claude = %v, want orphan", cell.Status)
	}
	if _, ok := m.Lookup("legacy-tool", "codex"); ok {
		t.Error("legacy-tool/codex should have no cell")
	}

	// Rows are sorted case-insensitively.
	var names []string
	for _, r := range m.Rows {
		names = append(names, r.Name)
	}
	if want := []string{"legacy-tool", "pdf", "xlsx"}; !reflect.DeepEqual(names, want) {
		t.Errorf("rows = %v, want %v", names, want)
	}
}

func TestComputeStatus_LineEndings(t *testing.T) {
	env := newTestEnv(t)
	env.source(0, "pdf", skillDoc("pdf", "d", "line one\nline two\n"))
	env.install("claude", "pdf", "---\r\nname: pdf\r\ndescription: d\r\n---\r\nline one\r\nline two")

	if st, _ := env.status("pdf", "claude"); st != StatusSynced {
		t.Errorf("status = %v, want synced across line endings", st)
	}
}

func TestComputeStatus_PerToolRendering(t *testing.T) {
	env := newTestEnv(t)
	env.source(0, "pdf", skillDoc("pdf", "d", "{{if eq .tool \"claude\"}}Read tool{{else}}cat{{end}}\n"))
	env.install("claude", "pdf", skillDoc("pdf", "d", "Read tool\n"))
	env.install("codex", "pdf", skillDoc("pdf", "d", "Read tool\n"))

	if st, _ := env.status("pdf", "claude"); st != StatusSynced {
		t.Errorf("pdf/claude = %v, want synced", st)
	}
	if st, _ := env.status("pdf", "codex"); st != StatusModified {
		t.Errorf("pdf/codex = %v, want modified", st)
	}
}

func TestComputeStatus_RenderFailureExcludesCell(t *testing.T) {
	skills := map[string]Skill{
		"pdf": {Name: "pdf", Raw: "body", Path: "/src/pdf/SKILL.md"},
	}
	env := newTestEnv(t)
	cat, _ := env.catalog()

	failCodex := render.Func(func(_, body string, ctx render.Context) (string, error) {
		if ctx.Tool == "codex" {
			return "", errors.New("boom")
		}
		return body, nil
	})

	diag := NewDiagnostics(nil)
	m, err := ComputeStatus(context.Background(), skills, cat.Tools, failCodex, diag)
	if err != nil {
		t.Fatalf("ComputeStatus() error: %v", err)
	}
	if _, ok := m.Lookup("pdf", "codex"); ok {
		t.Error("codex cell should be excluded after a render failure")
	}
	if _, ok := m.Lookup("pdf", "claude"); !ok {
		t.Error("claude cell should still be present")
	}
	w := diag.ByCategory(WarnRender)
	if len(w) != 1 || w[0].Tool != "codex" {
		t.Errorf("render warnings = %v", w)
	}
}

func TestComputeStatus_Deterministic(t *testing.T) {
	env := newTestEnv(t)
	for _, n := range []string{"b", "A", "c", "d", "E"} {
		env.source(0, n, skillDoc(n, "d", n+"\n"))
		env.install("gemini", n, "stale\n")
	}
	env.install("codex", "zeta", "orphan\n")

	first, _ := env.catalog()
	for i := 0; i < 5; i++ {
		again, _ := env.catalog()
		if !reflect.DeepEqual(first.Matrix, again.Matrix) {
			t.Fatal("matrix differs between identical runs")
		}
	}
	if got := first.Matrix.Count(StatusModified); got != 5 {
		t.Errorf("modified count = %d, want 5", got)
	}
	if got := first.Matrix.Count(StatusOrphan); got != 1 {
		t.Errorf("orphan count = %d, want 1", got)
	}
}
