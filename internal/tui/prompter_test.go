package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/barysiuk/skillsync/internal/core"
)

func newTestPrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return NewPrompter(strings.NewReader(input), &out), &out
}

func testVariants() []core.Variant {
	mt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []core.Variant{
		{Tool: "claude", Content: "---\nname: pdf\n---\nclaude edit\n", ModTime: mt},
		{Tool: "codex", Content: "---\nname: pdf\n---\ncodex edit\n", ModTime: mt},
	}
}

func TestPrompter_ConfirmOverwrite(t *testing.T) {
	p, _ := newTestPrompter("y")
	ok, err := p.ConfirmOverwrite(context.Background(), "pdf", "codex")
	if err != nil {
		t.Fatalf("ConfirmOverwrite() error: %v", err)
	}
	if !ok {
		t.Error("expected confirmation")
	}

	p, _ = newTestPrompter("n")
	ok, err = p.ConfirmOverwrite(context.Background(), "pdf", "codex")
	if err != nil || ok {
		t.Errorf("ConfirmOverwrite() = %v, %v; want false, nil", ok, err)
	}
}

func TestPrompter_ConfirmOverwriteAborted(t *testing.T) {
	p, _ := newTestPrompter("\x03")
	_, err := p.ConfirmOverwrite(context.Background(), "pdf", "codex")
	if !errors.Is(err, ErrAborted) {
		t.Errorf("error = %v, want ErrAborted", err)
	}
}

func TestPrompter_ResolveDivergent(t *testing.T) {
	tests := []struct {
		input string
		want  core.Decision
	}{
		{"2", core.Pick("codex")},
		{"1", core.Pick("claude")},
		{"d", core.ShowDiff},
		{"s", core.Skip},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			p, _ := newTestPrompter(tc.input)
			got, err := p.ResolveDivergent(context.Background(), "pdf", testVariants())
			if err != nil {
				t.Fatalf("ResolveDivergent() error: %v", err)
			}
			if got != tc.want {
				t.Errorf("decision = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestPrompter_ChooseSource(t *testing.T) {
	candidates := []core.SourceDirectory{
		{Path: "/srv/dotfiles/skills", Priority: 0},
		{Path: "/srv/work/skills", Priority: 1},
	}

	p, _ := newTestPrompter("2")
	got, err := p.ChooseSource(context.Background(), "legacy-tool", candidates)
	if err != nil {
		t.Fatalf("ChooseSource() error: %v", err)
	}
	if got.Path != "/srv/work/skills" {
		t.Errorf("chosen = %q", got.Path)
	}

	// A single candidate is returned without prompting.
	p, out := newTestPrompter("")
	got, err = p.ChooseSource(context.Background(), "legacy-tool", candidates[:1])
	if err != nil || got.Path != candidates[0].Path {
		t.Errorf("ChooseSource() = %v, %v", got, err)
	}
	if out.Len() != 0 {
		t.Errorf("single candidate should not draw a prompt, got %q", out.String())
	}
}

func TestWriteVariantDiff(t *testing.T) {
	var buf bytes.Buffer
	err := WriteVariantDiff(&buf, "pdf", "---\nname: pdf\n---\nsource\n", testVariants())
	if err != nil {
		t.Fatalf("WriteVariantDiff() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"source/pdf", "claude/pdf", "codex/pdf", "+claude edit", "+codex edit", "-source"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteVariantDiff_NoSource(t *testing.T) {
	var buf bytes.Buffer
	variants := append(testVariants(), core.Variant{Tool: "gemini", Content: testVariants()[0].Content})
	if err := WriteVariantDiff(&buf, "pdf", "", variants); err != nil {
		t.Fatalf("WriteVariantDiff() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "--- claude/pdf") || !strings.Contains(out, "+++ codex/pdf") {
		t.Errorf("expected codex diffed against claude:\n%s", out)
	}
	if !strings.Contains(out, "gemini: identical to claude/pdf") {
		t.Errorf("expected gemini to be reported identical:\n%s", out)
	}
}

func TestStatusLabel(t *testing.T) {
	for _, s := range []core.SyncStatus{core.StatusSynced, core.StatusModified, core.StatusMissing, core.StatusOrphan} {
		if !strings.Contains(StatusLabel(s), s.String()) {
			t.Errorf("StatusLabel(%v) = %q", s, StatusLabel(s))
		}
	}
}
