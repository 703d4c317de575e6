package core

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestDiagnostics_Summary(t *testing.T) {
	diag := NewDiagnostics(nil)
	diag.Warn(Warning{Category: WarnLoad, Skill: "bad", Path: "/src/bad/SKILL.md", Message: "missing required field 'name'"})
	diag.Warn(Warning{Category: WarnRender, Skill: "pdf", Tool: "codex", Path: "/src/pdf/SKILL.md", Message: "boom"})
	diag.Warnf(WarnDecision, "xlsx", "not overwriting %s", "codex")

	var buf bytes.Buffer
	diag.WriteSummary(&buf)

	want := "Skipped 2 skills due to errors:\n" +
		"  /src/bad/SKILL.md: missing required field 'name'\n" +
		"  /src/pdf/SKILL.md (codex): boom\n" +
		"Completed with 3 warning(s).\n"
	if buf.String() != want {
		t.Errorf("summary =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestDiagnostics_EmptySummary(t *testing.T) {
	var buf bytes.Buffer
	NewDiagnostics(nil).WriteSummary(&buf)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestDiagnostics_LogsWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	diag := NewDiagnostics(logger)

	diag.Warn(Warning{
		Category: WarnConflict,
		Skill:    "pdf",
		Message:  "skill 'pdf' exists in multiple sources",
		Details:  []string{"/a/pdf", "/b/pdf"},
	})

	out := buf.String()
	for _, want := range []string{"level=WARN", "category=conflict", "skill=pdf", `locations="/a/pdf, /b/pdf"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestDiagnostics_Concurrent(t *testing.T) {
	diag := NewDiagnostics(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			diag.Warnf(WarnIO, "x", "warning")
		}()
	}
	wg.Wait()
	if got := len(diag.Warnings()); got != 50 {
		t.Errorf("recorded %d warnings, want 50", got)
	}
}
