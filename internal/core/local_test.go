package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestScanLocal(t *testing.T) {
	env := newTestEnv(t)
	project := filepath.Join(env.dir, "project")
	createTestSkill(t, filepath.Join(project, ".claude", "skills"), "notes", skillDoc("notes", "d", "x\n"))
	createTestSkill(t, filepath.Join(project, ".gemini", "skills"), "notes", skillDoc("notes", "d", "x\n"))
	// A local directory that is the global root is not scanned twice.
	env.roots["gemini"] = filepath.Join(project, ".gemini", "skills")

	local, err := ScanLocal(context.Background(), env.snapshot(), project, NewDiagnostics(nil))
	if err != nil {
		t.Fatalf("ScanLocal() error: %v", err)
	}
	if len(local) != 1 || local[0].Tool.ID() != "claude" {
		t.Fatalf("local = %+v, want claude only", local)
	}
	if _, ok := local[0].Skills["notes"]; !ok {
		t.Errorf("skills = %v", local[0].Skills)
	}
}

func TestPromote(t *testing.T) {
	env := newTestEnv(t)
	project := filepath.Join(env.dir, "project")
	localRoot := filepath.Join(project, ".codex", "skills")
	createTestSkill(t, localRoot, "notes", skillDoc("notes", "d", "local\n"))
	writeFile(t, filepath.Join(localRoot, "notes", "scripts", "run.sh"), "echo\n")

	local, err := ScanLocal(context.Background(), env.snapshot(), project, NewDiagnostics(nil))
	if err != nil {
		t.Fatalf("ScanLocal() error: %v", err)
	}
	res, err := Promote(local, env.snapshot(), "notes", PromoteOptions{})
	if err != nil {
		t.Fatalf("Promote() error: %v", err)
	}
	if res.Tool.ID() != "codex" || res.To != filepath.Join(env.roots["codex"], "notes") {
		t.Errorf("result = %+v", res)
	}
	if got := readFile(t, env.installedPath("codex", "notes")); !strings.Contains(got, "local") {
		t.Errorf("promoted copy = %q", got)
	}
	if _, err := os.Stat(filepath.Join(res.To, "scripts", "run.sh")); err != nil {
		t.Errorf("supporting files not moved: %v", err)
	}
	if _, err := os.Stat(localRoot); !os.IsNotExist(err) {
		t.Error("empty local root should be removed")
	}
	if st, ok := env.status("notes", "codex"); !ok || st != StatusOrphan {
		t.Errorf("status = %v, want orphan until pulled", st)
	}
}

func TestPromote_Errors(t *testing.T) {
	env := newTestEnv(t)
	project := filepath.Join(env.dir, "project")
	createTestSkill(t, filepath.Join(project, ".claude", "skills"), "notes", skillDoc("notes", "d", "claude\n"))
	createTestSkill(t, filepath.Join(project, ".codex", "skills"), "notes", skillDoc("notes", "d", "codex\n"))
	env.install("claude", "notes", skillDoc("notes", "d", "global\n"))

	local, err := ScanLocal(context.Background(), env.snapshot(), project, NewDiagnostics(nil))
	if err != nil {
		t.Fatalf("ScanLocal() error: %v", err)
	}
	snap := env.snapshot()

	if _, err := Promote(local, snap, "missing", PromoteOptions{}); !errors.Is(err, ErrSkillNotFound) {
		t.Errorf("missing: error = %v, want ErrSkillNotFound", err)
	}
	if _, err := Promote(local, snap, "notes", PromoteOptions{}); err == nil || !strings.Contains(err.Error(), "--tool") {
		t.Errorf("ambiguous: error = %v, want a --tool hint", err)
	}
	if _, err := Promote(local, snap, "notes", PromoteOptions{Tool: "gemini"}); !errors.Is(err, ErrSkillNotFound) {
		t.Errorf("wrong tool: error = %v, want ErrSkillNotFound", err)
	}
	if _, err := Promote(local, snap, "notes", PromoteOptions{Tool: "claude"}); err == nil || !strings.Contains(err.Error(), "--force") {
		t.Errorf("existing: error = %v, want a --force hint", err)
	}
	if got := readFile(t, env.installedPath("claude", "notes")); !strings.Contains(got, "global") {
		t.Errorf("global copy replaced without --force: %q", got)
	}

	if _, err := Promote(local, snap, "notes", PromoteOptions{Tool: "claude", Force: true}); err != nil {
		t.Fatalf("Promote(force) error: %v", err)
	}
	if got := readFile(t, env.installedPath("claude", "notes")); !strings.Contains(got, "claude") {
		t.Errorf("global copy = %q, want the promoted one", got)
	}
}
