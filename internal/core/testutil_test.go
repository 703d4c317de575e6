package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/barysiuk/skillsync/internal/core/render"
	"github.com/barysiuk/skillsync/internal/core/system"
)

// skillDoc builds a SKILL.md document.
func skillDoc(name, description, body string) string {
	return fmt.Sprintf("---\nname: %s\ndescription: %s\n---\n%s", name, description, body)
}

// writeFile writes content to path, creating parent directories.
func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// createTestSkill writes <root>/<name>/SKILL.md and returns its path.
func createTestSkill(t *testing.T, root, name, content string) string {
	t.Helper()
	return writeFile(t, filepath.Join(root, name, skillFileName), content)
}

// setModTime sets both atime and mtime of path.
func setModTime(t *testing.T, path string, mt time.Time) {
	t.Helper()
	if err := os.Chtimes(path, mt, mt); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// testEnv is a temp layout with sources and one root per registered tool.
type testEnv struct {
	t       *testing.T
	dir     string
	sources []string
	roots   map[string]string
}

func newTestEnv(t *testing.T, sources ...string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{t: t, dir: dir, roots: make(map[string]string)}
	if len(sources) == 0 {
		sources = []string{"source"}
	}
	for _, s := range sources {
		env.sources = append(env.sources, filepath.Join(dir, s))
	}
	for _, sys := range system.All() {
		env.roots[sys.ID()] = filepath.Join(dir, "tools", sys.ID())
	}
	return env
}

func (e *testEnv) snapshot() Snapshot {
	snap := Snapshot{ConfigPath: filepath.Join(e.dir, "config.json"), Sources: e.sources}
	for _, sys := range system.All() {
		snap.Tools = append(snap.Tools, ToolTarget{System: sys, Root: e.roots[sys.ID()]})
	}
	return snap
}

// source writes a skill into the i-th source.
func (e *testEnv) source(i int, name, content string) string {
	e.t.Helper()
	return createTestSkill(e.t, e.sources[i], name, content)
}

// install writes a skill into a tool root.
func (e *testEnv) install(tool, name, content string) string {
	e.t.Helper()
	return createTestSkill(e.t, e.roots[tool], name, content)
}

func (e *testEnv) installedPath(tool, name string) string {
	return filepath.Join(e.roots[tool], name, skillFileName)
}

func (e *testEnv) catalog() (*Catalog, *Diagnostics) {
	e.t.Helper()
	diag := NewDiagnostics(nil)
	cat, err := BuildCatalog(context.Background(), e.snapshot(), render.NewTemplate(), diag)
	if err != nil {
		e.t.Fatalf("BuildCatalog() error: %v", err)
	}
	return cat, diag
}

func (e *testEnv) engine(res Resolver) (*Engine, *Diagnostics) {
	e.t.Helper()
	cat, diag := e.catalog()
	return NewEngine(cat, render.NewTemplate(), res, diag), diag
}

func (e *testEnv) status(name, tool string) (SyncStatus, bool) {
	e.t.Helper()
	cat, _ := e.catalog()
	cell, ok := cat.Matrix.Lookup(name, tool)
	return cell.Status, ok
}

// scriptedResolver replays prepared answers and records every call.
// A call with no prepared answer fails the test.
type scriptedResolver struct {
	t         *testing.T
	sources   []int // index into candidates
	decisions []Decision
	confirms  []bool

	chooseCalls    []string
	divergentCalls []string
	confirmCalls   []string
	diffCalls      []string
}

func (r *scriptedResolver) ChooseSource(_ context.Context, skill string, candidates []SourceDirectory) (SourceDirectory, error) {
	r.chooseCalls = append(r.chooseCalls, skill)
	if len(r.sources) == 0 {
		r.t.Fatalf("unexpected ChooseSource(%q)", skill)
	}
	i := r.sources[0]
	r.sources = r.sources[1:]
	return candidates[i], nil
}

func (r *scriptedResolver) ResolveDivergent(_ context.Context, skill string, _ []Variant) (Decision, error) {
	r.divergentCalls = append(r.divergentCalls, skill)
	if len(r.decisions) == 0 {
		r.t.Fatalf("unexpected ResolveDivergent(%q)", skill)
	}
	d := r.decisions[0]
	r.decisions = r.decisions[1:]
	return d, nil
}

func (r *scriptedResolver) ConfirmOverwrite(_ context.Context, skill, tool string) (bool, error) {
	r.confirmCalls = append(r.confirmCalls, skill+"/"+tool)
	if len(r.confirms) == 0 {
		r.t.Fatalf("unexpected ConfirmOverwrite(%q, %q)", skill, tool)
	}
	ok := r.confirms[0]
	r.confirms = r.confirms[1:]
	return ok, nil
}

func (r *scriptedResolver) ShowVariantDiff(_ context.Context, skill, _ string, _ []Variant) error {
	r.diffCalls = append(r.diffCalls, skill)
	return nil
}

// opsFor filters plan operations by skill and direction.
func opsFor(plan Plan, skill string, dir Direction) []Operation {
	var out []Operation
	for _, op := range plan.Ops {
		if op.Skill == skill && op.Direction == dir {
			out = append(out, op)
		}
	}
	return out
}

func opFor(t *testing.T, plan Plan, skill, tool string, dir Direction) Operation {
	t.Helper()
	for _, op := range plan.Ops {
		if op.Skill == skill && op.Tool == tool && op.Direction == dir {
			return op
		}
	}
	t.Fatalf("no %s operation for %s/%s in plan: %v", dir, skill, tool, plan.Ops)
	return Operation{}
}
