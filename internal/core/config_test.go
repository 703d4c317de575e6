package core

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/barysiuk/skillsync/internal/core/system"
)

func TestConfigManager_MissingFile(t *testing.T) {
	dir := t.TempDir()
	cm := NewConfigManagerWithDir(dir)

	cfg, err := cm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if len(cfg.Sources) != 0 {
		t.Errorf("expected 0 sources, got %d", len(cfg.Sources))
	}

	_, err = cm.Snapshot()
	if !errors.Is(err, ErrNoSources) {
		t.Errorf("Snapshot() error = %v, want ErrNoSources", err)
	}
}

func TestConfigManager_JSONC(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".skills")

	writeFile(t, filepath.Join(dir, "config.json"), `{
	// highest priority first
	"sources": [
		"~/dotfiles/skills",
		"shared",            // relative to the config dir
		"~/dotfiles/skills", // duplicates are ignored
	],
	"tools": {
		"codex": {"root": "~/work/codex-skills"},
		"gemini": {"disabled": true},
	},
	"settings": {"mtimeTolerance": "2s"},
}`)

	snap, err := NewConfigManagerWithDir(dir).Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}

	wantSources := []string{filepath.Join(home, "dotfiles", "skills"), filepath.Join(dir, "shared")}
	if len(snap.Sources) != 2 || snap.Sources[0] != wantSources[0] || snap.Sources[1] != wantSources[1] {
		t.Errorf("Sources = %v, want %v", snap.Sources, wantSources)
	}

	if ids := snap.ToolIDs(); strings.Join(ids, ",") != "claude,codex" {
		t.Errorf("ToolIDs() = %v, want [claude codex]", ids)
	}
	if snap.Tools[1].Root != filepath.Join(home, "work", "codex-skills") {
		t.Errorf("codex root = %q", snap.Tools[1].Root)
	}
	if snap.Tools[0].Root != filepath.Join(home, ".claude", "skills") {
		t.Errorf("claude root = %q", snap.Tools[0].Root)
	}
	if snap.MtimeTolerance != 2*time.Second {
		t.Errorf("MtimeTolerance = %v, want 2s", snap.MtimeTolerance)
	}
}

func TestConfig_ResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"blank sources", Config{Sources: []string{" "}}, "no source directories configured"},
		{"unknown tool", Config{Sources: []string{"/s"}, Tools: map[string]ToolConfig{"cursor": {}}}, "unknown tool"},
		{"bad tolerance", Config{Sources: []string{"/s"}, Settings: Settings{MtimeTolerance: "soon"}}, "invalid mtimeTolerance"},
		{"negative tolerance", Config{Sources: []string{"/s"}, Settings: Settings{MtimeTolerance: "-1s"}}, "invalid mtimeTolerance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Resolve("/cfg/config.json")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Resolve() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestConfigManager_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")
	t.Setenv(ConfigEnvVar, path)

	cm, err := NewConfigManager()
	if err != nil {
		t.Fatalf("NewConfigManager() error: %v", err)
	}
	if cm.ConfigPath() != path {
		t.Errorf("ConfigPath() = %q, want %q", cm.ConfigPath(), path)
	}
}

func TestConfigManager_InitDisabledTools(t *testing.T) {
	dir := t.TempDir()
	cm := NewConfigManagerWithDir(dir)

	if err := cm.Init([]string{filepath.Join(dir, "skills")}, []string{"codex", "gemini"}); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	cfg, err := cm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Tools["codex"].Disabled || !cfg.Tools["gemini"].Disabled || cfg.Tools["claude"].Disabled {
		t.Errorf("Tools = %+v, want codex and gemini disabled", cfg.Tools)
	}

	snap, err := cm.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if ids := snap.ToolIDs(); len(ids) != 1 || ids[0] != "claude" {
		t.Errorf("ToolIDs() = %v, want [claude]", ids)
	}
}

func TestConfigManager_InitAndEditSources(t *testing.T) {
	dir := t.TempDir()
	cm := NewConfigManagerWithDir(dir)

	if err := cm.Init([]string{"~/.skills/skills"}, nil); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if err := cm.Init([]string{"x"}, nil); err == nil {
		t.Error("expected Init() to refuse an existing config")
	}

	if err := cm.AddSource("/work/skills"); err != nil {
		t.Fatalf("AddSource() error: %v", err)
	}
	// Adding twice is a no-op.
	if err := cm.AddSource("/work/skills"); err != nil {
		t.Fatalf("AddSource() error: %v", err)
	}

	cfg, err := cm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Sources) != 2 || cfg.Sources[0] != "~/.skills/skills" || cfg.Sources[1] != "/work/skills" {
		t.Errorf("Sources = %v", cfg.Sources)
	}

	data, _ := os.ReadFile(cm.ConfigPath())
	if !strings.Contains(string(data), "// Source directories in priority order") {
		t.Errorf("comments were not preserved:\n%s", data)
	}

	if err := cm.RemoveSource("~/.skills/skills"); err != nil {
		t.Fatalf("RemoveSource() error: %v", err)
	}
	if err := cm.RemoveSource("/nope"); err == nil {
		t.Error("expected error removing an unknown source")
	}
	cfg, _ = cm.Load()
	if len(cfg.Sources) != 1 || cfg.Sources[0] != "/work/skills" {
		t.Errorf("Sources after remove = %v", cfg.Sources)
	}
}

func TestConfigManager_AddSourceToEmptyFile(t *testing.T) {
	cm := NewConfigManagerWithDir(t.TempDir())
	if err := cm.AddSource("/a"); err != nil {
		t.Fatalf("AddSource() error: %v", err)
	}
	cfg, _ := cm.Load()
	if len(cfg.Sources) != 1 || cfg.Sources[0] != "/a" {
		t.Errorf("Sources = %v", cfg.Sources)
	}
}

func TestSnapshot_WithTools(t *testing.T) {
	cfg := Config{Sources: []string{"/s"}}
	snap, err := cfg.Resolve("/cfg/config.json")
	if err != nil {
		t.Fatal(err)
	}

	only, err := snap.WithTools([]string{"codex"})
	if err != nil {
		t.Fatalf("WithTools() error: %v", err)
	}
	if ids := only.ToolIDs(); len(ids) != 1 || ids[0] != "codex" {
		t.Errorf("ToolIDs() = %v", ids)
	}
	if len(snap.Tools) != len(system.All()) {
		t.Error("WithTools must not modify the original snapshot")
	}

	if _, err := snap.WithTools([]string{"vim"}); !errors.Is(err, system.ErrUnknownTool) {
		t.Errorf("WithTools(vim) error = %v, want ErrUnknownTool", err)
	}
}
