package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/barysiuk/skillsync/internal/core/system"
)

// ScanLocal reads the project-local skill directory of every tool in the
// snapshot (for example <project>/.claude/skills). A tool whose local
// directory is its global root is left out, so running from the home
// directory does not report global skills twice.
func ScanLocal(ctx context.Context, snap Snapshot, project string, diag *Diagnostics) ([]ToolInstall, error) {
	var local []ToolInstall
	for _, t := range snap.Tools {
		dir := t.System.LocalSkillsDir()
		if dir == "" {
			continue
		}
		root := filepath.Join(project, dir)
		if filepath.Clean(root) == filepath.Clean(t.Root) {
			continue
		}
		install, err := ScanTool(ctx, t.System, root, diag)
		if err != nil {
			return nil, err
		}
		if len(install.Skills) > 0 {
			local = append(local, install)
		}
	}
	return local, nil
}

// PromoteOptions configures Promote.
type PromoteOptions struct {
	Tool   string // Required when the skill is local to more than one tool
	DryRun bool
	Force  bool // Replace an existing global copy
}

// PromoteResult describes a local skill moved into a tool's global root.
type PromoteResult struct {
	Name string
	Tool system.System
	From string // Local skill directory
	To   string // Global skill directory
}

// Promote moves a project-local skill into the global install root of its
// tool. The skill keeps its content; sources are not touched.
func Promote(local []ToolInstall, snap Snapshot, name string, opts PromoteOptions) (PromoteResult, error) {
	var found []ToolInstall
	for _, t := range local {
		if _, ok := t.Skills[name]; !ok {
			continue
		}
		if opts.Tool != "" && t.Tool.ID() != opts.Tool {
			continue
		}
		found = append(found, t)
	}
	switch len(found) {
	case 0:
		if opts.Tool != "" {
			return PromoteResult{}, fmt.Errorf("%w: no local skill '%s' for %s", ErrSkillNotFound, name, opts.Tool)
		}
		return PromoteResult{}, fmt.Errorf("%w: no local skill '%s'", ErrSkillNotFound, name)
	case 1:
	default:
		ids := make([]string, len(found))
		for i, t := range found {
			ids[i] = t.Tool.ID()
		}
		return PromoteResult{}, fmt.Errorf("skill '%s' is local to %s; choose one with --tool", name, strings.Join(ids, ", "))
	}

	src := found[0]
	var root string
	for _, t := range snap.Tools {
		if t.System.ID() == src.Tool.ID() {
			root = t.Root
		}
	}
	if root == "" {
		return PromoteResult{}, fmt.Errorf("%s is not configured", src.Tool.DisplayName())
	}

	res := PromoteResult{
		Name: name,
		Tool: src.Tool,
		From: filepath.Dir(src.Skills[name].Path),
		To:   filepath.Join(root, name),
	}
	if _, err := os.Lstat(res.To); err == nil && !opts.Force {
		return res, fmt.Errorf("%s already exists; pass --force to replace it", DisplayPath(res.To))
	}
	if opts.DryRun {
		return res, nil
	}

	if err := moveDir(res.From, res.To, opts.Force); err != nil {
		return res, fmt.Errorf("promoting %s: %w", name, err)
	}
	cleanupEmptyDir(src.Root)
	return res, nil
}

// moveDir renames from to to, creating the parent of to. With replace set an
// existing destination is removed first.
func moveDir(from, to string, replace bool) error {
	if err := os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if replace {
		if err := os.RemoveAll(to); err != nil {
			return fmt.Errorf("removing %s: %w", to, err)
		}
	}
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("moving %s: %w", from, err)
	}
	return nil
}
