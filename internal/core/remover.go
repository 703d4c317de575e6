package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// UnloadResult is the outcome of removing one skill from tool directories.
type UnloadResult struct {
	Name    string
	Removed []string // Tool ids the skill was removed from
	Paths   []string // Removed skill directories
}

// UnloadOptions configures a removal.
type UnloadOptions struct {
	DryRun bool
}

// Unload removes installed copies of the selected skills from every tool in
// the catalog. Sources are never touched.
func (e *Engine) Unload(patterns []string, opts UnloadOptions) ([]UnloadResult, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("skill name is required")
	}
	names, err := SelectNames(patterns, e.installedNames())
	if err != nil {
		return nil, err
	}

	var results []UnloadResult
	for _, name := range names {
		res := UnloadResult{Name: name}
		for _, t := range e.Catalog.Tools {
			inst, ok := t.Skills[name]
			if !ok {
				continue
			}
			dir := filepath.Dir(inst.Path)
			if !opts.DryRun {
				if err := os.RemoveAll(dir); err != nil {
					return results, fmt.Errorf("removing %s from %s: %w", name, t.Tool.DisplayName(), err)
				}
				// Clean up an install root left empty.
				cleanupEmptyDir(t.Root)
			}
			res.Removed = append(res.Removed, t.Tool.ID())
			res.Paths = append(res.Paths, dir)
		}
		results = append(results, res)
	}
	return results, nil
}

// installedNames returns every name present in at least one tool, sorted.
func (e *Engine) installedNames() []string {
	seen := make(map[string]bool)
	for _, t := range e.Catalog.Tools {
		for name := range t.Skills {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return lessName(names[i], names[j]) })
	return names
}

// cleanupEmptyDir removes a directory if it is empty.
func cleanupEmptyDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	if len(entries) == 0 {
		_ = os.Remove(dir)
	}
}
