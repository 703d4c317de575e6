package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/barysiuk/skillsync/internal/core/system"
)

// ScanTool reads the install root of a tool. Each immediate subdirectory
// holding a SKILL.md is an installed skill keyed by directory name.
// A missing root is an empty install, not an error.
func ScanTool(ctx context.Context, sys system.System, root string, diag *Diagnostics) (ToolInstall, error) {
	install := ToolInstall{Tool: sys, Root: root, Skills: make(map[string]InstalledSkill)}

	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return install, nil
		}
		diag.Warn(Warning{
			Category: WarnIO,
			Tool:     sys.ID(),
			Path:     root,
			Message:  fmt.Sprintf("reading tool directory: %v", err),
		})
		return install, nil
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return install, err
		}
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if !dirExists(dir) {
			continue
		}

		installed, err := readInstalled(entry.Name(), filepath.Join(dir, skillFileName))
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				diag.Warn(Warning{
					Category: WarnIO,
					Skill:    entry.Name(),
					Tool:     sys.ID(),
					Path:     filepath.Join(dir, skillFileName),
					Message:  err.Error(),
				})
			}
			continue
		}
		install.Skills[entry.Name()] = installed
	}
	return install, nil
}

func readInstalled(name, path string) (InstalledSkill, error) {
	info, err := os.Stat(path)
	if err != nil {
		return InstalledSkill{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return InstalledSkill{}, fmt.Errorf("reading installed skill: %w", err)
	}
	return InstalledSkill{
		Name:    name,
		Path:    path,
		Content: string(data),
		ModTime: info.ModTime(),
	}, nil
}
