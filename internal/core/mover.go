package core

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var skillNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateSkillName reports whether name can be used as a skill directory
// and frontmatter name.
func ValidateSkillName(name string) error {
	if !skillNameRe.MatchString(name) {
		return fmt.Errorf("invalid skill name %q: use letters, digits, '.', '_' and '-'", name)
	}
	return nil
}

// MoveOptions configures Rename.
type MoveOptions struct {
	DryRun bool
	Force  bool // Replace existing directories with the new name
}

// MoveStep is one directory renamed by Rename.
type MoveStep struct {
	Tool string // Empty for the source directory
	From string
	To   string
}

// MoveResult is the outcome of renaming a skill.
type MoveResult struct {
	Old   string
	New   string
	Steps []MoveStep
}

// Rename gives a skill a new name. The source directory and every installed
// copy are renamed, and the name key of each SKILL.md frontmatter is
// rewritten so the skill stays synced.
func (e *Engine) Rename(oldName, newName string, opts MoveOptions) (MoveResult, error) {
	res := MoveResult{Old: oldName, New: newName}
	if err := ValidateSkillName(newName); err != nil {
		return res, err
	}
	if oldName == newName {
		return res, fmt.Errorf("skill '%s' already has that name", oldName)
	}

	if sk, ok := e.Catalog.Skills[oldName]; ok {
		res.Steps = append(res.Steps, MoveStep{From: sk.Dir, To: filepath.Join(filepath.Dir(sk.Dir), newName)})
	}
	for _, t := range e.Catalog.Tools {
		if inst, ok := t.Skills[oldName]; ok {
			res.Steps = append(res.Steps, MoveStep{
				Tool: t.Tool.ID(),
				From: filepath.Dir(inst.Path),
				To:   filepath.Join(t.Root, newName),
			})
		}
	}
	if len(res.Steps) == 0 {
		return res, fmt.Errorf("%w: %s", ErrSkillNotFound, oldName)
	}

	// A skill of that name elsewhere would shadow or be shadowed by the
	// renamed one. Only a directory the rename replaces may be forced.
	if other, ok := e.Catalog.Skills[newName]; ok {
		if res.Steps[0].Tool != "" || other.Dir != res.Steps[0].To {
			return res, fmt.Errorf("skill '%s' already exists in %s", newName, DisplayPath(other.Source))
		}
	}
	if !opts.Force {
		for _, t := range e.Catalog.Tools {
			if inst, ok := t.Skills[newName]; ok {
				return res, fmt.Errorf("%s already exists; pass --force to replace it", DisplayPath(filepath.Dir(inst.Path)))
			}
		}
		for _, s := range res.Steps {
			if _, err := os.Lstat(s.To); err == nil {
				return res, fmt.Errorf("%s already exists; pass --force to replace it", DisplayPath(s.To))
			}
		}
	}
	if opts.DryRun {
		return res, nil
	}

	for i, s := range res.Steps {
		if err := moveDir(s.From, s.To, opts.Force); err != nil {
			return MoveResult{Old: oldName, New: newName, Steps: res.Steps[:i]}, fmt.Errorf("renaming %s: %w", oldName, err)
		}
		if err := renameInFrontmatter(filepath.Join(s.To, skillFileName), oldName, newName); err != nil {
			return MoveResult{Old: oldName, New: newName, Steps: res.Steps[:i+1]}, err
		}
	}
	return res, nil
}

// renameInFrontmatter rewrites the name key of path when it still carries
// the old name. Copies naming something else are left alone.
func renameInFrontmatter(path, oldName, newName string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	fm, err := ParseFrontmatter(string(data))
	if err != nil || fm.Name != oldName {
		return nil
	}
	text, ok := setFrontmatterName(string(data), newName)
	if !ok {
		return nil
	}
	return writeFileAtomic(path, []byte(text))
}

// setFrontmatterName replaces the value of the top-level name key in the
// frontmatter block of a SKILL.md document.
func setFrontmatterName(text, name string) (string, bool) {
	lines := strings.SplitAfter(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return text, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			break
		}
		if !strings.HasPrefix(lines[i], "name:") {
			continue
		}
		content := strings.TrimRight(lines[i], "\r\n")
		lines[i] = "name: " + name + lines[i][len(content):]
		return strings.Join(lines, ""), true
	}
	return text, false
}
