package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// SourceSet is the merged result of loading every configured source.
type SourceSet struct {
	Sources   []SourceDirectory
	Skills    map[string]Skill
	Conflicts []Conflict
}

// LoadSources loads every source concurrently and merges them once all
// have finished. Sources are given in priority order: when a name appears
// in more than one source the lowest index wins and a conflict warning
// lists every location.
func LoadSources(ctx context.Context, paths []string, diag *Diagnostics) (*SourceSet, error) {
	loaded := make([][]Skill, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			skills, err := loadSource(gctx, p, diag)
			if err != nil {
				return err
			}
			loaded[i] = skills
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mergeSources(paths, loaded, diag), nil
}

// mergeSources resolves name collisions by priority index.
func mergeSources(paths []string, loaded [][]Skill, diag *Diagnostics) *SourceSet {
	set := &SourceSet{Skills: make(map[string]Skill)}
	locations := make(map[string][]string)

	for i, p := range paths {
		src := SourceDirectory{Path: p, Priority: i}
		inSource := make(map[string]string)
		for _, sk := range loaded[i] {
			if first, dup := inSource[sk.Name]; dup {
				set.Conflicts = append(set.Conflicts, Conflict{Name: sk.Name, Chosen: first, Locations: []string{first, sk.Dir}})
				diag.Warn(Warning{
					Category: WarnConflict,
					Skill:    sk.Name,
					Path:     sk.Dir,
					Message:  fmt.Sprintf("skill '%s' defined twice in %s, ignoring %s", sk.Name, p, sk.Dir),
					Details:  []string{first, sk.Dir},
				})
				continue
			}
			inSource[sk.Name] = sk.Dir
			locations[sk.Name] = append(locations[sk.Name], sk.Dir)
			if _, taken := set.Skills[sk.Name]; taken {
				continue
			}
			set.Skills[sk.Name] = sk
			src.Skills = append(src.Skills, sk.Name)
		}
		sort.Slice(src.Skills, func(a, b int) bool { return lessName(src.Skills[a], src.Skills[b]) })
		set.Sources = append(set.Sources, src)
	}

	names := make([]string, 0, len(locations))
	for name, locs := range locations {
		if len(locs) > 1 {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(a, b int) bool { return lessName(names[a], names[b]) })

	for _, name := range names {
		c := Conflict{Name: name, Chosen: set.Skills[name].Dir, Locations: locations[name]}
		set.Conflicts = append(set.Conflicts, c)
		diag.Warn(Warning{
			Category: WarnConflict,
			Skill:    name,
			Path:     c.Chosen,
			Message:  fmt.Sprintf("skill '%s' exists in multiple sources, using %s", name, c.Chosen),
			Details:  c.Locations,
		})
	}
	return set
}

// loadSource reads every skill directory directly under root, in name order.
// Malformed skills are skipped with a warning.
func loadSource(ctx context.Context, root string, diag *Diagnostics) ([]Skill, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			diag.Warn(Warning{Category: WarnSource, Path: root, Message: "source directory not found"})
			return nil, nil
		}
		diag.Warn(Warning{Category: WarnIO, Path: root, Message: fmt.Sprintf("reading source: %v", err)})
		return nil, nil
	}

	var skills []Skill
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if !dirExists(dir) {
			continue
		}

		skill, err := LoadSkill(dir)
		switch {
		case err == nil:
			if skill.Name != entry.Name() {
				diag.Warn(Warning{
					Category: WarnName,
					Skill:    skill.Name,
					Path:     skill.Path,
					Message:  fmt.Sprintf("directory '%s' holds skill '%s', using the frontmatter name", entry.Name(), skill.Name),
				})
			}
			skill.Source = root
			skills = append(skills, *skill)
		case errors.Is(err, fs.ErrNotExist):
			// Not a skill directory.
		default:
			var le *LoadError
			msg := err.Error()
			if errors.As(err, &le) {
				msg = le.Err.Error()
			}
			diag.Warn(Warning{
				Category: WarnLoad,
				Skill:    entry.Name(),
				Path:     filepath.Join(dir, skillFileName),
				Message:  msg,
			})
		}
	}
	return skills, nil
}

// LoadSkill loads a single skill directory. A directory without SKILL.md
// returns an error satisfying errors.Is(err, fs.ErrNotExist).
func LoadSkill(dir string) (*Skill, error) {
	path := filepath.Join(dir, skillFileName)
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	fm, err := ParseFrontmatter(string(data))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	return &Skill{
		Name:        fm.Name,
		Description: fm.Description,
		Metadata:    fm.Metadata,
		Raw:         string(data),
		Body:        fm.Body,
		Path:        path,
		Dir:         dir,
		ModTime:     info.ModTime(),
	}, nil
}
