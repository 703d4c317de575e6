package core

import (
	"context"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/barysiuk/skillsync/internal/core/render"
)

// Normalize converts CRLF and CR line endings to LF and strips exactly one
// trailing newline. Status comparison happens on normalized text.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSuffix(s, "\n")
}

// Equivalent reports whether two documents are equal after normalization.
func Equivalent(a, b string) bool { return Normalize(a) == Normalize(b) }

// classify returns the status of a rendered skill against an installed copy.
func classify(rendered string, installed *InstalledSkill) SyncStatus {
	switch {
	case installed == nil:
		return StatusMissing
	case Equivalent(rendered, installed.Content):
		return StatusSynced
	default:
		return StatusModified
	}
}

type renderJob struct {
	skill Skill
	tool  string
	out   string
	err   error
}

// ComputeStatus renders every skill for every tool and classifies each pair.
// Rendering runs concurrently; the matrix and the order of recorded render
// warnings depend only on the inputs.
func ComputeStatus(ctx context.Context, skills map[string]Skill, tools []ToolInstall, r render.Renderer, diag *Diagnostics) (Matrix, error) {
	names := knownNames(skills, tools)

	var jobs []*renderJob
	index := make(map[string]map[string]*renderJob)
	for _, name := range names {
		sk, ok := skills[name]
		if !ok {
			continue
		}
		index[name] = make(map[string]*renderJob, len(tools))
		for _, t := range tools {
			job := &renderJob{skill: sk, tool: t.Tool.ID()}
			jobs = append(jobs, job)
			index[name][job.tool] = job
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			job.out, job.err = r.Render(job.skill.Name, job.skill.Raw, render.Context{Tool: job.tool})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Matrix{}, err
	}

	var m Matrix
	for _, name := range names {
		row := Row{Name: name}
		for _, t := range tools {
			id := t.Tool.ID()
			var installed *InstalledSkill
			if inst, ok := t.Skills[name]; ok {
				installed = &inst
			}

			job, fromSource := index[name][id]
			if !fromSource {
				if installed != nil {
					row.Cells = append(row.Cells, Cell{Skill: name, Tool: id, Status: StatusOrphan, Installed: installed})
				}
				continue
			}
			if job.err != nil {
				diag.Warn(Warning{
					Category: WarnRender,
					Skill:    name,
					Tool:     id,
					Path:     job.skill.Path,
					Message:  job.err.Error(),
				})
				continue
			}
			row.Cells = append(row.Cells, Cell{
				Skill:     name,
				Tool:      id,
				Status:    classify(job.out, installed),
				Rendered:  job.out,
				Installed: installed,
			})
		}
		if len(row.Cells) > 0 {
			m.Rows = append(m.Rows, row)
		}
	}
	return m, nil
}

// knownNames is the sorted union of source and installed skill names.
func knownNames(skills map[string]Skill, tools []ToolInstall) []string {
	seen := make(map[string]bool, len(skills))
	for name := range skills {
		seen[name] = true
	}
	for _, t := range tools {
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
