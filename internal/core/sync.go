package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/barysiuk/skillsync/internal/core/render"
)

// SyncOptions configures a two-way sync.
type SyncOptions struct {
	Skills       []string
	PreferSource bool // source wins every out-of-sync cell
	PreferTool   bool // tool wins every modified cell
}

// PlanSync plans a two-way sync. Missing cells are pushed. For modified
// cells the newer side wins; ties and differences within MtimeTolerance go
// to the source. When tools win, their content is pulled into the source
// (divergent tool copies go through the resolver) and every other tool is
// pushed the re-rendered result. Orphans are left alone.
func (e *Engine) PlanSync(ctx context.Context, opts SyncOptions) (Plan, error) {
	if opts.PreferSource && opts.PreferTool {
		return Plan{}, errors.New("prefer-source and prefer-tool are mutually exclusive")
	}
	names, err := SelectNames(opts.Skills, e.sourceNames())
	if err != nil {
		return Plan{}, err
	}

	var plan Plan
	for _, name := range names {
		skill := e.Catalog.Skills[name]
		row, _ := e.Catalog.Matrix.Row(name)

		var pushes []Cell
		var pulls []Variant
		for _, c := range row.Cells {
			switch c.Status {
			case StatusMissing:
				pushes = append(pushes, c)
			case StatusModified:
				if e.toolWins(skill.ModTime, c.Installed.ModTime, opts) {
					pulls = append(pulls, Variant{
						Tool:    c.Tool,
						Path:    c.Installed.Path,
						Content: c.Installed.Content,
						ModTime: c.Installed.ModTime,
					})
				} else {
					pushes = append(pushes, c)
				}
			}
		}

		if len(pulls) == 0 {
			for _, c := range pushes {
				plan.add(e.pushOp(name, c.Tool, c.Rendered, c.Installed))
			}
			continue
		}

		chosen, ok, err := e.chooseVariant(ctx, name, skill.Raw, pulls)
		if err != nil {
			return Plan{}, err
		}
		if !ok {
			plan.add(Operation{
				Direction: DirectionPull,
				Action:    ActionSkip,
				Skill:     name,
				Old:       skill.Raw,
				Reason:    "tool copies differ",
			})
			for _, c := range pushes {
				plan.add(e.pushOp(name, c.Tool, c.Rendered, c.Installed))
			}
			continue
		}

		plan.add(Operation{
			Direction: DirectionPull,
			Action:    ActionOverwrite,
			Skill:     name,
			Tool:      chosen.Tool,
			Path:      skill.Path,
			Old:       skill.Raw,
			New:       chosen.Content,
		})
		for _, op := range e.repush(name, chosen.Content) {
			plan.add(op)
		}
	}
	return plan, nil
}

// toolWins decides the direction of a modified cell.
func (e *Engine) toolWins(source, tool time.Time, opts SyncOptions) bool {
	switch {
	case opts.PreferSource:
		return false
	case opts.PreferTool:
		return true
	}
	return tool.Sub(source) > e.MtimeTolerance
}

// repush plans pushing newly pulled source content to every tool whose copy
// would differ from it.
func (e *Engine) repush(name, content string) []Operation {
	var ops []Operation
	for _, t := range e.Catalog.Tools {
		id := t.Tool.ID()
		rendered, err := e.Renderer.Render(name, content, render.Context{Tool: id})
		if err != nil {
			e.Diag.Warn(Warning{Category: WarnRender, Skill: name, Tool: id, Message: err.Error()})
			ops = append(ops, Operation{
				Direction: DirectionPush,
				Action:    ActionSkip,
				Skill:     name,
				Tool:      id,
				Reason:    fmt.Sprintf("render failed: %v", err),
			})
			continue
		}

		var installed *InstalledSkill
		if inst, ok := t.Skills[name]; ok {
			installed = &inst
		}
		if installed != nil && Equivalent(rendered, installed.Content) {
			continue
		}
		ops = append(ops, e.pushOp(name, id, rendered, installed))
	}
	return ops
}
