package core

import (
	"context"
	"fmt"
)

// PushOptions configures a push.
type PushOptions struct {
	Skills []string // names or patterns; empty means every source skill
	Force  bool     // overwrite modified tool copies without asking
}

// PlanPush plans writing rendered source skills into tool directories.
// Orphans are never planned. Modified copies are only overwritten with
// Force or after ConfirmOverwrite.
func (e *Engine) PlanPush(ctx context.Context, opts PushOptions) (Plan, error) {
	names, err := SelectNames(opts.Skills, e.sourceNames())
	if err != nil {
		return Plan{}, err
	}

	var plan Plan
	for _, name := range names {
		row, _ := e.Catalog.Matrix.Row(name)
		for _, t := range e.Catalog.Tools {
			id := t.Tool.ID()
			cell, ok := cellFor(row, id)
			if !ok {
				plan.add(Operation{
					Direction: DirectionPush,
					Action:    ActionSkip,
					Skill:     name,
					Tool:      id,
					Reason:    "render failed",
				})
				continue
			}

			switch cell.Status {
			case StatusSynced:
				op := e.pushOp(name, id, cell.Rendered, cell.Installed)
				op.Action = ActionNoOp
				plan.add(op)
			case StatusMissing:
				plan.add(e.pushOp(name, id, cell.Rendered, nil))
			case StatusModified:
				op := e.pushOp(name, id, cell.Rendered, cell.Installed)
				if !opts.Force {
					ok, err := e.Resolver.ConfirmOverwrite(ctx, name, id)
					if err != nil {
						return Plan{}, fmt.Errorf("confirming overwrite of %s for %s: %w", name, id, err)
					}
					if !ok {
						op.Action = ActionSkip
						op.Reason = "modified in tool"
					}
				}
				plan.add(op)
			}
		}
	}
	return plan, nil
}

func cellFor(row Row, tool string) (Cell, bool) {
	for _, c := range row.Cells {
		if c.Tool == tool {
			return c, true
		}
	}
	return Cell{}, false
}
