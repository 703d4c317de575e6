package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// PullOptions configures a pull.
type PullOptions struct {
	Skills []string // names or patterns; empty means every modified or orphan skill
	To     string   // source that new skills are created in
}

// PlanPull plans copying tool content back into sources. Content is taken
// verbatim from the tool, so template branches that only existed in the
// source are replaced by the tool's rendered text.
func (e *Engine) PlanPull(ctx context.Context, opts PullOptions) (Plan, error) {
	names, err := SelectNames(opts.Skills, e.matrixNames())
	if err != nil {
		return Plan{}, err
	}

	var to *SourceDirectory
	if opts.To != "" {
		src, err := e.sourceByPath(opts.To)
		if err != nil {
			return Plan{}, err
		}
		to = &src
	}

	var plan Plan
	for _, name := range names {
		row, _ := e.Catalog.Matrix.Row(name)
		variants := pullVariants(row)
		if len(variants) == 0 {
			continue
		}

		skill, exists := e.Catalog.Skills[name]
		chosen, ok, err := e.chooseVariant(ctx, name, skill.Raw, variants)
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
			continue
		}

		op := Operation{Direction: DirectionPull, Skill: name, Tool: chosen.Tool, New: chosen.Content}
		if exists {
			op.Action = ActionOverwrite
			op.Path = skill.Path
			op.Old = skill.Raw
			if Equivalent(op.Old, op.New) {
				op.Action = ActionNoOp
			}
			plan.add(op)
			continue
		}

		src, err := e.pullTarget(ctx, name, to)
		if err != nil {
			return Plan{}, err
		}
		dir := filepath.Join(src.Path, name)
		op.Path = filepath.Join(dir, skillFileName)
		if reason, taken := e.occupied(dir); taken {
			op.Action = ActionSkip
			op.Reason = reason
			e.Diag.Warn(Warning{
				Category: WarnDecision,
				Skill:    name,
				Tool:     chosen.Tool,
				Path:     dir,
				Message:  "not creating skill: " + reason,
			})
			plan.add(op)
			continue
		}
		op.Action = ActionCreate
		plan.add(op)
	}
	return plan, nil
}

// occupied reports whether a new skill directory would land on an existing
// one, and why.
func (e *Engine) occupied(dir string) (string, bool) {
	for _, sk := range e.Catalog.Skills {
		if sk.Dir == dir {
			return fmt.Sprintf("%s already holds skill '%s'", DisplayPath(dir), sk.Name), true
		}
	}
	if _, err := os.Stat(dir); err == nil {
		return fmt.Sprintf("%s already exists", DisplayPath(dir)), true
	}
	return "", false
}

// pullVariants collects the tool copies a pull may take content from.
func pullVariants(row Row) []Variant {
	var out []Variant
	for _, c := range row.Cells {
		if c.Status != StatusModified && c.Status != StatusOrphan {
			continue
		}
		out = append(out, Variant{
			Tool:    c.Tool,
			Path:    c.Installed.Path,
			Content: c.Installed.Content,
			ModTime: c.Installed.ModTime,
		})
	}
	return out
}

// pullTarget picks the source a new skill is created in: the override, the
// only source, or the resolver's choice.
func (e *Engine) pullTarget(ctx context.Context, name string, to *SourceDirectory) (SourceDirectory, error) {
	switch {
	case to != nil:
		return *to, nil
	case len(e.Catalog.Sources) == 1:
		return e.Catalog.Sources[0], nil
	}
	src, err := e.Resolver.ChooseSource(ctx, name, e.Catalog.Sources)
	if err != nil {
		return SourceDirectory{}, fmt.Errorf("choosing source for %s: %w", name, err)
	}
	return src, nil
}

func (e *Engine) sourceByPath(p string) (SourceDirectory, error) {
	want := expandPath(p, "")
	if abs, err := filepath.Abs(want); err == nil {
		want = abs
	}
	if src, ok := e.Catalog.Source(want); ok {
		return src, nil
	}
	return SourceDirectory{}, fmt.Errorf("%w: %s", ErrSourceNotFound, p)
}
