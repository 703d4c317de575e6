package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/barysiuk/skillsync/internal/core/render"
)

var (
	// ErrSkillNotFound is returned when a requested skill matches nothing.
	ErrSkillNotFound = errors.New("skill not found")

	// ErrSourceNotFound is returned when --to names a source that is not configured.
	ErrSourceNotFound = errors.New("source not configured")
)

// Direction is the way content flows for an operation.
type Direction int

const (
	DirectionPush Direction = iota // source to tool
	DirectionPull                  // tool to source
)

func (d Direction) String() string {
	if d == DirectionPull {
		return "pull"
	}
	return "push"
}

// Action is what an operation does to its destination.
type Action int

const (
	ActionCreate Action = iota
	ActionOverwrite
	ActionNoOp
	ActionSkip
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "new"
	case ActionOverwrite:
		return "overwrite"
	case ActionNoOp:
		return "unchanged"
	default:
		return "skipped"
	}
}

// Marker is the one-character prefix used when listing operations.
func (a Action) Marker() string {
	switch a {
	case ActionCreate:
		return "+"
	case ActionOverwrite:
		return "~"
	case ActionNoOp:
		return "="
	default:
		return "!"
	}
}

// Operation is one planned step. For pushes Tool is the destination tool;
// for pulls it is the tool the content comes from. Old and New carry the
// destination's current and planned content for diff display.
type Operation struct {
	Direction Direction
	Action    Action
	Skill     string
	Tool      string
	Path      string
	Old       string
	New       string
	Reason    string
}

// IsWrite reports whether applying the operation touches the filesystem.
func (o Operation) IsWrite() bool {
	return o.Action == ActionCreate || o.Action == ActionOverwrite
}

func (o Operation) String() string {
	s := fmt.Sprintf("%s %s %s %s (%s)", o.Action.Marker(), o.Direction, o.Skill, o.Tool, o.Action)
	if o.Reason != "" {
		s += ": " + o.Reason
	}
	return s
}

// Plan is an ordered list of operations.
type Plan struct {
	Ops []Operation
}

// Writes returns the operations that write to disk.
func (p Plan) Writes() []Operation {
	var out []Operation
	for _, op := range p.Ops {
		if op.IsWrite() {
			out = append(out, op)
		}
	}
	return out
}

// Counts returns the number of push and pull writes.
func (p Plan) Counts() (push, pull int) {
	for _, op := range p.Writes() {
		if op.Direction == DirectionPull {
			pull++
		} else {
			push++
		}
	}
	return push, pull
}

func (p *Plan) add(op Operation) { p.Ops = append(p.Ops, op) }

// Engine plans push, pull and sync over a catalog.
type Engine struct {
	Catalog        *Catalog
	Renderer       render.Renderer
	Resolver       Resolver
	Diag           *Diagnostics
	MtimeTolerance time.Duration
}

// NewEngine creates an Engine. A nil resolver answers every decision with
// its default.
func NewEngine(cat *Catalog, r render.Renderer, res Resolver, diag *Diagnostics) *Engine {
	if res == nil {
		res = NewBatchResolver(diag)
	}
	return &Engine{Catalog: cat, Renderer: r, Resolver: res, Diag: diag}
}

// maxShowDiff bounds how often a resolver may ask to see the variants for
// one skill before the conflict is skipped.
const maxShowDiff = 16

// chooseVariant picks the tool copy to pull. Copies that all agree are
// pulled without asking; otherwise the resolver decides.
func (e *Engine) chooseVariant(ctx context.Context, skill, source string, variants []Variant) (Variant, bool, error) {
	if allAgree(variants) {
		return variants[0], true, nil
	}

	for shown := 0; ; shown++ {
		d, err := e.Resolver.ResolveDivergent(ctx, skill, variants)
		if err != nil {
			return Variant{}, false, fmt.Errorf("resolving %s: %w", skill, err)
		}
		switch d.Kind {
		case DecisionPick:
			for _, v := range variants {
				if v.Tool == d.Tool {
					return v, true, nil
				}
			}
			return Variant{}, false, fmt.Errorf("resolving %s: %q is not one of the variants", skill, d.Tool)
		case DecisionShowDiff:
			if shown >= maxShowDiff {
				e.Diag.Warnf(WarnDecision, skill, "too many diff requests; skipping")
				return Variant{}, false, nil
			}
			if dv, ok := e.Resolver.(DiffViewer); ok {
				if err := dv.ShowVariantDiff(ctx, skill, source, variants); err != nil {
					return Variant{}, false, fmt.Errorf("showing diff for %s: %w", skill, err)
				}
			}
		default:
			return Variant{}, false, nil
		}
	}
}

func allAgree(variants []Variant) bool {
	for _, v := range variants[1:] {
		if !Equivalent(v.Content, variants[0].Content) {
			return false
		}
	}
	return true
}

// SelectNames resolves skill names or doublestar patterns against candidates.
// No patterns selects every candidate. A pattern matching nothing is an error.
func SelectNames(patterns, candidates []string) ([]string, error) {
	if len(patterns) == 0 {
		return candidates, nil
	}

	picked := make(map[string]bool)
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("invalid skill pattern %q", pat)
		}
		matched := false
		for _, name := range candidates {
			if ok, _ := doublestar.Match(pat, name); ok {
				picked[name] = true
				matched = true
			}
		}
		if !matched {
			return nil, fmt.Errorf("%w: %s", ErrSkillNotFound, pat)
		}
	}

	var out []string
	for _, name := range candidates {
		if picked[name] {
			out = append(out, name)
		}
	}
	return out, nil
}

// sourceNames returns the names of loaded skills in matrix order.
func (e *Engine) sourceNames() []string {
	names := make([]string, 0, len(e.Catalog.Skills))
	for name := range e.Catalog.Skills {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return lessName(names[i], names[j]) })
	return names
}

// matrixNames returns every skill name in the matrix, orphans included.
func (e *Engine) matrixNames() []string {
	names := make([]string, len(e.Catalog.Matrix.Rows))
	for i, r := range e.Catalog.Matrix.Rows {
		names[i] = r.Name
	}
	return names
}

// pushOp builds the push operation for a cell from rendered content.
func (e *Engine) pushOp(name, tool, rendered string, installed *InstalledSkill) Operation {
	op := Operation{Direction: DirectionPush, Skill: name, Tool: tool, New: rendered}
	if installed != nil {
		op.Action = ActionOverwrite
		op.Path = installed.Path
		op.Old = installed.Content
		return op
	}
	op.Action = ActionCreate
	if t, ok := e.Catalog.Tool(tool); ok {
		op.Path = filepath.Join(t.Root, name, skillFileName)
	}
	return op
}
