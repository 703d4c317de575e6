package core

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Variant is one tool's copy of a skill offered during a pull.
type Variant struct {
	Tool    string
	Path    string
	Content string
	ModTime time.Time
}

// DecisionKind is the answer to a divergent-content conflict.
type DecisionKind int

const (
	DecisionSkip DecisionKind = iota
	DecisionPick
	DecisionShowDiff
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionPick:
		return "pick"
	case DecisionShowDiff:
		return "diff"
	default:
		return "skip"
	}
}

// Decision resolves a divergent skill. Tool is set for DecisionPick.
type Decision struct {
	Kind DecisionKind
	Tool string
}

// Pick returns a decision selecting a tool's variant.
func Pick(tool string) Decision { return Decision{Kind: DecisionPick, Tool: tool} }

// Skip leaves a divergent skill untouched.
var Skip = Decision{Kind: DecisionSkip}

// ShowDiff asks for the variants to be displayed before asking again.
var ShowDiff = Decision{Kind: DecisionShowDiff}

// Resolver supplies the decisions that need user judgment. Plan
// construction blocks on these calls.
type Resolver interface {
	// ChooseSource picks the source a new skill is pulled into.
	// Candidates are in priority order.
	ChooseSource(ctx context.Context, skill string, candidates []SourceDirectory) (SourceDirectory, error)

	// ResolveDivergent picks between tool copies that disagree.
	ResolveDivergent(ctx context.Context, skill string, variants []Variant) (Decision, error)

	// ConfirmOverwrite asks before replacing a modified tool copy.
	ConfirmOverwrite(ctx context.Context, skill, tool string) (bool, error)
}

// DiffViewer is implemented by resolvers that can display variants when a
// ShowDiff decision is returned. source is the current source text, empty
// for new skills.
type DiffViewer interface {
	ShowVariantDiff(ctx context.Context, skill, source string, variants []Variant) error
}

// BatchResolver answers every decision with its default without blocking:
// the highest-priority source, Skip and false. Each default is recorded as
// a warning.
type BatchResolver struct {
	Diag *Diagnostics
}

// NewBatchResolver creates a resolver for non-interactive runs.
func NewBatchResolver(diag *Diagnostics) *BatchResolver {
	return &BatchResolver{Diag: diag}
}

func (r *BatchResolver) ChooseSource(_ context.Context, skill string, candidates []SourceDirectory) (SourceDirectory, error) {
	if len(candidates) == 0 {
		return SourceDirectory{}, fmt.Errorf("no source available for %s", skill)
	}
	chosen := candidates[0]
	r.warn(skill, "", "using highest-priority source %s", chosen.Path)
	return chosen, nil
}

func (r *BatchResolver) ResolveDivergent(_ context.Context, skill string, variants []Variant) (Decision, error) {
	tools := make([]string, len(variants))
	for i, v := range variants {
		tools[i] = v.Tool
	}
	r.warn(skill, "", "tool copies differ (%s); skipping", strings.Join(tools, ", "))
	return Skip, nil
}

func (r *BatchResolver) ConfirmOverwrite(_ context.Context, skill, tool string) (bool, error) {
	r.warn(skill, tool, "not overwriting modified copy without --force")
	return false, nil
}

func (r *BatchResolver) warn(skill, tool, format string, args ...any) {
	if r.Diag == nil {
		return
	}
	r.Diag.Warn(Warning{
		Category: WarnDecision,
		Skill:    skill,
		Tool:     tool,
		Message:  fmt.Sprintf(format, args...),
	})
}
