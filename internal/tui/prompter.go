// Package tui implements the interactive prompts used while planning a
// push, pull or sync.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/barysiuk/skillsync/internal/core"
	"github.com/barysiuk/skillsync/internal/diff"
)

// ErrAborted is returned when the user aborts a prompt with ctrl+c.
var ErrAborted = errors.New("aborted by user")

// Prompter is a core.Resolver that asks the user on a terminal. Each
// question runs as a short-lived bubbletea program on in and out.
type Prompter struct {
	in  io.Reader
	out io.Writer
	mu  sync.Mutex

	// program builds the bubbletea program for a prompt. Tests replace it.
	program func(ctx context.Context, m tea.Model) *tea.Program
}

var (
	_ core.Resolver   = (*Prompter)(nil)
	_ core.DiffViewer = (*Prompter)(nil)
)

// NewPrompter creates a prompter reading keys from in and drawing to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: in, out: out}
	p.program = func(ctx context.Context, m tea.Model) *tea.Program {
		return tea.NewProgram(m,
			tea.WithInput(p.in),
			tea.WithOutput(p.out),
			tea.WithContext(ctx),
		)
	}
	return p
}

// run executes m until it quits and returns the final model.
func (p *Prompter) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	final, err := p.program(ctx, m).Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("running prompt: %w", err)
	}
	return final, nil
}

// ChooseSource asks which source a new skill is pulled into.
func (p *Prompter) ChooseSource(ctx context.Context, skill string, candidates []core.SourceDirectory) (core.SourceDirectory, error) {
	if len(candidates) == 0 {
		return core.SourceDirectory{}, fmt.Errorf("no source available for %s", skill)
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	options := make([]choiceOption, len(candidates))
	for i, c := range candidates {
		options[i] = choiceOption{
			label:  core.DisplayPath(c.Path),
			detail: fmt.Sprintf("%d skills", len(c.Skills)),
		}
	}
	title := fmt.Sprintf("Which source should %q be pulled into?", skill)

	final, err := p.run(ctx, newChoiceModel(title, options))
	if err != nil {
		return core.SourceDirectory{}, err
	}
	m := final.(choiceModel)
	if m.result != choicePicked {
		return core.SourceDirectory{}, ErrAborted
	}
	return candidates[m.index], nil
}

// ResolveDivergent asks which tool's copy to pull when they disagree.
func (p *Prompter) ResolveDivergent(ctx context.Context, skill string, variants []core.Variant) (core.Decision, error) {
	options := make([]choiceOption, len(variants))
	for i, v := range variants {
		options[i] = choiceOption{
			label:  v.Tool,
			detail: "modified " + v.ModTime.Local().Format("2006-01-02 15:04"),
		}
	}
	title := fmt.Sprintf("%q differs between tools. Which copy should be kept?", skill)

	final, err := p.run(ctx, newChoiceModel(title, options).withDiff().withSkip())
	if err != nil {
		return core.Skip, err
	}
	m := final.(choiceModel)
	switch m.result {
	case choicePicked:
		return core.Pick(variants[m.index].Tool), nil
	case choiceDiff:
		return core.ShowDiff, nil
	case choiceSkipped:
		return core.Skip, nil
	default:
		return core.Skip, ErrAborted
	}
}

// ConfirmOverwrite asks before a push replaces a copy edited in the tool.
func (p *Prompter) ConfirmOverwrite(ctx context.Context, skill, tool string) (bool, error) {
	return p.Confirm(ctx, fmt.Sprintf("%s was modified in %s. Overwrite it?", skill, tool))
}

// Confirm asks a yes/no question. The default answer is no.
func (p *Prompter) Confirm(ctx context.Context, message string) (bool, error) {
	final, err := p.run(ctx, newConfirmModel(message))
	if err != nil {
		return false, err
	}
	m := final.(confirmModel)
	if m.aborted {
		return false, ErrAborted
	}
	return m.confirmed, nil
}

// ShowVariantDiff prints each variant against the source text. Without a
// source the variants are compared against the first one.
func (p *Prompter) ShowVariantDiff(_ context.Context, skill, source string, variants []core.Variant) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return WriteVariantDiff(p.out, skill, source, variants)
}

// WriteVariantDiff writes colored unified diffs of variants to w.
func WriteVariantDiff(w io.Writer, skill, source string, variants []core.Variant) error {
	base, baseLabel := source, "source/"+skill
	rest := variants
	if source == "" && len(variants) > 0 {
		base, baseLabel = variants[0].Content, variants[0].Tool+"/"+skill
		rest = variants[1:]
	}
	for _, v := range rest {
		d := diff.Unified(baseLabel, v.Tool+"/"+skill, base, v.Content)
		if d == "" {
			if _, err := fmt.Fprintf(w, "%s: identical to %s\n", v.Tool, baseLabel); err != nil {
				return err
			}
			continue
		}
		if _, err := io.WriteString(w, diff.Colorize(d)); err != nil {
			return err
		}
	}
	return nil
}
