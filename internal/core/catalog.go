package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/barysiuk/skillsync/internal/core/render"
)

// BuildCatalog scans every source and tool root concurrently, waits for all
// of them, then computes the status matrix. Nothing is cached between calls.
func BuildCatalog(ctx context.Context, snap Snapshot, r render.Renderer, diag *Diagnostics) (*Catalog, error) {
	if len(snap.Sources) == 0 {
		return nil, ErrNoSources
	}

	var sources *SourceSet
	tools := make([]ToolInstall, len(snap.Tools))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		set, err := LoadSources(gctx, snap.Sources, diag)
		if err != nil {
			return fmt.Errorf("loading sources: %w", err)
		}
		sources = set
		return nil
	})
	for i, t := range snap.Tools {
		g.Go(func() error {
			install, err := ScanTool(gctx, t.System, t.Root, diag)
			if err != nil {
				return fmt.Errorf("scanning %s: %w", t.System.DisplayName(), err)
			}
			tools[i] = install
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matrix, err := ComputeStatus(ctx, sources.Skills, tools, r, diag)
	if err != nil {
		return nil, err
	}

	return &Catalog{
		Sources:   sources.Sources,
		Tools:     tools,
		Skills:    sources.Skills,
		Conflicts: sources.Conflicts,
		Matrix:    matrix,
	}, nil
}

// SelectSkills resolves names or glob patterns against the skills of the
// status matrix.
func (c *Catalog) SelectSkills(patterns []string) ([]string, error) {
	names := make([]string, len(c.Matrix.Rows))
	for i, r := range c.Matrix.Rows {
		names[i] = r.Name
	}
	return SelectNames(patterns, names)
}
