package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/barysiuk/skillsync/internal/core"
	"github.com/barysiuk/skillsync/internal/core/render"
	"github.com/barysiuk/skillsync/internal/logging"
	"github.com/barysiuk/skillsync/internal/tui"
)

// deps holds shared dependencies for CLI commands.
type deps struct {
	config   *core.ConfigManager
	logger   *slog.Logger
	diag     *core.Diagnostics
	renderer render.Renderer
	batch    bool
}

// newDeps creates shared dependencies. Called lazily by commands that need them.
func newDeps(cmd *cobra.Command) (*deps, error) {
	var (
		config *core.ConfigManager
		err    error
	)
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		config = core.NewConfigManagerWithPath(path)
	} else {
		config, err = core.NewConfigManager()
		if err != nil {
			return nil, fmt.Errorf("initializing config: %w", err)
		}
	}

	yes, _ := cmd.Flags().GetBool("yes")
	batch, _ := cmd.Flags().GetBool("batch")

	logger := logging.From(cmd.Context())
	return &deps{
		config:   config,
		logger:   logger,
		diag:     core.NewDiagnostics(logger),
		renderer: render.NewTemplate(),
		batch:    yes || batch,
	}, nil
}

// snapshot resolves the configuration and applies the --tool flag when the
// command has one.
func (d *deps) snapshot(cmd *cobra.Command) (core.Snapshot, error) {
	snap, err := d.config.Snapshot()
	if err != nil {
		return core.Snapshot{}, err
	}
	if cmd.Flags().Lookup("tool") != nil {
		ids, _ := cmd.Flags().GetStringSlice("tool")
		if snap, err = snap.WithTools(ids); err != nil {
			return core.Snapshot{}, err
		}
	}
	d.logger.Debug("configuration loaded",
		"config", snap.ConfigPath,
		"sources", len(snap.Sources),
		"tools", snap.ToolIDs())
	return snap, nil
}

// catalog loads the configuration and scans every source and tool.
func (d *deps) catalog(cmd *cobra.Command) (core.Snapshot, *core.Catalog, error) {
	snap, err := d.snapshot(cmd)
	if err != nil {
		return snap, nil, err
	}
	cat, err := core.BuildCatalog(cmd.Context(), snap, d.renderer, d.diag)
	if err != nil {
		return snap, nil, err
	}
	return snap, cat, nil
}

// interactive reports whether questions can be asked on the terminal.
func (d *deps) interactive(snap core.Snapshot) bool {
	if d.batch {
		return false
	}
	if snap.Interactive != nil && !*snap.Interactive {
		return false
	}
	return logging.IsTerminal(os.Stdin) && logging.IsTerminal(os.Stdout)
}

// resolver returns the terminal prompter when interactive, otherwise the
// batch defaults.
func (d *deps) resolver(snap core.Snapshot) core.Resolver {
	if d.interactive(snap) {
		return tui.NewPrompter(os.Stdin, os.Stdout)
	}
	d.logger.Debug("running without prompts")
	return core.NewBatchResolver(d.diag)
}

// engine builds a reconciliation engine over cat.
func (d *deps) engine(snap core.Snapshot, cat *core.Catalog) *core.Engine {
	eng := core.NewEngine(cat, d.renderer, d.resolver(snap), d.diag)
	eng.MtimeTolerance = snap.MtimeTolerance
	return eng
}

// finish prints the warning summary.
func (d *deps) finish() {
	d.diag.WriteSummary(os.Stderr)
}
