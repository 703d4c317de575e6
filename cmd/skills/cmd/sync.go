package cmd

import (
	"github.com/spf13/cobra"

	"github.com/barysiuk/skillsync/internal/core"
)

var syncCmd = &cobra.Command{
	Use:   "sync [skill...]",
	Short: "Reconcile sources and tools in both directions",
	Long: `Push missing skills and settle every modified copy by modification time.

When the source is newer (or equally new) the source is pushed to the tool.
When a tool copy is newer it is pulled into the source first, following the
same rules as 'skills pull', and the result is pushed to every other tool.
Use --prefer-source or --prefer-tool to ignore modification times.

Skills found only in a tool are left alone; use 'skills pull' for those.

With --watch, sync runs again whenever a source or tool directory changes.
Watch mode never prompts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := syncOptions(cmd, args)
		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			return runWatch(cmd, opts)
		}
		return runSync(cmd, opts, false)
	},
}

func syncOptions(cmd *cobra.Command, args []string) core.SyncOptions {
	preferSource, _ := cmd.Flags().GetBool("prefer-source")
	preferTool, _ := cmd.Flags().GetBool("prefer-tool")
	return core.SyncOptions{
		Skills:       args,
		PreferSource: preferSource,
		PreferTool:   preferTool,
	}
}

// runSync performs one sync pass.
func runSync(cmd *cobra.Command, opts core.SyncOptions, batch bool) error {
	d, err := newDeps(cmd)
	if err != nil {
		return err
	}
	defer d.finish()
	if batch {
		d.batch = true
	}

	snap, cat, err := d.catalog(cmd)
	if err != nil {
		return err
	}
	eng := d.engine(snap, cat)
	plan, err := eng.PlanSync(cmd.Context(), opts)
	if err != nil {
		return err
	}
	return runPlan(cmd, d, eng, plan)
}

func init() {
	addToolFlag(syncCmd)
	syncCmd.Flags().Bool("prefer-source", false, "Always push the source over modified tool copies")
	syncCmd.Flags().Bool("prefer-tool", false, "Always pull modified tool copies into the source")
	syncCmd.Flags().Bool("dry-run", false, "Show what would be done without making changes")
	syncCmd.Flags().BoolP("watch", "w", false, "Keep running and sync after every change")
	syncCmd.Flags().Duration("debounce", defaultDebounce, "Quiet period before a change triggers a sync")
	syncCmd.MarkFlagsMutuallyExclusive("prefer-source", "prefer-tool")
	syncCmd.MarkFlagsMutuallyExclusive("watch", "dry-run")
	rootCmd.AddCommand(syncCmd)
}
