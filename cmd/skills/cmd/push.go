package cmd

import (
	"github.com/spf13/cobra"

	"github.com/barysiuk/skillsync/internal/core"
)

var pushCmd = &cobra.Command{
	Use:   "push [skill...]",
	Short: "Install skills from the sources into each tool",
	Long: `Render each source skill for every tool and write it into the tool's
skill directory.

Missing copies are created. Copies that were edited in the tool are only
overwritten after confirmation, or with --force. Skills installed in a tool
but absent from every source are left alone.

Skill names may be glob patterns, e.g. 'pdf*'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		defer d.finish()

		snap, cat, err := d.catalog(cmd)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")

		eng := d.engine(snap, cat)
		plan, err := eng.PlanPush(cmd.Context(), core.PushOptions{Skills: args, Force: force})
		if err != nil {
			return err
		}
		return runPlan(cmd, d, eng, plan)
	},
}

func init() {
	addToolFlag(pushCmd)
	pushCmd.Flags().BoolP("force", "f", false, "Overwrite copies modified in a tool without asking")
	pushCmd.Flags().Bool("dry-run", false, "Show what would be done without making changes")
	rootCmd.AddCommand(pushCmd)
}
