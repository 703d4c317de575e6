package cmd

import (
	"github.com/spf13/cobra"

	"github.com/barysiuk/skillsync/internal/core"
)

var pullCmd = &cobra.Command{
	Use:   "pull [skill...]",
	Short: "Copy skills edited in a tool back into the sources",
	Long: `Write tool copies that differ from the source back into the source.

When every tool holds the same edit it is pulled without asking. When the
tools disagree you choose which copy to keep, view a diff first, or skip
the skill. Skills found only in a tool are created in a source: the one
given with --to, the only configured source, or the one you choose.

Pulled content is written verbatim. A source that used tool-specific
template sections loses them: the pulled copy is already rendered for one
tool. Review with 'skills diff' first when that matters.`,
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
		to, _ := cmd.Flags().GetString("to")

		eng := d.engine(snap, cat)
		plan, err := eng.PlanPull(cmd.Context(), core.PullOptions{Skills: args, To: to})
		if err != nil {
			return err
		}
		return runPlan(cmd, d, eng, plan)
	},
}

func init() {
	addToolFlag(pullCmd)
	pullCmd.Flags().String("to", "", "Source directory new skills are created in")
	pullCmd.Flags().Bool("dry-run", false, "Show what would be done without making changes")
	rootCmd.AddCommand(pullCmd)
}
