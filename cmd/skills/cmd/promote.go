package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/barysiuk/skillsync/internal/core"
	"github.com/barysiuk/skillsync/internal/tui"
)

var promoteCmd = &cobra.Command{
	Use:   "promote <skill>",
	Short: "Move a project-local skill into a tool's global skill directory",
	Long: `Move a skill from the project-local skill directory of the current
directory (for example .claude/skills) into the tool's global skill directory.

The promoted skill is an orphan until it is pulled into a source with
'skills pull <skill>'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		defer d.finish()

		snap, err := d.snapshot(cmd)
		if err != nil {
			return err
		}
		project, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		local, err := core.ScanLocal(cmd.Context(), snap, project, d.diag)
		if err != nil {
			return err
		}

		var opts core.PromoteOptions
		opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
		opts.Force, _ = cmd.Flags().GetBool("force")
		if tools, _ := cmd.Flags().GetStringSlice("tool"); len(tools) == 1 {
			opts.Tool = tools[0]
		}

		res, err := core.Promote(local, snap, args[0], opts)
		if err != nil {
			return err
		}
		verb := "Promoted"
		if opts.DryRun {
			verb = "Would promote"
		}
		fmt.Fprintf(os.Stdout, "%s '%s' from %s to %s\n", verb, res.Name, core.DisplayPath(res.From), core.DisplayPath(res.To))
		if !opts.DryRun {
			fmt.Fprintln(os.Stdout, tui.Muted(fmt.Sprintf("Run 'skills pull %s' to add it to a source.", res.Name)))
		}
		return nil
	},
}

func init() {
	addToolFlag(promoteCmd)
	promoteCmd.Flags().Bool("dry-run", false, "Show what would be moved without moving it")
	promoteCmd.Flags().Bool("force", false, "Replace an existing global copy")
	rootCmd.AddCommand(promoteCmd)
}
