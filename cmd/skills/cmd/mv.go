package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/barysiuk/skillsync/internal/core"
	"github.com/barysiuk/skillsync/internal/tui"
)

var mvCmd = &cobra.Command{
	Use:     "mv <skill> <new-name>",
	Aliases: []string{"rename"},
	Short:   "Rename a skill in its source and every tool",
	Long: `Rename a skill's source directory and every installed copy, and rewrite
the name in each SKILL.md frontmatter so the copies stay in sync.

Asks for confirmation on a terminal. Without a terminal, pass --yes.`,
	Args: cobra.ExactArgs(2),
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
		eng := d.engine(snap, cat)

		force, _ := cmd.Flags().GetBool("force")
		preview, err := eng.Rename(args[0], args[1], core.MoveOptions{DryRun: true, Force: force})
		if err != nil {
			return err
		}

		if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
			printMoves(preview, "Would rename")
			return nil
		}

		switch {
		case d.interactive(snap):
			printMoves(preview, "Will rename")
			ok, err := tui.NewPrompter(os.Stdin, os.Stdout).Confirm(cmd.Context(),
				fmt.Sprintf("Rename '%s' to '%s'?", args[0], args[1]))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(os.Stdout, "Cancelled.")
				return nil
			}
		case !d.batch:
			return errors.New("refusing to rename without confirmation; pass --yes")
		}

		res, err := eng.Rename(args[0], args[1], core.MoveOptions{Force: force})
		printMoves(res, "Renamed")
		return err
	},
}

func printMoves(res core.MoveResult, verb string) {
	for _, s := range res.Steps {
		where := "source"
		if s.Tool != "" {
			where = s.Tool
		}
		fmt.Fprintf(os.Stdout, "%s: %s -> %s (%s)\n", verb, core.DisplayPath(s.From), core.DisplayPath(s.To), where)
	}
}

func init() {
	mvCmd.Flags().Bool("dry-run", false, "Show what would be renamed without renaming it")
	mvCmd.Flags().Bool("force", false, "Replace directories that already use the new name")
	rootCmd.AddCommand(mvCmd)
}
