package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/barysiuk/skillsync/internal/core"
	"github.com/barysiuk/skillsync/internal/tui"
)

var unloadCmd = &cobra.Command{
	Use:   "unload <skill...>",
	Short: "Remove installed skills from tool directories",
	Long: `Delete the installed copies of skills from each tool's skill directory.
Source directories are never touched, so 'skills push' brings them back.

Asks for confirmation on a terminal. Without a terminal, pass --yes.`,
	Args: cobra.MinimumNArgs(1),
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

		preview, err := eng.Unload(args, core.UnloadOptions{DryRun: true})
		if err != nil {
			return err
		}
		if countRemovals(preview) == 0 {
			fmt.Fprintln(os.Stdout, "Nothing to remove.")
			return nil
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if dryRun {
			printUnload(preview, "Would remove")
			return nil
		}

		switch {
		case d.interactive(snap):
			printUnload(preview, "Will remove")
			ok, err := tui.NewPrompter(os.Stdin, os.Stdout).Confirm(cmd.Context(),
				fmt.Sprintf("Remove %d installed copies?", countRemovals(preview)))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(os.Stdout, "Cancelled.")
				return nil
			}
		case !d.batch:
			return errors.New("refusing to remove skills without confirmation; pass --yes")
		}

		results, err := eng.Unload(args, core.UnloadOptions{})
		printUnload(results, "Removed")
		return err
	},
}

func printUnload(results []core.UnloadResult, verb string) {
	for _, r := range results {
		if len(r.Removed) == 0 {
			continue
		}
		fmt.Fprintf(os.Stdout, "%s: %s [%s]\n", verb, r.Name, strings.Join(r.Removed, ", "))
	}
}

func countRemovals(results []core.UnloadResult) int {
	n := 0
	for _, r := range results {
		n += len(r.Removed)
	}
	return n
}

func init() {
	addToolFlag(unloadCmd)
	unloadCmd.Flags().Bool("dry-run", false, "Show what would be removed without removing it")
	rootCmd.AddCommand(unloadCmd)
}
