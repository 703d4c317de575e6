package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/barysiuk/skillsync/internal/core"
	"github.com/barysiuk/skillsync/internal/diff"
)

var diffCmd = &cobra.Command{
	Use:   "diff [skill...]",
	Short: "Show how modified tool copies differ from the sources",
	Long: `Print a unified diff for every modified (skill, tool) pair.

Lines starting with '-' are in the tool copy, lines starting with '+' are
what 'skills push' would write there.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		defer d.finish()

		_, cat, err := d.catalog(cmd)
		if err != nil {
			return err
		}
		names, err := cat.SelectSkills(args)
		if err != nil {
			return err
		}

		if n := writeDiffs(os.Stdout, cat, names); n == 0 {
			fmt.Fprintln(os.Stdout, "No differences.")
		}
		return nil
	},
}

// writeDiffs writes the diffs of the modified cells of names followed by a
// line count summary, and returns how many diffs were written.
func writeDiffs(w io.Writer, cat *core.Catalog, names []string) int {
	n, added, removed := 0, 0, 0
	for _, name := range names {
		row, ok := cat.Matrix.Row(name)
		if !ok {
			continue
		}
		skill := cat.Skills[name]
		for _, cell := range row.Cells {
			if cell.Status != core.StatusModified || cell.Installed == nil {
				continue
			}
			d := diff.Unified(
				fmt.Sprintf("%s: %s", cell.Tool, core.DisplayPath(cell.Installed.Path)),
				fmt.Sprintf("source: %s", core.DisplayPath(skill.Path)),
				cell.Installed.Content,
				cell.Rendered,
			)
			if d == "" {
				continue
			}
			fmt.Fprint(w, diff.Colorize(d))
			a, r := diff.Stat(d)
			added += a
			removed += r
			n++
		}
	}
	if n > 0 {
		fmt.Fprintf(w, "\n%d copies differ, +%d -%d\n", n, added, removed)
	}
	return n
}

func init() {
	addToolFlag(diffCmd)
	rootCmd.AddCommand(diffCmd)
}
