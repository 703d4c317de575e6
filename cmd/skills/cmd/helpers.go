package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/barysiuk/skillsync/internal/core"
	"github.com/barysiuk/skillsync/internal/core/system"
)

// addToolFlag adds --tool to a command.
func addToolFlag(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("tool", "t", nil,
		fmt.Sprintf("Limit to these tools (%s)", strings.Join(system.IDs(system.All()), ", ")))
}

// padRight pads s to width display cells. Escape sequences do not count
// towards the width.
func padRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// printTable writes rows as left-aligned columns separated by two spaces.
func printTable(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = ansi.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := ansi.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	line := func(cells []string) {
		var b strings.Builder
		for i, c := range cells {
			if i == len(cells)-1 {
				b.WriteString(c)
				break
			}
			b.WriteString(padRight(c, widths[i]))
			b.WriteString("  ")
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
	line(header)
	for _, row := range rows {
		line(row)
	}
}

// formatOp renders one planned operation for display.
func formatOp(op core.Operation) string {
	switch {
	case op.Action == core.ActionSkip:
		s := fmt.Sprintf("%s %s (%s): skipped", op.Action.Marker(), op.Skill, op.Tool)
		if op.Reason != "" {
			s += ", " + op.Reason
		}
		return s
	case op.Direction == core.DirectionPull:
		return fmt.Sprintf("%s %s <- %s  %s", op.Action.Marker(), op.Skill, op.Tool, core.DisplayPath(op.Path))
	default:
		return fmt.Sprintf("%s %s -> %s", op.Action.Marker(), op.Skill, op.Tool)
	}
}

// printPlan lists every operation that writes or was skipped. Unchanged
// pairs are left out.
func printPlan(w io.Writer, plan core.Plan) {
	for _, op := range plan.Ops {
		if op.Action == core.ActionNoOp {
			continue
		}
		fmt.Fprintf(w, "  %s\n", formatOp(op))
	}
}

// runPlan prints and applies a plan, then reports the outcome. It returns
// an error only when every write failed.
func runPlan(cmd *cobra.Command, d *deps, eng *core.Engine, plan core.Plan) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	printPlan(os.Stdout, plan)
	report := eng.Apply(cmd.Context(), plan, core.ApplyOptions{DryRun: dryRun})

	push, pull := plan.Counts()
	switch {
	case dryRun:
		fmt.Fprintf(os.Stdout, "Dry run: %d push, %d pull\n", push, pull)
		return nil
	case push+pull == 0:
		if skipped := countSkips(plan); skipped > 0 {
			fmt.Fprintf(os.Stdout, "Nothing written, %d skipped.\n", skipped)
		} else {
			fmt.Fprintln(os.Stdout, "All skills are in sync.")
		}
		return nil
	}

	applied := core.Plan{Ops: report.Applied}
	ap, al := applied.Counts()
	fmt.Fprintf(os.Stdout, "Applied %d push, %d pull.\n", ap, al)

	for _, f := range report.Failed {
		d.diag.Warn(core.Warning{
			Category: core.WarnIO,
			Skill:    f.Op.Skill,
			Tool:     f.Op.Tool,
			Path:     f.Op.Path,
			Message:  fmt.Sprintf("write failed: %v", f.Err),
		})
	}
	if n := len(report.Cancelled); n > 0 {
		fmt.Fprintf(os.Stdout, "Cancelled %d write(s).\n", n)
	}
	if report.Fatal() {
		return fmt.Errorf("all %d writes failed: %w", len(report.Failed), report.Err())
	}
	if n := len(report.Cancelled); n > 0 && len(report.Applied) == 0 {
		return cmd.Context().Err()
	}
	return nil
}

func countSkips(plan core.Plan) int {
	n := 0
	for _, op := range plan.Ops {
		if op.Action == core.ActionSkip {
			n++
		}
	}
	return n
}
