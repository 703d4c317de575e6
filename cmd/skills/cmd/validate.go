package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/barysiuk/skillsync/internal/core"
	"github.com/barysiuk/skillsync/internal/core/render"
)

var validateCmd = &cobra.Command{
	Use:   "validate [skill...]",
	Short: "Check that every skill parses and renders for every tool",
	Long: `Load every source skill and render it for each configured tool.

Exits with an error when a skill has malformed frontmatter or a template
that fails for any tool.`,
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
		set, err := core.LoadSources(cmd.Context(), snap.Sources, d.diag)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(set.Skills))
		for name := range set.Skills {
			names = append(names, name)
		}
		sort.Strings(names)
		if names, err = core.SelectNames(args, names); err != nil {
			return err
		}

		invalid := 0
		for _, w := range d.diag.ByCategory(core.WarnLoad) {
			if selected(args, w.Skill) {
				invalid++
			}
		}
		for _, name := range names {
			skill := set.Skills[name]
			ok := true
			for _, t := range snap.Tools {
				id := t.System.ID()
				if _, err := d.renderer.Render(name, skill.Raw, render.Context{Tool: id}); err != nil {
					fmt.Fprintf(os.Stdout, "  invalid  %s (%s): %v\n", name, id, err)
					ok = false
				}
			}
			if ok {
				fmt.Fprintf(os.Stdout, "  ok       %s\n", name)
			} else {
				invalid++
			}
		}

		if invalid > 0 {
			return fmt.Errorf("%d invalid skill(s)", invalid)
		}
		fmt.Fprintf(os.Stdout, "All %d skills are valid.\n", len(names))
		return nil
	},
}

// selected reports whether name matches any of patterns. No patterns
// selects everything.
func selected(patterns []string, name string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pat := range patterns {
		if _, err := core.SelectNames([]string{pat}, []string{name}); err == nil {
			return true
		}
	}
	return false
}

func init() {
	addToolFlag(validateCmd)
	rootCmd.AddCommand(validateCmd)
}
