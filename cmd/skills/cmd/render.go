package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/barysiuk/skillsync/internal/core"
	"github.com/barysiuk/skillsync/internal/core/render"
	"github.com/barysiuk/skillsync/internal/core/system"
)

var renderCmd = &cobra.Command{
	Use:   "render <skill>",
	Short: "Print a skill as it would be installed for one tool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		defer d.finish()

		toolID, _ := cmd.Flags().GetString("tool")
		if _, ok := system.ByID(toolID); !ok {
			return fmt.Errorf("%w %q", system.ErrUnknownTool, toolID)
		}

		skill, err := loadSkill(cmd, d, args[0])
		if err != nil {
			return err
		}
		r := d.renderer
		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			r = render.Identity
		}
		out, err := r.Render(skill.Name, skill.Raw, render.Context{Tool: toolID})
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, out)
		return nil
	},
}

// loadSkill loads the sources and returns the winning copy of name.
func loadSkill(cmd *cobra.Command, d *deps, name string) (core.Skill, error) {
	snap, err := d.snapshot(cmd)
	if err != nil {
		return core.Skill{}, err
	}
	set, err := core.LoadSources(cmd.Context(), snap.Sources, d.diag)
	if err != nil {
		return core.Skill{}, err
	}
	skill, ok := set.Skills[name]
	if !ok {
		return core.Skill{}, fmt.Errorf("%w: %s", core.ErrSkillNotFound, name)
	}
	return skill, nil
}

func init() {
	renderCmd.Flags().StringP("tool", "t", "claude", "Tool to render for")
	renderCmd.Flags().Bool("raw", false, "Print the source document without rendering it")
	rootCmd.AddCommand(renderCmd)
}
