package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/barysiuk/skillsync/internal/core"
	"github.com/barysiuk/skillsync/internal/logging"
	"github.com/barysiuk/skillsync/internal/tui"
)

var showCmd = &cobra.Command{
	Use:   "show <skill>",
	Short: "Preview a skill's documentation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		defer d.finish()

		skill, err := loadSkill(cmd, d, args[0])
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stdout, tui.Title(skill.Name))
		if skill.Description != "" {
			fmt.Fprintln(os.Stdout, skill.Description)
		}
		fmt.Fprintln(os.Stdout, tui.Muted(core.DisplayPath(skill.Path)))
		fmt.Fprintln(os.Stdout)

		raw, _ := cmd.Flags().GetBool("raw")
		if raw || !logging.IsTerminal(os.Stdout) {
			fmt.Fprint(os.Stdout, skill.Body)
			if !strings.HasSuffix(skill.Body, "\n") {
				fmt.Fprintln(os.Stdout)
			}
			return nil
		}

		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return fmt.Errorf("creating markdown renderer: %w", err)
		}
		out, err := r.Render(skill.Body)
		if err != nil {
			return fmt.Errorf("rendering markdown: %w", err)
		}
		fmt.Fprint(os.Stdout, out)
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("raw", false, "Print the markdown without formatting")
	rootCmd.AddCommand(showCmd)
}
