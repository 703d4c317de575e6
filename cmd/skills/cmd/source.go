package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/barysiuk/skillsync/internal/core"
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage source directories",
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List source directories in priority order",
	Args:  cobra.NoArgs,
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

		var rows [][]string
		for _, src := range set.Sources {
			rows = append(rows, []string{
				fmt.Sprintf("%d", src.Priority+1),
				core.DisplayPath(src.Path),
				fmt.Sprintf("%d", len(src.Skills)),
			})
		}
		printTable(os.Stdout, []string{"#", "PATH", "SKILLS"}, rows)
		return nil
	},
}

var sourceAddCmd = &cobra.Command{
	Use:   "add <dir>",
	Short: "Add a source directory with the lowest priority",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		source := sourceArg(args[0])
		if err := d.config.AddSource(source); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Added source: %s\n", source)
		return nil
	},
}

var sourceRemoveCmd = &cobra.Command{
	Use:     "remove <dir>",
	Aliases: []string{"rm"},
	Short:   "Remove a source directory from the configuration",
	Long:    `Remove a source directory from the configuration. The directory itself is not deleted.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		source := args[0]
		if err := d.config.RemoveSource(source); err != nil {
			// Fall back to the absolute form written by 'source add'.
			abs := sourceArg(source)
			if abs == source || d.config.RemoveSource(abs) != nil {
				return err
			}
			source = abs
		}
		fmt.Fprintf(os.Stdout, "Removed source: %s\n", source)
		return nil
	},
}

// sourceArg makes a relative directory argument absolute. Paths starting
// with ~ or an environment variable are kept as typed so the config stays
// portable.
func sourceArg(s string) string {
	if strings.HasPrefix(s, "~") || strings.HasPrefix(s, "$") || filepath.IsAbs(s) {
		return s
	}
	if abs, err := filepath.Abs(s); err == nil {
		return abs
	}
	return s
}

func init() {
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)
	rootCmd.AddCommand(sourceCmd)
}
