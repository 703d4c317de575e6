package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/barysiuk/skillsync/internal/core"
	"github.com/barysiuk/skillsync/internal/core/system"
)

var initCmd = &cobra.Command{
	Use:   "init [source-dir...]",
	Short: "Create the configuration file",
	Long: `Write a commented configuration file listing the given source directories
(default: a skills directory next to the config file) and create the source
directories that do not exist yet. Earlier sources take priority over later
ones.

Tools that are not installed on this machine are written as disabled. When
no tool is detected every tool stays enabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		if d.config.Exists() {
			return fmt.Errorf("config already exists at %s", core.DisplayPath(d.config.ConfigPath()))
		}

		sources := args
		if len(sources) == 0 {
			sources = []string{core.DisplayPath(filepath.Join(d.config.ConfigDir(), "skills"))}
		}
		for i, s := range sources {
			sources[i] = sourceArg(s)
		}

		detected, disabled := detectTools(d)
		if err := d.config.Init(sources, disabled); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Created %s\n", core.DisplayPath(d.config.ConfigPath()))
		if len(disabled) > 0 {
			fmt.Fprintf(os.Stdout, "Detected tools: %s\n", strings.Join(system.DisplayNames(detected), ", "))
			fmt.Fprintf(os.Stdout, "Disabled: %s\n", strings.Join(disabled, ", "))
		}

		for _, s := range sources {
			dir := system.ExpandPath(s)
			if _, err := os.Stat(dir); err == nil {
				continue
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating source directory: %w", err)
			}
			fmt.Fprintf(os.Stdout, "Created source directory %s\n", core.DisplayPath(dir))
		}
		return nil
	},
}

// detectTools returns the installed tools and the ids of the rest. Nothing
// is disabled when no tool is installed.
func detectTools(d *deps) (detected []system.System, disabled []string) {
	for _, s := range system.All() {
		d.logger.Debug("detecting tool", "tool", s.ID(), "paths", s.DetectPaths(), "installed", s.IsInstalled())
	}
	detected = system.Detect()
	if len(detected) == 0 {
		return nil, nil
	}
	found := make(map[string]bool, len(detected))
	for _, s := range detected {
		found[s.ID()] = true
	}
	for _, s := range system.All() {
		if !found[s.ID()] {
			disabled = append(disabled, s.ID())
		}
	}
	return detected, disabled
}

func init() {
	rootCmd.AddCommand(initCmd)
}
