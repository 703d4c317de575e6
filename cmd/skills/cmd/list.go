package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/barysiuk/skillsync/internal/core"
	"github.com/barysiuk/skillsync/internal/tui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"status", "ls"},
	Short:   "Show the sync status of every skill in every tool",
	Long: `Show one row per skill and one column per tool.

  synced    the tool copy matches the rendered source
  modified  the tool copy differs from the rendered source
  missing   the skill is in a source but not installed in the tool
  orphan    the skill is installed in the tool but in no source

A dash means the skill has no entry for that tool. Skills found in the
project-local directories of the current directory (.claude/skills,
.codex/skills, .gemini/skills) are listed separately.`,
	Args: cobra.NoArgs,
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

		orphansOnly, _ := cmd.Flags().GetBool("orphans")
		var rows []core.Row
		for _, row := range cat.Matrix.Rows {
			if orphansOnly && !hasStatus(row, core.StatusOrphan) {
				continue
			}
			rows = append(rows, row)
		}

		project, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		local, err := core.ScanLocal(cmd.Context(), snap, project, d.diag)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeStatusJSON(cat, rows, local)
		}

		if len(rows) == 0 {
			fmt.Fprintln(os.Stdout, "No skills found.")
		} else {
			tools := snap.ToolIDs()
			header := append([]string{"SKILL"}, tools...)
			var table [][]string
			for _, row := range rows {
				line := []string{row.Name}
				for _, tool := range tools {
					if cell, ok := cellFor(row, tool); ok {
						line = append(line, tui.StatusLabel(cell.Status))
					} else {
						line = append(line, tui.Muted("-"))
					}
				}
				table = append(table, line)
			}
			printTable(os.Stdout, header, table)

			fmt.Fprintf(os.Stdout, "\n%d synced, %d modified, %d missing, %d orphan\n",
				cat.Matrix.Count(core.StatusSynced),
				cat.Matrix.Count(core.StatusModified),
				cat.Matrix.Count(core.StatusMissing),
				cat.Matrix.Count(core.StatusOrphan))
		}

		if len(local) > 0 && !orphansOnly {
			fmt.Fprintf(os.Stdout, "\nProject skills in %s:\n", core.DisplayPath(project))
			var table [][]string
			for _, s := range localSkills(local) {
				table = append(table, []string{s.Name, s.Tool, core.DisplayPath(s.Path)})
			}
			printTable(os.Stdout, []string{"SKILL", "TOOL", "PATH"}, table)
			fmt.Fprintln(os.Stdout, tui.Muted("Use 'skills promote <skill>' to make one global."))
		}
		return nil
	},
}

// statusJSON is the --json shape of one row.
type statusJSON struct {
	Name   string            `json:"name"`
	Source string            `json:"source,omitempty"`
	Tools  map[string]string `json:"tools"`
}

// localJSON is a project-local skill.
type localJSON struct {
	Name string `json:"name"`
	Tool string `json:"tool"`
	Path string `json:"path"`
}

// listJSON is the --json document.
type listJSON struct {
	Skills    []statusJSON    `json:"skills"`
	Conflicts []core.Conflict `json:"conflicts"`
	Local     []localJSON     `json:"local,omitempty"`
}

func writeStatusJSON(cat *core.Catalog, rows []core.Row, local []core.ToolInstall) error {
	out := listJSON{
		Skills:    make([]statusJSON, 0, len(rows)),
		Conflicts: cat.Conflicts,
		Local:     localSkills(local),
	}
	if out.Conflicts == nil {
		out.Conflicts = []core.Conflict{}
	}
	for _, row := range rows {
		s := statusJSON{Name: row.Name, Tools: make(map[string]string, len(row.Cells))}
		if skill, ok := cat.Skills[row.Name]; ok {
			s.Source = skill.Path
		}
		for _, c := range row.Cells {
			s.Tools[c.Tool] = c.Status.String()
		}
		out.Skills = append(out.Skills, s)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// localSkills flattens project-local installs, sorted by name then tool.
func localSkills(local []core.ToolInstall) []localJSON {
	var out []localJSON
	for _, t := range local {
		for name, inst := range t.Skills {
			out = append(out, localJSON{Name: name, Tool: t.Tool.ID(), Path: filepath.Dir(inst.Path)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Tool < out[j].Tool
	})
	return out
}

func cellFor(row core.Row, tool string) (core.Cell, bool) {
	for _, c := range row.Cells {
		if c.Tool == tool {
			return c, true
		}
	}
	return core.Cell{}, false
}

func hasStatus(row core.Row, status core.SyncStatus) bool {
	for _, c := range row.Cells {
		if c.Status == status {
			return true
		}
	}
	return false
}

func init() {
	addToolFlag(listCmd)
	listCmd.Flags().Bool("orphans", false, "Only show skills installed in a tool but missing from every source")
	listCmd.Flags().Bool("json", false, "Print status as JSON")
	rootCmd.AddCommand(listCmd)
}
