// Package core provides the synchronization engine for skillsync.
// It has zero UI dependencies and is independently testable.
package core

import (
	"strings"
	"time"

	"github.com/barysiuk/skillsync/internal/core/system"
)

// skillFileName is the document every skill directory must contain.
const skillFileName = "SKILL.md"

// Skill is a skill definition loaded from a source directory.
type Skill struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"` // Frontmatter keys other than name/description
	Raw         string         `json:"-"`                  // Full SKILL.md text, the render input
	Body        string         `json:"-"`                  // Markdown after the frontmatter block
	Path        string         `json:"path"`               // SKILL.md path
	Dir         string         `json:"dir"`                // Skill directory
	Source      string         `json:"source"`             // Owning source root
	ModTime     time.Time      `json:"modTime"`
}

// SourceDirectory is a configured source root and the skills it owns.
type SourceDirectory struct {
	Path     string   `json:"path"`
	Priority int      `json:"priority"` // Position in the configured order, 0 wins
	Skills   []string `json:"skills"`   // Names owned after conflict resolution, sorted
}

// InstalledSkill is a skill copy found in a tool's install root.
type InstalledSkill struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"` // SKILL.md path
	Content string    `json:"-"`
	ModTime time.Time `json:"modTime"`
}

// ToolInstall is the scanned install root of one tool.
type ToolInstall struct {
	Tool   system.System
	Root   string
	Skills map[string]InstalledSkill
}

// SyncStatus is the state of a (skill, tool) pair.
type SyncStatus int

const (
	StatusSynced SyncStatus = iota
	StatusModified
	StatusMissing
	StatusOrphan
)

func (s SyncStatus) String() string {
	switch s {
	case StatusSynced:
		return "synced"
	case StatusModified:
		return "modified"
	case StatusMissing:
		return "missing"
	case StatusOrphan:
		return "orphan"
	default:
		return "unknown"
	}
}

// MarshalText renders the status by name in JSON output.
func (s SyncStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Cell is the status of one skill for one tool.
type Cell struct {
	Skill     string          `json:"skill"`
	Tool      string          `json:"tool"`
	Status    SyncStatus      `json:"status"`
	Rendered  string          `json:"-"` // Empty for orphans
	Installed *InstalledSkill `json:"installed,omitempty"`
}

// Row groups the cells of one skill in tool registry order.
type Row struct {
	Name  string `json:"name"`
	Cells []Cell `json:"cells"`
}

// Matrix is the status of every known (skill, tool) pair.
// Rows are sorted case-insensitively by skill name.
type Matrix struct {
	Rows []Row `json:"rows"`
}

// Lookup returns the cell for a skill and tool id.
func (m Matrix) Lookup(name, tool string) (Cell, bool) {
	row, ok := m.Row(name)
	if !ok {
		return Cell{}, false
	}
	for _, c := range row.Cells {
		if c.Tool == tool {
			return c, true
		}
	}
	return Cell{}, false
}

// Row returns the row for a skill name.
func (m Matrix) Row(name string) (Row, bool) {
	for _, r := range m.Rows {
		if r.Name == name {
			return r, true
		}
	}
	return Row{}, false
}

// Count returns how many cells have the given status.
func (m Matrix) Count(status SyncStatus) int {
	n := 0
	for _, r := range m.Rows {
		for _, c := range r.Cells {
			if c.Status == status {
				n++
			}
		}
	}
	return n
}

// Conflict records a skill name found in more than one source, or twice in
// one source.
type Conflict struct {
	Name      string   `json:"name"`
	Chosen    string   `json:"chosen"`    // Winning skill directory
	Locations []string `json:"locations"` // Every location in priority order, chosen first
}

// Catalog is everything known about sources and tools for one invocation.
type Catalog struct {
	Sources   []SourceDirectory
	Tools     []ToolInstall
	Skills    map[string]Skill
	Conflicts []Conflict
	Matrix    Matrix
}

// Tool returns the scanned install for a tool id.
func (c *Catalog) Tool(id string) (ToolInstall, bool) {
	for _, t := range c.Tools {
		if t.Tool.ID() == id {
			return t, true
		}
	}
	return ToolInstall{}, false
}

// Source returns the source directory with the given root path.
func (c *Catalog) Source(path string) (SourceDirectory, bool) {
	for _, s := range c.Sources {
		if s.Path == path {
			return s, true
		}
	}
	return SourceDirectory{}, false
}

// lessName orders skill names case-insensitively, falling back to byte order
// so that names differing only in case still sort deterministically.
func lessName(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
