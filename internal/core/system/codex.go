package system

import (
	"os"
	"path/filepath"
)

// Codex implements the System interface for the Codex CLI.
type Codex struct {
	BaseSystem
}

// NewCodex creates a configured Codex system.
func NewCodex() *Codex {
	return &Codex{BaseSystem{
		id:              "codex",
		displayName:     "Codex",
		localSkillsDir:  ".codex/skills",
		globalSkillsDir: "~/.codex/skills",
		detectPaths:     []string{"~/.codex", "/etc/codex"},
	}}
}

// GlobalSkillsDir honours $CODEX_HOME, falling back to ~/.codex/skills.
func (c *Codex) GlobalSkillsDir() string {
	if home := os.Getenv("CODEX_HOME"); home != "" {
		return filepath.Join(home, "skills")
	}
	return c.BaseSystem.GlobalSkillsDir()
}

// IsInstalled also reports true when $CODEX_HOME points at an existing directory.
func (c *Codex) IsInstalled() bool {
	if home := os.Getenv("CODEX_HOME"); home != "" && dirExists(home) {
		return true
	}
	return c.BaseSystem.IsInstalled()
}

// DetectPaths lists $CODEX_HOME first when it is set.
func (c *Codex) DetectPaths() []string {
	paths := c.BaseSystem.DetectPaths()
	if home := os.Getenv("CODEX_HOME"); home != "" {
		paths = append([]string{home}, paths...)
	}
	return paths
}

func init() { Register(NewCodex()) }
