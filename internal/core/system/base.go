package system

import (
	"os"
	"path/filepath"
	"strings"
)

// BaseSystem provides default implementations for common system patterns.
// Individual systems embed this and override methods as needed.
type BaseSystem struct {
	id              string
	displayName     string
	localSkillsDir  string   // project-relative skill directory
	globalSkillsDir string   // global skill directory (with ~ or $VAR)
	detectPaths     []string // files/dirs to check for global installation
}

func (b *BaseSystem) ID() string          { return b.id }
func (b *BaseSystem) DisplayName() string { return b.displayName }

func (b *BaseSystem) IsInstalled() bool {
	for _, p := range b.detectPaths {
		if dirExists(ExpandPath(p)) {
			return true
		}
	}
	return false
}

// GlobalSkillsDir returns the resolved global skill directory path.
func (b *BaseSystem) GlobalSkillsDir() string { return ExpandPath(b.globalSkillsDir) }

// LocalSkillsDir returns the project-relative skill directory path.
func (b *BaseSystem) LocalSkillsDir() string { return b.localSkillsDir }

// DetectPaths returns the global detection paths (expanded).
func (b *BaseSystem) DetectPaths() []string {
	result := make([]string, len(b.detectPaths))
	for i, p := range b.detectPaths {
		result[i] = ExpandPath(p)
	}
	return result
}

// --- Helpers ---

// ExpandPath expands $VAR references and a leading ~ in p.
// $XDG_CONFIG falls back to ~/.config when XDG_CONFIG_HOME is unset.
func ExpandPath(p string) string {
	if strings.Contains(p, "$XDG_CONFIG") {
		xdgConfig := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfig == "" {
			home, _ := os.UserHomeDir()
			xdgConfig = filepath.Join(home, ".config")
		}
		p = strings.ReplaceAll(p, "$XDG_CONFIG", xdgConfig)
	}

	if strings.Contains(p, "$") {
		p = os.Expand(p, os.Getenv)
	}

	if strings.HasPrefix(p, "~/") {
		home, _ := os.UserHomeDir()
		p = filepath.Join(home, p[2:])
	} else if p == "~" {
		home, _ := os.UserHomeDir()
		p = home
	}

	return p
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
