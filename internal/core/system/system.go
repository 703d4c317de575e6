// Package system defines the System abstraction for skillsync.
//
// A System represents an AI coding tool (Claude Code, Codex, Gemini CLI) that
// reads active skills from its own install root. Each system knows its id,
// which is also the value bound to "tool" when a skill is rendered for it,
// and where its skills live. Systems are self-contained Go structs registered
// at init time.
package system

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTool is returned when a tool id does not match any registered system.
var ErrUnknownTool = errors.New("unknown tool")

// System defines how an AI coding tool exposes its skill directory.
type System interface {
	// Identity
	ID() string          // template id: "claude", "codex", "gemini"
	DisplayName() string // human name: "Claude Code", "Codex"

	// Detection
	IsInstalled() bool     // globally installed on this machine
	DetectPaths() []string // expanded paths IsInstalled checks

	// Paths
	GlobalSkillsDir() string // resolved install root
	LocalSkillsDir() string  // project-relative skill directory
}

// --- Registry ---

var systems []System

// Register adds a system to the global registry.
func Register(s System) { systems = append(systems, s) }

// All returns all registered systems in registration order.
func All() []System { return systems }

// ByID returns the system with the given id, if registered.
func ByID(id string) (System, bool) {
	for _, s := range systems {
		if s.ID() == id {
			return s, true
		}
	}
	return nil, false
}

// ByIDs resolves a list of ids to System values, preserving registry order
// and dropping duplicates. Returns an error if any id is unknown.
func ByIDs(ids []string) ([]System, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := ByID(id); !ok {
			return nil, fmt.Errorf("%w %q; available: %s",
				ErrUnknownTool, id, strings.Join(IDs(systems), ", "))
		}
		want[id] = true
	}

	result := make([]System, 0, len(want))
	for _, s := range systems {
		if want[s.ID()] {
			result = append(result, s)
		}
	}
	return result, nil
}

// Detect returns all globally installed systems.
func Detect() []System {
	var detected []System
	for _, s := range systems {
		if s.IsInstalled() {
			detected = append(detected, s)
		}
	}
	return detected
}

// IDs returns the ids of the given systems.
func IDs(systems []System) []string {
	ids := make([]string, len(systems))
	for i, s := range systems {
		ids[i] = s.ID()
	}
	return ids
}

// DisplayNames returns the display names of the given systems.
func DisplayNames(systems []System) []string {
	names := make([]string, len(systems))
	for i, s := range systems {
		names[i] = s.DisplayName()
	}
	return names
}
