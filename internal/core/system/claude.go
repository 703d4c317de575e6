package system

// ClaudeCode implements the System interface for Claude Code.
type ClaudeCode struct {
	BaseSystem
}

// NewClaudeCode creates a configured Claude Code system.
func NewClaudeCode() *ClaudeCode {
	return &ClaudeCode{BaseSystem{
		id:              "claude",
		displayName:     "Claude Code",
		localSkillsDir:  ".claude/skills",
		globalSkillsDir: "~/.claude/skills",
		detectPaths:     []string{"~/.claude"},
	}}
}

func init() { Register(NewClaudeCode()) }
