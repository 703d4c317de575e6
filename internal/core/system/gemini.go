package system

// GeminiCLI implements the System interface for the Gemini CLI.
type GeminiCLI struct {
	BaseSystem
}

// NewGeminiCLI creates a configured Gemini CLI system.
func NewGeminiCLI() *GeminiCLI {
	return &GeminiCLI{BaseSystem{
		id:              "gemini",
		displayName:     "Gemini CLI",
		localSkillsDir:  ".gemini/skills",
		globalSkillsDir: "~/.gemini/skills",
		detectPaths:     []string{"~/.gemini"},
	}}
}

func init() { Register(NewGeminiCLI()) }
