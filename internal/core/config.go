package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tailscale/hujson"

	"github.com/barysiuk/skillsync/internal/core/system"
)

const (
	configDirName  = ".skills"
	configFileName = "config.json"

	// ConfigEnvVar overrides the config file location.
	ConfigEnvVar = "SKILLS_CONFIG"
)

// ErrNoSources is returned when the configuration lists no source directories.
var ErrNoSources = errors.New("no source directories configured")

// Config is the configuration file as written by the user. The file is
// JSONC: comments and trailing commas are allowed.
type Config struct {
	Sources  []string              `json:"sources"`
	Tools    map[string]ToolConfig `json:"tools,omitempty"`
	Settings Settings              `json:"settings"`
}

// ToolConfig overrides the defaults of one tool.
type ToolConfig struct {
	Root     string `json:"root,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Settings holds user preferences.
type Settings struct {
	MtimeTolerance string `json:"mtimeTolerance,omitempty"` // Go duration, e.g. "2s"
	Interactive    *bool  `json:"interactive,omitempty"`    // nil means "when attached to a terminal"
}

// ToolTarget is a tool and the install root it is synchronized with.
type ToolTarget struct {
	System system.System
	Root   string
}

// Snapshot is the resolved configuration for one invocation. It is built
// once and passed by value; nothing reads configuration from globals.
type Snapshot struct {
	ConfigPath     string
	Sources        []string // absolute, priority order
	Tools          []ToolTarget
	MtimeTolerance time.Duration
	Interactive    *bool
}

// ToolIDs returns the ids of the configured tools.
func (s Snapshot) ToolIDs() []string {
	ids := make([]string, len(s.Tools))
	for i, t := range s.Tools {
		ids[i] = t.System.ID()
	}
	return ids
}

// WithTools restricts the snapshot to the given tool ids.
func (s Snapshot) WithTools(ids []string) (Snapshot, error) {
	if len(ids) == 0 {
		return s, nil
	}
	wanted, err := system.ByIDs(ids)
	if err != nil {
		return s, err
	}
	keep := make(map[string]bool, len(wanted))
	for _, w := range wanted {
		keep[w.ID()] = true
	}

	var tools []ToolTarget
	for _, t := range s.Tools {
		if keep[t.System.ID()] {
			tools = append(tools, t)
		}
	}
	if len(tools) == 0 {
		return s, fmt.Errorf("tools %s are disabled in %s", strings.Join(ids, ", "), s.ConfigPath)
	}
	s.Tools = tools
	return s, nil
}

// ConfigManager handles reading and writing the configuration file.
type ConfigManager struct {
	path string
	mu   sync.RWMutex
}

// NewConfigManager creates a ConfigManager for $SKILLS_CONFIG, falling back
// to ~/.skills/config.json.
func NewConfigManager() (*ConfigManager, error) {
	if p := os.Getenv(ConfigEnvVar); p != "" {
		return NewConfigManagerWithPath(p), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}
	return NewConfigManagerWithDir(filepath.Join(home, configDirName)), nil
}

// NewConfigManagerWithDir creates a ConfigManager using a custom config directory.
// Useful for testing.
func NewConfigManagerWithDir(dir string) *ConfigManager {
	return &ConfigManager{path: filepath.Join(dir, configFileName)}
}

// NewConfigManagerWithPath creates a ConfigManager for an explicit config file.
func NewConfigManagerWithPath(path string) *ConfigManager {
	p := expandPath(path, "")
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return &ConfigManager{path: p}
}

// ConfigDir returns the configuration directory path.
func (cm *ConfigManager) ConfigDir() string {
	return filepath.Dir(cm.path)
}

// ConfigPath returns the full path to the config file.
func (cm *ConfigManager) ConfigPath() string {
	return cm.path
}

// Exists reports whether the config file is present.
func (cm *ConfigManager) Exists() bool {
	return fileExists(cm.path)
}

// Load reads the config from disk. Returns an empty config if the file
// doesn't exist.
func (cm *ConfigManager) Load() (*Config, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	data, err := os.ReadFile(cm.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", cm.path, err)
	}
	var cfg Config
	if err := json.Unmarshal(std, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", cm.path, err)
	}
	return &cfg, nil
}

// Snapshot loads the config and resolves it. Relative source and tool paths
// are resolved against the config directory. Returns ErrNoSources when no
// source is configured.
func (cm *ConfigManager) Snapshot() (Snapshot, error) {
	cfg, err := cm.Load()
	if err != nil {
		return Snapshot{}, err
	}
	return cfg.Resolve(cm.path)
}

// Resolve turns a Config into a Snapshot.
func (cfg *Config) Resolve(configPath string) (Snapshot, error) {
	base := filepath.Dir(configPath)
	snap := Snapshot{ConfigPath: configPath, Interactive: cfg.Settings.Interactive}

	seen := make(map[string]bool)
	for _, s := range cfg.Sources {
		if strings.TrimSpace(s) == "" {
			continue
		}
		p := expandPath(s, base)
		if seen[p] {
			continue
		}
		seen[p] = true
		snap.Sources = append(snap.Sources, p)
	}
	if len(snap.Sources) == 0 {
		return Snapshot{}, fmt.Errorf("%w in %s (run 'skills init' or 'skills source add')", ErrNoSources, configPath)
	}

	for id := range cfg.Tools {
		if _, ok := system.ByID(id); !ok {
			return Snapshot{}, fmt.Errorf("config %s: %w %q", configPath, system.ErrUnknownTool, id)
		}
	}
	for _, sys := range system.All() {
		tc := cfg.Tools[sys.ID()]
		if tc.Disabled {
			continue
		}
		root := sys.GlobalSkillsDir()
		if tc.Root != "" {
			root = expandPath(tc.Root, base)
		}
		snap.Tools = append(snap.Tools, ToolTarget{System: sys, Root: root})
	}

	if cfg.Settings.MtimeTolerance != "" {
		d, err := time.ParseDuration(cfg.Settings.MtimeTolerance)
		if err != nil || d < 0 {
			return Snapshot{}, fmt.Errorf("config %s: invalid mtimeTolerance %q", configPath, cfg.Settings.MtimeTolerance)
		}
		snap.MtimeTolerance = d
	}
	return snap, nil
}

const defaultConfigTemplate = `{
	// Source directories in priority order. When a skill name appears in
	// more than one source, the first listed source wins.
	"sources": [
%s
	],
	// Per-tool overrides, e.g. "codex": {"root": "~/work/codex-skills"}
	// or "gemini": {"disabled": true}.
	"tools": %s,
	"settings": {
		// sync treats modification times closer than this as equal.
		"mtimeTolerance": "0s"
	}
}
`

// Init writes a commented default config listing sources. Tools named in
// disabled get a "disabled" entry. It fails if the file already exists.
func (cm *ConfigManager) Init(sources, disabled []string) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if fileExists(cm.path) {
		return fmt.Errorf("config already exists at %s", cm.path)
	}

	lines := make([]string, len(sources))
	for i, s := range sources {
		sep := ","
		if i == len(sources)-1 {
			sep = ""
		}
		lines[i] = "\t\t" + strconv.Quote(s) + sep
	}

	tools := "{}"
	if len(disabled) > 0 {
		entries := make([]string, len(disabled))
		for i, id := range disabled {
			entries[i] = fmt.Sprintf("\t\t%s: {\"disabled\": true},", strconv.Quote(id))
		}
		tools = "{\n" + strings.Join(entries, "\n") + "\n\t}"
	}
	content := fmt.Sprintf(defaultConfigTemplate, strings.Join(lines, "\n"), tools)
	return writeFileAtomic(cm.path, []byte(content))
}

// AddSource appends a source directory, preserving comments in the file.
// A source already listed is left in place.
func (cm *ConfigManager) AddSource(source string) error {
	return cm.patch(func(root *hujson.Value, cfg *Config) (string, error) {
		for _, s := range cfg.Sources {
			if s == source {
				return "", nil
			}
		}
		value, _ := json.Marshal(source)
		if root.Find("/sources") == nil {
			return fmt.Sprintf(`[{"op":"add","path":"/sources","value":[%s]}]`, value), nil
		}
		return fmt.Sprintf(`[{"op":"add","path":"/sources/-","value":%s}]`, value), nil
	})
}

// RemoveSource removes a source directory from the list.
func (cm *ConfigManager) RemoveSource(source string) error {
	return cm.patch(func(_ *hujson.Value, cfg *Config) (string, error) {
		for i, s := range cfg.Sources {
			if s == source {
				return fmt.Sprintf(`[{"op":"remove","path":"/sources/%d"}]`, i), nil
			}
		}
		return "", fmt.Errorf("source %q is not configured", source)
	})
}

// patch applies a JSON patch built from the current file. An empty patch
// leaves the file untouched.
func (cm *ConfigManager) patch(build func(root *hujson.Value, cfg *Config) (string, error)) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	content, err := os.ReadFile(cm.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		content = []byte("{}")
	}

	// Parse as JSONC AST so comments and whitespace survive the edit.
	root, err := hujson.Parse(content)
	if err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	std := root.Clone()
	std.Standardize()
	var cfg Config
	if err := json.Unmarshal(std.Pack(), &cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	patch, err := build(&root, &cfg)
	if err != nil || patch == "" {
		return err
	}
	if err := root.Patch([]byte(patch)); err != nil {
		return fmt.Errorf("updating config: %w", err)
	}
	root.Format()
	return writeFileAtomic(cm.path, root.Pack())
}
