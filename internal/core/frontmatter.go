package core

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingFrontmatter is returned when a SKILL.md does not open with a
// --- delimited YAML block.
var ErrMissingFrontmatter = errors.New("missing YAML frontmatter")

// MissingFieldError reports a required frontmatter key that is absent or empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field '%s'", e.Field)
}

// LoadError is a skill that could not be loaded from a source.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// Frontmatter is the parsed header of a SKILL.md document.
type Frontmatter struct {
	Name        string
	Description string
	Metadata    map[string]any // Every key except name and description
	Body        string         // Text after the closing ---
}

// ParseFrontmatter parses the YAML header of a SKILL.md document.
// name and description are required; any other keys are kept as metadata.
func ParseFrontmatter(text string) (*Frontmatter, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	// Look for opening ---
	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "---" {
		return nil, ErrMissingFrontmatter
	}

	// Collect frontmatter lines until closing ---
	var header, body strings.Builder
	closed := false
	for scanner.Scan() {
		line := scanner.Text()
		if !closed {
			if strings.TrimSpace(line) == "---" {
				closed = true
				continue
			}
			header.WriteString(line)
			header.WriteString("\n")
			continue
		}
		body.WriteString(line)
		body.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading frontmatter: %w", err)
	}
	if !closed {
		return nil, ErrMissingFrontmatter
	}

	fields := map[string]any{}
	if err := yaml.Unmarshal([]byte(header.String()), &fields); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}

	fm := &Frontmatter{Body: strings.TrimLeft(body.String(), "\n")}
	var ok bool
	if fm.Name, ok = stringField(fields, "name"); !ok {
		return nil, &MissingFieldError{Field: "name"}
	}
	if fm.Description, ok = stringField(fields, "description"); !ok {
		return nil, &MissingFieldError{Field: "description"}
	}

	delete(fields, "name")
	delete(fields, "description")
	if len(fields) > 0 {
		fm.Metadata = fields
	}
	return fm, nil
}

func stringField(fields map[string]any, key string) (string, bool) {
	v, ok := fields[key]
	if !ok || v == nil {
		return "", false
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	return s, s != ""
}
