// Package render turns a skill document into the text installed for one tool.
//
// The engine only depends on the Renderer interface; the default Template
// implementation uses text/template with strict variable lookup over the
// data {"tool": <id>}. A skill can branch per tool with
//
//	{{if eq .tool "claude"}}...{{end}}
package render

import (
	"fmt"
	"strings"
	"text/template"
)

// Context is the variable binding passed to a render.
type Context struct {
	Tool string
}

// data returns the template data for the context.
func (c Context) data() map[string]any {
	return map[string]any{"tool": c.Tool}
}

// Renderer renders a skill document for a tool. Implementations must be
// pure and safe for concurrent use.
type Renderer interface {
	Render(name, body string, ctx Context) (string, error)
}

// Func adapts a function to the Renderer interface.
type Func func(name, body string, ctx Context) (string, error)

func (f Func) Render(name, body string, ctx Context) (string, error) { return f(name, body, ctx) }

// Identity returns the body unchanged.
var Identity Renderer = Func(func(_, body string, _ Context) (string, error) { return body, nil })

// Error is a failed render of one skill for one tool.
type Error struct {
	Skill string
	Tool  string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("rendering %s for %s: %v", e.Skill, e.Tool, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Template renders with text/template. Referencing a variable that is not
// bound is an error.
type Template struct{}

// NewTemplate creates the default renderer.
func NewTemplate() *Template { return &Template{} }

func (t *Template) Render(name, body string, ctx Context) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(body)
	if err != nil {
		return "", &Error{Skill: name, Tool: ctx.Tool, Err: err}
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, ctx.data()); err != nil {
		return "", &Error{Skill: name, Tool: ctx.Tool, Err: err}
	}
	return out.String(), nil
}
