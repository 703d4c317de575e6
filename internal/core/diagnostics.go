package core

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// WarningCategory groups warnings for the end-of-run summary.
type WarningCategory string

const (
	WarnLoad     WarningCategory = "load"     // malformed or incomplete SKILL.md
	WarnRender   WarningCategory = "render"   // template failed for one tool
	WarnConflict WarningCategory = "conflict" // name present in several sources
	WarnSource   WarningCategory = "source"   // configured source missing
	WarnIO       WarningCategory = "io"       // unreadable entry during a scan
	WarnDecision WarningCategory = "decision" // default applied without asking
	WarnName     WarningCategory = "name"     // frontmatter name differs from directory
)

// Warning is a recoverable problem recorded during a run.
type Warning struct {
	Category WarningCategory
	Skill    string
	Tool     string
	Path     string
	Message  string
	Details  []string
}

func (w Warning) String() string {
	var b strings.Builder
	b.WriteString(w.Message)
	for _, d := range w.Details {
		b.WriteString("\n  - ")
		b.WriteString(d)
	}
	return b.String()
}

// skipped reports whether the warning means a skill or cell was left out.
func (w Warning) skipped() bool {
	return w.Category == WarnLoad || w.Category == WarnRender
}

// Diagnostics collects warnings from concurrent scans and planning.
// Every warning is also emitted through the logger as it is recorded.
type Diagnostics struct {
	mu       sync.Mutex
	warnings []Warning
	logger   *slog.Logger
}

// NewDiagnostics creates a collector that logs through logger.
// A nil logger discards log output but still records warnings.
func NewDiagnostics(logger *slog.Logger) *Diagnostics {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Diagnostics{logger: logger}
}

// Warn records a warning.
func (d *Diagnostics) Warn(w Warning) {
	d.mu.Lock()
	d.warnings = append(d.warnings, w)
	d.mu.Unlock()

	attrs := []any{"category", string(w.Category)}
	if w.Skill != "" {
		attrs = append(attrs, "skill", w.Skill)
	}
	if w.Tool != "" {
		attrs = append(attrs, "tool", w.Tool)
	}
	if w.Path != "" {
		attrs = append(attrs, "path", w.Path)
	}
	if len(w.Details) > 0 {
		attrs = append(attrs, "locations", strings.Join(w.Details, ", "))
	}
	d.logger.Warn(w.Message, attrs...)
}

// Warnf records a warning with a formatted message.
func (d *Diagnostics) Warnf(category WarningCategory, skill, format string, args ...any) {
	d.Warn(Warning{Category: category, Skill: skill, Message: fmt.Sprintf(format, args...)})
}

// Logger returns the logger warnings are emitted through.
func (d *Diagnostics) Logger() *slog.Logger { return d.logger }

// Warnings returns a copy of every recorded warning in record order.
func (d *Diagnostics) Warnings() []Warning {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Warning, len(d.warnings))
	copy(out, d.warnings)
	return out
}

// ByCategory returns the warnings of one category.
func (d *Diagnostics) ByCategory(category WarningCategory) []Warning {
	var out []Warning
	for _, w := range d.Warnings() {
		if w.Category == category {
			out = append(out, w)
		}
	}
	return out
}

// Skipped returns the warnings that caused a skill or cell to be left out.
func (d *Diagnostics) Skipped() []Warning {
	var out []Warning
	for _, w := range d.Warnings() {
		if w.skipped() {
			out = append(out, w)
		}
	}
	return out
}

// WriteSummary prints the end-of-run summary. Nothing is written when the
// run produced no warnings.
func (d *Diagnostics) WriteSummary(w io.Writer) {
	all := d.Warnings()
	if len(all) == 0 {
		return
	}

	if skipped := d.Skipped(); len(skipped) > 0 {
		fmt.Fprintf(w, "Skipped %d skills due to errors:\n", len(skipped))
		for _, s := range skipped {
			where := s.Path
			if where == "" {
				where = s.Skill
			}
			if s.Tool != "" {
				where += " (" + s.Tool + ")"
			}
			fmt.Fprintf(w, "  %s: %s\n", where, s.Message)
		}
	}
	fmt.Fprintf(w, "Completed with %d warning(s).\n", len(all))
}
