package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// choiceResult is how a choice prompt ended.
type choiceResult int

const (
	choicePending choiceResult = iota
	choicePicked
	choiceDiff
	choiceSkipped
	choiceAborted
)

// choiceOption is one selectable line.
type choiceOption struct {
	label  string
	detail string
}

// choiceModel asks the user to pick one of several options. Depending on
// the prompt it can also be skipped or asked to show a diff first.
type choiceModel struct {
	title     string
	options   []choiceOption
	cursor    int
	allowDiff bool
	allowSkip bool
	help      help.Model

	result choiceResult
	index  int // picked option when result is choicePicked
}

func newChoiceModel(title string, options []choiceOption) choiceModel {
	return choiceModel{
		title:   title,
		options: options,
		help:    help.New(),
	}
}

func (m choiceModel) withDiff() choiceModel {
	m.allowDiff = true
	return m
}

func (m choiceModel) withSkip() choiceModel {
	m.allowSkip = true
	return m
}

func (m choiceModel) Init() tea.Cmd { return nil }

func (m choiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.result != choicePending {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m.finish(choiceAborted, 0)

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}

		case key.Matches(msg, keys.Enter):
			if len(m.options) > 0 {
				return m.finish(choicePicked, m.cursor)
			}

		case key.Matches(msg, keys.Pick):
			n, err := strconv.Atoi(msg.String())
			if err == nil && n >= 1 && n <= len(m.options) {
				return m.finish(choicePicked, n-1)
			}

		case m.allowDiff && key.Matches(msg, keys.Diff):
			return m.finish(choiceDiff, 0)

		case m.allowSkip && key.Matches(msg, keys.Skip):
			return m.finish(choiceSkipped, 0)

		case key.Matches(msg, keys.Back):
			return m.finish(choiceAborted, 0)
		}
	}
	return m, nil
}

func (m choiceModel) finish(result choiceResult, index int) (tea.Model, tea.Cmd) {
	m.result = result
	m.index = index
	return m, tea.Quit
}

func (m choiceModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	if m.result != choicePending {
		b.WriteString("  " + mutedStyle.Render(m.summary()) + "\n")
		return b.String()
	}

	for i, opt := range m.options {
		line := fmt.Sprintf("%d) %s", i+1, opt.label)
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("> " + line))
		} else {
			b.WriteString(normalItemStyle.Render("  " + line))
		}
		if opt.detail != "" {
			b.WriteString("  " + badgeStyle.Render(opt.detail))
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help.View(choiceHelpKeyMap{
		allowDiff: m.allowDiff,
		allowSkip: m.allowSkip,
	})))
	b.WriteString("\n")
	return b.String()
}

// summary describes the answer once the prompt is over.
func (m choiceModel) summary() string {
	switch m.result {
	case choicePicked:
		return "-> " + m.options[m.index].label
	case choiceDiff:
		return "-> show diff"
	case choiceSkipped:
		return "-> skipped"
	default:
		return "-> aborted"
	}
}
