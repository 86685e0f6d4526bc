package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arbor-tools/arbor"
	"github.com/arbor-tools/arbor/internal/ui/style"
)

const (
	maxTranscript = 500
	maxVisible    = 8

	helpText = "tab complete · ctrl+n/ctrl+p cycle · up/down history · ctrl+c quit"
)

// Messages

type resultMsg struct {
	line string
	out  []string
	err  error
}

// Model is the Bubble Tea model for the interactive shell.
type Model struct {
	deps Deps
	user string

	input textinput.Model

	// Transcript (newest last for display)
	transcript []string

	// Executed lines, oldest first
	history []string
	histPos int
	draft   string

	suggestions []arbor.Suggestion
	selected    int

	width  int
	height int

	executing bool
	quitting  bool
}

// New builds a shell model ready to run.
func New(deps Deps, user string) Model {
	ti := textinput.New()
	ti.Prompt = style.Prompt(user + "> ")
	ti.Focus()

	m := Model{
		deps:     deps,
		user:     user,
		input:    ti,
		selected: -1,
	}
	m.refreshSuggestions()
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if msg.Width > 4 {
			m.input.Width = msg.Width - 4
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case resultMsg:
		m.executing = false
		for _, line := range msg.out {
			m.appendTranscript(line)
		}
		if msg.err != nil {
			m.appendTranscript(style.Error(msg.err.Error()))
		}
		m.refreshSuggestions()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEnter:
		if m.executing {
			return m, nil
		}
		return m.submit()

	case tea.KeyTab:
		m.acceptSuggestion()
		return m, nil

	case tea.KeyCtrlN:
		m.cycleSelection(1)
		return m, nil

	case tea.KeyCtrlP:
		m.cycleSelection(-1)
		return m, nil

	case tea.KeyUp:
		m.historyBack()
		return m, nil

	case tea.KeyDown:
		m.historyForward()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refreshSuggestions()
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}

	m.appendTranscript(style.Prompt(m.user+"> ") + line)
	m.history = append(m.history, line)
	m.histPos = len(m.history)
	m.draft = ""
	m.input.SetValue("")
	m.refreshSuggestions()

	if line == "exit" || line == "quit" {
		m.quitting = true
		return m, tea.Quit
	}

	m.executing = true
	return m, m.executeCmd(line)
}

func (m Model) executeCmd(line string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.deps.Execute(context.Background(), line)
		return resultMsg{line: line, out: out, err: err}
	}
}

func (m *Model) appendTranscript(line string) {
	m.transcript = append(m.transcript, line)
	if len(m.transcript) > maxTranscript {
		m.transcript = m.transcript[len(m.transcript)-maxTranscript:]
	}
}

func (m *Model) refreshSuggestions() {
	m.suggestions = m.deps.Suggest(context.Background(), m.input.Value())
	if len(m.suggestions) == 0 {
		m.selected = -1
		return
	}
	m.selected = 0
}

// acceptSuggestion replaces the trailing partial token with the
// selected candidate and appends a space so the next level completes.
func (m *Model) acceptSuggestion() {
	if m.selected < 0 || m.selected >= len(m.suggestions) {
		return
	}
	completed := replaceLastToken(m.input.Value(), m.suggestions[m.selected].Text)
	m.input.SetValue(completed)
	m.input.CursorEnd()
	m.refreshSuggestions()
}

func (m *Model) cycleSelection(delta int) {
	n := len(m.suggestions)
	if n == 0 {
		return
	}
	m.selected = ((m.selected+delta)%n + n) % n
}

func (m *Model) historyBack() {
	if len(m.history) == 0 || m.histPos == 0 {
		return
	}
	if m.histPos == len(m.history) {
		m.draft = m.input.Value()
	}
	m.histPos--
	m.input.SetValue(m.history[m.histPos])
	m.input.CursorEnd()
	m.refreshSuggestions()
}

func (m *Model) historyForward() {
	if m.histPos >= len(m.history) {
		return
	}
	m.histPos++
	if m.histPos == len(m.history) {
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(m.history[m.histPos])
	}
	m.input.CursorEnd()
	m.refreshSuggestions()
}

func replaceLastToken(line, completion string) string {
	idx := strings.LastIndex(line, " ")
	if idx < 0 {
		return completion + " "
	}
	return line[:idx+1] + completion + " "
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	for _, line := range m.visibleTranscript() {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if bar := m.suggestionBar(); bar != "" {
		b.WriteString(bar)
		b.WriteString("\n")
	}
	b.WriteString(style.Muted(helpText))
	return b.String()
}

func (m Model) visibleTranscript() []string {
	// Leave room for the input line, suggestion bar, and help line.
	visible := len(m.transcript)
	if m.height > 0 {
		room := m.height - 4
		if room < 0 {
			room = 0
		}
		if visible > room {
			visible = room
		}
	}
	return m.transcript[len(m.transcript)-visible:]
}

func (m Model) suggestionBar() string {
	if len(m.suggestions) == 0 {
		return ""
	}

	start := 0
	if m.selected >= maxVisible {
		start = m.selected - maxVisible + 1
	}
	end := start + maxVisible
	if end > len(m.suggestions) {
		end = len(m.suggestions)
	}

	parts := make([]string, 0, maxVisible+1)
	for i := start; i < end; i++ {
		text := m.suggestions[i].Text
		if i == m.selected {
			parts = append(parts, style.Selected(text))
		} else {
			parts = append(parts, style.Suggestion(text))
		}
	}
	if rest := len(m.suggestions) - end; rest > 0 {
		parts = append(parts, style.Muted(fmt.Sprintf("+%d more", rest)))
	}

	bar := strings.Join(parts, "  ")
	if m.selected >= 0 {
		if tooltip := m.suggestions[m.selected].Tooltip; tooltip != "" {
			bar += "\n" + style.Muted(tooltip)
		}
	}
	return bar
}
