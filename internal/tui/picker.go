// Package tui provides the interactive terminal mood picker.
package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/pulse/internal/cli"
	"github.com/Veraticus/pulse/internal/model"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Choice is what the user picked.
type Choice struct {
	Mood model.Mood
	Note string
}

// MoodPicker lets the user move a cursor over the mood labels and type an
// optional note. Enter confirms, esc cancels.
type MoodPicker struct {
	note      textinput.Model
	help      help.Model
	keys      KeyMap
	moods     []model.Mood
	cursor    int
	done      bool
	cancelled bool
}

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(cli.PrimaryColor).Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true)
)

// NewMoodPicker creates a picker with the cursor on the first mood.
func NewMoodPicker() MoodPicker {
	note := textinput.New()
	note.Placeholder = "optional note"
	note.CharLimit = 280
	note.Prompt = "Note: "

	return MoodPicker{
		note:  note,
		help:  help.New(),
		keys:  DefaultKeyMap(),
		moods: model.Moods(),
	}
}

// Init implements tea.Model.
func (m MoodPicker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m MoodPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.note, cmd = m.note.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Confirm):
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Next):
		if m.note.Focused() {
			m.note.Blur()
			return m, nil
		}
		return m, m.note.Focus()
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.moods)-1 {
			m.cursor++
		}
		return m, nil
	}

	if m.note.Focused() {
		var cmd tea.Cmd
		m.note, cmd = m.note.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m MoodPicker) View() string {
	var b strings.Builder
	b.WriteString(cli.FormatTitle("How are you feeling?"))
	b.WriteString("\n\n")

	for i, mood := range m.moods {
		line := fmt.Sprintf("%s (%+d)", mood.Display(), mood.Score())
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> ") + selectedStyle.Render(line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.note.View())
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Selected returns the mood under the cursor and the trimmed note.
func (m MoodPicker) Selected() Choice {
	return Choice{
		Mood: m.moods[m.cursor],
		Note: strings.TrimSpace(m.note.Value()),
	}
}

// Confirmed reports whether the user pressed enter.
func (m MoodPicker) Confirmed() bool {
	return m.done && !m.cancelled
}
