// Package tui provides the Bubble Tea interactive menu of netease-dl.
//
// The menu only collects a choice and its inputs; the caller runs the
// operation on the plain terminal and shows the menu again afterwards.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles for the menu
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))
)

// Action is a menu entry.
type Action int

const (
	ActionNone Action = iota
	ActionSingle
	ActionFile
	ActionAPI
	ActionSearch
	ActionList
	ActionClean
	ActionExit
)

// Selection is the outcome of one menu round.
type Selection struct {
	Action Action

	// Value is the track ID, list file path, API URL or search keyword.
	Value string

	// Name is the optional filename override of ActionSingle.
	Name string
}

type field struct {
	label       string
	placeholder string
	optional    bool
}

type menuItem struct {
	label  string
	action Action
	fields []field
}

var menuItems = []menuItem{
	{label: "Download a single track", action: ActionSingle, fields: []field{
		{label: "Track ID", placeholder: "5257138"},
		{label: "Filename (optional)", placeholder: "leave empty to use the server name", optional: true},
	}},
	{label: "Batch download from list file", action: ActionFile, fields: []field{
		{label: "List file path", placeholder: "songs.txt"},
	}},
	{label: "Batch download from API URL", action: ActionAPI, fields: []field{
		{label: "API URL", placeholder: "https://example.com/playlist.json"},
	}},
	{label: "Search songs", action: ActionSearch, fields: []field{
		{label: "Keyword", placeholder: "artist or title"},
	}},
	{label: "List downloaded files", action: ActionList},
	{label: "Clean temporary files", action: ActionClean},
	{label: "Exit", action: ActionExit},
}

// State represents the current UI state.
type State int

const (
	StateMenu State = iota
	StatePrompt
	StateDone
)

// Model is the Bubble Tea model of the menu.
type Model struct {
	state     State
	cursor    int
	step      int
	answers   []string
	textInput textinput.Model
	saveDir   string
	status    string
	err       string
	selection Selection
}

// NewModel creates a menu model. status is shown above the entries, e.g. the
// result of the previous operation.
func NewModel(saveDir, status string) Model {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 60

	return Model{
		state:     StateMenu,
		textInput: ti,
		saveDir:   saveDir,
		status:    status,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Selection returns the chosen action once the program has quit.
func (m Model) Selection() Selection {
	return m.selection
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.state == StatePrompt {
			var cmd tea.Cmd
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if key.String() == "ctrl+c" {
		return m.finish(Selection{Action: ActionExit})
	}

	switch m.state {
	case StateMenu:
		return m.updateMenu(key)
	case StatePrompt:
		return m.updatePrompt(key)
	}
	return m, nil
}

func (m Model) updateMenu(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc", "q":
		return m.finish(Selection{Action: ActionExit})
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(menuItems)-1 {
			m.cursor++
		}
	case "enter":
		return m.choose(m.cursor)
	default:
		s := key.String()
		if len(s) == 1 && s[0] >= '1' && int(s[0]-'0') <= len(menuItems) {
			return m.choose(int(s[0] - '1'))
		}
	}
	return m, nil
}

func (m Model) choose(idx int) (tea.Model, tea.Cmd) {
	m.cursor = idx
	item := menuItems[idx]
	if len(item.fields) == 0 {
		return m.finish(Selection{Action: item.action})
	}

	m.state = StatePrompt
	m.step = 0
	m.answers = nil
	m.err = ""
	cmd := m.resetInput()
	return m, cmd
}

func (m Model) updatePrompt(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	item := menuItems[m.cursor]

	switch key.String() {
	case "esc":
		m.state = StateMenu
		m.answers = nil
		m.err = ""
		m.textInput.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.textInput.Value())
		f := item.fields[m.step]
		if value == "" && !f.optional {
			m.err = fmt.Sprintf("%s is required", f.label)
			return m, nil
		}

		m.err = ""
		m.answers = append(m.answers, value)
		m.step++
		if m.step < len(item.fields) {
			cmd := m.resetInput()
			return m, cmd
		}

		sel := Selection{Action: item.action, Value: m.answers[0]}
		if len(m.answers) > 1 {
			sel.Name = m.answers[1]
		}
		return m.finish(sel)
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(key)
	return m, cmd
}

// resetInput prepares the text input for the current field.
func (m *Model) resetInput() tea.Cmd {
	f := menuItems[m.cursor].fields[m.step]
	m.textInput.SetValue("")
	m.textInput.Placeholder = f.placeholder
	return m.textInput.Focus()
}

func (m Model) finish(sel Selection) (tea.Model, tea.Cmd) {
	m.selection = sel
	m.state = StateDone
	m.textInput.Blur()
	return m, tea.Quit
}

// View renders the UI.
func (m Model) View() string {
	if m.state == StateDone {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("NetEase Music Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Save directory: %s", m.saveDir)))
	b.WriteString("\n\n")

	if m.status != "" && m.state == StateMenu {
		b.WriteString(infoStyle.Render(m.status))
		b.WriteString("\n\n")
	}

	switch m.state {
	case StateMenu:
		b.WriteString(m.viewMenu())
	case StatePrompt:
		b.WriteString(m.viewPrompt())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewMenu() string {
	var b strings.Builder

	for i, item := range menuItems {
		line := fmt.Sprintf("%d. %s", i+1, item.label)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewPrompt() string {
	var b strings.Builder

	item := menuItems[m.cursor]
	b.WriteString(subtitleStyle.Render(item.label))
	b.WriteString("\n\n")
	b.WriteString(item.fields[m.step].label + ":")
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n")

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	if m.state == StatePrompt {
		return "enter: confirm • esc: back • ctrl+c: quit"
	}
	return "1-7: choose • ↑/↓ + enter: select • q/esc: quit"
}

// Run shows the menu until the user picks an entry. Cancelling ctx closes
// the menu and returns ActionExit with the program error.
func Run(ctx context.Context, saveDir, status string) (Selection, error) {
	p := tea.NewProgram(NewModel(saveDir, status), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return Selection{Action: ActionExit}, err
	}

	m, ok := final.(Model)
	if !ok || m.selection.Action == ActionNone {
		return Selection{Action: ActionExit}, nil
	}
	return m.selection, nil
}
