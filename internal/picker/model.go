package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"go-autoindex/internal/model"
)

// State is the session's state machine position.
type State int

const (
	StateBrowsing      State = iota // Moving the cursor and toggling entries
	StateConfirmPrompt              // Waiting for a yes/no answer
	StateConfirmed                  // Terminal: selection accepted
	StateAborted                    // Terminal: interrupted with Ctrl+C
)

func (s State) String() string {
	switch s {
	case StateBrowsing:
		return "browsing"
	case StateConfirmPrompt:
		return "confirm"
	case StateConfirmed:
		return "confirmed"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// maxFilesShown caps the files listed under each directory on the
// confirmation screen.
const maxFilesShown = 5

// Model is the Bubble Tea model for the directory checklist.
type Model struct {
	state State
	sel   Selection
	input textinput.Model

	width  int // Terminal width, 0 until the first WindowSizeMsg
	height int // Terminal height

	result model.MatchedSet
}

func NewModel(set model.MatchedSet) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "yes/no"
	ti.CharLimit = 32

	return Model{
		state: StateBrowsing,
		sel:   NewSelection(set),
		input: ti,
	}
}

func (m Model) State() State { return m.state }

func (m Model) Selection() Selection { return m.sel }

// Result returns the confirmed subset. It is nil unless the state is
// StateConfirmed.
func (m Model) Result() model.MatchedSet { return m.result }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.state = StateAborted
			return m, tea.Quit
		}
		switch m.state {
		case StateBrowsing:
			return m.handleBrowsingKey(msg)
		case StateConfirmPrompt:
			return m.handlePromptKey(msg)
		}
	}

	return m, nil
}

func (m Model) handleBrowsingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		m.sel.MoveUp()
	case tea.KeyDown:
		m.sel.MoveDown()
	case tea.KeySpace:
		m.sel.Toggle()
	case tea.KeyEnter:
		m.state = StateConfirmPrompt
		m.input.Reset()
		return m, m.input.Focus()
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "k":
			m.sel.MoveUp()
		case "j":
			m.sel.MoveDown()
		case " ":
			m.sel.Toggle()
		}
	}
	return m, nil
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		answer := strings.ToLower(strings.TrimSpace(m.input.Value()))
		if answer == "yes" {
			m.state = StateConfirmed
			m.result = m.sel.Selected()
			m.input.Blur()
			return m, tea.Quit
		}
		m.backToBrowsing()
		return m, nil

	case tea.KeyEsc:
		m.backToBrowsing()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// backToBrowsing leaves the prompt with all toggles intact.
func (m *Model) backToBrowsing() {
	m.state = StateBrowsing
	m.input.Reset()
	m.input.Blur()
}

// --- View rendering ---

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("15"))
	normalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	markStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View implements tea.Model. Every call redraws the whole screen from state.
func (m Model) View() string {
	switch m.state {
	case StateBrowsing:
		return m.viewBrowsing()
	case StateConfirmPrompt:
		return m.viewPrompt()
	default:
		return ""
	}
}

func (m Model) viewBrowsing() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Select directories to download"))
	b.WriteRune('\n')
	b.WriteString(dimStyle.Render("↑/↓ move · space toggle · enter confirm"))
	b.WriteString("\n\n")

	if m.sel.Len() == 0 {
		b.WriteString(dimStyle.Render("No matching directories"))
		return b.String()
	}

	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		line := m.truncate(m.sel.set[i].Entry.Name())
		if m.sel.IsSelected(i) {
			line += " [*]"
		}
		if i == m.sel.Cursor() {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString(normalStyle.Render("  " + line))
		}
		if i < end-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

func (m Model) viewPrompt() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Selected directories:"))
	b.WriteRune('\n')

	selected := m.sel.Selected()
	if selected.Len() == 0 {
		b.WriteString(dimStyle.Render("(none)"))
		b.WriteRune('\n')
	}
	for _, l := range selected {
		b.WriteString(markStyle.Render(m.truncate(l.Entry.Name())))
		b.WriteRune('\n')
		for i, f := range l.Files {
			if i == maxFilesShown {
				b.WriteString(dimStyle.Render(fmt.Sprintf("    … %d more", len(l.Files)-maxFilesShown)))
				b.WriteRune('\n')
				break
			}
			b.WriteString("    " + m.truncate(f.Basename()))
			b.WriteRune('\n')
		}
	}

	b.WriteString("Confirm selection? (yes/no)\n")
	b.WriteString(m.input.View())
	return b.String()
}

// visibleRange returns the window of rows that fits the terminal and keeps
// the cursor on screen.
func (m Model) visibleRange() (int, int) {
	n := m.sel.Len()
	// 3 rows of header.
	rows := m.height - 3
	if m.height == 0 || rows >= n {
		return 0, n
	}
	if rows < 1 {
		rows = 1
	}
	start := m.sel.Cursor() - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > n {
		start = n - rows
	}
	return start, start + rows
}

// truncate shortens s to fit the terminal width, leaving room for the
// cursor prefix and the selection marker.
func (m Model) truncate(s string) string {
	const chrome = 6
	if m.width <= chrome {
		return s
	}
	return runewidth.Truncate(s, m.width-chrome, "…")
}
