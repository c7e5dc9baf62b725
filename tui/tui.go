package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/wayfarer/engine"
	"github.com/nathoo/wayfarer/engine/state"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the Wayfarer TUI.
type Model struct {
	session *engine.Session
	defs    *state.Defs

	viewport viewport.Model
	input    textinput.Model
	recent   *recall

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	lastCmd  string
}

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input (empty for intro)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// New creates a TUI model wired to the given session.
func New(sess *engine.Session, defs *state.Defs) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		session: sess,
		defs:    defs,
		input:   ti,
		recent:  &recall{},
	}
}

// Run starts the Bubble Tea program.
func Run(sess *engine.Session, defs *state.Defs) error {
	m := New(sess, defs)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces the intro text and the
// starting location narration.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		var lines []string

		if m.defs.Game.Title != "" {
			header := m.defs.Game.Title
			if m.defs.Game.Version != "" {
				header += " v" + m.defs.Game.Version
			}
			if m.defs.Game.Author != "" {
				header += " by " + m.defs.Game.Author
			}
			lines = append(lines, header, "")
		}

		if m.defs.Game.Intro != "" {
			lines = append(lines, m.defs.Game.Intro, "")
		}

		lines = append(lines, m.describeLocation()...)
		lines = append(lines, m.commandHelp()...)

		return gameOutputMsg{lines: lines}
	}
}

// describeLocation narrates the current location: long description on
// the first visit, brief after, marking it visited.
func (m Model) describeLocation() []string {
	loc := m.session.CurrentLocation()
	if loc.Visited {
		return []string{loc.Brief}
	}
	loc.Visited = true
	return []string{loc.Long}
}

// commandHelp lists the menu, special, and movement commands.
func (m Model) commandHelp() []string {
	lines := []string{"You can: " + strings.Join(m.session.Menu(), ", ")}
	if special := m.session.SpecialCommands(); len(special) > 0 {
		lines = append(lines, "At this location, you can also: "+strings.Join(special, ", "))
	}
	if moves := m.session.MovementCommands(); len(moves) > 0 {
		lines = append(lines, "You can go: "+strings.Join(moves, ", "))
	}
	return lines
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.recent.older(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.recent.newer(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.recent.reset()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.recent.remember(input)
	m.recent.reset()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if !m.session.State.Ongoing {
		m = m.appendOutput(gameOutputMsg{
			input: input, lines: []string{"The game is over. Type /quit to exit."}, isSystem: true,
		})
		return m, nil
	}

	// Game command.
	before := m.session.State.Location
	result := m.session.HandleCommand(input)
	if !result.Handled {
		m = m.appendOutput(gameOutputMsg{
			input: input, lines: []string{"That's not something you can do here."},
		})
		return m, nil
	}

	output := result.Output
	if m.session.State.Location != before {
		output = append(output, m.describeLocation()...)
	}
	if m.trace {
		output = append(output, m.formatTrace()...)
	}
	if !m.session.State.Ongoing {
		output = append(output, "", fmt.Sprintf("Final score: %d", m.session.State.Score))
	}
	m = m.appendOutput(gameOutputMsg{input: input, lines: output})
	return m, nil
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries. Preserves existing newlines within the text.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	switch strings.Fields(input)[0] {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", input)}, false
	}
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /quit   — Exit game",
		"  /help   — Show this help",
		"  /state  — Debug: dump current state",
		"  /trace  — Toggle debug trace output",
		"",
		"Game commands:",
		"  " + strings.Join(m.session.Menu(), ", "),
		"  talk <name>  — Talk to someone here",
		"  eat <item>   — Eat something you carry",
		"  drop <item>  — Put something down",
		"  again (g)    — Repeat your last command",
		"",
		"Movement commands are listed under each location.",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

func (m *Model) cmdState() []string {
	s := m.session.State
	output := []string{
		fmt.Sprintf("Location: %d", s.Location),
		fmt.Sprintf("Moves: %d", s.MovesMade),
		fmt.Sprintf("Timer: %d", s.MovementTimer),
		fmt.Sprintf("Health: %d (hungry=%v, energized=%v)", s.HealthBar, s.Hungry, s.Energized),
		fmt.Sprintf("Score: %d", s.Score),
	}
	if len(s.Inventory) > 0 {
		var names []string
		for _, entry := range s.Inventory {
			names = append(names, fmt.Sprintf("%s x%d", entry.Item.Name, entry.Count))
		}
		output = append(output, "Inventory: "+strings.Join(names, ", "))
	}
	if len(s.Flags) > 0 {
		output = append(output, fmt.Sprintf("Flags: %v", s.Flags))
	}
	return output
}

func (m *Model) formatTrace() []string {
	s := m.session.State
	return []string{
		fmt.Sprintf("[trace] moves=%d timer=%d health=%d hungry=%v energized=%v",
			s.MovesMade, s.MovementTimer, s.HealthBar, s.Hungry, s.Energized),
	}
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
