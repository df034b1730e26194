package tree

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"

	"github.com/obegron/ipscope/internal/jsonvalue"
)

// CopiedDuration is how long the "Copied!" indicator stays up.
const CopiedDuration = 2 * time.Second

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f8fafc")).Bold(true)
	copyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f8fafc")).Background(lipgloss.Color("#334155")).Padding(0, 1)
	copiedStyle = copyStyle.Foreground(lipgloss.Color("#4ade80"))
)

// KeyMap defines the tree viewer bindings.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Top         key.Binding
	Bottom      key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Copy        key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand/collapse")),
		ExpandAll:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "collapse all")),
		Top:         key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+f"), key.WithHelp("pgdn", "page down")),
		Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy JSON")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Copy}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.Toggle, k.ExpandAll, k.CollapseAll, k.Copy},
	}
}

type copyResultMsg struct {
	seq int
	err error
}

type copyResetMsg struct {
	seq int
}

// Model is an interactive tree viewer for one value.
type Model struct {
	KeyMap KeyMap

	value  *jsonvalue.Value
	state  *State
	rows   []Row
	cursor int

	viewport viewport.Model
	width    int
	height   int

	copied    bool
	copySeq   int
	clipboard func(string) error
	logger    zerolog.Logger
}

// Option configures a Model.
type Option func(*Model)

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) { m.clipboard = write }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(m *Model) { m.logger = logger.With().Str("component", "tree").Logger() }
}

func New(opts ...Option) Model {
	m := Model{
		KeyMap:    DefaultKeyMap(),
		state:     NewState(),
		viewport:  viewport.New(80, 20),
		width:     80,
		height:    21,
		clipboard: clipboard.WriteAll,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// SetValue shows v. Expansion state and cursor reset only when v is a
// different value than the one already shown.
func (m Model) SetValue(v *jsonvalue.Value) Model {
	if v != m.value {
		m.value = v
		m.state = NewState()
		m.cursor = 0
		m.viewport.GotoTop()
	}
	m.refresh()
	return m
}

func (m Model) Value() *jsonvalue.Value { return m.value }

func (m Model) Rows() []Row { return m.rows }

func (m Model) Cursor() int { return m.cursor }

func (m Model) Copied() bool { return m.copied }

// SetSize sets the outer size; one line is used by the header.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-1, 1)
	m.refresh()
	return m
}

// ToggleAt flips the node at path and leaves every other node alone.
func (m Model) ToggleAt(p Path) Model {
	for _, r := range m.rows {
		if r.Path == p && r.Toggle {
			m.state.Toggle(p, r.Depth)
			break
		}
	}
	m.refresh()
	return m
}

func (m *Model) refresh() {
	if m.value == nil {
		m.rows = nil
		m.viewport.SetContent("")
		return
	}
	m.rows = m.state.Flatten(*m.value)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	lines := Lines(m.rows, m.cursor)
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, m.viewport.Width, "…")
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))

	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case copyResultMsg:
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Msg("failed to copy")
			return m, nil
		}
		if msg.seq != m.copySeq {
			return m, nil
		}
		m.copied = true
		seq := msg.seq
		return m, tea.Tick(CopiedDuration, func(time.Time) tea.Msg {
			return copyResetMsg{seq: seq}
		})

	case copyResetMsg:
		if msg.seq == m.copySeq {
			m.copied = false
		}
		return m, nil

	case tea.KeyMsg:
		if m.value == nil {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.KeyMap.Up):
			m.cursor--
		case key.Matches(msg, m.KeyMap.Down):
			m.cursor++
		case key.Matches(msg, m.KeyMap.Top):
			m.cursor = 0
		case key.Matches(msg, m.KeyMap.Bottom):
			m.cursor = len(m.rows) - 1
		case key.Matches(msg, m.KeyMap.PageUp):
			m.cursor -= m.viewport.Height
		case key.Matches(msg, m.KeyMap.PageDown):
			m.cursor += m.viewport.Height
		case key.Matches(msg, m.KeyMap.Toggle):
			if m.cursor < len(m.rows) && m.rows[m.cursor].Toggle {
				r := m.rows[m.cursor]
				m.state.Toggle(r.Path, r.Depth)
			}
		case key.Matches(msg, m.KeyMap.ExpandAll):
			m.state.SetAll(*m.value, true)
		case key.Matches(msg, m.KeyMap.CollapseAll):
			m.state.SetAll(*m.value, false)
		case key.Matches(msg, m.KeyMap.Copy):
			cmd := m.copy()
			return m, cmd
		default:
			return m, nil
		}
		m.refresh()
	}
	return m, nil
}

// copy writes the whole value to the clipboard off the update loop. The
// result arrives as a copyResultMsg.
func (m *Model) copy() tea.Cmd {
	m.copySeq++
	seq := m.copySeq
	text := CopyText(*m.value)
	write := m.clipboard
	return func() tea.Msg {
		return copyResultMsg{seq: seq, err: write(text)}
	}
}

func (m Model) View() string {
	label := "⧉ Copy JSON"
	style := copyStyle
	if m.copied {
		label = "✓ Copied!"
		style = copiedStyle
	}
	header := titleStyle.Render("JSON Response") + "  " + style.Render("[y] "+label)
	if m.value == nil {
		return header + "\n" + nullStyle.Render("No data")
	}
	return header + "\n" + m.viewport.View()
}
