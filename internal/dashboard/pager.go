package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/obegron/ipscope/internal/jsonvalue"
	"github.com/obegron/ipscope/internal/tree"
)

// Pager is a full-screen scroller for rendered output that is wider than
// the terminal.
type Pager struct {
	keys    KeyMap
	pane    pane
	content string
	ready   bool
}

func NewPager(content string) Pager {
	return Pager{keys: DefaultKeyMap(), content: content}
}

func (p Pager) Init() tea.Cmd { return nil }

func (p Pager) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return p, tea.Quit
		case "g", "home":
			p.pane.viewport.GotoTop()
			p.pane.xOffset = 0
			p.pane.refresh()
			return p, nil
		case "G", "end":
			p.pane.viewport.GotoBottom()
			return p, nil
		}

	case tea.WindowSizeMsg:
		if !p.ready {
			p.pane = newPane(msg.Width, msg.Height-1)
			p.pane.SetContent(p.content)
			p.ready = true
		} else {
			p.pane.SetSize(msg.Width, msg.Height-1)
		}
		return p, nil
	}

	var cmd tea.Cmd
	p.pane, cmd = p.pane.Update(msg, p.keys)
	return p, cmd
}

func (p Pager) View() string {
	if !p.ready {
		return "Initializing..."
	}
	return p.pane.View() + "\n" + statusBarStyle.Render(
		"↑↓/kj: vertical | ←→/hl: horizontal | g/G: top/bottom | 0/$: left/right | q: quit | "+p.pane.Position())
}

// Viewer shows one value in the interactive tree outside the dashboard.
type Viewer struct {
	tree tree.Model
	quit key.Binding
}

func NewViewer(v *jsonvalue.Value, opts ...tree.Option) Viewer {
	return Viewer{
		tree: tree.New(opts...).SetValue(v),
		quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
	}
}

func (v Viewer) Init() tea.Cmd { return nil }

func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, v.quit) {
			return v, tea.Quit
		}
	case tea.WindowSizeMsg:
		v.tree = v.tree.SetSize(msg.Width, msg.Height-1)
		return v, nil
	}

	var cmd tea.Cmd
	v.tree, cmd = v.tree.Update(msg)
	return v, cmd
}

func (v Viewer) View() string {
	return v.tree.View() + "\n" + statusBarStyle.Render(
		"↑↓/kj: move | enter: expand/collapse | E/C: expand/collapse all | y: copy | q: quit")
}
