package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the dashboard bindings. The Raw tab adds the tree viewer's
// own bindings on top of these.
type KeyMap struct {
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Cancel    key.Binding

	NextTab  key.Binding
	PrevTab  key.Binding
	TabOne   key.Binding
	TabTwo   key.Binding
	TabThree key.Binding

	Left      key.Binding
	Right     key.Binding
	LineStart key.Binding
	LineEnd   key.Binding

	Export      key.Binding
	NewAnalysis key.Binding
	Help        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding

	DialogUp   key.Binding
	DialogDown key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "analyze")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		TabOne:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "malicious")),
		TabTwo:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "suspicious")),
		TabThree: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "raw")),

		Left:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "scroll left")),
		Right:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "scroll right")),
		LineStart: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "line start")),
		LineEnd:   key.NewBinding(key.WithKeys("$"), key.WithHelp("$", "line end")),

		Export:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		NewAnalysis: key.NewBinding(key.WithKeys("n", "/"), key.WithHelp("n", "new analysis")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),

		DialogUp:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		DialogDown: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	}
}

// bindings adapts a fixed set of bindings to help.KeyMap.
type bindings struct {
	short []key.Binding
	full  [][]key.Binding
}

func (b bindings) ShortHelp() []key.Binding  { return b.short }
func (b bindings) FullHelp() [][]key.Binding { return b.full }

// helpKeys returns the bindings that apply to the current screen.
func (m Model) helpKeys() bindings {
	k := m.keys
	switch {
	case m.exporting:
		return bindings{
			short: []key.Binding{k.DialogUp, k.DialogDown, withHelp(k.Submit, "export"), k.Cancel},
			full:  [][]key.Binding{{k.DialogUp, k.DialogDown, withHelp(k.Submit, "export"), k.Cancel}},
		}
	case m.state == stateLoading:
		return bindings{
			short: []key.Binding{k.Cancel, k.ForceQuit},
			full:  [][]key.Binding{{k.Cancel, k.ForceQuit}},
		}
	case m.state == stateForm:
		return bindings{
			short: []key.Binding{k.NextField, k.Submit, k.ForceQuit},
			full:  [][]key.Binding{{k.NextField, k.PrevField, k.Submit, k.Cancel, k.ForceQuit}},
		}
	}

	if m.tab == tabRaw {
		tk := m.tree.KeyMap
		return bindings{
			short: []key.Binding{k.NextTab, tk.Toggle, tk.Copy, k.Export, k.Help, k.Quit},
			full: append([][]key.Binding{
				{k.NextTab, k.PrevTab, k.TabOne, k.TabTwo, k.TabThree},
				{k.Export, k.NewAnalysis, k.Help, k.Quit},
			}, m.tree.KeyMap.FullHelp()...),
		}
	}
	return bindings{
		short: []key.Binding{k.NextTab, k.Left, k.Right, k.Export, k.NewAnalysis, k.Help, k.Quit},
		full: [][]key.Binding{
			{k.NextTab, k.PrevTab, k.TabOne, k.TabTwo, k.TabThree},
			{k.Left, k.Right, k.LineStart, k.LineEnd},
			{k.Export, k.NewAnalysis, k.Help, k.Quit},
		},
	}
}

func withHelp(b key.Binding, desc string) key.Binding {
	b.SetHelp(b.Help().Key, desc)
	return b
}
