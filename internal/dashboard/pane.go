package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const scrollStep = 5

// pane shows pre-rendered lines that may be wider than the terminal. The
// viewport scrolls vertically, xOffset horizontally.
type pane struct {
	viewport     viewport.Model
	content      []string
	contentWidth int
	xOffset      int
	width        int
}

func newPane(width, height int) pane {
	return pane{viewport: viewport.New(width, height), width: width}
}

func (p *pane) SetContent(s string) {
	p.content = strings.Split(s, "\n")
	p.contentWidth = contentWidth(p.content)
	p.xOffset = min(p.xOffset, p.maxScroll())
	p.viewport.GotoTop()
	p.refresh()
}

func (p *pane) SetSize(width, height int) {
	p.width = width
	p.viewport.Width = width
	p.viewport.Height = max(height, 1)
	p.xOffset = min(p.xOffset, p.maxScroll())
	p.refresh()
}

func (p pane) maxScroll() int {
	return max(p.contentWidth-p.width, 0)
}

func (p *pane) refresh() {
	visible := make([]string, len(p.content))
	for i, line := range p.content {
		visible[i] = sliceLine(line, p.xOffset, p.width)
	}
	p.viewport.SetContent(strings.Join(visible, "\n"))
}

func (p pane) Update(msg tea.Msg, keys KeyMap) (pane, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Left):
			p.xOffset = max(p.xOffset-scrollStep, 0)
			p.refresh()
			return p, nil
		case key.Matches(msg, keys.Right):
			p.xOffset = min(p.xOffset+scrollStep, p.maxScroll())
			p.refresh()
			return p, nil
		case key.Matches(msg, keys.LineStart):
			p.xOffset = 0
			p.refresh()
			return p, nil
		case key.Matches(msg, keys.LineEnd):
			p.xOffset = p.maxScroll()
			p.refresh()
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p pane) View() string { return p.viewport.View() }

// Position reports the cursor for the status bar.
func (p pane) Position() string {
	return fmt.Sprintf("Line: %d/%d | Col: %d/%d",
		p.viewport.YOffset+1, len(p.content), p.xOffset+1, max(p.contentWidth, 1))
}

// sliceLine returns the cells [offset, offset+width) of an ANSI-styled line.
func sliceLine(line string, offset, width int) string {
	if offset == 0 && ansi.StringWidth(line) <= width {
		return line
	}
	return ansi.Cut(line, offset, offset+width)
}

func contentWidth(lines []string) int {
	w := 0
	for _, line := range lines {
		w = max(w, lipgloss.Width(line))
	}
	return w
}
