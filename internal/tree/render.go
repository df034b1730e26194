package tree

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/obegron/ipscope/internal/jsonvalue"
)

var (
	nullStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	boolStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#60a5fa"))
	numberStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80"))
	stringStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#facc15"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#c084fc"))
	indexStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b"))
	badgeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	chevronStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#cbd5e1"))
	guideStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#334155"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#60a5fa")).Bold(true)
)

const (
	chevronOpen   = "▾"
	chevronClosed = "▸"
	guide         = "│ "
)

// Token renders the inline part of a row: the scalar, the empty literal or
// the toggle with its size badge.
func Token(r Row) string {
	if r.Truncated {
		return nullStyle.Render("…")
	}

	v := r.Value
	switch v.Kind() {
	case jsonvalue.Null:
		return nullStyle.Render("null")
	case jsonvalue.Bool:
		return boolStyle.Render(v.String())
	case jsonvalue.Number:
		return numberStyle.Render(v.String())
	case jsonvalue.String:
		return stringStyle.Render(`"` + singleLine(v.String()) + `"`)
	case jsonvalue.Array:
		if v.Len() == 0 {
			return nullStyle.Render("[]")
		}
		return chevron(r.Expanded) + " " + badgeStyle.Render(fmt.Sprintf("[%d]", v.Len()))
	case jsonvalue.Object:
		if v.Len() == 0 {
			return nullStyle.Render("{}")
		}
		return chevron(r.Expanded) + " " + badgeStyle.Render(fmt.Sprintf("{%d}", v.Len()))
	}
	return nullStyle.Render(v.String())
}

func chevron(expanded bool) string {
	if expanded {
		return chevronStyle.Render(chevronOpen)
	}
	return chevronStyle.Render(chevronClosed)
}

func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}

// Line renders a full row: indentation guides, label and token.
func Line(r Row) string {
	var b strings.Builder
	for i := 0; i < r.Depth; i++ {
		b.WriteString(guideStyle.Render(guide))
	}
	switch r.LabelKind {
	case LabelIndex:
		b.WriteString(indexStyle.Render(r.Label + ":"))
		b.WriteByte(' ')
	case LabelKey:
		b.WriteString(keyStyle.Render(`"` + r.Label + `":`))
		b.WriteByte(' ')
	}
	b.WriteString(Token(r))
	return b.String()
}

// Lines renders rows. When cursor is a valid row index that row gets a
// cursor marker in the gutter; pass -1 for no gutter.
func Lines(rows []Row, cursor int) []string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		line := Line(r)
		if cursor >= 0 {
			if i == cursor {
				line = cursorStyle.Render("› ") + line
			} else {
				line = "  " + line
			}
		}
		lines[i] = line
	}
	return lines
}

// Render draws v with the default expansion policy.
func Render(v jsonvalue.Value) string {
	return strings.Join(Lines(NewState().Flatten(v), -1), "\n")
}

// CopyText is the clipboard payload for v: JSON with two-space indentation.
func CopyText(v jsonvalue.Value) string {
	return string(jsonvalue.MarshalIndent(v, "  "))
}
