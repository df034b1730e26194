package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/obegron/ipscope/internal/export"
	"github.com/obegron/ipscope/internal/report"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f8fafc")).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	logoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#f8fafc")).Background(lipgloss.Color("#2563eb")).Padding(0, 1)
	sectionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ca9ee6")).Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f8fafc"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171"))
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#60a5fa"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(0, 1)

	alertStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#ef4444")).
			Foreground(lipgloss.Color("#f87171")).
			PaddingLeft(1)

	buttonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f8fafc")).Background(lipgloss.Color("#2563eb")).Padding(0, 2)

	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8")).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f8fafc")).Background(lipgloss.Color("#334155")).Bold(true).Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c6d0f5")).
			Background(lipgloss.Color("#414559")).
			Padding(0, 1)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#60a5fa")).
			Padding(1, 2)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#60a5fa")).Bold(true)
)

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var body string
	switch {
	case m.exporting:
		used := lipgloss.Height(m.headerView()) + lipgloss.Height(m.footerView())
		body = lipgloss.Place(m.width, max(m.height-used, 1), lipgloss.Center, lipgloss.Center, m.exportView())
	case m.state == stateResults:
		body = lipgloss.JoinVertical(lipgloss.Left, m.cardsView(), m.tabsView(), m.tabBodyView())
	default:
		body = m.formView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.headerView(), body, m.footerView())
}

func (m Model) headerView() string {
	return logoStyle.Render("⛨") + " " + titleStyle.Render("IP Threat Intelligence Dashboard") + "\n" +
		subtitleStyle.Render("Advanced IP reputation and security analysis")
}

func (m Model) formView() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Analysis Configuration") + "\n")
	b.WriteString(mutedStyle.Render("Enter your API credentials and target IP address for analysis") + "\n\n")

	b.WriteString(labelStyle.Render("API Key") + "\n")
	b.WriteString(m.inputs[fieldAPIKey].View() + "\n\n")
	b.WriteString(labelStyle.Render("Target IP Address") + "\n")
	b.WriteString(m.inputs[fieldIP].View() + "\n\n")

	if m.state == stateLoading {
		b.WriteString(m.spinner.View() + " Analyzing...\n\n")
		label := "Analysis Progress"
		pct := fmt.Sprintf("%d%%", m.percent)
		gap := max(m.progress.Width-lipgloss.Width(label)-lipgloss.Width(pct), 1)
		b.WriteString(mutedStyle.Render(label+strings.Repeat(" ", gap)+pct) + "\n")
		b.WriteString(m.progress.ViewAs(float64(m.percent)/100) + "\n")
	} else {
		b.WriteString(buttonStyle.Render("Analyze IP"))
		if m.result != nil {
			b.WriteString("  " + mutedStyle.Render("esc: back to results"))
		}
		b.WriteString("\n")
	}

	if m.err != "" {
		b.WriteString("\n" + alertStyle.Render("⚠ "+m.err) + "\n")
	}

	return panelStyle.Width(max(m.width-2, 20)).Render(strings.TrimRight(b.String(), "\n"))
}

// cardsView renders the overview cards. A card is shown only for a report
// that carries a score object.
func (m Model) cardsView() string {
	if m.result == nil {
		return ""
	}
	var cards []string
	if score, ok := report.InboundScore(m.result.Malicious); ok {
		cards = append(cards, report.Card("Malicious Risk Score", score, true))
	}
	if score, ok := report.InboundScore(m.result.Suspicious); ok {
		cards = append(cards, report.Card("Suspicious Activity Score", score, true))
	}
	if len(cards) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m Model) tabsView() string {
	tabs := make([]string, 0, tabCount)
	for t := tabMalicious; t < tabCount; t++ {
		label := fmt.Sprintf("%d %s", t+1, t)
		if t == m.tab {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) tabBodyView() string {
	if m.tab == tabRaw {
		return m.tree.View()
	}
	return m.pane.View()
}

func (m Model) exportView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("⤓ Export Analysis Results") + "\n")
	b.WriteString(mutedStyle.Render("Choose the format for exporting your IP analysis results") + "\n\n")
	for i, f := range export.Formats {
		if i == m.exportIdx {
			b.WriteString(selectedStyle.Render("(•) "+f.Description()) + "\n")
		} else {
			b.WriteString(labelStyle.Render("( ) "+f.Description()) + "\n")
		}
	}
	b.WriteString("\n" + mutedStyle.Render(export.Filename(m.target, export.Formats[m.exportIdx], m.now())))
	return dialogStyle.Render(b.String())
}

func (m Model) footerView() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.statusView(), m.help.View(m.helpKeys()))
}

func (m Model) statusView() string {
	var parts []string
	switch m.state {
	case stateForm:
		parts = append(parts, "Ready")
	case stateLoading:
		parts = append(parts, fmt.Sprintf("Analyzing %s", m.target))
	case stateResults:
		parts = append(parts, "Target: "+m.target)
		if m.tab != tabRaw {
			parts = append(parts, m.pane.Position())
		}
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	text := ansi.Truncate(strings.Join(parts, " | "), max(m.width-2, 1), "…")
	return statusBarStyle.Width(max(m.width, 1)).Render(text)
}
