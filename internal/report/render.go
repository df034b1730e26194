package report

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/obegron/ipscope/internal/jsonvalue"
)

// Format selects the table renderer.
type Format string

const (
	FormatTable Format = "table"
	FormatHTML  Format = "html"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ca9ee6"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#cbd5e1"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f8fafc")).Bold(true)
	yesStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171"))
	noStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))

	badgeStyles = map[Variant]lipgloss.Style{
		VariantDefault:     lipgloss.NewStyle().Foreground(lipgloss.Color("#0f172a")).Background(lipgloss.Color("#e2e8f0")).Padding(0, 1),
		VariantSecondary:   lipgloss.NewStyle().Foreground(lipgloss.Color("#f8fafc")).Background(lipgloss.Color("#475569")).Padding(0, 1),
		VariantDestructive: lipgloss.NewStyle().Foreground(lipgloss.Color("#f8fafc")).Background(lipgloss.Color("#dc2626")).Padding(0, 1),
	}

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(0, 2)
)

// Badge renders a level as a coloured pill, or as "[Name]" in plain mode.
func Badge(l Level, color bool) string {
	if !color {
		return "[" + l.Name + "]"
	}
	return badgeStyles[l.Variant].Render(l.Name)
}

// DisplayValue renders the value column of an indicator.
func DisplayValue(i Indicator, color bool) string {
	switch i.Kind {
	case KindScore:
		score := Score(i.Value)
		text := jsonvalue.FormatNumber(score)
		if color {
			text = valueStyle.Render(text)
		}
		return text + " " + Badge(ScoreBadge(score), color)
	case KindBoolean:
		if IsFlagged(i.Value) {
			if color {
				return yesStyle.Render("✗ Yes")
			}
			return "Yes"
		}
		if color {
			return noStyle.Render("✓ No")
		}
		return "No"
	}
	return i.Value.String()
}

func createTable(buf *bytes.Buffer, format Format) *tablewriter.Table {
	switch format {
	case FormatHTML:
		cfg := renderer.HTMLConfig{
			HeaderClass:   "ipscope-header",
			TableClass:    "ipscope-table",
			EscapeContent: true,
		}
		return tablewriter.NewTable(buf, tablewriter.WithRenderer(renderer.NewHTML(cfg)))
	default:
		return tablewriter.NewTable(buf,
			tablewriter.WithHeaderAlignment(tw.AlignLeft),
			tablewriter.WithRowAlignment(tw.AlignLeft),
			tablewriter.WithRendition(tw.Rendition{
				Borders: tw.Border{Left: tw.On, Right: tw.On, Top: tw.On, Bottom: tw.On},
				Settings: tw.Settings{
					Separators: tw.Separators{BetweenColumns: tw.On, BetweenRows: tw.Off},
				},
			}),
		)
	}
}

// IndicatorTable renders the indicator rows of one report. An empty report
// renders the "No indicators available" notice instead of a table.
func IndicatorTable(title string, report jsonvalue.Value, format Format, color bool) (string, error) {
	rows := Indicators(report)
	if len(rows) == 0 {
		if format == FormatHTML {
			return "<p>No indicators available</p>\n", nil
		}
		return "No indicators available\n", nil
	}

	useColor := color && format == FormatTable

	var buf bytes.Buffer
	table := createTable(&buf, format)
	if title != "" {
		table.Caption(tw.Caption{Text: title})
	}
	table.Header([]string{"Indicator", "Value"})
	for _, r := range rows {
		name := r.Name
		if useColor {
			name = labelStyle.Render(name)
		}
		if err := table.Append([]string{name, DisplayValue(r, useColor)}); err != nil {
			return "", err
		}
	}
	if err := table.Render(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// barCells is the filled length of a bar, clamped to [0, width]. +Inf fills
// the bar; NaN and non-positive values leave it empty.
func barCells(value, scale float64, width int) int {
	switch {
	case math.IsInf(value, 1):
		return width
	case math.IsNaN(value) || value <= 0:
		return 0
	}
	return min(max(int(math.Round(value/scale*float64(width))), 0), width)
}

// Chart renders bars horizontally, scaled so that 100 fills width cells.
func Chart(bars []Bar, width int, color bool) string {
	if len(bars) == 0 {
		return "No data available for visualization"
	}
	if width < 10 {
		width = 10
	}

	scale := 100.0
	nameWidth := 0
	for _, b := range bars {
		if !math.IsInf(b.Value, 0) && !math.IsNaN(b.Value) {
			scale = math.Max(scale, b.Value)
		}
		nameWidth = max(nameWidth, lipgloss.Width(b.Name))
	}

	var lines []string
	for _, b := range bars {
		cells := barCells(b.Value, scale, width)
		bar := strings.Repeat("█", cells) + strings.Repeat("░", width-cells)
		name := fmt.Sprintf("%-*s", nameWidth, b.Name)
		value := jsonvalue.FormatNumber(b.Value)
		if color {
			bar = lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color)).Render(strings.Repeat("█", cells)) +
				mutedStyle.Render(strings.Repeat("░", width-cells))
			name = labelStyle.Render(name)
			value = mutedStyle.Render(value)
		}
		lines = append(lines, name+" "+bar+" "+value)
	}
	return strings.Join(lines, "\n")
}

// Card renders one overview card: title, headline score and risk level.
func Card(title string, score float64, color bool) string {
	level := RiskLevel(score)
	body := title + "\n" + jsonvalue.FormatNumber(score) + "  " + Badge(level, color)
	if !color {
		return body
	}
	return cardStyle.Render(headerStyle.Render(title) + "\n" +
		valueStyle.Render(jsonvalue.FormatNumber(score)) + "  " + Badge(level, true))
}
