package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/obegron/ipscope/internal/jsonvalue"
)

// DefaultMaxValueWidth caps scalar cells in nested tables.
const DefaultMaxValueWidth = 80

var (
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#c6d0f5"))
	stringStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6d189"))
	boolStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ea999c"))
	numberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
)

// HTMLStyle styles the tables produced with FormatHTML.
const HTMLStyle = `<style>
.ipscope-table {
	border-collapse: collapse;
	background-color: #303446;
	border: 1px solid #414559;
	margin: 2px;
}
.ipscope-table th {
	text-align: center;
	color: #ca9ee6;
	font-weight: bold;
}
.ipscope-table td {
	border: 1px solid #414559;
	padding: 8px;
	text-align: left;
}
.ipscope-key { color: #c6d0f5; }
.ipscope-string { color: #a6d189; }
.ipscope-bool { color: #ea999c; }
.ipscope-number { color: #ffffff; }
.ipscope-nested { color: #c6d0f5; }
</style>`

// NestedOptions controls Nested.
type NestedOptions struct {
	Format Format
	// Details adds a caption with the container kind and size.
	Details  bool
	MaxWidth int
	Color    bool
}

// Nested renders any value as tables, nesting a table inside the cell of
// every array or object member. Object keys keep their document order.
func Nested(v jsonvalue.Value, opts NestedOptions) (string, error) {
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = DefaultMaxValueWidth
	}
	opts.Color = opts.Color && opts.Format != FormatHTML

	var buf bytes.Buffer
	table := createNestedTable(&buf, opts.Format)
	if err := appendValue(table, v, opts); err != nil {
		return "", err
	}
	if err := table.Render(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func createNestedTable(buf *bytes.Buffer, format Format) *tablewriter.Table {
	if format == FormatHTML {
		// cells carry their own <span> markup and are escaped beforehand
		cfg := renderer.HTMLConfig{
			HeaderClass:   "ipscope-header",
			TableClass:    "ipscope-table",
			EscapeContent: false,
		}
		return tablewriter.NewTable(buf, tablewriter.WithRenderer(renderer.NewHTML(cfg)))
	}
	return tablewriter.NewTable(buf,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{Left: tw.On, Right: tw.On, Top: tw.On, Bottom: tw.On},
			Settings: tw.Settings{
				Separators: tw.Separators{BetweenColumns: tw.On, BetweenRows: tw.On},
			},
		}),
	)
}

func appendValue(table *tablewriter.Table, v jsonvalue.Value, opts NestedOptions) error {
	switch v.Kind() {
	case jsonvalue.Array:
		items := v.Items()
		if opts.Details {
			table.Caption(tw.Caption{Text: fmt.Sprintf("[-] array, %d items", len(items))})
		}
		if len(items) == 0 {
			return nil
		}

		headers := []string{"[key]"}
		if items[0].Kind() == jsonvalue.Object {
			headers = append(headers, items[0].Keys()...)
		}
		table.Header(headers)

		for i, item := range items {
			index := fmt.Sprintf("%d", i)
			if item.Kind() != jsonvalue.Object || len(headers) == 1 {
				cell, err := formatCell(item, opts)
				if err != nil {
					return err
				}
				if err := appendRow(table, index, cell, item, opts); err != nil {
					return err
				}
				continue
			}

			row := []string{styleKey(index, opts)}
			for _, k := range headers[1:] {
				val, _ := item.Get(k)
				cell, err := formatCell(val, opts)
				if err != nil {
					return err
				}
				row = append(row, styleValue(cell, val, opts))
			}
			if err := table.Append(row); err != nil {
				return err
			}
		}

	case jsonvalue.Object:
		members := v.Members()
		if opts.Details {
			table.Caption(tw.Caption{Text: fmt.Sprintf("[-] object, %d properties", len(members))})
		}
		for _, m := range members {
			cell, err := formatCell(m.Value, opts)
			if err != nil {
				return err
			}
			if err := appendRow(table, m.Key, cell, m.Value, opts); err != nil {
				return err
			}
		}

	default:
		value := truncateValue(scalarText(v), opts.MaxWidth)
		if opts.Format == FormatHTML {
			value = html.EscapeString(value)
		}
		return table.Append([]string{"value", value})
	}
	return nil
}

func formatCell(v jsonvalue.Value, opts NestedOptions) (string, error) {
	if !v.IsScalar() {
		nested, err := Nested(v, opts)
		if err != nil {
			return "", err
		}
		if opts.Format == FormatHTML {
			// keep the nested table inside one cell
			nested = strings.ReplaceAll(nested, "\n", "")
		}
		return nested, nil
	}

	value := scalarText(v)
	if opts.Format == FormatHTML {
		value = html.EscapeString(value)
	}
	return truncateValue(value, opts.MaxWidth), nil
}

// scalarText shows null as "null" rather than the empty string.
func scalarText(v jsonvalue.Value) string {
	if v.IsNull() {
		return "null"
	}
	return v.String()
}

func appendRow(table *tablewriter.Table, key, value string, original jsonvalue.Value, opts NestedOptions) error {
	return table.Append([]string{styleKey(key, opts), styleValue(value, original, opts)})
}

func styleKey(key string, opts NestedOptions) string {
	switch {
	case opts.Color:
		return keyStyle.Render(key)
	case opts.Format == FormatHTML:
		return fmt.Sprintf(`<span class="ipscope-key">%s</span>`, html.EscapeString(key))
	}
	return key
}

func styleValue(value string, original jsonvalue.Value, opts NestedOptions) string {
	switch {
	case opts.Color && original.IsScalar():
		return kindStyle(original.Kind()).Render(value)
	case opts.Format == FormatHTML:
		return fmt.Sprintf(`<span class="%s">%s</span>`, htmlClass(original.Kind()), value)
	}
	return value
}

// truncateValue folds a value onto one line and shortens it to maxWidth
// runes.
func truncateValue(s string, maxWidth int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= maxWidth {
		return s
	}
	return string(runes[:max(maxWidth-3, 0)]) + "..."
}

func htmlClass(k jsonvalue.Kind) string {
	switch k {
	case jsonvalue.Bool:
		return "ipscope-bool"
	case jsonvalue.String:
		return "ipscope-string"
	case jsonvalue.Number:
		return "ipscope-number"
	case jsonvalue.Array, jsonvalue.Object:
		return "ipscope-nested"
	}
	return "ipscope-key"
}

func kindStyle(k jsonvalue.Kind) lipgloss.Style {
	switch k {
	case jsonvalue.Bool:
		return boolStyle
	case jsonvalue.String:
		return stringStyle
	case jsonvalue.Number:
		return numberStyle
	}
	return keyStyle
}
