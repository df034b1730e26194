package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/obegron/ipscope/internal/jsonvalue"
	"github.com/obegron/ipscope/internal/report"
)

// CSV renders Category,Indicator,Value rows with every cell quoted.
func CSV(data jsonvalue.Value) string {
	rows := [][]string{{"Category", "Indicator", "Value"}}

	for _, s := range sections {
		sec, ok := data.Get(s.key)
		if !ok || !sec.Truthy() {
			continue
		}
		if score, ok := sec.Get("score"); ok && score.Truthy() {
			in, inOK := score.Get("inbound")
			out, outOK := score.Get("outbound")
			rows = append(rows,
				[]string{s.title, "Inbound Score", orZero(in, inOK)},
				[]string{s.title, "Outbound Score", orZero(out, outOK)},
			)
		}
		if issues, ok := sec.Get("issues"); ok && issues.Truthy() {
			for _, e := range report.Entries(issues) {
				rows = append(rows, []string{s.title, e.Key, e.Value.String()})
			}
		}
	}

	lines := make([]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
		}
		lines[i] = strings.Join(cells, ",")
	}
	return strings.Join(lines, "\n")
}

// Text renders the human readable threat report.
func Text(data jsonvalue.Value, ip string, now time.Time) string {
	lines := []string{
		"IP THREAT INTELLIGENCE REPORT",
		"================================",
		"Target IP: " + ip,
		"Generated: " + now.Local().Format("1/2/2006, 3:04:05 PM"),
		"",
	}

	for i, s := range sections {
		sec, ok := data.Get(s.key)
		if !ok || !sec.Truthy() {
			continue
		}
		heading := strings.ToUpper(s.title) + " ANALYSIS"
		lines = append(lines, heading, strings.Repeat("-", len(heading)))

		if score, ok := sec.Get("score"); ok && score.Truthy() {
			in, inOK := score.Get("inbound")
			out, outOK := score.Get("outbound")
			lines = append(lines,
				"Inbound Risk Score: "+orZero(in, inOK),
				"Outbound Risk Score: "+orZero(out, outOK),
			)
		}
		if issues, ok := sec.Get("issues"); ok && issues.Truthy() {
			lines = append(lines, "Issues:")
			for _, e := range report.Entries(issues) {
				lines = append(lines, fmt.Sprintf("  %s: %s", e.Key, e.Value.String()))
			}
		}
		if i < len(sections)-1 {
			lines = append(lines, "")
		}
	}

	return strings.Join(lines, "\n")
}

const pageStyle = `<style>
body { background-color: #0f172a; color: #f8fafc; font-family: sans-serif; }
</style>`

// HTML renders both indicator tables as a standalone page.
func HTML(data jsonvalue.Value, ip string, now time.Time) (string, error) {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>IP Threat Intelligence Report - %s</title>\n", html.EscapeString(ip))
	b.WriteString(pageStyle + "\n" + report.HTMLStyle)
	b.WriteString("\n</head>\n<body>\n<h1>IP Threat Intelligence Report</h1>\n")
	fmt.Fprintf(&b, "<p>Target IP: %s<br>Generated: %s</p>\n",
		html.EscapeString(ip), html.EscapeString(now.UTC().Format(time.RFC3339)))

	for _, s := range sections {
		sec, ok := data.Get(s.key)
		if !ok || !sec.Truthy() {
			continue
		}
		fmt.Fprintf(&b, "<h2>%s Analysis</h2>\n", s.title)
		table, err := report.IndicatorTable(s.title+" Indicators", sec, report.FormatHTML, false)
		if err != nil {
			return "", err
		}
		b.WriteString(table)
	}

	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}
