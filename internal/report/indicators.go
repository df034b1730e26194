// Package report turns a Criminal IP report into indicator rows, risk
// levels and chart bars, and renders them for the terminal and HTML.
package report

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/obegron/ipscope/internal/jsonvalue"
)

// Kind says how an indicator value is displayed.
type Kind uint8

const (
	KindScore Kind = iota
	KindBoolean
	KindText
)

// Indicator is one row of the indicator table.
type Indicator struct {
	Name  string
	Value jsonvalue.Value
	Kind  Kind
}

// IssueLabel turns an issue key such as "is_malware_host" into "Malware Host".
func IssueLabel(key string) string {
	label := strings.Replace(key, "is_", "", 1)
	label = strings.ReplaceAll(label, "_", " ")

	upper := cases.Upper(language.English)
	words := strings.Split(label, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(w)
		words[i] = upper.String(w[:size]) + w[size:]
	}
	return strings.Join(words, " ")
}

// Entries lists key/value pairs the way Object.entries does for objects and
// arrays.
func Entries(v jsonvalue.Value) []jsonvalue.Member {
	switch v.Kind() {
	case jsonvalue.Object:
		return v.Members()
	case jsonvalue.Array:
		out := make([]jsonvalue.Member, v.Len())
		for i, item := range v.Items() {
			out[i] = jsonvalue.Member{Key: strconv.Itoa(i), Value: item}
		}
		return out
	}
	return nil
}

// Indicators lists the rows shown for one report: scores, issues, country
// and city, in that order.
func Indicators(report jsonvalue.Value) []Indicator {
	var rows []Indicator

	if score, ok := report.Get("score"); ok && score.Truthy() {
		if in, ok := score.Get("inbound"); ok {
			rows = append(rows, Indicator{Name: "Inbound Risk Score", Value: in, Kind: KindScore})
		}
		if out, ok := score.Get("outbound"); ok {
			rows = append(rows, Indicator{Name: "Outbound Risk Score", Value: out, Kind: KindScore})
		}
	}

	if issues, ok := report.Get("issues"); ok && issues.Truthy() {
		for _, e := range Entries(issues) {
			rows = append(rows, Indicator{Name: IssueLabel(e.Key), Value: e.Value, Kind: KindBoolean})
		}
	}

	if country, ok := report.Get("country"); ok && country.Truthy() {
		rows = append(rows, Indicator{Name: "Country", Value: country, Kind: KindText})
	}
	if city, ok := report.Get("city"); ok && city.Truthy() {
		rows = append(rows, Indicator{Name: "City", Value: city, Kind: KindText})
	}

	return rows
}

// Score coerces v with Number(v) || 0.
func Score(v jsonvalue.Value) float64 {
	f := v.ToNumber()
	if math.IsNaN(f) {
		return 0
	}
	return f
}

// IsFlagged reports whether an issue value is exactly true.
func IsFlagged(v jsonvalue.Value) bool {
	b, ok := v.Bool()
	return ok && b
}

// Bar is one bar of the risk chart.
type Bar struct {
	Name  string
	Value float64
	Color string
}

const (
	colorInbound  = "#ef4444"
	colorOutbound = "#f97316"
	colorFlagged  = "#dc2626"
	colorClear    = "#16a34a"
)

// Bars lists chart bars: inbound and outbound scores, then 100 for each
// flagged issue and 0 for each clear one.
func Bars(report jsonvalue.Value) []Bar {
	var bars []Bar

	if score, ok := report.Get("score"); ok && score.Truthy() {
		if in, ok := score.Get("inbound"); ok {
			bars = append(bars, Bar{Name: "Inbound Risk", Value: Score(in), Color: colorInbound})
		}
		if out, ok := score.Get("outbound"); ok {
			bars = append(bars, Bar{Name: "Outbound Risk", Value: Score(out), Color: colorOutbound})
		}
	}

	if issues, ok := report.Get("issues"); ok && issues.Truthy() {
		for _, e := range Entries(issues) {
			b := Bar{Name: IssueLabel(e.Key), Color: colorClear}
			if IsFlagged(e.Value) {
				b.Value = 100
				b.Color = colorFlagged
			}
			bars = append(bars, b)
		}
	}

	return bars
}

// InboundScore is the headline score of a report: score.inbound || 0.
func InboundScore(report jsonvalue.Value) (float64, bool) {
	score, ok := report.Get("score")
	if !ok || !score.Truthy() {
		return 0, false
	}
	in, _ := score.Get("inbound")
	return Score(in), true
}
