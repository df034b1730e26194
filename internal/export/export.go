// Package export writes an analysis as JSON, CSV, a plain-text report or an
// HTML page.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/obegron/ipscope/internal/errors"
	"github.com/obegron/ipscope/internal/jsonvalue"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatText Format = "txt"
	FormatHTML Format = "html"
)

// Formats lists the formats in the order the export dialog offers them.
var Formats = []Format{FormatJSON, FormatCSV, FormatText, FormatHTML}

// ParseFormat accepts a format name case-insensitively; "text" is an alias
// for "txt".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "txt", "text":
		return FormatText, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w %q: supported: json, csv, txt, html", errors.ErrUnknownFormat, s)
}

func (f Format) Extension() string { return string(f) }

func (f Format) MIMEType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	case FormatHTML:
		return "text/html"
	}
	return "text/plain"
}

// Description is the label shown in the export dialog.
func (f Format) Description() string {
	switch f {
	case FormatJSON:
		return "JSON Format - Complete structured data"
	case FormatCSV:
		return "CSV Format - Spreadsheet compatible"
	case FormatText:
		return "Text Report - Human readable summary"
	case FormatHTML:
		return "HTML Report - Indicator tables for sharing"
	}
	return string(f)
}

// Filename returns ip_analysis_<ip>_<date>.<ext> with dots in the IP
// replaced by underscores and the UTC date of now.
func Filename(ip string, f Format, now time.Time) string {
	return fmt.Sprintf("ip_analysis_%s_%s.%s",
		strings.ReplaceAll(ip, ".", "_"),
		now.UTC().Format("2006-01-02"),
		f.Extension())
}

// Render produces the export content for data, the combined value holding
// the malicious and suspicious reports.
func Render(f Format, ip string, data jsonvalue.Value, now time.Time) ([]byte, error) {
	switch f {
	case FormatJSON:
		return jsonvalue.MarshalIndent(data, "  "), nil
	case FormatCSV:
		return []byte(CSV(data)), nil
	case FormatText:
		return []byte(Text(data, ip, now)), nil
	case FormatHTML:
		page, err := HTML(data, ip, now)
		if err != nil {
			return nil, errors.NewExportError("cannot render HTML report", err)
		}
		return []byte(page), nil
	}
	return nil, fmt.Errorf("%w %q", errors.ErrUnknownFormat, f)
}

// Write renders data into dir under Filename and returns the written path.
func Write(dir string, f Format, ip string, data jsonvalue.Value, now time.Time) (string, error) {
	content, err := Render(f, ip, data, now)
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.NewExportError(fmt.Sprintf("cannot create directory %s", dir), err)
	}

	path := filepath.Join(dir, Filename(ip, f, now))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", errors.NewExportError(fmt.Sprintf("cannot create file %s", path), err)
	}
	return path, nil
}

type section struct {
	key   string
	title string
}

var sections = []section{
	{key: "malicious", title: "Malicious"},
	{key: "suspicious", title: "Suspicious"},
}

// orZero renders v || 0.
func orZero(v jsonvalue.Value, ok bool) string {
	if !ok || !v.Truthy() {
		return "0"
	}
	return v.String()
}
