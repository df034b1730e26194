package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obegron/ipscope/internal/jsonvalue"
)

func nestedValue(t *testing.T, s string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(s))
	require.NoError(t, err)
	return v
}

func TestNested_ObjectKeepsKeyOrder(t *testing.T) {
	out, err := Nested(nestedValue(t, `{"zeta": 1, "alpha": "a", "mid": null}`), NestedOptions{Format: FormatTable})
	require.NoError(t, err)

	assert.Less(t, strings.Index(out, "zeta"), strings.Index(out, "alpha"))
	assert.Less(t, strings.Index(out, "alpha"), strings.Index(out, "mid"))
	assert.Contains(t, out, "null")
}

func TestNested_NestedContainers(t *testing.T) {
	out, err := Nested(nestedValue(t, `{"score": {"inbound": 85}, "tags": ["a", "b"]}`), NestedOptions{Format: FormatTable})
	require.NoError(t, err)

	assert.Contains(t, out, "inbound")
	assert.Contains(t, out, "85")
	assert.Contains(t, out, "a")
	assert.Greater(t, strings.Count(out, "\n"), 6, "nested tables span several lines")
}

func TestNested_ArrayOfObjectsUsesHeader(t *testing.T) {
	out, err := Nested(nestedValue(t, `[{"port": 22, "proto": "tcp"}, {"port": 443, "proto": "tcp"}]`), NestedOptions{Format: FormatTable})
	require.NoError(t, err)

	upper := strings.ToUpper(out)
	assert.Contains(t, upper, "PORT")
	assert.Contains(t, upper, "PROTO")
	assert.Contains(t, out, "443")
}

func TestNested_ScalarArrayHasKeyHeader(t *testing.T) {
	out, err := Nested(nestedValue(t, `["tor", "vpn"]`), NestedOptions{Format: FormatTable})
	require.NoError(t, err)

	assert.Contains(t, strings.ToUpper(out), "[KEY]")
	assert.Less(t, strings.Index(strings.ToUpper(out), "[KEY]"), strings.Index(out, "tor"))
	assert.Contains(t, out, "vpn")
}

func TestNested_Details(t *testing.T) {
	out, err := Nested(nestedValue(t, `[1, 2, 3]`), NestedOptions{Format: FormatTable, Details: true})
	require.NoError(t, err)
	assert.Contains(t, out, "[-] array, 3 items")

	out, err = Nested(nestedValue(t, `{"a": 1}`), NestedOptions{Format: FormatTable, Details: true})
	require.NoError(t, err)
	assert.Contains(t, out, "[-] object, 1 properties")
}

func TestNested_ScalarRoot(t *testing.T) {
	out, err := Nested(nestedValue(t, `"hello"`), NestedOptions{Format: FormatTable})
	require.NoError(t, err)
	assert.Contains(t, out, "value")
	assert.Contains(t, out, "hello")
}

func TestNested_HTML(t *testing.T) {
	out, err := Nested(nestedValue(t, `{"name": "<b>x</b>", "ok": true, "n": {"k": 1}}`), NestedOptions{Format: FormatHTML, Color: true})
	require.NoError(t, err)

	assert.Contains(t, out, `class="ipscope-table"`)
	assert.Contains(t, out, `<span class="ipscope-key">name</span>`)
	assert.Contains(t, out, `<span class="ipscope-string">&lt;b&gt;x&lt;/b&gt;</span>`)
	assert.Contains(t, out, `<span class="ipscope-bool">true</span>`)
	assert.Contains(t, out, `<span class="ipscope-nested">`)
	assert.NotContains(t, out, "\x1b[", "HTML output is never coloured")
}

func TestTruncateValue(t *testing.T) {
	assert.Equal(t, "a b c", truncateValue("a\n b\r\n  c", 80))
	assert.Equal(t, "abcdefg...", truncateValue(strings.Repeat("abcdefghij", 3), 10))
	assert.Equal(t, "ééé...", truncateValue(strings.Repeat("é", 20), 6))
}
