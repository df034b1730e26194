package tree

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obegron/ipscope/internal/jsonvalue"
)

func mustParse(t *testing.T, s string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(s))
	require.NoError(t, err)
	return v
}

func plain(rows []Row) string {
	return ansi.Strip(strings.Join(Lines(rows, -1), "\n"))
}

func TestRender_Scenario(t *testing.T) {
	v := mustParse(t, `{"a": 1, "b": [true, null], "c": {}}`)

	expected := strings.Join([]string{
		`▾ {3}`,
		`│ "a": 1`,
		`│ "b": ▾ [2]`,
		`│ │ 0: true`,
		`│ │ 1: null`,
		`│ "c": {}`,
	}, "\n")
	assert.Equal(t, expected, ansi.Strip(Render(v)))

	rows := NewState().Flatten(v)
	require.Len(t, rows, 6)
	assert.True(t, rows[0].Toggle)
	assert.True(t, rows[0].Expanded)
	assert.True(t, rows[2].Toggle)
	assert.True(t, rows[2].Expanded)
	assert.False(t, rows[5].Toggle, "empty object has no toggle")
}

func TestRender_Scalars(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`null`, "null"},
		{`true`, "true"},
		{`false`, "false"},
		{`42`, "42"},
		{`1.5e-7`, "1.5e-7"},
		{`"hello"`, `"hello"`},
		{`"multi\nline"`, `"multi line"`},
		{`[]`, "[]"},
		{`{}`, "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v := mustParse(t, tt.input)
			rows := NewState().Flatten(v)
			require.Len(t, rows, 1)
			assert.False(t, rows[0].Toggle)
			assert.Equal(t, tt.want, ansi.Strip(Render(v)))
		})
	}
}

func TestDefaultExpansionByDepth(t *testing.T) {
	v := mustParse(t, `[[[[[1]]]]]`)

	s := NewState()
	s.SetAll(v, true)
	for _, r := range s.Flatten(v) {
		if r.Toggle {
			fresh := NewState()
			assert.Equal(t, r.Depth < 2, fresh.IsExpanded(r.Path, r.Depth), "depth %d", r.Depth)
		}
	}

	rows := NewState().Flatten(v)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].Expanded)
	assert.True(t, rows[1].Expanded)
	assert.False(t, rows[2].Expanded)
}

func TestEmptyContainersNeverToggle(t *testing.T) {
	v := mustParse(t, `{"x": {"y": {"z": {"e": [], "o": {}}}}}`)
	s := NewState()
	s.SetAll(v, true)

	var empties int
	for _, r := range s.Flatten(v) {
		if r.Value.Len() == 0 && !r.Value.IsScalar() {
			empties++
			assert.False(t, r.Toggle)
			assert.False(t, s.Visited(r.Path))
		}
	}
	assert.Equal(t, 2, empties)
}

func TestToggle_DeepScenario(t *testing.T) {
	v := mustParse(t, `{"l1": {"l2": {"l3": {"l4": 1}}}}`)
	s := NewState()

	rows := s.Flatten(v)
	require.Len(t, rows, 3)
	l2 := rows[2]
	assert.Equal(t, 2, l2.Depth)
	assert.False(t, l2.Expanded)

	s.Toggle(l2.Path, l2.Depth)
	rows = s.Flatten(v)
	require.Len(t, rows, 4)
	assert.Equal(t, "l3", rows[3].Label)
	assert.Equal(t, 3, rows[3].Depth)
	assert.False(t, rows[3].Expanded)

	assert.True(t, s.IsExpanded(RootPath, 0))
	assert.True(t, s.IsExpanded(RootPath.Key("l1"), 1))
}

func TestToggle_PositionNotValue(t *testing.T) {
	v := mustParse(t, `{"a": {"k": [1]}, "b": {"k": [1]}}`)
	s := NewState()

	s.Toggle(RootPath.Key("a"), 1)
	assert.False(t, s.IsExpanded(RootPath.Key("a"), 1))
	assert.True(t, s.IsExpanded(RootPath.Key("b"), 1))

	rows := s.Flatten(v)
	var labels []string
	for _, r := range rows {
		labels = append(labels, r.Label)
	}
	assert.Equal(t, []string{"", "a", "b", "k"}, labels)
}

func TestToggle_PairIsIdempotent(t *testing.T) {
	v := mustParse(t, `{"malicious":{"ip":"45.141.215.95","score":{"inbound":85,"outbound":72},"issues":{"is_tor":false}},"suspicious":{"list":[[1,2],{"x":null}]}}`)
	s := NewState()
	before := plain(s.Flatten(v))

	all := NewState()
	all.SetAll(v, true)
	for _, r := range all.Flatten(v) {
		if !r.Toggle {
			continue
		}
		s.Toggle(r.Path, r.Depth)
		s.Toggle(r.Path, r.Depth)
	}
	assert.Equal(t, before, plain(s.Flatten(v)))
}

func TestPathsAreUnique(t *testing.T) {
	v := mustParse(t, `{"a.b": [1], "a": {"b": [1]}, "[0]": 1}`)
	s := NewState()
	s.SetAll(v, true)

	seen := map[Path]bool{}
	for _, r := range s.Flatten(v) {
		assert.False(t, seen[r.Path], "duplicate path %s", r.Path)
		seen[r.Path] = true
	}
}

func TestFlatten_TruncatesBeyondMaxDepth(t *testing.T) {
	v := jsonvalue.NewNumber(1)
	for i := 0; i < jsonvalue.MaxDepth+2; i++ {
		v = jsonvalue.NewArray(v)
	}
	s := NewState()
	s.SetAll(v, true)
	rows := s.Flatten(v)

	last := rows[len(rows)-1]
	assert.True(t, last.Truncated)
	assert.Equal(t, "…", ansi.Strip(Token(last)))
}

func TestCopyText(t *testing.T) {
	assert.Equal(t, "{}", CopyText(jsonvalue.NewObject()))

	v := mustParse(t, `{"z": 1, "a": [true]}`)
	text := CopyText(v)
	assert.Equal(t, "{\n  \"z\": 1,\n  \"a\": [\n    true\n  ]\n}", text)

	back := mustParse(t, text)
	assert.Equal(t, v, back)
}
