package jsonvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obegron/ipscope/internal/errors"
)

func TestParseYAML(t *testing.T) {
	input := `
malicious:
  ip: 45.141.215.95
  score:
    inbound: 85
    outbound: 72.5
  issues:
    is_malware_host: true
    is_phishing: false
  tags: [a, b]
  note: ~
`
	v, err := ParseYAML([]byte(input))
	require.NoError(t, err)

	mal, ok := v.Get("malicious")
	require.True(t, ok)
	assert.Equal(t, []string{"ip", "score", "issues", "tags", "note"}, mal.Keys())

	ip, _ := mal.Get("ip")
	assert.Equal(t, String, ip.Kind())
	assert.Equal(t, "45.141.215.95", ip.String())

	out, _ := mal.Lookup("score", "outbound")
	f, ok := out.Float()
	assert.True(t, ok)
	assert.Equal(t, 72.5, f)

	flag, _ := mal.Lookup("issues", "is_malware_host")
	b, ok := flag.Bool()
	assert.True(t, ok)
	assert.True(t, b)

	note, _ := mal.Get("note")
	assert.True(t, note.IsNull())

	tags, _ := mal.Get("tags")
	assert.Equal(t, 2, tags.Len())
}

func TestParseYAML_Empty(t *testing.T) {
	_, err := ParseYAML([]byte(""))
	assert.ErrorIs(t, err, errors.ErrEmptyInput)
}

func TestParseAny(t *testing.T) {
	v, err := ParseAny([]byte(`{"a": 1}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v.Keys())

	v, err = ParseAny([]byte("b: 2\na: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, v.Keys())

	_, err = ParseAny([]byte("{unclosed: [\n"))
	assert.Error(t, err)
}

func TestSelect(t *testing.T) {
	v, err := Parse([]byte(`{"malicious":{"score":{"inbound":85}},"list":[{"x":1},{"x":2}]}`))
	require.NoError(t, err)

	got, err := Select(v, ".")
	require.NoError(t, err)
	assert.Equal(t, v, got)

	got, err = Select(v, ".malicious.score.inbound")
	require.NoError(t, err)
	assert.Equal(t, "85", got.String())

	got, err = Select(v, ".list.1.x")
	require.NoError(t, err)
	assert.Equal(t, "2", got.String())

	_, err = Select(v, ".malicious.nope")
	assert.ErrorIs(t, err, errors.ErrSelectorNotFound)

	_, err = Select(v, ".malicious.score.inbound.deeper")
	assert.ErrorIs(t, err, errors.ErrSelectorNotFound)

	_, err = Select(v, ".list.9")
	assert.ErrorIs(t, err, errors.ErrSelectorNotFound)
}

func TestParseYAML_Aliases(t *testing.T) {
	v, err := ParseYAML([]byte("base: &b {port: 22}\ncopy: *b\n"))
	require.NoError(t, err)

	port, ok := v.Lookup("copy", "port")
	require.True(t, ok)
	assert.Equal(t, "22", port.String())
}

func TestParseYAML_RejectsAliasExplosion(t *testing.T) {
	input := `
a: &a ["x", "x", "x", "x", "x", "x", "x", "x", "x", "x"]
b: &b [*a, *a, *a, *a, *a, *a, *a, *a, *a, *a]
c: &c [*b, *b, *b, *b, *b, *b, *b, *b, *b, *b]
d: &d [*c, *c, *c, *c, *c, *c, *c, *c, *c, *c]
e: &e [*d, *d, *d, *d, *d, *d, *d, *d, *d, *d]
f: &f [*e, *e, *e, *e, *e, *e, *e, *e, *e, *e]
g: &g [*f, *f, *f, *f, *f, *f, *f, *f, *f, *f]
`
	_, err := ParseYAML([]byte(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidJSON)
	assert.Contains(t, err.Error(), "excessive aliasing")

	_, err = ParseAny([]byte(input))
	assert.Error(t, err)
}
