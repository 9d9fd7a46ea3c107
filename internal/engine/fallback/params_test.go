package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTopLevel(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a, b", []string{"a", " b"}},
		{"Map<K, V> m, int x", []string{"Map<K, V> m", " int x"}},
		{`sep=", ", x`, []string{`sep=", "`, " x"}},
		{"f(a, b), [c, d], {e, f}", []string{"f(a, b)", " [c, d]", " {e, f}"}},
		{"fn: a -> b, c", []string{"fn: a -> b", " c"}},
		{`s = "a\", b", t`, []string{`s = "a\", b"`, " t"}},
		{"", []string{""}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SplitTopLevel(tc.in, ','), tc.in)
	}
}

func TestParameterNames_Styles(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		style paramStyle
		want  []string
	}{
		{"go", "a, b int, opts ...Option", paramNameFirst, []string{"a", "b", "opts"}},
		{"c pointer", "const char *src, size_t n", paramNameLast, []string{"src", "n"}},
		{"c void", "void", paramNameLast, []string{}},
		{"java array", "String[] args, int... rest", paramNameLast, []string{"args", "rest"}},
		{"cpp default", "int n = 3, const std::map<int, int>& m", paramNameLast, []string{"n", "m"}},
		{"rust", "&mut self, path: &Path, f: impl Fn(u8, u8) -> u8", paramBeforeColon, []string{"self", "path", "f"}},
		{"swift labels", "_ x: Int, with y: Int = 2", paramBeforeColon, []string{"x", "y"}},
		{"vb", "ByVal a As Integer, Optional ByRef b As String = \"\", ParamArray c() As Object", paramBeforeAs, []string{"a", "b", "c"}},
		{"php", "array $items = [], ?User &$user, ...$rest", paramDollar, []string{"$items", "$user", "$rest"}},
		{"python", "self, x: int = 1, *, key=None, /", paramStripDefault, []string{"self", "x", "key"}},
		{"ruby", "name, age = 1, *rest, key:, &blk", paramStripDefault, []string{"name", "age", "*rest", "key", "&blk"}},
		{"blank", "  ", paramNameFirst, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parameterNames(tc.raw, tc.style, defaultQuotes))
		})
	}
}

func TestRenderValue(t *testing.T) {
	cases := map[string]string{
		`"text"`:     "text",
		`'x'`:        "x",
		"42":         "42",
		"0x1F":       "0x1F",
		"3.5e-2":     "3.5e-2",
		"10L":        "10L",
		"true":       "true",
		"nil":        "nil",
		"[1, 2]":     "[Array]",
		"{a: 1}":     "{Object}",
		"f(x)":       "(unknown)",
		"a + b;":     "(unknown)",
		"":           "(unknown)",
		"other.name": "(unknown)",
	}
	for raw, want := range cases {
		assert.Equal(t, want, renderValue(raw), raw)
	}
}

func TestBaseList(t *testing.T) {
	assert.Equal(t, []string{"Shape", "Named"}, baseList("public Shape, private virtual Named"))
	assert.Equal(t, []string{"Entity", "Greeter", "Ser"}, baseList("Entity(x) with Greeter with Ser"))
	assert.Equal(t, []string{"Clone", "Send"}, baseList("Clone + Send"))
	assert.Equal(t, []string{"Base"}, baseList("Base, metaclass=ABCMeta"))
	assert.Empty(t, baseList(""))
}

func TestOwnerName(t *testing.T) {
	assert.Equal(t, "Server", ownerName("s *Server"))
	assert.Equal(t, "List", ownerName("l *List[T]"))
	assert.Equal(t, "Map", ownerName("Map<K, V>"))
	assert.Equal(t, "", ownerName("  "))
}
