package parser

import (
	"errors"
	"strings"
	"testing"

	"codeshape/internal/engine/language"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBuilder = NewBuilder(nil)

func TestBuilder_BuildsEveryDialect(t *testing.T) {
	cases := map[language.Dialect]string{
		language.DialectJavaScript: "const el = <div className=\"x\">{a?.b ?? 1}</div>;\n",
		language.DialectTypeScript: "const n: number = 1;\ninterface P { x: string }\n",
		language.DialectTSX:        "const el = <span>{(x as number) + 1}</span>;\n",
	}
	for dialect, src := range cases {
		tree, err := testBuilder.Build([]byte(src), "in", dialect)
		require.NoError(t, err, "dialect %s", dialect)
		assert.Equal(t, "program", tree.Root().Kind())
		assert.Equal(t, dialect, tree.Dialect)
		tree.Close()
	}
}

func TestBuilder_SyntaxErrorIsParseError(t *testing.T) {
	src := "function ok() {}\nfunction broken( {\n"
	tree, err := testBuilder.Build([]byte(src), "broken.js", language.DialectJavaScript)
	require.Error(t, err)
	assert.Nil(t, tree)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "broken.js", perr.Path)
	assert.GreaterOrEqual(t, perr.Line, 2)
	assert.GreaterOrEqual(t, perr.Column, 1)
	assert.True(t, strings.HasPrefix(err.Error(), "broken.js: "))
}

func TestBuilder_TypeScriptRejectedByJavaScriptGrammar(t *testing.T) {
	src := "function f(a: number): string { return '' }\n"
	_, err := testBuilder.Build([]byte(src), "f.js", language.DialectJavaScript)
	require.Error(t, err)

	tree, err := testBuilder.Build([]byte(src), "f.ts", language.DialectTypeScript)
	require.NoError(t, err)
	tree.Close()
}

func TestBuilder_UnknownDialect(t *testing.T) {
	_, err := testBuilder.Build([]byte("x"), "x", language.Dialect("coffee"))
	require.Error(t, err)
	var perr *ParseError
	assert.False(t, errors.As(err, &perr))
}

func TestTree_CloseIsIdempotent(t *testing.T) {
	tree, err := testBuilder.Build([]byte("let a = 1;"), "a.js", language.DialectJavaScript)
	require.NoError(t, err)
	tree.Close()
	tree.Close()
	var nilTree *Tree
	nilTree.Close()
}

func TestSnippet(t *testing.T) {
	src := []byte("abc\ndef")
	assert.Equal(t, "abc", snippet(src, 0, 7))
	assert.Equal(t, "", snippet(src, 10, 12))
	long := []byte(strings.Repeat("x", 100))
	assert.Len(t, snippet(long, 0, 100), snippetLimit)
}

func TestBuilder_PoolStatsAfterBuild(t *testing.T) {
	b := NewBuilder(nil)
	tree, err := b.Build([]byte("let a = 1;\n"), "a.ts", language.DialectTypeScript)
	require.NoError(t, err)
	tree.Close()

	stats := b.PoolStats()
	require.Len(t, stats, 3)
	for _, st := range stats {
		assert.Zero(t, st.Active, "dialect %s", st.Dialect)
		if st.Dialect == language.DialectTypeScript {
			assert.Equal(t, 1, st.Created)
			assert.Equal(t, 1, st.Idle)
		} else {
			assert.Zero(t, st.Created, "dialect %s", st.Dialect)
		}
	}
}
