// # internal/engine/parser/loader.go
package parser

import (
	"fmt"
	"sort"

	"codeshape/internal/engine/language"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// GrammarLoader owns the compiled grammars for every JavaScript-family
// dialect. Grammars are immutable once loaded and shared by all parsers.
type GrammarLoader struct {
	languages map[language.Dialect]*sitter.Language
}

func NewGrammarLoader() *GrammarLoader {
	return &GrammarLoader{
		languages: map[language.Dialect]*sitter.Language{
			language.DialectJavaScript: sitter.NewLanguage(tree_sitter_javascript.Language()),
			language.DialectTypeScript: sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
			language.DialectTSX:        sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
		},
	}
}

// Language returns the grammar for a dialect.
func (gl *GrammarLoader) Language(d language.Dialect) (*sitter.Language, error) {
	lang, ok := gl.languages[d]
	if !ok {
		return nil, fmt.Errorf("no grammar loaded for dialect %q", d)
	}
	return lang, nil
}

// Dialects lists the loaded dialects in sorted order.
func (gl *GrammarLoader) Dialects() []language.Dialect {
	out := make([]language.Dialect, 0, len(gl.languages))
	for d := range gl.languages {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
