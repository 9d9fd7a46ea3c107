package parser

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"codeshape/internal/engine/language"
	"codeshape/internal/shared/observability"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ParseError is the diagnostic for source the grammar could not accept.
type ParseError struct {
	Path    string
	Message string
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// Tree is a syntax tree owned by a single analysis call.
type Tree struct {
	Path    string
	Dialect language.Dialect
	Source  []byte
	tree    *sitter.Tree
}

func (t *Tree) Root() *sitter.Node {
	return t.tree.RootNode()
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t != nil && t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// Builder turns source text into syntax trees using pooled parsers.
type Builder struct {
	pool *ParserPool
}

// NewBuilder keeps up to GOMAXPROCS idle parsers per dialect.
func NewBuilder(loader *GrammarLoader) *Builder {
	return &Builder{pool: NewParserPool(loader, runtime.GOMAXPROCS(0))}
}

// PoolStats reports the parser pool per dialect.
func (b *Builder) PoolStats() []PoolStats {
	return b.pool.Stats()
}

// Build parses the whole source in one pass. Any syntax error fails the
// build with a *ParseError; no partial tree is handed out.
func (b *Builder) Build(source []byte, path string, dialect language.Dialect) (*Tree, error) {
	start := time.Now()
	sp, err := b.pool.Get(dialect)
	if err != nil {
		return nil, err
	}
	raw := sp.Parse(source, nil)
	b.pool.Put(sp)
	observability.ParsingDuration.WithLabelValues(string(dialect)).Observe(time.Since(start).Seconds())

	if raw == nil {
		return nil, &ParseError{Path: path, Message: "parser produced no tree", Line: 1, Column: 1}
	}
	tree := &Tree{Path: path, Dialect: dialect, Source: source, tree: raw}

	root := tree.Root()
	if root.HasError() {
		perr := diagnose(root, source)
		perr.Path = path
		tree.Close()
		return nil, perr
	}
	return tree, nil
}

// diagnose reports the first ERROR or MISSING node in document order.
func diagnose(root *sitter.Node, source []byte) *ParseError {
	bad := firstErrorNode(root)
	if bad == nil {
		// HasError was set but nothing is marked; blame the root.
		bad = root
	}
	pos := bad.StartPosition()
	line, col := int(pos.Row)+1, int(pos.Column)+1

	if bad.IsMissing() {
		return &ParseError{
			Message: fmt.Sprintf("missing %s at line %d, column %d", bad.Kind(), line, col),
			Line:    line,
			Column:  col,
		}
	}
	msg := fmt.Sprintf("syntax error at line %d, column %d", line, col)
	if near := snippet(source, bad.StartByte(), bad.EndByte()); near != "" {
		msg += fmt.Sprintf(" near %q", near)
	}
	return &ParseError{Message: msg, Line: line, Column: col}
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

const snippetLimit = 32

func snippet(source []byte, start, end uint) string {
	if start >= uint(len(source)) {
		return ""
	}
	if end > uint(len(source)) {
		end = uint(len(source))
	}
	text := string(source[start:end])
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)
	if len(text) > snippetLimit {
		text = text[:snippetLimit]
	}
	return text
}
