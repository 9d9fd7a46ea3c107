package parser

import (
	"codeshape/internal/engine/model"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// NodeHandler reacts to one node kind. Children are always walked afterwards.
type NodeHandler func(ctx *ExtractionContext, node *sitter.Node)

type container struct {
	id      uintptr
	name    string
	isClass bool
}

// ExtractionContext carries the per-call state of one traversal: the source,
// the record being filled, and the explicit ancestor and container stacks.
type ExtractionContext struct {
	Source []byte
	Record *model.Record

	ancestors  []*sitter.Node
	containers []container
}

func NewExtractionContext(source []byte, rec *model.Record) *ExtractionContext {
	return &ExtractionContext{Source: source, Record: rec}
}

// Parent returns the nearest ancestor of the node being handled.
func (c *ExtractionContext) Parent() *sitter.Node {
	if len(c.ancestors) == 0 {
		return nil
	}
	return c.ancestors[len(c.ancestors)-1]
}

func (c *ExtractionContext) pushContainer(node *sitter.Node, name string, isClass bool) {
	c.containers = append(c.containers, container{id: node.Id(), name: name, isClass: isClass})
}

func (c *ExtractionContext) popContainer(node *sitter.Node) {
	n := len(c.containers)
	if n > 0 && c.containers[n-1].id == node.Id() {
		c.containers = c.containers[:n-1]
	}
}

// currentContainer is the innermost enclosing class or object literal.
func (c *ExtractionContext) currentContainer() (container, bool) {
	if len(c.containers) == 0 {
		return container{}, false
	}
	return c.containers[len(c.containers)-1], true
}

// ExtractorEngine walks the syntax tree in pre-order and dispatches handlers
// through a table indexed by nodeKind.
type ExtractorEngine struct {
	handlers [numNodeKinds]NodeHandler
}

func NewExtractorEngine(handlers [numNodeKinds]NodeHandler) *ExtractorEngine {
	return &ExtractorEngine{handlers: handlers}
}

func (e *ExtractorEngine) Walk(ctx *ExtractionContext, node *sitter.Node) {
	if node == nil {
		return
	}

	// Keyword tokens share names with some node kinds ("class", "import").
	if node.IsNamed() {
		if handler := e.handlers[kindOf(node.Kind())]; handler != nil {
			handler(ctx, node)
		}
	}

	ctx.ancestors = append(ctx.ancestors, node)
	for i := uint(0); i < node.ChildCount(); i++ {
		e.Walk(ctx, node.Child(i))
	}
	ctx.ancestors = ctx.ancestors[:len(ctx.ancestors)-1]
	ctx.popContainer(node)
}

func (c *ExtractionContext) Text(node *sitter.Node) string {
	return nodeText(node, c.Source)
}

func (c *ExtractionContext) Line(node *sitter.Node) int {
	if node == nil {
		return 0
	}
	return int(node.StartPosition().Row) + 1
}

// Span converts node bounds to a model span; nil for a nil node.
func (c *ExtractionContext) Span(node *sitter.Node) *model.Span {
	if node == nil {
		return nil
	}
	start, end := node.StartPosition(), node.EndPosition()
	return &model.Span{
		Start: model.Position{Line: int(start.Row) + 1, Column: int(start.Column) + 1, Offset: int(node.StartByte())},
		End:   model.Position{Line: int(end.Row) + 1, Column: int(end.Column) + 1, Offset: int(node.EndByte())},
	}
}
