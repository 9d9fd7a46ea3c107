package parser

import (
	"strings"

	"codeshape/internal/engine/model"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if end > uint(len(source)) || start > end {
		return ""
	}
	return string(source[start:end])
}

// namedChildren returns the named children of node without comments.
func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Kind() == nodeComment {
			continue
		}
		out = append(out, child)
	}
	return out
}

func firstNamedChild(node *sitter.Node) *sitter.Node {
	children := namedChildren(node)
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

func childOfKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

// hasToken reports whether node has an anonymous child token such as
// "async", "static" or "*".
func hasToken(node *sitter.Node, token string) bool {
	if node == nil {
		return false
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && !child.IsNamed() && child.Kind() == token {
			return true
		}
	}
	return false
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.Id() == b.Id()
}

func unwrap(node *sitter.Node) *sitter.Node {
	for node != nil && wrapperKinds[node.Kind()] {
		inner := node.ChildByFieldName("expression")
		if inner == nil {
			inner = firstNamedChild(node)
		}
		if inner == nil {
			return node
		}
		node = inner
	}
	return node
}

func stringValue(node *sitter.Node, source []byte) string {
	text := nodeText(node, source)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

// RenderParameter renders one formal parameter for display: identifiers by
// name, defaults by their target, rest elements with a "..." prefix and
// destructuring patterns recursively.
func RenderParameter(node *sitter.Node, source []byte) string {
	if node == nil {
		return model.Unknown
	}
	switch node.Kind() {
	case nodeIdentifier, nodeShorthandPattern, nodeThis:
		return nodeText(node, source)
	case nodeAssignmentPattern, nodeObjectAssignmentPattern:
		return RenderParameter(node.ChildByFieldName("left"), source)
	case nodeRestPattern:
		return "..." + RenderParameter(firstNamedChild(node), source)
	case nodeRequiredParameter, nodeOptionalParameter:
		return RenderParameter(node.ChildByFieldName("pattern"), source)
	case nodeObjectPattern:
		parts := make([]string, 0)
		for _, child := range namedChildren(node) {
			parts = append(parts, RenderParameter(child, source))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case nodePairPattern:
		return PropertyKeyName(node.ChildByFieldName("key"), source) + ": " +
			RenderParameter(node.ChildByFieldName("value"), source)
	case nodeArrayPattern:
		return "[" + strings.Join(arrayElements(node, source, RenderParameter), ", ") + "]"
	case nodeMemberExpression, nodeSubscriptExpression:
		return NodeName(node, source)
	}
	return model.Unknown
}

// RenderBindingName renders the target of a variable declarator. Object
// patterns list their keys, array patterns their elements.
func RenderBindingName(node *sitter.Node, source []byte) string {
	if node == nil {
		return model.Unknown
	}
	switch node.Kind() {
	case nodeIdentifier, nodeShorthandPattern:
		return nodeText(node, source)
	case nodeAssignmentPattern, nodeObjectAssignmentPattern:
		return RenderBindingName(node.ChildByFieldName("left"), source)
	case nodeRestPattern:
		return "..." + RenderBindingName(firstNamedChild(node), source)
	case nodeObjectPattern:
		parts := make([]string, 0)
		for _, child := range namedChildren(node) {
			if child.Kind() == nodePairPattern {
				parts = append(parts, PropertyKeyName(child.ChildByFieldName("key"), source))
				continue
			}
			parts = append(parts, RenderBindingName(child, source))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case nodeArrayPattern:
		return "[" + strings.Join(arrayElements(node, source, RenderBindingName), ", ") + "]"
	}
	return model.Unknown
}

// arrayElements renders array pattern elements in order. Holes become empty
// strings; a single trailing comma does not add one.
func arrayElements(node *sitter.Node, source []byte, render func(*sitter.Node, []byte) string) []string {
	out := make([]string, 0)
	current, have := "", false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch {
		case child.Kind() == ",":
			out = append(out, current)
			current, have = "", false
		case child.IsNamed() && child.Kind() != nodeComment:
			current, have = render(child, source), true
		}
	}
	if have {
		out = append(out, current)
	}
	return out
}

// RenderValue is the shallow display form of an initializer.
func RenderValue(node *sitter.Node, source []byte) string {
	node = unwrap(node)
	if node == nil {
		return model.Unknown
	}
	switch node.Kind() {
	case nodeString:
		return stringValue(node, source)
	case nodeNumber, nodeTrue, nodeFalse, nodeIdentifier, nodeUndefined:
		return nodeText(node, source)
	case nodeNull:
		return "null"
	case nodeArray:
		return "[Array]"
	case nodeObject:
		return "{Object}"
	}
	return model.Unknown
}

// NodeName resolves an expression to a dotted display name: "a.b",
// "factory()", or the unknown marker.
func NodeName(node *sitter.Node, source []byte) string {
	if node == nil {
		return model.Unknown
	}
	switch node.Kind() {
	case nodeIdentifier, nodePropertyIdentifier, nodePrivatePropertyIdentifier,
		nodeShorthandPropertyIdentifier, nodeTypeIdentifier, nodeThis, nodeSuper, nodeImport:
		return nodeText(node, source)
	case nodeString:
		return stringValue(node, source)
	case nodeMemberExpression:
		return NodeName(node.ChildByFieldName("object"), source) + "." +
			NodeName(node.ChildByFieldName("property"), source)
	case nodeSubscriptExpression:
		return NodeName(node.ChildByFieldName("object"), source) + "." +
			NodeName(node.ChildByFieldName("index"), source)
	case nodeCallExpression:
		return NodeName(node.ChildByFieldName("function"), source) + "()"
	case nodeParenthesized, nodeNonNullExpression:
		if inner := unwrap(node); !sameNode(inner, node) {
			return NodeName(inner, source)
		}
	}
	return model.Unknown
}

// PropertyKeyName renders an object or class member key.
func PropertyKeyName(node *sitter.Node, source []byte) string {
	if node == nil {
		return model.Unknown
	}
	switch node.Kind() {
	case nodePropertyIdentifier, nodePrivatePropertyIdentifier, nodeIdentifier, nodeNumber:
		return nodeText(node, source)
	case nodeString:
		return stringValue(node, source)
	case nodeComputedPropertyName:
		return "[" + NodeName(firstNamedChild(node), source) + "]"
	}
	return model.Unknown
}
