package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// bindingSite climbs from node through wrapper expressions and returns the
// outermost wrapper together with the ancestor that binds it.
func (c *ExtractionContext) bindingSite(node *sitter.Node) (site, parent *sitter.Node) {
	site = node
	i := len(c.ancestors) - 1
	for i >= 0 && wrapperKinds[c.ancestors[i].Kind()] {
		site = c.ancestors[i]
		i--
	}
	if i < 0 {
		return site, nil
	}
	return site, c.ancestors[i]
}

// bindingName names an anonymous callable, class or object literal from the
// place its value is stored. Checked in order: variable declarator,
// assignment target, object key or class field; otherwise the marker.
func (c *ExtractionContext) bindingName(node *sitter.Node, anonymous string) string {
	site, parent := c.bindingSite(node)
	if parent == nil {
		return anonymous
	}
	switch parent.Kind() {
	case nodeVariableDeclarator:
		if sameNode(parent.ChildByFieldName("value"), site) {
			if name := parent.ChildByFieldName("name"); name != nil {
				return RenderBindingName(name, c.Source)
			}
		}
	case nodeAssignmentExpression, nodeAugmentedAssignment:
		if sameNode(parent.ChildByFieldName("right"), site) {
			return NodeName(parent.ChildByFieldName("left"), c.Source)
		}
	case nodePair:
		if sameNode(parent.ChildByFieldName("value"), site) {
			return PropertyKeyName(parent.ChildByFieldName("key"), c.Source)
		}
	case nodeFieldDefinition:
		if sameNode(parent.ChildByFieldName("value"), site) {
			return PropertyKeyName(parent.ChildByFieldName("property"), c.Source)
		}
	case nodePublicFieldDefinition:
		if sameNode(parent.ChildByFieldName("value"), site) {
			return PropertyKeyName(parent.ChildByFieldName("name"), c.Source)
		}
	}
	return anonymous
}

// isExportDefaultPayload reports whether node is the value of an
// `export default` statement.
func (c *ExtractionContext) isExportDefaultPayload(node *sitter.Node) bool {
	_, parent := c.bindingSite(node)
	return parent != nil && parent.Kind() == nodeExportStatement && hasToken(parent, "default")
}
