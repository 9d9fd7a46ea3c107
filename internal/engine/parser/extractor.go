package parser

import (
	"fmt"

	"codeshape/internal/engine/language"
	"codeshape/internal/engine/model"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Extractor turns a JavaScript-family syntax tree into a normalized record.
type Extractor struct {
	engine *ExtractorEngine
}

func NewExtractor() *Extractor {
	return &Extractor{engine: NewExtractorEngine(defaultHandlers())}
}

// Extract walks tree once and fills every listing. The record is freshly
// allocated; a panic in a handler is converted into an error and no record
// is returned.
func (x *Extractor) Extract(tree *Tree, file string) (rec *model.Record, err error) {
	if tree == nil || tree.tree == nil {
		return nil, fmt.Errorf("extract %s: nil syntax tree", file)
	}
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = fmt.Errorf("extract %s: %v", file, r)
		}
	}()

	rec = model.NewRecord(file, string(language.JavaScript))
	rec.Dialect = string(tree.Dialect)
	ctx := NewExtractionContext(tree.Source, rec)
	x.engine.Walk(ctx, tree.Root())
	return rec, nil
}

func defaultHandlers() [numNodeKinds]NodeHandler {
	return [numNodeKinds]NodeHandler{
		kindIgnored:                      ignoreNode,
		kindFunctionDeclaration:          handleFunction,
		kindGeneratorFunctionDeclaration: handleFunction,
		kindFunctionExpression:           handleFunction,
		kindGeneratorFunction:            handleFunction,
		kindArrowFunction:                handleFunction,
		kindMethodDefinition:             handleMethod,
		kindClassDeclaration:             handleClass,
		kindAbstractClassDeclaration:     handleClass,
		kindClassExpression:              handleClass,
		kindObject:                       handleObject,
		kindVariableDeclaration:          handleVariables,
		kindLexicalDeclaration:           handleVariables,
		kindForIn:                        handleForIn,
		kindImportStatement:              handleImport,
		kindExportStatement:              handleExport,
		kindCallExpression:               handleCall,
		kindMemberExpression:             handleMember,
		kindSubscriptExpression:          handleMember,
	}
}

func ignoreNode(*ExtractionContext, *sitter.Node) {}

// Functions

func handleFunction(c *ExtractionContext, node *sitter.Node) {
	entry := model.FunctionEntry{
		Parameters:  parameters(node, c.Source),
		IsAsync:     hasToken(node, "async"),
		IsGenerator: hasToken(node, "*"),
		Line:        c.Line(node),
		Span:        c.Span(node),
		BodyAnchor:  bodyAnchor(node),
	}

	name := c.Text(node.ChildByFieldName("name"))
	switch node.Kind() {
	case nodeFunctionDeclaration, nodeGeneratorFunctionDeclaration:
		entry.Kind = model.FunctionDeclaration
		if name == "" {
			name = model.AnonymousFunction
		}
	case nodeArrowFunction:
		entry.Kind = model.FunctionArrow
		name = c.bindingName(node, model.AnonymousArrow)
	default:
		entry.Kind = model.FunctionExpression
		if c.isExportDefaultPayload(node) {
			entry.Kind = model.FunctionDeclaration
		}
		if name == "" {
			name = c.bindingName(node, model.AnonymousFunction)
		}
	}
	entry.Name = name
	c.Record.Functions = append(c.Record.Functions, entry)
}

func handleMethod(c *ExtractionContext, node *sitter.Node) {
	name := PropertyKeyName(node.ChildByFieldName("name"), c.Source)
	owner, ok := c.currentContainer()
	declaring := model.UnknownClass
	if ok {
		declaring = owner.name
	}
	c.Record.Functions = append(c.Record.Functions, model.FunctionEntry{
		Kind:           model.FunctionMethod,
		Name:           name,
		Parameters:     parameters(node, c.Source),
		IsAsync:        hasToken(node, "async"),
		IsGenerator:    hasToken(node, "*"),
		DeclaringClass: declaring,
		MethodKind:     methodKind(node, name, ok && owner.isClass),
		IsStatic:       hasToken(node, "static"),
		Line:           c.Line(node),
		Span:           c.Span(node),
		BodyAnchor:     bodyAnchor(node),
	})
}

func parameters(node *sitter.Node, source []byte) []string {
	out := make([]string, 0)
	if params := node.ChildByFieldName("parameters"); params != nil {
		for _, p := range namedChildren(params) {
			out = append(out, RenderParameter(p, source))
		}
		return out
	}
	if p := node.ChildByFieldName("parameter"); p != nil {
		out = append(out, RenderParameter(p, source))
	}
	return out
}

func methodKind(node *sitter.Node, name string, inClass bool) string {
	switch {
	case hasToken(node, "get"):
		return model.MethodGetter
	case hasToken(node, "set"):
		return model.MethodSetter
	case inClass && name == "constructor":
		return model.MethodConstructor
	}
	return model.MethodPlain
}

// bodyAnchor is the offset of the block body, or of the callable itself when
// the body is an expression.
func bodyAnchor(node *sitter.Node) *int {
	if body := node.ChildByFieldName("body"); body != nil && body.Kind() == nodeStatementBlock {
		return model.IntPtr(int(body.StartByte()))
	}
	return model.IntPtr(int(node.StartByte()))
}

// Classes and object literals

func handleClass(c *ExtractionContext, node *sitter.Node) {
	entry := model.ClassEntry{
		Kind:    model.ClassDeclaration,
		Methods: []model.MethodSummary{},
		Fields:  []model.FieldEntry{},
		Line:    c.Line(node),
		Span:    c.Span(node),
	}

	name := c.Text(node.ChildByFieldName("name"))
	if node.Kind() == nodeClass {
		if !c.isExportDefaultPayload(node) {
			entry.Kind = model.ClassExpression
		}
		if name == "" {
			name = c.bindingName(node, model.AnonymousClass)
		}
	} else if name == "" {
		name = model.AnonymousClass
	}
	entry.Name = name

	if heritage := childOfKind(node, nodeClassHeritage); heritage != nil {
		entry.Superclass, entry.Interfaces = heritageOf(heritage, c.Source)
	}

	for _, member := range namedChildren(node.ChildByFieldName("body")) {
		switch member.Kind() {
		case nodeMethodDefinition:
			entry.Methods = append(entry.Methods, methodSummary(member, c.Source))
		case nodeFieldDefinition, nodePublicFieldDefinition:
			entry.Fields = append(entry.Fields, fieldEntry(member, c.Source))
		}
	}

	c.Record.Classes = append(c.Record.Classes, entry)
	c.pushContainer(node, name, true)
}

// heritageOf reads the superclass and implemented interfaces. The plain
// JavaScript grammar puts the superclass expression directly under
// class_heritage; TypeScript wraps it in extends_clause.
func heritageOf(heritage *sitter.Node, source []byte) (*string, []string) {
	var super *string
	var interfaces []string
	for _, child := range namedChildren(heritage) {
		switch child.Kind() {
		case nodeExtendsClause:
			if value := child.ChildByFieldName("value"); value != nil && super == nil {
				super = model.StringPtr(NodeName(value, source))
			}
		case nodeImplementsClause:
			for _, iface := range namedChildren(child) {
				interfaces = append(interfaces, nodeText(iface, source))
			}
		default:
			if super == nil {
				super = model.StringPtr(NodeName(child, source))
			}
		}
	}
	return super, interfaces
}

func methodSummary(member *sitter.Node, source []byte) model.MethodSummary {
	name := PropertyKeyName(member.ChildByFieldName("name"), source)
	return model.MethodSummary{
		Name:        name,
		MethodKind:  methodKind(member, name, true),
		IsStatic:    hasToken(member, "static"),
		Parameters:  parameters(member, source),
		IsAsync:     hasToken(member, "async"),
		IsGenerator: hasToken(member, "*"),
	}
}

func fieldEntry(member *sitter.Node, source []byte) model.FieldEntry {
	key := member.ChildByFieldName("property")
	if key == nil {
		key = member.ChildByFieldName("name")
	}
	field := model.FieldEntry{
		Name:     PropertyKeyName(key, source),
		IsStatic: hasToken(member, "static"),
	}
	if value := member.ChildByFieldName("value"); value != nil {
		field.Value = model.StringPtr(RenderValue(value, source))
	}
	return field
}

func handleObject(c *ExtractionContext, node *sitter.Node) {
	c.pushContainer(node, c.bindingName(node, model.AnonymousObject), false)
}

// Variables

func handleVariables(c *ExtractionContext, node *sitter.Node) {
	form := "var"
	if node.Kind() == nodeLexicalDeclaration {
		form = c.Text(node.ChildByFieldName("kind"))
		if form == "" && node.ChildCount() > 0 {
			form = c.Text(node.Child(0))
		}
	}
	for _, decl := range namedChildren(node) {
		if decl.Kind() != nodeVariableDeclarator {
			continue
		}
		entry := model.VariableEntry{
			DeclarationForm: form,
			Name:            RenderBindingName(decl.ChildByFieldName("name"), c.Source),
			Line:            c.Line(decl),
			Span:            c.Span(decl),
		}
		if value := decl.ChildByFieldName("value"); value != nil {
			entry.Value = model.StringPtr(RenderValue(value, c.Source))
		}
		c.Record.Variables = append(c.Record.Variables, entry)
	}
}

// handleForIn records `for (const x of xs)` heads. Heads without a keyword
// assign to existing bindings and are skipped.
func handleForIn(c *ExtractionContext, node *sitter.Node) {
	kind := node.ChildByFieldName("kind")
	left := node.ChildByFieldName("left")
	if kind == nil || left == nil {
		return
	}
	c.Record.Variables = append(c.Record.Variables, model.VariableEntry{
		DeclarationForm: c.Text(kind),
		Name:            RenderBindingName(left, c.Source),
		Line:            c.Line(left),
		Span:            c.Span(left),
	})
}

// Imports and exports

func handleImport(c *ExtractionContext, node *sitter.Node) {
	entry := model.ImportEntry{
		Kind:     model.ModuleImport,
		Bindings: []model.ImportBinding{},
		Line:     c.Line(node),
		Span:     c.Span(node),
	}

	source := node.ChildByFieldName("source")
	if clause := childOfKind(node, nodeImportRequireClause); clause != nil {
		entry.Kind = model.ModuleRequire
		if source == nil {
			source = clause.ChildByFieldName("source")
		}
		if source == nil {
			source = childOfKind(clause, nodeString)
		}
		if id := childOfKind(clause, nodeIdentifier); id != nil {
			entry.Bindings = append(entry.Bindings, model.ImportBinding{Form: model.BindingDefault, Local: c.Text(id)})
		}
	}
	entry.Source = stringValue(source, c.Source)

	if clause := childOfKind(node, nodeImportClause); clause != nil {
		entry.Bindings = append(entry.Bindings, importBindings(clause, c.Source)...)
	}

	c.Record.Imports = append(c.Record.Imports, entry)
	c.Record.Dependencies.Imports = append(c.Record.Dependencies.Imports, entry)
}

func importBindings(clause *sitter.Node, source []byte) []model.ImportBinding {
	var out []model.ImportBinding
	for _, child := range namedChildren(clause) {
		switch child.Kind() {
		case nodeIdentifier:
			out = append(out, model.ImportBinding{Form: model.BindingDefault, Local: nodeText(child, source)})
		case nodeNamespaceImport:
			if id := childOfKind(child, nodeIdentifier); id != nil {
				out = append(out, model.ImportBinding{Form: model.BindingNamespace, Local: nodeText(id, source)})
			}
		case nodeNamedImports:
			for _, spec := range namedChildren(child) {
				if spec.Kind() != nodeImportSpecifier {
					continue
				}
				imported := moduleExportName(spec.ChildByFieldName("name"), source)
				local := imported
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					local = moduleExportName(alias, source)
				}
				out = append(out, model.ImportBinding{Form: model.BindingNamed, Imported: imported, Local: local})
			}
		}
	}
	return out
}

func moduleExportName(node *sitter.Node, source []byte) string {
	if node != nil && node.Kind() == nodeString {
		return stringValue(node, source)
	}
	return nodeText(node, source)
}

func handleExport(c *ExtractionContext, node *sitter.Node) {
	entry := model.ExportEntry{Line: c.Line(node), Span: c.Span(node)}
	source := node.ChildByFieldName("source")
	if source != nil {
		entry.Source = stringValue(source, c.Source)
	}
	declaration := node.ChildByFieldName("declaration")

	switch {
	case hasToken(node, "default"):
		payload := declaration
		if payload == nil {
			payload = node.ChildByFieldName("value")
		}
		entry.Form = model.ExportDefault
		entry.Name = exportDefaultName(payload, c.Source)
	case childOfKind(node, nodeNamespaceExport) != nil:
		ns := childOfKind(node, nodeNamespaceExport)
		entry.Form = model.ExportNamed
		entry.Bindings = []model.ExportBinding{{Local: "*", Exported: moduleExportName(firstNamedChild(ns), c.Source)}}
	case hasToken(node, "*"):
		entry.Form = model.ExportReexportAll
	case childOfKind(node, nodeExportClause) != nil:
		entry.Form = model.ExportNamed
		entry.Bindings = exportSpecifiers(childOfKind(node, nodeExportClause), c.Source)
	case declaration != nil:
		entry.Form = model.ExportNamed
		for _, name := range declaredNames(declaration, c.Source) {
			entry.Bindings = append(entry.Bindings, model.ExportBinding{Local: name, Exported: name})
		}
	default:
		// `export = x` and `export as namespace X` have no ES module shape.
		return
	}
	c.Record.Exports = append(c.Record.Exports, entry)
}

func exportSpecifiers(clause *sitter.Node, source []byte) []model.ExportBinding {
	out := make([]model.ExportBinding, 0)
	for _, spec := range namedChildren(clause) {
		if spec.Kind() != nodeExportSpecifier {
			continue
		}
		local := moduleExportName(spec.ChildByFieldName("name"), source)
		exported := local
		if alias := spec.ChildByFieldName("alias"); alias != nil {
			exported = moduleExportName(alias, source)
		}
		out = append(out, model.ExportBinding{Local: local, Exported: exported})
	}
	return out
}

// exportDefaultName picks the display name of an `export default` payload.
func exportDefaultName(node *sitter.Node, source []byte) string {
	node = unwrap(node)
	if node == nil {
		return model.Unknown
	}
	switch node.Kind() {
	case nodeIdentifier:
		return nodeText(node, source)
	case nodeAssignmentExpression:
		return NodeName(node.ChildByFieldName("left"), source)
	}
	if name := node.ChildByFieldName("name"); name != nil {
		return nodeText(name, source)
	}
	switch node.Kind() {
	case nodeFunctionDeclaration, nodeGeneratorFunctionDeclaration, nodeFunctionExpression,
		nodeGeneratorFunction, nodeClassDeclaration, nodeClass:
		return model.AnonymousFunction
	}
	return model.Unknown
}

// declaredNames lists the names introduced by an exported declaration.
func declaredNames(decl *sitter.Node, source []byte) []string {
	switch decl.Kind() {
	case nodeLexicalDeclaration, nodeVariableDeclaration:
		var names []string
		for _, d := range namedChildren(decl) {
			if d.Kind() == nodeVariableDeclarator {
				names = append(names, RenderBindingName(d.ChildByFieldName("name"), source))
			}
		}
		return names
	}
	if name := decl.ChildByFieldName("name"); name != nil {
		return []string{nodeText(name, source)}
	}
	return nil
}

// Dependencies

func handleCall(c *ExtractionContext, node *sitter.Node) {
	callee := node.ChildByFieldName("function")
	args := node.ChildByFieldName("arguments")
	if callee == nil {
		return
	}

	switch {
	case callee.Kind() == nodeIdentifier && c.Text(callee) == "require":
		c.addModuleReference(node, args, model.ModuleRequire)
	case callee.Kind() == nodeImport:
		c.addModuleReference(node, args, model.ModuleImport)
	case callee.Kind() == nodeMemberExpression || callee.Kind() == nodeSubscriptExpression:
		// Method calls surface as property references.
	case args == nil || args.Kind() != "arguments":
		// Tagged templates are not calls.
	default:
		c.Record.Dependencies.CallReferences = append(c.Record.Dependencies.CallReferences, model.CallReference{
			Name: NodeName(callee, c.Source),
			Line: c.Line(node),
			Span: c.Span(node),
		})
	}
}

// addModuleReference records require("x") / import("x"). Calls whose first
// argument is not a string literal are neither module nor call references.
func (c *ExtractionContext) addModuleReference(node, args *sitter.Node, kind string) {
	first := firstNamedChild(args)
	if first == nil || first.Kind() != nodeString {
		return
	}
	c.Record.Dependencies.ModuleReferences = append(c.Record.Dependencies.ModuleReferences, model.ModuleReference{
		Module: stringValue(first, c.Source),
		Kind:   kind,
		Line:   c.Line(node),
		Span:   c.Span(node),
	})
}

func handleMember(c *ExtractionContext, node *sitter.Node) {
	ref := model.PropertyReference{
		Object: NodeName(node.ChildByFieldName("object"), c.Source),
		Line:   c.Line(node),
		Span:   c.Span(node),
	}
	if node.Kind() == nodeSubscriptExpression {
		ref.Property = NodeName(node.ChildByFieldName("index"), c.Source)
		ref.Computed = true
	} else {
		ref.Property = NodeName(node.ChildByFieldName("property"), c.Source)
	}
	c.Record.Dependencies.PropertyReferences = append(c.Record.Dependencies.PropertyReferences, ref)
}
