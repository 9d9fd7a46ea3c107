package parser

// nodeKind is the closed set of grammar node kinds the extractor reacts to.
// Everything else is kindOther and only walked through.
type nodeKind uint8

const (
	kindOther nodeKind = iota
	kindIgnored

	kindFunctionDeclaration
	kindGeneratorFunctionDeclaration
	kindFunctionExpression
	kindGeneratorFunction
	kindArrowFunction
	kindMethodDefinition

	kindClassDeclaration
	kindAbstractClassDeclaration
	kindClassExpression
	kindObject

	kindVariableDeclaration
	kindLexicalDeclaration
	kindForIn

	kindImportStatement
	kindExportStatement

	kindCallExpression
	kindMemberExpression
	kindSubscriptExpression

	numNodeKinds
)

// Grammar node kind names.
const (
	nodeProgram                      = "program"
	nodeComment                      = "comment"
	nodeFunctionDeclaration          = "function_declaration"
	nodeGeneratorFunctionDeclaration = "generator_function_declaration"
	nodeFunctionExpression           = "function_expression"
	nodeGeneratorFunction            = "generator_function"
	nodeArrowFunction                = "arrow_function"
	nodeMethodDefinition             = "method_definition"
	nodeClassDeclaration             = "class_declaration"
	nodeAbstractClassDeclaration     = "abstract_class_declaration"
	nodeClass                        = "class"
	nodeClassBody                    = "class_body"
	nodeClassHeritage                = "class_heritage"
	nodeExtendsClause                = "extends_clause"
	nodeImplementsClause             = "implements_clause"
	nodeFieldDefinition              = "field_definition"
	nodePublicFieldDefinition        = "public_field_definition"
	nodeObject                       = "object"
	nodePair                         = "pair"
	nodeArray                        = "array"
	nodeVariableDeclaration          = "variable_declaration"
	nodeLexicalDeclaration           = "lexical_declaration"
	nodeVariableDeclarator           = "variable_declarator"
	nodeForIn                        = "for_in_statement"
	nodeImportStatement              = "import_statement"
	nodeImportClause                 = "import_clause"
	nodeImportRequireClause          = "import_require_clause"
	nodeNamespaceImport              = "namespace_import"
	nodeNamedImports                 = "named_imports"
	nodeImportSpecifier              = "import_specifier"
	nodeExportStatement              = "export_statement"
	nodeExportClause                 = "export_clause"
	nodeExportSpecifier              = "export_specifier"
	nodeNamespaceExport              = "namespace_export"
	nodeCallExpression               = "call_expression"
	nodeMemberExpression             = "member_expression"
	nodeSubscriptExpression          = "subscript_expression"
	nodeAssignmentExpression         = "assignment_expression"
	nodeAugmentedAssignment          = "augmented_assignment_expression"
	nodeParenthesized                = "parenthesized_expression"
	nodeAsExpression                 = "as_expression"
	nodeSatisfiesExpression          = "satisfies_expression"
	nodeNonNullExpression            = "non_null_expression"
	nodeStatementBlock               = "statement_block"
	nodeFormalParameters             = "formal_parameters"
	nodeRequiredParameter            = "required_parameter"
	nodeOptionalParameter            = "optional_parameter"
	nodeIdentifier                   = "identifier"
	nodePropertyIdentifier           = "property_identifier"
	nodePrivatePropertyIdentifier    = "private_property_identifier"
	nodeShorthandPropertyIdentifier  = "shorthand_property_identifier"
	nodeShorthandPattern             = "shorthand_property_identifier_pattern"
	nodeTypeIdentifier               = "type_identifier"
	nodeComputedPropertyName         = "computed_property_name"
	nodeAssignmentPattern            = "assignment_pattern"
	nodeObjectAssignmentPattern      = "object_assignment_pattern"
	nodeRestPattern                  = "rest_pattern"
	nodeObjectPattern                = "object_pattern"
	nodeArrayPattern                 = "array_pattern"
	nodePairPattern                  = "pair_pattern"
	nodeString                       = "string"
	nodeNumber                       = "number"
	nodeTrue                         = "true"
	nodeFalse                        = "false"
	nodeNull                         = "null"
	nodeUndefined                    = "undefined"
	nodeThis                         = "this"
	nodeSuper                        = "super"
	nodeImport                       = "import"
	nodeInterfaceDeclaration         = "interface_declaration"
	nodeTypeAliasDeclaration         = "type_alias_declaration"
	nodeEnumDeclaration              = "enum_declaration"
	nodeFunctionSignature            = "function_signature"
	nodeMethodSignature              = "method_signature"
	nodeAbstractMethodSignature      = "abstract_method_signature"
	nodeNewExpression                = "new_expression"
)

var nodeKinds = map[string]nodeKind{
	nodeFunctionDeclaration:          kindFunctionDeclaration,
	nodeGeneratorFunctionDeclaration: kindGeneratorFunctionDeclaration,
	nodeFunctionExpression:           kindFunctionExpression,
	nodeGeneratorFunction:            kindGeneratorFunction,
	nodeArrowFunction:                kindArrowFunction,
	nodeMethodDefinition:             kindMethodDefinition,
	nodeClassDeclaration:             kindClassDeclaration,
	nodeAbstractClassDeclaration:     kindAbstractClassDeclaration,
	nodeClass:                        kindClassExpression,
	nodeObject:                       kindObject,
	nodeVariableDeclaration:          kindVariableDeclaration,
	nodeLexicalDeclaration:           kindLexicalDeclaration,
	nodeForIn:                        kindForIn,
	nodeImportStatement:              kindImportStatement,
	nodeExportStatement:              kindExportStatement,
	nodeCallExpression:               kindCallExpression,
	nodeMemberExpression:             kindMemberExpression,
	nodeSubscriptExpression:          kindSubscriptExpression,

	// Declarations without runtime bodies and constructor calls are
	// deliberately not reported.
	nodeInterfaceDeclaration:    kindIgnored,
	nodeTypeAliasDeclaration:    kindIgnored,
	nodeEnumDeclaration:         kindIgnored,
	nodeFunctionSignature:       kindIgnored,
	nodeMethodSignature:         kindIgnored,
	nodeAbstractMethodSignature: kindIgnored,
	nodeNewExpression:           kindIgnored,
}

// typescriptOnly names node kinds absent from the plain JavaScript grammar.
var typescriptOnly = map[string]bool{
	nodeAbstractClassDeclaration: true,
	nodeInterfaceDeclaration:     true,
	nodeTypeAliasDeclaration:     true,
	nodeEnumDeclaration:          true,
	nodeFunctionSignature:        true,
	nodeMethodSignature:          true,
	nodeAbstractMethodSignature:  true,
}

func kindOf(kind string) nodeKind {
	return nodeKinds[kind]
}

// wrapperKinds are expressions that do not change what a value is bound to.
var wrapperKinds = map[string]bool{
	nodeParenthesized:       true,
	nodeAsExpression:        true,
	nodeSatisfiesExpression: true,
	nodeNonNullExpression:   true,
}

// Field names read by the extractor; checked against every grammar in tests.
var usedFields = []string{
	"name", "parameters", "parameter", "body", "value", "left", "right",
	"key", "kind", "function", "arguments", "object", "property", "index",
	"source", "alias", "declaration",
}

var typescriptOnlyFields = []string{"pattern"}
