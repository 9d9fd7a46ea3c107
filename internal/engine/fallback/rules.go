package fallback

import (
	"regexp"

	"codeshape/internal/engine/language"
	"codeshape/internal/engine/model"
)

// scopeStyle decides how class and function bodies are delimited.
type scopeStyle int

const (
	scopeNone scopeStyle = iota
	scopeBraces
	scopeIndent
)

type importRule struct {
	re     *regexp.Regexp
	kind   string
	expand importExpander // nil means singleImport
}

type variableRule struct {
	re   *regexp.Regexp
	form string // used when the pattern has no "form" group
}

// ruleSet is the pattern table for one language.
//
// Group names understood by the extractor:
//
//	functions: name, params, bare, mods, tail, ret, owner, singleton
//	classes:   name, kind, super, ifaces, bases
//	owners:    name
//	imports:   source, alias, list, names, block
//	variables: name, form, mods, value
type ruleSet struct {
	functions []*regexp.Regexp
	classes   []*regexp.Regexp
	owners    []*regexp.Regexp
	imports   []importRule
	variables []variableRule

	params         paramStyle
	quotes         string
	scope          scopeStyle
	rejectKeywords bool

	// headerTail marks function patterns that stop at the "(" opening the
	// parameter list. The list is closed by bracket matching and the text
	// after it must match headerTail.
	headerTail *regexp.Regexp
}

// Fragments shared by the C family, Java and C#.
const (
	typedVariable = `(?m)^[ \t]*(?P<mods>(?:(?:public|private|protected|internal|static|final|const|readonly|volatile|transient|extern|register|constexpr|inline|thread_local|mutable)[ \t]+)*)` +
		`(?P<form>[\w.:$]+(?:<[\w<>?,.:\[\] \t*&]*>)?(?:\[\])*)[ \t*&]+(?P<name>[A-Za-z_$][\w$]*)(?:\[[^\]\n]*\])?[ \t]*=[ \t]*(?P<value>[^=>;\n][^;\n]*);`

	cFunction = `(?m)^[ \t]*(?P<mods>(?:(?:static|inline|extern|virtual|explicit|constexpr|friend|__inline)[ \t]+)*)` +
		`(?:(?P<ret>(?:(?:const|unsigned|signed|struct|enum|union|long|short|volatile)[ \t]+)*[\w:]+(?:<[\w<>:,.*& \t]*>)?)[ \t*&]+)?` +
		`(?:(?P<owner>[A-Za-z_]\w*(?:<[^>\n]*>)?)::)?(?P<name>~?[A-Za-z_]\w*)[ \t]*\((?P<params>[^)]*)\)` +
		`[ \t]*(?:const[ \t]*)?(?:noexcept[ \t]*)?(?:override[ \t]*)?(?:final[ \t]*)?(?::[^{;]*)?\s*\{`

	cDefine  = `(?m)^[ \t]*#[ \t]*define[ \t]+(?P<name>[A-Za-z_]\w*)[ \t]+(?P<value>[^\n]+)`
	cInclude = `(?m)^[ \t]*#[ \t]*include[ \t]*[<"](?P<source>[^>"\n]+)[>"]`
)

var controlKeywords = map[string]bool{
	"if": true, "else": true, "for": true, "foreach": true, "while": true, "do": true,
	"switch": true, "case": true, "default": true, "catch": true, "try": true, "return": true,
	"throw": true, "new": true, "delete": true, "sizeof": true, "typeof": true, "nameof": true,
	"using": true, "lock": true, "fixed": true, "checked": true, "unchecked": true,
	"synchronized": true, "goto": true, "await": true, "yield": true, "record": true,
}

var ruleSets = map[language.Language]*ruleSet{
	language.Python: {
		functions: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*(?P<mods>async[ \t]+)?def[ \t]+(?P<name>[A-Za-z_]\w*)[ \t]*\(`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*class[ \t]+(?P<name>[A-Za-z_]\w*)[ \t]*(?:\((?P<bases>[^)]*)\))?[ \t]*:`),
		},
		imports: []importRule{
			{re: regexp.MustCompile(`(?m)^[ \t]*from[ \t]+(?P<source>\.*[\w.]*)[ \t]+import[ \t]+(?P<names>\([^)]*\)|[^\n#;]+)`), kind: model.ImportFrom, expand: namedImport},
			{re: regexp.MustCompile(`(?m)^[ \t]*import[ \t]+(?P<list>[^\n#;]+)`), kind: model.ModuleImport, expand: importList},
		},
		variables: []variableRule{
			{re: regexp.MustCompile(`(?m)^[ \t]*(?P<name>[A-Za-z_]\w*)[ \t]*(?::[^=\n]+)?=[ \t]*(?P<value>[^=\n][^\n]*)$`), form: "assignment"},
		},
		params:     paramStripDefault,
		scope:      scopeIndent,
		headerTail: regexp.MustCompile(`\A[ \t]*(?:->[^:\n]*)?:`),
	},

	language.Java: {
		functions: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*(?:@\w+(?:\([^)\n]*\))?[ \t]+)*(?P<mods>(?:(?:public|private|protected|static|final|abstract|synchronized|native|default|strictfp)[ \t]+)*)(?:<[^>\n]+>[ \t]+)?` +
				`(?:(?P<ret>[\w.$]+(?:<[\w<>?,.\[\] \t]*>)?(?:\[\])*)[ \t]+)?(?P<name>[A-Za-z_$][\w$]*)[ \t]*\((?P<params>[^)]*)\)[ \t]*(?:throws[ \t]+[\w.,$ \t]+)?\s*\{`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*(?:@\w+(?:\([^)\n]*\))?[ \t]+)*(?:(?:public|private|protected|abstract|final|static|sealed|non-sealed|strictfp)[ \t]+)*(?P<kind>class|interface|enum|record)[ \t]+(?P<name>[A-Za-z_$][\w$]*)` +
				`(?:<[^{\n]*?>)?(?:[ \t]*\([^)]*\))?(?:[ \t]+extends[ \t]+(?P<super>[^{\n]+?))?(?:[ \t]+implements[ \t]+(?P<ifaces>[^{\n]+?))?(?:[ \t]+permits[ \t]+[^{\n]+?)?\s*\{`),
		},
		imports: []importRule{
			{re: regexp.MustCompile(`(?m)^[ \t]*import[ \t]+(?:static[ \t]+)?(?P<source>[\w.$]+(?:\.\*)?)[ \t]*;`), kind: model.ModuleImport},
		},
		variables:      []variableRule{{re: regexp.MustCompile(typedVariable)}},
		params:         paramNameLast,
		scope:          scopeBraces,
		rejectKeywords: true,
	},

	language.C: {
		functions: []*regexp.Regexp{regexp.MustCompile(cFunction)},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*(?:typedef[ \t]+)?(?P<kind>struct|union)[ \t]+(?P<name>[A-Za-z_]\w*)\s*\{`),
		},
		imports: []importRule{{re: regexp.MustCompile(cInclude), kind: model.ImportInclude}},
		variables: []variableRule{
			{re: regexp.MustCompile(typedVariable)},
			{re: regexp.MustCompile(cDefine), form: "#define"},
		},
		params:         paramNameLast,
		scope:          scopeBraces,
		rejectKeywords: true,
	},

	language.CPP: {
		functions: []*regexp.Regexp{regexp.MustCompile(cFunction)},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*(?:template[ \t]*<[^>\n]*>\s*)?(?P<kind>class|struct|union)[ \t]+(?:[A-Z_][A-Z0-9_]*[ \t]+)?(?P<name>[A-Za-z_]\w*)(?:[ \t]+final)?(?:[ \t]*:[ \t]*(?P<bases>[^{;\n]+?))?\s*\{`),
		},
		imports: []importRule{{re: regexp.MustCompile(cInclude), kind: model.ImportInclude}},
		variables: []variableRule{
			{re: regexp.MustCompile(typedVariable)},
			{re: regexp.MustCompile(cDefine), form: "#define"},
		},
		params:         paramNameLast,
		scope:          scopeBraces,
		rejectKeywords: true,
	},

	language.Go: {
		functions: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^func[ \t]*(?:\((?P<owner>[^)]*)\)[ \t]*)?(?P<name>[A-Za-z_]\w*)[ \t]*(?:\[[^\]\n]*\])?[ \t]*\((?P<params>[^)]*)\)[^{\n]*\{`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*type[ \t]+(?P<name>[A-Za-z_]\w*)(?:\[[^\]\n]*\])?[ \t]+(?P<kind>struct|interface)[ \t]*\{`),
		},
		imports: []importRule{
			{re: regexp.MustCompile(`(?m)^[ \t]*import[ \t]+(?:(?P<alias>[\w.]+)[ \t]+)?"(?P<source>[^"]+)"`), kind: model.ModuleImport},
			{re: regexp.MustCompile(`(?m)^[ \t]*import[ \t]*\((?P<block>[^)]*)\)`), kind: model.ModuleImport, expand: goImportBlock},
		},
		variables: []variableRule{
			{re: regexp.MustCompile(`(?m)^[ \t]*(?P<form>var|const)[ \t]+(?P<name>[A-Za-z_]\w*)(?:[ \t]+[^=\n]+?)?(?:[ \t]*=[ \t]*(?P<value>[^\n]+?))?[ \t]*$`)},
		},
		params: paramNameFirst,
		scope:  scopeBraces,
	},

	language.Rust: {
		functions: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*(?:pub(?:\([^)]*\))?[ \t]+)?(?P<mods>(?:(?:default|const|async|unsafe|extern(?:[ \t]+"[^"\n]*")?)[ \t]+)*)fn[ \t]+(?P<name>[A-Za-z_]\w*)[ \t]*(?:<[^(\n]*>)?[ \t]*\((?P<params>[^)]*)\)`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*(?:pub(?:\([^)]*\))?[ \t]+)?(?P<kind>struct|enum|trait|union)[ \t]+(?P<name>[A-Za-z_]\w*)(?:<[^{;\n]*>)?(?:[ \t]*:[ \t]*(?P<bases>[^{;\n]+?))?[ \t]*(?:where[^{\n]*)?[{;(]`),
		},
		owners: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*(?:unsafe[ \t]+)?impl(?:<[^>\n]*>)?[ \t]+(?:[\w:<>]+[ \t]+for[ \t]+)?(?P<name>[\w:]+)(?:<[^{\n]*>)?[ \t]*(?:where[^{\n]*)?\{`),
		},
		imports: []importRule{
			{re: regexp.MustCompile(`(?m)^[ \t]*(?:pub(?:\([^)]*\))?[ \t]+)?use[ \t]+(?P<source>[^;]+);`), kind: model.ImportUse, expand: treeImport},
		},
		variables: []variableRule{
			{re: regexp.MustCompile(`(?m)^[ \t]*(?:pub(?:\([^)]*\))?[ \t]+)?(?P<form>let(?:[ \t]+mut)?|const|static(?:[ \t]+mut)?)[ \t]+(?P<name>[A-Za-z_]\w*)(?:[ \t]*:[ \t]*[^=;\n]+)?(?:[ \t]*=[ \t]*(?P<value>[^;\n]+))?;`)},
		},
		params: paramBeforeColon,
		quotes: `"`,
		scope:  scopeBraces,
	},

	language.PHP: {
		functions: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*(?P<mods>(?:(?:public|private|protected|static|final|abstract)[ \t]+)*)function[ \t]+&?(?P<name>[A-Za-z_]\w*)[ \t]*\((?P<params>[^)]*)\)`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*(?:(?:abstract|final|readonly)[ \t]+)*(?P<kind>class|interface|trait|enum)[ \t]+(?P<name>[A-Za-z_]\w*)(?:[ \t]*:[ \t]*\w+)?(?:\s+extends[ \t]+(?P<super>[\w\\, \t]+?))?(?:\s+implements[ \t]+(?P<ifaces>[\w\\, \t]+?))?\s*\{`),
		},
		imports: []importRule{
			{re: regexp.MustCompile(`(?m)^[ \t]*use[ \t]+(?:function[ \t]+|const[ \t]+)?(?P<source>[\w\\]+)(?:[ \t]+as[ \t]+(?P<alias>\w+))?[ \t]*;`), kind: model.ImportUse},
			{re: regexp.MustCompile(`(?m)^[ \t]*(?:require|include)(?:_once)?[ \t]*\(?[ \t]*['"](?P<source>[^'"\n]+)['"]`), kind: model.ModuleRequire},
		},
		variables: []variableRule{
			{re: regexp.MustCompile(`(?m)^[ \t]*(?P<name>\$[A-Za-z_]\w*)[ \t]*=[ \t]*(?P<value>[^=>;\n][^;\n]*);`), form: "assignment"},
			{re: regexp.MustCompile(`(?m)^[ \t]*(?P<mods>(?:(?:public|private|protected|final)[ \t]+)*)(?P<form>const)[ \t]+(?P<name>[A-Za-z_]\w*)[ \t]*=[ \t]*(?P<value>[^;\n]+);`)},
			{re: regexp.MustCompile(`(?m)^[ \t]*(?P<form>(?:(?:public|private|protected|static|readonly|var)[ \t]+)+)(?:\??[\w\\|]+[ \t]+)?(?P<name>\$[A-Za-z_]\w*)(?:[ \t]*=[ \t]*(?P<value>[^;\n]+))?[ \t]*;`)},
		},
		params: paramDollar,
		scope:  scopeBraces,
	},

	language.Ruby: {
		functions: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*def[ \t]+(?:(?P<singleton>self|[A-Z]\w*)\.)?(?P<name>[A-Za-z_]\w*[?!=]?)(?:[ \t]*\((?P<params>[^)]*)\)|[ \t]+(?P<bare>[^\n#;=]+))?`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*(?P<kind>class|module)[ \t]+(?P<name>[A-Z][\w:]*)(?:[ \t]*<[ \t]*(?P<super>[A-Z][\w:.]*))?`),
		},
		imports: []importRule{
			{re: regexp.MustCompile(`(?m)^[ \t]*(?:require|require_relative|load)[ \t]*\(?[ \t]*['"](?P<source>[^'"\n]+)['"]`), kind: model.ModuleRequire},
		},
		variables: []variableRule{
			{re: regexp.MustCompile(`(?m)^[ \t]*(?P<name>[A-Z][A-Z0-9_]*)[ \t]*=[ \t]*(?P<value>[^=\n][^\n]*)$`), form: "constant"},
		},
		params: paramStripDefault,
		scope:  scopeIndent,
	},

	language.Swift: {
		functions: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*(?P<mods>(?:(?:@\w+|public|private|fileprivate|internal|open|static|class|final|override|mutating|nonmutating)[ \t]+)*)func[ \t]+(?P<name>[A-Za-z_]\w*)[ \t]*(?:<[^>\n]*>)?[ \t]*\((?P<params>[^)]*)\)(?P<tail>[^{\n]*)`),
			regexp.MustCompile(`(?m)^[ \t]*(?P<mods>(?:(?:@\w+|public|private|fileprivate|internal|open|override|convenience|required)[ \t]+)*)(?P<name>init)[?!]?[ \t]*\((?P<params>[^)]*)\)(?P<tail>[^{\n]*)`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*(?:(?:@\w+|public|private|fileprivate|internal|open|final|indirect)[ \t]+)*(?P<kind>class|struct|enum|protocol|actor)[ \t]+(?P<name>[A-Za-z_]\w*)(?:<[^>\n]*>)?(?:[ \t]*:[ \t]*(?P<bases>[^{\n]+?))?[ \t]*(?:where[^{\n]*)?\{`),
		},
		owners: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*(?:(?:public|private|fileprivate|internal)[ \t]+)?extension[ \t]+(?P<name>[A-Za-z_][\w.]*)[^{\n]*\{`),
		},
		imports: []importRule{
			{re: regexp.MustCompile(`(?m)^[ \t]*(?:@\w+[ \t]+)?import[ \t]+(?:(?:typealias|struct|class|enum|protocol|let|var|func)[ \t]+)?(?P<source>[\w.]+)`), kind: model.ModuleImport},
		},
		variables: []variableRule{
			{re: regexp.MustCompile(`(?m)^[ \t]*(?P<mods>(?:(?:@\w+|public|private|fileprivate|internal|open|static|class|final|lazy|weak|unowned|override)[ \t]+)*)(?P<form>let|var)[ \t]+(?P<name>[A-Za-z_]\w*)(?:[ \t]*:[ \t]*[^={\n]+?)?(?:[ \t]*=[ \t]*(?P<value>[^\n]+?))?[ \t]*$`)},
		},
		params: paramBeforeColon,
		scope:  scopeBraces,
	},

	language.Kotlin: {
		functions: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*(?P<mods>(?:(?:@\w+|public|private|protected|internal|open|override|abstract|final|suspend|inline|operator|infix|tailrec|external|actual|expect)[ \t]+)*)fun[ \t]+(?:<[^>\n]*>[ \t]*)?(?:(?P<owner>[\w.]+(?:<[^>\n]*>)?)\.)?(?P<name>[A-Za-z_]\w*)[ \t]*\((?P<params>[^)]*)\)`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*(?:(?:@\w+|public|private|protected|internal|open|abstract|sealed|data|enum|annotation|inner|value|final)[ \t]+)*(?P<kind>class|interface|object)[ \t]+(?P<name>[A-Za-z_]\w*)(?:<[^>\n]*>)?` +
				`(?:[ \t]*(?:(?:private|protected|internal|public)[ \t]+)?(?:constructor[ \t]*)?\([^)]*\))?(?:[ \t]*:[ \t]*(?P<bases>[^{\n]+?))?[ \t]*(?:\{|$)`),
		},
		imports: []importRule{
			{re: regexp.MustCompile(`(?m)^[ \t]*import[ \t]+(?P<source>[\w.]+(?:\.\*)?)(?:[ \t]+as[ \t]+(?P<alias>\w+))?`), kind: model.ModuleImport},
		},
		variables: []variableRule{
			{re: regexp.MustCompile(`(?m)^[ \t]*(?P<mods>(?:(?:@\w+|public|private|protected|internal|override|open|lateinit|const|final)[ \t]+)*)(?P<form>val|var)[ \t]+(?P<name>[A-Za-z_]\w*)(?:[ \t]*:[ \t]*[^=\n]+?)?(?:[ \t]*=[ \t]*(?P<value>[^\n]+?))?[ \t]*$`)},
		},
		params: paramBeforeColon,
		scope:  scopeBraces,
	},

	language.Scala: {
		functions: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*(?P<mods>(?:(?:override|private|protected|final|implicit|inline)(?:\[[^\]\n]*\])?[ \t]+)*)def[ \t]+(?P<name>[A-Za-z_]\w*)[ \t]*(?:\[[^\]\n]*\])?(?:\((?P<params>[^)]*)\))?`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*(?:(?:abstract|final|sealed|case|implicit|private|protected)[ \t]+)*(?P<kind>class|trait|object)[ \t]+(?P<name>[A-Za-z_]\w*)(?:\[[^\]\n]*\])?(?:[ \t]*\([^)]*\))?` +
				`(?:[ \t]+extends[ \t]+(?P<super>[\w.]+(?:\[[^\]\n]*\])?)(?:\([^)]*\))?)?(?P<ifaces>(?:[ \t]+with[ \t]+[\w.]+(?:\[[^\]\n]*\])?)*)`),
		},
		imports: []importRule{
			{re: regexp.MustCompile(`(?m)^[ \t]*import[ \t]+(?P<source>[^\n;]+)`), kind: model.ModuleImport, expand: treeImport},
		},
		variables: []variableRule{
			{re: regexp.MustCompile(`(?m)^[ \t]*(?P<mods>(?:(?:private|protected|override|final|implicit|lazy)[ \t]+)*)(?P<form>val|var)[ \t]+(?P<name>[A-Za-z_]\w*)(?:[ \t]*:[ \t]*[^=\n]+?)?(?:[ \t]*=[ \t]*(?P<value>[^\n]+?))?[ \t]*$`)},
		},
		params: paramBeforeColon,
		scope:  scopeBraces,
	},

	language.CSharp: {
		functions: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*(?:\[[^\]\n]*\][ \t]*)*(?P<mods>(?:(?:public|private|protected|internal|static|virtual|override|abstract|sealed|async|extern|unsafe|new|partial|readonly)[ \t]+)*)` +
				`(?:(?P<ret>[\w.]+(?:<[\w<>?,.\[\] \t]*>)?(?:\[,*\])*\??)[ \t]+)?(?P<name>[A-Za-z_]\w*)[ \t]*(?:<[^>\n]*>)?[ \t]*\((?P<params>[^)]*)\)` +
				`[ \t]*(?::[ \t]*(?:base|this)[ \t]*\([^)]*\)[ \t]*)?(?:where[^{\n]*)?\s*(?:\{|=>)`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^[ \t]*(?:\[[^\]\n]*\][ \t]*)*(?:(?:public|private|protected|internal|static|abstract|sealed|partial|readonly|ref|unsafe|new|file)[ \t]+)*(?P<kind>class|struct|interface|record|enum)(?:[ \t]+(?:class|struct))?[ \t]+(?P<name>[A-Za-z_]\w*)` +
				`(?:<[^>\n]*>)?(?:[ \t]*\([^)]*\))?(?:[ \t]*:[ \t]*(?P<bases>[^{\n]+?))?(?:[ \t]+where[^{\n]*)?\s*[{;]`),
		},
		imports: []importRule{
			{re: regexp.MustCompile(`(?m)^[ \t]*(?:global[ \t]+)?using[ \t]+(?:static[ \t]+)?(?:(?P<alias>\w+)[ \t]*=[ \t]*)?(?P<source>[\w.]+)[ \t]*;`), kind: model.ImportUse},
		},
		variables:      []variableRule{{re: regexp.MustCompile(typedVariable)}},
		params:         paramNameLast,
		scope:          scopeBraces,
		rejectKeywords: true,
	},

	language.VB: {
		functions: []*regexp.Regexp{
			regexp.MustCompile(`(?mi)^[ \t]*(?P<mods>(?:(?:Public|Private|Protected|Friend|Shared|Overrides|Overridable|MustOverride|NotOverridable|Overloads|Shadows|Async|Static|Partial)[ \t]+)*)(?:Sub|Function)[ \t]+(?P<name>\w+)[ \t]*(?:\(Of[^)]*\))?[ \t]*\((?P<params>[^)]*)\)`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`(?mi)^[ \t]*(?:(?:Public|Private|Protected|Friend|MustInherit|NotInheritable|Partial|Shared)[ \t]+)*(?P<kind>Class|Structure|Interface|Module|Enum)[ \t]+(?P<name>\w+)(?:[ \t]*\(Of[^)]*\))?` +
				`(?:\s+Inherits[ \t]+(?P<super>[\w.]+))?(?:\s+Implements[ \t]+(?P<ifaces>[\w.]+(?:[ \t]*,[ \t]*[\w.]+)*))?`),
		},
		imports: []importRule{
			{re: regexp.MustCompile(`(?mi)^[ \t]*Imports[ \t]+(?:(?P<alias>\w+)[ \t]*=[ \t]*)?(?P<source>[\w.]+)`), kind: model.ModuleImport},
		},
		variables: []variableRule{
			{re: regexp.MustCompile(`(?mi)^[ \t]*(?P<mods>(?:(?:Public|Private|Protected|Friend|Shared|ReadOnly|Static)[ \t]+)*)(?P<form>Dim|Const)[ \t]+(?P<name>\w+)(?:[ \t]+As[ \t]+(?:New[ \t]+)?[\w.]+(?:\([^)\n]*\))?)?(?:[ \t]*=[ \t]*(?P<value>[^\n']+?))?[ \t]*$`)},
			{re: regexp.MustCompile(`(?mi)^[ \t]*(?P<form>Public|Private|Protected|Friend)[ \t]+(?P<mods>(?:(?:Shared|ReadOnly)[ \t]+)*)(?P<name>\w+)[ \t]+As[ \t]+(?:New[ \t]+)?[\w.]+(?:\([^)\n]*\))?(?:[ \t]*=[ \t]*(?P<value>[^\n']+?))?[ \t]*$`)},
		},
		params: paramBeforeAs,
		scope:  scopeIndent,
	},
}
