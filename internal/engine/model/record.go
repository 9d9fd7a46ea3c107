// Package model holds the normalized analysis record shared by the tree and
// fallback extractors.
package model

// Function kinds.
const (
	FunctionDeclaration = "declaration"
	FunctionArrow       = "arrow"
	FunctionExpression  = "expression"
	FunctionMethod      = "method"
)

// Method kinds.
const (
	MethodConstructor = "constructor"
	MethodGetter      = "get"
	MethodSetter      = "set"
	MethodPlain       = "method"
)

// Class kinds.
const (
	ClassDeclaration = "declaration"
	ClassExpression  = "expression"
	ClassStructLike  = "struct-like"
)

// Import binding forms.
const (
	BindingDefault   = "default"
	BindingNamed     = "named"
	BindingNamespace = "namespace"
)

// Export forms.
const (
	ExportNamed       = "named"
	ExportDefault     = "default"
	ExportReexportAll = "reexportAll"
)

// Module reference kinds. Imports use these too, plus the fallback-only
// kinds below.
const (
	ModuleRequire = "require"
	ModuleImport  = "import"
)

const (
	ImportInclude = "include"
	ImportUse     = "use"
	ImportFrom    = "from"
)

// Markers used where no real identifier exists. Parentheses keep them apart
// from anything a program could declare.
const (
	AnonymousFunction = "(anonymous)"
	AnonymousArrow    = "(anonymous arrow)"
	AnonymousClass    = "(anonymous class)"
	AnonymousObject   = "(anonymous object)"
	UnknownClass      = "(unknown class)"
	Unknown           = "(unknown)"
)

// Position is a point in the source. Line and Column are 1-based, Offset is a
// 0-based byte offset.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
	Offset int `json:"offset" yaml:"offset"`
}

type Span struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

type FunctionEntry struct {
	Kind           string   `json:"kind" yaml:"kind"`
	Name           string   `json:"name" yaml:"name"`
	Parameters     []string `json:"parameters" yaml:"parameters"`
	IsAsync        bool     `json:"isAsync" yaml:"isAsync"`
	IsGenerator    bool     `json:"isGenerator" yaml:"isGenerator"`
	DeclaringClass string   `json:"declaringClass,omitempty" yaml:"declaringClass,omitempty"`
	MethodKind     string   `json:"methodKind,omitempty" yaml:"methodKind,omitempty"`
	IsStatic       bool     `json:"isStatic,omitempty" yaml:"isStatic,omitempty"`
	Line           int      `json:"line" yaml:"line"`
	Span           *Span    `json:"span,omitempty" yaml:"span,omitempty"`
	BodyAnchor     *int     `json:"bodyAnchor,omitempty" yaml:"bodyAnchor,omitempty"`
}

type MethodSummary struct {
	Name        string   `json:"name" yaml:"name"`
	MethodKind  string   `json:"methodKind" yaml:"methodKind"`
	IsStatic    bool     `json:"isStatic" yaml:"isStatic"`
	Parameters  []string `json:"parameters" yaml:"parameters"`
	IsAsync     bool     `json:"isAsync" yaml:"isAsync"`
	IsGenerator bool     `json:"isGenerator" yaml:"isGenerator"`
}

type FieldEntry struct {
	Name     string  `json:"name" yaml:"name"`
	IsStatic bool    `json:"isStatic" yaml:"isStatic"`
	Value    *string `json:"value,omitempty" yaml:"value,omitempty"`
}

type ClassEntry struct {
	Kind       string          `json:"kind" yaml:"kind"`
	Name       string          `json:"name" yaml:"name"`
	Superclass *string         `json:"superclass,omitempty" yaml:"superclass,omitempty"`
	Interfaces []string        `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	Methods    []MethodSummary `json:"methods" yaml:"methods"`
	Fields     []FieldEntry    `json:"fields" yaml:"fields"`
	Line       int             `json:"line" yaml:"line"`
	Span       *Span           `json:"span,omitempty" yaml:"span,omitempty"`
}

type VariableEntry struct {
	DeclarationForm string  `json:"declarationForm" yaml:"declarationForm"`
	Name            string  `json:"name" yaml:"name"`
	Value           *string `json:"value,omitempty" yaml:"value,omitempty"`
	Line            int     `json:"line" yaml:"line"`
	Span            *Span   `json:"span,omitempty" yaml:"span,omitempty"`
}

type ImportBinding struct {
	Form     string `json:"form" yaml:"form"`
	Imported string `json:"imported,omitempty" yaml:"imported,omitempty"`
	Local    string `json:"local" yaml:"local"`
}

type ImportEntry struct {
	Source   string          `json:"source" yaml:"source"`
	Kind     string          `json:"kind" yaml:"kind"`
	Bindings []ImportBinding `json:"bindings" yaml:"bindings"`
	Line     int             `json:"line" yaml:"line"`
	Span     *Span           `json:"span,omitempty" yaml:"span,omitempty"`
}

type ExportBinding struct {
	Local    string `json:"local" yaml:"local"`
	Exported string `json:"exported" yaml:"exported"`
}

type ExportEntry struct {
	Form     string          `json:"form" yaml:"form"`
	Name     string          `json:"name,omitempty" yaml:"name,omitempty"`
	Bindings []ExportBinding `json:"bindings,omitempty" yaml:"bindings,omitempty"`
	Source   string          `json:"source,omitempty" yaml:"source,omitempty"`
	Line     int             `json:"line" yaml:"line"`
	Span     *Span           `json:"span,omitempty" yaml:"span,omitempty"`
}

type ModuleReference struct {
	Module string `json:"module" yaml:"module"`
	Kind   string `json:"kind" yaml:"kind"`
	Line   int    `json:"line" yaml:"line"`
	Span   *Span  `json:"span,omitempty" yaml:"span,omitempty"`
}

type CallReference struct {
	Name string `json:"name" yaml:"name"`
	Line int    `json:"line" yaml:"line"`
	Span *Span  `json:"span,omitempty" yaml:"span,omitempty"`
}

type PropertyReference struct {
	Object   string `json:"object" yaml:"object"`
	Property string `json:"property" yaml:"property"`
	Computed bool   `json:"computed" yaml:"computed"`
	Line     int    `json:"line" yaml:"line"`
	Span     *Span  `json:"span,omitempty" yaml:"span,omitempty"`
}

type DependencyView struct {
	Imports            []ImportEntry       `json:"imports" yaml:"imports"`
	ModuleReferences   []ModuleReference   `json:"moduleReferences" yaml:"moduleReferences"`
	CallReferences     []CallReference     `json:"callReferences" yaml:"callReferences"`
	PropertyReferences []PropertyReference `json:"propertyReferences" yaml:"propertyReferences"`
}

// Record is the result of analyzing one source text. It is not mutated after
// the analyzer returns it.
type Record struct {
	File         string          `json:"file" yaml:"file"`
	Language     string          `json:"language" yaml:"language"`
	Dialect      string          `json:"dialect,omitempty" yaml:"dialect,omitempty"`
	Functions    []FunctionEntry `json:"functions" yaml:"functions"`
	Classes      []ClassEntry    `json:"classes" yaml:"classes"`
	Variables    []VariableEntry `json:"variables" yaml:"variables"`
	Imports      []ImportEntry   `json:"imports" yaml:"imports"`
	Exports      []ExportEntry   `json:"exports" yaml:"exports"`
	Dependencies DependencyView  `json:"dependencies" yaml:"dependencies"`
	Partial      bool            `json:"partial" yaml:"partial"`
	Note         string          `json:"note,omitempty" yaml:"note,omitempty"`
}

// NewRecord returns a record with every listing allocated, so empty listings
// serialize as [] instead of null.
func NewRecord(file, language string) *Record {
	return &Record{
		File:      file,
		Language:  language,
		Functions: []FunctionEntry{},
		Classes:   []ClassEntry{},
		Variables: []VariableEntry{},
		Imports:   []ImportEntry{},
		Exports:   []ExportEntry{},
		Dependencies: DependencyView{
			Imports:            []ImportEntry{},
			ModuleReferences:   []ModuleReference{},
			CallReferences:     []CallReference{},
			PropertyReferences: []PropertyReference{},
		},
	}
}

// WithFile returns a shallow copy of r reporting a different file name.
func (r *Record) WithFile(file string) *Record {
	out := *r
	out.File = file
	return &out
}

func StringPtr(s string) *string {
	return &s
}

func IntPtr(i int) *int {
	return &i
}
