// Package language maps file names and raw text to language tags and picks
// the grammar dialect used for the JavaScript family.
package language

import (
	"path/filepath"
	"strings"

	"codeshape/internal/shared/util"
)

// Language is a normalized language tag.
type Language string

const (
	JavaScript Language = "javascript"
	Python     Language = "python"
	Java       Language = "java"
	CPP        Language = "cpp"
	C          Language = "c"
	Go         Language = "go"
	Rust       Language = "rust"
	PHP        Language = "php"
	Ruby       Language = "ruby"
	Swift      Language = "swift"
	Kotlin     Language = "kotlin"
	Scala      Language = "scala"
	CSharp     Language = "csharp"
	VB         Language = "vb"
	Unknown    Language = "unknown"
)

// Dialect is the concrete grammar used for a JavaScript-family source.
type Dialect string

const (
	DialectJavaScript Dialect = "javascript"
	DialectTypeScript Dialect = "typescript"
	DialectTSX        Dialect = "tsx"
)

var extensionToLanguage = map[string]Language{
	// JavaScript family
	".js":  JavaScript,
	".jsx": JavaScript,
	".mjs": JavaScript,
	".cjs": JavaScript,
	".ts":  JavaScript,
	".tsx": JavaScript,
	".mts": JavaScript,
	".cts": JavaScript,
	// Python
	".py":  Python,
	".pyw": Python,
	".pyi": Python,
	// Java
	".java": Java,
	// C++
	".cpp": CPP,
	".cxx": CPP,
	".cc":  CPP,
	".hpp": CPP,
	".hxx": CPP,
	".hh":  CPP,
	// C
	".c": C,
	".h": C,
	// Go
	".go": Go,
	// Rust
	".rs": Rust,
	// PHP
	".php":   PHP,
	".phtml": PHP,
	// Ruby
	".rb":   Ruby,
	".rake": Ruby,
	// Swift
	".swift": Swift,
	// Kotlin
	".kt":  Kotlin,
	".kts": Kotlin,
	// Scala
	".scala": Scala,
	".sc":    Scala,
	// C#
	".cs": CSharp,
	// Visual Basic
	".vb": VB,
}

var extensionToDialect = map[string]Dialect{
	".ts":  DialectTypeScript,
	".mts": DialectTypeScript,
	".cts": DialectTypeScript,
	".tsx": DialectTSX,
}

var defaultExtension = map[Language]string{
	JavaScript: "js",
	Python:     "py",
	Java:       "java",
	CPP:        "cpp",
	C:          "c",
	Go:         "go",
	Rust:       "rs",
	PHP:        "php",
	Ruby:       "rb",
	Swift:      "swift",
	Kotlin:     "kt",
	Scala:      "scala",
	CSharp:     "cs",
	VB:         "vb",
}

// FromPath classifies a file by exact, case-insensitive extension lookup.
func FromPath(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extensionToLanguage[ext]; ok {
		return lang
	}
	return Unknown
}

var cppTokens = []string{"std::", "namespace ", "template<", "template <"}

// FromContent guesses the language of unlabeled text. The rules run in a
// fixed order and the first match wins; it never returns Unknown.
func FromContent(text string) Language {
	has := func(s string) bool { return strings.Contains(text, s) }

	switch {
	case has("package ") && has("func "):
		return Go
	case has("public class ") || (has("import java.") && has("public ")):
		return Java
	case has("def ") && (has("import ") || has("from ")):
		return Python
	case has("#include") && (has("int main") || containsAny(text, cppTokens)):
		return CPP
	case has("#include"):
		return C
	case has("import ") || has("export ") || has("function ") || has("const "):
		return JavaScript
	}
	return JavaScript
}

func containsAny(text string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(text, tok) {
			return true
		}
	}
	return false
}

// DialectFor picks the grammar for a JavaScript-family path. An empty path
// means raw text and selects the most permissive grammar.
func DialectFor(path string) Dialect {
	if path == "" {
		return DialectTSX
	}
	if d, ok := extensionToDialect[strings.ToLower(filepath.Ext(path))]; ok {
		return d
	}
	return DialectJavaScript
}

// UsesGrammar reports whether a language gets full tree-based analysis.
func UsesGrammar(lang Language) bool {
	return lang == JavaScript
}

// Known reports whether lang is a recognized tag other than Unknown.
func Known(lang Language) bool {
	_, ok := defaultExtension[lang]
	return ok
}

// DefaultExtension returns the canonical extension for a tag, "txt" for
// anything without one.
func DefaultExtension(lang Language) string {
	if ext, ok := defaultExtension[lang]; ok {
		return ext
	}
	return "txt"
}

// SyntheticName is the file name reported for raw-text input.
func SyntheticName(lang Language) string {
	return "temp." + DefaultExtension(lang)
}

// SupportedExtensions returns every recognized extension, sorted.
func SupportedExtensions() []string {
	return util.SortedStringKeys(extensionToLanguage)
}

// ExtensionsByLanguage groups the extension table by tag, each list sorted.
func ExtensionsByLanguage() map[Language][]string {
	out := make(map[Language][]string)
	for _, ext := range SupportedExtensions() {
		lang := extensionToLanguage[ext]
		out[lang] = append(out[lang], ext)
	}
	return out
}
