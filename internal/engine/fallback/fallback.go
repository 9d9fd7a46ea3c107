// Package fallback recovers an approximate declaration inventory for
// languages without a grammar, using per-language regular expressions.
//
// Results are best effort: every record is marked partial, and a pattern that
// never matches simply leaves its listing empty.
package fallback

import (
	"fmt"
	"slices"
	"strings"

	"codeshape/internal/engine/language"
	"codeshape/internal/engine/model"
)

// Note is the incompleteness message attached to every fallback record.
func Note(lang language.Language) string {
	return fmt.Sprintf("analysis for %s is not fully implemented; results are a best-effort pattern match", lang)
}

// Languages lists the tags that have a rule set, sorted.
func Languages() []language.Language {
	out := make([]language.Language, 0, len(ruleSets))
	for lang := range ruleSets {
		out = append(out, lang)
	}
	slices.Sort(out)
	return out
}

// Extract applies the rule set registered for lang to text. Tags without
// rules produce an empty partial record. File is left empty for the caller.
func Extract(text string, lang language.Language) *model.Record {
	rec := model.NewRecord("", string(lang))
	rec.Partial = true
	rec.Note = Note(lang)

	rules, ok := ruleSets[lang]
	if !ok {
		return rec
	}
	x := &extraction{text: text, rules: rules, rec: rec}
	x.classes()
	x.owners()
	x.functions()
	x.variables()
	x.imports()
	return rec
}

// extraction holds the state of one Extract call.
type extraction struct {
	text  string
	rules *ruleSet
	rec   *model.Record

	scopes []scope
	bodies []scope // function bodies
}

func (x *extraction) classes() {
	for _, m := range findAllOrdered(x.rules.classes, x.text) {
		name := m.group("name")
		entry := model.ClassEntry{
			Kind:    classKind(m.group("kind")),
			Name:    name,
			Methods: []model.MethodSummary{},
			Fields:  []model.FieldEntry{},
			Line:    LineNumber(x.text, m.start),
			Span:    spanOf(x.text, m.start, m.end),
		}
		entry.Superclass, entry.Interfaces = basesOf(m)

		if start, end, ok := body(x.text, m, x.rules.scope); ok {
			entry.Span = spanOf(x.text, m.start, end)
			x.scopes = append(x.scopes, scope{name: name, class: len(x.rec.Classes), start: start, end: end})
		}
		x.rec.Classes = append(x.rec.Classes, entry)
	}
}

func classKind(kind string) string {
	switch strings.ToLower(kind) {
	case "struct", "structure", "union":
		return model.ClassStructLike
	}
	return model.ClassDeclaration
}

// owners registers bodies that hold methods without declaring a type, such
// as Rust impl blocks and Swift extensions.
func (x *extraction) owners() {
	for _, m := range findAllOrdered(x.rules.owners, x.text) {
		if start, end, ok := body(x.text, m, x.rules.scope); ok {
			x.scopes = append(x.scopes, scope{name: ownerName(m.group("name")), class: -1, start: start, end: end})
		}
	}
}

func (x *extraction) functions() {
	matches := findAllOrdered(x.rules.functions, x.text)
	if x.rules.headerTail != nil {
		matches = x.closeHeaders(matches)
	}
	for _, m := range matches {
		name := m.group("name")
		if x.rules.rejectKeywords && (controlKeywords[name] || controlKeywords[firstToken(m.group("ret"))]) {
			continue
		}

		raw := m.group("params")
		if !m.has("params") {
			raw = m.group("bare")
		}
		entry := model.FunctionEntry{
			Kind:       model.FunctionDeclaration,
			Name:       name,
			Parameters: parameterNames(raw, x.rules.params, x.quotes()),
			IsAsync:    hasWord(m.group("mods")+" "+m.group("tail"), "async", "suspend"),
			IsStatic:   hasWord(m.group("mods"), "static", "shared", "class"),
			Line:       LineNumber(x.text, m.start),
			Span:       spanOf(x.text, m.start, m.end),
		}

		classIndex := -1
		switch {
		case m.group("owner") != "":
			entry.DeclaringClass = ownerName(m.group("owner"))
		case m.has("singleton"):
			entry.IsStatic = true
			if owner := m.group("singleton"); owner != "self" {
				entry.DeclaringClass = owner
			}
		}
		if s, ok := innermost(x.scopes, m.start); ok && entry.DeclaringClass == "" {
			entry.DeclaringClass = s.name
			classIndex = s.class
		}

		if start, end, ok := body(x.text, m, x.rules.scope); ok {
			entry.Span = spanOf(x.text, m.start, end)
			if x.rules.scope == scopeBraces {
				entry.BodyAnchor = model.IntPtr(start)
			}
			x.bodies = append(x.bodies, scope{name: name, class: -1, start: start, end: end})
		}

		if entry.DeclaringClass != "" {
			entry.Kind = model.FunctionMethod
			entry.MethodKind = model.MethodPlain
			if isConstructor(name, entry.DeclaringClass) {
				entry.MethodKind = model.MethodConstructor
			}
			if classIndex < 0 {
				classIndex = x.classNamed(entry.DeclaringClass)
			}
		} else {
			entry.IsStatic = false
		}
		if classIndex >= 0 {
			cls := &x.rec.Classes[classIndex]
			cls.Methods = append(cls.Methods, model.MethodSummary{
				Name:        entry.Name,
				MethodKind:  entry.MethodKind,
				IsStatic:    entry.IsStatic,
				Parameters:  entry.Parameters,
				IsAsync:     entry.IsAsync,
				IsGenerator: entry.IsGenerator,
			})
		}
		x.rec.Functions = append(x.rec.Functions, entry)
	}
}

// closeHeaders completes function headers whose pattern ends at the opening
// parenthesis. Headers whose list never closes or whose tail does not match
// are dropped.
func (x *extraction) closeHeaders(matches []match) []match {
	out := matches[:0]
	for _, m := range matches {
		closing, ok := closingParen(x.text, m.end-1, x.quotes())
		if !ok {
			continue
		}
		tail := x.rules.headerTail.FindStringIndex(x.text[closing+1:])
		if tail == nil {
			continue
		}
		m.groups["params"] = x.text[m.end:closing]
		m.end = closing + 1 + tail[1]
		out = append(out, m)
	}
	return out
}

func (x *extraction) quotes() string {
	if x.rules.quotes != "" {
		return x.rules.quotes
	}
	return defaultQuotes
}

func (x *extraction) classNamed(name string) int {
	for i, cls := range x.rec.Classes {
		if cls.Name == name {
			return i
		}
	}
	return -1
}

func isConstructor(name, owner string) bool {
	switch name {
	case owner, "__init__", "__construct", "initialize", "init", "New", "constructor":
		return true
	}
	return false
}

func firstToken(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// variables records declarations in source order. A declaration directly in
// a class body, outside every function body, becomes a field of that class.
func (x *extraction) variables() {
	type hit struct {
		m    match
		form string
	}
	var hits []hit
	for _, rule := range x.rules.variables {
		for _, m := range findAll(rule.re, x.text) {
			form := strings.TrimSpace(m.group("form"))
			if form == "" {
				form = rule.form
			}
			hits = append(hits, hit{m: m, form: form})
		}
	}
	slices.SortStableFunc(hits, func(a, b hit) int { return a.m.start - b.m.start })

	for _, h := range hits {
		m := h.m
		if x.rules.rejectKeywords && (controlKeywords[h.form] || controlKeywords[m.group("name")]) {
			continue
		}
		var value *string
		if m.has("value") {
			value = model.StringPtr(renderValue(m.group("value")))
		}

		if s, ok := innermost(x.scopes, m.start); ok && s.class >= 0 && !x.inFunctionBody(m.start) {
			cls := &x.rec.Classes[s.class]
			cls.Fields = append(cls.Fields, model.FieldEntry{
				Name:     m.group("name"),
				IsStatic: hasWord(m.group("mods")+" "+h.form, "static", "shared"),
				Value:    value,
			})
			continue
		}
		x.rec.Variables = append(x.rec.Variables, model.VariableEntry{
			DeclarationForm: h.form,
			Name:            m.group("name"),
			Value:           value,
			Line:            LineNumber(x.text, m.start),
			Span:            spanOf(x.text, m.start, m.end),
		})
	}
}

func (x *extraction) inFunctionBody(offset int) bool {
	_, ok := innermost(x.bodies, offset)
	return ok
}

// imports records imports in source order and mirrors them into the
// dependency view.
func (x *extraction) imports() {
	type hit struct {
		start int
		entry model.ImportEntry
	}
	var hits []hit
	for _, rule := range x.rules.imports {
		expand := rule.expand
		if expand == nil {
			expand = singleImport
		}
		for _, m := range findAll(rule.re, x.text) {
			for _, spec := range expand(m) {
				hits = append(hits, hit{start: m.start, entry: model.ImportEntry{
					Source:   spec.source,
					Kind:     rule.kind,
					Bindings: spec.bindings,
					Line:     LineNumber(x.text, m.start),
					Span:     spanOf(x.text, m.start, m.end),
				}})
			}
		}
	}
	slices.SortStableFunc(hits, func(a, b hit) int { return a.start - b.start })
	for _, h := range hits {
		x.rec.Imports = append(x.rec.Imports, h.entry)
		x.rec.Dependencies.Imports = append(x.rec.Dependencies.Imports, h.entry)
	}
}
