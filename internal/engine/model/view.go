package model

import (
	"fmt"
	"strings"
)

// View selects which listings of a record are presented.
type View string

const (
	ViewAll          View = "all"
	ViewFunctions    View = "functions"
	ViewClasses      View = "classes"
	ViewVariables    View = "variables"
	ViewDependencies View = "dependencies"
)

var views = []View{ViewAll, ViewFunctions, ViewClasses, ViewVariables, ViewDependencies}

// Views lists every accepted view in display order.
func Views() []View {
	out := make([]View, len(views))
	copy(out, views)
	return out
}

// ParseView accepts a view name case-insensitively. The empty string means all.
func ParseView(s string) (View, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ViewAll, nil
	}
	for _, v := range views {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q (want one of all, functions, classes, variables, dependencies)", s)
}

// Includes reports whether a listing section is part of the view.
func (v View) Includes(section View) bool {
	return v == ViewAll || v == "" || v == section
}

// Filter returns a shallow copy of r in which listings outside the view are
// empty, so they still serialize as [] like an unfiltered record. The
// dependencies view keeps imports and exports alongside the
// dependency view. The receiver is left untouched.
func (r *Record) Filter(v View) *Record {
	out := *r
	if v == ViewAll || v == "" {
		return &out
	}
	if !v.Includes(ViewFunctions) {
		out.Functions = []FunctionEntry{}
	}
	if !v.Includes(ViewClasses) {
		out.Classes = []ClassEntry{}
	}
	if !v.Includes(ViewVariables) {
		out.Variables = []VariableEntry{}
	}
	if !v.Includes(ViewDependencies) {
		out.Imports = []ImportEntry{}
		out.Exports = []ExportEntry{}
		out.Dependencies = DependencyView{
			Imports:            []ImportEntry{},
			ModuleReferences:   []ModuleReference{},
			CallReferences:     []CallReference{},
			PropertyReferences: []PropertyReference{},
		}
	}
	return &out
}
