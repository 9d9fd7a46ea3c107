package fallback

import (
	"regexp"
	"strings"

	"codeshape/internal/engine/model"
)

// importSpec is an import before position data is attached.
type importSpec struct {
	source   string
	bindings []model.ImportBinding
}

type importExpander func(m match) []importSpec

var goImportLine = regexp.MustCompile(`^(?:([\w.]+)[ \t]+)?"([^"]+)"`)

// singleImport reads the "source" group and an optional "alias" group.
func singleImport(m match) []importSpec {
	spec := importSpec{source: strings.TrimSpace(m.group("source")), bindings: []model.ImportBinding{}}
	if alias := strings.TrimSpace(m.group("alias")); alias != "" {
		spec.bindings = append(spec.bindings, model.ImportBinding{Form: model.BindingNamespace, Local: alias})
	}
	if spec.source == "" {
		return nil
	}
	return []importSpec{spec}
}

// importList expands "import a.b as c, d" into one import per module.
func importList(m match) []importSpec {
	var out []importSpec
	for _, part := range SplitTopLevel(m.group("list"), ',') {
		name, alias := splitAlias(part)
		if name == "" {
			continue
		}
		spec := importSpec{source: name, bindings: []model.ImportBinding{}}
		if alias != "" {
			spec.bindings = append(spec.bindings, model.ImportBinding{Form: model.BindingNamespace, Local: alias})
		}
		out = append(out, spec)
	}
	return out
}

// namedImport reads "from x import (a, b as c)".
func namedImport(m match) []importSpec {
	names := strings.TrimSpace(m.group("names"))
	names = strings.TrimSuffix(strings.TrimPrefix(names, "("), ")")
	return []importSpec{{source: strings.TrimSpace(m.group("source")), bindings: namedBindings(names)}}
}

// goImportBlock expands a parenthesized Go import block, one path per line.
func goImportBlock(m match) []importSpec {
	var out []importSpec
	for _, line := range strings.Split(m.group("block"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		sub := goImportLine.FindStringSubmatch(line)
		if sub == nil {
			continue
		}
		spec := importSpec{source: sub[2], bindings: []model.ImportBinding{}}
		if sub[1] != "" {
			spec.bindings = append(spec.bindings, model.ImportBinding{Form: model.BindingNamespace, Local: sub[1]})
		}
		out = append(out, spec)
	}
	return out
}

// treeImport handles grouped paths such as Rust "a::b::{C, D as E}" and
// Scala "a.b.{C, D => E}". Ungrouped paths fall back to a trailing alias.
func treeImport(m match) []importSpec {
	source := strings.TrimSpace(m.group("source"))
	open := strings.IndexByte(source, '{')
	if open < 0 || !strings.HasSuffix(source, "}") {
		name, alias := splitAlias(source)
		spec := importSpec{source: name, bindings: []model.ImportBinding{}}
		if alias != "" {
			spec.bindings = append(spec.bindings, model.ImportBinding{Form: model.BindingNamespace, Local: alias})
		}
		return []importSpec{spec}
	}
	prefix := strings.TrimRight(source[:open], ":.")
	return []importSpec{{source: prefix, bindings: namedBindings(source[open+1 : len(source)-1])}}
}

func namedBindings(list string) []model.ImportBinding {
	out := make([]model.ImportBinding, 0)
	for _, part := range SplitTopLevel(list, ',') {
		name, alias := splitAlias(part)
		if name == "" {
			continue
		}
		if alias == "" {
			alias = name
		}
		out = append(out, model.ImportBinding{Form: model.BindingNamed, Imported: name, Local: alias})
	}
	return out
}

// splitAlias splits "name as alias" or "name => alias".
func splitAlias(part string) (name, alias string) {
	part = strings.TrimSpace(part)
	for _, sep := range []string{" as ", "=>"} {
		if before, after, ok := strings.Cut(part, sep); ok {
			return strings.TrimSpace(before), strings.TrimSpace(after)
		}
	}
	return part, ""
}
