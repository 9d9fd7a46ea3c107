package fallback

import (
	"regexp"
	"strings"

	"codeshape/internal/engine/model"
)

var (
	numberLiteral = regexp.MustCompile(`^[-+]?(?:0[xXbBoO][0-9a-fA-F_]+|\d[\d_]*(?:\.\d+)?(?:[eE][-+]?\d+)?)[a-zA-Z]*$`)
	plainName     = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
	withKeyword   = regexp.MustCompile(`\bwith\b`)
	accessWords   = map[string]bool{"public": true, "private": true, "protected": true, "virtual": true}
)

// renderValue is the shallow display form of an initializer, matching the
// tree path: strings unquoted, literals and plain names verbatim, list and
// map literals as placeholders, anything else unknown.
func renderValue(raw string) string {
	v := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), ";"))
	switch {
	case v == "":
		return model.Unknown
	case len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0]:
		return v[1 : len(v)-1]
	case numberLiteral.MatchString(v), plainName.MatchString(v):
		return v
	case v[0] == '[':
		return "[Array]"
	case v[0] == '{':
		return "{Object}"
	}
	return model.Unknown
}

// baseList normalizes a written list of base types: separators are commas,
// Scala "with" and Rust "+"; access specifiers and constructor arguments are
// dropped, as are keyword arguments such as Python's metaclass=.
func baseList(text string) []string {
	text = withKeyword.ReplaceAllString(text, ",")
	text = strings.ReplaceAll(text, "+", ",")
	var out []string
	for _, part := range SplitTopLevel(text, ',') {
		fields := strings.Fields(part)
		for len(fields) > 1 && accessWords[fields[0]] {
			fields = fields[1:]
		}
		name := strings.Join(fields, " ")
		if i := strings.IndexByte(name, '('); i >= 0 {
			name = strings.TrimSpace(name[:i])
		}
		if name == "" || strings.Contains(name, "=") {
			continue
		}
		out = append(out, name)
	}
	return out
}

// basesOf splits a class match into its superclass and interface list. The
// first entry of "super" or "bases" is the superclass; everything after it
// and everything in "ifaces" are interfaces.
func basesOf(m match) (*string, []string) {
	var super *string
	var ifaces []string
	for _, group := range []string{"super", "bases"} {
		list := baseList(m.group(group))
		if len(list) == 0 {
			continue
		}
		if super == nil {
			super = model.StringPtr(list[0])
			list = list[1:]
		}
		ifaces = append(ifaces, list...)
	}
	ifaces = append(ifaces, baseList(m.group("ifaces"))...)
	return super, ifaces
}

// hasWord reports whether text contains any of words as a whole,
// case-insensitive token.
func hasWord(text string, words ...string) bool {
	for _, field := range strings.Fields(text) {
		for _, w := range words {
			if strings.EqualFold(field, w) {
				return true
			}
		}
	}
	return false
}

// ownerName reduces a receiver or qualifier ("s *Server[T]", "Map<K, V>")
// to a bare type name.
func ownerName(raw string) string {
	if i := strings.IndexAny(raw, "[<"); i >= 0 {
		raw = raw[:i]
	}
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimLeft(fields[len(fields)-1], "*&")
}
