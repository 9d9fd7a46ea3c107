package fallback

import (
	"regexp"
	"strings"
)

// paramStyle selects how a parameter name is read out of one declared
// parameter.
type paramStyle int

const (
	paramNameFirst    paramStyle = iota // Go: "a int"
	paramNameLast                       // C family, Java, C#: "int a"
	paramBeforeColon                    // Rust, Swift, Kotlin, Scala: "a: Int"
	paramBeforeAs                       // VB: "ByVal a As Integer"
	paramDollar                         // PHP: "int $a = 1"
	paramStripDefault                   // Python, Ruby: "a=1", "a: int", "a:"
)

const defaultQuotes = "\"'`"

var phpParamName = regexp.MustCompile(`\$[A-Za-z_]\w*`)

// SplitTopLevel splits s on sep, ignoring separators nested in brackets,
// generic angle brackets or quoted strings.
func SplitTopLevel(s string, sep rune) []string {
	return splitTopLevel(s, sep, defaultQuotes)
}

func splitTopLevel(s string, sep rune, quotes string) []string {
	var parts []string
	var depth, angle int
	var quote rune
	escaped := false
	start := 0

	for i, r := range s {
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == quote:
				quote = 0
			}
			continue
		}
		switch {
		case strings.ContainsRune(quotes, r):
			quote = r
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			if depth > 0 {
				depth--
			}
		case r == '<':
			angle++
		case r == '>':
			// "->" and "=>" never open a generic list.
			if angle > 0 {
				angle--
			}
		case r == sep && depth == 0 && angle == 0:
			parts = append(parts, s[start:i])
			start = i + len(string(r))
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// parameterNames splits a raw parameter list and applies style to each part.
// Empty parts and parts that name nothing are dropped.
func parameterNames(raw string, style paramStyle, quotes string) []string {
	out := make([]string, 0)
	if strings.TrimSpace(raw) == "" {
		return out
	}
	for _, part := range splitTopLevel(raw, ',', quotes) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if name := parameterName(part, style, quotes); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func parameterName(part string, style paramStyle, quotes string) string {
	switch style {
	case paramNameFirst:
		fields := strings.Fields(part)
		return fields[0]
	case paramNameLast:
		fields := strings.Fields(cutTopLevel(part, '=', quotes))
		if len(fields) == 0 {
			return ""
		}
		if len(fields) == 1 && fields[0] == "void" {
			return ""
		}
		name := strings.TrimLeft(fields[len(fields)-1], "*&")
		return strings.TrimSuffix(name, "[]")
	case paramBeforeColon:
		head := cutTopLevel(cutTopLevel(part, '=', quotes), ':', quotes)
		fields := strings.Fields(head)
		if len(fields) == 0 {
			return ""
		}
		return strings.TrimLeft(fields[len(fields)-1], "&*")
	case paramBeforeAs:
		fields := strings.Fields(cutTopLevel(part, '=', quotes))
		name := ""
		for i, f := range fields {
			if strings.EqualFold(f, "As") && i > 0 {
				name = fields[i-1]
				break
			}
		}
		if name == "" && len(fields) > 0 {
			name = fields[len(fields)-1]
		}
		return strings.TrimSuffix(name, "()")
	case paramDollar:
		return phpParamName.FindString(part)
	case paramStripDefault:
		name := strings.TrimSpace(cutTopLevel(cutTopLevel(part, '=', quotes), ':', quotes))
		if name == "*" || name == "/" {
			return ""
		}
		return name
	}
	return part
}

// cutTopLevel returns the part of s before the first top-level sep.
func cutTopLevel(s string, sep rune, quotes string) string {
	return splitTopLevel(s, sep, quotes)[0]
}
