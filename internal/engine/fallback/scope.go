package fallback

import (
	"regexp"
	"slices"
	"strings"
)

// match is one regex hit. start skips the leading whitespace the pattern
// consumed so lines and spans point at the declaration itself.
type match struct {
	start, end int
	groups     map[string]string
}

func (m match) group(name string) string {
	return m.groups[name]
}

func (m match) has(name string) bool {
	_, ok := m.groups[name]
	return ok
}

func findAll(re *regexp.Regexp, text string) []match {
	names := re.SubexpNames()
	var out []match
	for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
		m := match{start: loc[0], end: loc[1], groups: make(map[string]string)}
		for m.start < m.end && isSpace(text[m.start]) {
			m.start++
		}
		for i, name := range names {
			if name == "" || loc[2*i] < 0 {
				continue
			}
			m.groups[name] = text[loc[2*i]:loc[2*i+1]]
		}
		out = append(out, m)
	}
	return out
}

// findAllOrdered runs every pattern and merges the hits in source order,
// keeping the first hit per start offset.
func findAllOrdered(patterns []*regexp.Regexp, text string) []match {
	var all []match
	for _, re := range patterns {
		all = append(all, findAll(re, text)...)
	}
	slices.SortStableFunc(all, func(a, b match) int { return a.start - b.start })
	return slices.CompactFunc(all, func(a, b match) bool { return a.start == b.start })
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// scope is a class or owner body. Functions and variables whose start lies
// strictly inside belong to it.
type scope struct {
	name       string
	class      int // index into Record.Classes, -1 for owner-only scopes
	start, end int
}

func (s scope) contains(offset int) bool {
	return s.start < offset && offset < s.end
}

// innermost returns the smallest scope containing offset.
func innermost(scopes []scope, offset int) (scope, bool) {
	var best scope
	found := false
	for _, s := range scopes {
		if s.contains(offset) && (!found || s.start > best.start) {
			best, found = s, true
		}
	}
	return best, found
}

// body locates the block that follows a declaration header. ok is false for
// declarations without a body (prototypes, expression bodies).
func body(text string, m match, style scopeStyle) (start, end int, ok bool) {
	switch style {
	case scopeBraces:
		open, found := braceOpen(text, m.end)
		if !found {
			return 0, 0, false
		}
		return open, blockEnd(text, open), true
	case scopeIndent:
		end := indentEnd(text, m.start)
		return m.start, end, end > m.end
	}
	return 0, 0, false
}

// braceOpen finds the "{" that opens the body of a header ending at
// headerEnd. A ";" or "}" first, or an "=>" expression body, means none. A
// body brace may sit on the following line.
func braceOpen(text string, headerEnd int) (int, bool) {
	if headerEnd > 0 && text[headerEnd-1] == '{' {
		return headerEnd - 1, true
	}
	for i := headerEnd; i < len(text); i++ {
		switch text[i] {
		case '{':
			return i, true
		case ';', '}':
			return 0, false
		case '=':
			if i+1 < len(text) && text[i+1] == '>' {
				return 0, false
			}
			return nextBrace(text, i+1)
		case '\n':
			return nextBrace(text, i+1)
		}
	}
	return 0, false
}

func nextBrace(text string, from int) (int, bool) {
	for from < len(text) && isSpace(text[from]) {
		from++
	}
	if from < len(text) && text[from] == '{' {
		return from, true
	}
	return 0, false
}

// blockEnd returns the offset just past the brace closing the block opened
// at open, or len(text) when it never closes. Double-quoted strings and C
// style comments are skipped.
func blockEnd(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '"':
			i = skipString(text, i)
		case '/':
			if i+1 >= len(text) {
				continue
			}
			switch text[i+1] {
			case '/':
				nl := strings.IndexByte(text[i:], '\n')
				if nl < 0 {
					return len(text)
				}
				i += nl
			case '*':
				end := strings.Index(text[i+2:], "*/")
				if end < 0 {
					return len(text)
				}
				i += end + 3
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(text)
}

// closingParen returns the offset of the ")" balancing the "(" at open.
// Brackets inside quoted strings are ignored.
func closingParen(text string, open int, quotes string) (int, bool) {
	depth := 0
	var quote byte
	for i := open; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch {
		case strings.IndexByte(quotes, c) >= 0:
			quote = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
			if depth == 0 {
				return i, c == ')'
			}
			if depth < 0 {
				return 0, false
			}
		}
	}
	return 0, false
}

func skipString(text string, i int) int {
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case '"', '\n':
			return j
		}
	}
	return len(text)
}

// indentEnd returns the end of the indented block introduced by the line at
// declStart: the start of the first later non-blank line indented no deeper
// than the declaration, with trailing whitespace trimmed.
func indentEnd(text string, declStart int) int {
	lineStart := strings.LastIndexByte(text[:declStart], '\n') + 1
	indent := indentWidth(text[lineStart:])

	nl := strings.IndexByte(text[declStart:], '\n')
	if nl < 0 {
		return len(text)
	}
	end := len(text)
	for pos := declStart + nl + 1; pos < len(text); {
		lineEnd := len(text)
		if next := strings.IndexByte(text[pos:], '\n'); next >= 0 {
			lineEnd = pos + next
		}
		line := text[pos:lineEnd]
		if strings.TrimSpace(line) != "" && indentWidth(line) <= indent {
			end = pos
			break
		}
		pos = lineEnd + 1
	}
	for end > declStart && isSpace(text[end-1]) {
		end--
	}
	return end
}

func indentWidth(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}
