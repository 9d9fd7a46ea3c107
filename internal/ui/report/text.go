package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"codeshape/internal/core/ports"
	"codeshape/internal/engine/model"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title   func(...string) string
	heading func(...string) string
	label   func(...string) string
	muted   func(...string) string
	warn    func(...string) string
	fail    func(...string) string
}

func plain(strs ...string) string { return strings.Join(strs, " ") }

func newStyles(w io.Writer, color bool) styles {
	if !color {
		return styles{plain, plain, plain, plain, plain, plain}
	}
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true).Render,
		heading: r.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true).Render,
		label:   r.NewStyle().Bold(true).Render,
		muted:   r.NewStyle().Foreground(lipgloss.Color("#64748B")).Italic(true).Render,
		warn:    r.NewStyle().Foreground(lipgloss.Color("#FBBF24")).Render,
		fail:    r.NewStyle().Foreground(lipgloss.Color("#F87171")).Bold(true).Render,
	}
}

// textWriter accumulates the layout and remembers the first write error.
type textWriter struct {
	w   io.Writer
	st  styles
	err error
}

func newTextWriter(w io.Writer, opts RenderOptions) *textWriter {
	return &textWriter{w: w, st: newStyles(w, opts.Color)}
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *textWriter) record(rec *model.Record) error {
	t.header(rec)

	n := 0
	section := func(title string, count int, body func()) {
		if count == 0 {
			return
		}
		n++
		t.printf("\n%s\n", t.st.heading(fmt.Sprintf("%d. %s (%d)", n, title, count)))
		body()
	}

	section("Functions", len(rec.Functions), func() {
		for _, fn := range rec.Functions {
			t.printf("  - %s(%s)%s  %s\n", fn.Name, strings.Join(fn.Parameters, ", "),
				flags(functionFlags(fn)), t.st.muted(location(fn.Line, fn.Span)))
		}
	})
	section("Classes", len(rec.Classes), func() {
		for _, cls := range rec.Classes {
			t.printf("  - %s%s  %s\n", classSignature(cls), flags([]string{cls.Kind}), t.st.muted(location(cls.Line, cls.Span)))
			for _, m := range cls.Methods {
				var fl []string
				if m.MethodKind != model.MethodPlain {
					fl = append(fl, m.MethodKind)
				}
				fl = append(fl, asyncFlags(m.IsStatic, m.IsAsync, m.IsGenerator)...)
				t.printf("      %s %s(%s)%s\n", t.st.label("method"), m.Name, strings.Join(m.Parameters, ", "), flags(fl))
			}
			for _, f := range cls.Fields {
				var fl []string
				if f.IsStatic {
					fl = append(fl, "static")
				}
				t.printf("      %s %s%s%s\n", t.st.label("field"), f.Name, valueSuffix(f.Value), flags(fl))
			}
		}
	})
	section("Variables", len(rec.Variables), func() {
		for _, v := range rec.Variables {
			t.printf("  - %s %s%s  %s\n", v.DeclarationForm, v.Name, valueSuffix(v.Value), t.st.muted(location(v.Line, v.Span)))
		}
	})
	section("Imports", len(rec.Imports), func() {
		for _, imp := range rec.Imports {
			t.printf("  - %s%s%s  %s\n", imp.Source, flags([]string{imp.Kind}), bindingList(imp.Bindings), t.st.muted(location(imp.Line, imp.Span)))
		}
	})
	section("Exports", len(rec.Exports), func() {
		for _, exp := range rec.Exports {
			t.printf("  - %s%s  %s\n", exportSummary(exp), flags([]string{exp.Form}), t.st.muted(location(exp.Line, exp.Span)))
		}
	})
	deps := rec.Dependencies
	section("Module references", len(deps.ModuleReferences), func() {
		for _, ref := range deps.ModuleReferences {
			t.printf("  - %s%s  %s\n", ref.Module, flags([]string{ref.Kind}), t.st.muted(location(ref.Line, ref.Span)))
		}
	})
	section("Calls", len(deps.CallReferences), func() {
		for _, call := range deps.CallReferences {
			t.printf("  - %s()  %s\n", call.Name, t.st.muted(location(call.Line, call.Span)))
		}
	})
	section("Property accesses", len(deps.PropertyReferences), func() {
		for _, p := range deps.PropertyReferences {
			access := p.Object + "." + p.Property
			if p.Computed {
				access = p.Object + "[" + p.Property + "]"
			}
			t.printf("  - %s  %s\n", access, t.st.muted(location(p.Line, p.Span)))
		}
	})

	if n == 0 {
		t.printf("\n%s\n", t.st.muted("no declarations found"))
	}
	return t.err
}

func (t *textWriter) header(rec *model.Record) {
	lang := rec.Language
	if rec.Dialect != "" && rec.Dialect != rec.Language {
		lang += " (" + rec.Dialect + ")"
	}
	analysis := "syntax tree"
	if rec.Partial {
		analysis = t.st.warn("pattern match (partial)")
	}

	t.printf("%s\n", t.st.title(rec.File))
	t.printf("%s %s\n", t.st.label("Language:"), lang)
	t.printf("%s %s\n", t.st.label("Analysis:"), analysis)
	if rec.Note != "" {
		t.printf("%s %s\n", t.st.label("Note:"), t.st.muted(rec.Note))
	}
}

func (t *textWriter) scan(res ports.ScanResult) error {
	t.printf("%s\n", t.st.title("Scan of "+res.Root))
	t.printf("%s %s\n", t.st.label("Run:"), res.RunID)
	t.printf("%s %d analyzed, %d failed in %s\n\n", t.st.label("Files:"), res.Analyzed, res.Failed, res.Duration.Round(time.Millisecond))
	for _, fr := range res.Files {
		t.fileLine(fr)
	}
	return t.err
}

func (t *textWriter) update(u ports.WatchUpdate) error {
	for _, fr := range u.Results {
		t.fileLine(fr)
	}
	return t.err
}

func (t *textWriter) fileLine(fr ports.FileResult) {
	switch {
	case fr.Removed:
		t.printf("%s  %s\n", fr.Path, t.st.muted("removed"))
	case fr.Err != nil || fr.Error != "":
		msg := fr.Error
		if msg == "" {
			msg = fr.Err.Error()
		}
		t.printf("%s  %s\n", fr.Path, t.st.fail("error: "+msg))
	case fr.Record != nil:
		rec := fr.Record
		summary := fmt.Sprintf("%d functions, %d classes, %d variables, %d imports",
			len(rec.Functions), len(rec.Classes), len(rec.Variables), len(rec.Imports))
		lang := rec.Language
		if rec.Partial {
			lang += "*"
		}
		t.printf("%s  %s  %s\n", fr.Path, t.st.label(lang), summary)
	}
}

func functionFlags(fn model.FunctionEntry) []string {
	fl := []string{fn.Kind}
	if fn.DeclaringClass != "" {
		fl = append(fl, "in "+fn.DeclaringClass)
	}
	if fn.MethodKind != "" && fn.MethodKind != model.MethodPlain {
		fl = append(fl, fn.MethodKind)
	}
	return append(fl, asyncFlags(fn.IsStatic, fn.IsAsync, fn.IsGenerator)...)
}

func asyncFlags(static, async, generator bool) []string {
	var fl []string
	if static {
		fl = append(fl, "static")
	}
	if async {
		fl = append(fl, "async")
	}
	if generator {
		fl = append(fl, "generator")
	}
	return fl
}

func flags(fl []string) string {
	if len(fl) == 0 {
		return ""
	}
	return " [" + strings.Join(fl, ", ") + "]"
}

func classSignature(cls model.ClassEntry) string {
	sig := cls.Name
	if cls.Superclass != nil {
		sig += " extends " + *cls.Superclass
	}
	if len(cls.Interfaces) > 0 {
		sig += " implements " + strings.Join(cls.Interfaces, ", ")
	}
	return sig
}

func valueSuffix(v *string) string {
	if v == nil {
		return ""
	}
	return " = " + *v
}

func bindingList(bindings []model.ImportBinding) string {
	if len(bindings) == 0 {
		return ""
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		switch {
		case b.Form == model.BindingNamespace:
			parts = append(parts, "* as "+b.Local)
		case b.Imported != "" && b.Imported != b.Local:
			parts = append(parts, b.Imported+" as "+b.Local)
		default:
			parts = append(parts, b.Local)
		}
	}
	return " {" + strings.Join(parts, ", ") + "}"
}

func exportSummary(exp model.ExportEntry) string {
	var s string
	switch {
	case exp.Name != "":
		s = exp.Name
	case len(exp.Bindings) > 0:
		parts := make([]string, 0, len(exp.Bindings))
		for _, b := range exp.Bindings {
			if b.Local == b.Exported {
				parts = append(parts, b.Local)
			} else {
				parts = append(parts, b.Local+" as "+b.Exported)
			}
		}
		s = "{" + strings.Join(parts, ", ") + "}"
	default:
		s = "*"
	}
	if exp.Source != "" {
		s += " from " + exp.Source
	}
	return s
}

// location prefers the span's line range and falls back to the start line.
func location(line int, span *model.Span) string {
	if span != nil && span.End.Line > span.Start.Line {
		return fmt.Sprintf("lines %d-%d", span.Start.Line, span.End.Line)
	}
	if span != nil && span.Start.Line > 0 {
		line = span.Start.Line
	}
	if line <= 0 {
		return ""
	}
	return fmt.Sprintf("line %d", line)
}
