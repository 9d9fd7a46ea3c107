package report

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"codeshape/internal/core/ports"
	"codeshape/internal/engine/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func strPtr(s string) *string { return &s }

func sampleRecord() *model.Record {
	rec := model.NewRecord("src/app.ts", "javascript")
	rec.Dialect = "typescript"
	rec.Functions = []model.FunctionEntry{
		{Kind: model.FunctionDeclaration, Name: "main", Parameters: []string{"argv", "...rest"}, IsAsync: true, Line: 3,
			Span: &model.Span{Start: model.Position{Line: 3}, End: model.Position{Line: 9}}},
		{Kind: model.FunctionMethod, Name: "run", Parameters: []string{}, DeclaringClass: "Svc", MethodKind: model.MethodPlain, IsStatic: true, Line: 12},
	}
	rec.Classes = []model.ClassEntry{{
		Kind:       model.ClassDeclaration,
		Name:       "Svc",
		Superclass: strPtr("Base"),
		Interfaces: []string{"Api"},
		Methods:    []model.MethodSummary{{Name: "constructor", MethodKind: model.MethodConstructor, Parameters: []string{"id"}}},
		Fields:     []model.FieldEntry{{Name: "count", IsStatic: true, Value: strPtr("0")}},
		Line:       11,
	}}
	rec.Variables = []model.VariableEntry{{DeclarationForm: "const", Name: "{a, b}", Value: strPtr("{Object}"), Line: 1}}
	rec.Imports = []model.ImportEntry{{
		Source: "fs", Kind: model.ModuleImport, Line: 2,
		Bindings: []model.ImportBinding{
			{Form: model.BindingNamed, Imported: "readFile", Local: "rf"},
			{Form: model.BindingNamespace, Local: "ns"},
		},
	}}
	rec.Exports = []model.ExportEntry{{Form: model.ExportReexportAll, Source: "./lib", Line: 20}}
	rec.Dependencies.CallReferences = []model.CallReference{{Name: "console.log", Line: 5}}
	rec.Dependencies.PropertyReferences = []model.PropertyReference{{Object: "arr", Property: "i", Computed: true, Line: 6}}
	return rec
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "TEXT": FormatText, " json ": FormatJSON, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestRender_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleRecord(), FormatText, RenderOptions{}))
	out := buf.String()

	for _, want := range []string{
		"src/app.ts\n",
		"Language: javascript (typescript)",
		"Analysis: syntax tree",
		"1. Functions (2)",
		"  - main(argv, ...rest) [declaration, async]  lines 3-9",
		"  - run() [method, in Svc, static]  line 12",
		"2. Classes (1)",
		"  - Svc extends Base implements Api [declaration]  line 11",
		"      method constructor(id) [constructor]",
		"      field count = 0 [static]",
		"3. Variables (1)",
		"  - const {a, b} = {Object}  line 1",
		"4. Imports (1)",
		"  - fs [import] {readFile as rf, * as ns}  line 2",
		"5. Exports (1)",
		"  - * from ./lib [reexportAll]  line 20",
		"6. Calls (1)",
		"  - console.log()  line 5",
		"7. Property accesses (1)",
		"  - arr[i]  line 6",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Module references", "empty sections are omitted")
	assert.NotContains(t, out, "\x1b[", "no styling without color")
}

func TestRender_TextPartialAndEmpty(t *testing.T) {
	rec := model.NewRecord("temp.rb", "ruby")
	rec.Partial = true
	rec.Note = "best effort"

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, rec, FormatText, RenderOptions{}))
	out := buf.String()
	assert.Contains(t, out, "Analysis: pattern match (partial)")
	assert.Contains(t, out, "Note: best effort")
	assert.Contains(t, out, "no declarations found")
}

func TestRender_JSONKeepsEveryListing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleRecord().Filter(model.ViewFunctions), FormatJSON, RenderOptions{}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "src/app.ts", decoded["file"])
	assert.Len(t, decoded["functions"], 2)
	assert.Equal(t, []any{}, decoded["classes"], "filtered listings serialize as empty arrays")

	empty := model.NewRecord("x.js", "javascript")
	buf.Reset()
	require.NoError(t, Render(&buf, empty, FormatJSON, RenderOptions{}))
	assert.Contains(t, buf.String(), `"functions": []`)
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleRecord(), FormatYAML, RenderOptions{}))

	var decoded model.Record
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "typescript", decoded.Dialect)
	require.Len(t, decoded.Classes, 1)
	assert.Equal(t, "Base", *decoded.Classes[0].Superclass)
}

func TestRender_UnknownFormat(t *testing.T) {
	assert.Error(t, Render(&bytes.Buffer{}, sampleRecord(), Format("xml"), RenderOptions{}))
}

func TestRenderScan(t *testing.T) {
	res := ports.ScanResult{
		RunID:    "run-1",
		Root:     "proj",
		Duration: 1500 * time.Millisecond,
		Analyzed: 1,
		Failed:   1,
		Files: []ports.FileResult{
			{Path: "proj/a.ts", Record: sampleRecord()},
			{Path: "proj/b.js", Err: stderrors.New("boom"), Error: "boom"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderScan(&buf, res, FormatText, RenderOptions{}))
	out := buf.String()
	assert.Contains(t, out, "Scan of proj")
	assert.Contains(t, out, "Files: 1 analyzed, 1 failed in 1.5s")
	assert.Contains(t, out, "proj/a.ts  javascript  2 functions, 1 classes, 1 variables, 1 imports")
	assert.Contains(t, out, "proj/b.js  error: boom")

	buf.Reset()
	require.NoError(t, RenderScan(&buf, res, FormatJSON, RenderOptions{}))
	assert.Contains(t, buf.String(), `"runId": "run-1"`)
	assert.Contains(t, buf.String(), `"error": "boom"`)
}

func TestRenderUpdate(t *testing.T) {
	update := ports.WatchUpdate{Results: []ports.FileResult{
		{Path: "gone.py", Removed: true},
		{Path: "x.rb", Record: func() *model.Record { r := model.NewRecord("x.rb", "ruby"); r.Partial = true; return r }()},
	}}

	var buf bytes.Buffer
	require.NoError(t, RenderUpdate(&buf, update, FormatText, RenderOptions{}))
	assert.Contains(t, buf.String(), "gone.py  removed")
	assert.Contains(t, buf.String(), "x.rb  ruby*  0 functions")

	buf.Reset()
	require.NoError(t, RenderUpdate(&buf, update, FormatJSON, RenderOptions{}))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "one JSON line per batch")
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "", location(0, nil))
	assert.Equal(t, "line 4", location(4, nil))
	assert.Equal(t, "line 7", location(4, &model.Span{Start: model.Position{Line: 7}, End: model.Position{Line: 7}}))
	assert.Equal(t, "lines 2-5", location(2, &model.Span{Start: model.Position{Line: 2}, End: model.Position{Line: 5}}))
}
