package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	coreapp "codeshape/internal/core/app"
	"codeshape/internal/core/config"
	"codeshape/internal/core/ports"
	"codeshape/internal/engine/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	return runContext(t, context.Background(), stdin, args...)
}

func runContext(t *testing.T, ctx context.Context, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Run(ctx, args, Streams{In: strings.NewReader(stdin), Out: &out, Err: &errOut})
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

// workspace moves the test into an empty directory so no stray config file
// is picked up.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func decodeRecord(t *testing.T, data string) model.Record {
	t.Helper()
	var rec model.Record
	require.NoError(t, json.Unmarshal([]byte(data), &rec), data)
	return rec
}

func TestAnalyze_FileJSON(t *testing.T) {
	dir := workspace(t)
	path := writeSource(t, dir, "lib.js", "import fs from 'fs';\nexport function read(p) { return fs.readFileSync(p); }\n")

	res := run(t, "", "analyze", path, "--format", "json")
	require.Equal(t, 0, res.code, res.stderr)

	rec := decodeRecord(t, res.stdout)
	assert.Equal(t, path, rec.File)
	assert.Equal(t, "javascript", rec.Language)
	assert.False(t, rec.Partial)
	require.Len(t, rec.Functions, 1)
	assert.Equal(t, "read", rec.Functions[0].Name)
	require.Len(t, rec.Imports, 1)
	assert.Equal(t, "fs", rec.Imports[0].Source)
}

func TestAnalyze_TextFlag(t *testing.T) {
	workspace(t)

	res := run(t, "", "analyze", "--text", "const answer = 42;\n", "--format", "json")
	require.Equal(t, 0, res.code, res.stderr)

	rec := decodeRecord(t, res.stdout)
	assert.True(t, strings.HasPrefix(rec.File, "temp."), rec.File)
	require.Len(t, rec.Variables, 1)
	assert.Equal(t, "answer", rec.Variables[0].Name)
}

func TestAnalyze_Stdin(t *testing.T) {
	workspace(t)

	res := run(t, "function fromStdin(a, b) {}\n", "analyze", "--stdin", "--format", "json")
	require.Equal(t, 0, res.code, res.stderr)

	rec := decodeRecord(t, res.stdout)
	require.Len(t, rec.Functions, 1)
	assert.Equal(t, "fromStdin", rec.Functions[0].Name)
	assert.Equal(t, []string{"a", "b"}, rec.Functions[0].Parameters)
}

func TestAnalyze_ViewKeepsOneListing(t *testing.T) {
	dir := workspace(t)
	path := writeSource(t, dir, "mixed.js", "const x = 1;\nfunction f() {}\n")

	res := run(t, "", "analyze", path, "--view", "functions", "--format", "json")
	require.Equal(t, 0, res.code, res.stderr)

	rec := decodeRecord(t, res.stdout)
	assert.Len(t, rec.Functions, 1)
	assert.Empty(t, rec.Variables)
}

func TestAnalyze_TextOutput(t *testing.T) {
	dir := workspace(t)
	path := writeSource(t, dir, "svc.js", "function serve() {}\n")

	res := run(t, "", "analyze", path)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, path)
	assert.Contains(t, res.stdout, "serve(")
}

func TestAnalyze_YAMLOutput(t *testing.T) {
	dir := workspace(t)
	path := writeSource(t, dir, "y.js", "function y() {}\n")

	res := run(t, "", "analyze", path, "--format", "yaml")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "language: javascript")
	assert.Contains(t, res.stdout, "name: y")
}

func TestAnalyze_RequireKnownFails(t *testing.T) {
	dir := workspace(t)
	path := writeSource(t, dir, "notes.unknownext", "whatever\n")

	res := run(t, "", "analyze", path, "--require-known")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "error:")

	res = run(t, "", "analyze", path, "--format", "json")
	require.Equal(t, 0, res.code, res.stderr)
	rec := decodeRecord(t, res.stdout)
	assert.True(t, rec.Partial)
}

func TestAnalyze_MissingFile(t *testing.T) {
	dir := workspace(t)

	res := run(t, "", "analyze", filepath.Join(dir, "absent.js"))
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "absent.js")
}

func TestUsageErrors(t *testing.T) {
	workspace(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"analyze", "--bogus"}},
		{"no input", []string{"analyze"}},
		{"path and text", []string{"analyze", "a.js", "--text", "x"}},
		{"too many args", []string{"analyze", "a.js", "b.js"}},
		{"bad format", []string{"analyze", "--text", "x", "--format", "xml"}},
		{"bad view", []string{"analyze", "--text", "x", "--view", "nope"}},
		{"languages takes no args", []string{"languages", "extra"}},
		{"ui with json", []string{"watch", "--ui", "--format", "json"}},
		{"ui with yaml", []string{"watch", "--ui", "--format", "yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, "", tt.args...)
			assert.Equal(t, 2, res.code, res.stderr)
		})
	}
}

func TestInvalidConfigFile(t *testing.T) {
	dir := workspace(t)
	path := writeSource(t, dir, "bad.toml", "version = 7\n")

	res := run(t, "", "--config", path, "languages")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "load config")
}

func TestConfigFileSetsDefaultFormat(t *testing.T) {
	dir := workspace(t)
	writeSource(t, dir, config.DefaultFile, "[output]\nformat = \"json\"\n")

	res := run(t, "", "analyze", "--text", "function f() {}\n")
	require.Equal(t, 0, res.code, res.stderr)
	rec := decodeRecord(t, res.stdout)
	assert.Len(t, rec.Functions, 1)
}

func TestLanguages(t *testing.T) {
	workspace(t)

	res := run(t, "", "languages", "--format", "json")
	require.Equal(t, 0, res.code, res.stderr)

	var rows []languageInfo
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rows))
	require.NotEmpty(t, rows)

	byName := map[string]languageInfo{}
	for _, row := range rows {
		byName[row.Language] = row
	}
	js, ok := byName["javascript"]
	require.True(t, ok)
	assert.Equal(t, "syntax tree", js.Analysis)
	assert.Contains(t, js.Extensions, ".ts")
	assert.Equal(t, "pattern match", byName["python"].Analysis)

	res = run(t, "", "languages")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "LANGUAGE")
	assert.Contains(t, res.stdout, "javascript")
}

func TestScan(t *testing.T) {
	dir := workspace(t)
	writeSource(t, dir, "src/a.js", "function a() {}\n")
	writeSource(t, dir, "src/b.py", "import os\n\ndef b():\n    pass\n")
	writeSource(t, dir, "node_modules/dep/index.js", "function dep() {}\n")

	res := run(t, "", "scan", dir, "--workers", "2", "--format", "json")
	require.Equal(t, 0, res.code, res.stderr)

	var scan ports.ScanResult
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &scan))
	assert.Equal(t, 2, scan.Analyzed)
	assert.Equal(t, 0, scan.Failed)
	require.Len(t, scan.Files, 2)
	assert.Equal(t, filepath.Join(dir, "src", "a.js"), scan.Files[0].Path)
	assert.NotEmpty(t, scan.RunID)
}

func TestScan_MissingRoot(t *testing.T) {
	dir := workspace(t)
	res := run(t, "", "scan", filepath.Join(dir, "missing"))
	assert.Equal(t, 1, res.code)
}

func TestWatch_StopsOnCancel(t *testing.T) {
	dir := workspace(t)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	res := runContext(t, ctx, "", "watch", dir, "--metrics-addr", "127.0.0.1:0")
	assert.Equal(t, 0, res.code, res.stderr)
}

func TestWatchUI_QuitsAndLogsToFile(t *testing.T) {
	dir := workspace(t)
	logDir := t.TempDir()
	t.Setenv("CODESHAPE_PATHS_CACHE_DIR", logDir)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	res := runContext(t, ctx, "q", "watch", "--ui", dir)
	assert.Equal(t, 0, res.code, res.stderr)
	assert.NotContains(t, res.stderr, "watching for changes")
	assert.FileExists(t, filepath.Join(logDir, watchLogFile))
}

func TestObservabilityServer_Health(t *testing.T) {
	app, err := coreapp.New(config.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	server := NewObservabilityServer("127.0.0.1:0", coreapp.NewHealthService(app))

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var status coreapp.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "up", status.Status)
	assert.Equal(t, "idle", status.Components["watcher"])

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, colorEnabled("always", &buf))
	assert.False(t, colorEnabled("never", os.Stdout))
	assert.False(t, colorEnabled("auto", &buf))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, colorEnabled("auto", os.Stdout))
}
