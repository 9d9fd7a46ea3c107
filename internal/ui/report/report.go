// Package report renders analysis records for people (text) and for tools
// (JSON, YAML).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"codeshape/internal/core/ports"
	"codeshape/internal/engine/model"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
}

// RenderOptions only affects the text format.
type RenderOptions struct {
	Color bool
}

// Render writes rec to w in the requested format.
func Render(w io.Writer, rec *model.Record, format Format, opts RenderOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, rec)
	case FormatYAML:
		return writeYAML(w, rec)
	case FormatText, "":
		return newTextWriter(w, opts).record(rec)
	}
	return fmt.Errorf("unsupported format %q", format)
}

// RenderScan writes a scan summary. Structured formats carry every record;
// the text format lists one line per file.
func RenderScan(w io.Writer, res ports.ScanResult, format Format, opts RenderOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, res)
	case FormatYAML:
		return writeYAML(w, res)
	case FormatText, "":
		return newTextWriter(w, opts).scan(res)
	}
	return fmt.Errorf("unsupported format %q", format)
}

// RenderUpdate writes one watch batch. Structured formats emit one document
// per batch so the stream stays parseable line by line (JSON) or by document
// separator (YAML).
func RenderUpdate(w io.Writer, update ports.WatchUpdate, format Format, opts RenderOptions) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		return enc.Encode(update.Results)
	case FormatYAML:
		if _, err := io.WriteString(w, "---\n"); err != nil {
			return err
		}
		return writeYAML(w, update.Results)
	case FormatText, "":
		return newTextWriter(w, opts).update(update)
	}
	return fmt.Errorf("unsupported format %q", format)
}

// Write encodes any value in a structured format. The text format has no
// generic rendering.
func Write(w io.Writer, v any, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, v)
	case FormatYAML:
		return writeYAML(w, v)
	}
	return fmt.Errorf("format %q needs a dedicated renderer", format)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
