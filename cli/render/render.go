// Package render provides output rendering for the skysift CLI.
//
// Format selection rules:
//   - If output is a TTY, default to table
//   - If output is not a TTY, default to json
//   - --format always overrides defaults
//   - Invalid formats are errors
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/skysift-io/skysift/types"
)

// Placeholder is rendered for an absent or unreadable artifact reference.
// Absence is a valid state, never an error.
const Placeholder = "(no preview)"

// Format represents an output format.
type Format string

// Supported formats.
const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses a format string, returning an error for invalid formats.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "table":
		return FormatTable, nil
	case "yaml":
		return FormatYAML, nil
	case "":
		return "", nil // Let caller decide default
	default:
		return "", fmt.Errorf("invalid format: %q (must be json, table, or yaml)", s)
	}
}

// Renderer handles output formatting.
type Renderer struct {
	format Format
	out    io.Writer
}

// NewRenderer creates a renderer from CLI context, applying the format
// selection rules.
func NewRenderer(c *cli.Context) (*Renderer, error) {
	format, err := ParseFormat(c.String("format"))
	if err != nil {
		return nil, err
	}

	if format == "" {
		if isTTY(os.Stdout) {
			format = FormatTable
		} else {
			format = FormatJSON
		}
	}

	return &Renderer{format: format, out: os.Stdout}, nil
}

// NewRendererWithWriter creates a renderer with a custom writer (for testing).
func NewRendererWithWriter(format Format, out io.Writer) *Renderer {
	return &Renderer{format: format, out: out}
}

// Render outputs arbitrary data in the configured format. Table format
// falls back to one "%v" line; use RenderResult for result records.
func (r *Renderer) Render(data any) error {
	switch r.format {
	case FormatJSON:
		return r.renderJSON(data)
	case FormatYAML:
		return r.renderYAML(data)
	case FormatTable:
		if lines, ok := data.([]string); ok {
			for _, line := range lines {
				fmt.Fprintln(r.out, line)
			}
			return nil
		}
		return r.renderStructTable(data)
	default:
		return fmt.Errorf("unknown format: %s", r.format)
	}
}

// RenderResult outputs a terminal result record. Failure records render only
// the error; success records render metadata as label: value lines, the
// artifact references (absent ones as Placeholder), and both tables in
// order.
func (r *Renderer) RenderResult(result *types.AnalysisResult) error {
	if result.Failed() {
		_, err := fmt.Fprintf(r.out, "analysis failed: %s\n", result.ErrorMessage)
		return err
	}

	switch r.format {
	case FormatJSON:
		return r.renderJSON(result)
	case FormatYAML:
		return r.renderYAML(result)
	case FormatTable:
		return r.renderResultTable(result)
	default:
		return fmt.Errorf("unknown format: %s", r.format)
	}
}

func (r *Renderer) renderJSON(data any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (r *Renderer) renderYAML(data any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}

func (r *Renderer) renderResultTable(result *types.AnalysisResult) error {
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)

	for _, m := range result.Metadata {
		fmt.Fprintf(w, "%s:\t%s\n", m.Label, m.Value)
	}
	fmt.Fprintln(w)

	for _, a := range result.Artifacts() {
		fmt.Fprintf(w, "%s:\t%s\n", a.Title, ArtifactLine(a))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "WINDOW\tSCORE\tCLUSTER")
	for _, ws := range result.WindowScores {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ws.WindowID, ws.Score, ws.Cluster)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "ID\tFREQUENCY\tSTATUS")
	for _, c := range result.Candidates {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Frequency, c.Status)
	}

	return w.Flush()
}

// renderStructTable renders a struct as label: value lines, using json tags
// for the labels when present.
func (r *Renderer) renderStructTable(data any) error {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		_, err := fmt.Fprintf(r.out, "%v\n", data)
		return err
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
			name = strings.Split(tag, ",")[0]
		}
		fmt.Fprintf(w, "%s:\t%v\n", name, v.Field(i).Interface())
	}
	return w.Flush()
}

// ArtifactLine returns the display string for an artifact reference: its
// path when the file is present, Placeholder otherwise.
func ArtifactLine(a types.ArtifactRef) string {
	if a.Path == "" {
		return Placeholder
	}
	if _, err := os.Stat(a.Path); err != nil {
		return Placeholder
	}
	return a.Path
}

func isTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
