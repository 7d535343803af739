package render

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skysift-io/skysift/types"
)

func sampleResult(t *testing.T) *types.AnalysisResult {
	t.Helper()
	waterfall := filepath.Join(t.TempDir(), "waterfall.png")
	if err := os.WriteFile(waterfall, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	return &types.AnalysisResult{
		Metadata: []types.MetadataEntry{
			{Label: "File", Value: "sample.dat"},
			{Label: "Preset", Value: "DBSCAN (fast)"},
		},
		Waterfall: waterfall,
		WindowScores: []types.WindowScore{
			{WindowID: "000", Score: "90%", Cluster: "A"},
			{WindowID: "001", Score: "89%", Cluster: "A"},
		},
		Candidates: []types.Candidate{
			{ID: "C-00", Frequency: "1420.0 MHz", Status: types.CandidateStatusRFI},
			{ID: "C-01", Frequency: "1420.5 MHz", Status: types.CandidateStatusInteresting},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"table", FormatTable, false},
		{"yaml", FormatYAML, false},
		{"JSON", FormatJSON, false},
		{"", "", false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRenderResult_Table(t *testing.T) {
	result := sampleResult(t)
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, &buf)

	if err := r.RenderResult(result); err != nil {
		t.Fatalf("RenderResult: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"File:", "sample.dat",
		"Waterfall preview:", result.Waterfall,
		"WINDOW", "SCORE", "CLUSTER",
		"000", "90%",
		"ID", "FREQUENCY", "STATUS",
		"C-00", "1420.0 MHz", "RFI",
		"C-01", "interesting",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}

	// Absent artifacts render as the placeholder, not a path and not an error.
	if !strings.Contains(out, Placeholder) {
		t.Errorf("table output missing %q for absent artifacts:\n%s", Placeholder, out)
	}
}

func TestRenderResult_FailureRendersOnlyError(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, &buf)

	if err := r.RenderResult(types.NewFailureResult("analyzer fault")); err != nil {
		t.Fatalf("RenderResult: %v", err)
	}
	if got, want := buf.String(), "analysis failed: analyzer fault\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestRenderResult_JSON(t *testing.T) {
	result := sampleResult(t)
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatJSON, &buf)

	if err := r.RenderResult(result); err != nil {
		t.Fatalf("RenderResult: %v", err)
	}

	var decoded types.AnalysisResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.WindowScores) != 2 || decoded.WindowScores[0].WindowID != "000" {
		t.Fatalf("decoded window scores = %+v", decoded.WindowScores)
	}
	if len(decoded.Candidates) != 2 || decoded.Candidates[1].Status != types.CandidateStatusInteresting {
		t.Fatalf("decoded candidates = %+v", decoded.Candidates)
	}
}

func TestRender_StringListAsTable(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, &buf)

	if err := r.Render([]string{"/a/first.dat", "/b/second.dat"}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got, want := buf.String(), "/a/first.dat\n/b/second.dat\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestRender_StructAsTableUsesJSONTags(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, &buf)

	data := struct {
		DBSCANEps float64 `json:"dbscan_eps"`
		Theme     string  `json:"theme"`
	}{DBSCANEps: 0.35, Theme: "dark"}

	if err := r.Render(data); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "dbscan_eps:") || !strings.Contains(out, "0.35") {
		t.Errorf("output missing tagged field:\n%s", out)
	}
	if !strings.Contains(out, "theme:") || !strings.Contains(out, "dark") {
		t.Errorf("output missing theme field:\n%s", out)
	}
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatYAML, &buf)

	if err := r.Render(map[string]string{"theme": "dark"}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "theme: dark") {
		t.Fatalf("yaml output = %q", buf.String())
	}
}

func TestArtifactLine(t *testing.T) {
	present := filepath.Join(t.TempDir(), "map.png")
	if err := os.WriteFile(present, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		ref  types.ArtifactRef
		want string
	}{
		{"present file", types.ArtifactRef{Name: "activity_map", Path: present}, present},
		{"empty path", types.ArtifactRef{Name: "waterfall"}, Placeholder},
		{"missing file", types.ArtifactRef{Name: "waterfall", Path: "/nope/gone.png"}, Placeholder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ArtifactLine(tt.ref); got != tt.want {
				t.Fatalf("ArtifactLine() = %q, want %q", got, tt.want)
			}
		})
	}
}
