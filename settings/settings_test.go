package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s != Default() {
		t.Fatalf("Load() = %+v, want defaults %+v", s, Default())
	}
}

func TestLoad_MalformedJSONIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load() succeeded on malformed JSON")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	want := Settings{
		DBSCANEps:        0.7,
		DBSCANMinSamples: 12,
		Denoise:          true,
		Normalize:        true,
		ResultsPath:      "/tmp/results",
		LogsPath:         "/tmp/logs",
		Theme:            "light",
	}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Fatalf("round trip = %+v, want %+v", got, want)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"denoise": true}`), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Denoise {
		t.Fatal("denoise not applied")
	}
	if got.DBSCANEps != Default().DBSCANEps {
		t.Fatalf("dbscan_eps = %v, want default %v", got.DBSCANEps, Default().DBSCANEps)
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(s Settings) bool
	}{
		{"dbscan_eps", "0.5", func(s Settings) bool { return s.DBSCANEps == 0.5 }},
		{"dbscan_min_samples", "4", func(s Settings) bool { return s.DBSCANMinSamples == 4 }},
		{"denoise", "true", func(s Settings) bool { return s.Denoise }},
		{"normalize", "true", func(s Settings) bool { return s.Normalize }},
		{"results_path", "/r", func(s Settings) bool { return s.ResultsPath == "/r" }},
		{"logs_path", "/l", func(s Settings) bool { return s.LogsPath == "/l" }},
		{"theme", "dark", func(s Settings) bool { return s.Theme == "dark" }},
	}

	for _, tt := range tests {
		s := Default()
		if err := s.Set(tt.key, tt.value); err != nil {
			t.Fatalf("Set(%s, %s): %v", tt.key, tt.value, err)
		}
		if !tt.check(s) {
			t.Errorf("Set(%s, %s) not applied", tt.key, tt.value)
		}
	}
}

func TestSet_Rejections(t *testing.T) {
	s := Default()
	if err := s.Set("unknown_key", "1"); err == nil {
		t.Error("Set accepted unknown key")
	}
	if err := s.Set("dbscan_eps", "not-a-number"); err == nil {
		t.Error("Set accepted non-numeric eps")
	}
	if err := s.Set("denoise", "maybe"); err == nil {
		t.Error("Set accepted non-boolean denoise")
	}
}
