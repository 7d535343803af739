// Package history persists the most-recently-used input paths.
//
// The on-disk format is a JSON array of strings, most-recent first, capped
// at MaxEntries. A missing or malformed file loads as an empty list; history
// is a convenience, never a crash.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MaxEntries caps the history list. Inserting beyond the cap evicts the
// oldest entry.
const MaxEntries = 10

// Store reads and writes the history file.
type Store struct {
	path string
}

// NewStore creates a store backed by the file at path. The file is created
// lazily on first Add.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the history list, most-recent first. Missing or malformed
// files yield an empty list.
func (s *Store) Load() []string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries
}

// Add inserts path at the front, de-duplicating (an existing entry moves to
// the front) and evicting beyond MaxEntries, then persists the list.
// Returns the updated list.
func (s *Store) Add(path string) ([]string, error) {
	entries := s.Load()

	out := make([]string, 0, len(entries)+1)
	out = append(out, path)
	for _, e := range entries {
		if e != path {
			out = append(out, e)
		}
	}
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}

	if err := s.save(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Clear removes the history file.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (s *Store) save(entries []string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit history: %w", err)
	}
	return nil
}
