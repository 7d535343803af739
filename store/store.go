// Package store persists a run's output tree: generated preview artifacts
// and a snapshot of the final result record.
//
// Everything lands under a per-run directory on the local filesystem. The
// directory is writable only by the producing run; consumers only read the
// paths they are handed in the result record.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ArtifactWriter writes named files into a run's output tree.
type ArtifactWriter interface {
	// PutFile writes a file under the run directory.
	// The filename must not contain path separators or "..".
	PutFile(filename string, data []byte) error
	// Path returns the absolute path a filename lands at.
	Path(filename string) string
}

// DirStore is an ArtifactWriter backed by a local directory.
type DirStore struct {
	root string
}

// Verify DirStore implements ArtifactWriter.
var _ ArtifactWriter = (*DirStore)(nil)

// NewDirStore creates the run directory (and parents) and returns a store
// rooted at it.
func NewDirStore(root string) (*DirStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create results directory: %w", err)
	}
	return &DirStore{root: root}, nil
}

// Root returns the run directory.
func (s *DirStore) Root() string {
	return s.root
}

// PutFile writes data to <root>/<filename> via a temp file and rename, so a
// crashed write never leaves a half-written artifact behind.
func (s *DirStore) PutFile(filename string, data []byte) error {
	if err := validateFilename(filename); err != nil {
		return err
	}

	target := s.Path(filename)
	tmp, err := os.CreateTemp(s.root, "."+filename+".*")
	if err != nil {
		return fmt.Errorf("artifact temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write artifact %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close artifact %s: %w", filename, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("commit artifact %s: %w", filename, err)
	}
	return nil
}

// Path returns the absolute path for filename under the run directory.
func (s *DirStore) Path(filename string) string {
	return filepath.Join(s.root, filename)
}

func validateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("empty artifact filename")
	}
	if strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		return fmt.Errorf("invalid artifact filename %q", filename)
	}
	return nil
}

// StubWriter records PutFile calls for testing and can be told to fail for
// specific filenames.
type StubWriter struct {
	mu    sync.Mutex
	files map[string][]byte
	// FailOn maps filenames to the error PutFile should return for them.
	FailOn map[string]error
}

// Verify StubWriter implements ArtifactWriter.
var _ ArtifactWriter = (*StubWriter)(nil)

// NewStubWriter creates an empty stub writer.
func NewStubWriter() *StubWriter {
	return &StubWriter{
		files:  make(map[string][]byte),
		FailOn: make(map[string]error),
	}
}

// PutFile records the write, or fails if the filename is marked.
func (s *StubWriter) PutFile(filename string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.FailOn[filename]; ok {
		return err
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	s.files[filename] = buf
	return nil
}

// Path returns a synthetic path for filename.
func (s *StubWriter) Path(filename string) string {
	return filepath.Join("stub", filename)
}

// File returns the recorded bytes for filename, if any.
func (s *StubWriter) File(filename string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[filename]
	return data, ok
}

// Count returns the number of recorded files.
func (s *StubWriter) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}
