package store

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/skysift-io/skysift/types"
)

// SnapshotName is the filename of the result snapshot within a run directory.
const SnapshotName = "result.msgpack"

// WriteSnapshot serializes the terminal result record into the run directory
// so a finished run can be re-rendered later without re-running.
func WriteSnapshot(w ArtifactWriter, result *types.AnalysisResult) error {
	data, err := msgpack.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result snapshot: %w", err)
	}
	return w.PutFile(SnapshotName, data)
}

// ReadSnapshot loads a result record previously written by WriteSnapshot.
func ReadSnapshot(path string) (*types.AnalysisResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read result snapshot: %w", err)
	}
	var result types.AnalysisResult
	if err := msgpack.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode result snapshot: %w", err)
	}
	return &result, nil
}
