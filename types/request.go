package types

import "errors"

// ErrEmptyInputPath is returned when a run is requested without an input file.
var ErrEmptyInputPath = errors.New("input path must not be empty")

// RunRequest describes a single analysis run: the input file to analyze and
// the preset label to analyze it with.
//
// Validation is a consumer-side precondition: the shell rejects an empty
// input path before a run is ever handed to the runner.
type RunRequest struct {
	// InputPath is the path to the file to analyze.
	InputPath string `json:"input_path" msgpack:"input_path"`
	// Preset is the analysis preset label (e.g. "DBSCAN (fast)").
	Preset string `json:"preset" msgpack:"preset"`
}

// Validate checks the request preconditions.
func (r RunRequest) Validate() error {
	if r.InputPath == "" {
		return ErrEmptyInputPath
	}
	return nil
}
