// Package types defines core domain types for the skysift shell.
//
//nolint:revive // types is a common Go package naming convention
package types

// Candidate status labels. A candidate is either classified as terrestrial
// interference or flagged for follow-up.
const (
	CandidateStatusRFI         = "RFI"
	CandidateStatusInteresting = "interesting"
)

// MetadataEntry is one label/value line of result metadata.
// Metadata is an ordered sequence, not a map: display order is part of the
// result contract.
type MetadataEntry struct {
	Label string `json:"label" msgpack:"label"`
	Value string `json:"value" msgpack:"value"`
}

// WindowScore is one ranked window of input data.
type WindowScore struct {
	// WindowID is the zero-padded window identifier (e.g. "003").
	WindowID string `json:"window_id" msgpack:"window_id"`
	// Score is the display score (e.g. "87%").
	Score string `json:"score" msgpack:"score"`
	// Cluster is the cluster label the window was assigned to.
	Cluster string `json:"cluster" msgpack:"cluster"`
}

// Candidate is one detected-signal entry.
type Candidate struct {
	// ID is the candidate identifier (e.g. "C-03").
	ID string `json:"id" msgpack:"id"`
	// Frequency is the display frequency (e.g. "1421.5 MHz").
	Frequency string `json:"frequency" msgpack:"frequency"`
	// Status is CandidateStatusRFI or CandidateStatusInteresting.
	Status string `json:"status" msgpack:"status"`
}

// AnalysisResult is the terminal payload of a run. It is produced exactly
// once per run and is immutable after the terminal event delivers it.
//
// A result is either a well-formed success (ErrorMessage empty, artifacts
// attempted) or a failure (ErrorMessage non-empty, every other field
// meaningless). Producers must never leak a partially populated success
// record: on an internal fault the partial state is discarded and a failure
// record is emitted instead.
type AnalysisResult struct {
	// Metadata is the ordered label/value summary of the input file.
	Metadata []MetadataEntry `json:"metadata" msgpack:"metadata"`

	// Artifact references. Each is a filesystem path to a generated preview
	// image; an empty string means the artifact is absent, which is valid
	// and renders as a placeholder, never an error.
	Waterfall        string `json:"waterfall,omitempty" msgpack:"waterfall,omitempty"`
	ActivityMap      string `json:"activity_map,omitempty" msgpack:"activity_map,omitempty"`
	WindowPreview    string `json:"window_preview,omitempty" msgpack:"window_preview,omitempty"`
	CandidatePreview string `json:"candidate_preview,omitempty" msgpack:"candidate_preview,omitempty"`

	// WindowScores is the ordered ranked-window table.
	WindowScores []WindowScore `json:"window_scores" msgpack:"window_scores"`
	// Candidates is the ordered candidate table.
	Candidates []Candidate `json:"candidates" msgpack:"candidates"`

	// ErrorMessage is non-empty when the run failed.
	ErrorMessage string `json:"error_message,omitempty" msgpack:"error_message,omitempty"`
}

// Failed reports whether this record represents a failed run.
func (r *AnalysisResult) Failed() bool {
	return r.ErrorMessage != ""
}

// NewFailureResult builds a failure record. All fields other than
// ErrorMessage are left zero so no partial success state can leak.
func NewFailureResult(message string) *AnalysisResult {
	return &AnalysisResult{ErrorMessage: message}
}

// Artifacts returns the artifact references in display order, paired with
// their display names. Used by renderers; absent entries keep their slot.
func (r *AnalysisResult) Artifacts() []ArtifactRef {
	return []ArtifactRef{
		{Name: "waterfall", Title: "Waterfall preview", Path: r.Waterfall},
		{Name: "activity_map", Title: "Activity map", Path: r.ActivityMap},
		{Name: "window_preview", Title: "Window preview", Path: r.WindowPreview},
		{Name: "candidate_preview", Title: "Candidate preview", Path: r.CandidatePreview},
	}
}

// ArtifactRef is a named artifact reference for rendering.
type ArtifactRef struct {
	Name  string
	Title string
	// Path is empty when the artifact is absent.
	Path string
}
