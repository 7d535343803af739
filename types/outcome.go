package types

// OutcomeStatus classifies how a run ended.
type OutcomeStatus string

const (
	// OutcomeSuccess indicates the run produced a well-formed result.
	OutcomeSuccess OutcomeStatus = "success"
	// OutcomeFailure indicates an internal fault was converted into a
	// failure record.
	OutcomeFailure OutcomeStatus = "failure"
	// OutcomeCanceled indicates the run was canceled before completion.
	// Distinct from failure so consumers can tell "user stopped it" from
	// "it broke".
	OutcomeCanceled OutcomeStatus = "canceled"
)

// ClassifyOutcome derives the outcome status for a terminal record.
// Cancellation is authoritative: a canceled run is canceled even though its
// record also carries an error message.
func ClassifyOutcome(result *AnalysisResult, canceled bool) OutcomeStatus {
	switch {
	case canceled:
		return OutcomeCanceled
	case result == nil || result.Failed():
		return OutcomeFailure
	default:
		return OutcomeSuccess
	}
}
