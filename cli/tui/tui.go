package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skysift-io/skysift/types"
)

// Run drives the shell for one run: it consumes the event stream until the
// terminal event, then stays in the result view until the user quits.
// Returns the terminal result and outcome so the caller can map them to an
// exit code.
func Run(input, preset string, events <-chan types.Event) (*types.AnalysisResult, types.OutcomeStatus, error) {
	p := tea.NewProgram(NewModel(input, preset, events), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, types.OutcomeFailure, fmt.Errorf("tui: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return nil, types.OutcomeFailure, fmt.Errorf("tui: unexpected final model %T", final)
	}
	if !m.done {
		// User quit mid-run; the runner keeps the contract by emitting the
		// terminal event into the buffered stream regardless.
		return nil, types.OutcomeCanceled, nil
	}
	return m.result, m.outcome, nil
}
