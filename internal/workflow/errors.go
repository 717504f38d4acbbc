package workflow

import "errors"

var (
	// ErrTransitionInFlight is returned when a status change for the same dispute is still running.
	ErrTransitionInFlight = errors.New("status change already in flight")

	// ErrMediationInFlight is returned when a mediation for the same dispute is still running.
	ErrMediationInFlight = errors.New("mediation already in flight")

	// ErrNoSelection is returned by selection based operations when nothing is selected.
	ErrNoSelection = errors.New("no dispute selected")
)
