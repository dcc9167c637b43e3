package generate

import "errors"

var (
	// ErrConfiguration marks an unresolved or contradictory sampling
	// configuration. It is surfaced before any model computation begins.
	ErrConfiguration = errors.New("generation config unresolved")

	// ErrModelExecution marks a failed model forward computation. It is
	// fatal to the run; a generative step is never retried.
	ErrModelExecution = errors.New("model execution failed")
)
