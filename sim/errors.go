package sim

import "errors"

var (
	// ErrTimeReversal is returned when an event is scheduled before the
	// current simulated time (beyond TimeEpsilon).
	ErrTimeReversal = errors.New("simulation time must not decrease")

	// ErrInvalidTransition is returned for a lifecycle call that is not
	// allowed from the current state.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")

	// ErrNotStarted is returned by control calls issued before Start.
	ErrNotStarted = errors.New("simulation not started")
)
