package sim

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind classifies a Notification.
type Kind int

const (
	// KindState reports a lifecycle transition.
	KindState Kind = iota
	// KindExperiment reports the end of a replication with aggregated statistics.
	KindExperiment
	// KindEvent is a live snapshot after an executed event (real-time mode only).
	KindEvent
)

// String returns the upper-case kind name.
func (k Kind) String() string {
	switch k {
	case KindState:
		return "STATE"
	case KindExperiment:
		return "EXPERIMENT"
	case KindEvent:
		return "EVENT"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Notification is a snapshot pushed to the external consumer.
// Data carries the model's payload for EXPERIMENT and EVENT kinds and is nil for STATE.
type Notification struct {
	Kind         Kind
	RunID        uuid.UUID
	State        State
	Replications int     // replications completed so far
	Time         float64 // simulated time when the notification was built
	Data         any
}

// Sink receives notifications. Controllers call Accept synchronously from
// the goroutine that caused the notification: EVENT and EXPERIMENT come from
// the execution goroutine, while the STATE notifications of Pause, Resume and
// Stop come from their callers. Accept may therefore be called concurrently
// and must be safe for that. Implementations that forward to another
// goroutine own that hand-off.
type Sink interface {
	Accept(Notification)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Notification)

// Accept calls f(n).
func (f SinkFunc) Accept(n Notification) { f(n) }

// FanOut delivers each notification to every sink in order.
type FanOut []Sink

// Accept forwards n to all non-nil sinks.
func (f FanOut) Accept(n Notification) {
	for _, s := range f {
		if s != nil {
			s.Accept(n)
		}
	}
}

// discard drops every notification.
type discard struct{}

func (discard) Accept(Notification) {}
