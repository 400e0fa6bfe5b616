// Package testutil provides shared test infrastructure for the workshop
// simulator: a recording notification sink and float assertion helpers used
// across sim/ and its sub-packages.
package testutil

import (
	"math"
	"sync"
	"testing"

	"github.com/inference-sim/workshop-sim/sim"
)

// RecordingSink stores every notification it receives. Safe for concurrent use.
type RecordingSink struct {
	mu    sync.Mutex
	notes []sim.Notification
	// OnAccept, if set, is called after each notification is recorded.
	OnAccept func(sim.Notification)
}

// Accept records n.
func (r *RecordingSink) Accept(n sim.Notification) {
	r.mu.Lock()
	r.notes = append(r.notes, n)
	hook := r.OnAccept
	r.mu.Unlock()
	if hook != nil {
		hook(n)
	}
}

// All returns a copy of every recorded notification.
func (r *RecordingSink) All() []sim.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sim.Notification, len(r.notes))
	copy(out, r.notes)
	return out
}

// OfKind returns the recorded notifications of kind k in arrival order.
func (r *RecordingSink) OfKind(k sim.Kind) []sim.Notification {
	var out []sim.Notification
	for _, n := range r.All() {
		if n.Kind == k {
			out = append(out, n)
		}
	}
	return out
}

// States returns the sequence of states carried by STATE notifications.
func (r *RecordingSink) States() []sim.State {
	var out []sim.State
	for _, n := range r.OfKind(sim.KindState) {
		out = append(out, n.State)
	}
	return out
}

// AssertFloat64Equal checks that two float64 values are equal within a relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
