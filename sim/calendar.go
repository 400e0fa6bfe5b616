package sim

import (
	"container/heap"
	"fmt"
	"sort"
)

// TimeEpsilon is the tolerance for scheduling at a time marginally before the
// clock (accumulated floating-point error in handler arithmetic).
const TimeEpsilon = 1e-6

// Entry is one pending event with its execution time and insertion sequence.
type Entry[E any] struct {
	Time  float64
	Seq   uint64
	Event E
}

// entryHeap is a min-heap ordered by (Time, Seq).
// Implements heap.Interface.
type entryHeap[E any] []Entry[E]

func (h entryHeap[E]) Len() int { return len(h) }

func (h entryHeap[E]) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}
	return h[i].Seq < h[j].Seq
}

func (h entryHeap[E]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap[E]) Push(x any) {
	*h = append(*h, x.(Entry[E]))
}

func (h *entryHeap[E]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Calendar is the event calendar and the owner of the simulated clock.
// Events fire in ascending time; equal times fire in insertion order.
// PopNext is the only operation that advances the clock (besides AdvanceTo,
// used when a replication is cut at its horizon).
type Calendar[E any] struct {
	events  entryHeap[E]
	now     float64
	nextSeq uint64
}

// NewCalendar creates an empty calendar with the clock at zero.
func NewCalendar[E any]() *Calendar[E] {
	c := &Calendar[E]{events: make(entryHeap[E], 0)}
	heap.Init(&c.events)
	return c
}

// Now returns the current simulated time.
func (c *Calendar[E]) Now() float64 { return c.now }

// Len returns the number of pending events.
func (c *Calendar[E]) Len() int { return len(c.events) }

// Schedule adds an event at the given time. Scheduling more than TimeEpsilon
// before the current time is rejected with ErrTimeReversal; a time within
// the tolerance is moved up to now.
func (c *Calendar[E]) Schedule(at float64, ev E) error {
	if at < c.now-TimeEpsilon {
		return fmt.Errorf("%w: event at %.6f scheduled while clock is at %.6f", ErrTimeReversal, at, c.now)
	}
	if at < c.now {
		at = c.now
	}
	c.nextSeq++
	heap.Push(&c.events, Entry[E]{Time: at, Seq: c.nextSeq, Event: ev})
	return nil
}

// PopNext removes the earliest event and moves the clock to its time.
func (c *Calendar[E]) PopNext() (Entry[E], bool) {
	if len(c.events) == 0 {
		return Entry[E]{}, false
	}
	e := heap.Pop(&c.events).(Entry[E])
	c.now = e.Time
	return e, true
}

// Peek returns the earliest event without removing it.
func (c *Calendar[E]) Peek() (Entry[E], bool) {
	if len(c.events) == 0 {
		return Entry[E]{}, false
	}
	return c.events[0], true
}

// AdvanceTo moves the clock forward to t without executing anything.
// Moving backwards is rejected.
func (c *Calendar[E]) AdvanceTo(t float64) error {
	if t < c.now {
		return fmt.Errorf("%w: cannot advance clock from %.6f to %.6f", ErrTimeReversal, c.now, t)
	}
	c.now = t
	return nil
}

// Pending returns a copy of the pending events in firing order.
func (c *Calendar[E]) Pending() []Entry[E] {
	out := make([]Entry[E], len(c.events))
	copy(out, c.events)
	sort.Slice(out, func(i, j int) bool { return entryHeap[E](out).Less(i, j) })
	return out
}

// Reset drops all pending events and rewinds the clock to zero.
func (c *Calendar[E]) Reset() {
	clear(c.events)
	c.events = c.events[:0]
	c.now = 0
	c.nextSeq = 0
}
