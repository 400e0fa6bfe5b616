package workshop

import "fmt"

// EventKind tags the variant carried by an Event.
type EventKind int

const (
	// Arrival creates a new order and schedules the next arrival.
	Arrival EventKind = iota
	// StageStart begins Stage at Workplace with the carpenter assigned there.
	StageStart
	// StageEnd completes Stage at Workplace and hands the order on.
	StageEnd
)

func (k EventKind) String() string {
	switch k {
	case Arrival:
		return "Arrival"
	case StageStart:
		return "StageStart"
	case StageEnd:
		return "StageEnd"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one scheduled workshop event. Stage and Workplace are unused for
// arrivals.
type Event struct {
	Kind      EventKind
	Stage     Stage
	Workplace int
}

func (e Event) String() string {
	if e.Kind == Arrival {
		return "Arrival"
	}
	return fmt.Sprintf("%s(%s, workplace %d)", e.Kind, e.Stage, e.Workplace)
}

func startEvent(s Stage, wp int) Event { return Event{Kind: StageStart, Stage: s, Workplace: wp} }

func endEvent(s Stage, wp int) Event { return Event{Kind: StageEnd, Stage: s, Workplace: wp} }
