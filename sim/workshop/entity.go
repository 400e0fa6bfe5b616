package workshop

import (
	"errors"
	"fmt"
)

var (
	// ErrSlotOccupied is returned when assigning into an occupied workplace slot.
	ErrSlotOccupied = errors.New("workplace slot already occupied")
	// ErrSlotEmpty is returned when unassigning an empty workplace slot.
	ErrSlotEmpty = errors.New("workplace slot is empty")
	// ErrSameStatus is returned when a carpenter is toggled to its current status.
	ErrSameStatus = errors.New("carpenter already has this status")
	// ErrStageOrder is returned for a stage transition off the forward path.
	ErrStageOrder = errors.New("invalid order stage transition")
)

// OrderType is the kind of furniture ordered.
type OrderType int

const (
	Table OrderType = iota
	Chair
	Wardrobe
)

// OrderTypes lists every order type.
var OrderTypes = []OrderType{Table, Chair, Wardrobe}

func (t OrderType) String() string {
	switch t {
	case Table:
		return "TABLE"
	case Chair:
		return "CHAIR"
	case Wardrobe:
		return "WARDROBE"
	default:
		return fmt.Sprintf("OrderType(%d)", int(t))
	}
}

// NeedsFittings reports whether the type goes through the fittings stage.
func (t OrderType) NeedsFittings() bool { return t == Wardrobe }

// Stage is an order's position on the production path.
type Stage int

const (
	StageNew Stage = iota
	StageSawing
	StageSawed
	StageSoaking
	StageSoaked
	StageAssembling
	StageAssembled
	StageFittings
	StageDone
)

// QueueStages are the hand-off stages at which orders wait for a carpenter.
var QueueStages = []Stage{StageNew, StageSawed, StageSoaked, StageAssembled}

func (s Stage) String() string {
	switch s {
	case StageNew:
		return "NEW"
	case StageSawing:
		return "SAWING"
	case StageSawed:
		return "SAWED"
	case StageSoaking:
		return "SOAKING"
	case StageSoaked:
		return "SOAKED"
	case StageAssembling:
		return "ASSEMBLING"
	case StageAssembled:
		return "ASSEMBLED"
	case StageFittings:
		return "FITTINGS"
	case StageDone:
		return "DONE"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Group is a carpenter pool. A saws, B assembles, C soaks and installs fittings.
type Group int

const (
	GroupA Group = iota
	GroupB
	GroupC
)

// Groups lists every carpenter group.
var Groups = []Group{GroupA, GroupB, GroupC}

func (g Group) String() string {
	switch g {
	case GroupA:
		return "A"
	case GroupB:
		return "B"
	case GroupC:
		return "C"
	default:
		return fmt.Sprintf("Group(%d)", int(g))
	}
}

// Status is a carpenter's work status.
type Status int

const (
	Free Status = iota
	Working
)

func (s Status) String() string {
	if s == Working {
		return "WORKING"
	}
	return "FREE"
}

// Position is where a carpenter physically is.
type Position int

const (
	InWarehouse Position = iota
	AtWorkplace
)

func (p Position) String() string {
	if p == AtWorkplace {
		return "WORKPLACE"
	}
	return "WAREHOUSE"
}

// Order is one customer job.
type Order struct {
	ID        int
	Type      OrderType
	Stage     Stage
	Arrival   float64
	Workplace int // 0 while the order has no bench
}

// next returns the stage that follows s for this order's type.
func (o *Order) next() (Stage, bool) {
	switch o.Stage {
	case StageAssembled:
		if o.Type.NeedsFittings() {
			return StageFittings, true
		}
		return StageDone, true
	case StageDone:
		return StageDone, false
	default:
		return o.Stage + 1, true
	}
}

// Advance moves the order to stage s, which must be the next stage on its path.
func (o *Order) Advance(s Stage) error {
	want, ok := o.next()
	if !ok || s != want {
		return fmt.Errorf("%w: order %d (%s) from %s to %s", ErrStageOrder, o.ID, o.Type, o.Stage, s)
	}
	o.Stage = s
	return nil
}

// Carpenter is a worker bound to one group for its whole life.
type Carpenter struct {
	ID        int
	Group     Group
	Status    Status
	Position  Position
	Workplace int // workplace the carpenter stands at, 0 in the warehouse
	Assigned  int // workplace holding this carpenter, 0 when unassigned

	busy      float64
	busySince float64
}

// Available reports whether the carpenter can take a new order.
// A carpenter assigned to a bench whose stage has not started yet is not available.
func (c *Carpenter) Available() bool {
	return c.Status == Free && c.Assigned == 0
}

// SetStatus toggles the carpenter and accounts busy time.
func (c *Carpenter) SetStatus(s Status, now float64) error {
	if c.Status == s {
		return fmt.Errorf("%w: carpenter %d is %s", ErrSameStatus, c.ID, s)
	}
	switch s {
	case Working:
		c.busySince = now
	case Free:
		c.busy += now - c.busySince
	}
	c.Status = s
	return nil
}

// BusyTime returns the accumulated busy time including work in progress at now.
func (c *Carpenter) BusyTime(now float64) float64 {
	if c.Status == Working {
		return c.busy + now - c.busySince
	}
	return c.busy
}

// MoveTo places the carpenter at workplace wp.
func (c *Carpenter) MoveTo(wp int) {
	c.Position = AtWorkplace
	c.Workplace = wp
}

func (c *Carpenter) reset() {
	c.Status = Free
	c.Position = InWarehouse
	c.Workplace = 0
	c.Assigned = 0
	c.busy = 0
	c.busySince = 0
}

func (c *Carpenter) String() string {
	s := fmt.Sprintf("ID: %d, status: %s", c.ID, c.Status)
	if c.Workplace != 0 {
		s += fmt.Sprintf(", workplaceID: %d", c.Workplace)
	}
	return s + fmt.Sprintf(", position: %s, group: %s", c.Position, c.Group)
}

// Workplace is a bench holding at most one order and one carpenter.
type Workplace struct {
	ID        int
	Order     *Order
	Carpenter *Carpenter
}

// Free reports whether no order occupies the bench.
func (w *Workplace) Free() bool { return w.Order == nil }

// AssignOrder places o on the bench.
func (w *Workplace) AssignOrder(o *Order) error {
	if w.Order != nil {
		return fmt.Errorf("%w: workplace %d already holds order %d", ErrSlotOccupied, w.ID, w.Order.ID)
	}
	if o.Workplace != 0 {
		return fmt.Errorf("%w: order %d already at workplace %d", ErrSlotOccupied, o.ID, o.Workplace)
	}
	w.Order = o
	o.Workplace = w.ID
	return nil
}

// UnassignOrder clears the order slot.
func (w *Workplace) UnassignOrder() error {
	if w.Order == nil {
		return fmt.Errorf("%w: no order at workplace %d", ErrSlotEmpty, w.ID)
	}
	w.Order.Workplace = 0
	w.Order = nil
	return nil
}

// AssignCarpenter reserves c for the bench.
func (w *Workplace) AssignCarpenter(c *Carpenter) error {
	if w.Carpenter != nil {
		return fmt.Errorf("%w: workplace %d already has carpenter %d", ErrSlotOccupied, w.ID, w.Carpenter.ID)
	}
	if c.Assigned != 0 {
		return fmt.Errorf("%w: carpenter %d already assigned to workplace %d", ErrSlotOccupied, c.ID, c.Assigned)
	}
	w.Carpenter = c
	c.Assigned = w.ID
	return nil
}

// UnassignCarpenter clears the carpenter slot.
func (w *Workplace) UnassignCarpenter() error {
	if w.Carpenter == nil {
		return fmt.Errorf("%w: no carpenter at workplace %d", ErrSlotEmpty, w.ID)
	}
	w.Carpenter.Assigned = 0
	w.Carpenter = nil
	return nil
}

func (w *Workplace) String() string {
	s := fmt.Sprintf("ID: %d, order: ", w.ID)
	if w.Order != nil {
		s += fmt.Sprintf("Order(type: %s, stage: %s)", w.Order.Type, w.Order.Stage)
	} else {
		s += "NONE"
	}
	if w.Carpenter != nil {
		s += fmt.Sprintf(", carpenterID: %d", w.Carpenter.ID)
	}
	return s
}
