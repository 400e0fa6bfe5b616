package workshop

import (
	"fmt"

	"github.com/inference-sim/workshop-sim/sim"
	"github.com/inference-sim/workshop-sim/sim/trace"
)

// arrive creates an order, starts sawing if a group A carpenter is available
// and schedules the next arrival.
func (w *Workshop) arrive(env sim.Env[Event]) error {
	now := env.Now()
	w.nextOrderID++
	w.arrived++
	o := &Order{
		ID:      w.nextOrderID,
		Type:    w.cfg.OrderMix.Pick(w.gen.orderType.Float64()),
		Stage:   StageNew,
		Arrival: now,
	}
	w.orders[o.ID] = o

	if c := w.availableCarpenter(GroupA); c != nil {
		if err := w.seat(env, o, c); err != nil {
			return err
		}
	} else {
		w.queues[StageNew].Enqueue(o)
	}

	if w.cfg.MaxArrivals > 0 && w.arrived >= w.cfg.MaxArrivals {
		return nil
	}
	return env.Schedule(now+w.gen.arrival.Float64(), Event{Kind: Arrival})
}

// seat puts a new order on a free workplace with carpenter c and schedules sawing.
func (w *Workshop) seat(env sim.Env[Event], o *Order, c *Carpenter) error {
	wp := w.freeWorkplace()
	if err := wp.AssignOrder(o); err != nil {
		return err
	}
	if err := wp.AssignCarpenter(c); err != nil {
		return err
	}
	return env.Schedule(env.Now(), startEvent(StageSawing, wp.ID))
}

// startStage begins stage s at workplace wpID and schedules its end after
// the carpenter's travel and the processing time.
func (w *Workshop) startStage(env sim.Env[Event], s Stage, wpID int) error {
	wp, err := w.workplace(wpID)
	if err != nil {
		return err
	}
	c, o := wp.Carpenter, wp.Order
	if c == nil || o == nil {
		return fmt.Errorf("%w: %s start at workplace %d needs an order and a carpenter", ErrSlotEmpty, s, wpID)
	}
	now := env.Now()
	if err := c.SetStatus(Working, now); err != nil {
		return err
	}
	if err := w.advance(now, o, s, c); err != nil {
		return err
	}

	d, err := w.gen.duration(o.Type, s)
	if err != nil {
		return err
	}
	end := now + w.travel(c, wp, s) + d
	c.MoveTo(wp.ID)
	return env.Schedule(end, endEvent(s, wp.ID))
}

// travel draws the time carpenter c needs before working on stage s at wp.
// Sawing always includes fetching material from the warehouse.
func (w *Workshop) travel(c *Carpenter, wp *Workplace, s Stage) float64 {
	if s == StageSawing {
		t := 0.0
		if c.Position == AtWorkplace {
			t += w.gen.warehouseTrip.Float64()
		}
		return t + w.gen.materialPrep.Float64() + w.gen.warehouseTrip.Float64()
	}
	switch {
	case c.Position == InWarehouse:
		return w.gen.warehouseTrip.Float64()
	case c.Workplace != wp.ID:
		return w.gen.benchTrip.Float64()
	default:
		return 0
	}
}

// endStage frees the carpenter of stage s at workplace wpID, hands the order
// on and lets the freed group pull waiting work.
func (w *Workshop) endStage(env sim.Env[Event], s Stage, wpID int) error {
	wp, err := w.workplace(wpID)
	if err != nil {
		return err
	}
	c, o := wp.Carpenter, wp.Order
	if c == nil || o == nil {
		return fmt.Errorf("%w: %s end at workplace %d needs an order and a carpenter", ErrSlotEmpty, s, wpID)
	}
	now := env.Now()
	if err := c.SetStatus(Free, now); err != nil {
		return err
	}
	if err := wp.UnassignCarpenter(); err != nil {
		return err
	}

	switch s {
	case StageSawing:
		if err := w.advance(now, o, StageSawed, c); err != nil {
			return err
		}
		if err := w.handOff(env, o, wp, GroupC, StageSoaking); err != nil {
			return err
		}
		return w.pullNew(env)
	case StageSoaking:
		if err := w.advance(now, o, StageSoaked, c); err != nil {
			return err
		}
		if err := w.handOff(env, o, wp, GroupB, StageAssembling); err != nil {
			return err
		}
		return w.pullForGroupC(env)
	case StageAssembling:
		if err := w.advance(now, o, StageAssembled, c); err != nil {
			return err
		}
		if o.Type.NeedsFittings() {
			if err := w.handOff(env, o, wp, GroupC, StageFittings); err != nil {
				return err
			}
		} else if err := w.complete(now, o, wp, c); err != nil {
			return err
		}
		return w.pullSoaked(env)
	case StageFittings:
		if err := w.complete(now, o, wp, c); err != nil {
			return err
		}
		return w.pullForGroupC(env)
	default:
		return fmt.Errorf("%w: %s is not a work stage", ErrStageOrder, s)
	}
}

// handOff gives o to an available carpenter of g for stage next, or queues it.
func (w *Workshop) handOff(env sim.Env[Event], o *Order, wp *Workplace, g Group, next Stage) error {
	c := w.availableCarpenter(g)
	if c == nil {
		w.queues[o.Stage].Enqueue(o)
		return nil
	}
	if err := wp.AssignCarpenter(c); err != nil {
		return err
	}
	return env.Schedule(env.Now(), startEvent(next, wp.ID))
}

// pullNew starts sawing the oldest NEW order if group A has a carpenter.
func (w *Workshop) pullNew(env sim.Env[Event]) error {
	c := w.availableCarpenter(GroupA)
	if c == nil || w.queues[StageNew].Len() == 0 {
		return nil
	}
	return w.seat(env, w.queues[StageNew].Dequeue(), c)
}

// pullSoaked starts assembling the oldest SOAKED order if group B has a carpenter.
func (w *Workshop) pullSoaked(env sim.Env[Event]) error {
	return w.pull(env, GroupB, StageSoaked, StageAssembling)
}

// pullForGroupC gives a free group C carpenter fittings work first and
// soaking work only when no assembled wardrobe is waiting.
func (w *Workshop) pullForGroupC(env sim.Env[Event]) error {
	if w.queues[StageAssembled].Len() > 0 {
		return w.pull(env, GroupC, StageAssembled, StageFittings)
	}
	return w.pull(env, GroupC, StageSawed, StageSoaking)
}

func (w *Workshop) pull(env sim.Env[Event], g Group, waiting, next Stage) error {
	c := w.availableCarpenter(g)
	if c == nil || w.queues[waiting].Len() == 0 {
		return nil
	}
	o := w.queues[waiting].Dequeue()
	wp, err := w.workplace(o.Workplace)
	if err != nil {
		return err
	}
	if err := wp.AssignCarpenter(c); err != nil {
		return err
	}
	return env.Schedule(env.Now(), startEvent(next, wp.ID))
}

// complete finishes o, releases its workplace and records its duration.
func (w *Workshop) complete(now float64, o *Order, wp *Workplace, c *Carpenter) error {
	if err := w.advance(now, o, StageDone, c); err != nil {
		return err
	}
	if err := wp.UnassignOrder(); err != nil {
		return err
	}
	w.orderDuration.Add(now - o.Arrival)
	w.done++
	delete(w.orders, o.ID)
	return nil
}

// advance moves o to stage s and records the transition.
func (w *Workshop) advance(now float64, o *Order, s Stage, c *Carpenter) error {
	from := o.Stage
	wp := o.Workplace
	if err := o.Advance(s); err != nil {
		return err
	}
	w.trace.RecordTransition(trace.StageRecord{
		Replication: w.rep,
		OrderID:     o.ID,
		OrderType:   o.Type.String(),
		Clock:       now,
		From:        from.String(),
		To:          s.String(),
		Workplace:   wp,
		Carpenter:   c.ID,
	})
	return nil
}

// availableCarpenter returns the lowest-ID carpenter of g that is free and
// not reserved by a workplace, or nil.
func (w *Workshop) availableCarpenter(g Group) *Carpenter {
	for _, c := range w.groups[g] {
		if c.Available() {
			return c
		}
	}
	return nil
}

// freeWorkplace returns the first unoccupied workplace, creating one when
// all are taken.
func (w *Workshop) freeWorkplace() *Workplace {
	for _, wp := range w.workplaces {
		if wp.Free() && wp.Carpenter == nil {
			return wp
		}
	}
	wp := &Workplace{ID: len(w.workplaces) + 1}
	w.workplaces = append(w.workplaces, wp)
	return wp
}

func (w *Workshop) workplace(id int) (*Workplace, error) {
	if id < 1 || id > len(w.workplaces) {
		return nil, fmt.Errorf("unknown workplace %d", id)
	}
	return w.workplaces[id-1], nil
}
