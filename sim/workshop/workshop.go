// Package workshop models a furniture workshop on the sim engine.
//
// Orders arrive at random, then pass through sawing (group A), soaking
// (group C), assembling (group B) and, for wardrobes, fittings (group C).
// Each order holds one workplace from the start of sawing until it is done.
// Between stages an order either gets a free carpenter of the next group
// right away or waits in the FIFO queue of its hand-off stage.
package workshop

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/workshop-sim/sim"
	"github.com/inference-sim/workshop-sim/sim/stats"
	"github.com/inference-sim/workshop-sim/sim/trace"
	"github.com/inference-sim/workshop-sim/sim/variate"
)

// Workshop is the process model. It implements sim.Model[Event] and is
// driven by a single execution goroutine; it needs no locking.
type Workshop struct {
	cfg   Config
	gen   *generators
	trace *trace.StageTrace

	carpenters []*Carpenter // ordered by ID
	groups     map[Group][]*Carpenter
	workplaces []*Workplace // workplace ID i lives at index i-1
	orders     map[int]*Order
	queues     map[Stage]*OrderQueue

	rep         int
	nextOrderID int
	arrived     int
	done        int

	orderDuration *stats.Statistics // current replication

	meanOrderDuration *stats.Statistics // across replications
	notStarted        *stats.Statistics
	groupUtil         map[Group]*stats.Statistics
	carpenterUtil     map[int]*stats.Statistics
}

// New validates cfg and builds a workshop whose generators are seeded from seeds.
func New(cfg Config, seeds *variate.SeedSource) (*Workshop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workshop config: %w", err)
	}
	gen, err := newGenerators(cfg, seeds)
	if err != nil {
		return nil, err
	}
	w := &Workshop{
		cfg:               cfg,
		gen:               gen,
		trace:             trace.NewStageTrace(trace.TraceConfig{Level: cfg.Trace}),
		groups:            make(map[Group][]*Carpenter),
		orders:            make(map[int]*Order),
		queues:            make(map[Stage]*OrderQueue),
		orderDuration:     stats.New(),
		meanOrderDuration: stats.New(),
		notStarted:        stats.New(),
		groupUtil:         make(map[Group]*stats.Statistics),
		carpenterUtil:     make(map[int]*stats.Statistics),
	}
	for _, s := range QueueStages {
		w.queues[s] = &OrderQueue{}
	}
	return w, nil
}

// NewRunner returns a control surface that builds a fresh workshop from cfg
// and seed on every Start.
func NewRunner(cfg Config, seed int64, sink sim.Sink) *sim.Runner[Event] {
	return sim.NewRunner[Event](func() (sim.Model[Event], error) {
		return New(cfg, variate.NewSeedSource(seed))
	}, sink)
}

// Trace returns the stage trace (empty unless tracing is enabled).
func (w *Workshop) Trace() *trace.StageTrace { return w.trace }

// Arrived returns the number of orders that arrived in the current replication.
func (w *Workshop) Arrived() int { return w.arrived }

// Done returns the number of orders completed in the current replication.
func (w *Workshop) Done() int { return w.done }

// Carpenters returns every carpenter ordered by ID.
func (w *Workshop) Carpenters() []*Carpenter { return w.carpenters }

// Workplaces returns every workplace created in the current replication.
func (w *Workshop) Workplaces() []*Workplace { return w.workplaces }

// QueueLen returns the number of orders waiting at hand-off stage s.
func (w *Workshop) QueueLen(s Stage) int {
	if q, ok := w.queues[s]; ok {
		return q.Len()
	}
	return 0
}

// BeforeSimulation creates the carpenter pools and their statistics.
func (w *Workshop) BeforeSimulation(sim.Env[Event]) error {
	id := 0
	for _, g := range Groups {
		w.groupUtil[g] = stats.New()
		for i := 0; i < w.cfg.GroupSize(g); i++ {
			id++
			c := &Carpenter{ID: id, Group: g}
			w.carpenters = append(w.carpenters, c)
			w.groups[g] = append(w.groups[g], c)
			w.carpenterUtil[id] = stats.New()
		}
	}
	logrus.Infof("workshop: carpenters A=%d B=%d C=%d, %.2f orders/hour",
		w.cfg.GroupA, w.cfg.GroupB, w.cfg.GroupC, w.cfg.ArrivalsPerHour)
	return nil
}

// BeforeReplication clears per-replication state and seeds the first arrival.
func (w *Workshop) BeforeReplication(env sim.Env[Event], rep int) error {
	w.rep = rep
	w.nextOrderID = 0
	w.arrived = 0
	w.done = 0
	clear(w.orders)
	for _, q := range w.queues {
		q.Clear()
	}
	w.workplaces = w.workplaces[:0]
	for _, c := range w.carpenters {
		c.reset()
	}
	w.orderDuration.Reset()
	return env.Schedule(env.Now()+w.gen.arrival.Float64(), Event{Kind: Arrival})
}

// Execute dispatches one event.
func (w *Workshop) Execute(env sim.Env[Event], ev Event) error {
	logrus.Debugf("[%s] %s", sim.FormatWorkdayClock(env.Now()), ev)
	switch ev.Kind {
	case Arrival:
		return w.arrive(env)
	case StageStart:
		return w.startStage(env, ev.Stage, ev.Workplace)
	case StageEnd:
		return w.endStage(env, ev.Stage, ev.Workplace)
	default:
		return fmt.Errorf("unknown workshop event kind %d", int(ev.Kind))
	}
}

// AfterReplication folds the replication's results into the cross-replication
// statistics once the warm-up share has passed.
func (w *Workshop) AfterReplication(env sim.Env[Event], rep int) error {
	now := env.Now()
	logrus.Infof("workshop: replication %d ended at %s, arrived=%d done=%d mean order time=%.1fs",
		rep, sim.FormatWorkdayClock(now), w.arrived, w.done, w.orderDuration.Mean())
	if !env.PastWarmup(rep) {
		return nil
	}
	if w.orderDuration.Count() > 0 {
		w.meanOrderDuration.Add(w.orderDuration.Mean())
	}
	w.notStarted.Add(float64(w.queues[StageNew].Len()))
	if now <= 0 {
		return nil
	}
	for _, g := range Groups {
		pool := w.groups[g]
		if len(pool) == 0 {
			continue
		}
		busy := 0.0
		for _, c := range pool {
			u := c.BusyTime(now)
			busy += u
			w.carpenterUtil[c.ID].Add(u / now)
		}
		w.groupUtil[g].Add(busy / (now * float64(len(pool))))
	}
	return nil
}

// AfterSimulation logs the final cross-replication order duration.
func (w *Workshop) AfterSimulation(sim.Env[Event]) error {
	lo, hi := w.meanOrderDuration.ConfidenceInterval()
	logrus.Infof("workshop: mean order time %.1fs over %d replications (95%% CI %.1f..%.1f)",
		w.meanOrderDuration.Mean(), w.meanOrderDuration.Count(), lo, hi)
	return nil
}

// EventSnapshot builds the live view of the current replication.
func (w *Workshop) EventSnapshot(env sim.Env[Event]) any {
	queues := make(map[string]int, len(w.queues))
	for s, q := range w.queues {
		queues[s.String()] = q.Len()
	}
	wps := make([]string, len(w.workplaces))
	for i, wp := range w.workplaces {
		wps[i] = wp.String()
	}
	cs := make([]string, len(w.carpenters))
	for i, c := range w.carpenters {
		cs[i] = c.String()
	}
	return EventData{
		Time:          env.Now(),
		Clock:         sim.FormatWorkdayClock(env.Now()),
		Arrived:       w.arrived,
		Done:          w.done,
		Queues:        queues,
		Workplaces:    wps,
		Carpenters:    cs,
		OrderDuration: w.orderDuration.Summary(),
	}
}

// ReplicationSnapshot builds the cross-replication view after replication done.
func (w *Workshop) ReplicationSnapshot(done int) any {
	return w.Results(done)
}

// Results returns the cross-replication statistics collected so far.
func (w *Workshop) Results(done int) ReplicationData {
	groups := make(map[string]stats.Summary, len(w.groupUtil))
	for g, s := range w.groupUtil {
		if len(w.groups[g]) == 0 {
			continue
		}
		groups[g.String()] = s.Summary()
	}
	per := make([]CarpenterUtilization, 0, len(w.carpenters))
	for _, c := range w.carpenters {
		per = append(per, CarpenterUtilization{Carpenter: c.data(), Utilization: w.carpenterUtil[c.ID].Summary()})
	}
	return ReplicationData{
		Replications:         done,
		OrderDuration:        w.meanOrderDuration.Summary(),
		NotStarted:           w.notStarted.Summary(),
		GroupUtilization:     groups,
		CarpenterUtilization: per,
	}
}
