package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// State is the lifecycle state of a Controller.
type State int

const (
	StateCreated State = iota
	StateRunning
	StatePaused
	StateStopped
	StateFinished
)

// String returns the upper-case state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "CREATED"
	case StateRunning:
		return "RUNNING"
	case StatePaused:
		return "PAUSED"
	case StateStopped:
		return "STOPPED"
	case StateFinished:
		return "FINISHED"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Env is the view of the running replication handed to model hooks.
// It is only valid on the execution goroutine.
type Env[E any] interface {
	// Now returns the simulated clock.
	Now() float64
	// Schedule enqueues ev at absolute time at.
	Schedule(at float64, ev E) error
	// Horizon returns the simulated length of one replication.
	Horizon() float64
	// PastWarmup reports whether replication rep is outside the skipped share.
	PastWarmup(rep int) bool
	// Pending lists the model's queued events in firing order.
	Pending() []Entry[E]
}

// Model is the domain plugged into a Controller. Execute is the single
// dispatch point for every event variant; a returned error aborts the run.
type Model[E any] interface {
	BeforeSimulation(env Env[E]) error
	BeforeReplication(env Env[E], rep int) error
	Execute(env Env[E], ev E) error
	AfterReplication(env Env[E], rep int) error
	AfterSimulation(env Env[E]) error
	// EventSnapshot builds the payload of an EVENT notification.
	EventSnapshot(env Env[E]) any
	// ReplicationSnapshot builds the payload of an EXPERIMENT notification.
	ReplicationSnapshot(done int) any
}

// slot wraps a model event so the controller can interleave pacing ticks
// in the same calendar.
type slot[E any] struct {
	tick  bool
	event E
}

// Controller runs N replications of a Model and owns the run lifecycle.
// Run executes on one goroutine; Pause, Resume, Stop and the setters may be
// called from any other goroutine.
type Controller[E any] struct {
	cfg   RunConfig
	model Model[E]
	sink  Sink
	runID uuid.UUID
	cal   *Calendar[slot[E]]

	mu          sync.Mutex
	state       State
	resume      chan struct{} // non-nil while paused; closed on resume or stop
	stopped     chan struct{} // closed once on stop; wakes a sleeping tick
	mode        ExecutionMode
	multiplier  TimeMultiplier
	done        int
	tickPending bool // touched only by the execution goroutine
}

// NewController validates cfg and builds a controller in StateCreated.
// A nil sink discards notifications.
func NewController[E any](cfg RunConfig, model Model[E], sink Sink) (*Controller[E], error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run config: %w", err)
	}
	if model == nil {
		return nil, fmt.Errorf("controller requires a model")
	}
	if sink == nil {
		sink = discard{}
	}
	return &Controller[E]{
		cfg:        cfg,
		model:      model,
		sink:       sink,
		runID:      uuid.New(),
		cal:        NewCalendar[slot[E]](),
		state:      StateCreated,
		stopped:    make(chan struct{}),
		mode:       cfg.Mode,
		multiplier: cfg.Multiplier,
	}, nil
}

// RunID identifies this run in every notification.
func (c *Controller[E]) RunID() uuid.UUID { return c.runID }

// PastWarmup reports whether replication rep is outside the skipped warm-up share.
func (c *Controller[E]) PastWarmup(rep int) bool { return c.cfg.PastWarmup(rep) }

// State returns the current lifecycle state.
func (c *Controller[E]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// DoneReplications returns the number of completed replications.
func (c *Controller[E]) DoneReplications() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Run executes the whole simulation on the calling goroutine and returns
// when it finishes, is stopped, fails, or ctx is cancelled.
func (c *Controller[E]) Run(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	return c.execute(ctx)
}

// begin moves CREATED to RUNNING. A controller runs at most once.
func (c *Controller[E]) begin() error {
	c.mu.Lock()
	if c.state != StateCreated {
		st := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: run from %s", ErrInvalidTransition, st)
	}
	c.state = StateRunning
	c.mu.Unlock()
	c.emitState(StateRunning)
	return nil
}

func (c *Controller[E]) execute(ctx context.Context) error {
	if err := c.replicate(ctx); err != nil {
		c.mu.Lock()
		wasStopped := c.state == StateStopped
		c.state = StateStopped
		c.mu.Unlock()
		if !wasStopped {
			c.emitState(StateStopped)
		}
		logrus.Warnf("[run %s] aborted: %v", c.runID, err)
		return err
	}
	c.mu.Lock()
	if c.state == StateStopped {
		done := c.done
		c.mu.Unlock()
		logrus.Infof("[run %s] stopped after %d replications", c.runID, done)
		return nil
	}
	c.state = StateFinished
	c.mu.Unlock()
	c.emitState(StateFinished)
	return nil
}

func (c *Controller[E]) replicate(ctx context.Context) error {
	env := &controllerEnv[E]{c: c}
	if err := c.model.BeforeSimulation(env); err != nil {
		return fmt.Errorf("before simulation: %w", err)
	}
	for rep := 1; rep <= c.cfg.Replications; rep++ {
		ok, err := c.checkpoint(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		c.cal.Reset()
		c.tickPending = false
		if err := c.model.BeforeReplication(env, rep); err != nil {
			return fmt.Errorf("replication %d: %w", rep, err)
		}
		completed, err := c.simulate(ctx, env)
		if err != nil {
			return fmt.Errorf("replication %d: %w", rep, err)
		}
		if !completed {
			break
		}
		if err := c.model.AfterReplication(env, rep); err != nil {
			return fmt.Errorf("replication %d: %w", rep, err)
		}
		c.mu.Lock()
		c.done++
		done := c.done
		state := c.state
		c.mu.Unlock()
		logrus.Debugf("[run %s] replication %d/%d done at t=%.1f", c.runID, rep, c.cfg.Replications, c.cal.Now())
		c.sink.Accept(Notification{
			Kind:         KindExperiment,
			RunID:        c.runID,
			State:        state,
			Replications: done,
			Time:         c.cal.Now(),
			Data:         c.model.ReplicationSnapshot(done),
		})
	}
	if err := c.model.AfterSimulation(env); err != nil {
		return fmt.Errorf("after simulation: %w", err)
	}
	return nil
}

// simulate runs one replication's event loop. It returns false when the
// run was stopped before the replication ended.
func (c *Controller[E]) simulate(ctx context.Context, env *controllerEnv[E]) (bool, error) {
	for {
		ok, err := c.checkpoint(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		mode, multiplier := c.pacing()
		if mode == RealTime && !c.tickPending {
			if err := c.cal.Schedule(c.cal.Now(), slot[E]{tick: true}); err != nil {
				return false, err
			}
			c.tickPending = true
		}
		next, ok := c.cal.Peek()
		if !ok {
			return true, nil
		}
		if next.Time > c.cfg.Horizon {
			return true, c.cal.AdvanceTo(c.cfg.Horizon)
		}
		entry, _ := c.cal.PopNext()
		if entry.Event.tick {
			c.tickPending = false
			if mode != RealTime {
				continue
			}
			if err := c.sleep(ctx, multiplier.TickInterval()); err != nil {
				return false, err
			}
			if err := c.cal.Schedule(c.cal.Now()+1, slot[E]{tick: true}); err != nil {
				return false, err
			}
			c.tickPending = true
			continue
		}
		if err := c.model.Execute(env, entry.Event.event); err != nil {
			return false, err
		}
		if mode == RealTime {
			c.sink.Accept(Notification{
				Kind:         KindEvent,
				RunID:        c.runID,
				State:        c.State(),
				Replications: c.DoneReplications(),
				Time:         c.cal.Now(),
				Data:         c.model.EventSnapshot(env),
			})
		}
	}
}

// checkpoint blocks while paused. It returns false once the run is stopped.
func (c *Controller[E]) checkpoint(ctx context.Context) (bool, error) {
	for {
		c.mu.Lock()
		state, wait := c.state, c.resume
		c.mu.Unlock()
		switch state {
		case StateStopped:
			return false, nil
		case StatePaused:
			select {
			case <-wait:
			case <-ctx.Done():
				return false, fmt.Errorf("interrupted while paused: %w", ctx.Err())
			}
		default:
			if err := ctx.Err(); err != nil {
				return false, fmt.Errorf("interrupted: %w", err)
			}
			return true, nil
		}
	}
}

func (c *Controller[E]) sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-c.stopped:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("interrupted: %w", ctx.Err())
	}
}

func (c *Controller[E]) pacing() (ExecutionMode, TimeMultiplier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode, c.multiplier
}

// Pause moves RUNNING to PAUSED. The execution goroutine blocks at its next
// event boundary.
func (c *Controller[E]) Pause() error {
	c.mu.Lock()
	if c.state != StateRunning {
		st := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: pause from %s", ErrInvalidTransition, st)
	}
	c.state = StatePaused
	c.resume = make(chan struct{})
	c.mu.Unlock()
	c.emitState(StatePaused)
	return nil
}

// Resume moves PAUSED back to RUNNING and wakes the execution goroutine.
// Resuming a running controller changes nothing but still notifies.
func (c *Controller[E]) Resume() error {
	c.mu.Lock()
	switch c.state {
	case StatePaused:
		close(c.resume)
		c.resume = nil
		c.state = StateRunning
	case StateRunning:
	default:
		st := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: resume from %s", ErrInvalidTransition, st)
	}
	c.mu.Unlock()
	c.emitState(StateRunning)
	return nil
}

// Stop ends the run at the next event boundary. A paused run is released.
func (c *Controller[E]) Stop() error {
	c.mu.Lock()
	switch c.state {
	case StateCreated, StateRunning, StatePaused:
	default:
		st := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: stop from %s", ErrInvalidTransition, st)
	}
	if c.resume != nil {
		close(c.resume)
		c.resume = nil
	}
	close(c.stopped)
	c.state = StateStopped
	c.mu.Unlock()
	c.emitState(StateStopped)
	return nil
}

// SetTimeMultiplier changes the real-time pacing speed; it applies from the
// next tick.
func (c *Controller[E]) SetTimeMultiplier(m TimeMultiplier) error {
	if !m.Valid() {
		return fmt.Errorf("unknown time multiplier %d", int(m))
	}
	c.mu.Lock()
	c.multiplier = m
	c.mu.Unlock()
	return nil
}

// SetExecutionMode switches between virtual and real-time execution.
// Switching to virtual drops the pending tick when it fires.
func (c *Controller[E]) SetExecutionMode(m ExecutionMode) error {
	if m != VirtualTime && m != RealTime {
		return fmt.Errorf("unknown execution mode %d", int(m))
	}
	c.mu.Lock()
	c.mode = m
	c.mu.Unlock()
	return nil
}

func (c *Controller[E]) emitState(s State) {
	c.sink.Accept(Notification{
		Kind:         KindState,
		RunID:        c.runID,
		State:        s,
		Replications: c.DoneReplications(),
	})
}

// controllerEnv exposes the calendar to the model with pacing ticks hidden.
type controllerEnv[E any] struct {
	c *Controller[E]
}

func (e *controllerEnv[E]) Now() float64 { return e.c.cal.Now() }

func (e *controllerEnv[E]) Schedule(at float64, ev E) error {
	return e.c.cal.Schedule(at, slot[E]{event: ev})
}

func (e *controllerEnv[E]) Horizon() float64 { return e.c.cfg.Horizon }

func (e *controllerEnv[E]) PastWarmup(rep int) bool { return e.c.cfg.PastWarmup(rep) }

func (e *controllerEnv[E]) Pending() []Entry[E] {
	all := e.c.cal.Pending()
	out := make([]Entry[E], 0, len(all))
	for _, en := range all {
		if en.Event.tick {
			continue
		}
		out = append(out, Entry[E]{Time: en.Time, Seq: en.Seq, Event: en.Event.event})
	}
	return out
}
