package sim

import (
	"context"
	"fmt"
	"sync"
)

// Runner is the control surface used by front ends: it builds a fresh model
// and controller on Start and runs it on a background goroutine.
// Every control call before Start returns ErrNotStarted.
type Runner[E any] struct {
	newModel func() (Model[E], error)
	sink     Sink

	mu   sync.Mutex
	ctl  *Controller[E]
	done chan struct{}
	err  error
}

// NewRunner creates a runner. newModel is invoked once per Start.
func NewRunner[E any](newModel func() (Model[E], error), sink Sink) *Runner[E] {
	return &Runner[E]{newModel: newModel, sink: sink}
}

// Start validates cfg, enters RUNNING synchronously and executes the run in
// the background. Starting again is allowed once the previous run has ended.
func (r *Runner[E]) Start(ctx context.Context, cfg RunConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done != nil {
		select {
		case <-r.done:
		default:
			return fmt.Errorf("%w: start while a run is active", ErrInvalidTransition)
		}
	}
	model, err := r.newModel()
	if err != nil {
		return fmt.Errorf("building model: %w", err)
	}
	ctl, err := NewController[E](cfg, model, r.sink)
	if err != nil {
		return err
	}
	if err := ctl.begin(); err != nil {
		return err
	}
	done := make(chan struct{})
	r.ctl, r.done, r.err = ctl, done, nil
	go func() {
		err := ctl.execute(ctx)
		r.mu.Lock()
		r.err = err
		r.mu.Unlock()
		close(done)
	}()
	return nil
}

// Wait blocks until the current run ends and returns its error.
func (r *Runner[E]) Wait() error {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done == nil {
		return ErrNotStarted
	}
	<-done
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Runner[E]) controller() (*Controller[E], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ctl == nil {
		return nil, ErrNotStarted
	}
	return r.ctl, nil
}

// Stop stops the current run.
func (r *Runner[E]) Stop() error {
	c, err := r.controller()
	if err != nil {
		return err
	}
	return c.Stop()
}

// Pause pauses the current run.
func (r *Runner[E]) Pause() error {
	c, err := r.controller()
	if err != nil {
		return err
	}
	return c.Pause()
}

// Resume resumes the current run.
func (r *Runner[E]) Resume() error {
	c, err := r.controller()
	if err != nil {
		return err
	}
	return c.Resume()
}

// SetTimeMultiplier changes the pacing speed of the current run.
func (r *Runner[E]) SetTimeMultiplier(m TimeMultiplier) error {
	c, err := r.controller()
	if err != nil {
		return err
	}
	return c.SetTimeMultiplier(m)
}

// SetExecutionMode switches the current run between virtual and real time.
func (r *Runner[E]) SetExecutionMode(m ExecutionMode) error {
	c, err := r.controller()
	if err != nil {
		return err
	}
	return c.SetExecutionMode(m)
}

// State returns the state of the current run.
func (r *Runner[E]) State() (State, error) {
	c, err := r.controller()
	if err != nil {
		return StateCreated, err
	}
	return c.State(), nil
}

// DoneReplications returns the number of completed replications of the current run.
func (r *Runner[E]) DoneReplications() (int, error) {
	c, err := r.controller()
	if err != nil {
		return 0, err
	}
	return c.DoneReplications(), nil
}
