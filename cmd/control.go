package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/workshop-sim/sim"
)

// controllable is the part of sim.Runner driven from the console.
type controllable interface {
	Pause() error
	Resume() error
	Stop() error
	SetTimeMultiplier(sim.TimeMultiplier) error
	SetExecutionMode(sim.ExecutionMode) error
}

const controlHelp = "commands: p (pause), r (resume), s (stop), speed <multiplier>, mode <virtual|real>"

// applyCommand executes one console command line against c.
func applyCommand(c controllable, line string) error {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil
	}
	switch fields[0] {
	case "p", "pause":
		return c.Pause()
	case "r", "resume":
		return c.Resume()
	case "s", "stop":
		return c.Stop()
	case "speed":
		if len(fields) != 2 {
			return fmt.Errorf("usage: speed <multiplier>")
		}
		m, err := sim.ParseTimeMultiplier(fields[1])
		if err != nil {
			return err
		}
		return c.SetTimeMultiplier(m)
	case "mode":
		if len(fields) != 2 {
			return fmt.Errorf("usage: mode <virtual|real>")
		}
		m, err := sim.ParseExecutionMode(fields[1])
		if err != nil {
			return err
		}
		return c.SetExecutionMode(m)
	default:
		return fmt.Errorf("unknown command %q; %s", fields[0], controlHelp)
	}
}

// readCommands applies each line of r to c until r is exhausted or ctx is
// done. Command errors are logged and do not end the loop.
func readCommands(ctx context.Context, r io.Reader, c controllable) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		if err := applyCommand(c, scanner.Text()); err != nil {
			logrus.Warnf("control: %v", err)
		}
	}
}

// stopOnDone stops c once ctx is done. It returns when ctx is done or
// finished is closed.
func stopOnDone(ctx context.Context, finished <-chan struct{}, c controllable) {
	select {
	case <-ctx.Done():
		if err := c.Stop(); err != nil {
			logrus.Debugf("control: stop after %v: %v", ctx.Err(), err)
		}
	case <-finished:
	}
}
