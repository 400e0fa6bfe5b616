package sim

import (
	"fmt"
	"strings"
	"time"
)

// ExecutionMode selects virtual-time (as fast as possible) or paced real-time execution.
type ExecutionMode int

const (
	// VirtualTime runs events back to back with no wall-clock coupling.
	VirtualTime ExecutionMode = iota
	// RealTime inserts a recurring pacing tick that delays the event loop by
	// one simulated second per tick, scaled by the TimeMultiplier.
	RealTime
)

// String returns the CLI name of the mode.
func (m ExecutionMode) String() string {
	switch m {
	case VirtualTime:
		return "virtual"
	case RealTime:
		return "real"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseExecutionMode parses "virtual" or "real".
func ParseExecutionMode(s string) (ExecutionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "virtual", "virtual-time":
		return VirtualTime, nil
	case "real", "real-time":
		return RealTime, nil
	default:
		return VirtualTime, fmt.Errorf("unknown execution mode %q (want virtual or real)", s)
	}
}

// TimeMultiplier is the enumerated simulation speed relative to wall clock.
type TimeMultiplier int

const (
	SpeedTenth TimeMultiplier = iota
	SpeedFifth
	SpeedHalf
	Speed1x
	Speed2x
	Speed5x
	Speed10x
	Speed50x
	Speed100x
	Speed500x
	Speed1000x
	Speed5000x
	Speed10000x
	Speed50000x
	Speed100000x
)

var multiplierTable = [...]struct {
	label  string
	factor float64
}{
	SpeedTenth:   {"1/10x", 1.0 / 10},
	SpeedFifth:   {"1/5x", 1.0 / 5},
	SpeedHalf:    {"1/2x", 1.0 / 2},
	Speed1x:      {"1x", 1},
	Speed2x:      {"2x", 2},
	Speed5x:      {"5x", 5},
	Speed10x:     {"10x", 10},
	Speed50x:     {"50x", 50},
	Speed100x:    {"100x", 100},
	Speed500x:    {"500x", 500},
	Speed1000x:   {"1000x", 1000},
	Speed5000x:   {"5000x", 5000},
	Speed10000x:  {"10000x", 10000},
	Speed50000x:  {"50000x", 50000},
	Speed100000x: {"100000x", 100000},
}

// TimeMultipliers lists every supported multiplier from slowest to fastest.
func TimeMultipliers() []TimeMultiplier {
	out := make([]TimeMultiplier, len(multiplierTable))
	for i := range multiplierTable {
		out[i] = TimeMultiplier(i)
	}
	return out
}

// Valid reports whether m is one of the enumerated multipliers.
func (m TimeMultiplier) Valid() bool {
	return m >= 0 && int(m) < len(multiplierTable)
}

// Factor returns simulated seconds per wall-clock second.
func (m TimeMultiplier) Factor() float64 {
	if !m.Valid() {
		return 1
	}
	return multiplierTable[m].factor
}

// String returns the label, e.g. "1/10x" or "500x".
func (m TimeMultiplier) String() string {
	if !m.Valid() {
		return fmt.Sprintf("multiplier(%d)", int(m))
	}
	return multiplierTable[m].label
}

// TickInterval is the wall-clock delay for one simulated second.
func (m TimeMultiplier) TickInterval() time.Duration {
	return time.Duration(float64(time.Second) / m.Factor())
}

// ParseTimeMultiplier parses a label such as "1x", "1/2x" or "1000x".
// The trailing "x" is optional.
func ParseTimeMultiplier(s string) (TimeMultiplier, error) {
	label := strings.ToLower(strings.TrimSpace(s))
	if !strings.HasSuffix(label, "x") {
		label += "x"
	}
	for i, row := range multiplierTable {
		if row.label == label {
			return TimeMultiplier(i), nil
		}
	}
	return Speed1x, fmt.Errorf("unknown time multiplier %q", s)
}
