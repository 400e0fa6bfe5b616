package sim

import (
	"fmt"
	"math"
)

// RunConfig groups replication-controller parameters.
type RunConfig struct {
	Replications int            `yaml:"replications"` // number of replications (must be >= 1)
	SkipPercent  float64        `yaml:"skip_percent"` // leading share of replications excluded from aggregation, [0, 100)
	Horizon      float64        `yaml:"horizon"`      // simulated seconds per replication (must be > 0)
	Mode         ExecutionMode  `yaml:"-"`
	Multiplier   TimeMultiplier `yaml:"-"`
}

// Validate rejects configurations that cannot start a run.
func (c RunConfig) Validate() error {
	if c.Replications < 1 {
		return fmt.Errorf("replications must be >= 1, got %d", c.Replications)
	}
	if c.SkipPercent < 0 || c.SkipPercent >= 100 || math.IsNaN(c.SkipPercent) {
		return fmt.Errorf("skip percent must be in [0, 100), got %v", c.SkipPercent)
	}
	if !(c.Horizon > 0) || math.IsInf(c.Horizon, 0) {
		return fmt.Errorf("horizon must be positive and finite, got %v", c.Horizon)
	}
	if c.Mode != VirtualTime && c.Mode != RealTime {
		return fmt.Errorf("unknown execution mode %d", int(c.Mode))
	}
	if !c.Multiplier.Valid() {
		return fmt.Errorf("unknown time multiplier %d", int(c.Multiplier))
	}
	return nil
}

// PastWarmup reports whether replication rep (1-based) lies beyond the
// skipped warm-up share.
func (c RunConfig) PastWarmup(rep int) bool {
	return float64(rep) > float64(c.Replications)*c.SkipPercent/100
}
