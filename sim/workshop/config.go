package workshop

import (
	"fmt"
	"math"

	"github.com/inference-sim/workshop-sim/sim/trace"
	"github.com/inference-sim/workshop-sim/sim/variate"
)

// OrderMix is the probability of each order type on arrival.
type OrderMix struct {
	Table    float64 `yaml:"table"`
	Chair    float64 `yaml:"chair"`
	Wardrobe float64 `yaml:"wardrobe"`
}

// Pick maps a uniform draw u in [0, 1) to an order type using the
// cumulative order Table, Chair, Wardrobe.
func (m OrderMix) Pick(u float64) OrderType {
	switch {
	case u < m.Table:
		return Table
	case u < m.Table+m.Chair:
		return Chair
	default:
		return Wardrobe
	}
}

// Config groups workshop model parameters.
type Config struct {
	GroupA          int              `yaml:"group_a"`
	GroupB          int              `yaml:"group_b"`
	GroupC          int              `yaml:"group_c"`
	ArrivalsPerHour float64          `yaml:"arrivals_per_hour"`
	OrderMix        OrderMix         `yaml:"order_mix"`
	MaxArrivals     int              `yaml:"max_arrivals"` // 0 = unbounded
	Trace           trace.TraceLevel `yaml:"trace"`
}

// DefaultConfig returns the reference workshop: 2 orders per hour, half of
// them tables, 15% chairs and 35% wardrobes.
func DefaultConfig() Config {
	return Config{
		GroupA:          2,
		GroupB:          2,
		GroupC:          2,
		ArrivalsPerHour: 2,
		OrderMix:        OrderMix{Table: 0.5, Chair: 0.15, Wardrobe: 0.35},
		Trace:           trace.TraceLevelNone,
	}
}

// GroupSize returns the configured number of carpenters in g.
func (c Config) GroupSize(g Group) int {
	switch g {
	case GroupA:
		return c.GroupA
	case GroupB:
		return c.GroupB
	default:
		return c.GroupC
	}
}

// Validate rejects configurations that cannot build a model.
func (c Config) Validate() error {
	for _, g := range Groups {
		if c.GroupSize(g) < 0 {
			return fmt.Errorf("group %s size must be >= 0, got %d", g, c.GroupSize(g))
		}
	}
	if !(c.ArrivalsPerHour > 0) || math.IsInf(c.ArrivalsPerHour, 0) {
		return fmt.Errorf("arrivals per hour must be positive and finite, got %v", c.ArrivalsPerHour)
	}
	m := c.OrderMix
	if m.Table < 0 || m.Chair < 0 || m.Wardrobe < 0 {
		return fmt.Errorf("order mix probabilities must be >= 0, got %+v", m)
	}
	if sum := m.Table + m.Chair + m.Wardrobe; math.Abs(sum-1) > variate.ProbabilityTolerance {
		return fmt.Errorf("%w: order mix sums to %v", variate.ErrProbabilitySum, sum)
	}
	if c.MaxArrivals < 0 {
		return fmt.Errorf("max arrivals must be >= 0, got %d", c.MaxArrivals)
	}
	if !trace.IsValidTraceLevel(string(c.Trace)) {
		return fmt.Errorf("unknown trace level %q", c.Trace)
	}
	return nil
}
