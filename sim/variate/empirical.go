package variate

import (
	"fmt"
	"math"
	"math/rand"
)

// Interval is one piece of an empirical distribution: [Low, High) drawn with
// probability P.
type Interval struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
	P    float64 `yaml:"p"`
}

// Empirical samples from a piecewise-uniform distribution.
//
// A selector stream picks interval i as the smallest i with u <= cumulative[i]
// (cumulative sums in input order); the value is then drawn by that interval's
// own uniform stream.
type Empirical struct {
	selector   *rand.Rand
	pieces     []*Uniform
	cumulative []float64
	mode       Mode
}

// NewEmpirical creates an empirical generator. Probabilities must sum to 1
// within ProbabilityTolerance.
func NewEmpirical(src *SeedSource, intervals []Interval, mode Mode) (*Empirical, error) {
	if len(intervals) == 0 {
		return nil, fmt.Errorf("%w: empirical distribution needs at least one interval", ErrInvalidParams)
	}
	total := 0.0
	for i, iv := range intervals {
		if iv.P < 0 {
			return nil, fmt.Errorf("%w: interval %d has negative probability %v", ErrInvalidParams, i, iv.P)
		}
		total += iv.P
	}
	if math.Abs(total-1) > ProbabilityTolerance {
		return nil, fmt.Errorf("%w: got %v", ErrProbabilitySum, total)
	}

	e := &Empirical{
		selector:   src.newRand(),
		pieces:     make([]*Uniform, 0, len(intervals)),
		cumulative: make([]float64, 0, len(intervals)),
		mode:       mode,
	}
	sum := 0.0
	for i, iv := range intervals {
		piece, err := NewUniform(src, iv.Low, iv.High, mode)
		if err != nil {
			return nil, fmt.Errorf("interval %d: %w", i, err)
		}
		sum += iv.P
		e.pieces = append(e.pieces, piece)
		e.cumulative = append(e.cumulative, sum)
	}
	return e, nil
}

// pick selects the interval for the next sample. A draw above the last
// cumulative value (possible only through rounding) lands in the last interval.
func (e *Empirical) pick() *Uniform {
	u := e.selector.Float64()
	for i, c := range e.cumulative {
		if u <= c {
			return e.pieces[i]
		}
	}
	return e.pieces[len(e.pieces)-1]
}

// Float64 returns a real value from the selected interval.
func (e *Empirical) Float64() float64 {
	return e.pick().Float64()
}

// Int returns an integer from the selected interval. Only valid in Discrete mode.
func (e *Empirical) Int() (int, error) {
	if e.mode != Discrete {
		return 0, fmt.Errorf("%w: empirical generator configured as %s", ErrUnsupportedMode, e.mode)
	}
	return e.pick().Int()
}

// Sample draws in the configured mode.
func (e *Empirical) Sample() float64 {
	return e.pick().Sample()
}

// Mode reports the configured output mode.
func (e *Empirical) Mode() Mode { return e.mode }
