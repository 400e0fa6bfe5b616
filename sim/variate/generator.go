// Package variate provides pseudo-random variate generators used by the
// simulation models: uniform, exponential, triangular and piecewise empirical.
//
// Each generator owns a private stream seeded from a SeedSource, so drawing
// from one generator never perturbs another.
package variate

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedMode is returned when a generator is asked for an output
	// form it cannot produce (e.g. an integer from an exponential).
	ErrUnsupportedMode = errors.New("unsupported generator mode")

	// ErrProbabilitySum is returned when empirical interval probabilities do
	// not sum to 1.
	ErrProbabilitySum = errors.New("probabilities must sum to 1")

	// ErrInvalidParams is returned for malformed distribution parameters.
	ErrInvalidParams = errors.New("invalid distribution parameters")
)

// ProbabilityTolerance is the accepted deviation of summed probabilities from 1.
const ProbabilityTolerance = 1e-9

// Mode selects between continuous and discrete output.
type Mode int

const (
	// Continuous generators return real-valued samples.
	Continuous Mode = iota
	// Discrete generators return integer samples.
	Discrete
)

// String returns the lowercase name of the mode.
func (m Mode) String() string {
	switch m {
	case Continuous:
		return "continuous"
	case Discrete:
		return "discrete"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Generator produces samples from one distribution.
type Generator interface {
	// Float64 returns one real-valued sample.
	Float64() float64
	// Int returns one integer sample, or ErrUnsupportedMode when the
	// generator only produces continuous output.
	Int() (int, error)
	// Sample returns one sample in the generator's configured mode.
	Sample() float64
	// Mode reports the generator's configured output mode.
	Mode() Mode
}
