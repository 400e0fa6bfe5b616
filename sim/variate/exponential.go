package variate

import (
	"fmt"
	"math"
	"math/rand"
)

// Exponential samples inter-event times with the given rate (events per unit time).
// Continuous only.
type Exponential struct {
	rng  *rand.Rand
	rate float64
}

// NewExponential creates an exponential generator. rate must be positive.
func NewExponential(src *SeedSource, rate float64) (*Exponential, error) {
	if rate <= 0 || math.IsInf(rate, 0) || math.IsNaN(rate) {
		return nil, fmt.Errorf("%w: exponential rate must be positive and finite, got %v", ErrInvalidParams, rate)
	}
	return &Exponential{rng: src.newRand(), rate: rate}, nil
}

// Float64 draws -ln(1-u)/rate by inverse CDF.
func (e *Exponential) Float64() float64 {
	return -math.Log(1-e.rng.Float64()) / e.rate
}

// Int always fails: the exponential is continuous.
func (e *Exponential) Int() (int, error) {
	return 0, fmt.Errorf("%w: exponential generator has no integer form", ErrUnsupportedMode)
}

// Sample is Float64.
func (e *Exponential) Sample() float64 { return e.Float64() }

// Mode is always Continuous.
func (e *Exponential) Mode() Mode { return Continuous }
