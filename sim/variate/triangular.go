package variate

import (
	"fmt"
	"math"
	"math/rand"
)

// Triangular samples from a triangular distribution on [min, max] peaking at mode.
// Continuous only.
type Triangular struct {
	rng            *rand.Rand
	min, max, peak float64
	split          float64 // (peak-min)/(max-min), the CDF value at the peak
}

// NewTriangular creates a triangular generator. Requires min < max and
// min <= mode <= max.
func NewTriangular(src *SeedSource, min, max, mode float64) (*Triangular, error) {
	if max <= min || mode < min || mode > max {
		return nil, fmt.Errorf("%w: triangular requires min < max and min <= mode <= max, got (%v, %v, %v)",
			ErrInvalidParams, min, max, mode)
	}
	return &Triangular{
		rng:   src.newRand(),
		min:   min,
		max:   max,
		peak:  mode,
		split: (mode - min) / (max - min),
	}, nil
}

// Float64 draws one sample by inverse CDF.
func (t *Triangular) Float64() float64 {
	u := t.rng.Float64()
	if u < t.split {
		return t.min + math.Sqrt(u*(t.max-t.min)*(t.peak-t.min))
	}
	return t.max - math.Sqrt((1-u)*(t.max-t.min)*(t.max-t.peak))
}

// Int always fails: the triangular generator is continuous.
func (t *Triangular) Int() (int, error) {
	return 0, fmt.Errorf("%w: triangular generator has no integer form", ErrUnsupportedMode)
}

// Sample is Float64.
func (t *Triangular) Sample() float64 { return t.Float64() }

// Mode is always Continuous.
func (t *Triangular) Mode() Mode { return Continuous }
