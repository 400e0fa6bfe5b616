package variate

import (
	"fmt"
	"math/rand"
)

// Uniform samples uniformly from [min, max).
type Uniform struct {
	rng      *rand.Rand
	min, max float64
	mode     Mode
}

// NewUniform creates a uniform generator over [min, max).
// In Discrete mode both bounds are truncated to integers and the integer
// range must be non-empty.
func NewUniform(src *SeedSource, min, max float64, mode Mode) (*Uniform, error) {
	if max <= min {
		return nil, fmt.Errorf("%w: uniform requires min < max, got [%v, %v)", ErrInvalidParams, min, max)
	}
	if mode == Discrete && int(max)-int(min) <= 0 {
		return nil, fmt.Errorf("%w: discrete uniform range [%d, %d) is empty", ErrInvalidParams, int(min), int(max))
	}
	return &Uniform{rng: src.newRand(), min: min, max: max, mode: mode}, nil
}

// Float64 returns a real value in [min, max).
func (u *Uniform) Float64() float64 {
	return u.min + u.rng.Float64()*(u.max-u.min)
}

// Int returns an integer in [min, max).
// Fails when the truncated range is empty, which only a Continuous generator
// over a sub-unit interval can reach.
func (u *Uniform) Int() (int, error) {
	lo, hi := int(u.min), int(u.max)
	if hi-lo <= 0 {
		return 0, fmt.Errorf("%w: integer range [%d, %d) is empty", ErrUnsupportedMode, lo, hi)
	}
	return lo + u.rng.Intn(hi-lo), nil
}

// Sample returns Float64 in Continuous mode and Int in Discrete mode.
func (u *Uniform) Sample() float64 {
	if u.mode == Discrete {
		v, _ := u.Int()
		return float64(v)
	}
	return u.Float64()
}

// Mode reports the configured output mode.
func (u *Uniform) Mode() Mode { return u.mode }
