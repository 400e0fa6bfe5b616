// Package stats accumulates online summary statistics and normal-approximation
// confidence intervals without retaining raw samples.
package stats

import "math"

const (
	// MinIntervalSamples is the smallest sample count for which a confidence
	// interval is reported.
	MinIntervalSamples = 30

	// Z95 is the two-sided 95% normal quantile used for interval half-widths.
	Z95 = 1.96
)

// Statistics accumulates count, sum, sum of squares, min and max.
// The zero value is NOT ready for use; call New.
type Statistics struct {
	count        int
	sum          float64
	sumOfSquares float64
	min          float64
	max          float64
}

// New returns an empty accumulator.
func New() *Statistics {
	s := &Statistics{}
	s.Reset()
	return s
}

// Reset zeroes all accumulators in place.
func (s *Statistics) Reset() {
	s.count = 0
	s.sum = 0
	s.sumOfSquares = 0
	s.min = math.Inf(1)
	s.max = math.Inf(-1)
}

// Add records one value.
func (s *Statistics) Add(v float64) {
	s.count++
	s.sum += v
	s.sumOfSquares += v * v
	s.min = math.Min(s.min, v)
	s.max = math.Max(s.max, v)
}

// Count returns the number of recorded values.
func (s *Statistics) Count() int { return s.count }

// Sum returns the sum of recorded values.
func (s *Statistics) Sum() float64 { return s.sum }

// Min returns the smallest value, or NaN when empty.
func (s *Statistics) Min() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.min
}

// Max returns the largest value, or NaN when empty.
func (s *Statistics) Max() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.max
}

// Mean returns sum/count, or NaN when empty.
func (s *Statistics) Mean() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.sum / float64(s.count)
}

// StdDev returns the population standard deviation, or NaN for fewer than 2 values.
func (s *Statistics) StdDev() float64 {
	if s.count < 2 {
		return math.NaN()
	}
	mean := s.Mean()
	// rounding can push the variance a hair below zero for constant input
	return math.Sqrt(math.Max(0, s.sumOfSquares/float64(s.count)-mean*mean))
}

// SampleStdDev returns the Bessel-corrected standard deviation, or NaN for
// fewer than 2 values.
func (s *Statistics) SampleStdDev() float64 {
	if s.count < 2 {
		return math.NaN()
	}
	n := float64(s.count)
	return math.Sqrt(math.Max(0, (s.sumOfSquares-s.sum*s.sum/n)/(n-1)))
}

// HalfWidth returns the 95% interval half-width, or NaN below MinIntervalSamples.
func (s *Statistics) HalfWidth() float64 {
	if s.count < MinIntervalSamples {
		return math.NaN()
	}
	return Z95 * s.SampleStdDev() / math.Sqrt(float64(s.count))
}

// ConfidenceInterval returns the 95% interval around the mean. Both bounds are
// NaN below MinIntervalSamples.
func (s *Statistics) ConfidenceInterval() (lower, upper float64) {
	h := s.HalfWidth()
	if math.IsNaN(h) {
		return math.NaN(), math.NaN()
	}
	m := s.Mean()
	return m - h, m + h
}

// Summary is an immutable snapshot of a Statistics accumulator.
type Summary struct {
	Count  int     `yaml:"count"`
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"std_dev"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Lower  float64 `yaml:"ci_lower"`
	Upper  float64 `yaml:"ci_upper"`
}

// Summary snapshots the current state. StdDev is the sample standard deviation.
func (s *Statistics) Summary() Summary {
	lo, hi := s.ConfidenceInterval()
	return Summary{
		Count:  s.count,
		Mean:   s.Mean(),
		StdDev: s.SampleStdDev(),
		Min:    s.Min(),
		Max:    s.Max(),
		Lower:  lo,
		Upper:  hi,
	}
}

// HasInterval reports whether the snapshot carries a defined confidence interval.
func (sm Summary) HasInterval() bool {
	return !math.IsNaN(sm.Lower) && !math.IsNaN(sm.Upper)
}
