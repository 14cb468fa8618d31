// Package stats keeps running summaries of search and analysis numbers.
package stats

import "math"

const Epsilon = 1e-6

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Running accumulates a mean and variance one sample at a time (Welford's
// method), plus the extremes. The zero value is empty and ready to use.
type Running struct {
	n    int
	mean float64
	m2   float64
	min  float64
	max  float64
}

func (r *Running) Add(x float64) {
	r.n++
	if r.n == 1 {
		r.mean, r.min, r.max = x, x, x
		return
	}
	delta := x - r.mean
	r.mean += delta / float64(r.n)
	r.m2 += delta * (x - r.mean)
	r.min = math.Min(r.min, x)
	r.max = math.Max(r.max, x)
}

func (r *Running) N() int { return r.n }

func (r *Running) Mean() float64 {
	return r.mean
}

// Variance is the sample variance, 0 with fewer than two samples.
func (r *Running) Variance() float64 {
	if r.n < 2 {
		return 0
	}
	return r.m2 / float64(r.n-1)
}

func (r *Running) Stdev() float64 {
	return math.Sqrt(r.Variance())
}

func (r *Running) Min() float64 { return r.min }
func (r *Running) Max() float64 { return r.max }

func (r *Running) StandardError() float64 {
	if r.n == 0 {
		return 0
	}
	return math.Sqrt(r.Variance() / float64(r.n))
}

// Interval is the half-width of the two-sided confidence interval around
// the mean, confidence given in percent.
func (r *Running) Interval(confidence float64) float64 {
	return ZVal(confidence) * r.StandardError()
}

// Summary is a Running frozen for reports.
type Summary struct {
	N     int     `yaml:"n"`
	Mean  float64 `yaml:"mean"`
	Stdev float64 `yaml:"stdev"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	CI95  float64 `yaml:"ci95"`
}

func (r *Running) Summary() Summary {
	return Summary{
		N:     r.n,
		Mean:  r.mean,
		Stdev: r.Stdev(),
		Min:   r.min,
		Max:   r.max,
		CI95:  r.Interval(95),
	}
}
