package stats

import (
	"testing"

	"github.com/matryer/is"
)

func TestRunning(t *testing.T) {
	is := is.New(t)
	cases := []struct {
		samples []float64
		mean    float64
		stdev   float64
		min     float64
		max     float64
	}{
		{[]float64{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638, 10, 23},
		{[]float64{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891, 10, 124},
		{[]float64{1}, 1, 0, 1, 1},
		{[]float64{}, 0, 0, 0, 0},
		{[]float64{-3, -3}, -3, 0, -3, -3},
	}
	for _, c := range cases {
		r := &Running{}
		for _, x := range c.samples {
			r.Add(x)
		}
		is.Equal(r.N(), len(c.samples))
		is.True(FuzzyEqual(r.Mean(), c.mean))
		is.True(FuzzyEqual(r.Stdev(), c.stdev))
		is.True(FuzzyEqual(r.Min(), c.min))
		is.True(FuzzyEqual(r.Max(), c.max))
	}
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(ZVal(95), 1.959963984540054))
	is.True(FuzzyEqual(ZVal(99), 2.5758293035489))
}

func TestSummary(t *testing.T) {
	is := is.New(t)
	r := &Running{}
	for _, x := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		r.Add(x)
	}
	s := r.Summary()
	is.Equal(s.N, 8)
	is.True(FuzzyEqual(s.Mean, 5))
	is.True(FuzzyEqual(s.CI95, ZVal(95)*r.Stdev()/2.8284271247461903))
}
