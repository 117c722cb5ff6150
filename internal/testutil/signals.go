package testutil

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// LogGrid returns n log-spaced frequencies from lo to hi inclusive.
func LogGrid(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	return floats.LogSpan(out, lo, hi)
}

// ExpDurations returns n deterministic exponential pulse and gap durations
// with the given means.
func ExpDurations(seed uint64, n int, meanPulse, meanGap float64) (pulses, gaps []float64) {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	pulses = make([]float64, n)
	gaps = make([]float64, n)
	for i := range pulses {
		pulses[i] = rng.ExpFloat64() * meanPulse
		gaps[i] = rng.ExpFloat64() * meanGap
	}
	return pulses, gaps
}
