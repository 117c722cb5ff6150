package experiment

import (
	"math"

	"github.com/akononovicius/flicker-snorp/dsp/spectrum"
	"gonum.org/v1/gonum/floats"
)

// maxCheckBins bounds the periodogram bins compared against the exact
// estimator.
const maxCheckBins = 64

// Check compares the sampled estimators of one realization with its exact
// estimate. Deviations are the largest absolute difference divided by the
// largest exact value, so they are zero when every duration is a multiple
// of Step.
type Check struct {
	Step float64

	// Sampled is the Goertzel estimate on the experiment grid; NaN above the
	// Nyquist frequency 1/(2 Step).
	Sampled          []float64
	SampledDeviation float64

	PeriodogramDeviation float64
}

func crossCheck(freqs, exact, pulses, gaps []float64, magnitude, dt float64) (*Check, error) {
	nyquist := 1 / (2 * dt)
	below := 0
	for below < len(freqs) && freqs[below] <= nyquist {
		below++
	}

	c := &Check{Step: dt, Sampled: make([]float64, len(freqs))}
	for k := below; k < len(freqs); k++ {
		c.Sampled[k] = math.NaN()
	}
	if below > 0 {
		sampled, err := spectrum.SampledEstimate(freqs[:below], pulses, gaps, magnitude, dt)
		if err != nil {
			return nil, err
		}
		copy(c.Sampled, sampled)
		c.SampledDeviation = deviation(sampled, exact[:below])
	}

	binFreqs, psd, err := spectrum.Periodogram(pulses, gaps, magnitude, dt)
	if err != nil {
		return nil, err
	}
	idx := checkBins(len(binFreqs))
	at := make([]float64, len(idx))
	got := make([]float64, len(idx))
	for j, i := range idx {
		at[j] = binFreqs[i]
		got[j] = psd[i]
	}
	want, err := spectrum.Estimate(at, pulses, gaps, magnitude)
	if err != nil {
		return nil, err
	}
	c.PeriodogramDeviation = deviation(got, want)
	return c, nil
}

// checkBins returns up to maxCheckBins distinct, log-spaced indices into n
// periodogram bins.
func checkBins(n int) []int {
	if n <= maxCheckBins {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	pos := floats.LogSpan(make([]float64, maxCheckBins), 1, float64(n))
	idx := make([]int, 0, maxCheckBins)
	for _, p := range pos {
		i := int(math.Round(p)) - 1
		if len(idx) == 0 || i > idx[len(idx)-1] {
			idx = append(idx, i)
		}
	}
	return idx
}

func deviation(got, want []float64) float64 {
	peak := 0.0
	for _, w := range want {
		peak = math.Max(peak, math.Abs(w))
	}
	if peak == 0 {
		return 0
	}
	worst := 0.0
	for i := range got {
		worst = math.Max(worst, math.Abs(got[i]-want[i]))
	}
	return worst / peak
}
