package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Goertzel evaluates the squared DFT magnitude of a sampled signal at a
// single, not necessarily bin-aligned, frequency.
type Goertzel struct {
	coeff  float64
	s0, s1 float64
}

// NewGoertzel creates an analyzer for frequency, which must lie between 0
// and sampleRate/2.
func NewGoertzel(frequency, sampleRate float64) (*Goertzel, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: sample rate must be finite and > 0: %v", ErrInvalidInput, sampleRate)
	}
	if !(frequency >= 0) || frequency > sampleRate/2 {
		return nil, fmt.Errorf("%w: frequency must be between 0 and sampleRate/2: %v", ErrInvalidInput, frequency)
	}
	return &Goertzel{coeff: 2 * math.Cos(2*math.Pi*frequency/sampleRate)}, nil
}

// Reset clears the accumulated state.
func (g *Goertzel) Reset() {
	g.s0, g.s1 = 0, 0
}

// ProcessBlock feeds samples into the analyzer.
func (g *Goertzel) ProcessBlock(input []float64) {
	s0, s1 := g.s0, g.s1
	coeff := g.coeff
	for _, x := range input {
		s0, s1 = x+coeff*s0-s1, s0
	}
	g.s0, g.s1 = s0, s1
}

// Power returns |X(f)|^2 over all samples processed since the last Reset.
func (g *Goertzel) Power() float64 {
	return g.s0*g.s0 + g.s1*g.s1 - g.coeff*g.s0*g.s1
}

// SampledEstimate is [Estimate] computed from the realization sampled every
// dt, one Goertzel pass per frequency. Frequencies must not exceed the
// Nyquist frequency 1/(2dt). Like [Periodogram] it corrects for the
// zero-order hold and agrees with [Estimate] when every duration is a
// multiple of dt, but it accepts an arbitrary frequency grid.
func SampledEstimate(freqs, pulses, gaps []float64, pulseMagnitude, dt float64) ([]float64, error) {
	if err := validateDurations(pulses, gaps); err != nil {
		return nil, err
	}
	if err := validateFreqs(freqs); err != nil {
		return nil, err
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: sampling step must be finite and > 0: %v", ErrInvalidInput, dt)
	}

	total := TotalDuration(pulses, gaps)
	if !(total > 0) {
		return nil, errZeroTotal
	}
	n := int(math.Round(total / dt))
	if n < 2 {
		return nil, fmt.Errorf("%w: sampling step %v leaves fewer than 2 samples", ErrInvalidInput, dt)
	}

	raster := make([]complex128, n)
	rasterize(raster, pulses, gaps, pulseMagnitude, pulseMagnitude*floats.Sum(pulses)/total, dt)
	samples := make([]float64, n)
	for i, v := range raster {
		samples[i] = real(v)
	}

	out := make([]float64, len(freqs))
	for k, f := range freqs {
		g, err := NewGoertzel(f, 1/dt)
		if err != nil {
			return nil, fmt.Errorf("frequency %d: %w", k, err)
		}
		g.ProcessBlock(samples)
		x := math.Pi * f * dt
		hold := math.Sin(x) / x
		out[k] = g.Power() * hold * hold
	}
	vecmath.ScaleBlockInPlace(out, 2*dt*dt/total)
	return out, nil
}
