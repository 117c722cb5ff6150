package spectrum

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Periodogram samples a SNORP realization every dt and returns its one-sided
// periodogram at the FFT bin frequencies k/(M*dt), k = 1..M/2, where M is the
// sample count rounded up to a power of two.
//
// Each sample holds the signal value at the middle of its cell and the
// spectrum is corrected for the zero-order hold, so the result matches
// [Estimate] exactly when every duration is an integer multiple of dt.
func Periodogram(pulses, gaps []float64, pulseMagnitude, dt float64) (freqs, psd []float64, err error) {
	if err := validateDurations(pulses, gaps); err != nil {
		return nil, nil, err
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, nil, fmt.Errorf("%w: sampling step must be finite and > 0: %v", ErrInvalidInput, dt)
	}

	total := TotalDuration(pulses, gaps)
	if !(total > 0) {
		return nil, nil, errZeroTotal
	}
	n := int(math.Round(total / dt))
	if n < 2 {
		return nil, nil, fmt.Errorf("%w: sampling step %v leaves fewer than 2 samples", ErrInvalidInput, dt)
	}
	fftSize := nextPowerOf2(n)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, fftSize)
	rasterize(in[:n], pulses, gaps, pulseMagnitude, pulseMagnitude*floats.Sum(pulses)/total, dt)

	bins := make([]complex128, fftSize)
	if err := plan.Forward(bins, in); err != nil {
		return nil, nil, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}

	half := fftSize / 2
	re := make([]float64, half)
	im := make([]float64, half)
	for k := 1; k <= half; k++ {
		re[k-1] = real(bins[k])
		im[k-1] = imag(bins[k])
	}
	psd = make([]float64, half)
	vecmath.Power(psd, re, im)

	freqs = make([]float64, half)
	norm := 2 * dt * dt / total
	for k := range psd {
		freqs[k] = float64(k+1) / (float64(fftSize) * dt)
		x := math.Pi * freqs[k] * dt
		hold := math.Sin(x) / x
		psd[k] *= norm * hold * hold
	}
	return freqs, psd, nil
}

// rasterize writes the mean-removed signal level at the middle of each dt
// cell into dst.
func rasterize(dst []complex128, pulses, gaps []float64, magnitude, mean, dt float64) {
	var (
		end   float64
		level float64
		i     int
		pulse bool
	)
	// Starts with gap 0; each boundary flips between gap and pulse.
	end = gaps[0]
	level = -mean
	for n := range dst {
		mid := (float64(n) + 0.5) * dt
		for mid >= end && i < len(pulses) {
			if pulse {
				i++
				if i == len(pulses) {
					break
				}
				end += gaps[i]
				level = -mean
			} else {
				end += pulses[i]
				level = magnitude - mean
			}
			pulse = !pulse
		}
		dst[n] = complex(level, 0)
	}
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
