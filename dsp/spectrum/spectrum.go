package spectrum

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// StartTimes returns the start time of every pulse and every gap.
//
// Gap i starts where pulse i-1 ended and pulse i starts where gap i ended:
//
//	pulseStart[i] = sum(pulses[:i]) + sum(gaps[:i+1])
//	gapStart[i]   = pulseStart[i] - gaps[i]
func StartTimes(pulses, gaps []float64) (pulseStarts, gapStarts []float64) {
	n := min(len(pulses), len(gaps))
	pulseStarts = make([]float64, n)
	gapStarts = make([]float64, n)

	var pulseSum, gapSum float64
	for i := range n {
		gapSum += gaps[i]
		pulseStarts[i] = pulseSum + gapSum
		gapStarts[i] = pulseStarts[i] - gaps[i]
		pulseSum += pulses[i]
	}
	return pulseStarts, gapStarts
}

// TotalDuration returns the length of the realization described by pulses
// and gaps.
func TotalDuration(pulses, gaps []float64) float64 {
	return floats.Sum(pulses) + floats.Sum(gaps)
}

// Estimate returns the one-sided PSD of a SNORP realization at freqs.
//
// The mean magnitude pulseMagnitude*sum(pulses)/T is removed before the
// transform. Without it the finite observation window leaks the DC component
// into the lowest frequencies. The result is normalized by 2/T.
//
// Zero-length entries (such as a truncated final pulse) are allowed and
// contribute nothing. Cost is O(len(pulses) * len(freqs)).
func Estimate(freqs, pulses, gaps []float64, pulseMagnitude float64) ([]float64, error) {
	if err := validateDurations(pulses, gaps); err != nil {
		return nil, err
	}
	if err := validateFreqs(freqs); err != nil {
		return nil, err
	}

	pulseStarts, gapStarts := StartTimes(pulses, gaps)
	last := len(pulses) - 1
	total := pulseStarts[last] + pulses[last]
	if !(total > 0) {
		return nil, errZeroTotal
	}

	meanMagnitude := pulseMagnitude * floats.Sum(pulses) / total
	pulseLevel := pulseMagnitude - meanMagnitude
	gapLevel := -meanMagnitude

	re := make([]float64, len(freqs))
	im := make([]float64, len(freqs))
	for k, f := range freqs {
		omega := 2 * math.Pi * f
		x := complex(pulseLevel, 0)*rectFourier(omega, pulses, pulseStarts) +
			complex(gapLevel, 0)*rectFourier(omega, gaps, gapStarts)
		re[k] = real(x)
		im[k] = imag(x)
	}

	out := make([]float64, len(freqs))
	vecmath.Power(out, re, im)
	vecmath.ScaleBlockInPlace(out, 2/total)
	return out, nil
}

// rectFourier returns the Fourier transform at omega of unit-magnitude
// rectangles with the given durations and start times:
//
//	sum_j (i/omega) * (exp(-i*omega*d_j) - 1) * exp(-i*omega*s_j)
func rectFourier(omega float64, durations, starts []float64) complex128 {
	var sumRe, sumIm float64
	for j, d := range durations {
		if d == 0 {
			continue
		}
		// exp(-i*omega*d) - 1 with cos(x)-1 written as -2*sin(x/2)^2.
		half := math.Sin(omega * d / 2)
		pRe := -2 * half * half
		pIm := -math.Sin(omega * d)

		sinS, cosS := math.Sincos(omega * starts[j])
		// (pRe + i*pIm) * (cosS - i*sinS)
		sumRe += pRe*cosS + pIm*sinS
		sumIm += pIm*cosS - pRe*sinS
	}
	// (i/omega) * (sumRe + i*sumIm)
	return complex(-sumIm/omega, sumRe/omega)
}

// Average returns the element-wise arithmetic mean of equally long PSD
// estimates, e.g. the repeats of one simulation.
func Average(psds [][]float64) ([]float64, error) {
	if len(psds) == 0 {
		return nil, errEmptyRealization
	}
	n := len(psds[0])
	out := make([]float64, n)
	for i, p := range psds {
		if len(p) != n {
			return nil, mismatch(i, len(p), n)
		}
		vecmath.AddBlockInPlace(out, p)
	}
	vecmath.ScaleBlockInPlace(out, 1/float64(len(psds)))
	return out, nil
}
