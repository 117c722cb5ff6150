package theory

import (
	"math"

	"github.com/akononovicius/flicker-snorp/dsp/pareto"
)

// EulerGamma is the Euler-Mascheroni constant.
const EulerGamma = 0.5772156649015328606065120

// gamma evaluates the complete Gamma function. Poles yield NaN or ±Inf, which
// then propagate through the formulas the same way the analytic limit does.
func gamma(x float64) float64 {
	return math.Gamma(x)
}

func angular(f float64) float64 {
	return 2 * math.Pi * f
}

func fill(freqs []float64, v float64) []float64 {
	out := make([]float64, len(freqs))
	for i := range out {
		out[i] = v
	}
	return out
}

// PoissonPoisson returns the PSD of a signal whose pulse and gap durations
// are both exponentially distributed:
//
//	S(f) = 4 A^2 nu / ((1/meanPulse + 1/meanGap)^2 + w^2),  nu = 1/(meanPulse+meanGap)
func PoissonPoisson(freqs []float64, pulseMagnitude, meanPulse, meanGap float64) []float64 {
	gammaTheta := 1 / meanPulse
	gammaTau := 1 / meanGap
	nuBar := 1 / (meanPulse + meanGap)
	c := 4 * pulseMagnitude * pulseMagnitude * nuBar
	rate := gammaTheta + gammaTau

	out := make([]float64, len(freqs))
	for i, f := range freqs {
		w := angular(f)
		out[i] = c / (rate*rate + w*w)
	}
	return out
}

// LongPoissonPareto returns the PSD for exponentially distributed pulses much
// longer than the gaps, with bounded Pareto gaps on [minGap, maxGap].
func LongPoissonPareto(freqs []float64, pulseMagnitude, meanPulse, minGap, maxGap, powerGap float64) []float64 {
	nuBar := 1 / (meanPulse + pareto.Mean(minGap, maxGap, powerGap))
	scale := pulseMagnitude * pulseMagnitude * nuBar

	var out []float64
	switch {
	case powerGap == 1:
		out = make([]float64, len(freqs))
		for i, f := range freqs {
			out[i] = minGap / f
		}
	case powerGap < 2:
		c := 4 * minGap * minGap * gamma(1-powerGap) * math.Cos(math.Pi*powerGap/2)
		out = make([]float64, len(freqs))
		for i, f := range freqs {
			out[i] = c * math.Pow(angular(f)*minGap, powerGap-2)
		}
	default:
		out = fill(freqs, 2*minGap*minGap*powerGap/(powerGap-2))
	}

	for i := range out {
		out[i] *= scale
	}
	return out
}

// ShortPoissonPareto returns the PSD for exponentially distributed pulses
// much shorter than the gaps, with bounded Pareto gaps on [minGap, maxGap].
func ShortPoissonPareto(freqs []float64, pulseMagnitude, meanPulse, minGap, maxGap, powerGap float64) []float64 {
	nuBar := 1 / (meanPulse + pareto.Mean(minGap, maxGap, powerGap))
	scale := 4 * pulseMagnitude * pulseMagnitude * nuBar * meanPulse * meanPulse

	out := make([]float64, len(freqs))
	switch {
	case powerGap == 1:
		for i, f := range freqs {
			l := 1 - EulerGamma - math.Log(angular(f)*minGap)
			out[i] = 1 / f / minGap / (math.Pi*math.Pi + 4*l*l)
		}
	case powerGap < 1:
		c := math.Cos(math.Pi*powerGap/2) / gamma(1-powerGap)
		for i, f := range freqs {
			out[i] = c / math.Pow(angular(f)*minGap, powerGap)
		}
	case powerGap < 2:
		r := (powerGap - 1) / powerGap
		c := r * r * math.Cos(math.Pi*powerGap/2) * gamma(1-powerGap)
		for i, f := range freqs {
			out[i] = c / math.Pow(angular(f)*minGap, 2-powerGap)
		}
	default:
		c := (powerGap - 1) * (powerGap - 1) / (2 * (powerGap - 2) * powerGap)
		for i := range out {
			out[i] = c
		}
	}

	for i := range out {
		out[i] *= scale
	}
	return out
}

// AnyPareto returns the PSD for arbitrary pulses and bounded Pareto gaps with
// power exponent 1:
//
//	S(f) = A^2 nu minGap / f
//
// The general form is only known for powerGap == 1; any other exponent yields
// NaN at every frequency.
func AnyPareto(freqs []float64, nuBar, pulseMagnitude, minGap, maxGap, powerGap float64) []float64 {
	if powerGap != 1 {
		return fill(freqs, math.NaN())
	}
	c := pulseMagnitude * pulseMagnitude * nuBar * minGap
	out := make([]float64, len(freqs))
	for i, f := range freqs {
		out[i] = c / f
	}
	return out
}

// ConstantPareto is AnyPareto for pulses of fixed duration.
func ConstantPareto(freqs []float64, pulseMagnitude, fixedPulse, minGap, maxGap, powerGap float64) []float64 {
	nuBar := 1 / (fixedPulse + pareto.Mean(minGap, maxGap, powerGap))
	return AnyPareto(freqs, nuBar, pulseMagnitude, minGap, maxGap, powerGap)
}

// UniformPareto is AnyPareto for pulses uniformly distributed on
// [minPulse, maxPulse].
func UniformPareto(freqs []float64, pulseMagnitude, minPulse, maxPulse, minGap, maxGap, powerGap float64) []float64 {
	nuBar := 1 / ((minPulse+maxPulse)/2 + pareto.Mean(minGap, maxGap, powerGap))
	return AnyPareto(freqs, nuBar, pulseMagnitude, minGap, maxGap, powerGap)
}

// DoubleParetoPareto is AnyPareto for bounded Pareto pulses.
func DoubleParetoPareto(freqs []float64, pulseMagnitude, minPulse, maxPulse, powerPulse, minGap, maxGap, powerGap float64) []float64 {
	meanPulse := pareto.Mean(minPulse, maxPulse, powerPulse)
	nuBar := 1 / (meanPulse + pareto.Mean(minGap, maxGap, powerGap))
	return AnyPareto(freqs, nuBar, pulseMagnitude, minGap, maxGap, powerGap)
}
