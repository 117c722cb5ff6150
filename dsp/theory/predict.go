package theory

import (
	"errors"
	"fmt"

	"github.com/akononovicius/flicker-snorp/dsp/law"
)

// ErrUnsupportedCombination is returned by Predict for pulse/gap laws
// without a closed-form spectrum in this package.
var ErrUnsupportedCombination = errors.New("theory: unsupported law combination")

// Regime identifies the closed form used for a pair of laws.
type Regime int

const (
	RegimePoissonPoisson Regime = iota
	RegimeLongPoissonPareto
	RegimeShortPoissonPareto
	RegimeConstantPareto
	RegimeUniformPareto
	RegimeDoubleParetoPareto
)

func (r Regime) String() string {
	switch r {
	case RegimePoissonPoisson:
		return "poisson-poisson"
	case RegimeLongPoissonPareto:
		return "long-poisson-pareto"
	case RegimeShortPoissonPareto:
		return "short-poisson-pareto"
	case RegimeConstantPareto:
		return "const-pareto"
	case RegimeUniformPareto:
		return "uniform-pareto"
	case RegimeDoubleParetoPareto:
		return "pareto-pareto"
	default:
		return fmt.Sprintf("Regime(%d)", int(r))
	}
}

// NuBar returns the mean pulse rate 1/(<pulse> + <gap>).
func NuBar(pulse, gap law.Law) float64 {
	return 1 / (pulse.Mean() + gap.Mean())
}

// Select picks the closed form for the given laws. Exponential pulses with
// Pareto gaps use the short-pulse form when the mean pulse is below the
// lower gap bound and the long-pulse form otherwise.
func Select(pulse, gap law.Law) (Regime, error) {
	switch g := gap.(type) {
	case law.Poisson:
		if _, ok := pulse.(law.Poisson); ok {
			return RegimePoissonPoisson, nil
		}
	case law.BoundedPareto:
		switch p := pulse.(type) {
		case law.Poisson:
			if p.MeanDuration < g.Low {
				return RegimeShortPoissonPareto, nil
			}
			return RegimeLongPoissonPareto, nil
		case law.Constant:
			return RegimeConstantPareto, nil
		case law.Uniform:
			return RegimeUniformPareto, nil
		case law.BoundedPareto:
			return RegimeDoubleParetoPareto, nil
		}
	}
	return 0, fmt.Errorf("%w: pulses %s, gaps %s", ErrUnsupportedCombination, pulse, gap)
}

// Predict evaluates the theoretical PSD of a SNORP with the given pulse
// magnitude and duration laws.
func Predict(freqs []float64, pulseMagnitude float64, pulse, gap law.Law) ([]float64, Regime, error) {
	if err := pulse.Validate(); err != nil {
		return nil, 0, err
	}
	if err := gap.Validate(); err != nil {
		return nil, 0, err
	}
	regime, err := Select(pulse, gap)
	if err != nil {
		return nil, 0, err
	}

	if regime == RegimePoissonPoisson {
		return PoissonPoisson(freqs, pulseMagnitude, pulse.Mean(), gap.Mean()), regime, nil
	}

	g := gap.(law.BoundedPareto)
	var out []float64
	switch p := pulse.(type) {
	case law.Poisson:
		if regime == RegimeShortPoissonPareto {
			out = ShortPoissonPareto(freqs, pulseMagnitude, p.MeanDuration, g.Low, g.High, g.Power)
		} else {
			out = LongPoissonPareto(freqs, pulseMagnitude, p.MeanDuration, g.Low, g.High, g.Power)
		}
	case law.Constant:
		out = ConstantPareto(freqs, pulseMagnitude, p.Value, g.Low, g.High, g.Power)
	case law.Uniform:
		out = UniformPareto(freqs, pulseMagnitude, p.Low, p.High, g.Low, g.High, g.Power)
	case law.BoundedPareto:
		out = DoubleParetoPareto(freqs, pulseMagnitude, p.Low, p.High, p.Power, g.Low, g.High, g.Power)
	}
	return out, regime, nil
}
