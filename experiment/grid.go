package experiment

import (
	"fmt"
	"math"
	"slices"

	"github.com/akononovicius/flicker-snorp/dsp/law"
	"gonum.org/v1/gonum/floats"
)

// Horizon returns the expected length of one realization: the duration
// budget in fixed-duration mode, Events times the mean pulse period otherwise.
func (c *Config) Horizon(pulse, gap law.Law) float64 {
	if c.Mode == ModeFixedDuration {
		return c.Duration
	}
	return float64(c.Events) * (pulse.Mean() + gap.Mean())
}

// FrequencyBounds returns the lowest and highest grid frequency.
//
// For exponential pulses and gaps the automatic range spans the whole
// realization down to twice the event rate over the shortest mean. Otherwise
// it runs from a tenth of the slowest bounded time scale to ten times the
// fastest one, both converted to ordinary frequency. Exponential laws have no
// bounds and do not contribute in that case; an unbounded Pareto tail is cut
// at the horizon.
func FrequencyBounds(cfg *Config, pulse, gap law.Law) (lo, hi float64, err error) {
	_, poissonPulse := pulse.(law.Poisson)
	_, poissonGap := gap.(law.Poisson)

	var autoLo, autoHi float64
	if poissonPulse && poissonGap {
		meanPulse, meanGap := pulse.Mean(), gap.Mean()
		n := float64(cfg.Events)
		if cfg.Mode == ModeFixedDuration {
			n = cfg.Duration / (meanPulse + meanGap)
		}
		autoLo = 1 / (n * (meanPulse + meanGap))
		autoHi = 2 * n / math.Min(meanPulse, meanGap)
	} else {
		horizon := cfg.Horizon(pulse, gap)
		fast, slow := math.Inf(1), 0.0
		for _, l := range []law.Law{pulse, gap} {
			s, ok := timeScales(l, horizon)
			if !ok {
				continue
			}
			fast = math.Min(fast, s[0])
			slow = math.Max(slow, s[1])
		}
		autoLo = 0.1 / (2 * math.Pi * slow)
		autoHi = 10 / (2 * math.Pi * fast)
	}

	lo, hi = cfg.MinFreq, cfg.MaxFreq
	if lo < 0 {
		lo = autoLo
	}
	if hi < 0 {
		hi = autoHi
	}
	if !(lo > 0) || !(hi > lo) || math.IsInf(hi, 0) {
		return 0, 0, fmt.Errorf("%w: cannot build a frequency grid from %v to %v; set min/max frequency explicitly",
			ErrInvalidConfig, lo, hi)
	}
	return lo, hi, nil
}

// timeScales returns the shortest and longest duration a bounded law
// produces.
func timeScales(l law.Law, horizon float64) ([2]float64, bool) {
	switch v := l.(type) {
	case law.BoundedPareto:
		b := truncate(v, horizon).(law.BoundedPareto)
		return [2]float64{b.Low, b.High}, true
	case law.Uniform:
		lo := v.Low
		if lo == 0 {
			lo = v.High
		}
		return [2]float64{lo, v.High}, v.High > 0
	case law.Constant:
		return [2]float64{v.Value, v.Value}, true
	default:
		return [2]float64{}, false
	}
}

// FrequencyGrid returns the log-spaced, ascending frequency grid for cfg.
// In fixed-duration mode the grid is snapped to the natural frequencies k/T.
func FrequencyGrid(cfg *Config, pulse, gap law.Law) ([]float64, error) {
	lo, hi, err := FrequencyBounds(cfg, pulse, gap)
	if err != nil {
		return nil, err
	}
	freqs := make([]float64, cfg.NumFreq)
	floats.LogSpan(freqs, lo, hi)

	if cfg.Mode == ModeFixedDuration {
		freqs = NaturalFrequencies(freqs, cfg.Duration)
		if len(freqs) == 0 {
			return nil, fmt.Errorf("%w: no natural frequency of duration %v in [%v, %v]",
				ErrInvalidConfig, cfg.Duration, lo, hi)
		}
	}
	return freqs, nil
}

// NaturalFrequencies rounds every frequency to the nearest multiple of
// 1/duration and drops duplicates and zero. The result is sorted.
func NaturalFrequencies(freqs []float64, duration float64) []float64 {
	out := make([]float64, 0, len(freqs))
	for _, f := range freqs {
		k := math.Round(duration * f)
		if k <= 0 {
			continue
		}
		out = append(out, k/duration)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
