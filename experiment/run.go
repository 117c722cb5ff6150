package experiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/akononovicius/flicker-snorp/dsp/law"
	"github.com/akononovicius/flicker-snorp/dsp/simulate"
	"github.com/akononovicius/flicker-snorp/dsp/spectrum"
	"github.com/akononovicius/flicker-snorp/dsp/theory"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// maxAutoSeed bounds seeds drawn when the config asks for a random one, so
// they stay short enough to type back in.
const maxAutoSeed = 1 << 20

// Result holds the averaged PSD of an experiment together with the
// parameters needed to reproduce it.
type Result struct {
	Config Config
	Seed   uint64
	Pulse  law.Law
	Gap    law.Law

	// Regime names the closed form used for Theory, or is empty when no
	// closed form exists for the laws.
	Regime string

	Freqs     []float64
	Empirical []float64
	// StdErr is the standard error of the mean over repeats; nil for a
	// single repeat.
	StdErr []float64
	// Theory is all NaN when no closed form exists.
	Theory []float64

	// Check compares the sampled estimators with the exact one on the first
	// realization; nil unless Config.CheckStep is set.
	Check *Check

	Elapsed time.Duration
}

// Runner executes experiments.
type Runner struct {
	logger *zap.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run simulates cfg.Repeats realizations in parallel and averages their
// PSD estimates. Repeat i uses stream i of the experiment seed, so the
// result does not depend on the number of workers.
func (r *Runner) Run(ctx context.Context, cfg *Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pulse, gap, err := cfg.Laws()
	if err != nil {
		return nil, err
	}
	if pulse.Mean()+gap.Mean() <= 0 {
		return nil, fmt.Errorf("%w: pulse and gap means sum to zero", ErrInvalidConfig)
	}
	freqs, err := FrequencyGrid(cfg, pulse, gap)
	if err != nil {
		return nil, err
	}

	seed := uint64(cfg.Seed)
	if cfg.Seed < 0 {
		seed = rand.Uint64N(maxAutoSeed)
	}
	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	logger := r.logger.With(
		zap.Uint64("seed", seed),
		zap.Stringer("pulse", pulse),
		zap.Stringer("gap", gap),
		zap.String("mode", string(cfg.Mode)),
	)
	logger.Info("starting experiment",
		zap.Int("repeats", cfg.Repeats),
		zap.Int("workers", workers),
		zap.Int("frequencies", len(freqs)),
		zap.Float64("min_freq", freqs[0]),
		zap.Float64("max_freq", freqs[len(freqs)-1]),
	)

	start := time.Now()
	psds := make([][]float64, cfg.Repeats)
	var firstPulses, firstGaps []float64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range cfg.Repeats {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			psd, pulses, gaps, err := realize(cfg, seed, uint64(i), freqs, pulse, gap)
			if err != nil {
				return fmt.Errorf("repeat %d: %w", i, err)
			}
			psds[i] = psd
			if i == 0 && cfg.CheckStep > 0 {
				firstPulses, firstGaps = pulses, gaps
			}
			logger.Debug("repeat done", zap.Int("repeat", i), zap.Int("events", len(pulses)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mean, err := spectrum.Average(psds)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Config:    *cfg,
		Seed:      seed,
		Pulse:     pulse,
		Gap:       gap,
		Freqs:     freqs,
		Empirical: mean,
		StdErr:    standardError(psds),
	}

	horizon := cfg.Horizon(pulse, gap)
	th, regime, err := theory.Predict(freqs, cfg.PulseMagnitude, truncate(pulse, horizon), truncate(gap, horizon))
	switch {
	case errors.Is(err, theory.ErrUnsupportedCombination):
		logger.Warn("no closed-form spectrum for these laws", zap.Error(err))
		th = make([]float64, len(freqs))
		for k := range th {
			th[k] = math.NaN()
		}
	case err != nil:
		return nil, err
	default:
		res.Regime = regime.String()
	}
	res.Theory = th

	if cfg.CheckStep > 0 {
		check, err := crossCheck(freqs, psds[0], firstPulses, firstGaps, cfg.PulseMagnitude, cfg.CheckStep)
		if err != nil {
			return nil, fmt.Errorf("sampled cross-check: %w", err)
		}
		logger.Info("sampled cross-check",
			zap.Float64("dt", check.Step),
			zap.Float64("goertzel_deviation", check.SampledDeviation),
			zap.Float64("periodogram_deviation", check.PeriodogramDeviation),
		)
		res.Check = check
	}
	res.Elapsed = time.Since(start)

	logger.Info("experiment finished",
		zap.String("regime", res.Regime),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

func realize(cfg *Config, seed, stream uint64, freqs []float64, pulse, gap law.Law) (psd, pulses, gaps []float64, err error) {
	gen := simulate.NewGenerator(simulate.WithSeed(seed), simulate.WithStream(stream))

	if cfg.Mode == ModeFixedDuration {
		pulses, gaps, err = gen.FixedDuration(cfg.Duration, pulse, gap)
	} else {
		pulses, gaps, err = gen.FixedCount(cfg.Events, pulse, gap)
	}
	if err != nil {
		return nil, nil, nil, err
	}
	psd, err = spectrum.Estimate(freqs, pulses, gaps, cfg.PulseMagnitude)
	return psd, pulses, gaps, err
}

// standardError returns the per-frequency standard error of the mean, or nil
// for fewer than two estimates.
func standardError(psds [][]float64) []float64 {
	n := len(psds)
	if n < 2 {
		return nil
	}
	out := make([]float64, len(psds[0]))
	col := make([]float64, n)
	for k := range out {
		for i, psd := range psds {
			col[i] = psd[k]
		}
		out[k] = stat.StdDev(col, nil) / math.Sqrt(float64(n))
	}
	return out
}

// truncate replaces an unbounded Pareto tail with the realization horizon,
// the longest duration a finite simulation can actually produce. A horizon
// shorter than the lower bound collapses the law onto that bound.
func truncate(l law.Law, horizon float64) law.Law {
	if b, ok := l.(law.BoundedPareto); ok && math.IsInf(b.High, 1) {
		b.High = math.Max(horizon, b.Low)
		return b
	}
	return l
}
