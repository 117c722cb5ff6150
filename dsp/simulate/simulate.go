package simulate

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/akononovicius/flicker-snorp/dsp/law"
)

// ErrInvalidParameter is returned for event counts, budgets or laws the
// simulator cannot use.
var ErrInvalidParameter = errors.New("simulate: invalid parameter")

// Generator draws SNORP duration sequences from one random stream.
type Generator struct {
	seed   uint64
	stream uint64
	rng    *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the seed of the random stream.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithStream selects an independent stream for the same seed, e.g. one per
// simulation repeat.
func WithStream(stream uint64) Option {
	return func(g *Generator) {
		g.stream = stream
	}
}

// NewGenerator creates a generator. Without options it uses seed 1, stream 0.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	g.rng = rand.New(rand.NewPCG(g.seed, g.stream))
	return g
}

// Seed returns the generator seed.
func (g *Generator) Seed() uint64 { return g.seed }

// Stream returns the generator stream.
func (g *Generator) Stream() uint64 { return g.stream }

// Rand exposes the underlying random source.
func (g *Generator) Rand() *rand.Rand { return g.rng }

// FixedCount draws n pulse durations followed by n gap durations.
func (g *Generator) FixedCount(n int, pulse, gap law.Law) (pulses, gaps []float64, err error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("%w: event count must be > 0: %d", ErrInvalidParameter, n)
	}
	if err := validateLaws(pulse, gap); err != nil {
		return nil, nil, err
	}
	pulses = law.SampleN(pulse, g.rng, n)
	gaps = law.SampleN(gap, g.rng, n)
	return pulses, gaps, nil
}

// FixedDuration draws gap/pulse pairs until their total reaches total.
//
// Each step draws a gap and then a pulse. A gap that would overrun the budget
// is clipped to end exactly at total and its pulse is set to zero; a pulse
// that would overrun is clipped likewise. The last pair may therefore hold a
// zero-length pulse.
func (g *Generator) FixedDuration(total float64, pulse, gap law.Law) (pulses, gaps []float64, err error) {
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, nil, fmt.Errorf("%w: duration must be finite and > 0: %v", ErrInvalidParameter, total)
	}
	if err := validateLaws(pulse, gap); err != nil {
		return nil, nil, err
	}
	if !(pulse.Mean()+gap.Mean() > 0) {
		return nil, nil, fmt.Errorf("%w: pulse and gap laws cannot both be degenerate at zero", ErrInvalidParameter)
	}

	var tPulse, tGap float64
	for {
		gd := gap.Sample(g.rng)
		pd := pulse.Sample(g.rng)

		done := false
		if tGap+tPulse+gd >= total {
			gd = total - tPulse - tGap
			pd = 0
			done = true
		}
		tGap += gd
		if !done && tGap+tPulse+pd >= total {
			pd = total - tPulse - tGap
			done = true
		}
		tPulse += pd

		pulses = append(pulses, pd)
		gaps = append(gaps, gd)
		if done {
			return pulses, gaps, nil
		}
	}
}

func validateLaws(pulse, gap law.Law) error {
	if pulse == nil || gap == nil {
		return fmt.Errorf("%w: pulse and gap laws are required", ErrInvalidParameter)
	}
	if err := pulse.Validate(); err != nil {
		return fmt.Errorf("%w: pulse law: %w", ErrInvalidParameter, err)
	}
	if err := gap.Validate(); err != nil {
		return fmt.Errorf("%w: gap law: %w", ErrInvalidParameter, err)
	}
	return nil
}
