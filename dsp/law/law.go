// Package law describes the duration distributions of SNORP pulses and gaps.
//
// A [Law] is one of four variants: [Poisson] (exponentially distributed
// durations), [BoundedPareto], [Uniform] and [Constant]. The variants carry
// their own parameters, so theoretical spectra and simulators can dispatch on
// the concrete type instead of threading loose parameters around.
package law

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/akononovicius/flicker-snorp/dsp/pareto"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidParameter is returned when a law's parameters are out of range.
var ErrInvalidParameter = errors.New("law: invalid parameter")

// Kind identifies a Law variant.
type Kind int

const (
	KindPoisson Kind = iota
	KindBoundedPareto
	KindUniform
	KindConstant
)

func (k Kind) String() string {
	switch k {
	case KindPoisson:
		return "poisson"
	case KindBoundedPareto:
		return "pareto"
	case KindUniform:
		return "uniform"
	case KindConstant:
		return "const"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Law is a duration distribution.
//
// Sample assumes the law passed Validate; invalid laws yield NaN.
type Law interface {
	Kind() Kind
	Mean() float64
	Sample(r *rand.Rand) float64
	Validate() error
	String() string

	sealed()
}

// Poisson draws exponentially distributed durations, i.e. the intervals of a
// Poisson process.
type Poisson struct {
	MeanDuration float64
}

func (Poisson) Kind() Kind       { return KindPoisson }
func (p Poisson) Mean() float64  { return p.MeanDuration }
func (Poisson) sealed()          {}
func (p Poisson) String() string { return "poisson:" + formatFloat(p.MeanDuration) }

func (p Poisson) Validate() error {
	if !(p.MeanDuration > 0) || math.IsInf(p.MeanDuration, 0) {
		return fmt.Errorf("%w: poisson mean must be > 0 and finite: %v", ErrInvalidParameter, p.MeanDuration)
	}
	return nil
}

func (p Poisson) Sample(r *rand.Rand) float64 {
	if p.Validate() != nil {
		return math.NaN()
	}
	d := distuv.Exponential{Rate: 1 / p.MeanDuration, Src: r}
	return d.Rand()
}

// BoundedPareto draws durations from the Pareto law truncated to
// [Low, High]. High may be +Inf. The density exponent is Power+1.
type BoundedPareto struct {
	Low, High, Power float64
}

func (BoundedPareto) Kind() Kind      { return KindBoundedPareto }
func (b BoundedPareto) Mean() float64 { return pareto.Mean(b.Low, b.High, b.Power) }
func (BoundedPareto) sealed()         {}

func (b BoundedPareto) String() string {
	return "pareto:" + formatFloat(b.Low) + ":" + formatFloat(b.High) + ":" + formatFloat(b.Power)
}

func (b BoundedPareto) Validate() error {
	if err := pareto.Validate(b.Power, b.Low, b.High); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}
	return nil
}

func (b BoundedPareto) Sample(r *rand.Rand) float64 {
	x, err := pareto.Sample(r, b.Power, b.Low, b.High)
	if err != nil {
		return math.NaN()
	}
	return x
}

// Uniform draws durations uniformly from [Low, High].
type Uniform struct {
	Low, High float64
}

func (Uniform) Kind() Kind      { return KindUniform }
func (u Uniform) Mean() float64 { return (u.Low + u.High) / 2 }
func (Uniform) sealed()         {}

func (u Uniform) String() string {
	return "uniform:" + formatFloat(u.Low) + ":" + formatFloat(u.High)
}

func (u Uniform) Validate() error {
	if math.IsNaN(u.Low) || u.Low < 0 || math.IsInf(u.High, 0) || math.IsNaN(u.High) || u.High < u.Low {
		return fmt.Errorf("%w: uniform bounds must satisfy 0 <= low <= high < inf: low=%v high=%v",
			ErrInvalidParameter, u.Low, u.High)
	}
	return nil
}

func (u Uniform) Sample(r *rand.Rand) float64 {
	if u.Validate() != nil {
		return math.NaN()
	}
	if u.Low == u.High {
		return u.Low
	}
	d := distuv.Uniform{Min: u.Low, Max: u.High, Src: r}
	return d.Rand()
}

// Constant always yields Value.
type Constant struct {
	Value float64
}

func (Constant) Kind() Kind       { return KindConstant }
func (c Constant) Mean() float64  { return c.Value }
func (Constant) sealed()          {}
func (c Constant) String() string { return "const:" + formatFloat(c.Value) }
func (c Constant) Sample(*rand.Rand) float64 {
	if c.Validate() != nil {
		return math.NaN()
	}
	return c.Value
}

func (c Constant) Validate() error {
	if !(c.Value > 0) || math.IsInf(c.Value, 0) {
		return fmt.Errorf("%w: constant duration must be > 0 and finite: %v", ErrInvalidParameter, c.Value)
	}
	return nil
}

// SampleN draws n durations from l using r.
func SampleN(l Law, r *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = l.Sample(r)
	}
	return out
}

// Parse reads the textual form of a law:
//
//	poisson:<mean>
//	pareto:<low>:<high>:<power>   (high "inf" or negative means unbounded)
//	uniform:<low>:<high>
//	const:<value>
func Parse(s string) (Law, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	name := strings.ToLower(parts[0])
	args, err := parseArgs(parts[1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidParameter, s, err)
	}

	var l Law
	switch name {
	case "poisson", "poiss", "exp":
		if len(args) != 1 {
			return nil, arity(s, 1, len(args))
		}
		l = Poisson{MeanDuration: args[0]}
	case "pareto":
		if len(args) != 3 {
			return nil, arity(s, 3, len(args))
		}
		high := args[1]
		if high < 0 {
			high = math.Inf(1)
		}
		l = BoundedPareto{Low: args[0], High: high, Power: args[2]}
	case "uniform":
		if len(args) != 2 {
			return nil, arity(s, 2, len(args))
		}
		l = Uniform{Low: args[0], High: args[1]}
	case "const", "constant", "fixed":
		if len(args) != 1 {
			return nil, arity(s, 1, len(args))
		}
		l = Constant{Value: args[0]}
	default:
		return nil, fmt.Errorf("%w: unknown law %q", ErrInvalidParameter, name)
	}

	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Law {
	l, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return l
}

func parseArgs(raw []string) ([]float64, error) {
	out := make([]float64, len(raw))
	for i, r := range raw {
		r = strings.ToLower(strings.TrimSpace(r))
		if r == "inf" || r == "+inf" {
			out[i] = math.Inf(1)
			continue
		}
		v, err := strconv.ParseFloat(r, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func arity(s string, want, got int) error {
	return fmt.Errorf("%w: %q: want %d parameters, got %d", ErrInvalidParameter, s, want, got)
}

func formatFloat(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
