package pareto

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidParameter is returned for parameter combinations that do not
// describe a Pareto law.
var ErrInvalidParameter = errors.New("pareto: invalid parameter")

// Validate checks that power, low and high describe a (possibly unbounded)
// Pareto law.
func Validate(power, low, high float64) error {
	if power == 0 || math.IsNaN(power) || math.IsInf(power, 0) {
		return fmt.Errorf("%w: power must be finite and non-zero: %v", ErrInvalidParameter, power)
	}
	if !(low > 0) || math.IsInf(low, 0) {
		return fmt.Errorf("%w: low must be > 0 and finite: %v", ErrInvalidParameter, low)
	}
	if math.IsNaN(high) || high < low {
		return fmt.Errorf("%w: high must be >= low: low=%v high=%v", ErrInvalidParameter, low, high)
	}
	if math.IsInf(high, 1) && power < 0 {
		return fmt.Errorf("%w: unbounded law requires power > 0: %v", ErrInvalidParameter, power)
	}
	return nil
}

// Sample draws a single variate from the bounded Pareto law on [low, high].
func Sample(r *rand.Rand, power, low, high float64) (float64, error) {
	if err := Validate(power, low, high); err != nil {
		return 0, err
	}
	return draw(r, power, low, high), nil
}

// SampleN draws size independent variates using the same generator.
func SampleN(r *rand.Rand, power, low, high float64, size int) ([]float64, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: size must be >= 0: %d", ErrInvalidParameter, size)
	}
	if err := Validate(power, low, high); err != nil {
		return nil, err
	}
	out := make([]float64, size)
	for i := range out {
		out[i] = draw(r, power, low, high)
	}
	return out, nil
}

// draw assumes validated parameters.
func draw(r *rand.Rand, power, low, high float64) float64 {
	if math.IsInf(high, 1) {
		d := distuv.Pareto{Xm: low, Alpha: power, Src: r}
		return d.Rand()
	}
	if high == low {
		return low
	}
	scale := high / low
	u := r.Float64()
	return low * math.Pow(1-u+u*math.Pow(scale, -power), -1/power)
}

// Mean returns the expected value of the bounded Pareto law.
//
// power == 1 is evaluated through its own closed form, the generic
// expression has a removable singularity there. For an unbounded law the
// mean is finite only for power > 1.
func Mean(low, high, power float64) float64 {
	if math.IsInf(high, 1) {
		if power <= 1 {
			return math.Inf(1)
		}
		return low * power / (power - 1)
	}
	if high == low {
		return low
	}
	if power == 1 {
		return high * low / (high - low) * math.Log(high/low)
	}
	t1 := math.Pow(low, power) / (1 - math.Pow(low/high, power))
	t2 := power / (power - 1)
	t3 := 1/math.Pow(low, power-1) - 1/math.Pow(high, power-1)
	return t1 * t2 * t3
}
