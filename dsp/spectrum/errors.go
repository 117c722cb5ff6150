package spectrum

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned for duration sequences or frequency grids the
// estimator cannot process.
var ErrInvalidInput = errors.New("spectrum: invalid input")

var (
	errEmptyDurations   = fmt.Errorf("%w: pulse and gap durations must not be empty", ErrInvalidInput)
	errZeroTotal        = fmt.Errorf("%w: total duration must be > 0", ErrInvalidInput)
	errEmptyRealization = fmt.Errorf("%w: no realizations to average", ErrInvalidInput)
)

func validateDurations(pulses, gaps []float64) error {
	if len(pulses) == 0 || len(gaps) == 0 {
		return errEmptyDurations
	}
	if len(pulses) != len(gaps) {
		return fmt.Errorf("%w: pulse/gap length mismatch: %d != %d", ErrInvalidInput, len(pulses), len(gaps))
	}
	for i := range pulses {
		if !(pulses[i] >= 0) || math.IsInf(pulses[i], 0) {
			return fmt.Errorf("%w: pulse duration at index %d must be finite and >= 0: %v", ErrInvalidInput, i, pulses[i])
		}
		if !(gaps[i] >= 0) || math.IsInf(gaps[i], 0) {
			return fmt.Errorf("%w: gap duration at index %d must be finite and >= 0: %v", ErrInvalidInput, i, gaps[i])
		}
	}
	return nil
}

func validateFreqs(freqs []float64) error {
	for i, f := range freqs {
		if !(f > 0) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: frequency at index %d must be finite and > 0: %v", ErrInvalidInput, i, f)
		}
	}
	return nil
}

func mismatch(index, got, want int) error {
	return fmt.Errorf("%w: estimate %d has %d values, want %d", ErrInvalidInput, index, got, want)
}
