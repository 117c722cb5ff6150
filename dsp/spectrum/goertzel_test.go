package spectrum

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/akononovicius/flicker-snorp/internal/testutil"
)

func TestGoertzelMatchesDirectDFT(t *testing.T) {
	samples := []float64{0.5, -0.5, 0.5, 0.5, -0.5, -0.5, 0.5, -0.5, -0.5, 0.5, 0.5}
	for _, f := range []float64{0.013, 0.1, 0.237, 0.5} {
		g, err := NewGoertzel(f, 1)
		if err != nil {
			t.Fatalf("NewGoertzel(%v): %v", f, err)
		}
		g.ProcessBlock(samples[:4])
		g.ProcessBlock(samples[4:])

		var dft complex128
		for n, x := range samples {
			dft += complex(x, 0) * cmplx.Exp(complex(0, -2*math.Pi*f*float64(n)))
		}
		want := real(dft)*real(dft) + imag(dft)*imag(dft)
		if math.Abs(g.Power()-want) > 1e-12*math.Max(want, 1) {
			t.Fatalf("f=%v: power=%v want %v", f, g.Power(), want)
		}

		g.Reset()
		if g.Power() != 0 {
			t.Fatalf("power after reset=%v", g.Power())
		}
	}
}

func TestNewGoertzelErrors(t *testing.T) {
	for _, tc := range []struct{ f, rate float64 }{{1, 0}, {-1, 10}, {6, 10}, {math.NaN(), 10}, {1, math.Inf(1)}} {
		if _, err := NewGoertzel(tc.f, tc.rate); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("NewGoertzel(%v, %v) err=%v want ErrInvalidInput", tc.f, tc.rate, err)
		}
	}
}

func TestSampledEstimateMatchesEstimate(t *testing.T) {
	pulses := []float64{1.5, 0.5, 2, 3, 0}
	gaps := []float64{1, 2.5, 0.5, 1, 4}
	freqs := testutil.LogGrid(1e-2, 0.9, 25)

	got, err := SampledEstimate(freqs, pulses, gaps, 2, 0.5)
	if err != nil {
		t.Fatalf("SampledEstimate error: %v", err)
	}
	want, err := Estimate(freqs, pulses, gaps, 2)
	if err != nil {
		t.Fatalf("Estimate error: %v", err)
	}
	for i := range got {
		if diff := math.Abs(got[i] - want[i]); diff > 1e-9*want[i] && diff > 1e-12 {
			t.Fatalf("f=%v: sampled=%v exact=%v", freqs[i], got[i], want[i])
		}
	}
}

func TestSampledEstimateErrors(t *testing.T) {
	pulses, gaps := []float64{1, 2}, []float64{2, 1}
	if _, err := SampledEstimate([]float64{0.1}, pulses, gaps, 1, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("dt=0 err=%v", err)
	}
	if _, err := SampledEstimate([]float64{0.6}, pulses, gaps, 1, 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("above Nyquist err=%v", err)
	}
	if _, err := SampledEstimate([]float64{0}, pulses, gaps, 1, 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero frequency err=%v", err)
	}
	if _, err := SampledEstimate([]float64{0.1}, pulses, gaps, 1, 10); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("coarse dt err=%v", err)
	}
}
