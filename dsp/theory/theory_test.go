package theory

import (
	"math"
	"testing"

	"github.com/akononovicius/flicker-snorp/dsp/pareto"
)

func relClose(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(math.Abs(a), math.Abs(b))
}

func TestPoissonPoissonAtZeroFrequency(t *testing.T) {
	got := PoissonPoisson([]float64{0}, 1, 1, 1)
	if math.Abs(got[0]-0.5) > 1e-15 {
		t.Fatalf("S(0)=%v want=0.5", got[0])
	}
}

func TestPoissonPoissonLorentzian(t *testing.T) {
	freqs := []float64{0.01, 0.1, 1, 10}
	got := PoissonPoisson(freqs, 2, 0.5, 2)
	for i, f := range freqs {
		w := 2 * math.Pi * f
		want := 4 * 4 * 0.4 / (math.Pow(2+0.5, 2) + w*w)
		if !relClose(got[i], want, 1e-14) {
			t.Fatalf("S(%v)=%v want=%v", f, got[i], want)
		}
	}
	// Far above the corner frequency the spectrum decays as 1/f^2.
	hi := PoissonPoisson([]float64{100, 200}, 1, 1, 1)
	if !relClose(hi[0]/hi[1], 4, 1e-3) {
		t.Fatalf("high-frequency ratio=%v want ~4", hi[0]/hi[1])
	}
}

func TestAnyParetoUnsupportedRegime(t *testing.T) {
	freqs := []float64{0.1, 1, 10}
	for _, p := range []float64{2, 0.5, 1.5, 1 + 1e-12} {
		got := AnyPareto(freqs, 0.1, 1, 1, 1000, p)
		if len(got) != len(freqs) {
			t.Fatalf("power %v: len=%d want=%d", p, len(got), len(freqs))
		}
		for i, v := range got {
			if !math.IsNaN(v) {
				t.Fatalf("power %v: got[%d]=%v want NaN", p, i, v)
			}
		}
	}
}

func TestAnyParetoPowerOne(t *testing.T) {
	got := AnyPareto([]float64{0.5, 2}, 0.1, 3, 2, 1000, 1)
	want := []float64{9 * 0.1 * 2 / 0.5, 9 * 0.1 * 2 / 2}
	for i := range got {
		if !relClose(got[i], want[i], 1e-14) {
			t.Fatalf("got[%d]=%v want=%v", i, got[i], want[i])
		}
	}
}

func TestLongPoissonParetoBranches(t *testing.T) {
	const (
		a, meanPulse, lo, hi = 1.0, 10.0, 1.0, 1e4
	)
	f := []float64{0.01}

	one := LongPoissonPareto(f, a, meanPulse, lo, hi, 1)
	nu := 1 / (meanPulse + pareto.Mean(lo, hi, 1))
	if !relClose(one[0], nu*lo/f[0], 1e-14) {
		t.Fatalf("p=1: %v want %v", one[0], nu*lo/f[0])
	}
	// The power == 1 branch coincides with the generic formula.
	anyOne := AnyPareto(f, nu, a, lo, hi, 1)
	if !relClose(one[0], anyOne[0], 1e-14) {
		t.Fatalf("long p=1 %v differs from generic %v", one[0], anyOne[0])
	}

	plateau := LongPoissonPareto([]float64{0.001, 0.1}, a, meanPulse, lo, hi, 3)
	nu3 := 1 / (meanPulse + pareto.Mean(lo, hi, 3))
	for _, v := range plateau {
		if !relClose(v, nu3*2*3/1, 1e-14) {
			t.Fatalf("p=3 plateau %v want %v", v, nu3*6)
		}
	}

	// Power law exponent p-2 in the intermediate branch.
	pl := LongPoissonPareto([]float64{0.01, 0.1}, a, meanPulse, lo, hi, 1.5)
	if !relClose(pl[0]/pl[1], math.Pow(10, 0.5), 1e-12) {
		t.Fatalf("p=1.5 slope ratio=%v want %v", pl[0]/pl[1], math.Pow(10, 0.5))
	}
}

func TestLongPoissonParetoContinuity(t *testing.T) {
	f := []float64{0.01}
	const eps = 1e-6

	below := LongPoissonPareto(f, 1, 10, 1, 1e4, 2-eps)[0]
	above := LongPoissonPareto(f, 1, 10, 1, 1e4, 2+eps)[0]
	if !relClose(below, above, 1e-4) {
		t.Fatalf("p=2-eps %v vs p=2+eps %v", below, above)
	}

	at := LongPoissonPareto(f, 1, 10, 1, 1e4, 1)[0]
	for _, p := range []float64{1 - eps, 1 + eps} {
		v := LongPoissonPareto(f, 1, 10, 1, 1e4, p)[0]
		if !relClose(v, at, 1e-4) {
			t.Fatalf("p=%v gives %v, want close to p=1 value %v", p, v, at)
		}
	}
}

func TestLongPoissonParetoAtTwoIsInfinite(t *testing.T) {
	got := LongPoissonPareto([]float64{0.1}, 1, 10, 1, 1e4, 2)
	if !math.IsInf(got[0], 1) {
		t.Fatalf("p=2 gives %v, want +Inf", got[0])
	}
}

func TestShortPoissonParetoBranches(t *testing.T) {
	const (
		a, meanPulse, lo, hi = 2.0, 0.1, 1.0, 1e4
	)

	f := []float64{0.01}
	one := ShortPoissonPareto(f, a, meanPulse, lo, hi, 1)
	nu := 1 / (meanPulse + pareto.Mean(lo, hi, 1))
	l := 1 - EulerGamma - math.Log(2*math.Pi*f[0]*lo)
	want := 4 * a * a * nu * meanPulse * meanPulse / (f[0] * lo * (math.Pi*math.Pi + 4*l*l))
	if !relClose(one[0], want, 1e-13) {
		t.Fatalf("p=1: %v want %v", one[0], want)
	}

	plateau := ShortPoissonPareto([]float64{0.01, 1}, a, meanPulse, lo, hi, 3)
	nu3 := 1 / (meanPulse + pareto.Mean(lo, hi, 3))
	want3 := 4 * a * a * nu3 * meanPulse * meanPulse * (4.0 / 6.0)
	for _, v := range plateau {
		if !relClose(v, want3, 1e-13) {
			t.Fatalf("p=3 plateau %v want %v", v, want3)
		}
	}

	// 1/f^p below one, 1/f^(2-p) between one and two.
	low := ShortPoissonPareto([]float64{0.01, 0.1}, a, meanPulse, lo, hi, 0.5)
	if !relClose(low[0]/low[1], math.Pow(10, 0.5), 1e-12) {
		t.Fatalf("p=0.5 slope ratio=%v", low[0]/low[1])
	}
	mid := ShortPoissonPareto([]float64{0.01, 0.1}, a, meanPulse, lo, hi, 1.25)
	if !relClose(mid[0]/mid[1], math.Pow(10, 0.75), 1e-12) {
		t.Fatalf("p=1.25 slope ratio=%v", mid[0]/mid[1])
	}
	for _, v := range append(low, mid...) {
		if !(v > 0) {
			t.Fatalf("expected positive PSD, got %v", v)
		}
	}
}

func TestShortPoissonParetoContinuity(t *testing.T) {
	f := []float64{0.01}
	const eps = 1e-6

	below := ShortPoissonPareto(f, 1, 0.1, 1, 1e4, 2-eps)[0]
	above := ShortPoissonPareto(f, 1, 0.1, 1, 1e4, 2+eps)[0]
	if !relClose(below, above, 1e-4) {
		t.Fatalf("p=2-eps %v vs p=2+eps %v", below, above)
	}

	// Around p=1 both neighbouring branches vanish together; the p == 1
	// branch is a separate, non-removable case.
	left := ShortPoissonPareto(f, 1, 0.1, 1, 1e4, 1-eps)[0]
	right := ShortPoissonPareto(f, 1, 0.1, 1, 1e4, 1+eps)[0]
	if !relClose(left, right, 1e-4) {
		t.Fatalf("p=1-eps %v vs p=1+eps %v", left, right)
	}
	at := ShortPoissonPareto(f, 1, 0.1, 1, 1e4, 1)[0]
	if !(at > 1e6*left) {
		t.Fatalf("p=1 value %v should dominate its neighbours %v", at, left)
	}
}

func TestPulseLawVariantsUseTheirMeans(t *testing.T) {
	freqs := []float64{0.05, 0.5}
	gapMean := pareto.Mean(1, 1000, 1)

	tests := []struct {
		name      string
		got       []float64
		meanPulse float64
	}{
		{"const", ConstantPareto(freqs, 1, 2, 1, 1000, 1), 2},
		{"uniform", UniformPareto(freqs, 1, 1, 5, 1, 1000, 1), 3},
		{"pareto", DoubleParetoPareto(freqs, 1, 1, 100, 1.5, 1, 1000, 1), pareto.Mean(1, 100, 1.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := AnyPareto(freqs, 1/(tt.meanPulse+gapMean), 1, 1, 1000, 1)
			for i := range want {
				if !relClose(tt.got[i], want[i], 1e-14) {
					t.Fatalf("got[%d]=%v want=%v", i, tt.got[i], want[i])
				}
			}
		})
	}

	nan := ConstantPareto(freqs, 1, 2, 1, 1000, 1.5)
	if !math.IsNaN(nan[0]) || !math.IsNaN(nan[1]) {
		t.Fatalf("const pulses with p=1.5 gave %v, want NaN", nan)
	}
}
