package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireSliceRelClose fails t if any element of got deviates from want by
// more than rel times the magnitude of want. NaN in want must be matched by
// NaN in got.
func RequireSliceRelClose(t *testing.T, got, want []float64, rel float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if math.IsNaN(want[i]) {
			if !math.IsNaN(got[i]) {
				t.Fatalf("index %d: got %v, want NaN", i, got[i])
			}
			continue
		}
		if RelDiff(got[i], want[i]) > rel {
			t.Fatalf("index %d: got %v, want %v (rel diff %v > %v)", i, got[i], want[i], RelDiff(got[i], want[i]), rel)
		}
	}
}

// RequireSliceScaledClose fails t if any element of got deviates from want
// by more than tol*(max|want| + |want[i]|). Values far below the peak are
// compared on the absolute scale of the peak.
func RequireSliceScaledClose(t *testing.T, got, want []float64, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	peak := 0.0
	for _, w := range want {
		peak = math.Max(peak, math.Abs(w))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if !(diff <= tol*(peak+math.Abs(want[i]))) {
			t.Fatalf("index %d: got %v, want %v (diff %v, peak %v)", i, got[i], want[i], diff, peak)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RelDiff returns |a-b| / max(|a|, |b|), or 0 when both are zero.
func RelDiff(a, b float64) float64 {
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return 0
	}
	return math.Abs(a-b) / scale
}
