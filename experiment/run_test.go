package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRunPoissonPoissonMatchesTheory(t *testing.T) {
	cfg := Default()
	cfg.Events = 2000
	cfg.Repeats = 20
	cfg.Seed = 7
	cfg.MinFreq = 1e-2
	cfg.MaxFreq = 1
	cfg.NumFreq = 40

	res, err := NewRunner().Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Seed != 7 || res.Regime != "poisson-poisson" {
		t.Fatalf("seed=%d regime=%q", res.Seed, res.Regime)
	}
	if len(res.Freqs) != 40 || len(res.Empirical) != 40 || len(res.Theory) != 40 || len(res.StdErr) != 40 {
		t.Fatalf("lengths freqs=%d emp=%d theory=%d stderr=%d",
			len(res.Freqs), len(res.Empirical), len(res.Theory), len(res.StdErr))
	}

	var ratio float64
	for k := range res.Freqs {
		if !(res.StdErr[k] > 0) {
			t.Fatalf("stderr[%d]=%v", k, res.StdErr[k])
		}
		ratio += res.Empirical[k] / res.Theory[k]
	}
	ratio /= float64(len(res.Freqs))
	if ratio < 0.8 || ratio > 1.25 {
		t.Fatalf("mean empirical/theory ratio=%v", ratio)
	}
}

func TestRunIndependentOfWorkers(t *testing.T) {
	cfg := Default()
	cfg.Events = 300
	cfg.Repeats = 6
	cfg.Seed = 11
	cfg.NumFreq = 16

	cfg.Workers = 1
	a, err := NewRunner().Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	cfg.Workers = 4
	b, err := NewRunner().Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	for k := range a.Empirical {
		if a.Empirical[k] != b.Empirical[k] {
			t.Fatalf("freq %d: %v != %v", k, a.Empirical[k], b.Empirical[k])
		}
	}

	cfg.Seed = 12
	c, err := NewRunner().Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	same := true
	for k := range a.Empirical {
		same = same && a.Empirical[k] == c.Empirical[k]
	}
	if same {
		t.Fatal("different seeds produced identical spectra")
	}
}

func TestRunFixedDurationPareto(t *testing.T) {
	cfg := Default()
	cfg.Mode = ModeFixedDuration
	cfg.Duration = 2000
	cfg.Gap = "pareto:1:inf:1"
	cfg.Seed = 3
	cfg.NumFreq = 30

	res, err := NewRunner().Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Regime != "long-poisson-pareto" {
		t.Fatalf("regime=%q", res.Regime)
	}
	if res.StdErr != nil {
		t.Fatalf("single repeat should have no stderr, got %v", res.StdErr)
	}
	for k, f := range res.Freqs {
		n := f * cfg.Duration
		if math.Abs(n-math.Round(n)) > 1e-9 {
			t.Fatalf("freq %v is not a multiple of 1/T", f)
		}
		if math.IsNaN(res.Empirical[k]) || res.Empirical[k] < 0 {
			t.Fatalf("empirical[%d]=%v", k, res.Empirical[k])
		}
		if math.IsNaN(res.Theory[k]) {
			t.Fatalf("theory[%d] is NaN", k)
		}
	}
}

func TestRunUnsupportedTheoryWarns(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cfg := Default()
	cfg.Pulse = "pareto:1:100:1.5"
	cfg.Gap = "poisson:2"
	cfg.Events = 200
	cfg.Seed = 1
	cfg.MinFreq, cfg.MaxFreq = 1e-3, 1
	cfg.NumFreq = 8

	res, err := NewRunner(WithLogger(zap.New(core))).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Regime != "" {
		t.Fatalf("regime=%q", res.Regime)
	}
	for k, v := range res.Theory {
		if !math.IsNaN(v) {
			t.Fatalf("theory[%d]=%v, want NaN", k, v)
		}
	}
	if logs.FilterMessage("no closed-form spectrum for these laws").Len() != 1 {
		t.Fatalf("missing warning, got %v", logs.All())
	}
}

func TestRunRandomSeedIsReported(t *testing.T) {
	cfg := Default()
	cfg.Events = 50
	cfg.NumFreq = 4
	res, err := NewRunner().Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Seed >= maxAutoSeed {
		t.Fatalf("seed=%d", res.Seed)
	}

	cfg.Seed = int64(res.Seed)
	again, err := NewRunner().Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	for k := range res.Empirical {
		if res.Empirical[k] != again.Empirical[k] {
			t.Fatalf("replay differs at %d", k)
		}
	}
}

func TestRunErrors(t *testing.T) {
	cfg := Default()
	cfg.Repeats = 0
	if _, err := NewRunner().Run(context.Background(), cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}

	cfg = Default()
	cfg.Pulse = "const:0"
	cfg.Gap = "const:0"
	if _, err := NewRunner().Run(context.Background(), cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg = Default()
	cfg.Events = 10
	cfg.Repeats = 3
	if _, err := NewRunner().Run(ctx, cfg); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunDurationShorterThanGapBound(t *testing.T) {
	cfg := Default()
	cfg.Mode = ModeFixedDuration
	cfg.Duration = 0.5
	cfg.Gap = "pareto:1:inf:1"
	cfg.Seed = 1
	cfg.MinFreq, cfg.MaxFreq = 2, 20
	cfg.NumFreq = 5

	res, err := NewRunner().Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Regime != "long-poisson-pareto" {
		t.Fatalf("regime=%q", res.Regime)
	}
	for k, v := range res.Theory {
		if !(v > 0) || math.IsInf(v, 0) {
			t.Fatalf("theory[%d]=%v", k, v)
		}
	}
}

func TestRunSampledCrossCheck(t *testing.T) {
	cfg := Default()
	cfg.Pulse = "const:2"
	cfg.Gap = "const:3"
	cfg.Events = 20
	cfg.Repeats = 2
	cfg.Seed = 1
	cfg.MinFreq = 0.01
	cfg.MaxFreq = 2
	cfg.NumFreq = 9
	cfg.CheckStep = 0.5

	res, err := NewRunner().Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	c := res.Check
	if c == nil {
		t.Fatal("no check for a positive check step")
	}
	if c.Step != 0.5 || len(c.Sampled) != len(res.Freqs) {
		t.Fatalf("step=%v sampled=%d freqs=%d", c.Step, len(c.Sampled), len(res.Freqs))
	}
	// Every duration is a multiple of the step, so both estimators are exact.
	if !(c.SampledDeviation < 1e-9) || !(c.PeriodogramDeviation < 1e-9) {
		t.Fatalf("goertzel deviation=%v periodogram deviation=%v", c.SampledDeviation, c.PeriodogramDeviation)
	}
	for k, f := range res.Freqs {
		if above := f > 1; above != math.IsNaN(c.Sampled[k]) {
			t.Fatalf("f=%v sampled=%v", f, c.Sampled[k])
		}
	}

	cfg.CheckStep = 0
	res, err = NewRunner().Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Check != nil {
		t.Fatalf("unexpected check %+v", res.Check)
	}
}

func TestCheckBins(t *testing.T) {
	if got := checkBins(5); len(got) != 5 || got[4] != 4 {
		t.Fatalf("checkBins(5)=%v", got)
	}
	got := checkBins(4096)
	if len(got) == 0 || len(got) > maxCheckBins || got[0] != 0 || got[len(got)-1] != 4095 {
		t.Fatalf("checkBins(4096)=%v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("indices not increasing: %v", got)
		}
	}
}
