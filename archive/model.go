package archive

import (
	"fmt"
	"math"

	"github.com/akononovicius/flicker-snorp/dsp/law"
)

// ModelInfo returns the file name stem identifying a pulse/gap law pair.
// Exponential laws use a tenfold mean when both laws are exponential and a
// ten-thousandfold mean otherwise; unbounded Pareto tails are written as -1.
func ModelInfo(pulse, gap law.Law) string {
	_, pp := pulse.(law.Poisson)
	_, gp := gap.(law.Poisson)
	poissonScale := 10000.0
	if pp && gp {
		poissonScale = 10
	}
	return lawInfo(pulse, poissonScale) + "." + lawInfo(gap, poissonScale)
}

func lawInfo(l law.Law, poissonScale float64) string {
	switch v := l.(type) {
	case law.Poisson:
		return fmt.Sprintf("poiss%.0f", v.MeanDuration*poissonScale)
	case law.BoundedPareto:
		high := v.High
		if math.IsInf(high, 1) {
			high = -1
		}
		return fmt.Sprintf("pareto%.0f_%.0f_%.0f", v.Power*100, v.Low*1000, high)
	case law.Uniform:
		return fmt.Sprintf("unif%.0f_%.0f", v.Low*10000, v.High*10000)
	case law.Constant:
		return fmt.Sprintf("const%.0f", v.Value*10000)
	default:
		return "unknown"
	}
}

// FileName returns the PSD file name for a run.
func FileName(pulse, gap law.Law, seed uint64) string {
	return fmt.Sprintf("%s.seed%d.psd.csv", ModelInfo(pulse, gap), seed)
}
