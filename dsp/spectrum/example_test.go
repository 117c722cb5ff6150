package spectrum_test

import (
	"fmt"

	"github.com/akononovicius/flicker-snorp/dsp/spectrum"
)

func ExampleStartTimes() {
	pulses := []float64{1, 2}
	gaps := []float64{3, 4}
	ps, gs := spectrum.StartTimes(pulses, gaps)
	fmt.Println(ps, gs)
	// Output:
	// [3 8] [0 4]
}

func ExampleEstimate() {
	freqs := []float64{0.1, 0.2}
	psd, _ := spectrum.Estimate(freqs, []float64{1, 1}, []float64{1, 1}, 1)
	fmt.Printf("%.4f %.4f\n", psd[0], psd[1])
	// Output:
	// 0.1209 0.0577
}
