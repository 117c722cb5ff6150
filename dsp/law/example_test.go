package law_test

import (
	"fmt"

	"github.com/akononovicius/flicker-snorp/dsp/law"
)

func ExampleMustParse() {
	for _, s := range []string{"poisson:2", "uniform:0:4", "pareto:1:inf:2"} {
		l := law.MustParse(s)
		fmt.Println(l.Kind(), l, l.Mean())
	}
	// Output:
	// poisson poisson:2 2
	// uniform uniform:0:4 2
	// pareto pareto:1:inf:2 2
}
