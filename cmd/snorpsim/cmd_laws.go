package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var lawSyntax = []struct {
	form, meaning string
}{
	{"poisson:<mean>", "exponential durations (aliases poiss, exp)"},
	{"pareto:<low>:<high>:<power>", "bounded Pareto, density ~ x^-(1+power); high inf or negative for no bound"},
	{"uniform:<low>:<high>", "uniform durations"},
	{"const:<value>", "fixed duration (aliases constant, fixed)"},
}

var theoryTable = []struct {
	pulse, gap, regime string
}{
	{"poisson", "poisson", "Lorentzian"},
	{"poisson", "pareto", "long or short pulses, by mean pulse vs lower gap bound"},
	{"const", "pareto", "1/f, power 1 only"},
	{"uniform", "pareto", "1/f, power 1 only"},
	{"pareto", "pareto", "1/f, gap power 1 only"},
}

func newLawsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "laws",
		Short: "List duration laws and the pairs with a closed-form spectrum",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "LAW\tMEANING")
			for _, l := range lawSyntax {
				fmt.Fprintf(tw, "%s\t%s\n", l.form, l.meaning)
			}
			fmt.Fprintln(tw)
			fmt.Fprintln(tw, "PULSE\tGAP\tTHEORY")
			for _, t := range theoryTable {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t.pulse, t.gap, t.regime)
			}
			return tw.Flush()
		},
	}
}
