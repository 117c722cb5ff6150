package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/akononovicius/flicker-snorp/dsp/law"
	"github.com/akononovicius/flicker-snorp/dsp/theory"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
)

func newTheoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theory",
		Short: "Print the closed-form spectrum for a pair of laws",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			pulseText, _ := flags.GetString("pulse")
			gapText, _ := flags.GetString("gap")
			magnitude, _ := flags.GetFloat64("pulse-magnitude")
			minFreq, _ := flags.GetFloat64("min-freq")
			maxFreq, _ := flags.GetFloat64("max-freq")
			n, _ := flags.GetInt("n-freq")

			pulse, err := law.Parse(pulseText)
			if err != nil {
				return err
			}
			gap, err := law.Parse(gapText)
			if err != nil {
				return err
			}
			if !(minFreq > 0) || !(maxFreq > minFreq) || n < 2 {
				return fmt.Errorf("need 0 < min-freq < max-freq and n-freq >= 2")
			}

			freqs := make([]float64, n)
			floats.LogSpan(freqs, minFreq, maxFreq)
			psd, regime, err := theory.Predict(freqs, magnitude, pulse, gap)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (nu=%.4g)\n\n", regime, theory.NuBar(pulse, gap))
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "Frequency\tPSD\t")
			for k, f := range freqs {
				fmt.Fprintf(tw, "%.4g\t%.4g\t\n", f, psd[k])
			}
			return tw.Flush()
		},
	}

	cmd.Flags().String("pulse", "poisson:1", "Pulse duration law")
	cmd.Flags().String("gap", "poisson:1", "Gap duration law")
	cmd.Flags().Float64("pulse-magnitude", 1, "Pulse height")
	cmd.Flags().Float64("min-freq", 1e-4, "Lowest frequency")
	cmd.Flags().Float64("max-freq", 10, "Highest frequency")
	cmd.Flags().Int("n-freq", 21, "Number of frequencies")
	return cmd
}
