package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/akononovicius/flicker-snorp/archive"
	"github.com/akononovicius/flicker-snorp/dsp/law"
	"github.com/akononovicius/flicker-snorp/experiment"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an experiment described by a YAML config",
		Long: `Runs an experiment. Settings come from --config when given and are
then overridden by any flag set on the command line.

Laws are written as poisson:<mean>, pareto:<low>:<high>:<power>,
uniform:<low>:<high> or const:<value>; see "snorpsim laws".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := experiment.Default()
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				loaded, err := experiment.Load(path)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			flags := cmd.Flags()
			if flags.Changed("mode") {
				mode, _ := flags.GetString("mode")
				cfg.Mode = experiment.Mode(mode)
			}
			if flags.Changed("pulse") {
				cfg.Pulse, _ = flags.GetString("pulse")
			}
			if flags.Changed("gap") {
				cfg.Gap, _ = flags.GetString("gap")
			}
			if flags.Changed("duration") {
				cfg.Duration, _ = flags.GetFloat64("duration")
			}
			applyCommonFlags(cmd, cfg)
			return execute(cmd, cfg)
		},
	}

	cmd.Flags().String("config", "", "YAML experiment config")
	cmd.Flags().String("mode", string(experiment.ModeFixedCount), "Generation mode: fixed-count or fixed-duration")
	cmd.Flags().String("pulse", "poisson:1", "Pulse duration law")
	cmd.Flags().String("gap", "poisson:1", "Gap duration law")
	cmd.Flags().Float64("duration", 1e6, "Realization length in fixed-duration mode")
	addCommonFlags(cmd)
	return cmd
}

func newPoissPoissCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poiss-poiss",
		Short: "Exponential pulses and exponential gaps (Lorentzian spectrum)",
		RunE: func(cmd *cobra.Command, args []string) error {
			meanPulse, _ := cmd.Flags().GetFloat64("mean-pulse")
			meanGap, _ := cmd.Flags().GetFloat64("mean-gap")

			cfg := experiment.Default()
			cfg.Pulse = law.Poisson{MeanDuration: meanPulse}.String()
			cfg.Gap = law.Poisson{MeanDuration: meanGap}.String()
			applyCommonFlags(cmd, cfg)
			return execute(cmd, cfg)
		},
	}

	cmd.Flags().Float64("mean-pulse", 1, "Mean pulse duration")
	cmd.Flags().Float64("mean-gap", 1, "Mean gap duration")
	addCommonFlags(cmd)
	return cmd
}

func newPoissParetoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poiss-pareto",
		Short: "Exponential pulses and bounded Pareto gaps over a fixed duration",
		Long: `Simulates exponential pulses separated by bounded Pareto gaps until the
realization reaches --duration. A negative --max-gap leaves the gap
distribution unbounded; the theory then uses the duration as the cutoff.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			meanPulse, _ := flags.GetFloat64("mean-pulse")
			minGap, _ := flags.GetFloat64("min-gap")
			maxGap, _ := flags.GetFloat64("max-gap")
			powerGap, _ := flags.GetFloat64("power-gap")

			cfg := experiment.Default()
			cfg.Mode = experiment.ModeFixedDuration
			cfg.Duration, _ = flags.GetFloat64("duration")
			cfg.Pulse = law.Poisson{MeanDuration: meanPulse}.String()
			cfg.Gap = paretoText(minGap, maxGap, powerGap)
			applyCommonFlags(cmd, cfg)
			return execute(cmd, cfg)
		},
	}

	cmd.Flags().Float64("mean-pulse", 1, "Mean pulse duration")
	cmd.Flags().Float64("min-gap", 1, "Lower gap bound")
	cmd.Flags().Float64("max-gap", 1e4, "Upper gap bound (negative for unbounded)")
	cmd.Flags().Float64("power-gap", 0.5, "Gap power-law exponent")
	cmd.Flags().Float64("duration", 1e6, "Realization length")
	addCommonFlags(cmd)
	return cmd
}

func newParetoParetoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pareto-pareto",
		Short: "Bounded Pareto pulses and bounded Pareto gaps",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			minPulse, _ := flags.GetFloat64("min-pulse")
			maxPulse, _ := flags.GetFloat64("max-pulse")
			powerPulse, _ := flags.GetFloat64("power-pulse")
			minGap, _ := flags.GetFloat64("min-gap")
			maxGap, _ := flags.GetFloat64("max-gap")
			powerGap, _ := flags.GetFloat64("power-gap")

			cfg := experiment.Default()
			cfg.Pulse = paretoText(minPulse, maxPulse, powerPulse)
			cfg.Gap = paretoText(minGap, maxGap, powerGap)
			applyCommonFlags(cmd, cfg)
			return execute(cmd, cfg)
		},
	}

	cmd.Flags().Float64("min-pulse", 1, "Lower pulse bound")
	cmd.Flags().Float64("max-pulse", 1e4, "Upper pulse bound")
	cmd.Flags().Float64("power-pulse", 1, "Pulse power-law exponent")
	cmd.Flags().Float64("min-gap", 1, "Lower gap bound")
	cmd.Flags().Float64("max-gap", 1e4, "Upper gap bound")
	cmd.Flags().Float64("power-gap", 1, "Gap power-law exponent")
	addCommonFlags(cmd)
	return cmd
}

func paretoText(low, high, power float64) string {
	if high < 0 {
		return fmt.Sprintf("pareto:%s:inf:%s", fmtG(low), fmtG(power))
	}
	return fmt.Sprintf("pareto:%s:%s:%s", fmtG(low), fmtG(high), fmtG(power))
}

func fmtG(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func addCommonFlags(cmd *cobra.Command) {
	d := experiment.Default()
	f := cmd.Flags()
	f.Int("repeats", d.Repeats, "Number of realizations to average")
	f.Int("events", d.Events, "Pulses per realization in fixed-count mode")
	f.Float64("pulse-magnitude", d.PulseMagnitude, "Pulse height")
	f.Float64("min-freq", d.MinFreq, "Lowest frequency (negative for automatic)")
	f.Float64("max-freq", d.MaxFreq, "Highest frequency (negative for automatic)")
	f.Int("n-freq", d.NumFreq, "Number of frequencies")
	f.Int64("seed", d.Seed, "RNG seed (negative for random)")
	f.Int("workers", d.Workers, "Parallel realizations (0 for GOMAXPROCS)")
	f.Float64("check-dt", d.CheckStep, "Cross-check the first realization sampled at this step (0 disables)")
	f.String("archive-dir", d.ArchiveDir, "Directory for result files")
}

// applyCommonFlags copies explicitly set common flags into cfg.
func applyCommonFlags(cmd *cobra.Command, cfg *experiment.Config) {
	f := cmd.Flags()
	if f.Changed("repeats") {
		cfg.Repeats, _ = f.GetInt("repeats")
	}
	if f.Changed("events") {
		cfg.Events, _ = f.GetInt("events")
	}
	if f.Changed("pulse-magnitude") {
		cfg.PulseMagnitude, _ = f.GetFloat64("pulse-magnitude")
	}
	if f.Changed("min-freq") {
		cfg.MinFreq, _ = f.GetFloat64("min-freq")
	}
	if f.Changed("max-freq") {
		cfg.MaxFreq, _ = f.GetFloat64("max-freq")
	}
	if f.Changed("n-freq") {
		cfg.NumFreq, _ = f.GetInt("n-freq")
	}
	if f.Changed("seed") {
		cfg.Seed, _ = f.GetInt64("seed")
	}
	if f.Changed("workers") {
		cfg.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("check-dt") {
		cfg.CheckStep, _ = f.GetFloat64("check-dt")
	}
	if f.Changed("archive-dir") {
		cfg.ArchiveDir, _ = f.GetString("archive-dir")
	}
}

// execute runs cfg, prints the spectrum and archives it unless --no-archive
// is set.
func execute(cmd *cobra.Command, cfg *experiment.Config) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := experiment.NewRunner(experiment.WithLogger(logger)).Run(ctx, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printResult(out, res)

	if noArchive, _ := cmd.Flags().GetBool("no-archive"); noArchive {
		return nil
	}

	path, err := archive.Save(cfg.ArchiveDir, res)
	if err != nil {
		return err
	}
	cat, err := openCatalog(cmd, cfg.ArchiveDir)
	if err != nil {
		return err
	}
	defer cat.Close()

	id, err := cat.Add(ctx, res, path)
	if err != nil {
		return err
	}
	logger.Info("archived run", zap.String("id", id), zap.String("path", path))
	fmt.Fprintf(out, "\nrun %s saved to %s\n", id, path)
	return nil
}

func openCatalog(cmd *cobra.Command, archiveDir string) (*archive.Catalog, error) {
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		path = filepath.Join(archiveDir, "catalog.db")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return archive.OpenCatalog(ctx, path)
}

func printResult(w io.Writer, res *experiment.Result) {
	regime := res.Regime
	if regime == "" {
		regime = "none"
	}
	fmt.Fprintf(w, "pulse %s, gap %s, seed %d, %d repeat(s), theory %s, %v\n\n",
		res.Pulse, res.Gap, res.Seed, res.Config.Repeats, regime, res.Elapsed.Round(time.Millisecond))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Frequency\tSimulated\tStdErr\tTheory\t")
	for k, f := range res.Freqs {
		stderr := "-"
		if res.StdErr != nil {
			stderr = fmt.Sprintf("%.4g", res.StdErr[k])
		}
		fmt.Fprintf(tw, "%.4g\t%.4g\t%s\t%.4g\t\n", f, res.Empirical[k], stderr, res.Theory[k])
	}
	tw.Flush()

	if c := res.Check; c != nil {
		fmt.Fprintf(w, "\ncheck dt=%g: goertzel max deviation %.3g, periodogram max deviation %.3g\n",
			c.Step, c.SampledDeviation, c.PeriodogramDeviation)
	}
}
