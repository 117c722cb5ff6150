// Command snorpsim simulates sequences of non-overlapping rectangular pulses
// (SNORP), estimates their power spectral density and compares it with the
// closed-form spectra.
//
// Usage:
//
//	snorpsim <command> [flags]
//
// Examples:
//
//	snorpsim poiss-poiss --repeats 10 --events 100000
//	snorpsim poiss-pareto --power-gap 1 --max-gap -1 --duration 1e6
//	snorpsim pareto-pareto --power-pulse 1.5 --power-gap 0.5
//	snorpsim run --config experiment.yaml
//	snorpsim theory --pulse poisson:1 --gap pareto:1:1e4:1
//	snorpsim catalog list
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "snorpsim",
		Short: "Simulate pulse sequences and their power spectral density",
		Long: `snorpsim generates sequences of non-overlapping rectangular pulses with
random pulse and gap durations, estimates their power spectral density and
compares the average with the matching closed-form spectrum.

Results are written as CSV files into the archive directory and indexed in
a sqlite catalog.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().Bool("debug", false, "Enable development logging")
	rootCmd.PersistentFlags().String("catalog", "", "Catalog database (default <archive-dir>/catalog.db)")
	rootCmd.PersistentFlags().Bool("no-archive", false, "Print results without writing files")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newPoissPoissCmd(),
		newPoissParetoCmd(),
		newParetoParetoCmd(),
		newTheoryCmd(),
		newLawsCmd(),
		newCatalogCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "snorpsim version %s\n", version)
		},
	}
}

// newLogger builds a production JSON logger, or a console logger at debug
// level when --debug is set.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("can't initialize zap logger: %w", err)
	}
	return logger, nil
}
