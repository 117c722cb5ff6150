package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/akononovicius/flicker-snorp/archive"
	"github.com/akononovicius/flicker-snorp/experiment"
	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect archived runs",
	}
	cmd.PersistentFlags().String("archive-dir", experiment.Default().ArchiveDir, "Directory holding result files")

	cmd.AddCommand(newCatalogListCmd(), newCatalogShowCmd())
	return cmd
}

func newCatalogListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("archive-dir")
			model, _ := cmd.Flags().GetString("model")

			cat, err := openCatalog(cmd, dir)
			if err != nil {
				return err
			}
			defer cat.Close()

			entries, err := cat.List(cmd.Context(), model)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs archived.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tMODEL\tSEED\tREPEATS\tTHEORY")
			for _, e := range entries {
				regime := e.Regime
				if regime == "" {
					regime = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
					e.ID, e.CreatedAt.Local().Format(time.DateTime), e.Model, e.Seed, e.Repeats, regime)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().String("model", "", "Only list runs of this model, e.g. poiss10.poiss10")
	return cmd
}

func newCatalogShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print an archived spectrum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("archive-dir")
			cat, err := openCatalog(cmd, dir)
			if err != nil {
				return err
			}
			defer cat.Close()

			e, err := cat.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			s, err := archive.Load(e.Path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s seed %d (%s, pulse %s, gap %s)\n\n", e.Model, e.Seed, e.Mode, e.Pulse, e.Gap)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "Frequency\tSimulated\tTheory\t")
			for k, f := range s.Freqs {
				fmt.Fprintf(tw, "%.4g\t%.4g\t%.4g\t\n", f, s.Empirical[k], s.Theory[k])
			}
			return tw.Flush()
		},
	}
}
