package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezkam/taskmarket/internal/application/reconcile"
	"github.com/rezkam/taskmarket/internal/config"
)

func reconcileCmd() *cobra.Command {
	var repair bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute helper aggregates from task history and report drift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadCLIConfig()
			if err != nil {
				return err
			}
			store, closeFn, err := openStore(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer closeFn()

			report, err := reconcile.NewService(store, repair).Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if report.Skipped {
				fmt.Fprintln(out, "skipped: another reconciliation is running")
				return nil
			}
			for _, d := range report.Drifted {
				fmt.Fprintf(out, "drift %s: completed %d->%d earnings %.2f->%.2f ratings %d->%d rating %.4f->%.4f\n",
					d.HelperID,
					d.Stored.CompletedTasks, d.Computed.CompletedTasks,
					d.Stored.EarningsTotal, d.Computed.EarningsTotal,
					d.Stored.TotalRatings, d.Computed.TotalRatings,
					d.Stored.Rating, d.Computed.Rating)
			}
			fmt.Fprintf(out, "checked %d helpers, %d drifted, %d repaired\n", report.Checked, len(report.Drifted), report.Repaired)
			return nil
		},
	}

	cmd.Flags().BoolVar(&repair, "repair", false, "overwrite drifted aggregates")
	return cmd
}
