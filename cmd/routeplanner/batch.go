package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/routeplanner"
)

func newBatchCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run the queries listed in the config file",
		Long: `Run every entry of the config's queries list concurrently and print a
summary line per query. Queries that find no route are reported, not fatal.

Example:
  routeplanner batch --config routeplanner.yaml --workers 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer env.stop()

			queries := env.cfg.BatchQueries()
			if len(queries) == 0 {
				return errors.New("config has no queries")
			}

			results, err := routeplanner.RunBatch(cmd.Context(), env.model, queries, env.options...)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tSTART\tEND\tRESULT\tDISTANCE (m)\tEXPANDED")
			found := 0
			for i, r := range results {
				status, distance := "found", fmt.Sprintf("%.1f", r.Result.Distance)
				switch {
				case errors.Is(r.Err, routeplanner.ErrNoPath):
					status, distance = "no path", "-"
				case r.Err != nil:
					status, distance = "error: "+r.Err.Error(), "-"
				default:
					found++
				}
				fmt.Fprintf(tw, "%d\t%.1f,%.1f\t%.1f,%.1f\t%s\t%s\t%d\n",
					i+1, r.Query.StartX, r.Query.StartY, r.Query.EndX, r.Query.EndY,
					status, distance, r.Result.ExpandedNodes)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			env.logger.Info("batch finished", "queries", len(results), "found", found)
			return nil
		},
	}

	cmd.Flags().Int("workers", 0, "Number of concurrent searches (overrides config)")
	return cmd
}
