package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/routeplanner"
)

func newRouteCmd(flags *globalFlags) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Find the shortest route between two points",
		Long: `Resolve --start and --end to the closest road nodes and print the
shortest route between them with its length in metres.

Examples:
  routeplanner route --map city.yaml --start 10,10 --end 90,90
  routeplanner route --map city.yaml --start 0,0 --end 100,100 --relaxation improving`,
		RunE: func(cmd *cobra.Command, args []string) error {
			startX, startY, err := parsePoint(start)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			endX, endY, err := parsePoint(end)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}

			env, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer env.stop()

			planner, err := routeplanner.NewPlanner(env.model, startX, startY, endX, endY, env.options...)
			if err != nil {
				return err
			}
			result, err := planner.Search(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Route: %d nodes, %.1f m (expanded %d)\n",
				len(result.Path), result.Distance, result.ExpandedNodes)
			for i, node := range result.Path {
				fmt.Fprintf(out, "  %3d  node %-8d x=%.4f y=%.4f\n", i, node.ID, node.X, node.Y)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start point as x,y percentages")
	cmd.Flags().StringVar(&end, "end", "", "End point as x,y percentages")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
