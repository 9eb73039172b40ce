package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/msto63/schedclients/pkg/clients"
	"github.com/spf13/cobra"
)

var mandateTimeout time.Duration

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Inspect the map and manage the occupying mandate",
}

var mapNodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List map nodes",
	Args:  cobra.NoArgs,
	RunE: oneShot(func(ctx context.Context, f *clients.Fleet) error {
		nodes, err := f.Map.GetAllNodes(ctx)
		if err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tALIAS\tX\tY")
		for _, n := range nodes {
			fmt.Fprintf(w, "%d\t%s\t%.1f\t%.1f\n", n.NodeID, n.Alias, n.X, n.Y)
		}
		return w.Flush()
	}),
}

var mapMovesCmd = &cobra.Command{
	Use:   "moves",
	Short: "List map moves",
	Args:  cobra.NoArgs,
	RunE: oneShot(func(ctx context.Context, f *clients.Fleet) error {
		moves, err := f.Map.GetAllMoves(ctx)
		if err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tALIAS\tFROM\tTO")
		for _, m := range moves {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", m.MoveID, m.Alias, m.StartNodeID, m.EndNodeID)
		}
		return w.Flush()
	}),
}

var mapMandateCmd = &cobra.Command{
	Use:   "mandate",
	Short: "Manage the occupying mandate",
}

var mapMandateSetCmd = &cobra.Command{
	Use:   "set <map-item-id>...",
	Short: "Request exclusive occupation of map items",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs("map item id", args)
		if err != nil {
			return err
		}
		return oneShot(func(ctx context.Context, f *clients.Fleet) error {
			if err := f.Map.SetOccupyingMandate(ctx, ids, mandateTimeout); err != nil {
				return err
			}
			fmt.Printf("Occupying mandate requested for %v\n", ids)
			return nil
		})(cmd, args)
	},
}

var mapMandateClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Release the occupying mandate",
	Args:  cobra.NoArgs,
	RunE: oneShot(func(ctx context.Context, f *clients.Fleet) error {
		if err := f.Map.ClearOccupyingMandate(ctx); err != nil {
			return err
		}
		fmt.Println("Occupying mandate cleared")
		return nil
	}),
}

var mapMandateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the progress of the occupying mandate",
	Args:  cobra.NoArgs,
	RunE: oneShot(func(ctx context.Context, f *clients.Fleet) error {
		p, err := f.Map.GetOccupyingMandateProgress(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("State:    %s\n", p.State)
		fmt.Printf("Mandated: %v\n", p.MandatedMapItemIDs)
		fmt.Printf("Occupied: %v\n", p.OccupiedMapItemIDs)
		return nil
	}),
}

func init() {
	mapMandateSetCmd.Flags().DurationVar(&mandateTimeout, "timeout", time.Minute, "how long the mandate stays established")
	mapMandateCmd.AddCommand(mapMandateSetCmd, mapMandateClearCmd, mapMandateShowCmd)
	mapCmd.AddCommand(mapNodesCmd, mapMovesCmd, mapMandateCmd)
	rootCmd.AddCommand(mapCmd)
}
