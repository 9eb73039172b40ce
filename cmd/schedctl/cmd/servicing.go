package cmd

import (
	"context"
	"fmt"

	"github.com/msto63/schedclients/pkg/clients"
	"github.com/spf13/cobra"
)

var servicingCmd = &cobra.Command{
	Use:   "servicing",
	Short: "List and complete service requests",
}

var servicingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List outstanding service requests",
	Args:  cobra.NoArgs,
	RunE: oneShot(func(ctx context.Context, f *clients.Fleet) error {
		requests, err := f.Servicing.GetOutstandingServiceRequests(ctx)
		if err != nil {
			return err
		}
		if len(requests) == 0 {
			fmt.Println("No outstanding service requests")
			return nil
		}
		w := newTable()
		fmt.Fprintln(w, "TASK\tAGENT\tNODE\tTYPE\tSTATUS")
		for _, r := range requests {
			fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\n", r.TaskID, r.AgentID, r.NodeID, r.ServiceType, r.ServiceStatus)
		}
		return w.Flush()
	}),
}

var servicingCompleteCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Mark a service request as done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("task id", args[0])
		if err != nil {
			return err
		}
		return oneShot(func(ctx context.Context, f *clients.Fleet) error {
			if err := f.Servicing.SetServiceComplete(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Service of task %d completed\n", id)
			return nil
		})(cmd, args)
	},
}

func init() {
	servicingCmd.AddCommand(servicingListCmd, servicingCompleteCmd)
	rootCmd.AddCommand(servicingCmd)
}
