package cmd

import (
	"context"
	"fmt"

	"github.com/msto63/schedclients/api/scheduling"
	"github.com/msto63/schedclients/pkg/clients"
	"github.com/spf13/cobra"
)

var agentsState string

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List agents and change their lifetime state",
}

var agentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all agents, or those in one lifetime state",
	Args:  cobra.NoArgs,
	RunE: oneShot(func(ctx context.Context, f *clients.Fleet) error {
		var agents []scheduling.AgentDto
		var err error
		if agentsState != "" {
			state, perr := scheduling.ParseAgentLifetimeState(agentsState)
			if perr != nil {
				return perr
			}
			agents, err = f.Agents.GetAllAgentsInLifetimeState(ctx, state)
		} else {
			agents, err = f.Agents.GetAllAgents(ctx)
		}
		if err != nil {
			return err
		}

		w := newTable()
		fmt.Fprintln(w, "ID\tALIAS\tIP\tSTATE\tNODE\tBATTERY\tVIRTUAL")
		for _, a := range agents {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%.0f%%\t%t\n",
				a.AgentID, a.Alias, a.IPAddress, a.LifetimeState, a.CurrentNodeID, a.BatteryChargePercentage, a.IsVirtual)
		}
		return w.Flush()
	}),
}

var agentsSetStateCmd = &cobra.Command{
	Use:   "set-state <agent-id> <OutOfService|InService|Excluded>",
	Short: "Set the lifetime state of an agent",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("agent id", args[0])
		if err != nil {
			return err
		}
		state, err := scheduling.ParseAgentLifetimeState(args[1])
		if err != nil {
			return err
		}
		return oneShot(func(ctx context.Context, f *clients.Fleet) error {
			if err := f.Agents.SetAgentLifetimeState(ctx, id, state); err != nil {
				return err
			}
			fmt.Printf("Agent %d is now %s\n", id, state)
			return nil
		})(cmd, args)
	},
}

func init() {
	agentsListCmd.Flags().StringVar(&agentsState, "state", "", "only agents in this lifetime state")
	agentsCmd.AddCommand(agentsListCmd, agentsSetStateCmd)
	rootCmd.AddCommand(agentsCmd)
}
