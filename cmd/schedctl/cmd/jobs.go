package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/msto63/schedclients/api/scheduling"
	"github.com/msto63/schedclients/pkg/clients"
	"github.com/spf13/cobra"
)

var (
	abortNote    string
	abortAgent   int32
	summaryTask  bool
	summaryAgent bool
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect and abort jobs",
}

var jobsAbortCmd = &cobra.Command{
	Use:   "abort <job-id>",
	Short: "Abort one job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("job id", args[0])
		if err != nil {
			return err
		}
		return oneShot(func(ctx context.Context, f *clients.Fleet) error {
			if err := f.JobsState.AbortJob(ctx, id, abortNote); err != nil {
				return err
			}
			fmt.Printf("Job %d aborted\n", id)
			return nil
		})(cmd, args)
	},
}

var jobsAbortAllCmd = &cobra.Command{
	Use:   "abort-all",
	Short: "Abort every job, or every job of one agent",
	Args:  cobra.NoArgs,
	RunE: oneShot(func(ctx context.Context, f *clients.Fleet) error {
		if abortAgent > 0 {
			if err := f.JobsState.AbortAllJobsForAgent(ctx, abortAgent); err != nil {
				return err
			}
			fmt.Printf("All jobs of agent %d aborted\n", abortAgent)
			return nil
		}
		if err := f.JobsState.AbortAllJobs(ctx); err != nil {
			return err
		}
		fmt.Println("All jobs aborted")
		return nil
	}),
}

var jobsSummaryCmd = &cobra.Command{
	Use:   "summary <id>",
	Short: "Show the summary of a job",
	Long: `Show the summary of a job.

The id is a job id unless --task or --agent is given, in which case the job
owning that task or the current job of that agent is shown.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if summaryTask && summaryAgent {
			return errors.New("--task and --agent are mutually exclusive")
		}
		id, err := parseID("id", args[0])
		if err != nil {
			return err
		}
		return oneShot(func(ctx context.Context, f *clients.Fleet) error {
			var summary *scheduling.JobSummaryDto
			var err error
			switch {
			case summaryTask:
				summary, err = f.JobState.GetParentJobSummaryFromTaskID(ctx, id)
			case summaryAgent:
				summary, err = f.JobState.GetCurrentJobSummaryForAgentID(ctx, id)
			default:
				summary, err = f.JobState.GetJobSummary(ctx, id)
			}
			if err != nil {
				return err
			}
			printSummary(summary)
			return nil
		})(cmd, args)
	},
}

var jobsActiveCmd = &cobra.Command{
	Use:   "active <agent-id>",
	Short: "List the active job ids of an agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("agent id", args[0])
		if err != nil {
			return err
		}
		return oneShot(func(ctx context.Context, f *clients.Fleet) error {
			ids, err := f.JobsState.GetActiveJobIDsForAgent(ctx, id)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Printf("Agent %d has no active jobs\n", id)
				return nil
			}
			for _, j := range ids {
				fmt.Println(j)
			}
			return nil
		})(cmd, args)
	},
}

func printSummary(s *scheduling.JobSummaryDto) {
	fmt.Printf("Job %d  %s  priority %s  agent %d\n", s.JobID, s.JobStatus, s.JobPriority, s.AssignedAgentID)

	w := newTable()
	fmt.Fprintln(w, "TASK\tPARENT\tTYPE\tSTATUS\tNODE\tMOVE")
	for _, t := range s.Tasks {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%d\t%d\n", t.TaskID, t.ParentTaskID, t.TaskType, t.TaskStatus, t.NodeID, t.MoveID)
	}
	w.Flush()
}

func init() {
	jobsAbortCmd.Flags().StringVar(&abortNote, "note", "", "reason recorded with the abort")
	jobsAbortAllCmd.Flags().Int32Var(&abortAgent, "agent", 0, "only abort the jobs of this agent")
	jobsSummaryCmd.Flags().BoolVar(&summaryTask, "task", false, "the id is a task id")
	jobsSummaryCmd.Flags().BoolVar(&summaryAgent, "agent", false, "the id is an agent id")

	jobsCmd.AddCommand(jobsAbortCmd, jobsAbortAllCmd, jobsSummaryCmd, jobsActiveCmd)
	rootCmd.AddCommand(jobsCmd)
}
