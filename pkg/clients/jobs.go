package clients

import (
	"context"

	"github.com/msto63/schedclients/api/scheduling"
	"github.com/msto63/schedclients/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

// JobsStateClient aborts jobs and follows the aggregate state of all jobs
type JobsStateClient struct {
	base
	*feed[scheduling.JobStateDto]

	api scheduling.JobsStateServiceClient
}

// NewJobsStateClient creates a JobsStateClient on an existing connection
func NewJobsStateClient(cc grpc.ClientConnInterface, settings Settings, logger *logging.Logger) *JobsStateClient {
	c := &JobsStateClient{
		base: newBase("jobs-state", settings, logger),
		api:  scheduling.NewJobsStateServiceClient(cc),
	}
	c.feed = newFeed[scheduling.JobStateDto]("jobs-state", &c.base, c.api.Subscribe, nil)
	return c
}

// AbortAllJobs aborts every job in the fleet
func (c *JobsStateClient) AbortAllJobs(ctx context.Context) error {
	_, err := call(ctx, &c.base, "AbortAllJobs", func(ctx context.Context) (*scheduling.GenericResult, error) {
		return c.api.AbortAllJobs(ctx, &emptypb.Empty{})
	})
	return err
}

// AbortAllJobsForAgent aborts every job assigned to one agent
func (c *JobsStateClient) AbortAllJobsForAgent(ctx context.Context, agentID int32) error {
	_, err := call(ctx, &c.base, "AbortAllJobsForAgent", func(ctx context.Context) (*scheduling.GenericResult, error) {
		return c.api.AbortAllJobsForAgent(ctx, &scheduling.AgentRequest{AgentID: agentID})
	}, "agent_id", agentID)
	return err
}

// AbortJob aborts one job. The note is kept in the scheduler log.
func (c *JobsStateClient) AbortJob(ctx context.Context, jobID int32, note string) error {
	_, err := call(ctx, &c.base, "AbortJob", func(ctx context.Context) (*scheduling.GenericResult, error) {
		return c.api.AbortJob(ctx, &scheduling.AbortJobRequest{JobID: jobID, Note: note})
	}, "job_id", jobID)
	return err
}

// AbortTask aborts one task and the job it belongs to
func (c *JobsStateClient) AbortTask(ctx context.Context, taskID int32) error {
	_, err := call(ctx, &c.base, "AbortTask", func(ctx context.Context) (*scheduling.GenericResult, error) {
		return c.api.AbortTask(ctx, &scheduling.AbortTaskRequest{TaskID: taskID})
	}, "task_id", taskID)
	return err
}

// GetActiveJobIDsForAgent returns the IDs of the jobs an agent is working on
func (c *JobsStateClient) GetActiveJobIDsForAgent(ctx context.Context, agentID int32) ([]int32, error) {
	res, err := call(ctx, &c.base, "GetActiveJobIDsForAgent", func(ctx context.Context) (*scheduling.GetActiveJobIDsForAgentResult, error) {
		return c.api.GetActiveJobIDsForAgent(ctx, &scheduling.AgentRequest{AgentID: agentID})
	}, "agent_id", agentID)
	if err != nil {
		return nil, err
	}
	return res.ActiveJobs, nil
}

// OnJobsStateUpdated registers fn for every pushed aggregate state
func (c *JobsStateClient) OnJobsStateUpdated(fn func(*scheduling.JobStateDto)) (remove func()) {
	return c.observe(fn)
}

// JobsState returns the last pushed aggregate state
func (c *JobsStateClient) JobsState() (*scheduling.JobStateDto, bool) {
	return c.last()
}

// Close stops the update stream and releases an owned connection
func (c *JobsStateClient) Close() error {
	c.dispose()
	return c.closeConn()
}

// JobStateClient reads job summaries and follows job progress
type JobStateClient struct {
	base
	*feed[scheduling.JobProgressDto]

	api scheduling.JobStateServiceClient
}

// NewJobStateClient creates a JobStateClient on an existing connection
func NewJobStateClient(cc grpc.ClientConnInterface, settings Settings, logger *logging.Logger) *JobStateClient {
	c := &JobStateClient{
		base: newBase("job-state", settings, logger),
		api:  scheduling.NewJobStateServiceClient(cc),
	}
	c.feed = newFeed[scheduling.JobProgressDto]("job-state", &c.base, c.api.Subscribe, nil)
	return c
}

// GetJobSummary returns the summary of one job
func (c *JobStateClient) GetJobSummary(ctx context.Context, jobID int32) (*scheduling.JobSummaryDto, error) {
	return c.summary(ctx, "GetJobSummary", func(ctx context.Context) (*scheduling.JobSummaryResult, error) {
		return c.api.GetJobSummary(ctx, &scheduling.GetJobSummaryRequest{JobID: jobID})
	}, "job_id", jobID)
}

// GetParentJobSummaryFromTaskID returns the summary of the job owning a task
func (c *JobStateClient) GetParentJobSummaryFromTaskID(ctx context.Context, taskID int32) (*scheduling.JobSummaryDto, error) {
	return c.summary(ctx, "GetParentJobSummaryFromTaskID", func(ctx context.Context) (*scheduling.JobSummaryResult, error) {
		return c.api.GetParentJobSummaryFromTaskID(ctx, &scheduling.TaskRequest{TaskID: taskID})
	}, "task_id", taskID)
}

// GetCurrentJobSummaryForAgentID returns the summary of the job an agent is executing
func (c *JobStateClient) GetCurrentJobSummaryForAgentID(ctx context.Context, agentID int32) (*scheduling.JobSummaryDto, error) {
	return c.summary(ctx, "GetCurrentJobSummaryForAgentID", func(ctx context.Context) (*scheduling.JobSummaryResult, error) {
		return c.api.GetCurrentJobSummaryForAgentID(ctx, &scheduling.AgentRequest{AgentID: agentID})
	}, "agent_id", agentID)
}

func (c *JobStateClient) summary(ctx context.Context, op string, fn func(context.Context) (*scheduling.JobSummaryResult, error), keysAndValues ...interface{}) (*scheduling.JobSummaryDto, error) {
	res, err := call(ctx, &c.base, op, fn, keysAndValues...)
	if err != nil {
		return nil, err
	}
	return res.JobSummary, nil
}

// OnJobProgressUpdated registers fn for every pushed job progress update
func (c *JobStateClient) OnJobProgressUpdated(fn func(*scheduling.JobProgressDto)) (remove func()) {
	return c.observe(fn)
}

// LastJobProgress returns the most recent job progress update
func (c *JobStateClient) LastJobProgress() (*scheduling.JobProgressDto, bool) {
	return c.last()
}

// Close stops the update stream and releases an owned connection
func (c *JobStateClient) Close() error {
	c.dispose()
	return c.closeConn()
}

// TaskStateClient follows task progress
type TaskStateClient struct {
	base
	*feed[scheduling.TaskProgressDto]
}

// NewTaskStateClient creates a TaskStateClient on an existing connection
func NewTaskStateClient(cc grpc.ClientConnInterface, settings Settings, logger *logging.Logger) *TaskStateClient {
	c := &TaskStateClient{
		base: newBase("task-state", settings, logger),
	}
	api := scheduling.NewTaskStateServiceClient(cc)
	c.feed = newFeed[scheduling.TaskProgressDto]("task-state", &c.base, api.Subscribe, nil)
	return c
}

// OnTaskProgressUpdated registers fn for every pushed task progress update
func (c *TaskStateClient) OnTaskProgressUpdated(fn func(*scheduling.TaskProgressDto)) (remove func()) {
	return c.observe(fn)
}

// LastTaskProgress returns the most recent task progress update
func (c *TaskStateClient) LastTaskProgress() (*scheduling.TaskProgressDto, bool) {
	return c.last()
}

// Close stops the update stream and releases an owned connection
func (c *TaskStateClient) Close() error {
	c.dispose()
	return c.closeConn()
}
