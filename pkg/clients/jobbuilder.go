package clients

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/msto63/schedclients/api/scheduling"
	"github.com/msto63/schedclients/pkg/core/logging"
	"google.golang.org/grpc"
)

// JobBuilderClient creates jobs and their task trees
//
// A job starts with CreateJob, which returns the job and the ID of its root
// ordered list task. Tasks are added below that root, then CommitJob hands
// the job to the scheduler. Directives attach parameters to existing tasks.
type JobBuilderClient struct {
	base

	api scheduling.JobBuilderServiceClient
}

// NewJobBuilderClient creates a JobBuilderClient on an existing connection
func NewJobBuilderClient(cc grpc.ClientConnInterface, settings Settings, logger *logging.Logger) *JobBuilderClient {
	return &JobBuilderClient{
		base: newBase("job-builder", settings, logger),
		api:  scheduling.NewJobBuilderServiceClient(cc),
	}
}

// CreateJob creates an empty job
func (c *JobBuilderClient) CreateJob(ctx context.Context, priority scheduling.JobPriority) (*scheduling.JobDto, error) {
	res, err := call(ctx, &c.base, "CreateJob", func(ctx context.Context) (*scheduling.CreateJobResult, error) {
		return c.api.CreateJob(ctx, &scheduling.CreateJobRequest{JobPriority: priority})
	}, "priority", priority.String())
	if err != nil {
		return nil, err
	}
	if res.Job == nil {
		return nil, &ServiceError{Op: "CreateJob", Code: scheduling.ServiceCodeCreateJobFailed, Message: "no job in result"}
	}
	return res.Job, nil
}

// CommitJob submits a job for execution. Pass AnyAgent to let the scheduler
// choose the agent.
func (c *JobBuilderClient) CommitJob(ctx context.Context, jobID, agentID int32) error {
	_, err := call(ctx, &c.base, "CommitJob", func(ctx context.Context) (*scheduling.GenericResult, error) {
		return c.api.CommitJob(ctx, &scheduling.CommitJobRequest{JobID: jobID, AgentID: agentID})
	}, "job_id", jobID, "agent_id", agentID)
	return err
}

// BeginEditingJob puts a committed job back into editing
func (c *JobBuilderClient) BeginEditingJob(ctx context.Context, jobID int32) (bool, error) {
	res, err := call(ctx, &c.base, "BeginEditingJob", func(ctx context.Context) (*scheduling.BoolResult, error) {
		return c.api.BeginEditingJob(ctx, &scheduling.EditingJobRequest{JobID: jobID})
	}, "job_id", jobID)
	if err != nil {
		return false, err
	}
	return res.Value, nil
}

// FinishEditingJob returns an edited job to the scheduler
func (c *JobBuilderClient) FinishEditingJob(ctx context.Context, jobID int32) (bool, error) {
	res, err := call(ctx, &c.base, "FinishEditingJob", func(ctx context.Context) (*scheduling.BoolResult, error) {
		return c.api.FinishEditingJob(ctx, &scheduling.EditingJobRequest{JobID: jobID})
	}, "job_id", jobID)
	if err != nil {
		return false, err
	}
	return res.Value, nil
}

// CreateOrderedListTask adds a list task whose children run in order
func (c *JobBuilderClient) CreateOrderedListTask(ctx context.Context, parentTaskID int32) (int32, error) {
	return c.createTask(ctx, "CreateOrderedListTask", func(ctx context.Context) (*scheduling.IntResult, error) {
		return c.api.CreateOrderedListTask(ctx, &scheduling.CreateListTaskRequest{ParentTaskID: parentTaskID})
	}, "parent_task_id", parentTaskID)
}

// CreateUnorderedListTask adds a list task whose children run in any order
func (c *JobBuilderClient) CreateUnorderedListTask(ctx context.Context, parentTaskID int32) (int32, error) {
	return c.createTask(ctx, "CreateUnorderedListTask", func(ctx context.Context) (*scheduling.IntResult, error) {
		return c.api.CreateUnorderedListTask(ctx, &scheduling.CreateListTaskRequest{ParentTaskID: parentTaskID})
	}, "parent_task_id", parentTaskID)
}

// CreateAtomicMoveListTask adds a list of moves executed as one unit
func (c *JobBuilderClient) CreateAtomicMoveListTask(ctx context.Context, parentTaskID int32) (int32, error) {
	return c.createTask(ctx, "CreateAtomicMoveListTask", func(ctx context.Context) (*scheduling.IntResult, error) {
		return c.api.CreateAtomicMoveListTask(ctx, &scheduling.CreateListTaskRequest{ParentTaskID: parentTaskID})
	}, "parent_task_id", parentTaskID)
}

// CreateServicingTask adds a service stop at a node
func (c *JobBuilderClient) CreateServicingTask(ctx context.Context, parentTaskID, nodeID int32, serviceType scheduling.ServiceType, expected time.Duration) (int32, error) {
	return c.createTask(ctx, "CreateServicingTask", func(ctx context.Context) (*scheduling.IntResult, error) {
		return c.api.CreateServicingTask(ctx, &scheduling.CreateServicingTaskRequest{
			ParentTaskID:       parentTaskID,
			NodeID:             nodeID,
			ServiceType:        serviceType,
			ExpectedDurationMs: expected.Milliseconds(),
		})
	}, "parent_task_id", parentTaskID, "node_id", nodeID, "service_type", serviceType.String())
}

// CreateSleepingTask adds a timed wait at a node
func (c *JobBuilderClient) CreateSleepingTask(ctx context.Context, parentTaskID, nodeID int32, expected time.Duration) (int32, error) {
	return c.createTask(ctx, "CreateSleepingTask", func(ctx context.Context) (*scheduling.IntResult, error) {
		return c.api.CreateSleepingTask(ctx, &scheduling.CreateSleepingTaskRequest{
			ParentTaskID:       parentTaskID,
			NodeID:             nodeID,
			ExpectedDurationMs: expected.Milliseconds(),
		})
	}, "parent_task_id", parentTaskID, "node_id", nodeID)
}

// CreateAtomicMoveTask adds a move to an atomic move list
func (c *JobBuilderClient) CreateAtomicMoveTask(ctx context.Context, parentTaskID, moveID int32) (int32, error) {
	return c.createTask(ctx, "CreateAtomicMoveTask", func(ctx context.Context) (*scheduling.IntResult, error) {
		return c.api.CreateAtomicMoveTask(ctx, &scheduling.CreateAtomicMoveTaskRequest{
			ParentAtomicMoveListTaskID: parentTaskID,
			MoveID:                     moveID,
		})
	}, "parent_task_id", parentTaskID, "move_id", moveID)
}

// CreateGoToNodeTask adds a drive to a node
func (c *JobBuilderClient) CreateGoToNodeTask(ctx context.Context, parentTaskID, nodeID int32) (int32, error) {
	return c.createTask(ctx, "CreateGoToNodeTask", func(ctx context.Context) (*scheduling.IntResult, error) {
		return c.api.CreateGoToNodeTask(ctx, &scheduling.CreateNodeTaskRequest{ParentTaskID: parentTaskID, NodeID: nodeID})
	}, "parent_task_id", parentTaskID, "node_id", nodeID)
}

// CreateAwaitingTask adds an open-ended wait at a node
func (c *JobBuilderClient) CreateAwaitingTask(ctx context.Context, parentTaskID, nodeID int32) (int32, error) {
	return c.createTask(ctx, "CreateAwaitingTask", func(ctx context.Context) (*scheduling.IntResult, error) {
		return c.api.CreateAwaitingTask(ctx, &scheduling.CreateNodeTaskRequest{ParentTaskID: parentTaskID, NodeID: nodeID})
	}, "parent_task_id", parentTaskID, "node_id", nodeID)
}

func (c *JobBuilderClient) createTask(ctx context.Context, op string, fn func(context.Context) (*scheduling.IntResult, error), keysAndValues ...interface{}) (int32, error) {
	res, err := call(ctx, &c.base, op, fn, keysAndValues...)
	if err != nil {
		return 0, err
	}
	return res.Value, nil
}

// IssueEnumDirective sets an enum-valued parameter on a task
func (c *JobBuilderClient) IssueEnumDirective(ctx context.Context, taskID int32, alias string, value uint8) error {
	return c.issueInt(ctx, "IssueEnumDirective", taskID, alias, scheduling.DirectiveKindEnum, int32(value))
}

// IssueShortDirective sets a signed 16-bit parameter on a task
func (c *JobBuilderClient) IssueShortDirective(ctx context.Context, taskID int32, alias string, value int16) error {
	return c.issueInt(ctx, "IssueShortDirective", taskID, alias, scheduling.DirectiveKindShort, int32(value))
}

// IssueUShortDirective sets an unsigned 16-bit parameter on a task
func (c *JobBuilderClient) IssueUShortDirective(ctx context.Context, taskID int32, alias string, value uint16) error {
	return c.issueInt(ctx, "IssueUShortDirective", taskID, alias, scheduling.DirectiveKindUShort, int32(value))
}

func (c *JobBuilderClient) issueInt(ctx context.Context, op string, taskID int32, alias string, kind scheduling.DirectiveKind, value int32) error {
	_, err := call(ctx, &c.base, op, func(ctx context.Context) (*scheduling.GenericResult, error) {
		return c.api.IssueIntDirective(ctx, &scheduling.IssueIntDirectiveRequest{
			TaskID: taskID,
			Alias:  alias,
			Kind:   kind,
			Value:  value,
		})
	}, "task_id", taskID, "alias", alias, "value", value)
	return err
}

// IssueFloatDirective sets a floating point parameter on a task
func (c *JobBuilderClient) IssueFloatDirective(ctx context.Context, taskID int32, alias string, value float32) error {
	_, err := call(ctx, &c.base, "IssueFloatDirective", func(ctx context.Context) (*scheduling.GenericResult, error) {
		return c.api.IssueFloatDirective(ctx, &scheduling.IssueFloatDirectiveRequest{TaskID: taskID, Alias: alias, Value: value})
	}, "task_id", taskID, "alias", alias, "value", value)
	return err
}

// IssueIPAddressDirective sets an address parameter on a task. An invalid
// address is rejected without contacting the scheduler.
func (c *JobBuilderClient) IssueIPAddressDirective(ctx context.Context, taskID int32, alias string, addr netip.Addr) error {
	if !addr.IsValid() {
		err := &ServiceError{
			Op:      "IssueIPAddressDirective",
			Code:    scheduling.ServiceCodeClientException,
			Message: fmt.Sprintf("invalid address for directive %q", alias),
		}
		c.logger.Error("Request rejected", "op", err.Op, "task_id", taskID, "error", err)
		return err
	}

	_, err := call(ctx, &c.base, "IssueIPAddressDirective", func(ctx context.Context) (*scheduling.GenericResult, error) {
		return c.api.IssueIPAddressDirective(ctx, &scheduling.IssueIPAddressDirectiveRequest{
			TaskID: taskID,
			Alias:  alias,
			Value:  addr.String(),
		})
	}, "task_id", taskID, "alias", alias, "value", addr.String())
	return err
}

// Close releases an owned connection
func (c *JobBuilderClient) Close() error {
	return c.closeConn()
}
