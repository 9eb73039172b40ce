package scheduling

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// ---------------------------------------------------------------------------
// JobBuilderService
// ---------------------------------------------------------------------------

const (
	JobBuilderService_CreateJob_FullMethodName                = "/scheduling.JobBuilderService/CreateJob"
	JobBuilderService_CommitJob_FullMethodName                = "/scheduling.JobBuilderService/CommitJob"
	JobBuilderService_BeginEditingJob_FullMethodName          = "/scheduling.JobBuilderService/BeginEditingJob"
	JobBuilderService_FinishEditingJob_FullMethodName         = "/scheduling.JobBuilderService/FinishEditingJob"
	JobBuilderService_CreateOrderedListTask_FullMethodName    = "/scheduling.JobBuilderService/CreateOrderedListTask"
	JobBuilderService_CreateUnorderedListTask_FullMethodName  = "/scheduling.JobBuilderService/CreateUnorderedListTask"
	JobBuilderService_CreateAtomicMoveListTask_FullMethodName = "/scheduling.JobBuilderService/CreateAtomicMoveListTask"
	JobBuilderService_CreateServicingTask_FullMethodName      = "/scheduling.JobBuilderService/CreateServicingTask"
	JobBuilderService_CreateSleepingTask_FullMethodName       = "/scheduling.JobBuilderService/CreateSleepingTask"
	JobBuilderService_CreateAtomicMoveTask_FullMethodName     = "/scheduling.JobBuilderService/CreateAtomicMoveTask"
	JobBuilderService_CreateGoToNodeTask_FullMethodName       = "/scheduling.JobBuilderService/CreateGoToNodeTask"
	JobBuilderService_CreateAwaitingTask_FullMethodName       = "/scheduling.JobBuilderService/CreateAwaitingTask"
	JobBuilderService_IssueIntDirective_FullMethodName        = "/scheduling.JobBuilderService/IssueIntDirective"
	JobBuilderService_IssueFloatDirective_FullMethodName      = "/scheduling.JobBuilderService/IssueFloatDirective"
	JobBuilderService_IssueIPAddressDirective_FullMethodName  = "/scheduling.JobBuilderService/IssueIPAddressDirective"
)

// JobBuilderServiceClient is the client API for JobBuilderService.
type JobBuilderServiceClient interface {
	CreateJob(ctx context.Context, in *CreateJobRequest, opts ...grpc.CallOption) (*CreateJobResult, error)
	CommitJob(ctx context.Context, in *CommitJobRequest, opts ...grpc.CallOption) (*GenericResult, error)
	BeginEditingJob(ctx context.Context, in *EditingJobRequest, opts ...grpc.CallOption) (*BoolResult, error)
	FinishEditingJob(ctx context.Context, in *EditingJobRequest, opts ...grpc.CallOption) (*BoolResult, error)
	CreateOrderedListTask(ctx context.Context, in *CreateListTaskRequest, opts ...grpc.CallOption) (*IntResult, error)
	CreateUnorderedListTask(ctx context.Context, in *CreateListTaskRequest, opts ...grpc.CallOption) (*IntResult, error)
	CreateAtomicMoveListTask(ctx context.Context, in *CreateListTaskRequest, opts ...grpc.CallOption) (*IntResult, error)
	CreateServicingTask(ctx context.Context, in *CreateServicingTaskRequest, opts ...grpc.CallOption) (*IntResult, error)
	CreateSleepingTask(ctx context.Context, in *CreateSleepingTaskRequest, opts ...grpc.CallOption) (*IntResult, error)
	CreateAtomicMoveTask(ctx context.Context, in *CreateAtomicMoveTaskRequest, opts ...grpc.CallOption) (*IntResult, error)
	CreateGoToNodeTask(ctx context.Context, in *CreateNodeTaskRequest, opts ...grpc.CallOption) (*IntResult, error)
	CreateAwaitingTask(ctx context.Context, in *CreateNodeTaskRequest, opts ...grpc.CallOption) (*IntResult, error)
	IssueIntDirective(ctx context.Context, in *IssueIntDirectiveRequest, opts ...grpc.CallOption) (*GenericResult, error)
	IssueFloatDirective(ctx context.Context, in *IssueFloatDirectiveRequest, opts ...grpc.CallOption) (*GenericResult, error)
	IssueIPAddressDirective(ctx context.Context, in *IssueIPAddressDirectiveRequest, opts ...grpc.CallOption) (*GenericResult, error)
}

type jobBuilderServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewJobBuilderServiceClient(cc grpc.ClientConnInterface) JobBuilderServiceClient {
	return &jobBuilderServiceClient{cc}
}

func (c *jobBuilderServiceClient) CreateJob(ctx context.Context, in *CreateJobRequest, opts ...grpc.CallOption) (*CreateJobResult, error) {
	return invoke[CreateJobRequest, CreateJobResult](ctx, c.cc, JobBuilderService_CreateJob_FullMethodName, in, opts)
}

func (c *jobBuilderServiceClient) CommitJob(ctx context.Context, in *CommitJobRequest, opts ...grpc.CallOption) (*GenericResult, error) {
	return invoke[CommitJobRequest, GenericResult](ctx, c.cc, JobBuilderService_CommitJob_FullMethodName, in, opts)
}

func (c *jobBuilderServiceClient) BeginEditingJob(ctx context.Context, in *EditingJobRequest, opts ...grpc.CallOption) (*BoolResult, error) {
	return invoke[EditingJobRequest, BoolResult](ctx, c.cc, JobBuilderService_BeginEditingJob_FullMethodName, in, opts)
}

func (c *jobBuilderServiceClient) FinishEditingJob(ctx context.Context, in *EditingJobRequest, opts ...grpc.CallOption) (*BoolResult, error) {
	return invoke[EditingJobRequest, BoolResult](ctx, c.cc, JobBuilderService_FinishEditingJob_FullMethodName, in, opts)
}

func (c *jobBuilderServiceClient) CreateOrderedListTask(ctx context.Context, in *CreateListTaskRequest, opts ...grpc.CallOption) (*IntResult, error) {
	return invoke[CreateListTaskRequest, IntResult](ctx, c.cc, JobBuilderService_CreateOrderedListTask_FullMethodName, in, opts)
}

func (c *jobBuilderServiceClient) CreateUnorderedListTask(ctx context.Context, in *CreateListTaskRequest, opts ...grpc.CallOption) (*IntResult, error) {
	return invoke[CreateListTaskRequest, IntResult](ctx, c.cc, JobBuilderService_CreateUnorderedListTask_FullMethodName, in, opts)
}

func (c *jobBuilderServiceClient) CreateAtomicMoveListTask(ctx context.Context, in *CreateListTaskRequest, opts ...grpc.CallOption) (*IntResult, error) {
	return invoke[CreateListTaskRequest, IntResult](ctx, c.cc, JobBuilderService_CreateAtomicMoveListTask_FullMethodName, in, opts)
}

func (c *jobBuilderServiceClient) CreateServicingTask(ctx context.Context, in *CreateServicingTaskRequest, opts ...grpc.CallOption) (*IntResult, error) {
	return invoke[CreateServicingTaskRequest, IntResult](ctx, c.cc, JobBuilderService_CreateServicingTask_FullMethodName, in, opts)
}

func (c *jobBuilderServiceClient) CreateSleepingTask(ctx context.Context, in *CreateSleepingTaskRequest, opts ...grpc.CallOption) (*IntResult, error) {
	return invoke[CreateSleepingTaskRequest, IntResult](ctx, c.cc, JobBuilderService_CreateSleepingTask_FullMethodName, in, opts)
}

func (c *jobBuilderServiceClient) CreateAtomicMoveTask(ctx context.Context, in *CreateAtomicMoveTaskRequest, opts ...grpc.CallOption) (*IntResult, error) {
	return invoke[CreateAtomicMoveTaskRequest, IntResult](ctx, c.cc, JobBuilderService_CreateAtomicMoveTask_FullMethodName, in, opts)
}

func (c *jobBuilderServiceClient) CreateGoToNodeTask(ctx context.Context, in *CreateNodeTaskRequest, opts ...grpc.CallOption) (*IntResult, error) {
	return invoke[CreateNodeTaskRequest, IntResult](ctx, c.cc, JobBuilderService_CreateGoToNodeTask_FullMethodName, in, opts)
}

func (c *jobBuilderServiceClient) CreateAwaitingTask(ctx context.Context, in *CreateNodeTaskRequest, opts ...grpc.CallOption) (*IntResult, error) {
	return invoke[CreateNodeTaskRequest, IntResult](ctx, c.cc, JobBuilderService_CreateAwaitingTask_FullMethodName, in, opts)
}

func (c *jobBuilderServiceClient) IssueIntDirective(ctx context.Context, in *IssueIntDirectiveRequest, opts ...grpc.CallOption) (*GenericResult, error) {
	return invoke[IssueIntDirectiveRequest, GenericResult](ctx, c.cc, JobBuilderService_IssueIntDirective_FullMethodName, in, opts)
}

func (c *jobBuilderServiceClient) IssueFloatDirective(ctx context.Context, in *IssueFloatDirectiveRequest, opts ...grpc.CallOption) (*GenericResult, error) {
	return invoke[IssueFloatDirectiveRequest, GenericResult](ctx, c.cc, JobBuilderService_IssueFloatDirective_FullMethodName, in, opts)
}

func (c *jobBuilderServiceClient) IssueIPAddressDirective(ctx context.Context, in *IssueIPAddressDirectiveRequest, opts ...grpc.CallOption) (*GenericResult, error) {
	return invoke[IssueIPAddressDirectiveRequest, GenericResult](ctx, c.cc, JobBuilderService_IssueIPAddressDirective_FullMethodName, in, opts)
}

// JobBuilderServiceServer is the server API for JobBuilderService.
type JobBuilderServiceServer interface {
	CreateJob(context.Context, *CreateJobRequest) (*CreateJobResult, error)
	CommitJob(context.Context, *CommitJobRequest) (*GenericResult, error)
	BeginEditingJob(context.Context, *EditingJobRequest) (*BoolResult, error)
	FinishEditingJob(context.Context, *EditingJobRequest) (*BoolResult, error)
	CreateOrderedListTask(context.Context, *CreateListTaskRequest) (*IntResult, error)
	CreateUnorderedListTask(context.Context, *CreateListTaskRequest) (*IntResult, error)
	CreateAtomicMoveListTask(context.Context, *CreateListTaskRequest) (*IntResult, error)
	CreateServicingTask(context.Context, *CreateServicingTaskRequest) (*IntResult, error)
	CreateSleepingTask(context.Context, *CreateSleepingTaskRequest) (*IntResult, error)
	CreateAtomicMoveTask(context.Context, *CreateAtomicMoveTaskRequest) (*IntResult, error)
	CreateGoToNodeTask(context.Context, *CreateNodeTaskRequest) (*IntResult, error)
	CreateAwaitingTask(context.Context, *CreateNodeTaskRequest) (*IntResult, error)
	IssueIntDirective(context.Context, *IssueIntDirectiveRequest) (*GenericResult, error)
	IssueFloatDirective(context.Context, *IssueFloatDirectiveRequest) (*GenericResult, error)
	IssueIPAddressDirective(context.Context, *IssueIPAddressDirectiveRequest) (*GenericResult, error)
}

func RegisterJobBuilderServiceServer(s grpc.ServiceRegistrar, srv JobBuilderServiceServer) {
	s.RegisterService(&JobBuilderService_ServiceDesc, srv)
}

// JobBuilderService_ServiceDesc is the grpc.ServiceDesc for JobBuilderService service.
var JobBuilderService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "scheduling.JobBuilderService",
	HandlerType: (*JobBuilderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateJob", Handler: unaryHandler(JobBuilderService_CreateJob_FullMethodName, JobBuilderServiceServer.CreateJob)},
		{MethodName: "CommitJob", Handler: unaryHandler(JobBuilderService_CommitJob_FullMethodName, JobBuilderServiceServer.CommitJob)},
		{MethodName: "BeginEditingJob", Handler: unaryHandler(JobBuilderService_BeginEditingJob_FullMethodName, JobBuilderServiceServer.BeginEditingJob)},
		{MethodName: "FinishEditingJob", Handler: unaryHandler(JobBuilderService_FinishEditingJob_FullMethodName, JobBuilderServiceServer.FinishEditingJob)},
		{MethodName: "CreateOrderedListTask", Handler: unaryHandler(JobBuilderService_CreateOrderedListTask_FullMethodName, JobBuilderServiceServer.CreateOrderedListTask)},
		{MethodName: "CreateUnorderedListTask", Handler: unaryHandler(JobBuilderService_CreateUnorderedListTask_FullMethodName, JobBuilderServiceServer.CreateUnorderedListTask)},
		{MethodName: "CreateAtomicMoveListTask", Handler: unaryHandler(JobBuilderService_CreateAtomicMoveListTask_FullMethodName, JobBuilderServiceServer.CreateAtomicMoveListTask)},
		{MethodName: "CreateServicingTask", Handler: unaryHandler(JobBuilderService_CreateServicingTask_FullMethodName, JobBuilderServiceServer.CreateServicingTask)},
		{MethodName: "CreateSleepingTask", Handler: unaryHandler(JobBuilderService_CreateSleepingTask_FullMethodName, JobBuilderServiceServer.CreateSleepingTask)},
		{MethodName: "CreateAtomicMoveTask", Handler: unaryHandler(JobBuilderService_CreateAtomicMoveTask_FullMethodName, JobBuilderServiceServer.CreateAtomicMoveTask)},
		{MethodName: "CreateGoToNodeTask", Handler: unaryHandler(JobBuilderService_CreateGoToNodeTask_FullMethodName, JobBuilderServiceServer.CreateGoToNodeTask)},
		{MethodName: "CreateAwaitingTask", Handler: unaryHandler(JobBuilderService_CreateAwaitingTask_FullMethodName, JobBuilderServiceServer.CreateAwaitingTask)},
		{MethodName: "IssueIntDirective", Handler: unaryHandler(JobBuilderService_IssueIntDirective_FullMethodName, JobBuilderServiceServer.IssueIntDirective)},
		{MethodName: "IssueFloatDirective", Handler: unaryHandler(JobBuilderService_IssueFloatDirective_FullMethodName, JobBuilderServiceServer.IssueFloatDirective)},
		{MethodName: "IssueIPAddressDirective", Handler: unaryHandler(JobBuilderService_IssueIPAddressDirective_FullMethodName, JobBuilderServiceServer.IssueIPAddressDirective)},
	},
}

// ---------------------------------------------------------------------------
// JobsStateService
// ---------------------------------------------------------------------------

const (
	JobsStateService_AbortAllJobs_FullMethodName            = "/scheduling.JobsStateService/AbortAllJobs"
	JobsStateService_AbortAllJobsForAgent_FullMethodName    = "/scheduling.JobsStateService/AbortAllJobsForAgent"
	JobsStateService_AbortJob_FullMethodName                = "/scheduling.JobsStateService/AbortJob"
	JobsStateService_AbortTask_FullMethodName               = "/scheduling.JobsStateService/AbortTask"
	JobsStateService_GetActiveJobIDsForAgent_FullMethodName = "/scheduling.JobsStateService/GetActiveJobIdsForAgent"
	JobsStateService_Subscribe_FullMethodName               = "/scheduling.JobsStateService/Subscribe"
)

// JobsStateServiceClient is the client API for JobsStateService.
type JobsStateServiceClient interface {
	AbortAllJobs(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GenericResult, error)
	AbortAllJobsForAgent(ctx context.Context, in *AgentRequest, opts ...grpc.CallOption) (*GenericResult, error)
	AbortJob(ctx context.Context, in *AbortJobRequest, opts ...grpc.CallOption) (*GenericResult, error)
	AbortTask(ctx context.Context, in *AbortTaskRequest, opts ...grpc.CallOption) (*GenericResult, error)
	GetActiveJobIDsForAgent(ctx context.Context, in *AgentRequest, opts ...grpc.CallOption) (*GetActiveJobIDsForAgentResult, error)
	Subscribe(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[JobStateDto], error)
}

type jobsStateServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewJobsStateServiceClient(cc grpc.ClientConnInterface) JobsStateServiceClient {
	return &jobsStateServiceClient{cc}
}

func (c *jobsStateServiceClient) AbortAllJobs(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GenericResult, error) {
	return invoke[emptypb.Empty, GenericResult](ctx, c.cc, JobsStateService_AbortAllJobs_FullMethodName, in, opts)
}

func (c *jobsStateServiceClient) AbortAllJobsForAgent(ctx context.Context, in *AgentRequest, opts ...grpc.CallOption) (*GenericResult, error) {
	return invoke[AgentRequest, GenericResult](ctx, c.cc, JobsStateService_AbortAllJobsForAgent_FullMethodName, in, opts)
}

func (c *jobsStateServiceClient) AbortJob(ctx context.Context, in *AbortJobRequest, opts ...grpc.CallOption) (*GenericResult, error) {
	return invoke[AbortJobRequest, GenericResult](ctx, c.cc, JobsStateService_AbortJob_FullMethodName, in, opts)
}

func (c *jobsStateServiceClient) AbortTask(ctx context.Context, in *AbortTaskRequest, opts ...grpc.CallOption) (*GenericResult, error) {
	return invoke[AbortTaskRequest, GenericResult](ctx, c.cc, JobsStateService_AbortTask_FullMethodName, in, opts)
}

func (c *jobsStateServiceClient) GetActiveJobIDsForAgent(ctx context.Context, in *AgentRequest, opts ...grpc.CallOption) (*GetActiveJobIDsForAgentResult, error) {
	return invoke[AgentRequest, GetActiveJobIDsForAgentResult](ctx, c.cc, JobsStateService_GetActiveJobIDsForAgent_FullMethodName, in, opts)
}

func (c *jobsStateServiceClient) Subscribe(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[JobStateDto], error) {
	return openServerStream[JobStateDto](ctx, c.cc, &JobsStateService_ServiceDesc.Streams[0], JobsStateService_Subscribe_FullMethodName, in, opts)
}

// JobsStateServiceServer is the server API for JobsStateService.
type JobsStateServiceServer interface {
	AbortAllJobs(context.Context, *emptypb.Empty) (*GenericResult, error)
	AbortAllJobsForAgent(context.Context, *AgentRequest) (*GenericResult, error)
	AbortJob(context.Context, *AbortJobRequest) (*GenericResult, error)
	AbortTask(context.Context, *AbortTaskRequest) (*GenericResult, error)
	GetActiveJobIDsForAgent(context.Context, *AgentRequest) (*GetActiveJobIDsForAgentResult, error)
	Subscribe(*emptypb.Empty, grpc.ServerStreamingServer[JobStateDto]) error
}

func RegisterJobsStateServiceServer(s grpc.ServiceRegistrar, srv JobsStateServiceServer) {
	s.RegisterService(&JobsStateService_ServiceDesc, srv)
}

// JobsStateService_ServiceDesc is the grpc.ServiceDesc for JobsStateService service.
var JobsStateService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "scheduling.JobsStateService",
	HandlerType: (*JobsStateServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AbortAllJobs", Handler: unaryHandler(JobsStateService_AbortAllJobs_FullMethodName, JobsStateServiceServer.AbortAllJobs)},
		{MethodName: "AbortAllJobsForAgent", Handler: unaryHandler(JobsStateService_AbortAllJobsForAgent_FullMethodName, JobsStateServiceServer.AbortAllJobsForAgent)},
		{MethodName: "AbortJob", Handler: unaryHandler(JobsStateService_AbortJob_FullMethodName, JobsStateServiceServer.AbortJob)},
		{MethodName: "AbortTask", Handler: unaryHandler(JobsStateService_AbortTask_FullMethodName, JobsStateServiceServer.AbortTask)},
		{MethodName: "GetActiveJobIdsForAgent", Handler: unaryHandler(JobsStateService_GetActiveJobIDsForAgent_FullMethodName, JobsStateServiceServer.GetActiveJobIDsForAgent)},
	},
	Streams: []grpc.StreamDesc{
		subscribeStreamDesc(JobsStateServiceServer.Subscribe),
	},
}

// ---------------------------------------------------------------------------
// JobStateService
// ---------------------------------------------------------------------------

const (
	JobStateService_GetJobSummary_FullMethodName                  = "/scheduling.JobStateService/GetJobSummary"
	JobStateService_GetParentJobSummaryFromTaskID_FullMethodName  = "/scheduling.JobStateService/GetParentJobSummaryFromTaskId"
	JobStateService_GetCurrentJobSummaryForAgentID_FullMethodName = "/scheduling.JobStateService/GetCurrentJobSummaryForAgentId"
	JobStateService_Subscribe_FullMethodName                      = "/scheduling.JobStateService/Subscribe"
)

// JobStateServiceClient is the client API for JobStateService.
type JobStateServiceClient interface {
	GetJobSummary(ctx context.Context, in *GetJobSummaryRequest, opts ...grpc.CallOption) (*JobSummaryResult, error)
	GetParentJobSummaryFromTaskID(ctx context.Context, in *TaskRequest, opts ...grpc.CallOption) (*JobSummaryResult, error)
	GetCurrentJobSummaryForAgentID(ctx context.Context, in *AgentRequest, opts ...grpc.CallOption) (*JobSummaryResult, error)
	Subscribe(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[JobProgressDto], error)
}

type jobStateServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewJobStateServiceClient(cc grpc.ClientConnInterface) JobStateServiceClient {
	return &jobStateServiceClient{cc}
}

func (c *jobStateServiceClient) GetJobSummary(ctx context.Context, in *GetJobSummaryRequest, opts ...grpc.CallOption) (*JobSummaryResult, error) {
	return invoke[GetJobSummaryRequest, JobSummaryResult](ctx, c.cc, JobStateService_GetJobSummary_FullMethodName, in, opts)
}

func (c *jobStateServiceClient) GetParentJobSummaryFromTaskID(ctx context.Context, in *TaskRequest, opts ...grpc.CallOption) (*JobSummaryResult, error) {
	return invoke[TaskRequest, JobSummaryResult](ctx, c.cc, JobStateService_GetParentJobSummaryFromTaskID_FullMethodName, in, opts)
}

func (c *jobStateServiceClient) GetCurrentJobSummaryForAgentID(ctx context.Context, in *AgentRequest, opts ...grpc.CallOption) (*JobSummaryResult, error) {
	return invoke[AgentRequest, JobSummaryResult](ctx, c.cc, JobStateService_GetCurrentJobSummaryForAgentID_FullMethodName, in, opts)
}

func (c *jobStateServiceClient) Subscribe(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[JobProgressDto], error) {
	return openServerStream[JobProgressDto](ctx, c.cc, &JobStateService_ServiceDesc.Streams[0], JobStateService_Subscribe_FullMethodName, in, opts)
}

// JobStateServiceServer is the server API for JobStateService.
type JobStateServiceServer interface {
	GetJobSummary(context.Context, *GetJobSummaryRequest) (*JobSummaryResult, error)
	GetParentJobSummaryFromTaskID(context.Context, *TaskRequest) (*JobSummaryResult, error)
	GetCurrentJobSummaryForAgentID(context.Context, *AgentRequest) (*JobSummaryResult, error)
	Subscribe(*emptypb.Empty, grpc.ServerStreamingServer[JobProgressDto]) error
}

func RegisterJobStateServiceServer(s grpc.ServiceRegistrar, srv JobStateServiceServer) {
	s.RegisterService(&JobStateService_ServiceDesc, srv)
}

// JobStateService_ServiceDesc is the grpc.ServiceDesc for JobStateService service.
var JobStateService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "scheduling.JobStateService",
	HandlerType: (*JobStateServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetJobSummary", Handler: unaryHandler(JobStateService_GetJobSummary_FullMethodName, JobStateServiceServer.GetJobSummary)},
		{MethodName: "GetParentJobSummaryFromTaskId", Handler: unaryHandler(JobStateService_GetParentJobSummaryFromTaskID_FullMethodName, JobStateServiceServer.GetParentJobSummaryFromTaskID)},
		{MethodName: "GetCurrentJobSummaryForAgentId", Handler: unaryHandler(JobStateService_GetCurrentJobSummaryForAgentID_FullMethodName, JobStateServiceServer.GetCurrentJobSummaryForAgentID)},
	},
	Streams: []grpc.StreamDesc{
		subscribeStreamDesc(JobStateServiceServer.Subscribe),
	},
}

// ---------------------------------------------------------------------------
// TaskStateService
// ---------------------------------------------------------------------------

const TaskStateService_Subscribe_FullMethodName = "/scheduling.TaskStateService/Subscribe"

// TaskStateServiceClient is the client API for TaskStateService.
type TaskStateServiceClient interface {
	Subscribe(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[TaskProgressDto], error)
}

type taskStateServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTaskStateServiceClient(cc grpc.ClientConnInterface) TaskStateServiceClient {
	return &taskStateServiceClient{cc}
}

func (c *taskStateServiceClient) Subscribe(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[TaskProgressDto], error) {
	return openServerStream[TaskProgressDto](ctx, c.cc, &TaskStateService_ServiceDesc.Streams[0], TaskStateService_Subscribe_FullMethodName, in, opts)
}

// TaskStateServiceServer is the server API for TaskStateService.
type TaskStateServiceServer interface {
	Subscribe(*emptypb.Empty, grpc.ServerStreamingServer[TaskProgressDto]) error
}

// UnimplementedTaskStateServiceServer can be embedded to have forward compatible implementations.
type UnimplementedTaskStateServiceServer struct{}

func (UnimplementedTaskStateServiceServer) Subscribe(*emptypb.Empty, grpc.ServerStreamingServer[TaskProgressDto]) error {
	return status.Error(codes.Unimplemented, "method Subscribe not implemented")
}

func RegisterTaskStateServiceServer(s grpc.ServiceRegistrar, srv TaskStateServiceServer) {
	s.RegisterService(&TaskStateService_ServiceDesc, srv)
}

// TaskStateService_ServiceDesc is the grpc.ServiceDesc for TaskStateService service.
var TaskStateService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "scheduling.TaskStateService",
	HandlerType: (*TaskStateServiceServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		subscribeStreamDesc(TaskStateServiceServer.Subscribe),
	},
}
