package simulator

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/msto63/schedclients/api/scheduling"
	coregrpc "github.com/msto63/schedclients/pkg/core/grpc"
	"github.com/msto63/schedclients/pkg/core/health"
	"github.com/msto63/schedclients/pkg/core/logging"
	"github.com/msto63/schedclients/pkg/core/version"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// Register registers every scheduler service of sim on reg
func Register(reg grpc.ServiceRegistrar, sim *Simulator) {
	scheduling.RegisterAgentServiceServer(reg, agentService{sim})
	scheduling.RegisterJobBuilderServiceServer(reg, jobBuilderService{sim})
	scheduling.RegisterJobsStateServiceServer(reg, jobsStateService{sim})
	scheduling.RegisterJobStateServiceServer(reg, jobStateService{sim})
	scheduling.RegisterTaskStateServiceServer(reg, taskStateService{sim})
	scheduling.RegisterMapServiceServer(reg, mapService{sim})
	scheduling.RegisterSchedulingServiceServer(reg, schedulingService{sim})
	scheduling.RegisterServicingServiceServer(reg, servicingService{sim})
	scheduling.RegisterVersionServiceServer(reg, versionService{sim})
}

// serve pushes a snapshot and then every published update until the client
// leaves or the feed is reset
func serve[T any](stream grpc.ServerStreamingServer[T], feed *Broadcaster[T], snapshot func() []T) error {
	updates, cancel := feed.Subscribe()
	defer cancel()

	if snapshot != nil {
		for _, v := range snapshot() {
			if err := stream.Send(&v); err != nil {
				return err
			}
		}
	}

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case v, ok := <-updates:
			if !ok {
				return status.Error(codes.Unavailable, "update stream reset")
			}
			if err := stream.Send(&v); err != nil {
				return err
			}
		}
	}
}

func one[T any](v T) []T { return []T{v} }

type agentService struct{ sim *Simulator }

var _ scheduling.AgentServiceServer = agentService{}

func (s agentService) GetAllAgentData(context.Context, *emptypb.Empty) (*scheduling.GetAllAgentDataResult, error) {
	return s.sim.GetAllAgentData(), nil
}

func (s agentService) GetAllAgentsInLifetimeState(_ context.Context, req *scheduling.GetAllAgentsInLifetimeStateRequest) (*scheduling.GetAllAgentDataResult, error) {
	return s.sim.GetAllAgentsInLifetimeState(req), nil
}

func (s agentService) SetAgentLifetimeState(_ context.Context, req *scheduling.SetAgentLifetimeStateRequest) (*scheduling.GenericResult, error) {
	return s.sim.SetAgentLifetimeState(req), nil
}

func (s agentService) Subscribe(_ *emptypb.Empty, stream grpc.ServerStreamingServer[scheduling.AgentDto]) error {
	return serve(stream, s.sim.agentFeed, s.sim.agentSnapshot)
}

type jobBuilderService struct{ sim *Simulator }

var _ scheduling.JobBuilderServiceServer = jobBuilderService{}

func (s jobBuilderService) CreateJob(_ context.Context, req *scheduling.CreateJobRequest) (*scheduling.CreateJobResult, error) {
	return s.sim.CreateJob(req), nil
}

func (s jobBuilderService) CommitJob(_ context.Context, req *scheduling.CommitJobRequest) (*scheduling.GenericResult, error) {
	return s.sim.CommitJob(req), nil
}

func (s jobBuilderService) BeginEditingJob(_ context.Context, req *scheduling.EditingJobRequest) (*scheduling.BoolResult, error) {
	return s.sim.BeginEditingJob(req), nil
}

func (s jobBuilderService) FinishEditingJob(_ context.Context, req *scheduling.EditingJobRequest) (*scheduling.BoolResult, error) {
	return s.sim.FinishEditingJob(req), nil
}

func (s jobBuilderService) CreateOrderedListTask(_ context.Context, req *scheduling.CreateListTaskRequest) (*scheduling.IntResult, error) {
	return s.sim.CreateOrderedListTask(req), nil
}

func (s jobBuilderService) CreateUnorderedListTask(_ context.Context, req *scheduling.CreateListTaskRequest) (*scheduling.IntResult, error) {
	return s.sim.CreateUnorderedListTask(req), nil
}

func (s jobBuilderService) CreateAtomicMoveListTask(_ context.Context, req *scheduling.CreateListTaskRequest) (*scheduling.IntResult, error) {
	return s.sim.CreateAtomicMoveListTask(req), nil
}

func (s jobBuilderService) CreateServicingTask(_ context.Context, req *scheduling.CreateServicingTaskRequest) (*scheduling.IntResult, error) {
	return s.sim.CreateServicingTask(req), nil
}

func (s jobBuilderService) CreateSleepingTask(_ context.Context, req *scheduling.CreateSleepingTaskRequest) (*scheduling.IntResult, error) {
	return s.sim.CreateSleepingTask(req), nil
}

func (s jobBuilderService) CreateAtomicMoveTask(_ context.Context, req *scheduling.CreateAtomicMoveTaskRequest) (*scheduling.IntResult, error) {
	return s.sim.CreateAtomicMoveTask(req), nil
}

func (s jobBuilderService) CreateGoToNodeTask(_ context.Context, req *scheduling.CreateNodeTaskRequest) (*scheduling.IntResult, error) {
	return s.sim.CreateGoToNodeTask(req), nil
}

func (s jobBuilderService) CreateAwaitingTask(_ context.Context, req *scheduling.CreateNodeTaskRequest) (*scheduling.IntResult, error) {
	return s.sim.CreateAwaitingTask(req), nil
}

func (s jobBuilderService) IssueIntDirective(_ context.Context, req *scheduling.IssueIntDirectiveRequest) (*scheduling.GenericResult, error) {
	return s.sim.IssueIntDirective(req), nil
}

func (s jobBuilderService) IssueFloatDirective(_ context.Context, req *scheduling.IssueFloatDirectiveRequest) (*scheduling.GenericResult, error) {
	return s.sim.IssueFloatDirective(req), nil
}

func (s jobBuilderService) IssueIPAddressDirective(_ context.Context, req *scheduling.IssueIPAddressDirectiveRequest) (*scheduling.GenericResult, error) {
	return s.sim.IssueIPAddressDirective(req), nil
}

type jobsStateService struct{ sim *Simulator }

var _ scheduling.JobsStateServiceServer = jobsStateService{}

func (s jobsStateService) AbortAllJobs(context.Context, *emptypb.Empty) (*scheduling.GenericResult, error) {
	return s.sim.AbortAllJobs(), nil
}

func (s jobsStateService) AbortAllJobsForAgent(_ context.Context, req *scheduling.AgentRequest) (*scheduling.GenericResult, error) {
	return s.sim.AbortAllJobsForAgent(req), nil
}

func (s jobsStateService) AbortJob(_ context.Context, req *scheduling.AbortJobRequest) (*scheduling.GenericResult, error) {
	return s.sim.AbortJob(req), nil
}

func (s jobsStateService) AbortTask(_ context.Context, req *scheduling.AbortTaskRequest) (*scheduling.GenericResult, error) {
	return s.sim.AbortTask(req), nil
}

func (s jobsStateService) GetActiveJobIDsForAgent(_ context.Context, req *scheduling.AgentRequest) (*scheduling.GetActiveJobIDsForAgentResult, error) {
	return s.sim.GetActiveJobIDsForAgent(req), nil
}

func (s jobsStateService) Subscribe(_ *emptypb.Empty, stream grpc.ServerStreamingServer[scheduling.JobStateDto]) error {
	return serve(stream, s.sim.jobsFeed, func() []scheduling.JobStateDto { return one(s.sim.JobsState()) })
}

type jobStateService struct{ sim *Simulator }

var _ scheduling.JobStateServiceServer = jobStateService{}

func (s jobStateService) GetJobSummary(_ context.Context, req *scheduling.GetJobSummaryRequest) (*scheduling.JobSummaryResult, error) {
	return s.sim.GetJobSummary(req), nil
}

func (s jobStateService) GetParentJobSummaryFromTaskID(_ context.Context, req *scheduling.TaskRequest) (*scheduling.JobSummaryResult, error) {
	return s.sim.GetParentJobSummaryFromTaskID(req), nil
}

func (s jobStateService) GetCurrentJobSummaryForAgentID(_ context.Context, req *scheduling.AgentRequest) (*scheduling.JobSummaryResult, error) {
	return s.sim.GetCurrentJobSummaryForAgentID(req), nil
}

func (s jobStateService) Subscribe(_ *emptypb.Empty, stream grpc.ServerStreamingServer[scheduling.JobProgressDto]) error {
	return serve(stream, s.sim.jobFeed, nil)
}

type taskStateService struct{ sim *Simulator }

var _ scheduling.TaskStateServiceServer = taskStateService{}

func (s taskStateService) Subscribe(_ *emptypb.Empty, stream grpc.ServerStreamingServer[scheduling.TaskProgressDto]) error {
	return serve(stream, s.sim.taskFeed, nil)
}

type mapService struct{ sim *Simulator }

var _ scheduling.MapServiceServer = mapService{}

func (s mapService) GetAllMoveData(context.Context, *emptypb.Empty) (*scheduling.GetAllMoveDataResult, error) {
	return s.sim.GetAllMoveData(), nil
}

func (s mapService) GetAllNodeData(context.Context, *emptypb.Empty) (*scheduling.GetAllNodeDataResult, error) {
	return s.sim.GetAllNodeData(), nil
}

func (s mapService) GetAllParameterData(context.Context, *emptypb.Empty) (*scheduling.GetAllParameterDataResult, error) {
	return s.sim.GetAllParameterData(), nil
}

func (s mapService) GetTrajectory(_ context.Context, req *scheduling.GetTrajectoryRequest) (*scheduling.GetTrajectoryResult, error) {
	return s.sim.GetTrajectory(req), nil
}

func (s mapService) GetOccupyingMandateProgressData(context.Context, *emptypb.Empty) (*scheduling.GetOccupyingMandateProgressDataResult, error) {
	return s.sim.GetOccupyingMandateProgressData(), nil
}

func (s mapService) SetOccupyingMandate(_ context.Context, req *scheduling.SetOccupyingMandateRequest) (*scheduling.GenericResult, error) {
	return s.sim.SetOccupyingMandate(req), nil
}

func (s mapService) ClearOccupyingMandate(context.Context, *emptypb.Empty) (*scheduling.GenericResult, error) {
	return s.sim.ClearOccupyingMandate(), nil
}

func (s mapService) Subscribe(_ *emptypb.Empty, stream grpc.ServerStreamingServer[scheduling.OccupyingMandateProgressDto]) error {
	return serve(stream, s.sim.mandateFeed, func() []scheduling.OccupyingMandateProgressDto {
		return one(*s.sim.GetOccupyingMandateProgressData().OccupyingMandateProgress)
	})
}

type schedulingService struct{ sim *Simulator }

var _ scheduling.SchedulingServiceServer = schedulingService{}

func (s schedulingService) Subscribe(_ *emptypb.Empty, stream grpc.ServerStreamingServer[scheduling.SchedulerStateDto]) error {
	return serve(stream, s.sim.schedulerFeed, func() []scheduling.SchedulerStateDto { return one(s.sim.SchedulerState()) })
}

type servicingService struct{ sim *Simulator }

var _ scheduling.ServicingServiceServer = servicingService{}

func (s servicingService) GetOutstandingServiceRequests(context.Context, *emptypb.Empty) (*scheduling.GetOutstandingServiceRequestsResult, error) {
	return s.sim.GetOutstandingServiceRequests(), nil
}

func (s servicingService) SetServiceComplete(_ context.Context, req *scheduling.TaskRequest) (*scheduling.GenericResult, error) {
	return s.sim.SetServiceComplete(req), nil
}

func (s servicingService) Subscribe(_ *emptypb.Empty, stream grpc.ServerStreamingServer[scheduling.ServiceStateDto]) error {
	return serve(stream, s.sim.serviceFeed, func() []scheduling.ServiceStateDto {
		return s.sim.GetOutstandingServiceRequests().ServiceStates
	})
}

type versionService struct{ sim *Simulator }

var _ scheduling.VersionServiceServer = versionService{}

func (s versionService) GetSchedulerVersion(context.Context, *emptypb.Empty) (*scheduling.GetSchedulerVersionResult, error) {
	return s.sim.GetSchedulerVersion(), nil
}

func (s versionService) GetPluginVersions(context.Context, *emptypb.Empty) (*scheduling.GetPluginVersionsResult, error) {
	return s.sim.GetPluginVersions(), nil
}

// Server runs a Simulator behind a gRPC server and ticks it on an interval
type Server struct {
	sim      *Simulator
	grpc     *coregrpc.Server
	health   *health.Registry
	logger   *logging.Logger
	interval time.Duration

	mu       sync.Mutex
	stopOnce sync.Once
	cancel   context.CancelFunc
	ticking  sync.WaitGroup
}

// NewServer creates a simulator server. An interval of zero disables ticking.
func NewServer(sim *Simulator, cfg coregrpc.ServerConfig, interval time.Duration) *Server {
	grpcServer := coregrpc.NewServer(cfg)
	Register(grpcServer.GRPCServer(), sim)

	registry := health.NewRegistry("schedsim", version.Schedsim)
	registry.RegisterFunc("simulator", func(ctx context.Context) health.CheckResult {
		return health.CheckResult{
			Name:    "simulator",
			Status:  health.StatusHealthy,
			Message: "simulating",
			Details: map[string]interface{}{
				"cycle":       sim.Cycle(),
				"subscribers": sim.Subscribers(),
			},
		}
	})

	return &Server{
		sim:      sim,
		grpc:     grpcServer,
		health:   registry,
		logger:   logging.New("schedsim"),
		interval: interval,
	}
}

// Simulator returns the simulated scheduler
func (s *Server) Simulator() *Simulator {
	return s.sim
}

// Health returns the health registry of the server
func (s *Server) Health() *health.Registry {
	return s.health
}

// Address returns the listen address
func (s *Server) Address() string {
	return s.grpc.Address()
}

// StartAsync listens on the configured address and starts ticking
func (s *Server) StartAsync() error {
	if err := s.grpc.StartAsync(); err != nil {
		return err
	}
	s.startTicking()
	return nil
}

// Serve serves on listener until Stop and ticks in the background
func (s *Server) Serve(listener net.Listener) error {
	s.startTicking()
	return s.grpc.Serve(listener)
}

func (s *Server) startTicking() {
	if s.interval <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.ticking.Add(1)
	go func() {
		defer s.ticking.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("Simulation started", "interval", s.interval)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sim.Tick()
			}
		}
	}()
}

// Stop ends ticking and every open stream, then stops the gRPC server
func (s *Server) Stop(ctx context.Context) {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		if s.cancel != nil {
			s.cancel()
		}
		s.mu.Unlock()
		s.ticking.Wait()

		s.sim.DropStreams()
		s.grpc.StopWithTimeout(ctx)
		s.logger.Info("Simulator server stopped", "cycle", s.sim.Cycle())
	})
}
