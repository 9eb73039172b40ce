package clients_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/msto63/schedclients/api/scheduling"
	"github.com/msto63/schedclients/internal/simulator"
	"github.com/msto63/schedclients/internal/simulator/simtest"
	"github.com/msto63/schedclients/pkg/clients"
	"github.com/msto63/schedclients/pkg/core/config"
	"github.com/msto63/schedclients/pkg/core/health"
	"github.com/msto63/schedclients/pkg/core/logging"
	"github.com/msto63/schedclients/pkg/subscription"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor   = 3 * time.Second
	pollEvery = 5 * time.Millisecond
)

func testSettings() clients.Settings {
	return clients.Settings{
		Subscribe:   true,
		RetryDelay:  20 * time.Millisecond,
		CallTimeout: 2 * time.Second,
	}
}

func newTestFleet(t *testing.T, h *simtest.Harness) *clients.Fleet {
	t.Helper()
	f := clients.NewFleetWithConn(h.Conn, testSettings(), logging.Discard())
	t.Cleanup(func() { _ = f.Close() })
	return f
}

// waitStreaming waits until every stream of f is open on both ends
func waitStreaming(t *testing.T, h *simtest.Harness, f *clients.Fleet) {
	t.Helper()
	for name, s := range f.Streamers() {
		require.Eventually(t, func() bool {
			return s.SubscriptionState() == subscription.StateStreaming
		}, waitFor, pollEvery, "%s never reached streaming", name)
	}
	require.Eventually(t, func() bool {
		return h.Sim.Subscribers() == len(f.Streamers())
	}, waitFor, pollEvery)
}

// tickUntil ticks the simulator until cond holds
func tickUntil(t *testing.T, sim *simulator.Simulator, cond func() bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		if cond() {
			return true
		}
		sim.Tick()
		return false
	}, waitFor, 10*time.Millisecond)
}

func TestFleet_OneShotCalls(t *testing.T) {
	h := simtest.Start(t, simulator.Config{Agents: 2})
	f := newTestFleet(t, h)
	ctx := context.Background()

	agents, err := f.Agents.GetAllAgents(ctx)
	require.NoError(t, err)
	require.Len(t, agents, 2)

	require.NoError(t, f.Agents.SetAgentLifetimeState(ctx, 2, scheduling.AgentLifetimeStateExcluded))
	excluded, err := f.Agents.GetAllAgentsInLifetimeState(ctx, scheduling.AgentLifetimeStateExcluded)
	require.NoError(t, err)
	require.Len(t, excluded, 1)
	assert.Equal(t, int32(2), excluded[0].AgentID)

	nodes, err := f.Map.GetAllNodes(ctx)
	require.NoError(t, err)
	assert.Len(t, nodes, 16)

	moves, err := f.Map.GetAllMoves(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, moves)

	waypoints, err := f.Map.GetTrajectory(ctx, moves[0].MoveID)
	require.NoError(t, err)
	assert.NotEmpty(t, waypoints)

	params, err := f.Map.GetAllParameters(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, params)

	v, err := f.Version.GetSchedulerVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", v.String())

	plugins, err := f.Version.GetPluginVersions(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, plugins)
}

func TestFleet_ServiceErrors(t *testing.T) {
	h := simtest.Start(t, simulator.Config{})
	f := newTestFleet(t, h)
	ctx := context.Background()

	err := f.JobsState.AbortJob(ctx, 404, "missing")
	require.Error(t, err)
	assert.Equal(t, scheduling.ServiceCodeInvalidJobID, clients.CodeOf(err))

	_, err = f.JobState.GetJobSummary(ctx, 404)
	assert.Equal(t, scheduling.ServiceCodeInvalidJobID, clients.CodeOf(err))

	err = f.Agents.SetAgentLifetimeState(ctx, 99, scheduling.AgentLifetimeStateInService)
	assert.Equal(t, scheduling.ServiceCodeInvalidAgentID, clients.CodeOf(err))

	_, err = f.Map.GetTrajectory(ctx, 1)
	assert.Equal(t, scheduling.ServiceCodeInvalidMoveID, clients.CodeOf(err))

	h.Sim.SetAcceptingNewJobs(false)
	job, err := f.JobBuilder.CreateJob(ctx, scheduling.JobPriorityHigh)
	assert.Nil(t, job)
	assert.Equal(t, scheduling.ServiceCodeNotAcceptingNewJobs, clients.CodeOf(err))
}

func TestFleet_JobLifecycle(t *testing.T) {
	h := simtest.Start(t, simulator.Config{Agents: 1})
	f := newTestFleet(t, h)
	waitStreaming(t, h, f)
	ctx := context.Background()

	var mu sync.Mutex
	var progress []scheduling.JobStatus
	f.JobState.OnJobProgressUpdated(func(p *scheduling.JobProgressDto) {
		mu.Lock()
		progress = append(progress, p.JobStatus)
		mu.Unlock()
	})

	job, err := f.JobBuilder.CreateJob(ctx, scheduling.JobPriorityNormal)
	require.NoError(t, err)

	list, err := f.JobBuilder.CreateOrderedListTask(ctx, job.RootOrderedListTaskID)
	require.NoError(t, err)
	goTo, err := f.JobBuilder.CreateGoToNodeTask(ctx, list, 6)
	require.NoError(t, err)
	service, err := f.JobBuilder.CreateServicingTask(ctx, list, 6, scheduling.ServiceTypeManual, 30*time.Second)
	require.NoError(t, err)

	require.NoError(t, f.JobBuilder.IssueUShortDirective(ctx, goTo, "speed", 1200))
	require.NoError(t, f.JobBuilder.CommitJob(ctx, job.JobID, clients.AnyAgent))

	var requested atomic.Bool
	f.Servicing.OnServiceRequest(func(s *scheduling.ServiceStateDto) {
		if s.TaskID == service && s.ServiceStatus == scheduling.ServiceStatusRequested {
			requested.Store(true)
		}
	})

	tickUntil(t, h.Sim, requested.Load)

	outstanding, err := f.Servicing.GetOutstandingServiceRequests(ctx)
	require.NoError(t, err)
	require.Len(t, outstanding, 1)
	assert.Equal(t, int32(1), outstanding[0].AgentID)

	active, err := f.JobsState.GetActiveJobIDsForAgent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int32{job.JobID}, active)

	current, err := f.JobState.GetCurrentJobSummaryForAgentID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, job.JobID, current.JobID)

	require.NoError(t, f.Servicing.SetServiceComplete(ctx, service))

	tickUntil(t, h.Sim, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(progress) > 0 && progress[len(progress)-1] == scheduling.JobStatusCompleted
	})

	summary, err := f.JobState.GetParentJobSummaryFromTaskID(ctx, goTo)
	require.NoError(t, err)
	assert.Equal(t, scheduling.JobStatusCompleted, summary.JobStatus)

	require.Eventually(t, func() bool {
		state, ok := f.JobsState.JobsState()
		return ok && len(state.JobSummaries) == 1 && state.JobSummaries[0].JobStatus == scheduling.JobStatusCompleted
	}, waitFor, pollEvery)

	require.Eventually(t, func() bool {
		agent, ok := f.Agents.Agent(1)
		return ok && agent.CurrentNodeID == 6
	}, waitFor, pollEvery)

	last, ok := f.TaskState.LastTaskProgress()
	require.True(t, ok)
	assert.Equal(t, job.JobID, last.JobID)
}

func TestFleet_EditingAndAbort(t *testing.T) {
	h := simtest.Start(t, simulator.Config{Agents: 1})
	f := newTestFleet(t, h)
	ctx := context.Background()

	job, err := f.JobBuilder.CreateJob(ctx, scheduling.JobPriorityNormal)
	require.NoError(t, err)
	awaiting, err := f.JobBuilder.CreateAwaitingTask(ctx, job.RootOrderedListTaskID, 3)
	require.NoError(t, err)
	require.NoError(t, f.JobBuilder.CommitJob(ctx, job.JobID, 1))
	h.Sim.Tick()

	started, err := f.JobBuilder.BeginEditingJob(ctx, job.JobID)
	require.NoError(t, err)
	assert.True(t, started)

	_, err = f.JobBuilder.CreateSleepingTask(ctx, job.RootOrderedListTaskID, 3, time.Second)
	require.NoError(t, err)

	finished, err := f.JobBuilder.FinishEditingJob(ctx, job.JobID)
	require.NoError(t, err)
	assert.True(t, finished)

	require.NoError(t, f.JobBuilder.IssueEnumDirective(ctx, awaiting, "mode", 2))
	require.NoError(t, f.JobBuilder.IssueShortDirective(ctx, awaiting, "offset", -40))
	require.NoError(t, f.JobBuilder.IssueFloatDirective(ctx, awaiting, "height", 0.5))

	require.NoError(t, f.JobsState.AbortTask(ctx, awaiting))
	summary, err := f.JobState.GetJobSummary(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, scheduling.JobStatusAborted, summary.JobStatus)

	err = f.JobsState.AbortJob(ctx, job.JobID, "again")
	assert.Equal(t, scheduling.ServiceCodeAbortFailed, clients.CodeOf(err))

	require.NoError(t, f.JobsState.AbortAllJobsForAgent(ctx, 1))
	require.NoError(t, f.JobsState.AbortAllJobs(ctx))
}

func TestFleet_OccupyingMandate(t *testing.T) {
	h := simtest.Start(t, simulator.Config{})
	f := newTestFleet(t, h)
	waitStreaming(t, h, f)
	ctx := context.Background()

	require.NoError(t, f.Map.SetOccupyingMandate(ctx, []int32{1, 2}, time.Minute))

	tickUntil(t, h.Sim, func() bool {
		p, ok := f.Map.OccupyingMandateProgress()
		return ok && p.State == scheduling.OccupyingMandateStateEstablished
	})

	progress, err := f.Map.GetOccupyingMandateProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2}, progress.OccupiedMapItemIDs)

	require.NoError(t, f.Map.ClearOccupyingMandate(ctx))
	require.Eventually(t, func() bool {
		p, ok := f.Map.OccupyingMandateProgress()
		return ok && p.State == scheduling.OccupyingMandateStateInactive
	}, waitFor, pollEvery)

	err = f.Map.SetOccupyingMandate(ctx, []int32{999}, time.Second)
	assert.Equal(t, scheduling.ServiceCodeInvalidMapItem, clients.CodeOf(err))
}

func TestFleet_SchedulerStateAndSpots(t *testing.T) {
	h := simtest.Start(t, simulator.Config{Agents: 1})
	f := newTestFleet(t, h)
	waitStreaming(t, h, f)
	ctx := context.Background()

	var spotChanges atomic.Int32
	f.Scheduling.OnSpotManagerChanged(func(*scheduling.SchedulerStateDto) {
		spotChanges.Add(1)
	})

	job, err := f.JobBuilder.CreateJob(ctx, scheduling.JobPriorityNormal)
	require.NoError(t, err)
	_, err = f.JobBuilder.CreateGoToNodeTask(ctx, job.RootOrderedListTaskID, 8)
	require.NoError(t, err)
	require.NoError(t, f.JobBuilder.CommitJob(ctx, job.JobID, clients.AnyAgent))

	tickUntil(t, h.Sim, func() bool { return spotChanges.Load() >= 2 })

	require.Eventually(t, func() bool {
		state, ok := f.Scheduling.SchedulerState()
		return ok && state.Cycle == h.Sim.Cycle()
	}, waitFor, pollEvery)
}

func TestFleet_ReconnectsAfterStreamLoss(t *testing.T) {
	h := simtest.Start(t, simulator.Config{})
	f := newTestFleet(t, h)
	waitStreaming(t, h, f)

	var cycles atomic.Int32
	f.Scheduling.OnSchedulerStateUpdated(func(*scheduling.SchedulerStateDto) {
		cycles.Add(1)
	})

	h.Sim.DropStreams()

	require.Eventually(t, func() bool {
		return f.Scheduling.Stats().Failures >= 1 &&
			f.Scheduling.SubscriptionState() == subscription.StateStreaming
	}, waitFor, pollEvery)
	waitStreaming(t, h, f)

	before := cycles.Load()
	h.Sim.Tick()
	require.Eventually(t, func() bool { return cycles.Load() > before }, waitFor, pollEvery)
}

func TestFleet_NoDeliveryAfterClose(t *testing.T) {
	h := simtest.Start(t, simulator.Config{})
	f := clients.NewFleetWithConn(h.Conn, testSettings(), logging.Discard())
	waitStreaming(t, h, f)

	var after atomic.Int32
	var closed atomic.Bool
	f.Scheduling.OnSchedulerStateUpdated(func(*scheduling.SchedulerStateDto) {
		if closed.Load() {
			after.Add(1)
		}
	})

	require.NoError(t, f.Close())
	closed.Store(true)

	for name, s := range f.Streamers() {
		assert.Equal(t, subscription.StateCancelled, s.SubscriptionState(), name)
	}

	for i := 0; i < 5; i++ {
		h.Sim.Tick()
	}
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, after.Load())

	require.NoError(t, f.Close())
}

func TestFleet_Health(t *testing.T) {
	h := simtest.Start(t, simulator.Config{})
	f := newTestFleet(t, h)
	waitStreaming(t, h, f)

	report := f.Health().Check(context.Background())
	assert.Equal(t, health.StatusHealthy, report.Status)
	assert.Len(t, report.Checks, len(f.Streamers())+1)
}

func TestNewFleet_FromConfig(t *testing.T) {
	h := simtest.Start(t, simulator.Config{Agents: 3})

	cfg := config.Default()
	cfg.Scheduler.Host = simtest.Target
	cfg.Scheduler.RetryDelay = config.Duration{Duration: 20 * time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()

	f, err := clients.NewFleet(ctx, cfg, h.DialOption())
	require.NoError(t, err)
	defer f.Close()

	agents, err := f.Agents.GetAllAgents(ctx)
	require.NoError(t, err)
	assert.Len(t, agents, 3)

	require.Eventually(t, func() bool {
		return len(f.Agents.Agents()) == 3
	}, waitFor, pollEvery)
}

func TestNewFleet_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Scheduler.Port = 0

	_, err := clients.NewFleet(context.Background(), cfg)
	assert.Error(t, err)
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := config.Default()
	off := false
	cfg.Scheduler.Subscribe = &off
	cfg.Scheduler.Timeout = config.Duration{Duration: 3 * time.Second}

	s := clients.SettingsFromConfig(cfg.Scheduler)
	assert.False(t, s.Subscribe)
	assert.Equal(t, time.Second, s.RetryDelay)
	assert.Equal(t, 3*time.Second, s.CallTimeout)
}

func TestFleet_Observe(t *testing.T) {
	h := simtest.Start(t, simulator.Config{Agents: 1})
	f := newTestFleet(t, h)
	waitStreaming(t, h, f)

	var mu sync.Mutex
	var cycles []uint8
	var others int
	remove := f.Observe(func(u clients.Update) {
		mu.Lock()
		defer mu.Unlock()
		if state, ok := u.Payload.(*scheduling.SchedulerStateDto); ok && u.Kind == clients.KindSchedulerState {
			cycles = append(cycles, state.Cycle)
			return
		}
		others++
	}, clients.KindSchedulerState)

	seen := func(cycle uint8) bool {
		mu.Lock()
		defer mu.Unlock()
		for _, c := range cycles {
			if c == cycle {
				return true
			}
		}
		return false
	}

	h.Sim.Tick()
	require.Eventually(t, func() bool { return seen(1) }, waitFor, pollEvery)

	remove()
	h.Sim.Tick()
	require.Eventually(t, func() bool {
		state, ok := f.Scheduling.SchedulerState()
		return ok && state.Cycle == 2
	}, waitFor, pollEvery)

	assert.False(t, seen(2))
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, others)
}

func TestUpdate_String(t *testing.T) {
	at := time.Date(2026, 3, 9, 14, 5, 6, 0, time.UTC)
	u := clients.Update{
		Kind:     clients.KindSchedulerState,
		Received: at,
		Payload:  &scheduling.SchedulerStateDto{Cycle: 9, ActiveJobCount: 2, AgentCount: 4},
	}
	assert.Equal(t, "14:05:06.000 scheduler-state cycle=9 active=2 agents=4", u.String())
}
