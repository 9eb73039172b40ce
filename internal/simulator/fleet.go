package simulator

import (
	"math"
	"sort"
	"time"

	"github.com/msto63/schedclients/api/scheduling"
	"github.com/msto63/schedclients/pkg/core/version"
)

// trajectorySteps is the number of waypoints returned per move
const trajectorySteps = 5

// ---------------------------------------------------------------------------
// Agents
// ---------------------------------------------------------------------------

func (s *Simulator) GetAllAgentData() *scheduling.GetAllAgentDataResult {
	return s.agentsWhere(func(*scheduling.AgentDto) bool { return true })
}

func (s *Simulator) GetAllAgentsInLifetimeState(req *scheduling.GetAllAgentsInLifetimeStateRequest) *scheduling.GetAllAgentDataResult {
	return s.agentsWhere(func(a *scheduling.AgentDto) bool {
		return a.LifetimeState == req.AgentLifetimeState
	})
}

func (s *Simulator) agentsWhere(keep func(*scheduling.AgentDto) bool) *scheduling.GetAllAgentDataResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	agents := []scheduling.AgentDto{}
	for _, a := range s.sortedAgents() {
		if keep(a) {
			agents = append(agents, *a)
		}
	}
	return &scheduling.GetAllAgentDataResult{Envelope: scheduling.OK(), Agents: agents}
}

// SetAgentLifetimeState puts an agent in or out of service
func (s *Simulator) SetAgentLifetimeState(req *scheduling.SetAgentLifetimeStateRequest) *scheduling.GenericResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.agents[req.AgentID]
	if !ok {
		return &scheduling.GenericResult{Envelope: scheduling.Fail(scheduling.ServiceCodeInvalidAgentID, "unknown agent")}
	}
	a.LifetimeState = req.AgentLifetimeState
	if a.LifetimeState == scheduling.AgentLifetimeStateInService {
		a.Attention = scheduling.AttentionTypeNone
	}

	s.logger.Info("Agent lifetime state changed", "agent_id", a.AgentID, "state", a.LifetimeState.String())
	s.agentFeed.Publish(*a)
	return &scheduling.GenericResult{Envelope: scheduling.OK()}
}

func (s *Simulator) agentSnapshot() []scheduling.AgentDto {
	return s.GetAllAgentData().Agents
}

// ---------------------------------------------------------------------------
// Map
// ---------------------------------------------------------------------------

func (s *Simulator) GetAllMoveData() *scheduling.GetAllMoveDataResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &scheduling.GetAllMoveDataResult{Envelope: scheduling.OK(), Moves: append([]scheduling.MoveDto(nil), s.moves...)}
}

func (s *Simulator) GetAllNodeData() *scheduling.GetAllNodeDataResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &scheduling.GetAllNodeDataResult{Envelope: scheduling.OK(), Nodes: append([]scheduling.NodeDto(nil), s.nodes...)}
}

func (s *Simulator) GetAllParameterData() *scheduling.GetAllParameterDataResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &scheduling.GetAllParameterDataResult{Envelope: scheduling.OK(), Parameters: append([]scheduling.ParameterDto(nil), s.params...)}
}

// GetTrajectory interpolates a straight path along a move
func (s *Simulator) GetTrajectory(req *scheduling.GetTrajectoryRequest) *scheduling.GetTrajectoryResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.findMove(req.MoveID)
	if !ok {
		return &scheduling.GetTrajectoryResult{Envelope: scheduling.Fail(scheduling.ServiceCodeInvalidMoveID, "unknown move")}
	}
	from, to := s.nodes[m.StartNodeID-1], s.nodes[m.EndNodeID-1]
	heading := math.Atan2(to.Y-from.Y, to.X-from.X)

	waypoints := make([]scheduling.WaypointDto, 0, trajectorySteps)
	for i := 0; i < trajectorySteps; i++ {
		f := float64(i) / float64(trajectorySteps-1)
		waypoints = append(waypoints, scheduling.WaypointDto{
			X:       from.X + (to.X-from.X)*f,
			Y:       from.Y + (to.Y-from.Y)*f,
			Heading: heading,
		})
	}
	return &scheduling.GetTrajectoryResult{Envelope: scheduling.OK(), Waypoints: waypoints}
}

func (s *Simulator) hasNode(id int32) bool {
	return id >= 1 && int(id) <= len(s.nodes)
}

func (s *Simulator) findMove(id int32) (scheduling.MoveDto, bool) {
	i := int(id) - moveIDOffset - 1
	if i < 0 || i >= len(s.moves) {
		return scheduling.MoveDto{}, false
	}
	return s.moves[i], true
}

func (s *Simulator) GetOccupyingMandateProgressData() *scheduling.GetOccupyingMandateProgressDataResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	progress := s.mandateLocked()
	return &scheduling.GetOccupyingMandateProgressDataResult{Envelope: scheduling.OK(), OccupyingMandateProgress: &progress}
}

// SetOccupyingMandate requests exclusive use of map items. The mandate is
// established on the next cycle and expires after the timeout.
func (s *Simulator) SetOccupyingMandate(req *scheduling.SetOccupyingMandateRequest) *scheduling.GenericResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(req.MapItemIDs) == 0 {
		return &scheduling.GenericResult{Envelope: scheduling.Fail(scheduling.ServiceCodeInvalidMapItem, "no map items given")}
	}
	for _, id := range req.MapItemIDs {
		if _, isMove := s.findMove(id); !s.hasNode(id) && !isMove {
			return &scheduling.GenericResult{Envelope: scheduling.Fail(scheduling.ServiceCodeInvalidMapItem, "unknown map item")}
		}
	}

	items := append([]int32(nil), req.MapItemIDs...)
	sort.Slice(items, func(a, b int) bool { return items[a] < items[b] })

	s.mandate = scheduling.OccupyingMandateProgressDto{
		State:              scheduling.OccupyingMandateStatePending,
		MandatedMapItemIDs: items,
		OccupiedMapItemIDs: []int32{},
	}
	s.mandateDeadline = s.now().Add(time.Duration(req.TimeoutMs) * time.Millisecond)

	s.logger.Info("Occupying mandate requested", "items", len(items), "timeout_ms", req.TimeoutMs)
	s.mandateFeed.Publish(s.mandateLocked())
	return &scheduling.GenericResult{Envelope: scheduling.OK()}
}

func (s *Simulator) ClearOccupyingMandate() *scheduling.GenericResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mandate = scheduling.OccupyingMandateProgressDto{State: scheduling.OccupyingMandateStateInactive}
	s.mandateDeadline = time.Time{}
	s.mandateFeed.Publish(s.mandateLocked())
	return &scheduling.GenericResult{Envelope: scheduling.OK()}
}

func (s *Simulator) advanceMandate() {
	switch s.mandate.State {
	case scheduling.OccupyingMandateStatePending:
		s.mandate.State = scheduling.OccupyingMandateStateEstablished
		s.mandate.OccupiedMapItemIDs = append([]int32(nil), s.mandate.MandatedMapItemIDs...)
	case scheduling.OccupyingMandateStateEstablished:
		if s.now().Before(s.mandateDeadline) {
			return
		}
		s.mandate.State = scheduling.OccupyingMandateStateExpired
		s.mandate.OccupiedMapItemIDs = []int32{}
	default:
		return
	}
	s.logger.Debug("Occupying mandate progressed", "state", s.mandate.State.String())
	s.mandateFeed.Publish(s.mandateLocked())
}

func (s *Simulator) mandateLocked() scheduling.OccupyingMandateProgressDto {
	return scheduling.OccupyingMandateProgressDto{
		State:              s.mandate.State,
		MandatedMapItemIDs: append([]int32{}, s.mandate.MandatedMapItemIDs...),
		OccupiedMapItemIDs: append([]int32{}, s.mandate.OccupiedMapItemIDs...),
	}
}

// ---------------------------------------------------------------------------
// Scheduling
// ---------------------------------------------------------------------------

// SchedulerState returns the state pushed on the scheduling stream
func (s *Simulator) SchedulerState() scheduling.SchedulerStateDto {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedulerStateLocked()
}

// ---------------------------------------------------------------------------
// Servicing
// ---------------------------------------------------------------------------

func (s *Simulator) GetOutstandingServiceRequests() *scheduling.GetOutstandingServiceRequestsResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	states := []scheduling.ServiceStateDto{}
	for _, svc := range s.services {
		if svc.ServiceStatus != scheduling.ServiceStatusComplete {
			states = append(states, *svc)
		}
	}
	sort.Slice(states, func(a, b int) bool { return states[a].TaskID < states[b].TaskID })
	return &scheduling.GetOutstandingServiceRequestsResult{Envelope: scheduling.OK(), ServiceStates: states}
}

// SetServiceComplete finishes the service of a task. The task completes on the next cycle.
func (s *Simulator) SetServiceComplete(req *scheduling.TaskRequest) *scheduling.GenericResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc, ok := s.services[req.TaskID]
	if !ok || svc.ServiceStatus == scheduling.ServiceStatusComplete {
		return &scheduling.GenericResult{Envelope: scheduling.Fail(scheduling.ServiceCodeInvalidTaskID, "no outstanding service for task")}
	}
	svc.ServiceStatus = scheduling.ServiceStatusComplete

	s.logger.Info("Service completed", "task_id", req.TaskID, "agent_id", svc.AgentID)
	s.serviceFeed.Publish(*svc)
	return &scheduling.GenericResult{Envelope: scheduling.OK()}
}

// ---------------------------------------------------------------------------
// Version
// ---------------------------------------------------------------------------

func (s *Simulator) GetSchedulerVersion() *scheduling.GetSchedulerVersionResult {
	v, err := scheduling.ParseSemVer(version.Schedsim)
	if err != nil {
		return &scheduling.GetSchedulerVersionResult{Envelope: scheduling.Fail(scheduling.ServiceCodeServiceNotConfigured, err.Error())}
	}
	return &scheduling.GetSchedulerVersionResult{Envelope: scheduling.OK(), Version: v}
}

func (s *Simulator) GetPluginVersions() *scheduling.GetPluginVersionsResult {
	return &scheduling.GetPluginVersionsResult{
		Envelope: scheduling.OK(),
		Plugins: []scheduling.PluginDto{
			{Name: "grid-planner", Version: scheduling.SemVerDto{Major: 1, Minor: 2}},
			{Name: "servicing", Version: scheduling.SemVerDto{Major: 1}},
		},
	}
}
