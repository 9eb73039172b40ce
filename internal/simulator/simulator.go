// ============================================================================
// schedclients - Fleet Scheduler Client Library
// ============================================================================
//
// Package:     simulator
// Description: In-memory fleet scheduler serving every scheduler service
// Created:     2026-03-04
// License:     MIT
// ============================================================================

// Package simulator implements a small fleet scheduler in memory. It keeps
// agents, a grid map, jobs with their task trees, occupying mandates and
// service requests, and pushes every change to the open update streams.
// The simulation only moves forward when Tick is called.
package simulator

import (
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/msto63/schedclients/api/scheduling"
	"github.com/msto63/schedclients/pkg/core/logging"
)

// anyAgent marks a job that may run on any agent
const anyAgent int32 = -1

// moveIDOffset separates move IDs from node IDs so both can be map items
const moveIDOffset = 1000

// Config holds the simulator configuration
type Config struct {
	// Agents is the number of simulated agents
	Agents int
	// GridSize is the number of nodes per side of the square map
	GridSize int
	// Now returns the current time, used for sleeping tasks and mandates
	Now func() time.Time
	Logger *logging.Logger
}

// DefaultConfig returns the default simulator configuration
func DefaultConfig() Config {
	return Config{
		Agents:   4,
		GridSize: 4,
		Now:      time.Now,
	}
}

type job struct {
	id       int32
	priority scheduling.JobPriority
	status   scheduling.JobStatus
	// resume is the status restored when editing finishes
	resume  scheduling.JobStatus
	agentID int32
	root    int32
}

type task struct {
	id          int32
	parent      int32
	job         int32
	typ         scheduling.TaskType
	status      scheduling.TaskStatus
	node        int32
	move        int32
	serviceType scheduling.ServiceType
	expected    time.Duration
	children    []int32
	startedAt   time.Time
	directives  map[string]any
}

func (t *task) done() bool {
	switch t.status {
	case scheduling.TaskStatusCompleted, scheduling.TaskStatusAborted,
		scheduling.TaskStatusFailed, scheduling.TaskStatusCompletedUnderFault:
		return true
	}
	return false
}

// Simulator is an in-memory fleet scheduler
type Simulator struct {
	logger *logging.Logger
	now    func() time.Time

	mu        sync.Mutex
	cycle     uint8
	accepting bool
	agents    map[int32]*scheduling.AgentDto
	nodes     []scheduling.NodeDto
	moves     []scheduling.MoveDto
	params    []scheduling.ParameterDto
	jobs      map[int32]*job
	tasks     map[int32]*task
	services  map[int32]*scheduling.ServiceStateDto
	spots     []int32
	nextJob   int32
	nextTask  int32

	mandate         scheduling.OccupyingMandateProgressDto
	mandateDeadline time.Time

	agentFeed     *Broadcaster[scheduling.AgentDto]
	jobsFeed      *Broadcaster[scheduling.JobStateDto]
	jobFeed       *Broadcaster[scheduling.JobProgressDto]
	taskFeed      *Broadcaster[scheduling.TaskProgressDto]
	mandateFeed   *Broadcaster[scheduling.OccupyingMandateProgressDto]
	schedulerFeed *Broadcaster[scheduling.SchedulerStateDto]
	serviceFeed   *Broadcaster[scheduling.ServiceStateDto]
}

// New creates a simulator with agents placed on a grid map
func New(cfg Config) *Simulator {
	defaults := DefaultConfig()
	if cfg.Agents <= 0 {
		cfg.Agents = defaults.Agents
	}
	if cfg.GridSize <= 1 {
		cfg.GridSize = defaults.GridSize
	}
	if cfg.Now == nil {
		cfg.Now = defaults.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New("simulator")
	}

	s := &Simulator{
		logger:    cfg.Logger,
		now:       cfg.Now,
		accepting: true,
		agents:    make(map[int32]*scheduling.AgentDto),
		jobs:      make(map[int32]*job),
		tasks:     make(map[int32]*task),
		services:  make(map[int32]*scheduling.ServiceStateDto),
		nextJob:   1,
		nextTask:  1,

		agentFeed:     NewBroadcaster[scheduling.AgentDto]("agents", cfg.Logger),
		jobsFeed:      NewBroadcaster[scheduling.JobStateDto]("jobs-state", cfg.Logger),
		jobFeed:       NewBroadcaster[scheduling.JobProgressDto]("job-state", cfg.Logger),
		taskFeed:      NewBroadcaster[scheduling.TaskProgressDto]("task-state", cfg.Logger),
		mandateFeed:   NewBroadcaster[scheduling.OccupyingMandateProgressDto]("map", cfg.Logger),
		schedulerFeed: NewBroadcaster[scheduling.SchedulerStateDto]("scheduling", cfg.Logger),
		serviceFeed:   NewBroadcaster[scheduling.ServiceStateDto]("servicing", cfg.Logger),
	}

	s.buildMap(cfg.GridSize)
	for i := 1; i <= cfg.Agents; i++ {
		id := int32(i)
		s.agents[id] = &scheduling.AgentDto{
			AgentID:                 id,
			Alias:                   fmt.Sprintf("AGV-%02d", id),
			IPAddress:               fmt.Sprintf("10.0.0.%d", 10+id),
			LifetimeState:           scheduling.AgentLifetimeStateInService,
			BatteryChargePercentage: 100,
			CurrentNodeID:           s.nodes[(i-1)%len(s.nodes)].NodeID,
			IsVirtual:               true,
		}
	}

	s.logger.Info("Simulator created", "agents", cfg.Agents, "nodes", len(s.nodes), "moves", len(s.moves))
	return s
}

func (s *Simulator) buildMap(size int) {
	nodeID := func(row, col int) int32 { return int32(row*size + col + 1) }

	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			id := nodeID(row, col)
			s.nodes = append(s.nodes, scheduling.NodeDto{
				NodeID: id,
				Alias:  fmt.Sprintf("N%02d", id),
				X:      float64(col) * 10,
				Y:      float64(row) * 10,
			})
		}
	}

	next := int32(moveIDOffset + 1)
	link := func(from, to int32) {
		s.moves = append(s.moves, scheduling.MoveDto{
			MoveID:      next,
			Alias:       fmt.Sprintf("N%02d-N%02d", from, to),
			StartNodeID: from,
			EndNodeID:   to,
		})
		next++
	}
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if col+1 < size {
				link(nodeID(row, col), nodeID(row, col+1))
				link(nodeID(row, col+1), nodeID(row, col))
			}
			if row+1 < size {
				link(nodeID(row, col), nodeID(row+1, col))
				link(nodeID(row+1, col), nodeID(row, col))
			}
		}
	}

	s.params = []scheduling.ParameterDto{
		{ParameterID: 1, Alias: "GridSpacing", Value: "10"},
		{ParameterID: 2, Alias: "MaxSpeed", Value: "1.5"},
		{ParameterID: 3, Alias: "ChargeThreshold", Value: "20"},
	}
}

// SetAcceptingNewJobs switches whether CreateJob is accepted
func (s *Simulator) SetAcceptingNewJobs(accepting bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accepting = accepting
	s.logger.Info("Job acceptance changed", "accepting", accepting)
}

// Cycle returns the current scheduler tick
func (s *Simulator) Cycle() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycle
}

// Subscribers returns the number of open update streams
func (s *Simulator) Subscribers() int {
	return s.agentFeed.Count() + s.jobsFeed.Count() + s.jobFeed.Count() + s.taskFeed.Count() +
		s.mandateFeed.Count() + s.schedulerFeed.Count() + s.serviceFeed.Count()
}

// DropStreams ends every open update stream, as a scheduler restart would
func (s *Simulator) DropStreams() {
	s.agentFeed.Reset()
	s.jobsFeed.Reset()
	s.jobFeed.Reset()
	s.taskFeed.Reset()
	s.mandateFeed.Reset()
	s.schedulerFeed.Reset()
	s.serviceFeed.Reset()
	s.logger.Warn("All update streams dropped")
}

// Tick advances the simulation by one scheduler cycle
func (s *Simulator) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cycle++

	changed := s.assignJobs()
	for _, j := range s.sortedJobs() {
		if s.advanceJob(j) {
			changed = true
		}
	}
	if changed {
		s.jobsFeed.Publish(s.jobsStateLocked())
	}

	s.advanceMandate()

	spots := s.reservedSpots()
	spotsChanged := !slices.Equal(spots, s.spots)
	s.spots = spots

	state := s.schedulerStateLocked()
	state.SpotManager.IsChanged = spotsChanged
	s.schedulerFeed.Publish(state)

	s.logger.Trace("Cycle completed", "cycle", s.cycle, "jobs_changed", changed)
}

func (s *Simulator) schedulerStateLocked() scheduling.SchedulerStateDto {
	active := int32(0)
	for _, j := range s.jobs {
		if j.status != scheduling.JobStatusAssembly && !j.status.IsTerminal() {
			active++
		}
	}
	return scheduling.SchedulerStateDto{
		Cycle:            s.cycle,
		ActiveJobCount:   active,
		AgentCount:       int32(len(s.agents)),
		AcceptingNewJobs: s.accepting,
		SpotManager: &scheduling.SpotManagerStateDto{
			ReservedSpotIDs: slices.Clone(s.spots),
		},
	}
}

// reservedSpots returns the nodes targeted by running tasks
func (s *Simulator) reservedSpots() []int32 {
	var spots []int32
	for _, t := range s.tasks {
		if t.status != scheduling.TaskStatusInProgress && t.status != scheduling.TaskStatusPendingFurtherInstruction {
			continue
		}
		if node := s.taskTarget(t); node != 0 {
			spots = append(spots, node)
		}
	}
	slices.Sort(spots)
	return slices.Compact(spots)
}

func (s *Simulator) taskTarget(t *task) int32 {
	if t.node != 0 {
		return t.node
	}
	if t.move != 0 {
		if m, ok := s.findMove(t.move); ok {
			return m.EndNodeID
		}
	}
	return 0
}

func (s *Simulator) sortedJobs() []*job {
	jobs := make([]*job, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j)
	}
	sort.Slice(jobs, func(a, b int) bool { return jobs[a].id < jobs[b].id })
	return jobs
}

func (s *Simulator) sortedAgents() []*scheduling.AgentDto {
	agents := make([]*scheduling.AgentDto, 0, len(s.agents))
	for _, a := range s.agents {
		agents = append(agents, a)
	}
	sort.Slice(agents, func(a, b int) bool { return agents[a].AgentID < agents[b].AgentID })
	return agents
}
