package simulator

import (
	"net/netip"
	"slices"
	"time"

	"github.com/msto63/schedclients/api/scheduling"
)

// ---------------------------------------------------------------------------
// Job builder
// ---------------------------------------------------------------------------

// CreateJob starts a new job in assembly with an empty ordered list as root
func (s *Simulator) CreateJob(req *scheduling.CreateJobRequest) *scheduling.CreateJobResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.accepting {
		return &scheduling.CreateJobResult{Envelope: scheduling.Fail(scheduling.ServiceCodeNotAcceptingNewJobs, "scheduler is not accepting new jobs")}
	}

	j := &job{
		id:       s.nextJob,
		priority: req.JobPriority,
		status:   scheduling.JobStatusAssembly,
		agentID:  anyAgent,
	}
	s.nextJob++

	root := s.newTask(j, 0, scheduling.TaskTypeOrderedList)
	j.root = root.id
	s.jobs[j.id] = j

	s.logger.Info("Job created", "job_id", j.id, "priority", j.priority.String())
	return &scheduling.CreateJobResult{
		Envelope: scheduling.OK(),
		Job:      &scheduling.JobDto{JobID: j.id, RootOrderedListTaskID: root.id, JobPriority: j.priority},
	}
}

func (s *Simulator) newTask(j *job, parent int32, typ scheduling.TaskType) *task {
	status := scheduling.TaskStatusAssembly
	if j.status == scheduling.JobStatusEditing {
		status = scheduling.TaskStatusUnstarted
	}
	t := &task{
		id:     s.nextTask,
		parent: parent,
		job:    j.id,
		typ:    typ,
		status: status,
	}
	s.nextTask++
	s.tasks[t.id] = t
	if p, ok := s.tasks[parent]; ok {
		p.children = append(p.children, t.id)
	}
	return t
}

// editableParent returns the parent task when a child of type typ may be added to it
func (s *Simulator) editableParent(parentID int32, typ scheduling.TaskType) (*job, *task, bool) {
	p, ok := s.tasks[parentID]
	if !ok || !p.typ.IsList() || p.done() {
		return nil, nil, false
	}
	if (typ == scheduling.TaskTypeAtomicMove) != (p.typ == scheduling.TaskTypeAtomicMoveList) {
		return nil, nil, false
	}
	j := s.jobs[p.job]
	if j.status != scheduling.JobStatusAssembly && j.status != scheduling.JobStatusEditing {
		return nil, nil, false
	}
	return j, p, true
}

type taskSpec struct {
	typ         scheduling.TaskType
	parent      int32
	node        int32
	move        int32
	serviceType scheduling.ServiceType
	expected    time.Duration
	failCode    scheduling.ServiceCode
}

func (s *Simulator) addTask(spec taskSpec) *scheduling.IntResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, p, ok := s.editableParent(spec.parent, spec.typ)
	if !ok {
		return &scheduling.IntResult{Envelope: scheduling.Fail(spec.failCode, "parent task cannot take a "+spec.typ.String()+" task")}
	}
	if spec.node != 0 && !s.hasNode(spec.node) {
		return &scheduling.IntResult{Envelope: scheduling.Fail(scheduling.ServiceCodeInvalidMapItem, "unknown node")}
	}
	if spec.typ == scheduling.TaskTypeAtomicMove {
		if _, ok := s.findMove(spec.move); !ok {
			return &scheduling.IntResult{Envelope: scheduling.Fail(scheduling.ServiceCodeInvalidMoveID, "unknown move")}
		}
	}

	t := s.newTask(j, p.id, spec.typ)
	t.node = spec.node
	t.move = spec.move
	t.serviceType = spec.serviceType
	t.expected = spec.expected

	s.logger.Debug("Task created", "job_id", j.id, "task_id", t.id, "type", t.typ.String(), "parent", p.id)
	return &scheduling.IntResult{Envelope: scheduling.OK(), Value: t.id}
}

// CreateOrderedListTask adds an ordered list below parent
func (s *Simulator) CreateOrderedListTask(req *scheduling.CreateListTaskRequest) *scheduling.IntResult {
	return s.addTask(taskSpec{typ: scheduling.TaskTypeOrderedList, parent: req.ParentTaskID, failCode: scheduling.ServiceCodeCreateOrderedListTaskFailed})
}

// CreateUnorderedListTask adds an unordered list below parent
func (s *Simulator) CreateUnorderedListTask(req *scheduling.CreateListTaskRequest) *scheduling.IntResult {
	return s.addTask(taskSpec{typ: scheduling.TaskTypeUnorderedList, parent: req.ParentTaskID, failCode: scheduling.ServiceCodeCreateUnorderedListTaskFailed})
}

// CreateAtomicMoveListTask adds a list that only holds atomic moves
func (s *Simulator) CreateAtomicMoveListTask(req *scheduling.CreateListTaskRequest) *scheduling.IntResult {
	return s.addTask(taskSpec{typ: scheduling.TaskTypeAtomicMoveList, parent: req.ParentTaskID, failCode: scheduling.ServiceCodeCreatePipelinedTaskFailed})
}

func (s *Simulator) CreateServicingTask(req *scheduling.CreateServicingTaskRequest) *scheduling.IntResult {
	return s.addTask(taskSpec{
		typ:         scheduling.TaskTypeServicing,
		parent:      req.ParentTaskID,
		node:        req.NodeID,
		serviceType: req.ServiceType,
		expected:    time.Duration(req.ExpectedDurationMs) * time.Millisecond,
		failCode:    scheduling.ServiceCodeCreateServicingTaskFailed,
	})
}

func (s *Simulator) CreateSleepingTask(req *scheduling.CreateSleepingTaskRequest) *scheduling.IntResult {
	return s.addTask(taskSpec{
		typ:      scheduling.TaskTypeSleeping,
		parent:   req.ParentTaskID,
		node:     req.NodeID,
		expected: time.Duration(req.ExpectedDurationMs) * time.Millisecond,
		failCode: scheduling.ServiceCodeCreateSleepingTaskFailed,
	})
}

func (s *Simulator) CreateAtomicMoveTask(req *scheduling.CreateAtomicMoveTaskRequest) *scheduling.IntResult {
	return s.addTask(taskSpec{typ: scheduling.TaskTypeAtomicMove, parent: req.ParentAtomicMoveListTaskID, move: req.MoveID, failCode: scheduling.ServiceCodeCreateMovingTaskFailed})
}

func (s *Simulator) CreateGoToNodeTask(req *scheduling.CreateNodeTaskRequest) *scheduling.IntResult {
	return s.addTask(taskSpec{typ: scheduling.TaskTypeGoToNode, parent: req.ParentTaskID, node: req.NodeID, failCode: scheduling.ServiceCodeCreateMovingTaskFailed})
}

func (s *Simulator) CreateAwaitingTask(req *scheduling.CreateNodeTaskRequest) *scheduling.IntResult {
	return s.addTask(taskSpec{typ: scheduling.TaskTypeAwaiting, parent: req.ParentTaskID, node: req.NodeID, failCode: scheduling.ServiceCodeInvalidNodeTaskID})
}

// CommitJob hands a job in assembly to the scheduler. agentID -1 lets the scheduler choose.
func (s *Simulator) CommitJob(req *scheduling.CommitJobRequest) *scheduling.GenericResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[req.JobID]
	if !ok {
		return &scheduling.GenericResult{Envelope: scheduling.Fail(scheduling.ServiceCodeInvalidJobID, "unknown job")}
	}
	if j.status != scheduling.JobStatusAssembly {
		return &scheduling.GenericResult{Envelope: scheduling.Fail(scheduling.ServiceCodeCommitJobFailed, "job is "+j.status.String())}
	}
	if req.AgentID != anyAgent {
		if _, ok := s.agents[req.AgentID]; !ok {
			return &scheduling.GenericResult{Envelope: scheduling.Fail(scheduling.ServiceCodeInvalidAgentID, "unknown agent")}
		}
	}
	if len(s.leaves(j.root)) == 0 {
		return &scheduling.GenericResult{Envelope: scheduling.Fail(scheduling.ServiceCodeCommitJobFailed, "job has no executable tasks")}
	}

	j.agentID = req.AgentID
	j.status = scheduling.JobStatusAssigning
	s.walk(j.root, func(t *task) {
		t.status = scheduling.TaskStatusUnstarted
	})

	s.logger.Info("Job committed", "job_id", j.id, "agent_id", req.AgentID)
	s.publishJob(j)
	s.jobsFeed.Publish(s.jobsStateLocked())
	return &scheduling.GenericResult{Envelope: scheduling.OK()}
}

// BeginEditingJob pauses a committed job so tasks can be appended. Value
// is false when the job is already being edited.
func (s *Simulator) BeginEditingJob(req *scheduling.EditingJobRequest) *scheduling.BoolResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[req.JobID]
	if !ok {
		return &scheduling.BoolResult{Envelope: scheduling.Fail(scheduling.ServiceCodeInvalidJobID, "unknown job")}
	}
	switch {
	case j.status == scheduling.JobStatusEditing:
		return &scheduling.BoolResult{Envelope: scheduling.OK(), Value: false}
	case j.status == scheduling.JobStatusAssembly || j.status.IsTerminal():
		return &scheduling.BoolResult{Envelope: scheduling.Fail(scheduling.ServiceCodeBeginEditingJobFailed, "job is "+j.status.String())}
	}

	j.resume = j.status
	j.status = scheduling.JobStatusEditing
	s.publishJob(j)
	return &scheduling.BoolResult{Envelope: scheduling.OK(), Value: true}
}

// FinishEditingJob resumes a job paused by BeginEditingJob
func (s *Simulator) FinishEditingJob(req *scheduling.EditingJobRequest) *scheduling.BoolResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[req.JobID]
	if !ok {
		return &scheduling.BoolResult{Envelope: scheduling.Fail(scheduling.ServiceCodeInvalidJobID, "unknown job")}
	}
	if j.status != scheduling.JobStatusEditing {
		return &scheduling.BoolResult{Envelope: scheduling.Fail(scheduling.ServiceCodeFinishEditingJobFailed, "job is not being edited")}
	}

	j.status = j.resume
	s.publishJob(j)
	return &scheduling.BoolResult{Envelope: scheduling.OK(), Value: true}
}

// directiveTarget returns the task a directive may be issued to
func (s *Simulator) directiveTarget(taskID int32) (*task, scheduling.Envelope) {
	t, ok := s.tasks[taskID]
	if !ok {
		return nil, scheduling.Fail(scheduling.ServiceCodeInvalidTaskID, "unknown task")
	}
	if t.done() || t.typ.IsList() {
		return nil, scheduling.Fail(scheduling.ServiceCodeDirectiveNotAllowed, "task does not take directives")
	}
	return t, scheduling.OK()
}

func (s *Simulator) issueDirective(taskID int32, alias string, value any) *scheduling.GenericResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, env := s.directiveTarget(taskID)
	if t == nil {
		return &scheduling.GenericResult{Envelope: env}
	}
	if t.directives == nil {
		t.directives = make(map[string]any)
	}
	t.directives[alias] = value

	s.logger.Debug("Directive issued", "task_id", taskID, "alias", alias, "value", value)
	return &scheduling.GenericResult{Envelope: scheduling.OK()}
}

func (s *Simulator) IssueIntDirective(req *scheduling.IssueIntDirectiveRequest) *scheduling.GenericResult {
	var ok bool
	switch req.Kind {
	case scheduling.DirectiveKindEnum:
		ok = req.Value >= 0 && req.Value <= 0xff
	case scheduling.DirectiveKindShort:
		ok = req.Value >= -0x8000 && req.Value <= 0x7fff
	case scheduling.DirectiveKindUShort:
		ok = req.Value >= 0 && req.Value <= 0xffff
	}
	if !ok {
		return &scheduling.GenericResult{Envelope: scheduling.Fail(scheduling.ServiceCodeDirectiveNotAllowed, "value out of range for "+req.Kind.String())}
	}
	return s.issueDirective(req.TaskID, req.Alias, req.Value)
}

func (s *Simulator) IssueFloatDirective(req *scheduling.IssueFloatDirectiveRequest) *scheduling.GenericResult {
	return s.issueDirective(req.TaskID, req.Alias, req.Value)
}

func (s *Simulator) IssueIPAddressDirective(req *scheduling.IssueIPAddressDirectiveRequest) *scheduling.GenericResult {
	addr, err := netip.ParseAddr(req.Value)
	if err != nil {
		return &scheduling.GenericResult{Envelope: scheduling.Fail(scheduling.ServiceCodeDirectiveNotAllowed, err.Error())}
	}
	return s.issueDirective(req.TaskID, req.Alias, addr.String())
}

// ---------------------------------------------------------------------------
// Jobs state
// ---------------------------------------------------------------------------

// AbortAllJobs aborts every job that has not finished
func (s *Simulator) AbortAllJobs() *scheduling.GenericResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	aborted := 0
	for _, j := range s.sortedJobs() {
		if !j.status.IsTerminal() {
			s.abortJob(j)
			aborted++
		}
	}
	if aborted > 0 {
		s.jobsFeed.Publish(s.jobsStateLocked())
	}
	s.logger.Info("All jobs aborted", "count", aborted)
	return &scheduling.GenericResult{Envelope: scheduling.OK()}
}

func (s *Simulator) AbortAllJobsForAgent(req *scheduling.AgentRequest) *scheduling.GenericResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.agents[req.AgentID]; !ok {
		return &scheduling.GenericResult{Envelope: scheduling.Fail(scheduling.ServiceCodeInvalidAgentID, "unknown agent")}
	}
	aborted := 0
	for _, j := range s.sortedJobs() {
		if j.agentID == req.AgentID && !j.status.IsTerminal() {
			s.abortJob(j)
			aborted++
		}
	}
	if aborted > 0 {
		s.jobsFeed.Publish(s.jobsStateLocked())
	}
	return &scheduling.GenericResult{Envelope: scheduling.OK()}
}

func (s *Simulator) AbortJob(req *scheduling.AbortJobRequest) *scheduling.GenericResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[req.JobID]
	if !ok {
		return &scheduling.GenericResult{Envelope: scheduling.Fail(scheduling.ServiceCodeInvalidJobID, "unknown job")}
	}
	if j.status.IsTerminal() {
		return &scheduling.GenericResult{Envelope: scheduling.Fail(scheduling.ServiceCodeAbortFailed, "job is "+j.status.String())}
	}

	s.abortJob(j)
	s.jobsFeed.Publish(s.jobsStateLocked())
	s.logger.Info("Job aborted", "job_id", j.id, "note", req.Note)
	return &scheduling.GenericResult{Envelope: scheduling.OK()}
}

// AbortTask aborts a task together with its job
func (s *Simulator) AbortTask(req *scheduling.AbortTaskRequest) *scheduling.GenericResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[req.TaskID]
	if !ok {
		return &scheduling.GenericResult{Envelope: scheduling.Fail(scheduling.ServiceCodeInvalidTaskID, "unknown task")}
	}
	j := s.jobs[t.job]
	if j.status.IsTerminal() {
		return &scheduling.GenericResult{Envelope: scheduling.Fail(scheduling.ServiceCodeAbortFailed, "job is "+j.status.String())}
	}

	s.abortJob(j)
	s.jobsFeed.Publish(s.jobsStateLocked())
	return &scheduling.GenericResult{Envelope: scheduling.OK()}
}

func (s *Simulator) GetActiveJobIDsForAgent(req *scheduling.AgentRequest) *scheduling.GetActiveJobIDsForAgentResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.agents[req.AgentID]; !ok {
		return &scheduling.GetActiveJobIDsForAgentResult{Envelope: scheduling.Fail(scheduling.ServiceCodeInvalidAgentID, "unknown agent")}
	}
	ids := []int32{}
	for _, j := range s.sortedJobs() {
		if j.agentID == req.AgentID && !j.status.IsTerminal() && j.status != scheduling.JobStatusAssigning {
			ids = append(ids, j.id)
		}
	}
	return &scheduling.GetActiveJobIDsForAgentResult{Envelope: scheduling.OK(), ActiveJobs: ids}
}

// JobsState returns the aggregate state of all jobs
func (s *Simulator) JobsState() scheduling.JobStateDto {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobsStateLocked()
}

func (s *Simulator) jobsStateLocked() scheduling.JobStateDto {
	state := scheduling.JobStateDto{JobSummaries: []scheduling.JobSummaryDto{}}
	for _, j := range s.sortedJobs() {
		state.JobSummaries = append(state.JobSummaries, s.summary(j))
	}
	return state
}

// ---------------------------------------------------------------------------
// Job state
// ---------------------------------------------------------------------------

func (s *Simulator) GetJobSummary(req *scheduling.GetJobSummaryRequest) *scheduling.JobSummaryResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[req.JobID]
	if !ok {
		return &scheduling.JobSummaryResult{Envelope: scheduling.Fail(scheduling.ServiceCodeInvalidJobID, "unknown job")}
	}
	summary := s.summary(j)
	return &scheduling.JobSummaryResult{Envelope: scheduling.OK(), JobSummary: &summary}
}

func (s *Simulator) GetParentJobSummaryFromTaskID(req *scheduling.TaskRequest) *scheduling.JobSummaryResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[req.TaskID]
	if !ok {
		return &scheduling.JobSummaryResult{Envelope: scheduling.Fail(scheduling.ServiceCodeInvalidTaskID, "unknown task")}
	}
	summary := s.summary(s.jobs[t.job])
	return &scheduling.JobSummaryResult{Envelope: scheduling.OK(), JobSummary: &summary}
}

func (s *Simulator) GetCurrentJobSummaryForAgentID(req *scheduling.AgentRequest) *scheduling.JobSummaryResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.agents[req.AgentID]; !ok {
		return &scheduling.JobSummaryResult{Envelope: scheduling.Fail(scheduling.ServiceCodeInvalidAgentID, "unknown agent")}
	}
	j := s.currentJob(req.AgentID)
	if j == nil {
		return &scheduling.JobSummaryResult{Envelope: scheduling.Fail(scheduling.ServiceCodeInvalidJobID, "agent has no current job")}
	}
	summary := s.summary(j)
	return &scheduling.JobSummaryResult{Envelope: scheduling.OK(), JobSummary: &summary}
}

func (s *Simulator) summary(j *job) scheduling.JobSummaryDto {
	summary := scheduling.JobSummaryDto{
		JobID:           j.id,
		JobStatus:       j.status,
		JobPriority:     j.priority,
		AssignedAgentID: j.agentID,
		RootTaskID:      j.root,
		Tasks:           []scheduling.TaskSummaryDto{},
	}
	s.walk(j.root, func(t *task) {
		summary.Tasks = append(summary.Tasks, scheduling.TaskSummaryDto{
			TaskID:       t.id,
			ParentTaskID: t.parent,
			TaskType:     t.typ,
			TaskStatus:   t.status,
			NodeID:       t.node,
			MoveID:       t.move,
		})
	})
	return summary
}

// ---------------------------------------------------------------------------
// Progression
// ---------------------------------------------------------------------------

// walk visits the task tree below id depth first, parents before children
func (s *Simulator) walk(id int32, fn func(*task)) {
	t, ok := s.tasks[id]
	if !ok {
		return
	}
	fn(t)
	for _, child := range t.children {
		s.walk(child, fn)
	}
}

// leaves returns the executable tasks below id in execution order
func (s *Simulator) leaves(id int32) []*task {
	var out []*task
	s.walk(id, func(t *task) {
		if !t.typ.IsList() {
			out = append(out, t)
		}
	})
	return out
}

// currentJob returns the running job of an agent, if any
func (s *Simulator) currentJob(agentID int32) *job {
	for _, j := range s.sortedJobs() {
		if j.agentID != agentID {
			continue
		}
		switch j.status {
		case scheduling.JobStatusWaiting, scheduling.JobStatusInProgress, scheduling.JobStatusEditing:
			return j
		}
	}
	return nil
}

func (s *Simulator) agentFree(a *scheduling.AgentDto) bool {
	return a.LifetimeState == scheduling.AgentLifetimeStateInService && s.currentJob(a.AgentID) == nil
}

// assignJobs gives waiting jobs to free agents, high priority first
func (s *Simulator) assignJobs() bool {
	pending := slices.DeleteFunc(s.sortedJobs(), func(j *job) bool {
		return j.status != scheduling.JobStatusAssigning
	})
	slices.SortStableFunc(pending, func(a, b *job) int {
		return int(b.priority) - int(a.priority)
	})

	changed := false
	for _, j := range pending {
		if j.agentID != anyAgent {
			if a := s.agents[j.agentID]; a != nil && s.agentFree(a) {
				s.startJob(j, a.AgentID)
				changed = true
			}
			continue
		}
		for _, a := range s.sortedAgents() {
			if s.agentFree(a) {
				s.startJob(j, a.AgentID)
				changed = true
				break
			}
		}
	}
	return changed
}

func (s *Simulator) startJob(j *job, agentID int32) {
	j.agentID = agentID
	j.status = scheduling.JobStatusWaiting
	s.logger.Debug("Job assigned", "job_id", j.id, "agent_id", agentID)
	s.publishJob(j)
}

// advanceJob moves a job forward by one step and reports whether it changed
func (s *Simulator) advanceJob(j *job) bool {
	switch j.status {
	case scheduling.JobStatusWaiting:
		j.status = scheduling.JobStatusInProgress
		s.publishJob(j)
		return true
	case scheduling.JobStatusInProgress:
		for _, t := range s.leaves(j.root) {
			if !t.done() {
				return s.advanceTask(j, t)
			}
		}
		s.completeJob(j)
		return true
	}
	return false
}

func (s *Simulator) advanceTask(j *job, t *task) bool {
	switch t.status {
	case scheduling.TaskStatusUnstarted:
		t.status = scheduling.TaskStatusInProgress
		if t.typ == scheduling.TaskTypeAwaiting {
			t.status = scheduling.TaskStatusPendingFurtherInstruction
		}
		t.startedAt = s.now()
		s.startAncestors(t)
		s.publishTask(j, t)
		if t.typ == scheduling.TaskTypeServicing {
			svc := &scheduling.ServiceStateDto{
				TaskID:        t.id,
				AgentID:       j.agentID,
				NodeID:        t.node,
				ServiceType:   t.serviceType,
				ServiceStatus: scheduling.ServiceStatusRequested,
			}
			s.services[t.id] = svc
			s.serviceFeed.Publish(*svc)
		}
		return true

	case scheduling.TaskStatusInProgress, scheduling.TaskStatusPendingFurtherInstruction:
		switch t.typ {
		case scheduling.TaskTypeServicing:
			if svc, ok := s.services[t.id]; ok && svc.ServiceStatus != scheduling.ServiceStatusComplete {
				return false
			}
			delete(s.services, t.id)
		case scheduling.TaskTypeSleeping:
			if s.now().Sub(t.startedAt) < t.expected {
				return false
			}
		case scheduling.TaskTypeAwaiting:
			if len(t.directives) == 0 {
				return false
			}
		}
		t.status = scheduling.TaskStatusCompleted
		s.publishTask(j, t)
		s.moveAgent(j.agentID, t)
		return true
	}
	return false
}

func (s *Simulator) startAncestors(t *task) {
	for p, ok := s.tasks[t.parent]; ok; p, ok = s.tasks[p.parent] {
		if p.status == scheduling.TaskStatusUnstarted {
			p.status = scheduling.TaskStatusInProgress
		}
	}
}

// moveAgent places the agent at the target of a finished task
func (s *Simulator) moveAgent(agentID int32, t *task) {
	a, ok := s.agents[agentID]
	if !ok {
		return
	}
	if node := s.taskTarget(t); node != 0 {
		a.CurrentNodeID = node
	}
	if t.typ == scheduling.TaskTypeServicing && t.serviceType == scheduling.ServiceTypeCharge {
		a.BatteryChargePercentage = 100
	} else {
		a.BatteryChargePercentage = max(a.BatteryChargePercentage-2, 5)
	}
	s.agentFeed.Publish(*a)
}

func (s *Simulator) completeJob(j *job) {
	s.walk(j.root, func(t *task) {
		if !t.done() {
			t.status = scheduling.TaskStatusCompleted
		}
	})
	j.status = scheduling.JobStatusCompleted
	s.logger.Info("Job completed", "job_id", j.id, "agent_id", j.agentID)
	s.publishJob(j)
}

func (s *Simulator) abortJob(j *job) {
	s.walk(j.root, func(t *task) {
		if t.done() {
			return
		}
		started := t.status != scheduling.TaskStatusAssembly && t.status != scheduling.TaskStatusUnstarted
		t.status = scheduling.TaskStatusAborted
		if started && !t.typ.IsList() {
			s.publishTask(j, t)
		}
		delete(s.services, t.id)
	})
	j.status = scheduling.JobStatusAborted
	s.publishJob(j)
}

func (s *Simulator) publishJob(j *job) {
	s.jobFeed.Publish(scheduling.JobProgressDto{
		JobID:           j.id,
		JobStatus:       j.status,
		AssignedAgentID: j.agentID,
	})
}

func (s *Simulator) publishTask(j *job, t *task) {
	s.taskFeed.Publish(scheduling.TaskProgressDto{
		TaskID:          t.id,
		JobID:           j.id,
		AssignedAgentID: j.agentID,
		TaskStatus:      t.status,
	})
}
