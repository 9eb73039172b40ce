package clients

import (
	"fmt"
	"time"

	"github.com/msto63/schedclients/api/scheduling"
)

// Update kinds delivered by Fleet.Observe
const (
	KindAgent          = "agent"
	KindJobsState      = "jobs-state"
	KindJobProgress    = "job-progress"
	KindTaskProgress   = "task-progress"
	KindMandate        = "mandate"
	KindSchedulerState = "scheduler-state"
	KindServiceRequest = "service-request"
)

// Kinds lists every update kind in a stable order
func Kinds() []string {
	return []string{
		KindAgent,
		KindJobsState,
		KindJobProgress,
		KindTaskProgress,
		KindMandate,
		KindSchedulerState,
		KindServiceRequest,
	}
}

// Update is one pushed message of any stream of the fleet
type Update struct {
	Kind     string
	Received time.Time
	// Payload is the DTO pointer handed to the stream observers
	Payload any
}

// String describes the update on one line
func (u Update) String() string {
	at := u.Received.Format("15:04:05.000")
	switch p := u.Payload.(type) {
	case *scheduling.AgentDto:
		return fmt.Sprintf("%s %s %s node=%d battery=%.0f%% state=%s",
			at, u.Kind, p.Alias, p.CurrentNodeID, p.BatteryChargePercentage, p.LifetimeState)
	case *scheduling.JobStateDto:
		return fmt.Sprintf("%s %s jobs=%d", at, u.Kind, len(p.JobSummaries))
	case *scheduling.JobProgressDto:
		return fmt.Sprintf("%s %s job=%d status=%s agent=%d", at, u.Kind, p.JobID, p.JobStatus, p.AssignedAgentID)
	case *scheduling.TaskProgressDto:
		return fmt.Sprintf("%s %s task=%d job=%d status=%s", at, u.Kind, p.TaskID, p.JobID, p.TaskStatus)
	case *scheduling.OccupyingMandateProgressDto:
		return fmt.Sprintf("%s %s state=%s mandated=%v occupied=%v",
			at, u.Kind, p.State, p.MandatedMapItemIDs, p.OccupiedMapItemIDs)
	case *scheduling.SchedulerStateDto:
		return fmt.Sprintf("%s %s cycle=%d active=%d agents=%d", at, u.Kind, p.Cycle, p.ActiveJobCount, p.AgentCount)
	case *scheduling.ServiceStateDto:
		return fmt.Sprintf("%s %s task=%d agent=%d node=%d %s %s",
			at, u.Kind, p.TaskID, p.AgentID, p.NodeID, p.ServiceType, p.ServiceStatus)
	default:
		return fmt.Sprintf("%s %s %v", at, u.Kind, u.Payload)
	}
}

// Observe registers fn for the updates of every stream. Passing kinds limits
// delivery to those kinds. fn runs on the receiving goroutine of each stream,
// so it may be called concurrently.
func (f *Fleet) Observe(fn func(Update), kinds ...string) (remove func()) {
	want := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	emit := func(kind string, payload any) {
		if len(want) > 0 && !want[kind] {
			return
		}
		fn(Update{Kind: kind, Received: time.Now(), Payload: payload})
	}

	removers := []func(){
		f.Agents.OnAgentUpdated(func(a *scheduling.AgentDto) { emit(KindAgent, a) }),
		f.JobsState.OnJobsStateUpdated(func(s *scheduling.JobStateDto) { emit(KindJobsState, s) }),
		f.JobState.OnJobProgressUpdated(func(p *scheduling.JobProgressDto) { emit(KindJobProgress, p) }),
		f.TaskState.OnTaskProgressUpdated(func(p *scheduling.TaskProgressDto) { emit(KindTaskProgress, p) }),
		f.Map.OnOccupyingMandateProgressUpdated(func(p *scheduling.OccupyingMandateProgressDto) { emit(KindMandate, p) }),
		f.Scheduling.OnSchedulerStateUpdated(func(s *scheduling.SchedulerStateDto) { emit(KindSchedulerState, s) }),
		f.Servicing.OnServiceRequest(func(s *scheduling.ServiceStateDto) { emit(KindServiceRequest, s) }),
	}
	return func() {
		for _, r := range removers {
			r()
		}
	}
}
