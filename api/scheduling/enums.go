package scheduling

import "fmt"

// ServiceCode classifies the outcome of a one-shot call
type ServiceCode int32

const (
	ServiceCodeNoError              ServiceCode = 0
	ServiceCodeServiceNotConfigured ServiceCode = 1
	ServiceCodeClientException      ServiceCode = 2

	ServiceCodeCommitJobFailed               ServiceCode = 1001
	ServiceCodeCreateJobFailed               ServiceCode = 1002
	ServiceCodeCreateUnorderedListTaskFailed ServiceCode = 1003
	ServiceCodeCreatePipelinedTaskFailed     ServiceCode = 1004
	ServiceCodeCreateOrderedListTaskFailed   ServiceCode = 1005
	ServiceCodeCreateServicingTaskFailed     ServiceCode = 1006
	ServiceCodeNotAcceptingNewJobs           ServiceCode = 1007
	ServiceCodeDirectiveNotAllowed           ServiceCode = 1008
	ServiceCodeInvalidNodeTaskID             ServiceCode = 1009
	ServiceCodeCreateSleepingTaskFailed      ServiceCode = 1010
	ServiceCodeCreateMovingTaskFailed        ServiceCode = 1011
	ServiceCodeFinaliseTaskFailed            ServiceCode = 1012
	ServiceCodeBeginEditingJobFailed         ServiceCode = 1013
	ServiceCodeFinishEditingJobFailed        ServiceCode = 1014
	ServiceCodeInvalidJobID                  ServiceCode = 1015
	ServiceCodeAbortFailed                   ServiceCode = 1016

	ServiceCodeInvalidAgentID ServiceCode = 2001
	ServiceCodeInvalidMoveID  ServiceCode = 3001
	ServiceCodeInvalidMapItem ServiceCode = 3002
	ServiceCodeInvalidTaskID  ServiceCode = 4001
)

var serviceCodeNames = map[ServiceCode]string{
	ServiceCodeNoError:                       "NoError",
	ServiceCodeServiceNotConfigured:          "ServiceNotConfigured",
	ServiceCodeClientException:               "ClientException",
	ServiceCodeCommitJobFailed:               "CommitJobFailed",
	ServiceCodeCreateJobFailed:               "CreateJobFailed",
	ServiceCodeCreateUnorderedListTaskFailed: "CreateUnorderedListTaskFailed",
	ServiceCodeCreatePipelinedTaskFailed:     "CreatePipelinedTaskFailed",
	ServiceCodeCreateOrderedListTaskFailed:   "CreateOrderedListTaskFailed",
	ServiceCodeCreateServicingTaskFailed:     "CreateServicingTaskFailed",
	ServiceCodeNotAcceptingNewJobs:           "NotAcceptingNewJobs",
	ServiceCodeDirectiveNotAllowed:           "DirectiveNotAllowed",
	ServiceCodeInvalidNodeTaskID:             "InvalidNodeTaskId",
	ServiceCodeCreateSleepingTaskFailed:      "CreateSleepingTaskFailed",
	ServiceCodeCreateMovingTaskFailed:        "CreateMovingTaskFailed",
	ServiceCodeFinaliseTaskFailed:            "FinaliseTaskFailed",
	ServiceCodeBeginEditingJobFailed:         "BeginEditingJobFailed",
	ServiceCodeFinishEditingJobFailed:        "FinishEditingJobFailed",
	ServiceCodeInvalidJobID:                  "InvalidJobId",
	ServiceCodeAbortFailed:                   "AbortFailed",
	ServiceCodeInvalidAgentID:                "InvalidAgentId",
	ServiceCodeInvalidMoveID:                 "InvalidMoveId",
	ServiceCodeInvalidMapItem:                "InvalidMapItem",
	ServiceCodeInvalidTaskID:                 "InvalidTaskId",
}

func (c ServiceCode) String() string {
	if name, ok := serviceCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ServiceCode(%d)", int32(c))
}

// JobStatus is the lifecycle state of a job
type JobStatus int32

const (
	JobStatusAssembly JobStatus = iota
	JobStatusAssigning
	JobStatusWaiting
	JobStatusInProgress
	JobStatusCompleted
	JobStatusAborted
	JobStatusEditing
	JobStatusAborting
	JobStatusInProgressUnderFault
	JobStatusFailureImminent
	JobStatusFailed
	JobStatusCompletedUnderFault
	JobStatusEditingUnderFault
)

var jobStatusNames = []string{
	"Assembly", "Assigning", "Waiting", "InProgress", "Completed", "Aborted", "Editing",
	"Aborting", "InProgressUnderFault", "FailureImminent", "Failed", "CompletedUnderFault",
	"EditingUnderFault",
}

func (s JobStatus) String() string {
	if s >= 0 && int(s) < len(jobStatusNames) {
		return jobStatusNames[s]
	}
	return fmt.Sprintf("JobStatus(%d)", int32(s))
}

// IsTerminal reports whether a job in this state will not change again
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusAborted, JobStatusFailed, JobStatusCompletedUnderFault:
		return true
	}
	return false
}

// TaskStatus is the lifecycle state of a task
type TaskStatus int32

const (
	TaskStatusUnstarted TaskStatus = iota
	TaskStatusInProgress
	TaskStatusCompleted
	TaskStatusAborted
	TaskStatusAssembly
	TaskStatusAttemptingAbort
	TaskStatusAwaitingAbort
	TaskStatusPendingFurtherInstruction
	TaskStatusEditing
	TaskStatusInProgressUnderFault
	TaskStatusCompletedUnderFault
	TaskStatusAttemptingEarlyFailure
	TaskStatusAwaitingEarlyFailure
	TaskStatusAwaitingFailure
	TaskStatusFailed
)

var taskStatusNames = []string{
	"Unstarted", "InProgress", "Completed", "Aborted", "Assembly", "AttemptingAbort",
	"AwaitingAbort", "PendingFurtherInstruction", "Editing", "InProgressUnderFault",
	"CompletedUnderFault", "AttemptingEarlyFailure", "AwaitingEarlyFailure", "AwaitingFailure",
	"Failed",
}

func (s TaskStatus) String() string {
	if s >= 0 && int(s) < len(taskStatusNames) {
		return taskStatusNames[s]
	}
	return fmt.Sprintf("TaskStatus(%d)", int32(s))
}

// TaskType identifies the kind of node in a job's task tree
type TaskType int32

const (
	TaskTypeOrderedList TaskType = iota
	TaskTypeUnorderedList
	TaskTypeAtomicMoveList
	TaskTypeServicing
	TaskTypeSleeping
	TaskTypeAtomicMove
	TaskTypeGoToNode
	TaskTypeAwaiting
)

var taskTypeNames = []string{
	"OrderedList", "UnorderedList", "AtomicMoveList", "Servicing", "Sleeping", "AtomicMove",
	"GoToNode", "Awaiting",
}

func (t TaskType) String() string {
	if t >= 0 && int(t) < len(taskTypeNames) {
		return taskTypeNames[t]
	}
	return fmt.Sprintf("TaskType(%d)", int32(t))
}

// IsList reports whether the task can hold child tasks
func (t TaskType) IsList() bool {
	return t == TaskTypeOrderedList || t == TaskTypeUnorderedList || t == TaskTypeAtomicMoveList
}

// JobPriority orders jobs waiting for an agent
type JobPriority int32

const (
	JobPriorityNormal JobPriority = iota
	JobPriorityHigh
)

func (p JobPriority) String() string {
	switch p {
	case JobPriorityNormal:
		return "Normal"
	case JobPriorityHigh:
		return "High"
	default:
		return fmt.Sprintf("JobPriority(%d)", int32(p))
	}
}

// ServiceType is the kind of work an agent performs at a servicing task
type ServiceType int32

const (
	ServiceTypeExecution ServiceType = iota
	ServiceTypeManual
	ServiceTypeCharge
)

func (t ServiceType) String() string {
	switch t {
	case ServiceTypeExecution:
		return "Execution"
	case ServiceTypeManual:
		return "Manual"
	case ServiceTypeCharge:
		return "Charge"
	default:
		return fmt.Sprintf("ServiceType(%d)", int32(t))
	}
}

// AgentLifetimeState controls whether the scheduler may assign work to an agent
type AgentLifetimeState int32

const (
	AgentLifetimeStateOutOfService AgentLifetimeState = iota
	AgentLifetimeStateInService
	AgentLifetimeStateExcluded
)

func (s AgentLifetimeState) String() string {
	switch s {
	case AgentLifetimeStateOutOfService:
		return "OutOfService"
	case AgentLifetimeStateInService:
		return "InService"
	case AgentLifetimeStateExcluded:
		return "Excluded"
	default:
		return fmt.Sprintf("AgentLifetimeState(%d)", int32(s))
	}
}

// ParseAgentLifetimeState parses the String form of an AgentLifetimeState
func ParseAgentLifetimeState(s string) (AgentLifetimeState, error) {
	for _, st := range []AgentLifetimeState{AgentLifetimeStateOutOfService, AgentLifetimeStateInService, AgentLifetimeStateExcluded} {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown agent lifetime state %q", s)
}

// AttentionType tells why an agent needs operator attention
type AttentionType int32

const (
	AttentionTypeNone AttentionType = iota
	AttentionTypePhysical
	AttentionTypeGUI
	AttentionTypeComms
)

func (t AttentionType) String() string {
	switch t {
	case AttentionTypeNone:
		return "None"
	case AttentionTypePhysical:
		return "Physical"
	case AttentionTypeGUI:
		return "GUI"
	case AttentionTypeComms:
		return "Comms"
	default:
		return fmt.Sprintf("AttentionType(%d)", int32(t))
	}
}

// OccupyingMandateState is the progress of an occupying mandate
type OccupyingMandateState int32

const (
	OccupyingMandateStateInactive OccupyingMandateState = iota
	OccupyingMandateStatePending
	OccupyingMandateStateEstablished
	OccupyingMandateStateExpired
)

func (s OccupyingMandateState) String() string {
	switch s {
	case OccupyingMandateStateInactive:
		return "Inactive"
	case OccupyingMandateStatePending:
		return "Pending"
	case OccupyingMandateStateEstablished:
		return "Established"
	case OccupyingMandateStateExpired:
		return "Expired"
	default:
		return fmt.Sprintf("OccupyingMandateState(%d)", int32(s))
	}
}

// ServiceStatus is the progress of a servicing request
type ServiceStatus int32

const (
	ServiceStatusRequested ServiceStatus = iota
	ServiceStatusInProgress
	ServiceStatusComplete
)

func (s ServiceStatus) String() string {
	switch s {
	case ServiceStatusRequested:
		return "Requested"
	case ServiceStatusInProgress:
		return "InProgress"
	case ServiceStatusComplete:
		return "Complete"
	default:
		return fmt.Sprintf("ServiceStatus(%d)", int32(s))
	}
}

// DirectiveKind selects the integer width of an integer directive
type DirectiveKind int32

const (
	DirectiveKindEnum DirectiveKind = iota
	DirectiveKindShort
	DirectiveKindUShort
)

func (k DirectiveKind) String() string {
	switch k {
	case DirectiveKindEnum:
		return "Enum"
	case DirectiveKindShort:
		return "Short"
	case DirectiveKindUShort:
		return "UShort"
	default:
		return fmt.Sprintf("DirectiveKind(%d)", int32(k))
	}
}
