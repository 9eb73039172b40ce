package scheduling

// Envelope is the outcome part of every one-shot result
type Envelope struct {
	ServiceCode      ServiceCode `json:"serviceCode"`
	ExceptionMessage string      `json:"exceptionMessage,omitempty"`
}

// Outcome returns the service code and message of a result
func (e Envelope) Outcome() (ServiceCode, string) {
	return e.ServiceCode, e.ExceptionMessage
}

// OK builds a successful envelope
func OK() Envelope {
	return Envelope{ServiceCode: ServiceCodeNoError}
}

// Fail builds a failed envelope
func Fail(code ServiceCode, message string) Envelope {
	return Envelope{ServiceCode: code, ExceptionMessage: message}
}

// GenericResult carries only an envelope
type GenericResult struct {
	Envelope
}

// BoolResult is a result with a boolean payload
type BoolResult struct {
	Envelope
	Value bool `json:"value"`
}

// IntResult is a result with an integer payload, typically a new task ID
type IntResult struct {
	Envelope
	Value int32 `json:"value"`
}

// ---------------------------------------------------------------------------
// Agents
// ---------------------------------------------------------------------------

type AgentDto struct {
	AgentID                 int32              `json:"agentId"`
	Alias                   string             `json:"alias"`
	IPAddress               string             `json:"ipAddress"`
	LifetimeState           AgentLifetimeState `json:"lifetimeState"`
	Attention               AttentionType      `json:"attention"`
	BatteryChargePercentage float64            `json:"batteryChargePercentage"`
	CurrentNodeID           int32              `json:"currentNodeId"`
	IsVirtual               bool               `json:"isVirtual"`
}

type GetAllAgentsInLifetimeStateRequest struct {
	AgentLifetimeState AgentLifetimeState `json:"agentLifetimeState"`
}

type SetAgentLifetimeStateRequest struct {
	AgentID            int32              `json:"agentId"`
	AgentLifetimeState AgentLifetimeState `json:"agentLifetimeState"`
}

type GetAllAgentDataResult struct {
	Envelope
	Agents []AgentDto `json:"agents"`
}

// ---------------------------------------------------------------------------
// Job builder
// ---------------------------------------------------------------------------

type JobDto struct {
	JobID                 int32       `json:"jobId"`
	RootOrderedListTaskID int32       `json:"rootOrderedListTaskId"`
	JobPriority           JobPriority `json:"jobPriority"`
}

type CreateJobRequest struct {
	JobPriority JobPriority `json:"jobPriority"`
}

type CreateJobResult struct {
	Envelope
	Job *JobDto `json:"job,omitempty"`
}

type CommitJobRequest struct {
	JobID   int32 `json:"jobId"`
	AgentID int32 `json:"agentId"`
}

type EditingJobRequest struct {
	JobID int32 `json:"jobId"`
}

// CreateListTaskRequest creates an ordered, unordered or atomic-move list task
type CreateListTaskRequest struct {
	ParentTaskID int32 `json:"parentTaskId"`
}

type CreateServicingTaskRequest struct {
	ParentTaskID       int32       `json:"parentTaskId"`
	NodeID             int32       `json:"nodeId"`
	ServiceType        ServiceType `json:"serviceType"`
	ExpectedDurationMs int64       `json:"expectedDurationMs"`
}

type CreateSleepingTaskRequest struct {
	ParentTaskID       int32 `json:"parentTaskId"`
	NodeID             int32 `json:"nodeId"`
	ExpectedDurationMs int64 `json:"expectedDurationMs"`
}

type CreateAtomicMoveTaskRequest struct {
	ParentAtomicMoveListTaskID int32 `json:"parentAtomicMoveListTaskId"`
	MoveID                     int32 `json:"moveId"`
}

// CreateNodeTaskRequest creates a go-to-node or awaiting task
type CreateNodeTaskRequest struct {
	ParentTaskID int32 `json:"parentTaskId"`
	NodeID       int32 `json:"nodeId"`
}

type IssueIntDirectiveRequest struct {
	TaskID int32         `json:"taskId"`
	Alias  string        `json:"alias"`
	Kind   DirectiveKind `json:"kind"`
	Value  int32         `json:"value"`
}

type IssueFloatDirectiveRequest struct {
	TaskID int32   `json:"taskId"`
	Alias  string  `json:"alias"`
	Value  float32 `json:"value"`
}

type IssueIPAddressDirectiveRequest struct {
	TaskID int32  `json:"taskId"`
	Alias  string `json:"alias"`
	Value  string `json:"value"`
}

// ---------------------------------------------------------------------------
// Jobs state / job state / task state
// ---------------------------------------------------------------------------

type TaskSummaryDto struct {
	TaskID       int32      `json:"taskId"`
	ParentTaskID int32      `json:"parentTaskId"`
	TaskType     TaskType   `json:"taskType"`
	TaskStatus   TaskStatus `json:"taskStatus"`
	NodeID       int32      `json:"nodeId,omitempty"`
	MoveID       int32      `json:"moveId,omitempty"`
}

type JobSummaryDto struct {
	JobID           int32            `json:"jobId"`
	JobStatus       JobStatus        `json:"jobStatus"`
	JobPriority     JobPriority      `json:"jobPriority"`
	AssignedAgentID int32            `json:"assignedAgentId"`
	RootTaskID      int32            `json:"rootTaskId"`
	Tasks           []TaskSummaryDto `json:"tasks"`
}

// JobStateDto is the aggregate state of all jobs known to the scheduler
type JobStateDto struct {
	JobSummaries []JobSummaryDto `json:"jobSummaries"`
}

type JobProgressDto struct {
	JobID           int32     `json:"jobId"`
	JobStatus       JobStatus `json:"jobStatus"`
	AssignedAgentID int32     `json:"assignedAgentId"`
}

type TaskProgressDto struct {
	TaskID          int32      `json:"taskId"`
	JobID           int32      `json:"jobId"`
	AssignedAgentID int32      `json:"assignedAgentId"`
	TaskStatus      TaskStatus `json:"taskStatus"`
}

type AbortJobRequest struct {
	JobID int32  `json:"jobId"`
	Note  string `json:"note,omitempty"`
}

type AbortTaskRequest struct {
	TaskID int32 `json:"taskId"`
}

type AgentRequest struct {
	AgentID int32 `json:"agentId"`
}

type GetActiveJobIDsForAgentResult struct {
	Envelope
	ActiveJobs []int32 `json:"activeJobs"`
}

type GetJobSummaryRequest struct {
	JobID int32 `json:"jobId"`
}

type TaskRequest struct {
	TaskID int32 `json:"taskId"`
}

type JobSummaryResult struct {
	Envelope
	JobSummary *JobSummaryDto `json:"jobSummary,omitempty"`
}

// ---------------------------------------------------------------------------
// Map
// ---------------------------------------------------------------------------

type NodeDto struct {
	NodeID int32   `json:"nodeId"`
	Alias  string  `json:"alias"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type MoveDto struct {
	MoveID      int32  `json:"moveId"`
	Alias       string `json:"alias"`
	StartNodeID int32  `json:"startNodeId"`
	EndNodeID   int32  `json:"endNodeId"`
}

type ParameterDto struct {
	ParameterID int32  `json:"parameterId"`
	Alias       string `json:"alias"`
	Value       string `json:"value"`
}

type WaypointDto struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
}

type OccupyingMandateProgressDto struct {
	State              OccupyingMandateState `json:"state"`
	MandatedMapItemIDs []int32               `json:"mandatedMapItemIds"`
	OccupiedMapItemIDs []int32               `json:"occupiedMapItemIds"`
}

type GetAllMoveDataResult struct {
	Envelope
	Moves []MoveDto `json:"moves"`
}

type GetAllNodeDataResult struct {
	Envelope
	Nodes []NodeDto `json:"nodes"`
}

type GetAllParameterDataResult struct {
	Envelope
	Parameters []ParameterDto `json:"parameters"`
}

type GetTrajectoryRequest struct {
	MoveID int32 `json:"moveId"`
}

type GetTrajectoryResult struct {
	Envelope
	Waypoints []WaypointDto `json:"waypoints"`
}

type GetOccupyingMandateProgressDataResult struct {
	Envelope
	OccupyingMandateProgress *OccupyingMandateProgressDto `json:"occupyingMandateProgress,omitempty"`
}

type SetOccupyingMandateRequest struct {
	MapItemIDs []int32 `json:"mapItemIds"`
	TimeoutMs  int64   `json:"timeoutMs"`
}

// ---------------------------------------------------------------------------
// Scheduling
// ---------------------------------------------------------------------------

type SpotManagerStateDto struct {
	IsChanged       bool    `json:"isChanged"`
	ReservedSpotIDs []int32 `json:"reservedSpotIds"`
}

type SchedulerStateDto struct {
	// Cycle is an 8-bit tick that wraps around
	Cycle            uint8                `json:"cycle"`
	ActiveJobCount   int32                `json:"activeJobCount"`
	AgentCount       int32                `json:"agentCount"`
	AcceptingNewJobs bool                 `json:"acceptingNewJobs"`
	SpotManager      *SpotManagerStateDto `json:"spotManager,omitempty"`
}

// ---------------------------------------------------------------------------
// Servicing
// ---------------------------------------------------------------------------

type ServiceStateDto struct {
	TaskID        int32         `json:"taskId"`
	AgentID       int32         `json:"agentId"`
	NodeID        int32         `json:"nodeId"`
	ServiceType   ServiceType   `json:"serviceType"`
	ServiceStatus ServiceStatus `json:"serviceStatus"`
}

type GetOutstandingServiceRequestsResult struct {
	Envelope
	ServiceStates []ServiceStateDto `json:"serviceStates"`
}

// ---------------------------------------------------------------------------
// Version
// ---------------------------------------------------------------------------

type SemVerDto struct {
	Major int32 `json:"major"`
	Minor int32 `json:"minor"`
	Patch int32 `json:"patch"`
}

type PluginDto struct {
	Name    string    `json:"name"`
	Version SemVerDto `json:"version"`
}

type GetSchedulerVersionResult struct {
	Envelope
	Version SemVerDto `json:"version"`
}

type GetPluginVersionsResult struct {
	Envelope
	Plugins []PluginDto `json:"plugins"`
}
