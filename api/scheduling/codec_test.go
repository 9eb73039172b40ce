package scheduling

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/types/known/emptypb"
)

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c, "cbor codec must be registered on import")
	assert.Equal(t, CodecName, c.Name())
}

func TestCodecEmbeddedEnvelopeIsFlattened(t *testing.T) {
	res := &GetActiveJobIDsForAgentResult{
		Envelope:   Fail(ServiceCodeInvalidAgentID, "no agent 9"),
		ActiveJobs: []int32{4, 7},
	}

	data, err := Codec{}.Marshal(res)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, Unmarshal(data, &generic))
	assert.Contains(t, generic, "serviceCode")
	assert.Contains(t, generic, "activeJobs")
	assert.NotContains(t, generic, "Envelope")

	var out GetActiveJobIDsForAgentResult
	require.NoError(t, Codec{}.Unmarshal(data, &out))
	code, msg := out.Outcome()
	assert.Equal(t, ServiceCodeInvalidAgentID, code)
	assert.Equal(t, "no agent 9", msg)
	assert.Equal(t, []int32{4, 7}, out.ActiveJobs)
}

func TestCodecProtoMessagesUseProtobuf(t *testing.T) {
	data, err := Codec{}.Marshal(&emptypb.Empty{})
	require.NoError(t, err)
	assert.Empty(t, data, "an empty protobuf message encodes to zero bytes")

	require.NoError(t, Codec{}.Unmarshal(data, new(emptypb.Empty)))
}

func TestCodecDeterministic(t *testing.T) {
	state := &SchedulerStateDto{
		Cycle:       200,
		AgentCount:  3,
		SpotManager: &SpotManagerStateDto{IsChanged: true, ReservedSpotIDs: []int32{1, 2}},
	}

	a, err := Marshal(state)
	require.NoError(t, err)
	b, err := Marshal(state)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCodecDecodeIntoAnyIsJSONCompatible(t *testing.T) {
	data, err := Marshal(&JobProgressDto{JobID: 12, JobStatus: JobStatusInProgress, AssignedAgentID: 2})
	require.NoError(t, err)

	var v any
	require.NoError(t, Unmarshal(data, &v))

	_, err = json.Marshal(v)
	assert.NoError(t, err)
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{ServiceCodeNoError.String(), "NoError"},
		{ServiceCodeNotAcceptingNewJobs.String(), "NotAcceptingNewJobs"},
		{ServiceCode(42).String(), "ServiceCode(42)"},
		{JobStatusCompletedUnderFault.String(), "CompletedUnderFault"},
		{TaskStatusFailed.String(), "Failed"},
		{TaskType(99).String(), "TaskType(99)"},
		{AgentLifetimeStateInService.String(), "InService"},
		{SemVerDto{Major: 4, Minor: 2, Patch: 1}.String(), "4.2.1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.got)
	}
}

func TestParseAgentLifetimeState(t *testing.T) {
	s, err := ParseAgentLifetimeState("Excluded")
	require.NoError(t, err)
	assert.Equal(t, AgentLifetimeStateExcluded, s)

	_, err = ParseAgentLifetimeState("Retired")
	assert.Error(t, err)
}

func TestJobStatusIsTerminal(t *testing.T) {
	assert.True(t, JobStatusCompleted.IsTerminal())
	assert.True(t, JobStatusFailed.IsTerminal())
	assert.False(t, JobStatusInProgress.IsTerminal())
	assert.False(t, JobStatusEditing.IsTerminal())
}
