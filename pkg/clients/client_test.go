package clients

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"testing"
	"time"

	"github.com/msto63/schedclients/api/scheduling"
	"github.com/msto63/schedclients/pkg/core/logging"
	"github.com/msto63/schedclients/pkg/subscription"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offline() Settings {
	s := DefaultSettings()
	s.Subscribe = false
	return s
}

func testBase(settings Settings) *base {
	b := newBase("test", settings, logging.Discard())
	return &b
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.True(t, s.Subscribe)
	assert.Equal(t, time.Second, s.RetryDelay)
	assert.Equal(t, 10*time.Second, s.CallTimeout)
}

func TestNewBase_FillsRetryDelay(t *testing.T) {
	b := newBase("agents", Settings{}, nil)
	assert.Equal(t, subscription.DefaultRetryDelay, b.settings.RetryDelay)
	assert.Equal(t, "agents", b.logger.Name())
}

func TestServiceError(t *testing.T) {
	err := &ServiceError{Op: "CommitJob", Code: scheduling.ServiceCodeInvalidAgentID, Message: "unknown agent"}
	assert.Equal(t, "CommitJob: InvalidAgentId: unknown agent", err.Error())

	bare := &ServiceError{Op: "AbortJob", Code: scheduling.ServiceCodeAbortFailed}
	assert.Equal(t, "AbortJob: AbortFailed", bare.Error())
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("commit: %w", &ServiceError{Code: scheduling.ServiceCodeCommitJobFailed})

	tests := []struct {
		name string
		err  error
		want scheduling.ServiceCode
	}{
		{"nil", nil, scheduling.ServiceCodeNoError},
		{"service error", &ServiceError{Code: scheduling.ServiceCodeInvalidTaskID}, scheduling.ServiceCodeInvalidTaskID},
		{"wrapped", wrapped, scheduling.ServiceCodeCommitJobFailed},
		{"transport", errors.New("connection refused"), scheduling.ServiceCodeClientException},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestCall(t *testing.T) {
	b := testBase(DefaultSettings())
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		res, err := call(ctx, b, "CreateOrderedListTask", func(context.Context) (*scheduling.IntResult, error) {
			return &scheduling.IntResult{Envelope: scheduling.OK(), Value: 12}, nil
		}, "parent", 3)
		require.NoError(t, err)
		assert.Equal(t, int32(12), res.Value)
	})

	t.Run("rejected", func(t *testing.T) {
		res, err := call(ctx, b, "AbortJob", func(context.Context) (*scheduling.GenericResult, error) {
			return &scheduling.GenericResult{Envelope: scheduling.Fail(scheduling.ServiceCodeAbortFailed, "job is Completed")}, nil
		})
		assert.Nil(t, res)

		var serr *ServiceError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, "AbortJob", serr.Op)
		assert.Equal(t, scheduling.ServiceCodeAbortFailed, serr.Code)
		assert.Equal(t, "job is Completed", serr.Message)
	})

	t.Run("transport failure", func(t *testing.T) {
		cause := errors.New("unavailable")
		_, err := call(ctx, b, "GetAllNodes", func(context.Context) (*scheduling.GetAllNodeDataResult, error) {
			return nil, cause
		})
		require.ErrorIs(t, err, cause)
		assert.Equal(t, scheduling.ServiceCodeClientException, CodeOf(err))
	})

	t.Run("deadline from settings", func(t *testing.T) {
		_, err := call(ctx, b, "GetAllMoves", func(ctx context.Context) (*scheduling.GetAllMoveDataResult, error) {
			deadline, ok := ctx.Deadline()
			require.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(10*time.Second), deadline, time.Second)
			return &scheduling.GetAllMoveDataResult{Envelope: scheduling.OK()}, nil
		})
		require.NoError(t, err)
	})

	t.Run("no timeout", func(t *testing.T) {
		settings := DefaultSettings()
		settings.CallTimeout = 0
		_, err := call(ctx, testBase(settings), "GetAllMoves", func(ctx context.Context) (*scheduling.GetAllMoveDataResult, error) {
			_, ok := ctx.Deadline()
			assert.False(t, ok)
			return &scheduling.GetAllMoveDataResult{Envelope: scheduling.OK()}, nil
		})
		require.NoError(t, err)
	})
}

func TestIsNewerTick(t *testing.T) {
	tests := []struct {
		cur, prev uint8
		want      bool
	}{
		{1, 0, true},
		{0, 0, false},
		{0, 1, false},
		{0, 255, true},
		{5, 250, true},
		{127, 0, true},
		{128, 0, false},
		{250, 5, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d after %d", tt.cur, tt.prev), func(t *testing.T) {
			assert.Equal(t, tt.want, IsNewerTick(tt.cur, tt.prev))
		})
	}
}

func TestSchedulingClient_IgnoresStaleStates(t *testing.T) {
	c := NewSchedulingClient(nil, offline(), logging.Discard())
	defer c.Close()

	_, ok := c.SchedulerState()
	assert.False(t, ok)

	c.update(&scheduling.SchedulerStateDto{Cycle: 254})
	c.update(&scheduling.SchedulerStateDto{Cycle: 255})
	c.update(&scheduling.SchedulerStateDto{Cycle: 1})
	c.update(&scheduling.SchedulerStateDto{Cycle: 0})

	state, ok := c.SchedulerState()
	require.True(t, ok)
	assert.Equal(t, uint8(1), state.Cycle)
}

func TestAgentClient_Cache(t *testing.T) {
	c := NewAgentClient(nil, offline(), logging.Discard())
	defer c.Close()

	c.update(&scheduling.AgentDto{AgentID: 3, Alias: "AGV-03"})
	c.update(&scheduling.AgentDto{AgentID: 1, Alias: "AGV-01"})
	c.update(&scheduling.AgentDto{AgentID: 3, Alias: "AGV-03", BatteryChargePercentage: 40})

	agent, ok := c.Agent(3)
	require.True(t, ok)
	assert.Equal(t, 40.0, agent.BatteryChargePercentage)

	_, ok = c.Agent(2)
	assert.False(t, ok)

	agents := c.Agents()
	require.Len(t, agents, 2)
	assert.Equal(t, int32(1), agents[0].AgentID)
	assert.Equal(t, int32(3), agents[1].AgentID)
}

func TestJobBuilderClient_RejectsInvalidAddress(t *testing.T) {
	c := NewJobBuilderClient(nil, offline(), logging.Discard())

	err := c.IssueIPAddressDirective(context.Background(), 4, "peer", netip.Addr{})
	require.Error(t, err)
	assert.Equal(t, scheduling.ServiceCodeClientException, CodeOf(err))
}

func TestStreamingClient_OfflineStaysIdle(t *testing.T) {
	c := NewTaskStateClient(nil, offline(), logging.Discard())

	assert.Equal(t, subscription.StateIdle, c.SubscriptionState())
	_, ok := c.LastTaskProgress()
	assert.False(t, ok)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Equal(t, subscription.StateCancelled, c.SubscriptionState())
}

func TestDial_InvalidAddress(t *testing.T) {
	_, err := DialAgentClient(context.Background(), netip.Addr{}, 0, false)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}
