package recorder

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/msto63/schedclients/api/scheduling"
	"github.com/msto63/schedclients/pkg/clients"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	r, err := New(Config{Path: filepath.Join(t.TempDir(), "data", "updates.db")})
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

type fakeSource struct {
	mu sync.Mutex
	fn func(clients.Update)
}

func (s *fakeSource) Observe(fn func(clients.Update), kinds ...string) func() {
	s.mu.Lock()
	s.fn = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.fn = nil
		s.mu.Unlock()
	}
}

func (s *fakeSource) emit(u clients.Update) {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()
	if fn != nil {
		fn(u)
	}
}

func TestRecorder_RecordAndQuery(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC)

	require.NoError(t, r.Record(ctx, clients.Update{
		Kind:     clients.KindAgent,
		Received: at,
		Payload:  &scheduling.AgentDto{AgentID: 1, Alias: "AGV-01", BatteryChargePercentage: 98},
	}))
	require.NoError(t, r.Record(ctx, clients.Update{
		Kind:     clients.KindSchedulerState,
		Received: at.Add(time.Second),
		Payload:  &scheduling.SchedulerStateDto{Cycle: 7, AgentCount: 1},
	}))
	require.NoError(t, r.Record(ctx, clients.Update{
		Kind:     clients.KindAgent,
		Received: at.Add(2 * time.Second),
		Payload:  &scheduling.AgentDto{AgentID: 1, Alias: "AGV-01", BatteryChargePercentage: 96},
	}))

	total, err := r.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	agents, err := r.Count(ctx, clients.KindAgent)
	require.NoError(t, err)
	assert.Equal(t, int64(2), agents)

	recent, err := r.Recent(ctx, clients.KindAgent, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)

	e := recent[0]
	assert.Equal(t, clients.KindAgent, e.Kind)
	assert.Equal(t, r.Session(), e.Session)
	assert.True(t, at.Add(2*time.Second).Equal(e.ReceivedAt))

	var agent scheduling.AgentDto
	require.NoError(t, e.Decode(&agent))
	assert.Equal(t, 96.0, agent.BatteryChargePercentage)

	var fromJSON scheduling.AgentDto
	require.NoError(t, json.Unmarshal([]byte(e.JSON), &fromJSON))
	assert.Equal(t, agent, fromJSON)

	all, err := r.Recent(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, clients.KindAgent, all[0].Kind)
	assert.Equal(t, clients.KindSchedulerState, all[1].Kind)
}

func TestRecorder_Prune(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()

	require.NoError(t, r.Record(ctx, clients.Update{
		Kind:     clients.KindMandate,
		Received: time.Now().Add(-2 * time.Hour),
		Payload:  &scheduling.OccupyingMandateProgressDto{},
	}))
	require.NoError(t, r.Record(ctx, clients.Update{
		Kind:    clients.KindMandate,
		Payload: &scheduling.OccupyingMandateProgressDto{MandatedMapItemIDs: []int32{4}},
	}))

	n, err := r.Prune(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	left, err := r.Count(ctx, clients.KindMandate)
	require.NoError(t, err)
	assert.Equal(t, int64(1), left)
}

func TestRecorder_Attach(t *testing.T) {
	r := newTestRecorder(t)
	src := &fakeSource{}

	detach := r.Attach(src)
	for i := 0; i < 10; i++ {
		src.emit(clients.Update{
			Kind:     clients.KindTaskProgress,
			Received: time.Now(),
			Payload:  &scheduling.TaskProgressDto{TaskID: int32(i + 1), JobID: 1},
		})
	}
	detach()
	detach()

	n, err := r.Count(context.Background(), clients.KindTaskProgress)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)

	src.emit(clients.Update{Kind: clients.KindTaskProgress, Payload: &scheduling.TaskProgressDto{}})
	n, err = r.Count(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)
}

func TestRecorder_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "updates.db")
	ctx := context.Background()

	first, err := New(Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, first.Record(ctx, clients.Update{Kind: clients.KindJobProgress, Payload: &scheduling.JobProgressDto{JobID: 5}}))
	require.NoError(t, first.Close())

	second, err := New(Config{Path: path})
	require.NoError(t, err)
	defer second.Close()

	assert.NotEqual(t, first.Session(), second.Session())
	n, err := second.Count(ctx, clients.KindJobProgress)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
