package simulator_test

import (
	"context"
	"testing"
	"time"

	"github.com/msto63/schedclients/api/scheduling"
	"github.com/msto63/schedclients/internal/simulator"
	"github.com/msto63/schedclients/internal/simulator/simtest"
	"github.com/msto63/schedclients/pkg/core/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

func TestServer_UnaryOverCBOR(t *testing.T) {
	h := simtest.Start(t, simulator.Config{Agents: 3})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := scheduling.NewAgentServiceClient(h.Conn).GetAllAgentData(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, scheduling.ServiceCodeNoError, res.ServiceCode)
	require.Len(t, res.Agents, 3)
	assert.Equal(t, "AGV-03", res.Agents[2].Alias)

	job, err := scheduling.NewJobBuilderServiceClient(h.Conn).CommitJob(ctx, &scheduling.CommitJobRequest{JobID: 12})
	require.NoError(t, err)
	assert.Equal(t, scheduling.ServiceCodeInvalidJobID, job.ServiceCode)
	assert.NotEmpty(t, job.ExceptionMessage)
}

func TestServer_StreamSnapshotAndUpdates(t *testing.T) {
	h := simtest.Start(t, simulator.Config{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := scheduling.NewSchedulingServiceClient(h.Conn).Subscribe(ctx, &emptypb.Empty{})
	require.NoError(t, err)

	snapshot, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, uint8(0), snapshot.Cycle)
	assert.Equal(t, int32(4), snapshot.AgentCount)

	h.Sim.Tick()
	h.Sim.Tick()

	for _, want := range []uint8{1, 2} {
		state, err := stream.Recv()
		require.NoError(t, err)
		assert.Equal(t, want, state.Cycle)
	}
}

func TestServer_DropStreamsEndsSubscriptions(t *testing.T) {
	h := simtest.Start(t, simulator.Config{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := scheduling.NewAgentServiceClient(h.Conn).Subscribe(ctx, &emptypb.Empty{})
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err := stream.Recv()
		require.NoError(t, err)
	}
	require.Eventually(t, func() bool { return h.Sim.Subscribers() == 1 }, 2*time.Second, 5*time.Millisecond)

	h.Sim.DropStreams()

	_, err = stream.Recv()
	require.Error(t, err)
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestBroadcaster(t *testing.T) {
	b := simulator.NewBroadcaster[int]("test", logging.Discard())

	first, cancelFirst := b.Subscribe()
	second, _ := b.Subscribe()
	assert.Equal(t, 2, b.Count())

	b.Publish(7)
	assert.Equal(t, 7, <-first)
	assert.Equal(t, 7, <-second)

	cancelFirst()
	cancelFirst()
	_, open := <-first
	assert.False(t, open)
	assert.Equal(t, 1, b.Count())

	b.Reset()
	_, open = <-second
	assert.False(t, open)
	assert.Zero(t, b.Count())
}

func TestBroadcaster_DropsForSlowSubscriber(t *testing.T) {
	b := simulator.NewBroadcaster[int]("test", logging.Discard())
	ch, cancel := b.Subscribe()
	defer cancel()

	for i := 0; i < 100; i++ {
		b.Publish(i)
	}
	assert.Equal(t, 64, len(ch))
	assert.Equal(t, 0, <-ch)
}
