package subscription

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/msto63/schedclients/pkg/core/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testRetry   = 10 * time.Millisecond
	waitFor     = 2 * time.Second
	pollEvery   = 5 * time.Millisecond
	quietPeriod = 50 * time.Millisecond
)

var errBroken = errors.New("connection reset")

// step is one Recv result. A non-nil err ends the stream.
type step struct {
	val int
	err error
}

// feed hands out streams that all read from one channel
type feed struct {
	ch      chan step
	opens   atomic.Int32
	openErr func(n int32) error
}

func newFeed() *feed {
	return &feed{ch: make(chan step, 64)}
}

func (f *feed) push(vals ...int) {
	for _, v := range vals {
		f.ch <- step{val: v}
	}
}

func (f *feed) fail(err error) {
	f.ch <- step{err: err}
}

func (f *feed) open(ctx context.Context) (Receiver[int], error) {
	n := f.opens.Add(1)
	if f.openErr != nil {
		if err := f.openErr(n); err != nil {
			return nil, err
		}
	}
	return &feedStream{ctx: ctx, ch: f.ch}, nil
}

type feedStream struct {
	ctx context.Context
	ch  chan step
}

func (s *feedStream) Recv() (int, error) {
	select {
	case <-s.ctx.Done():
		return 0, s.ctx.Err()
	case st := <-s.ch:
		if st.err != nil {
			return 0, st.err
		}
		return st.val, nil
	}
}

type recorder struct {
	mu  sync.Mutex
	got []int
}

func (r *recorder) add(v int) {
	r.mu.Lock()
	r.got = append(r.got, v)
	r.mu.Unlock()
}

func (r *recorder) values() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.got...)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

func newTestManager(t *testing.T) *Manager[int] {
	t.Helper()
	m := NewManager[int](WithName("test"), WithLogger(logging.Discard()))
	t.Cleanup(m.Dispose)
	return m
}

func TestManagerInitialState(t *testing.T) {
	m := newTestManager(t)

	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, "test", m.Name())

	_, ok := m.Last()
	assert.False(t, ok)
}

func TestManagerDeliversInOrder(t *testing.T) {
	m := newTestManager(t)
	f := newFeed()
	var rec recorder

	m.Start(f.open, rec.add, testRetry)
	f.push(1, 2, 3, 4, 5)

	require.Eventually(t, func() bool { return rec.count() == 5 }, waitFor, pollEvery)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, rec.values())
	assert.Equal(t, StateStreaming, m.State())

	last, ok := m.Last()
	require.True(t, ok)
	assert.Equal(t, 5, last)

	stats := m.Stats()
	assert.Equal(t, uint64(5), stats.Messages)
	assert.Equal(t, uint64(1), stats.Attempts)
	assert.False(t, stats.ConnectedAt.IsZero())
	assert.False(t, stats.LastMessageAt.IsZero())
}

func TestManagerRetriesAfterStreamFailure(t *testing.T) {
	m := newTestManager(t)
	f := newFeed()
	var rec recorder

	m.Start(f.open, rec.add, testRetry)
	f.push(1, 2)
	f.fail(errBroken)
	f.push(3)

	require.Eventually(t, func() bool { return rec.count() == 3 }, waitFor, pollEvery)
	assert.Equal(t, []int{1, 2, 3}, rec.values())
	assert.GreaterOrEqual(t, f.opens.Load(), int32(2))

	stats := m.Stats()
	assert.Equal(t, uint64(1), stats.Failures)
	assert.Equal(t, errBroken.Error(), stats.LastError)

	// Nothing is replayed after the reconnect.
	time.Sleep(quietPeriod)
	assert.Equal(t, []int{1, 2, 3}, rec.values())
}

func TestManagerRetriesAfterOpenFailure(t *testing.T) {
	m := newTestManager(t)
	f := newFeed()
	f.openErr = func(n int32) error {
		if n <= 2 {
			return errBroken
		}
		return nil
	}
	var rec recorder

	m.Start(f.open, rec.add, testRetry)
	f.push(7)

	require.Eventually(t, func() bool { return rec.count() == 1 }, waitFor, pollEvery)
	stats := m.Stats()
	assert.Equal(t, uint64(3), stats.Attempts)
	assert.Equal(t, uint64(2), stats.Failures)
	assert.Contains(t, stats.LastError, "open stream")
}

func TestManagerRetriesWhenPeerClosesStream(t *testing.T) {
	m := newTestManager(t)
	f := newFeed()
	var rec recorder

	m.Start(f.open, rec.add, testRetry)
	f.push(1)
	f.fail(io.EOF)
	f.push(2)

	require.Eventually(t, func() bool { return rec.count() == 2 }, waitFor, pollEvery)
	assert.Equal(t, ErrStreamClosed.Error(), m.Stats().LastError)
}

func TestManagerLastValueSurvivesFailure(t *testing.T) {
	m := newTestManager(t)
	f := newFeed()
	f.openErr = func(n int32) error {
		if n > 1 {
			return errBroken
		}
		return nil
	}

	m.Start(f.open, nil, testRetry)
	f.push(41, 42)
	f.fail(errBroken)

	require.Eventually(t, func() bool { return m.Stats().Failures >= 2 }, waitFor, pollEvery)
	assert.Equal(t, StateSubscribing, m.State())

	last, ok := m.Last()
	require.True(t, ok)
	assert.Equal(t, 42, last)
}

func TestManagerUnsubscribeBeforeStart(t *testing.T) {
	m := newTestManager(t)
	f := newFeed()

	m.Unsubscribe()
	m.Unsubscribe()
	assert.Equal(t, StateCancelled, m.State())

	m.Start(f.open, nil, testRetry)
	time.Sleep(quietPeriod)

	assert.Equal(t, int32(0), f.opens.Load())
	assert.Equal(t, StateCancelled, m.State())
	assert.Equal(t, uint64(0), m.Stats().Attempts)

	select {
	case <-m.Done():
	default:
		t.Fatal("Done should be closed when the loop never started")
	}
}

func TestManagerNoDeliveryAfterUnsubscribe(t *testing.T) {
	m := newTestManager(t)
	f := newFeed()
	var rec recorder

	m.Start(f.open, rec.add, testRetry)
	f.push(1, 2)
	f.fail(errBroken)
	f.push(3)

	require.Eventually(t, func() bool { return rec.count() == 3 }, waitFor, pollEvery)

	m.Unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, m.Wait(ctx))

	f.push(4)
	time.Sleep(quietPeriod)

	assert.Equal(t, []int{1, 2, 3}, rec.values())
	assert.Equal(t, StateCancelled, m.State())

	last, ok := m.Last()
	require.True(t, ok)
	assert.Equal(t, 3, last)
}

func TestManagerUnsubscribeWhileWaitingToRetry(t *testing.T) {
	m := newTestManager(t)
	f := newFeed()
	f.openErr = func(int32) error { return errBroken }

	m.Start(f.open, nil, time.Hour)
	require.Eventually(t, func() bool { return m.Stats().Failures == 1 }, waitFor, pollEvery)

	m.Unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, m.Wait(ctx))
	assert.Equal(t, int32(1), f.opens.Load())
	assert.Equal(t, StateCancelled, m.State())
}

func TestManagerSecondStartIgnored(t *testing.T) {
	m := newTestManager(t)
	first := newFeed()
	second := newFeed()

	m.Start(first.open, nil, testRetry)
	m.Start(second.open, nil, testRetry)

	require.Eventually(t, func() bool { return m.State() == StateStreaming }, waitFor, pollEvery)
	assert.Equal(t, int32(1), first.opens.Load())
	assert.Equal(t, int32(0), second.opens.Load())
}

func TestManagerObservers(t *testing.T) {
	m := newTestManager(t)
	f := newFeed()
	var a, b recorder

	removeA := m.Observe(a.add)
	m.Observe(b.add)

	m.Start(f.open, nil, testRetry)
	f.push(1)
	require.Eventually(t, func() bool { return b.count() == 1 }, waitFor, pollEvery)

	removeA()
	removeA()

	f.push(2)
	require.Eventually(t, func() bool { return b.count() == 2 }, waitFor, pollEvery)

	assert.Equal(t, []int{1}, a.values())
	assert.Equal(t, []int{1, 2}, b.values())
}

func TestManagerObserverPanicIsIsolated(t *testing.T) {
	m := newTestManager(t)
	f := newFeed()
	var rec, cb recorder

	m.Observe(func(int) { panic("observer failure") })
	m.Observe(rec.add)

	m.Start(f.open, func(v int) {
		cb.add(v)
		if v == 1 {
			panic("callback failure")
		}
	}, testRetry)
	f.push(1, 2)

	require.Eventually(t, func() bool { return rec.count() == 2 }, waitFor, pollEvery)
	assert.Equal(t, []int{1, 2}, rec.values())
	assert.Equal(t, []int{1, 2}, cb.values())
	assert.Equal(t, uint64(0), m.Stats().Failures)
	assert.Equal(t, StateStreaming, m.State())
}

func TestManagerUnsubscribeFromObserver(t *testing.T) {
	m := newTestManager(t)
	f := newFeed()
	var cb, later recorder

	m.Observe(func(int) { m.Unsubscribe() })
	m.Observe(later.add)

	m.Start(f.open, cb.add, testRetry)
	f.push(1, 2)

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, m.Wait(ctx))

	assert.Equal(t, []int{1}, cb.values())
	assert.Empty(t, later.values())
}

func TestManagerDispose(t *testing.T) {
	m := newTestManager(t)
	f := newFeed()
	var rec recorder

	m.Observe(rec.add)
	m.Start(f.open, nil, testRetry)
	f.push(1)
	require.Eventually(t, func() bool { return rec.count() == 1 }, waitFor, pollEvery)

	m.Dispose()
	m.Dispose()

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, m.Wait(ctx))
	assert.Equal(t, StateCancelled, m.State())

	last, ok := m.Last()
	require.True(t, ok)
	assert.Equal(t, 1, last)
}

func TestManagerWaitHonoursContext(t *testing.T) {
	m := newTestManager(t)
	f := newFeed()
	m.Start(f.open, nil, testRetry)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, m.Wait(ctx), context.DeadlineExceeded)
}

func TestManagerConcurrentUnsubscribe(t *testing.T) {
	m := newTestManager(t)
	f := newFeed()
	m.Start(f.open, nil, testRetry)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Unsubscribe()
		}()
	}
	wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, m.Wait(ctx))
	assert.Equal(t, StateCancelled, m.State())
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateSubscribing, "subscribing"},
		{StateStreaming, "streaming"},
		{StateCancelled, "cancelled"},
		{State(9), "State(9)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}
