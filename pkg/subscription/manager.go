// ============================================================================
// schedclients - Fleet Scheduler Client Library
// ============================================================================
//
// Package:     subscription
// Description: Generic auto-reconnecting consumer of server-streaming calls
// Created:     2026-03-02
// License:     MIT
// ============================================================================

// Package subscription keeps a server-pushed update stream alive for the
// lifetime of a client. A Manager opens the stream, delivers every message to
// a callback and to registered observers, remembers the last message and
// reopens the stream after a fixed delay whenever it fails or ends. Only
// Unsubscribe or Dispose stop it.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/msto63/schedclients/pkg/core/logging"
)

// DefaultRetryDelay is used when Start is given a non-positive delay
const DefaultRetryDelay = time.Second

// ErrStreamClosed is recorded when the peer ends a stream normally
var ErrStreamClosed = errors.New("stream closed by peer")

// Receiver is one open stream. grpc.ServerStreamingClient[M] satisfies
// Receiver[*M]. Recv returns io.EOF when the peer closes the stream.
type Receiver[T any] interface {
	Recv() (T, error)
}

// OpenFunc opens one stream bound to ctx
type OpenFunc[T any] func(ctx context.Context) (Receiver[T], error)

// Option configures a Manager
type Option func(*options)

type options struct {
	name   string
	logger *logging.Logger
}

// WithName sets the name used in log entries and health reports
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

type observer[T any] struct {
	id uint64
	fn func(T)
}

// Manager maintains one resilient subscription
type Manager[T any] struct {
	name   string
	logger *logging.Logger

	// One signal for the whole lifetime; never recreated.
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	started  bool
	disposed bool

	done     chan struct{}
	doneOnce sync.Once

	state atomic.Int32
	last  atomic.Pointer[T]

	obsMu     sync.RWMutex
	observers []observer[T]
	nextObsID uint64

	attempts atomic.Uint64
	messages atomic.Uint64
	failures atomic.Uint64

	statsMu       sync.Mutex
	lastErr       string
	connectedAt   time.Time
	lastMessageAt time.Time
}

// NewManager creates an idle Manager
func NewManager[T any](opts ...Option) *Manager[T] {
	o := options{name: "subscription"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.New("subscription")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager[T]{
		name:   o.name,
		logger: o.logger.With("subscription", o.name),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Name returns the manager name
func (m *Manager[T]) Name() string {
	return m.name
}

// Start launches the background loop. It returns immediately. Calls after
// the first, or after Unsubscribe, are ignored.
func (m *Manager[T]) Start(open OpenFunc[T], onMessage func(T), retryDelay time.Duration) {
	if open == nil {
		m.logger.Error("Start called without a stream source")
		return
	}
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}

	m.mu.Lock()
	if m.started || m.ctx.Err() != nil {
		m.mu.Unlock()
		m.logger.Debug("Start ignored", "state", m.State())
		return
	}
	m.started = true
	m.setState(StateSubscribing)
	m.mu.Unlock()

	go m.run(open, onMessage, retryDelay)
}

// Unsubscribe stops the subscription. It does not wait for the loop to exit;
// use Wait or Done for that. Safe to call any number of times from any
// goroutine, including from an observer.
func (m *Manager[T]) Unsubscribe() {
	m.mu.Lock()
	first := m.ctx.Err() == nil
	m.cancel()
	m.state.Store(int32(StateCancelled))
	started := m.started
	m.mu.Unlock()

	if !started {
		m.finish()
	}
	if first {
		m.logger.Debug("Unsubscribe requested")
	}
}

// Dispose unsubscribes and drops all observers. The last value stays readable.
func (m *Manager[T]) Dispose() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.disposed = true
	m.mu.Unlock()

	m.Unsubscribe()

	m.obsMu.Lock()
	m.observers = nil
	m.obsMu.Unlock()
}

// Done is closed once the loop has exited, or on Unsubscribe if it never started
func (m *Manager[T]) Done() <-chan struct{} {
	return m.done
}

// Wait blocks until the loop has exited or ctx is done
func (m *Manager[T]) Wait(ctx context.Context) error {
	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Observe registers fn for every delivered message. The returned function
// removes it and may be called more than once.
func (m *Manager[T]) Observe(fn func(T)) (remove func()) {
	if fn == nil {
		return func() {}
	}

	m.obsMu.Lock()
	m.nextObsID++
	id := m.nextObsID
	m.observers = append(m.observers[:len(m.observers):len(m.observers)], observer[T]{id: id, fn: fn})
	m.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.obsMu.Lock()
			defer m.obsMu.Unlock()

			kept := make([]observer[T], 0, len(m.observers))
			for _, o := range m.observers {
				if o.id != id {
					kept = append(kept, o)
				}
			}
			m.observers = kept
		})
	}
}

// Last returns the most recently delivered message
func (m *Manager[T]) Last() (T, bool) {
	if p := m.last.Load(); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

// State returns the current state
func (m *Manager[T]) State() State {
	return State(m.state.Load())
}

// Stats returns counters and timestamps of the subscription
func (m *Manager[T]) Stats() Stats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()

	return Stats{
		State:         m.State(),
		Attempts:      m.attempts.Load(),
		Messages:      m.messages.Load(),
		Failures:      m.failures.Load(),
		LastError:     m.lastErr,
		ConnectedAt:   m.connectedAt,
		LastMessageAt: m.lastMessageAt,
	}
}

func (m *Manager[T]) run(open OpenFunc[T], onMessage func(T), retryDelay time.Duration) {
	defer m.finish()

	logger := m.logger.With("subscription_id", uuid.NewString())
	logger.Trace("Subscribe loop started")

	for m.ctx.Err() == nil {
		err := m.attempt(logger, open, onMessage)
		if m.ctx.Err() != nil {
			break
		}

		m.failures.Add(1)
		m.statsMu.Lock()
		m.lastErr = err.Error()
		m.statsMu.Unlock()

		logger.Warn("Subscription interrupted, retrying", "error", err, "retry_in", retryDelay)
		m.setState(StateSubscribing)

		timer := time.NewTimer(retryDelay)
		select {
		case <-m.ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}

	logger.Info("Subscription cancelled")
}

// attempt runs one stream from open to failure. The returned error is never nil.
func (m *Manager[T]) attempt(logger *logging.Logger, open OpenFunc[T], onMessage func(T)) error {
	m.setState(StateSubscribing)
	n := m.attempts.Add(1)
	logger.Debug("Opening stream", "attempt", n)

	stream, err := open(m.ctx)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	if stream == nil {
		return errors.New("open stream: no stream returned")
	}

	m.setState(StateStreaming)
	m.statsMu.Lock()
	m.connectedAt = time.Now()
	m.statsMu.Unlock()

	for {
		msg, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ErrStreamClosed
			}
			return err
		}
		// A message that raced with Unsubscribe is dropped.
		if m.ctx.Err() != nil {
			return m.ctx.Err()
		}
		logger.Trace("Received message")
		m.deliver(logger, msg, onMessage)
	}
}

func (m *Manager[T]) deliver(logger *logging.Logger, msg T, onMessage func(T)) {
	v := msg
	m.last.Store(&v)
	m.messages.Add(1)
	m.statsMu.Lock()
	m.lastMessageAt = time.Now()
	m.statsMu.Unlock()

	if onMessage != nil {
		m.invoke(logger, "callback", onMessage, msg)
	}

	m.obsMu.RLock()
	observers := m.observers
	m.obsMu.RUnlock()

	for _, o := range observers {
		if m.ctx.Err() != nil {
			return
		}
		m.invoke(logger, "observer", o.fn, msg)
	}
}

func (m *Manager[T]) invoke(logger *logging.Logger, kind string, fn func(T), msg T) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Subscriber panicked", "kind", kind, "panic", fmt.Sprint(r))
		}
	}()
	fn(msg)
}

// setState moves to s unless the manager is already cancelled
func (m *Manager[T]) setState(s State) {
	for {
		cur := m.state.Load()
		if State(cur) == StateCancelled {
			return
		}
		if m.state.CompareAndSwap(cur, int32(s)) {
			return
		}
	}
}

func (m *Manager[T]) finish() {
	m.state.Store(int32(StateCancelled))
	m.doneOnce.Do(func() {
		close(m.done)
	})
}
