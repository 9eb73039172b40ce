// ============================================================================
// schedclients - Fleet Scheduler Client Library
// ============================================================================
//
// Package:     clients
// Description: Per-service clients of the fleet scheduler
// Created:     2026-03-02
// License:     MIT
// ============================================================================

// Package clients provides one client per scheduler service. One-shot calls
// return the decoded payload or an error. Services that push updates are
// consumed through a subscription.Manager that keeps the stream alive until
// the client is closed.
package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/msto63/schedclients/api/scheduling"
	"github.com/msto63/schedclients/pkg/core/health"
	"github.com/msto63/schedclients/pkg/core/logging"
	"github.com/msto63/schedclients/pkg/subscription"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

// AnyAgent lets the scheduler pick the agent when committing a job
const AnyAgent int32 = -1

// DefaultPort is the port the scheduler listens on
const DefaultPort uint16 = 41916

// Settings controls the behaviour shared by all clients
type Settings struct {
	// Subscribe starts the update stream when the client is created
	Subscribe bool
	// RetryDelay is the wait between reconnect attempts
	RetryDelay time.Duration
	// CallTimeout bounds each one-shot call, zero disables it
	CallTimeout time.Duration
}

// DefaultSettings returns the settings used when none are given
func DefaultSettings() Settings {
	return Settings{
		Subscribe:   true,
		RetryDelay:  subscription.DefaultRetryDelay,
		CallTimeout: 10 * time.Second,
	}
}

// ServiceError is returned when the scheduler answers with a service code
// other than NoError
type ServiceError struct {
	Op      string
	Code    scheduling.ServiceCode
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Message)
}

// CodeOf returns the service code carried by err. Transport and local
// errors map to ClientException, nil to NoError.
func CodeOf(err error) scheduling.ServiceCode {
	if err == nil {
		return scheduling.ServiceCodeNoError
	}
	var serr *ServiceError
	if errors.As(err, &serr) {
		return serr.Code
	}
	return scheduling.ServiceCodeClientException
}

type outcome interface {
	Outcome() (scheduling.ServiceCode, string)
}

// base holds what every client shares
type base struct {
	logger   *logging.Logger
	settings Settings

	// conn is set when the client dialled its own connection
	conn      io.Closer
	closeOnce sync.Once
	closeErr  error
}

func newBase(name string, settings Settings, logger *logging.Logger) base {
	if logger == nil {
		logger = logging.New(name)
	} else {
		logger = logger.WithName(name)
	}
	if settings.RetryDelay <= 0 {
		settings.RetryDelay = subscription.DefaultRetryDelay
	}
	return base{logger: logger, settings: settings}
}

func (b *base) closeConn() error {
	b.closeOnce.Do(func() {
		if b.conn != nil {
			b.closeErr = b.conn.Close()
		}
	})
	return b.closeErr
}

func (b *base) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.settings.CallTimeout > 0 {
		return context.WithTimeout(ctx, b.settings.CallTimeout)
	}
	return context.WithCancel(ctx)
}

// call runs one request and checks the envelope of its result
func call[Res outcome](ctx context.Context, b *base, op string, fn func(context.Context) (Res, error), keysAndValues ...interface{}) (Res, error) {
	var zero Res

	logger := b.logger.With(append([]interface{}{"op", op}, keysAndValues...)...)
	logger.Trace("Call started")

	ctx, cancel := b.callContext(ctx)
	defer cancel()

	logger.Debug("Sending request")
	res, err := fn(ctx)
	if err != nil {
		logger.Error("Request failed", "error", err)
		return zero, fmt.Errorf("%s: %w", op, err)
	}

	code, msg := res.Outcome()
	if code != scheduling.ServiceCodeNoError {
		logger.Error("Request rejected", "code", code.String(), "message", msg)
		return zero, &ServiceError{Op: op, Code: code, Message: msg}
	}

	logger.Info("Request succeeded")
	return res, nil
}

// feed owns the subscription of one streaming client
type feed[M any] struct {
	mgr    *subscription.Manager[*M]
	open   subscription.OpenFunc[*M]
	handle func(*M)
	retry  time.Duration
}

func newFeed[M any](name string, b *base, subscribe func(context.Context, *emptypb.Empty, ...grpc.CallOption) (grpc.ServerStreamingClient[M], error), handle func(*M)) *feed[M] {
	f := &feed[M]{
		mgr: subscription.NewManager[*M](
			subscription.WithName(name),
			subscription.WithLogger(b.logger),
		),
		open: func(ctx context.Context) (subscription.Receiver[*M], error) {
			stream, err := subscribe(ctx, &emptypb.Empty{})
			if err != nil {
				return nil, err
			}
			return stream, nil
		},
		handle: handle,
		retry:  b.settings.RetryDelay,
	}
	if b.settings.Subscribe {
		f.Subscribe()
	}
	return f
}

// Subscribe starts the update stream. It does nothing when the stream is
// already running or the client was closed.
func (f *feed[M]) Subscribe() {
	f.mgr.Start(f.open, f.handle, f.retry)
}

// Unsubscribe stops the update stream for good
func (f *feed[M]) Unsubscribe() {
	f.mgr.Unsubscribe()
}

// SubscriptionState returns the state of the update stream
func (f *feed[M]) SubscriptionState() subscription.State {
	return f.mgr.State()
}

// Stats returns counters of the update stream
func (f *feed[M]) Stats() subscription.Stats {
	return f.mgr.Stats()
}

// HealthCheck reports the update stream as a health check
func (f *feed[M]) HealthCheck() health.Checker {
	return health.SubscriptionCheck(f.mgr)
}

// Wait blocks until the update stream has stopped or ctx is done
func (f *feed[M]) Wait(ctx context.Context) error {
	return f.mgr.Wait(ctx)
}

func (f *feed[M]) observe(fn func(*M)) (remove func()) {
	return f.mgr.Observe(fn)
}

func (f *feed[M]) last() (*M, bool) {
	return f.mgr.Last()
}

func (f *feed[M]) dispose() {
	f.mgr.Dispose()
}

// Streamer is implemented by every client that consumes an update stream
type Streamer interface {
	Subscribe()
	Unsubscribe()
	SubscriptionState() subscription.State
	Stats() subscription.Stats
	HealthCheck() health.Checker
	Wait(ctx context.Context) error
	Close() error
}
