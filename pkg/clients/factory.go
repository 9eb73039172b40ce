package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"sync"
	"time"

	"github.com/msto63/schedclients/pkg/core/config"
	coregrpc "github.com/msto63/schedclients/pkg/core/grpc"
	"github.com/msto63/schedclients/pkg/core/health"
	"github.com/msto63/schedclients/pkg/core/logging"
	"github.com/msto63/schedclients/pkg/core/version"
	"google.golang.org/grpc"
)

// closeWait bounds how long Fleet.Close waits for subscription loops
const closeWait = 2 * time.Second

// ErrInvalidAddress is returned when dialling an invalid scheduler address
var ErrInvalidAddress = errors.New("invalid scheduler address")

type connOwner interface {
	adopt(conn io.Closer)
}

func (b *base) adopt(conn io.Closer) {
	b.conn = conn
}

type clientBuilder[C connOwner] func(grpc.ClientConnInterface, Settings, *logging.Logger) C

// dialClient dials a private connection that the returned client closes
func dialClient[C connOwner](ctx context.Context, addr netip.Addr, port uint16, subscribe bool, build clientBuilder[C], opts ...grpc.DialOption) (C, error) {
	var zero C

	if !addr.IsValid() {
		return zero, ErrInvalidAddress
	}
	if port == 0 {
		port = DefaultPort
	}

	conn, err := coregrpc.Dial(ctx, coregrpc.DefaultClientConfig(netip.AddrPortFrom(addr, port).String()), opts...)
	if err != nil {
		return zero, err
	}

	settings := DefaultSettings()
	settings.Subscribe = subscribe

	c := build(conn, settings, nil)
	c.adopt(conn)
	return c, nil
}

// DialAgentClient creates an AgentClient with its own connection. Port 0 means DefaultPort.
func DialAgentClient(ctx context.Context, addr netip.Addr, port uint16, subscribe bool, opts ...grpc.DialOption) (*AgentClient, error) {
	return dialClient(ctx, addr, port, subscribe, NewAgentClient, opts...)
}

// DialJobBuilderClient creates a JobBuilderClient with its own connection
func DialJobBuilderClient(ctx context.Context, addr netip.Addr, port uint16, opts ...grpc.DialOption) (*JobBuilderClient, error) {
	return dialClient(ctx, addr, port, false, NewJobBuilderClient, opts...)
}

// DialJobsStateClient creates a JobsStateClient with its own connection
func DialJobsStateClient(ctx context.Context, addr netip.Addr, port uint16, subscribe bool, opts ...grpc.DialOption) (*JobsStateClient, error) {
	return dialClient(ctx, addr, port, subscribe, NewJobsStateClient, opts...)
}

// DialJobStateClient creates a JobStateClient with its own connection
func DialJobStateClient(ctx context.Context, addr netip.Addr, port uint16, subscribe bool, opts ...grpc.DialOption) (*JobStateClient, error) {
	return dialClient(ctx, addr, port, subscribe, NewJobStateClient, opts...)
}

// DialTaskStateClient creates a TaskStateClient with its own connection
func DialTaskStateClient(ctx context.Context, addr netip.Addr, port uint16, subscribe bool, opts ...grpc.DialOption) (*TaskStateClient, error) {
	return dialClient(ctx, addr, port, subscribe, NewTaskStateClient, opts...)
}

// DialMapClient creates a MapClient with its own connection
func DialMapClient(ctx context.Context, addr netip.Addr, port uint16, subscribe bool, opts ...grpc.DialOption) (*MapClient, error) {
	return dialClient(ctx, addr, port, subscribe, NewMapClient, opts...)
}

// DialSchedulingClient creates a SchedulingClient with its own connection
func DialSchedulingClient(ctx context.Context, addr netip.Addr, port uint16, subscribe bool, opts ...grpc.DialOption) (*SchedulingClient, error) {
	return dialClient(ctx, addr, port, subscribe, NewSchedulingClient, opts...)
}

// DialServicingClient creates a ServicingClient with its own connection
func DialServicingClient(ctx context.Context, addr netip.Addr, port uint16, subscribe bool, opts ...grpc.DialOption) (*ServicingClient, error) {
	return dialClient(ctx, addr, port, subscribe, NewServicingClient, opts...)
}

// DialVersionClient creates a VersionClient with its own connection
func DialVersionClient(ctx context.Context, addr netip.Addr, port uint16, opts ...grpc.DialOption) (*VersionClient, error) {
	return dialClient(ctx, addr, port, false, NewVersionClient, opts...)
}

// SettingsFromConfig maps the scheduler section of the configuration
func SettingsFromConfig(cfg config.SchedulerConfig) Settings {
	return Settings{
		Subscribe:   cfg.AutoSubscribe(),
		RetryDelay:  cfg.RetryDelay.Duration,
		CallTimeout: cfg.Timeout.Duration,
	}
}

// Fleet bundles one client per service on a shared connection
type Fleet struct {
	Agents     *AgentClient
	JobBuilder *JobBuilderClient
	JobsState  *JobsStateClient
	JobState   *JobStateClient
	TaskState  *TaskStateClient
	Map        *MapClient
	Scheduling *SchedulingClient
	Servicing  *ServicingClient
	Version    *VersionClient

	target string
	conn   grpc.ClientConnInterface
	pool   *coregrpc.ConnectionPool
	logger *logging.Logger

	closeOnce sync.Once
	closeErr  error
}

// NewFleet connects to the scheduler named in cfg and creates every client
func NewFleet(ctx context.Context, cfg *config.Config, opts ...grpc.DialOption) (*Fleet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	clientCfg := coregrpc.DefaultClientConfig("")
	clientCfg.MaxRecvMsgSize = cfg.GRPC.MaxRecvMsgSize
	clientCfg.MaxSendMsgSize = cfg.GRPC.MaxSendMsgSize
	clientCfg.KeepaliveInterval = cfg.GRPC.KeepaliveInterval.Duration
	clientCfg.KeepaliveTimeout = cfg.GRPC.KeepaliveTimeout.Duration

	pool := coregrpc.NewConnectionPool(clientCfg, opts...)
	target := cfg.SchedulerAddress()

	conn, err := pool.Get(ctx, target)
	if err != nil {
		pool.Close()
		return nil, err
	}

	f := NewFleetWithConn(conn, SettingsFromConfig(cfg.Scheduler), logging.New("fleet"))
	f.target = target
	f.pool = pool
	return f, nil
}

// NewFleetWithConn creates every client on an existing connection, which
// the fleet does not close
func NewFleetWithConn(cc grpc.ClientConnInterface, settings Settings, logger *logging.Logger) *Fleet {
	if logger == nil {
		logger = logging.New("fleet")
	}

	f := &Fleet{
		Agents:     NewAgentClient(cc, settings, logger),
		JobBuilder: NewJobBuilderClient(cc, settings, logger),
		JobsState:  NewJobsStateClient(cc, settings, logger),
		JobState:   NewJobStateClient(cc, settings, logger),
		TaskState:  NewTaskStateClient(cc, settings, logger),
		Map:        NewMapClient(cc, settings, logger),
		Scheduling: NewSchedulingClient(cc, settings, logger),
		Servicing:  NewServicingClient(cc, settings, logger),
		Version:    NewVersionClient(cc, settings, logger),
		conn:       cc,
		logger:     logger,
	}

	logger.Info("Fleet clients created", "subscribe", settings.Subscribe)
	return f
}

// Streamers returns the clients that consume update streams
func (f *Fleet) Streamers() map[string]Streamer {
	return map[string]Streamer{
		"agents":     f.Agents,
		"jobs-state": f.JobsState,
		"job-state":  f.JobState,
		"task-state": f.TaskState,
		"map":        f.Map,
		"scheduling": f.Scheduling,
		"servicing":  f.Servicing,
	}
}

// Subscribe starts every update stream that is not running yet
func (f *Fleet) Subscribe() {
	for _, s := range f.Streamers() {
		s.Subscribe()
	}
}

// Health returns a registry with one check per update stream and one for the connection
func (f *Fleet) Health() *health.Registry {
	registry := health.NewRegistry("schedclients", version.Library)
	for _, s := range f.Streamers() {
		registry.Register(s.HealthCheck())
	}
	if cc, ok := f.conn.(*grpc.ClientConn); ok {
		registry.Register(health.ConnectionCheck("connection", f.target, cc.GetState))
	}
	return registry
}

// Close stops every client, waits a bounded time for their loops and
// closes the shared connection when the fleet dialled it
func (f *Fleet) Close() error {
	f.closeOnce.Do(func() {
		streamers := f.Streamers()
		for _, s := range streamers {
			s.Close()
		}
		f.JobBuilder.Close()
		f.Version.Close()

		ctx, cancel := context.WithTimeout(context.Background(), closeWait)
		defer cancel()
		for name, s := range streamers {
			if err := s.Wait(ctx); err != nil {
				f.logger.Warn("Subscription did not stop in time", "client", name)
			}
		}

		if f.pool != nil {
			f.closeErr = f.pool.Close()
		}
		f.logger.Info("Fleet closed")
	})
	return f.closeErr
}
